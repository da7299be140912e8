// Package testutil 测试用的内存 SQLite 数据库
package testutil

import (
	"context"
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

// Driver 测试数据库使用的驱动名
const Driver = "sqlite"

const schema = `
CREATE TABLE movies (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	title      VARCHAR(255) NOT NULL,
	year       INTEGER,
	genre      VARCHAR(100),
	rating     REAL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// NewDB 打开建好 movies 表的内存数据库，测试结束时关闭
func NewDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open(Driver, ":memory:")
	if err != nil {
		t.Fatalf("testutil.NewDB: open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	// :memory: 的每个连接都是独立的数据库
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(context.Background(), schema); err != nil {
		t.Fatalf("testutil.NewDB: create schema: %v", err)
	}

	return db
}

// InsertMovie 绕过仓库直接插入一行
func InsertMovie(t *testing.T, db *sql.DB, title string, year any, genre any, rating any) int64 {
	t.Helper()

	res, err := db.ExecContext(context.Background(),
		"INSERT INTO movies (title, year, genre, rating) VALUES (?, ?, ?, ?)",
		title, year, genre, rating,
	)
	if err != nil {
		t.Fatalf("testutil.InsertMovie: %v", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("testutil.InsertMovie: last insert id: %v", err)
	}
	return id
}

// CountMovies 返回 movies 表的行数
func CountMovies(t *testing.T, db *sql.DB) int {
	t.Helper()

	var n int
	if err := db.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM movies").Scan(&n); err != nil {
		t.Fatalf("testutil.CountMovies: %v", err)
	}
	return n
}
