package main

import (
	"context"
	"database/sql"
	"errors"
	"expvar"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	"github.com/spf13/pflag"
	_ "modernc.org/sqlite"

	"github.com/liliang-cn/movieapi/internal/data"
	"github.com/liliang-cn/movieapi/internal/jsonlog"
)

var (
	buildTime string
	version   string
)

// 应用定义
type application struct {
	config  config
	logger  *jsonlog.Logger
	db      *sql.DB
	models  data.Models
	metrics *metrics
}

func main() {
	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	// 显示版本
	if cfg.displayVersion {
		fmt.Printf("Version:\t%s\n", version)
		fmt.Printf("Build time:\t%s\n", buildTime)
		os.Exit(0)
	}

	logger := jsonlog.New(os.Stdout, cfg.logLevel)
	defer logger.Sync()

	// 连接数据库
	db, err := openDB(cfg)
	if err != nil {
		logger.PrintFatal(err, nil)
	}

	// 退出前关闭数据库连接
	defer db.Close()

	logger.PrintInfo("database connection pool established", map[string]string{
		"driver": cfg.db.driver,
	})

	// 发布版本信息
	expvar.NewString("version").Set(version)

	// 发布活动的 goroutine 数
	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	// 发布数据库连接的统计信息
	expvar.Publish("database", expvar.Func(func() any {
		return db.Stats()
	}))

	// 发布当前的时间信息
	expvar.Publish("timestamp", expvar.Func(func() any {
		return time.Now().Unix()
	}))

	// 初始化应用
	app := &application{
		config:  cfg,
		logger:  logger,
		db:      db,
		models:  data.NewModels(db, cfg.db.driver),
		metrics: newMetrics(db),
	}

	// SIGINT 或 SIGTERM 触发优雅关闭
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 启动 server
	err = app.serve(ctx)
	if err != nil {
		logger.PrintFatal(err, nil)
	}
}

// sqlitePragmas 连接建立后执行；modernc.org/sqlite 只能通过 SQL 语句设置
var sqlitePragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA busy_timeout=5000",
	"PRAGMA synchronous=NORMAL",
	"PRAGMA foreign_keys=ON",
}

// 连接数据库
func openDB(cfg config) (*sql.DB, error) {
	db, err := sql.Open(cfg.db.driver, cfg.db.dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.db.maxOpenConns)
	db.SetMaxIdleConns(cfg.db.maxIdleConns)
	db.SetConnMaxIdleTime(cfg.db.maxIdleTime)

	// PRAGMA 只作用于执行它的连接，SQLite 固定使用一个不过期的连接
	if cfg.db.driver == "sqlite" {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxIdleTime(0)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = db.PingContext(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	if cfg.db.driver == "sqlite" {
		for _, p := range sqlitePragmas {
			if _, err := db.ExecContext(ctx, p); err != nil {
				db.Close()
				return nil, fmt.Errorf("exec %q: %w", p, err)
			}
		}
	}

	return db, nil
}
