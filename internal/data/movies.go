package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/liliang-cn/movieapi/internal/validator"
)

// Movie 电影记录，可选字段为空时序列化为 null
type Movie struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Year      *int32    `json:"year"`
	Genre     *string   `json:"genre"`
	Rating    *float64  `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}

// MovieInput 创建和更新请求体，每个字段都能区分未出现、null 和有值
type MovieInput struct {
	Title  Optional[string]  `json:"title"`
	Year   Optional[int32]   `json:"year"`
	Genre  Optional[string]  `json:"genre"`
	Rating Optional[float64] `json:"rating"`
}

// Empty 请求体中没有任何可识别的字段
func (in *MovieInput) Empty() bool {
	return !in.Title.Set && !in.Year.Set && !in.Genre.Set && !in.Rating.Set
}

// fields 返回请求体中有值的列；缺省和显式 null 都视为不修改
func (in *MovieInput) fields() map[string]any {
	fields := make(map[string]any, 4)
	if in.Title.Present() {
		fields["title"] = in.Title.Value
	}
	if in.Year.Present() {
		fields["year"] = in.Year.Value
	}
	if in.Genre.Present() {
		fields["genre"] = in.Genre.Value
	}
	if in.Rating.Present() {
		fields["rating"] = in.Rating.Value
	}
	return fields
}

// ValidateMovieInput 校验请求体；partial 为 true 时按局部更新处理，title 不是必填但至少要有一个字段
func ValidateMovieInput(v *validator.Validator, in *MovieInput, partial bool) {
	if partial {
		v.Check(!in.Empty(), "body", "must contain at least one of title, year, genre, rating")
	} else {
		v.Check(in.Title.Set, "title", "must be provided")
	}

	if in.Title.Set {
		v.Check(!in.Title.Null, "title", "must not be null")
		v.Check(in.Title.Null || in.Title.Value != "", "title", "must not be empty")
		v.Check(utf8.RuneCountInString(in.Title.Value) <= 255, "title", "must not be more than 255 characters long")
	}

	if in.Year.Present() {
		maxYear := int32(time.Now().Year() + 1)
		v.Check(in.Year.Value >= 1900, "year", "must be greater than or equal to 1900")
		v.Check(in.Year.Value <= maxYear, "year", fmt.Sprintf("must not be later than %d", maxYear))
	}

	if in.Genre.Present() {
		v.Check(utf8.RuneCountInString(in.Genre.Value) <= 100, "genre", "must not be more than 100 characters long")
	}

	if in.Rating.Present() {
		v.Check(validator.Between(in.Rating.Value, 0, 10), "rating", "must be between 0 and 10")
		v.Check(validator.MaxDecimals(in.Rating.Value, 1), "rating", "must have at most one decimal place")
	}
}

// DBTX 仓库需要的连接池能力，*sql.DB 和 *sql.Tx 都满足
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// MovieModel 电影数据访问
type MovieModel struct {
	DB    DBTX
	Query QueryBuilder
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMovie(row rowScanner) (*Movie, error) {
	var movie Movie
	err := row.Scan(
		&movie.ID,
		&movie.Title,
		&movie.Year,
		&movie.Genre,
		&movie.Rating,
		&movie.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

// GetAll 先统计总数再查询当前页；两条语句之间没有事务，总数可能与并发写入后的结果略有出入
func (m MovieModel) GetAll(ctx context.Context, filters Filters) ([]*Movie, Pagination, error) {
	count := m.Query.BuildCount(filters.Search)

	var total int64
	err := m.DB.QueryRowContext(ctx, count.SQL, count.Args...).Scan(&total)
	if err != nil {
		return nil, Pagination{}, &StoreError{Op: "count", Err: err}
	}

	list := m.Query.BuildList(filters)

	rows, err := m.DB.QueryContext(ctx, list.SQL, list.Args...)
	if err != nil {
		return nil, Pagination{}, &StoreError{Op: "list", Err: err}
	}
	defer rows.Close()

	movies := []*Movie{}
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			return nil, Pagination{}, &StoreError{Op: "list", Err: err}
		}
		movies = append(movies, movie)
	}
	if err = rows.Err(); err != nil {
		return nil, Pagination{}, &StoreError{Op: "list", Err: err}
	}

	return movies, calculatePagination(total, filters.Page, filters.Limit), nil
}

// Get 按 id 获取电影，不存在时返回 ErrRecordNotFound
func (m MovieModel) Get(ctx context.Context, id int64) (*Movie, error) {
	return m.get(ctx, "get", id)
}

func (m MovieModel) get(ctx context.Context, op string, id int64) (*Movie, error) {
	if id < 1 {
		return nil, ErrRecordNotFound
	}

	q := m.Query.BuildGet(id)

	movie, err := scanMovie(m.DB.QueryRowContext(ctx, q.SQL, q.Args...))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, &StoreError{Op: op, ID: id, Err: err}
		}
	}

	return movie, nil
}

// Insert 插入新电影并重新读取，返回数据库中的最终形态（包含 created_at 等默认值）
func (m MovieModel) Insert(ctx context.Context, in *MovieInput) (*Movie, error) {
	q := m.Query.BuildInsert(in.Title.Value, in.Year.Ptr(), in.Genre.Ptr(), in.Rating.Ptr())

	var id int64
	err := m.DB.QueryRowContext(ctx, q.SQL, q.Args...).Scan(&id)
	if err != nil {
		return nil, &StoreError{Op: "create", Err: err}
	}

	return m.get(ctx, "create", id)
}

// Update 局部更新：先确认存在，只修改请求中有值的字段，没有可修改的字段时直接返回原记录
func (m MovieModel) Update(ctx context.Context, id int64, in *MovieInput) (*Movie, error) {
	existing, err := m.get(ctx, "update", id)
	if err != nil {
		return nil, err
	}

	q, ok := m.Query.BuildSparseUpdate(id, in.fields())
	if !ok {
		return existing, nil
	}

	_, err = m.DB.ExecContext(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, &StoreError{Op: "update", ID: id, Err: err}
	}

	return m.get(ctx, "update", id)
}

// Delete 先检查记录是否存在再删除，存在时返回 true
func (m MovieModel) Delete(ctx context.Context, id int64) (bool, error) {
	_, err := m.get(ctx, "delete", id)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	q := m.Query.BuildDelete(id)

	_, err = m.DB.ExecContext(ctx, q.SQL, q.Args...)
	if err != nil {
		return false, &StoreError{Op: "delete", ID: id, Err: err}
	}

	return true, nil
}
