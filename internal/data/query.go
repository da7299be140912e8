package data

import (
	"fmt"
	"strings"
)

// Placeholder 决定绑定参数在 SQL 文本中的写法
type Placeholder int

const (
	// Dollar PostgreSQL 风格 $1, $2 ...
	Dollar Placeholder = iota
	// Question SQLite/MySQL 风格 ?
	Question
)

func (p Placeholder) format(n int) string {
	if p == Question {
		return "?"
	}
	return fmt.Sprintf("$%d", n)
}

// PlaceholderFor 根据驱动名返回对应的占位符风格
func PlaceholderFor(driver string) Placeholder {
	switch driver {
	case "sqlite", "sqlite3":
		return Question
	default:
		return Dollar
	}
}

const (
	movieTable   = "movies"
	movieColumns = "id, title, year, genre, rating, created_at"
)

// movieUpdatableColumns 允许出现在 SET 子句中的列，顺序固定
var movieUpdatableColumns = []string{"title", "year", "genre", "rating"}

// Query SQL 文本和绑定参数
type Query struct {
	SQL  string
	Args []any
}

// QueryBuilder 构造 movies 表的参数化语句，客户端传入的值只会作为绑定参数出现
type QueryBuilder struct {
	placeholder Placeholder
}

// NewQueryBuilder 返回一个使用指定占位符风格的 QueryBuilder
func NewQueryBuilder(p Placeholder) QueryBuilder {
	return QueryBuilder{placeholder: p}
}

// args 记录绑定参数并生成下一个占位符
type args struct {
	placeholder Placeholder
	values      []any
}

func (a *args) bind(v any) string {
	a.values = append(a.values, v)
	return a.placeholder.format(len(a.values))
}

func (b QueryBuilder) newArgs() *args {
	return &args{placeholder: b.placeholder}
}

// searchClause 搜索词非空时生成 title/genre 的 LIKE 条件
func (b QueryBuilder) searchClause(a *args, search string) string {
	if search == "" {
		return ""
	}

	pattern := "%" + search + "%"
	return fmt.Sprintf(" WHERE title LIKE %s OR genre LIKE %s", a.bind(pattern), a.bind(pattern))
}

// BuildCount 统计符合搜索条件的行数
func (b QueryBuilder) BuildCount(search string) Query {
	a := b.newArgs()
	sql := "SELECT COUNT(*) FROM " + movieTable + b.searchClause(a, search)

	return Query{SQL: sql, Args: a.values}
}

// BuildList 查询一页数据，排序列和方向来自白名单，limit/offset 作为整数参数绑定
func (b QueryBuilder) BuildList(f Filters) Query {
	a := b.newArgs()

	var sb strings.Builder
	sb.WriteString("SELECT " + movieColumns + " FROM " + movieTable)
	sb.WriteString(b.searchClause(a, f.Search))

	sb.WriteString(fmt.Sprintf(" ORDER BY %s %s", f.sortColumn(), f.sortDirection()))
	if f.sortColumn() != "id" {
		sb.WriteString(", id ASC")
	}

	sb.WriteString(fmt.Sprintf(" LIMIT %s OFFSET %s", a.bind(f.Limit), a.bind(f.Offset())))

	return Query{SQL: sb.String(), Args: a.values}
}

// BuildGet 按 id 查询单行
func (b QueryBuilder) BuildGet(id int64) Query {
	a := b.newArgs()
	sql := fmt.Sprintf("SELECT %s FROM %s WHERE id = %s", movieColumns, movieTable, a.bind(id))

	return Query{SQL: sql, Args: a.values}
}

// BuildInsert 插入四个可写列，未设置的可选字段传 nil
func (b QueryBuilder) BuildInsert(title string, year *int32, genre *string, rating *float64) Query {
	a := b.newArgs()
	sql := fmt.Sprintf("INSERT INTO %s (title, year, genre, rating) VALUES (%s, %s, %s, %s) RETURNING id",
		movieTable, a.bind(title), a.bind(nullable(year)), a.bind(nullable(genre)), a.bind(nullable(rating)))

	return Query{SQL: sql, Args: a.values}
}

// BuildSparseUpdate 只为 fields 中出现的列生成 SET 子句；没有可更新的列时返回 false
func (b QueryBuilder) BuildSparseUpdate(id int64, fields map[string]any) (Query, bool) {
	a := b.newArgs()

	var sets []string
	for _, col := range movieUpdatableColumns {
		v, ok := fields[col]
		if !ok {
			continue
		}
		sets = append(sets, fmt.Sprintf("%s = %s", col, a.bind(v)))
	}

	if len(sets) == 0 {
		return Query{}, false
	}

	sql := fmt.Sprintf("UPDATE %s SET %s WHERE id = %s", movieTable, strings.Join(sets, ", "), a.bind(id))

	return Query{SQL: sql, Args: a.values}, true
}

// BuildDelete 按 id 删除
func (b QueryBuilder) BuildDelete(id int64) Query {
	a := b.newArgs()
	sql := fmt.Sprintf("DELETE FROM %s WHERE id = %s", movieTable, a.bind(id))

	return Query{SQL: sql, Args: a.values}
}

// nullable 把 nil 指针转换为无类型的 nil，驱动会写入 NULL
func nullable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
