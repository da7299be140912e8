package data

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/liliang-cn/movieapi/internal/validator"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
	// maxPage 保证 (page-1)*limit 不会溢出
	maxPage = math.MaxInt32

	defaultSortBy    = "id"
	defaultSortOrder = "ASC"
)

// MovieSortSafelist 允许直接拼接进 ORDER BY 的列
var MovieSortSafelist = []string{"id", "title", "year", "genre", "rating", "created_at"}

// ListQuery 查询字符串里的原始列表参数
type ListQuery struct {
	Search    string
	Page      string
	Limit     string
	SortBy    string
	SortOrder string
}

// Filters 清洗后的列表参数，可以安全地用于构造 SQL
type Filters struct {
	Search    string
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

// parseInt 解析整数；超出 int 范围时 Atoi 返回对应方向的极值，交给 clamp 处理
func parseInt(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return n, true
}

// SanitizeFilters 对原始参数做默认值、截断和白名单处理，不会失败
func SanitizeFilters(q ListQuery) Filters {
	f := Filters{
		Search:    q.Search,
		Page:      defaultPage,
		Limit:     defaultLimit,
		SortBy:    defaultSortBy,
		SortOrder: defaultSortOrder,
	}

	if page, ok := parseInt(q.Page); ok {
		f.Page = clamp(page, 1, maxPage)
	}

	if limit, ok := parseInt(q.Limit); ok {
		f.Limit = clamp(limit, 1, maxLimit)
	}

	if validator.In(q.SortBy, MovieSortSafelist...) {
		f.SortBy = q.SortBy
	}

	if order := strings.ToUpper(strings.TrimSpace(q.SortOrder)); validator.In(order, "ASC", "DESC") {
		f.SortOrder = order
	}

	return f
}

// sortColumn 再次检查排序列是否在白名单中
func (f Filters) sortColumn() string {
	if validator.In(f.SortBy, MovieSortSafelist...) {
		return f.SortBy
	}

	panic("unsafe sort parameter: " + f.SortBy)
}

// sortDirection 返回排序正向或者反向
func (f Filters) sortDirection() string {
	if f.SortOrder == "DESC" {
		return "DESC"
	}

	return "ASC"
}

// Offset 返回跳过的行数
func (f Filters) Offset() int {
	return (f.Page - 1) * f.Limit
}

// Pagination 分页元数据
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

// calculatePagination 根据总数计算分页信息
func calculatePagination(total int64, page, limit int) Pagination {
	p := Pagination{
		Page:  page,
		Limit: limit,
		Total: total,
	}
	if limit > 0 {
		p.TotalPages = (total + int64(limit) - 1) / int64(limit)
	}

	return p
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
