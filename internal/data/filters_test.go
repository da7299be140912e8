package data

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFiltersDefaults(t *testing.T) {
	f := SanitizeFilters(ListQuery{})

	assert.Equal(t, Filters{Page: 1, Limit: 10, SortBy: "id", SortOrder: "ASC"}, f)
	assert.Equal(t, 0, f.Offset())
}

func TestSanitizeFiltersPage(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", 1},
		{"abc", 1},
		{"0", 1},
		{"-3", 1},
		{"1.5", 1},
		{"1", 1},
		{"2", 2},
		{" 7 ", 7},
		{"999999", 999999},
		{strconv.FormatInt(math.MaxInt64, 10), math.MaxInt32},
		{"2147483648", math.MaxInt32},
		{"99999999999999999999", math.MaxInt32},
		{"-99999999999999999999", 1},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilters(ListQuery{Page: tt.raw}).Page)
		})
	}
}

func TestSanitizeFiltersLimit(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", 10},
		{"ten", 10},
		{"0", 1},
		{"-5", 1},
		{"1", 1},
		{"7", 7},
		{"100", 100},
		{"101", 100},
		{"500", 100},
		{"99999999999999999999", 100},
		{"-99999999999999999999", 1},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := SanitizeFilters(ListQuery{Limit: tt.raw}).Limit
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, 1)
			assert.LessOrEqual(t, got, 100)
		})
	}
}

func TestSanitizeFiltersSortBy(t *testing.T) {
	for _, col := range MovieSortSafelist {
		assert.Equal(t, col, SanitizeFilters(ListQuery{SortBy: col}).SortBy)
	}

	for _, raw := range []string{"", "ID", "runtime", "id; DROP TABLE movies", "title DESC", "created_at--"} {
		assert.Equal(t, "id", SanitizeFilters(ListQuery{SortBy: raw}).SortBy, "sortBy %q", raw)
	}
}

func TestSanitizeFiltersSortOrder(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"", "ASC"},
		{"asc", "ASC"},
		{"ASC", "ASC"},
		{"desc", "DESC"},
		{"Desc", "DESC"},
		{" DESC ", "DESC"},
		{"descending", "ASC"},
		{"DESC; DROP TABLE movies", "ASC"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeFilters(ListQuery{SortOrder: tt.raw}).SortOrder, "sortOrder %q", tt.raw)
	}
}

func TestSanitizeFiltersDeterministic(t *testing.T) {
	q := ListQuery{Search: "Matrix", Page: "3", Limit: "25", SortBy: "rating", SortOrder: "desc"}

	first := SanitizeFilters(q)
	second := SanitizeFilters(q)

	assert.Equal(t, first, second)
	assert.Equal(t, "Matrix", first.Search)
	assert.Equal(t, 50, first.Offset())
}

func TestSortColumnPanicsOnUnsafeValue(t *testing.T) {
	f := Filters{SortBy: "id; DROP TABLE movies"}

	assert.Panics(t, func() { f.sortColumn() })
}

func TestCalculatePagination(t *testing.T) {
	tests := []struct {
		total     int64
		page      int
		limit     int
		wantPages int64
	}{
		{0, 1, 10, 0},
		{1, 1, 10, 1},
		{10, 1, 10, 1},
		{11, 1, 10, 2},
		{12, 2, 5, 3},
	}

	for _, tt := range tests {
		p := calculatePagination(tt.total, tt.page, tt.limit)
		assert.Equal(t, Pagination{Page: tt.page, Limit: tt.limit, Total: tt.total, TotalPages: tt.wantPages}, p)
	}
}
