package query

import "strings"

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Pagination is a 1-based page request.
type Pagination struct {
	Page     int
	PageSize int
}

// NewPagination normalizes raw paging input: values below 1 fall back to the defaults and the
// page size is capped at MaxPageSize.
func NewPagination(page, pageSize int) Pagination {
	if page < 1 {
		page = DefaultPage
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return Pagination{Page: page, PageSize: pageSize}
}

// Limit returns the SQL LIMIT for the page.
func (p Pagination) Limit() int {
	return p.PageSize
}

// Offset returns the SQL OFFSET for the page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Filter combines a page request with an optional substring search term.
// An empty Search means "list everything".
type Filter struct {
	Pagination
	Search string
}

// NewFilter builds a list filter.
func NewFilter(p Pagination) Filter {
	return Filter{Pagination: p}
}

// NewSearchFilter builds a search filter; the term is trimmed.
func NewSearchFilter(term string, p Pagination) Filter {
	return Filter{Pagination: p, Search: strings.TrimSpace(term)}
}

// IsSearch reports whether the filter restricts rows by a search term.
func (f Filter) IsSearch() bool {
	return f.Search != ""
}

// Pattern returns the ILIKE pattern for the search term.
func (f Filter) Pattern() string {
	return "%" + f.Search + "%"
}

// Page is one page of results plus the totals needed to render a pager.
type Page[T any] struct {
	Data       []T   `json:"data"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalPages int   `json:"totalPages"`
}

// NewPage assembles a Page. Data is never nil so it always serializes as an array.
func NewPage[T any](data []T, total int64, p Pagination) *Page[T] {
	if data == nil {
		data = []T{}
	}
	return &Page[T]{
		Data:       data,
		Total:      total,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: TotalPages(total, p.PageSize),
	}
}

// TotalPages returns ceil(total/pageSize).
func TotalPages(total int64, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 0
	}
	size := int64(pageSize)
	return int((total + size - 1) / size)
}
