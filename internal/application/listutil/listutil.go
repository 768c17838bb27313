package listutil

import (
	"net/url"
	"strconv"
)

// DefaultPerPage is the default number of rows per page.
const DefaultPerPage = 25

// PerPageOptions are the allowed rows-per-page values. Anything else in
// the query string falls back to the default.
var PerPageOptions = []int{10, 25, 50, 100}

// Query carries the list-view parameters parsed from a request: paging,
// sorting and filtering. Zero values mean "unset".
type Query struct {
	Page    int // 1-indexed page number
	PerPage int // rows per page
	Sort    string
	Dir     string // "asc" or "desc"
	Search  string
	Filters map[string]string // exact-match filters, allow-listed keys only
}

// Parse extracts list parameters from URL query values. Sort columns and
// filter keys outside the allow-lists are dropped.
// POST: Page >= 1, PerPage is one of PerPageOptions, Dir is asc or desc
func Parse(q url.Values, allowedSortCols, filterKeys []string) Query {
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	if !contains(PerPageOptions, perPage) {
		perPage = DefaultPerPage
	}

	sort := q.Get("sort")
	if !containsStr(allowedSortCols, sort) {
		sort = ""
	}
	dir := q.Get("dir")
	if dir != "asc" && dir != "desc" {
		dir = "asc"
	}

	query := Query{
		Page:    page,
		PerPage: perPage,
		Sort:    sort,
		Dir:     dir,
		Search:  q.Get("q"),
		Filters: make(map[string]string),
	}
	for _, key := range filterKeys {
		if v := q.Get(key); v != "" {
			query.Filters[key] = v
		}
	}
	return query
}

// PageInfo carries pagination metadata for rendering.
type PageInfo struct {
	Page       int // current page, clamped to [1, TotalPages]
	PerPage    int
	Total      int // total matching rows
	TotalPages int // ceil(Total / PerPage), at least 1
}

// NewPageInfo computes pagination metadata.
// POST: 1 <= Page <= TotalPages; TotalPages >= 1 even when Total is 0
func NewPageInfo(page, perPage, total int) PageInfo {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	totalPages := (total + perPage - 1) / perPage
	if totalPages < 1 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return PageInfo{Page: page, PerPage: perPage, Total: total, TotalPages: totalPages}
}

// Offset returns the SQL OFFSET for the current page.
func (p PageInfo) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// StartRow returns the 1-indexed first row number on the current page,
// 0 when there are no rows.
func (p PageInfo) StartRow() int {
	if p.Total == 0 {
		return 0
	}
	return p.Offset() + 1
}

// EndRow returns the 1-indexed last row number on the current page.
func (p PageInfo) EndRow() int {
	end := p.Offset() + p.PerPage
	if end > p.Total {
		end = p.Total
	}
	return end
}

// PageNumbers returns up to five page numbers centered on the current
// page, for pagination controls.
func (p PageInfo) PageNumbers() []int {
	const maxButtons = 5
	start := p.Page - maxButtons/2
	if start < 1 {
		start = 1
	}
	end := start + maxButtons - 1
	if end > p.TotalPages {
		end = p.TotalPages
		start = end - maxButtons + 1
		if start < 1 {
			start = 1
		}
	}
	pages := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	return pages
}

// ShowPagination reports whether the result set spans more than one page.
func (p PageInfo) ShowPagination() bool {
	return p.Total > p.PerPage
}

func contains(list []int, n int) bool {
	for _, v := range list {
		if v == n {
			return true
		}
	}
	return false
}

func containsStr(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
