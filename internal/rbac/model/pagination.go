package model

import "math"

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	MaxPage         = 1_000_000
)

// Page is the shared pagination envelope of list responses.
type Page struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Pages int   `json:"pages"`
}

// NewPage computes the page count for total items at the given size.
func NewPage(total int64, page, size int) Page {
	pages := 0
	if size > 0 {
		pages = int((total + int64(size) - 1) / int64(size))
	}
	return Page{Total: total, Page: page, Pages: pages}
}

func normalizePaging(page, limit *int) error {
	if *page > MaxPage {
		return badRequest("page must not exceed 1000000")
	}
	if *page <= 0 {
		*page = 1
	}
	if *limit <= 0 {
		*limit = DefaultPageSize
	}
	if *limit > MaxPageSize {
		*limit = MaxPageSize
	}
	return nil
}

// Skip returns the number of items before the given page.
func Skip(page, limit int) int64 {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		return 0
	}
	if int64(page-1) > math.MaxInt64/int64(limit) {
		return math.MaxInt64
	}
	return int64(page-1) * int64(limit)
}
