package stationquery

import "math"

const (
	DefaultPage  int64 = 1
	DefaultLimit int64 = 20
	MaxLimit     int64 = 100
)

// Page is a normalized page request.
type Page struct {
	Number int64
	Limit  int64
}

// ParsePage normalizes raw page and limit values. Only the leading integer
// of each value is read ("2.5" is 2). Missing, unreadable or zero values take
// the defaults; page is floored at 1 and limit clamped to [1, MaxLimit].
func ParsePage(rawPage, rawLimit string) Page {
	number := parseInt(rawPage, DefaultPage)
	if number < 1 {
		number = 1
	}

	limit := parseInt(rawLimit, DefaultLimit)
	switch {
	case limit < 1:
		limit = 1
	case limit > MaxLimit:
		limit = MaxLimit
	}

	return Page{Number: number, Limit: limit}
}

func (p Page) normalized() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// Skip is the number of rows before this page. It saturates instead of
// overflowing for absurd page numbers.
func (p Page) Skip() int64 {
	p = p.normalized()
	if p.Number <= 1 {
		return 0
	}
	if p.Number-1 > math.MaxInt64/p.Limit {
		return math.MaxInt64
	}
	return (p.Number - 1) * p.Limit
}

// parseInt reads the leading integer of raw. Missing, unreadable and zero
// values all take the fallback.
func parseInt(raw string, fallback int64) int64 {
	v, ok := leadingInt(raw)
	if !ok || v == 0 {
		return fallback
	}
	return v
}

// Pagination is the metadata returned alongside a page of stations.
type Pagination struct {
	CurrentPage int64 `json:"currentPage"`
	TotalPages  int64 `json:"totalPages"`
	TotalCount  int64 `json:"totalCount"`
	Limit       int64 `json:"limit"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// NewPagination derives page metadata from the total match count.
func NewPagination(page Page, totalCount int64) Pagination {
	page = page.normalized()
	if totalCount < 0 {
		totalCount = 0
	}
	totalPages := totalCount / page.Limit
	if totalCount%page.Limit != 0 {
		totalPages++
	}
	return Pagination{
		CurrentPage: page.Number,
		TotalPages:  totalPages,
		TotalCount:  totalCount,
		Limit:       page.Limit,
		HasNextPage: page.Number < totalPages,
		HasPrevPage: page.Number > 1,
	}
}
