package util

import "strconv"

const (
	DefaultPageSize = 12
	MaxPageSize     = 100
)

func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func Calculate(page, size int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > MaxPageSize {
		size = DefaultPageSize
	}
	return (page - 1) * size, size
}

// Page is the listing metadata handed to templates.
type Page struct {
	Number     int
	Size       int
	Total      int64
	TotalPages int64
	HasPrev    bool
	HasNext    bool
}

func NewPage(page, size int, total int64) Page {
	offset, limit := Calculate(page, size)
	if page < 1 {
		page = 1
	}
	return Page{
		Number:     page,
		Size:       limit,
		Total:      total,
		TotalPages: (total + int64(limit) - 1) / int64(limit),
		HasPrev:    page > 1,
		HasNext:    int64(offset+limit) < total,
	}
}
