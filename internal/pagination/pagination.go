// Package pagination turns page/size query parameters into list windows.
package pagination

import "strconv"

const (
	DefaultPageSize = 20
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
	offset = (page - 1) * size
	return offset, size
}

// Window returns the page of items selected by page and size. An empty
// page and size return items unchanged.
func Window[T any](items []T, page, size string) []T {
	if page == "" && size == "" {
		return items
	}
	offset, limit := Calculate(ParseIntDefault(page, 1), ParseIntDefault(size, DefaultPageSize))
	if offset >= len(items) {
		return []T{}
	}
	end := min(offset+limit, len(items))
	return items[offset:end]
}
