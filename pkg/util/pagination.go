package util

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
	if size < 1 || size > MaxPageSize {
		size = DefaultPageSize
	}
	return (page - 1) * size, size
}

// TotalPages rounds up; zero items still yield one page.
func TotalPages(total int64, size int) int {
	if size < 1 {
		size = DefaultPageSize
	}
	if total <= 0 {
		return 1
	}
	return int((total + int64(size) - 1) / int64(size))
}
