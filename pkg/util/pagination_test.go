package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		name       string
		page, size int
		offset     int
		limit      int
	}{
		{name: "first page", page: 1, size: 10, offset: 0, limit: 10},
		{name: "third page", page: 3, size: 10, offset: 20, limit: 10},
		{name: "page below one", page: 0, size: 5, offset: 0, limit: 5},
		{name: "size default", page: 2, size: 0, offset: 20, limit: 20},
		{name: "size too large", page: 1, size: 1000, offset: 0, limit: 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			off, lim := Calculate(tt.page, tt.size)
			assert.Equal(t, tt.offset, off)
			assert.Equal(t, tt.limit, lim)
		})
	}
}

func TestParseIntDefault(t *testing.T) {
	assert.Equal(t, 7, ParseIntDefault("7", 1))
	assert.Equal(t, 1, ParseIntDefault("x", 1))
	assert.Equal(t, 1, ParseIntDefault("", 1))
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 1, TotalPages(0, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 2, TotalPages(11, 10))
}
