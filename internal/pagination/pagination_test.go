package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		page, size            int
		wantOffset, wantLimit int
	}{
		{1, 10, 0, 10},
		{3, 10, 20, 10},
		{0, 10, 0, 10},
		{2, 0, DefaultPageSize, DefaultPageSize},
		{1, MaxPageSize + 1, 0, DefaultPageSize},
	}
	for _, tt := range tests {
		offset, limit := Calculate(tt.page, tt.size)
		assert.Equal(t, tt.wantOffset, offset)
		assert.Equal(t, tt.wantLimit, limit)
	}
}

func TestWindow(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	assert.Equal(t, items, Window(items, "", ""))
	assert.Equal(t, []int{3, 4}, Window(items, "2", "2"))
	assert.Equal(t, []int{5}, Window(items, "3", "2"))
	assert.Equal(t, []int{}, Window(items, "9", "2"))
	assert.Equal(t, []int{1, 2}, Window(items, "abc", "2"))
}
