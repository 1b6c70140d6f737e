package pagination

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPageable(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		size     int
		expected Pageable
	}{
		{"Defaults for zero size", 0, 0, Pageable{Page: 0, Size: DefaultPageSize}},
		{"Negative page clamps to zero", -3, 10, Pageable{Page: 0, Size: 10}},
		{"Oversized page clamps to max", 2, MaxPageSize + 1, Pageable{Page: 2, Size: MaxPageSize}},
		{"Valid values kept", 1, 100, Pageable{Page: 1, Size: 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NewPageable(tt.page, tt.size))
		})
	}
}

func TestPageable_OffsetOverflows(t *testing.T) {
	assert.False(t, NewPageable(0, 10).OffsetOverflows())
	assert.False(t, NewPageable(math.MaxInt/MaxPageSize, MaxPageSize).OffsetOverflows())
	assert.True(t, NewPageable(math.MaxInt/MaxPageSize+1, MaxPageSize).OffsetOverflows())
	assert.True(t, NewPageable(1<<62, 1000).OffsetOverflows())
	assert.Equal(t, 30, NewPageable(3, 10).Offset())
}

func TestPage(t *testing.T) {
	t.Run("Offset and total pages", func(t *testing.T) {
		p := NewPage([]int{1, 2}, NewPageable(2, 10), 21)

		assert.Equal(t, 20, p.Pageable.Offset())
		assert.Equal(t, 3, p.TotalPages())
	})

	t.Run("Empty page has non-nil content", func(t *testing.T) {
		p := Empty[string](NewPageable(0, 10))

		assert.NotNil(t, p.Content)
		assert.Empty(t, p.Content)
		assert.Equal(t, 0, p.TotalPages())
	})

	t.Run("Map keeps metadata", func(t *testing.T) {
		p := NewPage([]int{1, 2, 3}, NewPageable(0, 3), 7)

		mapped := Map(p, strconv.Itoa)

		assert.Equal(t, []string{"1", "2", "3"}, mapped.Content)
		assert.Equal(t, int64(7), mapped.TotalElements)
		assert.Equal(t, 3, mapped.TotalPages())
	})
}
