package pdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePageSpecifier(t *testing.T) {
	tests := []struct {
		name     string
		spec     string
		expected []int
		hasError bool
	}{
		{name: "single page", spec: "3", expected: []int{3}},
		{name: "list", spec: "1,3,5", expected: []int{1, 3, 5}},
		{name: "range", spec: "2-4", expected: []int{2, 3, 4}},
		{name: "mixed with spaces", spec: "1, 3, 5-10", expected: []int{1, 3, 5, 6, 7, 8, 9, 10}},
		{name: "order preserved", spec: "5,1-2", expected: []int{5, 1, 2}},
		{name: "duplicates preserved", spec: "3,1,1", expected: []int{3, 1, 1}},
		{name: "single page range", spec: "4-4", expected: []int{4}},
		{name: "spaces around dash", spec: " 2 - 3 ", expected: []int{2, 3}},
		{name: "trailing comma", spec: "1,2,", expected: []int{1, 2}},
		{name: "empty", spec: "", hasError: true},
		{name: "only commas", spec: " , ,", hasError: true},
		{name: "reversed range", spec: "3-1", hasError: true},
		{name: "letters", spec: "a,b", hasError: true},
		{name: "one bad component", spec: "1,2,x", hasError: true},
		{name: "zero", spec: "0", hasError: true},
		{name: "open range", spec: "2-", hasError: true},
		{name: "negative", spec: "-2", hasError: true},
		{name: "double dash", spec: "1--3", hasError: true},
		{name: "three part range", spec: "1-2-3", hasError: true},
		{name: "decimal", spec: "1.5", hasError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pages, err := ParsePageSpecifier(tt.spec)
			if tt.hasError {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidPageRange)
				assert.Nil(t, pages)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, pages)
		})
	}
}

func TestValidatePageNumbers(t *testing.T) {
	assert.NoError(t, ValidatePageNumbers([]int{1, 5, 3, 3}, 5))
	assert.NoError(t, ValidatePageNumbers(nil, 0))
	assert.ErrorIs(t, ValidatePageNumbers([]int{0}, 5), ErrInvalidPageRange)
	assert.ErrorIs(t, ValidatePageNumbers([]int{1, 6}, 5), ErrInvalidPageRange)
	assert.ErrorIs(t, ValidatePageNumbers([]int{1}, 0), ErrInvalidPageRange)
}

func TestValidatePermutation(t *testing.T) {
	assert.NoError(t, ValidatePermutation([]int{3, 1, 2}, 3))
	assert.ErrorIs(t, ValidatePermutation([]int{1, 1, 2}, 3), ErrInvalidPageRange)
	assert.ErrorIs(t, ValidatePermutation([]int{1, 2}, 3), ErrInvalidPageRange)
	assert.ErrorIs(t, ValidatePermutation([]int{1, 2, 3, 4}, 3), ErrInvalidPageRange)
}

func TestChunkPages(t *testing.T) {
	tests := []struct {
		total    int
		n        int
		expected [][]int
	}{
		{total: 5, n: 2, expected: [][]int{{1, 2}, {3, 4}, {5}}},
		{total: 4, n: 2, expected: [][]int{{1, 2}, {3, 4}}},
		{total: 3, n: 10, expected: [][]int{{1, 2, 3}}},
		{total: 3, n: 1, expected: [][]int{{1}, {2}, {3}}},
		{total: 0, n: 3, expected: nil},
	}

	for _, tt := range tests {
		chunks, err := ChunkPages(tt.total, tt.n)
		require.NoError(t, err)
		assert.Equal(t, tt.expected, chunks, "total=%d n=%d", tt.total, tt.n)
	}

	_, err := ChunkPages(5, 0)
	assert.ErrorIs(t, err, ErrInvalidPageRange)
	_, err = ChunkPages(5, -1)
	assert.ErrorIs(t, err, ErrInvalidPageRange)
}

func TestChunkPagesCounts(t *testing.T) {
	for p := 1; p <= 12; p++ {
		for n := 1; n <= 5; n++ {
			chunks, err := ChunkPages(p, n)
			require.NoError(t, err)
			require.Len(t, chunks, (p+n-1)/n)

			last := p % n
			if last == 0 {
				last = n
			}
			for i, chunk := range chunks {
				if i == len(chunks)-1 {
					assert.Len(t, chunk, last)
				} else {
					assert.Len(t, chunk, n)
				}
			}
		}
	}
}

func TestPageHelpers(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3}, AllPages(3))
	assert.Equal(t, []int{3, 2, 1}, ReversePages(3))
	assert.Empty(t, ReversePages(0))
	assert.Nil(t, PageRange(4, 2))
	assert.Equal(t, []int{2, 4}, ComplementPages([]int{1, 3, 3}, 4))
	assert.Empty(t, ComplementPages([]int{1, 2}, 2))
}
