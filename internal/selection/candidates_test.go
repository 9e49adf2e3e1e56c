package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// noShuffle keeps the pool order, so truncation keeps the head
type noShuffle struct{}

func (noShuffle) Shuffle(int, func(i, j int)) {}

// reverseShuffler reverses the pool, so truncation keeps the tail
type reverseShuffler struct{}

func (reverseShuffler) Shuffle(n int, swap func(i, j int)) {
	for i := 0; i < n/2; i++ {
		swap(i, n-1-i)
	}
}

func TestUnion(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3, 4}, Union([]int{1, 2, 2, 3}, []int{2, 3, 4}))
	assert.Equal(t, []int{3, 1}, Union([]int{3}, nil, []int{1, 3}))
	assert.Nil(t, Union[int]())
}

func TestPick(t *testing.T) {
	tests := []struct {
		name     string
		pool     []int
		fallback []int
		size     int
		shuffler Shuffler
		want     []int
	}{
		{
			name:     "exact size is sorted only",
			pool:     []int{9, 3, 5},
			size:     3,
			shuffler: reverseShuffler{},
			want:     []int{3, 5, 9},
		},
		{
			name:     "larger pool is shuffled then truncated",
			pool:     []int{9, 3, 5, 1},
			size:     2,
			shuffler: reverseShuffler{},
			want:     []int{1, 5},
		},
		{
			name:     "truncation without shuffle keeps the head",
			pool:     []int{9, 3, 5, 1},
			size:     2,
			shuffler: noShuffle{},
			want:     []int{3, 9},
		},
		{
			name:     "smaller pool is topped up in fallback order",
			pool:     []int{7},
			fallback: []int{7, 2, 8, 4},
			size:     3,
			shuffler: noShuffle{},
			want:     []int{2, 7, 8},
		},
		{
			name:     "duplicates collapse before sizing",
			pool:     []int{4, 4, 4, 2},
			fallback: []int{1},
			size:     3,
			shuffler: noShuffle{},
			want:     []int{1, 2, 4},
		},
		{
			name:     "fallback too small",
			pool:     []int{1},
			fallback: []int{1, 2},
			size:     5,
			shuffler: noShuffle{},
			want:     []int{1, 2},
		},
		{
			name:     "negative size selects nothing",
			pool:     []int{3, 1},
			fallback: []int{2},
			size:     -1,
			shuffler: noShuffle{},
			want:     []int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := append([]int(nil), tt.pool...)
			assert.Equal(t, tt.want, pick(pool, tt.fallback, tt.size, tt.shuffler))
			assert.Equal(t, tt.pool, pool, "input must not change")
		})
	}
}
