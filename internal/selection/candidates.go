package selection

import (
	"cmp"
	"slices"
)

// Shuffler is the random source of the tie-break step.
// *rand.Rand from math/rand/v2 satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// Union concatenates lists keeping the first occurrence of every value
func Union[T comparable](lists ...[]T) []T {
	seen := make(map[T]struct{})
	var union []T
	for _, list := range lists {
		for _, v := range list {
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
			union = append(union, v)
		}
	}
	return union
}

// pick bounds pool to exactly size values:
//   - shorter pools are topped up from fallback, in fallback order
//   - longer pools are shuffled, then truncated
//
// The result is sorted ascending. The input slices are not modified.
// A negative size is treated as 0.
func pick[T cmp.Ordered](pool, fallback []T, size int, shuffler Shuffler) []T {
	size = max(size, 0)
	candidates := Union(pool)

	if len(candidates) < size {
		for _, v := range Union(fallback) {
			if len(candidates) == size {
				break
			}
			if !slices.Contains(candidates, v) {
				candidates = append(candidates, v)
			}
		}
	}

	if len(candidates) > size {
		shuffler.Shuffle(len(candidates), func(i, j int) {
			candidates[i], candidates[j] = candidates[j], candidates[i]
		})
		candidates = candidates[:size]
	}

	slices.Sort(candidates)
	return candidates
}
