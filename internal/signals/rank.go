package signals

import (
	"cmp"
	"slices"
)

// RankByCount returns the keys of counts, highest count first.
// Equal counts are ordered by key ascending so the ranking is reproducible.
func RankByCount[K cmp.Ordered](counts map[K]int) []K {
	keys := make([]K, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b K) int {
		if c := cmp.Compare(counts[b], counts[a]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	return keys
}

func rankByCount[K cmp.Ordered](counts map[K]int) []K {
	ranked := RankByCount(counts)
	return slices.DeleteFunc(ranked, func(k K) bool { return counts[k] == 0 })
}
