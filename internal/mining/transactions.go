package mining

import (
	"slices"

	"github.com/wonny/ssq/internal/contracts"
)

// GroupBySpecial returns, per special ball, the primary sets drawn with it
func GroupBySpecial(records []contracts.DrawRecord) map[contracts.SpecialBall][][]contracts.PrimaryBall {
	groups := make(map[contracts.SpecialBall][][]contracts.PrimaryBall)
	for _, r := range records {
		groups[r.Special] = append(groups[r.Special], r.SortedPrimary())
	}
	return groups
}

// GroupByPrimary returns, per primary ball, the other five primaries of
// every draw it appeared in
func GroupByPrimary(records []contracts.DrawRecord) map[contracts.PrimaryBall][][]contracts.PrimaryBall {
	groups := make(map[contracts.PrimaryBall][][]contracts.PrimaryBall)
	for _, r := range records {
		primary := r.SortedPrimary()
		for _, p := range primary {
			others := slices.DeleteFunc(slices.Clone(primary), func(o contracts.PrimaryBall) bool { return o == p })
			groups[p] = append(groups[p], others)
		}
	}
	return groups
}

// SpecialWindows slides a window of size draws over the special balls in
// chronological order. Each window is one transaction; repeated values
// inside a window collapse. Returns nil when size < 1 or there are fewer
// records than size.
func SpecialWindows(records []contracts.DrawRecord, size int) [][]contracts.SpecialBall {
	if size < 1 || len(records) < size {
		return nil
	}

	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, contracts.ChronologicalOrder)

	sequence := make([]contracts.SpecialBall, len(sorted))
	for i, r := range sorted {
		sequence[i] = r.Special
	}

	windows := make([][]contracts.SpecialBall, 0, len(sequence)-size+1)
	for i := 0; i+size <= len(sequence); i++ {
		w := slices.Clone(sequence[i : i+size])
		slices.Sort(w)
		windows = append(windows, slices.Compact(w))
	}
	return windows
}
