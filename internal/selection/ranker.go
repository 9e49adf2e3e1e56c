package selection

import (
	"cmp"
	"slices"

	"github.com/wonny/ssq/internal/contracts"
)

// RankConfig holds the top-N cutoffs of the three occurrence rankings
type RankConfig struct {
	TopOverdue  int // projected - count, descending
	TopFrequent int // count, descending
	TopInterval int // average interval, ascending
}

type rankedBall[B cmp.Ordered] struct {
	ball   B
	detail contracts.OccurrenceDetail
}

// RankCandidates takes the top N of each ranking over one domain's
// occurrence details and returns their de-duplicated union, in ranking
// order (overdue, then frequent, then interval). Ties are broken by ball
// ascending. Balls that never occurred have no interval and are left out
// of the interval ranking.
func RankCandidates[B cmp.Ordered](details map[B]contracts.OccurrenceDetail, cfg RankConfig) []B {
	entries := make([]rankedBall[B], 0, len(details))
	for b, d := range details {
		entries = append(entries, rankedBall[B]{ball: b, detail: d})
	}

	byOverdue := topBy(entries, cfg.TopOverdue, func(a, b rankedBall[B]) int {
		return cmp.Compare(b.detail.Overdue(), a.detail.Overdue())
	})
	byFrequent := topBy(entries, cfg.TopFrequent, func(a, b rankedBall[B]) int {
		return cmp.Compare(b.detail.OccurrenceCount, a.detail.OccurrenceCount)
	})

	// Unlike the older tool, which sorted every ball by average interval,
	// never-drawn balls are excluded: their zero average would rank first.
	drawn := slices.DeleteFunc(slices.Clone(entries), func(e rankedBall[B]) bool {
		return e.detail.OccurrenceCount == 0
	})
	byInterval := topBy(drawn, cfg.TopInterval, func(a, b rankedBall[B]) int {
		return cmp.Compare(a.detail.AverageInterval, b.detail.AverageInterval)
	})

	return Union(byOverdue, byFrequent, byInterval)
}

// topBy sorts a copy of entries by compare (ball ascending on ties) and
// returns the first n balls
func topBy[B cmp.Ordered](entries []rankedBall[B], n int, compare func(a, b rankedBall[B]) int) []B {
	if n <= 0 {
		return nil
	}

	sorted := slices.Clone(entries)
	slices.SortFunc(sorted, func(a, b rankedBall[B]) int {
		if c := compare(a, b); c != 0 {
			return c
		}
		return cmp.Compare(a.ball, b.ball)
	})

	n = min(n, len(sorted))
	balls := make([]B, n)
	for i := range n {
		balls[i] = sorted[i].ball
	}
	return balls
}

// specialDetails projects the combined occurrence map onto the special domain
func specialDetails(occurrences map[contracts.Ball]contracts.OccurrenceDetail) map[contracts.SpecialBall]contracts.OccurrenceDetail {
	details := make(map[contracts.SpecialBall]contracts.OccurrenceDetail, contracts.SpecialBallCount)
	for b, d := range occurrences {
		if s, ok := b.Special(); ok {
			details[s] = d
		}
	}
	return details
}

// primaryDetails projects the combined occurrence map onto the primary domain
func primaryDetails(occurrences map[contracts.Ball]contracts.OccurrenceDetail) map[contracts.PrimaryBall]contracts.OccurrenceDetail {
	details := make(map[contracts.PrimaryBall]contracts.OccurrenceDetail, contracts.PrimaryBallCount)
	for b, d := range occurrences {
		if p, ok := b.Primary(); ok {
			details[p] = d
		}
	}
	return details
}
