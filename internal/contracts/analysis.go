package contracts

import (
	"cmp"
	"slices"
)

// OccurrenceDetail holds interval statistics for one ball
type OccurrenceDetail struct {
	OccurrenceCount int `json:"occurrence_count"`
	// AverageInterval is sum(intervals) / OccurrenceCount (not / number of intervals).
	// Downstream thresholds were tuned against this formula.
	AverageInterval int `json:"average_interval"`
	ProjectedCount  int `json:"projected_count"` // total draws / (AverageInterval + 1)
	LastOccurrence  int `json:"last_occurrence"`
}

// Overdue returns how far the projected count runs ahead of the observed count
func (d OccurrenceDetail) Overdue() int {
	return d.ProjectedCount - d.OccurrenceCount
}

// RelationshipEntry holds co-occurrence counters for one ball.
// Special balls only fill Primary; primary balls fill both (Primary excludes self).
type RelationshipEntry struct {
	Ball    Ball                `json:"ball"`
	Special map[SpecialBall]int `json:"special,omitempty"`
	Primary map[PrimaryBall]int `json:"primary,omitempty"`
}

// FrequentPattern is an itemset with its support count
type FrequentPattern[T cmp.Ordered] struct {
	Items   []T `json:"items"`
	Support int `json:"support"`
}

// Len returns the itemset size
func (p FrequentPattern[T]) Len() int {
	return len(p.Items)
}

// Contains reports whether item is in the itemset
func (p FrequentPattern[T]) Contains(item T) bool {
	return slices.Contains(p.Items, item)
}

// Selection is one final candidate: a special ball and its primary balls
type Selection struct {
	Special SpecialBall   `json:"special"`
	Primary []PrimaryBall `json:"primary"`
}

// SpecialTransitions counts which special ball followed which in consecutive draws
type SpecialTransitions map[SpecialBall]map[SpecialBall]int
