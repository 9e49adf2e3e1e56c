// Package signals computes per-ball statistics over the draw history:
// occurrence intervals, co-occurrence counts and special ball transitions.
package signals

import (
	"slices"

	"github.com/wonny/ssq/internal/contracts"
	"github.com/wonny/ssq/internal/processor"
)

// Store attributes written by this package
// ⭐ SSOT: 시그널 속성 키는 여기서만 정의
var (
	// OccurrencesAttr holds interval statistics for all 49 balls
	OccurrencesAttr = processor.NewAttribute[map[contracts.Ball]contracts.OccurrenceDetail]("occurrences")

	// RelationshipsAttr holds co-occurrence counters for all 49 balls
	RelationshipsAttr = processor.NewAttribute[map[contracts.Ball]contracts.RelationshipEntry]("relationships")

	// TransitionsAttr holds special→next special counts
	TransitionsAttr = processor.NewAttribute[contracts.SpecialTransitions]("special_transitions")
)

// chronological returns the records sorted by draw date, then seq.
// The input is not modified.
func chronological(records []contracts.DrawRecord) []contracts.DrawRecord {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, contracts.ChronologicalOrder)
	return sorted
}
