package signals

import (
	"context"

	"github.com/wonny/ssq/internal/contracts"
	"github.com/wonny/ssq/internal/processor"
	"github.com/wonny/ssq/pkg/logger"
)

// RelationshipAnalyzer counts pairwise co-occurrences within and across domains (S2)
type RelationshipAnalyzer struct {
	logger *logger.Logger
}

// NewRelationshipAnalyzer creates a relationship analyzer
func NewRelationshipAnalyzer(log *logger.Logger) *RelationshipAnalyzer {
	if log == nil {
		log = logger.NewNop()
	}
	return &RelationshipAnalyzer{logger: log}
}

// Name returns the stage name
func (a *RelationshipAnalyzer) Name() string {
	return contracts.StageRelationship.String()
}

// Execute writes RelationshipsAttr
func (a *RelationshipAnalyzer) Execute(ctx context.Context, store *processor.Store) error {
	entries := ComputeRelationships(store.Records())
	processor.Set(store, RelationshipsAttr, entries)

	a.logger.WithFields(map[string]interface{}{
		"records": len(store.Records()),
		"balls":   len(entries),
	}).Info("Relationship counts computed")

	return nil
}

// ComputeRelationships returns zero-filled counters for every ball:
//   - special → every primary
//   - primary → every special, and every other primary (self excluded)
//
// and accumulates one increment per co-drawn pair of each record.
func ComputeRelationships(records []contracts.DrawRecord) map[contracts.Ball]contracts.RelationshipEntry {
	entries := newRelationshipEntries()

	for _, r := range records {
		special := entries[contracts.SpecialOf(r.Special)]
		for _, p := range r.Primary {
			special.Primary[p]++

			primary := entries[contracts.PrimaryOf(p)]
			primary.Special[r.Special]++
			for _, other := range r.Primary {
				if other != p {
					primary.Primary[other]++
				}
			}
		}
	}

	return entries
}

func newRelationshipEntries() map[contracts.Ball]contracts.RelationshipEntry {
	entries := make(map[contracts.Ball]contracts.RelationshipEntry, contracts.SpecialBallCount+contracts.PrimaryBallCount)

	for _, s := range contracts.AllSpecialBalls() {
		b := contracts.SpecialOf(s)
		entry := contracts.RelationshipEntry{
			Ball:    b,
			Primary: make(map[contracts.PrimaryBall]int, contracts.PrimaryBallCount),
		}
		for _, p := range contracts.AllPrimaryBalls() {
			entry.Primary[p] = 0
		}
		entries[b] = entry
	}

	for _, p := range contracts.AllPrimaryBalls() {
		b := contracts.PrimaryOf(p)
		entry := contracts.RelationshipEntry{
			Ball:    b,
			Special: make(map[contracts.SpecialBall]int, contracts.SpecialBallCount),
			Primary: make(map[contracts.PrimaryBall]int, contracts.PrimaryBallCount-1),
		}
		for _, s := range contracts.AllSpecialBalls() {
			entry.Special[s] = 0
		}
		for _, other := range contracts.AllPrimaryBalls() {
			if other != p {
				entry.Primary[other] = 0
			}
		}
		entries[b] = entry
	}

	return entries
}
