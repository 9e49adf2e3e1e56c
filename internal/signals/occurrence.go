package signals

import (
	"context"
	"slices"

	"github.com/wonny/ssq/internal/contracts"
	"github.com/wonny/ssq/internal/processor"
	"github.com/wonny/ssq/pkg/logger"
)

// OccurrenceAnalyzer computes per-ball interval statistics (S1)
type OccurrenceAnalyzer struct {
	logger *logger.Logger
}

// NewOccurrenceAnalyzer creates an occurrence analyzer
func NewOccurrenceAnalyzer(log *logger.Logger) *OccurrenceAnalyzer {
	if log == nil {
		log = logger.NewNop()
	}
	return &OccurrenceAnalyzer{logger: log}
}

// Name returns the stage name
func (a *OccurrenceAnalyzer) Name() string {
	return contracts.StageOccurrence.String()
}

// Execute writes OccurrencesAttr
func (a *OccurrenceAnalyzer) Execute(ctx context.Context, store *processor.Store) error {
	details := ComputeOccurrences(store.Records())
	processor.Set(store, OccurrencesAttr, details)

	for _, b := range contracts.AllBalls() {
		d := details[b]
		a.logger.WithFields(map[string]interface{}{
			"ball":      b.String(),
			"count":     d.OccurrenceCount,
			"avg":       d.AverageInterval,
			"projected": d.ProjectedCount,
			"last":      d.LastOccurrence,
		}).Trace("Occurrence detail")
	}

	a.logger.WithFields(map[string]interface{}{
		"records": len(store.Records()),
		"balls":   len(details),
	}).Info("Occurrence statistics computed")

	return nil
}

// ComputeOccurrences builds an OccurrenceDetail for every ball of both domains.
//
// Occurrence indices are the records' Seq values taken in ascending draw date
// order (ties by Seq). Balls that never occurred get a zeroed entry.
func ComputeOccurrences(records []contracts.DrawRecord) map[contracts.Ball]contracts.OccurrenceDetail {
	indices := make(map[contracts.Ball][]int, contracts.SpecialBallCount+contracts.PrimaryBallCount)
	for _, r := range chronological(records) {
		s := contracts.SpecialOf(r.Special)
		indices[s] = append(indices[s], r.Seq)
		for _, p := range r.Primary {
			b := contracts.PrimaryOf(p)
			indices[b] = append(indices[b], r.Seq)
		}
	}

	total := len(records)
	details := make(map[contracts.Ball]contracts.OccurrenceDetail, contracts.SpecialBallCount+contracts.PrimaryBallCount)
	for _, b := range contracts.AllBalls() {
		details[b] = occurrenceDetail(indices[b], total)
	}
	return details
}

// occurrenceDetail derives the statistics of one ball from its ordered
// occurrence indices.
func occurrenceDetail(indices []int, total int) contracts.OccurrenceDetail {
	count := len(indices)
	if count == 0 {
		return contracts.OccurrenceDetail{}
	}

	// a single occurrence is its own interval sample
	intervals := slices.Clone(indices)
	if count >= 2 {
		intervals = make([]int, 0, count-1)
		for i := 1; i < count; i++ {
			intervals = append(intervals, absInt(indices[i]-indices[i-1]))
		}
	}

	sum := 0
	for _, v := range intervals {
		sum += v
	}

	// divided by the occurrence count, not by len(intervals)
	avg := sum / count

	return contracts.OccurrenceDetail{
		OccurrenceCount: count,
		AverageInterval: avg,
		ProjectedCount:  total / (avg + 1),
		LastOccurrence:  indices[count-1],
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
