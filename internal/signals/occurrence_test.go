package signals

import (
	"context"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/ssq/internal/contracts"
	"github.com/wonny/ssq/internal/processor"
)

func TestComputeOccurrences_Intervals(t *testing.T) {
	// special 3 occurs at seq 5, 2 and 0
	records := []contracts.DrawRecord{
		draw(5, 3, 1, 2, 3, 4, 5, 6),
		draw(4, 1, 1, 2, 3, 4, 5, 6),
		draw(3, 1, 1, 2, 3, 4, 5, 6),
		draw(2, 3, 1, 2, 3, 4, 5, 6),
		draw(1, 1, 1, 2, 3, 4, 5, 6),
		draw(0, 3, 1, 2, 3, 4, 5, 6),
	}

	details := ComputeOccurrences(records)
	require.Len(t, details, contracts.SpecialBallCount+contracts.PrimaryBallCount)

	// ascending [0,2,5] -> intervals [2,3] -> (2+3)/3
	assert.Equal(t, contracts.OccurrenceDetail{
		OccurrenceCount: 3,
		AverageInterval: 1,
		ProjectedCount:  3, // 6 / (1+1)
		LastOccurrence:  5,
	}, details[contracts.SpecialOf(3)])

	// every draw: intervals [1,1,1,1,1] -> 5/6
	assert.Equal(t, contracts.OccurrenceDetail{
		OccurrenceCount: 6,
		AverageInterval: 0,
		ProjectedCount:  6,
		LastOccurrence:  5,
	}, details[contracts.PrimaryOf(1)])
}

func TestComputeOccurrences_SingleOccurrence(t *testing.T) {
	var records []contracts.DrawRecord
	for seq := 0; seq < 7; seq++ {
		records = append(records, draw(seq, 1, 1, 2, 3, 4, 5, 6))
	}
	records = append(records, draw(7, 1, 1, 2, 3, 4, 5, 30))

	d := ComputeOccurrences(records)[contracts.PrimaryOf(30)]
	assert.Equal(t, 1, d.OccurrenceCount)
	assert.Equal(t, 7, d.AverageInterval)
	assert.Equal(t, 1, d.ProjectedCount) // 8 / (7+1)
	assert.Equal(t, 7, d.LastOccurrence)
}

func TestComputeOccurrences_NeverDrawn(t *testing.T) {
	records := []contracts.DrawRecord{draw(0, 1, 1, 2, 3, 4, 5, 6)}

	details := ComputeOccurrences(records)
	assert.Equal(t, contracts.OccurrenceDetail{}, details[contracts.PrimaryOf(33)])
	assert.Equal(t, contracts.OccurrenceDetail{}, details[contracts.SpecialOf(16)])
}

func TestComputeOccurrences_InputOrderIndependent(t *testing.T) {
	records := []contracts.DrawRecord{
		draw(0, 3, 1, 2, 3, 4, 5, 6),
		draw(1, 4, 7, 2, 3, 4, 5, 6),
		draw(2, 3, 1, 8, 3, 4, 5, 6),
		draw(3, 3, 1, 2, 9, 4, 5, 6),
	}
	reversed := slices.Clone(records)
	slices.Reverse(reversed)

	assert.Equal(t, ComputeOccurrences(records), ComputeOccurrences(reversed))
}

func TestComputeOccurrences_Empty(t *testing.T) {
	details := ComputeOccurrences(nil)
	assert.Len(t, details, contracts.SpecialBallCount+contracts.PrimaryBallCount)
	assert.Equal(t, contracts.OccurrenceDetail{}, details[contracts.SpecialOf(1)])
}

func TestOccurrenceAnalyzer_Execute(t *testing.T) {
	records := []contracts.DrawRecord{draw(0, 2, 1, 2, 3, 4, 5, 6)}
	store := processor.NewStore(records)

	a := NewOccurrenceAnalyzer(nil)
	assert.Equal(t, "S1_OCCURRENCE", a.Name())
	require.NoError(t, a.Execute(context.Background(), store))

	details, ok := processor.Get(store, OccurrencesAttr)
	require.True(t, ok)
	assert.Equal(t, 1, details[contracts.SpecialOf(2)].OccurrenceCount)
}
