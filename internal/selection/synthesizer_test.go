package selection

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/ssq/internal/contracts"
	"github.com/wonny/ssq/internal/mining"
	"github.com/wonny/ssq/internal/processor"
	"github.com/wonny/ssq/internal/signals"
)

func fixtureRecords() []contracts.DrawRecord {
	rows := []struct {
		special int
		primary [6]int
	}{
		{1, [6]int{1, 2, 3, 4, 5, 6}},
		{2, [6]int{1, 7, 8, 9, 10, 11}},
		{1, [6]int{2, 3, 12, 13, 14, 15}},
		{3, [6]int{1, 2, 3, 16, 17, 18}},
		{2, [6]int{4, 5, 6, 19, 20, 21}},
		{1, [6]int{1, 2, 3, 22, 23, 24}},
		{4, [6]int{7, 8, 9, 25, 26, 27}},
		{2, [6]int{1, 2, 28, 29, 30, 31}},
		{3, [6]int{3, 4, 5, 32, 33, 10}},
		{1, [6]int{1, 2, 3, 11, 12, 13}},
	}

	base := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	records := make([]contracts.DrawRecord, len(rows))
	for i, row := range rows {
		records[i] = contracts.DrawRecord{
			Seq:     i,
			Date:    base.AddDate(0, 0, 2*i),
			Special: contracts.SpecialBall(row.special),
		}
		for j, p := range row.primary {
			records[i].Primary[j] = contracts.PrimaryBall(p)
		}
	}
	return records
}

// analyzedStore returns a store holding every attribute the synthesizer reads
func analyzedStore(t *testing.T) *processor.Store {
	t.Helper()

	store := processor.NewStore(fixtureRecords())
	ctx := context.Background()
	require.NoError(t, signals.NewOccurrenceAnalyzer(nil).Execute(ctx, store))
	require.NoError(t, signals.NewRelationshipAnalyzer(nil).Execute(ctx, store))
	require.NoError(t, signals.NewTransitionAnalyzer(nil).Execute(ctx, store))
	require.NoError(t, mining.NewPatternMiner(mining.Config{MinSupport: 2}, nil).Execute(ctx, store))
	return store
}

func TestSynthesizer_Selections(t *testing.T) {
	store := analyzedStore(t)

	config := Config{
		ResultSize:   2,
		PrimarySize:  6,
		Rank:         RankConfig{TopOverdue: 1, TopFrequent: 1},
		RelationTopK: 6,
	}
	s := NewSynthesizer(config, NewSeededShuffler(1), nil)
	require.NoError(t, s.Execute(context.Background(), store))

	specials, err := processor.Require(store, SpecialCandidatesAttr)
	require.NoError(t, err)
	// most overdue: 3, most frequent: 1
	assert.Equal(t, []contracts.SpecialBall{1, 3}, specials)

	selections, err := processor.Require(store, SelectionsAttr)
	require.NoError(t, err)
	assert.Equal(t, []contracts.Selection{
		// related [2 3 1 12 13 4], pattern items add nothing new
		{Special: 1, Primary: []contracts.PrimaryBall{1, 2, 3, 4, 12, 13}},
		// related [3 1 2 4 5 10], only singleton patterns
		{Special: 3, Primary: []contracts.PrimaryBall{1, 2, 3, 4, 5, 10}},
	}, selections)

	primaries, err := processor.Require(store, PrimaryCandidatesAttr)
	require.NoError(t, err)
	assertDistinctSorted(t, primaries, 6)
}

func TestSynthesizer_DefaultConfig(t *testing.T) {
	store := analyzedStore(t)

	require.NoError(t, NewSynthesizer(DefaultConfig(), NewSeededShuffler(42), nil).Execute(context.Background(), store))

	specials, _ := processor.Get(store, SpecialCandidatesAttr)
	assertDistinctSorted(t, specials, 5)

	selections, _ := processor.Get(store, SelectionsAttr)
	require.Len(t, selections, 5)
	for i, sel := range selections {
		assert.Equal(t, specials[i], sel.Special)
		assertDistinctSorted(t, sel.Primary, 6)
	}
}

func TestSynthesizer_SeedIsReproducible(t *testing.T) {
	run := func(seed uint64) []contracts.Selection {
		store := analyzedStore(t)
		require.NoError(t, NewSynthesizer(DefaultConfig(), NewSeededShuffler(seed), nil).Execute(context.Background(), store))
		selections, _ := processor.Get(store, SelectionsAttr)
		return selections
	}

	assert.Equal(t, run(7), run(7))
}

func TestSynthesizer_MissingAttributes(t *testing.T) {
	records := fixtureRecords()
	ctx := context.Background()

	tests := []struct {
		name    string
		stages  []processor.Processor
		missing string
	}{
		{
			name:    "no occurrences",
			stages:  []processor.Processor{signals.NewRelationshipAnalyzer(nil), mining.NewPatternMiner(mining.Config{MinSupport: 2}, nil)},
			missing: "occurrences",
		},
		{
			name:    "no relationships",
			stages:  []processor.Processor{signals.NewOccurrenceAnalyzer(nil), mining.NewPatternMiner(mining.Config{MinSupport: 2}, nil)},
			missing: "relationships",
		},
		{
			name:    "no patterns",
			stages:  []processor.Processor{signals.NewOccurrenceAnalyzer(nil), signals.NewRelationshipAnalyzer(nil)},
			missing: "special_group_patterns",
		},
		{
			name: "no transitions while followers are requested",
			stages: []processor.Processor{
				signals.NewOccurrenceAnalyzer(nil),
				signals.NewRelationshipAnalyzer(nil),
				mining.NewPatternMiner(mining.Config{MinSupport: 2}, nil),
			},
			missing: "special_transitions",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := processor.NewStore(records)
			require.NoError(t, processor.NewChain("setup", nil, tt.stages...).Execute(ctx, store))

			err := NewSynthesizer(DefaultConfig(), NewSeededShuffler(1), nil).Execute(ctx, store)
			var missing *contracts.MissingAttributeError
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, tt.missing, missing.Name)
			assert.False(t, processor.Has(store, SelectionsAttr))
		})
	}
}

func TestSynthesizer_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{"zero result size", func(c *Config) { c.ResultSize = 0 }},
		{"negative result size", func(c *Config) { c.ResultSize = -1 }},
		{"result size beyond the special domain", func(c *Config) { c.ResultSize = contracts.SpecialBallCount + 1 }},
		{"zero primary size", func(c *Config) { c.PrimarySize = 0 }},
		{"negative primary size", func(c *Config) { c.PrimarySize = -6 }},
		{"negative relation top-k", func(c *Config) { c.RelationTopK = -1 }},
		{"negative followers", func(c *Config) { c.TopFollowers = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.modify(&config)
			store := analyzedStore(t)

			var err error
			require.NotPanics(t, func() {
				err = NewSynthesizer(config, NewSeededShuffler(1), nil).Execute(context.Background(), store)
			})

			var other *contracts.OtherError
			require.ErrorAs(t, err, &other)
			assert.False(t, processor.Has(store, SelectionsAttr))
		})
	}
}

func TestSynthesizer_ZeroRelationTopKUsesPatternsAndFallback(t *testing.T) {
	config := DefaultConfig()
	config.RelationTopK = 0
	store := analyzedStore(t)

	require.NoError(t, NewSynthesizer(config, NewSeededShuffler(3), nil).Execute(context.Background(), store))

	selections, _ := processor.Get(store, SelectionsAttr)
	require.Len(t, selections, config.ResultSize)
	for _, sel := range selections {
		assertDistinctSorted(t, sel.Primary, config.PrimarySize)
	}
}

func TestSynthesizer_LatestFollowers(t *testing.T) {
	records := fixtureRecords()
	transitions := signals.ComputeTransitions(records)

	s := NewSynthesizer(Config{TopFollowers: 2}, noShuffle{}, nil)
	// latest special is 1; it was followed by 2, 3 and 4 once each
	assert.Equal(t, []contracts.SpecialBall{2, 3}, s.latestFollowers(records, transitions))
	assert.Nil(t, s.latestFollowers(nil, transitions))
}

func assertDistinctSorted[B contracts.SpecialBall | contracts.PrimaryBall](t *testing.T, balls []B, size int) {
	t.Helper()
	require.Len(t, balls, size)
	for i := 1; i < len(balls); i++ {
		assert.Less(t, balls[i-1], balls[i])
	}
}
