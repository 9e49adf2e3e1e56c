package selection

import (
	"context"
	"math/rand/v2"
	"slices"

	"github.com/wonny/ssq/internal/contracts"
	"github.com/wonny/ssq/internal/mining"
	"github.com/wonny/ssq/internal/processor"
	"github.com/wonny/ssq/internal/signals"
	"github.com/wonny/ssq/pkg/logger"
)

// Store attributes written by Synthesizer
var (
	// SpecialCandidatesAttr holds the chosen special balls, ascending
	SpecialCandidatesAttr = processor.NewAttribute[[]contracts.SpecialBall]("special_candidates")

	// PrimaryCandidatesAttr holds the primary balls chosen from occurrence rankings alone
	PrimaryCandidatesAttr = processor.NewAttribute[[]contracts.PrimaryBall]("primary_candidates")

	// SelectionsAttr holds one selection per chosen special ball
	SelectionsAttr = processor.NewAttribute[[]contracts.Selection]("selections")
)

// Config holds synthesizer parameters
type Config struct {
	ResultSize   int // number of special balls (selections)
	PrimarySize  int // primary balls per selection
	Rank         RankConfig
	RelationTopK int // related primaries taken per special ball
	TopFollowers int // followers of the latest special added to the pool; 0 = transitions unused
}

// DefaultConfig returns the default synthesizer parameters
func DefaultConfig() Config {
	return Config{
		ResultSize:  5,
		PrimarySize: contracts.PrimaryPerDraw,
		Rank: RankConfig{
			TopOverdue:  3,
			TopFrequent: 3,
			TopInterval: 3,
		},
		RelationTopK: 6,
		TopFollowers: 2,
	}
}

// Validate rejects sizes the synthesizer cannot honour
func (c Config) Validate() error {
	switch {
	case c.ResultSize < 1 || c.ResultSize > contracts.SpecialBallCount:
		return contracts.Errorf("result size %d out of range [1, %d]", c.ResultSize, contracts.SpecialBallCount)
	case c.PrimarySize < 1 || c.PrimarySize > contracts.PrimaryBallCount:
		return contracts.Errorf("primary size %d out of range [1, %d]", c.PrimarySize, contracts.PrimaryBallCount)
	case c.RelationTopK < 0:
		return contracts.Errorf("relation top-k must be >= 0, got %d", c.RelationTopK)
	case c.TopFollowers < 0:
		return contracts.Errorf("top followers must be >= 0, got %d", c.TopFollowers)
	}
	return nil
}

// Synthesizer merges occurrence, relationship and pattern signals into the
// final selections (S5)
// ⭐ SSOT: 최종 후보 선택은 여기서만
type Synthesizer struct {
	config   Config
	shuffler Shuffler
	logger   *logger.Logger
}

// NewSynthesizer creates a synthesizer. A nil shuffler falls back to the
// unseeded global source.
func NewSynthesizer(config Config, shuffler Shuffler, log *logger.Logger) *Synthesizer {
	if shuffler == nil {
		shuffler = globalShuffler{}
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Synthesizer{
		config:   config,
		shuffler: shuffler,
		logger:   log,
	}
}

// NewSeededShuffler returns a deterministic shuffler
func NewSeededShuffler(seed uint64) Shuffler {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

type globalShuffler struct{}

func (globalShuffler) Shuffle(n int, swap func(i, j int)) {
	rand.Shuffle(n, swap)
}

// Name returns the stage name
func (s *Synthesizer) Name() string {
	return contracts.StageSelection.String()
}

// Execute writes SpecialCandidatesAttr, PrimaryCandidatesAttr and SelectionsAttr
func (s *Synthesizer) Execute(ctx context.Context, store *processor.Store) error {
	if err := s.config.Validate(); err != nil {
		return err
	}

	occurrences, err := processor.Require(store, signals.OccurrencesAttr)
	if err != nil {
		return err
	}
	relationships, err := processor.Require(store, signals.RelationshipsAttr)
	if err != nil {
		return err
	}
	groupPatterns, err := processor.Require(store, mining.SpecialGroupPatternsAttr)
	if err != nil {
		return err
	}

	// Special domain
	specialPool := RankCandidates(specialDetails(occurrences), s.config.Rank)
	if s.config.TopFollowers > 0 {
		transitions, err := processor.Require(store, signals.TransitionsAttr)
		if err != nil {
			return err
		}
		followers := s.latestFollowers(store.Records(), transitions)
		specialPool = Union(specialPool, followers)
	}
	if len(specialPool) == 0 {
		return contracts.Errorf("special candidate pool is empty")
	}
	specials := pick(specialPool, contracts.AllSpecialBalls(), s.config.ResultSize, s.shuffler)
	if len(specials) == 0 {
		return contracts.Errorf("no special ball selected")
	}

	// Primary domain
	primaryPool := RankCandidates(primaryDetails(occurrences), s.config.Rank)
	if len(primaryPool) == 0 {
		return contracts.Errorf("primary candidate pool is empty")
	}
	primaryFallback := Union(primaryPool, contracts.AllPrimaryBalls())
	primaries := pick(primaryPool, primaryFallback, s.config.PrimarySize, s.shuffler)

	// Cross-domain: primaries associated with each chosen special
	selections := make([]contracts.Selection, 0, len(specials))
	for _, special := range specials {
		entry, ok := relationships[contracts.SpecialOf(special)]
		if !ok {
			return contracts.Errorf("no relationship entry for special ball %s", special)
		}

		pool := s.associatedPrimaries(entry, groupPatterns[special])
		if len(pool) == 0 {
			s.logger.WithField("special", special.String()).Debug("No associated primaries, using occurrence ranking")
		}

		selections = append(selections, contracts.Selection{
			Special: special,
			Primary: pick(pool, primaryFallback, s.config.PrimarySize, s.shuffler),
		})
	}

	processor.Set(store, SpecialCandidatesAttr, specials)
	processor.Set(store, PrimaryCandidatesAttr, primaries)
	processor.Set(store, SelectionsAttr, selections)

	s.logger.WithFields(map[string]interface{}{
		"special_pool": len(specialPool),
		"primary_pool": len(primaryPool),
		"specials":     specials,
		"selections":   len(selections),
	}).Info("Selections synthesized")

	return nil
}

// associatedPrimaries unions the special ball's top related primaries with
// the items of its multi-item patterns, highest support first
func (s *Synthesizer) associatedPrimaries(entry contracts.RelationshipEntry, patterns []contracts.FrequentPattern[contracts.PrimaryBall]) []contracts.PrimaryBall {
	related := signals.RankByCount(entry.Primary)
	related = related[:min(s.config.RelationTopK, len(related))]

	multi := mining.FilterMinLength(patterns, 2)
	mining.SortPatterns(multi)

	var items []contracts.PrimaryBall
	for _, p := range multi {
		items = append(items, p.Items...)
	}

	return Union(related, items)
}

// latestFollowers returns up to TopFollowers specials that most often
// followed the most recent draw's special ball
func (s *Synthesizer) latestFollowers(records []contracts.DrawRecord, transitions contracts.SpecialTransitions) []contracts.SpecialBall {
	if len(records) == 0 {
		return nil
	}
	latest := slices.MaxFunc(records, contracts.ChronologicalOrder)

	followers := signals.Followers(transitions, latest.Special)
	return followers[:min(s.config.TopFollowers, len(followers))]
}
