package mining

import (
	"cmp"
	"context"

	"github.com/wonny/ssq/internal/contracts"
	"github.com/wonny/ssq/internal/processor"
	"github.com/wonny/ssq/pkg/logger"
)

// Store attributes written by PatternMiner
var (
	// SpecialGroupPatternsAttr holds primary patterns per special ball
	SpecialGroupPatternsAttr = processor.NewAttribute[map[contracts.SpecialBall][]contracts.FrequentPattern[contracts.PrimaryBall]]("special_group_patterns")

	// PrimaryGroupPatternsAttr holds patterns of the other primaries per primary ball
	PrimaryGroupPatternsAttr = processor.NewAttribute[map[contracts.PrimaryBall][]contracts.FrequentPattern[contracts.PrimaryBall]]("primary_group_patterns")

	// SpecialWindowPatternsAttr holds special ball patterns over sliding windows
	SpecialWindowPatternsAttr = processor.NewAttribute[[]contracts.FrequentPattern[contracts.SpecialBall]]("special_window_patterns")
)

// Config holds pattern mining parameters
type Config struct {
	MinSupport       int // grouped transactions
	MaxLength        int // 0 = unbounded
	WindowSize       int // 0 disables windowed mining
	WindowMinSupport int
}

// PatternMiner runs grouped and windowed FP-Growth (S4)
type PatternMiner struct {
	config Config
	logger *logger.Logger
}

// NewPatternMiner creates a pattern miner
func NewPatternMiner(config Config, log *logger.Logger) *PatternMiner {
	if log == nil {
		log = logger.NewNop()
	}
	return &PatternMiner{config: config, logger: log}
}

// Name returns the stage name
func (m *PatternMiner) Name() string {
	return contracts.StagePatterns.String()
}

// Execute writes the three pattern attributes, each sorted canonically
func (m *PatternMiner) Execute(ctx context.Context, store *processor.Store) error {
	records := store.Records()
	opts := []Option{WithMaxLength(m.config.MaxLength)}

	specialGroups := mineGroups(GroupBySpecial(records), m.config.MinSupport, opts)
	processor.Set(store, SpecialGroupPatternsAttr, specialGroups)

	if err := ctx.Err(); err != nil {
		return err
	}

	primaryGroups := mineGroups(GroupByPrimary(records), m.config.MinSupport, opts)
	processor.Set(store, PrimaryGroupPatternsAttr, primaryGroups)

	windowPatterns := []contracts.FrequentPattern[contracts.SpecialBall]{}
	if m.config.WindowSize > 0 {
		windowPatterns = Mine(SpecialWindows(records, m.config.WindowSize), m.config.WindowMinSupport, opts...)
		SortPatterns(windowPatterns)
	}
	processor.Set(store, SpecialWindowPatternsAttr, windowPatterns)

	m.logger.WithFields(map[string]interface{}{
		"min_support":     m.config.MinSupport,
		"max_length":      m.config.MaxLength,
		"window_size":     m.config.WindowSize,
		"special_groups":  countPatterns(specialGroups),
		"primary_groups":  countPatterns(primaryGroups),
		"window_patterns": len(windowPatterns),
	}).Info("Frequent patterns mined")

	return nil
}

func mineGroups[K comparable, T cmp.Ordered](groups map[K][][]T, minSupport int, opts []Option) map[K][]contracts.FrequentPattern[T] {
	result := make(map[K][]contracts.FrequentPattern[T], len(groups))
	for key, transactions := range groups {
		patterns := Mine(transactions, minSupport, opts...)
		SortPatterns(patterns)
		result[key] = patterns
	}
	return result
}

func countPatterns[K comparable, T cmp.Ordered](groups map[K][]contracts.FrequentPattern[T]) int {
	n := 0
	for _, patterns := range groups {
		n += len(patterns)
	}
	return n
}
