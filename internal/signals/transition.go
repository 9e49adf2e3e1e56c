package signals

import (
	"context"

	"github.com/wonny/ssq/internal/contracts"
	"github.com/wonny/ssq/internal/processor"
	"github.com/wonny/ssq/pkg/logger"
)

// TransitionAnalyzer counts which special ball followed which in consecutive draws (S3)
type TransitionAnalyzer struct {
	logger *logger.Logger
}

// NewTransitionAnalyzer creates a transition analyzer
func NewTransitionAnalyzer(log *logger.Logger) *TransitionAnalyzer {
	if log == nil {
		log = logger.NewNop()
	}
	return &TransitionAnalyzer{logger: log}
}

// Name returns the stage name
func (a *TransitionAnalyzer) Name() string {
	return contracts.StageTransition.String()
}

// Execute writes TransitionsAttr
func (a *TransitionAnalyzer) Execute(ctx context.Context, store *processor.Store) error {
	transitions := ComputeTransitions(store.Records())
	processor.Set(store, TransitionsAttr, transitions)

	pairs := 0
	for _, next := range transitions {
		for _, n := range next {
			pairs += n
		}
	}
	a.logger.WithField("transitions", pairs).Info("Special ball transitions computed")

	return nil
}

// ComputeTransitions walks the special balls in chronological order and
// counts each (current, next) pair. Every special ball has a row.
func ComputeTransitions(records []contracts.DrawRecord) contracts.SpecialTransitions {
	transitions := make(contracts.SpecialTransitions, contracts.SpecialBallCount)
	for _, s := range contracts.AllSpecialBalls() {
		transitions[s] = make(map[contracts.SpecialBall]int)
	}

	sorted := chronological(records)
	for i := 1; i < len(sorted); i++ {
		transitions[sorted[i-1].Special][sorted[i].Special]++
	}
	return transitions
}

// Followers returns the specials seen after s, most frequent first (ties by ball)
func Followers(t contracts.SpecialTransitions, s contracts.SpecialBall) []contracts.SpecialBall {
	return rankByCount(t[s])
}
