package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/wonny/ssq/internal/brain"
	"github.com/wonny/ssq/internal/contracts"
	"github.com/wonny/ssq/internal/strategyconfig"
	"github.com/wonny/ssq/pkg/logger"
)

// DefaultRefreshSchedule fires after the Tue/Thu/Sun evening draws
const DefaultRefreshSchedule = "0 30 21 * * 0,2,4"

// DrawSource fetches the current draw history, bypassing any cache
type DrawSource interface {
	Refresh(ctx context.Context, recent int) ([]contracts.DrawRecord, error)
}

// DrawSink persists draw records
type DrawSink interface {
	SaveBatch(ctx context.Context, records []contracts.DrawRecord) error
}

// PipelineRunner runs the analytics chain
type PipelineRunner interface {
	Run(ctx context.Context, records []contracts.DrawRecord, config brain.RunConfig) (*brain.RunResult, error)
}

// RefreshJob collects the latest draws, stores them and reruns the pipeline
// ⭐ SSOT: 추첨 후 갱신 스케줄은 이 Job에서만
type RefreshJob struct {
	source       DrawSource
	sink         DrawSink // nil = no persistence
	runner       PipelineRunner
	strategy     *strategyconfig.Config
	strategyYAML []byte
	recent       int
	schedule     string
	logger       *logger.Logger

	mu   sync.Mutex
	last *brain.RunResult
}

// NewRefreshJob creates a refresh job. Pass a nil interface (not a typed nil)
// for sink to skip persistence.
func NewRefreshJob(source DrawSource, sink DrawSink, runner PipelineRunner, strategy *strategyconfig.Config, strategyYAML []byte, recent int, log *logger.Logger) *RefreshJob {
	if log == nil {
		log = logger.NewNop()
	}
	return &RefreshJob{
		source:       source,
		sink:         sink,
		runner:       runner,
		strategy:     strategy,
		strategyYAML: strategyYAML,
		recent:       recent,
		schedule:     DefaultRefreshSchedule,
		logger:       log.WithJob("draw_refresh"),
	}
}

// WithSchedule overrides the cron expression
func (j *RefreshJob) WithSchedule(schedule string) *RefreshJob {
	j.schedule = schedule
	return j
}

// Name returns the job name
func (j *RefreshJob) Name() string {
	return "draw_refresh"
}

// Schedule returns the cron schedule (with seconds)
func (j *RefreshJob) Schedule() string {
	return j.schedule
}

// Run executes collect → save → pipeline
func (j *RefreshJob) Run(ctx context.Context) error {
	j.logger.Info("Starting scheduled draw refresh")

	records, err := j.source.Refresh(ctx, j.recent)
	if err != nil {
		return fmt.Errorf("collect draws: %w", err)
	}

	if j.sink != nil {
		if err := j.sink.SaveBatch(ctx, records); err != nil {
			return fmt.Errorf("save draws: %w", err)
		}
	}

	result, err := j.runner.Run(ctx, records, brain.RunConfig{
		RunID:        brain.NewRunID(time.Now()),
		Strategy:     j.strategy,
		StrategyYAML: j.strategyYAML,
	})
	if err != nil {
		return fmt.Errorf("run pipeline: %w", err)
	}

	j.mu.Lock()
	j.last = result
	j.mu.Unlock()

	j.logger.WithFields(map[string]interface{}{
		"run_id":     result.RunID,
		"records":    result.RecordCount,
		"selections": len(result.Selections),
	}).Info("Scheduled draw refresh completed")

	return nil
}

// LastResult returns the result of the last successful run, or nil
func (j *RefreshJob) LastResult() *brain.RunResult {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.last
}
