package brain

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/wonny/ssq/internal/contracts"
	"github.com/wonny/ssq/internal/mining"
	"github.com/wonny/ssq/internal/processor"
	"github.com/wonny/ssq/internal/selection"
	"github.com/wonny/ssq/internal/signals"
	"github.com/wonny/ssq/internal/strategyconfig"
	"github.com/wonny/ssq/pkg/logger"
)

// Orchestrator builds and runs the analytics chain
// ⭐ SSOT: 파이프라인 조율은 여기서만
type Orchestrator struct {
	// Optional: nil disables persistence of runs
	selectionRepo *selection.Repository

	logger *logger.Logger
}

// RunConfig holds configuration for a pipeline run
type RunConfig struct {
	RunID        string
	Strategy     *strategyconfig.Config
	StrategyYAML []byte
	DryRun       bool // If true, skip saving the run
}

// RunResult holds the results of a complete pipeline run
type RunResult struct {
	RunID             string                           `json:"run_id"`
	Snapshot          *strategyconfig.DecisionSnapshot `json:"snapshot"`
	Success           bool                             `json:"success"`
	Error             error                            `json:"-"`
	RecordCount       int                              `json:"record_count"`
	CompletedStages   []string                         `json:"completed_stages"`
	Stages            []contracts.PipelineResult       `json:"stages"`
	SpecialCandidates []contracts.SpecialBall          `json:"special_candidates"`
	PrimaryCandidates []contracts.PrimaryBall          `json:"primary_candidates"`
	Selections        []contracts.Selection            `json:"selections"`
	Duration          time.Duration                    `json:"duration"`

	// Store is the final blackboard; other attributes can be read from it
	Store *processor.Store `json:"-"`
}

// NewOrchestrator creates a new orchestrator
func NewOrchestrator(selectionRepo *selection.Repository, log *logger.Logger) *Orchestrator {
	if log == nil {
		log = logger.NewNop()
	}
	return &Orchestrator{
		selectionRepo: selectionRepo,
		logger:        log,
	}
}

// BuildChain assembles the standard chain from a strategy:
// [S0 export] → S1 occurrence → S2 relationship → S3 transition → S4 patterns → S5 selection
func BuildChain(cfg *strategyconfig.Config, log *logger.Logger) *processor.Chain {
	chain := processor.NewChain("ssq", log)

	if cfg.Export.Enabled {
		chain.Add(signals.NewDrawExporter(cfg.Export.Path, log))
	}

	chain.
		Add(signals.NewOccurrenceAnalyzer(log)).
		Add(signals.NewRelationshipAnalyzer(log)).
		Add(signals.NewTransitionAnalyzer(log)).
		Add(mining.NewPatternMiner(MiningConfig(cfg), log)).
		Add(selection.NewSynthesizer(SelectionConfig(cfg), Shuffler(cfg), log))

	return chain
}

// MiningConfig maps strategy keys onto the pattern miner
func MiningConfig(cfg *strategyconfig.Config) mining.Config {
	return mining.Config{
		MinSupport:       cfg.Patterns.MinSupport,
		MaxLength:        cfg.Patterns.MaxLength,
		WindowSize:       cfg.Patterns.WindowSize,
		WindowMinSupport: cfg.Patterns.WindowMinSupport,
	}
}

// SelectionConfig maps strategy keys onto the synthesizer
func SelectionConfig(cfg *strategyconfig.Config) selection.Config {
	return selection.Config{
		ResultSize:  cfg.Selection.ResultSize,
		PrimarySize: cfg.Selection.PrimarySize,
		Rank: selection.RankConfig{
			TopOverdue:  cfg.Selection.TopOverdue,
			TopFrequent: cfg.Selection.TopFrequent,
			TopInterval: cfg.Selection.TopInterval,
		},
		RelationTopK: cfg.Selection.RelationTopK,
		TopFollowers: cfg.Selection.TopFollowers,
	}
}

// Shuffler returns a seeded shuffler, or nil (unseeded) when seed is 0
func Shuffler(cfg *strategyconfig.Config) selection.Shuffler {
	if cfg.Selection.Seed == 0 {
		return nil
	}
	return selection.NewSeededShuffler(cfg.Selection.Seed)
}

// Run executes the standard chain over records
func (o *Orchestrator) Run(ctx context.Context, records []contracts.DrawRecord, config RunConfig) (*RunResult, error) {
	return o.RunChain(ctx, BuildChain(config.Strategy, o.logger.WithRun(config.RunID)), records, config)
}

// RunChain executes an arbitrary chain over records and collects the selection attributes
func (o *Orchestrator) RunChain(ctx context.Context, chain *processor.Chain, records []contracts.DrawRecord, config RunConfig) (*RunResult, error) {
	startTime := time.Now()

	result := &RunResult{
		RunID:           config.RunID,
		Success:         false,
		RecordCount:     len(records),
		CompletedStages: make([]string, 0),
	}

	if len(records) == 0 {
		result.Error = fmt.Errorf("no draw records to analyze")
		return result, result.Error
	}
	if err := contracts.ValidateHistory(records); err != nil {
		result.Error = fmt.Errorf("invalid draw history: %w", err)
		return result, result.Error
	}

	latest := slices.MaxFunc(records, contracts.ChronologicalOrder)
	snapshot, err := strategyconfig.NewDecisionSnapshot(config.Strategy, config.StrategyYAML, latest.Code)
	if err != nil {
		result.Error = fmt.Errorf("strategy snapshot: %w", err)
		return result, result.Error
	}
	result.Snapshot = snapshot

	log := o.logger.WithRun(config.RunID)
	log.WithFields(map[string]interface{}{
		"records":     len(records),
		"latest_code": latest.Code,
		"strategy":    snapshot.StrategyID,
		"config_hash": snapshot.ConfigHash,
		"stages":      len(chain.Processors()),
		"dry_run":     config.DryRun,
	}).Info("Starting pipeline run")

	store := processor.NewStore(records)
	result.Store = store

	err = chain.Execute(ctx, store)
	result.Stages = chain.Results()
	for _, stage := range result.Stages {
		if stage.Success {
			result.CompletedStages = append(result.CompletedStages, stage.Stage.ShortName()+":"+stage.Stage.Description())
		}
	}
	if err != nil {
		result.Error = fmt.Errorf("pipeline failed: %w", err)
		return result, result.Error
	}

	if err := o.collect(store, result); err != nil {
		result.Error = fmt.Errorf("pipeline failed: %w", err)
		return result, result.Error
	}

	// Save run (skip if dry run or no database)
	if o.selectionRepo != nil && !config.DryRun {
		run := selection.Run{
			RunID:        config.RunID,
			StrategyHash: snapshot.ConfigHash,
			RecordCount:  len(records),
			LatestCode:   latest.Code,
			Selections:   result.Selections,
			CreatedAt:    snapshot.CreatedAt,
		}
		if err := o.selectionRepo.SaveRun(ctx, run); err != nil {
			result.Error = fmt.Errorf("save run: %w", err)
			return result, result.Error
		}
	}

	// Mark success
	result.Success = true
	result.Duration = time.Since(startTime)

	log.WithFields(map[string]interface{}{
		"duration":   result.Duration.Seconds(),
		"stages":     len(result.CompletedStages),
		"selections": len(result.Selections),
	}).Info("Pipeline run completed successfully")

	return result, nil
}

// collect copies the selection attributes out of the store
func (o *Orchestrator) collect(store *processor.Store, result *RunResult) error {
	specials, err := processor.Require(store, selection.SpecialCandidatesAttr)
	if err != nil {
		return err
	}
	primaries, err := processor.Require(store, selection.PrimaryCandidatesAttr)
	if err != nil {
		return err
	}
	selections, err := processor.Require(store, selection.SelectionsAttr)
	if err != nil {
		return err
	}

	result.SpecialCandidates = specials
	result.PrimaryCandidates = primaries
	result.Selections = selections
	return nil
}

// NewRunID returns a run id that sorts by time and stays unique within the
// same microsecond: "run-20060102-150405.000000-" plus 8 random hex digits.
func NewRunID(now time.Time) string {
	return "run-" + now.UTC().Format("20060102-150405.000000") + "-" + uuid.NewString()[:8]
}
