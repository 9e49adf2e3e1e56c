package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/ssq/internal/brain"
	"github.com/wonny/ssq/internal/contracts"
	"github.com/wonny/ssq/internal/draws"
	"github.com/wonny/ssq/internal/selection"
	"github.com/wonny/ssq/internal/strategyconfig"
	"github.com/wonny/ssq/pkg/logger"
)

// PipelineRunner runs the analytics chain
type PipelineRunner interface {
	Run(ctx context.Context, records []contracts.DrawRecord, config brain.RunConfig) (*brain.RunResult, error)
}

// RunStore reads persisted runs (selection.Repository)
type RunStore interface {
	GetRun(ctx context.Context, runID string) (*selection.Run, error)
	LatestRunID(ctx context.Context) (string, error)
}

// PipelineHandler runs the pipeline on demand and serves stored runs
// ⭐ SSOT: 파이프라인 API 핸들러는 이 구조체에서만
type PipelineHandler struct {
	draws        DrawLister
	runner       PipelineRunner
	runs         RunStore // nil = no run history
	strategy     *strategyconfig.Config
	strategyYAML []byte
	logger       *logger.Logger
}

// NewPipelineHandler creates a new pipeline handler. Pass a nil interface
// for runs when no database is configured.
func NewPipelineHandler(lister DrawLister, runner PipelineRunner, runs RunStore, strategy *strategyconfig.Config, strategyYAML []byte, log *logger.Logger) *PipelineHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &PipelineHandler{
		draws:        lister,
		runner:       runner,
		runs:         runs,
		strategy:     strategy,
		strategyYAML: strategyYAML,
		logger:       log,
	}
}

// RunRequest is the optional body of POST /api/pipeline/run
type RunRequest struct {
	Recent  int     `json:"recent"`            // 0 = whole history
	Weekday string  `json:"weekday,omitempty"` // restrict to draws held on this weekday
	Seed    *uint64 `json:"seed,omitempty"`    // overrides selection.seed
	DryRun  bool    `json:"dry_run"`
}

// Run executes the pipeline over the stored draws
// POST /api/pipeline/run
func (h *PipelineHandler) Run(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Recent < 0 {
		respondError(w, http.StatusBadRequest, "'recent' must be >= 0")
		return
	}

	records, err := h.draws.List(ctx, draws.Filter{Weekday: req.Weekday})
	if err != nil {
		h.logger.WithError(err).Error("Failed to list draws")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve draws")
		return
	}
	records = draws.Window(records, req.Recent)

	strategy := h.strategy
	strategyYAML := h.strategyYAML
	if req.Seed != nil {
		override := *h.strategy
		override.Selection.Seed = *req.Seed
		strategy = &override
		strategyYAML = nil
	}

	h.logger.WithFields(map[string]interface{}{
		"records": len(records),
		"weekday": req.Weekday,
		"dry_run": req.DryRun,
	}).Info("Pipeline run triggered")

	result, err := h.runner.Run(ctx, records, brain.RunConfig{
		RunID:        brain.NewRunID(time.Now()),
		Strategy:     strategy,
		StrategyYAML: strategyYAML,
		DryRun:       req.DryRun,
	})
	if err != nil {
		h.logger.WithError(err).Warn("Pipeline run failed")
		respondJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":  err.Error(),
			"result": result,
		})
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetRun returns a stored run; the id "latest" resolves to the newest run
// GET /api/pipeline/runs/{id}
func (h *PipelineHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	if h.runs == nil {
		respondError(w, http.StatusNotFound, "Run history not available (no database)")
		return
	}

	ctx := r.Context()
	runID := mux.Vars(r)["id"]

	if runID == "latest" {
		latest, err := h.runs.LatestRunID(ctx)
		if err != nil {
			h.respondRunError(w, err)
			return
		}
		runID = latest
	}

	run, err := h.runs.GetRun(ctx, runID)
	if err != nil {
		h.respondRunError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, run)
}

func (h *PipelineHandler) respondRunError(w http.ResponseWriter, err error) {
	if errors.Is(err, selection.ErrRunNotFound) {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	h.logger.WithError(err).Error("Failed to get run")
	respondError(w, http.StatusInternalServerError, "Failed to retrieve run")
}
