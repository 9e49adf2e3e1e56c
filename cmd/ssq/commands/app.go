package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/wonny/ssq/internal/brain"
	"github.com/wonny/ssq/internal/collector"
	"github.com/wonny/ssq/internal/contracts"
	"github.com/wonny/ssq/internal/draws"
	"github.com/wonny/ssq/internal/selection"
	"github.com/wonny/ssq/internal/strategyconfig"
	"github.com/wonny/ssq/pkg/config"
	"github.com/wonny/ssq/pkg/database"
	"github.com/wonny/ssq/pkg/httputil"
	"github.com/wonny/ssq/pkg/logger"
	"github.com/wonny/ssq/pkg/redis"
)

// app holds the wired dependencies shared by every command
type app struct {
	cfg       *config.Config
	log       *logger.Logger
	collector *collector.Collector
	redis     *redis.Client

	// Optional: nil when DATABASE_URL is empty
	db            *database.DB
	drawRepo      *draws.Repository
	selectionRepo *selection.Repository

	strategy     *strategyconfig.Config
	strategyYAML []byte
}

// newApp loads config and connects every configured backend
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	if sourceFlag != "" {
		cfg.Collector.Source = sourceFlag
	}
	if recentFlag >= 0 {
		cfg.Collector.RecentSize = recentFlag
	}

	log := logger.New(cfg)
	a := &app{cfg: cfg, log: log}

	// Redis is a cache only: connection failures degrade to no caching
	rc, err := redis.New(cfg)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, draw cache disabled")
		rc = &redis.Client{}
	}
	a.redis = rc

	col, err := collector.New(cfg.Collector, httputil.New(cfg, log), redis.NewCache(rc, "ssq"), log)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("create collector: %w", err)
	}
	a.collector = col

	db, err := database.New(ctx, cfg)
	switch {
	case errors.Is(err, database.ErrDisabled):
		log.Debug("DATABASE_URL not set, persistence disabled")
	case err != nil:
		a.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	default:
		a.db = db
		a.drawRepo = draws.NewRepository(db.Pool)
		a.selectionRepo = selection.NewRepository(db.Pool)
		if err := db.EnsureSchemas(ctx, a.drawRepo, a.selectionRepo); err != nil {
			a.Close()
			return nil, err
		}
	}

	path := cfg.StrategyPath
	if strategyPath != "" {
		path = strategyPath
	}
	strategy, strategyYAML, err := strategyconfig.LoadOrDefault(path)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("load strategy: %w", err)
	}
	for _, w := range strategyconfig.Warn(strategy) {
		log.WithField("code", w.Code).Warn(w.Message)
	}
	a.strategy = strategy
	a.strategyYAML = strategyYAML

	return a, nil
}

// Close releases every connection
func (a *app) Close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
}

// orchestrator persists runs when a database is configured
func (a *app) orchestrator() *brain.Orchestrator {
	return brain.NewOrchestrator(a.selectionRepo, a.log)
}

// loadDraws returns the latest RecentSize draws, numbered from 0, from the
// database when it is configured and non-empty, otherwise from the configured
// source. filter applies to that window.
func (a *app) loadDraws(ctx context.Context, filter draws.Filter) ([]contracts.DrawRecord, error) {
	if a.drawRepo != nil {
		n, err := a.drawRepo.Count(ctx)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			records, err := a.drawRepo.List(ctx, draws.Filter{})
			if err != nil {
				return nil, err
			}
			return draws.Apply(draws.Window(records, a.cfg.Collector.RecentSize), filter), nil
		}
	}

	records, err := a.collector.Collect(ctx, a.cfg.Collector.RecentSize)
	if err != nil {
		return nil, err
	}
	if a.drawRepo != nil {
		if err := a.drawRepo.SaveBatch(ctx, records); err != nil {
			return nil, err
		}
	}
	return draws.Apply(records, filter), nil
}
