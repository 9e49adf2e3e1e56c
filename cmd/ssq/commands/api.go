package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/ssq/internal/api"
	"github.com/wonny/ssq/internal/api/handlers"
	"github.com/wonny/ssq/internal/draws"
	"github.com/wonny/ssq/internal/scheduler"
	"github.com/wonny/ssq/internal/scheduler/jobs"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long: `Starts the REST API server.

Without a database the draw history is collected once at startup and kept in
memory; --refresh keeps it current after each draw.

Endpoints:
  GET  /health                  - Health check (database, redis)
  GET  /api/draws               - Draws (weekday, from_seq, to_seq, from, to)
  POST /api/pipeline/run        - Run the pipeline
  GET  /api/pipeline/runs/{id}  - Stored run ("latest" for the newest)

Example:
  go run ./cmd/ssq api
  go run ./cmd/ssq api --port 8080 --refresh`,
	RunE: runAPIServer,
}

var (
	apiPort    string
	apiRefresh bool
)

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (default: PORT)")
	apiCmd.Flags().BoolVar(&apiRefresh, "refresh", false, "refresh draws after each draw evening")
}

// drawStore is the store shared by the handlers and the refresh job
type drawStore interface {
	handlers.DrawLister
	jobs.DrawSink
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if apiPort != "" {
		a.cfg.Port = apiPort
	}

	records, err := a.loadDraws(ctx, draws.Filter{})
	if err != nil {
		return fmt.Errorf("load draws: %w", err)
	}

	var store drawStore = draws.NewMemory(records)
	if a.drawRepo != nil {
		store = a.drawRepo
	}
	var runs handlers.RunStore
	if a.selectionRepo != nil {
		runs = a.selectionRepo
	}
	orchestrator := a.orchestrator()

	health := handlers.NewHealthHandler("ssq-api", a.log)
	if a.db != nil {
		health.Register("database", a.db)
	} else {
		health.Register("database", nil)
	}
	if a.redis.Enabled() {
		health.Register("redis", a.redis)
	} else {
		health.Register("redis", nil)
	}

	router := api.NewRouter(
		health,
		handlers.NewDrawsHandler(store, a.log),
		handlers.NewPipelineHandler(store, orchestrator, runs, a.strategy, a.strategyYAML, a.log),
		a.log,
	)
	server := api.New(a.cfg, a.log, router)

	if apiRefresh {
		sched := scheduler.New(a.log, scheduler.WithLocation(drawLocation))
		job := jobs.NewRefreshJob(a.collector, store, orchestrator, a.strategy, a.strategyYAML, a.cfg.Collector.RecentSize, a.log)
		if err := sched.AddJob(job); err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()
	}

	a.log.WithField("draws", len(records)).Info("API server starting")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", a.cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	if err := server.Run(ctx, 30*time.Second); err != nil {
		return err
	}

	a.log.Info("Server stopped")
	return nil
}
