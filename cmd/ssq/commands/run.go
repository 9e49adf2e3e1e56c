package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/ssq/internal/brain"
	"github.com/wonny/ssq/internal/draws"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the analytics pipeline",
	Long: `Runs the analytics chain over the draw history and prints the selections.

The history comes from the database when it holds draws, otherwise from the
configured collector source. With a database the run is saved unless --dry-run.

Example:
  go run ./cmd/ssq run
  go run ./cmd/ssq run --seed 42 --recent 200
  go run ./cmd/ssq run --weekday 四 --export generate.txt`,
	RunE: runPipeline,
}

var (
	runSeed    uint64
	runDryRun  bool
	runExport  string
	runWeekday string
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Uint64Var(&runSeed, "seed", 0, "selection seed (overrides selection.seed; 0 keeps the strategy value)")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "do not save the run")
	runCmd.Flags().StringVar(&runExport, "export", "", "also write the normalized history to this file")
	runCmd.Flags().StringVar(&runWeekday, "weekday", "", "only analyze draws held on this weekday (e.g. 二)")
}

func runPipeline(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	records, err := a.loadDraws(ctx, draws.Filter{Weekday: runWeekday})
	if err != nil {
		return fmt.Errorf("load draws: %w", err)
	}

	strategy := *a.strategy
	strategyYAML := a.strategyYAML
	if runSeed != 0 {
		strategy.Selection.Seed = runSeed
		strategyYAML = nil
	}
	if runExport != "" {
		strategy.Export.Enabled = true
		strategy.Export.Path = runExport
	}

	result, err := a.orchestrator().Run(ctx, draws.Renumber(records), brain.RunConfig{
		RunID:        brain.NewRunID(time.Now()),
		Strategy:     &strategy,
		StrategyYAML: strategyYAML,
		DryRun:       runDryRun,
	})
	if err != nil {
		return err
	}

	PrintRunResult(result)
	return nil
}
