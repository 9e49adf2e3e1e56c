package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	strategyPath string
	sourceFlag   string
	recentFlag   int
	verbose      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ssq",
	Short: "SSQ draw analytics",
	Long: `SSQ draw analytics CLI

Collects the official draw history and runs the analytics chain:
  S0 export → S1 occurrence → S2 relationship → S3 transition → S4 patterns → S5 selection

Usage:
  go run ./cmd/ssq [command]

Examples:
  go run ./cmd/ssq run --seed 42
  go run ./cmd/ssq collect --source local
  go run ./cmd/ssq draws --weekday 二
  go run ./cmd/ssq api
  go run ./cmd/ssq scheduler start`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
// Ctrl+C / SIGTERM cancel the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&strategyPath, "strategy", "", "strategy YAML (default: STRATEGY_PATH or built-in defaults)")
	rootCmd.PersistentFlags().StringVar(&sourceFlag, "source", "", "draw source: local|remote (default: COLLECTOR_SOURCE)")
	rootCmd.PersistentFlags().IntVar(&recentFlag, "recent", -1, "keep only the latest N draws (default: COLLECTOR_RECENT_SIZE, 0 = all)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}
