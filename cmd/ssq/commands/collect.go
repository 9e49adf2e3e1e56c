package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// collectCmd represents the collect command
var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Collect the draw history",
	Long: `Fetches the draw history from the configured source and stores it.

Without a database the collected draws are only summarized.

Example:
  go run ./cmd/ssq collect
  go run ./cmd/ssq collect --source local --recent 100
  go run ./cmd/ssq collect --fresh`,
	RunE: runCollect,
}

var collectFresh bool

func init() {
	rootCmd.AddCommand(collectCmd)

	collectCmd.Flags().BoolVar(&collectFresh, "fresh", false, "ignore cached draws and refetch")
}

func runCollect(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	PrintHeader("Draw Collection")
	fmt.Printf("  Source    : %s\n", a.collector.Source())
	fmt.Printf("  Recent    : %d (0 = all)\n", a.cfg.Collector.RecentSize)
	fmt.Println(ruleLight)

	collect := a.collector.Collect
	if collectFresh {
		collect = a.collector.Refresh
	}

	records, err := collect(ctx, a.cfg.Collector.RecentSize)
	if err != nil {
		return fmt.Errorf("collect draws: %w", err)
	}
	if len(records) == 0 {
		fmt.Println("No draws collected")
		return nil
	}

	first, last := records[0], records[len(records)-1]
	fmt.Printf("Collected %d draws: %s (%s) ~ %s (%s)\n",
		len(records), first.Code, first.Date.Format("2006-01-02"), last.Code, last.Date.Format("2006-01-02"))

	if a.drawRepo == nil {
		fmt.Println("DATABASE_URL not set: draws were not stored")
		return nil
	}

	if err := a.drawRepo.SaveBatch(ctx, records); err != nil {
		return fmt.Errorf("save draws: %w", err)
	}
	total, err := a.drawRepo.Count(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("\n✅ Stored %d draws (%d in database)\n", len(records), total)
	return nil
}
