package commands

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/wonny/ssq/internal/api/handlers"
)

// drawsCmd represents the draws command
var drawsCmd = &cobra.Command{
	Use:   "draws",
	Short: "List draws",
	Long: `Lists draws matching the given filters (the same filters as GET /api/draws).

Example:
  go run ./cmd/ssq draws --weekday 日
  go run ./cmd/ssq draws --from-seq 100 --to-seq 120
  go run ./cmd/ssq draws --from 2024-01-01 --to 2024-03-31`,
	RunE: runDraws,
}

var (
	drawsWeekday string
	drawsFromSeq int
	drawsToSeq   int
	drawsFrom    string
	drawsTo      string
)

func init() {
	rootCmd.AddCommand(drawsCmd)

	drawsCmd.Flags().StringVar(&drawsWeekday, "weekday", "", "weekday (二, 四, 日)")
	drawsCmd.Flags().IntVar(&drawsFromSeq, "from-seq", -1, "first sequence index (inclusive)")
	drawsCmd.Flags().IntVar(&drawsToSeq, "to-seq", -1, "last sequence index (inclusive)")
	drawsCmd.Flags().StringVar(&drawsFrom, "from", "", "first date, YYYY-MM-DD (inclusive)")
	drawsCmd.Flags().StringVar(&drawsTo, "to", "", "last date, YYYY-MM-DD (inclusive)")
}

func runDraws(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	q := url.Values{}
	if drawsWeekday != "" {
		q.Set("weekday", drawsWeekday)
	}
	if drawsFromSeq >= 0 {
		q.Set("from_seq", strconv.Itoa(drawsFromSeq))
	}
	if drawsToSeq >= 0 {
		q.Set("to_seq", strconv.Itoa(drawsToSeq))
	}
	if drawsFrom != "" {
		q.Set("from", drawsFrom)
	}
	if drawsTo != "" {
		q.Set("to", drawsTo)
	}
	filter, err := handlers.ParseFilter(q)
	if err != nil {
		return err
	}

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	records, err := a.loadDraws(ctx, filter)
	if err != nil {
		return fmt.Errorf("load draws: %w", err)
	}

	for _, r := range records {
		fmt.Println(FormatDraw(r))
	}
	fmt.Printf("\n%d draws\n", len(records))
	return nil
}
