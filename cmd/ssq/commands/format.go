package commands

import (
	"fmt"
	"strings"

	"github.com/wonny/ssq/internal/brain"
	"github.com/wonny/ssq/internal/contracts"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// 모든 커맨드가 동일한 출력 포맷을 사용하도록 통일
// ═══════════════════════════════════════════════════════════

const (
	ruleHeavy = "═══════════════════════════════════════════════════════════"
	ruleLight = "───────────────────────────────────────────────────────────"
)

// PrintHeader prints a titled block header
func PrintHeader(title string) {
	fmt.Println()
	fmt.Println(ruleHeavy)
	fmt.Printf("  %s\n", title)
	fmt.Println(ruleLight)
}

// FormatSelection renders "special: 05 | primary: 01 02 03 04 05 06"
func FormatSelection(sel contracts.Selection) string {
	parts := make([]string, len(sel.Primary))
	for i, p := range sel.Primary {
		parts[i] = p.String()
	}
	return fmt.Sprintf("special: %s | primary: %s", sel.Special, strings.Join(parts, " "))
}

// FormatDraw renders one draw record
func FormatDraw(r contracts.DrawRecord) string {
	parts := make([]string, 0, contracts.PrimaryPerDraw)
	for _, p := range r.SortedPrimary() {
		parts = append(parts, p.String())
	}
	return fmt.Sprintf("%5d  %s  %s  %-2s  special: %s  primary: %s",
		r.Seq, r.Code, r.Date.Format("2006-01-02"), r.Weekday, r.Special, strings.Join(parts, " "))
}

// PrintRunResult prints the outcome of a pipeline run
func PrintRunResult(result *brain.RunResult) {
	PrintHeader("Pipeline Run " + result.RunID)
	fmt.Printf("  Records   : %d\n", result.RecordCount)
	if result.Snapshot != nil {
		fmt.Printf("  Latest    : %s\n", result.Snapshot.DataSnapshotID)
		fmt.Printf("  Strategy  : %s (%s)\n", result.Snapshot.StrategyID, shortHash(result.Snapshot.ConfigHash))
	}
	fmt.Printf("  Stages    : %s\n", strings.Join(result.CompletedStages, ", "))
	fmt.Println(ruleLight)

	fmt.Printf("  Special candidates : %v\n", result.SpecialCandidates)
	fmt.Printf("  Primary candidates : %v\n", result.PrimaryCandidates)
	fmt.Println(ruleLight)

	for i, sel := range result.Selections {
		fmt.Printf("  #%d  %s\n", i+1, FormatSelection(sel))
	}

	fmt.Println()
	fmt.Printf("✅ Completed in %.2fs\n", result.Duration.Seconds())
}

func shortHash(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
