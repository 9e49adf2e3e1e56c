package draws

import (
	"slices"

	"github.com/wonny/ssq/internal/contracts"
)

// Renumber returns a copy of a chronological history with Seq reassigned
// 0..n-1. Occurrence statistics depend on Seq, so every history handed to the
// pipeline goes through here whatever store it came from.
func Renumber(records []contracts.DrawRecord) []contracts.DrawRecord {
	out := slices.Clone(records)
	for i := range out {
		out[i].Seq = i
	}
	return out
}

// Window keeps the latest n records of a chronological history (n <= 0 = all)
// and renumbers them from 0.
func Window(records []contracts.DrawRecord, n int) []contracts.DrawRecord {
	if n > 0 && n < len(records) {
		records = records[len(records)-n:]
	}
	return Renumber(records)
}
