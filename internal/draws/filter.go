// Package draws stores and queries the draw history.
package draws

import (
	"time"

	"github.com/wonny/ssq/internal/contracts"
)

// Filter selects draws. Zero fields do not filter; ranges are inclusive.
type Filter struct {
	Weekday string     // e.g. "二"
	FromSeq *int       // seq >= FromSeq
	ToSeq   *int       // seq <= ToSeq
	From    *time.Time // date >= From
	To      *time.Time // date <= To
}

// IsZero reports whether f selects everything
func (f Filter) IsZero() bool {
	return f.Weekday == "" && f.FromSeq == nil && f.ToSeq == nil && f.From == nil && f.To == nil
}

// Match reports whether r passes every set condition
func (f Filter) Match(r contracts.DrawRecord) bool {
	if f.Weekday != "" && r.Weekday != f.Weekday {
		return false
	}
	if f.FromSeq != nil && r.Seq < *f.FromSeq {
		return false
	}
	if f.ToSeq != nil && r.Seq > *f.ToSeq {
		return false
	}
	if f.From != nil && r.Date.Before(*f.From) {
		return false
	}
	if f.To != nil && r.Date.After(*f.To) {
		return false
	}
	return true
}

// Apply returns the records matching f, in input order
func Apply(records []contracts.DrawRecord, f Filter) []contracts.DrawRecord {
	matched := make([]contracts.DrawRecord, 0, len(records))
	for _, r := range records {
		if f.Match(r) {
			matched = append(matched, r)
		}
	}
	return matched
}
