package contracts

import (
	"fmt"
	"slices"
	"time"
)

// DrawRecord is one historical draw.
// ⭐ SSOT: 추첨 기록 타입은 여기서만 정의
type DrawRecord struct {
	Seq     int                         `json:"seq"`  // 0 = oldest draw in the loaded history
	Code    string                      `json:"code"` // official issue code, e.g. "2024001"
	Date    time.Time                   `json:"date"`
	Weekday string                      `json:"weekday"`
	Special SpecialBall                 `json:"special"`
	Primary [PrimaryPerDraw]PrimaryBall `json:"primary"`
}

// NewDrawRecord builds a validated record
func NewDrawRecord(seq int, code string, date time.Time, weekday string, special SpecialBall, primary [PrimaryPerDraw]PrimaryBall) (DrawRecord, error) {
	record := DrawRecord{
		Seq:     seq,
		Code:    code,
		Date:    date,
		Weekday: weekday,
		Special: special,
		Primary: primary,
	}
	if err := record.Validate(); err != nil {
		return DrawRecord{}, err
	}
	return record, nil
}

// Validate checks the record invariants: valid domains and six distinct primaries
func (r DrawRecord) Validate() error {
	if r.Seq < 0 {
		return Errorf("draw %s: negative sequence index %d", r.Code, r.Seq)
	}
	if !r.Special.Valid() {
		return &InvalidDomainValueError{Domain: DomainSpecial, Value: int(r.Special)}
	}

	var seen [PrimaryBallCount + 1]bool
	for _, b := range r.Primary {
		if !b.Valid() {
			return &InvalidDomainValueError{Domain: DomainPrimary, Value: int(b)}
		}
		if seen[b] {
			return Errorf("draw %s: duplicate primary ball %s", r.Code, b)
		}
		seen[b] = true
	}
	return nil
}

// HasPrimary reports whether b was drawn as a primary ball
func (r DrawRecord) HasPrimary(b PrimaryBall) bool {
	return slices.Contains(r.Primary[:], b)
}

// SortedPrimary returns the primary balls in ascending order
func (r DrawRecord) SortedPrimary() []PrimaryBall {
	balls := slices.Clone(r.Primary[:])
	slices.Sort(balls)
	return balls
}

func (r DrawRecord) String() string {
	return fmt.Sprintf("%s (%s %s) special=%s primary=%v",
		r.Code, r.Date.Format("2006-01-02"), r.Weekday, r.Special, r.SortedPrimary())
}

// ChronologicalOrder compares records by draw date, then by sequence index
func ChronologicalOrder(a, b DrawRecord) int {
	if c := a.Date.Compare(b.Date); c != 0 {
		return c
	}
	return a.Seq - b.Seq
}

// ValidateHistory checks every record and the uniqueness of sequence indices
func ValidateHistory(records []DrawRecord) error {
	seqs := make(map[int]struct{}, len(records))
	for _, r := range records {
		if err := r.Validate(); err != nil {
			return err
		}
		if _, dup := seqs[r.Seq]; dup {
			return Errorf("duplicate sequence index %d", r.Seq)
		}
		seqs[r.Seq] = struct{}{}
	}
	return nil
}
