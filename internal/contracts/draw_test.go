package contracts

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDrawRecord(t *testing.T) {
	date := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		seq     int
		special SpecialBall
		primary [PrimaryPerDraw]PrimaryBall
		wantErr error
	}{
		{
			name:    "valid",
			seq:     0,
			special: 5,
			primary: [6]PrimaryBall{3, 8, 12, 19, 25, 33},
		},
		{
			name:    "duplicate primary",
			seq:     1,
			special: 5,
			primary: [6]PrimaryBall{3, 8, 8, 19, 25, 33},
			wantErr: &OtherError{},
		},
		{
			name:    "special out of range",
			seq:     2,
			special: 17,
			primary: [6]PrimaryBall{1, 2, 3, 4, 5, 6},
			wantErr: &InvalidDomainValueError{},
		},
		{
			name:    "primary out of range",
			seq:     3,
			special: 1,
			primary: [6]PrimaryBall{1, 2, 3, 4, 5, 34},
			wantErr: &InvalidDomainValueError{},
		},
		{
			name:    "negative seq",
			seq:     -1,
			special: 1,
			primary: [6]PrimaryBall{1, 2, 3, 4, 5, 6},
			wantErr: &OtherError{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, err := NewDrawRecord(tt.seq, "2024001", date, "二", tt.special, tt.primary)
			switch want := tt.wantErr.(type) {
			case nil:
				require.NoError(t, err)
				assert.Equal(t, tt.primary, record.Primary)
			case *OtherError:
				assert.True(t, errors.As(err, &want), "got %v", err)
			case *InvalidDomainValueError:
				assert.True(t, errors.As(err, &want), "got %v", err)
			}
		})
	}
}

func TestDrawRecord_SortedPrimary(t *testing.T) {
	r := DrawRecord{Special: 1, Primary: [6]PrimaryBall{30, 2, 17, 5, 9, 11}}
	assert.Equal(t, []PrimaryBall{2, 5, 9, 11, 17, 30}, r.SortedPrimary())
	// the record itself keeps draw order
	assert.Equal(t, PrimaryBall(30), r.Primary[0])
	assert.True(t, r.HasPrimary(17))
	assert.False(t, r.HasPrimary(18))
}

func TestChronologicalOrder(t *testing.T) {
	d1 := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	d2 := d1.AddDate(0, 0, 2)

	assert.Negative(t, ChronologicalOrder(DrawRecord{Seq: 9, Date: d1}, DrawRecord{Seq: 0, Date: d2}))
	assert.Positive(t, ChronologicalOrder(DrawRecord{Seq: 0, Date: d2}, DrawRecord{Seq: 9, Date: d1}))
	assert.Negative(t, ChronologicalOrder(DrawRecord{Seq: 1, Date: d1}, DrawRecord{Seq: 2, Date: d1}))
}

func TestValidateHistory(t *testing.T) {
	ok := DrawRecord{Seq: 0, Special: 1, Primary: [6]PrimaryBall{1, 2, 3, 4, 5, 6}}
	other := DrawRecord{Seq: 1, Special: 2, Primary: [6]PrimaryBall{7, 8, 9, 10, 11, 12}}

	assert.NoError(t, ValidateHistory([]DrawRecord{ok, other}))

	other.Seq = 0
	err := ValidateHistory([]DrawRecord{ok, other})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate sequence index 0")
}

func TestOccurrenceDetail_Overdue(t *testing.T) {
	d := OccurrenceDetail{OccurrenceCount: 3, ProjectedCount: 5}
	assert.Equal(t, 2, d.Overdue())
}
