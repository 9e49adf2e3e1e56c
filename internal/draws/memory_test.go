package draws

import (
	"context"
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/ssq/internal/contracts"
)

func codedHistory() []contracts.DrawRecord {
	records := history()
	for i := range records {
		records[i].Code = fmt.Sprintf("2024%03d", records[i].Seq+1)
	}
	return records
}

func TestMemory_ListAndFilter(t *testing.T) {
	records := codedHistory()
	slices.Reverse(records)
	m := NewMemory(records)

	all, err := m.List(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8}, seqs(all))
	assert.Equal(t, "2024001", all[0].Code)

	tuesdays, err := m.List(context.Background(), Filter{Weekday: "二"})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 3, 6}, seqs(tuesdays))
}

func TestMemory_SaveBatchUpsertsAndRenumbers(t *testing.T) {
	records := codedHistory()
	m := NewMemory(records[3:])

	n, err := m.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	all, _ := m.List(context.Background(), Filter{})
	assert.Equal(t, "2024004", all[0].Code)
	assert.Equal(t, 0, all[0].Seq)

	// older draws arrive later; the revised 2024005 replaces the stored one
	revised := records[4]
	revised.Special = 16
	require.NoError(t, m.SaveBatch(context.Background(), append(slices.Clone(records[:3]), revised)))

	all, _ = m.List(context.Background(), Filter{})
	require.Len(t, all, 9)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8}, seqs(all))
	assert.Equal(t, "2024005", all[4].Code)
	assert.Equal(t, contracts.SpecialBall(16), all[4].Special)
}

func TestMemory_SaveBatchRejectsInvalid(t *testing.T) {
	m := NewMemory(nil)
	bad := codedHistory()[0]
	bad.Special = 17

	assert.Error(t, m.SaveBatch(context.Background(), []contracts.DrawRecord{bad}))
	n, _ := m.Count(context.Background())
	assert.Zero(t, n)
}
