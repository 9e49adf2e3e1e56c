package draws

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/wonny/ssq/internal/contracts"
)

// Memory is the in-process draw store used when no database is configured.
// It keeps the same ordering and seq numbering as Repository.
type Memory struct {
	mu      sync.RWMutex
	records []contracts.DrawRecord
}

// NewMemory creates a store holding records
func NewMemory(records []contracts.DrawRecord) *Memory {
	m := &Memory{}
	_ = m.SaveBatch(context.Background(), records)
	return m
}

// SaveBatch upserts records by code and renumbers the history
func (m *Memory) SaveBatch(ctx context.Context, records []contracts.DrawRecord) error {
	for _, r := range records {
		if err := r.Validate(); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	byCode := make(map[string]contracts.DrawRecord, len(m.records)+len(records))
	for _, r := range m.records {
		byCode[r.Code] = r
	}
	for _, r := range records {
		byCode[r.Code] = r
	}

	merged := make([]contracts.DrawRecord, 0, len(byCode))
	for _, r := range byCode {
		merged = append(merged, r)
	}
	slices.SortFunc(merged, func(a, b contracts.DrawRecord) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.Code, b.Code)
	})
	for i := range merged {
		merged[i].Seq = i
	}

	m.records = merged
	return nil
}

// List returns the records matching f, oldest first
func (m *Memory) List(ctx context.Context, f Filter) ([]contracts.DrawRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Apply(m.records, f), nil
}

// Count returns the number of stored draws
func (m *Memory) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records), nil
}
