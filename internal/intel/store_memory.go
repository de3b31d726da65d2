package intel

import (
	"context"
	"sync"
)

// InMemoryReportStore keeps ciphertext rows in a per-alliance slice.
type InMemoryReportStore struct {
	mu   sync.RWMutex
	rows map[string][]CipherRow
}

func NewInMemoryReportStore() *InMemoryReportStore {
	return &InMemoryReportStore{rows: make(map[string][]CipherRow)}
}

func (s *InMemoryReportStore) Append(_ context.Context, row CipherRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[row.AllianceID] = append(s.rows[row.AllianceID], row)
	return nil
}

func (s *InMemoryReportStore) ListByAlliance(_ context.Context, allianceID string) ([]CipherRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := s.rows[allianceID]
	out := make([]CipherRow, len(rows))
	copy(out, rows)
	return out, nil
}
