package radar

import (
	"context"
	"sync"
)

// InMemoryScannerStore keys rows by the composite key directly; Key is a
// comparable struct so it can index the map.
type InMemoryScannerStore struct {
	mu   sync.RWMutex
	rows map[Key]CipherRow
}

func NewInMemoryScannerStore() *InMemoryScannerStore {
	return &InMemoryScannerStore{rows: make(map[Key]CipherRow)}
}

func (s *InMemoryScannerStore) Upsert(_ context.Context, row CipherRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[row.Key] = row
	return nil
}

func (s *InMemoryScannerStore) Delete(_ context.Context, key Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, key)
	return nil
}

func (s *InMemoryScannerStore) ListByGalaxy(_ context.Context, allianceHash, universe string, galaxy int) ([]CipherRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []CipherRow
	for key, row := range s.rows {
		if key.AllianceHash == allianceHash && key.Universe == universe && key.Galaxy == galaxy {
			out = append(out, row)
		}
	}
	return out, nil
}
