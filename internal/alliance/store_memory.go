package alliance

import (
	"context"
	"strings"
	"sync"

	"github.com/AegisInttellegenceCore/AIC/pkg/platform/sentinel"
)

// In-memory stores keep unit tests and local development self-contained.
// They intentionally favor clarity over performance.

type InMemoryAllianceStore struct {
	mu        sync.RWMutex
	byID      map[string]Alliance
	byNameUni map[string]string // name|universe -> id
}

func NewInMemoryAllianceStore() *InMemoryAllianceStore {
	return &InMemoryAllianceStore{
		byID:      make(map[string]Alliance),
		byNameUni: make(map[string]string),
	}
}

func nameKey(name, universe string) string {
	return strings.ToUpper(name) + "|" + strings.ToLower(universe)
}

func (s *InMemoryAllianceStore) Create(_ context.Context, a Alliance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := nameKey(a.Name, a.Universe)
	if _, taken := s.byNameUni[key]; taken {
		return sentinel.ErrConflict
	}
	s.byID[a.ID] = a
	s.byNameUni[key] = a.ID
	return nil
}

func (s *InMemoryAllianceStore) FindByName(_ context.Context, name, universe string) (Alliance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if id, ok := s.byNameUni[nameKey(name, universe)]; ok {
		return s.byID[id], nil
	}
	return Alliance{}, sentinel.ErrNotFound
}

func (s *InMemoryAllianceStore) FindByID(_ context.Context, id string) (Alliance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if a, ok := s.byID[id]; ok {
		return a, nil
	}
	return Alliance{}, sentinel.ErrNotFound
}

type InMemoryMembershipStore struct {
	mu   sync.RWMutex
	rows map[string]MembershipRow // identity|universe
}

func NewInMemoryMembershipStore() *InMemoryMembershipStore {
	return &InMemoryMembershipStore{rows: make(map[string]MembershipRow)}
}

func memberKey(identityID, universe string) string {
	return identityID + "|" + strings.ToLower(universe)
}

func (s *InMemoryMembershipStore) Save(_ context.Context, row MembershipRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[memberKey(row.IdentityID, row.Universe)] = row
	return nil
}

func (s *InMemoryMembershipStore) Find(_ context.Context, identityID, universe string) (MembershipRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if row, ok := s.rows[memberKey(identityID, universe)]; ok {
		return row, nil
	}
	return MembershipRow{}, sentinel.ErrNotFound
}
