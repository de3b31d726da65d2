package alliance

import (
	"context"
	"sync"
)

// Cache is the fast path for LoadMembership: a small, possibly stale store
// of wrapped membership tuples keyed by (identity, universe). It holds the
// identity-wrapped ciphertext, never the plaintext key, and is never the
// sole source of truth — a miss or an undecryptable hit falls through to
// the membership store.
type Cache interface {
	Get(ctx context.Context, identityID, universe string) (CachedMembership, bool)
	Put(ctx context.Context, identityID, universe string, m CachedMembership)
}

// CachedMembership mirrors MembershipRow plus the display name so the fast
// path avoids a second alliance lookup.
type CachedMembership struct {
	AllianceID string `json:"alliance_id"`
	Name       string `json:"name"`
	WrappedKey string `json:"wrapped_key"`
}

// MemoryCache is the in-process cache used when Redis is not configured.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]CachedMembership
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]CachedMembership)}
}

func (c *MemoryCache) Get(_ context.Context, identityID, universe string) (CachedMembership, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.entries[memberKey(identityID, universe)]
	return m, ok
}

func (c *MemoryCache) Put(_ context.Context, identityID, universe string, m CachedMembership) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[memberKey(identityID, universe)] = m
}
