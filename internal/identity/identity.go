// Package identity is the boundary to the external identity collaborator.
// The core consumes exactly one thing from it: a stable identity string per
// caller. Anonymous sign-in mints one on demand.
package identity

import (
	"context"
	"sync"

	"github.com/google/uuid"

	dErrors "github.com/AegisInttellegenceCore/AIC/pkg/domain-errors"
)

// Identity is the durable caller identity. ID is the only field the core
// depends on; Nickname is carried for the admin predicate and display.
type Identity struct {
	ID       string
	Nickname string
}

// Provider resolves or creates identities.
type Provider interface {
	// GetSession returns the identity bound to the session token, or a
	// CodeUnauthorized domain error when the token is absent or invalid.
	GetSession(ctx context.Context, token string) (Identity, error)
	// SignInAnonymously mints a fresh identity and returns it with a
	// session token the caller presents on subsequent requests.
	SignInAnonymously(ctx context.Context, nickname string) (Identity, string, error)
}

// Resolve returns the session identity if the token is valid, otherwise
// falls back to anonymous sign-in. Idempotent per token: a valid session
// always resolves to the same identity.
func Resolve(ctx context.Context, p Provider, token, nickname string) (Identity, string, error) {
	if token != "" {
		if id, err := p.GetSession(ctx, token); err == nil {
			return id, token, nil
		}
	}
	return p.SignInAnonymously(ctx, nickname)
}

// MemoryProvider issues opaque uuid tokens backed by an in-process map.
// Test double for the JWT provider.
type MemoryProvider struct {
	mu       sync.RWMutex
	sessions map[string]Identity
}

func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{sessions: make(map[string]Identity)}
}

func (p *MemoryProvider) GetSession(_ context.Context, token string) (Identity, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if id, ok := p.sessions[token]; ok {
		return id, nil
	}
	return Identity{}, dErrors.New(dErrors.CodeUnauthorized, "invalid session")
}

func (p *MemoryProvider) SignInAnonymously(_ context.Context, nickname string) (Identity, string, error) {
	id := Identity{ID: uuid.NewString(), Nickname: nickname}
	token := uuid.NewString()
	p.mu.Lock()
	p.sessions[token] = id
	p.mu.Unlock()
	return id, token, nil
}
