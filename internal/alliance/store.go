package alliance

import "context"

// Stores are interface-driven so the blind persistence layer can be
// swapped between in-memory and PostgreSQL without touching key handling.
// Stores only ever see ciphertext key material.

type AllianceStore interface {
	// Create persists a new alliance, returning sentinel.ErrConflict when
	// (name, universe) is already taken.
	Create(ctx context.Context, a Alliance) error
	// FindByName looks up an alliance by exact name within a universe,
	// returning sentinel.ErrNotFound when absent.
	FindByName(ctx context.Context, name, universe string) (Alliance, error)
	// FindByID resolves an alliance id, returning sentinel.ErrNotFound
	// when absent.
	FindByID(ctx context.Context, id string) (Alliance, error)
}

type MembershipStore interface {
	// Save upserts the (identity, universe) membership row.
	Save(ctx context.Context, row MembershipRow) error
	// Find returns the membership row for (identity, universe), or
	// sentinel.ErrNotFound.
	Find(ctx context.Context, identityID, universe string) (MembershipRow, error)
}
