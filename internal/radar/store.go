package radar

import "context"

// ScannerStore is the blind persistence boundary for scanner entries.
// Upsert is keyed by the full composite key: re-submitting the same key
// overwrites the prior value, and Delete removes exactly that key.
type ScannerStore interface {
	Upsert(ctx context.Context, row CipherRow) error
	Delete(ctx context.Context, key Key) error
	// ListByGalaxy returns every row for (allianceHash, universe, galaxy).
	ListByGalaxy(ctx context.Context, allianceHash, universe string, galaxy int) ([]CipherRow, error)
}
