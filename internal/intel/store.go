package intel

import "context"

// ReportStore is the blind persistence boundary for intel reports. Rows
// are append-only; ordering and filtering happen after decryption, so the
// store needs nothing beyond alliance scoping.
type ReportStore interface {
	Append(ctx context.Context, row CipherRow) error
	ListByAlliance(ctx context.Context, allianceID string) ([]CipherRow, error)
}
