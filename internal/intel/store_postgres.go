package intel

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema for the blind report table. Everything the operator can query by
// is the alliance scoping id; the payload is opaque.
const Schema = `
CREATE TABLE IF NOT EXISTS intel_reports (
    id          TEXT PRIMARY KEY,
    alliance_id TEXT NOT NULL,
    ciphertext  TEXT NOT NULL,
    created_at  TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS intel_reports_alliance_idx ON intel_reports (alliance_id);
`

// PostgresReportStore persists report ciphertext via pgx.
type PostgresReportStore struct {
	pool *pgxpool.Pool
}

func NewPostgresReportStore(pool *pgxpool.Pool) *PostgresReportStore {
	return &PostgresReportStore{pool: pool}
}

func (s *PostgresReportStore) Append(ctx context.Context, row CipherRow) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO intel_reports (id, alliance_id, ciphertext, created_at)
         VALUES ($1, $2, $3, $4)`,
		row.ID, row.AllianceID, row.Ciphertext, row.CreatedAt)
	if err != nil {
		return fmt.Errorf("append report: %w", err)
	}
	return nil
}

func (s *PostgresReportStore) ListByAlliance(ctx context.Context, allianceID string) ([]CipherRow, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, alliance_id, ciphertext, created_at
         FROM intel_reports WHERE alliance_id = $1`, allianceID)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var out []CipherRow
	for rows.Next() {
		var row CipherRow
		if err := rows.Scan(&row.ID, &row.AllianceID, &row.Ciphertext, &row.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan report row: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate report rows: %w", err)
	}
	return out, nil
}
