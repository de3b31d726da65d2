package radar

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema for the blind scanner table. The composite unique constraint is
// what makes writes idempotent upserts.
const Schema = `
CREATE TABLE IF NOT EXISTS scanner_entries (
    alliance_hash TEXT NOT NULL,
    universe      TEXT NOT NULL,
    galaxy        INT  NOT NULL,
    system        INT  NOT NULL,
    track         TEXT NOT NULL,
    ciphertext    TEXT NOT NULL,
    updated_at    TIMESTAMPTZ NOT NULL,
    PRIMARY KEY (alliance_hash, universe, galaxy, system, track)
);
`

// PostgresScannerStore persists scanner ciphertext via pgx.
type PostgresScannerStore struct {
	pool *pgxpool.Pool
}

func NewPostgresScannerStore(pool *pgxpool.Pool) *PostgresScannerStore {
	return &PostgresScannerStore{pool: pool}
}

func (s *PostgresScannerStore) Upsert(ctx context.Context, row CipherRow) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO scanner_entries (alliance_hash, universe, galaxy, system, track, ciphertext, updated_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7)
         ON CONFLICT (alliance_hash, universe, galaxy, system, track)
         DO UPDATE SET ciphertext = EXCLUDED.ciphertext,
                       updated_at = EXCLUDED.updated_at`,
		row.Key.AllianceHash, row.Key.Universe, row.Key.Galaxy, row.Key.System,
		string(row.Key.Track), row.Ciphertext, row.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert scanner entry: %w", err)
	}
	return nil
}

func (s *PostgresScannerStore) Delete(ctx context.Context, key Key) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM scanner_entries
         WHERE alliance_hash = $1 AND universe = $2 AND galaxy = $3 AND system = $4 AND track = $5`,
		key.AllianceHash, key.Universe, key.Galaxy, key.System, string(key.Track))
	if err != nil {
		return fmt.Errorf("delete scanner entry: %w", err)
	}
	return nil
}

func (s *PostgresScannerStore) ListByGalaxy(ctx context.Context, allianceHash, universe string, galaxy int) ([]CipherRow, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT alliance_hash, universe, galaxy, system, track, ciphertext, updated_at
         FROM scanner_entries
         WHERE alliance_hash = $1 AND universe = $2 AND galaxy = $3`,
		allianceHash, universe, galaxy)
	if err != nil {
		return nil, fmt.Errorf("list scanner entries: %w", err)
	}
	defer rows.Close()

	var out []CipherRow
	for rows.Next() {
		var (
			row   CipherRow
			track string
		)
		err := rows.Scan(&row.Key.AllianceHash, &row.Key.Universe, &row.Key.Galaxy,
			&row.Key.System, &track, &row.Ciphertext, &row.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan scanner row: %w", err)
		}
		row.Key.Track = Track(track)
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scanner rows: %w", err)
	}
	return out, nil
}
