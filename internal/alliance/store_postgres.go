package alliance

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AegisInttellegenceCore/AIC/pkg/platform/sentinel"
)

// Schema for the blind alliance tables. The store holds only ciphertext
// key material; universe and name are the lookup coordinates members
// already share out of band.
const Schema = `
CREATE TABLE IF NOT EXISTS alliances (
    id          TEXT PRIMARY KEY,
    name        TEXT NOT NULL,
    universe    TEXT NOT NULL,
    wrapped_key TEXT NOT NULL,
    created_at  TIMESTAMPTZ NOT NULL,
    UNIQUE (name, universe)
);

CREATE TABLE IF NOT EXISTS memberships (
    identity_id TEXT NOT NULL,
    universe    TEXT NOT NULL,
    alliance_id TEXT NOT NULL REFERENCES alliances(id),
    wrapped_key TEXT NOT NULL,
    updated_at  TIMESTAMPTZ NOT NULL,
    PRIMARY KEY (identity_id, universe)
);
`

const uniqueViolation = "23505"

// PostgresAllianceStore persists alliances via pgx.
type PostgresAllianceStore struct {
	pool *pgxpool.Pool
}

func NewPostgresAllianceStore(pool *pgxpool.Pool) *PostgresAllianceStore {
	return &PostgresAllianceStore{pool: pool}
}

func (s *PostgresAllianceStore) Create(ctx context.Context, a Alliance) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO alliances (id, name, universe, wrapped_key, created_at)
         VALUES ($1, $2, $3, $4, $5)`,
		a.ID, a.Name, a.Universe, a.WrappedKey, a.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create alliance: %w", err)
	}
	return nil
}

func (s *PostgresAllianceStore) FindByName(ctx context.Context, name, universe string) (Alliance, error) {
	var a Alliance
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, universe, wrapped_key, created_at
         FROM alliances WHERE name = $1 AND universe = $2`,
		name, universe).Scan(&a.ID, &a.Name, &a.Universe, &a.WrappedKey, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Alliance{}, sentinel.ErrNotFound
		}
		return Alliance{}, fmt.Errorf("find alliance by name: %w", err)
	}
	return a, nil
}

func (s *PostgresAllianceStore) FindByID(ctx context.Context, id string) (Alliance, error) {
	var a Alliance
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, universe, wrapped_key, created_at
         FROM alliances WHERE id = $1`, id).
		Scan(&a.ID, &a.Name, &a.Universe, &a.WrappedKey, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Alliance{}, sentinel.ErrNotFound
		}
		return Alliance{}, fmt.Errorf("find alliance by id: %w", err)
	}
	return a, nil
}

// PostgresMembershipStore persists per-member key wrappings via pgx.
type PostgresMembershipStore struct {
	pool *pgxpool.Pool
}

func NewPostgresMembershipStore(pool *pgxpool.Pool) *PostgresMembershipStore {
	return &PostgresMembershipStore{pool: pool}
}

func (s *PostgresMembershipStore) Save(ctx context.Context, row MembershipRow) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO memberships (identity_id, universe, alliance_id, wrapped_key, updated_at)
         VALUES ($1, $2, $3, $4, $5)
         ON CONFLICT (identity_id, universe)
         DO UPDATE SET alliance_id = EXCLUDED.alliance_id,
                       wrapped_key = EXCLUDED.wrapped_key,
                       updated_at  = EXCLUDED.updated_at`,
		row.IdentityID, row.Universe, row.AllianceID, row.WrappedKey, row.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save membership: %w", err)
	}
	return nil
}

func (s *PostgresMembershipStore) Find(ctx context.Context, identityID, universe string) (MembershipRow, error) {
	var row MembershipRow
	err := s.pool.QueryRow(ctx,
		`SELECT identity_id, universe, alliance_id, wrapped_key, updated_at
         FROM memberships WHERE identity_id = $1 AND universe = $2`,
		identityID, universe).
		Scan(&row.IdentityID, &row.Universe, &row.AllianceID, &row.WrappedKey, &row.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return MembershipRow{}, sentinel.ErrNotFound
		}
		return MembershipRow{}, fmt.Errorf("find membership: %w", err)
	}
	return row, nil
}
