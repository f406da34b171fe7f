package persist

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createSnapshotTable = `
CREATE TABLE IF NOT EXISTS app_snapshots (
    storage_key TEXT PRIMARY KEY,
    payload     JSONB NOT NULL,
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const selectSnapshot = `SELECT payload FROM app_snapshots WHERE storage_key = $1`

const upsertSnapshot = `
INSERT INTO app_snapshots (storage_key, payload, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (storage_key) DO UPDATE
SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`

// pgxAPI is the subset of *pgxpool.Pool the store runs queries through.
type pgxAPI interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresStore keeps the snapshot as one JSONB row per storage key.
type PostgresStore struct {
	db  pgxAPI
	key string
}

// NewPostgresStore wraps an initialized pool.
func NewPostgresStore(db *pgxpool.Pool, key string) *PostgresStore {
	return &PostgresStore{db: db, key: key}
}

// OpenPostgres connects to databaseURL, checks the connection and makes sure
// the snapshot table exists.
func OpenPostgres(ctx context.Context, databaseURL, key string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("persist.OpenPostgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("persist.OpenPostgres: %w", err)
	}
	s := NewPostgresStore(pool, key)
	if err := s.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, createSnapshotTable); err != nil {
		return fmt.Errorf("persist.PostgresStore.EnsureSchema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context) ([]byte, error) {
	var payload []byte
	err := s.db.QueryRow(ctx, selectSnapshot, s.key).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("persist.PostgresStore.Load: %w", err)
	}
	return payload, nil
}

func (s *PostgresStore) Save(ctx context.Context, data []byte) error {
	if _, err := s.db.Exec(ctx, upsertSnapshot, s.key, string(data)); err != nil {
		return fmt.Errorf("persist.PostgresStore.Save: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() { s.db.Close() }
