// Package postgres keeps each ledger snapshot as a JSONB document keyed by
// user id.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"budgetbuddy/internal/core"
	"budgetbuddy/internal/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS ledger_snapshots (
	user_id    TEXT PRIMARY KEY,
	document   JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

type Store struct {
	pool *pgxpool.Pool
}

var _ storage.Repository = (*Store)(nil)

// New connects to databaseURL and ensures the snapshot table exists.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create ledger_snapshots table: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Load(ctx context.Context, userID string) (core.Ledger, error) {
	id, err := storage.NormalizeUserID(userID)
	if err != nil {
		return core.NewLedger(), err
	}

	var doc []byte
	err = s.pool.QueryRow(ctx,
		`SELECT document FROM ledger_snapshots WHERE user_id = $1`, id).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return core.NewLedger(), nil
	}
	if err != nil {
		return core.NewLedger(), fmt.Errorf("load ledger %s: %w", id, err)
	}
	return storage.DecodeSnapshot(doc)
}

func (s *Store) Save(ctx context.Context, userID string, l core.Ledger) error {
	id, err := storage.NormalizeUserID(userID)
	if err != nil {
		return err
	}
	doc, err := storage.EncodeSnapshot(l)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO ledger_snapshots (user_id, document, updated_at)
		VALUES ($1, $2::jsonb, now())
		ON CONFLICT (user_id) DO UPDATE SET document = EXCLUDED.document, updated_at = now()`,
		id, string(doc))
	if err != nil {
		return fmt.Errorf("save ledger %s: %w", id, err)
	}
	slog.DebugContext(ctx, "Ledger saved to Postgres", "user_id", id)
	return nil
}
