package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the part of *pgxpool.Pool the Postgres store uses.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

const createSessionsTable = `
CREATE TABLE IF NOT EXISTS portal_sessions (
	id         TEXT PRIMARY KEY,
	data       JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

type PgStore struct {
	db Querier
}

func NewPgStore(db Querier) *PgStore {
	return &PgStore{db: db}
}

// Migrate creates the sessions table if it is missing.
func (s *PgStore) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, createSessionsTable); err != nil {
		return fmt.Errorf("create portal_sessions: %w", err)
	}
	return nil
}

func (s *PgStore) Save(ctx context.Context, id string, rec Record) error {
	data, err := encode(rec)
	if err != nil {
		return err
	}

	const q = `
		INSERT INTO portal_sessions (id, data, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (id) DO UPDATE
		SET data = EXCLUDED.data, updated_at = now()
	`
	if _, err := s.db.Exec(ctx, q, id, data); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *PgStore) Load(ctx context.Context, id string) (Record, error) {
	const q = `SELECT data FROM portal_sessions WHERE id = $1`

	var data []byte
	if err := s.db.QueryRow(ctx, q, id).Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, fmt.Errorf("load session: %w", err)
	}
	return decode(data)
}

func (s *PgStore) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM portal_sessions WHERE id = $1`
	if _, err := s.db.Exec(ctx, q, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *PgStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}
