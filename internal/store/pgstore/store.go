// Package pgstore implements store.Store on PostgreSQL with pgx. Each
// collection is a table of JSONB documents keyed by id.
package pgstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alrazi/medstock/internal/platform/db"
	"github.com/alrazi/medstock/internal/shared"
	"github.com/alrazi/medstock/internal/store"
)

// compile-time interface check
var _ store.Store = (*Store)(nil)

// serializationFailure is the SQLSTATE raised when a RepeatableRead
// transaction loses a write race.
const serializationFailure = "40001"

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store persists documents in PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// New constructs Store over an open pool. Close closes the pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Init creates the collection tables.
func (s *Store) Init(ctx context.Context) error {
	for _, c := range store.Collections {
		_, err := s.pool.Exec(ctx, fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
    id         TEXT PRIMARY KEY,
    doc        JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`, c))
		if err != nil {
			return fmt.Errorf("pgstore: create %s: %w: %w", c, shared.ErrStoreUnavailable, err)
		}
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("pgstore: ping: %w: %w", shared.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func (s *Store) Get(ctx context.Context, c store.Collection, key string) ([]byte, error) {
	return get(ctx, s.pool, c, key, false)
}

func (s *Store) GetAll(ctx context.Context, c store.Collection) ([][]byte, error) {
	return getAll(ctx, s.pool, c)
}

func (s *Store) Put(ctx context.Context, c store.Collection, key string, doc []byte) error {
	return put(ctx, s.pool, c, key, doc)
}

func (s *Store) Delete(ctx context.Context, c store.Collection, key string) error {
	return del(ctx, s.pool, c, key)
}

// WithTx runs fn in a RepeatableRead transaction. A lost write race is
// reported as store.ErrConflict.
func (s *Store) WithTx(ctx context.Context, fn func(context.Context, store.Tx) error) error {
	err := db.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(ctx, &pgTx{tx: tx})
	})
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == serializationFailure {
		return fmt.Errorf("pgstore: %w: %w", store.ErrConflict, err)
	}
	return err
}

func get(ctx context.Context, q querier, c store.Collection, key string, locked bool) ([]byte, error) {
	if err := store.Check(c); err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT doc FROM %s WHERE id = $1`, c)
	if locked {
		query += ` FOR UPDATE`
	}
	var doc []byte
	err := q.QueryRow(ctx, query, key).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("pgstore: get %s/%s: %w", c, key, err)
	}
	return doc, nil
}

func getAll(ctx context.Context, q querier, c store.Collection) ([][]byte, error) {
	if err := store.Check(c); err != nil {
		return nil, err
	}
	rows, err := q.Query(ctx, fmt.Sprintf(`SELECT doc FROM %s ORDER BY id`, c))
	if err != nil {
		return nil, fmt.Errorf("pgstore: list %s: %w", c, err)
	}
	docs, err := pgx.CollectRows(rows, pgx.RowTo[[]byte])
	if err != nil {
		return nil, fmt.Errorf("pgstore: list %s: %w", c, err)
	}
	return docs, nil
}

func put(ctx context.Context, q querier, c store.Collection, key string, doc []byte) error {
	if err := store.Check(c); err != nil {
		return err
	}
	_, err := q.Exec(ctx, fmt.Sprintf(`
INSERT INTO %s (id, doc, updated_at) VALUES ($1, $2, now())
ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = now()`, c), key, doc)
	if err != nil {
		return fmt.Errorf("pgstore: put %s/%s: %w", c, key, err)
	}
	return nil
}

func del(ctx context.Context, q querier, c store.Collection, key string) error {
	if err := store.Check(c); err != nil {
		return err
	}
	if _, err := q.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, c), key); err != nil {
		return fmt.Errorf("pgstore: delete %s/%s: %w", c, key, err)
	}
	return nil
}

type pgTx struct {
	tx pgx.Tx
}

func (t *pgTx) Get(ctx context.Context, c store.Collection, key string) ([]byte, error) {
	return get(ctx, t.tx, c, key, true)
}

func (t *pgTx) GetAll(ctx context.Context, c store.Collection) ([][]byte, error) {
	return getAll(ctx, t.tx, c)
}

func (t *pgTx) Put(ctx context.Context, c store.Collection, key string, doc []byte) error {
	return put(ctx, t.tx, c, key, doc)
}

func (t *pgTx) Delete(ctx context.Context, c store.Collection, key string) error {
	return del(ctx, t.tx, c, key)
}
