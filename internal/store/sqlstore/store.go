// Package sqlstore implements store.Store on database/sql for the SQLite
// and MySQL engines. Each collection is a table of JSON documents keyed by id.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alrazi/medstock/internal/shared"
	"github.com/alrazi/medstock/internal/store"
)

// compile-time interface check
var _ store.Store = (*Store)(nil)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store implements store.Store over a database/sql pool.
type Store struct {
	db      *sql.DB
	dialect Dialect
}

// New wraps an open pool. The caller keeps ownership of driver selection;
// Close closes the pool.
func New(db *sql.DB, dialect Dialect) *Store {
	return &Store{db: db, dialect: dialect}
}

// DB returns the underlying pool for direct access.
func (s *Store) DB() *sql.DB { return s.db }

// Init creates one table per collection.
func (s *Store) Init(ctx context.Context) error {
	for _, c := range store.Collections {
		if _, err := s.db.ExecContext(ctx, s.dialect.createTableSQL(c)); err != nil {
			return fmt.Errorf("%s: create %s: %w: %w", s.dialect.Name, c, shared.ErrStoreUnavailable, err)
		}
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%s: ping: %w: %w", s.dialect.Name, shared.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Get(ctx context.Context, c store.Collection, key string) ([]byte, error) {
	return s.get(ctx, s.db, c, key, false)
}

func (s *Store) GetAll(ctx context.Context, c store.Collection) ([][]byte, error) {
	return s.getAll(ctx, s.db, c)
}

func (s *Store) Put(ctx context.Context, c store.Collection, key string, doc []byte) error {
	return s.put(ctx, s.db, c, key, doc)
}

func (s *Store) Delete(ctx context.Context, c store.Collection, key string) error {
	return s.delete(ctx, s.db, c, key)
}

// WithTx runs fn inside a database transaction.
func (s *Store) WithTx(ctx context.Context, fn func(context.Context, store.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin tx: %w", s.dialect.Name, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(ctx, &sqlTx{store: s, tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit tx: %w", s.dialect.Name, err)
	}
	return nil
}

func (s *Store) get(ctx context.Context, q querier, c store.Collection, key string, locked bool) ([]byte, error) {
	if err := store.Check(c); err != nil {
		return nil, err
	}
	var doc []byte
	err := q.QueryRowContext(ctx, s.dialect.getSQL(c, locked), key).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: get %s/%s: %w", s.dialect.Name, c, key, err)
	}
	return doc, nil
}

func (s *Store) getAll(ctx context.Context, q querier, c store.Collection) ([][]byte, error) {
	if err := store.Check(c); err != nil {
		return nil, err
	}
	rows, err := q.QueryContext(ctx, s.dialect.getAllSQL(c))
	if err != nil {
		return nil, fmt.Errorf("%s: list %s: %w", s.dialect.Name, c, err)
	}
	defer rows.Close()

	docs := make([][]byte, 0)
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("%s: scan %s: %w", s.dialect.Name, c, err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: list %s: %w", s.dialect.Name, c, err)
	}
	return docs, nil
}

func (s *Store) put(ctx context.Context, q querier, c store.Collection, key string, doc []byte) error {
	if err := store.Check(c); err != nil {
		return err
	}
	if _, err := q.ExecContext(ctx, s.dialect.upsertSQL(c), key, string(doc)); err != nil {
		return fmt.Errorf("%s: put %s/%s: %w", s.dialect.Name, c, key, err)
	}
	return nil
}

func (s *Store) delete(ctx context.Context, q querier, c store.Collection, key string) error {
	if err := store.Check(c); err != nil {
		return err
	}
	if _, err := q.ExecContext(ctx, s.dialect.deleteSQL(c), key); err != nil {
		return fmt.Errorf("%s: delete %s/%s: %w", s.dialect.Name, c, key, err)
	}
	return nil
}

type sqlTx struct {
	store *Store
	tx    *sql.Tx
}

func (t *sqlTx) Get(ctx context.Context, c store.Collection, key string) ([]byte, error) {
	return t.store.get(ctx, t.tx, c, key, true)
}

func (t *sqlTx) GetAll(ctx context.Context, c store.Collection) ([][]byte, error) {
	return t.store.getAll(ctx, t.tx, c)
}

func (t *sqlTx) Put(ctx context.Context, c store.Collection, key string, doc []byte) error {
	return t.store.put(ctx, t.tx, c, key, doc)
}

func (t *sqlTx) Delete(ctx context.Context, c store.Collection, key string) error {
	return t.store.delete(ctx, t.tx, c, key)
}
