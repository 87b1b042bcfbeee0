package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"

	"github.com/alrazi/medstock/internal/shared"
)

// OpenSQLite opens (creating when missing) the SQLite database at path.
// The pool is limited to one connection so transactions never contend for
// the file lock.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	q := url.Values{}
	q.Add("_pragma", "busy_timeout(5000)")
	q.Add("_pragma", "foreign_keys(1)")
	dsn := "file:" + path + "?" + q.Encode()

	pool, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("platform/db: open sqlite: %w: %w", shared.ErrStoreUnavailable, err)
	}
	pool.SetMaxOpenConns(1)

	if err := pool.PingContext(ctx); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("platform/db: ping sqlite: %w: %w", shared.ErrStoreUnavailable, err)
	}
	return pool, nil
}

// OpenMySQL opens a MySQL pool using the go-sql-driver DSN format.
func OpenMySQL(ctx context.Context, dsn string) (*sql.DB, error) {
	pool, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("platform/db: open mysql: %w: %w", shared.ErrStoreUnavailable, err)
	}

	pool.SetMaxOpenConns(25)
	pool.SetMaxIdleConns(25)
	pool.SetConnMaxLifetime(5 * time.Minute)

	if err := pool.PingContext(ctx); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("platform/db: ping mysql: %w: %w", shared.ErrStoreUnavailable, err)
	}
	return pool, nil
}
