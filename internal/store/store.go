// Package store defines the record store contract shared by every backend:
// three independently keyed collections of JSON documents plus a
// unit-of-work primitive the ledger relies on.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/alrazi/medstock/internal/shared"
)

// SchemaVersion is the single fixed layout version of the persisted collections.
const SchemaVersion = 1

// Collection names a keyed document collection.
type Collection string

const (
	// Items holds catalog items keyed by item id.
	Items Collection = "items"
	// Transactions holds stock movements keyed by transaction id.
	Transactions Collection = "transactions"
	// Users holds user accounts keyed by user id.
	Users Collection = "users"
)

// Collections lists every collection a backend must provision in Init.
var Collections = []Collection{Items, Transactions, Users}

var (
	// ErrNotFound is returned by Get when the key is absent. It matches shared.ErrNotFound.
	ErrNotFound = fmt.Errorf("store: %w", shared.ErrNotFound)
	// ErrUnknownCollection rejects collection names outside Collections.
	ErrUnknownCollection = errors.New("store: unknown collection")
	// ErrConflict reports a unit of work aborted by a concurrent writer.
	ErrConflict = errors.New("store: concurrent modification")
	// ErrClosed is returned after Close. It matches shared.ErrStoreUnavailable.
	ErrClosed = fmt.Errorf("store: closed: %w", shared.ErrStoreUnavailable)
)

// Reader reads documents.
type Reader interface {
	Get(ctx context.Context, c Collection, key string) ([]byte, error)
	GetAll(ctx context.Context, c Collection) ([][]byte, error)
}

// Writer mutates documents. Put inserts or replaces by key; deleting an
// absent key is not an error.
type Writer interface {
	Put(ctx context.Context, c Collection, key string, doc []byte) error
	Delete(ctx context.Context, c Collection, key string) error
}

// Tx is the view of the store handed to a unit of work.
type Tx interface {
	Reader
	Writer
}

// Store is the persistence handle injected into every service. Callers
// construct it explicitly and await Init once before issuing operations.
type Store interface {
	Tx
	// Init provisions the collections. It is safe to call on an existing store.
	Init(ctx context.Context) error
	// WithTx runs fn as a single unit of work: either every write staged by
	// fn is committed or none is.
	WithTx(ctx context.Context, fn func(context.Context, Tx) error) error
	Ping(ctx context.Context) error
	Close() error
}

// Valid reports whether c is one of the known collections.
func (c Collection) Valid() bool {
	for _, known := range Collections {
		if c == known {
			return true
		}
	}
	return false
}

// Check returns ErrUnknownCollection for collections outside Collections.
func Check(c Collection) error {
	if !c.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownCollection, string(c))
	}
	return nil
}

func (c Collection) String() string {
	return string(c)
}
