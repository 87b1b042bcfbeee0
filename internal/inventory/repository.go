package inventory

import (
	"context"

	"github.com/alrazi/medstock/internal/catalog"
	"github.com/alrazi/medstock/internal/store"
)

// RepositoryPort abstracts persistence used by the ledger and the service.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	GetItem(ctx context.Context, id string) (catalog.Item, error)
	GetTransaction(ctx context.Context, id string) (Transaction, error)
	ListTransactions(ctx context.Context) ([]Transaction, error)
}

// TxRepository exposes the operations available inside one unit of work.
type TxRepository interface {
	GetItem(ctx context.Context, id string) (catalog.Item, error)
	SaveItem(ctx context.Context, item catalog.Item) error
	SaveTransaction(ctx context.Context, t Transaction) error
}

// Repository persists movements in the record store.
type Repository struct {
	store store.Store
}

// NewRepository constructs Repository.
func NewRepository(s store.Store) *Repository {
	return &Repository{store: s}
}

type txRepo struct {
	tx store.Tx
}

// WithTx executes the callback as a single store unit of work.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return r.store.WithTx(ctx, func(ctx context.Context, tx store.Tx) error {
		return fn(ctx, &txRepo{tx: tx})
	})
}

func (r *Repository) GetItem(ctx context.Context, id string) (catalog.Item, error) {
	return catalog.LoadItem(ctx, r.store, id)
}

func (r *Repository) GetTransaction(ctx context.Context, id string) (Transaction, error) {
	return store.Load[Transaction](ctx, r.store, store.Transactions, id)
}

func (r *Repository) ListTransactions(ctx context.Context) ([]Transaction, error) {
	return store.LoadAll[Transaction](ctx, r.store, store.Transactions)
}

func (t *txRepo) GetItem(ctx context.Context, id string) (catalog.Item, error) {
	return catalog.LoadItem(ctx, t.tx, id)
}

func (t *txRepo) SaveItem(ctx context.Context, item catalog.Item) error {
	return catalog.SaveItem(ctx, t.tx, item)
}

func (t *txRepo) SaveTransaction(ctx context.Context, tr Transaction) error {
	return store.Save(ctx, t.tx, store.Transactions, tr.ID, tr)
}
