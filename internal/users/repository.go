package users

import (
	"context"

	"github.com/alrazi/medstock/internal/store"
)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	Get(ctx context.Context, id string) (User, error)
	List(ctx context.Context) ([]User, error)
}

// TxRepository is the view of the users collection inside one unit of work.
type TxRepository interface {
	Get(ctx context.Context, id string) (User, error)
	List(ctx context.Context) ([]User, error)
	Save(ctx context.Context, u User) error
	Delete(ctx context.Context, id string) error
}

// Repository provides store backed persistence.
type Repository struct {
	store store.Store
}

// NewRepository constructs a repository.
func NewRepository(s store.Store) *Repository {
	return &Repository{store: s}
}

func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return r.store.WithTx(ctx, func(ctx context.Context, tx store.Tx) error {
		return fn(ctx, txRepo{tx: tx})
	})
}

func (r *Repository) Get(ctx context.Context, id string) (User, error) {
	return store.Load[User](ctx, r.store, store.Users, id)
}

func (r *Repository) List(ctx context.Context) ([]User, error) {
	return store.LoadAll[User](ctx, r.store, store.Users)
}

type txRepo struct {
	tx store.Tx
}

func (t txRepo) Get(ctx context.Context, id string) (User, error) {
	return store.Load[User](ctx, t.tx, store.Users, id)
}

func (t txRepo) List(ctx context.Context) ([]User, error) {
	return store.LoadAll[User](ctx, t.tx, store.Users)
}

func (t txRepo) Save(ctx context.Context, u User) error {
	return store.Save(ctx, t.tx, store.Users, u.ID, u)
}

func (t txRepo) Delete(ctx context.Context, id string) error {
	return t.tx.Delete(ctx, store.Users, id)
}
