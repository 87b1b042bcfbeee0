package catalog

import (
	"context"

	"github.com/alrazi/medstock/internal/store"
)

// Repository persists items.
type Repository interface {
	List(ctx context.Context) ([]Item, error)
	Get(ctx context.Context, id string) (Item, error)
	Save(ctx context.Context, item Item) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	store store.Store
}

// NewRepository returns a Repository backed by the items collection.
func NewRepository(s store.Store) Repository {
	return &repository{store: s}
}

func (r *repository) List(ctx context.Context) ([]Item, error) {
	return store.LoadAll[Item](ctx, r.store, store.Items)
}

func (r *repository) Get(ctx context.Context, id string) (Item, error) {
	return LoadItem(ctx, r.store, id)
}

func (r *repository) Save(ctx context.Context, item Item) error {
	return SaveItem(ctx, r.store, item)
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, store.Items, id)
}

// LoadItem reads one item through r, which may be a unit-of-work view.
func LoadItem(ctx context.Context, r store.Reader, id string) (Item, error) {
	return store.Load[Item](ctx, r, store.Items, id)
}

// SaveItem writes item through w, which may be a unit-of-work view.
func SaveItem(ctx context.Context, w store.Writer, item Item) error {
	return store.Save(ctx, w, store.Items, item.ID, item)
}
