package reports

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/alrazi/medstock/internal/catalog"
	"github.com/alrazi/medstock/internal/inventory"
)

// DefaultLowStockThreshold marks items as running low below this quantity.
const DefaultLowStockThreshold = 10

// ItemLister is satisfied by catalog.Service.
type ItemLister interface {
	List(ctx context.Context) ([]catalog.Item, error)
}

// TransactionLister is satisfied by inventory.Service.
type TransactionLister interface {
	List(ctx context.Context) ([]inventory.Transaction, error)
}

// Config groups optional settings.
type Config struct {
	LowStockThreshold int
}

// Service assembles dashboard and report datasets.
type Service struct {
	items     ItemLister
	txs       TransactionLister
	cache     *Cache
	threshold int
	builds    singleflight.Group
}

// NewService wires the listers with an optional cache.
func NewService(items ItemLister, txs TransactionLister, cache *Cache, cfg Config) *Service {
	threshold := cfg.LowStockThreshold
	if threshold <= 0 {
		threshold = DefaultLowStockThreshold
	}
	return &Service{items: items, txs: txs, cache: cache, threshold: threshold}
}

// Threshold returns the low-stock threshold in use.
func (s *Service) Threshold() int {
	return s.threshold
}

// Invalidate drops cached datasets after the catalog or ledger changed.
func (s *Service) Invalidate(ctx context.Context) error {
	if err := s.cache.Bump(ctx); err != nil {
		return fmt.Errorf("reports: invalidate: %w", err)
	}
	return nil
}

// cached resolves the dataset under key through the cache. Concurrent
// callers asking for the same key share one load.
func cached[T any](ctx context.Context, s *Service, loader func(context.Context) (T, error), parts ...string) (T, error) {
	var zero T
	key, err := s.cache.BuildKey(ctx, append([]string{"reports"}, parts...)...)
	if err != nil {
		return zero, fmt.Errorf("reports: cache key: %w", err)
	}
	// The shared load outlives the caller that started it; each caller
	// still stops waiting when its own context ends.
	loadCtx := context.WithoutCancel(ctx)
	resultChan := s.builds.DoChan(key, func() (any, error) {
		var out T
		err := s.cache.FetchJSON(loadCtx, key, &out, func(ctx context.Context) (any, error) {
			return loader(ctx)
		})
		return out, err
	})
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-resultChan:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}
