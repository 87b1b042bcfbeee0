package reports

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/alrazi/medstock/internal/catalog"
	"github.com/alrazi/medstock/internal/inventory"
	"github.com/alrazi/medstock/internal/shared"
)

type mockItems struct {
	items []catalog.Item
	err   error
	calls int
}

func (m *mockItems) List(context.Context) ([]catalog.Item, error) {
	m.calls++
	out := make([]catalog.Item, len(m.items))
	copy(out, m.items)
	return out, m.err
}

type mockTxs struct {
	txs   []inventory.Transaction
	calls int
}

func (m *mockTxs) List(context.Context) ([]inventory.Transaction, error) {
	m.calls++
	out := make([]inventory.Transaction, len(m.txs))
	copy(out, m.txs)
	return out, nil
}

// gatedItems blocks its first List until release is closed or the caller's
// context ends.
type gatedItems struct {
	items   []catalog.Item
	started chan struct{}
	release chan struct{}
}

func (g *gatedItems) List(ctx context.Context) ([]catalog.Item, error) {
	select {
	case g.started <- struct{}{}:
	default:
	}
	select {
	case <-g.release:
		return g.items, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

var today = time.Date(2024, 6, 3, 15, 0, 0, 0, time.UTC)

func fixtureData() (*mockItems, *mockTxs) {
	items := &mockItems{}
	for i := 0; i < 7; i++ {
		items.items = append(items.items, catalog.Item{ID: fmt.Sprintf("i%d", i), Code: fmt.Sprintf("C%d", i), CurrentQuantity: i * 3})
	}
	txs := &mockTxs{}
	for i := 0; i < 10; i++ {
		dir := inventory.Inbound
		if i%3 == 0 {
			dir = inventory.Outbound
		}
		txs.txs = append(txs.txs, inventory.Transaction{
			ID:        fmt.Sprintf("t%02d", i),
			Direction: dir,
			Quantity:  i + 1,
			Timestamp: today.Add(-time.Duration(i) * 3 * time.Hour),
		})
	}
	return items, txs
}

func TestDashboard(t *testing.T) {
	items, txs := fixtureData()
	svc := NewService(items, txs, nil, Config{})

	stats, err := svc.Dashboard(context.Background(), today)
	require.NoError(t, err)
	require.Equal(t, "2024-06-03", stats.Day)
	require.Equal(t, 7, stats.TotalItems)
	// quantities 0,3,6,9 are below the default threshold
	require.Equal(t, 4, stats.LowStockCount)
	require.Len(t, stats.LowStockItems, 4)
	// t00..t05 fall on the same UTC day: t00 and t03 outbound
	require.Equal(t, 4, stats.TodayInbound)
	require.Equal(t, 2, stats.TodayOutbound)
	require.Len(t, stats.RecentTransactions, 8)
	require.Equal(t, "t00", stats.RecentTransactions[0].ID)
	require.Equal(t, "t07", stats.RecentTransactions[7].ID)
}

func TestDashboardLimitsLowStockList(t *testing.T) {
	items, txs := fixtureData()
	svc := NewService(items, txs, nil, Config{LowStockThreshold: 100})

	stats, err := svc.Dashboard(context.Background(), today)
	require.NoError(t, err)
	require.Equal(t, 7, stats.LowStockCount)
	require.Len(t, stats.LowStockItems, 5)
}

func TestDashboardPropagatesErrors(t *testing.T) {
	items, txs := fixtureData()
	items.err = shared.ErrStoreUnavailable
	svc := NewService(items, txs, nil, Config{})

	_, err := svc.Dashboard(context.Background(), today)
	require.True(t, errors.Is(err, shared.ErrStoreUnavailable))
}

func TestDatasets(t *testing.T) {
	items, txs := fixtureData()
	svc := NewService(items, txs, nil, Config{})
	ctx := context.Background()

	daily, err := svc.DailyActivity(ctx, today.Add(-24*time.Hour))
	require.NoError(t, err)
	require.Equal(t, "2024-06-02", daily.Day)
	require.Len(t, daily.Transactions, 4)
	require.Equal(t, "t06", daily.Transactions[0].ID)
	require.Equal(t, 8+9, daily.InboundQuantity)
	require.Equal(t, 7+10, daily.OutboundQuantity)

	inv, err := svc.Inventory(ctx)
	require.NoError(t, err)
	require.Equal(t, 7, inv.TotalItems)
	require.Equal(t, 63, inv.TotalQuantity)
	require.Equal(t, 4, inv.LowStockCount)

	out, err := svc.Movements(ctx, inventory.Outbound)
	require.NoError(t, err)
	require.Len(t, out.Transactions, 4)
	require.Equal(t, 1+4+7+10, out.TotalQuantity)

	_, err = svc.Movements(ctx, "LOST")
	require.ErrorIs(t, err, shared.ErrValidation)
}

func newCachedService(t *testing.T, items ItemLister, txs TransactionLister) (*Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewService(items, txs, NewCache(client, time.Minute), Config{}), mr
}

func TestDashboardCacheAndInvalidate(t *testing.T) {
	items, txs := fixtureData()
	svc, mr := newCachedService(t, items, txs)
	ctx := context.Background()

	first, err := svc.Dashboard(ctx, today)
	require.NoError(t, err)
	require.Equal(t, 1, items.calls)
	require.True(t, mr.Exists("reports:dashboard:2024-06-03:1"))

	second, err := svc.Dashboard(ctx, today)
	require.NoError(t, err)
	require.Equal(t, 1, items.calls)
	require.Equal(t, first, second)

	require.NoError(t, svc.Invalidate(ctx))
	_, err = svc.Dashboard(ctx, today)
	require.NoError(t, err)
	require.Equal(t, 2, items.calls)
	require.True(t, mr.Exists("reports:dashboard:2024-06-03:2"))
}

func TestCacheTTL(t *testing.T) {
	items, txs := fixtureData()
	svc, mr := newCachedService(t, items, txs)
	ctx := context.Background()

	_, err := svc.Inventory(ctx)
	require.NoError(t, err)
	mr.FastForward(2 * time.Minute)

	_, err = svc.Inventory(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, items.calls)
}

func TestNilCacheIsPassThrough(t *testing.T) {
	var c *Cache
	key, err := c.BuildKey(context.Background(), "a", "b")
	require.NoError(t, err)
	require.Equal(t, "a:b", key)
	require.NoError(t, c.Bump(context.Background()))
}

func TestSharedLoadSurvivesLeaderCancel(t *testing.T) {
	items := &gatedItems{
		items:   []catalog.Item{{ID: "i1", Code: "C1", CurrentQuantity: 4}},
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	svc := NewService(items, &mockTxs{}, nil, Config{})

	leaderCtx, cancel := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, err := svc.Inventory(leaderCtx)
		leaderErr <- err
	}()
	<-items.started

	type result struct {
		report InventoryReport
		err    error
	}
	follower := make(chan result, 1)
	go func() {
		report, err := svc.Inventory(context.Background())
		follower <- result{report, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	require.ErrorIs(t, <-leaderErr, context.Canceled)
	close(items.release)

	got := <-follower
	require.NoError(t, got.err)
	require.Equal(t, 4, got.report.TotalQuantity)
}
