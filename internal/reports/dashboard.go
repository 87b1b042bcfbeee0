package reports

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alrazi/medstock/internal/catalog"
	"github.com/alrazi/medstock/internal/inventory"
)

const (
	dashboardLowStockLimit = 5
	dashboardRecentLimit   = 8
)

// DashboardStats is the landing page summary.
type DashboardStats struct {
	Day                string                  `json:"day"`
	TotalItems         int                     `json:"totalItems"`
	LowStockCount      int                     `json:"lowStockCount"`
	TodayInbound       int                     `json:"todayInbound"`
	TodayOutbound      int                     `json:"todayOutbound"`
	LowStockItems      []catalog.Item          `json:"lowStockItems"`
	RecentTransactions []inventory.Transaction `json:"recentTransactions"`
}

type snapshot struct {
	items []catalog.Item
	txs   []inventory.Transaction
}

// load fetches items and transactions concurrently.
func (s *Service) load(ctx context.Context) (snapshot, error) {
	var snap snapshot
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, err := s.items.List(ctx)
		if err != nil {
			return err
		}
		snap.items = items
		return nil
	})
	g.Go(func() error {
		txs, err := s.txs.List(ctx)
		if err != nil {
			return err
		}
		inventory.SortNewestFirst(txs)
		snap.txs = txs
		return nil
	})
	if err := g.Wait(); err != nil {
		return snapshot{}, err
	}
	return snap, nil
}

// Dashboard summarises stock and the movements of now's UTC calendar day.
func (s *Service) Dashboard(ctx context.Context, now time.Time) (DashboardStats, error) {
	day := dayKey(now)
	return cached(ctx, s, func(ctx context.Context) (DashboardStats, error) {
		snap, err := s.load(ctx)
		if err != nil {
			return DashboardStats{}, err
		}
		stats := DashboardStats{
			Day:                day,
			TotalItems:         len(snap.items),
			LowStockItems:      []catalog.Item{},
			RecentTransactions: []inventory.Transaction{},
		}
		for _, item := range snap.items {
			if item.CurrentQuantity < s.threshold {
				stats.LowStockCount++
				if len(stats.LowStockItems) < dashboardLowStockLimit {
					stats.LowStockItems = append(stats.LowStockItems, item)
				}
			}
		}
		for _, t := range snap.txs {
			if dayKey(t.Timestamp) == day {
				switch t.Direction {
				case inventory.Inbound:
					stats.TodayInbound++
				case inventory.Outbound:
					stats.TodayOutbound++
				}
			}
		}
		recent := snap.txs
		if len(recent) > dashboardRecentLimit {
			recent = recent[:dashboardRecentLimit]
		}
		stats.RecentTransactions = append(stats.RecentTransactions, recent...)
		return stats, nil
	}, "dashboard", day)
}

func dayKey(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}
