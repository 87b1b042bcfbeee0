package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/alrazi/medstock/internal/catalog"
	"github.com/alrazi/medstock/internal/inventory"
	"github.com/alrazi/medstock/internal/shared"
)

// DailyActivityReport lists one UTC day's movements.
type DailyActivityReport struct {
	Day              string                  `json:"day"`
	Transactions     []inventory.Transaction `json:"transactions"`
	InboundQuantity  int                     `json:"inboundQuantity"`
	OutboundQuantity int                     `json:"outboundQuantity"`
}

// InventoryReport is a stock snapshot in catalog order.
type InventoryReport struct {
	Items         []catalog.Item `json:"items"`
	TotalItems    int            `json:"totalItems"`
	TotalQuantity int            `json:"totalQuantity"`
	LowStockCount int            `json:"lowStockCount"`
}

// MovementReport lists every movement of one direction.
type MovementReport struct {
	Direction     inventory.Direction     `json:"direction"`
	Transactions  []inventory.Transaction `json:"transactions"`
	TotalQuantity int                     `json:"totalQuantity"`
}

// DailyActivity returns the movements recorded on day (UTC), newest first.
func (s *Service) DailyActivity(ctx context.Context, day time.Time) (DailyActivityReport, error) {
	key := dayKey(day)
	return cached(ctx, s, func(ctx context.Context) (DailyActivityReport, error) {
		txs, err := s.txs.List(ctx)
		if err != nil {
			return DailyActivityReport{}, err
		}
		inventory.SortNewestFirst(txs)
		report := DailyActivityReport{Day: key, Transactions: []inventory.Transaction{}}
		for _, t := range txs {
			if dayKey(t.Timestamp) != key {
				continue
			}
			report.Transactions = append(report.Transactions, t)
			if t.Direction == inventory.Inbound {
				report.InboundQuantity += t.Quantity
			} else {
				report.OutboundQuantity += t.Quantity
			}
		}
		return report, nil
	}, "daily", key)
}

// Inventory returns the current stock of every item.
func (s *Service) Inventory(ctx context.Context) (InventoryReport, error) {
	return cached(ctx, s, func(ctx context.Context) (InventoryReport, error) {
		items, err := s.items.List(ctx)
		if err != nil {
			return InventoryReport{}, err
		}
		report := InventoryReport{Items: items, TotalItems: len(items)}
		for _, item := range items {
			report.TotalQuantity += item.CurrentQuantity
			if item.CurrentQuantity < s.threshold {
				report.LowStockCount++
			}
		}
		if report.Items == nil {
			report.Items = []catalog.Item{}
		}
		return report, nil
	}, "inventory")
}

// Movements returns every movement in direction, newest first.
func (s *Service) Movements(ctx context.Context, direction inventory.Direction) (MovementReport, error) {
	if !direction.Valid() {
		return MovementReport{}, shared.NewValidationError("direction", fmt.Sprintf("unknown direction %q", direction))
	}
	return cached(ctx, s, func(ctx context.Context) (MovementReport, error) {
		txs, err := s.txs.List(ctx)
		if err != nil {
			return MovementReport{}, err
		}
		inventory.SortNewestFirst(txs)
		report := MovementReport{Direction: direction, Transactions: []inventory.Transaction{}}
		for _, t := range txs {
			if t.Direction == direction {
				report.Transactions = append(report.Transactions, t)
				report.TotalQuantity += t.Quantity
			}
		}
		return report, nil
	}, "movements", string(direction))
}
