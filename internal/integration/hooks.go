// Package integration routes committed stock movements to the modules that
// react to them.
package integration

import (
	"context"
	"log/slog"

	"github.com/alrazi/medstock/internal/inventory"
	"github.com/alrazi/medstock/internal/observability"
)

// Invalidator retires derived data after stock changed.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// Hooks records metrics, retires cached report datasets and warns when an
// item drops below the low-stock threshold.
type Hooks struct {
	logger    *slog.Logger
	metrics   *observability.Metrics
	threshold int
	reports   Invalidator
}

var _ inventory.IntegrationHandler = (*Hooks)(nil)

// NewHooks constructs integration hooks. metrics may be nil.
func NewHooks(logger *slog.Logger, metrics *observability.Metrics, threshold int) *Hooks {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hooks{logger: logger, metrics: metrics, threshold: threshold}
}

// AttachReports sets the report cache to invalidate. The reports service is
// built after inventory, so it is attached late.
func (h *Hooks) AttachReports(reports Invalidator) {
	h.reports = reports
}

// HandleMovementPosted implements inventory.IntegrationHandler. Movements
// stored without an item carry no balance, so they only retire cached
// reports.
func (h *Hooks) HandleMovementPosted(ctx context.Context, evt inventory.MovementPostedEvent) error {
	if evt.ItemFound {
		h.observe(ctx, evt)
	}
	if h.reports == nil {
		return nil
	}
	return h.reports.Invalidate(ctx)
}

func (h *Hooks) observe(ctx context.Context, evt inventory.MovementPostedEvent) {
	h.metrics.ObserveMovement(string(evt.Direction), evt.ItemID, evt.Delta, evt.Balance)
	previous := evt.Balance - evt.Delta
	if evt.Balance < h.threshold && previous >= h.threshold {
		h.metrics.ObserveLowStock()
		h.logger.WarnContext(ctx, "item fell below low-stock threshold",
			slog.String("item_id", evt.ItemID),
			slog.String("item_name", evt.ItemName),
			slog.Int("quantity", evt.Balance),
			slog.Int("threshold", h.threshold))
	}
}
