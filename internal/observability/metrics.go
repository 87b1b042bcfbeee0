package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects Prometheus metrics for stock movements.
type Metrics struct {
	registry         *prometheus.Registry
	handler          http.Handler
	movementsTotal   *prometheus.CounterVec
	movementQuantity *prometheus.CounterVec
	itemQuantity     *prometheus.GaugeVec
	lowStockTotal    prometheus.Counter
}

// NewMetrics initialises the registry and the movement metrics.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	movements := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "medstock_movements_total",
		Help: "Committed stock movements by direction.",
	}, []string{"direction"})
	quantity := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "medstock_movement_quantity_total",
		Help: "Units moved by committed movements, by direction of the net change.",
	}, []string{"direction"})
	items := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "medstock_item_quantity",
		Help: "Last known quantity per item.",
	}, []string{"item_id"})
	lowStock := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "medstock_low_stock_crossings_total",
		Help: "Times an item dropped below the low-stock threshold.",
	})
	registry.MustRegister(movements, quantity, items, lowStock)
	return &Metrics{
		registry:         registry,
		handler:          promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		movementsTotal:   movements,
		movementQuantity: quantity,
		itemQuantity:     items,
		lowStockTotal:    lowStock,
	}
}

// Handler returns an http.Handler exposing the registry for embedding in a
// host application.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveMovement records one committed movement. delta is the signed change
// applied to the item and balance its resulting quantity.
func (m *Metrics) ObserveMovement(direction, itemID string, delta, balance int) {
	if m == nil {
		return
	}
	m.movementsTotal.WithLabelValues(direction).Inc()
	switch {
	case delta > 0:
		m.movementQuantity.WithLabelValues("in").Add(float64(delta))
	case delta < 0:
		m.movementQuantity.WithLabelValues("out").Add(float64(-delta))
	}
	m.itemQuantity.WithLabelValues(itemID).Set(float64(balance))
}

// ObserveLowStock counts an item crossing below the threshold.
func (m *Metrics) ObserveLowStock() {
	if m == nil {
		return
	}
	m.lowStockTotal.Inc()
}

// Registerer exposes the registry for registering custom metrics.
func (m *Metrics) Registerer() prometheus.Registerer {
	if m == nil {
		return prometheus.DefaultRegisterer
	}
	return m.registry
}

// Gatherer exposes the registry for reading metric families.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	if m == nil {
		return prometheus.DefaultGatherer
	}
	return m.registry
}
