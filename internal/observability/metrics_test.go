package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetricsHandlerExposesPrometheusMetrics(t *testing.T) {
	metrics := NewMetrics()
	metrics.ObserveMovement("INBOUND", "i1", 5, 25)

	rr := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	require.True(t, strings.Contains(body, `medstock_movements_total{direction="INBOUND"} 1`), body)
	require.True(t, strings.Contains(body, `medstock_item_quantity{item_id="i1"} 25`), body)
}

func TestObserveMovement(t *testing.T) {
	metrics := NewMetrics()
	metrics.ObserveMovement("INBOUND", "i1", 5, 25)
	metrics.ObserveMovement("OUTBOUND", "i1", -20, 5)
	metrics.ObserveMovement("OUTBOUND", "i1", 3, 8)
	metrics.ObserveLowStock()

	require.InDelta(t, 2, testutil.ToFloat64(metrics.movementsTotal.WithLabelValues("OUTBOUND")), 0.001)
	require.InDelta(t, 8, testutil.ToFloat64(metrics.movementQuantity.WithLabelValues("in")), 0.001)
	require.InDelta(t, 20, testutil.ToFloat64(metrics.movementQuantity.WithLabelValues("out")), 0.001)
	require.InDelta(t, 8, testutil.ToFloat64(metrics.itemQuantity.WithLabelValues("i1")), 0.001)
	require.InDelta(t, 1, testutil.ToFloat64(metrics.lowStockTotal), 0.001)
}

func TestNilMetricsAreSafe(t *testing.T) {
	var metrics *Metrics
	metrics.ObserveMovement("INBOUND", "i1", 1, 1)
	metrics.ObserveLowStock()

	rr := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
