// Package monitoring handles Prometheus metrics collection for the API
// server and the shopping list core.
package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector handles Prometheus metrics collection
type MetricsCollector struct {
	// HTTP metrics
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Business metrics
	matchRequestsTotal prometheus.Counter
	listMergesTotal    prometheus.Counter
	listExportsTotal   prometheus.Counter
}

// NewMetricsCollector creates a new metrics collector
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		httpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		httpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		matchRequestsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "pantry_match_requests_total",
				Help: "Total number of pantry match computations",
			},
		),
		listMergesTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "shopping_list_merges_total",
				Help: "Total number of shopping list merge operations",
			},
		),
		listExportsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "shopping_list_exports_total",
				Help: "Total number of shopping list CSV exports",
			},
		),
	}
}

// ObserveHTTPRequest records one served HTTP request
func (m *MetricsCollector) ObserveHTTPRequest(method, path, statusCode string, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, path, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// IncMatchRequests counts one pantry match computation
func (m *MetricsCollector) IncMatchRequests() {
	m.matchRequestsTotal.Inc()
}

// IncListMerges counts one shopping list merge
func (m *MetricsCollector) IncListMerges() {
	m.listMergesTotal.Inc()
}

// IncListExports counts one CSV export
func (m *MetricsCollector) IncListExports() {
	m.listExportsTotal.Inc()
}

// Handler exposes the default Prometheus registry
func (m *MetricsCollector) Handler() http.Handler {
	return promhttp.Handler()
}
