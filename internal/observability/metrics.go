package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// capacity service.
type Metrics struct {
	TableLoads        prometheus.Counter
	TableLoadDuration prometheus.Histogram
	RowsLoaded        prometheus.Gauge
	ParseFallbacks    prometheus.Counter
	ValidationFailed  prometheus.Gauge

	// HTTP metrics.
	HTTPRequests *prometheus.CounterVec // labels: route, code
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		TableLoads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "capacidad",
			Name:      "table_loads_total",
			Help:      "Total source CSV loads.",
		}),
		TableLoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "capacidad",
			Name:      "table_load_duration_seconds",
			Help:      "Duration of a complete CSV parse and derive pass.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		RowsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "capacidad",
			Name:      "rows_loaded",
			Help:      "Node rows in the currently served table.",
		}),
		ParseFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "capacidad",
			Name:      "parse_fallback_cells_total",
			Help:      "Numeric cells that degraded to zero during parsing.",
		}),
		ValidationFailed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "capacidad",
			Name:      "validation_checks_failed",
			Help:      "Failed dataset sanity checks for the current table.",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "capacidad",
			Name:      "http_requests_total",
			Help:      "HTTP API requests by route and status code.",
		}, []string{"route", "code"}),
	}

	prometheus.MustRegister(
		m.TableLoads,
		m.TableLoadDuration,
		m.RowsLoaded,
		m.ParseFallbacks,
		m.ValidationFailed,
		m.HTTPRequests,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		TableLoads:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "capacidad", Name: "table_loads_total"}),
		TableLoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "capacidad", Name: "table_load_duration_seconds"}),
		RowsLoaded:        prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "capacidad", Name: "rows_loaded"}),
		ParseFallbacks:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "capacidad", Name: "parse_fallback_cells_total"}),
		ValidationFailed:  prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "capacidad", Name: "validation_checks_failed"}),
		HTTPRequests:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "capacidad", Name: "http_requests_total"}, []string{"route", "code"}),
	}
}
