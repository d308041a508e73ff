// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// Computation metrics
	Computations        *prometheus.CounterVec
	ComputationDuration prometheus.Histogram
	CacheLookups        *prometheus.CounterVec

	// Collection metrics
	FetchErrors       *prometheus.CounterVec
	RefreshRuns       *prometheus.CounterVec
	BasketDates       prometheus.Gauge
	BasketPairs       prometheus.Gauge
	LastRefreshUnix   prometheus.Gauge
	ArchiveRowsStored prometheus.Counter

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
}

// NewMetrics creates a Metrics instance registered on its own registry.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "fx_strength"
	}
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		Computations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "calculator",
			Name:      "computations_total",
			Help:      "Strength computations by outcome",
		}, []string{"outcome"}),
		ComputationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "calculator",
			Name:      "computation_duration_seconds",
			Help:      "Time spent computing strength for one window",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),
		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "calculator",
			Name:      "cache_lookups_total",
			Help:      "Memo cache lookups by result (hit or miss)",
		}, []string{"result"}),

		FetchErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "collector",
			Name:      "fetch_errors_total",
			Help:      "Pair fetch failures by data source",
		}, []string{"source"}),
		RefreshRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "collector",
			Name:      "refresh_runs_total",
			Help:      "Basket refresh runs by status",
		}, []string{"status"}),
		BasketDates: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "collector",
			Name:      "basket_dates",
			Help:      "Number of aligned dates in the current basket",
		}),
		BasketPairs: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "collector",
			Name:      "basket_pairs",
			Help:      "Number of pairs in the current basket",
		}),
		LastRefreshUnix: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "collector",
			Name:      "last_refresh_timestamp_seconds",
			Help:      "Unix time of the last successful basket refresh",
		}),
		ArchiveRowsStored: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "archive",
			Name:      "rows_stored_total",
			Help:      "Bars upserted into the forex_data archive",
		}),

		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status code",
		}, []string{"route", "code"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordComputation records one strength computation.
func (m *Metrics) RecordComputation(d time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.Computations.WithLabelValues(outcome).Inc()
	m.ComputationDuration.Observe(d.Seconds())
}

// RecordCacheLookup records a memo cache hit or miss.
func (m *Metrics) RecordCacheLookup(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.CacheLookups.WithLabelValues("hit").Inc()
		return
	}
	m.CacheLookups.WithLabelValues("miss").Inc()
}

// RecordFetchError increments the fetch error counter for a source.
func (m *Metrics) RecordFetchError(source string) {
	if m == nil {
		return
	}
	m.FetchErrors.WithLabelValues(source).Inc()
}

// RecordRefresh records a refresh run and, on success, the basket shape.
func (m *Metrics) RecordRefresh(dates, pairs int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.RefreshRuns.WithLabelValues("error").Inc()
		return
	}
	m.RefreshRuns.WithLabelValues("ok").Inc()
	m.BasketDates.Set(float64(dates))
	m.BasketPairs.Set(float64(pairs))
	m.LastRefreshUnix.Set(float64(time.Now().Unix()))
}

// RecordArchived adds to the archived rows counter.
func (m *Metrics) RecordArchived(rows int) {
	if m == nil {
		return
	}
	m.ArchiveRowsStored.Add(float64(rows))
}

// RecordHTTP records one served request.
func (m *Metrics) RecordHTTP(route string, code int) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

