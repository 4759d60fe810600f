package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Catalog metrics
	CacheHits       prometheus.Counter
	CacheMisses     prometheus.Counter
	RebuildDuration prometheus.Histogram
	CatalogEntries  *prometheus.GaugeVec

	// External tool metrics
	ToolInvocations *prometheus.CounterVec
	ToolDuration    *prometheus.HistogramVec

	// Execution metrics
	ExecutesTotal *prometheus.CounterVec
}

// NewMetrics creates a metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "launchdeck_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "launchdeck_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		CacheHits: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "launchdeck_catalog_cache_hits_total",
				Help: "Catalog requests served from the cached snapshot",
			},
		),
		CacheMisses: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "launchdeck_catalog_cache_misses_total",
				Help: "Catalog requests that triggered or joined a rebuild",
			},
		),
		RebuildDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "launchdeck_catalog_rebuild_duration_seconds",
				Help:    "Full catalog rebuild duration in seconds",
				Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
			},
		),
		CatalogEntries: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "launchdeck_catalog_entries",
				Help: "Entries in the current catalog snapshot by category",
			},
			[]string{"category"},
		),
		ToolInvocations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "launchdeck_tool_invocations_total",
				Help: "External tool invocations by tool and outcome",
			},
			[]string{"tool", "outcome"},
		),
		ToolDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "launchdeck_tool_duration_seconds",
				Help:    "External tool invocation duration in seconds",
				Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"tool"},
		),
		ExecutesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "launchdeck_executes_total",
				Help: "Command dispatches by category and outcome",
			},
			[]string{"category", "outcome"},
		),
	}
}

// RecordHTTPRequest records one HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordRebuild records one catalog rebuild.
func (m *Metrics) RecordRebuild(elapsed time.Duration, apps, settings int) {
	m.RebuildDuration.Observe(elapsed.Seconds())
	m.CatalogEntries.WithLabelValues("application").Set(float64(apps))
	m.CatalogEntries.WithLabelValues("settings-panel").Set(float64(settings))
}

// RecordExecute records one dispatch attempt.
func (m *Metrics) RecordExecute(category string, ok bool) {
	m.ExecutesTotal.WithLabelValues(category, outcome(ok)).Inc()
}

// ObserveTool implements toolrun.Observer.
func (m *Metrics) ObserveTool(name string, err error, elapsed time.Duration) {
	m.ToolInvocations.WithLabelValues(name, outcome(err == nil)).Inc()
	m.ToolDuration.WithLabelValues(name).Observe(elapsed.Seconds())
}

func outcome(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
