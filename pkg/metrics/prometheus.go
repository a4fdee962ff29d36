// Package metrics provides Prometheus metrics for the handicap engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label values for the inversion regime.
const (
	RegimeRootFind = "rootfind"
	RegimeMaxScore = "max_score"
)

// Manager manages all Prometheus metrics for the engine.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Engine metrics
	inversions        *prometheus.CounterVec
	rootFindIters     *prometheus.HistogramVec
	rootFindFailures  *prometheus.CounterVec
	boundaryWarnings  *prometheus.CounterVec
	roundEvaluations  *prometheus.CounterVec
	tableBuilds       *prometheus.CounterVec
	tableBuildLatency prometheus.Histogram
	tableCells        prometheus.Counter
	catalogueRounds   prometheus.Gauge

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "archery",
		subsystem:        "handicap",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		constLabels:      make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // flat list of metric definitions
	auto := promauto.With(m.registry)

	m.inversions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "inversions_total",
		Help:        "Score to handicap inversions by scheme and regime",
		ConstLabels: m.constLabels,
	}, []string{"scheme", "regime"})

	m.rootFindIters = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "rootfind_iterations",
		Help:        "Iterations used by the root finder per inversion",
		Buckets:     prometheus.LinearBuckets(1, 2, 13),
		ConstLabels: m.constLabels,
	}, []string{"scheme"})

	m.rootFindFailures = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "rootfind_failures_total",
		Help:        "Root finder failures (bracketing or convergence); any non-zero value is a defect",
		ConstLabels: m.constLabels,
	}, []string{"scheme", "reason"})

	m.boundaryWarnings = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "max_score_boundary_warnings_total",
		Help:        "Continuous handicaps requested for a maximum score",
		ConstLabels: m.constLabels,
	}, []string{"scheme"})

	m.roundEvaluations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "round_evaluations_total",
		Help:        "Round score evaluations requested through the public API",
		ConstLabels: m.constLabels,
	}, []string{"scheme"})

	m.tableBuilds = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "table_builds_total",
		Help:        "Handicap tables built",
		ConstLabels: m.constLabels,
	}, []string{"scheme"})

	m.tableBuildLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "table_build_duration_milliseconds",
		Help:        "Time taken to build a handicap table",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})

	m.tableCells = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "table_cells_total",
		Help:        "Score cells computed for handicap tables",
		ConstLabels: m.constLabels,
	})

	m.catalogueRounds = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "catalogue_rounds",
		Help:        "Rounds currently loaded in the catalogue",
		ConstLabels: m.constLabels,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_requests_total",
		Help:        "Total number of HTTP requests by endpoint and method",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.errorRateByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "errors_by_endpoint_total",
		Help:        "Error responses by endpoint, method and error type",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_memory_usage_bytes",
		Help:        "System memory usage in bytes",
		ConstLabels: m.constLabels,
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_goroutine_count",
		Help:        "Number of goroutines",
		ConstLabels: m.constLabels,
	})
}

// RecordInversion counts a score to handicap inversion.
func (m *Manager) RecordInversion(scheme, regime string) {
	if m.enabled {
		m.inversions.WithLabelValues(scheme, regime).Inc()
	}
}

// RecordRootFindIterations observes the iterations a root search used.
func (m *Manager) RecordRootFindIterations(scheme string, iterations int) {
	if m.enabled {
		m.rootFindIters.WithLabelValues(scheme).Observe(float64(iterations))
	}
}

// RecordRootFindFailure counts a failed root search.
func (m *Manager) RecordRootFindFailure(scheme, reason string) {
	if m.enabled {
		m.rootFindFailures.WithLabelValues(scheme, reason).Inc()
	}
}

// RecordBoundaryWarning counts a continuous maximum-score handicap request.
func (m *Manager) RecordBoundaryWarning(scheme string) {
	if m.enabled {
		m.boundaryWarnings.WithLabelValues(scheme).Inc()
	}
}

// RecordRoundEvaluation counts a round score evaluation.
func (m *Manager) RecordRoundEvaluation(scheme string) {
	if m.enabled {
		m.roundEvaluations.WithLabelValues(scheme).Inc()
	}
}

// RecordTableBuild records a completed table build.
func (m *Manager) RecordTableBuild(scheme string, cells int, durationMs float64) {
	if m.enabled {
		m.tableBuilds.WithLabelValues(scheme).Inc()
		m.tableCells.Add(float64(cells))
		m.tableBuildLatency.Observe(durationMs)
	}
}

// The package-level helpers below record on the global manager.

// RecordInversion counts a score to handicap inversion.
func RecordInversion(scheme, regime string) { globalManager.RecordInversion(scheme, regime) }

// RecordRootFindIterations observes the iterations a root search used.
func RecordRootFindIterations(scheme string, iterations int) {
	globalManager.RecordRootFindIterations(scheme, iterations)
}

// RecordRootFindFailure counts a failed root search.
func RecordRootFindFailure(scheme, reason string) {
	globalManager.RecordRootFindFailure(scheme, reason)
}

// RecordBoundaryWarning counts a continuous maximum-score handicap request.
func RecordBoundaryWarning(scheme string) { globalManager.RecordBoundaryWarning(scheme) }

// RecordRoundEvaluation counts a round score evaluation.
func RecordRoundEvaluation(scheme string) { globalManager.RecordRoundEvaluation(scheme) }

// RecordTableBuild records a completed table build.
func RecordTableBuild(scheme string, cells int, durationMs float64) {
	globalManager.RecordTableBuild(scheme, cells, durationMs)
}

// UpdateCatalogueRounds sets the number of rounds in the catalogue.
func UpdateCatalogueRounds(count int) {
	if globalManager.enabled {
		globalManager.catalogueRounds.Set(float64(count))
	}
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if globalManager.enabled {
		globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	}
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if globalManager.enabled {
		globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
	}
}

// RecordErrorByEndpoint records an error response for an endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if globalManager.enabled {
		globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
	}
}

// UpdateSystemMemoryUsage sets the memory usage gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine count gauge.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
