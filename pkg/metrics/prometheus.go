// Package metrics provides Prometheus metrics for the umbrella advisory service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus collectors for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// HTTP surface
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec

	// Upstream collaborators (forecast provider, geocoder)
	upstreamRequests *prometheus.CounterVec
	upstreamLatency  *prometheus.HistogramVec

	// Forecast cache
	cacheHits      prometheus.Counter
	cacheMisses    prometheus.Counter
	cacheEvictions prometheus.Counter
	cacheSize      prometheus.Gauge

	// Scoring and question answering
	scoresComputed     prometheus.Counter
	umbrellaScore      prometheus.Histogram
	questionsAnswered  *prometheus.CounterVec
	geocodeResolutions *prometheus.CounterVec

	// Process health
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global manager instance backed by a custom registry so the default Go
// collectors do not pollute the scrape output.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager with the given options.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "umbrella",
		subsystem:        "advisory",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	factory := promauto.With(m.registry)

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "HTTP requests by endpoint, method and status code.",
	}, []string{"endpoint", "method", "status"})

	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method"})

	m.errorsByEndpoint = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_errors_total",
		Help:      "HTTP error responses by endpoint and error type.",
	}, []string{"endpoint", "type"})

	m.upstreamRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "upstream_requests_total",
		Help:      "Outbound upstream calls by service and outcome.",
	}, []string{"service", "outcome"})

	m.upstreamLatency = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "upstream_latency_ms",
		Help:      "Upstream call latency in milliseconds.",
		Buckets:   m.histogramBuckets,
	}, []string{"service"})

	m.cacheHits = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_hits_total",
		Help:      "Forecast cache hits.",
	})

	m.cacheMisses = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_misses_total",
		Help:      "Forecast cache misses.",
	})

	m.cacheEvictions = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_evictions_total",
		Help:      "Forecast cache entries evicted by capacity pressure.",
	})

	m.cacheSize = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_size",
		Help:      "Current number of cached forecast entries.",
	})

	m.scoresComputed = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scores_computed_total",
		Help:      "Umbrella score computations.",
	})

	m.umbrellaScore = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "umbrella_score",
		Help:      "Distribution of computed umbrella scores.",
		Buckets:   []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
	})

	m.questionsAnswered = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "questions_answered_total",
		Help:      "Natural language questions answered by outcome.",
	}, []string{"outcome"})

	m.geocodeResolutions = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "geocode_resolutions_total",
		Help:      "City geocoding lookups by outcome.",
	}, []string{"outcome"})

	m.systemMemoryUsage = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_bytes",
		Help:      "Allocated heap bytes.",
	})

	m.systemGoroutineCount = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutines",
		Help:      "Current goroutine count.",
	})
}

// GetRegistry returns the registry backing the global manager, for scraping.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Package-level recording helpers operating on the global manager.

func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

func RecordHTTPRequestDuration(endpoint, method string, ms float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method).Observe(ms)
}

func RecordErrorByEndpoint(endpoint, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, errorType).Inc()
}

func RecordUpstreamRequest(service, outcome string) {
	globalManager.upstreamRequests.WithLabelValues(service, outcome).Inc()
}

func RecordUpstreamLatency(service string, ms float64) {
	globalManager.upstreamLatency.WithLabelValues(service).Observe(ms)
}

func RecordCacheHit()      { globalManager.cacheHits.Inc() }
func RecordCacheMiss()     { globalManager.cacheMisses.Inc() }
func RecordCacheEviction() { globalManager.cacheEvictions.Inc() }

func UpdateCacheSize(n int) { globalManager.cacheSize.Set(float64(n)) }

func RecordScoreComputed(score int) {
	globalManager.scoresComputed.Inc()
	globalManager.umbrellaScore.Observe(float64(score))
}

func RecordQuestionAnswered(outcome string) {
	globalManager.questionsAnswered.WithLabelValues(outcome).Inc()
}

func RecordGeocodeResolution(outcome string) {
	globalManager.geocodeResolutions.WithLabelValues(outcome).Inc()
}

func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

func UpdateSystemGoroutineCount(n int) {
	globalManager.systemGoroutineCount.Set(float64(n))
}
