// Package metrics provides Prometheus metrics for the upskill recommender service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Breaker states as exported on the breaker gauge.
const (
	BreakerClosed   = 0
	BreakerHalfOpen = 1
	BreakerOpen     = 2
)

// Manager manages all Prometheus metrics for the recommender service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Recommendation pipeline
	recommendationLatency   prometheus.Histogram
	recommendationsServed   *prometheus.CounterVec
	candidatesFiltered      prometheus.Histogram
	indexFitLatency         prometheus.Histogram
	indexVocabularySize     prometheus.Gauge
	catalogCourses          *prometheus.GaugeVec
	ingestRowsDropped       *prometheus.CounterVec
	enrichmentOutcomes      *prometheus.CounterVec
	enrichmentLatency       prometheus.Histogram
	breakerState            *prometheus.GaugeVec
	errorRateByComponent    *prometheus.CounterVec
	httpRequests            *prometheus.CounterVec
	httpRequestDuration     *prometheus.HistogramVec
	queueSize               prometheus.Gauge
	queueCapacity           prometheus.Gauge
	queueEnqueueRate        prometheus.Counter
	queueDequeueRate        prometheus.Counter
	queueEnqueueErrors      prometheus.Counter
	workerCount             prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
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
		namespace:        "upskill",
		subsystem:        "recommender",
		histogramBuckets: prometheus.DefBuckets,
		constLabels:      map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets, ConstLabels: m.constLabels}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.recommendationLatency = auto.NewHistogram(m.histogramOpts(
		"recommendation_latency_milliseconds",
		"Histogram of end-to-end recommendation latency in milliseconds",
		m.histogramBuckets,
	))

	m.recommendationsServed = auto.NewCounterVec(m.counterOpts(
		"recommendations_served_total",
		"Total number of recommendation responses by outcome",
	), []string{"outcome"})

	m.candidatesFiltered = auto.NewHistogram(m.histogramOpts(
		"candidates_filtered",
		"Number of courses left after applying request filters",
		prometheus.ExponentialBuckets(1, 4, 8),
	))

	m.indexFitLatency = auto.NewHistogram(m.histogramOpts(
		"index_fit_latency_milliseconds",
		"Histogram of text index fit latency in milliseconds",
		m.histogramBuckets,
	))

	m.indexVocabularySize = auto.NewGauge(m.gaugeOpts(
		"index_vocabulary_size",
		"Vocabulary size of the most recently fitted text index",
	))

	m.catalogCourses = auto.NewGaugeVec(m.gaugeOpts(
		"catalog_courses",
		"Number of courses in the catalog by provider",
	), []string{"provider"})

	m.ingestRowsDropped = auto.NewCounterVec(m.counterOpts(
		"ingest_rows_dropped_total",
		"Total number of catalog rows dropped during ingestion",
	), []string{"source", "reason"})

	m.enrichmentOutcomes = auto.NewCounterVec(m.counterOpts(
		"enrichment_outcomes_total",
		"Total number of enrichment attempts by outcome",
	), []string{"operation", "outcome"})

	m.enrichmentLatency = auto.NewHistogram(m.histogramOpts(
		"enrichment_latency_milliseconds",
		"Latency of calls to the text generation provider in milliseconds",
		m.histogramBuckets,
	))

	m.breakerState = auto.NewGaugeVec(m.gaugeOpts(
		"breaker_state",
		"Circuit breaker state (0 closed, 1 half-open, 2 open)",
	), []string{"name"})

	m.errorRateByComponent = auto.NewCounterVec(m.counterOpts(
		"errors_by_component_total",
		"Total number of errors by component",
	), []string{"component", "error_type"})

	m.httpRequests = auto.NewCounterVec(m.counterOpts(
		"http_requests_total",
		"Total number of HTTP requests by endpoint and method",
	), []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts(
		"http_request_duration_milliseconds",
		"HTTP request duration in milliseconds (user experience)",
		m.histogramBuckets,
	), []string{"endpoint", "method", "status_code"})

	m.queueSize = auto.NewGauge(m.gaugeOpts("queue_size", "Current size of the enrichment job queue"))
	m.queueCapacity = auto.NewGauge(m.gaugeOpts("queue_capacity", "Maximum enrichment queue capacity"))
	m.queueEnqueueRate = auto.NewCounter(m.counterOpts("queue_enqueue_total", "Total number of jobs enqueued"))
	m.queueDequeueRate = auto.NewCounter(m.counterOpts("queue_dequeue_total", "Total number of jobs dequeued"))
	m.queueEnqueueErrors = auto.NewCounter(m.counterOpts("queue_enqueue_errors_total", "Total number of rejected enqueues"))

	m.workerCount = auto.NewGauge(m.gaugeOpts("worker_count", "Current number of enrichment workers"))
	m.workerProcessingLatency = auto.NewHistogram(m.histogramOpts(
		"worker_processing_latency_milliseconds",
		"Worker job processing latency in milliseconds",
		m.histogramBuckets,
	))
}

// RecordRecommendationLatency records end-to-end recommendation latency in milliseconds.
func RecordRecommendationLatency(latencyMs float64) {
	globalManager.recommendationLatency.Observe(latencyMs)
}

// RecordRecommendationServed counts a response; outcome is "ok" or "empty".
func RecordRecommendationServed(outcome string) {
	globalManager.recommendationsServed.WithLabelValues(outcome).Inc()
}

// RecordCandidatesFiltered records how many courses survived the filters.
func RecordCandidatesFiltered(n int) {
	globalManager.candidatesFiltered.Observe(float64(n))
}

// RecordIndexFit records a text index fit.
func RecordIndexFit(latencyMs float64, vocabulary int) {
	globalManager.indexFitLatency.Observe(latencyMs)
	globalManager.indexVocabularySize.Set(float64(vocabulary))
}

// UpdateCatalogCourses sets the course count for a provider.
func UpdateCatalogCourses(provider string, count int) {
	globalManager.catalogCourses.WithLabelValues(provider).Set(float64(count))
}

// RecordIngestRowDropped counts a dropped catalog row.
func RecordIngestRowDropped(source, reason string) {
	globalManager.ingestRowsDropped.WithLabelValues(source, reason).Inc()
}

// RecordEnrichment counts an enrichment attempt outcome.
func RecordEnrichment(operation, outcome string) {
	globalManager.enrichmentOutcomes.WithLabelValues(operation, outcome).Inc()
}

// RecordEnrichmentLatency records provider call latency in milliseconds.
func RecordEnrichmentLatency(latencyMs float64) {
	globalManager.enrichmentLatency.Observe(latencyMs)
}

// UpdateBreakerState sets the state gauge of a named circuit breaker.
func UpdateBreakerState(name string, state int) {
	globalManager.breakerState.WithLabelValues(name).Set(float64(state))
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueueRate.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeueRate.Inc()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// UpdateWorkerCount sets the current worker count.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// RecordWorkerProcessingLatency records worker processing latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
