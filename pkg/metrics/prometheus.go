// Package metrics provides Prometheus metrics for the elevatos dashboard service.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the dashboard service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Domain metrics
	storeMutations    *prometheus.CounterVec
	feedbackSubmitted *prometheus.CounterVec
	feedbackReviews   prometheus.Gauge
	feedbackAverage   prometheus.Gauge
	projectsTotal     prometheus.Gauge
	projectsByStatus  *prometheus.GaugeVec

	// Persistence mirror
	mirrorLoads        *prometheus.CounterVec
	mirrorWrites       *prometheus.CounterVec
	mirrorWriteLatency prometheus.Histogram
	mirrorPending      prometheus.Gauge

	// Repository backends
	repositoryLatency *prometheus.HistogramVec
	repositoryErrors  *prometheus.CounterVec

	// Mirror queue
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueEnqueued      prometheus.Counter
	queueDequeued      prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Mirror writer
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	errorsByComponent *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers every metric on the
// configured registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "elevatos",
		subsystem:        "dashboard",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
		Buckets:     buckets,
	}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every metric
	auto := promauto.With(m.registry)

	m.storeMutations = auto.NewCounterVec(
		m.counterOpts("store_mutations_total", "Store operations by name and result"),
		[]string{"operation", "result"},
	)
	m.feedbackSubmitted = auto.NewCounterVec(
		m.counterOpts("feedback_submitted_total", "Accepted feedback entries by rating"),
		[]string{"rating"},
	)
	m.feedbackReviews = auto.NewGauge(m.gaugeOpts("feedback_reviews", "Total reviews in the feedback aggregate"))
	m.feedbackAverage = auto.NewGauge(m.gaugeOpts("feedback_average_rating", "Average rating in the feedback aggregate"))
	m.projectsTotal = auto.NewGauge(m.gaugeOpts("projects", "Number of tracked projects"))
	m.projectsByStatus = auto.NewGaugeVec(
		m.gaugeOpts("projects_by_status", "Number of projects per lifecycle status"),
		[]string{"status"},
	)

	m.mirrorLoads = auto.NewCounterVec(
		m.counterOpts("mirror_loads_total", "Persisted keys read at startup by outcome (loaded, missing, fallback)"),
		[]string{"key", "outcome"},
	)
	m.mirrorWrites = auto.NewCounterVec(
		m.counterOpts("mirror_writes_total", "Persisted key writes by result"),
		[]string{"key", "result"},
	)
	m.mirrorWriteLatency = auto.NewHistogram(m.histogramOpts(
		"mirror_write_latency_milliseconds", "Latency of one persisted key write", m.histogramBuckets,
	))
	m.mirrorPending = auto.NewGauge(m.gaugeOpts("mirror_pending_keys", "Keys changed but not yet written"))

	m.repositoryLatency = auto.NewHistogramVec(
		m.histogramOpts("repository_latency_milliseconds", "Repository operation latency", m.histogramBuckets),
		[]string{"backend", "operation"},
	)
	m.repositoryErrors = auto.NewCounterVec(
		m.counterOpts("repository_errors_total", "Repository operation errors"),
		[]string{"backend", "operation"},
	)

	m.queueSize = auto.NewGauge(m.gaugeOpts("queue_size", "Current size of the mirror write queue"))
	m.queueCapacity = auto.NewGauge(m.gaugeOpts("queue_capacity", "Maximum mirror write queue capacity"))
	m.queueEnqueued = auto.NewCounter(m.counterOpts("queue_enqueue_total", "Total number of write jobs enqueued"))
	m.queueDequeued = auto.NewCounter(m.counterOpts("queue_dequeue_total", "Total number of write jobs dequeued"))
	m.queueEnqueueErrors = auto.NewCounter(m.counterOpts("queue_enqueue_errors_total", "Total number of rejected write jobs"))

	m.workerProcessingLatency = auto.NewHistogram(m.histogramOpts(
		"worker_processing_latency_milliseconds", "Mirror writer processing latency in milliseconds", m.histogramBuckets,
	))
	m.workerErrors = auto.NewCounter(m.counterOpts("worker_errors_total", "Total number of mirror writer errors"))

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorsByComponent = auto.NewCounterVec(
		m.counterOpts("errors_by_component_total", "Total number of errors by component"),
		[]string{"component", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts(
		"system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	))
}

// RecordStoreMutation counts one store operation.
func (m *Manager) RecordStoreMutation(operation, result string) {
	m.storeMutations.WithLabelValues(operation, result).Inc()
}

// RecordFeedbackSubmitted counts one accepted review.
func (m *Manager) RecordFeedbackSubmitted(rating int) {
	m.feedbackSubmitted.WithLabelValues(strconv.Itoa(rating)).Inc()
}

// UpdateFeedbackStats mirrors the review aggregate.
func (m *Manager) UpdateFeedbackStats(total int, average float64) {
	m.feedbackReviews.Set(float64(total))
	m.feedbackAverage.Set(average)
}

// UpdateProjectsTotal sets the project count.
func (m *Manager) UpdateProjectsTotal(count int) {
	m.projectsTotal.Set(float64(count))
}

// UpdateProjectsByStatus sets the project count for one status.
func (m *Manager) UpdateProjectsByStatus(status string, count int) {
	m.projectsByStatus.WithLabelValues(status).Set(float64(count))
}

// RecordMirrorLoad counts the outcome of reading one persisted key.
func (m *Manager) RecordMirrorLoad(key, outcome string) {
	m.mirrorLoads.WithLabelValues(key, outcome).Inc()
}

// RecordMirrorWrite counts one persisted key write.
func (m *Manager) RecordMirrorWrite(key, result string, latencyMs float64) {
	m.mirrorWrites.WithLabelValues(key, result).Inc()
	m.mirrorWriteLatency.Observe(latencyMs)
}

// UpdateMirrorPending sets the number of keys awaiting a write.
func (m *Manager) UpdateMirrorPending(count int) {
	m.mirrorPending.Set(float64(count))
}

// RecordRepositoryLatency observes one repository operation.
func (m *Manager) RecordRepositoryLatency(backend, operation string, latencyMs float64) {
	m.repositoryLatency.WithLabelValues(backend, operation).Observe(latencyMs)
}

// RecordRepositoryError counts one failed repository operation.
func (m *Manager) RecordRepositoryError(backend, operation string) {
	m.repositoryErrors.WithLabelValues(backend, operation).Inc()
}

// RecordStoreMutation counts one store operation.
func RecordStoreMutation(operation, result string) {
	globalManager.RecordStoreMutation(operation, result)
}

// RecordFeedbackSubmitted counts one accepted review.
func RecordFeedbackSubmitted(rating int) {
	globalManager.RecordFeedbackSubmitted(rating)
}

// UpdateFeedbackStats mirrors the review aggregate.
func UpdateFeedbackStats(total int, average float64) {
	globalManager.UpdateFeedbackStats(total, average)
}

// UpdateProjectsTotal sets the project count.
func UpdateProjectsTotal(count int) {
	globalManager.UpdateProjectsTotal(count)
}

// UpdateProjectsByStatus sets the project count for one status.
func UpdateProjectsByStatus(status string, count int) {
	globalManager.UpdateProjectsByStatus(status, count)
}

// RecordMirrorLoad counts the outcome of reading one persisted key.
func RecordMirrorLoad(key, outcome string) {
	globalManager.RecordMirrorLoad(key, outcome)
}

// RecordMirrorWrite counts one persisted key write.
func RecordMirrorWrite(key, result string, latencyMs float64) {
	globalManager.RecordMirrorWrite(key, result, latencyMs)
}

// UpdateMirrorPending sets the number of keys awaiting a write.
func UpdateMirrorPending(count int) {
	globalManager.UpdateMirrorPending(count)
}

// RecordRepositoryLatency observes one repository operation.
func RecordRepositoryLatency(backend, operation string, latencyMs float64) {
	globalManager.RecordRepositoryLatency(backend, operation, latencyMs)
}

// RecordRepositoryError counts one failed repository operation.
func RecordRepositoryError(backend, operation string) {
	globalManager.RecordRepositoryError(backend, operation)
}

// Queue Metrics Functions.

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
	globalManager.queueEnqueued.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeued.Inc()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// Worker Metrics Functions.

// RecordWorkerProcessingLatency records worker processing latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// System Performance Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
