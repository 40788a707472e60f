// Package metrics provides Prometheus metrics for the gradeparse service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager holds every Prometheus collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Extraction
	linesScanned      prometheus.Counter
	linesRejected     *prometheus.CounterVec
	coursesExtracted  *prometheus.CounterVec
	extractLatency    *prometheus.HistogramVec
	extractFallbacks  prometheus.Counter
	remoteLatency     prometheus.Histogram
	remoteErrors      *prometheus.CounterVec
	remoteCacheHits   prometheus.Counter
	importsDuplicate  prometheus.Counter
	storedCourses     prometheus.Gauge
	storeLatency      *prometheus.HistogramVec

	// Queue
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueEnqueued      prometheus.Counter
	queueDequeued      prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Workers and jobs
	workerCount             prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	jobsFinished            *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec

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

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "gradeparse",
		subsystem:        "service",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets,
	})
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: m.histogramBuckets,
	}, labels)
}

func (m *Manager) initializeMetrics() {
	m.linesScanned = m.counter("lines_scanned_total", "Total number of cleaned input lines examined by the parser")
	m.linesRejected = m.counterVec("lines_rejected_total", "Total number of lines that yielded no course, by reason", "reason")
	m.coursesExtracted = m.counterVec("courses_extracted_total", "Total number of courses extracted, by source", "source")
	m.extractLatency = m.histogramVec("extract_latency_milliseconds", "Extraction latency in milliseconds, by source", "source")
	m.extractFallbacks = m.counter("extract_fallbacks_total", "Total number of remote extractions that fell back to the local parser")
	m.remoteLatency = m.histogram("remote_latency_milliseconds", "Remote extraction service latency in milliseconds", m.histogramBuckets)
	m.remoteErrors = m.counterVec("remote_errors_total", "Total number of remote extraction failures, by kind", "kind")
	m.remoteCacheHits = m.counter("remote_cache_hits_total", "Total number of remote extractions served from cache")
	m.importsDuplicate = m.counter("imports_duplicate_total", "Total number of imports skipped by idempotency key")
	m.storedCourses = m.gauge("stored_courses", "Current number of stored courses")
	m.storeLatency = m.histogramVec("store_latency_milliseconds", "Course store operation latency in milliseconds", "operation")

	m.queueSize = m.gauge("queue_size", "Current number of pending import jobs")
	m.queueCapacity = m.gauge("queue_capacity", "Maximum number of pending import jobs")
	m.queueEnqueued = m.counter("queue_enqueued_total", "Total number of import jobs enqueued")
	m.queueDequeued = m.counter("queue_dequeued_total", "Total number of import jobs dequeued")
	m.queueEnqueueErrors = m.counter("queue_enqueue_errors_total", "Total number of import jobs rejected by a full or closed queue")

	m.workerCount = m.gauge("worker_count", "Current number of import workers")
	m.workerProcessingLatency = m.histogram("worker_processing_latency_milliseconds", "Time to extract and store one import job", m.histogramBuckets)
	m.jobsFinished = m.counterVec("jobs_finished_total", "Total number of finished import jobs, by outcome", "outcome")

	m.httpRequests = m.counterVec("http_requests_total", "Total number of HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds", "HTTP request duration in milliseconds", "endpoint", "method", "status_code")
	m.httpErrors = m.counterVec("http_errors_total", "Total number of HTTP error responses", "endpoint", "method", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "System memory usage in bytes")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000})
}

// RecordLinesScanned adds n examined lines.
func RecordLinesScanned(n int) {
	globalManager.linesScanned.Add(float64(n))
}

// RecordLineRejected increments the rejected lines counter for reason.
func RecordLineRejected(reason string) {
	globalManager.linesRejected.WithLabelValues(reason).Inc()
}

// RecordCoursesExtracted adds n courses produced by source.
func RecordCoursesExtracted(source string, n int) {
	globalManager.coursesExtracted.WithLabelValues(source).Add(float64(n))
}

// RecordExtractLatency records extraction latency in milliseconds.
func RecordExtractLatency(source string, latencyMs float64) {
	globalManager.extractLatency.WithLabelValues(source).Observe(latencyMs)
}

// RecordExtractFallback increments the fallback counter.
func RecordExtractFallback() {
	globalManager.extractFallbacks.Inc()
}

// RecordRemoteLatency records remote service latency in milliseconds.
func RecordRemoteLatency(latencyMs float64) {
	globalManager.remoteLatency.Observe(latencyMs)
}

// RecordRemoteError increments the remote error counter for kind.
func RecordRemoteError(kind string) {
	globalManager.remoteErrors.WithLabelValues(kind).Inc()
}

// RecordRemoteCacheHit increments the remote cache hit counter.
func RecordRemoteCacheHit() {
	globalManager.remoteCacheHits.Inc()
}

// RecordImportDuplicate increments the duplicate imports counter.
func RecordImportDuplicate() {
	globalManager.importsDuplicate.Inc()
}

// UpdateStoredCourses sets the stored courses gauge.
func UpdateStoredCourses(count int) {
	globalManager.storedCourses.Set(float64(count))
}

// RecordStoreLatency records store operation latency in milliseconds.
func RecordStoreLatency(operation string, latencyMs float64) {
	globalManager.storeLatency.WithLabelValues(operation).Observe(latencyMs)
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

// UpdateWorkerCount sets the current worker count.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// RecordWorkerProcessingLatency records worker processing latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordJobFinished increments the finished jobs counter for outcome.
func RecordJobFinished(outcome string) {
	globalManager.jobsFinished.WithLabelValues(outcome).Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordHTTPError records an error response with endpoint, method and error type labels.
func RecordHTTPError(endpoint, method, errorType string) {
	globalManager.httpErrors.WithLabelValues(endpoint, method, errorType).Inc()
}

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
