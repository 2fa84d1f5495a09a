// Package metrics provides Prometheus metrics for the mission service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Core business metrics
	tasksSubmitted   *prometheus.CounterVec
	tasksRejected    *prometheus.CounterVec
	pointsAwarded    prometheus.Counter
	staleSubmissions prometheus.Counter
	ownerChanges     prometheus.Counter
	triggerSpawned   prometheus.Counter
	triggerFailed    prometheus.Counter

	// Reconciliation metrics
	scoreUpdatesQueued     prometheus.Counter
	scoreUpdatesReconciled prometheus.Counter
	scoreUpdatesDropped    prometheus.Counter
	retryQueueSize         prometheus.Gauge
	reconcilerCount        prometheus.Gauge

	// Store metrics
	storeShardCount    prometheus.Gauge
	storeRecordsAdded  *prometheus.CounterVec
	storeUpdateLatency prometheus.Histogram
	storeQueryLatency  prometheus.Histogram

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "veganaut",
		subsystem:        "missions",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.tasksSubmitted = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "tasks_submitted_total",
		Help:      "Tasks accepted by the submission pipeline, by type.",
	}, []string{"type"})
	m.tasksRejected = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "tasks_rejected_total",
		Help:      "Submissions rejected by the pipeline, by reason.",
	}, []string{"reason"})
	m.pointsAwarded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "points_awarded_total",
		Help:      "Total points credited to teams.",
	})
	m.staleSubmissions = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "stale_submissions_total",
		Help:      "Repeat submissions inside the staleness window, recorded at zero points.",
	})
	m.ownerChanges = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "owner_changes_total",
		Help:      "Entity ownership changes caused by awards.",
	})
	m.triggerSpawned = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "trigger_spawned_total",
		Help:      "Derived tasks successfully spawned by trigger rules.",
	})
	m.triggerFailed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "trigger_failed_total",
		Help:      "Derived-task spawns that failed; the parent task stands.",
	})

	m.scoreUpdatesQueued = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "score_updates_queued_total",
		Help:      "Score updates deferred to the reconciler.",
	})
	m.scoreUpdatesReconciled = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "score_updates_reconciled_total",
		Help:      "Deferred score updates applied by the reconciler.",
	})
	m.scoreUpdatesDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "score_updates_dropped_total",
		Help:      "Deferred score updates abandoned after exhausting retries.",
	})
	m.retryQueueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "retry_queue_size",
		Help:      "Pending deferred score updates.",
	})
	m.reconcilerCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "reconciler_count",
		Help:      "Running reconciler workers.",
	})

	m.storeShardCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_shard_count",
		Help:      "Entity shards in the in-memory store.",
	})
	m.storeRecordsAdded = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_records_added_total",
		Help:      "Records added to the store, by kind.",
	}, []string{"kind"})
	m.storeUpdateLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_update_latency_ms",
		Help:      "Store write latency in milliseconds.",
		Buckets:   m.histogramBuckets,
	})
	m.storeQueryLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_query_latency_ms",
		Help:      "Store read latency in milliseconds.",
		Buckets:   m.histogramBuckets,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "HTTP requests, by endpoint, method and status.",
	}, []string{"endpoint", "method", "status"})
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request duration in milliseconds.",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status"})
}

// RecordTaskSubmitted increments the accepted-task counter for a type.
func RecordTaskSubmitted(taskType string) {
	globalManager.tasksSubmitted.WithLabelValues(taskType).Inc()
}

// RecordTaskRejected increments the rejected-submission counter.
func RecordTaskRejected(reason string) {
	globalManager.tasksRejected.WithLabelValues(reason).Inc()
}

// RecordPointsAwarded adds to the points counter.
func RecordPointsAwarded(points float64) {
	globalManager.pointsAwarded.Add(points)
}

// RecordStaleSubmission increments the stale-submission counter.
func RecordStaleSubmission() {
	globalManager.staleSubmissions.Inc()
}

// RecordOwnerChange increments the ownership-change counter.
func RecordOwnerChange() {
	globalManager.ownerChanges.Inc()
}

// RecordTriggerSpawned increments the spawned-trigger counter.
func RecordTriggerSpawned() {
	globalManager.triggerSpawned.Inc()
}

// RecordTriggerFailed increments the failed-trigger counter.
func RecordTriggerFailed() {
	globalManager.triggerFailed.Inc()
}

// RecordScoreUpdateQueued increments the deferred-update counter.
func RecordScoreUpdateQueued() {
	globalManager.scoreUpdatesQueued.Inc()
}

// RecordScoreUpdateReconciled increments the reconciled-update counter.
func RecordScoreUpdateReconciled() {
	globalManager.scoreUpdatesReconciled.Inc()
}

// RecordScoreUpdateDropped increments the dropped-update counter.
func RecordScoreUpdateDropped() {
	globalManager.scoreUpdatesDropped.Inc()
}

// UpdateRetryQueueSize sets the pending deferred-update gauge.
func UpdateRetryQueueSize(size int) {
	globalManager.retryQueueSize.Set(float64(size))
}

// UpdateReconcilerCount sets the reconciler worker gauge.
func UpdateReconcilerCount(count int) {
	globalManager.reconcilerCount.Set(float64(count))
}

// UpdateStoreShardCount sets the store shard gauge.
func UpdateStoreShardCount(count int) {
	globalManager.storeShardCount.Set(float64(count))
}

// RecordStoreRecordAdded increments the store record counter for a kind.
func RecordStoreRecordAdded(kind string) {
	globalManager.storeRecordsAdded.WithLabelValues(kind).Inc()
}

// RecordStoreUpdateLatency records store write latency in milliseconds.
func RecordStoreUpdateLatency(latencyMs float64) {
	globalManager.storeUpdateLatency.Observe(latencyMs)
}

// RecordStoreQueryLatency records store read latency in milliseconds.
func RecordStoreQueryLatency(latencyMs float64) {
	globalManager.storeQueryLatency.Observe(latencyMs)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, status string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(durationMs)
}

// GetRegistry returns the custom Prometheus registry for serving /metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
