// Package metrics provides Prometheus metrics for the pickup rating
// and matchmaking service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the pickup service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Rating path
	ratingUpdates     prometheus.Counter
	outcomesRejected  prometheus.Counter
	outcomesDuplicate prometheus.Counter
	ratingDelta       prometheus.Histogram

	// Prediction path
	predictions         prometheus.Counter
	predictionFallbacks *prometheus.CounterVec

	// Balancer
	assignments         *prometheus.CounterVec
	partitionsEvaluated prometheus.Histogram

	// Trainer
	trainerRuns            prometheus.Counter
	trainerErrors          prometheus.Counter
	trainerDuration        prometheus.Histogram
	trainingQueueSize      prometheus.Gauge
	trainingSamplesDropped prometheus.Counter

	// Store
	storeShardCount    prometheus.Gauge
	totalPlayers       prometheus.Gauge
	storeUpdateLatency prometheus.Histogram
	storeQueryLatency  prometheus.Histogram

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "pickup",
		subsystem:        "matchmaking",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
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

	m.ratingUpdates = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rating_updates_total",
		Help:      "Total number of players whose rating was updated",
	})
	m.outcomesRejected = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "outcomes_rejected_total",
		Help:      "Total number of outcomes rejected as invalid",
	})
	m.outcomesDuplicate = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "outcomes_duplicate_total",
		Help:      "Total number of duplicate outcome submissions",
	})
	m.ratingDelta = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rating_delta",
		Help:      "Absolute per-player rating change per update",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
	})

	m.predictions = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "predictions_total",
		Help:      "Total number of win-probability predictions served",
	})
	m.predictionFallbacks = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "prediction_fallbacks_total",
		Help:      "Baseline fallbacks by reason",
	}, []string{"reason"})

	m.assignments = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "team_assignments_total",
		Help:      "Team assignments by search strategy",
	}, []string{"strategy"})
	m.partitionsEvaluated = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "partitions_evaluated",
		Help:      "Partitions evaluated per assignment",
		Buckets:   []float64{1, 3, 10, 50, 126, 250, 500, 1000},
	})

	m.trainerRuns = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "trainer_runs_total",
		Help:      "Successful model retraining runs",
	})
	m.trainerErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "trainer_errors_total",
		Help:      "Failed model retraining runs",
	})
	m.trainerDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "trainer_duration_ms",
		Help:      "Model retraining duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})
	m.trainingQueueSize = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "training_queue_size",
		Help:      "Training samples currently queued",
	})
	m.trainingSamplesDropped = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "training_samples_dropped_total",
		Help:      "Training samples dropped due to backpressure",
	})

	m.storeShardCount = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_shard_count",
		Help:      "Number of shards in the rating store",
	})
	m.totalPlayers = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "total_players",
		Help:      "Players tracked in the rating store",
	})
	m.storeUpdateLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_update_latency_ms",
		Help:      "Rating store update latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})
	m.storeQueryLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_query_latency_ms",
		Help:      "Rating store query latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "HTTP requests by endpoint, method and status",
	}, []string{"endpoint", "method", "status"})
	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status"})

	m.systemMemoryUsage = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_bytes",
		Help:      "Current heap allocation in bytes",
	})
	m.systemGoroutineCount = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutines",
		Help:      "Current number of goroutines",
	})
}

// Rating path metrics.

// RecordRatingUpdates counts players whose rating moved in one update.
func RecordRatingUpdates(count int) {
	globalManager.ratingUpdates.Add(float64(count))
}

// RecordOutcomeRejected counts an invalid outcome.
func RecordOutcomeRejected() {
	globalManager.outcomesRejected.Inc()
}

// RecordOutcomeDuplicate counts a duplicate outcome submission.
func RecordOutcomeDuplicate() {
	globalManager.outcomesDuplicate.Inc()
}

// ObserveRatingDelta records one player's absolute rating change.
func ObserveRatingDelta(delta float64) {
	if delta < 0 {
		delta = -delta
	}
	globalManager.ratingDelta.Observe(delta)
}

// Prediction metrics.

// RecordPrediction counts a served prediction.
func RecordPrediction() {
	globalManager.predictions.Inc()
}

// RecordPredictionFallback counts a baseline fallback by reason.
func RecordPredictionFallback(reason string) {
	globalManager.predictionFallbacks.WithLabelValues(reason).Inc()
}

// Balancer metrics.

// RecordAssignment counts an assignment by search strategy.
func RecordAssignment(strategy string) {
	globalManager.assignments.WithLabelValues(strategy).Inc()
}

// ObservePartitionsEvaluated records search effort per assignment.
func ObservePartitionsEvaluated(n int) {
	globalManager.partitionsEvaluated.Observe(float64(n))
}

// Trainer metrics.

// RecordTrainerRun counts a successful retraining run.
func RecordTrainerRun(durationMs float64) {
	globalManager.trainerRuns.Inc()
	globalManager.trainerDuration.Observe(durationMs)
}

// RecordTrainerError counts a failed retraining run.
func RecordTrainerError() {
	globalManager.trainerErrors.Inc()
}

// UpdateTrainingQueueSize sets the queued-sample gauge.
func UpdateTrainingQueueSize(size int) {
	globalManager.trainingQueueSize.Set(float64(size))
}

// RecordTrainingSampleDropped counts a sample lost to backpressure.
func RecordTrainingSampleDropped() {
	globalManager.trainingSamplesDropped.Inc()
}

// Store metrics.

// UpdateStoreShardCount sets the shard-count gauge.
func UpdateStoreShardCount(count int) {
	globalManager.storeShardCount.Set(float64(count))
}

// UpdateTotalPlayers sets the tracked-player gauge.
func UpdateTotalPlayers(count int) {
	globalManager.totalPlayers.Set(float64(count))
}

// RecordStoreUpdateLatency records a store update duration.
func RecordStoreUpdateLatency(latencyMs float64) {
	globalManager.storeUpdateLatency.Observe(latencyMs)
}

// RecordStoreQueryLatency records a store query duration.
func RecordStoreQueryLatency(latencyMs float64) {
	globalManager.storeQueryLatency.Observe(latencyMs)
}

// HTTP metrics.

// RecordHTTPRequest counts one request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records one request's duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// System metrics.

// UpdateSystemMemoryUsage sets the heap-allocation gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom registry used by the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
