package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// systemLabels identify one registered rating combination.
var systemLabels = []string{"algorithm", "granularity", "subject"}

// Manager manages all Prometheus metrics for the rating rebuild service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	resultsProcessed *prometheus.CounterVec
	eventsInserted   *prometheus.CounterVec
	rebuildDuration  *prometheus.HistogramVec
	rebuildsTotal    *prometheus.CounterVec
	trackedEntities  *prometheus.GaugeVec
	lastRebuildUnix  *prometheus.GaugeVec
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
		namespace:        "rerate",
		subsystem:        "rebuild",
		histogramBuckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600},
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

	m.resultsProcessed = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "results_processed_total",
			Help:      "Total number of source results replayed into calculators",
		},
		systemLabels,
	)

	m.eventsInserted = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "events_inserted_total",
			Help:      "Total number of rating events written to the store",
		},
		systemLabels,
	)

	m.rebuildDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "duration_seconds",
			Help:      "Rebuild duration in seconds per rating combination",
			Buckets:   m.histogramBuckets,
		},
		systemLabels,
	)

	m.rebuildsTotal = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "runs_total",
			Help:      "Total number of rebuild runs by outcome",
		},
		append(append([]string{}, systemLabels...), "outcome"),
	)

	m.trackedEntities = auto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "tracked_entities",
			Help:      "Distinct rated entities per named system after the last rebuild",
		},
		append(append([]string{}, systemLabels...), "system"),
	)

	m.lastRebuildUnix = auto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "last_run_unix",
			Help:      "Unix timestamp of the last completed rebuild",
		},
		systemLabels,
	)
}

// RecordResultsProcessed adds to the processed results counter.
func RecordResultsProcessed(algorithm, granularity, subject string, n int) {
	globalManager.resultsProcessed.WithLabelValues(algorithm, granularity, subject).Add(float64(n))
}

// RecordEventsInserted adds to the inserted events counter.
func RecordEventsInserted(algorithm, granularity, subject string, n int) {
	globalManager.eventsInserted.WithLabelValues(algorithm, granularity, subject).Add(float64(n))
}

// RecordRebuildDuration records one rebuild's duration in seconds.
func RecordRebuildDuration(algorithm, granularity, subject string, seconds float64) {
	globalManager.rebuildDuration.WithLabelValues(algorithm, granularity, subject).Observe(seconds)
}

// RecordRebuildOutcome increments the run counter for one outcome
// ("success", "failure" or "dry_run").
func RecordRebuildOutcome(algorithm, granularity, subject, outcome string) {
	globalManager.rebuildsTotal.WithLabelValues(algorithm, granularity, subject, outcome).Inc()
}

// UpdateTrackedEntities sets the tracked-entity gauge for one named system.
func UpdateTrackedEntities(algorithm, granularity, subject, system string, count int64) {
	globalManager.trackedEntities.WithLabelValues(algorithm, granularity, subject, system).Set(float64(count))
}

// UpdateLastRebuildUnix sets the last-completed timestamp gauge.
func UpdateLastRebuildUnix(algorithm, granularity, subject string, unix int64) {
	globalManager.lastRebuildUnix.WithLabelValues(algorithm, granularity, subject).Set(float64(unix))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// WriteToFile dumps the current metric state to path in the Prometheus text
// exposition format. One-shot processes use this instead of an HTTP listener;
// the node_exporter textfile collector can pick the file up.
func WriteToFile(path string) error {
	if err := prometheus.WriteToTextfile(path, customRegistry); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteMetrics, path, err)
	}
	return nil
}
