// Package metrics provides Prometheus metrics for the aporte points service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the aporte service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Core Business Metrics
	contributionsRecorded prometheus.Counter
	pointsAwarded         prometheus.Counter
	bonusAwards           prometheus.Counter
	periodCloses          prometheus.Counter
	duplicateCloseSkips   prometheus.Counter
	standingsQueries      prometheus.Counter
	historyQueries        prometheus.Counter

	// Storage Health Metrics
	storageReadErrors  prometheus.Counter
	storageWriteErrors prometheus.Counter

	// State Gauges
	participants  prometheus.Gauge
	archivedCount prometheus.Gauge

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Transport Metrics
	telegramUpdates      prometheus.Counter
	telegramDrops        prometheus.Counter
	telegramSendFailures prometheus.Counter
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
		namespace:        "aporte",
		subsystem:        "points",
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

	m.contributionsRecorded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "contributions_recorded_total",
		Help:      "Total number of contributions recorded into the open period",
	})

	m.pointsAwarded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "points_awarded_total",
		Help:      "Total points awarded across all contributions",
	})

	m.bonusAwards = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "bonus_awards_total",
		Help:      "Total number of contributions that earned the resolution bonus",
	})

	m.periodCloses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "period_closes_total",
		Help:      "Total number of periods archived and reset",
	})

	m.duplicateCloseSkips = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "duplicate_close_skips_total",
		Help:      "Total number of close attempts skipped by the idempotency guard",
	})

	m.standingsQueries = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "standings_queries_total",
		Help:      "Total number of current standings queries served",
	})

	m.historyQueries = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "history_queries_total",
		Help:      "Total number of historical standings queries served",
	})

	m.storageReadErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "storage_read_errors_total",
		Help:      "Total number of backing document reads that degraded to empty state",
	})

	m.storageWriteErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "storage_write_errors_total",
		Help:      "Total number of failed persistence writes",
	})

	m.participants = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "participants",
		Help:      "Number of users with points in the open period",
	})

	m.archivedCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "archived_periods",
		Help:      "Number of closed periods in the archive",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total HTTP requests by endpoint, method, and status code",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "Histogram of HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.telegramUpdates = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "telegram_updates_total",
		Help:      "Total telegram updates received by the poller",
	})

	m.telegramDrops = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "telegram_updates_dropped_total",
		Help:      "Total telegram updates dropped due to queue backpressure",
	})

	m.telegramSendFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "telegram_send_failures_total",
		Help:      "Total failed attempts to send a telegram reply",
	})
}

// RecordContribution increments the contributions counter and adds the award.
func RecordContribution(points int, bonus bool) {
	globalManager.contributionsRecorded.Inc()
	globalManager.pointsAwarded.Add(float64(points))
	if bonus {
		globalManager.bonusAwards.Inc()
	}
}

// RecordPeriodClose increments the period close counter.
func RecordPeriodClose() {
	globalManager.periodCloses.Inc()
}

// RecordDuplicateCloseSkip increments the duplicate close skip counter.
func RecordDuplicateCloseSkip() {
	globalManager.duplicateCloseSkips.Inc()
}

// RecordStandingsQuery increments the standings query counter.
func RecordStandingsQuery() {
	globalManager.standingsQueries.Inc()
}

// RecordHistoryQuery increments the history query counter.
func RecordHistoryQuery() {
	globalManager.historyQueries.Inc()
}

// RecordStorageReadError increments the storage read error counter.
func RecordStorageReadError() {
	globalManager.storageReadErrors.Inc()
}

// RecordStorageWriteError increments the storage write error counter.
func RecordStorageWriteError() {
	globalManager.storageWriteErrors.Inc()
}

// UpdateParticipants sets the open period participant gauge.
func UpdateParticipants(count int) {
	globalManager.participants.Set(float64(count))
}

// UpdateArchivedPeriods sets the archived period gauge.
func UpdateArchivedPeriods(count int) {
	globalManager.archivedCount.Set(float64(count))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordTelegramUpdate increments the telegram update counter.
func RecordTelegramUpdate() {
	globalManager.telegramUpdates.Inc()
}

// RecordTelegramDrop increments the telegram drop counter.
func RecordTelegramDrop() {
	globalManager.telegramDrops.Inc()
}

// RecordTelegramSendFailure increments the telegram send failure counter.
func RecordTelegramSendFailure() {
	globalManager.telegramSendFailures.Inc()
}

// GetRegistry returns the custom registry for serving /healthz.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
