// Package metrics exposes Prometheus instrumentation for the prediction
// service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prediction outcomes recorded by RecordPrediction.
const (
	OutcomeCreated  = "created"
	OutcomeExisting = "existing"
	OutcomeFailed   = "failed"
)

// Ingestion results recorded by RecordIngestedPlayer.
const (
	IngestCreated = "created"
	IngestUpdated = "updated"
	IngestSkipped = "skipped"
	IngestFailed  = "failed"
)

// Manager owns every collector of the service on a private registry.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         *prometheus.Registry

	predictions         *prometheus.CounterVec
	predictionDuration  prometheus.Histogram
	batchWorkers        prometheus.Gauge
	batchLastSize       *prometheus.GaugeVec
	ingestedPlayers     *prometheus.CounterVec
	upstreamErrors      *prometheus.CounterVec
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// NewManager creates a metrics manager. Without WithRegistry a fresh
// registry carrying the Go and process collectors is used.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "fantasyedge",
		subsystem:        "",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.predictions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "predictions_total",
		Help:      "Generate-or-fetch calls by outcome",
	}, []string{"outcome"})

	m.predictionDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "prediction_duration_seconds",
		Help:      "Time spent generating one prediction, including store access",
		Buckets:   m.histogramBuckets,
	})

	m.batchWorkers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "batch_workers",
		Help:      "Worker limit used by the most recent generate-all run",
	})

	m.batchLastSize = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "batch_last_size",
		Help:      "Records handled by the most recent batch run",
	}, []string{"kind"})

	m.ingestedPlayers = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ingested_players_total",
		Help:      "Roster records processed by ingestion, by result",
	}, []string{"result"})

	m.upstreamErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "upstream_errors_total",
		Help:      "Failed calls to external data sources",
	}, []string{"source"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "HTTP requests by route, method and status",
	}, []string{"route", "method", "status"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route and method",
		Buckets:   m.histogramBuckets,
	}, []string{"route", "method"})
}

// Registry returns the registry backing the manager.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the manager's registry in the Prometheus text format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Manager) on() bool {
	return m != nil && m.enabled
}

// RecordPrediction counts one generate-or-fetch outcome and its latency.
func (m *Manager) RecordPrediction(outcome string, d time.Duration) {
	if !m.on() {
		return
	}
	m.predictions.WithLabelValues(outcome).Inc()
	m.predictionDuration.Observe(d.Seconds())
}

// SetBatchWorkers records the worker limit of a generate-all run.
func (m *Manager) SetBatchWorkers(n int) {
	if !m.on() {
		return
	}
	m.batchWorkers.Set(float64(n))
}

// SetBatchSize records how many records the last run of kind handled.
func (m *Manager) SetBatchSize(kind string, n int) {
	if !m.on() {
		return
	}
	m.batchLastSize.WithLabelValues(kind).Set(float64(n))
}

// RecordIngestedPlayer counts one roster record by result.
func (m *Manager) RecordIngestedPlayer(result string) {
	if !m.on() {
		return
	}
	m.ingestedPlayers.WithLabelValues(result).Inc()
}

// RecordUpstreamError counts a failed call to source.
func (m *Manager) RecordUpstreamError(source string) {
	if !m.on() {
		return
	}
	m.upstreamErrors.WithLabelValues(source).Inc()
}

// RecordHTTPRequest counts a served request and observes its latency.
func (m *Manager) RecordHTTPRequest(route, method string, status int, d time.Duration) {
	if !m.on() {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(route, method).Observe(d.Seconds())
}
