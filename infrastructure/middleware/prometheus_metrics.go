// Package middleware provides cross-cutting concerns for the radar
// engine: Prometheus metrics, distributed tracing, and per-call
// time-boxing of external-store operations.
package middleware

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ahrav/go-radar/internal/ports"
)

var _ ports.MetricsCollector = (*PrometheusMetrics)(nil)

// PrometheusMetrics implements the MetricsCollector interface using
// Prometheus. It provides real-time monitoring of vote throughput,
// blip calculations, revote pressure, and lifecycle transitions.
type PrometheusMetrics struct {
	votesProcessed   *prometheus.CounterVec
	blipsComputed    *prometheus.CounterVec
	revoteFlagged    prometheus.Counter
	transitions      *prometheus.CounterVec
	operationLatency *prometheus.HistogramVec
	eventRound       *prometheus.GaugeVec
	valueHistograms  *prometheus.HistogramVec
}

// NewPrometheusMetrics creates a new PrometheusMetrics instance and
// registers all required metrics in the global Prometheus registry.
func NewPrometheusMetrics() *PrometheusMetrics {
	return &PrometheusMetrics{
		votesProcessed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "radar_votes_processed_total",
				Help: "Total number of votes accepted by the engine.",
			},
			[]string{"event_id"},
		),
		blipsComputed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "radar_blips_computed_total",
				Help: "Total number of blips synthesized, by aggregation scope.",
			},
			[]string{"scope"},
		),
		revoteFlagged: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "radar_revote_flagged_total",
				Help: "Total number of blips flagged as too close to call.",
			},
		),
		transitions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "radar_transitions_total",
				Help: "Total number of event lifecycle transitions, by transition and status.",
			},
			[]string{"transition", "status"},
		),
		operationLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "radar_operation_duration_seconds",
				Help:    "Execution time of engine operations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		eventRound: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "radar_event_round",
				Help: "Current round of a voting event.",
			},
			[]string{"event_id"},
		),
		valueHistograms: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "radar_value_distribution",
				Help:    "Distributions of engine values such as blip counts per calculation.",
				Buckets: prometheus.ExponentialBuckets(1, 2, 10),
			},
			[]string{"metric"},
		),
	}
}

// RecordLatency implements the MetricsCollector interface by recording
// operation latency in a Prometheus histogram.
func (pm *PrometheusMetrics) RecordLatency(
	operation string,
	duration time.Duration,
	labels map[string]string,
) {
	pm.operationLatency.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordCounter implements the MetricsCollector interface by
// incrementing Prometheus counters.
func (pm *PrometheusMetrics) RecordCounter(
	metric string, value float64, labels map[string]string,
) {
	switch metric {
	case "radar_votes_processed_total":
		pm.votesProcessed.WithLabelValues(labels["event_id"]).Add(value)
	case "radar_blips_computed_total":
		scope, ok := labels["scope"]
		if !ok {
			scope = "unknown"
		}
		pm.blipsComputed.WithLabelValues(scope).Add(value)
	case "radar_revote_flagged_total":
		pm.revoteFlagged.Add(value)
	case "radar_transitions_total":
		pm.transitions.WithLabelValues(labels["transition"], "accepted").Add(value)
	case "radar_stale_transitions_total":
		pm.transitions.WithLabelValues(labels["transition"], "stale").Add(value)
	case "radar_permission_denied_total":
		pm.transitions.WithLabelValues("any", "denied").Add(value)
	default:
		pm.transitions.WithLabelValues(metric, "success").Add(value)
	}
}

// RecordGauge implements the MetricsCollector interface by setting
// Prometheus gauge values.
func (pm *PrometheusMetrics) RecordGauge(
	metric string, value float64, labels map[string]string,
) {
	if metric == "radar_event_round" {
		pm.eventRound.WithLabelValues(labels["event_id"]).Set(value)
	}
}

// RecordHistogram implements the MetricsCollector interface by
// observing values in a Prometheus histogram.
func (pm *PrometheusMetrics) RecordHistogram(
	metric string, value float64, labels map[string]string,
) {
	pm.valueHistograms.WithLabelValues(metric).Observe(value)
}
