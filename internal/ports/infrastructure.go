package ports

import (
	"context"
	"time"

	"github.com/ahrav/go-radar/internal/domain"
)

// MetricsCollector defines the interface for collecting operational metrics.
// Implementations should integrate with observability platforms like
// Prometheus, OpenTelemetry, or custom monitoring solutions.
type MetricsCollector interface {
	// RecordLatency records the execution time of an operation.
	// The labels map provides additional context for the metric.
	RecordLatency(operation string, duration time.Duration, labels map[string]string)

	// RecordCounter increments a counter metric.
	// This is useful for tracking events like votes processed, revote
	// flags raised, rejected transitions, etc.
	RecordCounter(metric string, value float64, labels map[string]string)

	// RecordGauge sets the current value of a gauge metric.
	// This is useful for tracking values like an event's current round.
	RecordGauge(metric string, value float64, labels map[string]string)

	// RecordHistogram records a value in a histogram.
	// This is useful for tracking distributions like blip counts per
	// calculation.
	RecordHistogram(metric string, value float64, labels map[string]string)
}

// ConfigLoader defines the interface for loading configuration.
// Implementations could read from files, environment variables,
// remote configuration services, or a combination of sources.
type ConfigLoader interface {
	// Load reads configuration from the underlying source.
	// It should populate the provided configuration struct.
	// The config parameter should be a pointer to a struct.
	Load(ctx context.Context, config any) error
}

// RefreshEvent is the process-wide "something changed" signal broadcast
// after vote writes, so interested parties (result views, exports) can
// re-read the affected event.
type RefreshEvent struct {
	// EventID identifies the voting event whose state changed.
	EventID string

	// Reason names the mutation that triggered the refresh, e.g.
	// "votes.submitted" or "blips.calculated".
	Reason string
}

// RefreshPublisher broadcasts refresh notifications to subscribers.
// The publisher is injected into the write path explicitly; there is no
// ambient global hub, and subscribers own their own lifecycle.
type RefreshPublisher interface {
	// Publish broadcasts the refresh signal. Implementations must not
	// block the write path; slow subscribers drop signals rather than
	// stall the engine.
	Publish(ctx context.Context, event RefreshEvent)
}

// NameWarning reports a pair of catalog entries whose names are close
// enough to suggest a duplicate.
type NameWarning struct {
	// Name and Other are the two near-duplicate display names.
	Name  string
	Other string

	// Similarity is the normalized similarity score in [0,1].
	Similarity float64
}

// CatalogAuditor inspects a catalog snapshot for near-duplicate
// technology names before an event adopts it.
type CatalogAuditor interface {
	// Audit returns one warning per suspicious name pair; an empty
	// result means the snapshot looks clean.
	Audit(technologies []domain.Technology) []NameWarning
}
