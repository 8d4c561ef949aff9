package middleware

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ahrav/go-radar/internal/domain"
	"github.com/ahrav/go-radar/internal/ports"
)

var (
	_ ports.EventRepository = (*TracedEventRepository)(nil)
	_ ports.VoteRepository  = (*TracedVoteRepository)(nil)
)

// TracedEventRepository wraps an EventRepository with OpenTelemetry
// spans so every store round-trip shows up in distributed traces.
type TracedEventRepository struct {
	next   ports.EventRepository
	tracer trace.Tracer
}

// TraceEventRepository decorates the repository with tracing.
func TraceEventRepository(next ports.EventRepository) *TracedEventRepository {
	return &TracedEventRepository{
		next:   next,
		tracer: otel.Tracer("event-repository"),
	}
}

func (t *TracedEventRepository) span(ctx context.Context, operation, eventID string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "EventRepository."+operation,
		trace.WithAttributes(
			attribute.String("store.collection", "voting_events"),
			attribute.String("store.operation", operation),
			attribute.String("event.id", eventID),
		),
	)
}

func finish(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// FetchByID traces the underlying fetch.
func (t *TracedEventRepository) FetchByID(ctx context.Context, id string) (*domain.VotingEvent, error) {
	ctx, span := t.span(ctx, "FetchByID", id)
	event, err := t.next.FetchByID(ctx, id)
	finish(span, err)
	return event, err
}

// Insert traces the underlying insert.
func (t *TracedEventRepository) Insert(ctx context.Context, event *domain.VotingEvent) error {
	ctx, span := t.span(ctx, "Insert", event.ID)
	err := t.next.Insert(ctx, event)
	finish(span, err)
	return err
}

// Replace traces the underlying whole-document replacement.
func (t *TracedEventRepository) Replace(ctx context.Context, event *domain.VotingEvent) error {
	ctx, span := t.span(ctx, "Replace", event.ID)
	err := t.next.Replace(ctx, event)
	finish(span, err)
	return err
}

// ListAll traces the underlying list.
func (t *TracedEventRepository) ListAll(ctx context.Context) ([]domain.VotingEvent, error) {
	ctx, span := t.span(ctx, "ListAll", "")
	events, err := t.next.ListAll(ctx)
	if err == nil {
		span.SetAttributes(attribute.Int("store.result_count", len(events)))
	}
	finish(span, err)
	return events, err
}

// Delete traces the underlying delete.
func (t *TracedEventRepository) Delete(ctx context.Context, id string) error {
	ctx, span := t.span(ctx, "Delete", id)
	err := t.next.Delete(ctx, id)
	finish(span, err)
	return err
}

// TracedVoteRepository wraps a VoteRepository with OpenTelemetry spans.
type TracedVoteRepository struct {
	next   ports.VoteRepository
	tracer trace.Tracer
}

// TraceVoteRepository decorates the repository with tracing.
func TraceVoteRepository(next ports.VoteRepository) *TracedVoteRepository {
	return &TracedVoteRepository{
		next:   next,
		tracer: otel.Tracer("vote-repository"),
	}
}

func (t *TracedVoteRepository) span(ctx context.Context, operation, eventID string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "VoteRepository."+operation,
		trace.WithAttributes(
			attribute.String("store.collection", "votes"),
			attribute.String("store.operation", operation),
			attribute.String("event.id", eventID),
		),
	)
}

// FetchVotes traces the underlying per-event fetch.
func (t *TracedVoteRepository) FetchVotes(ctx context.Context, eventID string) ([]domain.Vote, error) {
	ctx, span := t.span(ctx, "FetchVotes", eventID)
	votes, err := t.next.FetchVotes(ctx, eventID)
	if err == nil {
		span.SetAttributes(attribute.Int("store.result_count", len(votes)))
	}
	finish(span, err)
	return votes, err
}

// FetchAllVotes traces the underlying cross-event fetch.
func (t *TracedVoteRepository) FetchAllVotes(ctx context.Context) ([]domain.Vote, error) {
	ctx, span := t.span(ctx, "FetchAllVotes", "")
	votes, err := t.next.FetchAllVotes(ctx)
	if err == nil {
		span.SetAttributes(attribute.Int("store.result_count", len(votes)))
	}
	finish(span, err)
	return votes, err
}

// InsertVotes traces the underlying insert.
func (t *TracedVoteRepository) InsertVotes(ctx context.Context, votes []domain.Vote) error {
	eventID := ""
	if len(votes) > 0 {
		eventID = votes[0].EventID
	}
	ctx, span := t.span(ctx, "InsertVotes", eventID)
	span.SetAttributes(attribute.Int("store.write_count", len(votes)))
	err := t.next.InsertVotes(ctx, votes)
	finish(span, err)
	return err
}

// ReplaceVotesForVoter traces the delete-then-reinsert sequence.
func (t *TracedVoteRepository) ReplaceVotesForVoter(ctx context.Context, voter, eventID string, votes []domain.Vote) error {
	ctx, span := t.span(ctx, "ReplaceVotesForVoter", eventID)
	span.SetAttributes(attribute.Int("store.write_count", len(votes)))
	err := t.next.ReplaceVotesForVoter(ctx, voter, eventID, votes)
	finish(span, err)
	return err
}

// SetCancelledByEvent traces the underlying soft-delete update.
func (t *TracedVoteRepository) SetCancelledByEvent(ctx context.Context, eventID string, cancelled bool) error {
	ctx, span := t.span(ctx, "SetCancelledByEvent", eventID)
	span.SetAttributes(attribute.Bool("store.cancelled", cancelled))
	err := t.next.SetCancelledByEvent(ctx, eventID, cancelled)
	finish(span, err)
	return err
}

// DeleteByEvent traces the underlying hard delete.
func (t *TracedVoteRepository) DeleteByEvent(ctx context.Context, eventID string) error {
	ctx, span := t.span(ctx, "DeleteByEvent", eventID)
	err := t.next.DeleteByEvent(ctx, eventID)
	finish(span, err)
	return err
}
