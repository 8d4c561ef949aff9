package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ahrav/go-radar/internal/domain"
	"github.com/ahrav/go-radar/internal/ports"
)

// CreateEvent accepts a new voting event. Events are created closed
// with no round; the creator becomes the event's first administrator.
func (s *RadarService) CreateEvent(ctx context.Context, name string) (*domain.VotingEvent, error) {
	identity, err := s.identity.Identity(ctx)
	if err != nil || identity == "" {
		return nil, fmt.Errorf("%w: no caller identity", ErrPermissionDenied)
	}
	if name == "" {
		verr := domain.NewValidationError("event")
		verr.AddError("event name is required")
		return nil, verr
	}

	event := domain.NewVotingEvent(uuid.NewString(), name, []string{identity})
	if err := s.events.Insert(ctx, event); err != nil {
		return nil, fmt.Errorf("inserting event: %w", err)
	}

	s.logger.Info("created voting event", zap.String("event_id", event.ID), zap.String("name", name))
	return event, nil
}

// OpenEvent opens the event for its current round. The first open
// initializes the round counter and snapshots the active technology
// catalog into the event; later opens re-snapshot nothing. When a
// catalog auditor is configured, near-duplicate technology names in a
// fresh snapshot are logged as warnings.
func (s *RadarService) OpenEvent(ctx context.Context, eventID string) (*domain.VotingEvent, error) {
	return s.transition(ctx, eventID, "open", func(event *domain.VotingEvent) error {
		var catalog []domain.Technology
		if len(event.Technologies) == 0 {
			fetched, err := s.catalog.FetchActive(ctx)
			if err != nil {
				return fmt.Errorf("fetching technology catalog: %w", err)
			}
			catalog = fetched

			if s.auditor != nil {
				for _, warning := range s.auditor.Audit(catalog) {
					s.logger.Warn("catalog snapshot contains near-duplicate technology names",
						zap.String("event_id", event.ID),
						zap.String("name", warning.Name),
						zap.String("other", warning.Other),
						zap.Float64("similarity", warning.Similarity))
				}
			}
		}

		event.Open(catalog, time.Now())
		s.metrics.RecordGauge("radar_event_round", float64(event.Round), map[string]string{"event_id": event.ID})
		return nil
	})
}

// CloseEvent closes the event, leaving votes and round untouched.
func (s *RadarService) CloseEvent(ctx context.Context, eventID string) (*domain.VotingEvent, error) {
	return s.transition(ctx, eventID, "close", func(event *domain.VotingEvent) error {
		event.Close(time.Now())
		return nil
	})
}

// OpenForRevote starts a revote cycle. The supplied round must equal
// the event's current round; a stale round fails the transition
// without mutating state, so two administrators acting concurrently
// cannot both advance the round.
func (s *RadarService) OpenForRevote(ctx context.Context, eventID string, round int) (*domain.VotingEvent, error) {
	return s.transition(ctx, eventID, "openForRevote", func(event *domain.VotingEvent) error {
		if err := event.OpenRevote(round); err != nil {
			s.metrics.RecordCounter("radar_stale_transitions_total", 1, map[string]string{"transition": "openForRevote"})
			return err
		}
		s.metrics.RecordGauge("radar_event_round", float64(event.Round), map[string]string{"event_id": event.ID})
		return nil
	})
}

// CloseForRevote ends the revote pass unconditionally; no round check
// applies.
func (s *RadarService) CloseForRevote(ctx context.Context, eventID string) (*domain.VotingEvent, error) {
	return s.transition(ctx, eventID, "closeForRevote", func(event *domain.VotingEvent) error {
		event.CloseRevote()
		return nil
	})
}

// MoveToNextFlowStep recomputes every technology's voting result from
// the current vote set, grouped by ring and by tag, then increments
// the round. The recomputation always derives from the current votes,
// never accumulating across calls.
func (s *RadarService) MoveToNextFlowStep(ctx context.Context, eventID string) (*domain.VotingEvent, error) {
	event, votes, err := s.fetchEventAndVotes(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, event); err != nil {
		return nil, err
	}

	event.AdvanceFlowStep(votes)
	if err := s.events.Replace(ctx, event); err != nil {
		return nil, fmt.Errorf("replacing event %s: %w", eventID, err)
	}

	s.metrics.RecordGauge("radar_event_round", float64(event.Round), map[string]string{"event_id": event.ID})
	s.publisher.Publish(ctx, ports.RefreshEvent{EventID: event.ID, Reason: "flowstep.advanced"})
	s.logger.Info("advanced flow step", zap.String("event_id", event.ID), zap.Int("round", event.Round))
	return event, nil
}

// CancelEvent soft-deletes the event and all of its votes. The flag is
// reversible via UndoCancelEvent.
func (s *RadarService) CancelEvent(ctx context.Context, eventID string) (*domain.VotingEvent, error) {
	return s.setCancelled(ctx, eventID, true)
}

// UndoCancelEvent clears the soft-delete flag on the event and its
// votes.
func (s *RadarService) UndoCancelEvent(ctx context.Context, eventID string) (*domain.VotingEvent, error) {
	return s.setCancelled(ctx, eventID, false)
}

func (s *RadarService) setCancelled(ctx context.Context, eventID string, cancelled bool) (*domain.VotingEvent, error) {
	name := "undoCancel"
	if cancelled {
		name = "cancel"
	}
	event, err := s.transition(ctx, eventID, name, func(event *domain.VotingEvent) error {
		event.Cancelled = cancelled
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.votes.SetCancelledByEvent(ctx, eventID, cancelled); err != nil {
		return nil, fmt.Errorf("updating cancelled flag on votes for event %s: %w", eventID, err)
	}
	return event, nil
}

// DeleteEvent permanently removes the event and its votes. Unlike
// CancelEvent this is not reversible.
func (s *RadarService) DeleteEvent(ctx context.Context, eventID string) error {
	event, err := s.events.FetchByID(ctx, eventID)
	if err != nil {
		return fmt.Errorf("fetching event %s: %w", eventID, err)
	}
	if err := s.authorize(ctx, event); err != nil {
		return err
	}

	if err := s.events.Delete(ctx, eventID); err != nil {
		return fmt.Errorf("deleting event %s: %w", eventID, err)
	}
	if err := s.votes.DeleteByEvent(ctx, eventID); err != nil {
		return fmt.Errorf("deleting votes for event %s: %w", eventID, err)
	}

	s.logger.Info("deleted voting event", zap.String("event_id", eventID))
	return nil
}

// transition is the common shape of a guarded event mutation: fetch,
// authorize, mutate, replace. The permission check always runs before
// the mutation; a rejected mutation writes nothing.
func (s *RadarService) transition(ctx context.Context, eventID, name string, mutate func(*domain.VotingEvent) error) (*domain.VotingEvent, error) {
	if eventID == "" {
		verr := domain.NewValidationError("event")
		verr.AddError("event id is required")
		return nil, verr
	}

	event, err := s.events.FetchByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("fetching event %s: %w", eventID, err)
	}
	if err := s.authorize(ctx, event); err != nil {
		return nil, err
	}

	if err := mutate(event); err != nil {
		return nil, err
	}

	if err := s.events.Replace(ctx, event); err != nil {
		return nil, fmt.Errorf("replacing event %s: %w", eventID, err)
	}

	s.metrics.RecordCounter("radar_transitions_total", 1, map[string]string{"transition": name})
	s.logger.Info("event transition", zap.String("event_id", eventID), zap.String("transition", name))
	return event, nil
}
