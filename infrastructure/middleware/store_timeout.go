package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/ahrav/go-radar/internal/domain"
	"github.com/ahrav/go-radar/internal/ports"
)

var (
	_ ports.EventRepository = (*TimeoutEventRepository)(nil)
	_ ports.VoteRepository  = (*TimeoutVoteRepository)(nil)
)

// TimeoutEventRepository time-boxes every call to the wrapped
// repository. On expiry the call fails with ports.ErrTimeout and the
// engine applies no partial update, keeping writes all-or-nothing.
type TimeoutEventRepository struct {
	next    ports.EventRepository
	timeout time.Duration
}

// TimeoutEvents decorates the repository with a per-call timeout.
// A zero timeout passes calls through unchanged.
func TimeoutEvents(next ports.EventRepository, timeout time.Duration) *TimeoutEventRepository {
	return &TimeoutEventRepository{next: next, timeout: timeout}
}

func (t *TimeoutEventRepository) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if t.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, t.timeout)
}

// mapTimeout converts a context deadline failure into the port's
// timeout error so callers need not inspect context internals.
func mapTimeout(collection, operation string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ports.NewStoreError(collection, operation, ports.ErrTimeout)
	}
	return err
}

// FetchByID fetches with a deadline.
func (t *TimeoutEventRepository) FetchByID(ctx context.Context, id string) (*domain.VotingEvent, error) {
	ctx, cancel := t.bound(ctx)
	defer cancel()
	event, err := t.next.FetchByID(ctx, id)
	return event, mapTimeout("voting_events", "FetchByID", err)
}

// Insert inserts with a deadline.
func (t *TimeoutEventRepository) Insert(ctx context.Context, event *domain.VotingEvent) error {
	ctx, cancel := t.bound(ctx)
	defer cancel()
	return mapTimeout("voting_events", "Insert", t.next.Insert(ctx, event))
}

// Replace replaces with a deadline.
func (t *TimeoutEventRepository) Replace(ctx context.Context, event *domain.VotingEvent) error {
	ctx, cancel := t.bound(ctx)
	defer cancel()
	return mapTimeout("voting_events", "Replace", t.next.Replace(ctx, event))
}

// ListAll lists with a deadline.
func (t *TimeoutEventRepository) ListAll(ctx context.Context) ([]domain.VotingEvent, error) {
	ctx, cancel := t.bound(ctx)
	defer cancel()
	events, err := t.next.ListAll(ctx)
	return events, mapTimeout("voting_events", "ListAll", err)
}

// Delete deletes with a deadline.
func (t *TimeoutEventRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := t.bound(ctx)
	defer cancel()
	return mapTimeout("voting_events", "Delete", t.next.Delete(ctx, id))
}

// TimeoutVoteRepository time-boxes every call to the wrapped vote
// repository, surfacing expiry as ports.ErrTimeout.
type TimeoutVoteRepository struct {
	next    ports.VoteRepository
	timeout time.Duration
}

// TimeoutVotes decorates the repository with a per-call timeout.
// A zero timeout passes calls through unchanged.
func TimeoutVotes(next ports.VoteRepository, timeout time.Duration) *TimeoutVoteRepository {
	return &TimeoutVoteRepository{next: next, timeout: timeout}
}

func (t *TimeoutVoteRepository) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if t.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, t.timeout)
}

// FetchVotes fetches with a deadline.
func (t *TimeoutVoteRepository) FetchVotes(ctx context.Context, eventID string) ([]domain.Vote, error) {
	ctx, cancel := t.bound(ctx)
	defer cancel()
	votes, err := t.next.FetchVotes(ctx, eventID)
	return votes, mapTimeout("votes", "FetchVotes", err)
}

// FetchAllVotes fetches with a deadline.
func (t *TimeoutVoteRepository) FetchAllVotes(ctx context.Context) ([]domain.Vote, error) {
	ctx, cancel := t.bound(ctx)
	defer cancel()
	votes, err := t.next.FetchAllVotes(ctx)
	return votes, mapTimeout("votes", "FetchAllVotes", err)
}

// InsertVotes inserts with a deadline.
func (t *TimeoutVoteRepository) InsertVotes(ctx context.Context, votes []domain.Vote) error {
	ctx, cancel := t.bound(ctx)
	defer cancel()
	return mapTimeout("votes", "InsertVotes", t.next.InsertVotes(ctx, votes))
}

// ReplaceVotesForVoter replaces with a deadline covering both steps of
// the delete-then-reinsert sequence.
func (t *TimeoutVoteRepository) ReplaceVotesForVoter(ctx context.Context, voter, eventID string, votes []domain.Vote) error {
	ctx, cancel := t.bound(ctx)
	defer cancel()
	return mapTimeout("votes", "ReplaceVotesForVoter", t.next.ReplaceVotesForVoter(ctx, voter, eventID, votes))
}

// SetCancelledByEvent updates with a deadline.
func (t *TimeoutVoteRepository) SetCancelledByEvent(ctx context.Context, eventID string, cancelled bool) error {
	ctx, cancel := t.bound(ctx)
	defer cancel()
	return mapTimeout("votes", "SetCancelledByEvent", t.next.SetCancelledByEvent(ctx, eventID, cancelled))
}

// DeleteByEvent deletes with a deadline.
func (t *TimeoutVoteRepository) DeleteByEvent(ctx context.Context, eventID string) error {
	ctx, cancel := t.bound(ctx)
	defer cancel()
	return mapTimeout("votes", "DeleteByEvent", t.next.DeleteByEvent(ctx, eventID))
}
