// Package ports defines the narrow contracts between the radar engine
// and its external collaborators: the document store, the technology
// catalog, the identity provider, and the ambient infrastructure.
// The engine never talks to a concrete store; persistence, transport,
// and authentication live entirely behind these interfaces.
package ports

import (
	"context"

	"github.com/ahrav/go-radar/internal/domain"
)

// VoteRepository supplies and mutates raw vote records. Soft-delete
// semantics (cancelled votes) are enforced by the implementation's
// query filter; fetch methods may therefore still return cancelled
// votes, which the aggregation pipeline skips.
type VoteRepository interface {
	// FetchVotes returns all votes cast in one event.
	FetchVotes(ctx context.Context, eventID string) ([]domain.Vote, error)

	// FetchAllVotes returns votes across every event, used for the
	// cross-event aggregate.
	FetchAllVotes(ctx context.Context) ([]domain.Vote, error)

	// InsertVotes stores new vote records.
	InsertVotes(ctx context.Context, votes []domain.Vote) error

	// ReplaceVotesForVoter deletes all of the voter's prior votes for
	// the event and inserts the replacements. The two steps are not
	// atomic; callers serialize voter-level corrections at a higher
	// layer.
	ReplaceVotesForVoter(ctx context.Context, voter, eventID string, votes []domain.Vote) error

	// SetCancelledByEvent flips the soft-delete flag on every vote of
	// the event, supporting event cancel and undo-cancel.
	SetCancelledByEvent(ctx context.Context, eventID string, cancelled bool) error

	// DeleteByEvent permanently removes the event's votes. Not
	// reversible; used only by the hard event delete.
	DeleteByEvent(ctx context.Context, eventID string) error
}

// EventRepository persists voting events. Replace writes the whole
// document; two concurrent writers race last-writer-wins, which the
// engine accepts by design (callers serialize event-level mutations).
type EventRepository interface {
	// FetchByID returns the event or ErrNotFound.
	FetchByID(ctx context.Context, id string) (*domain.VotingEvent, error)

	// Insert stores a newly created event.
	Insert(ctx context.Context, event *domain.VotingEvent) error

	// Replace overwrites the stored event document wholesale. It is a
	// full replacement, not a patch-merge; intermediate results from
	// concurrent calls are never merged.
	Replace(ctx context.Context, event *domain.VotingEvent) error

	// ListAll returns every event, including cancelled ones.
	ListAll(ctx context.Context) ([]domain.VotingEvent, error)

	// Delete permanently removes the event document.
	Delete(ctx context.Context, id string) error
}

// TechnologyCatalog exposes the organization-wide technology list.
// It is consulted exactly once per event, when the event is first
// opened and snapshots the active entries.
type TechnologyCatalog interface {
	// FetchActive returns the catalog entries currently eligible for
	// voting.
	FetchActive(ctx context.Context) ([]domain.Technology, error)
}

// IdentityProvider resolves the calling user's identity from the
// request credentials carried in the context. The engine treats the
// identity as an opaque string compared against administrator lists.
type IdentityProvider interface {
	// Identity returns the caller's identity string, or an error when
	// the request carries no usable credentials.
	Identity(ctx context.Context) (string, error)
}
