// Package testutils provides in-memory implementations of the engine's
// ports plus small builders used across the test suites. Nothing in
// this package is a persistence layer; it exists so the engine can be
// exercised end to end without an external store.
package testutils

import (
	"context"
	"sync"

	"github.com/ahrav/go-radar/internal/domain"
	"github.com/ahrav/go-radar/internal/ports"
)

var (
	_ ports.EventRepository = (*MemEventRepository)(nil)
	_ ports.VoteRepository  = (*MemVoteRepository)(nil)
	_ ports.TechnologyCatalog = (StaticCatalog)(nil)
	_ ports.IdentityProvider  = ContextIdentity{}
)

// MemEventRepository is an in-memory EventRepository. Fetches return
// deep copies so tests observe document-store semantics: mutations are
// invisible until explicitly written back with Replace.
type MemEventRepository struct {
	mu     sync.Mutex
	events map[string]*domain.VotingEvent

	// ReplaceCalls counts write-backs, letting tests assert that a
	// rejected operation wrote nothing.
	ReplaceCalls int

	// FailWith, when set, makes every call fail with the given error.
	FailWith error
}

// NewMemEventRepository creates an empty repository.
func NewMemEventRepository() *MemEventRepository {
	return &MemEventRepository{events: make(map[string]*domain.VotingEvent)}
}

// Seed stores the event directly, bypassing call counting.
func (r *MemEventRepository) Seed(event *domain.VotingEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[event.ID] = CloneEvent(event)
}

// FetchByID implements ports.EventRepository.
func (r *MemEventRepository) FetchByID(ctx context.Context, id string) (*domain.VotingEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWith != nil {
		return nil, r.FailWith
	}
	event, ok := r.events[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return CloneEvent(event), nil
}

// Insert implements ports.EventRepository.
func (r *MemEventRepository) Insert(ctx context.Context, event *domain.VotingEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWith != nil {
		return r.FailWith
	}
	r.events[event.ID] = CloneEvent(event)
	return nil
}

// Replace implements ports.EventRepository as a whole-document
// replacement, last writer wins.
func (r *MemEventRepository) Replace(ctx context.Context, event *domain.VotingEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWith != nil {
		return r.FailWith
	}
	r.ReplaceCalls++
	r.events[event.ID] = CloneEvent(event)
	return nil
}

// ListAll implements ports.EventRepository.
func (r *MemEventRepository) ListAll(ctx context.Context) ([]domain.VotingEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWith != nil {
		return nil, r.FailWith
	}
	out := make([]domain.VotingEvent, 0, len(r.events))
	for _, event := range r.events {
		out = append(out, *CloneEvent(event))
	}
	return out, nil
}

// Delete implements ports.EventRepository.
func (r *MemEventRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWith != nil {
		return r.FailWith
	}
	if _, ok := r.events[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.events, id)
	return nil
}

// MemVoteRepository is an in-memory VoteRepository.
type MemVoteRepository struct {
	mu    sync.Mutex
	votes []domain.Vote

	// FailWith, when set, makes every call fail with the given error.
	FailWith error
}

// NewMemVoteRepository creates a repository seeded with the given votes.
func NewMemVoteRepository(votes ...domain.Vote) *MemVoteRepository {
	return &MemVoteRepository{votes: append([]domain.Vote(nil), votes...)}
}

// FetchVotes implements ports.VoteRepository.
func (r *MemVoteRepository) FetchVotes(ctx context.Context, eventID string) ([]domain.Vote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWith != nil {
		return nil, r.FailWith
	}
	var out []domain.Vote
	for _, v := range r.votes {
		if v.EventID == eventID {
			out = append(out, v)
		}
	}
	return out, nil
}

// FetchAllVotes implements ports.VoteRepository.
func (r *MemVoteRepository) FetchAllVotes(ctx context.Context) ([]domain.Vote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWith != nil {
		return nil, r.FailWith
	}
	return append([]domain.Vote(nil), r.votes...), nil
}

// InsertVotes implements ports.VoteRepository.
func (r *MemVoteRepository) InsertVotes(ctx context.Context, votes []domain.Vote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWith != nil {
		return r.FailWith
	}
	r.votes = append(r.votes, votes...)
	return nil
}

// ReplaceVotesForVoter implements ports.VoteRepository with the
// delete-then-reinsert semantics of the real store.
func (r *MemVoteRepository) ReplaceVotesForVoter(ctx context.Context, voter, eventID string, votes []domain.Vote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWith != nil {
		return r.FailWith
	}
	kept := r.votes[:0]
	for _, v := range r.votes {
		if v.Voter == voter && v.EventID == eventID {
			continue
		}
		kept = append(kept, v)
	}
	r.votes = append(kept, votes...)
	return nil
}

// SetCancelledByEvent implements ports.VoteRepository.
func (r *MemVoteRepository) SetCancelledByEvent(ctx context.Context, eventID string, cancelled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWith != nil {
		return r.FailWith
	}
	for i := range r.votes {
		if r.votes[i].EventID == eventID {
			r.votes[i].Cancelled = cancelled
		}
	}
	return nil
}

// DeleteByEvent implements ports.VoteRepository.
func (r *MemVoteRepository) DeleteByEvent(ctx context.Context, eventID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWith != nil {
		return r.FailWith
	}
	kept := r.votes[:0]
	for _, v := range r.votes {
		if v.EventID != eventID {
			kept = append(kept, v)
		}
	}
	r.votes = kept
	return nil
}

// All returns a copy of every stored vote, for assertions.
func (r *MemVoteRepository) All() []domain.Vote {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Vote(nil), r.votes...)
}

// StaticCatalog is a TechnologyCatalog serving a fixed slice.
type StaticCatalog []domain.Technology

// FetchActive implements ports.TechnologyCatalog.
func (c StaticCatalog) FetchActive(ctx context.Context) ([]domain.Technology, error) {
	return append([]domain.Technology(nil), c...), nil
}

type identityKey struct{}

// WithIdentity stamps a caller identity onto the context for
// ContextIdentity to resolve.
func WithIdentity(ctx context.Context, identity string) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// ContextIdentity is an IdentityProvider resolving the identity stamped
// by WithIdentity. A context without an identity fails with
// ports.ErrNoIdentity, mirroring an unauthenticated request.
type ContextIdentity struct{}

// Identity implements ports.IdentityProvider.
func (ContextIdentity) Identity(ctx context.Context) (string, error) {
	identity, _ := ctx.Value(identityKey{}).(string)
	if identity == "" {
		return "", ports.ErrNoIdentity
	}
	return identity, nil
}

// CloneEvent deep-copies a voting event, including technologies, blips,
// and their nested vote tallies.
func CloneEvent(event *domain.VotingEvent) *domain.VotingEvent {
	clone := *event

	clone.Technologies = make([]domain.Technology, len(event.Technologies))
	copy(clone.Technologies, event.Technologies)
	for i := range clone.Technologies {
		if rec := clone.Technologies[i].Recommendation; rec != nil {
			recCopy := *rec
			clone.Technologies[i].Recommendation = &recCopy
		}
		if res := clone.Technologies[i].VotingResult; res != nil {
			resCopy := domain.VotingResult{ByRing: make(map[domain.Ring]int, len(res.ByRing))}
			for k, v := range res.ByRing {
				resCopy.ByRing[k] = v
			}
			if res.ByTag != nil {
				resCopy.ByTag = make(map[string]int, len(res.ByTag))
				for k, v := range res.ByTag {
					resCopy.ByTag[k] = v
				}
			}
			clone.Technologies[i].VotingResult = &resCopy
		}
	}

	clone.Blips = make([]domain.Blip, len(event.Blips))
	copy(clone.Blips, event.Blips)
	for i := range clone.Blips {
		votes := make([]domain.AggregatedVoteForRing, len(event.Blips[i].Votes))
		copy(votes, event.Blips[i].Votes)
		for j := range votes {
			events := make([]domain.EventVotes, len(votes[j].VotesForEvent))
			copy(events, votes[j].VotesForEvent)
			votes[j].VotesForEvent = events
		}
		clone.Blips[i].Votes = votes
	}

	clone.Roles.Administrators = append([]string(nil), event.Roles.Administrators...)
	return &clone
}
