package domain

import "time"

// Vote records a single participant's rating of one technology during
// one round of a voting event. Votes are immutable once cast; a voter
// correcting themselves replaces all of their votes for the event
// wholesale through the repository, never field-by-field.
type Vote struct {
	// ID uniquely identifies this vote record.
	ID string `json:"id"`

	// TechnologyID references the catalog entry the vote is about.
	TechnologyID string `json:"technologyId"`

	// TechnologyName is the display name of the technology at the time
	// the vote was cast.
	TechnologyName string `json:"technologyName"`

	// Quadrant is the technology's category grouping.
	Quadrant Quadrant `json:"quadrant"`

	// IsNew marks technologies appearing on the radar for the first time.
	IsNew bool `json:"isNew"`

	// Ring is the adoption stage the voter assigned.
	Ring Ring `json:"ring"`

	// Voter is the opaque identity string of the participant.
	Voter string `json:"voter"`

	// EventID identifies the voting event the vote belongs to.
	EventID string `json:"eventId"`

	// EventName is the display name of the originating event, carried on
	// the vote so cross-event aggregation can label per-event breakdowns
	// without a second lookup.
	EventName string `json:"eventName"`

	// EventRound is the event round the vote was cast in. A voter "has
	// already voted" when their highest recorded round equals the
	// event's current round.
	EventRound int `json:"eventRound"`

	// Comment is an optional free-text remark by the voter.
	Comment string `json:"comment,omitempty"`

	// Tags are optional labels attached by the voter, tallied into the
	// event's per-technology voting result.
	Tags []string `json:"tags,omitempty"`

	// Cancelled soft-deletes the vote together with its event.
	Cancelled bool `json:"cancelled,omitempty"`
}

// Recommendation is a manually authored override of a technology's
// computed ring and justification. A recommendation with an empty Ring
// denotes a claim: the author has reserved the right to recommend but
// has not filled it in yet.
type Recommendation struct {
	// Author is the identity of the user who owns the recommendation.
	// Once set, only this author may change or clear it.
	Author string `json:"author"`

	// Ring is the recommended adoption stage; empty while only claimed.
	Ring Ring `json:"ring,omitempty"`

	// Text is the author's justification.
	Text string `json:"text,omitempty"`

	// Timestamp records when the recommendation was last written.
	Timestamp time.Time `json:"timestamp"`
}

// Filled reports whether the recommendation carries an actual ring, as
// opposed to being merely claimed by its author.
func (r *Recommendation) Filled() bool { return r != nil && r.Ring != "" }

// VotingResult tallies the votes a technology received in the round
// that just finished, grouped by ring and, where voters tagged their
// votes, by tag. It is recomputed from the current vote set on every
// flow-step advance, never accumulated.
type VotingResult struct {
	// ByRing counts votes per ring.
	ByRing map[Ring]int `json:"byRing"`

	// ByTag counts votes per tag; empty when no votes carried tags.
	ByTag map[string]int `json:"byTag,omitempty"`
}

// Technology is an event-scoped copy of a catalog entry. Events
// snapshot the catalog when first opened, so later catalog edits never
// change a running event.
type Technology struct {
	// ID references the originating catalog entry.
	ID string `json:"id"`

	// Name is the technology's display name.
	Name string `json:"name"`

	// Quadrant is the technology's category grouping.
	Quadrant Quadrant `json:"quadrant"`

	// IsNew marks technologies appearing on the radar for the first time.
	IsNew bool `json:"isNew"`

	// ForRevote flags the technology for a second voting pass when its
	// result was too close to call.
	ForRevote bool `json:"forRevote"`

	// Description carries the synthesized result text once the
	// technology has been flagged for revote.
	Description string `json:"description,omitempty"`

	// Recommendation is the manually authored override, if any.
	Recommendation *Recommendation `json:"recommendation,omitempty"`

	// VotingResult is the tally of the most recently completed round.
	VotingResult *VotingResult `json:"votingResult,omitempty"`
}

// SetRecommendation writes or replaces the technology's recommendation,
// enforcing the single-writer invariant: an existing recommendation may
// only be changed by its original author.
func (t *Technology) SetRecommendation(rec Recommendation) error {
	if t.Recommendation != nil && t.Recommendation.Author != rec.Author {
		return &TransitionError{
			Subject:    t.Name,
			Transition: "setRecommendation",
			Err:        ErrRecommendationOwned,
		}
	}
	t.Recommendation = &rec
	return nil
}

// ClearRecommendation removes the technology's recommendation. Only the
// owning author may clear it.
func (t *Technology) ClearRecommendation(author string) error {
	if t.Recommendation == nil {
		return nil
	}
	if t.Recommendation.Author != author {
		return &TransitionError{
			Subject:    t.Name,
			Transition: "clearRecommendation",
			Err:        ErrRecommendationOwned,
		}
	}
	t.Recommendation = nil
	return nil
}
