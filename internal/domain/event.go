package domain

import (
	"time"

	"golang.org/x/text/cases"
)

// EventStatus is the lifecycle state of a voting event.
type EventStatus string

// Voting event lifecycle states.
const (
	// StatusOpen accepts vote submissions for the current round.
	StatusOpen EventStatus = "open"
	// StatusClosed rejects vote submissions. Events are created closed.
	StatusClosed EventStatus = "closed"
)

// Roles holds the per-event authorization lists.
type Roles struct {
	// Administrators are the identities allowed to trigger state
	// transitions on the event.
	Administrators []string `json:"administrators"`
}

// VotingEvent is one voting campaign with its own technology snapshot,
// rounds, and lifecycle. It progresses closed → open → optionally
// open-for-revote → closed, with a monotonically increasing round
// counter that governs which votes are accepted.
type VotingEvent struct {
	// ID uniquely identifies the event.
	ID string `json:"id"`

	// Name is the event's display name.
	Name string `json:"name"`

	// Status is the current lifecycle state.
	Status EventStatus `json:"status"`

	// Round is the current voting round. Zero until the event is first
	// opened; initialized to 1 on first open; incremented by every
	// accepted revote cycle and flow-step advance.
	Round int `json:"round,omitempty"`

	// OpenForRevote marks the event as accepting a second voting pass
	// for its flagged technologies.
	OpenForRevote bool `json:"openForRevote"`

	// HasTechnologiesForRevote is true when the last blip calculation
	// flagged at least one technology as too close to call.
	HasTechnologiesForRevote bool `json:"hasTechnologiesForRevote"`

	// Technologies is the event's own copy of the catalog, snapshotted
	// once when the event is first opened.
	Technologies []Technology `json:"technologies,omitempty"`

	// Blips are the synthesized radar entries from the last calculation.
	Blips []Blip `json:"blips,omitempty"`

	// Roles holds the event's authorization lists.
	Roles Roles `json:"roles"`

	// Cancelled soft-deletes the event together with its votes.
	Cancelled bool `json:"cancelled,omitempty"`

	// LastOpened records when the event was most recently opened.
	LastOpened time.Time `json:"lastOpened"`

	// LastClosed records when the event was most recently closed.
	LastClosed time.Time `json:"lastClosed"`
}

// NewVotingEvent creates an event in the closed state with no round.
// The round counter starts only when the event is first opened.
func NewVotingEvent(id, name string, administrators []string) *VotingEvent {
	return &VotingEvent{
		ID:     id,
		Name:   name,
		Status: StatusClosed,
		Roles:  Roles{Administrators: administrators},
	}
}

// IsAdministrator reports whether the identity appears in the event's
// administrator list. The identity is compared as an opaque string.
func (e *VotingEvent) IsAdministrator(identity string) bool {
	if identity == "" {
		return false
	}
	for _, admin := range e.Roles.Administrators {
		if admin == identity {
			return true
		}
	}
	return false
}

// Open transitions the event to the open state and stamps the opening
// time. The first open initializes the round counter to 1 and snapshots
// the catalog into the event; subsequent opens change neither.
func (e *VotingEvent) Open(catalog []Technology, now time.Time) {
	e.Status = StatusOpen
	e.LastOpened = now
	if e.Round == 0 {
		e.Round = 1
	}
	if len(e.Technologies) == 0 {
		e.Technologies = make([]Technology, len(catalog))
		copy(e.Technologies, catalog)
	}
}

// Close transitions the event to the closed state and stamps the
// closing time. Votes and round are left untouched.
func (e *VotingEvent) Close(now time.Time) {
	e.Status = StatusClosed
	e.LastClosed = now
}

// OpenRevote starts a revote cycle. The caller-supplied round must
// exactly equal the event's current round; this optimistic-concurrency
// guard rejects stale clients without mutating state. On a match the
// round is incremented and the event marked open for revote.
func (e *VotingEvent) OpenRevote(round int) error {
	if round != e.Round {
		return &TransitionError{
			Subject:    e.ID,
			Transition: "openForRevote",
			Err:        ErrRoundMismatch,
		}
	}
	e.Round++
	e.OpenForRevote = true
	return nil
}

// CloseRevote ends the revote pass. Unlike OpenRevote it is
// unconditional; no round check applies.
func (e *VotingEvent) CloseRevote() { e.OpenForRevote = false }

// ApplyBlips installs a freshly computed blip list as the event's
// published result. Technology copies are rewritten from the blips'
// revote flags: flagged technologies get ForRevote set and the blip
// description copied in place, unflagged ones are cleared, and the
// event-level HasTechnologiesForRevote summary is recomputed.
// OpenForRevote is reset as part of the same update; entering revote
// mode is a distinct, explicit transition.
func (e *VotingEvent) ApplyBlips(blips []Blip) {
	e.Blips = blips

	folder := cases.Fold()
	byName := make(map[string]*Blip, len(blips))
	for i := range blips {
		byName[folder.String(blips[i].Name)] = &blips[i]
	}

	e.HasTechnologiesForRevote = false
	for i := range e.Technologies {
		tech := &e.Technologies[i]
		blip, ok := byName[folder.String(tech.Name)]
		if !ok || !blip.ForRevote {
			tech.ForRevote = false
			continue
		}
		tech.ForRevote = true
		tech.Description = blip.Description
		e.HasTechnologiesForRevote = true
	}
	e.OpenForRevote = false
}

// AdvanceFlowStep recomputes every technology's voting result from the
// current vote set and increments the round. The recomputation derives
// from the votes passed in, never accumulating across calls, so the
// operation is idempotent with respect to the vote data.
func (e *VotingEvent) AdvanceFlowStep(votes []Vote) {
	folder := cases.Fold()

	results := make(map[string]*VotingResult, len(e.Technologies))
	for _, v := range votes {
		if v.Cancelled {
			continue
		}
		key := folder.String(v.TechnologyName)
		res, ok := results[key]
		if !ok {
			res = &VotingResult{ByRing: make(map[Ring]int)}
			results[key] = res
		}
		res.ByRing[v.Ring]++
		for _, tag := range v.Tags {
			if res.ByTag == nil {
				res.ByTag = make(map[string]int)
			}
			res.ByTag[tag]++
		}
	}

	for i := range e.Technologies {
		tech := &e.Technologies[i]
		tech.VotingResult = results[folder.String(tech.Name)]
	}

	e.Round++
}

// TechnologyByName returns the event's technology copy with the given
// name, matched case-insensitively, or nil when absent.
func (e *VotingEvent) TechnologyByName(name string) *Technology {
	folder := cases.Fold()
	key := folder.String(name)
	for i := range e.Technologies {
		if folder.String(e.Technologies[i].Name) == key {
			return &e.Technologies[i]
		}
	}
	return nil
}
