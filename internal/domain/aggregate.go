package domain

import (
	"sort"

	"golang.org/x/text/cases"
)

// EventVotes is the per-event slice of a ring's vote count, used when
// aggregating across all events to show which event contributed how
// many votes.
type EventVotes struct {
	// EventID identifies the originating voting event.
	EventID string `json:"eventId"`

	// EventName is the display name of the originating event.
	EventName string `json:"eventName"`

	// Count is the number of votes this event contributed to the ring.
	Count int `json:"count"`
}

// AggregatedVoteForRing is the vote count one ring received for one
// technology, broken down by originating event.
type AggregatedVoteForRing struct {
	// Ring is the adoption stage the votes were cast for.
	Ring Ring `json:"ring"`

	// Count is the total number of votes for this ring across all
	// contributing events.
	Count int `json:"count"`

	// VotesForEvent breaks Count down by originating event, ordered by
	// descending per-event count with ties keeping first-seen order.
	VotesForEvent []EventVotes `json:"votesForEvent"`
}

// AggregatedVote is the complete vote tally for one technology: the
// total count plus one bucket per ring, ordered by descending ring
// count. It is derived on demand from the raw vote set and never
// persisted standalone.
type AggregatedVote struct {
	// TechnologyID references the catalog entry, first-seen-wins across
	// the technology's votes.
	TechnologyID string `json:"technologyId"`

	// Technology is the technology's display name.
	Technology string `json:"technology"`

	// Quadrant is the technology's category grouping, first-seen-wins.
	Quadrant Quadrant `json:"quadrant"`

	// IsNew marks first-time radar entries, first-seen-wins.
	IsNew bool `json:"isNew"`

	// Count is the total number of votes across all rings.
	Count int `json:"count"`

	// VotesForRing holds one bucket per ring that received votes,
	// ordered by descending count. Equal counts order by the fixed ring
	// precedence Adopt, Trial, Assess, Hold so the winner is
	// deterministic regardless of vote fetch order.
	VotesForRing []AggregatedVoteForRing `json:"votesForRing"`
}

// AggregateVotes groups raw votes into one AggregatedVote per
// technology using three explicit grouping passes: by technology, ring,
// and originating event; then by technology and ring; then by
// technology alone. Cancelled votes are skipped. Technology names group
// case-insensitively via Unicode case folding; the first-seen spelling
// is kept for display. The result is sorted by technology name.
//
// An empty or all-cancelled input yields an empty, non-nil result.
func AggregateVotes(votes []Vote) []AggregatedVote {
	type eventBucket struct {
		id    string
		name  string
		count int
	}
	type ringBucket struct {
		ring    Ring
		count   int
		events  []*eventBucket
		byEvent map[string]*eventBucket
	}
	type techBucket struct {
		id       string
		name     string
		quadrant Quadrant
		isNew    bool
		count    int
		rings    []*ringBucket
		byRing   map[Ring]*ringBucket
	}

	// Caser instances are stateful, so one is created per invocation
	// rather than shared at package level.
	folder := cases.Fold()

	byTech := make(map[string]*techBucket)
	order := make([]*techBucket, 0)

	// Pass one: bucket every vote by (technology, ring, event),
	// carrying quadrant and isNew as first-seen-wins attributes.
	for _, v := range votes {
		if v.Cancelled {
			continue
		}

		key := folder.String(v.TechnologyName)
		tb, ok := byTech[key]
		if !ok {
			tb = &techBucket{
				id:       v.TechnologyID,
				name:     v.TechnologyName,
				quadrant: v.Quadrant,
				isNew:    v.IsNew,
				byRing:   make(map[Ring]*ringBucket),
			}
			byTech[key] = tb
			order = append(order, tb)
		}

		rb, ok := tb.byRing[v.Ring]
		if !ok {
			rb = &ringBucket{ring: v.Ring, byEvent: make(map[string]*eventBucket)}
			tb.byRing[v.Ring] = rb
			tb.rings = append(tb.rings, rb)
		}

		eb, ok := rb.byEvent[v.EventID]
		if !ok {
			eb = &eventBucket{id: v.EventID, name: v.EventName}
			rb.byEvent[v.EventID] = eb
			rb.events = append(rb.events, eb)
		}

		eb.count++
		rb.count++
		tb.count++
	}

	// Pass two: order each ring's per-event breakdown by descending
	// count; the stable sort keeps first-seen order for ties.
	// Pass three: order each technology's ring buckets by descending
	// count, equal counts by fixed ring precedence.
	out := make([]AggregatedVote, 0, len(order))
	for _, tb := range order {
		for _, rb := range tb.rings {
			sort.SliceStable(rb.events, func(i, j int) bool {
				return rb.events[i].count > rb.events[j].count
			})
		}

		sort.SliceStable(tb.rings, func(i, j int) bool {
			if tb.rings[i].count != tb.rings[j].count {
				return tb.rings[i].count > tb.rings[j].count
			}
			return tb.rings[i].ring.Precedence() < tb.rings[j].ring.Precedence()
		})

		agg := AggregatedVote{
			TechnologyID: tb.id,
			Technology:   tb.name,
			Quadrant:     tb.quadrant,
			IsNew:        tb.isNew,
			Count:        tb.count,
			VotesForRing: make([]AggregatedVoteForRing, 0, len(tb.rings)),
		}
		for _, rb := range tb.rings {
			bucket := AggregatedVoteForRing{
				Ring:          rb.ring,
				Count:         rb.count,
				VotesForEvent: make([]EventVotes, 0, len(rb.events)),
			}
			for _, eb := range rb.events {
				bucket.VotesForEvent = append(bucket.VotesForEvent, EventVotes{
					EventID:   eb.id,
					EventName: eb.name,
					Count:     eb.count,
				})
			}
			agg.VotesForRing = append(agg.VotesForRing, bucket)
		}
		out = append(out, agg)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return folder.String(out[i].Technology) < folder.String(out[j].Technology)
	})

	return out
}
