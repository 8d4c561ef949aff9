package domain

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Blip is one technology's published radar entry: the winning ring, a
// human-readable justification, and the vote statistics behind it.
// Blips are persisted as part of the owning voting event once computed.
type Blip struct {
	// Name is the technology's display name.
	Name string `json:"name"`

	// Quadrant is the technology's category grouping.
	Quadrant Quadrant `json:"quadrant"`

	// Ring is the winning adoption stage.
	Ring Ring `json:"ring"`

	// IsNew marks first-time radar entries.
	IsNew bool `json:"isNew"`

	// Description is the layered, HTML-fragment justification. The
	// format is a fixed product contract consumed by the radar frontend.
	Description string `json:"description"`

	// NumberOfVotes is the total vote count across all rings.
	NumberOfVotes int `json:"numberOfVotes"`

	// Votes is the full per-ring tally the blip was synthesized from.
	Votes []AggregatedVoteForRing `json:"votes"`

	// Number is the blip's zero-based rank index.
	Number int `json:"number"`

	// ForRevote flags results too close to call, set by the revote
	// classifier in the single-event calculation path.
	ForRevote bool `json:"forRevote"`
}

// DescriptionOptions controls how blip descriptions are rendered.
type DescriptionOptions struct {
	// PerEvent renders each ring's tally as one list item per
	// contributing event instead of a single ring line. Used when
	// aggregating from all events.
	PerEvent bool

	// RadarURL, when non-empty, turns per-event items into hyperlinks
	// pointing at the contributing event's radar.
	RadarURL string

	// BaseURL is carried as a query parameter on per-event hyperlinks so
	// the linked radar can navigate back.
	BaseURL string
}

// SynthesizeBlips turns each aggregate into a blip: the winning ring is
// the aggregate's first ring bucket (the grouping pass already ordered
// buckets by count, ties by ring precedence), the description lists the
// selected ring followed by the remaining ratings, and the vote totals
// are copied through. Blip numbers are the zero-based input positions;
// the returned list is stably sorted by vote count descending, so equal
// counts keep their input order.
func SynthesizeBlips(aggs []AggregatedVote, opts DescriptionOptions) []Blip {
	blips := make([]Blip, 0, len(aggs))
	for i, agg := range aggs {
		if len(agg.VotesForRing) == 0 {
			continue
		}
		blips = append(blips, Blip{
			Name:          agg.Technology,
			Quadrant:      agg.Quadrant,
			Ring:          agg.VotesForRing[0].Ring,
			IsNew:         agg.IsNew,
			Description:   buildDescription(agg, opts),
			NumberOfVotes: agg.Count,
			Votes:         agg.VotesForRing,
			Number:        i,
		})
	}

	sort.SliceStable(blips, func(i, j int) bool {
		return blips[i].NumberOfVotes > blips[j].NumberOfVotes
	})

	return blips
}

// buildDescription renders the layered justification text. It consumes
// a working copy of the ring buckets: the top entry becomes the
// "Selected by" section and the remainder the "Other ratings" section.
func buildDescription(agg AggregatedVote, opts DescriptionOptions) string {
	remaining := make([]AggregatedVoteForRing, len(agg.VotesForRing))
	copy(remaining, agg.VotesForRing)

	// Shift off the winning ring.
	selected := remaining[0]
	remaining = remaining[1:]

	var b strings.Builder
	fmt.Fprintf(&b, "Votes: %d<br>Selected by:<br>", agg.Count)
	writeRingEntry(&b, selected, opts)

	if len(remaining) > 0 {
		b.WriteString("<br>Other ratings:")
		for _, entry := range remaining {
			b.WriteString("<br>")
			writeRingEntry(&b, entry, opts)
		}
	}

	return b.String()
}

// writeRingEntry renders one ring's tally, either as a plain
// ring-name/count line or, in per-event mode, as a list with one item
// per contributing event.
func writeRingEntry(b *strings.Builder, entry AggregatedVoteForRing, opts DescriptionOptions) {
	if !opts.PerEvent {
		fmt.Fprintf(b, "%s: %d", entry.Ring, entry.Count)
		return
	}

	fmt.Fprintf(b, "%s:<ul>", entry.Ring)
	for _, ev := range entry.VotesForEvent {
		if opts.RadarURL != "" {
			fmt.Fprintf(b, `<li><a href="%s?baseUrl=%s&radarId=%s">%s</a>: %d</li>`,
				opts.RadarURL, url.QueryEscape(opts.BaseURL), url.QueryEscape(ev.EventID), ev.EventName, ev.Count)
		} else {
			fmt.Fprintf(b, "<li>%s: %d</li>", ev.EventName, ev.Count)
		}
	}
	b.WriteString("</ul>")
}
