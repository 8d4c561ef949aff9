package domain

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// ApplyRecommendations overrides computed blips with manually entered
// recommendations. For every technology carrying a filled-in
// recommendation, a replacement blip is built from the recommendation's
// ring and text. An existing blip for the technology is replaced in
// place, keeping its list position and number; a technology that
// received no votes gets its recommendation blip appended. The override
// is unconditional and does not re-run the revote classifier.
func ApplyRecommendations(blips []Blip, technologies []Technology) []Blip {
	folder := cases.Fold()

	index := make(map[string]int, len(blips))
	for i, b := range blips {
		index[folder.String(b.Name)] = i
	}

	for _, tech := range technologies {
		if !tech.Recommendation.Filled() {
			continue
		}

		rec := tech.Recommendation
		if i, ok := index[folder.String(tech.Name)]; ok {
			prior := blips[i]
			blips[i] = Blip{
				Name:          tech.Name,
				Quadrant:      tech.Quadrant,
				Ring:          rec.Ring,
				IsNew:         tech.IsNew,
				Description:   recommendationDescription(rec, prior.Description),
				NumberOfVotes: prior.NumberOfVotes,
				Votes:         prior.Votes,
				Number:        prior.Number,
			}
			continue
		}

		blips = append(blips, Blip{
			Name:        tech.Name,
			Quadrant:    tech.Quadrant,
			Ring:        rec.Ring,
			IsNew:       tech.IsNew,
			Description: recommendationDescription(rec, ""),
			Number:      len(blips),
		})
	}

	return blips
}

// recommendationDescription renders the justification for an overridden
// blip, preserving the computed description when one existed.
func recommendationDescription(rec *Recommendation, prior string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Recommendation from %s with comment: %s", rec.Author, rec.Text)
	if prior != "" {
		fmt.Fprintf(&b, "<br>original description %s", prior)
	}
	return b.String()
}
