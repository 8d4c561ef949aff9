package domain

// Uncertain reports whether the blip's result is too close to call.
// The weighted difference between the two strongest rings is the gap in
// votes expressed as a percentage of the total; a result is uncertain
// when it falls below the threshold. A blip with fewer than two voted
// rings is never uncertain.
func (b *Blip) Uncertain(threshold float64) bool {
	if len(b.Votes) < 2 || b.NumberOfVotes == 0 {
		return false
	}
	top := float64(b.Votes[0].Count)
	second := float64(b.Votes[1].Count)
	weightedDifference := (top - second) / float64(b.NumberOfVotes) * 100
	return weightedDifference < threshold
}

// MarkForRevote runs the revote classifier over the blips, setting
// ForRevote on every uncertain result. It returns the number of blips
// flagged. The classifier runs only in the single-event calculation
// path; cross-event aggregates are never classified, because a revote
// is inherently scoped to one event.
func MarkForRevote(blips []Blip, threshold float64) int {
	flagged := 0
	for i := range blips {
		if blips[i].Uncertain(threshold) {
			blips[i].ForRevote = true
			flagged++
		}
	}
	return flagged
}
