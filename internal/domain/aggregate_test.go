package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vote(tech string, ring Ring, eventID, eventName string) Vote {
	return Vote{
		TechnologyID:   "tech-" + tech,
		TechnologyName: tech,
		Quadrant:       QuadrantTools,
		Ring:           ring,
		Voter:          "voter",
		EventID:        eventID,
		EventName:      eventName,
		EventRound:     1,
	}
}

func votes(tech string, ring Ring, n int) []Vote {
	out := make([]Vote, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, vote(tech, ring, "ev-1", "Event One"))
	}
	return out
}

func TestAggregateVotes_EmptyInput(t *testing.T) {
	result := AggregateVotes(nil)
	require.NotNil(t, result)
	assert.Empty(t, result)

	result = AggregateVotes([]Vote{})
	require.NotNil(t, result)
	assert.Empty(t, result)
}

func TestAggregateVotes_CountsAddUp(t *testing.T) {
	var input []Vote
	input = append(input, votes("tech0", RingHold, 2)...)
	input = append(input, votes("tech0", RingAssess, 1)...)
	input = append(input, votes("tech1", RingAdopt, 3)...)

	result := AggregateVotes(input)
	require.Len(t, result, 2)

	total := 0
	for _, agg := range result {
		ringSum := 0
		for _, bucket := range agg.VotesForRing {
			ringSum += bucket.Count
		}
		assert.Equal(t, agg.Count, ringSum, "ring counts must add up to the technology total")
		total += agg.Count
	}
	assert.Equal(t, len(input), total, "technology totals must add up to the number of votes processed")
}

func TestAggregateVotes_RingOrdering(t *testing.T) {
	var input []Vote
	input = append(input, votes("tech0", RingAssess, 1)...)
	input = append(input, votes("tech0", RingHold, 2)...)

	result := AggregateVotes(input)
	require.Len(t, result, 1)
	require.Len(t, result[0].VotesForRing, 2)

	assert.Equal(t, RingHold, result[0].VotesForRing[0].Ring,
		"the ring with strictly more votes must come first")
	assert.Equal(t, 2, result[0].VotesForRing[0].Count)
	assert.Equal(t, RingAssess, result[0].VotesForRing[1].Ring)
}

func TestAggregateVotes_RingTieBreaksByPrecedence(t *testing.T) {
	// Hold is encountered first but Adopt outranks it on equal counts.
	var input []Vote
	input = append(input, votes("tech0", RingHold, 2)...)
	input = append(input, votes("tech0", RingAdopt, 2)...)

	result := AggregateVotes(input)
	require.Len(t, result, 1)
	require.Len(t, result[0].VotesForRing, 2)
	assert.Equal(t, RingAdopt, result[0].VotesForRing[0].Ring)
	assert.Equal(t, RingHold, result[0].VotesForRing[1].Ring)
}

func TestAggregateVotes_PerEventBreakdown(t *testing.T) {
	input := []Vote{
		vote("tech0", RingAdopt, "ev-1", "Event One"),
		vote("tech0", RingAdopt, "ev-2", "Event Two"),
		vote("tech0", RingAdopt, "ev-2", "Event Two"),
		vote("tech0", RingAdopt, "ev-2", "Event Two"),
	}

	result := AggregateVotes(input)
	require.Len(t, result, 1)
	require.Len(t, result[0].VotesForRing, 1)

	breakdown := result[0].VotesForRing[0].VotesForEvent
	require.Len(t, breakdown, 2)
	assert.Equal(t, "ev-2", breakdown[0].EventID, "larger contributor comes first")
	assert.Equal(t, 3, breakdown[0].Count)
	assert.Equal(t, "Event Two", breakdown[0].EventName)
	assert.Equal(t, "ev-1", breakdown[1].EventID)
	assert.Equal(t, 1, breakdown[1].Count)
}

func TestAggregateVotes_PerEventTieKeepsFirstSeenOrder(t *testing.T) {
	input := []Vote{
		vote("tech0", RingAdopt, "ev-2", "Event Two"),
		vote("tech0", RingAdopt, "ev-1", "Event One"),
	}

	result := AggregateVotes(input)
	breakdown := result[0].VotesForRing[0].VotesForEvent
	require.Len(t, breakdown, 2)
	assert.Equal(t, "ev-2", breakdown[0].EventID)
	assert.Equal(t, "ev-1", breakdown[1].EventID)
}

func TestAggregateVotes_SkipsCancelledVotes(t *testing.T) {
	cancelled := vote("tech0", RingAdopt, "ev-1", "Event One")
	cancelled.Cancelled = true

	result := AggregateVotes([]Vote{
		cancelled,
		vote("tech0", RingTrial, "ev-1", "Event One"),
	})
	require.Len(t, result, 1)
	assert.Equal(t, 1, result[0].Count)
	require.Len(t, result[0].VotesForRing, 1)
	assert.Equal(t, RingTrial, result[0].VotesForRing[0].Ring)
}

func TestAggregateVotes_GroupsNamesCaseInsensitively(t *testing.T) {
	result := AggregateVotes([]Vote{
		vote("Kubernetes", RingAdopt, "ev-1", "Event One"),
		vote("kubernetes", RingAdopt, "ev-1", "Event One"),
	})
	require.Len(t, result, 1)
	assert.Equal(t, "Kubernetes", result[0].Technology, "first-seen spelling wins")
	assert.Equal(t, 2, result[0].Count)
}

func TestAggregateVotes_FirstSeenWinsAttributes(t *testing.T) {
	first := vote("tech0", RingAdopt, "ev-1", "Event One")
	first.Quadrant = QuadrantPlatforms
	first.IsNew = true
	second := vote("tech0", RingTrial, "ev-1", "Event One")
	second.Quadrant = QuadrantTools

	result := AggregateVotes([]Vote{first, second})
	require.Len(t, result, 1)
	assert.Equal(t, QuadrantPlatforms, result[0].Quadrant)
	assert.True(t, result[0].IsNew)
}

func TestAggregateVotes_SortedByTechnologyName(t *testing.T) {
	var input []Vote
	input = append(input, votes("zeromq", RingAdopt, 1)...)
	input = append(input, votes("Ansible", RingAdopt, 1)...)
	input = append(input, votes("nats", RingAdopt, 1)...)

	result := AggregateVotes(input)
	require.Len(t, result, 3)
	assert.Equal(t, "Ansible", result[0].Technology)
	assert.Equal(t, "nats", result[1].Technology)
	assert.Equal(t, "zeromq", result[2].Technology)
}
