package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func agg(tech string, count int, rings ...AggregatedVoteForRing) AggregatedVote {
	return AggregatedVote{
		TechnologyID: "tech-" + tech,
		Technology:   tech,
		Quadrant:     QuadrantTools,
		Count:        count,
		VotesForRing: rings,
	}
}

func ringBucket(ring Ring, count int) AggregatedVoteForRing {
	return AggregatedVoteForRing{
		Ring:  ring,
		Count: count,
		VotesForEvent: []EventVotes{
			{EventID: "ev-1", EventName: "Event One", Count: count},
		},
	}
}

func TestSynthesizeBlips_WinningRing(t *testing.T) {
	blips := SynthesizeBlips([]AggregatedVote{
		agg("tech0", 3, ringBucket(RingHold, 2), ringBucket(RingAssess, 1)),
	}, DescriptionOptions{})

	require.Len(t, blips, 1)
	assert.Equal(t, RingHold, blips[0].Ring, "the first ring bucket is the winner; ties were already broken upstream")
	assert.Equal(t, 3, blips[0].NumberOfVotes)
	assert.Equal(t, 0, blips[0].Number)
	assert.False(t, blips[0].ForRevote)
}

func TestSynthesizeBlips_PlainDescription(t *testing.T) {
	blips := SynthesizeBlips([]AggregatedVote{
		agg("tech0", 3, ringBucket(RingHold, 2), ringBucket(RingAssess, 1)),
	}, DescriptionOptions{})

	require.Len(t, blips, 1)
	assert.Equal(t,
		"Votes: 3<br>Selected by:<br>Hold: 2<br>Other ratings:<br>Assess: 1",
		blips[0].Description)
}

func TestSynthesizeBlips_SingleRingOmitsOtherRatings(t *testing.T) {
	blips := SynthesizeBlips([]AggregatedVote{
		agg("tech0", 2, ringBucket(RingAdopt, 2)),
	}, DescriptionOptions{})

	require.Len(t, blips, 1)
	assert.Equal(t, "Votes: 2<br>Selected by:<br>Adopt: 2", blips[0].Description)
	assert.NotContains(t, blips[0].Description, "Other ratings")
}

func TestSynthesizeBlips_PerEventDescriptionWithLinks(t *testing.T) {
	bucket := AggregatedVoteForRing{
		Ring:  RingTrial,
		Count: 5,
		VotesForEvent: []EventVotes{
			{EventID: "ev-1", EventName: "Event One", Count: 3},
			{EventID: "ev-2", EventName: "Event Two", Count: 2},
		},
	}
	blips := SynthesizeBlips([]AggregatedVote{agg("tech0", 5, bucket)}, DescriptionOptions{
		PerEvent: true,
		RadarURL: "https://radar.example.com",
		BaseURL:  "https://base.example.com",
	})

	require.Len(t, blips, 1)
	desc := blips[0].Description
	assert.Contains(t, desc, "Votes: 5<br>Selected by:<br>Trial:<ul>")
	assert.Contains(t, desc,
		`<li><a href="https://radar.example.com?baseUrl=https%3A%2F%2Fbase.example.com&radarId=ev-1">Event One</a>: 3</li>`)
	assert.Contains(t, desc,
		`<li><a href="https://radar.example.com?baseUrl=https%3A%2F%2Fbase.example.com&radarId=ev-2">Event Two</a>: 2</li>`)
}

func TestSynthesizeBlips_PerEventDescriptionWithoutRadarURL(t *testing.T) {
	bucket := AggregatedVoteForRing{
		Ring:  RingTrial,
		Count: 2,
		VotesForEvent: []EventVotes{
			{EventID: "ev-1", EventName: "Event One", Count: 2},
		},
	}
	blips := SynthesizeBlips([]AggregatedVote{agg("tech0", 2, bucket)}, DescriptionOptions{PerEvent: true})

	require.Len(t, blips, 1)
	assert.Contains(t, blips[0].Description, "<li>Event One: 2</li>")
	assert.NotContains(t, blips[0].Description, "<a href")
}

func TestSynthesizeBlips_SortedByVoteCount(t *testing.T) {
	blips := SynthesizeBlips([]AggregatedVote{
		agg("alpha", 1, ringBucket(RingAdopt, 1)),
		agg("beta", 4, ringBucket(RingAdopt, 4)),
		agg("gamma", 4, ringBucket(RingTrial, 4)),
	}, DescriptionOptions{})

	require.Len(t, blips, 3)
	assert.Equal(t, "beta", blips[0].Name, "highest vote count first")
	assert.Equal(t, "gamma", blips[1].Name, "equal counts keep input order")
	assert.Equal(t, "alpha", blips[2].Name)

	// Numbers were assigned from input positions before the sort.
	assert.Equal(t, 1, blips[0].Number)
	assert.Equal(t, 2, blips[1].Number)
	assert.Equal(t, 0, blips[2].Number)
}

func TestSynthesizeBlips_SkipsAggregatesWithoutRings(t *testing.T) {
	blips := SynthesizeBlips([]AggregatedVote{
		agg("tech0", 0),
		agg("tech1", 1, ringBucket(RingAdopt, 1)),
	}, DescriptionOptions{})
	require.Len(t, blips, 1)
	assert.Equal(t, "tech1", blips[0].Name)
}

func TestSynthesizeBlips_DoesNotConsumeAggregateBuckets(t *testing.T) {
	input := []AggregatedVote{
		agg("tech0", 3, ringBucket(RingHold, 2), ringBucket(RingAssess, 1)),
	}
	blips := SynthesizeBlips(input, DescriptionOptions{})

	require.Len(t, input[0].VotesForRing, 2, "description build works on a copy")
	require.Len(t, blips[0].Votes, 2, "the blip keeps the full per-ring tally")
}
