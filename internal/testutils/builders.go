package testutils

import (
	"fmt"

	"github.com/ahrav/go-radar/internal/domain"
)

// BuildVotes creates n votes for one technology and ring within one
// event round, each from a distinct synthetic voter. The technology id
// is derived from the name.
func BuildVotes(n int, eventID, eventName, tech string, ring domain.Ring) []domain.Vote {
	votes := make([]domain.Vote, 0, n)
	for i := 0; i < n; i++ {
		votes = append(votes, domain.Vote{
			ID:             fmt.Sprintf("%s-%s-%s-%d", eventID, tech, ring, i),
			TechnologyID:   "tech-" + tech,
			TechnologyName: tech,
			Quadrant:       domain.QuadrantTools,
			Ring:           ring,
			Voter:          fmt.Sprintf("voter-%d", i),
			EventID:        eventID,
			EventName:      eventName,
			EventRound:     1,
		})
	}
	return votes
}

// SeededEvent creates an open round-1 event with the given id and
// administrators, snapshotting the provided technologies.
func SeededEvent(id, name string, technologies []domain.Technology, administrators ...string) *domain.VotingEvent {
	event := domain.NewVotingEvent(id, name, administrators)
	event.Status = domain.StatusOpen
	event.Round = 1
	event.Technologies = technologies
	return event
}
