package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-radar/internal/domain"
	"github.com/ahrav/go-radar/internal/ports"
	"github.com/ahrav/go-radar/internal/testutils"
)

func newLifecycleFixture(t *testing.T, catalog testutils.StaticCatalog, seed ...domain.Vote) *serviceFixture {
	t.Helper()

	events := testutils.NewMemEventRepository()
	votes := testutils.NewMemVoteRepository(seed...)
	service, err := NewRadarService(DefaultEngineConfig(), Dependencies{
		Events:   events,
		Votes:    votes,
		Catalog:  catalog,
		Identity: testutils.ContextIdentity{},
	})
	require.NoError(t, err)

	return &serviceFixture{service: service, events: events, votes: votes}
}

func TestCreateEvent(t *testing.T) {
	fx := newLifecycleFixture(t, nil)

	event, err := fx.service.CreateEvent(adminCtx(), "Radar 2026")
	require.NoError(t, err)

	assert.NotEmpty(t, event.ID)
	assert.Equal(t, domain.StatusClosed, event.Status, "events start closed")
	assert.Equal(t, 0, event.Round)
	assert.Equal(t, []string{"alice"}, event.Roles.Administrators, "the creator administers the event")

	stored, err := fx.events.FetchByID(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, event.Name, stored.Name)
}

func TestCreateEvent_Rejections(t *testing.T) {
	fx := newLifecycleFixture(t, nil)

	_, err := fx.service.CreateEvent(context.Background(), "Radar 2026")
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = fx.service.CreateEvent(adminCtx(), "")
	require.Error(t, err)
	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestOpenEvent_SnapshotsCatalogOnFirstOpen(t *testing.T) {
	fx := newLifecycleFixture(t, testutils.StaticCatalog{
		{ID: "tech-go", Name: "go", Quadrant: domain.QuadrantLangs},
		{ID: "tech-kafka", Name: "kafka", Quadrant: domain.QuadrantPlatforms},
	})
	fx.events.Seed(domain.NewVotingEvent("ev-1", "Radar 2026", []string{"alice"}))

	event, err := fx.service.OpenEvent(adminCtx(), "ev-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOpen, event.Status)
	assert.Equal(t, 1, event.Round, "the first open starts round one")
	require.Len(t, event.Technologies, 2)

	// Close and reopen: the snapshot and round survive.
	_, err = fx.service.CloseEvent(adminCtx(), "ev-1")
	require.NoError(t, err)

	reopened, err := fx.service.OpenEvent(adminCtx(), "ev-1")
	require.NoError(t, err)
	assert.Equal(t, 1, reopened.Round)
	require.Len(t, reopened.Technologies, 2)
}

func TestOpenEvent_RequiresAdministrator(t *testing.T) {
	fx := newLifecycleFixture(t, nil)
	fx.events.Seed(domain.NewVotingEvent("ev-1", "Radar 2026", []string{"alice"}))

	_, err := fx.service.OpenEvent(testutils.WithIdentity(context.Background(), "mallory"), "ev-1")
	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.Zero(t, fx.events.ReplaceCalls)
}

func TestOpenForRevote_StaleRoundNeverAdvances(t *testing.T) {
	fx := newLifecycleFixture(t, nil)
	fx.events.Seed(testutils.SeededEvent("ev-1", "Radar 2026", nil, "alice"))

	// Two administrators racing with the same observed round: the first
	// wins, every retry with the stale round fails without mutating.
	event, err := fx.service.OpenForRevote(adminCtx(), "ev-1", 1)
	require.NoError(t, err)
	assert.Equal(t, 2, event.Round)
	assert.True(t, event.OpenForRevote)

	for i := 0; i < 2; i++ {
		_, err = fx.service.OpenForRevote(adminCtx(), "ev-1", 1)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrRoundMismatch)
	}

	stored, err := fx.events.FetchByID(context.Background(), "ev-1")
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Round, "stale attempts left the stored round alone")
	assert.Equal(t, 1, fx.events.ReplaceCalls, "only the winning transition wrote")
}

func TestCloseForRevote(t *testing.T) {
	fx := newLifecycleFixture(t, nil)
	seeded := testutils.SeededEvent("ev-1", "Radar 2026", nil, "alice")
	seeded.OpenForRevote = true
	seeded.Round = 2
	fx.events.Seed(seeded)

	event, err := fx.service.CloseForRevote(adminCtx(), "ev-1")
	require.NoError(t, err)
	assert.False(t, event.OpenForRevote)
	assert.Equal(t, 2, event.Round, "closing a revote never touches the round")
}

func TestMoveToNextFlowStep(t *testing.T) {
	seed := testutils.BuildVotes(2, "ev-1", "Radar 2026", "tech0", domain.RingAdopt)
	seed = append(seed, testutils.BuildVotes(1, "ev-1", "Radar 2026", "tech0", domain.RingHold)...)

	fx := newLifecycleFixture(t, nil, seed...)
	fx.events.Seed(testutils.SeededEvent("ev-1", "Radar 2026",
		[]domain.Technology{{ID: "tech-tech0", Name: "tech0", Quadrant: domain.QuadrantTools}}, "alice"))

	event, err := fx.service.MoveToNextFlowStep(adminCtx(), "ev-1")
	require.NoError(t, err)

	assert.Equal(t, 2, event.Round)
	tech := event.TechnologyByName("tech0")
	require.NotNil(t, tech)
	require.NotNil(t, tech.VotingResult)
	assert.Equal(t, map[domain.Ring]int{domain.RingAdopt: 2, domain.RingHold: 1}, tech.VotingResult.ByRing)
}

func TestCancelAndUndoCancelEvent(t *testing.T) {
	seed := testutils.BuildVotes(2, "ev-1", "Radar 2026", "tech0", domain.RingAdopt)
	fx := newLifecycleFixture(t, nil, seed...)
	fx.events.Seed(testutils.SeededEvent("ev-1", "Radar 2026", nil, "alice"))

	event, err := fx.service.CancelEvent(adminCtx(), "ev-1")
	require.NoError(t, err)
	assert.True(t, event.Cancelled)
	for _, v := range fx.votes.All() {
		assert.True(t, v.Cancelled, "cancelling the event cancels its votes")
	}

	event, err = fx.service.UndoCancelEvent(adminCtx(), "ev-1")
	require.NoError(t, err)
	assert.False(t, event.Cancelled)
	for _, v := range fx.votes.All() {
		assert.False(t, v.Cancelled)
	}
}

func TestDeleteEvent(t *testing.T) {
	seed := testutils.BuildVotes(2, "ev-1", "Radar 2026", "tech0", domain.RingAdopt)
	fx := newLifecycleFixture(t, nil, seed...)
	fx.events.Seed(testutils.SeededEvent("ev-1", "Radar 2026", nil, "alice"))

	err := fx.service.DeleteEvent(testutils.WithIdentity(context.Background(), "mallory"), "ev-1")
	assert.ErrorIs(t, err, ErrPermissionDenied)

	require.NoError(t, fx.service.DeleteEvent(adminCtx(), "ev-1"))

	_, err = fx.events.FetchByID(context.Background(), "ev-1")
	assert.ErrorIs(t, err, ports.ErrNotFound)
	assert.Empty(t, fx.votes.All())
}

func TestTransition_RequiresEventID(t *testing.T) {
	fx := newLifecycleFixture(t, nil)

	_, err := fx.service.CloseEvent(adminCtx(), "")
	require.Error(t, err)
	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)
}
