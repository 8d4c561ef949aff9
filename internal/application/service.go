package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ahrav/go-radar/internal/domain"
	"github.com/ahrav/go-radar/internal/ports"
)

// ErrPermissionDenied indicates that the caller identity is missing or
// not in the event's administrator list. It is returned before any
// state mutation is performed.
var ErrPermissionDenied = errors.New("permission denied")

// Dependencies bundles the external collaborators a RadarService needs.
// The repositories, catalog, and identity provider are required; the
// remaining fields default to no-op implementations when nil.
type Dependencies struct {
	Events    ports.EventRepository
	Votes     ports.VoteRepository
	Catalog   ports.TechnologyCatalog
	Identity  ports.IdentityProvider
	Metrics   ports.MetricsCollector
	Publisher ports.RefreshPublisher
	Auditor   ports.CatalogAuditor
	Logger    *zap.Logger
}

// RadarService is the vote aggregation and blip-synthesis engine. It is
// stateless between invocations: every call re-reads the persisted
// state, computes, and writes back a full replacement of the derived
// fields. Concurrent mutating calls for the same event race
// last-writer-wins at the store; callers serialize event-level
// operations at a higher layer.
type RadarService struct {
	events    ports.EventRepository
	votes     ports.VoteRepository
	catalog   ports.TechnologyCatalog
	identity  ports.IdentityProvider
	metrics   ports.MetricsCollector
	publisher ports.RefreshPublisher
	auditor   ports.CatalogAuditor
	logger    *zap.Logger
	config    EngineConfig
}

// NewRadarService creates a RadarService from validated configuration
// and its collaborator set. Missing required collaborators are
// reported as an error rather than discovered at call time.
func NewRadarService(config EngineConfig, deps Dependencies) (*RadarService, error) {
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	if deps.Events == nil || deps.Votes == nil || deps.Catalog == nil || deps.Identity == nil {
		return nil, errors.New("events, votes, catalog, and identity collaborators are required")
	}

	if deps.Metrics == nil {
		deps.Metrics = noopMetrics{}
	}
	if deps.Publisher == nil {
		deps.Publisher = noopPublisher{}
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	return &RadarService{
		events:    deps.Events,
		votes:     deps.Votes,
		catalog:   deps.Catalog,
		identity:  deps.Identity,
		metrics:   deps.Metrics,
		publisher: deps.Publisher,
		auditor:   deps.Auditor,
		logger:    deps.Logger,
		config:    config,
	}, nil
}

// CalcOptions carries per-call overrides for a blip calculation.
// Zero-valued fields fall back to the engine configuration.
type CalcOptions struct {
	// ThresholdForRevote overrides the configured revote threshold.
	ThresholdForRevote *float64

	// RadarURL and BaseURL override the configured hyperlink targets
	// for cross-event descriptions.
	RadarURL string
	BaseURL  string
}

func (s *RadarService) threshold(opts CalcOptions) float64 {
	if opts.ThresholdForRevote != nil {
		return *opts.ThresholdForRevote
	}
	return s.config.ThresholdForRevote
}

// CalculateBlips recomputes the event's published radar from its
// current vote set: aggregate, synthesize, classify against the revote
// threshold, apply recommendation overrides, and write the whole
// result back onto the event. The caller must be an administrator of
// the event.
func (s *RadarService) CalculateBlips(ctx context.Context, eventID string, opts CalcOptions) (*domain.VotingEvent, error) {
	start := time.Now()

	event, votes, err := s.fetchEventAndVotes(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, event); err != nil {
		return nil, err
	}

	aggregates := domain.AggregateVotes(votes)
	blips := domain.SynthesizeBlips(aggregates, domain.DescriptionOptions{})

	flagged := domain.MarkForRevote(blips, s.threshold(opts))
	blips = domain.ApplyRecommendations(blips, event.Technologies)

	event.ApplyBlips(blips)
	if err := s.events.Replace(ctx, event); err != nil {
		return nil, fmt.Errorf("replacing event %s: %w", eventID, err)
	}

	s.metrics.RecordCounter("radar_blips_computed_total", float64(len(blips)), map[string]string{"scope": "event"})
	s.metrics.RecordCounter("radar_revote_flagged_total", float64(flagged), nil)
	s.metrics.RecordLatency("calculate_blips", time.Since(start), nil)
	s.publisher.Publish(ctx, ports.RefreshEvent{EventID: eventID, Reason: "blips.calculated"})
	s.logger.Info("calculated blips",
		zap.String("event_id", eventID),
		zap.Int("blips", len(blips)),
		zap.Int("flagged_for_revote", flagged))

	return event, nil
}

// CalculateBlipsFromAllEvents aggregates votes across every event into
// one blip list with per-event breakdowns and optional hyperlinks.
// The cross-event aggregate is read-only: nothing is persisted and the
// revote classifier never runs, because a revote is scoped to a single
// event. An empty vote set yields an empty blip list, not an error.
func (s *RadarService) CalculateBlipsFromAllEvents(ctx context.Context, opts CalcOptions) ([]domain.Blip, error) {
	start := time.Now()

	votes, err := s.votes.FetchAllVotes(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching votes from all events: %w", err)
	}

	radarURL, baseURL := opts.RadarURL, opts.BaseURL
	if radarURL == "" {
		radarURL = s.config.RadarURL
	}
	if baseURL == "" {
		baseURL = s.config.BaseURL
	}

	aggregates := domain.AggregateVotes(votes)
	blips := domain.SynthesizeBlips(aggregates, domain.DescriptionOptions{
		PerEvent: true,
		RadarURL: radarURL,
		BaseURL:  baseURL,
	})

	s.metrics.RecordCounter("radar_blips_computed_total", float64(len(blips)), map[string]string{"scope": "all"})
	s.metrics.RecordLatency("calculate_blips_all_events", time.Since(start), nil)

	return blips, nil
}

// BallotEntry is one technology rating inside a ballot.
type BallotEntry struct {
	TechnologyID   string          `validate:"required"`
	TechnologyName string          `validate:"required"`
	Quadrant       domain.Quadrant `validate:"required"`
	IsNew          bool
	Ring           domain.Ring `validate:"required"`
	Comment        string
	Tags           []string
}

// Ballot is a voter's complete submission for one event and round.
type Ballot struct {
	EventID string `validate:"required"`

	// Override requests replacement of the voter's prior votes for the
	// event. Without it a resubmission in the same round is rejected.
	Override bool

	Entries []BallotEntry `validate:"required,min=1,dive"`
}

// SubmitVotes records a voter's ballot for an event's current round.
// A voter has already voted when their highest recorded round equals
// the event's current round; resubmitting then requires the Override
// flag, which deletes and replaces all of the voter's prior votes for
// the event. A successful write broadcasts a refresh notification.
func (s *RadarService) SubmitVotes(ctx context.Context, ballot Ballot) ([]domain.Vote, error) {
	voter, err := s.identity.Identity(ctx)
	if err != nil || voter == "" {
		return nil, fmt.Errorf("resolving voter identity: %w", ports.ErrNoIdentity)
	}

	if err := validate.Struct(ballot); err != nil {
		return nil, fmt.Errorf("ballot validation failed: %w", err)
	}
	for _, entry := range ballot.Entries {
		if !entry.Ring.Valid() {
			verr := domain.NewValidationError("ballot")
			verr.AddError(fmt.Sprintf("unknown ring %q for technology %s", entry.Ring, entry.TechnologyName))
			return nil, verr
		}
	}

	event, existing, err := s.fetchEventAndVotes(ctx, ballot.EventID)
	if err != nil {
		return nil, err
	}
	if event.Cancelled {
		return nil, &domain.TransitionError{Subject: event.ID, Transition: "submitVotes", Err: domain.ErrEventCancelled}
	}
	if event.Status != domain.StatusOpen {
		return nil, &domain.TransitionError{Subject: event.ID, Transition: "submitVotes", Err: domain.ErrEventClosed}
	}

	// Read-then-decide: the duplicate check is not atomically enforced;
	// a race slipping through is corrected after the fact via Override.
	highestRound := 0
	for _, v := range existing {
		if v.Voter == voter && v.EventRound > highestRound {
			highestRound = v.EventRound
		}
	}
	alreadyVoted := highestRound >= event.Round

	if alreadyVoted && !ballot.Override {
		return nil, &domain.TransitionError{Subject: event.ID, Transition: "submitVotes", Err: domain.ErrAlreadyVoted}
	}

	votes := make([]domain.Vote, 0, len(ballot.Entries))
	for _, entry := range ballot.Entries {
		votes = append(votes, domain.Vote{
			ID:             uuid.NewString(),
			TechnologyID:   entry.TechnologyID,
			TechnologyName: entry.TechnologyName,
			Quadrant:       entry.Quadrant,
			IsNew:          entry.IsNew,
			Ring:           entry.Ring,
			Voter:          voter,
			EventID:        event.ID,
			EventName:      event.Name,
			EventRound:     event.Round,
			Comment:        entry.Comment,
			Tags:           entry.Tags,
		})
	}

	if alreadyVoted {
		err = s.votes.ReplaceVotesForVoter(ctx, voter, event.ID, votes)
	} else {
		err = s.votes.InsertVotes(ctx, votes)
	}
	if err != nil {
		return nil, fmt.Errorf("storing votes for event %s: %w", event.ID, err)
	}

	s.metrics.RecordCounter("radar_votes_processed_total", float64(len(votes)), nil)
	s.publisher.Publish(ctx, ports.RefreshEvent{EventID: event.ID, Reason: "votes.submitted"})
	s.logger.Info("recorded ballot",
		zap.String("event_id", event.ID),
		zap.Int("round", event.Round),
		zap.Int("votes", len(votes)),
		zap.Bool("override", ballot.Override))

	return votes, nil
}

// fetchEventAndVotes reads the event document and its votes
// concurrently. Both reads must succeed; a missing event surfaces as
// ports.ErrNotFound.
func (s *RadarService) fetchEventAndVotes(ctx context.Context, eventID string) (*domain.VotingEvent, []domain.Vote, error) {
	if eventID == "" {
		verr := domain.NewValidationError("event")
		verr.AddError("event id is required")
		return nil, nil, verr
	}

	var (
		event *domain.VotingEvent
		votes []domain.Vote
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		event, err = s.events.FetchByID(gctx, eventID)
		if err != nil {
			return fmt.Errorf("fetching event %s: %w", eventID, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		votes, err = s.votes.FetchVotes(gctx, eventID)
		if err != nil {
			return fmt.Errorf("fetching votes for event %s: %w", eventID, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return event, votes, nil
}

// authorize checks the caller against the event's administrator list.
// It runs before any transition logic; a missing identity or a caller
// absent from the list fails the operation without mutating state.
func (s *RadarService) authorize(ctx context.Context, event *domain.VotingEvent) error {
	identity, err := s.identity.Identity(ctx)
	if err != nil || identity == "" {
		return fmt.Errorf("%w: no caller identity", ErrPermissionDenied)
	}
	if !event.IsAdministrator(identity) {
		s.metrics.RecordCounter("radar_permission_denied_total", 1, nil)
		return fmt.Errorf("%w: %s is not an administrator of event %s", ErrPermissionDenied, identity, event.ID)
	}
	return nil
}

// noopMetrics discards all measurements.
type noopMetrics struct{}

func (noopMetrics) RecordLatency(string, time.Duration, map[string]string) {}
func (noopMetrics) RecordCounter(string, float64, map[string]string)       {}
func (noopMetrics) RecordGauge(string, float64, map[string]string)         {}
func (noopMetrics) RecordHistogram(string, float64, map[string]string)     {}

// noopPublisher drops refresh notifications.
type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, ports.RefreshEvent) {}
