package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"time"

	"github.com/creasebook/scoring/internal/domain"
	"github.com/creasebook/scoring/internal/metrics"
	"github.com/creasebook/scoring/internal/projection"
	"github.com/creasebook/scoring/internal/roster"
	"github.com/creasebook/scoring/internal/scoring"
	"github.com/creasebook/scoring/internal/stats"
	"github.com/creasebook/scoring/internal/store"
	"github.com/google/uuid"
)

// Broadcaster pushes live updates to the viewers of a match.
type Broadcaster interface {
	PublishMatch(matchID uuid.UUID, event string, data interface{})
}

// Live update event names.
const (
	BroadcastSnapshot = "snapshot"
	BroadcastReset    = "reset"
)

// MatchService orchestrates scoring: it loads squads, runs the processor
// inside the store's per-match update and fans the result out.
type MatchService struct {
	store   store.AggregateStore
	roster  roster.Directory
	proc    *scoring.Processor
	cache   projection.Store
	hub     Broadcaster
	metrics *metrics.Recorder
	fanout  *fanOut
	rules   domain.Rules
	logger  *slog.Logger
	now     func() time.Time
}

// MatchServiceDeps are the collaborators of a MatchService. Cache, Hub and
// Metrics are optional.
type MatchServiceDeps struct {
	Store   store.AggregateStore
	Roster  roster.Directory
	Cache   projection.Store
	Hub     Broadcaster
	Metrics *metrics.Recorder
	Rules   domain.Rules
	Logger  *slog.Logger
}

// NewMatchService creates a MatchService.
func NewMatchService(deps MatchServiceDeps) *MatchService {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	rules := deps.Rules
	if rules == (domain.Rules{}) {
		rules = domain.DefaultRules()
	}
	return &MatchService{
		store:   deps.Store,
		roster:  deps.Roster,
		proc:    scoring.NewProcessor(logger),
		cache:   deps.Cache,
		hub:     deps.Hub,
		metrics: deps.Metrics,
		fanout:  newFanOut(),
		rules:   rules,
		logger:  logger,
		now:     time.Now,
	}
}

// ScheduleInput holds the fixture of a new match.
type ScheduleInput struct {
	HomeTeamID uuid.UUID     `json:"home_team_id"`
	AwayTeamID uuid.UUID     `json:"away_team_id"`
	Venue      string        `json:"venue"`
	StartsAt   time.Time     `json:"starts_at"`
	Rules      *domain.Rules `json:"rules,omitempty"`
}

// ScheduleMatch creates an UPCOMING match between two known teams.
func (s *MatchService) ScheduleMatch(ctx context.Context, input ScheduleInput) (*domain.MatchState, error) {
	if err := domain.ValidateFixture(input.HomeTeamID, input.AwayTeamID, input.Venue); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}
	rules := s.rules
	if input.Rules != nil {
		rules = *input.Rules
	}
	if err := domain.ValidateRules(rules); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}
	for _, id := range []uuid.UUID{input.HomeTeamID, input.AwayTeamID} {
		if _, err := s.roster.Team(ctx, id); err != nil {
			return nil, err
		}
	}
	startsAt := input.StartsAt
	if startsAt.IsZero() {
		startsAt = s.now()
	}

	state := domain.NewUpcomingMatch(uuid.New(), input.HomeTeamID, input.AwayTeamID, input.Venue, startsAt, rules)
	state.UpdatedAt = s.now()
	agg := domain.Aggregate{State: state}
	if err := s.store.Create(ctx, agg, []domain.OutboxDraft{domain.NewMatchScheduledEvent(&state)}); err != nil {
		return nil, fmt.Errorf("create match: %w", err)
	}
	s.logger.Info("match scheduled", "match_id", state.MatchID, "home", input.HomeTeamID, "away", input.AwayTeamID)
	return &state, nil
}

// SetLive records the toss and opens the match for scoring.
func (s *MatchService) SetLive(ctx context.Context, matchID uuid.UUID, toss domain.Toss) (*projection.Snapshot, error) {
	agg, err := s.store.Update(ctx, matchID, func(current domain.Aggregate, _ int64) (store.Change, error) {
		st := &current.State
		if st.Status != domain.StatusUpcoming {
			return store.Change{}, domain.ErrIllegalTransition("match %s is %s, not UPCOMING", matchID, st.Status)
		}
		if err := st.ApplyToss(toss); err != nil {
			return store.Change{}, err
		}
		st.Status = domain.StatusLive
		st.Version++
		st.UpdatedAt = s.now()
		scoring.RefreshRates(st)
		return store.Change{
			Aggregate: current,
			Events:    []domain.OutboxDraft{domain.NewMatchLiveEvent(st)},
		}, nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("match live", "match_id", matchID, "batting_team_id", agg.State.BattingTeamID)
	return s.publish(ctx, agg, nil)
}

// ApplyResult is the response to a scoring event.
type ApplyResult struct {
	Snapshot *projection.Snapshot `json:"snapshot"`
	Outcome  scoring.Outcome      `json:"outcome"`
}

// Apply runs one scoring event against a match. A rejected event leaves the
// match exactly as it was.
func (s *MatchService) Apply(ctx context.Context, matchID uuid.UUID, ev domain.Event) (*ApplyResult, error) {
	start := s.now()
	res, err := s.apply(ctx, matchID, ev)
	s.metrics.RecordEvent(ev.Type, time.Since(start), err)
	if err != nil {
		s.logger.Debug("scoring event rejected", "match_id", matchID, "event", ev.Type, "error", err)
		return nil, err
	}
	return res, nil
}

func (s *MatchService) apply(ctx context.Context, matchID uuid.UUID, ev domain.Event) (*ApplyResult, error) {
	if err := ev.Validate(); err != nil {
		return nil, err
	}
	squads, err := s.squadsFor(ctx, matchID)
	if err != nil {
		return nil, err
	}

	var outcome scoring.Outcome
	agg, err := s.store.Update(ctx, matchID, func(current domain.Aggregate, nextSeq int64) (store.Change, error) {
		next, out, err := s.proc.Apply(current, squads, ev)
		if err != nil {
			return store.Change{}, err
		}
		now := s.now()
		next.State.UpdatedAt = now
		delivery := domain.Delivery{
			MatchID:   matchID,
			Seq:       nextSeq,
			Innings:   current.State.Innings,
			Over:      current.State.OverDisplay(),
			Event:     ev,
			AppliedAt: now,
		}
		events := []domain.OutboxDraft{domain.NewDeliveryAppliedEvent(delivery, &next.State)}
		if out.FirstInnings != nil {
			events = append(events, domain.NewInningsCompletedEvent(matchID, *out.FirstInnings))
		}
		if out.MatchCompleted {
			events = append(events, domain.NewMatchCompletedEvent(&next.State))
		}
		outcome = out
		return store.Change{Aggregate: next, Delivery: &delivery, Events: events}, nil
	})
	if err != nil {
		return nil, err
	}
	if outcome.MatchCompleted {
		s.logger.Info("match completed", "match_id", matchID, "result", agg.State.Result.Kind)
	}

	snap, err := s.publish(ctx, agg, &squads)
	if err != nil {
		return nil, err
	}
	return &ApplyResult{Snapshot: snap, Outcome: outcome}, nil
}

// Snapshot returns the live view, served from the cache when present.
func (s *MatchService) Snapshot(ctx context.Context, matchID uuid.UUID) (*projection.Snapshot, error) {
	if s.cache != nil {
		snap, err := projection.GetSnapshot(ctx, s.cache, matchID)
		if err == nil {
			return snap, nil
		}
		if !errors.Is(err, projection.ErrMiss) {
			s.logger.Warn("snapshot cache read failed", "match_id", matchID, "error", err)
		}
	}
	agg, err := s.store.Load(ctx, matchID)
	if err != nil {
		return nil, err
	}
	squads, err := s.squads(ctx, &agg.State)
	if err != nil {
		return nil, err
	}
	snap := projection.BuildSnapshot(agg, squads)
	s.cacheSnapshot(ctx, snap)
	return &snap, nil
}

// Scorecard returns the card of one innings.
func (s *MatchService) Scorecard(ctx context.Context, matchID uuid.UUID, innings int) (*projection.Scorecard, error) {
	agg, err := s.store.Load(ctx, matchID)
	if err != nil {
		return nil, err
	}
	squads, err := s.squads(ctx, &agg.State)
	if err != nil {
		return nil, err
	}
	return projection.BuildScorecard(agg, squads, innings)
}

// Standings derives the points table across every completed match.
func (s *MatchService) Standings(ctx context.Context) ([]stats.TeamStanding, error) {
	states, err := s.store.ListCompleted(ctx)
	if err != nil {
		return nil, fmt.Errorf("list completed: %w", err)
	}
	results := make([]stats.CompletedMatch, 0, len(states))
	for _, st := range states {
		cm := stats.CompletedMatch{HomeTeamID: st.HomeTeamID, AwayTeamID: st.AwayTeamID}
		if st.Result != nil {
			if st.Result.Decisive() {
				cm.WinnerID = st.Result.WinnerID
			}
			cm.Tied = st.Result.Kind == domain.ResultTie
		}
		results = append(results, cm)
	}
	return stats.Standings(results), nil
}

// ResetMatch returns a match to UPCOMING and purges its ledger and event log.
func (s *MatchService) ResetMatch(ctx context.Context, matchID uuid.UUID) (*domain.MatchState, error) {
	agg, err := s.store.Reset(ctx, matchID, func(current domain.MatchState) (domain.MatchState, []domain.OutboxDraft, error) {
		fresh := domain.NewUpcomingMatch(current.MatchID, current.HomeTeamID, current.AwayTeamID,
			current.Venue, current.StartsAt, current.Rules)
		fresh.Version = current.Version + 1
		fresh.UpdatedAt = s.now()
		return fresh, []domain.OutboxDraft{domain.NewMatchResetEvent(matchID)}, nil
	})
	if err != nil {
		return nil, err
	}
	s.fanout.do(matchID, agg.State.Version, func() {
		s.cacheReset(ctx, agg)
		if s.hub != nil {
			s.hub.PublishMatch(matchID, BroadcastReset, agg.State)
		}
	})
	s.logger.Warn("match reset", "match_id", matchID)
	return &agg.State, nil
}

// VerifyResult compares a replay of the event log with the stored aggregate.
type VerifyResult struct {
	*scoring.ReplayResult
	Consistent bool     `json:"consistent"`
	Mismatches []string `json:"mismatches,omitempty"`
}

// Verify replays the match's event log from the toss and checks that it
// reproduces the stored state and ledger.
func (s *MatchService) Verify(ctx context.Context, matchID uuid.UUID) (*VerifyResult, error) {
	agg, err := s.store.Load(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if agg.State.Toss == nil {
		return nil, domain.ErrIllegalTransition("match %s has not started", matchID)
	}
	log, err := s.store.Deliveries(ctx, matchID)
	if err != nil {
		return nil, err
	}
	squads, err := s.squads(ctx, &agg.State)
	if err != nil {
		return nil, err
	}

	st := agg.State
	initial := domain.NewUpcomingMatch(st.MatchID, st.HomeTeamID, st.AwayTeamID, st.Venue, st.StartsAt, st.Rules)
	if err := initial.ApplyToss(*st.Toss); err != nil {
		return nil, err
	}
	initial.Status = domain.StatusLive

	events := make([]domain.Event, len(log))
	for i, d := range log {
		events[i] = d.Event
	}
	replay, err := s.proc.Replay(domain.Aggregate{State: initial}, squads, events)
	if err != nil {
		s.logger.Error("match replay rejected", "match_id", matchID, "error", err)
		return &VerifyResult{Mismatches: []string{err.Error()}}, nil
	}

	res := &VerifyResult{ReplayResult: replay}
	res.Mismatches = compareAggregates(replay.Final, agg)
	res.Consistent = replay.AllPassed && len(res.Mismatches) == 0
	if !res.Consistent {
		s.logger.Error("match replay diverged", "match_id", matchID, "mismatches", res.Mismatches)
	}
	return res, nil
}

func compareAggregates(replayed, stored domain.Aggregate) []string {
	var out []string
	a, b := replayed.State, stored.State
	check := func(name string, x, y any) {
		if !reflect.DeepEqual(x, y) {
			out = append(out, fmt.Sprintf("%s: replayed %v, stored %v", name, x, y))
		}
	}
	check("status", a.Status, b.Status)
	check("innings", a.Innings, b.Innings)
	check("runs", a.Runs, b.Runs)
	check("wickets", a.Wickets, b.Wickets)
	check("extras", a.Extras, b.Extras)
	check("legal_balls", a.LegalBalls(), b.LegalBalls())
	check("striker", a.StrikerID, b.StrikerID)
	check("non_striker", a.NonStrikerID, b.NonStrikerID)
	check("bowler", a.BowlerID, b.BowlerID)
	check("first_innings", a.FirstInnings, b.FirstInnings)
	check("result", a.Result, b.Result)
	for n := 1; n <= 2; n++ {
		check(fmt.Sprintf("batting[%d]", n), replayed.Ledger.BattingFor(n), stored.Ledger.BattingFor(n))
		check(fmt.Sprintf("bowling[%d]", n), replayed.Ledger.BowlingFor(n), stored.Ledger.BowlingFor(n))
	}
	return out
}

// Availability lists the players who can be sent in next.
type Availability struct {
	Batters []domain.Player `json:"batters"`
	Bowlers []domain.Player `json:"bowlers"`
}

// Available returns the batters yet to bat and the bowlers allowed the next over.
func (s *MatchService) Available(ctx context.Context, matchID uuid.UUID) (*Availability, error) {
	agg, err := s.store.Load(ctx, matchID)
	if err != nil {
		return nil, err
	}
	squads, err := s.squads(ctx, &agg.State)
	if err != nil {
		return nil, err
	}
	return &Availability{
		Batters: scoring.AvailableBatters(&agg, squads),
		Bowlers: scoring.AvailableBowlers(&agg, squads),
	}, nil
}

func (s *MatchService) squadsFor(ctx context.Context, matchID uuid.UUID) (roster.Squads, error) {
	agg, err := s.store.Load(ctx, matchID)
	if err != nil {
		return roster.Squads{}, err
	}
	return s.squads(ctx, &agg.State)
}

func (s *MatchService) squads(ctx context.Context, st *domain.MatchState) (roster.Squads, error) {
	squads, err := roster.Load(ctx, s.roster, st.HomeTeamID, st.AwayTeamID)
	if err != nil {
		return roster.Squads{}, fmt.Errorf("load squads for match %s: %w", st.MatchID, err)
	}
	return squads, nil
}

// publish refreshes the cached snapshot and pushes it to viewers.
func (s *MatchService) publish(ctx context.Context, agg domain.Aggregate, squads *roster.Squads) (*projection.Snapshot, error) {
	if squads == nil {
		sq, err := s.squads(ctx, &agg.State)
		if err != nil {
			return nil, err
		}
		squads = &sq
	}
	snap := projection.BuildSnapshot(agg, *squads)
	sent := s.fanout.do(snap.MatchID, snap.Version, func() {
		s.cacheSnapshot(ctx, snap)
		if s.hub != nil {
			s.hub.PublishMatch(snap.MatchID, BroadcastSnapshot, snap)
		}
	})
	if !sent {
		s.logger.Debug("stale snapshot not published", "match_id", snap.MatchID, "version", snap.Version)
	}
	return &snap, nil
}

// cacheReset replaces the cached view with the fresh UPCOMING one, falling
// back to dropping it when the squads cannot be read.
func (s *MatchService) cacheReset(ctx context.Context, agg domain.Aggregate) {
	if s.cache == nil {
		return
	}
	squads, err := s.squads(ctx, &agg.State)
	if err == nil {
		s.cacheSnapshot(ctx, projection.BuildSnapshot(agg, squads))
		return
	}
	if err := projection.InvalidateSnapshot(ctx, s.cache, agg.State.MatchID); err != nil {
		s.logger.Warn("snapshot cache invalidate failed", "match_id", agg.State.MatchID, "error", err)
	}
}

func (s *MatchService) cacheSnapshot(ctx context.Context, snap projection.Snapshot) {
	if s.cache == nil {
		return
	}
	written, err := projection.UpdateSnapshot(ctx, s.cache, snap)
	if err != nil {
		s.logger.Warn("snapshot cache write failed", "match_id", snap.MatchID, "error", err)
		return
	}
	if !written {
		s.logger.Debug("cached snapshot is newer", "match_id", snap.MatchID, "version", snap.Version)
	}
}
