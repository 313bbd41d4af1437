package projection

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/creasebook/scoring/internal/domain"
	"github.com/creasebook/scoring/internal/innings"
	"github.com/creasebook/scoring/internal/roster"
	"github.com/creasebook/scoring/internal/scoring"
	"github.com/google/uuid"
)

// SnapshotTTL bounds how long a cached live snapshot survives without a refresh.
const SnapshotTTL = 6 * time.Hour

// TeamRef names a team.
type TeamRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// PlayerRef names a player.
type PlayerRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// BatterView is a batter at the crease.
type BatterView struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Runs       int       `json:"runs"`
	Balls      int       `json:"balls"`
	Fours      int       `json:"fours"`
	Sixes      int       `json:"sixes"`
	StrikeRate float64   `json:"strike_rate"`
}

// BowlerView is the bowler of the over in progress.
type BowlerView struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	RunsConceded int       `json:"runs_conceded"`
	Wickets      int       `json:"wickets"`
	Overs        string    `json:"overs"`
	Economy      float64   `json:"economy"`
	ThisOverRuns int       `json:"this_over_runs"`
}

// Snapshot is the live score view served to viewers.
type Snapshot struct {
	MatchID         uuid.UUID          `json:"match_id"`
	Status          domain.MatchStatus `json:"status"`
	Innings         int                `json:"innings"`
	BattingTeam     TeamRef            `json:"batting_team"`
	BowlingTeam     TeamRef            `json:"bowling_team"`
	Runs            int                `json:"runs"`
	Wickets         int                `json:"wickets"`
	Extras          int                `json:"extras"`
	Over            string             `json:"over"`
	ThisOver        []domain.Ball      `json:"this_over"`
	Striker         *BatterView        `json:"striker,omitempty"`
	NonStriker      *BatterView        `json:"non_striker,omitempty"`
	Bowler          *BowlerView        `json:"bowler,omitempty"`
	CurrentRunRate  *float64           `json:"current_run_rate"`
	RequiredRunRate *float64           `json:"required_run_rate"`
	Target          *int               `json:"target"`
	BallsRemaining  int                `json:"balls_remaining"`
	NeedsBatsman    bool               `json:"needs_batsman"`
	NeedsBowler     bool               `json:"needs_bowler"`
	Result          *domain.Result     `json:"result,omitempty"`
	ResultText      string             `json:"result_text,omitempty"`
	ManOfMatch      *PlayerRef         `json:"man_of_match,omitempty"`
	Version         int64              `json:"version"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// BuildSnapshot renders the live view of an aggregate.
func BuildSnapshot(agg domain.Aggregate, squads roster.Squads) Snapshot {
	s := &agg.State
	snap := Snapshot{
		MatchID:         s.MatchID,
		Status:          s.Status,
		Innings:         s.Innings,
		BattingTeam:     teamRef(squads, s.BattingTeamID),
		BowlingTeam:     teamRef(squads, s.BowlingTeamID),
		Runs:            s.Runs,
		Wickets:         s.Wickets,
		Extras:          s.Extras,
		Over:            s.OverDisplay(),
		ThisOver:        append([]domain.Ball{}, s.ThisOver...),
		CurrentRunRate:  s.CurrentRunRate,
		RequiredRunRate: s.RequiredRunRate,
		BallsRemaining:  s.BallsRemaining(),
		Result:          s.Result,
		ResultText:      ResultText(s.Result, squads),
		Version:         s.Version,
		UpdatedAt:       s.UpdatedAt,
	}
	if t, ok := innings.Target(s); ok {
		snap.Target = &t
	}
	if s.Status == domain.StatusLive {
		pending := scoring.Pending(s)
		snap.NeedsBatsman = pending.NeedsBatsman
		snap.NeedsBowler = pending.NeedsBowler
	}
	snap.Striker = batterView(&agg, squads, s.StrikerID)
	snap.NonStriker = batterView(&agg, squads, s.NonStrikerID)
	if s.BowlerID != uuid.Nil {
		bv := BowlerView{ID: s.BowlerID, Name: squads.PlayerName(s.BowlerID), Overs: "0.0"}
		if e := agg.Ledger.Bowler(s.Innings, s.BowlerID); e != nil {
			bv.RunsConceded = e.RunsConceded
			bv.Wickets = e.Wickets
			bv.Overs = e.Overs()
			bv.Economy = e.Economy()
		}
		bv.ThisOverRuns = s.CurrentOver().Runs
		snap.Bowler = &bv
	}
	if s.ManOfMatchID != uuid.Nil {
		snap.ManOfMatch = &PlayerRef{ID: s.ManOfMatchID, Name: squads.PlayerName(s.ManOfMatchID)}
	}
	return snap
}

func teamRef(squads roster.Squads, id uuid.UUID) TeamRef {
	t, _ := squads.Team(id)
	return TeamRef{ID: id, Name: t.Name}
}

func batterView(agg *domain.Aggregate, squads roster.Squads, id uuid.UUID) *BatterView {
	if id == uuid.Nil {
		return nil
	}
	v := &BatterView{ID: id, Name: squads.PlayerName(id)}
	if e := agg.Ledger.Batter(agg.State.Innings, id); e != nil {
		v.Runs, v.Balls, v.Fours, v.Sixes = e.Runs, e.Balls, e.Fours, e.Sixes
		v.StrikeRate = e.StrikeRate()
	}
	return v
}

func snapshotKey(matchID uuid.UUID) string {
	return fmt.Sprintf("projection:snapshot:%s", matchID)
}

// UpdateSnapshot caches the live view of a match. A snapshot older than the
// cached one is dropped, so concurrent writers can finish in any order.
func UpdateSnapshot(ctx context.Context, store Store, snap Snapshot) (bool, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return false, fmt.Errorf("marshal snapshot: %w", err)
	}
	return store.SetIfNewer(ctx, snapshotKey(snap.MatchID), data, snap.Version, SnapshotTTL)
}

// GetSnapshot retrieves the cached live view of a match.
func GetSnapshot(ctx context.Context, store Store, matchID uuid.UUID) (*Snapshot, error) {
	var snap Snapshot
	if err := GetJSON(ctx, store, snapshotKey(matchID), &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// InvalidateSnapshot drops the cached view, e.g. after a reset.
func InvalidateSnapshot(ctx context.Context, store Store, matchID uuid.UUID) error {
	return store.Delete(ctx, snapshotKey(matchID))
}
