package domain

import (
	"fmt"
	"slices"
	"time"

	"github.com/creasebook/scoring/internal/stats"
	"github.com/google/uuid"
)

// MatchStatus is the lifecycle of a match. Event application only moves it forward.
type MatchStatus string

const (
	StatusUpcoming  MatchStatus = "UPCOMING"
	StatusLive      MatchStatus = "LIVE"
	StatusCompleted MatchStatus = "COMPLETED"
)

// TossDecision is what the toss winner elected to do.
type TossDecision string

const (
	TossBat   TossDecision = "bat"
	TossField TossDecision = "field"
)

// Toss records the toss outcome.
type Toss struct {
	WinnerID uuid.UUID    `json:"winner_id"`
	Decision TossDecision `json:"decision"`
}

// Slot names a working position in the match state.
type Slot string

const (
	SlotStriker    Slot = "striker"
	SlotNonStriker Slot = "non_striker"
	SlotBowler     Slot = "bowler"
)

// BallsPerOver is the number of legal deliveries in an over.
const BallsPerOver = 6

// Rules are the per-match playing conditions.
type Rules struct {
	OversPerInnings   int `json:"overs_per_innings"`
	WicketsPerInnings int `json:"wickets_per_innings"`
}

// DefaultRules matches the ten-over format the scorers run.
func DefaultRules() Rules {
	return Rules{OversPerInnings: 10, WicketsPerInnings: 10}
}

// BallsPerInnings is the legal-ball allotment of one innings.
func (r Rules) BallsPerInnings() int {
	return r.OversPerInnings * BallsPerOver
}

// Ball is one delivery of the over in progress.
type Ball struct {
	Runs   int       `json:"runs"`
	Extra  ExtraKind `json:"extra,omitempty"`
	Wicket bool      `json:"wicket,omitempty"`
}

// Legal reports whether the delivery counts toward the over.
func (b Ball) Legal() bool { return b.Extra == "" }

// InningsSummary is the closing score of a completed first innings.
type InningsSummary struct {
	BattingTeamID uuid.UUID `json:"batting_team_id"`
	Runs          int       `json:"runs"`
	Wickets       int       `json:"wickets"`
	LegalBalls    int       `json:"legal_balls"`
}

// MatchState is the live aggregate root for one match.
//
// Batter working counters are not stored here; they are read from the ledger
// entries of the players occupying the striker and non-striker slots. Bowler
// over-in-progress counters are derived from ThisOver.
type MatchState struct {
	MatchID    uuid.UUID `json:"match_id"`
	HomeTeamID uuid.UUID `json:"home_team_id"`
	AwayTeamID uuid.UUID `json:"away_team_id"`
	Venue      string    `json:"venue,omitempty"`
	StartsAt   time.Time `json:"starts_at"`

	Toss   *Toss       `json:"toss,omitempty"`
	Status MatchStatus `json:"status"`
	Rules  Rules       `json:"rules"`

	Innings       int       `json:"innings"`
	BattingTeamID uuid.UUID `json:"batting_team_id"`
	BowlingTeamID uuid.UUID `json:"bowling_team_id"`

	Runs    int `json:"runs"`
	Wickets int `json:"wickets"`
	Extras  int `json:"extras"`
	Overs   int `json:"overs"`
	// Balls is the count of legal deliveries in the current over. Six means
	// the over has been bowled and is waiting for CompleteOver.
	Balls int `json:"balls"`

	StrikerID        uuid.UUID `json:"striker_id"`
	NonStrikerID     uuid.UUID `json:"non_striker_id"`
	BowlerID         uuid.UUID `json:"bowler_id"`
	PreviousBowlerID uuid.UUID `json:"previous_bowler_id"`
	ThisOver         []Ball    `json:"this_over"`

	FirstInnings *InningsSummary `json:"first_innings,omitempty"`

	CurrentRunRate  *float64  `json:"current_run_rate,omitempty"`
	RequiredRunRate *float64  `json:"required_run_rate,omitempty"`
	Result          *Result   `json:"result,omitempty"`
	ManOfMatchID    uuid.UUID `json:"man_of_match_id"`

	Version   int64     `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUpcomingMatch returns a scheduled match that has not reached the toss.
func NewUpcomingMatch(id, home, away uuid.UUID, venue string, startsAt time.Time, rules Rules) MatchState {
	return MatchState{
		MatchID:    id,
		HomeTeamID: home,
		AwayTeamID: away,
		Venue:      venue,
		StartsAt:   startsAt,
		Status:     StatusUpcoming,
		Rules:      rules,
		Innings:    1,
		ThisOver:   []Ball{},
	}
}

// ApplyToss records the toss and sets the first-innings batting side.
func (s *MatchState) ApplyToss(t Toss) error {
	if t.WinnerID != s.HomeTeamID && t.WinnerID != s.AwayTeamID {
		return ErrInvalidParticipant("toss winner %s is not playing this match", t.WinnerID)
	}
	loser := s.HomeTeamID
	if t.WinnerID == s.HomeTeamID {
		loser = s.AwayTeamID
	}
	switch t.Decision {
	case TossBat:
		s.BattingTeamID, s.BowlingTeamID = t.WinnerID, loser
	case TossField:
		s.BattingTeamID, s.BowlingTeamID = loser, t.WinnerID
	default:
		return ErrValidation(fmt.Sprintf("invalid toss decision %q", t.Decision))
	}
	s.Toss = &t
	return nil
}

// LegalBalls is the number of legal deliveries bowled in the current innings.
func (s *MatchState) LegalBalls() int {
	return s.Overs*BallsPerOver + s.Balls
}

// BallsRemaining is the unused legal-ball allotment of the current innings.
func (s *MatchState) BallsRemaining() int {
	return s.Rules.BallsPerInnings() - s.LegalBalls()
}

// OverDisplay renders the innings progress as "overs.balls", e.g. "4.3".
func (s *MatchState) OverDisplay() string {
	return stats.OversDisplay(s.LegalBalls())
}

// SlotPlayer returns the player in the given slot, or uuid.Nil.
func (s *MatchState) SlotPlayer(slot Slot) uuid.UUID {
	switch slot {
	case SlotStriker:
		return s.StrikerID
	case SlotNonStriker:
		return s.NonStrikerID
	case SlotBowler:
		return s.BowlerID
	}
	return uuid.Nil
}

// SetSlot assigns a player to a slot.
func (s *MatchState) SetSlot(slot Slot, id uuid.UUID) {
	switch slot {
	case SlotStriker:
		s.StrikerID = id
	case SlotNonStriker:
		s.NonStrikerID = id
	case SlotBowler:
		s.BowlerID = id
	}
}

// AtCrease reports whether the player is currently batting.
func (s *MatchState) AtCrease(id uuid.UUID) bool {
	return id != uuid.Nil && (s.StrikerID == id || s.NonStrikerID == id)
}

// RotateStrike swaps striker and non-striker. Derived batter counters follow
// the identities, so nothing else needs to move.
func (s *MatchState) RotateStrike() {
	s.StrikerID, s.NonStrikerID = s.NonStrikerID, s.StrikerID
}

// OverComplete reports whether six legal balls have been bowled in the current over.
func (s *MatchState) OverComplete() bool {
	return s.Balls >= BallsPerOver
}

// OverStarted reports whether any delivery, legal or not, has been bowled this over.
func (s *MatchState) OverStarted() bool {
	return len(s.ThisOver) > 0
}

// OverFigures are the bowler's working counters for the over in progress.
type OverFigures struct {
	Runs    int `json:"runs"`
	Wickets int `json:"wickets"`
	Balls   int `json:"balls"`
	Wides   int `json:"wides"`
	NoBalls int `json:"no_balls"`
}

// CurrentOver derives the over-in-progress counters from the over log.
func (s *MatchState) CurrentOver() OverFigures {
	var f OverFigures
	for _, b := range s.ThisOver {
		f.Runs += b.Runs
		if b.Wicket {
			f.Wickets++
		}
		switch b.Extra {
		case ExtraWide:
			f.Wides++
		case ExtraNoBall:
			f.NoBalls++
		default:
			f.Balls++
		}
	}
	return f
}

// Clone returns a deep copy of the state.
func (s MatchState) Clone() MatchState {
	c := s
	c.ThisOver = slices.Clone(s.ThisOver)
	if s.Toss != nil {
		t := *s.Toss
		c.Toss = &t
	}
	if s.FirstInnings != nil {
		fi := *s.FirstInnings
		c.FirstInnings = &fi
	}
	if s.CurrentRunRate != nil {
		v := *s.CurrentRunRate
		c.CurrentRunRate = &v
	}
	if s.RequiredRunRate != nil {
		v := *s.RequiredRunRate
		c.RequiredRunRate = &v
	}
	if s.Result != nil {
		r := *s.Result
		c.Result = &r
	}
	return c
}

// Aggregate is the unit of persistence and serialization: match state plus its ledger.
type Aggregate struct {
	State  MatchState `json:"state"`
	Ledger Ledger     `json:"ledger"`
}

// Clone returns a deep copy of the aggregate.
func (a Aggregate) Clone() Aggregate {
	return Aggregate{State: a.State.Clone(), Ledger: a.Ledger.Clone()}
}
