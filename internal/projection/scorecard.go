package projection

import (
	"fmt"

	"github.com/creasebook/scoring/internal/domain"
	"github.com/creasebook/scoring/internal/innings"
	"github.com/creasebook/scoring/internal/roster"
	"github.com/creasebook/scoring/internal/stats"
	"github.com/google/uuid"
)

// BattingLine is one row of the batting card.
type BattingLine struct {
	Order      int       `json:"order"`
	PlayerID   uuid.UUID `json:"player_id"`
	Name       string    `json:"name"`
	Dismissal  string    `json:"dismissal"`
	Runs       int       `json:"runs"`
	Balls      int       `json:"balls"`
	Fours      int       `json:"fours"`
	Sixes      int       `json:"sixes"`
	StrikeRate float64   `json:"strike_rate"`
}

// BowlingLine is one row of the bowling card.
type BowlingLine struct {
	PlayerID     uuid.UUID `json:"player_id"`
	Name         string    `json:"name"`
	Overs        string    `json:"overs"`
	Maidens      int       `json:"maidens"`
	RunsConceded int       `json:"runs_conceded"`
	Wickets      int       `json:"wickets"`
	Economy      float64   `json:"economy"`
	Wides        int       `json:"wides"`
	NoBalls      int       `json:"no_balls"`
}

// Extras breaks down runs not credited to a batter.
type Extras struct {
	Wides   int `json:"wides"`
	NoBalls int `json:"no_balls"`
	Total   int `json:"total"`
}

// Scorecard is the full card of one innings.
type Scorecard struct {
	MatchID     uuid.UUID     `json:"match_id"`
	Innings     int           `json:"innings"`
	BattingTeam TeamRef       `json:"batting_team"`
	BowlingTeam TeamRef       `json:"bowling_team"`
	Batting     []BattingLine `json:"batting"`
	Bowling     []BowlingLine `json:"bowling"`
	Extras      Extras        `json:"extras"`
	Runs        int           `json:"runs"`
	Wickets     int           `json:"wickets"`
	Overs       string        `json:"overs"`
	RunRate     float64       `json:"run_rate"`
	Target      *int          `json:"target,omitempty"`
}

// BuildScorecard renders the card for innings 1 or 2. The second innings is
// only available once it has started.
func BuildScorecard(agg domain.Aggregate, squads roster.Squads, n int) (*Scorecard, error) {
	if err := domain.ValidateInnings(n); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}
	s := &agg.State
	if n > s.Innings {
		return nil, domain.ErrNotFound("innings", fmt.Sprintf("%s/%d", s.MatchID, n))
	}

	batting, bowling := s.BattingTeamID, s.BowlingTeamID
	if n < s.Innings {
		batting, bowling = bowling, batting
	}

	card := &Scorecard{
		MatchID:     s.MatchID,
		Innings:     n,
		BattingTeam: teamRef(squads, batting),
		BowlingTeam: teamRef(squads, bowling),
		Batting:     make([]BattingLine, 0),
		Bowling:     make([]BowlingLine, 0),
	}

	for _, e := range agg.Ledger.BattingFor(n) {
		card.Batting = append(card.Batting, BattingLine{
			Order:      e.Order,
			PlayerID:   e.PlayerID,
			Name:       squads.PlayerName(e.PlayerID),
			Dismissal:  DismissalText(e, squads),
			Runs:       e.Runs,
			Balls:      e.Balls,
			Fours:      e.Fours,
			Sixes:      e.Sixes,
			StrikeRate: e.StrikeRate(),
		})
		card.Runs += e.Runs
		if !e.NotOut {
			card.Wickets++
		}
	}

	legal := 0
	for _, e := range agg.Ledger.BowlingFor(n) {
		card.Bowling = append(card.Bowling, BowlingLine{
			PlayerID:     e.PlayerID,
			Name:         squads.PlayerName(e.PlayerID),
			Overs:        e.Overs(),
			Maidens:      e.Maidens,
			RunsConceded: e.RunsConceded,
			Wickets:      e.Wickets,
			Economy:      e.Economy(),
			Wides:        e.Wides,
			NoBalls:      e.NoBalls,
		})
		card.Extras.Wides += e.Wides
		card.Extras.NoBalls += e.NoBalls
		legal += e.Balls
	}
	card.Extras.Total = card.Extras.Wides + card.Extras.NoBalls
	card.Runs += card.Extras.Total
	card.Overs = stats.OversDisplay(legal)
	if rr, ok := stats.CurrentRunRate(card.Runs, legal); ok {
		card.RunRate = rr
	}
	if n == 2 {
		if t, ok := innings.Target(s); ok {
			card.Target = &t
		}
	}
	return card, nil
}

// DismissalText renders how a batter got out in scorebook notation.
func DismissalText(e domain.BattingEntry, squads roster.Squads) string {
	if e.NotOut || e.Dismissal == nil {
		return "not out"
	}
	d := e.Dismissal
	bowler := squads.PlayerName(d.BowlerID)
	fielder := squads.PlayerName(d.FielderID)
	switch d.Kind {
	case domain.WicketBowled:
		return "b " + bowler
	case domain.WicketCaught:
		if d.FielderID == uuid.Nil || d.FielderID == d.BowlerID {
			return "c & b " + bowler
		}
		return fmt.Sprintf("c %s b %s", fielder, bowler)
	case domain.WicketLBW:
		return "lbw b " + bowler
	case domain.WicketStumped:
		return fmt.Sprintf("st %s b %s", fielder, bowler)
	case domain.WicketHitWicket:
		return "hit wicket b " + bowler
	case domain.WicketRunOut:
		if fielder == "" {
			return "run out"
		}
		return fmt.Sprintf("run out (%s)", fielder)
	}
	return string(d.Kind)
}
