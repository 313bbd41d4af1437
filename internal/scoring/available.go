package scoring

import (
	"github.com/creasebook/scoring/internal/domain"
	"github.com/creasebook/scoring/internal/roster"
)

// AvailableBatters lists the batting side's players who have not yet batted
// this innings, in squad order.
func AvailableBatters(agg *domain.Aggregate, squads roster.Squads) []domain.Player {
	s := &agg.State
	out := make([]domain.Player, 0)
	for _, p := range squads.Squad(s.BattingTeamID) {
		if agg.Ledger.Batter(s.Innings, p.ID) == nil {
			out = append(out, p)
		}
	}
	return out
}

// AvailableBowlers lists the fielding side's players eligible for the next
// over: everyone except the bowler of the previous over.
func AvailableBowlers(agg *domain.Aggregate, squads roster.Squads) []domain.Player {
	s := &agg.State
	out := make([]domain.Player, 0)
	for _, p := range squads.Squad(s.BowlingTeamID) {
		if p.ID != s.PreviousBowlerID {
			out = append(out, p)
		}
	}
	return out
}
