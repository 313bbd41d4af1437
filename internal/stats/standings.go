package stats

import (
	"sort"

	"github.com/google/uuid"
)

const (
	PointsWin        = 2
	PointsNoDecision = 1
)

// CompletedMatch is the minimal view of a finished match needed for standings.
// WinnerID is uuid.Nil for ties, no results and abandonments.
type CompletedMatch struct {
	HomeTeamID uuid.UUID
	AwayTeamID uuid.UUID
	WinnerID   uuid.UUID
	Tied       bool
}

// TeamStanding is a team's row in the points table.
type TeamStanding struct {
	TeamID   uuid.UUID `json:"team_id"`
	Played   int       `json:"played"`
	Won      int       `json:"won"`
	Lost     int       `json:"lost"`
	Tied     int       `json:"tied"`
	NoResult int       `json:"no_result"`
	Points   int       `json:"points"`
}

// Standings derives the points table, ordered by points then wins. Remaining
// ties are broken by team id so the output is stable.
func Standings(results []CompletedMatch) []TeamStanding {
	rows := make(map[uuid.UUID]*TeamStanding)
	row := func(id uuid.UUID) *TeamStanding {
		r, ok := rows[id]
		if !ok {
			r = &TeamStanding{TeamID: id}
			rows[id] = r
		}
		return r
	}

	for _, m := range results {
		home, away := row(m.HomeTeamID), row(m.AwayTeamID)
		home.Played++
		away.Played++
		switch {
		case m.WinnerID == m.HomeTeamID:
			home.Won++
			away.Lost++
		case m.WinnerID == m.AwayTeamID:
			away.Won++
			home.Lost++
		case m.Tied:
			home.Tied++
			away.Tied++
		default:
			home.NoResult++
			away.NoResult++
		}
	}

	out := make([]TeamStanding, 0, len(rows))
	for _, r := range rows {
		r.Points = r.Won*PointsWin + (r.Tied+r.NoResult)*PointsNoDecision
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		if out[i].Won != out[j].Won {
			return out[i].Won > out[j].Won
		}
		return out[i].TeamID.String() < out[j].TeamID.String()
	})
	return out
}
