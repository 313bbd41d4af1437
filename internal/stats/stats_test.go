package stats

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Rate Tests ---

func TestCurrentRunRate(t *testing.T) {
	tests := []struct {
		name       string
		runs       int
		balls      int
		want       float64
		wantActive bool
	}{
		{"no balls", 10, 0, 0, false},
		{"one over", 8, 6, 8, true},
		{"four point three overs", 31, 27, 6.89, true},
		{"ten overs", 150, 60, 15, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CurrentRunRate(tt.runs, tt.balls)
			assert.Equal(t, tt.wantActive, ok)
			assert.InDelta(t, tt.want, got, 0.001)
		})
	}
}

func TestRequiredRunRate(t *testing.T) {
	tests := []struct {
		name      string
		target    int
		runs      int
		remaining int
		want      float64
		ok        bool
	}{
		{"start of chase", 151, 0, 60, 15.1, true},
		{"midway", 151, 80, 30, 14.2, true},
		{"no balls left", 151, 140, 0, 0, false},
		{"already past target", 151, 155, 12, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := RequiredRunRate(tt.target, tt.runs, tt.remaining)
			assert.Equal(t, tt.ok, ok)
			assert.InDelta(t, tt.want, got, 0.001)
		})
	}
}

func TestStrikeRate(t *testing.T) {
	assert.Equal(t, 0.0, StrikeRate(10, 0))
	assert.Equal(t, 200.0, StrikeRate(4, 2))
	assert.InDelta(t, 1766.67, StrikeRate(53, 3), 0.001)
	assert.InDelta(t, 33.33, StrikeRate(1, 3), 0.001)
}

func TestEconomy(t *testing.T) {
	assert.Equal(t, 0.0, Economy(5, 0))
	assert.Equal(t, 6.0, Economy(6, 6))
	assert.InDelta(t, 10.29, Economy(12, 7), 0.001)
}

func TestOversDisplay(t *testing.T) {
	tests := []struct {
		balls int
		want  string
	}{
		{0, "0.0"},
		{5, "0.5"},
		{6, "1.0"},
		{7, "1.1"},
		{27, "4.3"},
		{60, "10.0"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, OversDisplay(tt.balls))
		})
	}
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 6.89, Round2(6.8888))
	assert.Equal(t, 1.01, Round2(1.005000001))
}

// --- Standings Tests ---

func TestStandings(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	results := []CompletedMatch{
		{HomeTeamID: a, AwayTeamID: b, WinnerID: a},
		{HomeTeamID: b, AwayTeamID: c, WinnerID: c},
		{HomeTeamID: a, AwayTeamID: c, Tied: true},
		{HomeTeamID: c, AwayTeamID: b},
	}

	table := Standings(results)
	require.Len(t, table, 3)

	byTeam := map[uuid.UUID]TeamStanding{}
	for _, r := range table {
		byTeam[r.TeamID] = r
	}

	assert.Equal(t, TeamStanding{TeamID: a, Played: 2, Won: 1, Tied: 1, Points: 3}, byTeam[a])
	assert.Equal(t, TeamStanding{TeamID: b, Played: 3, Lost: 2, NoResult: 1, Points: 1}, byTeam[b])
	assert.Equal(t, TeamStanding{TeamID: c, Played: 3, Won: 1, Tied: 1, NoResult: 1, Points: 4}, byTeam[c])

	assert.Equal(t, c, table[0].TeamID)
	assert.Equal(t, a, table[1].TeamID)
	assert.Equal(t, b, table[2].TeamID)
}

func TestStandings_Empty(t *testing.T) {
	assert.Empty(t, Standings(nil))
}
