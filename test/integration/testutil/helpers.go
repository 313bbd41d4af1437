//go:build integration

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/creasebook/scoring/internal/domain"
	"github.com/google/uuid"
)

// Side is a seeded team and its eleven players in batting order.
type Side struct {
	Team    domain.Team
	Players []domain.Player
}

// SeedSide writes a team of eleven through the roster writer.
func (env *TestEnv) SeedSide(name string) Side {
	env.t.Helper()
	s := Side{Team: domain.Team{ID: uuid.New(), Name: name}}
	for i := 0; i < 11; i++ {
		s.Players = append(s.Players, domain.Player{ID: uuid.New(), TeamID: s.Team.ID, Name: fmt.Sprintf("%s %d", name, i+1)})
	}
	if err := env.Backend.Roster.AddSquad(context.Background(), s.Team, s.Players); err != nil {
		env.t.Fatalf("SeedSide %s: %v", name, err)
	}
	return s
}

// LiveMatch schedules home vs away and records a toss that puts home in to bat.
func (env *TestEnv) LiveMatch(home, away Side) uuid.UUID {
	env.t.Helper()
	resp := env.POST("/matches", map[string]uuid.UUID{"home_team_id": home.Team.ID, "away_team_id": away.Team.ID})
	if resp.StatusCode != http.StatusCreated {
		env.t.Fatalf("LiveMatch: schedule expected 201, got %d", resp.StatusCode)
	}
	var m domain.MatchState
	DecodeJSON(env.t, resp, &m)

	resp = env.POST("/matches/"+m.MatchID.String()+"/live", domain.Toss{WinnerID: home.Team.ID, Decision: domain.TossBat})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		env.t.Fatalf("LiveMatch: live expected 200, got %d", resp.StatusCode)
	}
	return m.MatchID
}

// Apply posts scoring events in order and fails the test on the first rejection.
func (env *TestEnv) Apply(matchID uuid.UUID, events ...domain.Event) {
	env.t.Helper()
	for _, ev := range events {
		resp := env.POST("/matches/"+matchID.String()+"/events", ev)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			env.t.Fatalf("Apply %s: expected 200, got %d", ev.Type, resp.StatusCode)
		}
	}
}

// GET performs a GET request.
func (env *TestEnv) GET(path string) *http.Response {
	env.t.Helper()
	resp, err := http.Get(env.Server.URL + path)
	if err != nil {
		env.t.Fatalf("GET %s: %v", path, err)
	}
	return resp
}

// POST performs a JSON POST request.
func (env *TestEnv) POST(path string, body interface{}) *http.Response {
	env.t.Helper()
	return env.PostWithHeaders(path, body, nil)
}

// PostWithHeaders performs a JSON POST request with extra headers.
func (env *TestEnv) PostWithHeaders(path string, body interface{}, headers map[string]string) *http.Response {
	env.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			env.t.Fatalf("POST %s: encode: %v", path, err)
		}
	}
	req, err := http.NewRequest(http.MethodPost, env.Server.URL+path, &buf)
	if err != nil {
		env.t.Fatalf("POST %s: new request: %v", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		env.t.Fatalf("POST %s: %v", path, err)
	}
	return resp
}
