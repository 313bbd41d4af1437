package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/creasebook/scoring/internal/domain"
	"github.com/creasebook/scoring/internal/handler"
	"github.com/creasebook/scoring/internal/infra"
	"github.com/creasebook/scoring/internal/metrics"
	"github.com/creasebook/scoring/internal/projection"
	"github.com/creasebook/scoring/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nhooyr.io/websocket"
)

type okChecker struct{}

func (okChecker) Check(context.Context) error { return nil }

type testServer struct {
	srv     *httptest.Server
	backend *Backend
	hub     *infra.WSHub
	home    domain.Team
	away    domain.Team
	homeXI  []domain.Player
	awayXI  []domain.Player
}

func squad(team domain.Team) []domain.Player {
	out := make([]domain.Player, 11)
	for i := range out {
		out[i] = domain.Player{ID: uuid.New(), TeamID: team.ID, Name: fmt.Sprintf("%s %d", team.Name, i+1)}
	}
	return out
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ts := &testServer{
		backend: NewMemoryBackend(),
		hub:     infra.NewWSHub(logger),
		home:    domain.Team{ID: uuid.New(), Name: "Lancashire"},
		away:    domain.Team{ID: uuid.New(), Name: "Yorkshire"},
	}
	ts.homeXI, ts.awayXI = squad(ts.home), squad(ts.away)
	ctx := context.Background()
	require.NoError(t, ts.backend.Roster.AddSquad(ctx, ts.home, ts.homeXI))
	require.NoError(t, ts.backend.Roster.AddSquad(ctx, ts.away, ts.awayXI))

	r := NewRouter(RouterDeps{
		Backend:            ts.backend,
		Cache:              projection.NewInMemoryStore(),
		Hub:                ts.hub,
		Metrics:            metrics.NewRecorder(),
		Checks:             map[string]handler.Checker{"store": okChecker{}},
		Rules:              domain.Rules{OversPerInnings: 1, WicketsPerInnings: 10},
		CORSAllowedOrigins: "*",
		Logger:             logger,
	})
	ts.srv = httptest.NewServer(r)
	t.Cleanup(ts.srv.Close)
	return ts
}

func (ts *testServer) post(t *testing.T, path, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(ts.srv.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (ts *testServer) get(t *testing.T, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(ts.srv.URL + path)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (ts *testServer) liveMatch(t *testing.T) uuid.UUID {
	t.Helper()
	resp := ts.post(t, "/matches", fmt.Sprintf(`{"home_team_id":%q,"away_team_id":%q}`, ts.home.ID, ts.away.ID))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var m domain.MatchState
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&m))

	resp = ts.post(t, "/matches/"+m.MatchID.String()+"/live", fmt.Sprintf(`{"winner_id":%q,"decision":"field"}`, ts.home.ID))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return m.MatchID
}

func (ts *testServer) event(t *testing.T, id uuid.UUID, ev domain.Event) {
	t.Helper()
	body, err := json.Marshal(ev)
	require.NoError(t, err)
	resp := ts.post(t, "/matches/"+id.String()+"/events", string(body))
	require.Equal(t, http.StatusOK, resp.StatusCode, "event %s", ev.Type)
}

// --- Router Tests ---

func TestRouter_HealthAndMetrics(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.get(t, "/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	ts.liveMatch(t)

	resp = ts.get(t, "/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `creasebook_http_requests_total{method="POST",status="201"} 1`)
}

func TestRouter_FullMatch(t *testing.T) {
	ts := newTestServer(t)
	id := ts.liveMatch(t)

	// Yorkshire bat first after Lancashire chose to field.
	for _, ev := range []domain.Event{
		domain.SetNextBatsman(ts.awayXI[0].ID), domain.SetNextBatsman(ts.awayXI[1].ID),
		domain.SetNextBowler(ts.homeXI[10].ID),
		domain.AddRuns(4), domain.AddRuns(0), domain.AddRuns(1), domain.AddRuns(0),
		domain.AddWicket(domain.WicketBowled, domain.SlotStriker, uuid.Nil),
		domain.SetNextBatsman(ts.awayXI[2].ID),
		domain.AddRuns(2),
		domain.CompleteOver(), domain.CompleteInnings(),
		domain.SetNextBatsman(ts.homeXI[0].ID), domain.SetNextBatsman(ts.homeXI[1].ID),
		domain.SetNextBowler(ts.awayXI[10].ID),
		domain.AddRuns(1), domain.AddRuns(1), domain.AddRuns(0), domain.AddRuns(0), domain.AddRuns(0), domain.AddRuns(0),
		domain.CompleteOver(), domain.CompleteInnings(),
	} {
		ts.event(t, id, ev)
	}

	resp := ts.get(t, "/matches/" + id.String())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var snap projection.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	assert.Equal(t, domain.StatusCompleted, snap.Status)
	require.NotNil(t, snap.Result)
	assert.Equal(t, domain.ResultRunsWin, snap.Result.Kind)
	assert.Equal(t, ts.away.ID, snap.Result.WinnerID)
	assert.Equal(t, 5, snap.Result.Margin)
	assert.Equal(t, "Yorkshire won by 5 runs", snap.ResultText)

	resp = ts.get(t, "/matches/"+id.String()+"/verify")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var verify service.VerifyResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&verify))
	assert.True(t, verify.Consistent)

	resp = ts.get(t, "/standings")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var table []struct {
		TeamID uuid.UUID `json:"team_id"`
		Won    int       `json:"won"`
		Points int       `json:"points"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&table))
	require.Len(t, table, 2)
	assert.Equal(t, ts.away.ID, table[0].TeamID)
	assert.Equal(t, 1, table[0].Won)

	// Every committed change reached the outbox in order.
	records, err := ts.backend.Outbox.FetchUnpublished(context.Background(), 100)
	require.NoError(t, err)
	require.NotEmpty(t, records)
	assert.Equal(t, domain.OutboxMatchScheduled, records[0].EventType)
	assert.Equal(t, domain.OutboxMatchCompleted, records[len(records)-1].EventType)
}

// --- Stream Tests ---

func readMessage(t *testing.T, ctx context.Context, conn *websocket.Conn) infra.WSMessage {
	t.Helper()
	_, data, err := conn.Read(ctx)
	require.NoError(t, err)
	var msg infra.WSMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestRouter_Stream(t *testing.T) {
	ts := newTestServer(t)
	id := ts.liveMatch(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(ts.srv.URL, "http") + "/matches/" + id.String() + "/ws"
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	defer conn.CloseNow()

	first := readMessage(t, ctx, conn)
	assert.Equal(t, service.BroadcastSnapshot, first.Event)
	assert.Equal(t, 1, ts.hub.ConnectionCount())

	ts.event(t, id, domain.SetNextBatsman(ts.awayXI[0].ID))

	next := readMessage(t, ctx, conn)
	assert.Equal(t, service.BroadcastSnapshot, next.Event)
	data, ok := next.Data.(map[string]interface{})
	require.True(t, ok)
	striker, ok := data["striker"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, ts.awayXI[0].ID.String(), striker["id"])

	resp := ts.post(t, "/matches/"+id.String()+"/reset", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	reset := readMessage(t, ctx, conn)
	assert.Equal(t, service.BroadcastReset, reset.Event)

	ts.hub.Shutdown(context.Background())
	_, _, err = conn.Read(ctx)
	assert.Equal(t, websocket.StatusGoingAway, websocket.CloseStatus(err))
}

func TestRouter_StreamUnknownMatch(t *testing.T) {
	ts := newTestServer(t)
	resp := ts.get(t, "/matches/"+uuid.NewString()+"/ws")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
