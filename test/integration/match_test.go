//go:build integration

package integration

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/creasebook/scoring/internal/domain"
	"github.com/creasebook/scoring/internal/projection"
	"github.com/creasebook/scoring/internal/service"
	"github.com/creasebook/scoring/test/integration/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openers(home, away testutil.Side) []domain.Event {
	return []domain.Event{
		domain.SetNextBatsman(home.Players[0].ID),
		domain.SetNextBatsman(home.Players[1].ID),
		domain.SetNextBowler(away.Players[10].ID),
	}
}

// ─── Scoring Tests ─────────────────────────────────────────────────────────

func TestScoring_PersistsStateAndLedger(t *testing.T) {
	env := testutil.NewTestEnv(t)
	home, away := env.SeedSide("Kent"), env.SeedSide("Essex")
	id := env.LiveMatch(home, away)

	env.Apply(id, openers(home, away)...)
	env.Apply(id, domain.AddRuns(4), domain.AddExtra(domain.ExtraWide), domain.AddRuns(1))

	testutil.AssertMatchRow(t, env, id, "LIVE", 7)
	assert.Equal(t, 2, testutil.CountRows(t, env, "batting_entries", id))
	assert.Equal(t, 1, testutil.CountRows(t, env, "bowling_entries", id))
	assert.Equal(t, 6, testutil.CountRows(t, env, "deliveries", id))

	resp := env.GET("/matches/" + id.String())
	testutil.AssertStatus(t, resp, http.StatusOK)
	var snap projection.Snapshot
	testutil.DecodeJSON(t, resp, &snap)
	assert.Equal(t, 6, snap.Runs)
	assert.Equal(t, 1, snap.Extras)
	assert.Equal(t, "0.2", snap.Over)
	require.NotNil(t, snap.Striker)
	assert.Equal(t, home.Players[1].ID, snap.Striker.ID)

	deliveries, err := env.Backend.Store.Deliveries(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, deliveries, 6)
	for i, d := range deliveries {
		assert.Equal(t, int64(i+1), d.Seq)
	}
	assert.Equal(t, domain.EventAddExtra, deliveries[4].Event.Type)
	assert.Equal(t, "0.1", deliveries[4].Over)
}

func TestScoring_RejectedEventLeavesRowUntouched(t *testing.T) {
	env := testutil.NewTestEnv(t)
	home, away := env.SeedSide("Kent"), env.SeedSide("Essex")
	id := env.LiveMatch(home, away)
	env.Apply(id, openers(home, away)...)

	resp := env.POST("/matches/"+id.String()+"/events", domain.SetNextBowler(home.Players[3].ID))
	testutil.AssertStatus(t, resp, http.StatusUnprocessableEntity)
	testutil.AssertErrorCode(t, resp, domain.CodeInvalidParticipant)

	resp = env.POST("/matches/"+id.String()+"/events", domain.CompleteOver())
	testutil.AssertStatus(t, resp, http.StatusConflict)
	testutil.AssertErrorCode(t, resp, domain.CodeIllegalTransition)

	testutil.AssertMatchRow(t, env, id, "LIVE", 4)
	assert.Equal(t, 3, testutil.CountRows(t, env, "deliveries", id))
}

func TestScoring_ConcurrentEventsSerialize(t *testing.T) {
	env := testutil.NewTestEnv(t)
	home, away := env.SeedSide("Kent"), env.SeedSide("Essex")
	id := env.LiveMatch(home, away)
	env.Apply(id, openers(home, away)...)

	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp := env.POST("/matches/"+id.String()+"/events", domain.AddRuns(2))
			resp.Body.Close()
			assert.Equal(t, http.StatusOK, resp.StatusCode)
		}()
	}
	wg.Wait()

	agg, err := env.Backend.Store.Load(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 12, agg.State.Runs)
	assert.Equal(t, 6, agg.State.Balls)
	assert.Equal(t, int64(10), agg.State.Version)

	deliveries, err := env.Backend.Store.Deliveries(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, deliveries, 9)
	assert.Equal(t, int64(9), deliveries[8].Seq)
}

func TestScoring_IdempotencyKey(t *testing.T) {
	env := testutil.NewTestEnv(t)
	home, away := env.SeedSide("Kent"), env.SeedSide("Essex")
	id := env.LiveMatch(home, away)
	env.Apply(id, openers(home, away)...)

	headers := map[string]string{"Idempotency-Key": uuid.NewString()}
	resp := env.PostWithHeaders("/matches/"+id.String()+"/events", domain.AddRuns(6), headers)
	testutil.AssertStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	resp = env.PostWithHeaders("/matches/"+id.String()+"/events", domain.AddRuns(6), headers)
	testutil.AssertStatus(t, resp, http.StatusConflict)
	testutil.AssertErrorCode(t, resp, domain.CodeDuplicateEvent)

	agg, err := env.Backend.Store.Load(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 6, agg.State.Runs)
}

// ─── Match Lifecycle Tests ─────────────────────────────────────────────────

func TestMatch_CompletedAndStandings(t *testing.T) {
	env := testutil.NewTestEnv(t)
	home, away := env.SeedSide("Kent"), env.SeedSide("Essex")
	id := env.LiveMatch(home, away)

	env.Apply(id, openers(home, away)...)
	env.Apply(id,
		domain.AddRuns(1), domain.AddRuns(1), domain.AddRuns(0), domain.AddRuns(0), domain.AddRuns(0), domain.AddRuns(0),
		domain.CompleteOver(), domain.CompleteInnings(),
		domain.SetNextBatsman(away.Players[0].ID), domain.SetNextBatsman(away.Players[1].ID),
		domain.SetNextBowler(home.Players[10].ID),
		domain.AddRuns(4),
		domain.CompleteInnings(),
		domain.SetManOfMatch(away.Players[0].ID),
	)

	resp := env.GET("/matches/" + id.String())
	testutil.AssertStatus(t, resp, http.StatusOK)
	var snap projection.Snapshot
	testutil.DecodeJSON(t, resp, &snap)
	assert.Equal(t, domain.StatusCompleted, snap.Status)
	require.NotNil(t, snap.Result)
	assert.Equal(t, domain.ResultWicketsWin, snap.Result.Kind)
	assert.Equal(t, away.Team.ID, snap.Result.WinnerID)
	assert.Equal(t, "Essex won by 10 wickets", snap.ResultText)
	require.NotNil(t, snap.ManOfMatch)
	assert.Equal(t, away.Players[0].ID, snap.ManOfMatch.ID)

	resp = env.GET("/matches/" + id.String() + "/scorecard/1")
	testutil.AssertStatus(t, resp, http.StatusOK)
	var card projection.Scorecard
	testutil.DecodeJSON(t, resp, &card)
	assert.Equal(t, home.Team.ID, card.BattingTeam.ID)
	assert.Equal(t, 2, card.Runs)
	assert.Equal(t, "1.0", card.Overs)

	resp = env.GET("/matches/" + id.String() + "/verify")
	testutil.AssertStatus(t, resp, http.StatusOK)
	var verify service.VerifyResult
	testutil.DecodeJSON(t, resp, &verify)
	assert.True(t, verify.Consistent, "mismatches: %v", verify.Mismatches)

	resp = env.GET("/standings")
	testutil.AssertStatus(t, resp, http.StatusOK)
	var table []struct {
		TeamID uuid.UUID `json:"team_id"`
		Won    int       `json:"won"`
		Lost   int       `json:"lost"`
		Points int       `json:"points"`
	}
	testutil.DecodeJSON(t, resp, &table)
	require.Len(t, table, 2)
	assert.Equal(t, away.Team.ID, table[0].TeamID)
	assert.Equal(t, 1, table[0].Won)
	assert.Equal(t, 1, table[1].Lost)
}

func TestMatch_ResetPurgesLedgerAndLog(t *testing.T) {
	env := testutil.NewTestEnv(t)
	home, away := env.SeedSide("Kent"), env.SeedSide("Essex")
	id := env.LiveMatch(home, away)
	env.Apply(id, openers(home, away)...)
	env.Apply(id, domain.AddRuns(4))

	resp := env.POST("/matches/"+id.String()+"/reset", nil)
	testutil.AssertStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	testutil.AssertMatchRow(t, env, id, "UPCOMING", 6)
	assert.Zero(t, testutil.CountRows(t, env, "deliveries", id))
	assert.Zero(t, testutil.CountRows(t, env, "batting_entries", id))
	assert.Zero(t, testutil.CountRows(t, env, "bowling_entries", id))
}

// ─── Outbox Tests ──────────────────────────────────────────────────────────

func TestOutbox_RelayInCommitOrder(t *testing.T) {
	env := testutil.NewTestEnv(t)
	home, away := env.SeedSide("Kent"), env.SeedSide("Essex")
	id := env.LiveMatch(home, away)
	env.Apply(id, openers(home, away)...)

	ctx := context.Background()
	records, err := env.Backend.Outbox.FetchUnpublished(ctx, 100)
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.Equal(t, domain.OutboxMatchScheduled, records[0].EventType)
	assert.Equal(t, domain.OutboxMatchLive, records[1].EventType)
	for _, r := range records[2:] {
		assert.Equal(t, domain.OutboxDeliveryApplied, r.EventType)
		assert.Equal(t, id.String(), r.PartitionKey)
	}
	for i := 1; i < len(records); i++ {
		assert.Greater(t, records[i].ID, records[i-1].ID)
	}

	require.NoError(t, env.Backend.Outbox.MarkPublished(ctx, []int64{records[0].ID, records[1].ID}))
	rest, err := env.Backend.Outbox.FetchUnpublished(ctx, 100)
	require.NoError(t, err)
	assert.Len(t, rest, 3)
}

// ─── Health Tests ──────────────────────────────────────────────────────────

func TestHealth_Postgres(t *testing.T) {
	env := testutil.NewTestEnv(t)
	resp := env.GET("/health")
	testutil.AssertStatus(t, resp, http.StatusOK)
	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	testutil.DecodeJSON(t, resp, &body)
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "ok", body.Checks["postgres"])
}
