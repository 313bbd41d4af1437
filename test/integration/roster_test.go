//go:build integration

package integration

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/creasebook/scoring/internal/domain"
	"github.com/creasebook/scoring/internal/roster"
	"github.com/creasebook/scoring/test/integration/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedJSON(teamID uuid.UUID, name string, players []uuid.UUID) string {
	rows := make([]string, len(players))
	for i, id := range players {
		rows[i] = fmt.Sprintf(`{"id":%q,"name":"%s %d"}`, id, name, i+1)
	}
	return fmt.Sprintf(`{"teams":[{"id":%q,"name":%q,"players":[%s]}]}`, teamID, name, strings.Join(rows, ","))
}

// ─── Roster Seed Tests ─────────────────────────────────────────────────────

func TestRosterSeed_AppliesInSquadOrder(t *testing.T) {
	env := testutil.NewTestEnv(t)
	ctx := context.Background()

	teamID := uuid.New()
	ids := make([]uuid.UUID, 11)
	for i := range ids {
		ids[i] = uuid.New()
	}
	seed, err := roster.ReadSeed(strings.NewReader(seedJSON(teamID, "Sussex", ids)))
	require.NoError(t, err)
	require.NoError(t, seed.Apply(ctx, env.Backend.Roster))

	team, err := env.Backend.Roster.Team(ctx, teamID)
	require.NoError(t, err)
	assert.Equal(t, "Sussex", team.Name)

	players, err := env.Backend.Roster.PlayersOf(ctx, teamID)
	require.NoError(t, err)
	require.Len(t, players, 11)
	for i, p := range players {
		assert.Equal(t, ids[i], p.ID)
		assert.Equal(t, teamID, p.TeamID)
	}
}

func TestRosterSeed_ReapplyIsUpsert(t *testing.T) {
	env := testutil.NewTestEnv(t)
	ctx := context.Background()

	teamID := uuid.New()
	ids := []uuid.UUID{uuid.New(), uuid.New()}
	seed, err := roster.ReadSeed(strings.NewReader(seedJSON(teamID, "Sussex", ids)))
	require.NoError(t, err)
	require.NoError(t, seed.Apply(ctx, env.Backend.Roster))

	renamed, err := roster.ReadSeed(strings.NewReader(seedJSON(teamID, "Sussex Sharks", ids)))
	require.NoError(t, err)
	require.NoError(t, renamed.Apply(ctx, env.Backend.Roster))

	team, err := env.Backend.Roster.Team(ctx, teamID)
	require.NoError(t, err)
	assert.Equal(t, "Sussex Sharks", team.Name)

	players, err := env.Backend.Roster.PlayersOf(ctx, teamID)
	require.NoError(t, err)
	assert.Len(t, players, 2)
}

func TestRoster_UnknownTeam(t *testing.T) {
	env := testutil.NewTestEnv(t)
	_, err := env.Backend.Roster.Team(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.CodeNotFound))
}
