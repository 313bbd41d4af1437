package scoring

import (
	"fmt"
	"testing"
	"time"

	"github.com/creasebook/scoring/internal/domain"
	"github.com/creasebook/scoring/internal/roster"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	proc   *Processor
	squads roster.Squads
	home   domain.Team
	away   domain.Team
	homeXI []domain.Player
	awayXI []domain.Player
	agg    domain.Aggregate
}

func squad(team domain.Team) []domain.Player {
	out := make([]domain.Player, 11)
	for i := range out {
		out[i] = domain.Player{ID: uuid.New(), TeamID: team.ID, Name: fmt.Sprintf("%s %d", team.Name, i+1)}
	}
	return out
}

// newFixture returns a LIVE match in which the home side bats first.
func newFixture(t *testing.T, rules domain.Rules) *fixture {
	t.Helper()
	home := domain.Team{ID: uuid.New(), Name: "Home"}
	away := domain.Team{ID: uuid.New(), Name: "Away"}
	homeXI, awayXI := squad(home), squad(away)

	s := domain.NewUpcomingMatch(uuid.New(), home.ID, away.ID, "Basin Reserve", time.Now(), rules)
	require.NoError(t, s.ApplyToss(domain.Toss{WinnerID: home.ID, Decision: domain.TossBat}))
	s.Status = domain.StatusLive

	return &fixture{
		proc:   NewProcessor(nil),
		squads: roster.NewSquads([]domain.Team{home, away}, append(append([]domain.Player{}, homeXI...), awayXI...)),
		home:   home,
		away:   away,
		homeXI: homeXI,
		awayXI: awayXI,
		agg:    domain.Aggregate{State: s},
	}
}

func (f *fixture) apply(t *testing.T, ev domain.Event) Outcome {
	t.Helper()
	next, out, err := f.proc.Apply(f.agg, f.squads, ev)
	require.NoError(t, err, "apply %s", ev.Type)
	f.agg = next
	return out
}

// reject applies an event that must fail and asserts nothing changed.
func (f *fixture) reject(t *testing.T, ev domain.Event, code string) {
	t.Helper()
	before := f.agg.Clone()
	next, _, err := f.proc.Apply(f.agg, f.squads, ev)
	require.Error(t, err, "apply %s", ev.Type)
	assert.True(t, domain.IsCode(err, code), "want %s, got %v", code, err)
	assert.Equal(t, before, next)
	assert.Equal(t, before, f.agg)
}

func (f *fixture) battingXI() []domain.Player {
	if f.agg.State.BattingTeamID == f.home.ID {
		return f.homeXI
	}
	return f.awayXI
}

func (f *fixture) bowlingXI() []domain.Player {
	if f.agg.State.BowlingTeamID == f.home.ID {
		return f.homeXI
	}
	return f.awayXI
}

// start sends in the openers and the first bowler of the current innings.
func (f *fixture) start(t *testing.T) {
	t.Helper()
	f.apply(t, domain.SetNextBatsman(f.battingXI()[0].ID))
	f.apply(t, domain.SetNextBatsman(f.battingXI()[1].ID))
	f.apply(t, domain.SetNextBowler(f.bowlingXI()[10].ID))
}

// bowlOver bowls the given legal balls and completes the over.
func (f *fixture) bowlOver(t *testing.T, runs ...int) {
	t.Helper()
	for _, r := range runs {
		f.apply(t, domain.AddRuns(r))
	}
	f.apply(t, domain.CompleteOver())
}

func (f *fixture) striker() domain.BattingEntry {
	return *f.agg.Ledger.Batter(f.agg.State.Innings, f.agg.State.StrikerID)
}

func (f *fixture) bowler() domain.BowlingEntry {
	return *f.agg.Ledger.Bowler(f.agg.State.Innings, f.agg.State.BowlerID)
}

// seed fast-forwards the current innings to runs/wickets after the given
// number of completed overs, keeping the ledger consistent. The striker has
// scored every run; the bowling side's first player bowled every ball.
func (f *fixture) seed(t *testing.T, runs, wickets, overs int) {
	t.Helper()
	s := &f.agg.State
	bat, bowl := f.battingXI(), f.bowlingXI()
	inn := s.Innings

	for i := 0; i < wickets; i++ {
		e, created := f.agg.Ledger.OpenBatter(inn, bat[i].ID)
		require.True(t, created)
		e.NotOut = false
		e.Dismissal = &domain.Dismissal{Kind: domain.WicketBowled, BowlerID: bow(bowl)}
	}
	e, _ := f.agg.Ledger.OpenBatter(inn, bat[wickets].ID)
	e.Runs = runs
	e.Balls = overs * domain.BallsPerOver
	s.StrikerID = bat[wickets].ID
	if wickets+1 < len(bat) {
		f.agg.Ledger.OpenBatter(inn, bat[wickets+1].ID)
		s.NonStrikerID = bat[wickets+1].ID
	}

	b, _ := f.agg.Ledger.OpenBowler(inn, bow(bowl))
	b.Balls = overs * domain.BallsPerOver
	b.RunsConceded = runs
	b.Wickets = wickets

	s.Runs, s.Wickets, s.Overs, s.Balls = runs, wickets, overs, 0
	s.BowlerID = uuid.Nil
	s.PreviousBowlerID = bow(bowl)
	require.Empty(t, Failed(Check(&f.agg)))
}

func bow(xi []domain.Player) uuid.UUID { return xi[0].ID }
