package scoring

import (
	"fmt"

	"github.com/creasebook/scoring/internal/domain"
	"github.com/google/uuid"
)

// InvariantCheck records a single invariant validation.
type InvariantCheck struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// Check validates the aggregate against the scoring invariants.
//
// Invariants:
//  1. balls_in_over: 0 <= balls <= 6
//  2. wickets_bounded: wickets never exceed the allotment, and stay below it
//     while both batters are in
//  3. distinct_participants: striker, non-striker and bowler are different players
//  4. runs_parity: innings runs equal batters' runs plus extras
//  5. extras_parity: innings extras equal the bowlers' wides plus no-balls
//  6. legal_ball_parity: innings legal balls equal the bowlers' legal balls
//  7. wickets_parity: innings wickets equal the dismissed batters
func Check(agg *domain.Aggregate) []InvariantCheck {
	s := &agg.State
	checks := make([]InvariantCheck, 0, 7)

	checks = append(checks, InvariantCheck{
		Name:   "balls_in_over",
		Passed: s.Balls >= 0 && s.Balls <= domain.BallsPerOver,
		Detail: fmt.Sprintf("balls=%d", s.Balls),
	})

	limit := s.Rules.WicketsPerInnings
	bothIn := s.StrikerID != uuid.Nil && s.NonStrikerID != uuid.Nil
	checks = append(checks, InvariantCheck{
		Name:   "wickets_bounded",
		Passed: s.Wickets >= 0 && s.Wickets <= limit && (!bothIn || s.Wickets < limit),
		Detail: fmt.Sprintf("wickets=%d limit=%d both_in=%t", s.Wickets, limit, bothIn),
	})

	checks = append(checks, InvariantCheck{
		Name:   "distinct_participants",
		Passed: distinct(s.StrikerID, s.NonStrikerID, s.BowlerID),
		Detail: fmt.Sprintf("striker=%s non_striker=%s bowler=%s", s.StrikerID, s.NonStrikerID, s.BowlerID),
	})

	var batRuns, outs int
	for _, e := range agg.Ledger.BattingFor(s.Innings) {
		batRuns += e.Runs
		if !e.NotOut {
			outs++
		}
	}
	var bowlBalls, bowlExtras int
	for _, e := range agg.Ledger.BowlingFor(s.Innings) {
		bowlBalls += e.Balls
		bowlExtras += e.Wides + e.NoBalls
	}

	checks = append(checks, InvariantCheck{
		Name:   "runs_parity",
		Passed: s.Runs == batRuns+s.Extras,
		Detail: fmt.Sprintf("runs=%d batters=%d extras=%d", s.Runs, batRuns, s.Extras),
	})
	checks = append(checks, InvariantCheck{
		Name:   "extras_parity",
		Passed: s.Extras == bowlExtras,
		Detail: fmt.Sprintf("extras=%d bowlers=%d", s.Extras, bowlExtras),
	})
	checks = append(checks, InvariantCheck{
		Name:   "legal_ball_parity",
		Passed: s.LegalBalls() == bowlBalls,
		Detail: fmt.Sprintf("innings=%d bowlers=%d", s.LegalBalls(), bowlBalls),
	})
	checks = append(checks, InvariantCheck{
		Name:   "wickets_parity",
		Passed: s.Wickets == outs,
		Detail: fmt.Sprintf("wickets=%d dismissed=%d", s.Wickets, outs),
	})

	return checks
}

// Failed returns the checks that did not pass.
func Failed(checks []InvariantCheck) []InvariantCheck {
	var out []InvariantCheck
	for _, c := range checks {
		if !c.Passed {
			out = append(out, c)
		}
	}
	return out
}

func distinct(ids ...uuid.UUID) bool {
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if seen[id] {
			return false
		}
		seen[id] = true
	}
	return true
}
