package scoring

import (
	"fmt"

	"github.com/creasebook/scoring/internal/domain"
	"github.com/creasebook/scoring/internal/roster"
)

// ReplayResult holds the outcome of a deterministic replay run.
type ReplayResult struct {
	Final      domain.Aggregate `json:"-"`
	Applied    int              `json:"applied"`
	Outcomes   []Outcome        `json:"-"`
	Invariants []InvariantCheck `json:"invariants"`
	AllPassed  bool             `json:"all_passed"`
}

// Replay re-applies an event log to an initial aggregate and validates the
// invariants against the final state. It stops at the first rejected event.
func (p *Processor) Replay(initial domain.Aggregate, squads roster.Squads, events []domain.Event) (*ReplayResult, error) {
	agg := initial.Clone()
	outcomes := make([]Outcome, 0, len(events))

	for i, ev := range events {
		next, out, err := p.Apply(agg, squads, ev)
		if err != nil {
			return nil, fmt.Errorf("replay event %d (%s): %w", i, ev.Type, err)
		}
		agg = next
		outcomes = append(outcomes, out)
	}

	checks := Check(&agg)
	return &ReplayResult{
		Final:      agg,
		Applied:    len(events),
		Outcomes:   outcomes,
		Invariants: checks,
		AllPassed:  len(Failed(checks)) == 0,
	}, nil
}

// Replay runs a replay with a processor that discards logs.
func Replay(initial domain.Aggregate, squads roster.Squads, events []domain.Event) (*ReplayResult, error) {
	return NewProcessor(nil).Replay(initial, squads, events)
}
