package domain

import "github.com/google/uuid"

// ResultKind tags how a match finished.
type ResultKind string

const (
	ResultRunsWin    ResultKind = "runs_win"
	ResultWicketsWin ResultKind = "wickets_win"
	ResultTie        ResultKind = "tie"
	ResultAbandoned  ResultKind = "abandoned"
	ResultNoResult   ResultKind = "no_result"
)

// Result is the outcome of a completed match. WinnerID and Margin are only
// meaningful for RunsWin and WicketsWin.
type Result struct {
	Kind     ResultKind `json:"kind"`
	WinnerID uuid.UUID  `json:"winner_id,omitempty"`
	Margin   int        `json:"margin,omitempty"`
}

// Decisive reports whether the result has a winner.
func (r Result) Decisive() bool {
	return r.Kind == ResultRunsWin || r.Kind == ResultWicketsWin
}
