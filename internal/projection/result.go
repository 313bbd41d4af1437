package projection

import (
	"fmt"

	"github.com/creasebook/scoring/internal/domain"
	"github.com/creasebook/scoring/internal/roster"
)

// ResultText renders a result the way a scoreboard announces it.
func ResultText(r *domain.Result, squads roster.Squads) string {
	if r == nil {
		return ""
	}
	switch r.Kind {
	case domain.ResultRunsWin:
		return fmt.Sprintf("%s won by %s", teamName(squads, r), plural(r.Margin, "run"))
	case domain.ResultWicketsWin:
		return fmt.Sprintf("%s won by %s", teamName(squads, r), plural(r.Margin, "wicket"))
	case domain.ResultTie:
		return "Match tied"
	case domain.ResultAbandoned:
		return "Match abandoned"
	case domain.ResultNoResult:
		return "No result"
	}
	return string(r.Kind)
}

func teamName(squads roster.Squads, r *domain.Result) string {
	if t, ok := squads.Team(r.WinnerID); ok && t.Name != "" {
		return t.Name
	}
	return r.WinnerID.String()
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
