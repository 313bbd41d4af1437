package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ValidateRules checks the playing conditions of a match.
func ValidateRules(r Rules) error {
	if r.OversPerInnings <= 0 {
		return fmt.Errorf("overs per innings must be positive, got %d", r.OversPerInnings)
	}
	if r.WicketsPerInnings <= 0 {
		return fmt.Errorf("wickets per innings must be positive, got %d", r.WicketsPerInnings)
	}
	return nil
}

// ValidateFixture checks the identity fields of a match being scheduled.
func ValidateFixture(home, away uuid.UUID, venue string) error {
	if home == uuid.Nil || away == uuid.Nil {
		return fmt.Errorf("home and away teams are required")
	}
	if home == away {
		return fmt.Errorf("a team cannot play itself")
	}
	if len(strings.TrimSpace(venue)) > 200 {
		return fmt.Errorf("venue must be at most 200 characters")
	}
	return nil
}

// ValidateInnings checks an innings number supplied by a caller.
func ValidateInnings(n int) error {
	if n != 1 && n != 2 {
		return fmt.Errorf("innings must be 1 or 2, got %d", n)
	}
	return nil
}
