package domain

import "github.com/google/uuid"

// Team is a side registered in the roster directory.
type Team struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Player belongs to exactly one team.
type Player struct {
	ID     uuid.UUID `json:"id"`
	TeamID uuid.UUID `json:"team_id"`
	Name   string    `json:"name"`
}
