package model

import (
	"time"

	"github.com/google/uuid"
)

// Game is a board game in the café's library.  Availability is a soft
// toggle; unavailable games stay in the catalog but cannot be assigned.
type Game struct {
	ID              uuid.UUID  `json:"id"`
	Name            string     `json:"name"`
	MinPlayers      *int       `json:"min_players"`
	MaxPlayers      *int       `json:"max_players"`
	DurationMinutes *int       `json:"duration_minutes"`
	Complexity      *string    `json:"complexity"`
	Description     *string    `json:"description"`
	Available       bool       `json:"available"`
	CreatedBy       *uuid.UUID `json:"created_by"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Validate checks the catalog invariants: a name, non-negative player
// counts and duration, and min <= max when both are present.
func (g Game) Validate() error {
	if g.Name == "" {
		return InvalidArgumentf("game name is required")
	}
	checks := []struct {
		label string
		v     *int
	}{
		{"min_players", g.MinPlayers},
		{"max_players", g.MaxPlayers},
		{"duration_minutes", g.DurationMinutes},
	}
	for _, c := range checks {
		if c.v != nil && *c.v < 0 {
			return InvalidArgumentf("%s must not be negative", c.label)
		}
	}
	if g.MinPlayers != nil && g.MaxPlayers != nil && *g.MinPlayers > *g.MaxPlayers {
		return InvalidArgumentf("min_players (%d) exceeds max_players (%d)", *g.MinPlayers, *g.MaxPlayers)
	}
	return nil
}
