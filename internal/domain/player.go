package domain

import "time"

// Name is the first/last pair rendered as {"first": ..., "last": ...}.
type Name struct {
	First string `json:"first"`
	Last  string `json:"last"`
}

// Player represents a players row. Team is nil until the player joins one.
type Player struct {
	Email    string  `json:"email"`
	Name     Name    `json:"name"`
	Semester string  `json:"semester"`
	Team     *string `json:"team,omitempty"`
}

// Team represents a teams row.
type Team struct {
	Name string `json:"name"`
}

// ActivityResult is an externally entered point award for a team.
type ActivityResult struct {
	TeamName    string    `json:"-"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Points      int       `json:"points"`
	Date        time.Time `json:"date"`
}

// Benefactor is a name-only sponsor listed beside the leaderboard.
type Benefactor struct {
	Name Name `json:"name"`
}
