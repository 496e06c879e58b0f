package models

import (
	"time"
)

// Game status values reported by the schedule upstream.
const (
	GameStatusScheduled = "scheduled"
	GameStatusFinal     = "final"
	GameStatusPostponed = "postponed"
)

// Game represents a scheduled MLB game. Immutable once scheduled; the
// Status field is only refreshed from the outcome source after the fact.
type Game struct {
	ID           string    `json:"id" validate:"required"`
	Date         string    `json:"date" validate:"required,datetime=2006-01-02"`
	Venue        string    `json:"venue" validate:"required"`
	StartTime    time.Time `json:"start_time" validate:"required"`
	HomeTeam     string    `json:"home_team" validate:"required"`
	AwayTeam     string    `json:"away_team" validate:"required"`
	HomeTeamName string    `json:"home_team_name"`
	AwayTeamName string    `json:"away_team_name"`
	Status       string    `json:"status"`
}

// IsFinal reports whether the game has completed and results are available.
func (g *Game) IsFinal() bool {
	return g.Status == GameStatusFinal
}

// TimeToStart returns the duration until first pitch.
func (g *Game) TimeToStart() time.Duration {
	return time.Until(g.StartTime)
}
