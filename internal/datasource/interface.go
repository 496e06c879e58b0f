// Package datasource implements clients for the upstream stat, weather,
// lineup and outcome providers. Each client validates loosely-typed
// upstream JSON into explicit record schemas at the boundary so that
// downstream scoring never probes for missing keys.
package datasource

import (
	"context"
	"time"

	"github.com/yourusername/longball/internal/models"
)

// LineupMode selects which starters a lineup fetch returns.
type LineupMode string

const (
	// ModeProbable is the early-run mode: probable pitchers plus the most
	// recent lineup projection.
	ModeProbable LineupMode = "probable"
	// ModeConfirmed is the midday mode: only confirmed starting lineups.
	ModeConfirmed LineupMode = "confirmed"
)

// Lineup is the validated starters record for one game.
type Lineup struct {
	GameID      string          `validate:"required"`
	Home        []models.Player `validate:"required,min=1,dive"`
	Away        []models.Player `validate:"required,min=1,dive"`
	HomePitcher *models.Player
	AwayPitcher *models.Player
	Confirmed   bool
}

// ScheduleSource lists the games scheduled for a date.
type ScheduleSource interface {
	FetchGames(ctx context.Context, date string) ([]models.Game, error)
}

// LineupSource fetches starters for a game. Implementations are tried in
// configured priority order by the aggregator's fallback chain.
type LineupSource interface {
	Name() string
	FetchLineup(ctx context.Context, gameID string, mode LineupMode) (*Lineup, error)
}

// StatsSource fetches conventional batting and pitching lines.
type StatsSource interface {
	BatterSeason(ctx context.Context, playerID string) (*models.BattingLine, error)
	BatterRecent(ctx context.Context, playerID string, days int) (*models.BattingLine, error)
	PitcherSeason(ctx context.Context, playerID string) (*models.PitcherLine, error)
}

// ContactSource fetches Statcast contact-quality metrics.
type ContactSource interface {
	BatterContact(ctx context.Context, playerID string) (*models.ContactLine, error)
	BatterRecentContact(ctx context.Context, playerID string, days int) (*models.ContactLine, error)
}

// WeatherSource fetches a forecast for a venue at game time.
type WeatherSource interface {
	Forecast(ctx context.Context, park models.ParkInfo, gameTime time.Time) (*models.WeatherReading, error)
}

// OutcomeSource reports actual occurrences for a past date.
type OutcomeSource interface {
	FetchOutcomes(ctx context.Context, date string) ([]models.Outcome, error)
}
