// Package aggregator assembles the best-available observation for every
// starting batter on a slate. Sources degrade independently: a failed
// stat or weather fetch leaves a nil field for the factor engine to
// default, while lineup exhaustion drops the game from the run.
package aggregator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/longball/internal/config"
	"github.com/yourusername/longball/internal/datasource"
	"github.com/yourusername/longball/internal/models"
)

// recentWindowDays is the hot/cold lookback used for recent batting and
// contact windows.
const recentWindowDays = 14

// DataAggregator fans out across upstream sources and produces one
// RawObservation per starting batter.
type DataAggregator struct {
	schedule    datasource.ScheduleSource
	lineups     *datasource.LineupChain
	stats       datasource.StatsSource
	contact     datasource.ContactSource
	weather     datasource.WeatherSource
	validator   *datasource.RecordValidator
	logger      *logrus.Entry
	concurrency int
}

// Config bundles the aggregator's collaborators.
type Config struct {
	Schedule    datasource.ScheduleSource
	Lineups     *datasource.LineupChain
	Stats       datasource.StatsSource
	Contact     datasource.ContactSource
	Weather     datasource.WeatherSource
	Logger      *logrus.Entry
	Concurrency int
}

// New creates a data aggregator.
func New(cfg Config) *DataAggregator {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 8
	}
	return &DataAggregator{
		schedule:    cfg.Schedule,
		lineups:     cfg.Lineups,
		stats:       cfg.Stats,
		contact:     cfg.Contact,
		weather:     cfg.Weather,
		validator:   datasource.NewRecordValidator(),
		logger:      cfg.Logger,
		concurrency: concurrency,
	}
}

// DropHook observes each game dropped from a slate. Scheduled runs can
// overlap, so the hook belongs to one Aggregate call rather than the
// shared aggregator; it may be invoked from concurrent goroutines.
type DropHook func(gameID, reason string)

// Slate is the aggregation result for one date: every observation that
// survived, plus bookkeeping about what degraded.
type Slate struct {
	Date         string
	Observations []models.RawObservation
	GamesTotal   int
	GamesDropped int
}

// Aggregate builds the slate for a date. The lineup mode selects
// probable starters (early run) or confirmed lineups only (midday).
// A game whose lineup cannot be obtained from any source is dropped and
// reported to the onDropped hook (which may be nil); any other missing
// input degrades to a nil field.
func (a *DataAggregator) Aggregate(ctx context.Context, date string, mode datasource.LineupMode, onDropped DropHook) (*Slate, error) {
	games, err := a.schedule.FetchGames(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("fetch schedule for %s: %w", date, err)
	}

	slate := &Slate{Date: date, GamesTotal: len(games)}
	if len(games) == 0 {
		return slate, nil
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)

	for i := range games {
		game := games[i]
		g.Go(func() error {
			if err := a.validator.ValidateGame(&game); err != nil {
				a.dropGame(onDropped, game.ID, fmt.Sprintf("invalid schedule record: %v", err))
				mu.Lock()
				slate.GamesDropped++
				mu.Unlock()
				return nil
			}

			obs, err := a.aggregateGame(gctx, &game, mode)
			if err != nil {
				// Only lineup exhaustion or cancellation lands here.
				if gctx.Err() != nil {
					return gctx.Err()
				}
				a.dropGame(onDropped, game.ID, err.Error())
				mu.Lock()
				slate.GamesDropped++
				mu.Unlock()
				return nil
			}

			mu.Lock()
			slate.Observations = append(slate.Observations, obs...)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return slate, nil
}

// aggregateGame resolves the lineup and fans out per-batter fetches.
func (a *DataAggregator) aggregateGame(ctx context.Context, game *models.Game, mode datasource.LineupMode) ([]models.RawObservation, error) {
	lineup, servedBy, err := a.lineups.Fetch(ctx, game.ID, mode)
	if err != nil {
		return nil, fmt.Errorf("lineup unavailable: %w", err)
	}
	if err := a.validator.ValidateLineup(lineup); err != nil {
		return nil, fmt.Errorf("lineup rejected: %w", err)
	}

	a.logger.WithFields(logrus.Fields{
		"game_id": game.ID,
		"source":  servedBy,
		"mode":    string(mode),
	}).Debug("Lineup resolved")

	park := a.parkFor(game)
	weather := a.fetchWeather(ctx, game, park)

	var (
		mu  sync.Mutex
		out []models.RawObservation
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)

	sides := []struct {
		batters []models.Player
		pitcher *models.Player
		isHome  bool
	}{
		{lineup.Home, lineup.AwayPitcher, true},
		{lineup.Away, lineup.HomePitcher, false},
	}
	for _, side := range sides {
		pitcher := a.fetchPitcher(ctx, side.pitcher)
		for i := range side.batters {
			batter := side.batters[i]
			isHome := side.isHome
			g.Go(func() error {
				obs := a.observe(gctx, game, batter, isHome, pitcher, weather, park)
				mu.Lock()
				out = append(out, obs)
				mu.Unlock()
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// observe fetches one batter's stat lines. Each fetch degrades to nil
// independently; the observation itself always comes back.
func (a *DataAggregator) observe(ctx context.Context, game *models.Game, batter models.Player, isHome bool,
	pitcher *models.PitcherLine, weather *models.WeatherReading, park *models.ParkInfo) models.RawObservation {

	obs := models.RawObservation{
		Game:      *game,
		Batter:    batter,
		IsHome:    isHome,
		Pitcher:   pitcher,
		Weather:   weather,
		Park:      park,
		FetchedAt: time.Now().UTC(),
	}

	obs.Season = a.batterLine(ctx, batter.ID, "season", func() (*models.BattingLine, error) {
		return a.stats.BatterSeason(ctx, batter.ID)
	})
	obs.Recent = a.batterLine(ctx, batter.ID, "recent", func() (*models.BattingLine, error) {
		return a.stats.BatterRecent(ctx, batter.ID, recentWindowDays)
	})
	obs.Contact = a.contactLine(ctx, batter.ID, "contact", func() (*models.ContactLine, error) {
		return a.contact.BatterContact(ctx, batter.ID)
	})
	obs.RecentContact = a.contactLine(ctx, batter.ID, "recent_contact", func() (*models.ContactLine, error) {
		return a.contact.BatterRecentContact(ctx, batter.ID, recentWindowDays)
	})
	return obs
}

func (a *DataAggregator) batterLine(ctx context.Context, playerID, window string, fetch func() (*models.BattingLine, error)) *models.BattingLine {
	line, err := fetch()
	if err != nil {
		a.logDegraded(ctx, playerID, window, err)
		return nil
	}
	return line
}

func (a *DataAggregator) contactLine(ctx context.Context, playerID, window string, fetch func() (*models.ContactLine, error)) *models.ContactLine {
	line, err := fetch()
	if err != nil {
		a.logDegraded(ctx, playerID, window, err)
		return nil
	}
	return line
}

// fetchPitcher resolves the opposing starter's line, nil when the
// starter is unknown or the fetch fails.
func (a *DataAggregator) fetchPitcher(ctx context.Context, starter *models.Player) *models.PitcherLine {
	if starter == nil {
		return nil
	}
	line, err := a.stats.PitcherSeason(ctx, starter.ID)
	if err != nil {
		a.logDegraded(ctx, starter.ID, "pitcher", err)
		// Hand is known from the lineup even when stats are not.
		return &models.PitcherLine{Name: starter.Name, Throws: starter.Throws}
	}
	if line.Throws == "" {
		line.Throws = starter.Throws
	}
	if line.Name == "" {
		line.Name = starter.Name
	}
	return line
}

// parkFor resolves venue reference data from the home team.
func (a *DataAggregator) parkFor(game *models.Game) *models.ParkInfo {
	park, ok := config.ParkForTeam(game.HomeTeam)
	if !ok {
		a.logger.WithField("home_team", game.HomeTeam).Warn("No park data for team")
		return nil
	}
	return &park
}

// fetchWeather resolves the game-time forecast, nil on any failure.
func (a *DataAggregator) fetchWeather(ctx context.Context, game *models.Game, park *models.ParkInfo) *models.WeatherReading {
	if park == nil {
		return nil
	}
	reading, err := a.weather.Forecast(ctx, *park, game.StartTime)
	if err != nil {
		a.logger.WithFields(logrus.Fields{
			"game_id": game.ID,
			"venue":   game.Venue,
		}).Warnf("Weather unavailable, factors will default: %v", err)
		return nil
	}
	return reading
}

func (a *DataAggregator) logDegraded(ctx context.Context, playerID, window string, err error) {
	if ctx.Err() != nil {
		return
	}
	a.logger.WithFields(logrus.Fields{
		"player_id": playerID,
		"window":    window,
	}).Warnf("Stat fetch degraded to default: %v", err)
}

func (a *DataAggregator) dropGame(onDropped DropHook, gameID, reason string) {
	a.logger.WithFields(logrus.Fields{
		"game_id": gameID,
		"reason":  reason,
	}).Warn("Game dropped from run")
	if onDropped != nil {
		onDropped(gameID, reason)
	}
}
