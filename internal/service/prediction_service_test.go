package service

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/longball/internal/aggregator"
	"github.com/yourusername/longball/internal/config"
	"github.com/yourusername/longball/internal/datasource"
	"github.com/yourusername/longball/internal/factors"
	"github.com/yourusername/longball/internal/logger"
	"github.com/yourusername/longball/internal/models"
	"github.com/yourusername/longball/internal/scoring"
	"github.com/yourusername/longball/internal/tracking"
)

type fixedSchedule struct{ games []models.Game }

func (s *fixedSchedule) FetchGames(_ context.Context, _ string) ([]models.Game, error) {
	return s.games, nil
}

type fixedLineups struct{ lineups map[string]*datasource.Lineup }

func (s *fixedLineups) Name() string { return "fixed" }

func (s *fixedLineups) FetchLineup(_ context.Context, gameID string, _ datasource.LineupMode) (*datasource.Lineup, error) {
	lineup, ok := s.lineups[gameID]
	if !ok {
		return nil, datasource.NewSourceError("fixed", datasource.ErrCodeNotFound, "no lineup", nil)
	}
	return lineup, nil
}

type fixedStats struct {
	pa map[string]int
	hr map[string]int
}

func (s *fixedStats) BatterSeason(_ context.Context, playerID string) (*models.BattingLine, error) {
	pa, hr := s.pa[playerID], s.hr[playerID]
	return &models.BattingLine{PlateAppearances: &pa, HomeRuns: &hr}, nil
}

func (s *fixedStats) BatterRecent(_ context.Context, playerID string, _ int) (*models.BattingLine, error) {
	pa, hr := 40, s.hr[playerID]/10
	return &models.BattingLine{PlateAppearances: &pa, HomeRuns: &hr}, nil
}

func (s *fixedStats) PitcherSeason(_ context.Context, _ string) (*models.PitcherLine, error) {
	hr9 := 1.2
	return &models.PitcherLine{Name: "Starter", Throws: models.HandRight, HRPer9: &hr9}, nil
}

type noContact struct{}

func (noContact) BatterContact(_ context.Context, _ string) (*models.ContactLine, error) {
	return &models.ContactLine{}, nil
}

func (noContact) BatterRecentContact(_ context.Context, _ string, _ int) (*models.ContactLine, error) {
	return &models.ContactLine{}, nil
}

type noWeather struct{}

func (noWeather) Forecast(_ context.Context, _ models.ParkInfo, _ time.Time) (*models.WeatherReading, error) {
	return &models.WeatherReading{TempF: 72, HumidityPct: 50}, nil
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func testGame(id string) models.Game {
	return models.Game{
		ID:        id,
		Date:      "2026-08-29",
		Venue:     "Yankee Stadium",
		StartTime: time.Now().Add(4 * time.Hour),
		HomeTeam:  "NYY",
		AwayTeam:  "BOS",
		Status:    models.GameStatusScheduled,
	}
}

func testLineup(gameID string) *datasource.Lineup {
	batters := func(prefix string, n int) []models.Player {
		out := make([]models.Player, n)
		for i := range out {
			out[i] = models.Player{
				ID:   prefix + string(rune('a'+i)),
				Name: "Batter " + prefix + string(rune('a'+i)),
				Bats: models.HandLeft,
				Role: models.RoleBatter,
			}
		}
		return out
	}
	return &datasource.Lineup{
		GameID:      gameID,
		Home:        batters("h", 9),
		Away:        batters("a", 9),
		HomePitcher: &models.Player{ID: "hp", Name: "Home Starter", Throws: models.HandRight, Role: models.RolePitcher},
		AwayPitcher: &models.Player{ID: "ap", Name: "Away Starter", Throws: models.HandRight, Role: models.RolePitcher},
		Confirmed:   true,
	}
}

func newTestService(t *testing.T, store tracking.Store, stats datasource.StatsSource) *PredictionService {
	t.Helper()

	log := quietLogger()
	entry := logrus.NewEntry(log)

	chain := datasource.NewLineupChain([]datasource.LineupSource{
		&fixedLineups{lineups: map[string]*datasource.Lineup{"g1": testLineup("g1")}},
	}, entry)

	agg := aggregator.New(aggregator.Config{
		Schedule:    &fixedSchedule{games: []models.Game{testGame("g1")}},
		Lineups:     chain,
		Stats:       stats,
		Contact:     noContact{},
		Weather:     noWeather{},
		Logger:      entry,
		Concurrency: 4,
	})

	model, err := scoring.NewProbabilityModel(config.DefaultWeightTable())
	require.NoError(t, err)

	return NewPredictionService(
		agg,
		factors.NewEngine(),
		model,
		scoring.NewCategorizer(config.TiersConfig{TopN: 10, LockQuantile: 0.85, HotPickQuantile: 0.55}),
		store,
		logger.NewAuditLogger(log),
		entry,
		config.RunConfig{MinPlateAppearances: 100},
	)
}

func defaultStats() *fixedStats {
	stats := &fixedStats{pa: map[string]int{}, hr: map[string]int{}}
	for _, prefix := range []string{"h", "a"} {
		for i := 0; i < 9; i++ {
			id := prefix + string(rune('a'+i))
			stats.pa[id] = 400
			stats.hr[id] = 5 + i*3
		}
	}
	return stats
}

func TestRunCommitsTopN(t *testing.T) {
	store := tracking.NewMemoryStore()
	svc := newTestService(t, store, defaultStats())

	result, err := svc.Run(context.Background(), "2026-08-29", RunTagEarly)
	require.NoError(t, err)

	assert.Len(t, result.Predictions, 10)
	assert.Equal(t, 1, result.GamesTotal)
	assert.Zero(t, result.GamesDropped)

	records, err := store.GetByDate(context.Background(), "2026-08-29")
	require.NoError(t, err)
	require.Len(t, records, 10)
	for _, rec := range records {
		assert.Equal(t, models.StateRecorded, rec.State)
		assert.Equal(t, RunTagEarly, rec.Prediction.RunTag)
		assert.Equal(t, "v1", rec.Prediction.WeightsVersion)
		assert.NotEmpty(t, rec.Prediction.Category)
		assert.GreaterOrEqual(t, rec.Prediction.Probability, 0.01)
		assert.LessOrEqual(t, rec.Prediction.Probability, 0.25)
	}
}

func TestRunRanksBestHittersFirst(t *testing.T) {
	store := tracking.NewMemoryStore()
	svc := newTestService(t, store, defaultStats())

	result, err := svc.Run(context.Background(), "2026-08-29", RunTagEarly)
	require.NoError(t, err)

	// hi/ai carry the most home runs in the stub stats; the slate
	// must lead with the highest probability.
	for i := 1; i < len(result.Predictions); i++ {
		assert.GreaterOrEqual(t,
			result.Predictions[i-1].Probability,
			result.Predictions[i].Probability)
	}
	assert.Equal(t, models.CategoryLock, result.Predictions[0].Category)
}

func TestRunFiltersSmallSamples(t *testing.T) {
	stats := defaultStats()
	// Everyone but two batters falls under the 100 PA floor.
	for id := range stats.pa {
		if id != "ha" && id != "aa" {
			stats.pa[id] = 30
		}
	}

	store := tracking.NewMemoryStore()
	svc := newTestService(t, store, stats)

	result, err := svc.Run(context.Background(), "2026-08-29", RunTagEarly)
	require.NoError(t, err)

	assert.Len(t, result.Predictions, 2)
}

func TestRunInvalidTag(t *testing.T) {
	svc := newTestService(t, tracking.NewMemoryStore(), defaultStats())

	_, err := svc.Run(context.Background(), "2026-08-29", "overnight")

	assert.Error(t, err)
}

func TestRunEmptySlateFailsLoud(t *testing.T) {
	stats := defaultStats()
	for id := range stats.pa {
		stats.pa[id] = 10
	}

	svc := newTestService(t, tracking.NewMemoryStore(), stats)

	_, err := svc.Run(context.Background(), "2026-08-29", RunTagEarly)

	assert.ErrorIs(t, err, models.ErrEmptyRun)
}

func TestMiddayRunSupersedesEarly(t *testing.T) {
	store := tracking.NewMemoryStore()
	svc := newTestService(t, store, defaultStats())
	ctx := context.Background()

	_, err := svc.Run(ctx, "2026-08-29", RunTagEarly)
	require.NoError(t, err)

	result, err := svc.Run(ctx, "2026-08-29", MiddayRunTag(1))
	require.NoError(t, err)
	assert.Equal(t, "midday-1", result.RunTag)

	records, err := store.GetByDate(ctx, "2026-08-29")
	require.NoError(t, err)
	require.Len(t, records, 10)
	for _, rec := range records {
		assert.Equal(t, "midday-1", rec.Prediction.RunTag)
	}
}

func TestRunTagHelpers(t *testing.T) {
	assert.True(t, ValidRunTag("early"))
	assert.True(t, ValidRunTag("midday-1"))
	assert.True(t, ValidRunTag("midday-3"))
	assert.False(t, ValidRunTag("midday-0"))
	assert.False(t, ValidRunTag("midday-"))
	assert.False(t, ValidRunTag("late"))

	assert.Equal(t, datasource.ModeProbable, LineupModeForTag("early"))
	assert.Equal(t, datasource.ModeConfirmed, LineupModeForTag("midday-2"))
}
