package aggregator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/longball/internal/datasource"
	"github.com/yourusername/longball/internal/models"
)

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return logrus.NewEntry(l)
}

type stubSchedule struct {
	games []models.Game
	err   error
}

func (s *stubSchedule) FetchGames(_ context.Context, _ string) ([]models.Game, error) {
	return s.games, s.err
}

type stubLineupSource struct {
	name    string
	lineups map[string]*datasource.Lineup
	err     error

	mu    sync.Mutex
	calls int
}

func (s *stubLineupSource) Name() string { return s.name }

func (s *stubLineupSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *stubLineupSource) FetchLineup(_ context.Context, gameID string, _ datasource.LineupMode) (*datasource.Lineup, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	lineup, ok := s.lineups[gameID]
	if !ok {
		return nil, datasource.NewSourceError(s.name, datasource.ErrCodeNotFound, "no lineup", nil)
	}
	return lineup, nil
}

type stubStats struct {
	seasonErr  error
	pitcherErr error
}

func (s *stubStats) BatterSeason(_ context.Context, _ string) (*models.BattingLine, error) {
	if s.seasonErr != nil {
		return nil, s.seasonErr
	}
	pa, hr := 400, 20
	return &models.BattingLine{PlateAppearances: &pa, HomeRuns: &hr}, nil
}

func (s *stubStats) BatterRecent(_ context.Context, _ string, _ int) (*models.BattingLine, error) {
	pa, hr := 40, 2
	return &models.BattingLine{PlateAppearances: &pa, HomeRuns: &hr}, nil
}

func (s *stubStats) PitcherSeason(_ context.Context, _ string) (*models.PitcherLine, error) {
	if s.pitcherErr != nil {
		return nil, s.pitcherErr
	}
	hr9 := 1.4
	return &models.PitcherLine{Name: "Stub Pitcher", Throws: models.HandRight, HRPer9: &hr9}, nil
}

type stubContact struct{ err error }

func (s *stubContact) BatterContact(_ context.Context, _ string) (*models.ContactLine, error) {
	if s.err != nil {
		return nil, s.err
	}
	barrel := 0.11
	return &models.ContactLine{BarrelRate: &barrel}, nil
}

func (s *stubContact) BatterRecentContact(_ context.Context, _ string, _ int) (*models.ContactLine, error) {
	return s.BatterContact(nil, "")
}

type stubWeather struct{ err error }

func (s *stubWeather) Forecast(_ context.Context, _ models.ParkInfo, _ time.Time) (*models.WeatherReading, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.WeatherReading{TempF: 75, HumidityPct: 50}, nil
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
				Name: "Batter " + prefix,
				Bats: models.HandRight,
				Role: models.RoleBatter,
			}
		}
		return out
	}
	return &datasource.Lineup{
		GameID:      gameID,
		Home:        batters("h", 9),
		Away:        batters("a", 9),
		HomePitcher: &models.Player{ID: "hp", Name: "Home Starter", Throws: models.HandLeft, Role: models.RolePitcher},
		AwayPitcher: &models.Player{ID: "ap", Name: "Away Starter", Throws: models.HandRight, Role: models.RolePitcher},
		Confirmed:   true,
	}
}

func newTestAggregator(schedule datasource.ScheduleSource, chain *datasource.LineupChain,
	stats datasource.StatsSource, contact datasource.ContactSource, weather datasource.WeatherSource) *DataAggregator {
	return New(Config{
		Schedule:    schedule,
		Lineups:     chain,
		Stats:       stats,
		Contact:     contact,
		Weather:     weather,
		Logger:      testLogger(),
		Concurrency: 4,
	})
}

func TestAggregateFullSlate(t *testing.T) {
	primary := &stubLineupSource{name: "mlb", lineups: map[string]*datasource.Lineup{
		"g1": testLineup("g1"),
	}}
	chain := datasource.NewLineupChain([]datasource.LineupSource{primary}, testLogger())

	agg := newTestAggregator(
		&stubSchedule{games: []models.Game{testGame("g1")}},
		chain, &stubStats{}, &stubContact{}, &stubWeather{})

	slate, err := agg.Aggregate(context.Background(), "2026-08-29", datasource.ModeConfirmed, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, slate.GamesTotal)
	assert.Zero(t, slate.GamesDropped)
	require.Len(t, slate.Observations, 18)

	for _, obs := range slate.Observations {
		assert.NotNil(t, obs.Season)
		assert.NotNil(t, obs.Contact)
		assert.NotNil(t, obs.Weather)
		require.NotNil(t, obs.Park)
		assert.Equal(t, "NYY", obs.Game.HomeTeam)
		require.NotNil(t, obs.Pitcher)
		// Home batters face the away starter and vice versa.
		if obs.IsHome {
			assert.Equal(t, models.HandRight, obs.Pitcher.Throws)
		} else {
			assert.Equal(t, models.HandLeft, obs.Pitcher.Throws)
		}
	}
}

func TestAggregateLineupFallbackOrder(t *testing.T) {
	primary := &stubLineupSource{name: "mlb",
		err: datasource.NewSourceError("mlb", datasource.ErrCodeServerError, "boom", nil)}
	secondary := &stubLineupSource{name: "rotowire", lineups: map[string]*datasource.Lineup{
		"g1": testLineup("g1"),
	}}
	tertiary := &stubLineupSource{name: "unused"}
	chain := datasource.NewLineupChain(
		[]datasource.LineupSource{primary, secondary, tertiary}, testLogger())

	agg := newTestAggregator(
		&stubSchedule{games: []models.Game{testGame("g1")}},
		chain, &stubStats{}, &stubContact{}, &stubWeather{})

	slate, err := agg.Aggregate(context.Background(), "2026-08-29", datasource.ModeProbable, nil)
	require.NoError(t, err)

	assert.Len(t, slate.Observations, 18)
	assert.Equal(t, 1, primary.callCount())
	assert.Equal(t, 1, secondary.callCount())
	// The chain stops at the first success.
	assert.Zero(t, tertiary.callCount())
}

func TestAggregateDropsGameOnLineupExhaustion(t *testing.T) {
	failing := &stubLineupSource{name: "mlb",
		err: datasource.NewSourceError("mlb", datasource.ErrCodeNetworkError, "down", nil)}
	chain := datasource.NewLineupChain([]datasource.LineupSource{failing}, testLogger())

	agg := newTestAggregator(
		&stubSchedule{games: []models.Game{testGame("g1"), testGame("g2")}},
		chain, &stubStats{}, &stubContact{}, &stubWeather{})

	var (
		mu      sync.Mutex
		dropped []string
	)
	slate, err := agg.Aggregate(context.Background(), "2026-08-29", datasource.ModeConfirmed,
		func(gameID, _ string) {
			mu.Lock()
			dropped = append(dropped, gameID)
			mu.Unlock()
		})
	require.NoError(t, err)

	assert.Equal(t, 2, slate.GamesTotal)
	assert.Equal(t, 2, slate.GamesDropped)
	assert.Empty(t, slate.Observations)
	assert.Len(t, dropped, 2)
}

func TestAggregateConcurrentRunsKeepDropHooksSeparate(t *testing.T) {
	failing := &stubLineupSource{name: "mlb",
		err: datasource.NewSourceError("mlb", datasource.ErrCodeNetworkError, "down", nil)}
	chain := datasource.NewLineupChain([]datasource.LineupSource{failing}, testLogger())

	agg := newTestAggregator(
		&stubSchedule{games: []models.Game{testGame("g1"), testGame("g2")}},
		chain, &stubStats{}, &stubContact{}, &stubWeather{})

	collect := func(out *[]string, mu *sync.Mutex) DropHook {
		return func(gameID, _ string) {
			mu.Lock()
			*out = append(*out, gameID)
			mu.Unlock()
		}
	}

	var (
		muA, muB         sync.Mutex
		droppedA, droppedB []string
		wg               sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := agg.Aggregate(context.Background(), "2026-08-29", datasource.ModeProbable, collect(&droppedA, &muA))
		assert.NoError(t, err)
	}()
	go func() {
		defer wg.Done()
		_, err := agg.Aggregate(context.Background(), "2026-08-29", datasource.ModeConfirmed, collect(&droppedB, &muB))
		assert.NoError(t, err)
	}()
	wg.Wait()

	// Each overlapping run observes exactly its own drops.
	assert.ElementsMatch(t, []string{"g1", "g2"}, droppedA)
	assert.ElementsMatch(t, []string{"g1", "g2"}, droppedB)
}

func TestAggregateDegradesStatsToNil(t *testing.T) {
	primary := &stubLineupSource{name: "mlb", lineups: map[string]*datasource.Lineup{
		"g1": testLineup("g1"),
	}}
	chain := datasource.NewLineupChain([]datasource.LineupSource{primary}, testLogger())

	agg := newTestAggregator(
		&stubSchedule{games: []models.Game{testGame("g1")}},
		chain,
		&stubStats{seasonErr: errors.New("stats down")},
		&stubContact{err: errors.New("savant down")},
		&stubWeather{err: errors.New("weather down")})

	slate, err := agg.Aggregate(context.Background(), "2026-08-29", datasource.ModeConfirmed, nil)
	require.NoError(t, err)

	// Degraded inputs never drop the game.
	assert.Zero(t, slate.GamesDropped)
	require.Len(t, slate.Observations, 18)
	for _, obs := range slate.Observations {
		assert.Nil(t, obs.Season)
		assert.Nil(t, obs.Contact)
		assert.Nil(t, obs.Weather)
		// Recent stats still came through.
		assert.NotNil(t, obs.Recent)
	}
}

func TestAggregatePitcherStatsFailureKeepsHand(t *testing.T) {
	primary := &stubLineupSource{name: "mlb", lineups: map[string]*datasource.Lineup{
		"g1": testLineup("g1"),
	}}
	chain := datasource.NewLineupChain([]datasource.LineupSource{primary}, testLogger())

	agg := newTestAggregator(
		&stubSchedule{games: []models.Game{testGame("g1")}},
		chain,
		&stubStats{pitcherErr: errors.New("stats down")},
		&stubContact{}, &stubWeather{})

	slate, err := agg.Aggregate(context.Background(), "2026-08-29", datasource.ModeConfirmed, nil)
	require.NoError(t, err)

	for _, obs := range slate.Observations {
		require.NotNil(t, obs.Pitcher)
		assert.Nil(t, obs.Pitcher.HRPer9)
		assert.NotEmpty(t, obs.Pitcher.Throws)
	}
}

func TestAggregateScheduleFailureIsFatal(t *testing.T) {
	chain := datasource.NewLineupChain(nil, testLogger())
	agg := newTestAggregator(
		&stubSchedule{err: errors.New("schedule down")},
		chain, &stubStats{}, &stubContact{}, &stubWeather{})

	_, err := agg.Aggregate(context.Background(), "2026-08-29", datasource.ModeConfirmed, nil)

	assert.Error(t, err)
}
