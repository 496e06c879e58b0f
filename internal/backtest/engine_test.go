package backtest

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/longball/internal/models"
	"github.com/yourusername/longball/internal/tracking"
	"github.com/yourusername/longball/internal/verify"
)

type rangeOutcomeSource struct {
	// byDate maps slate date to reported outcomes.
	byDate map[string][]models.Outcome
}

func (s *rangeOutcomeSource) FetchOutcomes(_ context.Context, date string) ([]models.Outcome, error) {
	return s.byDate[date], nil
}

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return logrus.NewEntry(l)
}

func seed(t *testing.T, store tracking.Store, date, gameID, playerID, category string, prob float64) {
	t.Helper()
	require.NoError(t, store.CommitRun(context.Background(), []models.Prediction{{
		GameID:      gameID,
		PlayerID:    playerID,
		PlayerName:  "Player " + playerID,
		Date:        date,
		Probability: prob,
		Category:    category,
		RunTag:      "early",
		ComputedAt:  time.Now(),
	}}))
}

func TestNewEngineRequiresCollaborators(t *testing.T) {
	store := tracking.NewMemoryStore()
	verifier := verify.NewVerifier(&rangeOutcomeSource{}, store, testLogger())

	_, err := NewEngine(nil, verifier, testLogger())
	assert.Error(t, err)

	_, err = NewEngine(store, nil, testLogger())
	assert.Error(t, err)
}

func TestRunAggregatesRange(t *testing.T) {
	store := tracking.NewMemoryStore()
	seed(t, store, "2026-08-27", "g1", "p1", models.CategoryLock, 0.20)
	seed(t, store, "2026-08-27", "g1", "p2", models.CategorySleeper, 0.08)
	seed(t, store, "2026-08-28", "g2", "p1", models.CategoryLock, 0.18)
	seed(t, store, "2026-08-28", "g2", "p3", models.CategorySleeper, 0.07)

	source := &rangeOutcomeSource{byDate: map[string][]models.Outcome{
		"2026-08-27": {
			{GameID: "g1", PlayerID: "p1", HomeRuns: 1, GameFinal: true},
			{GameID: "g1", PlayerID: "p2", HomeRuns: 0, GameFinal: true},
		},
		"2026-08-28": {
			{GameID: "g2", PlayerID: "p1", HomeRuns: 0, GameFinal: true},
			{GameID: "g2", PlayerID: "p3", HomeRuns: 1, GameFinal: true},
		},
	}}

	verifier := verify.NewVerifier(source, store, testLogger())
	engine, err := NewEngine(store, verifier, testLogger())
	require.NoError(t, err)

	// The 26th has no slate and must be skipped, not fail the run.
	metrics, err := engine.Run(context.Background(), "2026-08-26", "2026-08-28")
	require.NoError(t, err)

	assert.Equal(t, 2, metrics.Days)
	assert.Equal(t, 4, metrics.Scored)
	assert.Equal(t, 2, metrics.Correct)
	assert.Zero(t, metrics.Excluded)
	assert.True(t, metrics.Overall.Equal(decimal.NewFromFloat(0.5)))

	lock := metrics.ByCategory[models.CategoryLock]
	assert.Equal(t, 2, lock.Scored)
	assert.Equal(t, 1, lock.Correct)
}

func TestRunBrierScore(t *testing.T) {
	store := tracking.NewMemoryStore()
	seed(t, store, "2026-08-28", "g1", "p1", models.CategoryLock, 0.20)
	seed(t, store, "2026-08-28", "g1", "p2", models.CategorySleeper, 0.10)

	source := &rangeOutcomeSource{byDate: map[string][]models.Outcome{
		"2026-08-28": {
			{GameID: "g1", PlayerID: "p1", HomeRuns: 1, GameFinal: true},
			{GameID: "g1", PlayerID: "p2", HomeRuns: 0, GameFinal: true},
		},
	}}

	verifier := verify.NewVerifier(source, store, testLogger())
	engine, err := NewEngine(store, verifier, testLogger())
	require.NoError(t, err)

	metrics, err := engine.Run(context.Background(), "2026-08-28", "2026-08-28")
	require.NoError(t, err)

	// ((0.20-1)^2 + (0.10-0)^2) / 2
	assert.InDelta(t, (0.64+0.01)/2, metrics.BrierScore, 1e-9)
	assert.InDelta(t, 0.15, metrics.MeanPredicted, 1e-9)
}

func TestRunEmptyRangeFails(t *testing.T) {
	store := tracking.NewMemoryStore()
	verifier := verify.NewVerifier(&rangeOutcomeSource{}, store, testLogger())
	engine, err := NewEngine(store, verifier, testLogger())
	require.NoError(t, err)

	_, err = engine.Run(context.Background(), "2026-08-01", "2026-08-03")

	assert.ErrorIs(t, err, models.ErrNoPredictions)
}

func TestRunRejectsInvertedRange(t *testing.T) {
	store := tracking.NewMemoryStore()
	verifier := verify.NewVerifier(&rangeOutcomeSource{}, store, testLogger())
	engine, err := NewEngine(store, verifier, testLogger())
	require.NoError(t, err)

	_, err = engine.Run(context.Background(), "2026-08-10", "2026-08-01")

	assert.Error(t, err)
}

func TestConsoleReportRendersTiers(t *testing.T) {
	store := tracking.NewMemoryStore()
	seed(t, store, "2026-08-28", "g1", "p1", models.CategoryLock, 0.20)

	source := &rangeOutcomeSource{byDate: map[string][]models.Outcome{
		"2026-08-28": {{GameID: "g1", PlayerID: "p1", HomeRuns: 1, GameFinal: true}},
	}}
	verifier := verify.NewVerifier(source, store, testLogger())
	engine, err := NewEngine(store, verifier, testLogger())
	require.NoError(t, err)

	metrics, err := engine.Run(context.Background(), "2026-08-28", "2026-08-28")
	require.NoError(t, err)

	report := GenerateConsoleReport(metrics)
	assert.True(t, strings.Contains(report, "Overall Accuracy: 100.0%"))
	assert.True(t, strings.Contains(report, "lock"))
}
