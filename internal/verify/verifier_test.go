package verify

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/longball/internal/models"
	"github.com/yourusername/longball/internal/tracking"
)

type stubOutcomeSource struct {
	outcomes []models.Outcome
	err      error
}

func (s *stubOutcomeSource) FetchOutcomes(_ context.Context, _ string) ([]models.Outcome, error) {
	return s.outcomes, s.err
}

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return logrus.NewEntry(l)
}

func seedPredictions(t *testing.T, store tracking.Store, preds ...models.Prediction) {
	t.Helper()
	require.NoError(t, store.CommitRun(context.Background(), preds))
}

func pred(date, gameID, playerID, category string, prob float64) models.Prediction {
	return models.Prediction{
		GameID:      gameID,
		PlayerID:    playerID,
		PlayerName:  "Player " + playerID,
		Date:        date,
		Probability: prob,
		Category:    category,
		RunTag:      "early",
		ComputedAt:  time.Now(),
	}
}

func TestVerifyExactAccuracy(t *testing.T) {
	const date = "2026-08-28"
	store := tracking.NewMemoryStore()
	seedPredictions(t, store,
		pred(date, "g1", "p1", models.CategoryLock, 0.20),
		pred(date, "g1", "p2", models.CategoryHotPick, 0.12),
		pred(date, "g2", "p3", models.CategorySleeper, 0.08),
		pred(date, "g2", "p4", models.CategorySleeper, 0.07),
	)

	source := &stubOutcomeSource{outcomes: []models.Outcome{
		{GameID: "g1", PlayerID: "p1", HomeRuns: 1, GameFinal: true},
		{GameID: "g1", PlayerID: "p2", HomeRuns: 0, GameFinal: true},
		{GameID: "g2", PlayerID: "p3", HomeRuns: 2, GameFinal: true},
		{GameID: "g2", PlayerID: "p4", HomeRuns: 0, GameFinal: true},
	}}

	v := NewVerifier(source, store, testLogger())
	report, err := v.Verify(context.Background(), date)
	require.NoError(t, err)

	assert.Equal(t, 4, report.Scored)
	assert.Equal(t, 2, report.Correct)
	assert.Equal(t, 0, report.Excluded)
	assert.True(t, report.Overall.Equal(decimal.NewFromFloat(0.5)),
		"overall accuracy %s", report.Overall)

	lock := report.ByCategory[models.CategoryLock]
	assert.Equal(t, 1, lock.Scored)
	assert.Equal(t, 1, lock.Correct)

	sleeper := report.ByCategory[models.CategorySleeper]
	assert.Equal(t, 2, sleeper.Scored)
	assert.Equal(t, 1, sleeper.Correct)
}

func TestVerifyExcludesNonFinalGames(t *testing.T) {
	const date = "2026-08-28"
	store := tracking.NewMemoryStore()
	seedPredictions(t, store,
		pred(date, "g1", "p1", models.CategoryLock, 0.20),
		pred(date, "g2", "p2", models.CategoryHotPick, 0.12),
	)

	// g2 was postponed: its outcome is reported non-final.
	source := &stubOutcomeSource{outcomes: []models.Outcome{
		{GameID: "g1", PlayerID: "p1", HomeRuns: 1, GameFinal: true},
		{GameID: "g2", PlayerID: "p2", HomeRuns: 0, GameFinal: false},
	}}

	v := NewVerifier(source, store, testLogger())
	report, err := v.Verify(context.Background(), date)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Scored)
	assert.Equal(t, 1, report.Correct)
	assert.Equal(t, 1, report.Excluded)

	// The postponed record stays recorded.
	records, err := store.GetByDate(context.Background(), date)
	require.NoError(t, err)
	for _, rec := range records {
		if rec.Prediction.GameID == "g2" {
			assert.Equal(t, models.StateRecorded, rec.State)
			assert.Nil(t, rec.HitHomeRun)
		}
	}
}

func TestVerifyIgnoresUnmatchedOutcomes(t *testing.T) {
	const date = "2026-08-28"
	store := tracking.NewMemoryStore()
	seedPredictions(t, store,
		pred(date, "g1", "p1", models.CategoryLock, 0.20),
	)

	// p9 homered but was never predicted; it must not affect the tally.
	source := &stubOutcomeSource{outcomes: []models.Outcome{
		{GameID: "g1", PlayerID: "p1", HomeRuns: 0, GameFinal: true},
		{GameID: "g1", PlayerID: "p9", HomeRuns: 1, GameFinal: true},
	}}

	v := NewVerifier(source, store, testLogger())
	report, err := v.Verify(context.Background(), date)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Scored)
	assert.Equal(t, 0, report.Correct)
	assert.True(t, report.Overall.IsZero())
}

func TestVerifyNoPredictions(t *testing.T) {
	store := tracking.NewMemoryStore()
	v := NewVerifier(&stubOutcomeSource{}, store, testLogger())

	_, err := v.Verify(context.Background(), "2026-08-28")

	assert.ErrorIs(t, err, models.ErrNoPredictions)
}

func TestVerifyAppendsReport(t *testing.T) {
	const date = "2026-08-28"
	store := tracking.NewMemoryStore()
	seedPredictions(t, store,
		pred(date, "g1", "p1", models.CategoryLock, 0.20),
	)
	source := &stubOutcomeSource{outcomes: []models.Outcome{
		{GameID: "g1", PlayerID: "p1", HomeRuns: 1, GameFinal: true},
	}}

	v := NewVerifier(source, store, testLogger())
	first, err := v.Verify(context.Background(), date)
	require.NoError(t, err)

	// A second verification appends a second report rather than
	// rewriting the first; already-verified rows are untouched.
	second, err := v.Verify(context.Background(), date)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	reports, err := store.ListReports(context.Background(), date, date)
	require.NoError(t, err)
	assert.Len(t, reports, 2)
}
