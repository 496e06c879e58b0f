// Package verify grades past prediction slates against real outcomes
// and produces append-only accuracy reports.
package verify

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/longball/internal/datasource"
	"github.com/yourusername/longball/internal/models"
	"github.com/yourusername/longball/internal/tracking"
)

// Verifier matches a date's tracking records against reported outcomes
// and appends an accuracy report. Verification is idempotent per
// record: a record transitions recorded to verified exactly once.
type Verifier struct {
	outcomes datasource.OutcomeSource
	store    tracking.Store
	logger   *logrus.Entry
}

// NewVerifier creates a verifier.
func NewVerifier(outcomes datasource.OutcomeSource, store tracking.Store, logger *logrus.Entry) *Verifier {
	return &Verifier{outcomes: outcomes, store: store, logger: logger}
}

// Verify grades the date's slate. Records from games that never went
// final stay recorded and count as excluded; outcomes without a
// matching record are ignored. Returns the appended report.
func (v *Verifier) Verify(ctx context.Context, date string) (*models.AccuracyReport, error) {
	records, err := v.store.GetByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("load predictions for %s: %w", date, err)
	}
	if len(records) == 0 {
		return nil, models.ErrNoPredictions
	}

	outcomes, err := v.outcomes.FetchOutcomes(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("fetch outcomes for %s: %w", date, err)
	}

	hits := gradeOutcomes(outcomes)
	if err := v.store.MarkVerified(ctx, date, hits, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("mark verified: %w", err)
	}

	// Re-read so the report reflects persisted state, not our
	// in-memory view of it.
	records, err = v.store.GetByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("reload predictions for %s: %w", date, err)
	}

	report := buildReport(date, records)
	if err := v.store.AppendReport(ctx, report); err != nil {
		return nil, fmt.Errorf("append report: %w", err)
	}

	v.logger.WithFields(logrus.Fields{
		"date":     date,
		"scored":   report.Scored,
		"correct":  report.Correct,
		"excluded": report.Excluded,
		"overall":  report.Overall.StringFixed(4),
	}).Info("Verification complete")
	return report, nil
}

// gradeOutcomes reduces raw outcomes to the per-key hit map. Outcomes
// from games that never went final are dropped so their records stay
// recorded and land in the excluded tally.
func gradeOutcomes(outcomes []models.Outcome) map[string]bool {
	hits := make(map[string]bool, len(outcomes))
	for _, o := range outcomes {
		if !o.GameFinal {
			continue
		}
		hits[tracking.OutcomeKey(o.GameID, o.PlayerID)] = o.HomeRuns > 0
	}
	return hits
}

// buildReport tallies verified records into an accuracy report. Only
// verified records enter the denominator.
func buildReport(date string, records []models.TrackingRecord) *models.AccuracyReport {
	report := &models.AccuracyReport{
		ID:          uuid.New(),
		Date:        date,
		ByCategory:  make(map[string]models.CategoryAccuracy),
		GeneratedAt: time.Now().UTC(),
	}

	for _, rec := range records {
		if rec.State != models.StateVerified {
			report.Excluded++
			continue
		}
		report.Scored++
		ca := report.ByCategory[rec.Prediction.Category]
		ca.Scored++
		if rec.Correct() {
			report.Correct++
			ca.Correct++
		}
		report.ByCategory[rec.Prediction.Category] = ca
	}

	report.Overall = models.Ratio(report.Correct, report.Scored)
	for category, ca := range report.ByCategory {
		ca.Accuracy = models.Ratio(ca.Correct, ca.Scored)
		report.ByCategory[category] = ca
	}
	return report
}
