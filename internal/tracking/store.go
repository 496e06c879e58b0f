// Package tracking persists prediction runs and their verified
// outcomes. A committed run is the unit of durability: either every
// prediction in the run lands or none do.
package tracking

import (
	"context"
	"time"

	"github.com/yourusername/longball/internal/models"
)

// Store is the persistence boundary for predictions and accuracy
// reports. Slate dates are ISO strings (2006-01-02) matching the
// prediction model.
type Store interface {
	// CommitRun atomically upserts a run's predictions. A later run
	// for the same (date, game, player) key overwrites the earlier
	// row, keeping the superseding run's tag and probability.
	CommitRun(ctx context.Context, predictions []models.Prediction) error

	// GetByDate returns the latest tracking record per key for a date.
	GetByDate(ctx context.Context, date string) ([]models.TrackingRecord, error)

	// MarkVerified transitions records for a date from recorded to
	// verified, stamping the observed outcome. Records absent from
	// outcomes are left untouched.
	MarkVerified(ctx context.Context, date string, outcomes map[string]bool, verifiedAt time.Time) error

	// AppendReport appends an accuracy report. Reports are never
	// updated or deleted.
	AppendReport(ctx context.Context, report *models.AccuracyReport) error

	// ListReports returns reports in the inclusive date range, newest
	// first.
	ListReports(ctx context.Context, from, to string) ([]models.AccuracyReport, error)
}

// OutcomeKey builds the map key MarkVerified expects for one record.
func OutcomeKey(gameID, playerID string) string {
	return gameID + "|" + playerID
}
