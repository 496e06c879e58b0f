// Package backtest replays verification over a historical date range
// and reduces the graded slates to range-level quality metrics, turning
// day-by-day accuracy reports into an answer to "how good is this
// weight table really".
package backtest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/longball/internal/models"
	"github.com/yourusername/longball/internal/tracking"
	"github.com/yourusername/longball/internal/verify"
)

// Engine orchestrates historical replay runs.
type Engine struct {
	store    tracking.Store
	verifier *verify.Verifier
	logger   *logrus.Entry
}

// NewEngine creates a replay engine.
func NewEngine(store tracking.Store, verifier *verify.Verifier, logger *logrus.Entry) (*Engine, error) {
	if store == nil {
		return nil, fmt.Errorf("tracking store is required")
	}
	if verifier == nil {
		return nil, fmt.Errorf("verifier is required")
	}
	return &Engine{store: store, verifier: verifier, logger: logger}, nil
}

// Run replays verification for every date in the inclusive range and
// aggregates the outcome. Dates without predictions are skipped; a
// range that grades nothing at all is an error.
func (e *Engine) Run(ctx context.Context, startDate, endDate string) (*Metrics, error) {
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", startDate, err)
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return nil, fmt.Errorf("invalid end date %q: %w", endDate, err)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("end date %s before start date %s", endDate, startDate)
	}

	e.logger.WithFields(logrus.Fields{
		"start": startDate,
		"end":   endDate,
	}).Info("Starting historical replay")

	var (
		days    int
		records []models.TrackingRecord
	)
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		date := day.Format("2006-01-02")

		if _, err := e.verifier.Verify(ctx, date); err != nil {
			if errors.Is(err, models.ErrNoPredictions) {
				continue
			}
			return nil, fmt.Errorf("replay %s: %w", date, err)
		}

		dayRecords, err := e.store.GetByDate(ctx, date)
		if err != nil {
			return nil, fmt.Errorf("load graded records for %s: %w", date, err)
		}
		days++
		records = append(records, dayRecords...)
	}

	if days == 0 {
		return nil, fmt.Errorf("replay %s..%s: %w", startDate, endDate, models.ErrNoPredictions)
	}

	metrics := computeMetrics(startDate, endDate, days, records)
	e.logger.WithFields(logrus.Fields{
		"days":    metrics.Days,
		"scored":  metrics.Scored,
		"correct": metrics.Correct,
		"overall": metrics.Overall.StringFixed(4),
		"brier":   fmt.Sprintf("%.4f", metrics.BrierScore),
	}).Info("Historical replay complete")
	return metrics, nil
}
