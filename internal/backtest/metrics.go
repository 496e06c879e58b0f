package backtest

import (
	"github.com/shopspring/decimal"
	"github.com/yourusername/longball/internal/models"
)

// Metrics summarizes prediction quality over a replayed date range.
type Metrics struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	// Days counts dates that actually had a graded slate.
	Days     int `json:"days"`
	Scored   int `json:"scored"`
	Correct  int `json:"correct"`
	Excluded int `json:"excluded"`

	Overall    decimal.Decimal                    `json:"overall"`
	ByCategory map[string]models.CategoryAccuracy `json:"by_category"`

	// MeanPredicted is the average committed probability across scored
	// records; compared against Overall it exposes systematic over- or
	// under-confidence.
	MeanPredicted float64 `json:"mean_predicted"`
	// BrierScore is the mean squared distance between predicted
	// probability and outcome; lower is better, 0.25 is coin-flip
	// territory for rare events.
	BrierScore float64 `json:"brier_score"`
}

// computeMetrics folds verified records from every graded date into
// range-level metrics.
func computeMetrics(startDate, endDate string, days int, records []models.TrackingRecord) *Metrics {
	m := &Metrics{
		StartDate:  startDate,
		EndDate:    endDate,
		Days:       days,
		ByCategory: make(map[string]models.CategoryAccuracy),
	}

	var brierSum, predictedSum float64
	for _, rec := range records {
		if rec.State != models.StateVerified {
			m.Excluded++
			continue
		}

		m.Scored++
		predictedSum += rec.Prediction.Probability

		outcome := 0.0
		if rec.Correct() {
			outcome = 1.0
			m.Correct++
		}
		diff := rec.Prediction.Probability - outcome
		brierSum += diff * diff

		ca := m.ByCategory[rec.Prediction.Category]
		ca.Scored++
		if rec.Correct() {
			ca.Correct++
		}
		m.ByCategory[rec.Prediction.Category] = ca
	}

	m.Overall = models.Ratio(m.Correct, m.Scored)
	for category, ca := range m.ByCategory {
		ca.Accuracy = models.Ratio(ca.Correct, ca.Scored)
		m.ByCategory[category] = ca
	}
	if m.Scored > 0 {
		m.MeanPredicted = predictedSum / float64(m.Scored)
		m.BrierScore = brierSum / float64(m.Scored)
	}
	return m
}
