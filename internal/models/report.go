package models

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CategoryAccuracy is the scored/correct tally for one tier.
type CategoryAccuracy struct {
	Scored   int             `json:"scored"`
	Correct  int             `json:"correct"`
	Accuracy decimal.Decimal `json:"accuracy"`
}

// AccuracyReport summarizes one verification invocation for a date.
// Append-only; a re-verification produces a new report.
type AccuracyReport struct {
	ID          uuid.UUID                   `json:"id"`
	Date        string                      `json:"date"`
	Scored      int                         `json:"scored"`
	Correct     int                         `json:"correct"`
	Excluded    int                         `json:"excluded"`
	Overall     decimal.Decimal             `json:"overall"`
	ByCategory  map[string]CategoryAccuracy `json:"by_category"`
	GeneratedAt time.Time                   `json:"generated_at"`
}

// Ratio computes correct/scored as an exact decimal, zero when nothing
// was scored.
func Ratio(correct, scored int) decimal.Decimal {
	if scored == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(correct)).Div(decimal.NewFromInt(int64(scored)))
}

// String renders the report for downstream delivery collaborators.
func (r *AccuracyReport) String() string {
	out := fmt.Sprintf("HR prediction accuracy for %s: %s (%d/%d, %d excluded)\n",
		r.Date, formatPct(r.Overall), r.Correct, r.Scored, r.Excluded)

	categories := make([]string, 0, len(r.ByCategory))
	for name := range r.ByCategory {
		categories = append(categories, name)
	}
	sort.Strings(categories)
	for _, name := range categories {
		ca := r.ByCategory[name]
		out += fmt.Sprintf("  %s: %s (%d/%d)\n", name, formatPct(ca.Accuracy), ca.Correct, ca.Scored)
	}
	return out
}

func formatPct(d decimal.Decimal) string {
	return d.Mul(decimal.NewFromInt(100)).StringFixed(1) + "%"
}
