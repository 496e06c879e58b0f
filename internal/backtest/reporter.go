package backtest

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// GenerateConsoleReport formats replay metrics for terminal output.
func GenerateConsoleReport(m *Metrics) string {
	var builder strings.Builder
	builder.WriteString("Historical Replay Report\n")
	builder.WriteString("========================\n")
	builder.WriteString(fmt.Sprintf("Range: %s to %s (%d graded days)\n", m.StartDate, m.EndDate, m.Days))
	builder.WriteString(fmt.Sprintf("Scored: %d  Correct: %d  Excluded: %d\n", m.Scored, m.Correct, m.Excluded))
	builder.WriteString(fmt.Sprintf("Overall Accuracy: %s\n", formatPct(m.Overall)))
	builder.WriteString(fmt.Sprintf("Mean Predicted:   %.1f%%\n", m.MeanPredicted*100))
	builder.WriteString(fmt.Sprintf("Brier Score:      %.4f\n", m.BrierScore))

	categories := make([]string, 0, len(m.ByCategory))
	for name := range m.ByCategory {
		categories = append(categories, name)
	}
	sort.Strings(categories)
	for _, name := range categories {
		ca := m.ByCategory[name]
		builder.WriteString(fmt.Sprintf("  %-8s %s (%d/%d)\n", name, formatPct(ca.Accuracy), ca.Correct, ca.Scored))
	}
	return builder.String()
}

func formatPct(d decimal.Decimal) string {
	return d.Mul(decimal.NewFromInt(100)).StringFixed(1) + "%"
}
