// Package scoring turns factor sets into calibrated home-run
// probabilities and slices a scored slate into ranked tiers.
package scoring

import (
	"fmt"
	"sort"

	"github.com/yourusername/longball/internal/config"
	"github.com/yourusername/longball/internal/models"
)

// ProbabilityModel applies a versioned weight table to factor sets.
// The model is a pure function of its table: the same factors under the
// same table always produce the same probability.
type ProbabilityModel struct {
	table *config.WeightTable
}

// NewProbabilityModel creates a model over a validated weight table.
func NewProbabilityModel(table *config.WeightTable) (*ProbabilityModel, error) {
	if table == nil {
		return nil, fmt.Errorf("weight table is required")
	}
	if len(table.Weights) == 0 {
		return nil, fmt.Errorf("weight table %s has no weights", table.Version)
	}
	return &ProbabilityModel{table: table}, nil
}

// Version returns the weight table version stamped onto predictions.
func (m *ProbabilityModel) Version() string {
	return m.table.Version
}

// Score computes the calibrated probability for one factor set. Factors
// without a weight contribute nothing; weights without a factor are
// treated as a zero factor value, so table and engine can evolve
// independently.
func (m *ProbabilityModel) Score(factors models.FactorSet) float64 {
	raw := 0.0
	for name, weight := range m.table.Weights {
		if fv, ok := factors[name]; ok {
			raw += weight * fv.Value
		}
	}

	p := m.table.BaseRate * (1.0 + raw)
	if p < m.table.MinProbability {
		return m.table.MinProbability
	}
	if p > m.table.MaxProbability {
		return m.table.MaxProbability
	}
	return p
}

// RankPredictions orders predictions by probability descending, with
// season HR rate and then player ID breaking ties so the order is total
// and reproducible across runs.
func RankPredictions(predictions []models.Prediction) {
	sort.SliceStable(predictions, func(i, j int) bool {
		a, b := predictions[i], predictions[j]
		if a.Probability != b.Probability {
			return a.Probability > b.Probability
		}
		if a.SeasonHRRate != b.SeasonHRRate {
			return a.SeasonHRRate > b.SeasonHRRate
		}
		return a.PlayerID < b.PlayerID
	})
}
