package models

import (
	"encoding/json"
	"time"
)

// Factor value provenance.
const (
	FactorObserved         = "observed"
	FactorEstimatedDefault = "estimated-default"
)

// FactorValue is one normalized scoring input plus its provenance.
type FactorValue struct {
	Value  float64 `json:"value"`
	Source string  `json:"source"`
}

// FactorSet maps every declared factor name to a normalized value. The
// engine guarantees completeness: a missing input yields the factor's
// neutral default tagged estimated-default, never an absent key.
type FactorSet map[string]FactorValue

// Estimated returns the names of factors that fell back to their neutral
// default, sorted order not guaranteed.
func (fs FactorSet) Estimated() []string {
	var names []string
	for name, fv := range fs {
		if fv.Source == FactorEstimatedDefault {
			names = append(names, name)
		}
	}
	return names
}

// Prediction categories, strongest first.
const (
	CategoryLock    = "lock"
	CategoryHotPick = "hot_pick"
	CategorySleeper = "sleeper"
)

// Prediction is one run's calibrated home-run probability for a batter in
// a game. Immutable once created; a later run supersedes it under a new
// run-tag rather than editing it.
type Prediction struct {
	GameID       string    `json:"game_id" validate:"required"`
	PlayerID     string    `json:"player_id" validate:"required"`
	PlayerName   string    `json:"player_name"`
	Team         string    `json:"team"`
	Opponent     string    `json:"opponent"`
	Date         string    `json:"date" validate:"required,datetime=2006-01-02"`
	Probability  float64   `json:"probability" validate:"gte=0,lte=1"`
	SeasonHRRate float64   `json:"season_hr_rate"`
	Category     string    `json:"category" validate:"oneof=lock hot_pick sleeper"`
	Factors      FactorSet `json:"factors"`
	WeightsVersion string  `json:"weights_version"`
	RunTag       string    `json:"run_tag" validate:"required"`
	ComputedAt   time.Time `json:"computed_at"`
}

// FactorsJSON renders the factor snapshot for JSONB persistence.
func (p *Prediction) FactorsJSON() (json.RawMessage, error) {
	return json.Marshal(p.Factors)
}
