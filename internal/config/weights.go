package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// DefaultWeightsVersion is the built-in weight table shipped with the binary.
const DefaultWeightsVersion = "v1"

// WeightTable is the versioned, immutable scoring configuration consumed
// by the probability model. Loaded once per run; never mutated mid-run.
type WeightTable struct {
	Version string `mapstructure:"version" validate:"required"`
	// BaseRate is the league-average per-PA home-run rate the weighted
	// score modulates.
	BaseRate float64 `mapstructure:"base_rate" validate:"required,gt=0,lt=1"`
	// MinProbability and MaxProbability bound the calibrated output away
	// from 0 and 1.
	MinProbability float64 `mapstructure:"min_probability" validate:"required,gt=0,lt=1"`
	MaxProbability float64 `mapstructure:"max_probability" validate:"required,gt=0,lt=1"`
	// Weights maps factor name to its signed weight.
	Weights map[string]float64 `mapstructure:"weights" validate:"required,min=1"`
}

// defaultWeights carries the tuned v1 factor weights.
var defaultWeights = map[string]float64{
	// Core rates
	"recent_hr_rate": 0.10,
	"season_hr_rate": 0.07,
	"park_factor":    0.05,
	"pitcher_hr9":    0.06,

	// Contact quality
	"barrel_rate":   0.05,
	"exit_velocity": 0.04,
	"hard_hit_rate": 0.04,
	"launch_angle":  0.03,

	// Batted ball direction
	"pull_rate":       0.04,
	"fly_ball_rate":   0.02,
	"hr_per_fly_ball": 0.03,

	// Matchup
	"platoon_advantage": 0.03,
	"pitcher_gb_fb":     0.02,
	"pitcher_workload":  0.02,

	// Context
	"weather":         0.03,
	"home_away_split": 0.02,
	"streak":          0.04,

	// Expected stats
	"xiso":  0.06,
	"xwoba": 0.05,

	// Threshold steps
	"slg_threshold":           0.05,
	"iso_threshold":           0.05,
	"recent_barrel_threshold": 0.04,
	"recent_ev_threshold":     0.04,
	"season_barrel_threshold": 0.04,
	"season_ev_threshold":     0.04,
	"hr_rate_threshold":       0.04,
}

// DefaultWeightTable returns the built-in v1 table. Callers receive a
// fresh copy so a shared map can never be mutated.
func DefaultWeightTable() *WeightTable {
	weights := make(map[string]float64, len(defaultWeights))
	for name, w := range defaultWeights {
		weights[name] = w
	}
	return &WeightTable{
		Version:        DefaultWeightsVersion,
		BaseRate:       0.03,
		MinProbability: 0.01,
		MaxProbability: 0.25,
		Weights:        weights,
	}
}

// LoadWeightTable resolves the weight table for the configured version.
// Without a path it returns the built-in defaults; with one it parses the
// YAML table and checks the version matches the selection.
func LoadWeightTable(cfg *WeightsConfig) (*WeightTable, error) {
	if cfg.Path == "" {
		if cfg.Version != DefaultWeightsVersion {
			return nil, fmt.Errorf("unknown built-in weight table version %q", cfg.Version)
		}
		return DefaultWeightTable(), nil
	}

	data, err := os.ReadFile(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read weight table %s: %w", cfg.Path, err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to parse weight table: %w", err)
	}

	table := &WeightTable{}
	if err := v.Unmarshal(table); err != nil {
		return nil, fmt.Errorf("failed to unmarshal weight table: %w", err)
	}

	if table.Version != cfg.Version {
		return nil, fmt.Errorf("weight table version mismatch: file has %q, config selects %q", table.Version, cfg.Version)
	}
	if table.MinProbability >= table.MaxProbability {
		return nil, fmt.Errorf("weight table bounds inverted: min %.3f >= max %.3f", table.MinProbability, table.MaxProbability)
	}
	return table, nil
}
