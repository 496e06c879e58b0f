package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultWeightTable(t *testing.T) {
	table := DefaultWeightTable()

	assert.Equal(t, "v1", table.Version)
	assert.Equal(t, 0.03, table.BaseRate)
	assert.Equal(t, 0.01, table.MinProbability)
	assert.Equal(t, 0.25, table.MaxProbability)
	assert.Len(t, table.Weights, 26)
	assert.Equal(t, 0.10, table.Weights["recent_hr_rate"])
}

func TestDefaultWeightTableReturnsCopies(t *testing.T) {
	first := DefaultWeightTable()
	first.Weights["recent_hr_rate"] = 99

	second := DefaultWeightTable()
	assert.Equal(t, 0.10, second.Weights["recent_hr_rate"])
}

func TestLoadWeightTableBuiltIn(t *testing.T) {
	table, err := LoadWeightTable(&WeightsConfig{Version: "v1"})
	require.NoError(t, err)
	assert.Equal(t, "v1", table.Version)

	_, err = LoadWeightTable(&WeightsConfig{Version: "v9"})
	assert.Error(t, err)
}

func TestLoadWeightTableFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
version: v2
base_rate: 0.032
min_probability: 0.01
max_probability: 0.30
weights:
  recent_hr_rate: 0.12
  park_factor: 0.06
`), 0o644))

	table, err := LoadWeightTable(&WeightsConfig{Version: "v2", Path: path})
	require.NoError(t, err)
	assert.Equal(t, "v2", table.Version)
	assert.Equal(t, 0.032, table.BaseRate)
	assert.Equal(t, 0.12, table.Weights["recent_hr_rate"])
}

func TestLoadWeightTableVersionMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
version: v2
base_rate: 0.03
min_probability: 0.01
max_probability: 0.25
weights:
  recent_hr_rate: 0.1
`), 0o644))

	_, err := LoadWeightTable(&WeightsConfig{Version: "v3", Path: path})
	assert.Error(t, err)
}

func TestLoadWeightTableInvertedBounds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
version: v2
base_rate: 0.03
min_probability: 0.30
max_probability: 0.25
weights:
  recent_hr_rate: 0.1
`), 0o644))

	_, err := LoadWeightTable(&WeightsConfig{Version: "v2", Path: path})
	assert.Error(t, err)
}

func TestParkForTeam(t *testing.T) {
	park, ok := ParkForTeam("COL")
	require.True(t, ok)
	assert.Equal(t, "Coors Field", park.Venue)
	assert.InDelta(t, 1.35, park.HRFactor, 1e-9)

	_, ok = ParkForTeam("XXX")
	assert.False(t, ok)
}
