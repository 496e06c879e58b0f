package factors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/longball/internal/models"
)

func intPtr(v int) *int         { return &v }
func f64Ptr(v float64) *float64 { return &v }

func fullObservation() *models.RawObservation {
	return &models.RawObservation{
		Game:   models.Game{ID: "g1", Venue: "Yankee Stadium"},
		Batter: models.Player{ID: "b1", Name: "Test Batter", Bats: models.HandLeft},
		IsHome: true,
		Season: &models.BattingLine{
			PlateAppearances: intPtr(400),
			HomeRuns:         intPtr(28),
			SLG:              f64Ptr(0.560),
			ISO:              f64Ptr(0.310),
			FlyBallRate:      f64Ptr(0.42),
			HRPerFlyBall:     f64Ptr(0.18),
			HomeHRRate:       f64Ptr(0.09),
			AwayHRRate:       f64Ptr(0.05),
		},
		Recent: &models.BattingLine{
			PlateAppearances: intPtr(40),
			HomeRuns:         intPtr(4),
		},
		Contact: &models.ContactLine{
			BarrelRate:  f64Ptr(0.14),
			ExitVelo:    f64Ptr(92.5),
			LaunchAngle: f64Ptr(18.0),
			HardHitRate: f64Ptr(0.48),
			PullRate:    f64Ptr(0.45),
			XISO:        f64Ptr(0.280),
			XWOBA:       f64Ptr(0.400),
		},
		RecentContact: &models.ContactLine{
			BarrelRate: f64Ptr(0.28),
			ExitVelo:   f64Ptr(96.0),
		},
		Pitcher: &models.PitcherLine{
			Name:          "Test Pitcher",
			Throws:        models.HandRight,
			HRPer9:        f64Ptr(1.8),
			GBFBRatio:     f64Ptr(0.85),
			RecentPitches: intPtr(102),
		},
		Weather: &models.WeatherReading{
			TempF:        88.0,
			WindSpeedMPH: 12.0,
			WindDegrees:  75.0,
			HumidityPct:  60.0,
		},
		Park: &models.ParkInfo{
			Venue:       "Yankee Stadium",
			HRFactor:    1.15,
			Orientation: 75.0,
		},
	}
}

func TestComputeEmitsEveryDeclaredFactor(t *testing.T) {
	engine := NewEngine()

	fs := engine.Compute(fullObservation())

	require.Len(t, fs, len(Names()))
	for _, name := range Names() {
		fv, ok := fs[name]
		require.True(t, ok, "missing factor %s", name)
		assert.Equal(t, models.FactorObserved, fv.Source, "factor %s", name)
	}
}

func TestComputeEmitsEveryFactorFromEmptyObservation(t *testing.T) {
	engine := NewEngine()

	fs := engine.Compute(&models.RawObservation{
		Game:   models.Game{ID: "g1"},
		Batter: models.Player{ID: "b1"},
	})

	require.Len(t, fs, len(Names()))
	for _, name := range Names() {
		fv, ok := fs[name]
		require.True(t, ok, "missing factor %s", name)
		assert.Equal(t, models.FactorEstimatedDefault, fv.Source, "factor %s", name)
	}
	// Rate defaults sit at league averages, modifiers at zero.
	assert.InDelta(t, 0.03, fs[SeasonHRRate].Value, 1e-9)
	assert.InDelta(t, 0.0, fs[Weather].Value, 1e-9)
	assert.InDelta(t, 0.0, fs[ParkFactor].Value, 1e-9)
}

func TestComputeIsDeterministic(t *testing.T) {
	engine := NewEngine()
	obs := fullObservation()

	first := engine.Compute(obs)
	second := engine.Compute(obs)

	assert.Equal(t, first, second)
}

func TestComputeDoesNotMutateObservation(t *testing.T) {
	engine := NewEngine()
	obs := fullObservation()
	slgBefore := *obs.Season.SLG

	engine.Compute(obs)

	assert.Equal(t, slgBefore, *obs.Season.SLG)
}

func TestMissingWeatherFallsBackToNeutral(t *testing.T) {
	engine := NewEngine()
	obs := fullObservation()
	obs.Weather = nil

	fs := engine.Compute(obs)

	assert.Equal(t, models.FactorEstimatedDefault, fs[Weather].Source)
	assert.Zero(t, fs[Weather].Value)
	// Everything else remains observed.
	assert.Equal(t, models.FactorObserved, fs[SeasonHRRate].Source)
	assert.Equal(t, models.FactorObserved, fs[ParkFactor].Source)
}

func TestThresholdFactorsAreSteps(t *testing.T) {
	tests := []struct {
		name     string
		slg      float64
		expected float64
	}{
		{"elite slugging", 0.560, 0.4},
		{"strong slugging", 0.520, 0.2},
		{"just below elite cutoff", 0.550, 0.2},
		{"average slugging", 0.430, 0.0},
	}

	engine := NewEngine()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs := fullObservation()
			obs.Season.SLG = f64Ptr(tt.slg)

			fs := engine.Compute(obs)

			assert.InDelta(t, tt.expected, fs[SLGThreshold].Value, 1e-9)
		})
	}
}

func TestRecentThresholdsUseRecentWindow(t *testing.T) {
	engine := NewEngine()
	obs := fullObservation()

	fs := engine.Compute(obs)

	// Recent barrel 0.28 clears 0.25; recent EV 96 clears 95.
	assert.InDelta(t, 0.5, fs[RecentBarrelThreshold].Value, 1e-9)
	assert.InDelta(t, 0.4, fs[RecentEVThreshold].Value, 1e-9)

	obs.RecentContact = &models.ContactLine{
		BarrelRate: f64Ptr(0.10),
		ExitVelo:   f64Ptr(90.0),
	}
	fs = engine.Compute(obs)
	assert.Zero(t, fs[RecentBarrelThreshold].Value)
	assert.Zero(t, fs[RecentEVThreshold].Value)
}

func TestHRRateThresholdRequiresEliteRate(t *testing.T) {
	engine := NewEngine()
	obs := fullObservation()

	// 28/400 = 0.07: below the elite cutoff.
	fs := engine.Compute(obs)
	assert.Zero(t, fs[HRRateThreshold].Value)

	obs.Season.HomeRuns = intPtr(48)
	fs = engine.Compute(obs)
	assert.InDelta(t, 0.5, fs[HRRateThreshold].Value, 1e-9)
}

func TestPlatoonAdvantage(t *testing.T) {
	tests := []struct {
		name     string
		bats     string
		throws   string
		expected float64
	}{
		{"lefty vs righty", models.HandLeft, models.HandRight, 0.1},
		{"righty vs righty", models.HandRight, models.HandRight, -0.05},
		{"switch hitter always has it", models.HandSwitch, models.HandLeft, 0.1},
	}

	engine := NewEngine()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs := fullObservation()
			obs.Batter.Bats = tt.bats
			obs.Pitcher.Throws = tt.throws

			fs := engine.Compute(obs)

			assert.InDelta(t, tt.expected, fs[PlatoonAdvantage].Value, 1e-9)
			assert.Equal(t, models.FactorObserved, fs[PlatoonAdvantage].Source)
		})
	}
}

func TestPlatoonUnknownHandsIsEstimated(t *testing.T) {
	engine := NewEngine()
	obs := fullObservation()
	obs.Pitcher.Throws = ""

	fs := engine.Compute(obs)

	assert.Equal(t, models.FactorEstimatedDefault, fs[PlatoonAdvantage].Source)
	assert.Zero(t, fs[PlatoonAdvantage].Value)
}

func TestStreakFactor(t *testing.T) {
	tests := []struct {
		name      string
		recentHRs int
		recentPAs int
		expected  float64
	}{
		// Season rate is 0.07 (28/400).
		{"red hot doubles season rate", 8, 40, 0.15},
		{"ice cold", 0, 40, -0.1},
		{"steady", 3, 40, 3.0/40/0.07 - 1.0},
	}

	engine := NewEngine()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs := fullObservation()
			obs.Recent.HomeRuns = intPtr(tt.recentHRs)
			obs.Recent.PlateAppearances = intPtr(tt.recentPAs)

			fs := engine.Compute(obs)

			assert.InDelta(t, tt.expected, fs[Streak].Value, 1e-9)
		})
	}
}

func TestHomeAwaySplit(t *testing.T) {
	engine := NewEngine()
	obs := fullObservation()

	// Home rate 0.09 vs blend 0.07: a positive home bump.
	fs := engine.Compute(obs)
	assert.InDelta(t, 0.09/0.07-1.0, fs[HomeAwaySplit].Value, 1e-9)

	obs.IsHome = false
	fs = engine.Compute(obs)
	assert.InDelta(t, 0.05/0.07-1.0, fs[HomeAwaySplit].Value, 1e-9)
}

func TestFactorSetEstimatedNames(t *testing.T) {
	engine := NewEngine()
	obs := fullObservation()
	obs.Weather = nil
	obs.Contact = nil

	fs := engine.Compute(obs)

	estimated := fs.Estimated()
	assert.Contains(t, estimated, Weather)
	assert.Contains(t, estimated, BarrelRate)
	assert.Contains(t, estimated, XISO)
	assert.NotContains(t, estimated, SeasonHRRate)
}
