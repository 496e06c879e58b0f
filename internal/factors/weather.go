package factors

import (
	"math"

	"github.com/yourusername/longball/internal/models"
)

// Weather multiplier bounds. 1.0 is carry-neutral.
const (
	weatherFloor   = 0.7
	weatherCeiling = 1.5
)

// weatherFactor folds a venue forecast into a single carry modifier
// around zero. Requires both a reading and the park orientation; either
// missing yields the neutral default.
func weatherFactor(reading *models.WeatherReading, park *models.ParkInfo) models.FactorValue {
	if reading == nil || park == nil {
		return estimated(0)
	}
	return observed(carryMultiplier(reading, park) - 1.0)
}

// carryMultiplier computes the ball-carry multiplier in [0.7, 1.5].
func carryMultiplier(w *models.WeatherReading, park *models.ParkInfo) float64 {
	factor := 1.0

	// Warm air carries: one percent per degree around 70F, with an
	// extra kick or penalty at the extremes.
	factor *= 1.0 + (w.TempF-70.0)*0.01
	switch {
	case w.TempF > 85:
		factor *= 1.08
	case w.TempF < 50:
		factor *= 0.92
	}

	// Wind helps or hurts only when blowing near the park's
	// home-to-center line: two percent per mph, amplified in a gale.
	if w.WindSpeedMPH > 0 {
		diff := angularDistance(w.WindDegrees, park.Orientation)
		blowingOut := diff <= 45
		blowingIn := angularDistance(w.WindDegrees, park.Orientation+180) <= 45
		windEffect := w.WindSpeedMPH * 0.02
		switch {
		case blowingOut:
			factor *= 1.0 + windEffect
			if w.WindSpeedMPH > 15 {
				factor *= 1.15
			}
		case blowingIn:
			factor *= 1.0 - windEffect
			if w.WindSpeedMPH > 15 {
				factor *= 0.85
			}
		}
	}

	// Humid air is slightly less dense than the dry-air intuition
	// suggests: a small bonus above 50 percent, penalty below.
	factor *= 1.0 + (w.HumidityPct-50.0)*0.0005

	return clamp(factor, weatherFloor, weatherCeiling)
}

// angularDistance returns the smallest angle in degrees between two
// compass bearings.
func angularDistance(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), 360)
	if d > 180 {
		d = 360 - d
	}
	return d
}
