package models

import (
	"time"
)

// BattingLine holds unnormalized batting stats for one window. Pointer
// fields distinguish "absent upstream" from a true zero; the factor
// engine owns the defaulting policy.
type BattingLine struct {
	PlateAppearances *int     `json:"plate_appearances"`
	HomeRuns         *int     `json:"home_runs"`
	SLG              *float64 `json:"slg"`
	ISO              *float64 `json:"iso"`
	FlyBallRate      *float64 `json:"fly_ball_rate"`
	HRPerFlyBall     *float64 `json:"hr_per_fly_ball"`
	// HomeHRRate and AwayHRRate come from the venue-split endpoint and
	// may be absent even when the base line is not.
	HomeHRRate *float64 `json:"home_hr_rate"`
	AwayHRRate *float64 `json:"away_hr_rate"`
}

// HRRate returns home runs per plate appearance, or false when either
// input is absent or the sample is empty.
func (b *BattingLine) HRRate() (float64, bool) {
	if b == nil || b.HomeRuns == nil || b.PlateAppearances == nil || *b.PlateAppearances == 0 {
		return 0, false
	}
	return float64(*b.HomeRuns) / float64(*b.PlateAppearances), true
}

// ContactLine holds Statcast contact and batted-ball metrics for one
// window.
type ContactLine struct {
	BarrelRate  *float64 `json:"barrel_rate"`
	ExitVelo    *float64 `json:"exit_velo"`
	LaunchAngle *float64 `json:"launch_angle"`
	HardHitRate *float64 `json:"hard_hit_rate"`
	PullRate    *float64 `json:"pull_rate"`
	XISO        *float64 `json:"xiso"`
	XWOBA       *float64 `json:"xwoba"`
}

// PitcherLine holds unnormalized stats for the opposing starter.
type PitcherLine struct {
	Name          string   `json:"name"`
	Throws        string   `json:"throws"`
	HRPer9        *float64 `json:"hr_per_9"`
	GBFBRatio     *float64 `json:"gb_fb_ratio"`
	RecentPitches *int     `json:"recent_pitches"`
}

// WeatherReading is a forecast snapshot for a venue at game time.
type WeatherReading struct {
	TempF         float64 `json:"temp_f"`
	WindSpeedMPH  float64 `json:"wind_speed_mph"`
	WindDegrees   float64 `json:"wind_degrees"`
	HumidityPct   float64 `json:"humidity_pct"`
}

// ParkInfo carries venue reference data used by park and wind factors.
// Lat/Lon key the weather forecast lookup.
type ParkInfo struct {
	Venue       string  `json:"venue"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	HRFactor    float64 `json:"hr_factor"`
	Orientation float64 `json:"orientation"`
}

// RawObservation bundles the best-available inputs for one batter in one
// game. Produced fresh each run by the aggregator and never persisted.
type RawObservation struct {
	Game      Game    `json:"game"`
	Batter    Player  `json:"batter"`
	IsHome    bool    `json:"is_home"`
	Season    *BattingLine    `json:"season"`
	Recent    *BattingLine    `json:"recent"`
	Contact   *ContactLine    `json:"contact"`
	RecentContact *ContactLine `json:"recent_contact"`
	Pitcher   *PitcherLine    `json:"pitcher"`
	Weather   *WeatherReading `json:"weather"`
	Park      *ParkInfo       `json:"park"`
	FetchedAt time.Time       `json:"fetched_at"`
}
