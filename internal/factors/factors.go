// Package factors converts raw per-batter observations into the
// normalized factor set consumed by the probability model. Every
// declared factor is always present in the output: a missing input
// takes the factor's neutral default and is tagged estimated-default so
// downstream consumers can disclose which metrics were inferred.
package factors

import (
	"github.com/yourusername/longball/internal/models"
)

// Factor names. Rate factors carry a bounded raw rate; the remaining
// factors carry a signed modifier around zero (multiplier minus one).
const (
	RecentHRRate     = "recent_hr_rate"
	SeasonHRRate     = "season_hr_rate"
	ParkFactor       = "park_factor"
	PitcherHR9       = "pitcher_hr9"
	BarrelRate       = "barrel_rate"
	ExitVelocity     = "exit_velocity"
	HardHitRate      = "hard_hit_rate"
	LaunchAngle      = "launch_angle"
	PullRate         = "pull_rate"
	FlyBallRate      = "fly_ball_rate"
	HRPerFlyBall     = "hr_per_fly_ball"
	PlatoonAdvantage = "platoon_advantage"
	PitcherGBFB      = "pitcher_gb_fb"
	PitcherWorkload  = "pitcher_workload"
	Weather          = "weather"
	HomeAwaySplit    = "home_away_split"
	Streak           = "streak"
	XISO             = "xiso"
	XWOBA            = "xwoba"
	SLGThreshold     = "slg_threshold"
	ISOThreshold     = "iso_threshold"
	RecentBarrelThreshold = "recent_barrel_threshold"
	RecentEVThreshold     = "recent_ev_threshold"
	SeasonBarrelThreshold = "season_barrel_threshold"
	SeasonEVThreshold     = "season_ev_threshold"
	HRRateThreshold       = "hr_rate_threshold"
)

// names lists every declared factor; Compute emits exactly this set.
var names = []string{
	RecentHRRate, SeasonHRRate, ParkFactor, PitcherHR9,
	BarrelRate, ExitVelocity, HardHitRate, LaunchAngle,
	PullRate, FlyBallRate, HRPerFlyBall,
	PlatoonAdvantage, PitcherGBFB, PitcherWorkload,
	Weather, HomeAwaySplit, Streak,
	XISO, XWOBA,
	SLGThreshold, ISOThreshold,
	RecentBarrelThreshold, RecentEVThreshold,
	SeasonBarrelThreshold, SeasonEVThreshold, HRRateThreshold,
}

// Names returns the declared factor names in a stable order.
func Names() []string {
	out := make([]string, len(names))
	copy(out, names)
	return out
}

// League reference values used as neutral defaults and scaling anchors.
const (
	leagueHRRate      = 0.03  // HR per plate appearance
	leagueBarrelRate  = 0.08
	leagueExitVelo    = 88.0  // mph
	leagueHardHitRate = 0.35
	leagueFlyBallRate = 0.35
	leaguePullRate    = 0.40
	leagueHRPerFB     = 0.11
	leagueHR9         = 1.3
	leagueGBFBRatio   = 1.15
	leagueXISO        = 0.150
	leagueXWOBA       = 0.320
)

// Engine computes factor sets. Stateless; every factor is a pure
// function of the observation and no factor depends on another.
type Engine struct{}

// NewEngine creates a factor engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Compute normalizes one observation into a complete factor set.
func (e *Engine) Compute(obs *models.RawObservation) models.FactorSet {
	fs := make(models.FactorSet, len(names))

	fs[RecentHRRate] = hrRateFactor(obs.Recent)
	fs[SeasonHRRate] = hrRateFactor(obs.Season)
	fs[ParkFactor] = parkFactor(obs.Park)
	fs[PitcherHR9] = pitcherHR9Factor(obs.Pitcher)

	fs[BarrelRate] = ratioFactor(contactField(obs.Contact, func(c *models.ContactLine) *float64 { return c.BarrelRate }), leagueBarrelRate, 1.0)
	fs[ExitVelocity] = exitVeloFactor(contactField(obs.Contact, func(c *models.ContactLine) *float64 { return c.ExitVelo }))
	fs[HardHitRate] = ratioFactor(contactField(obs.Contact, func(c *models.ContactLine) *float64 { return c.HardHitRate }), leagueHardHitRate, 1.0)
	fs[LaunchAngle] = launchAngleFactor(contactField(obs.Contact, func(c *models.ContactLine) *float64 { return c.LaunchAngle }))

	fs[PullRate] = ratioFactor(contactField(obs.Contact, func(c *models.ContactLine) *float64 { return c.PullRate }), leaguePullRate, 1.0)
	fs[FlyBallRate] = ratioFactor(battingField(obs.Season, func(b *models.BattingLine) *float64 { return b.FlyBallRate }), leagueFlyBallRate, 1.0)
	fs[HRPerFlyBall] = ratioFactor(battingField(obs.Season, func(b *models.BattingLine) *float64 { return b.HRPerFlyBall }), leagueHRPerFB, 1.0)

	fs[PlatoonAdvantage] = platoonFactor(&obs.Batter, obs.Pitcher)
	fs[PitcherGBFB] = pitcherGBFBFactor(obs.Pitcher)
	fs[PitcherWorkload] = workloadFactor(obs.Pitcher)

	fs[Weather] = weatherFactor(obs.Weather, obs.Park)
	fs[HomeAwaySplit] = homeAwayFactor(obs.Season, obs.IsHome)
	fs[Streak] = streakFactor(obs.Season, obs.Recent)

	fs[XISO] = expectedStatFactor(contactField(obs.Contact, func(c *models.ContactLine) *float64 { return c.XISO }), leagueXISO, 4.0)
	fs[XWOBA] = expectedStatFactor(contactField(obs.Contact, func(c *models.ContactLine) *float64 { return c.XWOBA }), leagueXWOBA, 3.0)

	fs[SLGThreshold] = stepFactor(battingField(obs.Season, func(b *models.BattingLine) *float64 { return b.SLG }), []step{{0.550, 0.4}, {0.500, 0.2}})
	fs[ISOThreshold] = stepFactor(battingField(obs.Season, func(b *models.BattingLine) *float64 { return b.ISO }), []step{{0.300, 0.4}, {0.250, 0.2}})
	fs[RecentBarrelThreshold] = stepFactor(contactField(obs.RecentContact, func(c *models.ContactLine) *float64 { return c.BarrelRate }), []step{{0.25, 0.5}})
	fs[RecentEVThreshold] = stepFactor(contactField(obs.RecentContact, func(c *models.ContactLine) *float64 { return c.ExitVelo }), []step{{95.0, 0.4}})
	fs[SeasonBarrelThreshold] = stepFactor(contactField(obs.Contact, func(c *models.ContactLine) *float64 { return c.BarrelRate }), []step{{0.20, 0.5}})
	fs[SeasonEVThreshold] = stepFactor(contactField(obs.Contact, func(c *models.ContactLine) *float64 { return c.ExitVelo }), []step{{95.0, 0.4}})
	fs[HRRateThreshold] = hrRateStepFactor(obs.Season)

	return fs
}

func observed(v float64) models.FactorValue {
	return models.FactorValue{Value: v, Source: models.FactorObserved}
}

func estimated(v float64) models.FactorValue {
	return models.FactorValue{Value: v, Source: models.FactorEstimatedDefault}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// contactField safely extracts a pointer field from a possibly-nil line.
func contactField(line *models.ContactLine, get func(*models.ContactLine) *float64) *float64 {
	if line == nil {
		return nil
	}
	return get(line)
}

func battingField(line *models.BattingLine, get func(*models.BattingLine) *float64) *float64 {
	if line == nil {
		return nil
	}
	return get(line)
}

// hrRateFactor passes a HR-per-PA rate through bounded to its natural
// domain; neutral default is the league rate.
func hrRateFactor(line *models.BattingLine) models.FactorValue {
	rate, ok := line.HRRate()
	if !ok {
		return estimated(leagueHRRate)
	}
	return observed(clamp(rate, 0, 0.5))
}

// ratioFactor bounds a rate to [0, cap]; neutral default is the league
// reference.
func ratioFactor(rate *float64, neutral, upper float64) models.FactorValue {
	if rate == nil {
		return estimated(neutral)
	}
	return observed(clamp(*rate, 0, upper))
}

// parkFactor converts a venue HR factor to a modifier around zero.
func parkFactor(park *models.ParkInfo) models.FactorValue {
	if park == nil {
		return estimated(0)
	}
	return observed(park.HRFactor - 1.0)
}

// pitcherHR9Factor scales HR allowed per nine innings to a per-inning
// rate so its magnitude is comparable with the batting rates.
func pitcherHR9Factor(pitcher *models.PitcherLine) models.FactorValue {
	if pitcher == nil || pitcher.HRPer9 == nil {
		return estimated(leagueHR9 / 9.0)
	}
	return observed(clamp(*pitcher.HRPer9/9.0, 0, 0.5))
}

// exitVeloFactor scales average exit velocity against the league
// reference band (roughly 83-95 mph).
func exitVeloFactor(ev *float64) models.FactorValue {
	if ev == nil {
		return estimated(0)
	}
	return observed(clamp((*ev-leagueExitVelo)/10.0, -1.0, 1.0))
}

// launchAngleFactor rewards the HR-optimal launch window.
func launchAngleFactor(angle *float64) models.FactorValue {
	if angle == nil {
		return estimated(0)
	}
	a := *angle
	switch {
	case a >= 15 && a <= 30:
		return observed(0.2)
	case a >= 10 && a <= 35:
		return observed(0.1)
	case a < 5 || a > 45:
		return observed(-0.1)
	default:
		return observed(0)
	}
}

// platoonFactor reduces the handedness matchup to a small signed value.
func platoonFactor(batter *models.Player, pitcher *models.PitcherLine) models.FactorValue {
	if pitcher == nil || pitcher.Throws == "" || batter.Bats == "" {
		return estimated(0)
	}
	if batter.HasPlatoonAdvantage(pitcher.Throws) {
		return observed(0.1)
	}
	return observed(-0.05)
}

// pitcherGBFBFactor favors fly-ball pitchers (low GB/FB ratio).
func pitcherGBFBFactor(pitcher *models.PitcherLine) models.FactorValue {
	if pitcher == nil || pitcher.GBFBRatio == nil {
		return estimated(0)
	}
	return observed(clamp((leagueGBFBRatio-*pitcher.GBFBRatio)*0.5, -0.3, 0.3))
}

// workloadFactor nudges the score up against a heavily-worked starter.
func workloadFactor(pitcher *models.PitcherLine) models.FactorValue {
	if pitcher == nil || pitcher.RecentPitches == nil {
		return estimated(0)
	}
	switch {
	case *pitcher.RecentPitches > 110:
		return observed(0.15)
	case *pitcher.RecentPitches > 95:
		return observed(0.05)
	default:
		return observed(0)
	}
}

// homeAwayFactor compares the batter's venue-side HR rate to the blend.
func homeAwayFactor(season *models.BattingLine, isHome bool) models.FactorValue {
	if season == nil || season.HomeHRRate == nil || season.AwayHRRate == nil {
		return estimated(0)
	}
	side := *season.AwayHRRate
	if isHome {
		side = *season.HomeHRRate
	}
	blend := (*season.HomeHRRate + *season.AwayHRRate) / 2
	if blend == 0 {
		return observed(0)
	}
	return observed(clamp(side/blend-1.0, -0.5, 0.5))
}

// streakFactor compares the recent window against the season baseline.
func streakFactor(season, recent *models.BattingLine) models.FactorValue {
	seasonRate, okSeason := season.HRRate()
	recentRate, okRecent := recent.HRRate()
	if !okSeason || !okRecent {
		return estimated(0)
	}
	switch {
	case seasonRate == 0:
		return observed(0)
	case recentRate >= seasonRate*2:
		return observed(0.15)
	case recentRate == 0:
		return observed(-0.1)
	default:
		return observed(clamp(recentRate/seasonRate-1.0, -0.3, 0.3))
	}
}

// expectedStatFactor scales an expected stat's distance from league
// average, mirroring how xISO/xwOBA surpluses track HR likelihood.
func expectedStatFactor(v *float64, neutral, scale float64) models.FactorValue {
	if v == nil {
		return estimated(0)
	}
	return observed(clamp((*v-neutral)*scale, -0.6, 0.8))
}

// step is one cutoff of a documented step function: values strictly
// above Cutoff earn Bonus.
type step struct {
	Cutoff float64
	Bonus  float64
}

// stepFactor applies the highest step whose cutoff the value exceeds.
// The cutoffs are steps, not slopes: a value just under a cutoff earns
// the lower bonus in full.
func stepFactor(v *float64, steps []step) models.FactorValue {
	if v == nil {
		return estimated(0)
	}
	for _, s := range steps {
		if *v > s.Cutoff {
			return observed(s.Bonus)
		}
	}
	return observed(0)
}

// hrRateStepFactor applies the elite season HR-rate step.
func hrRateStepFactor(season *models.BattingLine) models.FactorValue {
	rate, ok := season.HRRate()
	if !ok {
		return estimated(0)
	}
	if rate > 0.10 {
		return observed(0.5)
	}
	return observed(0)
}
