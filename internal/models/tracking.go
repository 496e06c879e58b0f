package models

import (
	"time"
)

// TrackingRecord lifecycle states. Recorded -> Verified is the only
// transition; an unmatched record stays Recorded permanently.
const (
	StateRecorded = "recorded"
	StateVerified = "verified"
)

// TrackingRecord is a persisted Prediction plus, once known, the real
// outcome.
type TrackingRecord struct {
	Prediction Prediction `json:"prediction"`
	State      string     `json:"state"`
	// HitHomeRun is nil until the record is verified.
	HitHomeRun *bool      `json:"hit_home_run"`
	VerifiedAt *time.Time `json:"verified_at"`
}

// Correct reports whether the predicted outcome occurred. Only meaningful
// for verified records.
func (r *TrackingRecord) Correct() bool {
	return r.State == StateVerified && r.HitHomeRun != nil && *r.HitHomeRun
}

// Outcome is an actual occurrence reported by the outcome source for a
// past date.
type Outcome struct {
	GameID     string `json:"game_id"`
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	HomeRuns   int    `json:"home_runs"`
	// GameFinal is false for postponed or suspended games; their
	// predictions are excluded from grading.
	GameFinal bool `json:"game_final"`
}
