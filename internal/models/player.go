package models

// Handedness codes as reported by the stats upstream.
const (
	HandLeft   = "L"
	HandRight  = "R"
	HandSwitch = "S"
)

// Player roles within a lineup.
const (
	RoleBatter  = "batter"
	RolePitcher = "pitcher"
)

// Player is externally-owned reference data. The core reads it and never
// mutates it.
type Player struct {
	ID   string `json:"id" validate:"required"`
	Name string `json:"name" validate:"required"`
	Team string `json:"team"`
	Bats string `json:"bats"`
	// Throws is set for pitchers only.
	Throws string `json:"throws"`
	Role   string `json:"role" validate:"oneof=batter pitcher"`
}

// HasPlatoonAdvantage reports whether a batter's handedness favorably
// opposes the given pitcher hand. Switch hitters always take the
// advantageous side.
func (p *Player) HasPlatoonAdvantage(pitcherHand string) bool {
	if p.Bats == HandSwitch {
		return true
	}
	if p.Bats == "" || pitcherHand == "" {
		return false
	}
	return p.Bats != pitcherHand
}
