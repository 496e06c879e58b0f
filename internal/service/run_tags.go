package service

import (
	"fmt"
	"strings"

	"github.com/yourusername/longball/internal/datasource"
)

// RunTagEarly labels the morning run built from probable pitchers.
const RunTagEarly = "early"

// MiddayRunTag labels the nth lineup-confirmed run of the day.
func MiddayRunTag(n int) string {
	return fmt.Sprintf("midday-%d", n)
}

// LineupModeForTag maps a run tag to its lineup mode: the early run
// accepts probable starters, every later run requires confirmed
// lineups.
func LineupModeForTag(runTag string) datasource.LineupMode {
	if runTag == RunTagEarly {
		return datasource.ModeProbable
	}
	return datasource.ModeConfirmed
}

// ValidRunTag reports whether a tag is one the engine produces.
func ValidRunTag(runTag string) bool {
	if runTag == RunTagEarly {
		return true
	}
	if !strings.HasPrefix(runTag, "midday-") {
		return false
	}
	var n int
	_, err := fmt.Sscanf(runTag, "midday-%d", &n)
	return err == nil && n > 0
}
