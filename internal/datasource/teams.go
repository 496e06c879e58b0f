package datasource

// teamCodes maps upstream club names to the team codes used across the
// system.
var teamCodes = map[string]string{
	"Angels": "LAA", "Astros": "HOU", "Athletics": "OAK", "Blue Jays": "TOR",
	"Braves": "ATL", "Brewers": "MIL", "Cardinals": "STL", "Cubs": "CHC",
	"D-backs": "ARI", "Diamondbacks": "ARI", "Dodgers": "LAD", "Giants": "SF",
	"Guardians": "CLE", "Indians": "CLE", "Mariners": "SEA", "Marlins": "MIA",
	"Mets": "NYM", "Nationals": "WSH", "Orioles": "BAL", "Padres": "SD",
	"Phillies": "PHI", "Pirates": "PIT", "Rangers": "TEX", "Rays": "TB",
	"Red Sox": "BOS", "Reds": "CIN", "Rockies": "COL", "Royals": "KC",
	"Tigers": "DET", "Twins": "MIN", "White Sox": "CWS", "Yankees": "NYY",
}

// TeamCode resolves an upstream club name to a team code. Full names like
// "New York Yankees" match on their club-name suffix.
func TeamCode(name string) string {
	if code, ok := teamCodes[name]; ok {
		return code
	}
	for suffix, code := range teamCodes {
		if len(name) > len(suffix) && name[len(name)-len(suffix):] == suffix {
			return code
		}
	}
	return ""
}
