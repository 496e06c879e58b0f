package config

import (
	"github.com/yourusername/longball/internal/models"
)

// parks maps home-team code to venue reference data: coordinates for the
// weather lookup, the HR park factor relative to league average, and the
// centre-field compass orientation used by the wind factor.
var parks = map[string]models.ParkInfo{
	"NYY": {Venue: "Yankee Stadium", Lat: 40.8296, Lon: -73.9262, HRFactor: 1.15, Orientation: 75.0},
	"BOS": {Venue: "Fenway Park", Lat: 42.3467, Lon: -71.0972, HRFactor: 1.03, Orientation: 45.0},
	"TOR": {Venue: "Rogers Centre", Lat: 43.6418, Lon: -79.3891, HRFactor: 1.02, Orientation: 345.0},
	"BAL": {Venue: "Oriole Park at Camden Yards", Lat: 39.2838, Lon: -76.6215, HRFactor: 1.02, Orientation: 31.0},
	"TB":  {Venue: "Tropicana Field", Lat: 27.7682, Lon: -82.6534, HRFactor: 0.95, Orientation: 359.0},
	"CLE": {Venue: "Progressive Field", Lat: 41.4962, Lon: -81.6852, HRFactor: 0.98, Orientation: 0.0},
	"DET": {Venue: "Comerica Park", Lat: 42.3390, Lon: -83.0485, HRFactor: 0.92, Orientation: 150.0},
	"CWS": {Venue: "Guaranteed Rate Field", Lat: 41.8299, Lon: -87.6338, HRFactor: 1.12, Orientation: 127.0},
	"KC":  {Venue: "Kauffman Stadium", Lat: 39.0517, Lon: -94.4803, HRFactor: 0.85, Orientation: 46.0},
	"MIN": {Venue: "Target Field", Lat: 44.9817, Lon: -93.2776, HRFactor: 1.01, Orientation: 129.0},
	"HOU": {Venue: "Minute Maid Park", Lat: 29.7572, Lon: -95.3556, HRFactor: 1.18, Orientation: 343.0},
	"LAA": {Venue: "Angel Stadium", Lat: 33.8003, Lon: -117.8827, HRFactor: 1.05, Orientation: 44.0},
	"OAK": {Venue: "Oakland Coliseum", Lat: 37.7516, Lon: -122.2005, HRFactor: 0.90, Orientation: 55.0},
	"SEA": {Venue: "T-Mobile Park", Lat: 47.5914, Lon: -122.3325, HRFactor: 0.94, Orientation: 49.0},
	"TEX": {Venue: "Globe Life Field", Lat: 32.7473, Lon: -97.0832, HRFactor: 1.00, Orientation: 30.0},
	"ATL": {Venue: "Truist Park", Lat: 33.8907, Lon: -84.4676, HRFactor: 1.05, Orientation: 145.0},
	"MIA": {Venue: "loanDepot Park", Lat: 25.7784, Lon: -80.2197, HRFactor: 0.87, Orientation: 128.0},
	"NYM": {Venue: "Citi Field", Lat: 40.7571, Lon: -73.8458, HRFactor: 0.97, Orientation: 13.0},
	"PHI": {Venue: "Citizens Bank Park", Lat: 39.9058, Lon: -75.1666, HRFactor: 1.10, Orientation: 9.0},
	"WSH": {Venue: "Nationals Park", Lat: 38.8730, Lon: -77.0074, HRFactor: 1.02, Orientation: 28.0},
	"CHC": {Venue: "Wrigley Field", Lat: 41.9483, Lon: -87.6555, HRFactor: 1.08, Orientation: 37.0},
	"CIN": {Venue: "Great American Ball Park", Lat: 39.0970, Lon: -84.5066, HRFactor: 1.18, Orientation: 122.0},
	"MIL": {Venue: "American Family Field", Lat: 43.0280, Lon: -87.9712, HRFactor: 1.08, Orientation: 129.0},
	"PIT": {Venue: "PNC Park", Lat: 40.4468, Lon: -80.0061, HRFactor: 0.93, Orientation: 116.0},
	"STL": {Venue: "Busch Stadium", Lat: 38.6226, Lon: -90.1928, HRFactor: 0.95, Orientation: 62.0},
	"ARI": {Venue: "Chase Field", Lat: 33.4452, Lon: -112.0667, HRFactor: 1.04, Orientation: 0.0},
	"COL": {Venue: "Coors Field", Lat: 39.7561, Lon: -104.9941, HRFactor: 1.35, Orientation: 4.0},
	"LAD": {Venue: "Dodger Stadium", Lat: 34.0739, Lon: -118.2400, HRFactor: 0.98, Orientation: 26.0},
	"SD":  {Venue: "Petco Park", Lat: 32.7076, Lon: -117.1569, HRFactor: 0.94, Orientation: 0.0},
	"SF":  {Venue: "Oracle Park", Lat: 37.7786, Lon: -122.3893, HRFactor: 0.90, Orientation: 85.0},
}

// ParkForTeam returns venue reference data for a home team code. The
// second return is false for unknown codes; the caller treats the park
// factor as estimated in that case.
func ParkForTeam(teamCode string) (models.ParkInfo, bool) {
	park, ok := parks[teamCode]
	return park, ok
}
