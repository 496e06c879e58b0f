package datasource

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"context"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/longball/internal/models"
)

const mlbSourceName = "mlb_stats"

// MLBStatsClient talks to the MLB Stats API. It serves the schedule,
// conventional batting/pitching lines, confirmed and probable lineups,
// and post-game outcomes.
type MLBStatsClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	logger     *logrus.Entry
}

// NewMLBStatsClient creates a new MLB Stats API client
func NewMLBStatsClient(httpClient *RateLimitedHTTPClient, baseURL string, logger *logrus.Entry) *MLBStatsClient {
	return &MLBStatsClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		logger:     logger,
	}
}

// Name returns the source name used by fallback chains and metrics.
func (c *MLBStatsClient) Name() string {
	return mlbSourceName
}

// scheduleResponse mirrors the subset of the schedule payload we consume.
type scheduleResponse struct {
	Dates []struct {
		Date  string `json:"date"`
		Games []struct {
			GamePk   int64  `json:"gamePk"`
			GameDate string `json:"gameDate"`
			Status   struct {
				DetailedState string `json:"detailedState"`
			} `json:"status"`
			Teams struct {
				Home scheduleTeamEntry `json:"home"`
				Away scheduleTeamEntry `json:"away"`
			} `json:"teams"`
			Venue struct {
				Name string `json:"name"`
			} `json:"venue"`
		} `json:"games"`
	} `json:"dates"`
}

type scheduleTeamEntry struct {
	Team struct {
		Name string `json:"name"`
	} `json:"team"`
}

// FetchGames retrieves the games scheduled for a date (YYYY-MM-DD).
func (c *MLBStatsClient) FetchGames(ctx context.Context, date string) ([]models.Game, error) {
	url := fmt.Sprintf("%s/schedule?sportId=1&date=%s", c.baseURL, date)

	var payload scheduleResponse
	if err := c.getJSON(ctx, url, &payload); err != nil {
		return nil, err
	}

	var games []models.Game
	for _, d := range payload.Dates {
		for _, g := range d.Games {
			startTime, err := time.Parse(time.RFC3339, g.GameDate)
			if err != nil {
				c.logger.WithField("game_pk", g.GamePk).Warnf("Unparseable game time %q, skipping", g.GameDate)
				continue
			}
			game := models.Game{
				ID:           fmt.Sprintf("%d", g.GamePk),
				Date:         date,
				Venue:        g.Venue.Name,
				StartTime:    startTime,
				HomeTeam:     TeamCode(g.Teams.Home.Team.Name),
				AwayTeam:     TeamCode(g.Teams.Away.Team.Name),
				HomeTeamName: g.Teams.Home.Team.Name,
				AwayTeamName: g.Teams.Away.Team.Name,
				Status:       normalizeGameStatus(g.Status.DetailedState),
			}
			if game.HomeTeam == "" || game.AwayTeam == "" {
				c.logger.WithField("game_pk", g.GamePk).Warn("Unknown team name in schedule, skipping game")
				continue
			}
			games = append(games, game)
		}
	}

	return games, nil
}

func normalizeGameStatus(detailed string) string {
	switch detailed {
	case "Final", "Game Over", "Completed Early":
		return models.GameStatusFinal
	case "Postponed", "Suspended", "Cancelled":
		return models.GameStatusPostponed
	default:
		return models.GameStatusScheduled
	}
}

// statsResponse mirrors the people/{id}/stats payload.
type statsResponse struct {
	Stats []struct {
		Splits []struct {
			Stat map[string]json.RawMessage `json:"stat"`
		} `json:"splits"`
	} `json:"stats"`
}

// BatterSeason fetches a batter's season hitting line plus home/away
// HR-rate splits.
func (c *MLBStatsClient) BatterSeason(ctx context.Context, playerID string) (*models.BattingLine, error) {
	url := fmt.Sprintf("%s/people/%s/stats?stats=season&group=hitting", c.baseURL, playerID)
	line, err := c.fetchBattingLine(ctx, url)
	if err != nil {
		return nil, err
	}
	c.attachVenueSplits(ctx, playerID, line)
	return line, nil
}

// splitsResponse mirrors the statSplits payload subset we consume.
type splitsResponse struct {
	Stats []struct {
		Splits []struct {
			Split struct {
				Code string `json:"code"`
			} `json:"split"`
			Stat map[string]json.RawMessage `json:"stat"`
		} `json:"splits"`
	} `json:"stats"`
}

// attachVenueSplits backfills per-venue HR rates from the statSplits
// endpoint (sitCodes h/a). A split failure leaves the markers absent;
// it never fails the base line.
func (c *MLBStatsClient) attachVenueSplits(ctx context.Context, playerID string, line *models.BattingLine) {
	url := fmt.Sprintf("%s/people/%s/stats?stats=statSplits&group=hitting&sitCodes=h,a", c.baseURL, playerID)

	var payload splitsResponse
	if err := c.getJSON(ctx, url, &payload); err != nil {
		c.logger.WithField("player_id", playerID).Debugf("Venue splits unavailable: %v", err)
		return
	}

	for _, s := range payload.Stats {
		for _, split := range s.Splits {
			switch split.Split.Code {
			case "h":
				line.HomeHRRate = hrPerPA(split.Stat)
			case "a":
				line.AwayHRRate = hrPerPA(split.Stat)
			}
		}
	}
}

func hrPerPA(stat map[string]json.RawMessage) *float64 {
	hr, pa := intField(stat, "homeRuns"), intField(stat, "plateAppearances")
	if hr == nil || pa == nil || *pa == 0 {
		return nil
	}
	rate := float64(*hr) / float64(*pa)
	return &rate
}

// BatterRecent fetches a batter's hitting line over the trailing window.
func (c *MLBStatsClient) BatterRecent(ctx context.Context, playerID string, days int) (*models.BattingLine, error) {
	end := time.Now().UTC()
	start := end.AddDate(0, 0, -days)
	url := fmt.Sprintf("%s/people/%s/stats?stats=byDateRange&group=hitting&startDate=%s&endDate=%s",
		c.baseURL, playerID, start.Format("2006-01-02"), end.Format("2006-01-02"))
	return c.fetchBattingLine(ctx, url)
}

func (c *MLBStatsClient) fetchBattingLine(ctx context.Context, url string) (*models.BattingLine, error) {
	var payload statsResponse
	if err := c.getJSON(ctx, url, &payload); err != nil {
		return nil, err
	}

	stat := firstSplit(&payload)
	if stat == nil {
		// Responded but no split: structurally absent (e.g. rookie with no
		// window data). Absence markers stay nil for the factor engine.
		return &models.BattingLine{}, nil
	}

	line := &models.BattingLine{
		PlateAppearances: intField(stat, "plateAppearances"),
		HomeRuns:         intField(stat, "homeRuns"),
		SLG:              floatField(stat, "slg"),
		FlyBallRate:      rateFromCounts(stat, "flyOuts", "atBats"),
		HRPerFlyBall:     nil,
	}
	if slg, avg := floatField(stat, "slg"), floatField(stat, "avg"); slg != nil && avg != nil {
		iso := *slg - *avg
		line.ISO = &iso
	}
	if hr, fb := intField(stat, "homeRuns"), intField(stat, "flyOuts"); hr != nil && fb != nil && *fb+*hr > 0 {
		ratio := float64(*hr) / float64(*fb+*hr)
		line.HRPerFlyBall = &ratio
	}
	return line, nil
}

// PitcherSeason fetches a pitcher's season line.
func (c *MLBStatsClient) PitcherSeason(ctx context.Context, playerID string) (*models.PitcherLine, error) {
	url := fmt.Sprintf("%s/people/%s/stats?stats=season&group=pitching", c.baseURL, playerID)

	var payload statsResponse
	if err := c.getJSON(ctx, url, &payload); err != nil {
		return nil, err
	}

	stat := firstSplit(&payload)
	if stat == nil {
		return &models.PitcherLine{}, nil
	}

	line := &models.PitcherLine{
		HRPer9:        floatField(stat, "homeRunsPer9"),
		GBFBRatio:     floatField(stat, "groundOutsToAirouts"),
		RecentPitches: intField(stat, "numberOfPitches"),
	}
	return line, nil
}

// getJSON performs a GET and decodes the body, mapping HTTP failures onto
// the source error taxonomy.
func (c *MLBStatsClient) getJSON(ctx context.Context, url string, out interface{}) error {
	resp, err := c.httpClient.Get(ctx, url)
	if err != nil {
		return NewSourceError(mlbSourceName, ErrCodeNetworkError, "request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return NewSourceError(mlbSourceName, ErrCodeNotFound, url, nil)
	case resp.StatusCode == http.StatusTooManyRequests:
		return NewSourceError(mlbSourceName, ErrCodeRateLimitExceeded, "rate limit exceeded", nil)
	case resp.StatusCode >= 500:
		return NewSourceError(mlbSourceName, ErrCodeServerError, fmt.Sprintf("status %d", resp.StatusCode), nil)
	case resp.StatusCode != http.StatusOK:
		return NewSourceError(mlbSourceName, ErrCodeInvalidData, fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return NewSourceError(mlbSourceName, ErrCodeInvalidData, "failed to parse response", err)
	}
	return nil
}

func firstSplit(payload *statsResponse) map[string]json.RawMessage {
	for _, s := range payload.Stats {
		for _, split := range s.Splits {
			if len(split.Stat) > 0 {
				return split.Stat
			}
		}
	}
	return nil
}

// intField extracts an integer stat, nil when absent or malformed.
func intField(stat map[string]json.RawMessage, key string) *int {
	raw, ok := stat[key]
	if !ok {
		return nil
	}
	var v int
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return &v
}

// floatField extracts a numeric stat that the upstream may encode as a
// JSON number or a string like ".512".
func floatField(stat map[string]json.RawMessage, key string) *float64 {
	raw, ok := stat[key]
	if !ok {
		return nil
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err == nil {
		return &v
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	var parsed float64
	if _, err := fmt.Sscanf(s, "%f", &parsed); err != nil {
		return nil
	}
	return &parsed
}

func rateFromCounts(stat map[string]json.RawMessage, numKey, denKey string) *float64 {
	num, den := intField(stat, numKey), intField(stat, denKey)
	if num == nil || den == nil || *den == 0 {
		return nil
	}
	rate := float64(*num) / float64(*den)
	return &rate
}
