package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/longball/internal/models"
)

const rotowireSourceName = "rotowire"

// RotowireClient is the fallback lineup provider. Rotowire publishes
// projected and confirmed lineups earlier than the league feed on most
// days, which is what makes it a useful secondary.
type RotowireClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	logger     *logrus.Entry
}

// NewRotowireClient creates a new Rotowire lineup client
func NewRotowireClient(httpClient *RateLimitedHTTPClient, baseURL string, logger *logrus.Entry) *RotowireClient {
	return &RotowireClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		logger:     logger,
	}
}

// Name returns the source name used by fallback chains and metrics.
func (c *RotowireClient) Name() string {
	return rotowireSourceName
}

// rotowireLineup mirrors the lineup payload for one game.
type rotowireLineup struct {
	GameID    string             `json:"gameId"`
	Confirmed bool               `json:"confirmed"`
	Home      rotowireTeamLineup `json:"home"`
	Away      rotowireTeamLineup `json:"away"`
}

type rotowireTeamLineup struct {
	Team    string           `json:"team"`
	Pitcher *rotowirePlayer  `json:"pitcher"`
	Batters []rotowirePlayer `json:"batters"`
}

type rotowirePlayer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Bats  string `json:"bats"`
	Hand  string `json:"hand"`
}

// FetchLineup retrieves starters for a game from Rotowire.
func (c *RotowireClient) FetchLineup(ctx context.Context, gameID string, mode LineupMode) (*Lineup, error) {
	url := fmt.Sprintf("%s/lineups/game/%s", c.baseURL, gameID)

	resp, err := c.httpClient.Get(ctx, url)
	if err != nil {
		return nil, NewSourceError(rotowireSourceName, ErrCodeNetworkError, "request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, NewSourceError(rotowireSourceName, ErrCodeNotFound,
			fmt.Sprintf("no lineup published for game %s", gameID), nil)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, NewSourceError(rotowireSourceName, ErrCodeRateLimitExceeded, "rate limit exceeded", nil)
	case resp.StatusCode >= 500:
		return nil, NewSourceError(rotowireSourceName, ErrCodeServerError, fmt.Sprintf("status %d", resp.StatusCode), nil)
	case resp.StatusCode != http.StatusOK:
		return nil, NewSourceError(rotowireSourceName, ErrCodeInvalidData, fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	var payload rotowireLineup
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, NewSourceError(rotowireSourceName, ErrCodeInvalidData, "failed to parse response", err)
	}

	if mode == ModeConfirmed && !payload.Confirmed {
		return nil, NewSourceError(rotowireSourceName, ErrCodeNotFound,
			fmt.Sprintf("lineup not yet confirmed for game %s", gameID), nil)
	}

	lineup := &Lineup{
		GameID:      gameID,
		Home:        convertRotowireBatters(payload.Home),
		Away:        convertRotowireBatters(payload.Away),
		HomePitcher: convertRotowirePitcher(payload.Home),
		AwayPitcher: convertRotowirePitcher(payload.Away),
		Confirmed:   payload.Confirmed,
	}
	if len(lineup.Home) == 0 || len(lineup.Away) == 0 {
		return nil, NewSourceError(rotowireSourceName, ErrCodeInvalidData,
			fmt.Sprintf("empty lineup for game %s", gameID), nil)
	}
	return lineup, nil
}

func convertRotowireBatters(team rotowireTeamLineup) []models.Player {
	batters := make([]models.Player, 0, len(team.Batters))
	for _, b := range team.Batters {
		batters = append(batters, models.Player{
			ID:   b.ID,
			Name: b.Name,
			Team: team.Team,
			Bats: b.Bats,
			Role: models.RoleBatter,
		})
	}
	return batters
}

func convertRotowirePitcher(team rotowireTeamLineup) *models.Player {
	if team.Pitcher == nil {
		return nil
	}
	return &models.Player{
		ID:     team.Pitcher.ID,
		Name:   team.Pitcher.Name,
		Team:   team.Team,
		Throws: team.Pitcher.Hand,
		Role:   models.RolePitcher,
	}
}
