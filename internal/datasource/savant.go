package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/longball/internal/models"
)

const savantSourceName = "baseball_savant"

// SavantClient fetches Statcast contact-quality metrics from Baseball
// Savant. Responses are cached with a TTL: leaderboard extracts are
// recomputed upstream at most a few times per day, and repeated intra-day
// runs would otherwise hammer the same endpoints.
type SavantClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	cache      *cache.Cache
	logger     *logrus.Entry
}

// NewSavantClient creates a new Baseball Savant client
func NewSavantClient(httpClient *RateLimitedHTTPClient, baseURL string, ttl time.Duration, logger *logrus.Entry) *SavantClient {
	return &SavantClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		cache:      cache.New(ttl, ttl*2),
		logger:     logger,
	}
}

// savantStatLine mirrors the player statcast payload subset we consume.
type savantStatLine struct {
	BarrelRate  *float64 `json:"brl_percent"`
	ExitVelo    *float64 `json:"avg_hit_speed"`
	LaunchAngle *float64 `json:"avg_hit_angle"`
	HardHitRate *float64 `json:"ev95percent"`
	PullRate    *float64 `json:"pull_percent"`
	XISO        *float64 `json:"xiso"`
	XWOBA       *float64 `json:"xwoba"`
}

// BatterContact fetches season contact-quality metrics for a batter.
func (c *SavantClient) BatterContact(ctx context.Context, playerID string) (*models.ContactLine, error) {
	key := "season:" + playerID
	url := fmt.Sprintf("%s/player-services/statcast?playerId=%s&season=current", c.baseURL, playerID)
	return c.fetchContact(ctx, key, url)
}

// BatterRecentContact fetches contact metrics over the trailing window.
func (c *SavantClient) BatterRecentContact(ctx context.Context, playerID string, days int) (*models.ContactLine, error) {
	key := fmt.Sprintf("recent%d:%s", days, playerID)
	url := fmt.Sprintf("%s/player-services/statcast?playerId=%s&days=%d", c.baseURL, playerID, days)
	return c.fetchContact(ctx, key, url)
}

func (c *SavantClient) fetchContact(ctx context.Context, key, url string) (*models.ContactLine, error) {
	if cached, found := c.cache.Get(key); found {
		if line, ok := cached.(*models.ContactLine); ok {
			return line, nil
		}
	}

	resp, err := c.httpClient.Get(ctx, url)
	if err != nil {
		return nil, NewSourceError(savantSourceName, ErrCodeNetworkError, "request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		// No statcast page for this player; treat as structurally absent.
		line := &models.ContactLine{}
		c.cache.Set(key, line, cache.DefaultExpiration)
		return line, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, NewSourceError(savantSourceName, ErrCodeRateLimitExceeded, "rate limit exceeded", nil)
	case resp.StatusCode >= 500:
		return nil, NewSourceError(savantSourceName, ErrCodeServerError, fmt.Sprintf("status %d", resp.StatusCode), nil)
	case resp.StatusCode != http.StatusOK:
		return nil, NewSourceError(savantSourceName, ErrCodeInvalidData, fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	var payload savantStatLine
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, NewSourceError(savantSourceName, ErrCodeInvalidData, "failed to parse response", err)
	}

	line := &models.ContactLine{
		BarrelRate:  percentToRate(payload.BarrelRate),
		ExitVelo:    payload.ExitVelo,
		LaunchAngle: payload.LaunchAngle,
		HardHitRate: percentToRate(payload.HardHitRate),
		PullRate:    percentToRate(payload.PullRate),
		XISO:        payload.XISO,
		XWOBA:       payload.XWOBA,
	}
	c.cache.Set(key, line, cache.DefaultExpiration)
	return line, nil
}

// FlushCache drops all cached statcast extracts.
func (c *SavantClient) FlushCache() {
	c.cache.Flush()
}

// percentToRate converts a 0-100 percentage to a 0-1 rate.
func percentToRate(pct *float64) *float64 {
	if pct == nil {
		return nil
	}
	rate := *pct / 100.0
	return &rate
}
