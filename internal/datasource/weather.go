package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/longball/internal/models"
)

const weatherSourceName = "openweather"

// OpenWeatherClient fetches venue forecasts from the OpenWeather API.
type OpenWeatherClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	logger     *logrus.Entry
}

// NewOpenWeatherClient creates a new OpenWeather client
func NewOpenWeatherClient(httpClient *RateLimitedHTTPClient, baseURL, apiKey string, logger *logrus.Entry) *OpenWeatherClient {
	return &OpenWeatherClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		logger:     logger,
	}
}

// weatherResponse mirrors the current-conditions payload subset we use.
type weatherResponse struct {
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
		Deg   float64 `json:"deg"`
	} `json:"wind"`
}

// Forecast fetches conditions for a venue around game time. The current
// conditions endpoint is close enough for same-day games, matching how
// the run schedule brackets first pitch.
func (c *OpenWeatherClient) Forecast(ctx context.Context, park models.ParkInfo, gameTime time.Time) (*models.WeatherReading, error) {
	if c.apiKey == "" {
		return nil, NewSourceError(weatherSourceName, ErrCodeAuthenticationFailed, "missing API key", nil)
	}

	url := fmt.Sprintf("%s/weather?lat=%.4f&lon=%.4f&appid=%s&units=imperial",
		c.baseURL, park.Lat, park.Lon, c.apiKey)

	resp, err := c.httpClient.Get(ctx, url)
	if err != nil {
		return nil, NewSourceError(weatherSourceName, ErrCodeNetworkError, "request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, NewSourceError(weatherSourceName, ErrCodeAuthenticationFailed, "invalid API key", nil)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, NewSourceError(weatherSourceName, ErrCodeRateLimitExceeded, "rate limit exceeded", nil)
	case resp.StatusCode >= 500:
		return nil, NewSourceError(weatherSourceName, ErrCodeServerError, fmt.Sprintf("status %d", resp.StatusCode), nil)
	case resp.StatusCode != http.StatusOK:
		return nil, NewSourceError(weatherSourceName, ErrCodeInvalidData, fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	var payload weatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, NewSourceError(weatherSourceName, ErrCodeInvalidData, "failed to parse response", err)
	}

	return &models.WeatherReading{
		TempF:        payload.Main.Temp,
		WindSpeedMPH: payload.Wind.Speed,
		WindDegrees:  payload.Wind.Deg,
		HumidityPct:  payload.Main.Humidity,
	}, nil
}
