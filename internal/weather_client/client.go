package weather_client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"weatherd/internal/models"
)

var (
	ErrProvider = errors.New("weather provider error")
	ErrTimeout  = errors.New("weather provider timed out")
)

// currentResponse mirrors the provider's current.json schema, limited to the
// fields we expose. Pointers so a missing field is distinguishable from zero.
type currentResponse struct {
	Current *struct {
		LastUpdated *string  `json:"last_updated"`
		TempC       *float64 `json:"temp_c"`
		FeelsLikeC  *float64 `json:"feelslike_c"`
		Condition   *struct {
			Text *string `json:"text"`
		} `json:"condition"`
	} `json:"current"`
}

// Client is a client for the weather provider API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new weather API client. The API key is process-wide
// configuration and is never logged.
func NewClient(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Fetch returns the current weather for the given coordinates.
// Single attempt, no retry.
func (c *Client) Fetch(ctx context.Context, coords models.Coordinates) (models.WeatherSnapshot, error) {
	query := url.Values{}
	query.Set("key", c.apiKey)
	query.Set("q", fmt.Sprintf("%f,%f", coords.Latitude, coords.Longitude))

	requestURL := fmt.Sprintf("%s/current.json?%s", c.baseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return models.WeatherSnapshot{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			c.logger.Warn("Weather request timed out")
			return models.WeatherSnapshot{}, ErrTimeout
		}
		c.logger.Error("Failed to reach weather provider", zap.Error(err))
		return models.WeatherSnapshot{}, ErrProvider
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("Weather provider returned non-2xx status", zap.Int("status", resp.StatusCode))
		return models.WeatherSnapshot{}, ErrProvider
	}

	var body currentResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		c.logger.Error("Failed to decode weather response", zap.Error(err))
		return models.WeatherSnapshot{}, ErrProvider
	}

	cur := body.Current
	if cur == nil || cur.LastUpdated == nil || cur.TempC == nil || cur.FeelsLikeC == nil ||
		cur.Condition == nil || cur.Condition.Text == nil {
		c.logger.Error("Weather response is missing expected fields")
		return models.WeatherSnapshot{}, ErrProvider
	}

	return models.WeatherSnapshot{
		LastUpdated: *cur.LastUpdated,
		TempC:       *cur.TempC,
		Text:        *cur.Condition.Text,
		FeelsLikeC:  *cur.FeelsLikeC,
	}, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
