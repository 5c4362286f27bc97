package geolocation_client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"weatherd/internal/models"
)

var (
	ErrUnavailable = errors.New("geolocation provider unavailable")
	ErrTimeout     = errors.New("geolocation provider timed out")
)

// Client for the IP geolocation API. The provider answers
// GET {base}/{ip}/latlong/ with a plain-text "latitude,longitude" body.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new geolocation API client.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Resolve fetches coordinates for the given IP. Single attempt, no retry.
func (c *Client) Resolve(ctx context.Context, ip string) (models.Coordinates, error) {
	url := fmt.Sprintf("%s/%s/latlong/", c.baseURL, ip)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			c.logger.Warn("Geolocation request timed out", zap.String("ip", ip))
			return models.Coordinates{}, ErrTimeout
		}
		c.logger.Error("Failed to reach geolocation provider", zap.Error(err))
		return models.Coordinates{}, ErrUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("Geolocation provider returned non-OK status", zap.Int("status", resp.StatusCode))
		return models.Coordinates{}, ErrUnavailable
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 256))
	if err != nil {
		c.logger.Error("Failed to read geolocation response", zap.Error(err))
		return models.Coordinates{}, ErrUnavailable
	}

	coords, err := parseLatLong(strings.TrimSpace(string(body)))
	if err != nil {
		c.logger.Error("Failed to parse geolocation response", zap.Error(err))
		return models.Coordinates{}, ErrUnavailable
	}

	return coords, nil
}

// parseLatLong parses a "latitude,longitude" pair.
func parseLatLong(body string) (models.Coordinates, error) {
	latStr, longStr, ok := strings.Cut(body, ",")
	if !ok {
		return models.Coordinates{}, fmt.Errorf("response %q is not a lat,long pair", body)
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("invalid latitude: %w", err)
	}
	long, err := strconv.ParseFloat(strings.TrimSpace(longStr), 64)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("invalid longitude: %w", err)
	}

	return models.Coordinates{Latitude: lat, Longitude: long}, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
