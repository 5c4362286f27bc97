package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"weatherd/internal/config"
	"weatherd/internal/metrics"
	"weatherd/internal/models"
	"weatherd/internal/token"
)

type stubResolver struct {
	gotIP  string
	coords models.Coordinates
}

func (s *stubResolver) Resolve(_ context.Context, ip string) (models.Coordinates, error) {
	s.gotIP = ip
	return s.coords, nil
}

type stubFetcher struct {
	snapshot models.WeatherSnapshot
}

func (s *stubFetcher) Fetch(_ context.Context, _ models.Coordinates) (models.WeatherSnapshot, error) {
	return s.snapshot, nil
}

func testConfig(production bool) *config.Config {
	cfg := &config.Config{}
	cfg.Server.Port = ":0"
	cfg.Server.Production = production
	cfg.Geolocation.PlaceholderIP = "78.160.0.1"
	cfg.RateLimit.PerMinute = 1000
	return cfg
}

func newTestServer(t *testing.T, production bool) (*Server, *token.Manager, *stubResolver) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens := token.NewManager([]byte("test-secret"), time.Hour)
	geo := &stubResolver{coords: models.Coordinates{Latitude: 48.8566, Longitude: 2.3522}}
	weather := &stubFetcher{snapshot: models.WeatherSnapshot{
		LastUpdated: "2024-01-01 12:00",
		TempC:       20.0,
		Text:        "Sunny",
		FeelsLikeC:  19.0,
	}}

	srv := NewServer(testConfig(production), Deps{
		Tokens:    tokens,
		Geo:       geo,
		Weather:   weather,
		Collector: metrics.NewCollector(),
		Logger:    zap.NewNop(),
		Log:       logrus.New(),
	})
	t.Cleanup(srv.limiter.Stop)

	return srv, tokens, geo
}

func TestPing(t *testing.T) {
	srv, _, _ := newTestServer(t, false)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWeather_RequiresToken(t *testing.T) {
	srv, _, _ := newTestServer(t, false)

	// No token at all.
	req := httptest.NewRequest(http.MethodGet, "/api/weather", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Wrong scheme.
	req = httptest.NewRequest(http.MethodGet, "/api/weather", nil)
	req.Header.Set("Authorization", "Basic abc")
	w = httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Expired token.
	expired := token.NewManager([]byte("test-secret"), -time.Minute)
	tok, err := expired.Issue(1)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/api/weather", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w = httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWeather_AuthorizedFlow(t *testing.T) {
	srv, tokens, geo := newTestServer(t, false)

	tok, err := tokens.Issue(42)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/weather", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	req.RemoteAddr = "127.0.0.1:54321"
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, map[string]any{
		"last_updated": "2024-01-01 12:00",
		"temp_c":       20.0,
		"text":         "Sunny",
		"feels_like_c": 19.0,
	}, resp)

	// Loopback caller was substituted before geolocation outside production.
	assert.Equal(t, "78.160.0.1", geo.gotIP)
}

func TestWeather_ProductionPassesRawAddress(t *testing.T) {
	srv, tokens, geo := newTestServer(t, true)

	tok, err := tokens.Issue(42)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/weather", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	req.RemoteAddr = "127.0.0.1:54321"
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "127.0.0.1", geo.gotIP)
}

func TestWeather_IgnoresForwardedForHeader(t *testing.T) {
	srv, tokens, geo := newTestServer(t, true)

	tok, err := tokens.Issue(42)
	require.NoError(t, err)

	// The caller cannot pick its own address via forwarding headers; the
	// geolocated address is the one observed on the socket.
	req := httptest.NewRequest(http.MethodGet, "/api/weather", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	req.Header.Set("X-Forwarded-For", "198.51.100.99")
	req.RemoteAddr = "203.0.113.7:54321"
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "203.0.113.7", geo.gotIP)
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _, _ := newTestServer(t, false)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
