package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
server:
  port: ":9090"
  production: true
database:
  url: "postgres://u:p@localhost:5432/weatherd?sslmode=disable"
  migrations_path: "file:///opt/weatherd/migrations"
geolocation:
  url: "https://ipapi.co"
  timeout_seconds: 3
  placeholder_ip: "198.51.100.1"
weather:
  url: "https://api.weatherapi.com/v1"
  timeout_seconds: 5
auth:
  token_ttl_hours: 12
rate_limit:
  per_minute: 10
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Port)
	assert.True(t, cfg.Server.Production)
	assert.Equal(t, "postgres://u:p@localhost:5432/weatherd?sslmode=disable", cfg.Database.URL)
	assert.Equal(t, "file:///opt/weatherd/migrations", cfg.Database.MigrationsPath)
	assert.Equal(t, "https://ipapi.co", cfg.Geolocation.URL)
	assert.Equal(t, int64(3), cfg.Geolocation.TimeoutSeconds)
	assert.Equal(t, "198.51.100.1", cfg.Geolocation.PlaceholderIP)
	assert.Equal(t, int64(5), cfg.Weather.TimeoutSeconds)
	assert.Equal(t, int64(12), cfg.Auth.TokenTTLHours)
	assert.Equal(t, 10, cfg.RateLimit.PerMinute)
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfig(t, `
database:
  url: "postgres://localhost/weatherd"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.False(t, cfg.Server.Production)
	assert.Equal(t, "file://migrations", cfg.Database.MigrationsPath)
	assert.Equal(t, int64(10), cfg.Geolocation.TimeoutSeconds)
	assert.Equal(t, "78.160.0.1", cfg.Geolocation.PlaceholderIP)
	assert.Equal(t, int64(10), cfg.Weather.TimeoutSeconds)
	assert.Equal(t, int64(24), cfg.Auth.TokenTTLHours)
	assert.Equal(t, 30, cfg.RateLimit.PerMinute)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

func TestReadSecrets(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := ReadJWTSecret()
	assert.ErrorIs(t, err, ErrJWTSecretNotSet)

	t.Setenv("JWT_SECRET", "s3cret")
	secret, err := ReadJWTSecret()
	require.NoError(t, err)
	assert.Equal(t, []byte("s3cret"), secret)

	t.Setenv("WEATHER_API_KEY", "")
	_, err = ReadWeatherAPIKey()
	assert.ErrorIs(t, err, ErrWeatherAPIKeyNotSet)

	t.Setenv("WEATHER_API_KEY", "key123")
	key, err := ReadWeatherAPIKey()
	require.NoError(t, err)
	assert.Equal(t, "key123", key)
}
