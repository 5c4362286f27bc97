package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var (
	ErrJWTSecretNotSet     = errors.New("JWT secret not set in environment, please define 'JWT_SECRET'")
	ErrWeatherAPIKeyNotSet = errors.New("weather API key not set in environment, please define 'WEATHER_API_KEY'")
)

// Config holds the application's configuration. Loaded once at startup and
// treated as immutable afterwards.
type Config struct {
	Server struct {
		Port       string `yaml:"port"`
		Production bool   `yaml:"production"`
	} `yaml:"server"`
	Database struct {
		URL            string `yaml:"url"`
		MigrationsPath string `yaml:"migrations_path"`
	} `yaml:"database"`
	Geolocation struct {
		URL            string `yaml:"url"`
		TimeoutSeconds int64  `yaml:"timeout_seconds"`
		PlaceholderIP  string `yaml:"placeholder_ip"`
	} `yaml:"geolocation"`
	Weather struct {
		URL            string `yaml:"url"`
		TimeoutSeconds int64  `yaml:"timeout_seconds"`
	} `yaml:"weather"`
	Auth struct {
		TokenTTLHours int64 `yaml:"token_ttl_hours"`
	} `yaml:"auth"`
	RateLimit struct {
		PerMinute int `yaml:"per_minute"`
	} `yaml:"rate_limit"`
}

// LoadConfig reads configuration from the specified YAML file.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	config.applyDefaults()

	return config, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = ":8080"
	}
	if c.Database.MigrationsPath == "" {
		c.Database.MigrationsPath = "file://migrations"
	}
	if c.Geolocation.TimeoutSeconds == 0 {
		c.Geolocation.TimeoutSeconds = 10
	}
	if c.Geolocation.PlaceholderIP == "" {
		c.Geolocation.PlaceholderIP = "78.160.0.1"
	}
	if c.Weather.TimeoutSeconds == 0 {
		c.Weather.TimeoutSeconds = 10
	}
	if c.Auth.TokenTTLHours == 0 {
		c.Auth.TokenTTLHours = 24
	}
	if c.RateLimit.PerMinute == 0 {
		c.RateLimit.PerMinute = 30
	}
}

// ReadJWTSecret reads the token signing secret from the environment.
func ReadJWTSecret() ([]byte, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, ErrJWTSecretNotSet
	}
	return []byte(secret), nil
}

// ReadWeatherAPIKey reads the weather provider API key from the environment.
func ReadWeatherAPIKey() (string, error) {
	key := os.Getenv("WEATHER_API_KEY")
	if key == "" {
		return "", ErrWeatherAPIKeyNotSet
	}
	return key, nil
}
