package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"go.uber.org/zap"

	"weatherd/internal/config"
	"weatherd/internal/geolocation_client"
	"weatherd/internal/metrics"
	"weatherd/internal/repository"
	"weatherd/internal/server"
	"weatherd/internal/token"
	"weatherd/internal/weather_client"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err) // Should not happen in development
	}
	defer func() {
		_ = logger.Sync() // Flushes buffer, if any
	}()

	log := logrus.New()

	// Load configuration
	cfgPath := "configs/config.yml"
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	// Secrets come from the environment, never from the config file
	jwtSecret, err := config.ReadJWTSecret()
	if err != nil {
		logger.Fatal("Failed to read JWT secret", zap.Error(err))
	}
	weatherAPIKey, err := config.ReadWeatherAPIKey()
	if err != nil {
		logger.Fatal("Failed to read weather API key", zap.Error(err))
	}

	// Database connection
	db, err := repository.NewPostgresDB(cfg.Database.URL, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	repository.MigrateDB(db, cfg.Database.MigrationsPath, logger)

	// Session token manager
	tokens := token.NewManager(jwtSecret, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)

	// Outbound provider clients
	geoClient := geolocation_client.NewClient(cfg.Geolocation.URL, time.Duration(cfg.Geolocation.TimeoutSeconds)*time.Second, logger)
	weatherClient := weather_client.NewClient(cfg.Weather.URL, weatherAPIKey, time.Duration(cfg.Weather.TimeoutSeconds)*time.Second, logger)

	collector := metrics.NewCollector()

	// Context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Initialize and run the server
	srv := server.NewServer(cfg, server.Deps{
		DB:        db,
		Tokens:    tokens,
		Geo:       geoClient,
		Weather:   weatherClient,
		Collector: collector,
		Logger:    logger,
		Log:       log,
	})
	srv.Run(ctx, cfg.Server.Port)

	logger.Info("Application stopped.")
}
