package service

import (
	"context"

	"go.uber.org/zap"

	"weatherd/internal/clientip"
	"weatherd/internal/metrics"
	"weatherd/internal/models"
)

// GeolocationResolver maps a client IP to coordinates.
type GeolocationResolver interface {
	Resolve(ctx context.Context, ip string) (models.Coordinates, error)
}

// WeatherFetcher maps coordinates to a weather snapshot.
type WeatherFetcher interface {
	Fetch(ctx context.Context, coords models.Coordinates) (models.WeatherSnapshot, error)
}

type WeatherService interface {
	WeatherForIP(ctx context.Context, ip string) (models.WeatherSnapshot, error)
}

type weatherService struct {
	normalizer clientip.Normalizer
	geo        GeolocationResolver
	weather    WeatherFetcher
	collector  *metrics.Collector
	logger     *zap.Logger
}

func NewWeatherService(normalizer clientip.Normalizer, geo GeolocationResolver, weather WeatherFetcher, collector *metrics.Collector, logger *zap.Logger) WeatherService {
	return &weatherService{
		normalizer: normalizer,
		geo:        geo,
		weather:    weather,
		collector:  collector,
		logger:     logger,
	}
}

// WeatherForIP normalizes the caller address, resolves it to coordinates and
// fetches the current weather. One geolocation call and one weather call per
// request, sequentially; provider errors pass through untouched so the handler
// can pick the status code.
func (s *weatherService) WeatherForIP(ctx context.Context, ip string) (models.WeatherSnapshot, error) {
	normalized := s.normalizer.Normalize(ip)
	if normalized != ip {
		s.logger.Debug("Substituted non-routable client address", zap.String("ip", normalized))
	}

	coords, err := s.geo.Resolve(ctx, normalized)
	if err != nil {
		s.collector.RecordProviderCall("geolocation", "error")
		return models.WeatherSnapshot{}, err
	}
	s.collector.RecordProviderCall("geolocation", "success")

	snapshot, err := s.weather.Fetch(ctx, coords)
	if err != nil {
		s.collector.RecordProviderCall("weather", "error")
		return models.WeatherSnapshot{}, err
	}
	s.collector.RecordProviderCall("weather", "success")

	return snapshot, nil
}
