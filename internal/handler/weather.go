package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"weatherd/internal/geolocation_client"
	"weatherd/internal/service"
	"weatherd/internal/weather_client"
)

type WeatherHandler interface {
	Weather(c *gin.Context)
}

type weatherHandler struct {
	weatherService service.WeatherService
	log            *logrus.Logger
}

func NewWeatherHandler(weatherService service.WeatherService, log *logrus.Logger) WeatherHandler {
	return &weatherHandler{weatherService: weatherService, log: log}
}

// Weather returns the current weather for the caller's geolocated IP.
// Runs behind the auth middleware; provider failures map to 502, provider
// timeouts to 504, and are never retried within the request.
func (h *weatherHandler) Weather(c *gin.Context) {
	snapshot, err := h.weatherService.WeatherForIP(c.Request.Context(), c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, geolocation_client.ErrTimeout), errors.Is(err, weather_client.ErrTimeout):
			h.log.Errorf("Provider timed out fetching weather: %v", err)
			c.JSON(http.StatusGatewayTimeout, gin.H{"error": "Weather lookup timed out"})
		case errors.Is(err, geolocation_client.ErrUnavailable):
			h.log.Errorf("Failed to geolocate caller: %v", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "Could not fetch user location"})
		default:
			h.log.Errorf("Failed to fetch weather: %v", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "Could not fetch weather information"})
		}
		return
	}

	c.JSON(http.StatusOK, snapshot)
}
