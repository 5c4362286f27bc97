package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"weatherd/internal/clientip"
	"weatherd/internal/config"
	"weatherd/internal/handler"
	"weatherd/internal/metrics"
	"weatherd/internal/middleware"
	"weatherd/internal/repository"
	"weatherd/internal/service"
	"weatherd/internal/token"
)

// Deps are the externally constructed collaborators of the server.
// The geolocation and weather clients come in as interfaces so tests can
// substitute deterministic stand-ins.
type Deps struct {
	DB        *sqlx.DB
	Tokens    *token.Manager
	Geo       service.GeolocationResolver
	Weather   service.WeatherFetcher
	Collector *metrics.Collector
	Logger    *zap.Logger
	Log       *logrus.Logger
}

type Server struct {
	router  *gin.Engine
	limiter *middleware.RateLimiter
	log     *logrus.Logger
}

func NewServer(cfg *config.Config, deps Deps) *Server {
	router := gin.Default()

	// ClientIP must come from the socket. With proxies trusted, a caller
	// could pick its own geolocation and rate-limit key via X-Forwarded-For.
	if err := router.SetTrustedProxies(nil); err != nil {
		deps.Log.Fatalf("Failed to configure trusted proxies: %v", err)
	}

	s := &Server{
		router: router,
		log:    deps.Log,
	}

	s.setupRoutes(cfg, deps)

	return s
}

func (s *Server) setupRoutes(cfg *config.Config, deps Deps) {
	// Initialize auth components
	userRepo := repository.NewUserRepository(deps.DB, deps.Log)
	authService := service.NewAuthService(userRepo, deps.Tokens, deps.Logger)
	authHandler := handler.NewAuthHandler(authService, deps.Log)

	// Initialize the weather pipeline
	normalizer := clientip.ForMode(cfg.Server.Production, cfg.Geolocation.PlaceholderIP)
	weatherService := service.NewWeatherService(normalizer, deps.Geo, deps.Weather, deps.Collector, deps.Logger)
	weatherHandler := handler.NewWeatherHandler(weatherService, deps.Log)

	s.limiter = middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:            rate.Limit(float64(cfg.RateLimit.PerMinute) / 60.0),
		Burst:           cfg.RateLimit.PerMinute,
		CleanupInterval: 5 * time.Minute,
	}, deps.Logger)

	s.router.Use(middleware.MetricsMiddleware(deps.Collector))

	// Ping route for health check
	s.router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	s.router.GET("/metrics", gin.WrapH(deps.Collector.Handler()))

	// Authentication routes
	authGroup := s.router.Group("/api")
	authGroup.Use(s.limiter.Middleware())
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)

	// Authenticated routes
	authRequired := s.router.Group("/api")
	authRequired.Use(middleware.AuthMiddleware(deps.Tokens, deps.Logger))
	{
		authRequired.GET("/weather", weatherHandler.Weather)
	}
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("Server shutdown failed: %v", err)
		}
		s.limiter.Stop()
	}()

	s.log.Infof("Server starting on %s...", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.log.Fatalf("Server failed to start: %v", err)
	}
}

// Router exposes the gin engine for tests.
func (s *Server) Router() http.Handler {
	return s.router
}
