package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"bookit/internal/auth"
	"bookit/internal/cache"
	"bookit/internal/config"
	"bookit/internal/database"
	"bookit/internal/handlers"
	"bookit/internal/logger"
	"bookit/internal/messaging"
	"bookit/internal/metrics"
	"bookit/internal/middleware"
	"bookit/internal/repository"
	"bookit/internal/service"

	"github.com/gin-gonic/gin"
)

// HealthChecker reports the state of the database connection pool.
type HealthChecker interface {
	HealthCheck(ctx context.Context) database.HealthCheck
}

// Deps are the collaborators a Server routes to. Cache and Health may be nil.
type Deps struct {
	Services *service.Services
	Issuer   *auth.TokenIssuer
	Cache    *cache.ValkeyClient
	Health   HealthChecker
}

// Server представляет HTTP сервер API
type Server struct {
	router  *gin.Engine
	config  *config.Config
	deps    Deps
	limiter *middleware.RateLimiter

	db     *database.DB
	nats   *messaging.NATSClient
	valkey *cache.ValkeyClient
}

// NewServer connects to PostgreSQL and the optional Valkey and NATS
// backends, runs migrations and builds the router.
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.RunMigrations(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	if cfg.MetricsEnabled {
		if err := metrics.RegisterDBStats(db.DB, "bookit"); err != nil {
			logger.Get().Warn("Failed to register database metrics", "error", err)
		}
	}

	var publisher messaging.Publisher = messaging.NoopPublisher{}
	var natsClient *messaging.NATSClient
	if cfg.NATS.Enabled() {
		natsClient, err = messaging.NewNATSClient(cfg.NATS)
		if err != nil {
			// events are best effort, the API keeps serving without them
			logger.Get().Warn("NATS unavailable, domain events disabled", "error", err)
		} else {
			publisher = natsClient
		}
	}

	var valkeyClient *cache.ValkeyClient
	var purger service.CachePurger
	if cfg.Cache.Enabled() {
		valkeyClient, err = cache.NewValkeyClient(cfg.Cache)
		if err != nil {
			logger.Get().Warn("Valkey unavailable, response cache disabled", "error", err)
			valkeyClient = nil
		} else {
			purger = valkeyClient
		}
	}

	issuer := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL)
	repos := repository.NewRepositories(db)
	services := service.NewServices(service.StoresFrom(repos), issuer, cfg.Auth.BcryptCost, publisher, purger)

	server := New(cfg, Deps{
		Services: services,
		Issuer:   issuer,
		Cache:    valkeyClient,
		Health:   db,
	})
	server.db = db
	server.nats = natsClient
	server.valkey = valkeyClient

	return server, nil
}

// New builds the router around already constructed dependencies.
func New(cfg *config.Config, deps Deps) *Server {
	gin.SetMode(cfg.GinMode)

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	if cfg.MetricsEnabled {
		router.Use(middleware.Metrics())
	}

	s := &Server{
		router: router,
		config: cfg,
		deps:   deps,
		limiter: middleware.NewRateLimiter(middleware.LimiterConfig{
			RPS:   cfg.Auth.RateRPS,
			Burst: cfg.Auth.RateBurst,
		}),
	}

	s.setupRoutes()
	return s
}

// setupRoutes настраивает все API роуты
func (s *Server) setupRoutes() {
	h := handlers.NewHandlers(s.deps.Services)

	s.router.GET("/", h.Root)
	s.router.GET("/health", s.healthCheck)
	if s.config.MetricsEnabled {
		s.router.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	cached := func(handler gin.HandlerFunc) []gin.HandlerFunc {
		if s.deps.Cache == nil {
			return []gin.HandlerFunc{handler}
		}
		return []gin.HandlerFunc{middleware.ResponseCache(s.deps.Cache), handler}
	}

	api := s.router.Group(s.config.BasePath)
	{
		api.GET("/", append([]gin.HandlerFunc{middleware.JWTAuth(s.deps.Issuer)}, cached(h.ListAllShows)...)...)

		authLimit := s.limiter.Middleware(middleware.ByClientIP)
		api.POST("/signup", authLimit, h.Signup)
		api.POST("/login", authLimit, h.Login)

		theatres := api.Group("/theatres")
		{
			theatres.GET("", cached(h.ListTheatres)...)
			theatres.POST("", h.CreateTheatre)
			theatres.DELETE("", h.DeleteTheatre)
			theatres.GET("/:id", cached(h.GetTheatre)...)
			theatres.PATCH("/:id", h.UpdateTheatre)

			theatres.GET("/:id/shows", cached(h.ListTheatreShows)...)
			theatres.POST("/:id/shows", h.CreateShow)
			theatres.DELETE("/:id/shows", h.DeleteShow)
			theatres.GET("/:id/shows/:showId", cached(h.GetShow)...)
			theatres.PATCH("/:id/shows/:showId", h.UpdateShow)
		}
	}
}

// healthCheck обрабатывает health check запросы
func (s *Server) healthCheck(c *gin.Context) {
	body := gin.H{
		"status":  "ok",
		"service": "bookit-api",
	}
	status := http.StatusOK

	if s.deps.Health != nil {
		dbHealth := s.deps.Health.HealthCheck(c.Request.Context())
		body["database"] = dbHealth
		if dbHealth.Status != "healthy" {
			body["status"] = "degraded"
			status = http.StatusServiceUnavailable
		}
	}

	if s.deps.Cache != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := s.deps.Cache.Ping(ctx); err != nil {
			body["cache"] = "unreachable"
		} else {
			body["cache"] = "ok"
		}
	}

	c.JSON(status, body)
}

// Handler возвращает роутер для http.Server и тестов
func (s *Server) Handler() http.Handler {
	return s.router
}

// Cleanup закрывает соединения
func (s *Server) Cleanup() error {
	s.limiter.Stop()

	if s.nats != nil {
		if err := s.nats.Close(); err != nil {
			logger.Get().Error("Error closing NATS connection", "error", err)
		}
	}

	if s.valkey != nil {
		if err := s.valkey.Close(); err != nil {
			logger.Get().Error("Error closing Valkey connection", "error", err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			logger.Get().Error("Error closing database connection", "error", err)
			return err
		}
	}

	return nil
}
