// Package main is the entrypoint for the Leetboard API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/leetboard/leetboard/internal/cache"
	"github.com/leetboard/leetboard/internal/config"
	"github.com/leetboard/leetboard/internal/handler"
	"github.com/leetboard/leetboard/internal/leetcode"
	"github.com/leetboard/leetboard/internal/metrics"
	"github.com/leetboard/leetboard/internal/middleware"
	"github.com/leetboard/leetboard/internal/repository"
	"github.com/leetboard/leetboard/internal/secret"
	"github.com/leetboard/leetboard/internal/server"
	"github.com/leetboard/leetboard/internal/service"
	syncpkg "github.com/leetboard/leetboard/internal/sync"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg)

	// Run database migrations
	if err := repository.Migrate(cfg.DatabaseURL); err != nil {
		logger.Error(
			"failed to run migrations",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
		)
		os.Exit(1)
	}

	// Initialize database
	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	defer repo.Close()
	logger.Info("connected to database")

	// Initialize cache
	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	defer cacheClient.Close()
	logger.Info("connected to Redis")

	// Cookie seal key for LeetCode session cookies at rest
	sealKey, err := cfg.DecodeCookieSealKey()
	if err != nil {
		logger.Error("invalid cookie seal key", slog.String("error", err.Error()))
		os.Exit(1)
	}
	box, err := secret.NewBox(sealKey)
	if err != nil {
		logger.Error("failed to initialize cookie sealing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// LeetCode GraphQL client
	lcClient := leetcode.NewClient(cfg.LeetCodeGraphQLURL)
	lcClient.SetPageDelay(cfg.SyncPageDelay)

	// Metrics
	metricsRecorder := metrics.NewInMemory()

	// Sync pipeline
	publisher := syncpkg.NewPublisher(cacheClient.Client(), logger, metricsRecorder)
	engine := syncpkg.NewEngine(repo, lcClient, box, cacheClient, cacheClient, logger, metricsRecorder)
	worker := syncpkg.NewWorker(cacheClient.Client(), engine, logger, syncpkg.NewConsumerID(), metricsRecorder)
	scheduler := syncpkg.NewScheduler(repo, publisher, logger, cfg.SyncInterval)

	// Initialize services
	roadmapService := service.NewRoadmapService(repo, cacheClient, metricsRecorder)
	catalogService := service.NewCatalogService(repo, cacheClient, metricsRecorder)
	profileService := service.NewProfileService(repo, cacheClient, box, publisher, cfg.SyncCooldown)
	goalService := service.NewGoalService(repo, profileService)

	// Initialize handlers
	h := handler.New()
	healthHandler := handler.NewHealthHandler(repo, cacheClient)
	roadmapHandler := handler.NewRoadmapHandler(roadmapService, logger)
	catalogHandler := handler.NewCatalogHandler(catalogService, logger)
	profileHandler := handler.NewProfileHandler(profileService, logger)
	goalHandler := handler.NewGoalHandler(goalService, logger)
	tokenHandler := handler.NewTokenHandler(logger, repo)
	metricsHandler := handler.NewMetricsHandler(metricsRecorder)

	// Setup router
	r := setupRouter(h, healthHandler, roadmapHandler, catalogHandler, profileHandler, goalHandler, tokenHandler, metricsHandler, repo, cacheClient, cfg, logger)

	// Create server
	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	// Start background workers; they stop during graceful shutdown.
	workerCtx := context.Background()
	go func() {
		if err := worker.Run(workerCtx); err != nil {
			logger.Error("sync worker stopped", slog.String("error", err.Error()))
		}
	}()
	srv.OnShutdown("sync-worker", worker.Shutdown)

	go func() {
		if err := scheduler.Run(workerCtx); err != nil {
			logger.Error("sync scheduler stopped", slog.String("error", err.Error()))
		}
	}()
	srv.OnShutdown("sync-scheduler", scheduler.Shutdown)

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"sync_interval", cfg.SyncInterval.String(),
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	level := parseLogLevel(cfg.LogLevel)

	opts := &slog.HandlerOptions{
		Level: level,
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(
	h *handler.Handler,
	healthHandler *handler.HealthHandler,
	roadmapHandler *handler.RoadmapHandler,
	catalogHandler *handler.CatalogHandler,
	profileHandler *handler.ProfileHandler,
	goalHandler *handler.GoalHandler,
	tokenHandler *handler.TokenHandler,
	metricsHandler *handler.MetricsHandler,
	repo *repository.Repository,
	cacheClient *cache.Cache,
	cfg *config.Config,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Security(middleware.SecurityConfig{
		IsDevelopment:      cfg.IsDevelopment(),
		MaxRequestBodySize: cfg.MaxRequestBodySize,
	}))
	r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))

	if origins := cfg.GetCORSAllowedOrigins(); len(origins) > 0 {
		corsCfg := middleware.DefaultCORSConfig()
		corsCfg.AllowedOrigins = origins
		r.Use(middleware.CORS(corsCfg))
	}

	// Health endpoints (no auth required)
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)

	// Metrics endpoint (scraped from inside the deployment)
	r.Get("/metrics", metricsHandler.Metrics)

	// Root info endpoint
	r.Get("/", h.Hello)

	// Auth middleware configuration
	authCfg := middleware.AuthConfig{
		Logger:     logger,
		Repository: repo,
		Cache:      cacheClient,
	}

	// Rate limit middleware configuration
	rateLimitCfg := middleware.RateLimitConfig{
		Logger:     logger,
		Cache:      cacheClient,
		APIEnabled: cfg.RateLimitAPIEnabled,
	}

	// API v1 routes (require authentication)
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(authCfg))
		r.Use(middleware.RateLimitAPI(rateLimitCfg))

		// Group progress board
		r.With(middleware.RequireRead()).Get("/roadmap", roadmapHandler.Get)

		// Problem catalog
		r.Route("/problems", func(r chi.Router) {
			r.With(middleware.RequireRead()).Get("/", catalogHandler.List)
			r.With(middleware.RequireRead()).Get("/{slug}", catalogHandler.Get)
			r.With(middleware.RequireAdmin()).Post("/import", catalogHandler.Import)
		})

		// Profile settings and manual sync
		r.With(middleware.RequireRead()).Get("/settings", profileHandler.GetSettings)
		r.With(middleware.RequireWrite()).Put("/settings", profileHandler.UpdateSettings)
		r.With(middleware.RequireWrite()).Post("/sync", profileHandler.TriggerSync)

		// Member directory
		r.With(middleware.RequireRead()).Get("/members", profileHandler.ListMembers)

		// Weekly goals
		r.Route("/goals", func(r chi.Router) {
			r.With(middleware.RequireRead()).Get("/", goalHandler.List)
			r.With(middleware.RequireRead()).Get("/current", goalHandler.Current)
			r.With(middleware.RequireWrite()).Put("/current", goalHandler.SetCurrent)
		})

		// Token management (requires admin scope for mutations)
		r.Route("/tokens", func(r chi.Router) {
			r.With(middleware.RequireRead()).Get("/", tokenHandler.List)
			r.With(middleware.RequireAdmin()).Post("/", tokenHandler.Create)
			r.With(middleware.RequireAdmin()).Delete("/{token_id}", tokenHandler.Revoke)
			r.With(middleware.RequireAdmin()).Post("/{token_id}/rotate", tokenHandler.Rotate)
		})
	})

	// 404 and 405 handlers
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
