package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/patrickmn/go-cache"

	database "github.com/datewise/go-date-night-suggestions/app/db"
	appLogger "github.com/datewise/go-date-night-suggestions/app/logger"
	"github.com/datewise/go-date-night-suggestions/app/observability/metrics"
	"github.com/datewise/go-date-night-suggestions/app/tracer"
	"github.com/datewise/go-date-night-suggestions/config"
	dateIdeas "github.com/datewise/go-date-night-suggestions/internal/api/date_ideas"
	generativeAI "github.com/datewise/go-date-night-suggestions/internal/api/generative_ai"
	llmInteraction "github.com/datewise/go-date-night-suggestions/internal/api/llm_interaction"
	"github.com/datewise/go-date-night-suggestions/internal/api/meetpoint"
	"github.com/datewise/go-date-night-suggestions/internal/api/places"
	"github.com/datewise/go-date-night-suggestions/internal/router"
)

func main() {
	// Use standard log until slog is configured, in case godotenv fails.
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("FATAL: Error initializing config: %v", err)
	}

	logger := setupLogger()
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// --- Observability ---
	prometheusPort := cfg.Handlers.Prometheus.Port
	if prometheusPort == "" {
		prometheusPort = ":9090"
	}
	tracer.InitTracingAndMetrics(prometheusPort)
	metrics.InitAppMetrics()

	// --- Database ---
	dbConfig, err := database.NewDatabaseConfig(&cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		os.Exit(1)
	}

	// Run migrations before initializing the main pool.
	if err = database.RunMigrations(dbConfig.ConnectionURL, logger); err != nil {
		logger.Error("Failed to run database migrations", slog.Any("error", err))
		os.Exit(1)
	}

	pool, err := database.Init(dbConfig.ConnectionURL, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	if !database.WaitForDB(ctx, pool, logger) {
		logger.Error("Database not ready after waiting, exiting.")
		os.Exit(1)
	}

	// --- External clients ---
	cacheTTL := cfg.Maps.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}
	resultCache := cache.New(cacheTTL, 2*cacheTTL)

	var placesService places.Service
	mapsClient, err := places.NewClient(os.Getenv("GOOGLE_MAPS_API_KEY"))
	if err != nil {
		// The app degrades gracefully: geocoding and venue matching are skipped.
		logger.Warn("Maps client not configured, venue features disabled", slog.Any("error", err))
		placesService = places.NewServiceImpl(nil, resultCache, logger)
	} else {
		placesService = places.NewServiceImpl(mapsClient, resultCache, logger)
	}

	aiClient, err := generativeAI.NewAIClient(ctx, os.Getenv("GOOGLE_GEMINI_API_KEY"), cfg.Gemini.Model)
	if err != nil {
		logger.Error("Failed to initialize Gemini client", slog.Any("error", err))
		os.Exit(1)
	}

	// --- Dependency injection ---
	interactionRepo := llmInteraction.NewPostgresLlmInteractionRepo(pool, logger)

	dateIdeasService := dateIdeas.NewServiceImpl(aiClient, placesService, interactionRepo, resultCache, logger)
	meetPointService := meetpoint.NewServiceImpl(placesService, logger)

	routerConfig := &router.Config{
		DateIdeasHandler: dateIdeas.NewHandler(dateIdeasService, logger),
		MeetPointHandler: meetpoint.NewHandler(meetPointService, logger),
		PlacesHandler:    places.NewHandler(placesService, logger),
		MapsConfigured:   placesService.Available(),
		LLMConfigured:    aiClient != nil,
	}
	apiRouter := router.SetupRouter(routerConfig)

	timeout := cfg.Server.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	mux := chi.NewMux()
	mux.Use(middleware.RequestID)
	mux.Use(middleware.RealIP)
	mux.Use(appLogger.StructuredLogger(logger))
	mux.Use(middleware.Recoverer)
	mux.Use(middleware.StripSlashes)
	mux.Use(middleware.Timeout(timeout))
	mux.Use(middleware.Compress(5, "application/json"))
	mux.Mount("/", apiRouter)

	// --- HTTP server ---
	serverAddress := cfg.Server.HTTPPort
	if serverAddress == "" {
		serverAddress = ":8000"
	}
	srv := &http.Server{
		Addr:         serverAddress,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	go func() {
		logger.Info("Starting HTTP server", slog.String("address", serverAddress))
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server ListenAndServe error", slog.Any("error", err))
			cancel()
		}
	}()

	<-ctx.Done()

	logger.Info("Shutdown signal received, starting graceful shutdown...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", slog.Any("error", err))
	} else {
		logger.Info("HTTP server gracefully stopped")
	}

	logger.Info("Application shut down complete.")
}

// setupLogger configures and returns the application logger.
func setupLogger() *slog.Logger {
	var logger *slog.Logger
	env := os.Getenv("APP_ENV")

	if env == "development" || env == "" {
		// Colored logs for development.
		tintOpts := &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
			AddSource:  true,
		}
		logger = slog.New(tint.NewHandler(os.Stdout, tintOpts))
	} else {
		// JSON logs for production.
		jsonOpts := &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}
		logger = slog.New(slog.NewJSONHandler(os.Stdout, jsonOpts))
	}
	return logger
}
