// Package main provides the entrypoint for the RouteKit API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/routekit/routekit/internal/api"
	"github.com/routekit/routekit/internal/api/middleware"
	"github.com/routekit/routekit/internal/auth"
	"github.com/routekit/routekit/internal/database"
	"github.com/routekit/routekit/internal/engine"
	"github.com/routekit/routekit/internal/history"
	"github.com/routekit/routekit/internal/route"
	"github.com/routekit/routekit/internal/storage"
	"github.com/routekit/routekit/internal/telemetry"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "routekit-api"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting RouteKit API")

	// Get configuration from environment
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	baseDir := os.Getenv("ROUTEKIT_BASE_DIR")
	if baseDir == "" {
		baseDir = "/data"
	}

	engineBinary := os.Getenv("ROUTEKIT_ENGINE_BINARY")
	if engineBinary == "" {
		engineBinary = "brouter"
	}

	otlpEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Initialize OpenTelemetry
	ctx := context.Background()
	telemetryEnabled := os.Getenv("OTEL_ENABLED") == "true"

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        telemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if telemetryEnabled {
		log.Info().
			Str("otlp_endpoint", otlpEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}
	routeMetrics, err := middleware.NewRoutingMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize routing metrics")
	}

	// Prepare the data directory tree
	layout := storage.Layout{BaseDir: baseDir}
	if err := layout.Init(); err != nil {
		log.Fatal().Err(err).Str("base_dir", baseDir).Msg("failed to initialize data directory")
	}
	if archive := os.Getenv("ROUTEKIT_PROFILE_ARCHIVE"); archive != "" {
		if err := layout.ExtractProfiles(archive); err != nil {
			log.Fatal().Err(err).Str("archive", archive).Msg("failed to extract bundled profiles")
		}
	}
	log.Info().Str("base_dir", baseDir).Msg("data directory ready")

	// Route history storage: Postgres when configured, in-memory otherwise
	var historyRepo history.Repository
	if os.Getenv("DB_HOST") != "" {
		dbConfig := database.ConfigFromEnv()
		pool, err := database.Connect(ctx, dbConfig)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()
		log.Info().
			Str("host", dbConfig.Host).
			Int("port", dbConfig.Port).
			Str("database", dbConfig.Database).
			Msg("database connected")
		historyRepo = history.NewPostgresRepository(pool)
	} else {
		log.Warn().Msg("DB_HOST not set - route history kept in memory only")
		historyRepo = history.NewInMemoryRepository()
	}
	historyService := history.NewService(historyRepo, log)

	// Service token verifier for admin endpoints
	signingKey := os.Getenv("JWT_SIGNING_KEY")
	if signingKey == "" {
		signingKey = "local-dev-signing-key-change-in-production"
		log.Warn().Msg("using default JWT signing key - not secure for production")
	}
	verifier := auth.NewTokenVerifier(auth.VerifierConfig{
		SigningKey: signingKey,
		Audience:   os.Getenv("JWT_AUDIENCE"),
	})

	// Routing engine and orchestrator
	eng := engine.NewExec(engine.ExecConfig{
		Binary: engineBinary,
		Logger: log,
	})
	orchestrator := route.NewOrchestrator(route.OrchestratorConfig{
		Engine: eng,
		Logger: log,
	})
	log.Info().Str("engine", eng.Name()).Msg("route orchestrator initialized")

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:      Version,
		BuildTime:    BuildTime,
		Logger:       log,
		ServiceName:  serviceName,
		BaseDir:      baseDir,
		Metrics:      metrics,
		RouteMetrics: routeMetrics,
		Orchestrator: orchestrator,
		History:      historyService,
		Verifier:     verifier,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
