package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samparkk13/fantasyedge-ai/internal/api"
	"github.com/samparkk13/fantasyedge-ai/internal/api/handlers"
	"github.com/samparkk13/fantasyedge-ai/internal/config"
	"github.com/samparkk13/fantasyedge-ai/internal/database"
	"github.com/samparkk13/fantasyedge-ai/internal/logging"
	"github.com/samparkk13/fantasyedge-ai/internal/mcpserver"
	"github.com/samparkk13/fantasyedge-ai/internal/metrics"
	"github.com/samparkk13/fantasyedge-ai/internal/services"
	"github.com/samparkk13/fantasyedge-ai/internal/telemetry"
	"github.com/samparkk13/fantasyedge-ai/pkg/espn"
	"github.com/sirupsen/logrus"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Application failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	ctx := context.Background()

	// Initialize telemetry first so the storage layer picks up the provider
	provider, err := telemetry.InitTelemetry(ctx, telemetryConfig(cfg))
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to shutdown telemetry: %v\n", err)
		}
	}()

	logger, otlpLogger := newLogger(cfg)
	if otlpLogger != nil {
		defer func() {
			_ = otlpLogger.Shutdown(context.Background())
		}()
	}
	logging.ConfigureLogrus(cfg.LogLevel, cfg.Environment)
	logrusLogger := logrus.StandardLogger()

	db, err := database.NewPostgresConnection(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	pool := database.NewTracedDB(db.Pool).WithLogger(logger)
	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, pool); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	checks := []handlers.NamedCheck{{Name: "database", Checker: db, Required: true}}

	// Run reports are optional; the service works without Redis
	var runs services.RunRecorder
	redisClient, err := database.NewRedisConnection(cfg.Redis)
	if err != nil {
		logrusLogger.WithError(err).Warn("Redis unavailable, run reports disabled")
	} else {
		defer redisClient.Close()
		runs = database.NewRunStore(redisClient.Client, config.Duration(cfg.Redis.RunReportTTL, 7*24*time.Hour))
		checks = append(checks, handlers.NamedCheck{Name: "redis", Checker: redisClient})
	}

	metricsManager := metrics.NewManager()
	optimizer := services.NewResourceOptimizer(services.ResourceOptimizerConfig{
		MinWorkers: cfg.Prediction.MinWorkers,
		MaxWorkers: cfg.Prediction.MaxWorkers,
		Logger:     logger.WithComponent("resource_optimizer"),
	})

	players := database.NewPlayerRepository(pool)
	stats := database.NewStatRepository(pool)
	predictions := database.NewPredictionRepository(pool)

	query := services.NewQueryService(players, stats, predictions, runs, logrusLogger)
	generator := services.NewPredictionService(players, stats, predictions, runs, optimizer, metricsManager, logrusLogger)
	ingestion := services.NewIngestionService(espn.NewClient(&cfg.ESPN), players, runs, metricsManager, logrusLogger)
	mcpServer := mcpserver.NewServer(generator, query, cfg.Prediction.DefaultSeason, logrusLogger)

	if strings.EqualFold(cfg.Environment, "production") {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	api.SetupRoutes(router, api.RouterConfig{
		ServiceName:    cfg.Telemetry.ServiceName,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AdminAPIKey:    cfg.Security.AdminAPIKey,
		Players:        handlers.NewPlayerHandler(query, ingestion).WithLogger(logger),
		Predictions:    handlers.NewPredictionHandler(generator, query, cfg.Prediction.DefaultSeason).WithLogger(logger),
		Runs:           handlers.NewRunHandler(query),
		Health:         handlers.NewHealthHandler(checks, optimizer, ingestion, telemetry.ServiceVersion),
		MCP:            mcpServer.Handler(),
		Metrics:        metricsManager,
		Logger:         logger,
	})

	if cfg.Security.AdminAPIKey == "" {
		logrusLogger.Warn("ADMIN_API_KEY not set, mutating endpoints are unauthenticated")
	}

	srv := newHTTPServer(cfg.Server, router)

	serverErr := make(chan error, 1)
	go func() {
		logger.LogStartup(cfg.Telemetry.ServiceName, telemetry.ServiceVersion, cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		return fmt.Errorf("failed to start server: %w", err)
	case sig := <-quit:
		logger.LogShutdown(cfg.Telemetry.ServiceName, "signal received: "+sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logrusLogger.Info("Server exited gracefully")
	return nil
}

func telemetryConfig(cfg *config.Config) telemetry.TelemetryConfig {
	return telemetry.TelemetryConfig{
		Enabled:      cfg.Telemetry.Enabled,
		Exporter:     cfg.Telemetry.Exporter,
		OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Environment:  cfg.Environment,
		SampleRate:   cfg.Telemetry.SampleRate,
	}
}

// newLogger returns the structured logger, exporting over OTLP when tracing
// is shipped to a collector. The OTLP logger is nil otherwise.
func newLogger(cfg *config.Config) (*logging.StandardLogger, *logging.OTLPLogger) {
	if cfg.Telemetry.Enabled && cfg.Telemetry.Exporter == "otlp" {
		return logging.NewStandardOTLPLogger(logging.OTLPConfig{
			Endpoint:       cfg.Telemetry.OTLPEndpoint,
			ServiceName:    cfg.Telemetry.ServiceName,
			ServiceVersion: telemetry.ServiceVersion,
			Environment:    cfg.Environment,
			LogLevel:       cfg.LogLevel,
		})
	}
	return logging.NewStandardLogger(cfg.LogLevel, cfg.Environment), nil
}

// newHTTPServer applies the configured timeouts. Generation of a full season
// can take a while, so WriteTimeout is configurable.
func newHTTPServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       config.Duration(cfg.ReadTimeout, 10*time.Second),
		WriteTimeout:      config.Duration(cfg.WriteTimeout, 120*time.Second),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
