package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"foodgram/internal/config"
	"foodgram/internal/database"
	"foodgram/internal/logging"
	"foodgram/internal/server"
	"foodgram/internal/services"
	"foodgram/pkg/rabbitmq"
	"foodgram/pkg/storage"

	"github.com/rs/zerolog/log"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	logging.Setup(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	// --- Database ---
	db, err := database.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("failed to open database")
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	// --- Integrations ---
	integrations, closeIntegrations := newIntegrations(context.Background(), cfg)
	defer closeIntegrations()

	app := server.NewApp(cfg, db, integrations)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info().Str("port", cfg.AppPort).Msg("starting server")
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	<-quit
	log.Info().Msg("shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("server gracefully stopped")
}

// newIntegrations connects the optional RabbitMQ publisher and S3 image store. A collaborator
// that is not configured or cannot be reached stays disabled; the returned func closes the rest.
func newIntegrations(ctx context.Context, cfg *config.Config) (server.Integrations, func()) {
	var integrations server.Integrations
	closers := []func(){}

	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Exchange: services.RecipeEventsExchange})
		if err != nil {
			log.Warn().Err(err).Msg("recipe events disabled")
		} else {
			integrations.Events = mqClient
			closers = append(closers, func() { _ = mqClient.Close() })
		}
	}

	if cfg.S3Bucket != "" {
		store, err := storage.NewS3Store(ctx, storage.Config{
			Bucket:        cfg.S3Bucket,
			Region:        cfg.AWSRegion,
			PublicBaseURL: cfg.S3PublicBaseURL,
		})
		if err != nil {
			log.Warn().Err(err).Str("bucket", cfg.S3Bucket).Msg("image uploads disabled")
		} else {
			integrations.Images = store
		}
	}

	return integrations, func() {
		for _, closeFn := range closers {
			closeFn()
		}
	}
}
