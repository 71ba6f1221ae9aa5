package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/balenascatcher/bilge-simulasyon/internal/config"
	"github.com/balenascatcher/bilge-simulasyon/internal/logger"
	"github.com/balenascatcher/bilge-simulasyon/internal/queue"
	"github.com/balenascatcher/bilge-simulasyon/internal/storage"
	"github.com/balenascatcher/bilge-simulasyon/internal/worker"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Initialize logger
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	log := logger.Get()

	log.Info().Str("version", cfg.App.Version).Msg("Starting publish worker")

	// Initialize workbook storage
	store, err := storage.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize storage")
	}

	// Initialize Redis client
	redisClient, err := queue.NewRedisClient(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()

	// Create publish worker
	publishWorker := worker.NewPublishWorker(cfg, store, redisClient)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start worker
	go func() {
		if err := publishWorker.Start(ctx); err != nil && err != context.Canceled {
			log.Fatal().Err(err).Msg("Publish worker failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down publish worker...")

	// Cancel context to stop worker
	cancel()
	publishWorker.Stop()

	log.Info().Msg("Publish worker exited")
}
