package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/balenascatcher/bilge-simulasyon/internal/api"
	"github.com/balenascatcher/bilge-simulasyon/internal/attemptlog"
	"github.com/balenascatcher/bilge-simulasyon/internal/config"
	"github.com/balenascatcher/bilge-simulasyon/internal/dataset"
	"github.com/balenascatcher/bilge-simulasyon/internal/logger"
	"github.com/balenascatcher/bilge-simulasyon/internal/queue"
	"github.com/balenascatcher/bilge-simulasyon/internal/session"
	"github.com/balenascatcher/bilge-simulasyon/internal/storage"
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

	log.Info().Str("version", cfg.App.Version).Msg("Starting portal server")

	// Initialize workbook storage
	store, err := storage.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize storage")
	}

	// Initialize attempt log
	var attempts attemptlog.Store
	switch cfg.AttemptLog.Store {
	case "mysql":
		database, err := attemptlog.NewMySQLConnection(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer database.Close()
		attempts = attemptlog.NewMySQLStore(database)
	default:
		attempts = attemptlog.NewFileStore(cfg.AttemptLog.Path)
	}

	// Initialize Redis-backed publish producer. A portal without Redis
	// still serves students; only panel publishing is disabled.
	var producer *queue.Producer
	if cfg.Redis.Host != "" {
		redisClient, err := queue.NewRedisClient(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer redisClient.Close()
		producer = queue.NewProducer(redisClient, cfg)
	}

	// Initialize API handler
	handler := api.NewHandler(
		dataset.NewStore(store, cfg.Dataset.LiveKey),
		session.NewManager(cfg.Session.TTL),
		attempts,
		producer,
		cfg,
	)

	// Setup Gin router
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(api.CORSMiddleware())
	router.Use(api.LoggingMiddleware())
	router.Use(api.RecoveryMiddleware())

	// Setup routes
	api.SetupRoutes(router, handler, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Create context for graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Shutdown server
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
