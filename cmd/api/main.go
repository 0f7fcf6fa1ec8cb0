package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jwebster45206/ether-engine/internal/config"
	"github.com/jwebster45206/ether-engine/internal/handlers"
	"github.com/jwebster45206/ether-engine/internal/logger"
	"github.com/jwebster45206/ether-engine/internal/middleware"
	"github.com/jwebster45206/ether-engine/internal/queue"
	"github.com/jwebster45206/ether-engine/internal/runlock"
	"github.com/jwebster45206/ether-engine/internal/runner"
	internalstorage "github.com/jwebster45206/ether-engine/internal/storage"
	"github.com/jwebster45206/ether-engine/pkg/content"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting Ether Engine API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"storage_backend", cfg.StorageBackend)

	lib, err := loadContent(cfg)
	if err != nil {
		log.Error("Failed to load content", "error", err, "content_dir", cfg.ContentDir)
		os.Exit(1)
	}
	log.Info("Content loaded", "counts", lib.Counts())

	storage, err := internalstorage.Open(cfg, log)
	if err != nil {
		log.Error("Failed to open storage", "error", err)
		os.Exit(1)
	}

	storageCtx, storageCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer storageCancel()
	var redisClient *redis.Client
	if rs, ok := storage.(*internalstorage.RedisStorage); ok {
		if err := rs.WaitForConnection(storageCtx); err != nil {
			log.Error("Failed to connect to storage", "error", err)
			os.Exit(1)
		}
		redisClient = rs.Client()
	} else if err := storage.Ping(storageCtx); err != nil {
		log.Error("Failed to connect to storage", "error", err)
		os.Exit(1)
	}
	log.Info("Storage connection established successfully")

	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(storage, lib, log)
	mux.Handle("/health", healthHandler)

	runs := runner.New(storage, runner.NewEngineFactory(lib, cfg.RunSeed, redisClient, log), log)
	runHandler := handlers.NewRunHandler(runs, log)
	if redisClient != nil {
		// share run locks with the workers and accept ?async=true
		runs.WithLocker(runlock.NewRedis(redisClient, "api"))
		runHandler.WithQueue(queue.NewActionQueue(redisClient))
		log.Info("Asynchronous actions enabled", "queue", queue.DefaultKey)
	}
	mux.Handle("/v1/runs", runHandler)
	mux.Handle("/v1/runs/", runHandler)

	metaHandler := handlers.NewMetaHandler(storage, log)
	mux.Handle("/v1/meta", metaHandler)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      middleware.Logger(log)(mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	if err := storage.Close(); err != nil {
		log.Error("Error closing storage connection", "error", err)
	}

	log.Info("Server exited")
}

func loadContent(cfg *config.Config) (*content.Library, error) {
	if cfg.ContentDir != "" {
		return content.LoadDir(cfg.ContentDir)
	}
	return content.Default()
}
