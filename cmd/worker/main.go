package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jwebster45206/ether-engine/internal/config"
	"github.com/jwebster45206/ether-engine/internal/logger"
	"github.com/jwebster45206/ether-engine/internal/queue"
	"github.com/jwebster45206/ether-engine/internal/runlock"
	"github.com/jwebster45206/ether-engine/internal/runner"
	internalstorage "github.com/jwebster45206/ether-engine/internal/storage"
	"github.com/jwebster45206/ether-engine/internal/worker"
	"github.com/jwebster45206/ether-engine/pkg/content"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting Ether Engine Worker",
		"environment", cfg.Environment,
		"redis_url", cfg.RedisURL)

	if cfg.StorageBackend != config.BackendRedis {
		log.Error("The worker requires the redis storage backend", "storage_backend", cfg.StorageBackend)
		os.Exit(1)
	}

	lib, err := content.Default()
	if cfg.ContentDir != "" {
		lib, err = content.LoadDir(cfg.ContentDir)
	}
	if err != nil {
		log.Error("Failed to load content", "error", err, "content_dir", cfg.ContentDir)
		os.Exit(1)
	}

	storageService, err := internalstorage.NewRedisStorage(cfg.RedisURL, log)
	if err != nil {
		log.Error("Failed to create storage", "error", err)
		os.Exit(1)
	}
	storageService.WithTTL(cfg.RunTTL)
	defer func() {
		if err := storageService.Close(); err != nil {
			log.Error("Error closing storage connection", "error", err)
		}
	}()

	storageCtx, storageCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer storageCancel()
	if err := storageService.WaitForConnection(storageCtx); err != nil {
		log.Error("Failed to connect to storage", "error", err)
		os.Exit(1)
	}
	log.Info("Storage service initialized successfully")

	redisClient := storageService.Client()
	workerID := os.Getenv("WORKER_ID")
	runs := runner.New(storageService, runner.NewEngineFactory(lib, cfg.RunSeed, redisClient, log), log).
		WithLocker(runlock.NewRedis(redisClient, workerID))

	w := worker.New(queue.NewActionQueue(redisClient), runs, redisClient, log, workerID)

	// Handle graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := w.Start(); err != nil {
			log.Error("Worker error", "error", err)
			os.Exit(1)
		}
	}()

	log.Info("Worker started, waiting for requests...", "worker_id", w.ID())

	<-quit
	log.Info("Worker shutdown signal received")
	w.Stop()

	// let the current request finish
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		log.Warn("Worker did not stop in time")
	}

	log.Info("Worker exited")
}
