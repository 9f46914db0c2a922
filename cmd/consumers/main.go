package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"bookit/cmd/consumers/jobs"
	"bookit/internal/config"
	"bookit/internal/consumers"
	"bookit/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Invalid configuration", "error", err)
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	logger.Get().Info("Starting consumers service...")

	// отдельный client ID для consumers
	cfg.NATS.ClientID = "bookit-consumers"

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumerService, err := consumers.NewConsumerService(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to create consumer service", "error", err)
	}

	if err := consumerService.Start(); err != nil {
		logger.Fatal("Failed to start consumers", "error", err)
	}

	poolMonitor := jobs.NewPoolMonitorJob(consumerService.DB(), 30*time.Second)
	poolMonitor.Start(ctx)

	logger.Get().Info("Consumers service started successfully")

	<-ctx.Done()

	logger.Get().Info("Shutting down consumers service...")
	poolMonitor.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := consumerService.Shutdown(shutdownCtx); err != nil {
		logger.Get().Error("Error during shutdown", "error", err)
	}

	logger.Get().Info("Consumers service stopped")
}
