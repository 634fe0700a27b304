package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/sanri/eve-online-tools/internal/amqp"
	"github.com/sanri/eve-online-tools/internal/config"
	"github.com/sanri/eve-online-tools/internal/esi"
	"github.com/sanri/eve-online-tools/internal/log"
	"github.com/sanri/eve-online-tools/internal/services"
	"github.com/sanri/eve-online-tools/internal/storage"
	"github.com/sanri/eve-online-tools/internal/worker"
)

func main() {
	// .env is a local development convenience; absence is fine
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	logger.Info("Starting corptax-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	repo, err := storage.NewRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open storage", log.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	esiClient, err := esi.New(esi.Config{
		ProxyURL: cfg.ESIProxyURL,
		Token:    cfg.ESIToken,
	})
	if err != nil {
		logger.Error("Failed to build ESI client", log.FieldError, err)
		os.Exit(1)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect to AMQP", log.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	directory := services.NewDirectoryService(esiClient, repo, cfg.ExcludedPartyIDs, logger)
	dirWorker := worker.NewDirectoryWorker(directory, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Close directory gaps accumulated while the worker was down before
	// taking new messages.
	if err := dirWorker.StartupCheck(ctx); err != nil {
		logger.Error("Startup check failed", log.FieldError, err)
		// keep running; the periodic scan retries
	}

	consumeDone := make(chan error, 1)
	go func() {
		consumeDone <- amqpClient.ConsumePartyResolve(ctx, func(msg *amqp.PartyResolveMessage) error {
			return dirWorker.HandleResolveMessage(ctx, msg)
		})
	}()

	ticker := time.NewTicker(cfg.ScanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Shutdown signal received", log.FieldOperation, log.OpShutdown)
			waitForConsumer(logger, consumeDone)
			return
		case err := <-consumeDone:
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Message consumption failed", log.FieldError, err)
				os.Exit(1)
			}
			return
		case <-ticker.C:
			if err := dirWorker.ProcessUnknownParties(ctx); err != nil {
				logger.Error("Periodic directory scan failed", log.FieldError, err)
			}
		}
	}
}

// waitForConsumer gives the consume loop a bounded window to drain after
// cancellation.
func waitForConsumer(logger *log.Logger, consumeDone <-chan error) {
	select {
	case <-consumeDone:
		logger.Info("Worker shutdown complete")
	case <-time.After(30 * time.Second):
		logger.Warn("Shutdown timeout reached")
	}
}
