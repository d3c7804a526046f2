package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"janbu/internal/amqp"
	"janbu/internal/cli"
	fstore "janbu/internal/ledger/firestore"
	"janbu/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting janbu-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	// SQLite holds the locally saved records awaiting a remote push
	sqliteRepo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer sqliteRepo.Close()

	// Firestore client for sync operations (optional)
	var remoteClient *fstore.Client
	if cfg.FirestoreProjectID != "" {
		var err error
		remoteClient, err = fstore.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Firestore client", "error", err)
			os.Exit(1)
		}
		defer remoteClient.Close()
		logger.Info("Firestore client initialized", "project_id", cfg.FirestoreProjectID)
	} else {
		logger.Info("Firestore sync disabled - no FIRESTORE_PROJECT_ID provided")
	}

	// AMQP client for consuming messages
	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var syncWorker *worker.SyncWorker
	if remoteClient != nil {
		syncWorker = worker.NewSyncWorker(sqliteRepo, remoteClient, remoteClient, remoteClient, cfg.SyncBatchSize)

		// On startup, process any pending records that might have been missed
		logger.Info("Performing startup sync check...")
		if err := syncWorker.StartupSyncCheck(ctx); err != nil {
			logger.Error("Failed startup sync check", "error", err)
			// Don't exit - continue with normal operation
		}
	} else {
		logger.Info("Skipping remote sync operations - no client available")
	}

	// Start message consumption only if we have a sync worker
	if syncWorker != nil {
		go func() {
			err := amqpClient.ConsumeMessages(ctx,
				func(msg *amqp.RecordSyncMessage) error {
					return syncWorker.HandleSyncMessage(ctx, msg)
				},
				func(msg *amqp.RecordDeleteMessage) error {
					return syncWorker.HandleDeleteMessage(ctx, msg)
				})
			if err != nil {
				if err != context.Canceled {
					logger.Error("Message consumption failed", "error", err)
				}
				cancel()
			}
		}()

		// Periodic sweep for any missed messages
		ticker := time.NewTicker(cfg.SyncInterval)
		defer ticker.Stop()

		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					if err := syncWorker.ProcessPendingRecords(ctx); err != nil {
						logger.Error("Periodic sync failed", "error", err)
					}
				}
			}
		}()
	} else {
		logger.Info("Skipping AMQP message consumption - no sync worker available")
	}

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	logger.Info("Shutting down worker...")
	cancel()

	select {
	case <-shutdownCtx.Done():
		logger.Warn("Shutdown timeout reached")
	case <-time.After(5 * time.Second):
		logger.Info("Worker shutdown complete")
	}
}
