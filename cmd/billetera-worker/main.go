package main

import (
	"context"
	"errors"
	"os"

	"billetera/internal/amqp"
	"billetera/internal/cli"
	"billetera/internal/log"
	"billetera/internal/storage"
	"billetera/internal/worker"
)

// billetera-worker consumes ledger event batches published by the API
// (JOURNAL_BACKEND=amqp) and stores them in the SQLite journal.
func main() {
	cfg, logger := cli.Bootstrap(log.ComponentWorker)
	logger.Info("Starting billetera-worker")
	cli.MustValidate(cfg, logger)

	sqliteRepo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath, logger)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", log.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer sqliteRepo.Close()

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, stop := cli.SignalContext()
	defer stop()

	journalWorker := worker.NewJournalWorker(sqliteRepo, logger)
	if err := journalWorker.StartupCheck(ctx); err != nil {
		// Consumption can still proceed; the check is informational.
		logger.Error("Failed startup check", log.FieldError, err)
	}

	err = amqpClient.ConsumeEvents(ctx, journalWorker.HandleBatch)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", log.FieldError, err)
		os.Exit(1)
	}

	logger.Info("billetera-worker stopped gracefully")
}
