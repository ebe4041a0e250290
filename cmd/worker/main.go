package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/tongxing977-max/project50k-backend/internal/amqp"
	"github.com/tongxing977-max/project50k-backend/internal/classifier"
	"github.com/tongxing977-max/project50k-backend/internal/config"
	applog "github.com/tongxing977-max/project50k-backend/internal/log"
	"github.com/tongxing977-max/project50k-backend/internal/sheets"
	gsheet "github.com/tongxing977-max/project50k-backend/internal/sheets/google"
	"github.com/tongxing977-max/project50k-backend/internal/storage"
	"github.com/tongxing977-max/project50k-backend/internal/worker"
)

func main() {
	_ = godotenv.Load()

	logCfg := applog.DefaultConfig()
	logCfg.Component = applog.ComponentWorker
	logger := applog.New(logCfg)
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var cls classifier.Classifier
	if cfg.ClassifierEnabled() {
		cls = classifier.NewDeepSeekClient(cfg.ClassifierAPIKey, cfg.ClassifierBaseURL, cfg.ClassifierModel, cfg.ClassifierTimeout)
		logger.Info("Classifier enabled", "model", cfg.ClassifierModel)
	} else {
		logger.Info("Classifier disabled, entries stay uncategorized")
	}

	var mirror sheets.LedgerWriter
	if cfg.SheetsMirrorEnabled() {
		client, err := gsheet.NewClient(ctx, cfg.GoogleCredentialsKey, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		mirror = client
		logger.Info("Sheets mirror enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Sheets mirror disabled")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	deliveries, err := amqpClient.Consume()
	if err != nil {
		logger.Error("Failed to start consuming", "error", err)
		os.Exit(1)
	}

	syncWorker := worker.NewSyncWorker(repo, cls, mirror)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return syncWorker.Run(ctx, deliveries)
	})

	logger.Info("Worker started", "queue", cfg.AMQPQueue)
	if err := g.Wait(); err != nil && err != context.Canceled {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
