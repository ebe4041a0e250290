package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/tongxing977-max/project50k-backend/internal/amqp"
	"github.com/tongxing977-max/project50k-backend/internal/auth"
	"github.com/tongxing977-max/project50k-backend/internal/config"
	"github.com/tongxing977-max/project50k-backend/internal/core"
	apphttp "github.com/tongxing977-max/project50k-backend/internal/http"
	applog "github.com/tongxing977-max/project50k-backend/internal/log"
	"github.com/tongxing977-max/project50k-backend/internal/services"
	"github.com/tongxing977-max/project50k-backend/internal/storage"
)

func main() {
	// Load .env for local development; ignore errors in production/docker.
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
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

	// The broker is optional: without it entries are stored but never
	// classified or mirrored.
	var publisher services.SyncPublisher
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, running without background sync", "error", err)
		} else {
			publisher = amqpClient
			defer amqpClient.Close()
		}
	}

	clock := core.SystemClock{}
	deps := apphttp.Deps{
		Dashboard:    services.NewDashboardService(repo, clock),
		Transactions: services.NewTransactionService(repo, publisher),
		Debts:        services.NewDebtService(repo),
		Goals:        repo,
		Budgets:      repo,
		Users:        repo,
		Tokens:       auth.NewTokenService(cfg.JWTSecret, cfg.JWTExpiresIn),
		Clock:        clock,
	}

	srv := apphttp.NewServer(":"+cfg.Port, deps)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting project50k API", "port", cfg.Port, "db", cfg.SQLiteDBPath, "amqp", publisher != nil)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	slog.Info("Server stopped gracefully")
}
