package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Raymond9734/customer-management-backend/internal/config"
	"github.com/Raymond9734/customer-management-backend/internal/db"
	"github.com/Raymond9734/customer-management-backend/internal/logging"
	"github.com/Raymond9734/customer-management-backend/internal/queue"
	"github.com/Raymond9734/customer-management-backend/internal/repository"
	"github.com/Raymond9734/customer-management-backend/internal/worker"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging)
	slog.SetDefault(logger)

	logger.Info("starting customer event worker")

	if !cfg.Queue.Enabled {
		logger.Info("queue disabled, nothing to consume")
		return
	}
	if cfg.Storage.Driver != config.StoragePostgres {
		logger.Error("worker requires postgres storage", slog.String("storage", cfg.Storage.Driver))
		os.Exit(1)
	}

	database, err := db.New(db.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		logger.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.Close()

	logger.Info("connected to database")

	queueClient, err := queue.NewRedisClient(queue.RedisConfig{
		URL:       cfg.Queue.RedisURL,
		QueueName: cfg.Queue.QueueName,
	}, logger)
	if err != nil {
		logger.Error("failed to connect to Redis", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer queueClient.Close()

	processor := worker.NewEventProcessor(repository.NewAuditRepository(database.DB), logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Consume returns once ctx is cancelled and in-flight events are done
	err = queueClient.Consume(ctx, processor.Process, cfg.Worker.Concurrency)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("consumer error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("worker stopped gracefully")
}
