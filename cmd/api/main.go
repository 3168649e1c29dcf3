package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Raymond9734/customer-management-backend/internal/config"
	"github.com/Raymond9734/customer-management-backend/internal/db"
	"github.com/Raymond9734/customer-management-backend/internal/handler"
	"github.com/Raymond9734/customer-management-backend/internal/logging"
	"github.com/Raymond9734/customer-management-backend/internal/queue"
	"github.com/Raymond9734/customer-management-backend/internal/repository"
	"github.com/Raymond9734/customer-management-backend/internal/service"
	"github.com/Raymond9734/customer-management-backend/internal/worker"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging)
	slog.SetDefault(logger)

	logger.Info("starting customer API server",
		slog.String("env", cfg.Env),
		slog.String("storage", cfg.Storage.Driver),
		slog.Bool("queue_enabled", cfg.Queue.Enabled),
	)

	var (
		customerRepo repository.CustomerRepository
		auditRepo    repository.AuditRepository
		dbHealth     handler.HealthChecker
	)

	switch cfg.Storage.Driver {
	case config.StorageMemory:
		customerRepo = repository.NewMemoryCustomerRepository()
		auditRepo = repository.NewMemoryAuditRepository()

	default:
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

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err = database.EnsureSchema(ctx)
		cancel()
		if err != nil {
			logger.Error("failed to apply schema", slog.String("error", err.Error()))
			os.Exit(1)
		}

		customerRepo = repository.NewCustomerRepository(database.DB)
		auditRepo = repository.NewAuditRepository(database.DB)
		dbHealth = database
	}

	var queueClient queue.Client
	if cfg.Queue.Enabled {
		queueClient, err = queue.NewRedisClient(queue.RedisConfig{
			URL:       cfg.Queue.RedisURL,
			QueueName: cfg.Queue.QueueName,
		}, logger)
		if err != nil {
			logger.Error("failed to connect to Redis", slog.String("error", err.Error()))
			os.Exit(1)
		}
	} else {
		// no broker: record the audit trail in-process
		queueClient = queue.NewInlineClient(worker.NewEventProcessor(auditRepo, logger).Process)
		logger.Info("queue disabled, recording customer events inline")
	}
	defer queueClient.Close()

	customerSvc := service.NewCustomerService(customerRepo, queueClient, logger)

	customerHandler := handler.NewCustomerHandler(customerSvc, auditRepo, logger)
	healthHandler := handler.NewHealthHandler(dbHealth, queueClient, logger)

	router := handler.NewRouter(customerHandler, healthHandler, handler.RouterConfig{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Logger:         logger,
	})

	addr := fmt.Sprintf(":%d", cfg.API.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("API server listening", slog.String("addr", addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)

	case sig := <-quit:
		logger.Info("shutting down server", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server shutdown failed", slog.String("error", err.Error()))
			os.Exit(1)
		}

		logger.Info("server stopped gracefully")
	}
}
