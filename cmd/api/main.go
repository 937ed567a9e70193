package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"example.com/fitnesscenter/internal/api"
	"example.com/fitnesscenter/internal/config"
	"example.com/fitnesscenter/internal/domain"
	"example.com/fitnesscenter/internal/persistence/memory"
	"example.com/fitnesscenter/internal/persistence/postgres"
	"example.com/fitnesscenter/internal/publisher"
	httptransport "example.com/fitnesscenter/internal/transport/http"
)

func main() {
	// Optional; missing .env is fine.
	_ = godotenv.Load()

	cfg := config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		repo      domain.Repository
		readiness api.ReadinessCheck
	)
	switch cfg.StorageBackend {
	case config.StorageMemory:
		logger.Warn("using in-memory storage; data is lost on restart")
		repo = memory.NewRepository()
	case config.StoragePostgres:
		pool, err := pgxpool.New(ctx, cfg.PostgresURL())
		if err != nil {
			logger.Error("invalid postgres configuration", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		pgRepo := postgres.NewRepository(pool)
		if err := pgRepo.Ping(ctx); err != nil {
			logger.Warn("storage unavailable at startup", "host", cfg.Database.Host, "database", cfg.Database.Name, "error", err)
		}
		repo = pgRepo
		readiness = pgRepo.Ping
	default:
		logger.Error("unknown storage backend", "backend", cfg.StorageBackend)
		os.Exit(1)
	}

	var pub publisher.Publisher = publisher.NoopPublisher{}
	if cfg.PublishingEnabled() {
		pub = publisher.NewKafkaPublisher(cfg.KafkaBrokers, cfg.SchemaRegistryURL)
		logger.Info("event publishing enabled", "brokers", cfg.KafkaBrokers)
	}

	service := domain.NewService(repo, pub, logger)
	handler := api.NewHandler(service, api.WithReadiness(readiness), api.WithLogger(logger))

	router := httptransport.NewRouter(logger)
	handler.RegisterRoutes(router)
	router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	server := httptransport.NewServer(httptransport.ServerConfig{
		Address:      cfg.HTTPAddress,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}, router)

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("fitness-center api listening", "address", cfg.HTTPAddress, "storage", cfg.StorageBackend)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-shutdownCh
	logger.Info("shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
	if err := pub.Close(); err != nil {
		logger.Warn("publisher close failed", "error", err)
	}
}
