// Package app wires the service together and owns its lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/ramusparts/catalog/internal/cache"
	"github.com/ramusparts/catalog/internal/classifier"
	"github.com/ramusparts/catalog/internal/config"
	"github.com/ramusparts/catalog/internal/event"
	"github.com/ramusparts/catalog/internal/fitment"
	handler "github.com/ramusparts/catalog/internal/handler/http"
	"github.com/ramusparts/catalog/internal/repository/postgres"
	"github.com/ramusparts/catalog/pkg/database"
	"github.com/ramusparts/catalog/pkg/health"
	"github.com/ramusparts/catalog/pkg/kafka"
	"github.com/ramusparts/catalog/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

// App is the assembled service.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	pool       *pgxpool.Pool
	redis      *redis.Client
	producer   *kafka.Producer
	classifier *classifier.Service
	server     *http.Server
}

// New builds the application from configuration, connecting to its backing
// services.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logger.New(cfg.ServiceName, cfg.LogLevel)

	pgCfg := cfg.Postgres.PoolConfig()
	pool, err := database.NewPostgresPool(ctx, &pgCfg, log)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	redisClient, err := database.NewRedisClient(ctx, cfg.Redis.ClientConfig())
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	snapshots := postgres.NewSnapshotRepository(pool)
	assocs := postgres.NewAssociationRepository(pool, cfg.Engine.BatchSize)
	products := postgres.NewProductRepository(pool, assocs)

	var producer *kafka.Producer
	var events classifier.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer = kafka.NewProducer(kafka.DefaultProducerConfig(cfg.Kafka.Brokers), log)
		events = event.NewProducer(producer, log)
	} else {
		log.Warn("no kafka brokers configured, event publishing disabled")
	}

	svc := classifier.NewService(
		snapshots,
		products,
		assocs,
		events,
		classifier.NewRedisLocker(redisClient),
		fitment.DefaultVocabulary(),
		classifier.Config{
			CatchAllSlug: cfg.Engine.CatchAllSlug,
			Weights:      cfg.Engine.ScoringWeights(),
			Fallback:     cfg.Engine.FallbackPolicy(),
			Concurrency:  cfg.Engine.Concurrency,
			LockTTL:      cfg.Engine.LockTTL,
		},
		log,
	)

	healthHandler := health.NewHandler()
	healthHandler.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthHandler.Register("redis", func(ctx context.Context) error {
		return redisClient.Ping(ctx).Err()
	})
	if producer != nil {
		healthHandler.Register("kafka", producer.Ping)
	}

	configCache := cache.New[handler.VehicleConfigTree](cfg.Engine.ConfigCacheTTL, nil)
	h := handler.NewHandler(svc, products, snapshots, configCache, time.Now, log)
	router := handler.NewRouter(h, healthHandler, cfg.ServiceName, log)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      5 * time.Minute, // classification passes run synchronously
		IdleTimeout:       2 * time.Minute,
	}

	return &App{
		cfg:        cfg,
		logger:     log,
		pool:       pool,
		redis:      redisClient,
		producer:   producer,
		classifier: svc,
		server:     server,
	}, nil
}

// Classifier exposes the engine for the one-shot batch binary.
func (a *App) Classifier() *classifier.Service {
	return a.classifier
}

// Logger exposes the application logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Run serves HTTP until the context is canceled or a termination signal
// arrives, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", slog.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}

// Close releases all backing connections.
func (a *App) Close() {
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Warn("failed to close kafka producer", slog.String("error", err.Error()))
		}
	}
	if err := a.redis.Close(); err != nil {
		a.logger.Warn("failed to close redis client", slog.String("error", err.Error()))
	}
	a.pool.Close()
}
