package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/kirinyoku/tourcart/internal/config"
	"github.com/kirinyoku/tourcart/internal/kafka"
	"github.com/kirinyoku/tourcart/internal/postgres"
	"github.com/kirinyoku/tourcart/internal/redis"
	postgresrepo "github.com/kirinyoku/tourcart/internal/repository/postgres"
	redisrepo "github.com/kirinyoku/tourcart/internal/repository/redis"
	"github.com/kirinyoku/tourcart/internal/service"
	"github.com/kirinyoku/tourcart/internal/service/booking"
	catalogsvc "github.com/kirinyoku/tourcart/internal/service/catalog"
	httpgin "github.com/kirinyoku/tourcart/internal/transport/http/gin"
)

const janitorInterval = time.Minute

type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	services   *service.Services
	httpServer *http.Server
	closers    []func() error
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	a := &App{cfg: cfg, logger: logger}

	// Initialize dependencies
	var store *postgresrepo.Store
	if cfg.Catalog.Source == string(catalogsvc.SourcePostgres) {
		pgxPool, err := postgres.New(ctx, postgres.Config{
			DSN: postgres.DSN(
				cfg.Postgres.User,
				cfg.Postgres.Password,
				cfg.Postgres.Host,
				cfg.Postgres.Port,
				cfg.Postgres.Name,
				cfg.Postgres.SSLMode,
			),
			ApplicationName: "tourcart",
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize postgres: %w", err)
		}
		a.closers = append(a.closers, func() error { pgxPool.Close(); return nil })

		store = postgresrepo.NewStore(pgxPool)
		if err := store.Catalogs().EnsureSchema(ctx); err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to prepare catalog schema: %w", err)
		}
	}

	rdb, err := redis.New(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}
	a.closers = append(a.closers, rdb.Close)

	var sink booking.EventSink
	if cfg.Kafka.Enabled() {
		producer, err := kafka.NewProducer(kafka.Config{
			Brokers: kafka.ParseBrokers(cfg.Kafka.Brokers),
			Topic:   cfg.Kafka.Topic,
		})
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to initialize kafka producer: %w", err)
		}
		a.closers = append(a.closers, producer.Close)
		sink = producer
	}

	// Initialize repositories
	cache := redisrepo.New(rdb)
	pubsub := redisrepo.NewEventsPubSub(rdb)
	snapshots := redisrepo.NewCartSnapshotStore(rdb, cfg.Cart.TTL)
	limiter := redisrepo.NewRateLimiter(rdb, cfg.Cart.RateLimit, cfg.Cart.RateWindow)
	idempotencyStore := redisrepo.NewIdempotencyStore(rdb, 2*time.Hour)

	// Initialize services
	a.services = service.NewServices(store, cache, pubsub, snapshots, limiter, sink, logger, service.Config{
		Catalog: catalogsvc.Config{
			Source:   catalogsvc.Source(cfg.Catalog.Source),
			Path:     cfg.Catalog.Path,
			CacheTTL: cfg.Catalog.CacheTTL,
		},
		Booking: booking.Config{
			IdleTTL: 30 * time.Minute,
		},
	})

	// failures are logged; the catalog stays empty until one is published
	_ = a.services.Catalog.Load(ctx)

	// Initialize Gin router
	router := httpgin.NewRouter(a.services, idempotencyStore, logger, cfg.Server.AdminToken)

	a.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return a, nil
}

func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	defer a.Close()

	g, gCtx := errgroup.WithContext(ctx)

	// Start HTTP server
	g.Go(func() error {
		a.logger.Info("HTTP server listening", "host", a.cfg.Server.Host, "port", a.cfg.Server.Port)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("failed to start HTTP server: %w", err)
		}
		return nil
	})

	// Catalog reloads published by other instances
	g.Go(func() error {
		err := a.services.Catalog.Watch(gCtx)
		if err != nil && !errors.Is(err, goredis.ErrClosed) {
			return err
		}
		return nil
	})

	// Idle session eviction
	g.Go(func() error {
		return a.services.Booking.RunJanitor(gCtx, janitorInterval)
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gCtx.Done()
		a.logger.Info("shutting down HTTP server")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return a.httpServer.Shutdown(ctx)
	})

	return g.Wait()
}

// Close releases the connections opened by New, last opened first.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("failed to close resource", slog.Any("error", err))
		}
	}
	a.closers = nil
}
