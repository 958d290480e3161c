package service

import (
	"log/slog"

	postgres "github.com/kirinyoku/tourcart/internal/repository/postgres"
	redis "github.com/kirinyoku/tourcart/internal/repository/redis"
	"github.com/kirinyoku/tourcart/internal/service/booking"
	"github.com/kirinyoku/tourcart/internal/service/catalog"
)

type Services struct {
	Catalog *catalog.Service
	Booking *booking.Service
}

type Config struct {
	Catalog catalog.Config
	Booking booking.Config
}

// NewServices wires the services. store is nil when the catalog is read from
// a file, and sink is nil when no event stream is configured.
func NewServices(
	store *postgres.Store,
	cache *redis.Cache,
	pubsub *redis.EventsPubSub,
	snapshots *redis.CartSnapshotStore,
	limiter *redis.RateLimiter,
	sink booking.EventSink,
	logger *slog.Logger,
	cfg Config,
) *Services {
	catalogDeps := catalog.Deps{
		Cache:  cache,
		Logger: logger.With(slog.String("component", "catalog")),
	}
	bookingDeps := booking.Deps{
		Events: sink,
		Logger: logger.With(slog.String("component", "booking")),
	}

	// typed nil pointers must not reach the interfaces
	if pubsub != nil {
		catalogDeps.Events = pubsub
		bookingDeps.Notifier = pubsub
	}
	if snapshots != nil {
		bookingDeps.Snapshots = snapshots
	}
	if limiter != nil {
		bookingDeps.Limiter = limiter
	}
	if store != nil {
		catalogDeps.Tx = store
		catalogDeps.Versions = func(db postgres.DB) catalog.Versions {
			return store.Catalogs().With(db)
		}
	}

	catalogSvc := catalog.New(cfg.Catalog, catalogDeps)

	bookingDeps.Catalogs = catalogSvc
	bookingSvc := booking.New(cfg.Booking, bookingDeps)

	return &Services{
		Catalog: catalogSvc,
		Booking: bookingSvc,
	}
}
