package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/kirinyoku/tourcart/internal/catalog"
	"github.com/kirinyoku/tourcart/internal/repository"
	postgresrepo "github.com/kirinyoku/tourcart/internal/repository/postgres"
	redisrepo "github.com/kirinyoku/tourcart/internal/repository/redis"
	"github.com/kirinyoku/tourcart/internal/uow"
)

type Source string

const (
	SourceFile     Source = "file"
	SourcePostgres Source = "postgres"
)

type Config struct {
	Source       Source
	Path         string
	CacheTTL     time.Duration
	KeepVersions int
}

// Versions is the catalog version table.
type Versions interface {
	Latest(ctx context.Context) (*postgresrepo.CatalogVersion, error)
	Insert(ctx context.Context, document json.RawMessage) (int64, error)
	Prune(ctx context.Context, keep int) (int64, error)
}

// Events carries catalog change notifications between instances.
type Events interface {
	PublishCatalogChanged(ctx context.Context, version string) error
	SubscribeCatalog(ctx context.Context, handler func(ctx context.Context, version string)) error
}

type Deps struct {
	// Versions binds the version table to a transaction, or to the pool when
	// db is nil. Required for the postgres source.
	Versions func(db postgresrepo.DB) Versions
	Tx       uow.TxRunner
	Cache    *redisrepo.Cache
	Events   Events
	Logger   *slog.Logger
}

type cachedDocument struct {
	ID       int64           `json:"id"`
	Document json.RawMessage `json:"document"`
}

// Service owns the catalog currently served. Current never returns nil; it
// is empty until the first successful Load.
type Service struct {
	cfg      Config
	versions func(postgresrepo.DB) Versions
	uow      *uow.UoW
	cache    *redisrepo.Cache
	events   Events
	logger   *slog.Logger

	current atomic.Pointer[catalog.Catalog]
	sf      singleflight.Group
}

func New(cfg Config, deps Deps) *Service {
	if cfg.Source == "" {
		cfg.Source = SourceFile
	}

	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}

	if cfg.KeepVersions <= 0 {
		cfg.KeepVersions = 10
	}

	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	s := &Service{
		cfg:      cfg,
		versions: deps.Versions,
		cache:    deps.Cache,
		events:   deps.Events,
		logger:   deps.Logger,
	}
	if deps.Tx != nil {
		s.uow = uow.NewUoW(deps.Tx)
	}
	s.current.Store(catalog.New(nil))

	return s
}

func (s *Service) Current() *catalog.Catalog {
	return s.current.Load()
}

// Load reads the catalog from the configured source and swaps it in.
// Concurrent calls share one read. On failure the previous catalog stays.
func (s *Service) Load(ctx context.Context) error {
	const op = "service.catalog.Load"

	_, err, _ := s.sf.Do("load", func() (any, error) {
		raw, err := s.read(ctx)
		if err != nil {
			return nil, err
		}

		c, err := build(raw)
		if err != nil {
			return nil, err
		}

		prev := s.current.Swap(c)
		if prev.Version() != c.Version() {
			s.logger.Info("catalog loaded",
				slog.String("source", string(s.cfg.Source)),
				slog.String("version", c.Version()),
				slog.Int("experiences", len(c.Experiences())),
			)
		}

		return nil, nil
	})
	if err != nil {
		s.logger.Error("catalog load failed", slog.String("op", op), slog.Any("error", err))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Service) read(ctx context.Context) ([]byte, error) {
	if s.cfg.Source != SourcePostgres {
		return os.ReadFile(s.cfg.Path)
	}

	loader := func(ctx context.Context) (cachedDocument, error) {
		v, err := s.versions(nil).Latest(ctx)
		if err != nil {
			return cachedDocument{}, err
		}
		return cachedDocument{ID: v.ID, Document: v.Document}, nil
	}

	var (
		doc cachedDocument
		err error
	)
	if s.cache != nil {
		doc, err = redisrepo.GetOrSetJSON(ctx, s.cache, redisrepo.KeyCatalog(), s.cfg.CacheTTL, loader)
	} else {
		doc, err = loader(ctx)
	}

	if errors.Is(err, repository.ErrNotFound) {
		if s.cfg.Path == "" {
			return nil, ErrNoCatalog
		}
		// empty table: serve the seed file until something is published
		return os.ReadFile(s.cfg.Path)
	}
	if err != nil {
		return nil, err
	}

	return doc.Document, nil
}

func build(raw []byte) (*catalog.Catalog, error) {
	data, err := catalog.Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	return catalog.New(data), nil
}

// Publish validates and installs a new catalog document. With the postgres
// source the document is stored as a new version and other instances are
// notified after commit; the file source only swaps it in memory.
func (s *Service) Publish(ctx context.Context, raw []byte) (*catalog.Catalog, error) {
	const op = "service.catalog.Publish"

	c, err := build(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if s.cfg.Source != SourcePostgres || s.uow == nil {
		s.current.Store(c)
		return c, nil
	}

	var doc bytes.Buffer
	if err := json.Compact(&doc, raw); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrInvalidCatalog, err)
	}

	err = s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		versions := s.versions(tx)

		id, err := versions.Insert(ctx, doc.Bytes())
		if err != nil {
			return err
		}

		if _, err := versions.Prune(ctx, s.cfg.KeepVersions); err != nil {
			return err
		}

		after(func(ctx context.Context) {
			s.current.Store(c)
			s.logger.Info("catalog published", slog.Int64("id", id), slog.String("version", c.Version()))

			if s.cache != nil {
				if err := s.cache.InvalidateCatalog(ctx); err != nil {
					s.logger.Warn("catalog cache invalidation failed", slog.Any("error", err))
				}
			}
			if s.events != nil {
				if err := s.events.PublishCatalogChanged(ctx, c.Version()); err != nil {
					s.logger.Warn("catalog change notification failed", slog.Any("error", err))
				}
			}
		})

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return c, nil
}

// Watch reloads the catalog whenever another instance publishes one. It
// blocks until ctx is done.
func (s *Service) Watch(ctx context.Context) error {
	if s.events == nil {
		<-ctx.Done()
		return nil
	}

	err := s.events.SubscribeCatalog(ctx, func(ctx context.Context, version string) {
		if version == s.Current().Version() {
			return
		}
		_ = s.Load(ctx)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("service.catalog.Watch: %w", err)
	}

	return nil
}
