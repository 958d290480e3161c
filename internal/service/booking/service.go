package booking

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kirinyoku/tourcart/internal/availability"
	"github.com/kirinyoku/tourcart/internal/cart"
	"github.com/kirinyoku/tourcart/internal/catalog"
	"github.com/kirinyoku/tourcart/internal/domain"
	redisrepo "github.com/kirinyoku/tourcart/internal/repository/redis"
	"github.com/kirinyoku/tourcart/internal/session"
)

const rateScope = "cart"

type CatalogSource interface {
	Current() *catalog.Catalog
}

type SnapshotStore interface {
	Load(ctx context.Context, sessionID string) ([]byte, bool, error)
	Save(ctx context.Context, sessionID string, snapshot []byte) error
	Delete(ctx context.Context, sessionID string) error
}

type Notifier interface {
	PublishCartChanged(ctx context.Context, sessionID string, version uint64, lines int) error
}

type Limiter interface {
	Allow(ctx context.Context, scope, id string) (redisrepo.Decision, error)
}

type EventSink interface {
	Publish(ctx context.Context, key string, event any) error
}

type Config struct {
	// IdleTTL is how long an unused session stays in memory. Its cart
	// survives in the snapshot store.
	IdleTTL time.Duration
}

// Deps are the collaborators of the service. Only Catalogs is required.
type Deps struct {
	Catalogs  CatalogSource
	Snapshots SnapshotStore
	Notifier  Notifier
	Limiter   Limiter
	Events    EventSink
	Logger    *slog.Logger
	Now       func() time.Time
}

// CartChangedEvent is emitted to the event sink after every cart change.
type CartChangedEvent struct {
	Type       string          `json:"type"`
	SessionID  string          `json:"sessionId"`
	Version    uint64          `json:"version"`
	Lines      int             `json:"lines"`
	TotalItems int             `json:"totalItems"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	OccurredAt time.Time       `json:"occurredAt"`
}

type entry struct {
	mu       sync.Mutex
	sess     *session.Session
	lastUsed time.Time
	evicted  bool
}

// Service keeps one session per session id. Calls for the same session are
// serialized; different sessions run in parallel.
type Service struct {
	cfg       Config
	catalogs  CatalogSource
	snapshots SnapshotStore
	notifier  Notifier
	limiter   Limiter
	events    EventSink
	logger    *slog.Logger
	now       func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry
}

func New(cfg Config, deps Deps) *Service {
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 30 * time.Minute
	}

	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	if deps.Now == nil {
		deps.Now = time.Now
	}

	return &Service{
		cfg:       cfg,
		catalogs:  deps.Catalogs,
		snapshots: deps.Snapshots,
		notifier:  deps.Notifier,
		limiter:   deps.Limiter,
		events:    deps.Events,
		logger:    deps.Logger,
		now:       deps.Now,
		sessions:  make(map[string]*entry),
	}
}

func validSessionID(id string) bool {
	if id == "" || len(id) > 128 {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '.', r == ':':
		default:
			return false
		}
	}
	return true
}

// acquire returns the session entry locked. The caller must unlock it.
func (s *Service) acquire(ctx context.Context, sessionID string) (*entry, error) {
	if !validSessionID(sessionID) {
		return nil, ErrInvalidSessionID
	}

	for {
		s.mu.Lock()
		e, ok := s.sessions[sessionID]
		if !ok {
			e = &entry{}
			s.sessions[sessionID] = e
		}
		s.mu.Unlock()

		e.mu.Lock()
		if e.evicted {
			e.mu.Unlock()
			continue
		}

		if e.sess == nil {
			e.sess = session.New(sessionID, s.catalogs.Current(), s.restore(ctx, sessionID))
		} else {
			e.sess.SetCatalog(s.catalogs.Current())
		}
		e.lastUsed = s.now()

		return e, nil
	}
}

func (s *Service) restore(ctx context.Context, sessionID string) *cart.Cart {
	if s.snapshots == nil {
		return cart.New()
	}

	data, ok, err := s.snapshots.Load(ctx, sessionID)
	if err != nil {
		s.logger.Warn("failed to load cart snapshot, starting with an empty cart",
			slog.String("session_id", sessionID),
			slog.Any("error", err),
		)
		return cart.New()
	}
	if !ok {
		return cart.New()
	}

	return cart.Restore(data, s.logger.With(slog.String("session_id", sessionID)))
}

func (s *Service) allow(ctx context.Context, sessionID string) error {
	if s.limiter == nil {
		return nil
	}

	d, err := s.limiter.Allow(ctx, rateScope, sessionID)
	if err != nil {
		// fail open
		s.logger.Warn("rate limiter unavailable", slog.Any("error", err))
		return nil
	}
	if !d.Allowed {
		return RateLimitedError{RetryAfter: d.RetryAfter}
	}

	return nil
}

// mutate runs fn against the session and persists the cart when fn changed
// it. The view reflects the cart after fn, also when fn failed.
func (s *Service) mutate(ctx context.Context, sessionID string, fn func(*session.Session) error) (CartView, error) {
	if !validSessionID(sessionID) {
		return CartView{}, ErrInvalidSessionID
	}

	if err := s.allow(ctx, sessionID); err != nil {
		return CartView{}, err
	}

	e, err := s.acquire(ctx, sessionID)
	if err != nil {
		return CartView{}, err
	}
	defer e.mu.Unlock()

	c := e.sess.Cart()
	before := c.Version()

	err = fn(e.sess)

	view := newCartView(sessionID, c)
	if c.Version() != before {
		s.persist(ctx, view, c)
	}

	return view, err
}

func (s *Service) persist(ctx context.Context, view CartView, c *cart.Cart) {
	log := s.logger.With(slog.String("session_id", view.SessionID))

	if s.snapshots != nil {
		var err error
		if view.ItemCount == 0 {
			err = s.snapshots.Delete(ctx, view.SessionID)
		} else {
			var snapshot []byte
			if snapshot, err = c.Snapshot(); err == nil {
				err = s.snapshots.Save(ctx, view.SessionID, snapshot)
			}
		}
		if err != nil {
			log.Error("failed to persist cart snapshot", slog.Any("error", err))
		}
	}

	if s.notifier != nil {
		if err := s.notifier.PublishCartChanged(ctx, view.SessionID, view.Version, view.ItemCount); err != nil {
			log.Warn("failed to publish cart change", slog.Any("error", err))
		}
	}

	if s.events != nil {
		ev := CartChangedEvent{
			Type:       "cart_changed",
			SessionID:  view.SessionID,
			Version:    view.Version,
			Lines:      view.ItemCount,
			TotalItems: view.TotalItems,
			TotalPrice: view.TotalPrice,
			OccurredAt: s.now().UTC(),
		}
		if err := s.events.Publish(ctx, view.SessionID, ev); err != nil {
			log.Warn("failed to emit cart event", slog.Any("error", err))
		}
	}
}

// Cart returns the current cart of the session.
func (s *Service) Cart(ctx context.Context, sessionID string) (CartView, error) {
	const op = "service.booking.Cart"

	e, err := s.acquire(ctx, sessionID)
	if err != nil {
		return CartView{}, fmt.Errorf("%s: %w", op, err)
	}
	defer e.mu.Unlock()

	return newCartView(sessionID, e.sess.Cart()), nil
}

// Add books req into the session cart.
//
// Parameters:
//   - ctx: request-scoped context.
//   - sessionID: the visitor session.
//   - req: experience, slot, guests and addons to book.
//
// Returns:
//   - MutationResult: the id of the line that holds the booking and the cart.
//   - error: a session validation error, ErrRateLimited or ErrInvalidSessionID.
func (s *Service) Add(ctx context.Context, sessionID string, req session.BookingRequest) (MutationResult, error) {
	const op = "service.booking.Add"

	var lineID uuid.UUID
	view, err := s.mutate(ctx, sessionID, func(sess *session.Session) error {
		var err error
		lineID, err = sess.Add(req)
		return err
	})
	if err != nil {
		return MutationResult{}, fmt.Errorf("%s: %w", op, err)
	}

	return MutationResult{LineID: lineID, Cart: view}, nil
}

// Update replaces the line at index with req. The edited line does not
// compete with itself for seats.
func (s *Service) Update(ctx context.Context, sessionID string, index int, req session.BookingRequest) (MutationResult, error) {
	const op = "service.booking.Update"

	var lineID uuid.UUID
	view, err := s.mutate(ctx, sessionID, func(sess *session.Session) error {
		if !inRange(sess, index) {
			return LineNotFoundError{Index: index}
		}
		var err error
		lineID, err = sess.Update(index, req)
		return err
	})
	if err != nil {
		return MutationResult{}, fmt.Errorf("%s: %w", op, err)
	}

	return MutationResult{LineID: lineID, Cart: view}, nil
}

func (s *Service) Remove(ctx context.Context, sessionID string, index int) (CartView, error) {
	const op = "service.booking.Remove"

	view, err := s.mutate(ctx, sessionID, func(sess *session.Session) error {
		if !sess.Remove(index) {
			return LineNotFoundError{Index: index}
		}
		return nil
	})
	if err != nil {
		return CartView{}, fmt.Errorf("%s: %w", op, err)
	}

	return view, nil
}

// SetQuantity overwrites the quantity of the line at index. A quantity of
// zero or less removes the line.
func (s *Service) SetQuantity(ctx context.Context, sessionID string, index, quantity int) (CartView, error) {
	const op = "service.booking.SetQuantity"

	view, err := s.mutate(ctx, sessionID, func(sess *session.Session) error {
		if !sess.SetQuantity(index, quantity) {
			return LineNotFoundError{Index: index}
		}
		return nil
	})
	if err != nil {
		return CartView{}, fmt.Errorf("%s: %w", op, err)
	}

	return view, nil
}

func (s *Service) Clear(ctx context.Context, sessionID string) (CartView, error) {
	const op = "service.booking.Clear"

	view, err := s.mutate(ctx, sessionID, func(sess *session.Session) error {
		sess.Clear()
		return nil
	})
	if err != nil {
		return CartView{}, fmt.Errorf("%s: %w", op, err)
	}

	return view, nil
}

func inRange(sess *session.Session, index int) bool {
	return index >= 0 && index < sess.Cart().CartItemCount()
}

func (s *Service) experience(expID string) (*domain.Experience, error) {
	e, ok := s.catalogs.Current().Experience(expID)
	if !ok {
		return nil, session.ErrExperienceNotFound
	}
	return e, nil
}

// Slots lists the decorated slots of an experience on date for a group of
// guests. Seats held in carts are not subtracted.
func (s *Service) Slots(ctx context.Context, expID, date string, guests int) ([]domain.DecoratedSlot, error) {
	const op = "service.booking.Slots"

	e, err := s.experience(expID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return availability.SlotsForDate(e, date, guests), nil
}

// Dates lists the bookable dates from from on. An empty from means today.
func (s *Service) Dates(ctx context.Context, expID, from string, guests int) ([]string, error) {
	const op = "service.booking.Dates"

	e, err := s.experience(expID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if from == "" {
		from = availability.Today(s.now())
	}

	return availability.AvailableDates(e, from, guests), nil
}

// CheckAvailability evaluates a slot against the seats already held by the
// session's cart. An empty sessionID checks against an empty cart.
func (s *Service) CheckAvailability(
	ctx context.Context,
	sessionID, expID, date, slotTime string,
	guests int,
	exclude *int,
) (domain.SlotAvailability, error) {
	const op = "service.booking.CheckAvailability"

	if _, err := s.experience(expID); err != nil {
		return domain.SlotAvailability{}, fmt.Errorf("%s: %w", op, err)
	}

	if sessionID == "" {
		sess := session.New("", s.catalogs.Current(), nil)
		return sess.CheckSlotAvailability(expID, date, slotTime, guests, exclude), nil
	}

	e, err := s.acquire(ctx, sessionID)
	if err != nil {
		return domain.SlotAvailability{}, fmt.Errorf("%s: %w", op, err)
	}
	defer e.mu.Unlock()

	return e.sess.CheckSlotAvailability(expID, date, slotTime, guests, exclude), nil
}

// Evict drops sessions idle for longer than IdleTTL from memory and returns
// how many were dropped. Busy sessions are skipped.
func (s *Service) Evict() int {
	cutoff := s.now().Add(-s.cfg.IdleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, e := range s.sessions {
		if !e.mu.TryLock() {
			continue
		}
		if e.lastUsed.Before(cutoff) {
			e.evicted = true
			delete(s.sessions, id)
			n++
		}
		e.mu.Unlock()
	}

	return n
}

// RunJanitor calls Evict every interval until ctx is done.
func (s *Service) RunJanitor(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Minute
	}

	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			if n := s.Evict(); n > 0 {
				s.logger.Debug("evicted idle sessions", slog.Int("count", n))
			}
		}
	}
}
