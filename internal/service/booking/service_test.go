package booking

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirinyoku/tourcart/internal/catalog"
	"github.com/kirinyoku/tourcart/internal/domain"
	redisrepo "github.com/kirinyoku/tourcart/internal/repository/redis"
	"github.com/kirinyoku/tourcart/internal/session"
)

const testCatalog = `{
	"experiences": [
		{
			"id": "kayak", "slug": "kayak-tour", "title": "Kayak Tour", "price": 100,
			"categoryPrices": {"adults": 120, "children": 80},
			"addons": [{"title": "Lunch", "price": 10}],
			"guests": {"min": 1, "max": 6},
			"schedule": {"2030-05-01": [
				{"time": "10:00", "capacity": 5, "booked": 3},
				{"time": "09:00", "capacity": 10, "booked": 0}
			]}
		},
		{"id": "museum", "title": "Museum", "price": 30, "availableDates": ["2030-05-03", "2030-05-02"]}
	]
}`

// ==== fakes ====

type staticCatalog struct{ c *catalog.Catalog }

func (s staticCatalog) Current() *catalog.Catalog { return s.c }

type memSnapshots struct {
	mu      sync.Mutex
	data    map[string][]byte
	loadErr error
	saves   int
}

func newMemSnapshots() *memSnapshots {
	return &memSnapshots{data: make(map[string][]byte)}
}

func (m *memSnapshots) Load(ctx context.Context, id string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, false, m.loadErr
	}
	b, ok := m.data[id]
	return b, ok, nil
}

func (m *memSnapshots) Save(ctx context.Context, id string, b []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	m.data[id] = b
	return nil
}

func (m *memSnapshots) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, id)
	return nil
}

type recordingNotifier struct {
	versions []uint64
}

func (r *recordingNotifier) PublishCartChanged(ctx context.Context, id string, version uint64, lines int) error {
	r.versions = append(r.versions, version)
	return nil
}

type fixedLimiter struct {
	decision redisrepo.Decision
	err      error
}

func (f fixedLimiter) Allow(ctx context.Context, scope, id string) (redisrepo.Decision, error) {
	return f.decision, f.err
}

type failingSink struct{ calls int }

func (f *failingSink) Publish(ctx context.Context, key string, event any) error {
	f.calls++
	return errors.New("broker down")
}

type testEnv struct {
	svc       *Service
	snapshots *memSnapshots
	notifier  *recordingNotifier
	now       time.Time
}

func newTestBookingService(t *testing.T) *testEnv {
	t.Helper()

	data, err := catalog.Parse(strings.NewReader(testCatalog))
	require.NoError(t, err)

	env := &testEnv{
		snapshots: newMemSnapshots(),
		notifier:  &recordingNotifier{},
		now:       time.Date(2030, 5, 1, 8, 0, 0, 0, time.UTC),
	}
	env.svc = New(Config{IdleTTL: time.Minute}, Deps{
		Catalogs:  staticCatalog{c: catalog.New(data)},
		Snapshots: env.snapshots,
		Notifier:  env.notifier,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:       func() time.Time { return env.now },
	})

	return env
}

func kayak(adults, children int, addons ...session.AddonSelection) session.BookingRequest {
	return session.BookingRequest{
		ExperienceID: "kayak",
		Date:         "2030-05-01",
		Time:         "10:00",
		Guests:       domain.GuestCounts{Adults: adults, Children: children},
		Addons:       addons,
	}
}

// ==== mutations ====

func TestService_AddPersistsAndPrices(t *testing.T) {
	env := newTestBookingService(t)
	ctx := context.Background()

	res, err := env.svc.Add(ctx, "s1", kayak(2, 0, session.AddonSelection{Title: "Lunch", Quantity: 3}))
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, res.LineID)
	assert.Equal(t, 1, res.Cart.ItemCount)
	assert.Equal(t, 2, res.Cart.TotalItems)
	assert.Equal(t, "300", res.Cart.TotalPrice.String())
	require.Len(t, res.Cart.Lines, 1)
	assert.Equal(t, res.LineID, res.Cart.Lines[0].LineID)

	assert.Contains(t, env.snapshots.data, "s1")
	assert.Equal(t, []uint64{res.Cart.Version}, env.notifier.versions)
}

func TestService_AddRespectsSlotCapacity(t *testing.T) {
	env := newTestBookingService(t)
	ctx := context.Background()

	_, err := env.svc.Add(ctx, "s1", kayak(2, 0))
	require.NoError(t, err)

	_, err = env.svc.Add(ctx, "s1", kayak(1, 0))
	assert.ErrorIs(t, err, session.ErrSlotUnavailable)

	view, err := env.svc.Cart(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, view.TotalItems)
	assert.Len(t, env.notifier.versions, 1)
}

func TestService_ZeroGuestsIsSilentNoop(t *testing.T) {
	env := newTestBookingService(t)

	res, err := env.svc.Add(context.Background(), "s1", kayak(0, 0))
	require.NoError(t, err)

	assert.Equal(t, uuid.Nil, res.LineID)
	assert.Zero(t, res.Cart.ItemCount)
	assert.Zero(t, env.snapshots.saves)
	assert.Empty(t, env.notifier.versions)
}

func TestService_UpdateWithoutGuestsRemovesLine(t *testing.T) {
	env := newTestBookingService(t)
	ctx := context.Background()

	_, err := env.svc.Add(ctx, "s1", kayak(2, 0))
	require.NoError(t, err)
	require.Contains(t, env.snapshots.data, "s1")

	res, err := env.svc.Update(ctx, "s1", 0, kayak(0, 0))
	require.NoError(t, err)

	assert.Equal(t, uuid.Nil, res.LineID)
	assert.Zero(t, res.Cart.ItemCount)
	assert.NotContains(t, env.snapshots.data, "s1")
	assert.Len(t, env.notifier.versions, 2)
}

func TestService_UpdateExcludesOwnLine(t *testing.T) {
	env := newTestBookingService(t)
	ctx := context.Background()

	_, err := env.svc.Add(ctx, "s1", kayak(2, 0))
	require.NoError(t, err)

	res, err := env.svc.Update(ctx, "s1", 0, kayak(1, 1))
	require.NoError(t, err)

	require.Len(t, res.Cart.Items, 1)
	assert.Equal(t, &domain.GuestCounts{Adults: 1, Children: 1}, res.Cart.Items[0].GuestCounts)
}

func TestService_LineNotFound(t *testing.T) {
	env := newTestBookingService(t)
	ctx := context.Background()

	_, err := env.svc.Remove(ctx, "s1", 0)
	var lnf LineNotFoundError
	require.ErrorAs(t, err, &lnf)
	assert.Equal(t, 0, lnf.Index)

	_, err = env.svc.Update(ctx, "s1", 3, kayak(1, 0))
	assert.ErrorAs(t, err, &lnf)

	_, err = env.svc.SetQuantity(ctx, "s1", -1, 2)
	assert.ErrorAs(t, err, &lnf)
}

func TestService_SetQuantityAndClear(t *testing.T) {
	env := newTestBookingService(t)
	ctx := context.Background()

	_, err := env.svc.Add(ctx, "s1", kayak(2, 0))
	require.NoError(t, err)

	view, err := env.svc.SetQuantity(ctx, "s1", 0, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, view.TotalItems)

	view, err = env.svc.Clear(ctx, "s1")
	require.NoError(t, err)
	assert.Zero(t, view.ItemCount)
	assert.NotContains(t, env.snapshots.data, "s1")
}

func TestService_InvalidSessionID(t *testing.T) {
	env := newTestBookingService(t)

	for _, id := range []string{"", "has space", strings.Repeat("x", 129)} {
		_, err := env.svc.Cart(context.Background(), id)
		assert.ErrorIs(t, err, ErrInvalidSessionID, id)
	}
}

func TestService_RateLimited(t *testing.T) {
	env := newTestBookingService(t)
	env.svc.limiter = fixedLimiter{decision: redisrepo.Decision{Allowed: false, RetryAfter: 2 * time.Second}}

	_, err := env.svc.Add(context.Background(), "s1", kayak(1, 0))

	require.ErrorIs(t, err, ErrRateLimited)
	var rl RateLimitedError
	require.ErrorAs(t, err, &rl)
	assert.Equal(t, 2*time.Second, rl.RetryAfter)
}

func TestService_RateLimiterErrorFailsOpen(t *testing.T) {
	env := newTestBookingService(t)
	env.svc.limiter = fixedLimiter{err: errors.New("redis down")}

	_, err := env.svc.Add(context.Background(), "s1", kayak(1, 0))
	assert.NoError(t, err)
}

func TestService_SinkFailureIsNotReturned(t *testing.T) {
	env := newTestBookingService(t)
	sink := &failingSink{}
	env.svc.events = sink

	_, err := env.svc.Add(context.Background(), "s1", kayak(1, 0))

	assert.NoError(t, err)
	assert.Equal(t, 1, sink.calls)
}

// ==== restore and eviction ====

func TestService_RestoresCartAfterEviction(t *testing.T) {
	env := newTestBookingService(t)
	ctx := context.Background()

	res, err := env.svc.Add(ctx, "s1", kayak(2, 0))
	require.NoError(t, err)

	env.now = env.now.Add(2 * time.Minute)
	assert.Equal(t, 1, env.svc.Evict())

	view, err := env.svc.Cart(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, res.LineID, view.Items[0].LineID)
}

func TestService_SnapshotLoadFailureStartsEmpty(t *testing.T) {
	env := newTestBookingService(t)
	env.snapshots.loadErr = errors.New("redis down")

	view, err := env.svc.Cart(context.Background(), "s1")

	require.NoError(t, err)
	assert.Zero(t, view.ItemCount)
}

func TestService_ConcurrentAddsRespectCapacity(t *testing.T) {
	env := newTestBookingService(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = env.svc.Add(ctx, "s1", kayak(1, 0))
		}()
	}
	wg.Wait()

	view, err := env.svc.Cart(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, view.TotalItems)
}

// ==== reads ====

func TestService_Slots(t *testing.T) {
	env := newTestBookingService(t)

	slots, err := env.svc.Slots(context.Background(), "kayak-tour", "2030-05-01", 3)
	require.NoError(t, err)
	require.Len(t, slots, 2)

	assert.Equal(t, "09:00", slots[0].Time)
	assert.Equal(t, domain.SlotAvailable, slots[0].Status)
	assert.Equal(t, "10:00", slots[1].Time)
	assert.Equal(t, domain.SlotTooSmall, slots[1].Status)

	_, err = env.svc.Slots(context.Background(), "nope", "2030-05-01", 1)
	assert.ErrorIs(t, err, session.ErrExperienceNotFound)
}

func TestService_DatesDefaultToToday(t *testing.T) {
	env := newTestBookingService(t)

	dates, err := env.svc.Dates(context.Background(), "kayak", "", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"2030-05-01"}, dates)
}

func TestService_CheckAvailability(t *testing.T) {
	env := newTestBookingService(t)
	ctx := context.Background()

	_, err := env.svc.Add(ctx, "s1", kayak(2, 0))
	require.NoError(t, err)

	got, err := env.svc.CheckAvailability(ctx, "s1", "kayak", "2030-05-01", "10:00", 1, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.SlotAvailability{Remaining: 0, IsFull: true, HasEnoughSpace: false}, got)

	idx := 0
	got, err = env.svc.CheckAvailability(ctx, "s1", "kayak", "2030-05-01", "10:00", 2, &idx)
	require.NoError(t, err)
	assert.Equal(t, domain.SlotAvailability{Remaining: 2, IsFull: false, HasEnoughSpace: true}, got)

	got, err = env.svc.CheckAvailability(ctx, "", "kayak", "2030-05-01", "10:00", 2, nil)
	require.NoError(t, err)
	assert.True(t, got.HasEnoughSpace)
}
