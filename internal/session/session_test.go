package session

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirinyoku/tourcart/internal/cart"
	"github.com/kirinyoku/tourcart/internal/catalog"
	"github.com/kirinyoku/tourcart/internal/domain"
)

const doc = `{
	"experiences": [
		{
			"id": "kayak", "title": "Kayak", "price": 100,
			"addons": [{"slug": "lunch", "title": "Lunch", "price": 10}],
			"guests": {"min": 2, "max": 6},
			"allowedCategories": {"adults": true, "children": true, "seniors": false},
			"schedule": {"2030-05-01": [
				{"time": "10:00", "capacity": 5, "booked": 3},
				{"time": "12:00", "capacity": 20, "booked": 0}
			]}
		},
		{"id": "museum", "title": "Museum", "price": 30, "availableDates": ["2030-05-02"]},
		{"id": "walk", "title": "Walk", "price": 15}
	]
}`

func newTestSession(t *testing.T) *Session {
	t.Helper()
	data, err := catalog.Parse(strings.NewReader(doc))
	require.NoError(t, err)
	return New("s1", catalog.New(data), nil)
}

func kayakAt(slotTime string, adults, children int) BookingRequest {
	return BookingRequest{
		ExperienceID: "kayak",
		Date:         "2030-05-01",
		Time:         slotTime,
		Guests:       domain.GuestCounts{Adults: adults, Children: children},
	}
}

// ==== Add ====

func TestAdd_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  BookingRequest
		want error
	}{
		{"unknown experience", BookingRequest{ExperienceID: "nope", Guests: domain.GuestCounts{Adults: 1}}, ErrExperienceNotFound},
		{"negative count", BookingRequest{ExperienceID: "kayak", Date: "2030-05-01", Time: "12:00", Guests: domain.GuestCounts{Adults: 3, Children: -1}}, ErrGuestBounds},
		{"category not allowed", BookingRequest{ExperienceID: "kayak", Date: "2030-05-01", Time: "12:00", Guests: domain.GuestCounts{Adults: 2, Seniors: 1}}, ErrCategoryNotAllowed},
		{"below minimum", kayakAt("12:00", 1, 0), ErrGuestBounds},
		{"above maximum", kayakAt("12:00", 5, 2), ErrGuestBounds},
		{"unknown addon", BookingRequest{ExperienceID: "kayak", Date: "2030-05-01", Time: "12:00", Guests: domain.GuestCounts{Adults: 2}, Addons: []AddonSelection{{Title: "Wine"}}}, ErrUnknownAddon},
		{"missing time", kayakAt("", 2, 0), ErrTimeRequired},
		{"slot too small", kayakAt("10:00", 3, 0), ErrSlotUnavailable},
		{"unknown slot", kayakAt("09:00", 2, 0), ErrSlotUnavailable},
		{"date not offered", BookingRequest{ExperienceID: "museum", Date: "2030-05-03", Guests: domain.GuestCounts{Adults: 1}}, ErrDateUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(t)

			_, err := s.Add(tt.req)

			assert.ErrorIs(t, err, tt.want)
			assert.Zero(t, s.Cart().CartItemCount())
		})
	}
}

func TestAdd_ZeroGuestsIsNoop(t *testing.T) {
	s := newTestSession(t)

	id, err := s.Add(kayakAt("10:00", 0, 0))

	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, id)
	assert.Zero(t, s.Cart().Version())
}

func TestAdd_ResolvesAddonPriceFromCatalog(t *testing.T) {
	s := newTestSession(t)
	req := kayakAt("12:00", 2, 0)
	req.Addons = []AddonSelection{{Title: "Lunch", Quantity: 2}}

	id, err := s.Add(req)
	require.NoError(t, err)

	it, ok := s.Cart().Item(id)
	require.True(t, ok)
	require.Len(t, it.SelectedAddons, 1)
	assert.Equal(t, "lunch", it.SelectedAddons[0].Slug)
	assert.Equal(t, "10", it.SelectedAddons[0].Price.String())
	assert.Equal(t, 2, it.SelectedAddons[0].Quantity)
}

func TestAdd_NoScheduleOrDates(t *testing.T) {
	s := newTestSession(t)

	_, err := s.Add(BookingRequest{ExperienceID: "walk", Guests: domain.GuestCounts{Adults: 4, Seniors: 1}})
	require.NoError(t, err)

	_, err = s.Add(BookingRequest{ExperienceID: "museum", Date: "2030-05-02", Guests: domain.GuestCounts{Adults: 1}})
	require.NoError(t, err)

	assert.Equal(t, 2, s.Cart().CartItemCount())
}

// ==== capacity against the cart ====

func TestCapacityCountsCartLines(t *testing.T) {
	s := newTestSession(t)

	_, err := s.Add(kayakAt("10:00", 2, 0))
	require.NoError(t, err)

	got := s.CheckSlotAvailability("kayak", "2030-05-01", "10:00", 1, nil)
	assert.Equal(t, domain.SlotAvailability{Remaining: 0, IsFull: true}, got)

	idx := 0
	got = s.CheckSlotAvailability("kayak", "2030-05-01", "10:00", 2, &idx)
	assert.Equal(t, domain.SlotAvailability{Remaining: 2, HasEnoughSpace: true}, got)

	_, err = s.Add(kayakAt("10:00", 2, 0))
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

// ==== Update ====

func TestUpdate_ExcludesOwnSeats(t *testing.T) {
	s := newTestSession(t)
	id, err := s.Add(kayakAt("10:00", 2, 0))
	require.NoError(t, err)

	got, err := s.Update(0, kayakAt("10:00", 1, 1))
	require.NoError(t, err)

	assert.Equal(t, id, got)
	it, _ := s.Cart().Item(id)
	assert.Equal(t, &domain.GuestCounts{Adults: 1, Children: 1}, it.GuestCounts)
}

func TestUpdate_ValidationLeavesLine(t *testing.T) {
	s := newTestSession(t)
	_, err := s.Add(kayakAt("10:00", 2, 0))
	require.NoError(t, err)
	v := s.Cart().Version()

	_, err = s.Update(0, kayakAt("10:00", 3, 0))
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	_, err = s.Update(0, BookingRequest{ExperienceID: "kayak", Date: "2030-05-01", Time: "10:00", Guests: domain.GuestCounts{Adults: 1, Children: -1}})
	assert.ErrorIs(t, err, ErrGuestBounds)

	assert.Equal(t, v, s.Cart().Version())
	assert.Equal(t, 1, s.Cart().CartItemCount())
}

func TestUpdate_ZeroGuestsRemovesLine(t *testing.T) {
	s := newTestSession(t)
	_, err := s.Add(kayakAt("10:00", 2, 0))
	require.NoError(t, err)

	id, err := s.Update(0, kayakAt("10:00", 0, 0))

	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, id)
	assert.Zero(t, s.Cart().CartItemCount())
}

func TestUpdate_OutOfRange(t *testing.T) {
	s := newTestSession(t)

	id, err := s.Update(4, kayakAt("12:00", 2, 0))

	assert.NoError(t, err)
	assert.Equal(t, uuid.Nil, id)
}

// ==== misc ====

func TestRemoveQuantityClear(t *testing.T) {
	s := newTestSession(t)
	_, err := s.Add(kayakAt("12:00", 2, 0))
	require.NoError(t, err)
	_, err = s.Add(BookingRequest{ExperienceID: "walk", Guests: domain.GuestCounts{Adults: 1}})
	require.NoError(t, err)

	assert.True(t, s.SetQuantity(1, 3))
	assert.Equal(t, 5, s.Cart().TotalItems())

	assert.True(t, s.Remove(0))
	assert.False(t, s.Remove(5))

	s.Clear()
	assert.Zero(t, s.Cart().CartItemCount())
}

func TestSlotHelpers(t *testing.T) {
	s := newTestSession(t)

	assert.Len(t, s.SlotsForDate("kayak", "2030-05-01", 1), 2)
	assert.True(t, s.HasAvailableSlotForDate("kayak", "2030-05-01", 6))
	assert.Equal(t, []string{"2030-05-01"}, s.AvailableDates("kayak", "2030-01-01", 1))
	assert.Empty(t, s.SlotsForDate("nope", "2030-05-01", 1))
}

func TestNilCatalogSession(t *testing.T) {
	s := New("s2", nil, cart.New())

	_, err := s.Add(kayakAt("10:00", 2, 0))
	assert.ErrorIs(t, err, ErrExperienceNotFound)
}
