// Package session binds one catalog snapshot and one cart into the context
// object every booking operation runs against.
package session

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/kirinyoku/tourcart/internal/availability"
	"github.com/kirinyoku/tourcart/internal/cart"
	"github.com/kirinyoku/tourcart/internal/catalog"
	"github.com/kirinyoku/tourcart/internal/domain"
)

// AddonSelection is an addon picked by the visitor. Price is resolved from
// the catalog by title.
type AddonSelection struct {
	Title    string
	Quantity int
}

type BookingRequest struct {
	ExperienceID string
	Date         string
	Time         string
	Guests       domain.GuestCounts
	Addons       []AddonSelection
}

func (r BookingRequest) params() cart.AddParams {
	return cart.AddParams{
		Date:     r.Date,
		Time:     r.Time,
		Adults:   r.Guests.Adults,
		Children: r.Guests.Children,
		Seniors:  r.Guests.Seniors,
	}
}

type Session struct {
	id      string
	catalog *catalog.Catalog
	cart    *cart.Cart
}

// New creates a session. A nil catalog behaves as an empty one and a nil
// cart starts empty.
func New(id string, c *catalog.Catalog, crt *cart.Cart) *Session {
	if crt == nil {
		crt = cart.New()
	}
	return &Session{id: id, catalog: c, cart: crt}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Catalog() *catalog.Catalog {
	return s.catalog
}

func (s *Session) Cart() *cart.Cart {
	return s.cart
}

// SetCatalog rebinds the session to a reloaded catalog. Existing lines keep
// the prices captured when they were added.
func (s *Session) SetCatalog(c *catalog.Catalog) {
	s.catalog = c
}

func (s *Session) SlotsForDate(expID, date string, guests int) []domain.DecoratedSlot {
	e, _ := s.catalog.Experience(expID)
	return availability.SlotsForDate(e, date, guests)
}

func (s *Session) HasAvailableSlotForDate(expID, date string, guests int) bool {
	e, _ := s.catalog.Experience(expID)
	return availability.HasAvailableSlotForDate(e, date, guests)
}

func (s *Session) AvailableDates(expID, from string, guests int) []string {
	e, _ := s.catalog.Experience(expID)
	return availability.AvailableDates(e, from, guests)
}

// CheckSlotAvailability evaluates the slot against this session's cart.
func (s *Session) CheckSlotAvailability(expID, date, slotTime string, guests int, exclude *int) domain.SlotAvailability {
	e, _ := s.catalog.Experience(expID)
	return availability.CheckSlotAvailability(e, date, slotTime, guests, s.cart.Items(), exclude)
}

// Add validates req against the catalog and the slot capacity and adds it to
// the cart. A request without guests is accepted and changes nothing.
func (s *Session) Add(req BookingRequest) (uuid.UUID, error) {
	const op = "session.Session.Add"

	e, addons, err := s.validate(req, nil)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	id, _ := s.cart.AddToCart(e, addons, req.params())

	return id, nil
}

// Update replaces the line at index. Its own seats do not count against the
// slot while the edit is checked. An out of range index changes nothing and
// an edit without guests removes the line.
func (s *Session) Update(index int, req BookingRequest) (uuid.UUID, error) {
	const op = "session.Session.Update"

	if index < 0 || index >= s.cart.CartItemCount() {
		return uuid.Nil, nil
	}

	e, addons, err := s.validate(req, &index)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	id, _ := s.cart.UpdateCartItem(e, index, addons, req.params())

	return id, nil
}

func (s *Session) Remove(index int) bool {
	return s.cart.RemoveFromCart(index)
}

func (s *Session) SetQuantity(index, quantity int) bool {
	return s.cart.UpdateQuantity(index, quantity)
}

func (s *Session) Clear() {
	s.cart.ClearCart()
}

// validate stops after the experience and guest sign checks when the request
// selects no guests. The cart treats such a request as adding nothing.
func (s *Session) validate(req BookingRequest, exclude *int) (*domain.Experience, []domain.CartAddon, error) {
	e, ok := s.catalog.Experience(req.ExperienceID)
	if !ok {
		return nil, nil, ErrExperienceNotFound
	}

	for _, c := range domain.Categories {
		if req.Guests.Get(c) < 0 {
			return nil, nil, ErrGuestBounds
		}
	}

	total := req.Guests.Total()
	if total == 0 {
		return e, nil, nil
	}

	for _, c := range domain.Categories {
		if req.Guests.Get(c) > 0 && !e.AllowedCategories.Allows(c) {
			return nil, nil, fmt.Errorf("%w: %s", ErrCategoryNotAllowed, c)
		}
	}

	if (e.GuestBounds.Min > 0 && total < e.GuestBounds.Min) ||
		(e.GuestBounds.Max > 0 && total > e.GuestBounds.Max) {
		return nil, nil, ErrGuestBounds
	}

	addons, err := resolveAddons(e, req.Addons)
	if err != nil {
		return nil, nil, err
	}

	if len(e.Schedule) > 0 {
		if req.Date == "" || req.Time == "" {
			return nil, nil, ErrTimeRequired
		}
		avail := availability.CheckSlotAvailability(e, req.Date, req.Time, total, s.cart.Items(), exclude)
		if !avail.HasEnoughSpace {
			return nil, nil, ErrSlotUnavailable
		}
	} else if len(e.AvailableDates) > 0 && !slices.Contains(e.AvailableDates, req.Date) {
		return nil, nil, ErrDateUnavailable
	}

	return e, addons, nil
}

func resolveAddons(e *domain.Experience, sel []AddonSelection) ([]domain.CartAddon, error) {
	out := make([]domain.CartAddon, 0, len(sel))
	for _, a := range sel {
		addon, ok := e.AddonByTitle(a.Title)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownAddon, a.Title)
		}
		out = append(out, domain.CartAddon{
			Slug:     addon.Slug,
			Title:    addon.Title,
			Price:    addon.Price,
			Quantity: a.Quantity,
		})
	}
	return out, nil
}
