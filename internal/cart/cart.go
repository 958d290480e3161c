// Package cart owns the ordered list of booking lines of one session.
//
// Lines are addressed by position, matching how the front-end refers to
// them, but every line also carries a durable LineID assigned at creation.
// Index based operations resolve to a line once and never hold the index
// across a mutation.
package cart

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sort"

	"github.com/google/uuid"
	"github.com/kirinyoku/tourcart/internal/domain"
	"github.com/kirinyoku/tourcart/internal/pricing"
	"github.com/shopspring/decimal"
)

// AddParams carries the booking and guest data of an add or edit.
type AddParams struct {
	Date     string
	Time     string
	Adults   int
	Children int
	Seniors  int
}

func (p AddParams) guests() domain.GuestCounts {
	return domain.GuestCounts{Adults: p.Adults, Children: p.Children, Seniors: p.Seniors}
}

// valid rejects empty and negative guest selections.
func (p AddParams) valid() bool {
	if p.Adults < 0 || p.Children < 0 || p.Seniors < 0 {
		return false
	}
	return p.guests().Total() > 0
}

type Option func(*Cart)

// WithIDGenerator replaces the line id source.
func WithIDGenerator(fn func() uuid.UUID) Option {
	return func(c *Cart) {
		c.newID = fn
	}
}

type Cart struct {
	items   []domain.CartItem
	version uint64
	newID   func() uuid.UUID
}

func New(opts ...Option) *Cart {
	c := &Cart{
		items: make([]domain.CartItem, 0),
		newID: uuid.New,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Version increases on every change to the cart. Rejected and no-op calls
// leave it untouched.
func (c *Cart) Version() uint64 {
	return c.version
}

func (c *Cart) touch() {
	c.version++
}

// AddToCart adds a booking line or merges it into an existing line with the
// same experience, date, time and set of addon titles. A selection with no
// guests is ignored. It returns the id of the line that absorbed the booking.
func (c *Cart) AddToCart(e *domain.Experience, addons []domain.CartAddon, p AddParams) (uuid.UUID, bool) {
	if e == nil || !p.valid() {
		return uuid.Nil, false
	}
	return c.add(e, addons, p, uuid.Nil), true
}

func (c *Cart) add(e *domain.Experience, addons []domain.CartAddon, p AddParams, lineID uuid.UUID) uuid.UUID {
	titles := titleSet(addons)

	for i := range c.items {
		it := &c.items[i]
		if !sameBooking(it, e.ID, p.Date, p.Time, titles) {
			continue
		}

		if it.GuestCounts == nil {
			it.GuestCounts = &domain.GuestCounts{Adults: it.Quantity}
		}
		it.GuestCounts.Adults += p.Adults
		it.GuestCounts.Children += p.Children
		it.GuestCounts.Seniors += p.Seniors
		it.Quantity = it.GuestCounts.Total()
		it.SelectedAddons = mergeAddons(it.SelectedAddons, addons)

		c.touch()
		return it.LineID
	}

	if lineID == uuid.Nil {
		lineID = c.newID()
	}

	guests := p.guests()
	item := domain.CartItem{
		LineID:         lineID,
		ExperienceID:   e.ID,
		Title:          e.Title,
		Price:          e.Price,
		Image:          e.Image,
		Duration:       e.Duration,
		Owner:          e.Owner,
		Description:    e.Description,
		SelectedAddons: mergeAddons(nil, addons),
		Quantity:       guests.Total(),
		BookingDate:    p.Date,
		BookingTime:    p.Time,
		GuestCounts:    &guests,
		CategoryPrices: copyPrices(e.CategoryPrices),
	}

	c.items = append(c.items, item)
	c.touch()

	return lineID
}

func sameBooking(it *domain.CartItem, expID, date, slotTime string, titles []string) bool {
	return it.ExperienceID == expID &&
		it.BookingDate == date &&
		it.BookingTime == slotTime &&
		slices.Equal(titleSet(it.SelectedAddons), titles)
}

// titleSet normalizes addons to their sorted, de-duplicated titles.
func titleSet(addons []domain.CartAddon) []string {
	titles := make([]string, 0, len(addons))
	for _, a := range addons {
		titles = append(titles, a.Title)
	}
	sort.Strings(titles)
	return slices.Compact(titles)
}

func mergeAddons(existing, incoming []domain.CartAddon) []domain.CartAddon {
	out := make([]domain.CartAddon, 0, len(existing)+len(incoming))
	out = append(out, existing...)

	for _, in := range incoming {
		idx := slices.IndexFunc(out, func(a domain.CartAddon) bool { return a.Title == in.Title })
		if idx >= 0 {
			out[idx].Quantity = out[idx].EffectiveQuantity() + in.EffectiveQuantity()
			continue
		}
		in.Quantity = in.EffectiveQuantity()
		out = append(out, in)
	}

	return out
}

func copyPrices(p domain.CategoryPrices) domain.CategoryPrices {
	if len(p) == 0 {
		return nil
	}
	out := make(domain.CategoryPrices, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// UpdateCartItem replaces the line at index with a new booking. The line is
// removed and the booking added again, so an edit whose merge key matches
// another line is merged into that line. A line that is not merged keeps its
// id but moves to the end of the cart. An edit without guests only removes
// the line and returns uuid.Nil.
func (c *Cart) UpdateCartItem(e *domain.Experience, index int, addons []domain.CartAddon, p AddParams) (uuid.UUID, bool) {
	if e == nil || !c.inRange(index) {
		return uuid.Nil, false
	}

	lineID := c.items[index].LineID
	c.removeAt(index)

	if !p.valid() {
		return uuid.Nil, true
	}

	return c.add(e, addons, p, lineID), true
}

func (c *Cart) UpdateByID(e *domain.Experience, lineID uuid.UUID, addons []domain.CartAddon, p AddParams) (uuid.UUID, bool) {
	return c.UpdateCartItem(e, c.Index(lineID), addons, p)
}

func (c *Cart) RemoveFromCart(index int) bool {
	if !c.inRange(index) {
		return false
	}
	c.removeAt(index)
	return true
}

func (c *Cart) RemoveByID(lineID uuid.UUID) bool {
	return c.RemoveFromCart(c.Index(lineID))
}

func (c *Cart) removeAt(index int) {
	c.items = slices.Delete(c.items, index, index+1)
	c.touch()
}

// UpdateQuantity overwrites the line's quantity, removing the line when
// quantity is not positive. Guest counts are left as they are.
func (c *Cart) UpdateQuantity(index, quantity int) bool {
	if !c.inRange(index) {
		return false
	}

	if quantity <= 0 {
		c.removeAt(index)
		return true
	}

	if c.items[index].Quantity == quantity {
		return true
	}
	c.items[index].Quantity = quantity
	c.touch()

	return true
}

func (c *Cart) UpdateQuantityByID(lineID uuid.UUID, quantity int) bool {
	return c.UpdateQuantity(c.Index(lineID), quantity)
}

func (c *Cart) ClearCart() {
	if len(c.items) == 0 {
		return
	}
	c.items = make([]domain.CartItem, 0)
	c.touch()
}

func (c *Cart) inRange(index int) bool {
	return index >= 0 && index < len(c.items)
}

// Index returns the current position of the line, or -1.
func (c *Cart) Index(lineID uuid.UUID) int {
	if lineID == uuid.Nil {
		return -1
	}
	return slices.IndexFunc(c.items, func(it domain.CartItem) bool { return it.LineID == lineID })
}

func (c *Cart) Item(lineID uuid.UUID) (domain.CartItem, bool) {
	idx := c.Index(lineID)
	if idx < 0 {
		return domain.CartItem{}, false
	}
	return c.items[idx].Clone(), true
}

// Items returns a deep copy of the lines in cart order.
func (c *Cart) Items() []domain.CartItem {
	out := make([]domain.CartItem, len(c.items))
	for i, it := range c.items {
		out[i] = it.Clone()
	}
	return out
}

// TotalItems sums the quantity of every line.
func (c *Cart) TotalItems() int {
	total := 0
	for _, it := range c.items {
		total += it.Quantity
	}
	return total
}

func (c *Cart) CartItemCount() int {
	return len(c.items)
}

func (c *Cart) TotalPrice() decimal.Decimal {
	return pricing.CartTotal(c.items)
}

// Snapshot encodes the lines as the JSON array kept in client storage.
func (c *Cart) Snapshot() ([]byte, error) {
	const op = "cart.Cart.Snapshot"

	b, err := json.Marshal(c.items)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return b, nil
}

// Restore rebuilds a cart from a snapshot. An empty snapshot gives an empty
// cart; a malformed one is logged and also gives an empty cart. Lines
// without a line id get one, lines without guests are dropped.
func Restore(data []byte, logger *slog.Logger, opts ...Option) *Cart {
	c := New(opts...)
	if len(data) == 0 {
		return c
	}

	var items []domain.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		if logger != nil {
			logger.Warn("failed to parse cart snapshot, starting with an empty cart", "error", err)
		}
		return c
	}

	seen := make(map[uuid.UUID]struct{}, len(items))
	for _, it := range items {
		if it.ExperienceID == "" || it.Guests() < 1 {
			if logger != nil {
				logger.Warn("dropping invalid cart line from snapshot", "experience_id", it.ExperienceID)
			}
			continue
		}
		if _, dup := seen[it.LineID]; dup || it.LineID == uuid.Nil {
			it.LineID = c.newID()
		}
		seen[it.LineID] = struct{}{}
		if it.SelectedAddons == nil {
			it.SelectedAddons = make([]domain.CartAddon, 0)
		}
		c.items = append(c.items, it)
	}

	return c
}
