package booking

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kirinyoku/tourcart/internal/cart"
	"github.com/kirinyoku/tourcart/internal/domain"
	"github.com/kirinyoku/tourcart/internal/pricing"
)

type LineView struct {
	Index  int             `json:"index"`
	LineID uuid.UUID       `json:"lineId"`
	Total  decimal.Decimal `json:"total"`
}

// CartView is the read model of a session cart.
type CartView struct {
	SessionID  string            `json:"sessionId"`
	Version    uint64            `json:"version"`
	Items      []domain.CartItem `json:"items"`
	Lines      []LineView        `json:"lines"`
	TotalItems int               `json:"totalItems"`
	ItemCount  int               `json:"itemCount"`
	TotalPrice decimal.Decimal   `json:"totalPrice"`
}

// MutationResult is returned by add and edit. LineID is uuid.Nil when the
// request selected no guests and nothing changed.
type MutationResult struct {
	LineID uuid.UUID `json:"lineId"`
	Cart   CartView  `json:"cart"`
}

func newCartView(sessionID string, c *cart.Cart) CartView {
	items := c.Items()
	lines := make([]LineView, len(items))
	for i := range items {
		lines[i] = LineView{
			Index:  i,
			LineID: items[i].LineID,
			Total:  pricing.ItemTotal(&items[i]),
		}
	}

	return CartView{
		SessionID:  sessionID,
		Version:    c.Version(),
		Items:      items,
		Lines:      lines,
		TotalItems: c.TotalItems(),
		ItemCount:  c.CartItemCount(),
		TotalPrice: c.TotalPrice(),
	}
}
