// Package pricing resolves unit prices and line totals.
//
// Addons are priced per guest: a line's addon total is the sum of
// price × quantity over its addons, multiplied by the line's guest count.
package pricing

import (
	"github.com/kirinyoku/tourcart/internal/domain"
	"github.com/shopspring/decimal"
)

// UnitPrice returns the experience's price for one guest of category c, or
// zero for a nil experience.
func UnitPrice(e *domain.Experience, c domain.Category) decimal.Decimal {
	if e == nil {
		return decimal.Zero
	}
	return resolve(e.CategoryPrices, e.Price, c)
}

// SnapshotUnitPrice is UnitPrice over the prices captured on the cart line.
func SnapshotUnitPrice(item *domain.CartItem, c domain.Category) decimal.Decimal {
	if item == nil {
		return decimal.Zero
	}
	return resolve(item.CategoryPrices, item.Price, c)
}

func resolve(prices domain.CategoryPrices, base decimal.Decimal, c domain.Category) decimal.Decimal {
	if p, ok := prices[c]; ok {
		return p
	}
	return base
}

func LineAddonsTotal(addons []domain.CartAddon) decimal.Decimal {
	total := decimal.Zero
	for _, a := range addons {
		total = total.Add(a.Price.Mul(decimal.NewFromInt(int64(a.EffectiveQuantity()))))
	}
	return total
}

// guestCounts falls back to pricing every seat as an adult for lines that
// predate per-category counts.
func guestCounts(item *domain.CartItem) domain.GuestCounts {
	if item.GuestCounts != nil {
		return *item.GuestCounts
	}
	return domain.GuestCounts{Adults: item.Quantity}
}

func GuestsTotal(item *domain.CartItem) decimal.Decimal {
	if item == nil {
		return decimal.Zero
	}
	gc := guestCounts(item)

	total := decimal.Zero
	for _, c := range domain.Categories {
		n := gc.Get(c)
		if n == 0 {
			continue
		}
		total = total.Add(SnapshotUnitPrice(item, c).Mul(decimal.NewFromInt(int64(n))))
	}
	return total
}

func AddonsTotal(item *domain.CartItem) decimal.Decimal {
	if item == nil {
		return decimal.Zero
	}
	guests := guestCounts(item).Total()
	return LineAddonsTotal(item.SelectedAddons).Mul(decimal.NewFromInt(int64(guests)))
}

func ItemTotal(item *domain.CartItem) decimal.Decimal {
	if item == nil {
		return decimal.Zero
	}
	return GuestsTotal(item).Add(AddonsTotal(item))
}

func CartTotal(items []domain.CartItem) decimal.Decimal {
	total := decimal.Zero
	for i := range items {
		total = total.Add(ItemTotal(&items[i]))
	}
	return total
}
