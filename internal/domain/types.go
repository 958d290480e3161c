package domain

import (
	"bytes"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Category string

const (
	CategoryAdults   Category = "adults"
	CategoryChildren Category = "children"
	CategorySeniors  Category = "seniors"
)

// Categories lists every guest category in display order.
var Categories = []Category{CategoryAdults, CategoryChildren, CategorySeniors}

// CategoryPrices overrides the base price per guest category. A missing key
// means the base price applies.
type CategoryPrices map[Category]decimal.Decimal

type GuestCounts struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
	Seniors  int `json:"seniors"`
}

func (g GuestCounts) Total() int {
	return g.Adults + g.Children + g.Seniors
}

func (g GuestCounts) Get(c Category) int {
	switch c {
	case CategoryAdults:
		return g.Adults
	case CategoryChildren:
		return g.Children
	case CategorySeniors:
		return g.Seniors
	default:
		return 0
	}
}

type AllowedCategories struct {
	Adults   bool `json:"adults"`
	Children bool `json:"children"`
	Seniors  bool `json:"seniors"`
}

func (a *AllowedCategories) Allows(c Category) bool {
	if a == nil {
		return true
	}

	switch c {
	case CategoryAdults:
		return a.Adults
	case CategoryChildren:
		return a.Children
	case CategorySeniors:
		return a.Seniors
	default:
		return false
	}
}

// GuestBounds limits the group size of a booking. Zero disables a bound.
type GuestBounds struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

type TimeSlot struct {
	Time     string `json:"time"`
	Capacity int    `json:"capacity"`
	Booked   int    `json:"booked"`
}

// Schedule maps an ISO date (YYYY-MM-DD) to the slots offered that day.
type Schedule map[string][]TimeSlot

type Addon struct {
	Slug  string          `json:"slug,omitempty"`
	Title string          `json:"title"`
	Price decimal.Decimal `json:"price"`
}

// ExperienceAddon is an addon offered by an experience. Older catalogs list
// addons as bare slugs; those carry only Slug until the catalog resolves them.
type ExperienceAddon struct {
	Addon
	Ref bool `json:"-"`
}

func (a *ExperienceAddon) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var slug string
		if err := json.Unmarshal(b, &slug); err != nil {
			return err
		}
		*a = ExperienceAddon{Addon: Addon{Slug: slug}, Ref: true}
		return nil
	}

	var addon Addon
	if err := json.Unmarshal(b, &addon); err != nil {
		return err
	}
	*a = ExperienceAddon{Addon: addon}
	return nil
}

type Experience struct {
	ID                string             `json:"id"`
	Slug              string             `json:"slug"`
	Owner             string             `json:"owner"`
	Title             string             `json:"title"`
	Description       string             `json:"description"`
	Duration          string             `json:"duration"`
	Price             decimal.Decimal    `json:"price"`
	Image             string             `json:"image"`
	CategoryPrices    CategoryPrices     `json:"categoryPrices,omitempty"`
	Addons            []ExperienceAddon  `json:"addons"`
	GuestBounds       GuestBounds        `json:"guests"`
	AllowedCategories *AllowedCategories `json:"allowedCategories,omitempty"`
	AvailableDates    []string           `json:"availableDates,omitempty"`
	Schedule          Schedule           `json:"schedule,omitempty"`
}

// AddonByTitle returns the experience's addon with the given title.
func (e *Experience) AddonByTitle(title string) (Addon, bool) {
	for _, a := range e.Addons {
		if a.Title == title {
			return a.Addon, true
		}
	}
	return Addon{}, false
}

type Profile struct {
	Name         string   `json:"name,omitempty"`
	ProfileImage string   `json:"profileImage"`
	Experiences  []string `json:"experiences"`
	ShortText    string   `json:"shortText,omitempty"`
	SummaryText  string   `json:"summaryText,omitempty"`
}

// CatalogData is the static catalog document as loaded from storage.
type CatalogData struct {
	Profiles    map[string]Profile `json:"profiles"`
	Experiences []Experience       `json:"experiences"`
	Addons      []Addon            `json:"addons"`
}

type CartAddon struct {
	Slug     string          `json:"slug,omitempty"`
	Title    string          `json:"title"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity,omitempty"`
}

// EffectiveQuantity treats an omitted or non-positive quantity as 1.
func (a CartAddon) EffectiveQuantity() int {
	if a.Quantity <= 0 {
		return 1
	}
	return a.Quantity
}

type CartItem struct {
	LineID         uuid.UUID       `json:"lineId"`
	ExperienceID   string          `json:"id"`
	Title          string          `json:"title"`
	Price          decimal.Decimal `json:"price"`
	Image          string          `json:"image"`
	Duration       string          `json:"duration"`
	Owner          string          `json:"owner"`
	Description    string          `json:"description,omitempty"`
	SelectedAddons []CartAddon     `json:"selectedAddons"`
	Quantity       int             `json:"quantity"`
	BookingDate    string          `json:"bookingDate,omitempty"`
	BookingTime    string          `json:"bookingTime,omitempty"`
	GuestCounts    *GuestCounts    `json:"guestCounts,omitempty"`
	CategoryPrices CategoryPrices  `json:"categoryPrices,omitempty"`
}

// Guests is the number of seats the line occupies.
func (i *CartItem) Guests() int {
	if i.GuestCounts != nil {
		return i.GuestCounts.Total()
	}
	return i.Quantity
}

// Clone returns a deep copy of the line.
func (i CartItem) Clone() CartItem {
	out := i
	out.SelectedAddons = append([]CartAddon(nil), i.SelectedAddons...)
	if i.GuestCounts != nil {
		gc := *i.GuestCounts
		out.GuestCounts = &gc
	}
	if i.CategoryPrices != nil {
		out.CategoryPrices = make(CategoryPrices, len(i.CategoryPrices))
		for k, v := range i.CategoryPrices {
			out.CategoryPrices[k] = v
		}
	}
	return out
}

type SlotStatus string

const (
	SlotFull      SlotStatus = "full"
	SlotTooSmall  SlotStatus = "tooSmall"
	SlotFew       SlotStatus = "few"
	SlotAvailable SlotStatus = "available"
)

type DecoratedSlot struct {
	TimeSlot
	Remaining      int        `json:"remaining"`
	IsFull         bool       `json:"isFull"`
	CannotFitGroup bool       `json:"cannotFitGroup"`
	Status         SlotStatus `json:"status"`
}

type SlotAvailability struct {
	Remaining      int  `json:"remaining"`
	IsFull         bool `json:"isFull"`
	HasEnoughSpace bool `json:"hasEnoughSpace"`
}
