// Package availability derives per-slot remaining capacity for an experience.
//
// Two paths exist. SlotsForDate feeds a date picker and reports the raw
// arithmetic. CheckSlotAvailability gates a cart action: it fails closed on
// missing schedule data, counts seats already claimed by the session's cart
// and never reports a negative remainder.
package availability

import (
	"sort"
	"time"

	"github.com/kirinyoku/tourcart/internal/domain"
)

// FewSeatsThreshold is the remaining count at or below which a slot is "few".
const FewSeatsThreshold = 2

const dateLayout = "2006-01-02"

// SlotsForDate returns the experience's slots on date sorted by time, each
// decorated with its remaining capacity and status for a group of guestCount.
func SlotsForDate(e *domain.Experience, date string, guestCount int) []domain.DecoratedSlot {
	if e == nil || e.Schedule == nil {
		return []domain.DecoratedSlot{}
	}

	raw := e.Schedule[date]
	if len(raw) == 0 {
		return []domain.DecoratedSlot{}
	}

	if guestCount < 1 {
		guestCount = 1
	}

	out := make([]domain.DecoratedSlot, 0, len(raw))
	for _, slot := range raw {
		out = append(out, decorate(slot, guestCount))
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Time < out[j].Time
	})

	return out
}

func decorate(slot domain.TimeSlot, guestCount int) domain.DecoratedSlot {
	remaining := slot.Capacity - slot.Booked
	d := domain.DecoratedSlot{
		TimeSlot:       slot,
		Remaining:      remaining,
		IsFull:         remaining <= 0,
		CannotFitGroup: remaining < guestCount,
	}

	switch {
	case d.IsFull:
		d.Status = domain.SlotFull
	case d.CannotFitGroup:
		d.Status = domain.SlotTooSmall
	case remaining <= FewSeatsThreshold:
		d.Status = domain.SlotFew
	default:
		d.Status = domain.SlotAvailable
	}

	return d
}

// HasAvailableSlotForDate reports whether at least one slot on date fits the group.
func HasAvailableSlotForDate(e *domain.Experience, date string, guestCount int) bool {
	for _, s := range SlotsForDate(e, date, guestCount) {
		if !s.IsFull && !s.CannotFitGroup {
			return true
		}
	}
	return false
}

// CheckSlotAvailability reports how many seats remain in the slot at
// date/time once the cart's own lines for the same slot are subtracted. The
// line at exclude, if any, is not counted so an edited line does not compete
// with itself.
func CheckSlotAvailability(
	e *domain.Experience,
	date, slotTime string,
	requestedGuests int,
	items []domain.CartItem,
	exclude *int,
) domain.SlotAvailability {
	closed := domain.SlotAvailability{Remaining: 0, IsFull: true, HasEnoughSpace: false}

	if e == nil || e.Schedule == nil {
		return closed
	}

	slot, ok := findSlot(e.Schedule[date], slotTime)
	if !ok {
		return closed
	}

	inCart := 0
	for i := range items {
		if exclude != nil && *exclude == i {
			continue
		}
		it := &items[i]
		if it.ExperienceID == e.ID && it.BookingDate == date && it.BookingTime == slotTime {
			inCart += it.Guests()
		}
	}

	remaining := max(slot.Capacity-slot.Booked-inCart, 0)

	return domain.SlotAvailability{
		Remaining:      remaining,
		IsFull:         remaining == 0,
		HasEnoughSpace: remaining >= requestedGuests,
	}
}

func findSlot(slots []domain.TimeSlot, slotTime string) (domain.TimeSlot, bool) {
	for _, s := range slots {
		if s.Time == slotTime {
			return s, true
		}
	}
	return domain.TimeSlot{}, false
}

// TotalGuests sums the guest filter, ignoring negative counts.
func TotalGuests(g domain.GuestCounts) int {
	return max(g.Adults, 0) + max(g.Children, 0) + max(g.Seniors, 0)
}

// Today formats now as an ISO date in UTC.
func Today(now time.Time) string {
	return now.UTC().Format(dateLayout)
}

// AvailableDates lists the schedule dates on or after from that have at least
// one slot fitting the group, in ascending order.
func AvailableDates(e *domain.Experience, from string, guestCount int) []string {
	if e == nil || e.Schedule == nil {
		return []string{}
	}

	out := make([]string, 0, len(e.Schedule))
	for date := range e.Schedule {
		if date < from {
			continue
		}
		if HasAvailableSlotForDate(e, date, guestCount) {
			out = append(out, date)
		}
	}
	sort.Strings(out)

	return out
}
