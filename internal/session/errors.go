package session

import "errors"

var (
	ErrExperienceNotFound = errors.New("experience not found")
	ErrCategoryNotAllowed = errors.New("guest category not allowed")
	ErrGuestBounds        = errors.New("guest count out of bounds")
	ErrUnknownAddon       = errors.New("unknown addon")
	ErrTimeRequired       = errors.New("booking date and time are required")
	ErrSlotUnavailable    = errors.New("not enough seats left in slot")
	ErrDateUnavailable    = errors.New("date not available")
)
