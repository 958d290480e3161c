package httpgin

import (
	"github.com/kirinyoku/tourcart/internal/domain"
	"github.com/kirinyoku/tourcart/internal/session"
)

type GuestCountsInput struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
	Seniors  int `json:"seniors"`
}

type AddonInput struct {
	Title    string `json:"title" binding:"required"`
	Quantity int    `json:"quantity"`
}

type BookingRequest struct {
	ExperienceID string           `json:"experienceId" binding:"required"`
	BookingDate  string           `json:"bookingDate"`
	BookingTime  string           `json:"bookingTime"`
	GuestCounts  GuestCountsInput `json:"guestCounts"`
	Addons       []AddonInput     `json:"selectedAddons" binding:"omitempty,dive"`
}

func (r BookingRequest) toSession() session.BookingRequest {
	addons := make([]session.AddonSelection, 0, len(r.Addons))
	for _, a := range r.Addons {
		addons = append(addons, session.AddonSelection{Title: a.Title, Quantity: a.Quantity})
	}

	return session.BookingRequest{
		ExperienceID: r.ExperienceID,
		Date:         r.BookingDate,
		Time:         r.BookingTime,
		Guests: domain.GuestCounts{
			Adults:   r.GuestCounts.Adults,
			Children: r.GuestCounts.Children,
			Seniors:  r.GuestCounts.Seniors,
		},
		Addons: addons,
	}
}

type SetQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type SlotsResponse struct {
	ExperienceID string                 `json:"experienceId"`
	Date         string                 `json:"date"`
	Guests       int                    `json:"guests"`
	Slots        []domain.DecoratedSlot `json:"slots"`
}

type DatesResponse struct {
	ExperienceID string   `json:"experienceId"`
	From         string   `json:"from,omitempty"`
	Guests       int      `json:"guests"`
	Dates        []string `json:"dates"`
}

type PublishCatalogResponse struct {
	Version     string `json:"version"`
	Experiences int    `json:"experiences"`
	Profiles    int    `json:"profiles"`
}
