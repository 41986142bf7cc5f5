package http

import (
	"github.com/lunarfrog/booking-link-backend/internal/availability"
	"github.com/lunarfrog/booking-link-backend/internal/timeslot"
)

type AvailabilityQuery struct {
	Date string `form:"date" binding:"required,datetime=2006-01-02"`
}

type AvailabilityResponse struct {
	Date                string          `json:"date"`
	Timezone            string          `json:"timezone"`
	SlotDurationMinutes int             `json:"slot_duration_minutes"`
	Slots               []timeslot.Slot `json:"slots"`
}

func NewAvailabilityResponse(date string, day *availability.Day) AvailabilityResponse {
	slots := day.Slots
	if slots == nil {
		slots = []timeslot.Slot{}
	}
	return AvailabilityResponse{
		Date:                date,
		Timezone:            day.Timezone,
		SlotDurationMinutes: day.SlotDurationMinutes,
		Slots:               slots,
	}
}
