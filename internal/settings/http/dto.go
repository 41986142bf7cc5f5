package http

import (
	"time"

	"github.com/lunarfrog/booking-link-backend/internal/settings"
	"github.com/lunarfrog/booking-link-backend/internal/timeslot"
)

// SettingsResponse is the JSON shape of the owner's scheduling policy.
type SettingsResponse struct {
	Timezone            string                              `json:"timezone"`
	SlotDurationMinutes int                                 `json:"slot_duration_minutes"`
	BufferMinutes       int                                 `json:"buffer_minutes"`
	MinNoticeHours      int                                 `json:"min_notice_hours"`
	BookingWindowDays   int                                 `json:"booking_window_days"`
	WeeklySchedule      map[string][]timeslot.ScheduleBlock `json:"weekly_schedule"`
	UpdatedAt           *time.Time                          `json:"updated_at,omitempty"`
}

// UpdateSettingsRequest is the payload for PUT /v1/settings.
type UpdateSettingsRequest struct {
	Timezone            string                              `json:"timezone" binding:"required"`
	SlotDurationMinutes int                                 `json:"slot_duration_minutes" binding:"required,min=5,max=240"`
	BufferMinutes       int                                 `json:"buffer_minutes" binding:"min=0,max=120"`
	MinNoticeHours      int                                 `json:"min_notice_hours" binding:"min=0,max=168"`
	BookingWindowDays   int                                 `json:"booking_window_days" binding:"required,min=1,max=365"`
	WeeklySchedule      map[string][]timeslot.ScheduleBlock `json:"weekly_schedule" binding:"required"`
}

// NewSettingsResponse converts domain settings to the API shape.
func NewSettingsResponse(s *settings.Settings) SettingsResponse {
	resp := SettingsResponse{
		Timezone:            s.Timezone,
		SlotDurationMinutes: s.SlotDurationMinutes,
		BufferMinutes:       s.BufferMinutes,
		MinNoticeHours:      s.MinNoticeHours,
		BookingWindowDays:   s.BookingWindowDays,
		WeeklySchedule:      s.WeeklySchedule,
	}
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		resp.UpdatedAt = &t
	}
	return resp
}
