package http

import (
	"time"

	"github.com/lunarfrog/booking-link-backend/internal/booking"
	"github.com/lunarfrog/booking-link-backend/internal/pkg/request"
)

type ReserveRequest struct {
	GuestName  string    `json:"guest_name" binding:"required,max=200"`
	GuestEmail string    `json:"guest_email" binding:"required,email"`
	Message    *string   `json:"message" binding:"omitempty,max=2000"`
	Start      time.Time `json:"start" binding:"required"`
	End        time.Time `json:"end" binding:"required"`
	Timezone   string    `json:"timezone" binding:"omitempty,max=100"`
}

type ListBookingsRequest struct {
	request.ListParams
	Status string     `form:"status" binding:"omitempty,oneof=confirmed cancelled"`
	From   *time.Time `form:"from" binding:"omitempty"`
	To     *time.Time `form:"to" binding:"omitempty"`
}

type CancelRequest struct {
	Reason *string `json:"reason" binding:"omitempty,max=500"`
}

type BookingResponse struct {
	ID                 string     `json:"id"`
	GuestName          string     `json:"guest_name"`
	GuestEmail         string     `json:"guest_email"`
	Message            *string    `json:"message,omitempty"`
	Start              time.Time  `json:"start"`
	End                time.Time  `json:"end"`
	Timezone           string     `json:"timezone"`
	Status             string     `json:"status"`
	ExternalEventID    *string    `json:"external_event_id,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CancellationReason *string    `json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:                 b.ID,
		GuestName:          b.GuestName,
		GuestEmail:         b.GuestEmail,
		Message:            b.Message,
		Start:              b.StartTime,
		End:                b.EndTime,
		Timezone:           b.Timezone,
		Status:             string(b.Status),
		ExternalEventID:    b.ExternalEventID,
		CancelledAt:        b.CancelledAt,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
	}
}

// GuestBookingResponse is the reduced view returned to guests. It omits the
// guest's message echo and internal identifiers guests have no use for.
type GuestBookingResponse struct {
	ID        string    `json:"id"`
	GuestName string    `json:"guest_name"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Timezone  string    `json:"timezone"`
	Status    string    `json:"status"`
}

func NewGuestBookingResponse(b *booking.Booking) GuestBookingResponse {
	return GuestBookingResponse{
		ID:        b.ID,
		GuestName: b.GuestName,
		Start:     b.StartTime,
		End:       b.EndTime,
		Timezone:  b.Timezone,
		Status:    string(b.Status),
	}
}
