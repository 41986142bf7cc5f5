package booking

import (
	"errors"
	"fmt"
	"time"
)

// Status of a booking. Bookings are append-only: cancelling flips the status,
// rows are never deleted.
type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// Booking is a confirmed reservation of one slot on an owner's booking link.
type Booking struct {
	ID         string
	OwnerID    string
	GuestName  string
	GuestEmail string
	Message    *string

	StartTime time.Time
	EndTime   time.Time
	// Timezone is the IANA zone the guest booked in, kept for the invite.
	Timezone string

	Status Status
	// ExternalEventID is the Google Calendar event created for this booking,
	// set asynchronously once the invite is delivered.
	ExternalEventID *string

	CancelledAt        *time.Time
	CancellationReason *string
	CreatedAt          time.Time
}

var (
	ErrNotFound         = errors.New("booking not found")
	ErrAlreadyCancelled = errors.New("booking is already cancelled")
	ErrSlotUnavailable  = errors.New("requested slot is not available")
)

// SlotConflictError reports that the requested slot was taken by a concurrent
// reservation. Distinct from ErrSlotUnavailable so callers can tell a race
// from a stale booking page.
type SlotConflictError struct {
	Start time.Time
	End   time.Time
}

func (e *SlotConflictError) Error() string {
	return fmt.Sprintf("slot %s to %s is no longer available",
		e.Start.Format(time.RFC3339), e.End.Format(time.RFC3339))
}
