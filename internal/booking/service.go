package booking

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lunarfrog/booking-link-backend/internal/availability"
	"github.com/lunarfrog/booking-link-backend/internal/settings"
	"github.com/lunarfrog/booking-link-backend/internal/timeslot"
)

// ReserveInput is everything a guest submits to claim a slot.
type ReserveInput struct {
	GuestName  string
	GuestEmail string
	Message    *string
	Start      time.Time
	End        time.Time
	Timezone   string
}

// Service defines business logic for reservations.
type Service interface {
	// Reserve claims a slot for a guest. The requested slot must be one of
	// the owner's currently available slots; races between concurrent guests
	// are settled by the database and surface as *SlotConflictError.
	Reserve(ctx context.Context, ownerID string, in ReserveInput) (*Booking, error)
	GetByID(ctx context.Context, ownerID, id string) (*Booking, error)
	List(ctx context.Context, ownerID string, f ListFilter, limit, offset int) ([]*Booking, int, error)
	Cancel(ctx context.Context, ownerID, id string, reason *string) (*Booking, error)
}

type service struct {
	repo         Repository
	settings     settings.Service
	availability availability.Service
	logger       *slog.Logger
}

// NewService creates a new booking Service.
func NewService(repo Repository, settingsSvc settings.Service, availabilitySvc availability.Service, logger *slog.Logger) Service {
	return &service{
		repo:         repo,
		settings:     settingsSvc,
		availability: availabilitySvc,
		logger:       logger,
	}
}

func (s *service) Reserve(ctx context.Context, ownerID string, in ReserveInput) (*Booking, error) {
	pol, err := s.settings.GetForOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	engine := pol.Engine()
	loc, err := engine.Location()
	if err != nil {
		return nil, err
	}

	// The guest's timezone is informational, for the invite. Fall back to
	// the owner's when it is missing or bogus.
	tz := in.Timezone
	if _, err := time.LoadLocation(tz); tz == "" || err != nil {
		tz = pol.Timezone
	}

	// Check the request against the live availability for that day. This
	// rejects slots that are off-schedule, busy, in the past or inside the
	// notice window. It is advisory only: concurrent guests can pass this
	// check with the same slot, and the insert below settles the race.
	day, err := s.availability.DaySlots(ctx, ownerID, in.Start.In(loc))
	if err != nil {
		return nil, err
	}
	if !slotOffered(day.Slots, in.Start, in.End) {
		return nil, ErrSlotUnavailable
	}

	b := &Booking{
		OwnerID:    ownerID,
		GuestName:  in.GuestName,
		GuestEmail: in.GuestEmail,
		Message:    in.Message,
		StartTime:  in.Start.UTC(),
		EndTime:    in.End.UTC(),
		Timezone:   tz,
	}
	if err := s.repo.CreateConfirmed(ctx, b); err != nil {
		return nil, err
	}

	s.logger.Info("booking confirmed",
		slog.String("owner_id", ownerID),
		slog.String("booking_id", b.ID),
		slog.Time("start", b.StartTime),
	)
	return b, nil
}

func slotOffered(slots []timeslot.Slot, start, end time.Time) bool {
	for _, slot := range slots {
		if slot.Start.Equal(start) && slot.End.Equal(end) {
			return slot.Available
		}
	}
	return false
}

func (s *service) GetByID(ctx context.Context, ownerID, id string) (*Booking, error) {
	return s.repo.GetByID(ctx, ownerID, id)
}

func (s *service) List(ctx context.Context, ownerID string, f ListFilter, limit, offset int) ([]*Booking, int, error) {
	return s.repo.ListByOwner(ctx, ownerID, f, limit, offset)
}

func (s *service) Cancel(ctx context.Context, ownerID, id string, reason *string) (*Booking, error) {
	b, err := s.repo.Cancel(ctx, ownerID, id, reason)
	if err != nil {
		return nil, err
	}

	s.logger.Info("booking cancelled",
		slog.String("owner_id", ownerID),
		slog.String("booking_id", b.ID),
	)
	return b, nil
}

// IntervalSource adapts the booking repository to the availability
// aggregator, which treats confirmed bookings as busy time.
type IntervalSource struct {
	repo Repository
}

func NewIntervalSource(repo Repository) *IntervalSource {
	return &IntervalSource{repo: repo}
}

func (s *IntervalSource) ConfirmedIntervals(ctx context.Context, ownerID string, window timeslot.Interval) ([]timeslot.Interval, error) {
	bookings, err := s.repo.ListConfirmedInRange(ctx, ownerID, window)
	if err != nil {
		return nil, fmt.Errorf("failed to load confirmed bookings: %w", err)
	}

	intervals := make([]timeslot.Interval, 0, len(bookings))
	for _, b := range bookings {
		intervals = append(intervals, timeslot.Interval{Start: b.StartTime, End: b.EndTime})
	}
	return intervals, nil
}
