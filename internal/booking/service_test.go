package booking

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lunarfrog/booking-link-backend/internal/availability"
	"github.com/lunarfrog/booking-link-backend/internal/settings"
	"github.com/lunarfrog/booking-link-backend/internal/timeslot"
)

type fakeRepo struct {
	Repository

	created    []*Booking
	createErr  error
	cancelled  *Booking
	cancelErr  error
	confirmed  []*Booking
	confirmErr error
}

func (f *fakeRepo) CreateConfirmed(_ context.Context, b *Booking) error {
	if f.createErr != nil {
		return f.createErr
	}
	b.ID = "booking-1"
	b.Status = StatusConfirmed
	b.CreatedAt = time.Now()
	f.created = append(f.created, b)
	return nil
}

func (f *fakeRepo) Cancel(_ context.Context, _, _ string, _ *string) (*Booking, error) {
	return f.cancelled, f.cancelErr
}

func (f *fakeRepo) ListConfirmedInRange(_ context.Context, _ string, _ timeslot.Interval) ([]*Booking, error) {
	return f.confirmed, f.confirmErr
}

type fakeSettings struct{}

func (f *fakeSettings) GetForOwner(_ context.Context, ownerID string) (*settings.Settings, error) {
	s := settings.Default(ownerID)
	s.Timezone = "America/New_York"
	return s, nil
}

func (f *fakeSettings) Update(_ context.Context, s *settings.Settings) (*settings.Settings, error) {
	return s, nil
}

type fakeAvailability struct {
	slots []timeslot.Slot
	err   error
}

func (f *fakeAvailability) DaySlots(_ context.Context, _ string, _ time.Time) (*availability.Day, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &availability.Day{Timezone: "America/New_York", SlotDurationMinutes: 30, Slots: f.slots}, nil
}

func slotAt(start time.Time, available bool) timeslot.Slot {
	return timeslot.Slot{
		Start:     start,
		End:       start.Add(30 * time.Minute),
		Available: available,
		Busy:      !available,
	}
}

func reserveInput(start time.Time) ReserveInput {
	return ReserveInput{
		GuestName:  "Ana",
		GuestEmail: "ana@example.com",
		Start:      start,
		End:        start.Add(30 * time.Minute),
	}
}

func TestReserveOfferedSlot(t *testing.T) {
	start := time.Date(2026, 6, 10, 13, 0, 0, 0, time.UTC)
	repo := &fakeRepo{}
	svc := NewService(repo, &fakeSettings{}, &fakeAvailability{
		slots: []timeslot.Slot{slotAt(start, true)},
	}, slog.New(slog.DiscardHandler))

	b, err := svc.Reserve(context.Background(), "owner-1", reserveInput(start))
	require.NoError(t, err)
	require.Len(t, repo.created, 1)
	assert.Equal(t, "booking-1", b.ID)
	assert.Equal(t, StatusConfirmed, b.Status)
	assert.True(t, b.StartTime.Equal(start))
	// No guest timezone given: fall back to the owner's.
	assert.Equal(t, "America/New_York", b.Timezone)
}

func TestReserveKeepsValidGuestTimezone(t *testing.T) {
	start := time.Date(2026, 6, 10, 13, 0, 0, 0, time.UTC)
	svc := NewService(&fakeRepo{}, &fakeSettings{}, &fakeAvailability{
		slots: []timeslot.Slot{slotAt(start, true)},
	}, slog.New(slog.DiscardHandler))

	in := reserveInput(start)
	in.Timezone = "Europe/Berlin"
	b, err := svc.Reserve(context.Background(), "owner-1", in)
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", b.Timezone)
}

func TestReserveSlotNotOffered(t *testing.T) {
	start := time.Date(2026, 6, 10, 13, 0, 0, 0, time.UTC)
	repo := &fakeRepo{}
	svc := NewService(repo, &fakeSettings{}, &fakeAvailability{
		slots: []timeslot.Slot{slotAt(start, true)},
	}, slog.New(slog.DiscardHandler))

	// Off-grid start time, even though it would fit between slots.
	_, err := svc.Reserve(context.Background(), "owner-1", reserveInput(start.Add(10*time.Minute)))
	assert.ErrorIs(t, err, ErrSlotUnavailable)
	assert.Empty(t, repo.created)
}

func TestReserveBusySlot(t *testing.T) {
	start := time.Date(2026, 6, 10, 13, 0, 0, 0, time.UTC)
	svc := NewService(&fakeRepo{}, &fakeSettings{}, &fakeAvailability{
		slots: []timeslot.Slot{slotAt(start, false)},
	}, slog.New(slog.DiscardHandler))

	_, err := svc.Reserve(context.Background(), "owner-1", reserveInput(start))
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestReserveConcurrentConflict(t *testing.T) {
	start := time.Date(2026, 6, 10, 13, 0, 0, 0, time.UTC)
	repo := &fakeRepo{createErr: &SlotConflictError{Start: start, End: start.Add(30 * time.Minute)}}
	svc := NewService(repo, &fakeSettings{}, &fakeAvailability{
		slots: []timeslot.Slot{slotAt(start, true)},
	}, slog.New(slog.DiscardHandler))

	_, err := svc.Reserve(context.Background(), "owner-1", reserveInput(start))
	var conflict *SlotConflictError
	require.ErrorAs(t, err, &conflict)
	assert.True(t, conflict.Start.Equal(start))
}

func TestCancelAlreadyCancelled(t *testing.T) {
	repo := &fakeRepo{cancelErr: ErrAlreadyCancelled}
	svc := NewService(repo, &fakeSettings{}, &fakeAvailability{}, slog.New(slog.DiscardHandler))

	_, err := svc.Cancel(context.Background(), "owner-1", "booking-1", nil)
	assert.ErrorIs(t, err, ErrAlreadyCancelled)
}

func TestIntervalSourceConvertsBookings(t *testing.T) {
	start := time.Date(2026, 6, 10, 13, 0, 0, 0, time.UTC)
	repo := &fakeRepo{confirmed: []*Booking{
		{StartTime: start, EndTime: start.Add(30 * time.Minute)},
	}}

	intervals, err := NewIntervalSource(repo).ConfirmedIntervals(context.Background(), "owner-1", timeslot.Interval{
		Start: start.Add(-time.Hour),
		End:   start.Add(time.Hour),
	})
	require.NoError(t, err)
	require.Len(t, intervals, 1)
	assert.True(t, intervals[0].Start.Equal(start))
}

func TestIntervalSourceWrapsErrors(t *testing.T) {
	repo := &fakeRepo{confirmErr: errors.New("connection refused")}

	_, err := NewIntervalSource(repo).ConfirmedIntervals(context.Background(), "owner-1", timeslot.Interval{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "confirmed bookings")
}
