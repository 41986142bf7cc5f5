package availability

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/lunarfrog/booking-link-backend/internal/account"
	"github.com/lunarfrog/booking-link-backend/internal/settings"
	"github.com/lunarfrog/booking-link-backend/internal/timeslot"
)

// ErrDateTooFar is returned for dates beyond the owner's booking window.
var ErrDateTooFar = errors.New("date is beyond the booking window")

// AccountSource yields the owner's connected calendar accounts and their
// credentials. Satisfied by account.Service.
type AccountSource interface {
	List(ctx context.Context, ownerID string) ([]*account.Account, error)
	TokenSource(ctx context.Context, a *account.Account) (oauth2.TokenSource, error)
}

// BusyProvider fetches busy intervals for a set of calendars. Satisfied by
// gcal.Client.
type BusyProvider interface {
	FreeBusy(ctx context.Context, ts oauth2.TokenSource, calendarIDs []string, window timeslot.Interval) ([]timeslot.Interval, error)
}

// BookingSource yields confirmed bookings as busy intervals.
type BookingSource interface {
	ConfirmedIntervals(ctx context.Context, ownerID string, window timeslot.Interval) ([]timeslot.Interval, error)
}

// Day is one computed day of an owner's availability.
type Day struct {
	Date                time.Time
	Timezone            string
	SlotDurationMinutes int
	Slots               []timeslot.Slot
}

// Service computes a day of bookable slots for an owner.
type Service interface {
	DaySlots(ctx context.Context, ownerID string, date time.Time) (*Day, error)
}

type service struct {
	settings settings.Service
	accounts AccountSource
	busy     BusyProvider
	bookings BookingSource
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates a new availability Service.
func NewService(settingsSvc settings.Service, accounts AccountSource, busy BusyProvider, bookings BookingSource, logger *slog.Logger) Service {
	return &service{
		settings: settingsSvc,
		accounts: accounts,
		busy:     busy,
		bookings: bookings,
		logger:   logger,
		now:      time.Now,
	}
}

// DaySlots generates the owner's slots for the civil date, marking busy any
// slot that overlaps a calendar event on a connected account or a confirmed
// booking. Calendar accounts are queried concurrently; an account that fails
// is skipped with a warning so one revoked token does not take the whole
// booking page down. Confirmed bookings come from our own database and are
// authoritative, so a failure there fails the request.
func (s *service) DaySlots(ctx context.Context, ownerID string, date time.Time) (*Day, error) {
	pol, err := s.settings.GetForOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	engine := pol.Engine()
	loc, err := engine.Location()
	if err != nil {
		return nil, err
	}

	now := s.now()
	year, month, day := date.Date()
	dayStart := time.Date(year, month, day, 0, 0, 0, 0, loc)
	window := timeslot.Interval{Start: dayStart, End: dayStart.AddDate(0, 0, 1)}

	horizon := now.In(loc).AddDate(0, 0, pol.BookingWindowDays)
	if dayStart.After(horizon) {
		return nil, ErrDateTooFar
	}

	busy, err := s.collectBusy(ctx, ownerID, window)
	if err != nil {
		return nil, err
	}

	slots, err := timeslot.GenerateSlots(dayStart, engine, busy, now)
	if err != nil {
		return nil, err
	}

	return &Day{
		Date:                dayStart,
		Timezone:            pol.Timezone,
		SlotDurationMinutes: pol.SlotDurationMinutes,
		Slots:               slots,
	}, nil
}

func (s *service) collectBusy(ctx context.Context, ownerID string, window timeslot.Interval) ([]timeslot.Interval, error) {
	accounts, err := s.accounts.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	var (
		mu   sync.Mutex
		busy []timeslot.Interval
		wg   sync.WaitGroup
	)
	for _, a := range accounts {
		wg.Add(1)
		go func(a *account.Account) {
			defer wg.Done()

			intervals, err := s.accountBusy(ctx, a, window)
			if err != nil {
				s.logger.Warn("skipping calendar account for availability",
					slog.String("owner_id", ownerID),
					slog.String("account_id", a.ID),
					slog.String("error", err.Error()),
				)
				return
			}

			mu.Lock()
			busy = append(busy, intervals...)
			mu.Unlock()
		}(a)
	}
	wg.Wait()

	booked, err := s.bookings.ConfirmedIntervals(ctx, ownerID, window)
	if err != nil {
		return nil, err
	}
	return append(busy, booked...), nil
}

func (s *service) accountBusy(ctx context.Context, a *account.Account, window timeslot.Interval) ([]timeslot.Interval, error) {
	ts, err := s.accounts.TokenSource(ctx, a)
	if err != nil {
		return nil, err
	}
	return s.busy.FreeBusy(ctx, ts, a.CalendarIDs, window)
}
