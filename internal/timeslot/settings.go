package timeslot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidTimezone     = errors.New("invalid timezone")
	ErrInvalidSlotDuration = errors.New("slot duration must be positive")
	ErrInvalidBuffer       = errors.New("buffer must not be negative")
	ErrInvalidBlock        = errors.New("schedule block end must be after start")
)

// ScheduleBlock is a working window on a given weekday, expressed as wall
// clock "HH:MM" strings in the owner's configured timezone.
type ScheduleBlock struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// WeeklySchedule maps weekdays to the working windows available that day.
// A day with no blocks yields no slots.
type WeeklySchedule map[time.Weekday][]ScheduleBlock

// Settings is the owner's scheduling policy used to tile a day into slots.
type Settings struct {
	Timezone          string
	SlotDuration      time.Duration
	Buffer            time.Duration
	MinNotice         time.Duration
	BookingWindowDays int
	WeeklySchedule    WeeklySchedule
}

// Validate checks the policy invariants and that the timezone is loadable.
func (s Settings) Validate() error {
	if s.SlotDuration <= 0 {
		return ErrInvalidSlotDuration
	}
	if s.Buffer < 0 {
		return ErrInvalidBuffer
	}
	if _, err := time.LoadLocation(s.Timezone); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTimezone, s.Timezone)
	}
	for day, blocks := range s.WeeklySchedule {
		for _, b := range blocks {
			start, err := parseClock(b.Start)
			if err != nil {
				return fmt.Errorf("%s block start: %w", day, err)
			}
			end, err := parseClock(b.End)
			if err != nil {
				return fmt.Errorf("%s block end: %w", day, err)
			}
			if end <= start {
				return fmt.Errorf("%w: %s %s-%s", ErrInvalidBlock, day, b.Start, b.End)
			}
		}
	}
	return nil
}

// Location resolves the configured timezone. Settings must be validated first.
func (s Settings) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, s.Timezone)
	}
	return loc, nil
}

// parseClock parses "HH:MM" (or "H:MM") into minutes since midnight.
func parseClock(s string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	// Tolerate trailing seconds the way Postgres returns time columns.
	minutePart := parts[1]
	if len(minutePart) > 2 {
		minutePart = minutePart[:2]
	}
	minute, err := strconv.Atoi(minutePart)
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return hour*60 + minute, nil
}
