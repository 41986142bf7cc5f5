package settings

import (
	"errors"
	"time"

	"github.com/lunarfrog/booking-link-backend/internal/timeslot"
)

var (
	ErrNotFound = errors.New("owner settings not found")
	ErrInvalid  = errors.New("invalid owner settings")
)

// dayNames maps the persisted lowercase day keys to time.Weekday.
var dayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// Settings is the persisted scheduling policy for one owner. The weekly
// schedule is stored as a JSONB map keyed by lowercase day name.
type Settings struct {
	OwnerID             string
	Timezone            string
	SlotDurationMinutes int
	BufferMinutes       int
	MinNoticeHours      int
	BookingWindowDays   int
	WeeklySchedule      map[string][]timeslot.ScheduleBlock
	SchemaVersion       int
	UpdatedAt           time.Time
}

// Default returns the policy applied to owners who have not saved settings
// yet: Mon-Fri 09:00-17:00 Eastern, 30-minute slots, no buffer, 24h notice.
func Default(ownerID string) *Settings {
	weekday := []timeslot.ScheduleBlock{{Start: "09:00", End: "17:00"}}
	return &Settings{
		OwnerID:             ownerID,
		Timezone:            "America/New_York",
		SlotDurationMinutes: 30,
		BufferMinutes:       0,
		MinNoticeHours:      24,
		BookingWindowDays:   30,
		WeeklySchedule: map[string][]timeslot.ScheduleBlock{
			"monday":    weekday,
			"tuesday":   weekday,
			"wednesday": weekday,
			"thursday":  weekday,
			"friday":    weekday,
			"saturday":  {},
			"sunday":    {},
		},
	}
}

// Engine converts the persisted settings into the slot generator's policy
// type.
func (s *Settings) Engine() timeslot.Settings {
	weekly := make(timeslot.WeeklySchedule, len(s.WeeklySchedule))
	for name, blocks := range s.WeeklySchedule {
		if day, ok := dayNames[name]; ok && len(blocks) > 0 {
			weekly[day] = blocks
		}
	}
	return timeslot.Settings{
		Timezone:          s.Timezone,
		SlotDuration:      time.Duration(s.SlotDurationMinutes) * time.Minute,
		Buffer:            time.Duration(s.BufferMinutes) * time.Minute,
		MinNotice:         time.Duration(s.MinNoticeHours) * time.Hour,
		BookingWindowDays: s.BookingWindowDays,
		WeeklySchedule:    weekly,
	}
}

// Validate checks the policy invariants, including unknown day names.
func (s *Settings) Validate() error {
	for name := range s.WeeklySchedule {
		if _, ok := dayNames[name]; !ok {
			return errors.Join(ErrInvalid, errors.New("unknown weekday "+name))
		}
	}
	if err := s.Engine().Validate(); err != nil {
		return errors.Join(ErrInvalid, err)
	}
	return nil
}
