package gcal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/calendar/v3"
)

func TestBusyIntervals(t *testing.T) {
	resp := &calendar.FreeBusyResponse{
		Calendars: map[string]calendar.FreeBusyCalendar{
			"primary": {
				Busy: []*calendar.TimePeriod{
					{Start: "2026-06-10T14:00:00Z", End: "2026-06-10T15:00:00Z"},
					{Start: "2026-06-10T16:30:00Z", End: "2026-06-10T17:00:00Z"},
				},
			},
			"team@group.calendar.google.com": {
				Busy: []*calendar.TimePeriod{
					{Start: "2026-06-10T09:00:00Z", End: "2026-06-10T09:30:00Z"},
				},
			},
		},
	}

	busy, err := busyIntervals(resp)
	require.NoError(t, err)
	assert.Len(t, busy, 3)
	for _, b := range busy {
		assert.True(t, b.IsValid())
	}
}

func TestBusyIntervalsCalendarError(t *testing.T) {
	resp := &calendar.FreeBusyResponse{
		Calendars: map[string]calendar.FreeBusyCalendar{
			"gone@example.com": {
				Errors: []*calendar.Error{{Reason: "notFound"}},
			},
		},
	}

	_, err := busyIntervals(resp)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "notFound")
}

func TestBusyIntervalsBadTimestamp(t *testing.T) {
	resp := &calendar.FreeBusyResponse{
		Calendars: map[string]calendar.FreeBusyCalendar{
			"primary": {
				Busy: []*calendar.TimePeriod{{Start: "not-a-time", End: "2026-06-10T15:00:00Z"}},
			},
		},
	}

	_, err := busyIntervals(resp)
	require.Error(t, err)
}

func TestBuildEvent(t *testing.T) {
	start := time.Date(2026, 6, 10, 14, 0, 0, 0, time.UTC)
	event := buildEvent(EventInput{
		Summary:    "Intro call with Ana",
		Start:      start,
		End:        start.Add(30 * time.Minute),
		Timezone:   "America/New_York",
		GuestEmail: "ana@example.com",
		GuestName:  "Ana",
	})

	assert.Equal(t, "Intro call with Ana", event.Summary)
	assert.Equal(t, "2026-06-10T14:00:00Z", event.Start.DateTime)
	assert.Equal(t, "2026-06-10T14:30:00Z", event.End.DateTime)
	assert.Equal(t, "America/New_York", event.Start.TimeZone)
	require.Len(t, event.Attendees, 1)
	assert.Equal(t, "ana@example.com", event.Attendees[0].Email)
}

func TestNewOAuthConfigScopes(t *testing.T) {
	cfg := NewOAuthConfig("id", "secret", "https://app.example.com/callback")
	assert.Contains(t, cfg.Scopes, "https://www.googleapis.com/auth/calendar.events")
	assert.Contains(t, cfg.Scopes, "https://www.googleapis.com/auth/calendar.readonly")
}
