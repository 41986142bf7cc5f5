package timeslot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weekdaySchedule() WeeklySchedule {
	block := []ScheduleBlock{{Start: "09:00", End: "17:00"}}
	return WeeklySchedule{
		time.Monday:    block,
		time.Tuesday:   block,
		time.Wednesday: block,
		time.Thursday:  block,
		time.Friday:    block,
	}
}

func nySettings() Settings {
	return Settings{
		Timezone:          "America/New_York",
		SlotDuration:      30 * time.Minute,
		Buffer:            0,
		MinNotice:         0,
		BookingWindowDays: 30,
		WeeklySchedule:    weekdaySchedule(),
	}
}

// nyDate builds an instant at wall-clock time in America/New_York.
func nyDate(t *testing.T, year int, month time.Month, day, hour, min int) time.Time {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	return time.Date(year, month, day, hour, min, 0, 0, loc)
}

func TestGenerateSlotsFullWednesday(t *testing.T) {
	// 2026-06-10 is a Wednesday.
	date := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
	now := nyDate(t, 2026, 6, 1, 12, 0)

	slots, err := GenerateSlots(date, nySettings(), nil, now)
	require.NoError(t, err)
	require.Len(t, slots, 16)

	assert.True(t, slots[0].Start.Equal(nyDate(t, 2026, 6, 10, 9, 0)))
	assert.True(t, slots[15].Start.Equal(nyDate(t, 2026, 6, 10, 16, 30)))
	assert.True(t, slots[15].End.Equal(nyDate(t, 2026, 6, 10, 17, 0)))

	for i, s := range slots {
		assert.True(t, s.Available, "slot %d should be available", i)
		assert.False(t, s.Busy, "slot %d should not be busy", i)
	}
}

func TestGenerateSlotsBusyLunchHour(t *testing.T) {
	date := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
	now := nyDate(t, 2026, 6, 1, 12, 0)
	busy := []Interval{{
		Start: nyDate(t, 2026, 6, 10, 12, 0),
		End:   nyDate(t, 2026, 6, 10, 13, 0),
	}}

	slots, err := GenerateSlots(date, nySettings(), busy, now)
	require.NoError(t, err)
	require.Len(t, slots, 16)

	busyCount := 0
	for _, s := range slots {
		startsInBusyHour := !s.Start.Before(busy[0].Start) && s.Start.Before(busy[0].End)
		if startsInBusyHour {
			busyCount++
			assert.True(t, s.Busy)
			assert.False(t, s.Available)
		} else {
			assert.False(t, s.Busy)
			assert.True(t, s.Available)
		}
	}
	assert.Equal(t, 2, busyCount)
}

func TestGenerateSlotsBufferSpacing(t *testing.T) {
	settings := nySettings()
	settings.Buffer = 15 * time.Minute
	date := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
	now := nyDate(t, 2026, 6, 1, 12, 0)

	slots, err := GenerateSlots(date, settings, nil, now)
	require.NoError(t, err)
	require.NotEmpty(t, slots)

	for i := 1; i < len(slots); i++ {
		assert.True(t, slots[i].Start.Equal(slots[i-1].End.Add(settings.Buffer)),
			"slot %d must start one buffer after slot %d ends", i, i-1)

		prev := Interval{Start: slots[i-1].Start, End: slots[i-1].End}
		cur := Interval{Start: slots[i].Start, End: slots[i].End}
		assert.False(t, prev.Overlaps(cur), "slots %d and %d overlap", i-1, i)
	}
}

func TestGenerateSlotsNoPartialTrailingSlot(t *testing.T) {
	settings := nySettings()
	settings.WeeklySchedule = WeeklySchedule{
		time.Wednesday: {{Start: "09:00", End: "10:15"}},
	}
	date := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
	now := nyDate(t, 2026, 6, 1, 12, 0)

	slots, err := GenerateSlots(date, settings, nil, now)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.True(t, slots[1].End.Equal(nyDate(t, 2026, 6, 10, 10, 0)))
}

func TestGenerateSlotsEmptyDay(t *testing.T) {
	// Saturday has no schedule blocks.
	date := time.Date(2026, 6, 13, 0, 0, 0, 0, time.UTC)
	now := nyDate(t, 2026, 6, 1, 12, 0)

	slots, err := GenerateSlots(date, nySettings(), nil, now)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestGenerateSlotsPastAndNotice(t *testing.T) {
	settings := nySettings()
	settings.MinNotice = 24 * time.Hour

	date := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
	// Mid-morning the day before: every slot is in the future, but the whole
	// day falls inside the 24h notice window until 09:00.
	now := nyDate(t, 2026, 6, 9, 10, 30)

	slots, err := GenerateSlots(date, settings, nil, now)
	require.NoError(t, err)
	require.Len(t, slots, 16)

	earliest := now.Add(settings.MinNotice)
	for _, s := range slots {
		assert.False(t, s.Busy, "notice filtering must not mark slots busy")
		if s.Start.Before(earliest) {
			assert.False(t, s.Available, "slot %v is too soon", s.Start)
		} else {
			assert.True(t, s.Available, "slot %v is beyond notice", s.Start)
		}
	}
}

func TestGenerateSlotsPastSlotsUnavailable(t *testing.T) {
	date := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
	now := nyDate(t, 2026, 6, 10, 12, 15)

	slots, err := GenerateSlots(date, nySettings(), nil, now)
	require.NoError(t, err)
	require.Len(t, slots, 16)

	for _, s := range slots {
		if s.Start.Before(now) {
			assert.False(t, s.Available)
		} else {
			assert.True(t, s.Available)
		}
		assert.False(t, s.Busy)
	}
}

func TestGenerateSlotsDSTWallClockRoundTrip(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	now := nyDate(t, 2026, 1, 1, 0, 0)

	// Monday after the spring-forward transition (2026-03-08) and the Monday
	// after fall-back (2026-11-01): wall clock must stay 09:00 either way.
	for _, day := range []time.Time{
		time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC),
	} {
		slots, err := GenerateSlots(day, nySettings(), nil, now)
		require.NoError(t, err)
		require.Len(t, slots, 16)

		local := slots[0].Start.In(loc)
		assert.Equal(t, 9, local.Hour())
		assert.Equal(t, 0, local.Minute())

		last := slots[15].Start.In(loc)
		assert.Equal(t, 16, last.Hour())
		assert.Equal(t, 30, last.Minute())
	}
}

func TestGenerateSlotsRejectsBadSettings(t *testing.T) {
	date := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
	now := time.Now()

	bad := nySettings()
	bad.SlotDuration = 0
	_, err := GenerateSlots(date, bad, nil, now)
	assert.ErrorIs(t, err, ErrInvalidSlotDuration)

	bad = nySettings()
	bad.Timezone = "Mars/Olympus_Mons"
	_, err = GenerateSlots(date, bad, nil, now)
	assert.ErrorIs(t, err, ErrInvalidTimezone)

	bad = nySettings()
	bad.Buffer = -time.Minute
	_, err = GenerateSlots(date, bad, nil, now)
	assert.ErrorIs(t, err, ErrInvalidBuffer)
}
