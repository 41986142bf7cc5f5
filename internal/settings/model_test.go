package settings

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lunarfrog/booking-link-backend/internal/timeslot"
)

func TestDefaultIsValid(t *testing.T) {
	s := Default("owner-1")
	require.NoError(t, s.Validate())
	assert.Equal(t, "owner-1", s.OwnerID)
	assert.Equal(t, 30, s.SlotDurationMinutes)
}

func TestEngineConversion(t *testing.T) {
	s := Default("owner-1")
	s.SlotDurationMinutes = 45
	s.BufferMinutes = 15
	s.MinNoticeHours = 2

	engine := s.Engine()
	assert.Equal(t, 45*time.Minute, engine.SlotDuration)
	assert.Equal(t, 15*time.Minute, engine.Buffer)
	assert.Equal(t, 2*time.Hour, engine.MinNotice)

	// Empty-day entries are dropped, working days survive.
	assert.NotContains(t, engine.WeeklySchedule, time.Saturday)
	assert.Contains(t, engine.WeeklySchedule, time.Monday)
}

func TestValidateUnknownWeekday(t *testing.T) {
	s := Default("owner-1")
	s.WeeklySchedule["funday"] = []timeslot.ScheduleBlock{{Start: "09:00", End: "10:00"}}

	err := s.Validate()
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "funday")
}

func TestValidateBadTimezone(t *testing.T) {
	s := Default("owner-1")
	s.Timezone = "Mars/Olympus_Mons"
	assert.ErrorIs(t, s.Validate(), ErrInvalid)
}

func TestValidateBadBlock(t *testing.T) {
	s := Default("owner-1")
	s.WeeklySchedule["monday"] = []timeslot.ScheduleBlock{{Start: "17:00", End: "09:00"}}
	assert.ErrorIs(t, s.Validate(), ErrInvalid)
}
