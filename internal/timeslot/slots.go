package timeslot

import (
	"sort"
	"time"
)

// Slot is a fixed-duration candidate booking unit produced by tiling a
// working window. Times are absolute UTC instants. Busy means the slot
// overlaps a busy interval; Available additionally requires the slot to be
// in the future and outside the minimum-notice window.
type Slot struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Available bool      `json:"available"`
	Busy      bool      `json:"busy"`
}

// GenerateSlots tiles the weekly-schedule blocks for the civil date (its
// year/month/day, interpreted in the owner's timezone) into consecutive slots
// of SlotDuration, advancing by SlotDuration+Buffer, with no partial trailing
// slot. Slot boundaries are computed as wall-clock times in the owner's
// timezone and converted to UTC instants, so DST transitions land where the
// owner's clock says they do.
//
// Slots are schedule-bound: a weekday with no blocks yields no slots, and
// busy time only marks slots unavailable inside the schedule.
func GenerateSlots(date time.Time, settings Settings, busy []Interval, now time.Time) ([]Slot, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	loc, err := settings.Location()
	if err != nil {
		return nil, err
	}

	year, month, day := date.Date()
	weekday := time.Date(year, month, day, 0, 0, 0, 0, loc).Weekday()

	blocks := append([]ScheduleBlock(nil), settings.WeeklySchedule[weekday]...)
	if len(blocks) == 0 {
		return nil, nil
	}
	sort.Slice(blocks, func(a, b int) bool {
		ma, _ := parseClock(blocks[a].Start)
		mb, _ := parseClock(blocks[b].Start)
		return ma < mb
	})

	merged := Merge(busy, DefaultMergeTolerance)
	step := settings.SlotDuration + settings.Buffer
	earliest := now.Add(settings.MinNotice)

	var slots []Slot
	for _, block := range blocks {
		startMin, err := parseClock(block.Start)
		if err != nil {
			return nil, err
		}
		endMin, err := parseClock(block.End)
		if err != nil {
			return nil, err
		}

		windowStart := time.Date(year, month, day, startMin/60, startMin%60, 0, 0, loc)
		windowEnd := time.Date(year, month, day, endMin/60, endMin%60, 0, 0, loc)

		for cur := windowStart; !cur.Add(settings.SlotDuration).After(windowEnd); cur = cur.Add(step) {
			slot := Interval{Start: cur, End: cur.Add(settings.SlotDuration)}

			isPast := slot.Start.Before(now)
			tooSoon := slot.Start.Before(earliest)
			isBusy := slot.OverlapsAny(merged)

			slots = append(slots, Slot{
				Start:     slot.Start.UTC(),
				End:       slot.End.UTC(),
				Busy:      isBusy,
				Available: !isPast && !tooSoon && !isBusy,
			})
		}
	}

	return slots, nil
}
