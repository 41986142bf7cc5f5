package timeslot

import (
	"sort"
	"time"
)

// DefaultMergeTolerance is the maximum gap between two busy intervals that is
// still treated as contiguous when merging. It prevents back-to-back meetings
// from leaving unbookable one-minute slivers between them.
const DefaultMergeTolerance = time.Minute

// Interval is a half-open time range [Start, End). It is source-agnostic:
// an interval may come from an external calendar event or a confirmed booking.
type Interval struct {
	Start time.Time
	End   time.Time
}

// IsValid reports whether the interval has positive length.
func (i Interval) IsValid() bool {
	return i.Start.Before(i.End)
}

// Overlaps reports whether two half-open intervals share any instant.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && i.End.After(other.Start)
}

// Merge consolidates busy intervals from heterogeneous sources into a minimal
// disjoint set, sorted ascending by start. Intervals whose gap is at most
// tolerance are coalesced. Invalid (zero or negative length) intervals are
// dropped. Merge is idempotent and insensitive to input order.
func Merge(intervals []Interval, tolerance time.Duration) []Interval {
	if tolerance < 0 {
		tolerance = 0
	}

	valid := make([]Interval, 0, len(intervals))
	for _, iv := range intervals {
		if iv.IsValid() {
			valid = append(valid, iv)
		}
	}
	if len(valid) == 0 {
		return nil
	}

	sort.Slice(valid, func(a, b int) bool {
		if valid[a].Start.Equal(valid[b].Start) {
			return valid[a].End.Before(valid[b].End)
		}
		return valid[a].Start.Before(valid[b].Start)
	})

	merged := make([]Interval, 0, len(valid))
	current := valid[0]

	for _, next := range valid[1:] {
		if !next.Start.After(current.End.Add(tolerance)) {
			if next.End.After(current.End) {
				current.End = next.End
			}
			continue
		}
		merged = append(merged, current)
		current = next
	}
	merged = append(merged, current)

	return merged
}

// OverlapsAny reports whether the interval overlaps at least one of the given
// ranges. The ranges do not need to be merged or sorted.
func (i Interval) OverlapsAny(ranges []Interval) bool {
	for _, r := range ranges {
		if i.Overlaps(r) {
			return true
		}
	}
	return false
}
