// Package interval holds the half-open time range arithmetic every admission
// and occupancy decision is made with. A range [start, end) includes start and
// excludes end, so a range ending at 11:00 and one starting at 11:00 do not overlap.
package interval

import "time"

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) share at least one instant.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// Contains reports whether at falls inside [start, end).
func Contains(start, end, at time.Time) bool {
	return !at.Before(start) && at.Before(end)
}

// Valid reports whether [start, end) is a non-empty forward range.
func Valid(start, end time.Time) bool {
	return start.Before(end)
}
