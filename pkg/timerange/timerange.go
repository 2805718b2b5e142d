// Package timerange provides the calendar arithmetic underneath slot
// generation: anchoring wall-clock times to calendar dates and slicing the
// resulting ranges into fixed-duration slots. Everything operates on UTC
// instants; timezone conversion happens only at the HTTP boundary.
package timerange

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Interval is a half-open [Start, End) span of UTC instants.
type Interval struct {
	Start time.Time
	End   time.Time
}

// ParseWallTime validates an "HH:MM" 24-hour string and returns the hour and
// minute components.
func ParseWallTime(s string) (hour, minute int, err error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid wall time %q", s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid wall time %q", s)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid wall time %q", s)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("wall time %q out of range", s)
	}
	return hour, minute, nil
}

// ResolveWallTime combines a calendar date with an "HH:MM" wall-clock time
// into a UTC instant on that date.
func ResolveWallTime(date time.Time, wallTime string) (time.Time, error) {
	hour, minute, err := ParseWallTime(wallTime)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, time.UTC), nil
}

// SliceRange cuts [start, end) into consecutive, contiguous slots of exactly
// durationMinutes each. A trailing partial slot is discarded. Returns nil when
// durationMinutes is non-positive or the range is empty or inverted.
func SliceRange(start, end time.Time, durationMinutes int) []Interval {
	if durationMinutes <= 0 || !end.After(start) {
		return nil
	}
	step := time.Duration(durationMinutes) * time.Minute
	var slots []Interval
	for cursor := start; !cursor.Add(step).After(end); cursor = cursor.Add(step) {
		slots = append(slots, Interval{Start: cursor, End: cursor.Add(step)})
	}
	return slots
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// SameDate reports whether two instants fall on the same UTC calendar day.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// TruncateToDay returns midnight UTC of the instant's calendar day.
func TruncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
