package ui

import (
	"time"
)

// FormatClock formats a time as a wall clock in loc (e.g., "3:42 PM")
// Returns an empty string if the time is zero
func FormatClock(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format("3:04 PM")
}

// FormatTarget formats a time for the countdown attribute (RFC 3339, UTC)
func FormatTarget(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// FormatDate formats a time to "Monday, Jan 2" format
func FormatDate(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format("Monday, Jan 2")
}

// FormatInterval formats a duration for data attributes (e.g., "30s")
func FormatInterval(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	return d.Truncate(time.Second).String()
}
