package countdown

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// TargetAttribute is the element attribute carrying the next event timestamp.
const TargetAttribute = "data-next-prayer-time"

var (
	// ErrMissingTarget indicates the element has no timestamp yet.
	ErrMissingTarget = errors.New("countdown: no target timestamp")
	// ErrMalformedTarget indicates the timestamp could not be parsed.
	ErrMalformedTarget = errors.New("countdown: malformed target timestamp")
)

// Layouts tried in order. Layouts without an offset are read in the caller's location.
var targetLayouts = []struct {
	layout string
	zoned  bool
}{
	{time.RFC3339Nano, true},
	{"2006-01-02 15:04:05.999999999Z07:00", true},
	{"2006-01-02T15:04Z07:00", true},
	{"2006-01-02 15:04Z07:00", true},
	{"2006-01-02T15:04:05.999999999", false},
	{"2006-01-02 15:04:05.999999999", false},
	{"2006-01-02T15:04", false},
	{"2006-01-02 15:04", false},
}

// ParseTarget parses an ISO-8601-like timestamp. Date-times without an offset are
// interpreted in loc (time.Local when nil); a bare date is midnight UTC.
func ParseTarget(raw string, loc *time.Location) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, ErrMissingTarget
	}
	// The T separator and Z designator are case-insensitive.
	s = strings.ToUpper(s)
	if loc == nil {
		loc = time.Local
	}

	for _, l := range targetLayouts {
		var (
			t   time.Time
			err error
		)
		if l.zoned {
			t, err = time.Parse(l.layout, s)
		} else {
			t, err = time.ParseInLocation(l.layout, s, loc)
		}
		if err == nil {
			return t, nil
		}
	}

	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedTarget, raw)
}

// Remaining returns target minus now truncated to whole milliseconds.
func Remaining(target, now time.Time) time.Duration {
	return target.Sub(now).Truncate(time.Millisecond)
}

// Format renders a remaining duration as "1h 30m" or "45m". Non-positive durations
// render as "0m" and the sub-minute remainder is dropped.
func Format(remaining time.Duration) string {
	if remaining <= 0 {
		return "0m"
	}

	hours := remaining / time.Hour
	minutes := (remaining % time.Hour) / time.Minute

	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// RenderOnce reads the timestamp from attr on el and writes the formatted remaining
// time. On ErrMissingTarget or ErrMalformedTarget the element is left untouched.
func RenderOnce(el Element, attr string, now time.Time, loc *time.Location) (string, error) {
	raw, ok := el.Attribute(attr)
	if !ok || strings.TrimSpace(raw) == "" {
		return "", ErrMissingTarget
	}

	target, err := ParseTarget(raw, loc)
	if err != nil {
		return "", err
	}

	text := Format(Remaining(target, now))
	el.SetText(text)
	return text, nil
}
