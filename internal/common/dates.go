package common

import (
	"math"
	"strings"
	"time"
)

// isoLayouts are the ISO-8601 shapes accepted from upstream data sources.
// Values without an offset are interpreted as UTC.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseISODate parses an ISO-8601 date or timestamp. A trailing "Z" is
// accepted as UTC. Returns false for empty or unparseable input.
func ParseISODate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DaysSince returns the whole days elapsed from value to now, floored, so a
// timestamp in the future yields a negative count.
func DaysSince(value string, now time.Time) (int, bool) {
	t, ok := ParseISODate(value)
	if !ok {
		return 0, false
	}
	return int(math.Floor(now.Sub(t).Hours() / 24)), true
}

// FormatDate renders the calendar date of t in its own location
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
