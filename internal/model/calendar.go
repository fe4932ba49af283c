package model

import (
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// Reservation dates and times are wall-clock values of the café with no
// timezone attached.  They are parsed, stored and compared as civil
// values so that a UTC database session never shifts a date across
// midnight.

var (
	// StartOfDay is the implicit lower bound of a time-of-day range.
	StartOfDay = civil.Time{Hour: 0, Minute: 0, Second: 0}
	// EndOfDay is the implicit upper bound of a time-of-day range.
	EndOfDay = civil.Time{Hour: 23, Minute: 59, Second: 59}
)

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(raw string) (civil.Date, error) {
	d, err := civil.ParseDate(strings.TrimSpace(raw))
	if err != nil || !d.IsValid() {
		return civil.Date{}, InvalidArgumentf("invalid date %q, want YYYY-MM-DD", raw)
	}
	return d, nil
}

// ParseTimeOfDay parses HH:MM or HH:MM:SS.  Fractional seconds are dropped.
func ParseTimeOfDay(raw string) (civil.Time, error) {
	s := strings.TrimSpace(raw)
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return civil.Time{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}, nil
		}
	}
	if t, err := civil.ParseTime(s); err == nil {
		t.Nanosecond = 0
		return t, nil
	}
	return civil.Time{}, InvalidArgumentf("invalid time %q, want HH:MM or HH:MM:SS", raw)
}

// Today returns the calendar date at the current instant in loc.
func Today(loc *time.Location) civil.Date {
	if loc == nil {
		loc = time.UTC
	}
	return civil.DateOf(time.Now().In(loc))
}
