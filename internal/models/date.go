package models

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar date format used at every boundary.
const DateLayout = "2006-01-02"

// ParseGameDate parses a YYYY-MM-DD date. Malformed input is an
// ErrInvalidRequest, never coerced.
func ParseGameDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: date is required", ErrInvalidRequest)
	}
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: malformed date %q", ErrInvalidRequest, s)
	}
	return d, nil
}

// TruncateDate drops the time of day, keeping the calendar date in UTC.
func TruncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDate renders a date in DateLayout.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
