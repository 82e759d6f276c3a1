// Package dates provides calendar-month arithmetic for report computation.
// All dates are normalized to midnight UTC; the engine never deals in clock
// time below day granularity.
package dates

import (
	"fmt"
	"strings"
	"time"
)

// MonthKey is a calendar month in "YYYY-MM" form, the grouping key used
// throughout the report engine.
type MonthKey string

// acceptedLayouts are tried in order when parsing an event date.
// The original data carries European dot-dates; database exports carry
// ISO dates with or without a time component.
var acceptedLayouts = []string{
	"02.01.2006",
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// Parse parses a date string against the accepted layouts.
// The result is truncated to a UTC day.
func Parse(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range acceptedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Day(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", raw)
}

// Day truncates t to midnight UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Key returns the MonthKey of t.
func Key(t time.Time) MonthKey {
	return MonthKey(t.Format("2006-01"))
}

// ParseKey parses a "YYYY-MM" month key.
func ParseKey(s string) (MonthKey, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("invalid month %q: expected YYYY-MM", s)
	}
	return Key(t), nil
}

// Start returns the first day of the key's month.
func (k MonthKey) Start() time.Time {
	t, _ := time.Parse("2006-01", string(k))
	return Day(t)
}

// End returns the last day of the key's month.
func (k MonthKey) End() time.Time {
	return k.Start().AddDate(0, 1, -1)
}

// Days returns the number of calendar days in the key's month.
func (k MonthKey) Days() int {
	return DaysBetween(k.Start(), k.Start().AddDate(0, 1, 0))
}

// Next returns the following month's key.
func (k MonthKey) Next() MonthKey {
	return Key(k.Start().AddDate(0, 1, 0))
}

// Before reports whether k's month precedes other's.
func (k MonthKey) Before(other MonthKey) bool {
	return string(k) < string(other)
}

// DaysBetween returns the whole days from a to b (negative when b precedes a).
// Both arguments are assumed day-truncated; DST cannot skew UTC days.
func DaysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

// MonthsBetween yields every month key from the month of a through the month
// of b, inclusive. Returns nil when b's month precedes a's.
func MonthsBetween(a, b time.Time) []MonthKey {
	first, last := Key(a), Key(b)
	if last.Before(first) {
		return nil
	}
	var keys []MonthKey
	for k := first; !last.Before(k); k = k.Next() {
		keys = append(keys, k)
	}
	return keys
}
