package insights

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// DayLayout is the calendar-date format used by every stored record.
const DayLayout = "2006-01-02"

// ClockLayout is the time-of-day format of calendar events.
const ClockLayout = "15:04"

// DayKey formats t as a calendar date in t's location.
func DayKey(t time.Time) string {
	return t.Format(DayLayout)
}

// ParseDay parses a YYYY-MM-DD date as midnight in loc. A full RFC 3339
// datetime is also accepted and reduced to its date in loc.
func ParseDay(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(DayLayout, s, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want %s", s, DayLayout)
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
}

// NormalizeDay returns the YYYY-MM-DD form of a stored date string.
func NormalizeDay(s string, loc *time.Location) (string, error) {
	t, err := ParseDay(s, loc)
	if err != nil {
		return "", err
	}
	return DayKey(t), nil
}

// At combines a date and an optional HH:MM clock time into an instant in loc.
// An empty clock means midnight.
func At(day, clock string, loc *time.Location) (time.Time, error) {
	d, err := ParseDay(day, loc)
	if err != nil {
		return time.Time{}, err
	}
	clock = strings.TrimSpace(clock)
	if clock == "" {
		return d, nil
	}
	c, err := time.Parse(ClockLayout, clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: want HH:MM", clock)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), c.Hour(), c.Minute(), 0, 0, d.Location()), nil
}

// FilterByDateRange keeps the items whose date falls in [from, to], both ends
// inclusive at day granularity, ordered by date ascending. Items with equal
// dates keep their input order. Items whose date does not parse are dropped.
func FilterByDateRange[T any](items []T, dateOf func(T) string, from, to time.Time) []T {
	lo, hi := DayKey(from), DayKey(to)
	loc := from.Location()

	type dated struct {
		key  string
		item T
	}
	matched := make([]dated, 0, len(items))
	for _, item := range items {
		key, err := NormalizeDay(dateOf(item), loc)
		if err != nil {
			continue
		}
		if key >= lo && key <= hi {
			matched = append(matched, dated{key: key, item: item})
		}
	}

	slices.SortStableFunc(matched, func(a, b dated) int {
		return strings.Compare(a.key, b.key)
	})

	out := make([]T, len(matched))
	for i, m := range matched {
		out[i] = m.item
	}
	return out
}
