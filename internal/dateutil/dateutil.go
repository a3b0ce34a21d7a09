package dateutil

import "time"

// All delegation date math is day-granular. Dates are normalized to UTC
// midnight so DaysBetween is an exact whole-day count regardless of the
// wall-clock time the operation ran at.

// Date builds a UTC-midnight date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DateOnly truncates t to UTC midnight.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AddDays returns the date n days after t (n may be negative).
func AddDays(t time.Time, n int) time.Time {
	return DateOnly(t).AddDate(0, 0, n)
}

// DaysBetween returns the signed whole-day count from a to b.
// DaysBetween(2024-01-01, 2024-01-10) == 9.
func DaysBetween(a, b time.Time) int {
	return int(DateOnly(b).Sub(DateOnly(a)).Hours() / 24)
}

// DaysUntil is DaysBetween(today, t); negative means t has passed.
func DaysUntil(today, t time.Time) int {
	return DaysBetween(today, t)
}

// Clock supplies "today". Every mutating operation reads it exactly once so
// all derived dates within one operation agree.
type Clock interface {
	Today() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Today() time.Time {
	return DateOnly(time.Now())
}

// FixedClock pins today for tests.
type FixedClock struct {
	Date time.Time
}

func (c FixedClock) Today() time.Time {
	return DateOnly(c.Date)
}
