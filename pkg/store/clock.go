package store

import "time"

// Clock supplies the current time. Every store operation reads it once.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in a fixed location
type SystemClock struct {
	Location *time.Location // nil means time.Local
}

// Now returns the current time in the clock's location
func (c SystemClock) Now() time.Time {
	loc := c.Location
	if loc == nil {
		loc = time.Local
	}
	return time.Now().In(loc)
}

// FixedClock always returns the same instant
type FixedClock struct {
	T time.Time
}

// Now returns the fixed instant
func (c FixedClock) Now() time.Time {
	return c.T
}

// calendarDay is a date in a specific location
type calendarDay struct {
	year  int
	month time.Month
	day   int
}

func dayOf(t time.Time) calendarDay {
	y, m, d := t.Date()
	return calendarDay{y, m, d}
}

// dayOfUnix converts a Unix timestamp to a calendar day in now's location, so that
// both sides of a comparison always use the same zone.
func dayOfUnix(unix int64, now time.Time) calendarDay {
	return dayOf(time.Unix(unix, 0).In(now.Location()))
}

func (a calendarDay) before(b calendarDay) bool {
	if a.year != b.year {
		return a.year < b.year
	}
	if a.month != b.month {
		return a.month < b.month
	}
	return a.day < b.day
}

// OnDay reports whether the Unix timestamp falls on the calendar day of now.
func OnDay(unix int64, now time.Time) bool {
	return dayOfUnix(unix, now) == dayOf(now)
}

// BeforeDay reports whether the Unix timestamp falls on a calendar day before now's.
func BeforeDay(unix int64, now time.Time) bool {
	return dayOfUnix(unix, now).before(dayOf(now))
}
