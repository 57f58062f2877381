package domain

import "time"

// CalendarDay is one entry of the bookable window
type CalendarDay struct {
	Date   time.Time // midnight, no time component
	IsOpen bool
}

// DateStatus is what presentation renders for a calendar date
type DateStatus string

const (
	DateUnavailable DateStatus = "unavailable"
	DateAvailable   DateStatus = "available"
	DateSelected    DateStatus = "selected"
)

// TimeStatus is what presentation renders for a time slot
type TimeStatus string

const (
	TimeFull      TimeStatus = "full"
	TimeAvailable TimeStatus = "available"
	TimeSelected  TimeStatus = "selected"
)

// DateOnly drops the time-of-day component, keeping the location
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay returns true if both moments fall on the same calendar date
func SameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// DateBefore compares calendar dates only, ignoring time of day
func DateBefore(date, other time.Time) bool {
	y1, m1, d1 := date.Date()
	y2, m2, d2 := other.Date()
	return time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC).Before(time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC))
}
