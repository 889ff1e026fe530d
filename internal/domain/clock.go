package domain

import "time"

// Clock supplies the current calendar date to date-sensitive pricing.
type Clock interface {
	Today() Date
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() Date

func (f ClockFunc) Today() Date { return f() }

// SystemClock reads the local wall clock on every call.
var SystemClock Clock = ClockFunc(func() Date {
	return DateOf(time.Now())
})

// FixedClock always reports the same day.
func FixedClock(today Date) Clock {
	return ClockFunc(func() Date { return today })
}
