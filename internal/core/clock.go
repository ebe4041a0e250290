package core

import "time"

// Clock supplies the reference date for dashboard computation. Injecting it
// keeps every aggregation deterministic and replayable in tests.
type Clock interface {
	Today() Date
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Today() Date {
	return DateOf(time.Now())
}

// FixedClock always reports the same date.
type FixedClock struct {
	Date Date
}

func (c FixedClock) Today() Date {
	return c.Date
}
