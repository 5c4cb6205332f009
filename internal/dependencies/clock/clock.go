// Package clock abstracts wall-clock time so controllers and sessions can be
// tested against a fixed, advanceable clock.
package clock

import "time"

// Clock provides the current time
type Clock interface {
	Now() time.Time
	// After waits for d to elapse and delivers the time on the returned channel
	After(d time.Duration) <-chan time.Time
}

// RealClock reads the system clock
type RealClock struct{}

// New creates a RealClock
func New() *RealClock {
	return &RealClock{}
}

// Now returns the current system time
func (c *RealClock) Now() time.Time {
	return time.Now()
}

// After waits on a real timer
func (c *RealClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}
