// Package timeutil provides a testable abstraction over time operations.
package timeutil

import "time"

// Clock abstracts the wall clock so report runs can be tested with a fixed
// "now" (model age, generated-at stamps).
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// Since returns the duration since t.
	Since(t time.Time) time.Duration
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// Since returns the time elapsed since t.
func (RealClock) Since(t time.Time) time.Duration {
	return time.Since(t)
}

// FakeClock is a Clock pinned to a fixed instant.
type FakeClock struct {
	T time.Time
}

// Now returns the pinned instant.
func (f FakeClock) Now() time.Time {
	return f.T
}

// Since returns the duration from t to the pinned instant.
func (f FakeClock) Since(t time.Time) time.Duration {
	return f.T.Sub(t)
}

// Advance moves the pinned instant forward and returns the new clock.
func (f FakeClock) Advance(d time.Duration) FakeClock {
	return FakeClock{T: f.T.Add(d)}
}
