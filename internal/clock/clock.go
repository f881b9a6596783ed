// Package clock injects time into the lifecycle rules so date-dependent
// behavior (eligibility windows, expiry arithmetic, trend ranges) is
// deterministic in tests.
package clock

import "time"

type Clock interface {
	// Now returns the current wall-clock time.
	Now() time.Time
	// Today returns the current calendar day at midnight.
	Today() time.Time
}

type realClock struct{}

func New() Clock { return realClock{} }

func (realClock) Now() time.Time { return time.Now() }

func (realClock) Today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// Fixed is a Clock pinned to a single instant, for tests.
type Fixed struct {
	T time.Time
}

func (f Fixed) Now() time.Time { return f.T }

func (f Fixed) Today() time.Time {
	return time.Date(f.T.Year(), f.T.Month(), f.T.Day(), 0, 0, 0, 0, f.T.Location())
}
