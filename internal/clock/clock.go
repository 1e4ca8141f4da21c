// Package clock provides the wall clock used to stamp records.
package clock

import "time"

// System implements service.Clock using time.Now.
type System struct{}

// New creates a new System clock.
func New() *System {
	return &System{}
}

// Now returns the current UTC time truncated to microseconds, the precision PostgreSQL keeps.
func (System) Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
