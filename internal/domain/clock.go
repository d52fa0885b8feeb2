package domain

import "time"

// Clock supplies the current time to date-window checks (offer validity,
// cancellation deadlines, hold expiry). Injected so tests can pin "today".
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock backed by time.Now in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// FixedClock always returns the same instant. Test helper.
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time { return c.T }

// Date truncates t to midnight UTC. Booking date ranges are whole-day
// half-open intervals, so every comparison happens at date granularity.
func Date(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
