package clock

import "time"

// Clock provides time operations that can be mocked for testing
type Clock interface {
	Now() time.Time
}

// Precision is the resolution timestamps are stored at. Postgres
// timestamptz keeps microseconds, so anything finer would not survive a
// round trip through that backend.
const Precision = time.Microsecond

// RealClock reads the system clock in UTC at storage precision
type RealClock struct{}

func New() *RealClock {
	return &RealClock{}
}

// Now drops the monotonic reading along with sub-microsecond digits
func (c *RealClock) Now() time.Time {
	return time.Now().UTC().Truncate(Precision)
}
