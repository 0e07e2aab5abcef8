package clock

import (
	"sync"
	"time"
)

// Clock is the single source of "now" for game rules
type Clock interface {
	Now() time.Time
}

// Real reads the wall clock in UTC
type Real struct{}

// Now returns the current UTC time
func (Real) Now() time.Time { return time.Now().UTC() }

// Func adapts a plain function to a Clock
type Func func() time.Time

// Now calls f
func (f Func) Now() time.Time { return f() }

// Manual is a controllable clock for tests and replays
type Manual struct {
	mu  sync.Mutex
	now time.Time
}

// NewManual returns a manual clock frozen at start
func NewManual(start time.Time) *Manual {
	return &Manual{now: start.UTC()}
}

// Now returns the frozen time
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves the clock forward by d
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}

// Set jumps the clock to t
func (m *Manual) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t.UTC()
}
