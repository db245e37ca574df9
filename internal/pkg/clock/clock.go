package clock

import (
	"sync"
	"time"
)

// Clock is an interface for time operations to enable testability.
type Clock interface {
	Now() time.Time
}

// System reads the wall clock in UTC.
type System struct{}

// NewSystem creates a new System clock.
func NewSystem() Clock {
	return System{}
}

// Now returns the current system time.
func (System) Now() time.Time {
	return time.Now().UTC()
}

// Frozen is a test clock that only moves when told to.
type Frozen struct {
	mu      sync.Mutex
	current time.Time
}

// NewFrozen creates a Frozen clock stopped at t.
func NewFrozen(t time.Time) *Frozen {
	return &Frozen{current: t}
}

// Now returns the frozen time.
func (f *Frozen) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

// Set moves the clock to t.
func (f *Frozen) Set(t time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current = t
}

// Advance moves the clock forward by d.
func (f *Frozen) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current = f.current.Add(d)
}
