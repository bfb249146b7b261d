// Package clock abstracts the wall clock so stores can be tested with
// deterministic timestamps.
package clock

import (
	"sync"
	"time"
)

// Clock supplies the current time to every component that stamps rows.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// System returns a Clock backed by time.Now in UTC.
func System() Clock {
	return systemClock{}
}

// Fixed is a test clock. Each call to Now returns the current instant and
// then advances it by Step, so consecutive writes get distinct, ordered
// timestamps.
type Fixed struct {
	mu      sync.Mutex
	current time.Time
	step    time.Duration
}

// NewFixed creates a Fixed clock starting at start, advancing by step per call.
func NewFixed(start time.Time, step time.Duration) *Fixed {
	return &Fixed{current: start, step: step}
}

func (f *Fixed) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := f.current
	f.current = f.current.Add(f.step)
	return now
}

// Advance moves the clock forward by d without producing a tick.
func (f *Fixed) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current = f.current.Add(d)
}
