package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Clock supplies the current time. Tests inject a fake one.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Limiter decides whether one more request may pass in the current window.
type Limiter interface {
	Allow(ctx context.Context) (Decision, error)
}

// windowStart aligns t to the fixed interval boundary containing it.
func windowStart(t time.Time, window time.Duration) time.Time {
	return t.Truncate(window)
}

// FixedWindow is a process-wide, caller-independent fixed-window counter.
// The counter resets whenever the clock crosses a window boundary.
type FixedWindow struct {
	clock  Clock
	limit  int
	window time.Duration

	mu    sync.Mutex
	start time.Time
	count int
}

// NewFixedWindow allows at most limit requests per window.
func NewFixedWindow(limit int, window time.Duration, clock Clock) *FixedWindow {
	if clock == nil {
		clock = SystemClock
	}
	return &FixedWindow{clock: clock, limit: limit, window: window}
}

func (f *FixedWindow) Allow(_ context.Context) (Decision, error) {
	now := f.clock.Now()
	ws := windowStart(now, f.window)

	f.mu.Lock()
	defer f.mu.Unlock()

	if !ws.Equal(f.start) {
		f.start = ws
		f.count = 0
	}

	d := Decision{Limit: f.limit, ResetAt: ws.Add(f.window)}
	if f.count >= f.limit {
		return d, nil
	}
	f.count++
	d.Allowed = true
	d.Remaining = f.limit - f.count
	return d, nil
}
