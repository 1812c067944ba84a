package tui

import "time"

// Throttle limits how often the chart is redrawn.
type Throttle struct {
	interval time.Duration
	last     time.Time
	now      func() time.Time
}

// NewThrottle returns a throttle allowing one unforced redraw per interval.
// A nil now uses time.Now.
func NewThrottle(interval time.Duration, now func() time.Time) *Throttle {
	if now == nil {
		now = time.Now
	}
	return &Throttle{interval: interval, now: now}
}

// Allow reports whether a redraw may happen now and records it if so.
// Forced redraws are always allowed.
func (t *Throttle) Allow(force bool) bool {
	now := t.now()
	if !force && !t.last.IsZero() && now.Sub(t.last) < t.interval {
		return false
	}
	t.last = now
	return true
}

// Remaining returns how long until an unforced redraw would be allowed.
func (t *Throttle) Remaining() time.Duration {
	if t.last.IsZero() {
		return 0
	}
	remaining := t.interval - t.now().Sub(t.last)
	if remaining < 0 {
		return 0
	}
	return remaining
}
