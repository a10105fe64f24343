package fov

import "time"

// Clock supplies the current time to schedules.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns time.Now.
func (SystemClock) Now() time.Time { return time.Now() }

// Periodic is a polled schedule. The first run falls one interval after the
// first poll; a zero interval is due on every poll.
type Periodic struct {
	interval time.Duration
	next     time.Time
	started  bool
}

// NewPeriodic returns a schedule firing every interval; negatives clamp to zero.
func NewPeriodic(interval time.Duration) *Periodic {
	if interval < 0 {
		interval = 0
	}
	return &Periodic{interval: interval}
}

// Interval returns the configured period.
func (p *Periodic) Interval() time.Duration { return p.interval }

// Due reports whether a run is owed at now and, if so, books the next one.
// Missed periods collapse into a single run.
func (p *Periodic) Due(now time.Time) bool {
	if !p.started {
		p.started = true
		p.next = now.Add(p.interval)
		return p.interval == 0
	}
	if now.Before(p.next) {
		return false
	}
	p.next = p.next.Add(p.interval)
	if !p.next.After(now) {
		p.next = now.Add(p.interval)
	}
	return true
}

// Reset forgets past runs; the next poll starts a fresh period.
func (p *Periodic) Reset() {
	p.started = false
	p.next = time.Time{}
}
