// Package animation drives a simulation from a frame scheduler: one tick per
// frame opportunity, strictly sequential, with resizes applied between ticks.
package animation

import (
	"sync"
	"time"
)

// Scheduler delivers frame opportunities. A frame that arrives while the
// previous one is still being processed is dropped rather than queued.
type Scheduler interface {
	// Start begins delivering frames on the returned channel.
	Start() <-chan time.Time
	// Stop deregisters the scheduler. No frames are delivered afterwards.
	Stop()
}

// Interval is a wall-clock scheduler firing at a fixed period.
type Interval struct {
	period time.Duration
	ticker *time.Ticker
}

var _ Scheduler = (*Interval)(nil)

// NewInterval returns a scheduler firing every period.
func NewInterval(period time.Duration) *Interval {
	if period <= 0 {
		period = time.Second / 60
	}
	return &Interval{period: period}
}

// Start implements Scheduler.
func (i *Interval) Start() <-chan time.Time {
	i.ticker = time.NewTicker(i.period)
	return i.ticker.C
}

// Stop implements Scheduler.
func (i *Interval) Stop() {
	if i.ticker != nil {
		i.ticker.Stop()
	}
}

// Manual is a scheduler advanced by hand, for offline rendering and tests.
type Manual struct {
	frames chan time.Time
	done   chan struct{}
	once   sync.Once
}

var _ Scheduler = (*Manual)(nil)

// NewManual returns a scheduler which only fires on Step.
func NewManual() *Manual {
	return &Manual{
		frames: make(chan time.Time),
		done:   make(chan struct{}),
	}
}

// Start implements Scheduler.
func (m *Manual) Start() <-chan time.Time {
	return m.frames
}

// Stop implements Scheduler.
func (m *Manual) Stop() {
	m.once.Do(func() { close(m.done) })
}

// Step delivers one frame and blocks until the loop accepted it.
// It returns false once the scheduler has been stopped.
func (m *Manual) Step() bool {
	select {
	case m.frames <- time.Now():
		return true
	case <-m.done:
		return false
	}
}
