// Package debounce provides a single-slot delayed-task scheduler: each
// Schedule cancels any pending task before installing the new one, so
// during a burst only the last scheduled task ever fires.
package debounce

import (
	"sync"
	"time"
)

// Timer is the subset of *time.Timer the debouncer needs. It exists so
// tests can simulate time instead of sleeping.
type Timer interface {
	Stop() bool
}

// TimerFactory creates a timer that fires fn after d. The default
// factory wraps time.AfterFunc.
type TimerFactory func(d time.Duration, fn func()) Timer

func afterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// Debouncer delays a task until a quiet period has elapsed since the
// last Schedule call. Safe for concurrent use.
type Debouncer struct {
	mu       sync.Mutex
	delay    time.Duration
	newTimer TimerFactory
	pending  Timer
	seq      uint64
}

// New returns a debouncer with the given quiet period.
func New(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay, newTimer: afterFunc}
}

// NewWithFactory returns a debouncer using a custom timer factory.
func NewWithFactory(delay time.Duration, factory TimerFactory) *Debouncer {
	return &Debouncer{delay: delay, newTimer: factory}
}

// Schedule installs fn to run after the quiet period, superseding any
// previously scheduled task. A superseded task never fires, even if its
// timer already expired and its callback is racing for the lock.
func (d *Debouncer) Schedule(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pending != nil {
		d.pending.Stop()
	}
	d.seq++
	seq := d.seq
	d.pending = d.newTimer(d.delay, func() {
		d.mu.Lock()
		if seq != d.seq {
			d.mu.Unlock()
			return
		}
		d.pending = nil
		d.mu.Unlock()
		fn()
	})
}

// Cancel drops any pending task without running it.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pending != nil {
		d.pending.Stop()
		d.pending = nil
	}
	d.seq++
}

// Delay returns the configured quiet period.
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}
