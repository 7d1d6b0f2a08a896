package debounce

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTimer records its callback so the test can fire it manually,
// simulating the quiet period elapsing.
type fakeTimer struct {
	fn      func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := t.stopped
	t.stopped = true
	return !was
}

func (t *fakeTimer) fire() {
	if !t.stopped {
		t.fn()
	}
}

type fakeClock struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (c *fakeClock) factory(_ time.Duration, fn func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{fn: fn}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) fireAll() {
	c.mu.Lock()
	timers := append([]*fakeTimer(nil), c.timers...)
	c.mu.Unlock()
	for _, t := range timers {
		t.fire()
	}
}

func TestDebouncer_OnlyLastScheduledTaskFires(t *testing.T) {
	clock := &fakeClock{}
	d := NewWithFactory(300*time.Millisecond, clock.factory)

	var fired []string
	d.Schedule(func() { fired = append(fired, "first") })
	d.Schedule(func() { fired = append(fired, "second") })
	d.Schedule(func() { fired = append(fired, "third") })

	clock.fireAll()

	require.Equal(t, []string{"third"}, fired)
}

func TestDebouncer_SupersededTimerAlreadyExpiredDoesNotFire(t *testing.T) {
	clock := &fakeClock{}
	d := NewWithFactory(300*time.Millisecond, clock.factory)

	var fired []string
	d.Schedule(func() { fired = append(fired, "first") })
	first := clock.timers[0]
	// A new schedule lands between the timer expiring and its callback
	// running. The stale callback must be discarded by sequence check.
	first.stopped = false
	d.Schedule(func() { fired = append(fired, "second") })
	first.fn()

	assert.Empty(t, fired)

	clock.fireAll()
	assert.Equal(t, []string{"second"}, fired)
}

func TestDebouncer_CancelDropsPendingTask(t *testing.T) {
	clock := &fakeClock{}
	d := NewWithFactory(300*time.Millisecond, clock.factory)

	fired := false
	d.Schedule(func() { fired = true })
	d.Cancel()
	clock.fireAll()

	assert.False(t, fired)
}

func TestDebouncer_RealTimerFires(t *testing.T) {
	d := New(10 * time.Millisecond)

	done := make(chan struct{})
	d.Schedule(func() { close(done) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduled task never fired")
	}
}

func TestDebouncer_Delay(t *testing.T) {
	assert.Equal(t, 300*time.Millisecond, New(300*time.Millisecond).Delay())
}
