// Package notify provides the non-blocking, auto-dismissing user
// notification channel shared by the controller and the TUI. It is a
// small pub/sub: the controller publishes, the view subscribes and
// renders toasts until they expire.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Severity classifies a notification for rendering.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notification is a single user-facing, auto-dismissing message.
type Notification struct {
	ID       string
	Title    string
	Message  string
	Severity Severity
	Time     time.Time
}

// Notifier is the emit side of the notification channel. Notify never
// blocks and never alters control flow.
type Notifier interface {
	Notify(title, message string, severity Severity)
}

// Center is the default Notifier: it keeps the active (not yet
// expired) notifications and fans new ones out to subscribers.
type Center struct {
	mu     sync.Mutex
	ttl    time.Duration
	active []Notification
	subs   []chan Notification
	now    func() time.Time
}

// DefaultTTL is how long a toast stays visible.
const DefaultTTL = 4 * time.Second

// NewCenter returns a center whose notifications dismiss after ttl.
// A non-positive ttl falls back to DefaultTTL.
func NewCenter(ttl time.Duration) *Center {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Center{ttl: ttl, now: time.Now}
}

// Notify publishes a notification. Subscribers with a full buffer are
// skipped rather than blocked.
func (c *Center) Notify(title, message string, severity Severity) {
	n := Notification{
		ID:       uuid.NewString(),
		Title:    title,
		Message:  message,
		Severity: severity,
		Time:     c.now(),
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.prune(n.Time)
	c.active = append(c.active, n)
	for _, sub := range c.subs {
		select {
		case sub <- n:
		default:
		}
	}
}

// Subscribe returns a channel receiving every future notification.
func (c *Center) Subscribe() <-chan Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan Notification, 16)
	c.subs = append(c.subs, ch)
	return ch
}

// Active returns the notifications that have not expired yet, oldest
// first.
func (c *Center) Active() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.prune(c.now())
	out := make([]Notification, len(c.active))
	copy(out, c.active)
	return out
}

// prune drops expired notifications. Caller holds the lock.
func (c *Center) prune(now time.Time) {
	kept := c.active[:0]
	for _, n := range c.active {
		if now.Sub(n.Time) < c.ttl {
			kept = append(kept, n)
		}
	}
	c.active = kept
}

// TTL returns the configured dismiss interval.
func (c *Center) TTL() time.Duration {
	return c.ttl
}
