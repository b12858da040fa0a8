// Package notify holds the transient notifications (toasts) shown to the user.
package notify

import (
	"sync"
	"time"
)

type Severity string

const (
	Success Severity = "success"
	Error   Severity = "error"
	Info    Severity = "info"
	Warning Severity = "warning"
)

// DefaultTTL applies when neither the caller nor the channel specify a duration.
const DefaultTTL = 4 * time.Second

type Notification struct {
	ID       int
	Message  string
	Severity Severity
}

type stopper interface {
	Stop() bool
}

// Channel is an append-then-expire list of notifications.
// Ids come from a monotonic counter and are never reused.
type Channel struct {
	ttl   time.Duration
	after func(d time.Duration, f func()) stopper

	mu     sync.Mutex
	lastID int
	active []Notification
	timers map[int]stopper
	subs   []func(Notification)
}

// NewChannel returns a channel expiring notifications after ttl (DefaultTTL when ttl <= 0).
func NewChannel(ttl time.Duration) *Channel {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Channel{
		ttl: ttl,
		after: func(d time.Duration, f func()) stopper {
			return time.AfterFunc(d, f)
		},
		timers: make(map[int]stopper),
	}
}

// OnPost registers a subscriber called synchronously for every posted notification.
func (c *Channel) OnPost(fn func(Notification)) {
	c.mu.Lock()
	c.subs = append(c.subs, fn)
	c.mu.Unlock()
}

// Post appends a notification and schedules its removal.
func (c *Channel) Post(msg string, sev Severity, ttl ...time.Duration) int {
	d := c.ttl
	if len(ttl) > 0 && ttl[0] > 0 {
		d = ttl[0]
	}

	c.mu.Lock()
	c.lastID++
	n := Notification{ID: c.lastID, Message: msg, Severity: sev}
	c.active = append(c.active, n)
	c.timers[n.ID] = c.after(d, func() { c.remove(n.ID) })
	subs := make([]func(Notification), len(c.subs))
	copy(subs, c.subs)
	c.mu.Unlock()

	for _, fn := range subs {
		fn(n)
	}
	return n.ID
}

// Dismiss removes a notification before it expires. Unknown ids are ignored.
func (c *Channel) Dismiss(id int) {
	c.mu.Lock()
	if t, ok := c.timers[id]; ok {
		t.Stop()
	}
	c.mu.Unlock()
	c.remove(id)
}

func (c *Channel) remove(id int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.timers, id)
	for i, n := range c.active {
		if n.ID == id {
			c.active = append(c.active[:i:i], c.active[i+1:]...)
			return
		}
	}
}

// List returns the active notifications, oldest first.
func (c *Channel) List() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	list := make([]Notification, len(c.active))
	copy(list, c.active)
	return list
}

func (c *Channel) Success(msg string, ttl ...time.Duration) int { return c.Post(msg, Success, ttl...) }
func (c *Channel) Error(msg string, ttl ...time.Duration) int   { return c.Post(msg, Error, ttl...) }
func (c *Channel) Info(msg string, ttl ...time.Duration) int    { return c.Post(msg, Info, ttl...) }
func (c *Channel) Warning(msg string, ttl ...time.Duration) int { return c.Post(msg, Warning, ttl...) }
