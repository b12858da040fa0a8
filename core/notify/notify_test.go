package notify

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeTimer struct {
	d       time.Duration
	fire    func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	t.stopped = true
	return true
}

type fakeClock struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (fc *fakeClock) after(d time.Duration, f func()) stopper {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	t := &fakeTimer{d: d, fire: f}
	fc.timers = append(fc.timers, t)
	return t
}

func newTestChannel(ttl time.Duration) (*Channel, *fakeClock) {
	c := NewChannel(ttl)
	fc := &fakeClock{}
	c.after = fc.after
	return c, fc
}

func TestChannel_Post(t *testing.T) {
	c, fc := newTestChannel(0)

	id1 := c.Success("Corso creato con successo")
	id2 := c.Error("Errore durante il caricamento", time.Second)
	id3 := c.Info("info")
	id4 := c.Warning("warning")

	assert.Equal(t, []int{1, 2, 3, 4}, []int{id1, id2, id3, id4})
	assert.Equal(t, []Notification{
		{ID: 1, Message: "Corso creato con successo", Severity: Success},
		{ID: 2, Message: "Errore durante il caricamento", Severity: Error},
		{ID: 3, Message: "info", Severity: Info},
		{ID: 4, Message: "warning", Severity: Warning},
	}, c.List())

	assert.Equal(t, DefaultTTL, fc.timers[0].d)
	assert.Equal(t, time.Second, fc.timers[1].d)
}

func TestChannel_Expiry(t *testing.T) {
	c, fc := newTestChannel(2 * time.Second)

	c.Info("a")
	c.Info("b")
	assert.Equal(t, 2*time.Second, fc.timers[0].d)

	fc.timers[0].fire()
	assert.Equal(t, []Notification{{ID: 2, Message: "b", Severity: Info}}, c.List())

	// firing an already removed notification is harmless
	fc.timers[0].fire()
	assert.Len(t, c.List(), 1)

	id := c.Info("c")
	assert.Equal(t, 3, id, "ids are never reused")
}

func TestChannel_Dismiss(t *testing.T) {
	c, fc := newTestChannel(0)

	id := c.Warning("a")
	c.Dismiss(id)
	assert.Empty(t, c.List())
	assert.True(t, fc.timers[0].stopped)

	c.Dismiss(42)
	assert.Empty(t, c.List())
}

func TestChannel_OnPost(t *testing.T) {
	c, _ := newTestChannel(0)

	var got []Notification
	c.OnPost(func(n Notification) { got = append(got, n) })
	c.Success("ok")

	assert.Equal(t, []Notification{{ID: 1, Message: "ok", Severity: Success}}, got)
}

func TestChannel_RealTimer(t *testing.T) {
	c := NewChannel(10 * time.Millisecond)
	c.Info("bye")
	assert.Len(t, c.List(), 1)
	assert.Eventually(t, func() bool { return len(c.List()) == 0 }, time.Second, 5*time.Millisecond)
}
