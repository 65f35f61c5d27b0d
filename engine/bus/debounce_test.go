package bus

import (
	"testing"
	"time"
)

// fakeClock lets tests advance the debouncer's clock deterministically.
type fakeClock struct {
	t time.Time
}

func (f *fakeClock) now() time.Time { return f.t }

func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestDebouncer() (*Debouncer, *fakeClock) {
	clk := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	d := NewDebouncer()
	d.now = clk.now
	return d, clk
}

func TestCanSendCooldown(t *testing.T) {
	d, clk := newTestDebouncer()

	if !d.CanSend("JR_READY", 10*time.Second, "") {
		t.Fatal("first call must pass")
	}
	if d.CanSend("JR_READY", 10*time.Second, "") {
		t.Error("second call within cooldown must fail")
	}
	clk.advance(9 * time.Second)
	if d.CanSend("JR_READY", 10*time.Second, "") {
		t.Error("call at 9s must still fail")
	}
	clk.advance(2 * time.Second)
	if !d.CanSend("JR_READY", 10*time.Second, "") {
		t.Error("call after cooldown must pass")
	}
}

func TestContextsIsolate(t *testing.T) {
	d, _ := newTestDebouncer()

	if !d.CanSend("FSS_PROGRESS", time.Minute, "Sol") {
		t.Fatal("fresh (key, ctx) must pass")
	}
	if !d.CanSend("FSS_PROGRESS", time.Minute, "Alioth") {
		t.Error("different context must not share the cooldown")
	}
	if d.CanSend("FSS_PROGRESS", time.Minute, "Sol") {
		t.Error("same context must be debounced")
	}
}

func TestReset(t *testing.T) {
	d, _ := newTestDebouncer()
	d.CanSend("ROUTE_DESYNC", time.Hour, "")
	d.Reset()
	if !d.CanSend("ROUTE_DESYNC", time.Hour, "") {
		t.Error("Reset must clear cooldowns")
	}
}
