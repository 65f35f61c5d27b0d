package bus

import (
	"testing"

	"github.com/nathoo/starpilot/types"
)

func TestPublishFanOut(t *testing.T) {
	b := New()
	a := b.Subscribe()
	c := b.Subscribe()

	b.StartLabel("Colonia")

	for _, ch := range []<-chan types.Message{a, c} {
		select {
		case msg := <-ch:
			if msg.Kind != "start_label" || msg.Label != "Colonia" {
				t.Errorf("got %+v, want start_label Colonia", msg)
			}
		default:
			t.Fatal("subscriber received nothing")
		}
	}
}

func TestPublishNeverBlocks(t *testing.T) {
	b := New()
	b.Subscribe() // never drained

	// Overflow the subscriber buffer; Publish must not block.
	for i := 0; i < subscriberBuffer*2; i++ {
		b.Log("line")
	}
}

func TestStatusMirrorsSlot(t *testing.T) {
	b := New()
	ch := b.Subscribe()

	b.Status(types.StatusEvent{Level: types.LevelWarn, Code: types.CodeRouteDesync, Text: "off route"}, "route")

	ev := <-ch
	if ev.Kind != "status_event" || ev.Status.Code != types.CodeRouteDesync {
		t.Fatalf("first message = %+v, want status_event", ev)
	}
	if ev.Status.TS.IsZero() {
		t.Error("status TS not stamped")
	}
	slot := <-ch
	if slot.Kind != "status_slot" || slot.Slot.Target != "route" || slot.Slot.Color != "orange" {
		t.Errorf("slot message = %+v, want route/orange", slot)
	}
}

func TestPaletteColor(t *testing.T) {
	tests := []struct {
		level types.Level
		want  string
	}{
		{types.LevelOK, "green"},
		{types.LevelInfo, "grey"},
		{types.LevelWarn, "orange"},
		{types.LevelError, "red"},
		{types.LevelBusy, "grey"},
	}
	for _, tt := range tests {
		if got := PaletteColor(tt.level); got != tt.want {
			t.Errorf("PaletteColor(%s) = %s, want %s", tt.level, got, tt.want)
		}
	}
}
