// Package bus implements the single in-process fan-out queue between the
// core and its external consumers (log, TTS, overlay, UI tables), plus the
// per-key debouncer applied at the emission boundary.
package bus

import (
	"sync"
	"time"

	"github.com/nathoo/starpilot/types"
)

// subscriberBuffer is the per-consumer channel depth. A consumer that falls
// this far behind starts losing messages rather than blocking producers.
const subscriberBuffer = 256

// Bus fans every published message out to all subscribers. Producers never
// block: a full subscriber channel drops the message for that subscriber
// only.
type Bus struct {
	mu   sync.Mutex
	subs []chan types.Message
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{}
}

// Subscribe registers a new consumer and returns its receive channel.
func (b *Bus) Subscribe() <-chan types.Message {
	ch := make(chan types.Message, subscriberBuffer)
	b.mu.Lock()
	b.subs = append(b.subs, ch)
	b.mu.Unlock()
	return ch
}

// Publish delivers msg to every subscriber, dropping it for any whose
// buffer is full.
func (b *Bus) Publish(msg types.Message) {
	b.mu.Lock()
	subs := b.subs
	b.mu.Unlock()
	for _, ch := range subs {
		select {
		case ch <- msg:
		default:
		}
	}
}

// StartLabel announces a system change to all consumers.
func (b *Bus) StartLabel(system string) {
	b.Publish(types.Message{Kind: "start_label", Label: system})
}

// Status publishes a status event and mirrors it to the named UI slot with
// the palette color for its level.
func (b *Bus) Status(ev types.StatusEvent, uiTarget string) {
	if ev.TS.IsZero() {
		ev.TS = time.Now()
	}
	b.Publish(types.Message{Kind: "status_event", Status: &ev})
	if uiTarget != "" {
		b.Publish(types.Message{Kind: "status_slot", Slot: &types.UISlot{
			Target: uiTarget,
			Text:   ev.Text,
			Color:  PaletteColor(ev.Level),
		}})
	}
}

// Ship publishes the full ship-state snapshot.
func (b *Bus) Ship(snap types.ShipSnapshot) {
	b.Publish(types.Message{Kind: "ship_state", Ship: &snap})
}

// Log publishes a diagnostic line.
func (b *Bus) Log(line string) {
	b.Publish(types.Message{Kind: "log", Log: line})
}

// PaletteColor maps a status level to the UI color contract.
func PaletteColor(level types.Level) string {
	switch level {
	case types.LevelOK:
		return "green"
	case types.LevelWarn:
		return "orange"
	case types.LevelError:
		return "red"
	default: // INFO, BUSY
		return "grey"
	}
}
