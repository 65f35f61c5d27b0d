package bus

import (
	"sync"
	"time"
)

// Debouncer enforces per-key cooldowns on emitted messages. Contexts
// isolate otherwise-identical keys, e.g. FSS thresholds per system. It has
// no timers; it is a stateless lookup evaluated on demand.
type Debouncer struct {
	mu   sync.Mutex
	last map[debounceKey]time.Time
	now  func() time.Time
}

type debounceKey struct {
	key     string
	context string
}

// NewDebouncer creates an empty debouncer.
func NewDebouncer() *Debouncer {
	return &Debouncer{last: make(map[debounceKey]time.Time), now: time.Now}
}

// CanSend reports whether (key, context) is outside its cooldown. The first
// call for a fresh pair returns true and starts the cooldown.
func (d *Debouncer) CanSend(key string, cooldown time.Duration, context string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	k := debounceKey{key: key, context: context}
	now := d.now()
	if last, ok := d.last[k]; ok && now.Sub(last) < cooldown {
		return false
	}
	d.last[k] = now
	return true
}

// Reset forgets every cooldown. Used when a new route or system makes the
// previous announcements stale.
func (d *Debouncer) Reset() {
	d.mu.Lock()
	d.last = make(map[debounceKey]time.Time)
	d.mu.Unlock()
}
