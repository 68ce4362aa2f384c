package input

import "time"

// deferredEvent is an immutable snapshot of a delayed delivery. origin is
// the time the event was detected; delivery passes the drain time to the
// callback instead, so a delayed callback always reports when it fired.
type deferredEvent struct {
	fn       Callback
	pin      int
	newLevel Level
	oldLevel Level
	event    EventType
	origin   time.Time
	delay    time.Duration
}

// fire delivers an event through the pin's handler slot: inline when the
// slot has no delay, otherwise queued until the delay elapses. An unbound
// slot is a no-op, not an error.
func (m *Manager) fire(p *pinState, e EventType, newLevel, oldLevel Level, now time.Time) {
	h := p.handlers[e]
	if h.fn == nil {
		return
	}
	if h.delay == 0 {
		h.fn(p.number, newLevel, oldLevel, e, now)
		return
	}
	m.deferred = append(m.deferred, deferredEvent{
		fn:       h.fn,
		pin:      p.number,
		newLevel: newLevel,
		oldLevel: oldLevel,
		event:    e,
		origin:   now,
		delay:    h.delay,
	})
	m.logf("input: queued %s for pin %d, due in %v", e, p.number, h.delay)
}

// drainDeferred delivers every queued event whose delay has elapsed.
// Due entries are collected first and invoked after the scan, so a
// callback that re-enters the manager cannot disturb the queue walk.
// Entries not yet due stay queued; the queue is unbounded.
func (m *Manager) drainDeferred(now time.Time) {
	if len(m.deferred) == 0 {
		return
	}
	var due []deferredEvent
	kept := m.deferred[:0]
	for _, d := range m.deferred {
		if now.Sub(d.origin) >= d.delay {
			due = append(due, d)
		} else {
			kept = append(kept, d)
		}
	}
	m.deferred = kept
	for _, d := range due {
		d.fn(d.pin, d.newLevel, d.oldLevel, d.event, now)
	}
}

// PendingDeferred returns how many delayed deliveries are queued.
func (m *Manager) PendingDeferred() int {
	return len(m.deferred)
}
