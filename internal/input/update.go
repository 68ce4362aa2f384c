package input

import "time"

// Update runs one scheduler tick at the given time: every registered pin
// is sampled, debounced, and checked for gestures, in insertion order,
// then due deferred events are delivered once for the whole batch.
// now must be monotonically non-decreasing across calls; the caller owns
// the cadence (50ms or faster recommended).
func (m *Manager) Update(now time.Time) {
	for _, p := range m.pins {
		raw, err := m.provider.ReadLevel(p.number)
		if err != nil {
			m.logf("input: read pin %d: %v", p.number, err)
			continue
		}
		level := levelOf(raw)

		// Any raw movement restarts the stability timer.
		if level != p.lastRaw {
			p.lastBounce = now
		}

		// Strictly greater-than: a sample becomes stable on the tick
		// after the window elapses, not exactly at it.
		if now.Sub(p.lastBounce) > p.debounce && level != p.state {
			m.commit(p, level, now)
		}
		p.lastRaw = level

		m.detectGestures(p, now)
	}
	m.drainDeferred(now)
}

// commit applies a debounced transition and fires the edge events.
func (m *Manager) commit(p *pinState, level Level, now time.Time) {
	old := p.state
	p.state = level

	// The only place a new press episode is opened. The pending click
	// count saturates at 2; the classifier only distinguishes 1 vs 2.
	if p.state == Low && old == High {
		p.pressStart = now
		if p.clicks < 2 {
			p.clicks++
		}
	}

	if !p.eventsEnabled {
		return
	}
	m.fire(p, EventChange, p.state, old, now)
	if p.state == High && old == Low {
		m.fire(p, EventRising, p.state, old, now)
	}
	if p.state == Low && old == High {
		m.fire(p, EventFalling, p.state, old, now)
	}
}

// detectGestures classifies press/release timing into single, double, and
// long presses. Gesture events ignore the eventsEnabled gate; only edge
// events respect it.
func (m *Manager) detectGestures(p *pinState, now time.Time) {
	// Long press: checked on every tick while the pin is held and a
	// press episode is open.
	if p.state == Low && p.handlers[EventLongPress].fn != nil && !p.pressStart.IsZero() {
		if now.Sub(p.pressStart) >= p.longPressAfter {
			if p.repeatLongPress || !p.longPressFired {
				m.fire(p, EventLongPress, p.state, p.state, now)
				p.longPressFired = true
			}
		}
	} else {
		p.longPressFired = false
	}

	// Release: close the open press episode and classify it.
	if p.state == High && !p.pressStart.IsZero() {
		held := now.Sub(p.pressStart)
		switch {
		case held >= p.minPress && held <= p.maxPress:
			m.classifyClick(p, now)
			p.lastClick = now
		case held > p.maxPress:
			// Too long to be a click; discard the pending sequence.
			p.clicks = 0
		}
		// Sub-minimum presses fall through untouched: the pending
		// count is neither consumed nor reset.
		p.pressStart = time.Time{}
	}

	// A first click whose second click never arrived resolves to a
	// single press once the interval expires. This is the only path out
	// of the waiting state.
	if p.state == High && p.clicks == 1 && p.handlers[EventDoublePress].fn != nil && p.pressStart.IsZero() {
		if now.Sub(p.lastClick) > p.maxClickInterval {
			m.fire(p, EventSinglePress, p.state, p.state, now)
			p.clicks = 0
		}
	}
}

// classifyClick handles a release that landed inside the valid click
// duration window.
func (m *Manager) classifyClick(p *pinState, now time.Time) {
	if p.clicks == 2 && p.handlers[EventDoublePress].fn != nil {
		if now.Sub(p.lastClick) <= p.maxClickInterval {
			m.fire(p, EventDoublePress, p.state, p.state, now)
			p.clicks = 0
			return
		}
		// The gap between the clicks expired: the earlier click was a
		// single press and this release starts a new sequence.
		m.fire(p, EventSinglePress, p.state, p.state, now)
		p.clicks = 1
		return
	}
	if p.clicks == 1 && p.handlers[EventDoublePress].fn == nil {
		m.fire(p, EventSinglePress, p.state, p.state, now)
		p.clicks = 0
	}
	// One click with a double-press handler registered: hold out for a
	// second click, the timeout path in detectGestures resolves it.
}
