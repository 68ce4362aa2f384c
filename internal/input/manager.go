package input

import "time"

// Manager owns the registered pins and drives each of them through
// debounce, gesture detection, and event dispatch on every Update.
//
// Manager is not safe for concurrent use: all calls, including Update,
// must come from a single goroutine (typically the poll loop). Setters may
// be called between Update calls; changing timing parameters while a
// gesture is mid-flight is accepted and not validated.
type Manager struct {
	provider Provider
	pins     []*pinState // insertion order; Update iterates this
	slots    map[int]int // pin number -> index into pins
	deferred []deferredEvent

	// Logf, when set, receives diagnostic messages (provider read
	// failures, deferred queue activity). Nil disables logging.
	Logf func(format string, args ...any)
}

// New creates a Manager polling pins through the given provider.
func New(provider Provider) *Manager {
	return &Manager{
		provider: provider,
		slots:    make(map[int]int),
	}
}

func (m *Manager) logf(format string, args ...any) {
	if m.Logf != nil {
		m.Logf(format, args...)
	}
}

// Add registers a pin, configures it through the provider, and samples its
// initial raw level as the starting debounced state. All timing parameters
// start at their defaults. Returns false if the pin is already registered
// or the provider refuses it.
func (m *Manager) Add(pin int, mode Mode) bool {
	if _, ok := m.slots[pin]; ok {
		return false
	}
	if err := m.provider.Configure(pin, mode); err != nil {
		m.logf("input: configure pin %d: %v", pin, err)
		return false
	}
	raw, err := m.provider.ReadLevel(pin)
	if err != nil {
		m.logf("input: initial read of pin %d: %v", pin, err)
		return false
	}
	level := levelOf(raw)
	p := &pinState{
		number:           pin,
		mode:             mode,
		state:            level,
		lastRaw:          level,
		debounce:         DefaultDebounce,
		eventsEnabled:    true,
		minPress:         DefaultMinPress,
		maxPress:         DefaultMaxPress,
		maxClickInterval: DefaultClickInterval,
		longPressAfter:   DefaultLongPress,
	}
	m.slots[pin] = len(m.pins)
	m.pins = append(m.pins, p)
	return true
}

// Remove unregisters a pin and drops any deferred events still queued for
// it. Returns false if the pin is unknown.
func (m *Manager) Remove(pin int) bool {
	slot, ok := m.slots[pin]
	if !ok {
		return false
	}
	m.pins = append(m.pins[:slot], m.pins[slot+1:]...)
	delete(m.slots, pin)
	for i := slot; i < len(m.pins); i++ {
		m.slots[m.pins[i].number] = i
	}
	kept := m.deferred[:0]
	for _, d := range m.deferred {
		if d.pin != pin {
			kept = append(kept, d)
		}
	}
	m.deferred = kept
	return true
}

// find returns the record for a pin, or nil. Every accessor and setter
// funnels through here; unknown pins report failure, never panic.
func (m *Manager) find(pin int) *pinState {
	if slot, ok := m.slots[pin]; ok {
		return m.pins[slot]
	}
	return nil
}

// IsRegistered reports whether the pin has been added.
func (m *Manager) IsRegistered(pin int) bool {
	return m.find(pin) != nil
}

// PinMode returns the mode the pin was registered with.
func (m *Manager) PinMode(pin int) (Mode, bool) {
	p := m.find(pin)
	if p == nil {
		return 0, false
	}
	return p.mode, true
}

// ReadPin returns the debounced level of the pin.
func (m *Manager) ReadPin(pin int) (Level, bool) {
	p := m.find(pin)
	if p == nil {
		return 0, false
	}
	return p.state, true
}

// SetDebounceTime changes how long a raw level must hold steady before a
// transition is committed.
func (m *Manager) SetDebounceTime(pin int, d time.Duration) bool {
	p := m.find(pin)
	if p == nil {
		return false
	}
	p.debounce = d
	return true
}

// DebounceTime returns the pin's debounce window.
func (m *Manager) DebounceTime(pin int) (time.Duration, bool) {
	p := m.find(pin)
	if p == nil {
		return 0, false
	}
	return p.debounce, true
}

// SetClickParameters sets the press duration window a release must land in
// to count as a click.
func (m *Manager) SetClickParameters(pin int, minPress, maxPress time.Duration) bool {
	p := m.find(pin)
	if p == nil {
		return false
	}
	p.minPress = minPress
	p.maxPress = maxPress
	return true
}

// on binds a callback slot. One callback per pin per event kind;
// re-registration overwrites.
func (m *Manager) on(pin int, e EventType, cb Callback, delay time.Duration) bool {
	p := m.find(pin)
	if p == nil {
		return false
	}
	p.handlers[e] = handler{fn: cb, delay: delay}
	return true
}

// OnChange registers a callback for every committed transition. A non-zero
// delay postpones delivery by that duration.
func (m *Manager) OnChange(pin int, cb Callback, delay time.Duration) bool {
	return m.on(pin, EventChange, cb, delay)
}

// OnRising registers a callback for committed LOW -> HIGH transitions.
func (m *Manager) OnRising(pin int, cb Callback, delay time.Duration) bool {
	return m.on(pin, EventRising, cb, delay)
}

// OnFalling registers a callback for committed HIGH -> LOW transitions.
func (m *Manager) OnFalling(pin int, cb Callback, delay time.Duration) bool {
	return m.on(pin, EventFalling, cb, delay)
}

// OnSinglePress registers a callback for single presses. With a
// double-press callback also registered, delivery waits out the click
// interval so the two gestures can be told apart.
func (m *Manager) OnSinglePress(pin int, cb Callback, delay time.Duration) bool {
	return m.on(pin, EventSinglePress, cb, delay)
}

// OnDoublePress registers a callback for double presses and sets the
// maximum gap between the two releases.
func (m *Manager) OnDoublePress(pin int, cb Callback, delay, maxInterval time.Duration) bool {
	p := m.find(pin)
	if p == nil {
		return false
	}
	p.handlers[EventDoublePress] = handler{fn: cb, delay: delay}
	p.maxClickInterval = maxInterval
	return true
}

// OnLongPress registers a callback for presses held at least threshold.
// With repeat set the callback fires on every tick past the threshold
// while the pin stays held; otherwise once per press.
func (m *Manager) OnLongPress(pin int, cb Callback, delay, threshold time.Duration, repeat bool) bool {
	p := m.find(pin)
	if p == nil {
		return false
	}
	p.handlers[EventLongPress] = handler{fn: cb, delay: delay}
	p.longPressAfter = threshold
	p.repeatLongPress = repeat
	return true
}

// EnableEvents re-enables edge event delivery for a pin. Gesture events
// are not affected by this gate.
func (m *Manager) EnableEvents(pin int) bool {
	p := m.find(pin)
	if p == nil {
		return false
	}
	p.eventsEnabled = true
	return true
}

// DisableEvents suppresses edge event delivery for a pin.
func (m *Manager) DisableEvents(pin int) bool {
	p := m.find(pin)
	if p == nil {
		return false
	}
	p.eventsEnabled = false
	return true
}

// EnableAllEvents re-enables edge events on every registered pin.
func (m *Manager) EnableAllEvents() {
	for _, p := range m.pins {
		p.eventsEnabled = true
	}
}

// DisableAllEvents suppresses edge events on every registered pin.
func (m *Manager) DisableAllEvents() {
	for _, p := range m.pins {
		p.eventsEnabled = false
	}
}
