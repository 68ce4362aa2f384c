// Package input turns noisy, regularly sampled pin levels into a clean
// stream of debounced edge and button gesture events.
// This package has NO external dependencies (no GPIO, MQTT, OS, or
// time.Sleep). Time is always injectable via time.Time parameters.
package input

import "time"

// Level is the debounced logical level of a pin.
type Level int

const (
	Low  Level = iota // pressed, for pull-up wired buttons
	High              // released
)

func (l Level) String() string {
	if l == High {
		return "HIGH"
	}
	return "LOW"
}

// Mode selects how a pin is configured at registration time.
type Mode int

const (
	ModeInput Mode = iota
	ModeInputPullUp
	ModeInputPullDown
)

func (m Mode) String() string {
	switch m {
	case ModeInputPullUp:
		return "input-pullup"
	case ModeInputPullDown:
		return "input-pulldown"
	}
	return "input"
}

// EventType identifies what a callback is being invoked for.
type EventType int

const (
	EventChange EventType = iota // any committed transition
	EventRising                  // LOW -> HIGH
	EventFalling                 // HIGH -> LOW
	EventSinglePress
	EventDoublePress
	EventLongPress
	numEventTypes
)

func (e EventType) String() string {
	switch e {
	case EventChange:
		return "CHANGE"
	case EventRising:
		return "RISING"
	case EventFalling:
		return "FALLING"
	case EventSinglePress:
		return "SINGLE_PRESS"
	case EventDoublePress:
		return "DOUBLE_PRESS"
	case EventLongPress:
		return "LONG_PRESS"
	}
	return "UNKNOWN"
}

// Callback receives a fired event. now is the delivery time: for delayed
// handlers it is when the callback actually ran, not when the underlying
// event was detected.
type Callback func(pin int, newLevel, oldLevel Level, event EventType, now time.Time)

// Provider is the GPIO capability the manager polls. Real implementations
// live in internal/gpio; tests use a fake.
type Provider interface {
	// Configure sets up a pin as an input with the requested bias.
	Configure(pin int, mode Mode) error

	// ReadLevel returns the instantaneous raw level of the pin.
	ReadLevel(pin int) (bool, error)
}

// Timing defaults applied by Add.
const (
	DefaultDebounce      = 50 * time.Millisecond
	DefaultMinPress      = 50 * time.Millisecond
	DefaultMaxPress      = 300 * time.Millisecond
	DefaultClickInterval = 300 * time.Millisecond
	DefaultLongPress     = time.Second
)

// handler is one callback slot with its optional delivery delay.
// Re-registration overwrites the slot.
type handler struct {
	fn    Callback
	delay time.Duration
}

// pinState is the per-pin record. It is owned exclusively by the Manager
// and mutated only during Update and by the configuration setters.
type pinState struct {
	number int
	mode   Mode

	state      Level // debounced, authoritative
	lastRaw    Level // last raw sample, pre-debounce
	lastBounce time.Time
	debounce   time.Duration

	eventsEnabled bool
	handlers      [numEventTypes]handler

	minPress         time.Duration
	maxPress         time.Duration
	maxClickInterval time.Duration
	longPressAfter   time.Duration
	repeatLongPress  bool

	pressStart     time.Time // zero = no open press episode
	lastClick      time.Time
	clicks         int // pending click count, 0..2
	longPressFired bool
}

func levelOf(raw bool) Level {
	if raw {
		return High
	}
	return Low
}
