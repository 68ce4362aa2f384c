// Package status provides a thread-safe status tracker for the pinwatch
// daemon. It is read by HTTP handlers and the lifecycle MQTT events.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/pinwatch/internal/input"
)

// PinStatus is the last observed state of one monitored pin.
type PinStatus struct {
	Pin   int
	Name  string
	Level input.Level
}

// Counts tracks fired events per kind since startup.
type Counts struct {
	Change      int
	Rising      int
	Falling     int
	SinglePress int
	DoublePress int
	LongPress   int
}

// Config contains daemon configuration for display.
type Config struct {
	Poll     time.Duration
	Broker   string
	HTTPAddr string
	Backend  string
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	Pins          []PinStatus
	Counts        Counts
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu     sync.RWMutex
	pins   []PinStatus // insertion order
	slots  map[int]int
	counts Counts
	start  time.Time
	mqtt   bool
	config Config
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		slots:  make(map[int]int),
		start:  startTime,
		config: cfg,
	}
}

// SetPin records a pin's current level, inserting it on first sight.
// Called from event callbacks and at registration.
func (t *Tracker) SetPin(pin int, name string, level input.Level) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if slot, ok := t.slots[pin]; ok {
		t.pins[slot].Level = level
		if name != "" {
			t.pins[slot].Name = name
		}
		return
	}
	t.slots[pin] = len(t.pins)
	t.pins = append(t.pins, PinStatus{Pin: pin, Name: name, Level: level})
}

// RecordEvent bumps the counter for one fired event.
func (t *Tracker) RecordEvent(e input.EventType) {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch e {
	case input.EventChange:
		t.counts.Change++
	case input.EventRising:
		t.counts.Rising++
	case input.EventFalling:
		t.counts.Falling++
	case input.EventSinglePress:
		t.counts.SinglePress++
	case input.EventDoublePress:
		t.counts.DoublePress++
	case input.EventLongPress:
		t.counts.LongPress++
	}
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.mqtt = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := Snapshot{
		Pins:          append([]PinStatus(nil), t.pins...),
		Counts:        t.counts,
		StartTime:     t.start,
		MQTTConnected: t.mqtt,
		Config:        t.config,
	}
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
