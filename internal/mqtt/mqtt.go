// Package mqtt provides MQTT publishing with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/pinwatch/internal/input"
)

// Event is one fired pin event, ready for publishing.
type Event struct {
	Timestamp time.Time
	Pin       int
	Name      string // configured pin name, may be empty
	Type      input.EventType
	NewLevel  input.Level
	OldLevel  input.Level
}

// Publisher publishes pin events to a broker.
type Publisher interface {
	// Publish sends a pin event to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(event Event) error

	// PublishSystem sends a daemon lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a daemon lifecycle event (startup, shutdown).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // "STARTUP", "SHUTDOWN"
	Reason     string // e.g. "SIGTERM" (shutdown only)
	RawPayload []byte // pre-formatted payload; if set it is sent as-is
	Retained   bool   // whether the broker should retain the message
}

// Payload is the MQTT message payload for a pin event.
type Payload struct {
	Input PinPayload `json:"input"`
}

// PinPayload contains the pin event details.
type PinPayload struct {
	Timestamp string `json:"timestamp"`
	Pin       int    `json:"pin"`
	Name      string `json:"name,omitempty"`
	Event     string `json:"event"`
	Level     string `json:"level"`
	Previous  string `json:"previous"`
}

// FormatPayload creates the JSON payload for a pin event.
func FormatPayload(event Event) ([]byte, error) {
	payload := Payload{
		Input: PinPayload{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Pin:       event.Pin,
			Name:      event.Name,
			Event:     event.Type.String(),
			Level:     event.NewLevel.String(),
			Previous:  event.OldLevel.String(),
		},
	}
	return json.Marshal(payload)
}

// SystemPayload is the MQTT message payload for simple lifecycle events
// that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the lifecycle event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a lifecycle event.
// If event.RawPayload is set, it is returned directly (used for full
// status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
