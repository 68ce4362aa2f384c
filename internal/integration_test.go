package internal

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sweeney/pinwatch/internal/gpio"
	"github.com/sweeney/pinwatch/internal/input"
	"github.com/sweeney/pinwatch/internal/mqtt"
	"github.com/sweeney/pinwatch/internal/status"
)

var base = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func at(ms int) time.Time {
	return base.Add(time.Duration(ms) * time.Millisecond)
}

// publishCallback wires a pin callback to the publisher and tracker the way
// the daemon does.
func publishCallback(name string, publisher mqtt.Publisher, tracker *status.Tracker) input.Callback {
	return func(pin int, newLevel, oldLevel input.Level, event input.EventType, now time.Time) {
		if tracker != nil {
			tracker.SetPin(pin, name, newLevel)
			tracker.RecordEvent(event)
		}
		publisher.Publish(mqtt.Event{
			Timestamp: now,
			Pin:       pin,
			Name:      name,
			Type:      event,
			NewLevel:  newLevel,
			OldLevel:  oldLevel,
		})
	}
}

// TestIntegrationSinglePressToMQTT drives one button press from the fake
// GPIO through the manager and verifies the published MQTT event.
func TestIntegrationSinglePressToMQTT(t *testing.T) {
	fake := gpio.NewFake()
	publisher := mqtt.NewFakePublisher()
	tracker := status.NewTracker(base, status.Config{Broker: "tcp://localhost:1883"})

	manager := input.New(fake)
	if !manager.Add(17, input.ModeInputPullUp) {
		t.Fatal("Add failed")
	}
	manager.OnSinglePress(17, publishCallback("doorbell", publisher, tracker), 0)

	// Press: falls at t=10 (committed at 70), rises at t=80 (committed at
	// 140, held 70ms).
	manager.Update(at(0))
	fake.Set(17, false)
	manager.Update(at(10))
	manager.Update(at(70))
	fake.Set(17, true)
	manager.Update(at(80))
	manager.Update(at(140))

	if len(publisher.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(publisher.Events))
	}
	e := publisher.Events[0]
	if e.Pin != 17 || e.Name != "doorbell" || e.Type != input.EventSinglePress {
		t.Errorf("event: %+v", e)
	}
	// Gesture events carry the settled level in both fields.
	if e.NewLevel != input.High || e.OldLevel != input.High {
		t.Errorf("levels: %s / %s", e.NewLevel, e.OldLevel)
	}
	if !e.Timestamp.Equal(at(140)) {
		t.Errorf("timestamp: %v", e.Timestamp)
	}

	var parsed mqtt.Payload
	if err := json.Unmarshal(publisher.Payloads[0], &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if parsed.Input.Event != "SINGLE_PRESS" || parsed.Input.Name != "doorbell" {
		t.Errorf("payload: %+v", parsed.Input)
	}

	snap := tracker.Snapshot()
	if snap.Counts.SinglePress != 1 {
		t.Errorf("tracker counts: %+v", snap.Counts)
	}
	if len(snap.Pins) != 1 || snap.Pins[0].Level != input.High {
		t.Errorf("tracker pins: %+v", snap.Pins)
	}
}

// TestIntegrationEdgeAndGestureOrder verifies the order of the full event
// stream for one press with edge and gesture callbacks bound.
func TestIntegrationEdgeAndGestureOrder(t *testing.T) {
	fake := gpio.NewFake()
	publisher := mqtt.NewFakePublisher()

	manager := input.New(fake)
	manager.Add(17, input.ModeInputPullUp)
	cb := publishCallback("", publisher, nil)
	manager.OnChange(17, cb, 0)
	manager.OnRising(17, cb, 0)
	manager.OnFalling(17, cb, 0)
	manager.OnSinglePress(17, cb, 0)

	fake.Set(17, false)
	manager.Update(at(10))
	manager.Update(at(70))
	fake.Set(17, true)
	manager.Update(at(80))
	manager.Update(at(140))

	want := []input.EventType{
		input.EventChange, input.EventFalling,
		input.EventChange, input.EventRising,
		input.EventSinglePress,
	}
	if len(publisher.Events) != len(want) {
		t.Fatalf("expected %d events, got %d", len(want), len(publisher.Events))
	}
	for i, w := range want {
		if publisher.Events[i].Type != w {
			t.Errorf("event %d: expected %s, got %s", i, w, publisher.Events[i].Type)
		}
	}
}

// TestIntegrationDoublePress verifies two quick clicks publish exactly one
// DOUBLE_PRESS and no SINGLE_PRESS.
func TestIntegrationDoublePress(t *testing.T) {
	fake := gpio.NewFake()
	publisher := mqtt.NewFakePublisher()

	manager := input.New(fake)
	manager.Add(17, input.ModeInputPullUp)
	cb := publishCallback("doorbell", publisher, nil)
	manager.OnSinglePress(17, cb, 0)
	manager.OnDoublePress(17, cb, 0, 300*time.Millisecond)

	// Two clicks: 10-80 and 150-220, second release committed at 280.
	fake.Set(17, false)
	manager.Update(at(10))
	manager.Update(at(70))
	fake.Set(17, true)
	manager.Update(at(80))
	manager.Update(at(140))
	fake.Set(17, false)
	manager.Update(at(150))
	manager.Update(at(210))
	fake.Set(17, true)
	manager.Update(at(220))
	manager.Update(at(280))

	if len(publisher.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(publisher.Events))
	}
	if publisher.Events[0].Type != input.EventDoublePress {
		t.Errorf("expected DOUBLE_PRESS, got %s", publisher.Events[0].Type)
	}
	if !publisher.Events[0].Timestamp.Equal(at(280)) {
		t.Errorf("timestamp: %v", publisher.Events[0].Timestamp)
	}
}

// TestIntegrationPublishFailureDoesNotStopPolling verifies a broker outage
// never breaks gesture detection.
func TestIntegrationPublishFailureDoesNotStopPolling(t *testing.T) {
	fake := gpio.NewFake()
	publisher := mqtt.NewFakePublisher()
	publisher.PublishError = errors.New("broker down")

	manager := input.New(fake)
	manager.Add(17, input.ModeInputPullUp)
	manager.OnSinglePress(17, publishCallback("", publisher, nil), 0)

	press := func(downMs, upMs int) {
		fake.Set(17, false)
		manager.Update(at(downMs))
		manager.Update(at(downMs + 60))
		fake.Set(17, true)
		manager.Update(at(upMs))
		manager.Update(at(upMs + 60))
	}

	press(10, 80)
	if len(publisher.Events) != 0 {
		t.Fatalf("events recorded despite publish error: %d", len(publisher.Events))
	}

	publisher.PublishError = nil
	press(1000, 1070)
	if len(publisher.Events) != 1 {
		t.Fatalf("expected 1 event after recovery, got %d", len(publisher.Events))
	}
}

// TestIntegrationLifecycleEvents verifies the STARTUP/SHUTDOWN sequence
// carries a status snapshot in the payload.
func TestIntegrationLifecycleEvents(t *testing.T) {
	publisher := mqtt.NewFakePublisher()
	tracker := status.NewTracker(base, status.Config{
		Poll:    20 * time.Millisecond,
		Broker:  "tcp://localhost:1883",
		Backend: "cdev",
	})
	tracker.SetPin(17, "doorbell", input.High)

	snap := tracker.Snapshot()
	startup := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startup); err != nil {
		t.Fatalf("startup publish: %v", err)
	}

	tracker.RecordEvent(input.EventSinglePress)
	snap = tracker.Snapshot()
	shutdown := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "SHUTDOWN",
		Reason:     "SIGTERM",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "SHUTDOWN", "SIGTERM"),
	}
	if err := publisher.PublishSystem(shutdown); err != nil {
		t.Fatalf("shutdown publish: %v", err)
	}

	if len(publisher.SystemEvents) != 2 {
		t.Fatalf("expected 2 system events, got %d", len(publisher.SystemEvents))
	}
	if publisher.SystemEvents[0].Event != "STARTUP" || publisher.SystemEvents[1].Event != "SHUTDOWN" {
		t.Errorf("order: %s, %s", publisher.SystemEvents[0].Event, publisher.SystemEvents[1].Event)
	}
	if !publisher.SystemEvents[0].Retained || !publisher.SystemEvents[1].Retained {
		t.Error("lifecycle events should be retained")
	}

	var parsed struct {
		System struct {
			Event  string `json:"event"`
			Reason string `json:"reason"`
			Pins   []struct {
				Pin int `json:"pin"`
			} `json:"pins"`
			Counts struct {
				SinglePress int `json:"single_press"`
			} `json:"event_counts"`
		} `json:"system"`
	}
	if err := json.Unmarshal(publisher.SystemPayloads[1], &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if parsed.System.Event != "SHUTDOWN" || parsed.System.Reason != "SIGTERM" {
		t.Errorf("payload: %+v", parsed.System)
	}
	if len(parsed.System.Pins) != 1 || parsed.System.Pins[0].Pin != 17 {
		t.Errorf("payload pins: %+v", parsed.System.Pins)
	}
	if parsed.System.Counts.SinglePress != 1 {
		t.Errorf("payload counts: %+v", parsed.System.Counts)
	}
}
