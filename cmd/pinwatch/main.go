// Command pinwatch polls GPIO input pins, recognizes button gestures, and
// publishes the resulting events to MQTT.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/pinwatch/internal/config"
	"github.com/sweeney/pinwatch/internal/gpio"
	"github.com/sweeney/pinwatch/internal/input"
	"github.com/sweeney/pinwatch/internal/mqtt"
	"github.com/sweeney/pinwatch/internal/status"
	"github.com/sweeney/pinwatch/internal/web"
)

func main() {
	configPath := flag.String("config", "/etc/pinwatch.conf", "Path to INI configuration file")
	broker := flag.String("broker", "", "MQTT broker address (overrides config)")
	poll := flag.Duration("poll", 0, "GPIO polling interval (overrides config)")
	httpAddr := flag.String("http", "", "HTTP status address (overrides config)")
	printState := flag.Bool("print-state", false, "Print current pin levels and exit")

	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
	if *broker != "" {
		cfg.Broker = *broker
	}
	if *poll != 0 {
		cfg.Poll = *poll
	}
	if *httpAddr != "" {
		cfg.HTTPAddr = *httpAddr
	}

	if err := run(cfg, *printState); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

// provider is what run needs from a GPIO backend.
type provider interface {
	input.Provider
	Close() error
}

func newProvider(cfg *config.Config) (provider, error) {
	switch cfg.Backend {
	case "periph":
		return gpio.NewPeriph()
	default:
		return gpio.NewChip(cfg.Chip)
	}
}

func run(cfg *config.Config, printState bool) error {
	gpioProvider, err := newProvider(cfg)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer gpioProvider.Close()

	manager := input.New(gpioProvider)
	manager.Logf = log.Printf

	// Print state mode: sample once and exit.
	if printState {
		for _, pc := range cfg.Pins {
			if !manager.Add(pc.Number, pc.Mode) {
				return fmt.Errorf("add pin %d failed", pc.Number)
			}
			level, _ := manager.ReadPin(pc.Number)
			name := pc.Name
			if name == "" {
				name = "-"
			}
			fmt.Printf("pin %d (%s): %s\n", pc.Number, name, level)
		}
		return nil
	}

	tracker := status.NewTracker(time.Now(), status.Config{
		Poll:     cfg.Poll,
		Broker:   cfg.Broker,
		HTTPAddr: cfg.HTTPAddr,
		Backend:  cfg.Backend,
	})

	publisher, err := mqtt.NewRealPublisher(cfg.Broker, "pinwatch", cfg.Topic, cfg.TopicSystem)
	if err != nil {
		return fmt.Errorf("init mqtt: %w", err)
	}
	defer publisher.Close()

	if err := bindPins(manager, cfg.Pins, publisher, tracker); err != nil {
		return err
	}

	// Publish startup event with a full status snapshot.
	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	} else {
		log.Printf("published startup event")
	}

	// Start HTTP status server.
	if cfg.HTTPAddr != "" {
		srv := web.New(cfg.HTTPAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.HTTPAddr)
	}

	log.Printf("started: poll=%v broker=%s pins=%d backend=%s", cfg.Poll, cfg.Broker, len(cfg.Pins), cfg.Backend)

	ticker := time.NewTicker(cfg.Poll)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(manager, publisher, publisher, tracker, time.Now, ticker.C, sigCh)
}

// bindPins registers each configured pin with the manager and wires its
// enabled events to the publisher and the status tracker.
func bindPins(manager *input.Manager, pins []config.Pin, publisher mqtt.Publisher, tracker *status.Tracker) error {
	for _, pc := range pins {
		if !manager.Add(pc.Number, pc.Mode) {
			return fmt.Errorf("add pin %d: already registered or rejected by provider", pc.Number)
		}
		manager.SetDebounceTime(pc.Number, pc.Debounce)
		manager.SetClickParameters(pc.Number, pc.MinPress, pc.MaxPress)

		level, _ := manager.ReadPin(pc.Number)
		tracker.SetPin(pc.Number, pc.Name, level)

		cb := eventCallback(pc.Name, publisher, tracker)
		if pc.Edges {
			manager.OnChange(pc.Number, cb, pc.Delay)
			manager.OnRising(pc.Number, cb, pc.Delay)
			manager.OnFalling(pc.Number, cb, pc.Delay)
		}
		if pc.SinglePress {
			manager.OnSinglePress(pc.Number, cb, pc.Delay)
		}
		if pc.DoublePress {
			manager.OnDoublePress(pc.Number, cb, pc.Delay, pc.MaxClickInterval)
		}
		if pc.LongPress {
			manager.OnLongPress(pc.Number, cb, pc.Delay, pc.LongPressAfter, pc.RepeatLongPress)
		}
	}
	return nil
}

// eventCallback builds the callback bound to every event slot of one pin.
func eventCallback(name string, publisher mqtt.Publisher, tracker *status.Tracker) input.Callback {
	return func(pin int, newLevel, oldLevel input.Level, event input.EventType, now time.Time) {
		log.Printf("event: pin %d %s (%s -> %s)", pin, event, oldLevel, newLevel)
		tracker.SetPin(pin, name, newLevel)
		tracker.RecordEvent(event)

		err := publisher.Publish(mqtt.Event{
			Timestamp: now,
			Pin:       pin,
			Name:      name,
			Type:      event,
			NewLevel:  newLevel,
			OldLevel:  oldLevel,
		})
		if err != nil {
			// Don't crash on publish failure.
			log.Printf("publish error: %v", err)
		}
	}
}

func runLoop(manager *input.Manager, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			if mqttStatus != nil {
				tracker.SetMQTTConnected(mqttStatus.IsConnected())
			}
			snap := tracker.Snapshot()
			event := mqtt.SystemEvent{
				Timestamp:  snap.Now,
				Event:      "SHUTDOWN",
				Reason:     signalName,
				Retained:   true,
				RawPayload: status.FormatStatusEvent(snap, "SHUTDOWN", signalName),
			}
			if err := publisher.PublishSystem(event); err != nil {
				log.Printf("failed to publish shutdown event: %v", err)
			} else {
				log.Printf("published shutdown event")
			}
			return nil

		case <-tick:
			manager.Update(now())
			if mqttStatus != nil {
				tracker.SetMQTTConnected(mqttStatus.IsConnected())
			}
		}
	}
}
