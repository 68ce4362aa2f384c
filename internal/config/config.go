// Package config loads the pinwatch daemon configuration from an INI
// file. Runtime knobs (broker, poll interval, HTTP address) can still be
// overridden by flags; the file is the only place pins are declared.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/ini.v1"

	"github.com/sweeney/pinwatch/internal/input"
)

// Defaults used when the file leaves a key out.
const (
	DefaultBroker      = "tcp://localhost:1883"
	DefaultTopic       = "pinwatch/events"
	DefaultTopicSystem = "pinwatch/system"
	DefaultPoll        = 20 * time.Millisecond
	DefaultHTTPAddr    = ":8080"
)

// Pin describes one monitored input pin and its gesture bindings.
type Pin struct {
	Number int
	Name   string
	Mode   input.Mode

	Debounce time.Duration

	// Which events get published for this pin.
	Edges       bool // CHANGE, RISING, FALLING
	SinglePress bool
	DoublePress bool
	LongPress   bool

	MinPress         time.Duration
	MaxPress         time.Duration
	MaxClickInterval time.Duration
	LongPressAfter   time.Duration
	RepeatLongPress  bool

	// Delay postpones delivery of all of this pin's events.
	Delay time.Duration
}

// Config is the daemon configuration.
type Config struct {
	Backend string // "cdev" or "periph"
	Chip    string // chardev name, cdev backend only

	Broker      string
	Topic       string
	TopicSystem string

	Poll     time.Duration
	HTTPAddr string

	// Pins in file order; registration order follows it.
	Pins []Pin
}

// Load reads and validates the INI file at path.
func Load(path string) (*Config, error) {
	f, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}

	cfg := &Config{
		Backend:     f.Section("gpio").Key("backend").MustString("cdev"),
		Chip:        f.Section("gpio").Key("chip").MustString("gpiochip0"),
		Broker:      f.Section("mqtt").Key("broker").MustString(DefaultBroker),
		Topic:       f.Section("mqtt").Key("topic").MustString(DefaultTopic),
		TopicSystem: f.Section("mqtt").Key("system_topic").MustString(DefaultTopicSystem),
		Poll:        f.Section("daemon").Key("poll").MustDuration(DefaultPoll),
		HTTPAddr:    f.Section("daemon").Key("http").MustString(DefaultHTTPAddr),
	}
	if cfg.Backend != "cdev" && cfg.Backend != "periph" {
		return nil, fmt.Errorf("unknown gpio backend %q", cfg.Backend)
	}

	for _, sec := range f.ChildSections("pin") {
		pin, err := parsePin(sec)
		if err != nil {
			return nil, err
		}
		cfg.Pins = append(cfg.Pins, pin)
	}
	if len(cfg.Pins) == 0 {
		return nil, fmt.Errorf("config %s declares no [pin.N] sections", path)
	}
	return cfg, nil
}

func parsePin(sec *ini.Section) (Pin, error) {
	numStr := strings.TrimPrefix(sec.Name(), "pin.")
	num, err := strconv.Atoi(numStr)
	if err != nil {
		return Pin{}, fmt.Errorf("section [%s]: pin number must be an integer", sec.Name())
	}

	mode, err := parseMode(sec.Key("mode").MustString("pullup"))
	if err != nil {
		return Pin{}, fmt.Errorf("section [%s]: %w", sec.Name(), err)
	}

	pin := Pin{
		Number: num,
		Name:   sec.Key("name").String(),
		Mode:   mode,

		Debounce: sec.Key("debounce").MustDuration(input.DefaultDebounce),

		Edges:       sec.Key("edges").MustBool(false),
		SinglePress: sec.Key("single").MustBool(false),
		DoublePress: sec.Key("double").MustBool(false),
		LongPress:   sec.Key("long").MustBool(false),

		MinPress:         sec.Key("min_press").MustDuration(input.DefaultMinPress),
		MaxPress:         sec.Key("max_press").MustDuration(input.DefaultMaxPress),
		MaxClickInterval: sec.Key("click_interval").MustDuration(input.DefaultClickInterval),
		LongPressAfter:   sec.Key("long_press").MustDuration(input.DefaultLongPress),
		RepeatLongPress:  sec.Key("repeat").MustBool(false),

		Delay: sec.Key("delay").MustDuration(0),
	}

	if !pin.Edges && !pin.SinglePress && !pin.DoublePress && !pin.LongPress {
		return Pin{}, fmt.Errorf("section [%s]: no events enabled (set edges/single/double/long)", sec.Name())
	}
	return pin, nil
}

func parseMode(s string) (input.Mode, error) {
	switch strings.ToLower(s) {
	case "input", "float":
		return input.ModeInput, nil
	case "pullup", "input-pullup":
		return input.ModeInputPullUp, nil
	case "pulldown", "input-pulldown":
		return input.ModeInputPullDown, nil
	}
	return 0, fmt.Errorf("unknown pin mode %q", s)
}
