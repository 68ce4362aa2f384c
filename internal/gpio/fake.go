package gpio

import (
	"errors"

	"github.com/sweeney/pinwatch/internal/input"
)

// Fake is a test double with settable per-pin levels.
type Fake struct {
	// Levels holds the current raw level reported for each pin.
	Levels map[int]bool

	// Modes records the mode each pin was configured with.
	Modes map[int]input.Mode

	// ConfigureError, if set, is returned by Configure.
	ConfigureError error

	// ReadError, if set, is returned by ReadLevel.
	ReadError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFake creates a Fake with no pins configured.
func NewFake() *Fake {
	return &Fake{
		Levels: make(map[int]bool),
		Modes:  make(map[int]input.Mode),
	}
}

// Configure records the pin mode. The pin's level starts high (idle for a
// pull-up wired button) unless Set was called first.
func (f *Fake) Configure(pin int, mode input.Mode) error {
	if f.ConfigureError != nil {
		return f.ConfigureError
	}
	f.Modes[pin] = mode
	if _, ok := f.Levels[pin]; !ok {
		f.Levels[pin] = true
	}
	return nil
}

// Set changes the raw level the fake reports for a pin.
func (f *Fake) Set(pin int, level bool) {
	f.Levels[pin] = level
}

// ReadLevel returns the scripted level for the pin.
func (f *Fake) ReadLevel(pin int) (bool, error) {
	if f.ReadError != nil {
		return false, f.ReadError
	}
	level, ok := f.Levels[pin]
	if !ok {
		return false, errors.New("pin not configured")
	}
	return level, nil
}

// Close marks the fake as closed.
func (f *Fake) Close() error {
	f.Closed = true
	return nil
}
