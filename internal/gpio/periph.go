package gpio

import (
	"fmt"
	"strconv"

	pgpio "periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/sweeney/pinwatch/internal/input"
)

// Periph reads pins through periph.io's host drivers. Pins are resolved
// by number via the periph registry, which maps bare numbers to the
// default chip on Raspberry Pi class boards.
type Periph struct {
	pins map[int]pgpio.PinIO
}

// NewPeriph initializes the periph host drivers.
func NewPeriph() (*Periph, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init periph host: %w", err)
	}
	return &Periph{pins: make(map[int]pgpio.PinIO)}, nil
}

// Configure resolves the pin and puts it in input mode with the bias
// implied by mode.
func (p *Periph) Configure(pin int, mode input.Mode) error {
	name := strconv.Itoa(pin)
	pio := gpioreg.ByName(name)
	if pio == nil {
		return fmt.Errorf("pin %s not found in periph registry", name)
	}
	pull := pgpio.Float
	switch mode {
	case input.ModeInputPullUp:
		pull = pgpio.PullUp
	case input.ModeInputPullDown:
		pull = pgpio.PullDown
	}
	if err := pio.In(pull, pgpio.NoEdge); err != nil {
		return fmt.Errorf("configure pin %d: %w", pin, err)
	}
	p.pins[pin] = pio
	return nil
}

// ReadLevel returns the instantaneous raw level of a configured pin.
func (p *Periph) ReadLevel(pin int) (bool, error) {
	pio, ok := p.pins[pin]
	if !ok {
		return false, fmt.Errorf("pin %d not configured", pin)
	}
	return bool(pio.Read()), nil
}

// Close releases nothing: periph pins need no teardown.
func (p *Periph) Close() error {
	return nil
}
