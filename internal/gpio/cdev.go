//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"

	"github.com/sweeney/pinwatch/internal/input"
)

// Chip reads pins through the Linux GPIO character device.
type Chip struct {
	chip  *gpiocdev.Chip
	lines map[int]*gpiocdev.Line
}

// NewChip opens the named GPIO character device (e.g. "gpiochip0").
func NewChip(name string) (*Chip, error) {
	chip, err := gpiocdev.NewChip(name)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip %s: %w", name, err)
	}
	return &Chip{
		chip:  chip,
		lines: make(map[int]*gpiocdev.Line),
	}, nil
}

// Configure requests the line as an input with the bias implied by mode.
func (c *Chip) Configure(pin int, mode input.Mode) error {
	if _, ok := c.lines[pin]; ok {
		return fmt.Errorf("pin %d already requested", pin)
	}
	opts := []gpiocdev.LineReqOption{gpiocdev.AsInput}
	switch mode {
	case input.ModeInputPullUp:
		opts = append(opts, gpiocdev.WithPullUp)
	case input.ModeInputPullDown:
		opts = append(opts, gpiocdev.WithPullDown)
	}
	line, err := c.chip.RequestLine(pin, opts...)
	if err != nil {
		return fmt.Errorf("request pin %d: %w", pin, err)
	}
	c.lines[pin] = line
	return nil
}

// ReadLevel returns the instantaneous raw level of a configured pin.
func (c *Chip) ReadLevel(pin int) (bool, error) {
	line, ok := c.lines[pin]
	if !ok {
		return false, fmt.Errorf("pin %d not configured", pin)
	}
	v, err := line.Value()
	if err != nil {
		return false, fmt.Errorf("read pin %d: %w", pin, err)
	}
	return v != 0, nil
}

// Close releases all requested lines and the chip.
func (c *Chip) Close() error {
	var errs []error
	for pin, line := range c.lines {
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close pin %d: %w", pin, err))
		}
	}
	if err := c.chip.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close chip: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
