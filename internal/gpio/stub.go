//go:build !linux

package gpio

import (
	"errors"

	"github.com/sweeney/pinwatch/internal/input"
)

// Chip is not available on non-Linux platforms.
type Chip struct{}

// NewChip returns an error on non-Linux platforms.
func NewChip(name string) (*Chip, error) {
	return nil, errors.New("gpio: character device not supported on this platform (requires Linux)")
}

// Configure is not implemented on non-Linux platforms.
func (c *Chip) Configure(pin int, mode input.Mode) error {
	return errors.New("gpio: not supported")
}

// ReadLevel is not implemented on non-Linux platforms.
func (c *Chip) ReadLevel(pin int) (bool, error) {
	return false, errors.New("gpio: not supported")
}

// Close is not implemented on non-Linux platforms.
func (c *Chip) Close() error {
	return nil
}
