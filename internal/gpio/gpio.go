// Package gpio provides GPIO providers for the input manager.
// The chardev implementation uses the Linux GPIO character device, the
// periph implementation resolves pins through periph.io's host drivers,
// and the fake allows testing without hardware.
package gpio

// DefaultChip is the GPIO character device most boards expose.
const DefaultChip = "gpiochip0"
