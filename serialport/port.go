// Package serialport opens the serial link to a GIF player board.
package serialport

import (
	"errors"
	"io"
	"time"
)

// ErrPortClosed is returned by operations on a port after Close.
var ErrPortClosed = errors.New("serial port closed")

// Port represents a serial port.
// The gifprotocol package only needs io.ReadWriter; Close and Flush stay with
// the caller that opened the port.
type Port interface {
	io.ReadWriteCloser

	// Flush discards data received but not yet read.
	Flush() error
}

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyUSB0", "COM3")
	Device string

	// Baud rate (the firmware is fixed at 115200)
	Baud int

	// ReadTimeout bounds a single Read. Zero blocks, which would defeat the
	// line reader's timeouts.
	ReadTimeout time.Duration
}

// DefaultConfig returns the configuration the GIF player firmware expects.
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        115200,
		ReadTimeout: 100 * time.Millisecond,
	}
}
