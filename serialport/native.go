package serialport

import (
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/tarm/serial"
)

// device is the subset of *serial.Port the adapter uses.
type device interface {
	io.ReadWriteCloser
	Flush() error
}

// NativePort wraps the tarm/serial implementation.
type NativePort struct {
	port   device
	cfg    *Config
	closed atomic.Bool
}

// Open opens a native serial port (8N1).
func Open(cfg *Config) (Port, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.Device == "" {
		return nil, fmt.Errorf("no serial device given")
	}

	serialConfig := &serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: cfg.ReadTimeout,
		Size:        8,
		Parity:      serial.ParityNone,
		StopBits:    serial.Stop1,
	}

	port, err := serial.OpenPort(serialConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", cfg.Device, err)
	}

	return newNativePort(port, cfg), nil
}

func newNativePort(port device, cfg *Config) *NativePort {
	return &NativePort{port: port, cfg: cfg}
}

// Device returns the path the port was opened on.
func (p *NativePort) Device() string {
	return p.cfg.Device
}

// Read reads data from the serial port.
//
// tarm/serial reports an expired read timeout as (0, io.EOF). That is turned
// into (0, nil) so callers can tell "nothing yet" from a port that is gone;
// after Close, Read returns io.EOF. A USB device that hangs up produces the
// same (0, io.EOF), so until Close it reads as silence.
func (p *NativePort) Read(b []byte) (int, error) {
	if p.closed.Load() {
		return 0, io.EOF
	}

	n, err := p.port.Read(b)
	if errors.Is(err, io.EOF) {
		if p.closed.Load() {
			return n, io.EOF
		}
		return n, nil
	}
	return n, err
}

// Write writes data to the serial port
func (p *NativePort) Write(b []byte) (int, error) {
	if p.closed.Load() {
		return 0, ErrPortClosed
	}
	return p.port.Write(b)
}

// Close closes the serial port. Closing twice is a no-op.
func (p *NativePort) Close() error {
	if p.closed.Swap(true) {
		return nil
	}
	return p.port.Close()
}

// Flush discards unread input.
func (p *NativePort) Flush() error {
	if p.closed.Load() {
		return ErrPortClosed
	}
	return p.port.Flush()
}
