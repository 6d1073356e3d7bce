// =============================================================================
// connect.go - Opening a Session With the Board
// =============================================================================
//
// Opening the serial port resets most ESP32 boards, so a session starts by
// waiting briefly for the firmware's greeting before the first command. The
// port stays open for the lifetime of one subcommand or one shell.
//
// =============================================================================

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/maddmann584/gif-player-v2/gifprotocol"
	"github.com/maddmann584/gif-player-v2/logger"
	"github.com/maddmann584/gif-player-v2/serialport"
)

// errNoDevice is reported when neither the flag nor the config names a port.
var errNoDevice = errors.New("no serial device selected (use --device or set [serial] device)")

// GO CONCEPT: Package-Level Function Variables as Test Seams
// ----------------------------------------------------------
// openPort is a variable holding a function, not a function declaration.
// Production code calls it like any function; a test assigns a replacement
// and restores the original in t.Cleanup. No interface is needed for a
// single call site.
//
// Compare with Swift: a `static var` closure on a type serves the same
// purpose.
//
// Compare with Python: unittest.mock.patch("module.open_port").

// openPort opens the configured serial port. Tests replace it with a
// function returning one end of a net.Pipe.
var openPort = func(ctx context.Context, cfg *serialport.Config, retries int) (serialport.Port, error) {
	return serialport.OpenWithRetry(ctx, cfg, retries)
}

// session is one open connection to a board.
type session struct {
	id     string
	port   serialport.Port
	client *gifprotocol.Client
	log    zerolog.Logger
}

// connect opens the port, reads the optional greeting and returns a ready
// session. The caller must close it.
func (a *app) connect(ctx context.Context) (*session, error) {
	device := a.cfg.Serial.Device
	if device == "" {
		return nil, &gifprotocol.PreconditionError{Op: "connect", Err: errNoDevice}
	}
	if err := checkDevice(device); err != nil {
		return nil, &gifprotocol.PreconditionError{Op: "connect", Err: err}
	}

	id := uuid.NewString()
	sessionLog := log.With().Str("session", id[:8]).Str("device", device).Logger()

	fmt.Fprintf(a.out, "Connecting to %s...\n", device)
	port, err := openPort(ctx, a.cfg.SerialConfig(), a.cfg.Serial.OpenRetries)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	trace := logger.NewTrace(a.errOut, a.cfg.Logging.Trace, a.cfg.Logging.Debug)
	opts := append(a.cfg.ClientOptions(),
		gifprotocol.WithLogger(sessionLog),
		gifprotocol.WithTrace(trace.With().Str("session", id[:8]).Logger()),
	)

	s := &session{
		id:     id,
		port:   port,
		client: gifprotocol.NewClient(port, opts...),
		log:    sessionLog,
	}
	sessionLog.Debug().Msg("Serial port open.")

	s.greet(ctx, a.out)
	return s, nil
}

// greet reads the line some firmware prints on reset. Silence is normal.
func (s *session) greet(ctx context.Context, out io.Writer) {
	line, err := s.client.Greeting(ctx)
	switch {
	case err == nil:
		fmt.Fprintf(out, "Device: %s\n", line)
	case errors.Is(err, gifprotocol.ErrTimeout):
		fmt.Fprintln(out, "No HELLO line (ok).")
	default:
		s.log.Warn().Err(err).Msg("Reading greeting failed.")
	}
}

// close releases the port.
func (s *session) close() {
	if err := s.port.Close(); err != nil {
		s.log.Debug().Err(err).Msg("Closing serial port failed.")
	}
}

// checkDevice verifies the path exists and is not a directory before the
// open is retried against it. Bare port names such as COM3 are not files
// and are left to the serial driver.
func checkDevice(path string) error {
	if !strings.ContainsAny(path, `/\`) {
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("serial device %s not found", path)
		}
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, not a serial device", path)
	}
	return nil
}
