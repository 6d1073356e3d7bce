package gifprotocol

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	// readBufferSize is the most bytes taken from the stream per read.
	readBufferSize = 256

	// decodeBufferSize is the scratch space for one decode pass.
	decodeBufferSize = 1024

	// MaxLineLength is the maximum number of undelimited bytes buffered
	// before ReadLine gives up on the stream's framing.
	MaxLineLength = 64 * 1024
)

// ErrLineTooLong indicates the device sent MaxLineLength bytes without a
// line terminator. The buffered text is discarded.
var ErrLineTooLong = errors.New("line too long")

// readDeadliner is implemented by streams whose reads can be bounded by a
// deadline (net.Conn, pollable *os.File).
type readDeadliner interface {
	SetReadDeadline(t time.Time) error
}

// LineChannel frames a raw duplex byte stream into newline-delimited text
// lines.
//
// Received bytes are decoded as UTF-8 incrementally: a multi-byte sequence
// split across two reads is held back until it is complete. Text that
// follows the last terminator stays buffered across calls, including calls
// that time out.
//
// LineChannel is not safe for concurrent use; Client serialises access.
type LineChannel struct {
	stream io.ReadWriter

	decoder *encoding.Decoder
	pending []byte // raw bytes of an incomplete UTF-8 sequence
	text    []byte // decoded text not yet returned as a line

	readBuf []byte
	scratch []byte

	trace zerolog.Logger
}

// NewLineChannel wraps stream. Every line received and every text written
// is reported to trace; pass zerolog.Nop() to disable.
func NewLineChannel(stream io.ReadWriter, trace zerolog.Logger) *LineChannel {
	return &LineChannel{
		stream:  stream,
		decoder: unicode.UTF8.NewDecoder(),
		readBuf: make([]byte, readBufferSize),
		scratch: make([]byte, decodeBufferSize),
		trace:   trace,
	}
}

// ReadLine returns the next line from the stream with the terminator and
// surrounding whitespace removed.
//
// A line that is already buffered is returned without touching the stream.
// Otherwise ReadLine alternates bounded reads and re-scans until a line is
// complete, the stream ends (ErrStreamClosed) or more than timeout has
// elapsed since the call began (ErrTimeout). The elapsed time is checked
// between reads, so the budget holds however many reads it takes.
func (c *LineChannel) ReadLine(ctx context.Context, timeout time.Duration) (string, error) {
	start := time.Now()
	deadline := start.Add(timeout)

	for {
		if line, ok := c.nextLine(); ok {
			c.trace.Info().Msgf("RX: %s", line)
			return line, nil
		}

		if len(c.text) > MaxLineLength {
			c.text = c.text[:0]
			return "", ErrLineTooLong
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if time.Since(start) > timeout {
			return "", fmt.Errorf("%w after %v", ErrTimeout, timeout)
		}

		if err := c.fill(deadline); err != nil {
			return "", err
		}
	}
}

// nextLine splits the first complete line off the buffer.
func (c *LineChannel) nextLine() (string, bool) {
	idx := bytes.IndexByte(c.text, '\n')
	if idx < 0 {
		return "", false
	}
	line := strings.TrimSpace(string(c.text[:idx]))
	c.text = c.text[idx+1:]
	return line, true
}

// fill performs one bounded read and decodes whatever arrived.
func (c *LineChannel) fill(deadline time.Time) error {
	if d, ok := c.stream.(readDeadliner); ok {
		// Streams that cannot take a deadline fall back to their own read
		// timeout.
		_ = d.SetReadDeadline(deadline)
	}

	n, err := c.stream.Read(c.readBuf)
	if n > 0 {
		c.decode(c.readBuf[:n])
	}

	switch {
	case err == nil:
		return nil
	case isTimeout(err):
		return nil
	case errors.Is(err, io.EOF):
		if n > 0 {
			return nil
		}
		return ErrStreamClosed
	default:
		return NewIOError("read", err)
	}
}

// decode appends p to the text buffer, holding back any trailing bytes that
// do not yet form a complete UTF-8 sequence.
func (c *LineChannel) decode(p []byte) {
	c.pending = append(c.pending, p...)
	for len(c.pending) > 0 {
		nDst, nSrc, err := c.decoder.Transform(c.scratch, c.pending, false)
		c.text = append(c.text, c.scratch[:nDst]...)
		c.pending = c.pending[nSrc:]
		if err != transform.ErrShortDst {
			// nil, or ErrShortSrc for an incomplete sequence
			break
		}
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}

// WriteText writes s as-is; the caller supplies any line terminator.
func (c *LineChannel) WriteText(s string) error {
	c.trace.Info().Msgf("TX: %s", strings.TrimRight(s, "\r\n"))
	return c.write([]byte(s))
}

// WriteBytes writes raw payload bytes with no framing or encoding.
func (c *LineChannel) WriteBytes(p []byte) error {
	c.trace.Debug().Int("bytes", len(p)).Msg("TX: <payload>")
	return c.write(p)
}

func (c *LineChannel) write(p []byte) error {
	for len(p) > 0 {
		n, err := c.stream.Write(p)
		if err != nil {
			return NewIOError("write", err)
		}
		if n == 0 {
			return NewIOError("write", io.ErrShortWrite)
		}
		p = p[n:]
	}
	return nil
}

// Buffered returns the number of decoded bytes not yet consumed as lines.
func (c *LineChannel) Buffered() int {
	return len(c.text)
}

// Reset discards all buffered input. Used when the device context changes.
func (c *LineChannel) Reset() {
	c.text = c.text[:0]
	c.pending = c.pending[:0]
	c.decoder.Reset()
}
