package serialport

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockDevice mimics *serial.Port: an empty read reports io.EOF.
type mockDevice struct {
	input   []byte
	written []byte
	closes  int
	flushes int
}

func (m *mockDevice) Read(b []byte) (int, error) {
	if len(m.input) == 0 {
		return 0, io.EOF
	}
	n := copy(b, m.input)
	m.input = m.input[n:]
	return n, nil
}

func (m *mockDevice) Write(b []byte) (int, error) {
	m.written = append(m.written, b...)
	return len(b), nil
}

func (m *mockDevice) Close() error {
	m.closes++
	return nil
}

func (m *mockDevice) Flush() error {
	m.flushes++
	m.input = nil
	return nil
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("/dev/ttyUSB0")
	assert.Equal(t, "/dev/ttyUSB0", cfg.Device)
	assert.Equal(t, 115200, cfg.Baud)
	assert.Equal(t, 100*time.Millisecond, cfg.ReadTimeout)
}

func TestOpenRejectsBadConfig(t *testing.T) {
	_, err := Open(nil)
	assert.Error(t, err)

	_, err = Open(&Config{Baud: 115200})
	assert.Error(t, err)
}

func TestOpenMissingDevice(t *testing.T) {
	_, err := Open(DefaultConfig("/dev/does-not-exist-gifdeck"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/dev/does-not-exist-gifdeck")
}

func TestNativePortReadTimeoutIsNotEOF(t *testing.T) {
	dev := &mockDevice{input: []byte("OK\n")}
	p := newNativePort(dev, DefaultConfig("mock"))

	buf := make([]byte, 16)
	n, err := p.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "OK\n", string(buf[:n]))

	n, err = p.Read(buf)
	assert.NoError(t, err, "an expired read timeout must not look like EOF")
	assert.Zero(t, n)
}

func TestNativePortClose(t *testing.T) {
	dev := &mockDevice{}
	p := newNativePort(dev, DefaultConfig("mock"))

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
	assert.Equal(t, 1, dev.closes)

	_, err := p.Read(make([]byte, 1))
	assert.ErrorIs(t, err, io.EOF)

	_, err = p.Write([]byte("LIST\n"))
	assert.ErrorIs(t, err, ErrPortClosed)

	assert.ErrorIs(t, p.Flush(), ErrPortClosed)
}

func TestNativePortWriteAndFlush(t *testing.T) {
	dev := &mockDevice{input: []byte("stale")}
	p := newNativePort(dev, DefaultConfig("mock"))

	_, err := p.Write([]byte("LIST\n"))
	require.NoError(t, err)
	assert.Equal(t, "LIST\n", string(dev.written))

	require.NoError(t, p.Flush())
	assert.Equal(t, 1, dev.flushes)
	assert.Empty(t, dev.input)
	assert.Equal(t, "mock", p.Device())
}

func withOpener(t *testing.T, open func(*Config) (Port, error)) {
	t.Helper()
	orig := openPort
	openPort = open
	t.Cleanup(func() { openPort = orig })
}

func TestOpenWithRetrySucceedsAfterFailures(t *testing.T) {
	calls := 0
	withOpener(t, func(cfg *Config) (Port, error) {
		calls++
		if calls < 3 {
			return nil, errors.New("no such device")
		}
		return newNativePort(&mockDevice{}, cfg), nil
	})

	port, err := OpenWithRetry(context.Background(), DefaultConfig("mock"), 5)
	require.NoError(t, err)
	require.NotNil(t, port)
	assert.Equal(t, 3, calls)
}

func TestOpenWithRetryGivesUp(t *testing.T) {
	calls := 0
	withOpener(t, func(*Config) (Port, error) {
		calls++
		return nil, errors.New("no such device")
	})

	_, err := OpenWithRetry(context.Background(), DefaultConfig("mock"), 1)
	require.EqualError(t, err, "no such device")
	assert.Equal(t, 2, calls)
}

func TestOpenWithRetryNoRetries(t *testing.T) {
	calls := 0
	withOpener(t, func(*Config) (Port, error) {
		calls++
		return nil, errors.New("busy")
	})

	_, err := OpenWithRetry(context.Background(), DefaultConfig("mock"), 0)
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestOpenWithRetryContextCancelled(t *testing.T) {
	withOpener(t, func(*Config) (Port, error) {
		return nil, errors.New("busy")
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := OpenWithRetry(ctx, DefaultConfig("mock"), 10)
	assert.ErrorIs(t, err, context.Canceled)
}
