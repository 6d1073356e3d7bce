package gifprotocol

import (
	"time"

	"github.com/rs/zerolog"
)

// Config holds the client configuration.
type Config struct {
	// CommandTimeout bounds each line read of LIST, PLAY and DEL.
	CommandTimeout time.Duration

	// UploadTimeout bounds the READY, ACK and completion reads.
	UploadTimeout time.Duration

	// HelloTimeout bounds the optional greeting read.
	HelloTimeout time.Duration

	// ChunkSize is the maximum payload per upload chunk.
	ChunkSize int

	// SettleDelay is the pause between READY and the first chunk.
	SettleDelay time.Duration

	// Logger receives operational messages.
	Logger zerolog.Logger

	// Trace receives every line sent and received.
	Trace zerolog.Logger
}

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		CommandTimeout: CommandTimeout,
		UploadTimeout:  UploadTimeout,
		HelloTimeout:   HelloTimeout,
		ChunkSize:      ChunkSize,
		SettleDelay:    SettleDelay,
		Logger:         zerolog.Nop(),
		Trace:          zerolog.Nop(),
	}
}

// Option is a functional option for configuring the Client.
type Option func(*Config)

// WithCommandTimeout sets the per-line timeout of ordinary commands.
//
// Example:
//
//	client := gifprotocol.NewClient(port, gifprotocol.WithCommandTimeout(30*time.Second))
func WithCommandTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		if timeout > 0 {
			c.CommandTimeout = timeout
		}
	}
}

// WithUploadTimeout sets the per-line timeout used during uploads.
func WithUploadTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		if timeout > 0 {
			c.UploadTimeout = timeout
		}
	}
}

// WithHelloTimeout sets how long Greeting waits.
func WithHelloTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		if timeout > 0 {
			c.HelloTimeout = timeout
		}
	}
}

// WithChunkSize sets the maximum payload per upload chunk.
// Default is 1024 bytes, the firmware's receive buffer.
func WithChunkSize(size int) Option {
	return func(c *Config) {
		if size > 0 {
			c.ChunkSize = size
		}
	}
}

// WithSettleDelay sets the pause between READY and the first chunk.
func WithSettleDelay(delay time.Duration) Option {
	return func(c *Config) {
		if delay >= 0 {
			c.SettleDelay = delay
		}
	}
}

// WithLogger sets the logger for client operations.
//
// Example:
//
//	client := gifprotocol.NewClient(port, gifprotocol.WithLogger(log.Logger))
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithTrace sets the sink for the raw TX/RX line log.
func WithTrace(trace zerolog.Logger) Option {
	return func(c *Config) {
		c.Trace = trace
	}
}
