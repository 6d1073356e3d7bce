package gifprotocol

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// Client drives the command/response exchanges of one connected device.
//
// It implements the host side of the line protocol: LIST, PLAY and DEL as
// single request/response rounds, and the chunked UPLOAD2 transfer.
//
// Thread Safety:
// The protocol carries no request IDs, so responses are matched to requests
// purely by order. Client holds a mutex for the whole of each exchange; calls
// from several goroutines are serialised and never interleave on the wire.
type Client struct {
	mu sync.Mutex

	ch     *LineChannel
	config Config
}

// NewClient creates a client on an already opened byte stream. The stream is
// borrowed: closing it remains the caller's job.
func NewClient(stream io.ReadWriter, opts ...Option) *Client {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	c := &Client{config: cfg}
	if stream != nil {
		c.ch = NewLineChannel(stream, cfg.Trace)
	}
	return c
}

// Config returns the effective client configuration.
func (c *Client) Config() Config {
	return c.config
}

// acquire locks the client for one exchange.
func (c *Client) acquire(op string) error {
	c.mu.Lock()
	if c.ch == nil {
		c.mu.Unlock()
		return newPreconditionError(op, ErrNotConnected)
	}
	return nil
}

func (c *Client) release() {
	c.mu.Unlock()
}

// Greeting reads the optional line the firmware prints after the port opens.
// It returns ErrTimeout (wrapped) when the device stays quiet, which callers
// treat as "no greeting".
func (c *Client) Greeting(ctx context.Context) (string, error) {
	if err := c.acquire("greeting"); err != nil {
		return "", err
	}
	defer c.release()

	return c.ch.ReadLine(ctx, c.config.HelloTimeout)
}

// List requests the file listing and returns the entries deduplicated by
// name and sorted with SortEntries. An empty listing is a nil error and an
// empty, non-nil slice.
//
// BEGIN and unknown lines are ignored; FILE lines without a usable name or
// size are skipped. A FILE line with a non-numeric size fails the listing,
// but only after END has been read so the next exchange starts in sync.
func (c *Client) List(ctx context.Context) ([]FileEntry, error) {
	if err := c.acquire("list"); err != nil {
		return nil, err
	}
	defer c.release()

	if err := c.ch.WriteText(NewListCommand().FormatLine()); err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}

	files := newListing()
	var parseErr error

	for {
		line, err := c.ch.ReadLine(ctx, c.config.CommandTimeout)
		if err != nil {
			return nil, fmt.Errorf("list: %w", err)
		}

		switch line {
		case BeginToken:
			continue
		case EndToken:
			if parseErr != nil {
				return nil, fmt.Errorf("list: %w", parseErr)
			}
			entries := files.sorted()
			c.config.Logger.Debug().Int("files", len(entries)).Msg("Listing received.")
			return entries, nil
		}

		skipped, err := files.add(line)
		if err != nil && parseErr == nil {
			parseErr = err
		}
		if skipped {
			c.config.Logger.Warn().Str("line", line).Msg("Skipping malformed listing entry.")
		}
	}
}

// Play asks the device to play a stored file.
func (c *Client) Play(ctx context.Context, name string) error {
	return c.exchange(ctx, "play "+name, NewPlayCommand(name))
}

// Delete asks the device to remove a stored file. Nothing is cached locally;
// callers List again to observe the deletion.
func (c *Client) Delete(ctx context.Context, name string) error {
	return c.exchange(ctx, "delete "+name, NewDeleteCommand(name))
}

// exchange sends a single-line command and expects exactly "OK" back.
func (c *Client) exchange(ctx context.Context, op string, cmd Command) error {
	if err := ValidateName(cmd.Name); err != nil {
		return newPreconditionError(op, err)
	}
	if err := c.acquire(op); err != nil {
		return err
	}
	defer c.release()

	if err := c.ch.WriteText(cmd.FormatLine()); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	line, err := c.ch.ReadLine(ctx, c.config.CommandTimeout)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !IsOK(line) {
		return newRejectedError(op, StageCommand, line)
	}
	return nil
}

// Reset discards any input buffered from the device.
func (c *Client) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ch != nil {
		c.ch.Reset()
	}
}
