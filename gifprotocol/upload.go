package gifprotocol

import (
	"context"
	"fmt"
	"time"
)

// SessionState is the position of an upload in its state machine.
type SessionState int

const (
	SessionPending SessionState = iota
	SessionNegotiating
	SessionSending
	SessionCompleting
	SessionSucceeded
	SessionFailed
)

// String returns the state name.
func (s SessionState) String() string {
	switch s {
	case SessionPending:
		return "pending"
	case SessionNegotiating:
		return "negotiating"
	case SessionSending:
		return "sending"
	case SessionCompleting:
		return "completing"
	case SessionSucceeded:
		return "succeeded"
	case SessionFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// UploadSession is the state of one UPLOAD2 transfer. A session runs once
// and is discarded; a failed transfer restarts from a new header.
//
// Invariant: 0 <= BytesSent <= TotalBytes.
type UploadSession struct {
	FileName   string
	TotalBytes int
	BytesSent  int
	ChunkSize  int
	Chunks     int
	State      SessionState

	data  []byte
	start time.Time
}

// NewUploadSession prepares a transfer of data under the sanitized form of
// originalName. TotalBytes is taken from len(data), so the size declared in
// the header always matches the bytes the chunk loop sends.
func NewUploadSession(originalName string, data []byte, chunkSize int) (*UploadSession, error) {
	name := SanitizeName(originalName)
	if name == "" {
		return nil, newPreconditionError("upload", ErrNoFileName)
	}
	if chunkSize <= 0 {
		chunkSize = ChunkSize
	}

	return &UploadSession{
		FileName:   name,
		TotalBytes: len(data),
		ChunkSize:  chunkSize,
		State:      SessionPending,
		data:       data,
	}, nil
}

// progress snapshots the session for the progress callback.
func (s *UploadSession) progress() Progress {
	return Progress{
		FileName:    s.FileName,
		Chunk:       s.Chunks,
		BytesSent:   s.BytesSent,
		TotalBytes:  s.TotalBytes,
		Percent:     percentOf(s.BytesSent, s.TotalBytes),
		ElapsedTime: time.Since(s.start),
	}
}

// UploadResult summarises a completed upload.
type UploadResult struct {
	FileName  string
	BytesSent int
	Chunks    int
	Elapsed   time.Duration
}

// Upload stores data on the device as SanitizeName(originalName).
//
// The transfer is:
//  1. UPLOAD2 <name> <size>, answered by READY
//  2. a short settle delay
//  3. for each chunk: C <len>, the raw bytes, answered by ACK <...>
//  4. a final OK
//
// Any other answer aborts the transfer with a *RejectedError carrying the
// device's line. progress, if not nil, is called after every acknowledged
// chunk. Nothing is retried; partial progress is discarded.
func (c *Client) Upload(ctx context.Context, data []byte, originalName string, progress ProgressCallback) (*UploadResult, error) {
	session, err := NewUploadSession(originalName, data, c.config.ChunkSize)
	if err != nil {
		return nil, err
	}

	if err := c.acquire("upload " + session.FileName); err != nil {
		return nil, err
	}
	defer c.release()

	if err := c.runUpload(ctx, session, progress); err != nil {
		session.State = SessionFailed
		c.config.Logger.Error().Err(err).
			Str("file", session.FileName).
			Int("sent", session.BytesSent).
			Int("total", session.TotalBytes).
			Msg("Upload failed.")
		return nil, err
	}

	result := &UploadResult{
		FileName:  session.FileName,
		BytesSent: session.BytesSent,
		Chunks:    session.Chunks,
		Elapsed:   time.Since(session.start),
	}
	c.config.Logger.Info().
		Str("file", result.FileName).
		Int("bytes", result.BytesSent).
		Int("chunks", result.Chunks).
		Dur("elapsed", result.Elapsed).
		Msg("Upload complete.")

	return result, nil
}

// runUpload drives a session through its states. The caller holds the lock.
func (c *Client) runUpload(ctx context.Context, s *UploadSession, progress ProgressCallback) error {
	op := "upload " + s.FileName
	s.start = time.Now()

	// Header negotiation
	s.State = SessionNegotiating
	if err := c.ch.WriteText(NewUploadCommand(s.FileName, s.TotalBytes).FormatLine()); err != nil {
		return fmt.Errorf("%s: send header: %w", op, err)
	}
	line, err := c.ch.ReadLine(ctx, c.config.UploadTimeout)
	if err != nil {
		return fmt.Errorf("%s: waiting for %s: %w", op, ReadyToken, err)
	}
	if !IsReady(line) {
		return newRejectedError(op, StageHeader, line)
	}
	if err := sleepContext(ctx, c.config.SettleDelay); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	// Chunk loop
	s.State = SessionSending
	for s.BytesSent < s.TotalBytes {
		n := min(s.ChunkSize, s.TotalBytes-s.BytesSent)
		chunk := s.data[s.BytesSent : s.BytesSent+n]
		s.Chunks++

		// Header line and payload are two writes; the device counts n bytes
		// after the header before expecting the next line.
		if err := c.ch.WriteText(NewChunkCommand(n).FormatLine()); err != nil {
			return fmt.Errorf("%s: send chunk %d header: %w", op, s.Chunks, err)
		}
		if err := c.ch.WriteBytes(chunk); err != nil {
			return fmt.Errorf("%s: send chunk %d: %w", op, s.Chunks, err)
		}

		line, err := c.ch.ReadLine(ctx, c.config.UploadTimeout)
		if err != nil {
			return fmt.Errorf("%s: waiting for ACK of chunk %d: %w", op, s.Chunks, err)
		}
		if !IsAck(line) {
			return &RejectedError{Op: op, Stage: StageChunk, Chunk: s.Chunks, Line: line}
		}

		s.BytesSent += n
		if progress != nil {
			progress(s.progress())
		}
	}

	// Completion
	s.State = SessionCompleting
	line, err = c.ch.ReadLine(ctx, c.config.UploadTimeout)
	if err != nil {
		return fmt.Errorf("%s: waiting for %s: %w", op, OKToken, err)
	}
	if !IsOK(line) {
		return newRejectedError(op, StageFinal, line)
	}

	s.State = SessionSucceeded
	return nil
}

// sleepContext pauses for d unless ctx ends first.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
