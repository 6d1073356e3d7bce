package gifprotocol

import (
	"errors"
	"fmt"
)

// Sentinel errors for the device protocol.
var (
	// ErrTimeout indicates no complete line arrived within the read budget.
	ErrTimeout = errors.New("timeout waiting for device")

	// ErrStreamClosed indicates the underlying byte stream ended.
	ErrStreamClosed = errors.New("serial closed")

	// ErrRejected matches every *RejectedError through errors.Is.
	ErrRejected = errors.New("device rejected request")

	// ErrNotConnected indicates an operation was attempted without a stream.
	ErrNotConnected = errors.New("not connected")

	// ErrNoFileName indicates an upload was attempted without a usable name.
	ErrNoFileName = errors.New("no file name")

	// ErrInvalidName indicates a name that cannot be carried as the last
	// whitespace-delimited token of a command line.
	ErrInvalidName = errors.New("invalid file name")
)

// Stage identifies where in an exchange the device said no.
type Stage int

const (
	// StageCommand is the single response of LIST/PLAY/DEL.
	StageCommand Stage = iota
	// StageHeader is the READY answer to UPLOAD2.
	StageHeader
	// StageChunk is a per-chunk acknowledgement.
	StageChunk
	// StageFinal is the status line closing an upload.
	StageFinal
)

// String returns the stage name used in error messages.
func (s Stage) String() string {
	switch s {
	case StageCommand:
		return "command"
	case StageHeader:
		return "header"
	case StageChunk:
		return "chunk"
	case StageFinal:
		return "completion"
	default:
		return "unknown"
	}
}

// RejectedError reports a response line other than the expected success
// token. Line holds the device's text verbatim.
type RejectedError struct {
	Op    string
	Stage Stage
	Chunk int // 1-based, only set for StageChunk
	Line  string
}

// Error implements the error interface.
func (e *RejectedError) Error() string {
	switch e.Stage {
	case StageHeader:
		return fmt.Sprintf("%s: device refused: %s", e.Op, e.Line)
	case StageChunk:
		return fmt.Sprintf("%s: chunk %d rejected: %s", e.Op, e.Chunk, e.Line)
	case StageFinal:
		return fmt.Sprintf("%s: upload failed: %s", e.Op, e.Line)
	default:
		return fmt.Sprintf("%s failed: %s", e.Op, e.Line)
	}
}

// Is reports whether target is ErrRejected.
func (e *RejectedError) Is(target error) bool {
	return target == ErrRejected
}

func newRejectedError(op string, stage Stage, line string) error {
	return &RejectedError{Op: op, Stage: stage, Line: line}
}

// ParseError represents a structured response line that could not be parsed.
type ParseError struct {
	Kind  ParseErrorKind
	Value string // The offending line or token
}

// ParseErrorKind categorizes parsing errors.
type ParseErrorKind int

const (
	// ErrKindMalformedLine indicates a line missing required tokens.
	ErrKindMalformedLine ParseErrorKind = iota
	// ErrKindInvalidSize indicates a non-numeric size field.
	ErrKindInvalidSize
	// ErrKindInvalidCommand indicates unknown shell input.
	ErrKindInvalidCommand
	// ErrKindMissingArgument indicates a command without its argument.
	ErrKindMissingArgument
)

// Error implements the error interface.
func (e *ParseError) Error() string {
	switch e.Kind {
	case ErrKindMalformedLine:
		return fmt.Sprintf("malformed line '%s'", e.Value)
	case ErrKindInvalidSize:
		return fmt.Sprintf("invalid size '%s'", e.Value)
	case ErrKindInvalidCommand:
		return fmt.Sprintf("invalid command '%s'", e.Value)
	case ErrKindMissingArgument:
		return fmt.Sprintf("missing argument for '%s'", e.Value)
	default:
		return fmt.Sprintf("parse error: %s", e.Value)
	}
}

func newMalformedLineError(line string) error {
	return &ParseError{Kind: ErrKindMalformedLine, Value: line}
}

func newInvalidSizeError(size string) error {
	return &ParseError{Kind: ErrKindInvalidSize, Value: size}
}

func newInvalidCommandError(cmd string) error {
	return &ParseError{Kind: ErrKindInvalidCommand, Value: cmd}
}

func newMissingArgumentError(cmd string) error {
	return &ParseError{Kind: ErrKindMissingArgument, Value: cmd}
}

// PreconditionError reports an operation refused before anything was sent.
type PreconditionError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying sentinel for errors.Is support.
func (e *PreconditionError) Unwrap() error {
	return e.Err
}

func newPreconditionError(op string, err error) error {
	return &PreconditionError{Op: op, Err: err}
}

// IOError represents a failure of the underlying byte stream.
type IOError struct {
	Op    string
	Cause error
}

// Error implements the error interface.
func (e *IOError) Error() string {
	return fmt.Sprintf("serial %s failed: %v", e.Op, e.Cause)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *IOError) Unwrap() error {
	return e.Cause
}

// NewIOError creates a new stream error.
func NewIOError(op string, cause error) error {
	return &IOError{Op: op, Cause: cause}
}
