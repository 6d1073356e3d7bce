package gifprotocol

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// CommandType represents the type of device command.
type CommandType int

const (
	// Listing
	CmdList CommandType = iota

	// File actions
	CmdPlay
	CmdDelete

	// Upload
	CmdUpload
	CmdChunk
)

// String returns the wire token for the command type.
func (t CommandType) String() string {
	switch t {
	case CmdList:
		return ListToken
	case CmdPlay:
		return PlayToken
	case CmdDelete:
		return DeleteToken
	case CmdUpload:
		return UploadToken
	case CmdChunk:
		return ChunkToken
	default:
		return "UNKNOWN"
	}
}

// Command represents one request line sent to the device.
// Use the constructor functions (NewListCommand, NewPlayCommand, etc.)
// to create Command instances.
type Command struct {
	Type CommandType

	Name string // For play, delete, upload
	Size int    // For upload (total bytes) and chunk (chunk bytes)
}

// NewListCommand creates a listing request.
func NewListCommand() Command {
	return Command{Type: CmdList}
}

// NewPlayCommand creates a playback request. The name must already satisfy
// ValidateName; the codec does not escape it.
func NewPlayCommand(name string) Command {
	return Command{Type: CmdPlay, Name: name}
}

// NewDeleteCommand creates a deletion request.
func NewDeleteCommand(name string) Command {
	return Command{Type: CmdDelete, Name: name}
}

// NewUploadCommand creates the header that opens an upload of size bytes.
func NewUploadCommand(name string, size int) Command {
	return Command{Type: CmdUpload, Name: name, Size: size}
}

// NewChunkCommand creates the header announcing size raw bytes.
func NewChunkCommand(size int) Command {
	return Command{Type: CmdChunk, Size: size}
}

// Format returns the command formatted as a protocol line without the
// trailing newline.
func (c Command) Format() string {
	switch c.Type {
	case CmdList:
		return ListToken
	case CmdPlay:
		return PlayToken + FieldSeparator + c.Name
	case CmdDelete:
		return DeleteToken + FieldSeparator + c.Name
	case CmdUpload:
		return UploadToken + FieldSeparator + c.Name + FieldSeparator + strconv.Itoa(c.Size)
	case CmdChunk:
		return ChunkToken + FieldSeparator + strconv.Itoa(c.Size)
	default:
		return ""
	}
}

// FormatLine returns the command formatted as a complete protocol line with newline.
func (c Command) FormatLine() string {
	return c.Format() + LineTerminator
}

// SanitizeName maps a host file name to the wire-safe form the firmware
// stores: every character outside [A-Za-z0-9_.-] becomes '_'.
func SanitizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if isWireSafe(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

func isWireSafe(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '_', r == '.', r == '-':
		return true
	default:
		return false
	}
}

// ValidateName reports whether name can be sent as the final token of a
// PLAY or DEL line. Names reported by the device via LIST always pass.
func ValidateName(name string) error {
	if name == "" {
		return ErrInvalidName
	}
	for _, r := range name {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return fmt.Errorf("%w %q", ErrInvalidName, name)
		}
	}
	return nil
}
