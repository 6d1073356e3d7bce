// Package gifprotocol implements the host side of the line-oriented serial
// protocol spoken by the GIF player firmware (CYD and Cyber Deck boards).
//
// Protocol Format:
//
//	Request (host -> device):   LIST | PLAY <name> | DEL <name> | UPLOAD2 <name> <size>\n
//	Listing (device -> host):   BEGIN, FILE <name> <size>..., END
//	Status (device -> host):    OK | <failure detail>\n
//	Upload chunk (host):        C <len>\n followed by <len> raw bytes
//	Chunk ack (device):         ACK <...>\n
//
// Example Session:
//
//	HOST: LIST
//	DEV:  BEGIN
//	DEV:  FILE nyan.gif 48213
//	DEV:  END
//	HOST: PLAY nyan.gif
//	DEV:  OK
package gifprotocol

import "time"

// Wire tokens.
const (
	// ListToken requests the file listing.
	ListToken = "LIST"

	// PlayToken requests playback of a stored file.
	PlayToken = "PLAY"

	// DeleteToken requests deletion of a stored file.
	DeleteToken = "DEL"

	// UploadToken opens a chunked upload.
	UploadToken = "UPLOAD2"

	// ChunkToken prefixes a chunk header line.
	ChunkToken = "C"

	// BeginToken marks the start of a listing.
	BeginToken = "BEGIN"

	// EndToken marks the end of a listing.
	EndToken = "END"

	// FileToken prefixes one listing entry.
	FileToken = "FILE"

	// OKToken is the only success status.
	OKToken = "OK"

	// ReadyToken accepts an upload header.
	ReadyToken = "READY"

	// AckPrefix starts every chunk acknowledgement. The trailing space is
	// part of the prefix: "ACKFAIL" is not an acknowledgement.
	AckPrefix = "ACK "

	// LineTerminator ends every text line on the wire.
	LineTerminator = "\n"

	// FieldSeparator separates tokens within a line.
	FieldSeparator = " "
)

// Session defaults.
const (
	// BaudRate is the fixed serial speed of the firmware.
	BaudRate = 115200

	// ChunkSize is the maximum payload carried by one upload chunk.
	ChunkSize = 1024

	// CommandTimeout bounds each line read of an ordinary exchange.
	CommandTimeout = 12 * time.Second

	// UploadTimeout bounds the READY, ACK and final status reads. The device
	// may need to allocate or erase flash before answering.
	UploadTimeout = 15 * time.Second

	// HelloTimeout bounds the optional greeting read after connecting.
	HelloTimeout = 1500 * time.Millisecond

	// SettleDelay is the grace period between READY and the first chunk
	// while the device switches into receive mode.
	SettleDelay = 20 * time.Millisecond

	// StorageDir is where the firmware keeps uploaded files.
	StorageDir = "/gifs"
)
