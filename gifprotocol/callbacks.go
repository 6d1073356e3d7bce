package gifprotocol

import "time"

// Progress describes an upload after an acknowledged chunk.
// Passed to ProgressCallback once per chunk.
type Progress struct {
	// FileName is the sanitized name the device stores.
	FileName string

	// Chunk is the number of acknowledged chunks (1-based).
	Chunk int

	// BytesSent is the total number of acknowledged bytes.
	BytesSent int

	// TotalBytes is the size declared in the upload header.
	TotalBytes int

	// Percent is floor(BytesSent / TotalBytes * 100).
	Percent int

	// ElapsedTime is the time since the header was sent.
	ElapsedTime time.Duration
}

// ProgressCallback is called after each acknowledged chunk.
// Implementations should return quickly; the next chunk waits for it.
//
// Example:
//
//	_, err := client.Upload(ctx, data, "cat.gif", func(p gifprotocol.Progress) {
//	    fmt.Printf("Uploading... %d%%\n", p.Percent)
//	})
type ProgressCallback func(Progress)

// percentOf returns floor(sent*100/total); an empty payload is complete.
func percentOf(sent, total int) int {
	if total <= 0 {
		return 100
	}
	return sent * 100 / total
}
