// =============================================================================
// actions.go - Device Actions Shared by Subcommands and the Shell
// =============================================================================

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/maddmann584/gif-player-v2/gifprotocol"
)

// list fetches and prints the listing. The entries are returned so the
// shell can offer them for completion.
func (a *app) list(ctx context.Context, s *session) ([]gifprotocol.FileEntry, error) {
	files, err := s.client.List(ctx)
	if err != nil {
		return nil, err
	}
	renderListing(a.out, files)
	return files, nil
}

func (a *app) play(ctx context.Context, s *session, name string) error {
	if err := s.client.Play(ctx, name); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Playing %s\n", name)
	return nil
}

// delete removes name and lists again so the change is visible.
func (a *app) delete(ctx context.Context, s *session, name string) ([]gifprotocol.FileEntry, error) {
	if err := s.client.Delete(ctx, name); err != nil {
		return nil, err
	}
	fmt.Fprintf(a.out, "Deleted %s\n", name)

	return a.list(ctx, s)
}

// GO CONCEPT: Closures Capturing Local State
// -------------------------------------------
// The progress callback below reads and writes lastPercent, a local of the
// enclosing function. Go closures capture variables by reference, so each
// call sees the value the previous call left behind.
//
// Compare with Swift: closures capture variables by reference too, but an
// escaping closure must be marked @escaping.
//
// Compare with Python: assigning to an enclosing local needs `nonlocal`.

// upload sends data with a progress line and lists again on success.
func (a *app) upload(ctx context.Context, s *session, data []byte, name string) ([]gifprotocol.FileEntry, error) {
	fmt.Fprintf(a.out, "Uploading %s (%s)\n", name, humanize.Bytes(uint64(len(data))))

	lastPercent := -1
	result, err := s.client.Upload(ctx, data, name, func(p gifprotocol.Progress) {
		// Several small chunks can round to the same percentage.
		if p.Percent == lastPercent {
			return
		}
		lastPercent = p.Percent
		fmt.Fprintf(a.out, "Uploading... %d%%\n", p.Percent)
	})
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(a.out, "Uploaded %s in %s\n", result.FileName, result.Elapsed.Round(time.Millisecond))

	return a.list(ctx, s)
}

// readUploadFile loads path and returns its contents with the base name the
// board will store it under (before sanitising). The size is checked against
// the file's stat so a file that changes while being read is never sent.
func readUploadFile(path string) ([]byte, string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, "", err
	}
	if info.IsDir() {
		return nil, "", fmt.Errorf("%s is a directory", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	if int64(len(data)) != info.Size() {
		return nil, "", fmt.Errorf("%s changed while reading (%d bytes expected, %d read)", path, info.Size(), len(data))
	}

	return data, filepath.Base(path), nil
}

// confirm asks a yes/no question on out and reads the answer from in.
// Anything but "y" or "yes" is a no, including end of input.
func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprint(out, question)

	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		fmt.Fprintln(out)
		return false
	}
	return isYes(answer)
}

func isYes(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
