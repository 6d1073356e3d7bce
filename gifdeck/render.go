package main

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/maddmann584/gif-player-v2/gifprotocol"
)

// GO CONCEPT: Computed Field Widths in Printf
// --------------------------------------------
// %-*s takes the width from the argument list: the first argument is the
// width, the second the string. The names are left-aligned in a column as
// wide as the longest name.
//
// Compare with Swift: String(format: "%-*s", width, name) needs bridging
// to NSString.
//
// Compare with Python: f"{name:<{width}}".

// renderListing prints one line per file, sizes in human units, followed by
// a total. Names are padded to the longest one.
func renderListing(w io.Writer, files []gifprotocol.FileEntry) {
	if len(files) == 0 {
		fmt.Fprintf(w, "No GIFs in %s\n", gifprotocol.StorageDir)
		return
	}

	width := 0
	for _, f := range files {
		width = max(width, len(f.Name))
	}

	var total uint64
	for _, f := range files {
		total += f.Bytes
		fmt.Fprintf(w, "  %-*s  %10s\n", width, f.Name, humanize.Bytes(f.Bytes))
	}

	noun := "files"
	if len(files) == 1 {
		noun = "file"
	}
	fmt.Fprintf(w, "%s %s, %s\n", humanize.Comma(int64(len(files))), noun, humanize.Bytes(total))
}
