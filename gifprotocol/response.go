package gifprotocol

import (
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// FileEntry is one file reported by a LIST exchange.
type FileEntry struct {
	Name  string
	Size  string // As reported by the device
	Bytes uint64 // Size parsed as an unsigned integer
}

// ParseFileLine decodes a "FILE <name> <size>" line.
//
// ok is false, with a nil error, when the line is not a usable entry (wrong
// prefix, missing tokens or an empty name); listings skip such lines. A size
// that is present but not an unsigned integer is reported as a *ParseError.
func ParseFileLine(line string) (entry FileEntry, ok bool, err error) {
	parts := strings.Split(line, FieldSeparator)
	if len(parts) < 3 || parts[0] != FileToken || parts[1] == "" {
		return FileEntry{}, false, nil
	}

	name, size := parts[1], parts[2]
	n, err := strconv.ParseUint(size, 10, 64)
	if err != nil {
		return FileEntry{}, false, newInvalidSizeError(size)
	}

	return FileEntry{Name: name, Size: size, Bytes: n}, true, nil
}

// isFileLine reports whether a listing line carries an entry at all.
func isFileLine(line string) bool {
	return strings.HasPrefix(line, FileToken+FieldSeparator)
}

// IsOK reports whether a status line is the success token.
func IsOK(line string) bool {
	return line == OKToken
}

// IsReady reports whether the device accepted an upload header.
func IsReady(line string) bool {
	return line == ReadyToken
}

// IsAck reports whether a line acknowledges an upload chunk.
func IsAck(line string) bool {
	return strings.HasPrefix(line, AckPrefix)
}

// SortEntries orders entries by name using case-insensitive, locale-aware
// collation. Names that collate equal keep a stable byte order.
func SortEntries(entries []FileEntry) {
	c := collate.New(language.Und, collate.IgnoreCase)
	slices.SortFunc(entries, func(a, b FileEntry) int {
		if r := c.CompareString(a.Name, b.Name); r != 0 {
			return r
		}
		return strings.Compare(a.Name, b.Name)
	})
}

// listing accumulates FILE lines keyed by name; the device may report a name
// more than once and the last report wins.
type listing struct {
	entries map[string]FileEntry
}

func newListing() *listing {
	return &listing{entries: make(map[string]FileEntry)}
}

// add records one listing line. Lines that are not entries are ignored;
// skipped is true for FILE lines that carried no usable entry.
func (l *listing) add(line string) (skipped bool, err error) {
	if !isFileLine(line) {
		return false, nil
	}
	entry, ok, err := ParseFileLine(line)
	if err != nil {
		return false, err
	}
	if !ok {
		return true, nil
	}
	l.entries[entry.Name] = entry
	return false, nil
}

// sorted returns the deduplicated entries ordered by SortEntries.
func (l *listing) sorted() []FileEntry {
	out := make([]FileEntry, 0, len(l.entries))
	for _, e := range l.entries {
		out = append(out, e)
	}
	SortEntries(out)
	return out
}
