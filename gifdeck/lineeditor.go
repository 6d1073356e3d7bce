// =============================================================================
// lineeditor.go - Line Editing for the Shell
// =============================================================================
//
// LineEditor has two modes:
//
//   - Interactive (stdin is a terminal): ergochat/readline provides cursor
//     movement, history saved in ~/.gifdeck_history, and Tab completion of
//     commands and stored file names.
//   - Non-interactive (pipes, scripts, Emacs shell buffers): plain line
//     reading with a bufio.Scanner and the prompt printed as-is.
//
// =============================================================================

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"
	"golang.org/x/term"
)

const (
	// historyFileName is stored in the user's home directory.
	historyFileName = ".gifdeck_history"

	// historySize is the maximum number of history entries kept.
	historySize = 500
)

// LineEditor reads shell input one line at a time.
type LineEditor struct {
	interactive bool

	// rl is the readline instance (interactive mode only).
	rl *readline.Instance

	// scanner and out serve non-interactive mode.
	scanner *bufio.Scanner
	out     io.Writer
}

// GO CONCEPT: Function Values as Dependencies
// --------------------------------------------
// NewLineEditor takes names as a func() []string rather than a slice. The
// completer calls it each time Tab is pressed, so it always sees the most
// recent listing without the editor knowing anything about the device.

// GO CONCEPT: Type Assertions With Comma-Ok
// -----------------------------------------
// in.(*os.File) asks whether the io.Reader holds an *os.File. With the
// two-value form a failed assertion yields ok == false instead of a panic.
// A strings.Reader in tests therefore selects the piped editor.
//
// Compare with Swift: `if let f = input as? FileHandle { ... }`.
//
// Compare with Python: isinstance(stream, io.FileIO).

// NewLineEditor creates an editor reading from in. Readline is used only
// when in is a terminal. names supplies the stored file names offered after
// "play" and "del".
func NewLineEditor(in io.Reader, out io.Writer, names func() []string) *LineEditor {
	f, isFile := in.(*os.File)
	isInteractive := isFile && term.IsTerminal(int(f.Fd())) &&
		os.Getenv("INSIDE_EMACS") == ""

	if !isInteractive {
		return newPipedLineEditor(in, out)
	}

	rl, err := readline.NewFromConfig(&readline.Config{
		HistoryFile:            filepath.Join(homeDir(), historyFileName),
		HistoryLimit:           historySize,
		DisableAutoSaveHistory: true,
		AutoComplete:           newCompleter(names),
		Prompt:                 "",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: readline init failed (%v), using basic input\n", err)
		return newPipedLineEditor(in, out)
	}

	return &LineEditor{
		interactive: true,
		rl:          rl,
	}
}

// newPipedLineEditor creates a non-interactive editor on any reader.
func newPipedLineEditor(in io.Reader, out io.Writer) *LineEditor {
	return &LineEditor{
		interactive: false,
		scanner:     bufio.NewScanner(in),
		out:         out,
	}
}

// newCompleter offers the shell commands, and stored names after the
// commands that take one.
func newCompleter(names func() []string) readline.AutoCompleter {
	dynamic := func(string) []string { return names() }

	return readline.NewPrefixCompleter(
		readline.PcItem("list"),
		readline.PcItem("play", readline.PcItemDynamic(dynamic)),
		readline.PcItem("del", readline.PcItemDynamic(dynamic)),
		readline.PcItem("upload"),
		readline.PcItem("reset"),
		readline.PcItem("help"),
		readline.PcItem("quit"),
	)
}

// GetLine displays prompt and returns the next line. io.EOF means the user
// pressed Ctrl-D (or Ctrl-C at an empty prompt) or input ended.
func (le *LineEditor) GetLine(prompt string) (string, error) {
	if le.interactive {
		return le.getInteractiveLine(prompt)
	}
	return le.getNonInteractiveLine(prompt)
}

func (le *LineEditor) getInteractiveLine(prompt string) (string, error) {
	le.rl.SetPrompt(prompt)

	line, err := le.rl.Readline()
	if err != nil {
		if err == readline.ErrInterrupt {
			return "", io.EOF
		}
		return "", err
	}

	trimmed := strings.TrimSpace(line)
	if trimmed != "" {
		le.rl.SaveToHistory(trimmed)
	}

	return line, nil
}

func (le *LineEditor) getNonInteractiveLine(prompt string) (string, error) {
	fmt.Fprint(le.out, prompt)

	if !le.scanner.Scan() {
		if err := le.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}

	return le.scanner.Text(), nil
}

// Close releases terminal resources.
func (le *LineEditor) Close() {
	if le.rl != nil {
		le.rl.Close()
		le.rl = nil
	}
}

// IsInteractive reports whether readline is in use.
func (le *LineEditor) IsInteractive() bool {
	return le.interactive
}

// homeDir returns the user's home directory, or "" if unknown.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}
