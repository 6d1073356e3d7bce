// =============================================================================
// repl.go - Interactive Shell
// =============================================================================
//
// The shell keeps one session open and runs one device exchange per input
// line. Listing, playback and deletion are parsed by gifprotocol's command
// parser; upload, reset, help and quit are handled locally because they do
// not map onto a single wire command.
//
// =============================================================================

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/maddmann584/gif-player-v2/gifprotocol"
)

// shellPrompt is shown before every input line.
const shellPrompt = "gifdeck> "

// GO CONCEPT: Guarding Shared State With a Mutex
// ----------------------------------------------
// readline calls the completer on its own goroutine while the shell loop
// updates the stored names. sync.Mutex makes the two accesses take turns;
// completionNames returns a copy so the caller never holds the lock.
//
// Compare with Swift: an actor, or a serial DispatchQueue.
//
// Compare with Python: threading.Lock used in a `with` block.

// shell is the state of one interactive session.
type shell struct {
	app     *app
	session *session
	editor  *LineEditor
	parser  *gifprotocol.CommandParser

	// names is the latest listing, offered for completion. The completer
	// runs on readline's goroutine.
	mu    sync.Mutex
	names []string
}

// runShell connects and runs the shell until quit or end of input.
func (a *app) runShell(ctx context.Context) error {
	s, err := a.connect(ctx)
	if err != nil {
		return err
	}
	defer s.close()

	sh := &shell{app: a, session: s, parser: gifprotocol.NewCommandParser()}
	sh.editor = NewLineEditor(a.in, a.out, sh.completionNames)
	defer sh.editor.Close()

	return sh.run(ctx)
}

// run prints the banner, shows the initial listing and reads commands.
func (sh *shell) run(ctx context.Context) error {
	out := sh.app.out

	fmt.Fprint(out, welcomeBanner())
	fmt.Fprintln(out)

	sh.list(ctx)

	for {
		line, err := sh.editor.GetLine(shellPrompt)
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(out)
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if quit := sh.execute(ctx, line); quit {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// GO CONCEPT: strings.Cut
// ------------------------
// strings.Cut(s, sep) splits at the first sep and returns (before, after,
// found). It replaces the older strings.SplitN(s, sep, 2) followed by a
// length check.
//
// Compare with Swift: line.split(separator: " ", maxSplits: 1).
//
// Compare with Python: line.partition(" ").

// execute runs one input line and reports whether the shell should exit.
func (sh *shell) execute(ctx context.Context, line string) bool {
	word, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(word) {
	case "quit", "exit", "q":
		return true

	case "help", "?":
		printHelp(sh.app.out, sh.app.errOut, rest)
		return false

	case "reset":
		sh.session.client.Reset()
		fmt.Fprintln(sh.app.out, "Input buffer cleared.")
		return false

	case "upload", "up":
		sh.upload(ctx, rest)
		return false
	}

	cmd, err := sh.parser.Parse(line)
	if err != nil {
		sh.fail(fmt.Errorf("%w (type 'help' for commands)", err))
		return false
	}

	switch cmd.Type {
	case gifprotocol.CmdList:
		sh.list(ctx)
	case gifprotocol.CmdPlay:
		if err := sh.app.play(ctx, sh.session, cmd.Name); err != nil {
			sh.fail(err)
		}
	case gifprotocol.CmdDelete:
		sh.delete(ctx, cmd.Name)
	}
	return false
}

func (sh *shell) list(ctx context.Context) {
	files, err := sh.app.list(ctx, sh.session)
	if err != nil {
		sh.fail(err)
		return
	}
	sh.remember(files)
}

func (sh *shell) delete(ctx context.Context, name string) {
	answer, err := sh.editor.GetLine(fmt.Sprintf("Delete %s? [y/N] ", name))
	if err != nil || !isYes(answer) {
		fmt.Fprintln(sh.app.out, "Cancelled.")
		return
	}

	files, err := sh.app.delete(ctx, sh.session, name)
	if err != nil {
		sh.fail(err)
		return
	}
	sh.remember(files)
}

func (sh *shell) upload(ctx context.Context, path string) {
	if path == "" {
		sh.fail(errors.New("usage: upload <file>"))
		return
	}

	data, name, err := readUploadFile(path)
	if err != nil {
		sh.fail(err)
		return
	}
	files, err := sh.app.upload(ctx, sh.session, data, name)
	if err != nil {
		sh.fail(err)
		return
	}
	sh.remember(files)
}

func (sh *shell) remember(files []gifprotocol.FileEntry) {
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.Name)
	}

	sh.mu.Lock()
	sh.names = names
	sh.mu.Unlock()
}

func (sh *shell) completionNames() []string {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	return append([]string(nil), sh.names...)
}

func (sh *shell) fail(err error) {
	printError(sh.app.errOut, err)
}
