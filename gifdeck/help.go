// =============================================================================
// help.go - Shell Help
// =============================================================================
//
// "help" prints an overview of the shell commands; "help <command>" prints
// the detailed entry for one command. Subcommand help (gifdeck --help,
// gifdeck upload --help) comes from cobra and is not duplicated here.
//
// =============================================================================

package main

import (
	"fmt"
	"io"
	"strings"
)

// printHelp writes the overview, or the entry for topic, to out. Unknown
// topics are reported on errOut.
func printHelp(out, errOut io.Writer, topic string) {
	if topic == "" {
		printHelpOverview(out)
		return
	}

	key := strings.ToLower(topic)
	if alias, ok := helpAliases[key]; ok {
		key = alias
	}

	if text, ok := commandHelp[key]; ok {
		fmt.Fprintln(out, text)
		return
	}

	fmt.Fprintf(errOut, "Error: No help for '%s'. Type help to see available commands.\n", topic)
}

func printHelpOverview(out io.Writer) {
	fmt.Fprint(out, `Commands:
  list              List the GIFs stored on the board
  play <name>       Play a stored GIF
  del <name>        Delete a stored GIF (asks first)
  upload <file>     Upload a GIF from disk
  reset             Discard unread input from the board
  help [cmd]        Show help (or help for a specific command)
  quit              Exit the shell
`)
}

// helpAliases maps alternative command words to their help entry.
var helpAliases = map[string]string{
	"ls":     "list",
	"p":      "play",
	"delete": "del",
	"rm":     "del",
	"up":     "upload",
	"exit":   "quit",
	"q":      "quit",
}

// GO CONCEPT: Raw String Literals
// --------------------------------
// Backquoted strings are raw: no escape sequences, and newlines are kept
// as written. They suit multi-line help text, which stays readable in the
// source exactly as it will be printed.
//
// Compare with Swift: multi-line string literals use triple quotes.
//
// Compare with Python: triple-quoted strings, r"..." for raw.

var commandHelp = map[string]string{
	"list": `  list
    List the GIFs stored on the board with their sizes.
    A name reported twice by the board is shown once, with the last size.`,

	"play": `  play <name>
    Start playing a stored GIF. The name must match the listing exactly
    and cannot contain spaces.
    Example: play nyan.gif`,

	"del": `  del <name>
    Delete a stored GIF after confirmation, then list again.
    Example: del old.gif`,

	"upload": `  upload <file>
    Upload a file from this computer in 1 KiB chunks, showing progress.
    The board stores it under the file's base name with characters other
    than letters, digits, '.', '-' and '_' replaced by '_'.
    A failed upload leaves nothing to resume; run it again.
    Example: upload /home/me/Pictures/my cat.gif   (stored as my_cat.gif)`,

	"reset": `  reset
    Discard any input received from the board but not yet read.
    Use after the board was reset or printed unexpected output.`,

	"help": `  help [cmd]
    Show the command overview, or details for one command.`,

	"quit": `  quit
    Close the serial port and exit. Ctrl-D does the same.`,
}
