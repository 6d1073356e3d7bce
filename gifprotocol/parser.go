package gifprotocol

import (
	"strings"
)

// CommandParser parses device commands typed by a user.
//
// It accepts the lowercase shell words (list, play, del) as well as the
// uppercase wire tokens, so "PLAY nyan.gif" and "play nyan.gif" produce the
// same Command. Upload is not parsed here: its argument is a host path, not
// a device name.
type CommandParser struct{}

// NewCommandParser creates a new command parser.
func NewCommandParser() *CommandParser {
	return &CommandParser{}
}

// Parse parses a command line into a Command.
func (p *CommandParser) Parse(line string) (Command, error) {
	commandLine := strings.TrimSpace(line)

	if len(commandLine) > MaxLineLength {
		return Command{}, ErrLineTooLong
	}

	fields := strings.Fields(commandLine)
	if len(fields) == 0 {
		return Command{}, newInvalidCommandError("")
	}

	command := strings.ToLower(fields[0])
	args := fields[1:]

	switch command {
	case "list", "ls":
		if len(args) != 0 {
			return Command{}, newMalformedLineError(commandLine)
		}
		return NewListCommand(), nil

	case "play", "p":
		name, err := p.parseName(command, commandLine, args)
		if err != nil {
			return Command{}, err
		}
		return NewPlayCommand(name), nil

	case "del", "delete", "rm":
		name, err := p.parseName(command, commandLine, args)
		if err != nil {
			return Command{}, err
		}
		return NewDeleteCommand(name), nil

	default:
		return Command{}, newInvalidCommandError(command)
	}
}

// parseName extracts the single name argument. Device names never contain
// whitespace, so extra tokens mean the line is malformed.
func (p *CommandParser) parseName(command, line string, args []string) (string, error) {
	switch len(args) {
	case 0:
		return "", newMissingArgumentError(command)
	case 1:
		return args[0], nil
	default:
		return "", newMalformedLineError(line)
	}
}
