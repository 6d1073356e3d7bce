// =============================================================================
// main.go - gifdeck CLI Entry Point
// =============================================================================
//
// gifdeck manages the animated GIFs stored on a GIF player board (CYD or
// Cyber Deck firmware) over its USB serial port. It can list, play, delete
// and upload files, either as one-shot subcommands or from an interactive
// shell.
//
// Usage:
//
//	gifdeck --device /dev/ttyUSB0                 Open the interactive shell
//	gifdeck --device /dev/ttyUSB0 list            List stored GIFs
//	gifdeck --device /dev/ttyUSB0 play nyan.gif   Play a stored GIF
//	gifdeck --device /dev/ttyUSB0 upload cat.gif  Upload a GIF from disk
//	gifdeck --device /dev/ttyUSB0 delete old.gif  Delete a stored GIF
//
// Defaults for every flag can be kept in /etc/gifdeck/gifdeck.conf or
// ~/.gifdeck.conf (INI format).
//
// =============================================================================

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/maddmann584/gif-player-v2/config"
	"github.com/maddmann584/gif-player-v2/logger"
)

// =============================================================================
// Version Information
// =============================================================================

const (
	// version is the current version of gifdeck.
	version = "0.3.0"

	// appName is the application name.
	appName = "gifdeck"

	// configName is the base name searched for by config.Files.
	configName = "gifdeck"
)

// fullTitle returns the application name with version.
func fullTitle() string {
	return fmt.Sprintf("%s v%s", appName, version)
}

// welcomeBanner returns the banner displayed when the shell starts.
func welcomeBanner() string {
	return fmt.Sprintf(`%s - GIF player manager

Type 'help' for available commands.
Type 'quit' to exit.
`, fullTitle())
}

// =============================================================================
// Command-Line Options
// =============================================================================

// rootOptions holds the persistent flags shared by every subcommand.
// An empty device or a zero baud means "use the config file value".
type rootOptions struct {
	device     string
	baud       int
	configPath string
	debug      bool
	trace      bool
}

// app is the state shared by all subcommands once flags and the config file
// have been resolved.
type app struct {
	opts rootOptions
	cfg  config.Config

	// in, out and errOut are the command's streams. Tests replace them.
	in     io.Reader
	out    io.Writer
	errOut io.Writer
}

// GO CONCEPT: Returning Errors From Commands
// -------------------------------------------
// cobra offers both Run and RunE. RunE returns an error, which Execute()
// hands back to main. Every subcommand here uses RunE so a failure reaches
// a single place that prints it and sets the exit status, instead of each
// command calling os.Exit on its own.
//
// Compare with Python: it is the difference between raising an exception up
// to a top-level handler and calling sys.exit() deep inside a function.

// newRootCommand builds the gifdeck command tree.
func newRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           appName,
		Short:         "Manage the GIFs stored on a GIF player board",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.in = cmd.InOrStdin()
			a.out = cmd.OutOrStdout()
			a.errOut = cmd.ErrOrStderr()
			return a.loadConfig(cmd)
		},
		// Without a subcommand gifdeck opens the shell.
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runShell(cmd.Context())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.opts.device, "device", "d", "", "serial device of the board (e.g. /dev/ttyUSB0)")
	flags.IntVar(&a.opts.baud, "baud", 0, "serial speed (default from config, 115200)")
	flags.StringVar(&a.opts.configPath, "config", "", "config file (default /etc/gifdeck/gifdeck.conf, ~/.gifdeck.conf)")
	flags.BoolVar(&a.opts.debug, "debug", false, "enable debug logging")
	flags.BoolVar(&a.opts.trace, "trace", false, "log every line sent to and received from the board")

	root.AddCommand(
		newListCommand(a),
		newPlayCommand(a),
		newDeleteCommand(a),
		newUploadCommand(a),
		newShellCommand(a),
		newVersionCommand(a),
	)

	return root
}

// loadConfig reads the config file and lets explicit flags override it.
func (a *app) loadConfig(cmd *cobra.Command) error {
	files := config.Files(configName)
	if a.opts.configPath != "" {
		files = []string{a.opts.configPath}
	}

	cfg, _, err := config.Load(files)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("device") {
		cfg.Serial.Device = a.opts.device
	}
	if flags.Changed("baud") {
		cfg.Serial.Baud = a.opts.baud
	}
	if flags.Changed("debug") {
		cfg.Logging.Debug = a.opts.debug
	}
	if flags.Changed("trace") {
		cfg.Logging.Trace = a.opts.trace
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	logger.InitLogger(a.errOut, cfg.Logging.Debug)
	return nil
}

// printError writes a failure in the form every command uses.
func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)
}

// =============================================================================
// Main Entry Point
// =============================================================================

// GO CONCEPT: Cancellation With Signals
// --------------------------------------
// signal.NotifyContext returns a context that is cancelled when SIGINT or
// SIGTERM arrives. Every device exchange takes that context, so Ctrl-C
// during a long upload stops the transfer between chunks and the deferred
// port Close still runs. The returned stop function restores default
// signal handling; a second Ctrl-C then kills the process outright.

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCommand()
	if err := root.ExecuteContext(ctx); err != nil {
		printError(os.Stderr, err)
		log.Debug().Err(err).Msg("Command failed.")
		stop()
		os.Exit(1)
	}
}
