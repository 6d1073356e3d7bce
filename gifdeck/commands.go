// =============================================================================
// commands.go - gifdeck Subcommands
// =============================================================================
//
// Each subcommand opens its own session, performs one action and closes the
// port again. The actions themselves live in actions.go and are shared with
// the interactive shell.
//
// =============================================================================

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// GO CONCEPT: Closures That Borrow a Resource
// --------------------------------------------
// withSession owns the open/close pair and lends the session to fn. The
// deferred close runs however fn returns, including on error, so no
// subcommand can forget to release the port.
//
// Compare with Swift: a method taking a closure, with `defer` in the body:
//   func withSession(_ body: (Session) throws -> Void) rethrows { ... }
//
// Compare with Python: a context manager:
//   with open_session() as s: ...

// withSession opens a session around fn.
func (a *app) withSession(ctx context.Context, fn func(*session) error) error {
	s, err := a.connect(ctx)
	if err != nil {
		return err
	}
	defer s.close()

	return fn(s)
}

// GO CONCEPT: Declarative Argument Checks
// ----------------------------------------
// cobra validates positional arguments before RunE is called. Args takes a
// function; cobra.NoArgs and cobra.ExactArgs(1) are ready-made ones. A
// wrong count never reaches the board.
//
// Compare with Swift: swift-argument-parser derives the same checks from
// @Argument properties.
//
// Compare with Python: argparse's nargs does this job.

func newListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the GIFs stored on the board",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd.Context(), func(s *session) error {
				_, err := a.list(cmd.Context(), s)
				return err
			})
		},
	}
}

func newPlayCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "play <name>",
		Short: "Play a stored GIF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd.Context(), func(s *session) error {
				return a.play(cmd.Context(), s, args[0])
			})
		},
	}
}

func newDeleteCommand(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "delete <name>",
		Aliases: []string{"del", "rm"},
		Short:   "Delete a stored GIF",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if !yes && !confirm(a.in, a.out, fmt.Sprintf("Delete %s? [y/N] ", name)) {
				fmt.Fprintln(a.out, "Cancelled.")
				return nil
			}
			return a.withSession(cmd.Context(), func(s *session) error {
				_, err := a.delete(cmd.Context(), s, name)
				return err
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")

	return cmd
}

func newUploadCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a GIF from disk",
		Long: `Upload a GIF from disk.

The board stores the file under its base name with every character other
than letters, digits, '.', '-' and '_' replaced by '_'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Read the file before touching the port so a bad path costs
			// nothing on the board.
			data, name, err := readUploadFile(args[0])
			if err != nil {
				return err
			}
			return a.withSession(cmd.Context(), func(s *session) error {
				_, err := a.upload(cmd.Context(), s, data, name)
				return err
			})
		},
	}
}

func newShellCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Open an interactive shell (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runShell(cmd.Context())
		},
	}
}

func newVersionCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		// The version command needs no config file.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.out = cmd.OutOrStdout()
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(a.out, fullTitle())
		},
	}
}
