// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"taskpad/internal/api"
	"taskpad/internal/config"
	"taskpad/internal/exitcode"
	"taskpad/internal/service"
	"taskpad/internal/session"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsAuth returns true if the command requires a stored
	// session. Commands like help, version, login, logout, register
	// and ui return false.
	NeedsAuth() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// cfg and store are always provided; svc is the task backend.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, cfg *config.Config, store *session.Store, svc service.Service, args []string, out, errOut io.Writer) int
}

// reportServiceError maps a failed task operation to an exit code and
// message. Missing-session failures abort silently: no request was
// sent and there is nothing to tell the user.
func reportServiceError(err error, errOut io.Writer) int {
	if errors.Is(err, api.ErrNoSession) {
		return exitcode.Success
	}
	if api.IsAuthRejected(err) {
		fmt.Fprintf(errOut, "error: %v (run: taskpad login)\n", err)
		return exitcode.AuthError
	}
	fmt.Fprintf(errOut, "error: %v\n", err)
	return exitcode.BackendError
}
