package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskpad/internal/config"
	"taskpad/internal/exitcode"
	"taskpad/internal/service"
	"taskpad/internal/session"
)

func init() {
	Register(&RegisterCmd{})
}

// RegisterCmd implements the register command.
type RegisterCmd struct {
	readPassword func(prompt string, errOut io.Writer) (string, error)
}

func (c *RegisterCmd) Name() string      { return "register" }
func (c *RegisterCmd) Aliases() []string { return nil }
func (c *RegisterCmd) Synopsis() string  { return "Create a new account" }
func (c *RegisterCmd) Usage() string     { return "taskpad register [common flags] <username>" }
func (c *RegisterCmd) NeedsAuth() bool   { return false }

func (c *RegisterCmd) RegisterFlags(fs *flag.FlagSet) {}

// SetPasswordReader overrides the password prompt (for testing).
func (c *RegisterCmd) SetPasswordReader(fn func(prompt string, errOut io.Writer) (string, error)) {
	c.readPassword = fn
}

func (c *RegisterCmd) Run(ctx context.Context, cfg *config.Config, store *session.Store, svc service.Service, args []string, out, errOut io.Writer) int {
	username := strings.TrimSpace(strings.Join(args, " "))
	if username == "" {
		fmt.Fprintln(errOut, "error: username required")
		return exitcode.UserError
	}

	prompt := c.readPassword
	if prompt == nil {
		prompt = promptPassword
	}

	password, err := prompt("Password: ", errOut)
	if err != nil {
		fmt.Fprintf(errOut, "error: failed to read password: %v\n", err)
		return exitcode.AuthError
	}
	confirm, err := prompt("Confirm password: ", errOut)
	if err != nil {
		fmt.Fprintf(errOut, "error: failed to read password: %v\n", err)
		return exitcode.AuthError
	}
	if password != confirm {
		fmt.Fprintln(errOut, "error: passwords do not match")
		return exitcode.UserError
	}

	if err := svc.Register(ctx, username, password); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "registered %s (run: taskpad login %s)\n", username, username)
	}
	return exitcode.Success
}
