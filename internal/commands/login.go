package commands

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"taskpad/internal/config"
	"taskpad/internal/exitcode"
	"taskpad/internal/service"
	"taskpad/internal/session"
)

func init() {
	Register(&LoginCmd{})
}

// LoginCmd implements the login command.
type LoginCmd struct {
	// readPassword is swapped out in tests. The default prompts on
	// the terminal without echo.
	readPassword func(prompt string, errOut io.Writer) (string, error)
}

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return nil }
func (c *LoginCmd) Synopsis() string  { return "Authenticate and store a session" }
func (c *LoginCmd) Usage() string     { return "taskpad login [common flags] <username>" }
func (c *LoginCmd) NeedsAuth() bool   { return false }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {}

// SetPasswordReader overrides the password prompt (for testing).
func (c *LoginCmd) SetPasswordReader(fn func(prompt string, errOut io.Writer) (string, error)) {
	c.readPassword = fn
}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, store *session.Store, svc service.Service, args []string, out, errOut io.Writer) int {
	username := strings.TrimSpace(strings.Join(args, " "))
	if username == "" {
		fmt.Fprintln(errOut, "error: username required")
		return exitcode.UserError
	}

	// A stored session short-circuits. No client-side token
	// validation exists; the next API call decides validity.
	if store.Present() {
		if !cfg.Quiet {
			fmt.Fprintln(out, "already logged in")
		}
		return exitcode.Success
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

	sess, err := svc.Login(ctx, username, password)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}

	if err := store.Save(sess.Token, sess.Username); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "logged in as %s\n", sess.Username)
	}
	return exitcode.Success
}

// promptPassword reads a password without echo when stdin is a
// terminal, falling back to a plain line read otherwise (pipes, CI).
func promptPassword(prompt string, errOut io.Writer) (string, error) {
	fmt.Fprint(errOut, prompt)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		data, err := term.ReadPassword(fd)
		fmt.Fprintln(errOut)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
