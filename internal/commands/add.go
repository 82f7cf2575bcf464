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
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct{}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string     { return "taskpad add [common flags] <description...>" }
func (c *AddCmd) NeedsAuth() bool   { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, store *session.Store, svc service.Service, args []string, out, errOut io.Writer) int {
	// A description that is empty after trimming aborts silently:
	// no request is sent and nothing is reported.
	description := strings.TrimSpace(strings.Join(args, " "))
	if description == "" {
		return exitcode.Success
	}

	if err := svc.CreateTask(ctx, description); err != nil {
		return reportServiceError(err, errOut)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
