package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"taskpad/internal/config"
	"taskpad/internal/exitcode"
	"taskpad/internal/service"
	"taskpad/internal/session"
)

func init() {
	Register(&DoneCmd{})
	Register(&UndoCmd{})
}

// DoneCmd marks a task completed.
type DoneCmd struct{}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return nil }
func (c *DoneCmd) Synopsis() string  { return "Mark a task completed" }
func (c *DoneCmd) Usage() string     { return "taskpad done [common flags] <n>" }
func (c *DoneCmd) NeedsAuth() bool   { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, store *session.Store, svc service.Service, args []string, out, errOut io.Writer) int {
	return runSetCompletion(ctx, cfg, svc, args, true, out, errOut)
}

// UndoCmd marks a task not completed.
type UndoCmd struct{}

func (c *UndoCmd) Name() string      { return "undo" }
func (c *UndoCmd) Aliases() []string { return nil }
func (c *UndoCmd) Synopsis() string  { return "Mark a task not completed" }
func (c *UndoCmd) Usage() string     { return "taskpad undo [common flags] <n>" }
func (c *UndoCmd) NeedsAuth() bool   { return true }

func (c *UndoCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *UndoCmd) Run(ctx context.Context, cfg *config.Config, store *session.Store, svc service.Service, args []string, out, errOut io.Writer) int {
	return runSetCompletion(ctx, cfg, svc, args, false, out, errOut)
}

// runSetCompletion is the shared implementation for done and undo.
// The task number resolves against a fresh fetch, so the completion
// value sent always negates (or re-states) the state the user just saw.
func runSetCompletion(ctx context.Context, cfg *config.Config, svc service.Service, args []string, isCompleted bool, out, errOut io.Writer) int {
	task, code := resolveTaskRef(ctx, svc, args, errOut)
	if code != exitcode.Success {
		return code
	}

	if err := svc.SetTaskCompletion(ctx, task.ID, isCompleted); err != nil {
		return reportServiceError(err, errOut)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// resolveTaskRef parses a 1-based task number from args and resolves
// it against the current task list. The second return is
// exitcode.Success when a task was found, otherwise the exit code to
// return.
func resolveTaskRef(ctx context.Context, svc service.Service, args []string, errOut io.Writer) (service.Task, int) {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "error: task number required")
		return service.Task{}, exitcode.UserError
	}

	ref := strings.TrimSpace(strings.Join(args, ""))
	num, err := strconv.Atoi(ref)
	if err != nil {
		fmt.Fprintf(errOut, "error: invalid task number: %s\n", ref)
		return service.Task{}, exitcode.UserError
	}
	if num < 1 {
		fmt.Fprintf(errOut, "error: task number out of range: %d\n", num)
		return service.Task{}, exitcode.UserError
	}

	tasks, err := svc.ListTasks(ctx)
	if err != nil {
		return service.Task{}, reportServiceError(err, errOut)
	}
	if num > len(tasks) {
		fmt.Fprintf(errOut, "error: task number out of range: %d\n", num)
		return service.Task{}, exitcode.UserError
	}
	return tasks[num-1], exitcode.Success
}
