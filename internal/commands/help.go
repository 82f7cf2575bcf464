package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskpad/internal/config"
	"taskpad/internal/exitcode"
	"taskpad/internal/service"
	"taskpad/internal/session"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "taskpad help" }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, store *session.Store, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  taskpad                                 List tasks
  taskpad list [common flags]             List tasks
  taskpad add [common flags] <description...>
  taskpad done [common flags] <n>
  taskpad undo [common flags] <n>
  taskpad rm [common flags] <n>
  taskpad ui [common flags]               Interactive mode
  taskpad register [common flags] <username>
  taskpad login [common flags] <username>
  taskpad logout [common flags]
  taskpad whoami [common flags]
  taskpad help
  taskpad version

Common flags:
  --config <dir>   Override config directory
  --server <url>   Override task service URL
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
