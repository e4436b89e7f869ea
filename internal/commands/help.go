package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"

	"tasky/internal/config"
	"tasky/internal/exitcode"
	"tasky/internal/syncer"
)

func init() {
	Register(func() Command { return &HelpCmd{} })
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "tasky help [command]" }
func (c *HelpCmd) NeedsTasks() bool  { return false }
func (c *HelpCmd) Mutates() bool     { return false }

func (c *HelpCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, s *syncer.Synchronizer, args []string, in io.Reader, out, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(out, helpText)
		return exitcode.Success
	}

	cmd, ok := DefaultRegistry.Find(args[0])
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command %q\n", args[0])
		return exitcode.UserError
	}
	fmt.Fprintf(out, "%s\n\nUsage:\n  %s\n", cmd.Synopsis(), cmd.Usage())
	if aliases := cmd.Aliases(); len(aliases) > 0 {
		fmt.Fprintf(out, "\nAliases: %s\n", strings.Join(aliases, ", "))
	}
	return exitcode.Success
}

const helpText = `Usage:
  tasky [common flags]                          Interactive mode
  tasky add (a) [--date MM/DD/YYYY] [--note <text>] [--parent <n>] <title...>
  tasky clear (c) [--force]                     Clear completed tasks (--force: all)
  tasky delete (d) [--force]                    Delete the current list
  tasky edit (e) [--title <t>] [--date MM/DD/YYYY] [--note <text>] <n>
  tasky list (l) [--summary]                    Print the current list or all lists
  tasky move (m) (--after <n> | --parent <n>) <n>
  tasky new (n) <title...>                      Create a list
  tasky remove (r) <n...>                       Remove tasks
  tasky rename (rn) <title...>                  Rename the current list
  tasky summary (s)                             One line per list
  tasky toggle (t) <n...>                       Toggle completion
  tasky quit (q)                                Leave interactive mode
  tasky login [common flags]
  tasky logout [common flags]
  tasky help [command]
  tasky version

Common flags:
  --config <dir>   Override config directory
  --tasklist <n>   Task list to operate on (default from config.yaml, else 0)
  -o, --color      Colour output (default from config.yaml)
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
