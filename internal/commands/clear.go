package commands

import (
	"context"
	"io"

	"github.com/spf13/pflag"

	"tasky/internal/config"
	"tasky/internal/exitcode"
	"tasky/internal/syncer"
)

func init() {
	Register(func() Command { return &ClearCmd{} })
}

// ClearCmd implements the clear command.
type ClearCmd struct {
	force bool
}

func (c *ClearCmd) Name() string      { return "clear" }
func (c *ClearCmd) Aliases() []string { return []string{"c"} }
func (c *ClearCmd) Synopsis() string  { return "Clear completed tasks (--force: all tasks)" }
func (c *ClearCmd) Usage() string     { return "tasky clear [--force]" }
func (c *ClearCmd) NeedsTasks() bool  { return true }
func (c *ClearCmd) Mutates() bool     { return true }

func (c *ClearCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.BoolVarP(&c.force, "force", "f", false, "remove every task, not only completed ones")
}

func (c *ClearCmd) Run(ctx context.Context, cfg *config.Config, s *syncer.Synchronizer, args []string, in io.Reader, out, errOut io.Writer) int {
	l, err := currentList(cfg, s)
	if err != nil {
		return Fail(errOut, err)
	}

	if c.force {
		progress(cfg, out, "Removing all task(s)...")
	} else {
		progress(cfg, out, "Clearing completed task(s)...")
	}
	if err := s.ClearTasks(ctx, l, c.force); err != nil {
		return Fail(errOut, err)
	}
	return exitcode.Success
}
