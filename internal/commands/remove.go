package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"tasky/internal/config"
	"tasky/internal/exitcode"
	"tasky/internal/syncer"
)

func init() {
	Register(func() Command { return &RemoveCmd{} })
}

// RemoveCmd implements the remove command.
type RemoveCmd struct {
	force bool
}

func (c *RemoveCmd) Name() string      { return "remove" }
func (c *RemoveCmd) Aliases() []string { return []string{"r"} }
func (c *RemoveCmd) Synopsis() string  { return "Remove tasks and their sub-tasks" }
func (c *RemoveCmd) Usage() string     { return "tasky remove [--force] <n...>" }
func (c *RemoveCmd) NeedsTasks() bool  { return true }
func (c *RemoveCmd) Mutates() bool     { return true }

func (c *RemoveCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.BoolVarP(&c.force, "force", "f", false, "accepted for compatibility; removal is always permanent")
}

func (c *RemoveCmd) Run(ctx context.Context, cfg *config.Config, s *syncer.Synchronizer, args []string, in io.Reader, out, errOut io.Writer) int {
	idxs, err := ParseIndexes(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	l, err := currentList(cfg, s)
	if err != nil {
		return Fail(errOut, err)
	}
	tasks, err := resolveTasks(l, idxs)
	if err != nil {
		return Fail(errOut, err)
	}

	progress(cfg, out, "Removing task(s)...")
	for _, t := range tasks {
		s.RemoveTask(t, c.force)
	}
	return exitcode.Success
}
