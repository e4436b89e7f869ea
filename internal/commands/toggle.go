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
	Register(func() Command { return &ToggleCmd{} })
}

// ToggleCmd implements the toggle command.
type ToggleCmd struct{}

func (c *ToggleCmd) Name() string      { return "toggle" }
func (c *ToggleCmd) Aliases() []string { return []string{"t"} }
func (c *ToggleCmd) Synopsis() string  { return "Toggle tasks between open and completed" }
func (c *ToggleCmd) Usage() string     { return "tasky toggle <n...>" }
func (c *ToggleCmd) NeedsTasks() bool  { return true }
func (c *ToggleCmd) Mutates() bool     { return true }

func (c *ToggleCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *ToggleCmd) Run(ctx context.Context, cfg *config.Config, s *syncer.Synchronizer, args []string, in io.Reader, out, errOut io.Writer) int {
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

	progress(cfg, out, "Toggling task(s)...")
	for _, t := range tasks {
		s.ToggleTask(t)
	}
	return exitcode.Success
}
