package commands

import (
	"bufio"
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
	Register(func() Command { return &DeleteCmd{} })
}

// DeleteCmd implements the delete command. It removes the current list.
type DeleteCmd struct {
	force bool
}

func (c *DeleteCmd) Name() string      { return "delete" }
func (c *DeleteCmd) Aliases() []string { return []string{"d"} }
func (c *DeleteCmd) Synopsis() string  { return "Delete the current task list" }
func (c *DeleteCmd) Usage() string     { return "tasky delete [--force]" }
func (c *DeleteCmd) NeedsTasks() bool  { return true }
func (c *DeleteCmd) Mutates() bool     { return true }

func (c *DeleteCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.BoolVarP(&c.force, "force", "f", false, "do not ask for confirmation")
}

func (c *DeleteCmd) Run(ctx context.Context, cfg *config.Config, s *syncer.Synchronizer, args []string, in io.Reader, out, errOut io.Writer) int {
	l, err := currentList(cfg, s)
	if err != nil {
		return Fail(errOut, err)
	}

	if !c.force {
		fmt.Fprintf(out, "This will delete the list %q and all its contents permanently. Are you sure? (y/n): ", l.Title())
		if !confirm(in) {
			progress(cfg, out, "Cancelled.")
			return exitcode.Success
		}
	}

	progress(cfg, out, "Deleting task list...")
	if err := s.DeleteTaskList(ctx, l); err != nil {
		return Fail(errOut, err)
	}
	return exitcode.Success
}

// confirm reads one line and reports whether it is "y" or "Y".
func confirm(in io.Reader) bool {
	if in == nil {
		return false
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	answer := strings.TrimSpace(line)
	return answer == "y" || answer == "Y"
}
