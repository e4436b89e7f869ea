package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"tasky/internal/config"
	"tasky/internal/exitcode"
	"tasky/internal/model"
	"tasky/internal/syncer"
)

func init() {
	Register(func() Command { return &MoveCmd{} })
}

// MoveCmd implements the move command.
type MoveCmd struct {
	after  int
	parent int
	fs     *pflag.FlagSet
}

func (c *MoveCmd) Name() string      { return "move" }
func (c *MoveCmd) Aliases() []string { return []string{"m"} }
func (c *MoveCmd) Synopsis() string  { return "Move a task after another or under a parent" }
func (c *MoveCmd) Usage() string     { return "tasky move (--after <n> | --parent <n>) <n>" }
func (c *MoveCmd) NeedsTasks() bool  { return true }
func (c *MoveCmd) Mutates() bool     { return true }

func (c *MoveCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.IntVar(&c.after, "after", 0, "ordinal of the task to move after")
	fs.IntVarP(&c.parent, "parent", "p", 0, "ordinal of the new parent task")
	c.fs = fs
}

func (c *MoveCmd) Run(ctx context.Context, cfg *config.Config, s *syncer.Synchronizer, args []string, in io.Reader, out, errOut io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(errOut, "error: exactly one task index required")
		return exitcode.UserError
	}
	idx, err := ParseIndex(args[0])
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	l, err := currentList(cfg, s)
	if err != nil {
		return Fail(errOut, err)
	}
	t, err := l.TaskByPos(idx)
	if err != nil {
		return Fail(errOut, fmt.Errorf("task %d: %w", idx, err))
	}

	var after, parent *model.Task
	if changed(c.fs, "after") {
		if after, err = l.TaskByPos(c.after); err != nil {
			return Fail(errOut, fmt.Errorf("after: %w", err))
		}
	}
	if changed(c.fs, "parent") {
		if parent, err = l.TaskByPos(c.parent); err != nil {
			return Fail(errOut, fmt.Errorf("parent: %w", err))
		}
	}

	progress(cfg, out, "Moving task...")
	if _, err := s.MoveTask(ctx, l, t, after, parent); err != nil {
		return Fail(errOut, err)
	}
	return exitcode.Success
}
