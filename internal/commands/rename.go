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
	Register(func() Command { return &RenameCmd{} })
}

// RenameCmd implements the rename command.
type RenameCmd struct {
	title string
}

func (c *RenameCmd) Name() string      { return "rename" }
func (c *RenameCmd) Aliases() []string { return []string{"rn"} }
func (c *RenameCmd) Synopsis() string  { return "Rename the current task list" }
func (c *RenameCmd) Usage() string     { return "tasky rename <title...>" }
func (c *RenameCmd) NeedsTasks() bool  { return true }
func (c *RenameCmd) Mutates() bool     { return true }

func (c *RenameCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.title, "title", "", "new list title")
}

func (c *RenameCmd) Run(ctx context.Context, cfg *config.Config, s *syncer.Synchronizer, args []string, in io.Reader, out, errOut io.Writer) int {
	title := titleArg(c.title, args)
	if title == "" {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}

	l, err := currentList(cfg, s)
	if err != nil {
		return Fail(errOut, err)
	}

	progress(cfg, out, "Renaming task list...")
	if err := s.RenameTaskList(ctx, l, title); err != nil {
		return Fail(errOut, err)
	}
	return exitcode.Success
}
