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
	Register(func() Command { return &NewCmd{} })
}

// NewCmd implements the new command. An empty title is allowed; the
// synchronizer warns about it.
type NewCmd struct {
	title string
}

func (c *NewCmd) Name() string      { return "new" }
func (c *NewCmd) Aliases() []string { return []string{"n"} }
func (c *NewCmd) Synopsis() string  { return "Create a task list" }
func (c *NewCmd) Usage() string     { return "tasky new <title...>" }
func (c *NewCmd) NeedsTasks() bool  { return true }
func (c *NewCmd) Mutates() bool     { return true }

func (c *NewCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.title, "title", "", "list title")
}

func (c *NewCmd) Run(ctx context.Context, cfg *config.Config, s *syncer.Synchronizer, args []string, in io.Reader, out, errOut io.Writer) int {
	progress(cfg, out, "Creating new task list...")
	if _, err := s.AddTaskList(ctx, titleArg(c.title, args)); err != nil {
		return Fail(errOut, err)
	}
	return exitcode.Success
}
