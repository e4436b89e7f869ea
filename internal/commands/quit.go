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
	Register(func() Command { return &QuitCmd{} })
}

// QuitCmd ends interactive mode. Outside it, it does nothing.
type QuitCmd struct{}

func (c *QuitCmd) Name() string      { return "quit" }
func (c *QuitCmd) Aliases() []string { return []string{"q"} }
func (c *QuitCmd) Synopsis() string  { return "Leave interactive mode" }
func (c *QuitCmd) Usage() string     { return "quit" }
func (c *QuitCmd) NeedsTasks() bool  { return false }
func (c *QuitCmd) Mutates() bool     { return false }

func (c *QuitCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *QuitCmd) Run(ctx context.Context, cfg *config.Config, s *syncer.Synchronizer, args []string, in io.Reader, out, errOut io.Writer) int {
	return exitcode.Success
}
