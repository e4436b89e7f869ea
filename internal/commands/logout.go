package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"tasky/internal/config"
	"tasky/internal/credentials"
	"tasky/internal/exitcode"
	"tasky/internal/syncer"
)

func init() {
	Register(func() Command { return &LogoutCmd{} })
}

// LogoutCmd implements the logout command.
type LogoutCmd struct{}

func (c *LogoutCmd) Name() string      { return "logout" }
func (c *LogoutCmd) Aliases() []string { return nil }
func (c *LogoutCmd) Synopsis() string  { return "Remove stored credentials" }
func (c *LogoutCmd) Usage() string     { return "tasky logout [common flags]" }
func (c *LogoutCmd) NeedsTasks() bool  { return false }
func (c *LogoutCmd) Mutates() bool     { return false }

func (c *LogoutCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *LogoutCmd) Run(ctx context.Context, cfg *config.Config, s *syncer.Synchronizer, args []string, in io.Reader, out, errOut io.Writer) int {
	err := credentials.New(cfg).Delete()
	if errors.Is(err, credentials.ErrNoToken) {
		progress(cfg, out, "not logged in")
		return exitcode.Success
	}
	if err != nil {
		fmt.Fprintf(errOut, "error: failed to remove token: %v\n", err)
		return exitcode.AuthError
	}

	progress(cfg, out, "ok")
	return exitcode.Success
}
