// Package commands provides the command interface and implementations.
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
	"tasky/internal/model"
	"tasky/internal/output"
	"tasky/internal/service"
	"tasky/internal/syncer"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsTasks returns true if the command works on the loaded task
	// lists. Commands like help, version, login, logout return false.
	NeedsTasks() bool

	// Mutates returns true if the command changes the task lists. The
	// dispatcher prints the affected lists after such a command.
	Mutates() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *pflag.FlagSet)

	// Run executes the command.
	// cfg is always provided (config dir, paths, settings).
	// s is nil if NeedsTasks() returns false, otherwise it is loaded.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, cfg *config.Config, s *syncer.Synchronizer, args []string, in io.Reader, out, errOut io.Writer) int
}

// Fail prints err and returns the exit code for it.
func Fail(errOut io.Writer, err error) int {
	fmt.Fprintf(errOut, "error: %v\n", err)
	return ExitCode(err)
}

// ExitCode maps an error to an exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return exitcode.Success
	case errors.Is(err, model.ErrOutOfRange),
		errors.Is(err, model.ErrNotFound),
		errors.Is(err, syncer.ErrMoveTarget),
		errors.Is(err, syncer.ErrTooDeep):
		return exitcode.UserError
	case errors.Is(err, service.ErrUnauthorized),
		errors.Is(err, credentials.ErrNoToken),
		errors.Is(err, credentials.ErrNoClient):
		return exitcode.AuthError
	default:
		return exitcode.BackendError
	}
}

// currentList returns the list selected by --tasklist or config.yaml.
func currentList(cfg *config.Config, s *syncer.Synchronizer) (*model.TaskList, error) {
	l, err := s.Lists().ByPos(cfg.Settings.TaskList)
	if err != nil {
		return nil, fmt.Errorf("task list %d: %w", cfg.Settings.TaskList, err)
	}
	return l, nil
}

func newPrinter(cfg *config.Config, out io.Writer) *output.Printer {
	return output.NewPrinter(out, cfg.Settings.Color)
}

// progress prints an informational line unless quiet.
func progress(cfg *config.Config, out io.Writer, msg string) {
	if !cfg.Quiet {
		fmt.Fprintln(out, msg)
	}
}
