package commands

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"tasky/internal/config"
	"tasky/internal/exitcode"
	"tasky/internal/model"
	"tasky/internal/syncer"
)

func init() {
	Register(func() Command { return &AddCmd{} })
}

// AddCmd implements the add command.
type AddCmd struct {
	title  string
	date   string
	note   string
	parent int
	fs     *pflag.FlagSet
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"a"} }
func (c *AddCmd) Synopsis() string  { return "Add a task to the current list" }
func (c *AddCmd) Usage() string {
	return "tasky add [--date MM/DD/YYYY] [--note <text>] [--parent <n>] <title...>"
}
func (c *AddCmd) NeedsTasks() bool { return true }
func (c *AddCmd) Mutates() bool    { return true }

func (c *AddCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.title, "title", "", "task title")
	fs.StringVar(&c.date, "date", "", "due date (MM/DD/YYYY)")
	fs.StringVar(&c.note, "note", "", "note to attach")
	fs.IntVarP(&c.parent, "parent", "p", 0, "ordinal of the parent task")
	c.fs = fs
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, s *syncer.Synchronizer, args []string, in io.Reader, out, errOut io.Writer) int {
	title := titleArg(c.title, args)
	if title == "" {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}

	nt := syncer.NewTask{Title: title}
	if changed(c.fs, "date") {
		due, err := datePtr(c.date)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		nt.Due = due
	}
	if changed(c.fs, "note") {
		nt.Notes = &c.note
	}
	if changed(c.fs, "parent") {
		nt.Parent = &c.parent
	}

	l, err := currentList(cfg, s)
	if err != nil {
		return Fail(errOut, err)
	}

	progress(cfg, out, "Adding task...")
	if _, err := s.AddTask(ctx, l, nt); err != nil {
		return Fail(errOut, err)
	}
	return exitcode.Success
}

// titleArg returns the --title flag, or the positional args joined by
// spaces when the flag is empty.
func titleArg(flag string, args []string) string {
	if flag != "" {
		return strings.TrimSpace(flag)
	}
	return strings.TrimSpace(strings.Join(args, " "))
}

// changed reports whether the named flag was set on the command line.
// A nil flag set, as when a command is run directly, counts as unset.
func changed(fs *pflag.FlagSet, name string) bool {
	return fs != nil && fs.Changed(name)
}

// datePtr parses a --date value for Changes.Due.
func datePtr(s string) (*time.Time, error) {
	due, err := model.ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &due, nil
}
