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
	Register(func() Command { return &EditCmd{} })
}

// EditCmd implements the edit command.
type EditCmd struct {
	title string
	date  string
	note  string
	fs    *pflag.FlagSet
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return []string{"e"} }
func (c *EditCmd) Synopsis() string  { return "Edit a task" }
func (c *EditCmd) Usage() string {
	return "tasky edit [--title <title>] [--date MM/DD/YYYY] [--note <text>] <n>"
}
func (c *EditCmd) NeedsTasks() bool { return true }
func (c *EditCmd) Mutates() bool    { return true }

func (c *EditCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.title, "title", "", "new title")
	fs.StringVar(&c.date, "date", "", "new due date (MM/DD/YYYY)")
	fs.StringVar(&c.note, "note", "", "new note")
	c.fs = fs
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, s *syncer.Synchronizer, args []string, in io.Reader, out, errOut io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(errOut, "error: exactly one task index required")
		return exitcode.UserError
	}
	idx, err := ParseIndex(args[0])
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	var ch model.Changes
	if c.title != "" {
		ch.Title = &c.title
	}
	if changed(c.fs, "date") {
		if ch.Due, err = datePtr(c.date); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
	}
	if changed(c.fs, "note") {
		ch.Notes = &c.note
	}
	if ch == (model.Changes{}) {
		fmt.Fprintln(errOut, "error: nothing to edit (use --title, --date or --note)")
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

	progress(cfg, out, "Editing task...")
	s.EditTask(t, ch)
	return exitcode.Success
}
