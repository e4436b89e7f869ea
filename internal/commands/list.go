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
	Register(func() Command { return &ListCmd{} })
	Register(func() Command { return &SummaryCmd{} })
}

// ListCmd implements the list command. With --tasklist it prints that
// list only, otherwise every list.
type ListCmd struct {
	summary bool
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"l"} }
func (c *ListCmd) Synopsis() string  { return "Print task lists" }
func (c *ListCmd) Usage() string     { return "tasky list [--summary]" }
func (c *ListCmd) NeedsTasks() bool  { return true }
func (c *ListCmd) Mutates() bool     { return false }

func (c *ListCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.BoolVarP(&c.summary, "summary", "s", false, "titles only")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, s *syncer.Synchronizer, args []string, in io.Reader, out, errOut io.Writer) int {
	p := newPrinter(cfg, out)
	if !cfg.ListSelected {
		if c.summary {
			p.Summary(s.Lists())
		} else {
			p.Lists(s.Lists())
		}
		return exitcode.Success
	}

	l, err := currentList(cfg, s)
	if err != nil {
		return Fail(errOut, err)
	}
	if c.summary {
		p.ListTitles(cfg.Settings.TaskList, l)
	} else {
		p.List(cfg.Settings.TaskList, l)
	}
	return exitcode.Success
}

// SummaryCmd implements the summary command.
type SummaryCmd struct{}

func (c *SummaryCmd) Name() string      { return "summary" }
func (c *SummaryCmd) Aliases() []string { return []string{"s"} }
func (c *SummaryCmd) Synopsis() string  { return "Print one line per task list" }
func (c *SummaryCmd) Usage() string     { return "tasky summary" }
func (c *SummaryCmd) NeedsTasks() bool  { return true }
func (c *SummaryCmd) Mutates() bool     { return false }

func (c *SummaryCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *SummaryCmd) Run(ctx context.Context, cfg *config.Config, s *syncer.Synchronizer, args []string, in io.Reader, out, errOut io.Writer) int {
	newPrinter(cfg, out).Summary(s.Lists())
	return exitcode.Success
}
