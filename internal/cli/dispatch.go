package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-shellwords"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"tasky/internal/commands"
	"tasky/internal/config"
	"tasky/internal/exitcode"
	"tasky/internal/logging"
	"tasky/internal/output"
	"tasky/internal/service"
	"tasky/internal/syncer"
)

// prompt is shown before each line read in interactive mode.
const prompt = "[a]dd, [c]lear, [d]elete, [e]dit, [r]emove task, [m]ove, [n]ew list, rename/rn, [s]ummary, [t]oggle, [q]uit: "

// ServiceFactory creates a Service from config.
// Used to inject the backend during dispatch.
type ServiceFactory func(ctx context.Context, cfg *config.Config) (service.Service, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory
}

// NewDispatcher creates a new dispatcher with the given registry and service factory.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// globalFlags holds the common flags.
type globalFlags struct {
	configDir string
	taskList  int
	color     bool
	quiet     bool
	debug     bool
}

// session is the state of one run. sync is set once a command has needed
// the task lists.
type session struct {
	cfg    *config.Config
	log    *logging.Logger
	svc    service.Service
	sync   *syncer.Synchronizer
	in     io.Reader
	out    io.Writer
	errOut io.Writer
}

// Run parses arguments and dispatches to the appropriate command, or
// enters interactive mode when no command is given. Pending changes are
// flushed before returning. Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) int {
	if args == nil {
		args = []string{}
	}

	var (
		flags globalFlags
		sess  *session
		code  = exitcode.Success
	)

	root := &cobra.Command{
		Use:           config.AppName,
		Short:         "Google Tasks from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(c *cobra.Command, args []string) error {
			sess, code = d.open(c.Flags(), &flags, in, out, errOut)
			if sess != nil {
				code = d.interactive(ctx, sess)
			}
			return nil
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.DisableSuggestions = true

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configDir, "config", "", "override config directory")
	pf.BoolVar(&flags.debug, "debug", false, "print debug logs to stderr")
	bindListFlags(pf, &flags)

	d.addCommands(root, func(cmd commands.Command, c *cobra.Command, args []string) {
		sess, code = d.open(c.Flags(), &flags, in, out, errOut)
		if sess == nil {
			return
		}
		if cmd.NeedsTasks() {
			if code = d.load(ctx, sess); code != exitcode.Success {
				return
			}
		}
		code = cmd.Run(ctx, sess.cfg, sess.sync, args, in, out, errOut)
		if code == exitcode.Success && cmd.Mutates() && !sess.cfg.Quiet {
			printAffected(sess.cfg, sess.sync, out)
		}
	})

	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}

	if sess != nil {
		code = d.finish(ctx, sess, code)
	}
	return code
}

// bindListFlags registers the common flags that may also be given on a
// line in interactive mode.
func bindListFlags(fs *pflag.FlagSet, flags *globalFlags) {
	fs.IntVar(&flags.taskList, "tasklist", 0, "index of the task list to operate on")
	fs.BoolVarP(&flags.color, "color", "o", true, "colour output")
	fs.BoolVar(&flags.quiet, "quiet", false, "suppress informational output")
}

// applyFlags copies the common flags given on the command line over cfg.
func applyFlags(cfg *config.Config, fs *pflag.FlagSet, flags *globalFlags) {
	if fs.Changed("tasklist") {
		cfg.Settings.TaskList = flags.taskList
		cfg.ListSelected = true
	}
	if fs.Changed("color") {
		cfg.Settings.Color = flags.color
	}
	if fs.Changed("quiet") {
		cfg.Quiet = flags.quiet
	}
}

// addCommands adds a cobra command for every registered command. run is
// called with the command's positional arguments once flags are parsed.
func (d *Dispatcher) addCommands(root *cobra.Command, run func(cmd commands.Command, c *cobra.Command, args []string)) {
	for _, cmd := range d.registry.All() {
		c := &cobra.Command{
			Use:     cmd.Name(),
			Aliases: cmd.Aliases(),
			Short:   cmd.Synopsis(),
			Long:    cmd.Synopsis() + "\n\nUsage:\n  " + cmd.Usage(),
			RunE: func(c *cobra.Command, args []string) error {
				run(cmd, c, args)
				return nil
			},
		}
		cmd.RegisterFlags(c.Flags())

		if cmd.Name() == "help" {
			root.SetHelpCommand(c)
			continue
		}
		root.AddCommand(c)
	}
}

// open reads the configuration and applies the common flags.
func (d *Dispatcher) open(fs *pflag.FlagSet, flags *globalFlags, in io.Reader, out, errOut io.Writer) (*session, int) {
	cfg, err := config.New(flags.configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return nil, exitcode.UserError
	}
	if err := cfg.Load(); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return nil, exitcode.AuthError
	}
	cfg.Debug = flags.debug
	applyFlags(cfg, fs, flags)
	if !fs.Changed("color") && !isTerminal(out) {
		cfg.Settings.Color = false
	}

	return &session{
		cfg:    cfg,
		log:    logging.New(errOut, cfg.Debug),
		in:     in,
		out:    out,
		errOut: errOut,
	}, exitcode.Success
}

// load creates the service and loads every task list.
func (d *Dispatcher) load(ctx context.Context, sess *session) int {
	if sess.sync != nil {
		return exitcode.Success
	}
	svc, err := d.factory(ctx, sess.cfg)
	if err != nil {
		return commands.Fail(sess.errOut, err)
	}
	sess.svc = svc

	s := syncer.New(svc, sess.log)
	if err := s.Load(ctx); err != nil {
		return commands.Fail(sess.errOut, err)
	}
	sess.sync = s
	return exitcode.Success
}

// finish flushes pending changes and releases the service. A flush error
// replaces a successful exit code.
func (d *Dispatcher) finish(ctx context.Context, sess *session, code int) int {
	if sess.sync != nil {
		stats, err := sess.sync.Flush(ctx)
		sess.log.Debugf("flushed %d updates, %d deletes", stats.Updated, stats.Deleted)
		if err != nil {
			if c := commands.Fail(sess.errOut, err); code == exitcode.Success {
				code = c
			}
		}
	}
	if c, ok := sess.svc.(io.Closer); ok {
		if err := c.Close(); err != nil {
			sess.log.Warnf("closing backend: %v", err)
		}
	}
	return code
}

// printAffected prints the list chosen with --tasklist, or every list.
func printAffected(cfg *config.Config, s *syncer.Synchronizer, out io.Writer) {
	p := output.NewPrinter(out, cfg.Settings.Color)
	if cfg.ListSelected {
		if l, err := s.Lists().ByPos(cfg.Settings.TaskList); err == nil {
			p.List(cfg.Settings.TaskList, l)
			return
		}
	}
	p.Lists(s.Lists())
}

// interactive prints the lists, reads a line, runs it and repeats until
// quit or end of input.
func (d *Dispatcher) interactive(ctx context.Context, sess *session) int {
	if code := d.load(ctx, sess); code != exitcode.Success {
		return code
	}

	lines, in := newLineReader(sess.in, sess.out)
	show := true
	for {
		if show {
			output.NewPrinter(sess.out, sess.cfg.Settings.Color).Lists(sess.sync.Lists())
		}

		line, err := lines.ReadLine()
		if err == io.EOF {
			fmt.Fprintln(sess.out)
			return exitcode.Success
		}
		if err != nil {
			fmt.Fprintf(sess.errOut, "error: %v\n", err)
			return exitcode.UserError
		}

		words, err := shellwords.Parse(line)
		if err != nil {
			fmt.Fprintf(sess.errOut, "error: %v\n", err)
			show = false
			continue
		}
		if len(words) == 0 {
			show = true
			continue
		}

		quit, mutated := d.runLine(ctx, sess, words, in)
		if quit || ctx.Err() != nil {
			return exitcode.Success
		}
		show = mutated
	}
}

// runLine dispatches one interactive line. Common flags on the line apply
// to that line only.
func (d *Dispatcher) runLine(ctx context.Context, sess *session, words []string, in io.Reader) (quit, mutated bool) {
	var flags globalFlags

	root := &cobra.Command{
		Use:           config.AppName,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          func(c *cobra.Command, args []string) error { return nil },
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.DisableSuggestions = true
	bindListFlags(root.PersistentFlags(), &flags)

	d.addCommands(root, func(cmd commands.Command, c *cobra.Command, args []string) {
		if _, ok := cmd.(*commands.QuitCmd); ok {
			quit = true
			return
		}
		cfg := *sess.cfg
		applyFlags(&cfg, c.Flags(), &flags)
		code := cmd.Run(ctx, &cfg, sess.sync, args, in, sess.out, sess.errOut)
		mutated = code == exitcode.Success && cmd.Mutates()
	})

	root.SetArgs(words)
	root.SetOut(sess.out)
	root.SetErr(sess.errOut)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(sess.errOut, "error: %s\n", err)
	}
	return quit, mutated
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
