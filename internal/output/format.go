// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"tasky/internal/model"
)

const (
	indent = "  "

	// DueDateLayout is the display format of due dates.
	DueDateLayout = "Mon, Jan 02, 2006"
)

// Palette colours (256-colour codes).
const (
	ColorHeader = "218"
	ColorDate   = "249"
	ColorNotes  = "252"
	ColorTitle  = "195"
)

// Printer renders task lists, optionally with colour.
type Printer struct {
	out    io.Writer
	header lipgloss.Style
	date   lipgloss.Style
	notes  lipgloss.Style
	title  lipgloss.Style
}

// NewPrinter returns a printer writing to out. With color off no escape
// sequences are written, whatever out is.
func NewPrinter(out io.Writer, color bool) *Printer {
	r := lipgloss.NewRenderer(out)
	if color {
		r.SetColorProfile(termenv.ANSI256)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}
	style := func(c string) lipgloss.Style {
		return r.NewStyle().Bold(true).Foreground(lipgloss.Color(c))
	}
	return &Printer{
		out:    out,
		header: style(ColorHeader),
		date:   style(ColorDate),
		notes:  style(ColorNotes),
		title:  style(ColorTitle),
	}
}

// Lists prints every list with its tasks.
func (p *Printer) Lists(ls *model.TaskLists) {
	if ls.Len() == 0 {
		fmt.Fprintln(p.out, "Found no task lists.")
		return
	}
	for i, l := range ls.All() {
		p.List(i, l)
	}
}

// List prints the header of l followed by its visible tasks in ordinal order.
func (p *Printer) List(index int, l *model.TaskList) {
	p.list(index, l, true)
}

// ListTitles is List without due dates and notes.
func (p *Printer) ListTitles(index int, l *model.TaskList) {
	p.list(index, l, false)
}

func (p *Printer) list(index int, l *model.TaskList, details bool) {
	header := p.header.Render(fmt.Sprintf("%d %s", index, normalizeListTitle(l.Title())))
	if l.NumTasks() == 0 {
		fmt.Fprintf(p.out, "%s (empty)\n", header)
		return
	}
	fmt.Fprintln(p.out, header)

	pos := 0
	for t := range l.Tasks(false) {
		p.task(pos, t, details)
		pos++
	}
}

func (p *Printer) task(pos int, t *model.Task, details bool) {
	depth := 1
	if t.Parent() != "" {
		depth = 2
	}
	pad := strings.Repeat(indent, depth)
	title := normalizeTitle(t.Title())

	if t.Completed() {
		fmt.Fprintf(p.out, "%s%d [x] %s\n", pad, pos, title)
	} else {
		fmt.Fprintf(p.out, "%s%s\n", pad, p.title.Render(fmt.Sprintf("%d [ ] %s", pos, title)))
	}
	if !details {
		return
	}

	detail := pad + indent
	if due, ok := t.Due(); ok {
		fmt.Fprintf(p.out, "%s%s\n", detail, p.date.Render("Due Date: "+due.Format(DueDateLayout)))
	}
	if notes := t.Notes(); notes != "" {
		fmt.Fprintf(p.out, "%s%s\n", detail, p.notes.Render("Notes: "+normalizeNotes(notes)))
	}
}

// Summary prints one line per list: index, title and visible task count.
func (p *Printer) Summary(ls *model.TaskLists) {
	for i, l := range ls.All() {
		fmt.Fprintf(p.out, "%d %s (%d)\n", i, normalizeListTitle(l.Title()), l.NumTasks())
	}
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = normalizeNotes(title)
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}

func normalizeNotes(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}

// normalizeListTitle normalizes a list title for display.
// Empty or whitespace-only titles become "(untitled)".
func normalizeListTitle(title string) string {
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
