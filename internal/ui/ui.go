package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	HeaderStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	InfoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	WarningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("197"))
	PathStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("222"))
	FaintStyle   = lipgloss.NewStyle().Faint(true)
)

// Printer writes styled progress lines. Progress goes to Out, problems to Err.
type Printer struct {
	Out io.Writer
	Err io.Writer
}

// New creates a Printer. Nil writers default to stdout and stderr.
func New(out, errOut io.Writer) *Printer {
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	return &Printer{Out: out, Err: errOut}
}

// Discard returns a Printer that prints nothing.
func Discard() *Printer {
	return &Printer{Out: io.Discard, Err: io.Discard}
}

func (p *Printer) Header(format string, a ...any) {
	fmt.Fprintln(p.Out, HeaderStyle.Render(fmt.Sprintf(format, a...)))
}

func (p *Printer) Info(format string, a ...any) {
	fmt.Fprintln(p.Out, InfoStyle.Render(fmt.Sprintf(format, a...)))
}

func (p *Printer) Success(format string, a ...any) {
	fmt.Fprintln(p.Out, SuccessStyle.Render(fmt.Sprintf(format, a...)))
}

func (p *Printer) Plain(format string, a ...any) {
	fmt.Fprintf(p.Out, format+"\n", a...)
}

func (p *Printer) Warning(format string, a ...any) {
	fmt.Fprintln(p.Err, WarningStyle.Render(fmt.Sprintf(format, a...)))
}

func (p *Printer) Error(format string, a ...any) {
	fmt.Fprintln(p.Err, ErrorStyle.Render(fmt.Sprintf(format, a...)))
}

func (p *Printer) Path(format string, a ...any) {
	fmt.Fprintln(p.Out, "  "+PathStyle.Render(fmt.Sprintf(format, a...)))
}

// --- Per-file progress ---

func (p *Printer) FileStart(path string) {
	p.Info("Fixing %s...", path)
}

func (p *Printer) FileDone(changed, dryRun bool) {
	switch {
	case changed && dryRun:
		p.Success("Would fix.")
	case changed:
		p.Success("Fixed.")
	default:
		p.Plain("%s", FaintStyle.Render("No changes needed."))
	}
}

func (p *Printer) FileFailed(path string, err error) {
	p.Error("Failed to fix %s: %v", path, err)
}

// --- Summaries ---

func (p *Printer) PrintFixSummary(modified, unchanged, failed []string, dryRun bool) {
	p.Header("\n--- Fix Summary ---")

	if len(modified) == 0 && len(unchanged) == 0 && len(failed) == 0 {
		p.Plain("No files were processed.")
		return
	}

	if len(modified) > 0 {
		verb := "Fixed"
		if dryRun {
			verb = "Would fix"
		}
		p.Success("%s %d file(s):", verb, len(modified))
		for _, f := range modified {
			p.Plain("  - %s", f)
		}
	}
	if len(unchanged) > 0 {
		p.Plain("%d file(s) needed no changes.", len(unchanged))
	}
	if len(failed) > 0 {
		p.Error("Failed to process %d file(s):", len(failed))
		for _, f := range failed {
			fmt.Fprintf(p.Err, "  - %s\n", f)
		}
	}
}

func (p *Printer) PrintHistorySummary(action string, done, failed []string) {
	p.Header("\n--- %s Summary ---", action)
	if len(done) > 0 {
		p.Success("Restored %d file(s):", len(done))
		for _, f := range done {
			p.Plain("  - %s", f)
		}
	}
	if len(failed) > 0 {
		p.Error("Failed to restore %d file(s):", len(failed))
		for _, f := range failed {
			fmt.Fprintf(p.Err, "  - %s\n", f)
		}
	}
}
