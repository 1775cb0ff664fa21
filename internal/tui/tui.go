package tui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sokinpui/commafix/model"
)

// --- Styles ---
var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("197"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	pathStyle    = lipgloss.NewStyle()
	faintStyle   = lipgloss.NewStyle().Faint(true)
)

// Runner is the work the view waits on.
type Runner interface {
	Execute() (model.Summary, error)
}

// StackTracer is an error carrying the stack of a recovered panic.
type StackTracer interface {
	error
	StackTrace() []byte
}

// --- Messages ---
type summaryMsg struct {
	model.Summary
}

type errorMsg struct {
	err     error
	summary model.Summary
}

func (e errorMsg) Error() string { return e.err.Error() }

// ProgressMsg reports that current of total files are done.
type ProgressMsg struct {
	Current int
	Total   int
	Path    string
}

// --- Model ---
type Model struct {
	runner      Runner
	spinner     spinner.Model
	noAnimation bool
	state       state
	progress    ProgressMsg
	summary     model.Summary
	err         error
}

type state int

const (
	stateProcessing state = iota
	stateSummary
	stateError
)

func New(runner Runner, noAnimation bool) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return Model{
		runner:      runner,
		spinner:     s,
		noAnimation: noAnimation,
		state:       stateProcessing,
	}
}

// Err returns the error the run ended with, if any.
func (m Model) Err() error {
	return m.err
}

func (m Model) Init() tea.Cmd {
	if m.noAnimation {
		return m.run
	}
	return tea.Batch(m.spinner.Tick, m.run)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.err = errors.New("interrupted")
			m.state = stateError
			return m, tea.Quit
		}

	case ProgressMsg:
		m.progress = msg
		return m, nil

	case summaryMsg:
		m.state = stateSummary
		m.summary = msg.Summary
		return m, tea.Quit

	case errorMsg:
		m.state = stateError
		m.summary = msg.summary
		m.err = msg.err
		return m, tea.Quit

	default:
		var cmd tea.Cmd
		if m.state == stateProcessing && !m.noAnimation {
			m.spinner, cmd = m.spinner.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	switch m.state {
	case stateProcessing:
		return m.renderProgress()
	case stateError:
		var b strings.Builder
		b.WriteString(m.renderSummary())
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
		return b.String()
	case stateSummary:
		return m.renderSummary()
	default:
		return ""
	}
}

func (m Model) renderProgress() string {
	prefix := "Fixing..."
	if !m.noAnimation {
		prefix = m.spinner.View() + " Fixing..."
	}
	if m.progress.Total == 0 {
		return prefix
	}
	line := fmt.Sprintf("%s [%d/%d]", prefix, m.progress.Current, m.progress.Total)
	if m.progress.Path != "" {
		line += " " + faintStyle.Render(filepath.Base(filepath.Dir(m.progress.Path))+"/"+filepath.Base(m.progress.Path))
	}
	return line
}

func (m Model) renderSummary() string {
	var b strings.Builder

	if m.summary.Message != "" {
		b.WriteString(headerStyle.Render(m.summary.Message))
		b.WriteString("\n\n")
	}

	hasContent := false
	if len(m.summary.Modified) > 0 {
		hasContent = true
		title := "Fixed:"
		if m.summary.DryRun {
			title = "Would fix:"
		}
		b.WriteString(successStyle.Render(title))
		b.WriteString("\n")
		for _, f := range m.summary.Modified {
			b.WriteString(fmt.Sprintf("  %s\n", pathStyle.Render(f)))
		}
	}
	if len(m.summary.Unchanged) > 0 {
		hasContent = true
		b.WriteString(faintStyle.Render(fmt.Sprintf("%d file(s) needed no changes.", len(m.summary.Unchanged))))
		b.WriteString("\n")
	}
	if len(m.summary.Failed) > 0 {
		hasContent = true
		b.WriteString(errorStyle.Render("Failed:"))
		b.WriteString("\n")
		for _, f := range m.summary.Failed {
			b.WriteString(fmt.Sprintf("  %s\n", pathStyle.Render(f)))
		}
	}

	for _, w := range m.summary.Warnings {
		hasContent = true
		b.WriteString(warningStyle.Render("Warning: " + w))
		b.WriteString("\n")
	}

	if !hasContent && m.summary.Message == "" && m.state == stateSummary {
		b.WriteString(faintStyle.Render("Nothing to do."))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) run() tea.Msg {
	summary, err := m.runner.Execute()
	if err != nil {
		var st StackTracer
		if errors.As(err, &st) {
			// The TUI will exit, so we can print to stderr here for the stack trace.
			fmt.Fprintf(os.Stderr, "\n--- Stack Trace ---\n%s\n", st.StackTrace())
		}
		return errorMsg{err: err, summary: summary}
	}
	return summaryMsg{Summary: summary}
}
