package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/sokinpui/commafix/cli"
	"github.com/sokinpui/commafix/commafix"
	"github.com/sokinpui/commafix/internal/logging"
	"github.com/sokinpui/commafix/internal/tui"
	"github.com/sokinpui/commafix/internal/ui"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := cli.ParseFlags()
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 2
	}

	logger, err := logging.New(cfg.Verbose, cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	// The progress view owns the terminal, and diffs or snippets written to
	// stdout would tear it, so those modes always print plainly.
	useTUI := cfg.TUI && !cfg.DryRun && !cfg.Snippet

	printer := ui.New(nil, nil)
	if useTUI {
		printer = ui.Discard()
	}

	app, err := commafix.New(cfg, commafix.WithPrinter(printer), commafix.WithLogger(logger))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize application: %v\n", err)
		return 1
	}

	if useTUI {
		return runTUI(app, cfg)
	}

	summary, err := app.Execute()
	switch {
	case cfg.Snippet:
		if summary.Message != "" {
			fmt.Fprintln(os.Stderr, summary.Message)
		}
	case cfg.Undo || cfg.Redo:
		if summary.Message != "" {
			printer.Header("%s", summary.Message)
		}
		action := "Undo"
		if cfg.Redo {
			action = "Redo"
		}
		printer.PrintHistorySummary(action, summary.Modified, summary.Failed)
	default:
		if summary.Message != "" {
			printer.Warning("%s", summary.Message)
		}
		if summary.Total() > 0 {
			printer.PrintFixSummary(summary.Modified, summary.Unchanged, summary.Failed, summary.DryRun)
		}
	}

	if err != nil {
		var detailed *commafix.DetailedError
		if errors.As(err, &detailed) {
			fmt.Fprintf(os.Stderr, "\n--- Stack Trace ---\n%s\n", detailed.Stack)
		}
		logger.Error("Run failed", zap.Error(err))
		printer.Error("Error: %v", err)
		return 1
	}
	return 0
}

func runTUI(app *commafix.App, cfg *cli.Config) int {
	model := tui.New(app, cfg.NoAnimation)
	p := tea.NewProgram(model)
	app.SetProgressCallback(func(current, total int, path string) {
		p.Send(tui.ProgressMsg{Current: current, Total: total, Path: path})
	})

	final, err := p.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		return 1
	}
	if m, ok := final.(tui.Model); ok && m.Err() != nil {
		return 1
	}
	return 0
}
