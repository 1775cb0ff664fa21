package commafix

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"

	"go.uber.org/zap"

	"github.com/sokinpui/commafix/cli"
	"github.com/sokinpui/commafix/internal/config"
	"github.com/sokinpui/commafix/internal/fixer"
	"github.com/sokinpui/commafix/internal/fs"
	"github.com/sokinpui/commafix/internal/nvim"
	"github.com/sokinpui/commafix/internal/parser"
	"github.com/sokinpui/commafix/internal/preview"
	"github.com/sokinpui/commafix/internal/source"
	"github.com/sokinpui/commafix/internal/state"
	"github.com/sokinpui/commafix/internal/ui"
	"github.com/sokinpui/commafix/model"
)

// ProgressUpdate is a callback function to report progress.
type ProgressUpdate func(current, total int, path string)

// Reloader refreshes rewritten files in an editor.
type Reloader interface {
	Reload(paths []string) ([]string, error)
	Close()
}

// App orchestrates the entire application logic.
type App struct {
	cfg              *cli.Config
	resolved         *config.Resolved
	printer          *ui.Printer
	logger           *zap.Logger
	stateManager     *state.Manager
	sourceProvider   *source.SourceProvider
	progressCallback ProgressUpdate
	newReloader      func() (Reloader, error)
	output           io.Writer
	setupWarnings    []string
}

// Option customizes an App.
type Option func(*App)

// WithPrinter sets where progress lines go.
func WithPrinter(p *ui.Printer) Option {
	return func(a *App) { a.printer = p }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *zap.Logger) Option {
	return func(a *App) { a.logger = l }
}

// WithStateManager sets the undo history store.
func WithStateManager(m *state.Manager) Option {
	return func(a *App) { a.stateManager = m }
}

// WithSourceProvider sets where snippet content is read from.
func WithSourceProvider(sp *source.SourceProvider) Option {
	return func(a *App) { a.sourceProvider = sp }
}

// WithReloader sets how rewritten files are pushed to an editor.
func WithReloader(fn func() (Reloader, error)) Option {
	return func(a *App) { a.newReloader = fn }
}

// WithOutput sets where diffs and fixed snippets are written.
func WithOutput(w io.Writer) Option {
	return func(a *App) { a.output = w }
}

// New creates a new App instance.
func New(cfg *cli.Config, opts ...Option) (*App, error) {
	resolved, err := config.Resolve(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	a := &App{
		cfg:            cfg,
		resolved:       resolved,
		printer:        ui.New(nil, nil),
		logger:         zap.NewNop(),
		sourceProvider: source.New(),
		output:         os.Stdout,
		newReloader: func() (Reloader, error) {
			return nvim.New("")
		},
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.stateManager == nil && a.needsHistory() {
		m, err := state.New("")
		if err != nil {
			if cfg.Undo || cfg.Redo {
				return nil, fmt.Errorf("failed to initialize state manager: %w", err)
			}
			msg := fmt.Sprintf("History is disabled for this run: %v", err)
			a.printer.Warning("%s", msg)
			a.setupWarnings = append(a.setupWarnings, msg)
		}
		a.stateManager = m
	}
	return a, nil
}

func (a *App) needsHistory() bool {
	return a.cfg.Undo || a.cfg.Redo || (!a.cfg.Snippet && !a.cfg.DryRun)
}

// SetProgressCallback sets a function to be called for progress updates.
func (a *App) SetProgressCallback(cb ProgressUpdate) {
	a.progressCallback = cb
}

// Execute executes the main application logic based on parsed flags.
func (a *App) Execute() (summary model.Summary, err error) {
	// Centralized panic recovery.
	defer func() {
		if r := recover(); r != nil {
			err = &DetailedError{
				Err:   fmt.Errorf("internal panic: %v", r),
				Stack: debug.Stack(),
			}
		}
	}()

	switch {
	case a.cfg.Undo:
		return a.undoLastOperation()
	case a.cfg.Redo:
		return a.redoLastOperation()
	case a.cfg.Snippet:
		return a.fixSnippet()
	default:
		return a.fixTargets()
	}
}

func (a *App) fixerOptions() fixer.Options {
	return fixer.Options{
		Strict:           a.resolved.Strict,
		KeepLeadingComma: a.resolved.KeepLeadingComma,
	}
}

// warn prints a warning and keeps it on the summary, so views that own the
// terminal can still show it.
func (a *App) warn(summary *model.Summary, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	a.printer.Warning("%s", msg)
	summary.Warnings = append(summary.Warnings, msg)
}

// isHistoryPath reports whether path lies inside an undo history directory.
// Those files are content-addressed and must never be rewritten.
func (a *App) isHistoryPath(path string) bool {
	if a.stateManager != nil {
		rel, err := filepath.Rel(a.stateManager.StateDir, path)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return true
		}
	}
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == state.DirName {
			return true
		}
	}
	return false
}

// collectTargets expands every configured target into one ordered list of
// files, each listed once. History files are never targets.
func (a *App) collectTargets(summary *model.Summary) ([]string, error) {
	var all []string
	seen := make(map[string]struct{})
	for _, target := range a.resolved.Targets {
		matched, err := fs.FindTargets(target.Dir, target.Pattern)
		if err != nil {
			return nil, err
		}
		paths := matched[:0]
		for _, p := range matched {
			if a.isHistoryPath(p) {
				a.logger.Debug("Skipping history file", zap.String("path", p))
				continue
			}
			paths = append(paths, p)
		}
		a.logger.Debug("Matched targets",
			zap.String("dir", target.Dir),
			zap.String("pattern", target.Pattern),
			zap.Int("files", len(paths)))
		if len(paths) == 0 {
			if a.resolved.RequireMatch {
				return nil, fmt.Errorf("%w: '%s' in %s", ErrNoMatch, target.Pattern, target.Dir)
			}
			a.warn(summary, "No files match '%s' in %s.", target.Pattern, target.Dir)
			continue
		}
		for _, p := range paths {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			all = append(all, p)
		}
	}
	return all, nil
}

// fixTargets repairs every matched file, one at a time. A file that fails
// is reported and skipped unless fail-fast is on.
func (a *App) fixTargets() (model.Summary, error) {
	summary := model.Summary{DryRun: a.cfg.DryRun}
	summary.Warnings = append(summary.Warnings, a.setupWarnings...)

	paths, err := a.collectTargets(&summary)
	if err != nil {
		return summary, err
	}
	if len(paths) == 0 {
		summary.Message = "No files matched. Nothing to do."
		return summary, nil
	}

	total := len(paths)
	a.reportProgress(0, total, "")

	var ops []state.Operation
	for i, path := range paths {
		result, err := a.fixFile(path)
		a.reportProgress(i+1, total, path)
		if err != nil {
			a.printer.FileFailed(path, err)
			a.logger.Error("Failed to fix file", zap.String("path", path), zap.Error(err))
			summary.Failed = append(summary.Failed, path)
			if a.resolved.FailFast {
				a.recordHistory(&summary, ops)
				a.relativizeSummaryPaths(&summary)
				return summary, err
			}
			continue
		}

		if !result.Changed {
			summary.Unchanged = append(summary.Unchanged, path)
			continue
		}
		summary.Modified = append(summary.Modified, path)

		if a.cfg.DryRun {
			a.printDiff(result)
			continue
		}
		if a.stateManager != nil {
			op, err := a.stateManager.CreateOperation(path, result.Original, result.Fixed)
			if err != nil {
				a.logger.Warn("Could not record history", zap.String("path", path), zap.Error(err))
				a.warn(&summary, "Could not record history for %s: %v", path, err)
			} else {
				ops = append(ops, op)
			}
		}
	}

	a.recordHistory(&summary, ops)
	if !a.cfg.DryRun {
		a.reloadEditor(&summary, summary.Modified)
	}

	a.relativizeSummaryPaths(&summary)
	if len(summary.Failed) > 0 {
		return summary, fmt.Errorf("%w: %d of %d file(s) failed", ErrFilesFailed, len(summary.Failed), total)
	}
	return summary, nil
}

// fixFile runs the repair on one file and rewrites it only when the
// content changed.
func (a *App) fixFile(path string) (model.FileResult, error) {
	a.printer.FileStart(path)

	original, err := fs.ReadFile(path)
	if err != nil {
		return model.FileResult{Path: path}, &ReadError{Path: path, Err: err}
	}

	fixed := fixer.Content(original, a.fixerOptions())
	result := model.FileResult{
		Path:     path,
		Original: original,
		Fixed:    fixed,
		Changed:  fixed != original,
	}

	if result.Changed && !a.cfg.DryRun {
		if err := fs.WriteFile(path, fixed); err != nil {
			return result, &WriteError{Path: path, Err: err}
		}
		a.logger.Info("Rewrote file", zap.String("path", path), zap.Int("bytes", len(fixed)))
	}

	a.printer.FileDone(result.Changed, a.cfg.DryRun)
	return result, nil
}

func (a *App) printDiff(result model.FileResult) {
	rel := fs.Relative([]string{result.Path})[0]
	diff, err := preview.UnifiedDiff(rel, result.Original, result.Fixed)
	if err != nil {
		a.printer.Warning("Could not render diff: %v", err)
		return
	}
	fmt.Fprint(a.output, diff)
}

func (a *App) recordHistory(summary *model.Summary, ops []state.Operation) {
	if a.stateManager == nil || len(ops) == 0 {
		return
	}
	if err := a.stateManager.Write(ops); err != nil {
		a.warn(summary, "Could not save history, undo will not be available: %v", err)
	}
}

// reloadEditor asks Neovim to re-read rewritten files. Problems here never
// fail the run.
func (a *App) reloadEditor(summary *model.Summary, paths []string) {
	if !a.cfg.ReloadNvim || len(paths) == 0 {
		return
	}
	reloader, err := a.newReloader()
	if err != nil {
		a.warn(summary, "Skipping Neovim reload: %v", err)
		return
	}
	defer reloader.Close()

	reloaded, err := reloader.Reload(paths)
	if err != nil {
		a.warn(summary, "Neovim reload failed: %v", err)
		return
	}
	a.logger.Debug("Reloaded buffers", zap.Strings("paths", reloaded))
}

// fixSnippet repairs text from stdin or the clipboard. Fenced code blocks
// are fixed one by one; text without any is fixed as a whole.
func (a *App) fixSnippet() (model.Summary, error) {
	content, origin, err := a.sourceProvider.GetContent()
	if err != nil {
		return model.Summary{}, err
	}
	if content == "" {
		return model.Summary{Message: fmt.Sprintf("Source (%s) is empty. Nothing to process.", origin)}, nil
	}

	opts := a.fixerOptions()
	fix := func(s string) string { return fixer.Content(s, opts) }

	fixed, found, err := parser.RewriteCodeBlocks(content, fix)
	if err != nil {
		return model.Summary{}, fmt.Errorf("failed to parse markdown: %w", err)
	}
	if !found {
		fixed = fix(content)
	}
	a.logger.Debug("Fixed snippet",
		zap.String("origin", string(origin)),
		zap.Bool("code_blocks", found),
		zap.Bool("changed", fixed != content))

	fmt.Fprint(a.output, fixed)
	if err := a.sourceProvider.WriteBack(origin, fixed); err != nil {
		return model.Summary{}, err
	}

	if fixed == content {
		return model.Summary{Message: "Snippet needed no changes."}, nil
	}
	return model.Summary{Message: fmt.Sprintf("Fixed snippet from %s.", origin)}, nil
}

// undoLastOperation handles the undo logic.
func (a *App) undoLastOperation() (model.Summary, error) {
	ops, err := a.stateManager.GetOperationsToUndo()
	if err != nil {
		return model.Summary{}, err
	}
	if len(ops) == 0 {
		return model.Summary{Message: "No operation to undo."}, nil
	}

	summary := a.restore(ops, a.stateManager.Revert)
	summary.Message = "Undid last fix run."
	return summary, nil
}

// redoLastOperation handles the redo logic.
func (a *App) redoLastOperation() (model.Summary, error) {
	ops, err := a.stateManager.GetOperationsToRedo()
	if err != nil {
		return model.Summary{}, err
	}
	if len(ops) == 0 {
		return model.Summary{Message: "No operation to redo."}, nil
	}

	summary := a.restore(ops, a.stateManager.Reapply)
	summary.Message = "Redid last undone fix run."
	return summary, nil
}

func (a *App) restore(ops []state.Operation, apply func(state.Operation) error) model.Summary {
	var summary model.Summary
	total := len(ops)
	a.reportProgress(0, total, "")
	for i, op := range ops {
		if err := apply(op); err != nil {
			a.printer.FileFailed(op.Path, err)
			a.logger.Error("Failed to restore file", zap.String("path", op.Path), zap.Error(err))
			summary.Failed = append(summary.Failed, op.Path)
		} else {
			summary.Modified = append(summary.Modified, op.Path)
		}
		a.reportProgress(i+1, total, op.Path)
	}
	a.reloadEditor(&summary, summary.Modified)
	a.relativizeSummaryPaths(&summary)
	return summary
}

func (a *App) reportProgress(current, total int, path string) {
	if a.progressCallback != nil {
		a.progressCallback(current, total, path)
	}
}

// relativizeSummaryPaths converts absolute file paths in a summary to be
// relative to the current working directory for cleaner display.
func (a *App) relativizeSummaryPaths(summary *model.Summary) {
	summary.Modified = fs.Relative(summary.Modified)
	summary.Unchanged = fs.Relative(summary.Unchanged)
	summary.Failed = fs.Relative(summary.Failed)
}
