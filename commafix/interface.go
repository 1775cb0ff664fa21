package commafix

import (
	"io"

	"go.uber.org/zap"

	"github.com/sokinpui/commafix/cli"
	"github.com/sokinpui/commafix/internal/config"
	"github.com/sokinpui/commafix/internal/fixer"
	"github.com/sokinpui/commafix/internal/ui"
	"github.com/sokinpui/commafix/model"
)

// Config for using commafix as a library.
type Config struct {
	// Repeat the repair until nothing changes. Can differ from the
	// single-pass output of the default mode.
	Strict bool
	// Keep a stray comma on the first line instead of dropping it.
	KeepLeadingComma bool
	// Stop at the first file that fails instead of continuing.
	FailFast bool
	// Compute the result without writing any file.
	DryRun bool
}

// FixString returns content with stray comma lines joined and ",," and "{,"
// collapsed.
func FixString(content string, config Config) string {
	return fixer.Content(content, fixer.Options{
		Strict:           config.Strict,
		KeepLeadingComma: config.KeepLeadingComma,
	})
}

// FixFile repairs a single file, rewriting it only if the content changed.
func FixFile(path string, config Config) (model.FileResult, error) {
	return newLibraryApp(nil, config).fixFile(path)
}

// FixDir fixes every file under dir matching pattern. Nothing is printed and
// no undo history is recorded.
func FixDir(dir, pattern string, config Config) (model.Summary, error) {
	return newLibraryApp([]model.Target{{Dir: dir, Pattern: pattern}}, config).Execute()
}

func newLibraryApp(targets []model.Target, c Config) *App {
	return &App{
		cfg: &cli.Config{DryRun: c.DryRun},
		resolved: &config.Resolved{
			Targets:          targets,
			Strict:           c.Strict,
			KeepLeadingComma: c.KeepLeadingComma,
			FailFast:         c.FailFast,
		},
		printer: ui.Discard(),
		logger:  zap.NewNop(),
		output:  io.Discard,
	}
}
