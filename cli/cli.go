package cli

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
)

const (
	DefaultDir     = "."
	DefaultPattern = "*/index.ts"
)

// Config holds all the command-line flag values.
type Config struct {
	Dir              string
	Pattern          string
	ConfigFile       string
	DryRun           bool
	Strict           bool
	KeepLeadingComma bool
	FailFast         bool
	RequireMatch     bool
	Undo             bool
	Redo             bool
	Snippet          bool
	TUI              bool
	NoAnimation      bool
	ReloadNvim       bool
	Verbose          bool
	LogFile          string

	// set records which flags were given explicitly, so a config file
	// only fills in what the command line left alone.
	set map[string]bool
}

// IsSet reports whether the named flag was passed on the command line.
func (c *Config) IsSet(name string) bool {
	return c.set[name]
}

// ParseFlags defines and parses command-line flags using pflag.
func ParseFlags() (*Config, error) {
	return Parse(os.Args[1:])
}

// Parse parses args into a Config.
func Parse(args []string) (*Config, error) {
	cfg := &Config{set: map[string]bool{}}
	flags := pflag.NewFlagSet("commafix", pflag.ContinueOnError)

	// Targets
	flags.StringVarP(&cfg.Dir, "dir", "d", DefaultDir, "Base directory to search for files.")
	flags.StringVarP(&cfg.Pattern, "pattern", "p", DefaultPattern, "Glob, relative to --dir, selecting the files to fix.")
	flags.StringVarP(&cfg.ConfigFile, "config", "c", "", "YAML config file; relative target dirs resolve against its directory (default: .commafix.yaml if present).")

	// Behaviour
	flags.BoolVarP(&cfg.DryRun, "dry-run", "n", false, "Show a diff of the changes without writing files.")
	flags.BoolVar(&cfg.Strict, "strict", false, "Repeat the repair until nothing changes (output may differ from a single pass).")
	flags.BoolVar(&cfg.KeepLeadingComma, "keep-leading-comma", false, "Keep a stray comma on the first line instead of dropping it.")
	flags.BoolVar(&cfg.FailFast, "fail-fast", false, "Stop at the first file that cannot be read or written.")
	flags.BoolVar(&cfg.RequireMatch, "require-match", false, "Fail when the glob matches no files.")
	flags.BoolVarP(&cfg.Snippet, "snippet", "s", false, "Fix code read from stdin (pipe) or clipboard and print it.")
	flags.BoolVar(&cfg.ReloadNvim, "reload-nvim", false, "Reload rewritten files in the Neovim instance at $NVIM_LISTEN_ADDRESS.")

	// Mutually exclusive history group
	flags.BoolVarP(&cfg.Undo, "undo", "u", false, "Undo the last fix run.")
	flags.BoolVarP(&cfg.Redo, "redo", "r", false, "Redo the last undone fix run.")

	// Output
	flags.BoolVar(&cfg.TUI, "tui", false, "Show an interactive progress view.")
	flags.BoolVar(&cfg.NoAnimation, "no-animation", false, "Disable the spinner in the progress view.")
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Write debug logs to stderr.")
	flags.StringVar(&cfg.LogFile, "log-file", "", "Also write logs to this file.")

	flags.Usage = func() {
		fmt.Println("Usage: commafix [flags]")
		fmt.Println("\nJoin stray comma lines and collapse ',,' and '{,' in generated files.")
		fmt.Println("\nExample: commafix -d packages/theme/themes -p '*/index.ts'")
		fmt.Println("\nFlags:")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	flags.Visit(func(f *pflag.Flag) {
		cfg.set[f.Name] = true
	})

	modes := 0
	for _, on := range []bool{cfg.Undo, cfg.Redo, cfg.Snippet} {
		if on {
			modes++
		}
	}
	if modes > 1 {
		return nil, fmt.Errorf("error: --undo, --redo and --snippet are mutually exclusive")
	}
	if cfg.Pattern == "" {
		return nil, fmt.Errorf("error: --pattern must not be empty")
	}

	return cfg, nil
}
