package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/sokinpui/commafix/cli"
	"github.com/sokinpui/commafix/model"
)

// DefaultFile is read from the working directory when --config is not given.
const DefaultFile = ".commafix.yaml"

// File is the on-disk YAML configuration.
type File struct {
	Targets          []model.Target `yaml:"targets"`
	Strict           *bool          `yaml:"strict"`
	KeepLeadingComma *bool          `yaml:"keep_leading_comma"`
	FailFast         *bool          `yaml:"fail_fast"`
	RequireMatch     *bool          `yaml:"require_match"`
}

// Resolved is the effective configuration of a run.
type Resolved struct {
	Targets          []model.Target
	Strict           bool
	KeepLeadingComma bool
	FailFast         bool
	RequireMatch     bool
}

// Load reads and validates a config file. Relative target dirs are
// resolved against the directory holding the file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %w", path, err)
	}
	base := filepath.Dir(path)
	for i, t := range f.Targets {
		if t.Pattern == "" {
			return nil, fmt.Errorf("config file '%s': target %d has no pattern", path, i)
		}
		dir := t.Dir
		if dir == "" {
			dir = cli.DefaultDir
		}
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(base, dir)
		}
		f.Targets[i].Dir = dir
	}
	return &f, nil
}

// Resolve merges the config file (explicit, or DefaultFile if present) with
// the command-line flags. Flags given on the command line win.
func Resolve(cfg *cli.Config) (*Resolved, error) {
	var file *File
	switch {
	case cfg.ConfigFile != "":
		f, err := Load(cfg.ConfigFile)
		if err != nil {
			return nil, err
		}
		file = f
	default:
		if _, err := os.Stat(DefaultFile); err == nil {
			f, err := Load(DefaultFile)
			if err != nil {
				return nil, err
			}
			file = f
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to check for %s: %w", DefaultFile, err)
		}
	}
	if file == nil {
		file = &File{}
	}

	r := &Resolved{
		Strict:           pick(cfg, "strict", cfg.Strict, file.Strict),
		KeepLeadingComma: pick(cfg, "keep-leading-comma", cfg.KeepLeadingComma, file.KeepLeadingComma),
		FailFast:         pick(cfg, "fail-fast", cfg.FailFast, file.FailFast),
		RequireMatch:     pick(cfg, "require-match", cfg.RequireMatch, file.RequireMatch),
	}

	if cfg.IsSet("dir") || cfg.IsSet("pattern") || len(file.Targets) == 0 {
		r.Targets = []model.Target{{Dir: cfg.Dir, Pattern: cfg.Pattern}}
	} else {
		r.Targets = file.Targets
	}
	return r, nil
}

func pick(cfg *cli.Config, flag string, flagValue bool, fileValue *bool) bool {
	if cfg.IsSet(flag) || fileValue == nil {
		return flagValue
	}
	return *fileValue
}
