package fs

import (
	"encoding/hex"
	"errors"
	"fmt"
	iofs "io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/zeebo/xxh3"
)

// ErrBadPattern is returned for glob patterns doublestar cannot parse.
var ErrBadPattern = errors.New("invalid glob pattern")

// FindTargets returns the sorted absolute paths of regular files under
// baseDir that match pattern. The pattern is slash-separated and relative
// to baseDir, e.g. "*/index.ts" or "**/*.ts".
func FindTargets(baseDir, pattern string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("%w: %q", ErrBadPattern, pattern)
	}

	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("could not resolve base directory '%s': %w", baseDir, err)
	}
	info, err := os.Stat(absBase)
	if err != nil {
		return nil, fmt.Errorf("could not access base directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("base directory '%s' is not a directory", absBase)
	}

	matches, err := doublestar.Glob(os.DirFS(absBase), pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to match '%s' in '%s': %w", pattern, absBase, err)
	}

	seen := make(map[string]struct{}, len(matches))
	paths := make([]string, 0, len(matches))
	for _, m := range matches {
		p := filepath.Join(absBase, filepath.FromSlash(m))
		if _, ok := seen[p]; ok {
			continue
		}
		info, err := os.Stat(p)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		seen[p] = struct{}{}
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths, nil
}

// ReadFile reads the whole file into memory.
func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// WriteFile replaces the content of path in a single write, keeping the
// permission bits of the existing file.
func WriteFile(path, content string) error {
	perm := iofs.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	return os.WriteFile(path, []byte(content), perm)
}

// Hash returns the hex xxh3-128 digest of content.
func Hash(content string) string {
	sum := xxh3.HashString128(content).Bytes()
	return hex.EncodeToString(sum[:])
}

// HashFile hashes the current content of path.
func HashFile(path string) (string, error) {
	content, err := ReadFile(path)
	if err != nil {
		return "", err
	}
	return Hash(content), nil
}

// Relative converts absolute paths to be relative to the working directory
// for display, falling back to the absolute path.
func Relative(paths []string) []string {
	wd, err := os.Getwd()
	if err != nil {
		return paths
	}
	rel := make([]string, len(paths))
	for i, p := range paths {
		r, err := filepath.Rel(wd, p)
		if err != nil {
			rel[i] = p
		} else {
			rel[i] = r
		}
	}
	return rel
}
