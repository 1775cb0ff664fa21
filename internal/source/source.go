package source

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
)

// Origin says where snippet content came from.
type Origin string

const (
	OriginStdin     Origin = "stdin"
	OriginClipboard Origin = "clipboard"
)

// SourceProvider determines and retrieves the source content.
type SourceProvider struct {
	stdin *os.File
}

// New creates a new SourceProvider reading from os.Stdin.
func New() *SourceProvider {
	return &SourceProvider{stdin: os.Stdin}
}

// NewWithStdin creates a SourceProvider reading from the given file.
func NewWithStdin(f *os.File) *SourceProvider {
	return &SourceProvider{stdin: f}
}

// GetContent retrieves content from stdin (if piped) or the clipboard.
func (sp *SourceProvider) GetContent() (string, Origin, error) {
	if sp.isPiped() {
		content, err := io.ReadAll(sp.stdin)
		if err != nil {
			return "", OriginStdin, fmt.Errorf("failed to read from stdin: %w", err)
		}
		return string(content), OriginStdin, nil
	}

	content, err := clipboard.ReadAll()
	if err != nil {
		return "", OriginClipboard, fmt.Errorf("failed to read from clipboard: %w", err)
	}
	if strings.TrimSpace(content) == "" {
		return "", OriginClipboard, nil
	}
	return content, OriginClipboard, nil
}

// WriteBack puts fixed content back where it came from. Stdin content has
// nowhere to go back to and is left to the caller to print.
func (sp *SourceProvider) WriteBack(origin Origin, content string) error {
	if origin != OriginClipboard {
		return nil
	}
	if err := clipboard.WriteAll(content); err != nil {
		return fmt.Errorf("failed to write to clipboard: %w", err)
	}
	return nil
}

func (sp *SourceProvider) isPiped() bool {
	if sp.stdin == nil {
		return false
	}
	stat, err := sp.stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}
