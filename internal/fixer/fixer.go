package fixer

import (
	"slices"
	"strings"
)

// Options tunes the repair pass.
type Options struct {
	// Strict repeats the pass until the output stops changing. Output can
	// differ from the single-pass result, e.g. consecutive stray commas.
	Strict bool
	// KeepLeadingComma keeps a stray comma that has no preceding line to
	// attach to instead of dropping it.
	KeepLeadingComma bool
}

// SplitLines splits content into lines, each keeping its terminator.
// The last line has no terminator when the content doesn't end with one.
func SplitLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.SplitAfter(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// Join concatenates lines produced by SplitLines or Lines.
func Join(lines []string) string {
	return strings.Join(lines, "")
}

// IsStrayComma reports whether a line holds nothing but a single comma.
func IsStrayComma(line string) bool {
	return strings.TrimSpace(line) == ","
}

// Lines applies the repair to an ordered list of lines.
func Lines(lines []string, opts Options) []string {
	out := pass(lines, opts)
	if !opts.Strict {
		return out
	}
	// A changing pass either drops a line or shortens one, so this is bounded.
	for limit := len(Join(lines)); limit > 0; limit-- {
		next := pass(out, opts)
		if slices.Equal(next, out) {
			break
		}
		out = next
	}
	return out
}

// Content applies the repair to a whole file body.
func Content(content string, opts Options) string {
	return Join(Lines(SplitLines(content), opts))
}

func pass(lines []string, opts Options) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if IsStrayComma(line) {
			if len(out) == 0 {
				if opts.KeepLeadingComma {
					out = append(out, line)
				}
				continue
			}
			prev := out[len(out)-1]
			body, eol := splitTerminator(prev)
			if eol == "" {
				eol = "\n"
			}
			out[len(out)-1] = body + "," + eol
			continue
		}
		out = append(out, cleanLine(line))
	}
	return out
}

// cleanLine collapses ",," and "{," once per occurrence, in that order.
func cleanLine(line string) string {
	line = strings.ReplaceAll(line, ",,", ",")
	return strings.ReplaceAll(line, "{,", "{")
}

func splitTerminator(line string) (body, eol string) {
	switch {
	case strings.HasSuffix(line, "\r\n"):
		return line[:len(line)-2], "\r\n"
	case strings.HasSuffix(line, "\n"):
		return line[:len(line)-1], "\n"
	default:
		return line, ""
	}
}
