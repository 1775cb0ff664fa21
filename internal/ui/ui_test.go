package ui

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileLines(t *testing.T) {
	var out, errOut bytes.Buffer
	p := New(&out, &errOut)

	p.FileStart("themes/solid/index.ts")
	p.FileDone(true, false)
	p.FileStart("themes/glass/index.ts")
	p.FileDone(false, false)
	p.FileDone(true, true)
	p.FileFailed("themes/luxury/index.ts", errors.New("permission denied"))

	assert.Contains(t, out.String(), "Fixing themes/solid/index.ts...\n")
	assert.Contains(t, out.String(), "Fixed.\n")
	assert.Contains(t, out.String(), "No changes needed.\n")
	assert.Contains(t, out.String(), "Would fix.\n")
	assert.Contains(t, errOut.String(), "Failed to fix themes/luxury/index.ts: permission denied")
}

func TestPrintFixSummary(t *testing.T) {
	var out, errOut bytes.Buffer
	p := New(&out, &errOut)

	p.PrintFixSummary([]string{"a.ts"}, []string{"b.ts", "c.ts"}, []string{"d.ts"}, false)

	assert.Contains(t, out.String(), "Fixed 1 file(s):")
	assert.Contains(t, out.String(), "  - a.ts")
	assert.Contains(t, out.String(), "2 file(s) needed no changes.")
	assert.Contains(t, errOut.String(), "Failed to process 1 file(s):")
	assert.Contains(t, errOut.String(), "  - d.ts")
}

func TestPrintFixSummaryEmpty(t *testing.T) {
	var out bytes.Buffer
	New(&out, &out).PrintFixSummary(nil, nil, nil, true)
	assert.Contains(t, out.String(), "No files were processed.")
}

func TestDiscard(t *testing.T) {
	p := Discard()
	p.Info("nothing %d", 1)
	p.Error("nothing")
}
