package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sokinpui/commafix/model"
)

type fakeRunner struct {
	summary model.Summary
	err     error
}

func (f fakeRunner) Execute() (model.Summary, error) { return f.summary, f.err }

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

func TestProgressView(t *testing.T) {
	m := New(fakeRunner{}, true)
	assert.Equal(t, "Fixing...", m.View())

	m, _ = update(t, m, ProgressMsg{Current: 1, Total: 3, Path: "/repo/themes/solid/index.ts"})
	assert.Contains(t, m.View(), "[1/3]")
	assert.Contains(t, m.View(), "solid/index.ts")
}

func TestSummaryView(t *testing.T) {
	summary := model.Summary{
		Modified:  []string{"themes/solid/index.ts"},
		Unchanged: []string{"themes/glass/index.ts"},
		Failed:    []string{"themes/luxury/index.ts"},
	}
	m := New(fakeRunner{summary: summary}, true)

	msg := m.run()
	m, cmd := update(t, m, msg)
	require.NotNil(t, cmd)

	view := m.View()
	assert.Contains(t, view, "Fixed:")
	assert.Contains(t, view, "themes/solid/index.ts")
	assert.Contains(t, view, "1 file(s) needed no changes.")
	assert.Contains(t, view, "Failed:")
	assert.NoError(t, m.Err())
}

func TestSummaryViewShowsWarnings(t *testing.T) {
	summary := model.Summary{
		Modified: []string{"themes/solid/index.ts"},
		Warnings: []string{"Neovim reload failed: connection refused"},
	}
	m := New(fakeRunner{summary: summary}, true)
	m, _ = update(t, m, m.run())
	assert.Contains(t, m.View(), "Warning: Neovim reload failed: connection refused")
}

func TestErrorViewShowsWarnings(t *testing.T) {
	runner := fakeRunner{
		summary: model.Summary{Warnings: []string{"Could not save history, undo will not be available: disk full"}},
		err:     errors.New("1 file(s) failed"),
	}
	m := New(runner, true)
	m, _ = update(t, m, m.run())
	assert.Contains(t, m.View(), "Could not save history")
	assert.Contains(t, m.View(), "Error: 1 file(s) failed")
}

func TestDryRunSummaryView(t *testing.T) {
	m := New(fakeRunner{summary: model.Summary{Modified: []string{"a.ts"}, DryRun: true}}, true)
	m, _ = update(t, m, m.run())
	assert.Contains(t, m.View(), "Would fix:")
}

func TestEmptySummaryView(t *testing.T) {
	m := New(fakeRunner{}, true)
	m, _ = update(t, m, m.run())
	assert.Contains(t, m.View(), "Nothing to do.")
}

func TestErrorView(t *testing.T) {
	m := New(fakeRunner{err: errors.New("disk full")}, true)
	m, cmd := update(t, m, m.run())
	require.NotNil(t, cmd)
	assert.Contains(t, m.View(), "Error: disk full")
	assert.EqualError(t, m.Err(), "disk full")
}

func TestQuitKey(t *testing.T) {
	m := New(fakeRunner{}, true)
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Error(t, m.Err())
}
