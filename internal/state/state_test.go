package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixFile(t *testing.T, m *Manager, path, before, after string) Operation {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(after), 0o644))
	op, err := m.CreateOperation(path, before, after)
	require.NoError(t, err)
	return op
}

func TestUndoRedo(t *testing.T) {
	root := t.TempDir()
	m, err := New(root)
	require.NoError(t, err)

	path := filepath.Join(root, "index.ts")
	op := fixFile(t, m, path, "a\n,\n", "a,\n")
	require.NoError(t, m.Write([]Operation{op}))

	ops, err := m.GetOperationsToUndo()
	require.NoError(t, err)
	require.Len(t, ops, 1)
	require.NoError(t, m.Revert(ops[0]))
	content, _ := os.ReadFile(path)
	assert.Equal(t, "a\n,\n", string(content))

	ops, err = m.GetOperationsToUndo()
	require.NoError(t, err)
	assert.Empty(t, ops)

	ops, err = m.GetOperationsToRedo()
	require.NoError(t, err)
	require.Len(t, ops, 1)
	require.NoError(t, m.Reapply(ops[0]))
	content, _ = os.ReadFile(path)
	assert.Equal(t, "a,\n", string(content))

	ops, err = m.GetOperationsToRedo()
	require.NoError(t, err)
	assert.Empty(t, ops)
}

func TestHistoryPersists(t *testing.T) {
	root := t.TempDir()
	m, err := New(root)
	require.NoError(t, err)

	first := fixFile(t, m, filepath.Join(root, "b.ts"), "b,,\n", "b,\n")
	second := fixFile(t, m, filepath.Join(root, "a.ts"), "{,\n", "{\n")
	require.NoError(t, m.Write([]Operation{first, second}))

	reloaded, err := New(root)
	require.NoError(t, err)
	require.Len(t, reloaded.state.History, 1)
	assert.Equal(t, 0, reloaded.state.CurrentIndex)
	assert.Equal(t, []Operation{second, first}, reloaded.state.History[0].Operations)
}

func TestWriteDropsRedoTail(t *testing.T) {
	root := t.TempDir()
	m, err := New(root)
	require.NoError(t, err)
	path := filepath.Join(root, "x.ts")

	require.NoError(t, m.Write([]Operation{fixFile(t, m, path, "1,,\n", "1,\n")}))
	require.NoError(t, m.Write([]Operation{fixFile(t, m, path, "2,,\n", "2,\n")}))
	_, err = m.GetOperationsToUndo()
	require.NoError(t, err)

	require.NoError(t, m.Write([]Operation{fixFile(t, m, path, "3,,\n", "3,\n")}))
	assert.Len(t, m.state.History, 2)
	assert.Equal(t, 1, m.state.CurrentIndex)

	ops, err := m.GetOperationsToRedo()
	require.NoError(t, err)
	assert.Empty(t, ops)
}

func TestRevertRefusesEditedFile(t *testing.T) {
	root := t.TempDir()
	m, err := New(root)
	require.NoError(t, err)

	path := filepath.Join(root, "index.ts")
	op := fixFile(t, m, path, "a\n,\n", "a,\n")
	require.NoError(t, os.WriteFile(path, []byte("edited\n"), 0o644))

	err = m.Revert(op)
	assert.ErrorIs(t, err, ErrContentMismatch)
	content, _ := os.ReadFile(path)
	assert.Equal(t, "edited\n", string(content))
}

func TestLoadRejectsCorruptState(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, DirName)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, stateFileName), []byte("zero\n"), 0o644))

	_, err := New(root)
	assert.Error(t, err)
}

func TestWriteIgnoresEmptyRun(t *testing.T) {
	m, err := New(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, m.Write(nil))
	assert.Equal(t, -1, m.state.CurrentIndex)
}
