package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

func TestFindTargets(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"solid/index.ts":       "a",
		"glass/index.ts":       "b",
		"glass/extra.ts":       "c",
		"index.ts":             "d",
		"nested/deep/index.ts": "e",
		"minimal/index.ts.bak": "f",
	})
	require.NoError(t, os.MkdirAll(filepath.Join(root, "dir", "index.ts"), 0o755))

	t.Run("one wildcard segment", func(t *testing.T) {
		got, err := FindTargets(root, "*/index.ts")
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(root, "glass", "index.ts"),
			filepath.Join(root, "solid", "index.ts"),
		}, got)
	})

	t.Run("recursive wildcard", func(t *testing.T) {
		got, err := FindTargets(root, "**/index.ts")
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(root, "glass", "index.ts"),
			filepath.Join(root, "index.ts"),
			filepath.Join(root, "nested", "deep", "index.ts"),
			filepath.Join(root, "solid", "index.ts"),
		}, got)
	})

	t.Run("no match", func(t *testing.T) {
		got, err := FindTargets(root, "*/theme.ts")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("bad pattern", func(t *testing.T) {
		_, err := FindTargets(root, "[")
		assert.ErrorIs(t, err, ErrBadPattern)
	})

	t.Run("missing base dir", func(t *testing.T) {
		_, err := FindTargets(filepath.Join(root, "missing"), "*/index.ts")
		assert.Error(t, err)
	})

	t.Run("base is a file", func(t *testing.T) {
		_, err := FindTargets(filepath.Join(root, "index.ts"), "*")
		assert.Error(t, err)
	})
}

func TestWriteFileKeepsPermissions(t *testing.T) {
	p := filepath.Join(t.TempDir(), "index.ts")
	require.NoError(t, os.WriteFile(p, []byte("old"), 0o600))

	require.NoError(t, WriteFile(p, "new"))

	info, err := os.Stat(p)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	content, err := ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "new", content)
}

func TestHash(t *testing.T) {
	assert.Equal(t, Hash("abc"), Hash("abc"))
	assert.NotEqual(t, Hash("abc"), Hash("abd"))
	assert.Len(t, Hash(""), 32)

	p := filepath.Join(t.TempDir(), "f")
	require.NoError(t, os.WriteFile(p, []byte("abc"), 0o644))
	h, err := HashFile(p)
	require.NoError(t, err)
	assert.Equal(t, Hash("abc"), h)
}
