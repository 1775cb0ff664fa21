package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetContentFromRedirectedStdin(t *testing.T) {
	p := filepath.Join(t.TempDir(), "input.md")
	require.NoError(t, os.WriteFile(p, []byte("a\n,\n"), 0o644))
	f, err := os.Open(p)
	require.NoError(t, err)
	defer f.Close()

	sp := NewWithStdin(f)
	content, origin, err := sp.GetContent()
	require.NoError(t, err)
	assert.Equal(t, OriginStdin, origin)
	assert.Equal(t, "a\n,\n", content)

	// Stdin content is never written anywhere.
	assert.NoError(t, sp.WriteBack(origin, "a,\n"))
}
