package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultDir, cfg.Dir)
	assert.Equal(t, DefaultPattern, cfg.Pattern)
	assert.False(t, cfg.DryRun)
	assert.False(t, cfg.IsSet("dir"))
}

func TestParseFlags(t *testing.T) {
	cfg, err := Parse([]string{"-d", "themes", "-p", "**/*.ts", "-n", "--strict", "--keep-leading-comma", "--fail-fast"})
	require.NoError(t, err)
	assert.Equal(t, "themes", cfg.Dir)
	assert.Equal(t, "**/*.ts", cfg.Pattern)
	assert.True(t, cfg.DryRun)
	assert.True(t, cfg.Strict)
	assert.True(t, cfg.KeepLeadingComma)
	assert.True(t, cfg.FailFast)
	assert.True(t, cfg.IsSet("dir"))
	assert.True(t, cfg.IsSet("strict"))
	assert.False(t, cfg.IsSet("require-match"))
}

func TestParseRejectsConflictingModes(t *testing.T) {
	for _, args := range [][]string{
		{"--undo", "--redo"},
		{"-u", "-s"},
		{"--redo", "--snippet"},
	} {
		_, err := Parse(args)
		assert.Error(t, err, "args %v", args)
	}
}

func TestParseRejectsEmptyPattern(t *testing.T) {
	_, err := Parse([]string{"--pattern", ""})
	assert.Error(t, err)
}

func TestParseUnknownFlag(t *testing.T) {
	_, err := Parse([]string{"--nope"})
	assert.Error(t, err)
}
