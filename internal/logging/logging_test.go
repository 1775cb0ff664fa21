package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewNop(t *testing.T) {
	logger, err := New(false, "")
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.ErrorLevel))
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "commafix.log")
	logger, err := New(false, path)
	require.NoError(t, err)

	logger.Info("fixed file", zap.String("path", "themes/solid/index.ts"))
	logger.Debug("not written at info level")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "fixed file")
	assert.Contains(t, string(data), "themes/solid/index.ts")
	assert.NotContains(t, string(data), "not written")
}
