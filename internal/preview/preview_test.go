package preview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnifiedDiff(t *testing.T) {
	diff, err := UnifiedDiff("themes/solid/index.ts", "  foo: 1\n,\n  bar: 2\n", "  foo: 1,\n  bar: 2\n")
	require.NoError(t, err)

	assert.Contains(t, diff, "--- a/themes/solid/index.ts")
	assert.Contains(t, diff, "+++ b/themes/solid/index.ts")
	assert.Contains(t, diff, "\n-  foo: 1\n")
	assert.Contains(t, diff, "\n-,\n")
	assert.Contains(t, diff, "\n+  foo: 1,\n")
	assert.Contains(t, diff, "\n   bar: 2\n")
}

func TestUnifiedDiffNoChange(t *testing.T) {
	diff, err := UnifiedDiff("x.ts", "same\n", "same\n")
	require.NoError(t, err)
	assert.Empty(t, diff)
}
