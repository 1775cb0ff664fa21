package preview

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
)

// UnifiedDiff renders the change from original to fixed as a unified diff
// with a/ and b/ prefixed paths. Equal inputs produce an empty string.
func UnifiedDiff(path, original, fixed string) (string, error) {
	if original == fixed {
		return "", nil
	}
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(original),
		B:        difflib.SplitLines(fixed),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("failed to build diff for %s: %w", path, err)
	}
	return text, nil
}
