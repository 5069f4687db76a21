package writer

import (
	"github.com/pmezard/go-difflib/difflib"
)

// UnifiedDiff returns a unified diff between old and newer with three lines
// of context, or "" when they are identical.
func UnifiedDiff(oldName, newName string, old, newer []byte) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(old)),
		B:        difflib.SplitLines(string(newer)),
		FromFile: oldName,
		ToFile:   newName,
		Context:  3,
	})
}
