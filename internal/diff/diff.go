// Package diff renders the change between the published version script and
// the regenerated one as a unified patch, using
// github.com/pmezard/go-difflib/difflib.
package diff

import (
	"strings"

	difflib "github.com/pmezard/go-difflib/difflib"
)

// DefaultContext is the number of context lines around each hunk.
const DefaultContext = 3

// Unified returns a unified patch turning a into b. It returns "" when the
// inputs are identical.
func Unified(aName, bName, a, b string, context int) (string, error) {
	if context <= 0 {
		context = DefaultContext
	}
	if a == b {
		return "", nil
	}

	u := difflib.UnifiedDiff{
		A:        splitLinesKeepNL(a),
		B:        splitLinesKeepNL(b),
		FromFile: aName,
		ToFile:   bName,
		Context:  context,
	}
	return difflib.GetUnifiedDiffString(u)
}

// splitLinesKeepNL keeps the trailing "\n" on each line so hunks print as-is.
func splitLinesKeepNL(s string) []string {
	if s == "" {
		return []string{}
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
