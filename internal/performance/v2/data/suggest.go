package data

import (
	"fmt"

	"github.com/agnivade/levenshtein"
)

// suggestRenameTargets flags rename keys that don't match any projected
// column, offering the closest column name the way OPA's CLI suggests the
// nearest command name on a typo.
func suggestRenameTargets(columns []string, rename map[string]string, errs *ValidationErrors) {
	known := make(map[string]bool, len(columns))
	for _, c := range columns {
		known[c] = true
	}

	for from := range rename {
		if known[from] {
			continue
		}
		if best, ok := closestColumn(from, columns); ok {
			errs.Add("rename", fmt.Sprintf("column %q not found, did you mean %q?", from, best))
		} else {
			errs.Add("rename", fmt.Sprintf("column %q not found", from))
		}
	}
}

// closestColumn returns the column in candidates with the smallest edit
// distance to name, provided the distance is small enough to be a plausible
// typo rather than an unrelated name.
func closestColumn(name string, candidates []string) (string, bool) {
	best := ""
	bestDist := -1
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(name, c)
		if bestDist == -1 || d < bestDist {
			best, bestDist = c, d
		}
	}
	if bestDist < 0 || bestDist > 3 {
		return "", false
	}
	return best, true
}
