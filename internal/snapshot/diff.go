package snapshot

import (
	"github.com/pmezard/go-difflib/difflib"
)

// Diff returns a unified diff between the blob lines of two snapshots, one
// line per blob. It returns the empty string when the texts are identical.
func Diff(before, after Snapshot) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        lines(before),
		B:        lines(after),
		FromFile: label(before),
		ToFile:   label(after),
		Context:  2,
	})
}

func lines(s Snapshot) []string {
	out := make([]string, len(s.Entries))
	for i, e := range s.Entries {
		out[i] = e.Text + "\n"
	}
	return out
}

func label(s Snapshot) string {
	if s.Chain == "" {
		return "chain"
	}
	return "chain " + s.Chain
}
