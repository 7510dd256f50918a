package guide

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffSnippets renders a line diff from the bad form to the good form,
// with -/+ prefixes. Used by guide show --diff.
func DiffSnippets(bad, good string) string {
	dmp := diffmatchpatch.New()

	// Line-level reduction avoids newline boundary artifacts when
	// converting back to line operations.
	a, b, lineArray := dmp.DiffLinesToChars(ensureTrailingNewline(bad), ensureTrailingNewline(good))
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	var sb strings.Builder
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		}
		for _, line := range splitDiffLines(d.Text) {
			sb.WriteString(prefix)
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// splitDiffLines splits diff text into lines, dropping the empty tail
// the trailing newline produces.
func splitDiffLines(text string) []string {
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func ensureTrailingNewline(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
