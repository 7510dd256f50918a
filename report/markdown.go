package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/c360studio/semlint/lint"
)

// writeMarkdown renders a summary header plus a findings table.
func writeMarkdown(w io.Writer, r *lint.Report) error {
	var sb strings.Builder

	sb.WriteString("# Lint report\n\n")
	fmt.Fprintf(&sb, "**Root:** `%s`  \n", r.Root)
	fmt.Fprintf(&sb, "**Files:** %d checked", r.FilesScanned)
	if r.FilesFailed > 0 {
		fmt.Fprintf(&sb, ", %d failed to parse", r.FilesFailed)
	}
	sb.WriteString("  \n")
	fmt.Fprintf(&sb, "**Findings:** %d (%d errors, %d warnings, %d info)\n\n",
		r.Total(),
		r.BySeverity[lint.SeverityError],
		r.BySeverity[lint.SeverityWarning],
		r.BySeverity[lint.SeverityInfo])

	if r.Total() == 0 {
		sb.WriteString("No findings.\n")
		_, err := io.WriteString(w, sb.String())
		return err
	}

	sb.WriteString("| Location | Severity | Rule | Message |\n")
	sb.WriteString("| --- | --- | --- | --- |\n")
	for _, f := range r.Findings {
		location := fmt.Sprintf("%s:%d", f.Path, f.Line)
		if f.Column > 0 {
			location = fmt.Sprintf("%s:%d", location, f.Column)
		}
		fmt.Fprintf(&sb, "| `%s` | %s | %s | %s |\n",
			location, f.Severity, f.RuleID, escapeCell(f.Message))
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// escapeCell keeps pipes and newlines from breaking the table.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}
