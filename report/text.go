package report

import (
	"fmt"
	"io"

	"github.com/c360studio/semlint/lint"
)

// writeText renders one line per finding followed by a summary line.
func writeText(w io.Writer, r *lint.Report) error {
	for _, f := range r.Findings {
		if _, err := fmt.Fprintln(w, f.String()); err != nil {
			return err
		}
	}
	if len(r.Findings) > 0 {
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, summaryLine(r))
	return err
}

// summaryLine condenses the run into one sentence.
func summaryLine(r *lint.Report) string {
	files := fmt.Sprintf("%d files checked", r.FilesScanned)
	if r.FilesScanned == 1 {
		files = "1 file checked"
	}
	if r.FilesFailed > 0 {
		files += fmt.Sprintf(", %d failed to parse", r.FilesFailed)
	}
	if r.Total() == 0 {
		return files + ", no findings"
	}
	return fmt.Sprintf("%s, %d findings (%d errors, %d warnings, %d info)",
		files, r.Total(),
		r.BySeverity[lint.SeverityError],
		r.BySeverity[lint.SeverityWarning],
		r.BySeverity[lint.SeverityInfo])
}
