package report

import (
	"encoding/json"
	"io"

	"github.com/c360studio/semlint/lint"
)

// writeJSON renders the complete report document as indented JSON.
func writeJSON(w io.Writer, r *lint.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
