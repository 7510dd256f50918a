package report

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/c360studio/semlint/lint"
)

// checkstyleDoc is the root element CI annotators expect.
type checkstyleDoc struct {
	XMLName xml.Name         `xml:"checkstyle"`
	Version string           `xml:"version,attr"`
	Files   []checkstyleFile `xml:"file"`
}

type checkstyleFile struct {
	Name   string            `xml:"name,attr"`
	Errors []checkstyleError `xml:"error"`
}

type checkstyleError struct {
	Line     int    `xml:"line,attr"`
	Column   int    `xml:"column,attr,omitempty"`
	Severity string `xml:"severity,attr"`
	Message  string `xml:"message,attr"`
	Source   string `xml:"source,attr"`
}

// writeCheckstyle renders Checkstyle XML. Findings arrive sorted by
// path, so files group by walking the list once.
func writeCheckstyle(w io.Writer, r *lint.Report) error {
	doc := checkstyleDoc{Version: "4.3"}

	var current *checkstyleFile
	for _, f := range r.Findings {
		if current == nil || current.Name != f.Path {
			doc.Files = append(doc.Files, checkstyleFile{Name: f.Path})
			current = &doc.Files[len(doc.Files)-1]
		}
		current.Errors = append(current.Errors, checkstyleError{
			Line:     f.Line,
			Column:   f.Column,
			Severity: checkstyleSeverity(f.Severity),
			Message:  f.Message,
			Source:   "semlint." + f.RuleID,
		})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode checkstyle: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// checkstyleSeverity maps to Checkstyle's info/warning/error levels,
// which happen to match ours.
func checkstyleSeverity(s lint.Severity) string {
	return string(s)
}
