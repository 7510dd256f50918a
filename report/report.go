// Package report renders finished lint reports in the supported output
// formats.
package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/c360studio/semlint/lint"
)

// Format specifies the output rendering format.
type Format string

const (
	// FormatText produces the conventional path:line:col lines.
	FormatText Format = "text"

	// FormatJSON produces the full report as indented JSON.
	FormatJSON Format = "json"

	// FormatCheckstyle produces Checkstyle XML for CI integrations.
	FormatCheckstyle Format = "checkstyle"

	// FormatMarkdown produces a Markdown summary table.
	FormatMarkdown Format = "markdown"
)

// FormatInfo provides metadata about an output format.
type FormatInfo struct {
	// Name is the format identifier.
	Name Format

	// MIMEType is the standard MIME type.
	MIMEType string

	// Extension is the file extension (with dot).
	Extension string

	// Description describes the format.
	Description string
}

// FormatRegistry contains metadata for all supported formats.
var FormatRegistry = map[Format]FormatInfo{
	FormatText: {
		Name:        FormatText,
		MIMEType:    "text/plain",
		Extension:   ".txt",
		Description: "Plain text - one path:line:col line per finding",
	},
	FormatJSON: {
		Name:        FormatJSON,
		MIMEType:    "application/json",
		Extension:   ".json",
		Description: "JSON - the complete report document",
	},
	FormatCheckstyle: {
		Name:        FormatCheckstyle,
		MIMEType:    "application/xml",
		Extension:   ".xml",
		Description: "Checkstyle XML - consumed by most CI annotators",
	},
	FormatMarkdown: {
		Name:        FormatMarkdown,
		MIMEType:    "text/markdown",
		Extension:   ".md",
		Description: "Markdown - summary plus findings table",
	},
}

// GetFormatInfo returns metadata for a format.
func GetFormatInfo(format Format) (FormatInfo, bool) {
	info, ok := FormatRegistry[format]
	return info, ok
}

// ListFormats returns the supported format names, sorted.
func ListFormats() []Format {
	formats := make([]Format, 0, len(FormatRegistry))
	for f := range FormatRegistry {
		formats = append(formats, f)
	}
	sort.Slice(formats, func(i, j int) bool { return formats[i] < formats[j] })
	return formats
}

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	f := Format(name)
	if _, ok := FormatRegistry[f]; !ok {
		return "", fmt.Errorf("unsupported format: %s", name)
	}
	return f, nil
}

// Write renders the report to w in the given format.
func Write(w io.Writer, r *lint.Report, format Format) error {
	switch format {
	case FormatText:
		return writeText(w, r)
	case FormatJSON:
		return writeJSON(w, r)
	case FormatCheckstyle:
		return writeCheckstyle(w, r)
	case FormatMarkdown:
		return writeMarkdown(w, r)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}
