package report

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/semlint/lint"
)

func sampleReport() *lint.Report {
	r := lint.NewReport("1.0.0", "/repo")
	r.Add(
		lint.Finding{RuleID: "magic-number", Category: lint.CategoryLiterals,
			Severity: lint.SeverityWarning, Message: "magic number 500",
			Path: "src/Main.java", Line: 10, Column: 5},
		lint.Finding{RuleID: "empty-catch", Category: lint.CategoryErrors,
			Severity: lint.SeverityError, Message: "empty catch block",
			Path: "src/Main.java", Line: 20},
		lint.Finding{RuleID: "todo-comment", Category: lint.CategoryComments,
			Severity: lint.SeverityInfo, Message: "TODO marker: TODO later",
			Path: "src/util/Strings.java", Line: 3},
	)
	r.FilesScanned = 2
	r.Finish()
	return r
}

func TestParseFormat(t *testing.T) {
	for _, name := range []string{"text", "json", "checkstyle", "markdown"} {
		f, err := ParseFormat(name)
		require.NoError(t, err)
		assert.Equal(t, Format(name), f)
	}

	_, err := ParseFormat("yaml")
	assert.Error(t, err)
}

func TestListFormats(t *testing.T) {
	assert.Equal(t, []Format{FormatCheckstyle, FormatJSON, FormatMarkdown, FormatText}, ListFormats())
}

func TestGetFormatInfo(t *testing.T) {
	info, ok := GetFormatInfo(FormatCheckstyle)
	require.True(t, ok)
	assert.Equal(t, "application/xml", info.MIMEType)
	assert.Equal(t, ".xml", info.Extension)

	_, ok = GetFormatInfo(Format("bogus"))
	assert.False(t, ok)
}

func TestWrite_UnsupportedFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, sampleReport(), Format("bogus"))
	assert.Error(t, err)
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleReport(), FormatText))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 5, "findings, a separator, and the summary")
	assert.Equal(t, "src/Main.java:10:5: warning: magic number 500 [magic-number]", lines[0])
	assert.Equal(t, "src/Main.java:20: error: empty catch block [empty-catch]", lines[1])
	assert.Equal(t, "src/util/Strings.java:3: info: TODO marker: TODO later [todo-comment]", lines[2])
	assert.Empty(t, lines[3])
	assert.Equal(t, "2 files checked, 3 findings (1 errors, 1 warnings, 1 info)", lines[4])
}

func TestWriteText_CleanRun(t *testing.T) {
	r := lint.NewReport("1.0.0", "/repo")
	r.FilesScanned = 1
	r.Finish()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, r, FormatText))
	assert.Equal(t, "1 file checked, no findings\n", buf.String())
}

func TestWriteText_ParseFailures(t *testing.T) {
	r := lint.NewReport("1.0.0", "/repo")
	r.FilesScanned = 3
	r.FilesFailed = 1
	r.Finish()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, r, FormatText))
	assert.Equal(t, "3 files checked, 1 failed to parse, no findings\n", buf.String())
}

func TestWriteJSON(t *testing.T) {
	src := sampleReport()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, src, FormatJSON))

	var decoded lint.Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, src.ID, decoded.ID)
	assert.Equal(t, 2, decoded.FilesScanned)
	require.Len(t, decoded.Findings, 3)
	assert.Equal(t, "magic-number", decoded.Findings[0].RuleID)
	assert.Equal(t, 1, decoded.BySeverity[lint.SeverityError])

	assert.Contains(t, buf.String(), `"rule_id"`)
	assert.Contains(t, buf.String(), "\n  ", "output is indented")
}

func TestWriteCheckstyle(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleReport(), FormatCheckstyle))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, xml.Header))

	var doc checkstyleDoc
	require.NoError(t, xml.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "4.3", doc.Version)
	require.Len(t, doc.Files, 2, "findings group by file")

	main := doc.Files[0]
	assert.Equal(t, "src/Main.java", main.Name)
	require.Len(t, main.Errors, 2)
	assert.Equal(t, 10, main.Errors[0].Line)
	assert.Equal(t, 5, main.Errors[0].Column)
	assert.Equal(t, "warning", main.Errors[0].Severity)
	assert.Equal(t, "semlint.magic-number", main.Errors[0].Source)

	assert.Equal(t, "src/util/Strings.java", doc.Files[1].Name)
}

func TestWriteMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleReport(), FormatMarkdown))

	out := buf.String()
	assert.Contains(t, out, "# Lint report")
	assert.Contains(t, out, "**Root:** `/repo`")
	assert.Contains(t, out, "**Files:** 2 checked")
	assert.Contains(t, out, "**Findings:** 3 (1 errors, 1 warnings, 1 info)")
	assert.Contains(t, out, "| Location | Severity | Rule | Message |")
	assert.Contains(t, out, "| `src/Main.java:10:5` | warning | magic-number | magic number 500 |")
	assert.Contains(t, out, "| `src/Main.java:20` | error | empty-catch | empty catch block |")
}

func TestWriteMarkdown_CleanRun(t *testing.T) {
	r := lint.NewReport("1.0.0", "/repo")
	r.FilesScanned = 1
	r.Finish()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, r, FormatMarkdown))
	assert.Contains(t, buf.String(), "No findings.")
	assert.NotContains(t, buf.String(), "| Location |")
}

func TestWriteMarkdown_EscapesCells(t *testing.T) {
	r := lint.NewReport("1.0.0", "/repo")
	r.Add(lint.Finding{
		RuleID: "stub", Severity: lint.SeverityInfo,
		Message: "pipes | and\nnewlines", Path: "a.java", Line: 1,
	})
	r.FilesScanned = 1
	r.Finish()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, r, FormatMarkdown))
	assert.Contains(t, buf.String(), `pipes \| and newlines`)
}
