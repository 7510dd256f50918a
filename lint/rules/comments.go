package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/c360studio/semlint/ast"
	"github.com/c360studio/semlint/config"
	"github.com/c360studio/semlint/lint"
)

// codeLinePatterns match comment lines that read as code rather than
// prose: statement terminators, braces, assignments, calls, and
// declaration keywords.
var codeLinePatterns = []*regexp.Regexp{
	regexp.MustCompile(`;\s*$`),
	regexp.MustCompile(`^\s*[{}]\s*$`),
	regexp.MustCompile(`\{\s*$`),
	regexp.MustCompile(`^\s*[\w.\[\]]+\s*:?=\s*[^=]`),
	regexp.MustCompile(`\w+\([^)]*\)\s*;`),
	regexp.MustCompile(`^\s*(if|for|while|switch|try|catch|else)\b.*[({]`),
	regexp.MustCompile(`^\s*(public|private|protected|static|final|void|int|long|float|double|boolean|char|String|func|var|const|type|return)\s+\S`),
}

// commentedOutCode flags comments whose content scores as code. Dead
// code in comments rots; version control already remembers it.
type commentedOutCode struct{}

func (commentedOutCode) ID() string                     { return "commented-out-code" }
func (commentedOutCode) Category() lint.Category        { return lint.CategoryComments }
func (commentedOutCode) DefaultSeverity() lint.Severity { return lint.SeverityWarning }
func (commentedOutCode) Describe() string {
	return "commented-out code rots; delete it and let version control remember"
}

func (commentedOutCode) Check(file *ast.File, _ *config.Rules) []lint.Finding {
	var findings []lint.Finding
	for _, c := range file.Comments {
		if strings.Contains(c.Text, ast.SuppressionMarker) {
			continue
		}
		if looksLikeCode(c.Text) {
			findings = append(findings, lint.Finding{
				Message: "comment contains commented-out code; delete it, version control remembers",
				Line:    c.StartLine,
			})
		}
	}
	return findings
}

// looksLikeCode reports whether at least half of a comment's non-empty
// lines match a code pattern.
func looksLikeCode(text string) bool {
	lines := strings.Split(text, "\n")
	total, codeLike := 0, 0
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		total++
		if isCodeLine(line) {
			codeLike++
		}
	}
	return total > 0 && codeLike*2 >= total
}

func isCodeLine(line string) bool {
	for _, p := range codeLinePatterns {
		if p.MatchString(line) {
			return true
		}
	}
	return false
}

// todoMarker matches TODO and FIXME markers the way they are
// conventionally written: upper case, standing alone.
var todoMarker = regexp.MustCompile(`\b(TODO|FIXME)\b`)

// todoComment inventories TODO and FIXME markers. They are reminders
// that never fire; the issue tracker is where reminders live.
type todoComment struct{}

func (todoComment) ID() string                     { return "todo-comment" }
func (todoComment) Category() lint.Category        { return lint.CategoryComments }
func (todoComment) DefaultSeverity() lint.Severity { return lint.SeverityInfo }
func (todoComment) Describe() string {
	return "TODO and FIXME markers are reminders that never fire; track them instead"
}

func (todoComment) Check(file *ast.File, _ *config.Rules) []lint.Finding {
	var findings []lint.Finding
	for _, c := range file.Comments {
		for i, line := range strings.Split(c.Text, "\n") {
			m := todoMarker.FindString(line)
			if m == "" {
				continue
			}
			at := c.StartLine + i
			if at > c.EndLine {
				at = c.EndLine
			}
			findings = append(findings, lint.Finding{
				Message: fmt.Sprintf("%s marker: %s", m, excerpt(line)),
				Line:    at,
			})
		}
	}
	return findings
}

// excerpt trims and bounds a comment line for inclusion in a message.
func excerpt(line string) string {
	line = strings.TrimSpace(line)
	const max = 80
	if len(line) > max {
		return line[:max] + "..."
	}
	return line
}
