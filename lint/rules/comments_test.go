package rules

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/semlint/ast"
)

func TestCommentedOutCode(t *testing.T) {
	file := &ast.File{
		Language: "java",
		Comments: []ast.Comment{
			{Text: "int total = base;\nreturn total;", StartLine: 5, EndLine: 6},
			{Text: "Totals carry the rounded tax amount.", StartLine: 12, EndLine: 12},
		},
	}

	findings := commentedOutCode{}.Check(file, defaultRules())

	require.Len(t, findings, 1)
	assert.Equal(t, 5, findings[0].Line)
	assert.Contains(t, findings[0].Message, "version control remembers")
}

func TestCommentedOutCode_MostlyProse(t *testing.T) {
	// One code-shaped line against two of prose stays under the half
	// threshold.
	file := &ast.File{
		Language: "java",
		Comments: []ast.Comment{
			{Text: "The retry loop backs off exponentially.\nStarting point was:\nsleep(100);", StartLine: 3, EndLine: 5},
		},
	}

	assert.Empty(t, commentedOutCode{}.Check(file, defaultRules()))
}

func TestCommentedOutCode_SuppressionDirectivesExempt(t *testing.T) {
	file := &ast.File{
		Language: "java",
		Comments: []ast.Comment{
			{Text: "semlint:ignore magic-number\nint x = 1;", StartLine: 2, EndLine: 3},
		},
	}

	assert.Empty(t, commentedOutCode{}.Check(file, defaultRules()))
}

func TestCommentedOutCode_Patterns(t *testing.T) {
	codeLines := []string{
		"return total;",
		"}",
		"if (ready) {",
		"count = count + 1",
		"log.info(state);",
		"private int cache",
	}
	for _, line := range codeLines {
		assert.True(t, isCodeLine(line), "expected %q to read as code", line)
	}

	proseLines := []string{
		"Totals are rounded before display.",
		"See the billing notes for context.",
	}
	for _, line := range proseLines {
		assert.False(t, isCodeLine(line), "expected %q to read as prose", line)
	}
}

func TestTodoComment(t *testing.T) {
	file := &ast.File{
		Language: "java",
		Comments: []ast.Comment{
			{Text: "TODO: fix the rounding", StartLine: 5, EndLine: 5},
			{Text: "first line\nFIXME handle leap seconds", StartLine: 10, EndLine: 11},
			{Text: "Todo items live in the tracker.", StartLine: 20, EndLine: 20},
		},
	}

	findings := todoComment{}.Check(file, defaultRules())

	require.Len(t, findings, 2, "marker matching is case-sensitive")
	assert.Equal(t, 5, findings[0].Line)
	assert.Equal(t, "TODO marker: TODO: fix the rounding", findings[0].Message)
	assert.Equal(t, 11, findings[1].Line, "the marker line, not the comment start")
	assert.Contains(t, findings[1].Message, "FIXME marker:")
}

func TestTodoComment_LineClampedToComment(t *testing.T) {
	// Line comments grouped by the front end can hold more text lines
	// than source lines.
	file := &ast.File{
		Language: "go",
		Comments: []ast.Comment{
			{Text: "wraps\nTODO: split this", StartLine: 3, EndLine: 3},
		},
	}

	findings := todoComment{}.Check(file, defaultRules())

	require.Len(t, findings, 1)
	assert.Equal(t, 3, findings[0].Line)
}

func TestTodoComment_LongLinesExcerpted(t *testing.T) {
	long := "TODO: " + strings.Repeat("x", 100)
	file := &ast.File{
		Language: "java",
		Comments: []ast.Comment{{Text: long, StartLine: 2, EndLine: 2}},
	}

	findings := todoComment{}.Check(file, defaultRules())

	require.Len(t, findings, 1)
	assert.True(t, strings.HasSuffix(findings[0].Message, "..."))
	assert.Less(t, len(findings[0].Message), len(long)+len("TODO marker: "))
}
