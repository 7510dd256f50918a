package guide

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/semlint/lint"
)

func mustParse(t *testing.T, src string) *Guide {
	t.Helper()
	g, err := Parse("g.md", []byte(src))
	require.NoError(t, err)
	return g
}

func TestVerify_PairedSections(t *testing.T) {
	g := mustParse(t, sampleGuide)
	assert.Empty(t, g.Verify())
}

func TestVerify_MissingGoodCounterpart(t *testing.T) {
	g := mustParse(t, "## Naming\n\n~~~java bad\nclass a {}\n~~~\n")

	problems := g.Verify()
	require.Len(t, problems, 1)
	assert.Equal(t, "naming", problems[0].Section)
	assert.Contains(t, problems[0].Message, "no good counterpart")
	assert.Equal(t, 1, problems[0].Line)
}

func TestVerify_MissingBadCounterpart(t *testing.T) {
	g := mustParse(t, "## Naming\n\n~~~java good\nclass Account {}\n~~~\n")

	problems := g.Verify()
	require.Len(t, problems, 1)
	assert.Contains(t, problems[0].Message, "no bad counterpart")
}

func TestVerify_UnknownRuleMapping(t *testing.T) {
	g := mustParse(t, "---\nrules:\n  ghost-section: magic-number\n---\n\n## Naming\n")

	problems := g.Verify()
	require.Len(t, problems, 1)
	assert.Contains(t, problems[0].Message, `unknown section "ghost-section"`)
	assert.Empty(t, problems[0].Section, "document-level problem")
}

func TestProblem_String(t *testing.T) {
	assert.Equal(t, "7: broken", Problem{Line: 7, Message: "broken"}.String())
	assert.Equal(t, "broken", Problem{Message: "broken"}.String())
}

// checkerFor simulates the engine: snippet names containing trigger
// yield one finding under ruleID.
func checkerFor(ruleID, trigger string) SnippetChecker {
	return func(_ context.Context, _, name string, _ []byte) ([]lint.Finding, error) {
		if strings.Contains(name, trigger) {
			return []lint.Finding{{RuleID: ruleID, Line: 1}}, nil
		}
		return nil, nil
	}
}

func TestCheckSnippets_Passing(t *testing.T) {
	g := mustParse(t, sampleGuide)

	var names []string
	check := func(ctx context.Context, language, name string, content []byte) ([]lint.Finding, error) {
		names = append(names, name)
		assert.Equal(t, "java", language)
		assert.NotEmpty(t, content)
		return checkerFor("magic-number", "bad")(ctx, language, name, content)
	}

	assert.Empty(t, g.CheckSnippets(context.Background(), check))
	assert.Equal(t, []string{"magic-numbers-bad-1", "magic-numbers-good-2"}, names,
		"unmapped sections are not checked")
}

func TestCheckSnippets_BadSnippetMustTrigger(t *testing.T) {
	g := mustParse(t, sampleGuide)

	problems := g.CheckSnippets(context.Background(), checkerFor("magic-number", "never"))

	require.Len(t, problems, 1)
	assert.Contains(t, problems[0].Message, "bad snippet triggers no magic-number finding")
	assert.Equal(t, 16, problems[0].Line)
}

func TestCheckSnippets_GoodSnippetMustStayClean(t *testing.T) {
	g := mustParse(t, sampleGuide)

	problems := g.CheckSnippets(context.Background(), checkerFor("magic-number", "magic-numbers"))

	require.Len(t, problems, 1, "the bad snippet fires too, only the good one fails")
	assert.Contains(t, problems[0].Message, "good snippet triggers magic-number 1 time(s)")
}

func TestCheckSnippets_OtherRulesIgnored(t *testing.T) {
	g := mustParse(t, sampleGuide)

	check := func(ctx context.Context, language, name string, content []byte) ([]lint.Finding, error) {
		findings, _ := checkerFor("magic-number", "bad")(ctx, language, name, content)
		// Unrelated noise on every snippet must not fail the good form.
		return append(findings, lint.Finding{RuleID: "short-name", Line: 1}), nil
	}

	assert.Empty(t, g.CheckSnippets(context.Background(), check))
}

func TestCheckSnippets_UnmappedSectionWithSnippets(t *testing.T) {
	g := mustParse(t, "## Naming\n\n~~~java bad\nclass a {}\n~~~\n\n~~~java good\nclass Account {}\n~~~\n")

	problems := g.CheckSnippets(context.Background(), checkerFor("x", "bad"))

	require.Len(t, problems, 1)
	assert.Contains(t, problems[0].Message, "no rules mapping")
}

func TestCheckSnippets_MissingLanguage(t *testing.T) {
	g := mustParse(t, "---\nrules:\n  naming: short-name\n---\n\n## Naming\n\n~~~bad\nint x;\n~~~\n")

	problems := g.CheckSnippets(context.Background(), checkerFor("short-name", "bad"))

	require.Len(t, problems, 1)
	assert.Contains(t, problems[0].Message, "no language")
}

func TestCheckSnippets_CheckError(t *testing.T) {
	g := mustParse(t, sampleGuide)

	check := func(context.Context, string, string, []byte) ([]lint.Finding, error) {
		return nil, errors.New("front end exploded")
	}

	problems := g.CheckSnippets(context.Background(), check)

	require.Len(t, problems, 2, "one per snippet in the mapped section")
	assert.Contains(t, problems[0].Message, "does not check")
}
