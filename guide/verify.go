package guide

import (
	"context"
	"fmt"

	"github.com/c360studio/semlint/lint"
)

// Problem is one guide verification failure.
type Problem struct {
	// Section is the slug of the section the problem is in, empty for
	// document-level problems.
	Section string

	// Line is the 1-based guide line the problem points at.
	Line int

	// Message describes the failure.
	Message string
}

// String renders the problem with its guide position.
func (p Problem) String() string {
	if p.Line > 0 {
		return fmt.Sprintf("%d: %s", p.Line, p.Message)
	}
	return p.Message
}

// Verify checks the guide's structural contract: every section with a
// bad snippet carries a good counterpart and vice versa, and every
// rules mapping points at a section that exists.
func (g *Guide) Verify() []Problem {
	var problems []Problem

	for _, sec := range g.Sections {
		bads := sec.ByLabel(LabelBad)
		goods := sec.ByLabel(LabelGood)
		if len(bads) > 0 && len(goods) == 0 {
			problems = append(problems, Problem{
				Section: sec.Slug,
				Line:    sec.StartLine,
				Message: fmt.Sprintf("section %q has %d bad snippet(s) but no good counterpart", sec.Title, len(bads)),
			})
		}
		if len(goods) > 0 && len(bads) == 0 {
			problems = append(problems, Problem{
				Section: sec.Slug,
				Line:    sec.StartLine,
				Message: fmt.Sprintf("section %q has %d good snippet(s) but no bad counterpart", sec.Title, len(goods)),
			})
		}
	}

	for slug := range g.Rules {
		if _, ok := g.Section(slug); !ok {
			problems = append(problems, Problem{
				Message: fmt.Sprintf("rules mapping references unknown section %q", slug),
			})
		}
	}

	return problems
}

// SnippetChecker parses in-memory source and evaluates it; the engine's
// CheckSource satisfies it.
type SnippetChecker func(ctx context.Context, language, name string, content []byte) ([]lint.Finding, error)

// CheckSnippets runs the engine over every tagged snippet in a mapped
// section: a bad snippet must trigger the section's rule at least once,
// a good snippet must not trigger it at all.
func (g *Guide) CheckSnippets(ctx context.Context, check SnippetChecker) []Problem {
	var problems []Problem

	for _, sec := range g.Sections {
		ruleID, mapped := g.Rules[sec.Slug]
		if !mapped {
			if len(sec.Snippets) > 0 {
				problems = append(problems, Problem{
					Section: sec.Slug,
					Line:    sec.StartLine,
					Message: fmt.Sprintf("section %q has snippets but no rules mapping to check them against", sec.Title),
				})
			}
			continue
		}

		for i, snip := range sec.Snippets {
			if snip.Language == "" {
				problems = append(problems, Problem{
					Section: sec.Slug,
					Line:    snip.Line,
					Message: "snippet has no language and the guide sets no default",
				})
				continue
			}

			name := fmt.Sprintf("%s-%s-%d", sec.Slug, snip.Label, i+1)
			findings, err := check(ctx, snip.Language, name, []byte(snip.Code))
			if err != nil {
				problems = append(problems, Problem{
					Section: sec.Slug,
					Line:    snip.Line,
					Message: fmt.Sprintf("%s snippet does not check: %v", snip.Label, err),
				})
				continue
			}

			hits := countRule(findings, ruleID)
			switch {
			case snip.Label == LabelBad && hits == 0:
				problems = append(problems, Problem{
					Section: sec.Slug,
					Line:    snip.Line,
					Message: fmt.Sprintf("bad snippet triggers no %s finding", ruleID),
				})
			case snip.Label == LabelGood && hits > 0:
				problems = append(problems, Problem{
					Section: sec.Slug,
					Line:    snip.Line,
					Message: fmt.Sprintf("good snippet triggers %s %d time(s)", ruleID, hits),
				})
			}
		}
	}

	return problems
}

func countRule(findings []lint.Finding, ruleID string) int {
	count := 0
	for _, f := range findings {
		if f.RuleID == ruleID {
			count++
		}
	}
	return count
}
