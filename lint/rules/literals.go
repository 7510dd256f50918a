package rules

import (
	"fmt"

	"github.com/c360studio/semlint/ast"
	"github.com/c360studio/semlint/config"
	"github.com/c360studio/semlint/lint"
)

// magicNumber reports numeric literals used in logic. Literals feeding
// a constant declaration are the fix, not the problem, and stay quiet,
// as do allowlisted values.
type magicNumber struct{}

func (magicNumber) ID() string                     { return "magic-number" }
func (magicNumber) Category() lint.Category        { return lint.CategoryLiterals }
func (magicNumber) DefaultSeverity() lint.Severity { return lint.SeverityWarning }
func (magicNumber) Describe() string {
	return "bare numeric literals carry no meaning; extract a named constant"
}

func (magicNumber) Check(file *ast.File, cfg *config.Rules) []lint.Finding {
	var findings []lint.Finding
	for _, n := range file.Numbers {
		if n.InConst || cfg.AllowsNumber(n.Value) {
			continue
		}
		findings = append(findings, lint.Finding{
			Message: fmt.Sprintf("magic number %s; extract a named constant", n.Value),
			Line:    n.Line,
			Column:  n.Col,
		})
	}
	return findings
}

// magicString reports a string literal repeated enough times in one
// file that a typo in one copy would slip through review. One finding
// per value, at the first occurrence.
type magicString struct{}

func (magicString) ID() string                     { return "magic-string" }
func (magicString) Category() lint.Category        { return lint.CategoryLiterals }
func (magicString) DefaultSeverity() lint.Severity { return lint.SeverityInfo }
func (magicString) Describe() string {
	return "a string literal repeated across a file belongs in a named constant"
}

func (magicString) Check(file *ast.File, cfg *config.Rules) []lint.Finding {
	counts := make(map[string]int)
	first := make(map[string]ast.StringLit)
	for _, s := range file.Strings {
		if s.InConst || len(s.Value) < 2 {
			continue
		}
		counts[s.Value]++
		if _, seen := first[s.Value]; !seen {
			first[s.Value] = s
		}
	}

	var findings []lint.Finding
	for value, count := range counts {
		if count < cfg.DuplicateStringThreshold {
			continue
		}
		at := first[value]
		findings = append(findings, lint.Finding{
			Message: fmt.Sprintf("string literal %q occurs %d times; extract a named constant", value, count),
			Line:    at.Line,
			Column:  at.Col,
		})
	}
	return findings
}
