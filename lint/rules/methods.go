package rules

import (
	"fmt"

	"github.com/c360studio/semlint/ast"
	"github.com/c360studio/semlint/config"
	"github.com/c360studio/semlint/lint"
)

// methodLength reports function bodies longer than the configured
// budget. Blank and brace-only lines are not counted.
type methodLength struct{}

func (methodLength) ID() string                     { return "method-length" }
func (methodLength) Category() lint.Category        { return lint.CategoryMethods }
func (methodLength) DefaultSeverity() lint.Severity { return lint.SeverityWarning }
func (methodLength) Describe() string {
	return "long methods do more than one thing; extract until each does one"
}

func (methodLength) Check(file *ast.File, cfg *config.Rules) []lint.Finding {
	var findings []lint.Finding
	for _, fn := range file.Funcs {
		if fn.Body == nil {
			continue
		}
		if fn.BodyLines > cfg.MaxMethodLines {
			findings = append(findings, lint.Finding{
				Message: fmt.Sprintf("%s %q is %d lines long (limit %d); extract smaller methods",
					fn.Kind, fn.Name, fn.BodyLines, cfg.MaxMethodLines),
				Line:   fn.StartLine,
				Symbol: funcDisplay(fn),
			})
		}
	}
	return findings
}

// parameterCount reports functions taking more parameters than the
// configured budget.
type parameterCount struct{}

func (parameterCount) ID() string                     { return "parameter-count" }
func (parameterCount) Category() lint.Category        { return lint.CategoryMethods }
func (parameterCount) DefaultSeverity() lint.Severity { return lint.SeverityWarning }
func (parameterCount) Describe() string {
	return "long parameter lists obscure call sites; group the values into an object"
}

func (parameterCount) Check(file *ast.File, cfg *config.Rules) []lint.Finding {
	var findings []lint.Finding
	for _, fn := range file.Funcs {
		if len(fn.Params) > cfg.MaxParameters {
			findings = append(findings, lint.Finding{
				Message: fmt.Sprintf("%s %q takes %d parameters (limit %d); wrap them in a parameter object",
					fn.Kind, fn.Name, len(fn.Params), cfg.MaxParameters),
				Line:   fn.StartLine,
				Symbol: funcDisplay(fn),
			})
		}
	}
	return findings
}

// flagParameter reports boolean parameters on public methods. A flag
// argument means the method does two things; callers read better with
// one method per behaviour.
type flagParameter struct{}

func (flagParameter) ID() string                     { return "flag-parameter" }
func (flagParameter) Category() lint.Category        { return lint.CategoryMethods }
func (flagParameter) DefaultSeverity() lint.Severity { return lint.SeverityInfo }
func (flagParameter) Describe() string {
	return "a boolean parameter on a public method selects between two behaviours; split the method"
}

func (flagParameter) Check(file *ast.File, _ *config.Rules) []lint.Finding {
	var findings []lint.Finding
	for _, fn := range file.Funcs {
		if fn.Kind == ast.FuncConstructor || fn.Visibility != ast.VisibilityPublic {
			continue
		}
		for _, p := range fn.Params {
			if !p.Boolean {
				continue
			}
			findings = append(findings, lint.Finding{
				Message: fmt.Sprintf("boolean parameter %q on public %s %q; split it into one method per behaviour",
					p.Name, fn.Kind, fn.Name),
				Line:   fn.StartLine,
				Symbol: funcDisplay(fn),
			})
		}
	}
	return findings
}
