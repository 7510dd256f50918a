package rules

import (
	"fmt"

	"github.com/c360studio/semlint/ast"
	"github.com/c360studio/semlint/config"
	"github.com/c360studio/semlint/lint"
)

// booleanLiteralComparison flags comparisons of an expression against a
// boolean literal. The expression already is the condition.
type booleanLiteralComparison struct{}

func (booleanLiteralComparison) ID() string                     { return "boolean-literal-comparison" }
func (booleanLiteralComparison) Category() lint.Category        { return lint.CategoryConditionals }
func (booleanLiteralComparison) DefaultSeverity() lint.Severity { return lint.SeverityWarning }
func (booleanLiteralComparison) Describe() string {
	return "comparing against true or false is redundant; test the expression directly"
}

func (booleanLiteralComparison) Check(file *ast.File, _ *config.Rules) []lint.Finding {
	var findings []lint.Finding
	for _, bc := range file.BoolCompares {
		var hint string
		if (bc.Operator == "==") == (bc.Literal == "true") {
			hint = "use the expression directly"
		} else {
			hint = "negate the expression instead"
		}
		findings = append(findings, lint.Finding{
			Message: fmt.Sprintf("redundant comparison with %s; %s", bc.Literal, hint),
			Line:    bc.Line,
			Column:  bc.Col,
		})
	}
	return findings
}

// nestingDepth reports functions whose control flow nests deeper than
// the configured budget. One finding per function, at the deepest
// statement.
type nestingDepth struct{}

func (nestingDepth) ID() string                     { return "nesting-depth" }
func (nestingDepth) Category() lint.Category        { return lint.CategoryConditionals }
func (nestingDepth) DefaultSeverity() lint.Severity { return lint.SeverityWarning }
func (nestingDepth) Describe() string {
	return "deep nesting hides the happy path; invert conditions into guard clauses"
}

func (nestingDepth) Check(file *ast.File, cfg *config.Rules) []lint.Finding {
	var findings []lint.Finding
	for _, fn := range file.Funcs {
		if fn.Body == nil {
			continue
		}
		deepest, line := 0, 0
		for _, child := range fn.Body.Children {
			measureDepth(child, 0, &deepest, &line)
		}
		if deepest > cfg.MaxNesting {
			findings = append(findings, lint.Finding{
				Message: fmt.Sprintf("%s %q nests %d levels deep (limit %d); use guard clauses or extract the inner block",
					fn.Kind, fn.Name, deepest, cfg.MaxNesting),
				Line:   line,
				Symbol: funcDisplay(fn),
			})
		}
	}
	return findings
}

// measureDepth walks a statement tree tracking control-structure depth.
// An else-if chain stays at the depth of its first if; a plain else
// branch sits inside the if like the then branch does.
func measureDepth(s *ast.Stmt, depth int, deepest, line *int) {
	if s == nil {
		return
	}
	d := depth
	switch s.Kind {
	case ast.StmtIf, ast.StmtLoop, ast.StmtSwitch, ast.StmtTry:
		d = depth + 1
		if d > *deepest {
			*deepest, *line = d, s.StartLine
		}
	}
	for _, child := range s.Children {
		measureDepth(child, d, deepest, line)
	}
	if s.Else != nil {
		if s.Else.Kind == ast.StmtIf {
			measureDepth(s.Else, depth, deepest, line)
		} else {
			measureDepth(s.Else, d, deepest, line)
		}
	}
}

// negatedElse flags an if whose condition is negated and that carries
// an else branch. Stating the positive case first reads better.
type negatedElse struct{}

func (negatedElse) ID() string                     { return "negated-else" }
func (negatedElse) Category() lint.Category        { return lint.CategoryConditionals }
func (negatedElse) DefaultSeverity() lint.Severity { return lint.SeverityInfo }
func (negatedElse) Describe() string {
	return "a negated condition with an else reads backwards; state the positive case first"
}

func (negatedElse) Check(file *ast.File, _ *config.Rules) []lint.Finding {
	var findings []lint.Finding
	for _, fn := range file.Funcs {
		if fn.Body == nil {
			continue
		}
		ast.WalkStmts(fn.Body, func(s *ast.Stmt) bool {
			if s.Kind == ast.StmtIf && s.CondNegated && hasElseBody(s) {
				findings = append(findings, lint.Finding{
					Message: "negated condition with an else branch; swap the branches and drop the negation",
					Line:    s.StartLine,
					Symbol:  funcDisplay(fn),
				})
			}
			return true
		})
	}
	return findings
}

func hasElseBody(s *ast.Stmt) bool {
	if s.Else == nil {
		return false
	}
	return s.Else.Kind == ast.StmtIf || len(s.Else.Children) > 0
}
