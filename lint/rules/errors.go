package rules

import (
	"fmt"

	"github.com/c360studio/semlint/ast"
	"github.com/c360studio/semlint/config"
	"github.com/c360studio/semlint/lint"
)

// emptyCatch reports catch blocks with no statements and no comment.
// A silently swallowed exception is the hardest bug to trace back.
// Languages without try/catch never produce these statements.
type emptyCatch struct{}

func (emptyCatch) ID() string                     { return "empty-catch" }
func (emptyCatch) Category() lint.Category        { return lint.CategoryErrors }
func (emptyCatch) DefaultSeverity() lint.Severity { return lint.SeverityError }
func (emptyCatch) Describe() string {
	return "an empty catch block swallows the exception; handle it, rethrow it, or say why not"
}

func (emptyCatch) Check(file *ast.File, _ *config.Rules) []lint.Finding {
	var findings []lint.Finding
	forEachCatch(file, func(fn *ast.Function, s *ast.Stmt) {
		if len(s.Children) == 0 && !s.HasComment {
			findings = append(findings, lint.Finding{
				Message: "empty catch block swallows the exception; handle it or comment why ignoring is safe",
				Line:    s.StartLine,
				Symbol:  funcDisplay(fn),
			})
		}
	})
	return findings
}

// overbroadTypes are the exception types a catch should never name.
var overbroadTypes = map[string]bool{
	"Exception":        true,
	"Throwable":        true,
	"RuntimeException": true,
}

// overbroadCatch reports catches of Exception, Throwable, or
// RuntimeException. Catching everything turns unrecoverable conditions
// into silent misbehaviour far from the cause.
type overbroadCatch struct{}

func (overbroadCatch) ID() string                     { return "overbroad-catch" }
func (overbroadCatch) Category() lint.Category        { return lint.CategoryErrors }
func (overbroadCatch) DefaultSeverity() lint.Severity { return lint.SeverityWarning }
func (overbroadCatch) Describe() string {
	return "catching Exception or Throwable hides failures; catch the specific types"
}

func (overbroadCatch) Check(file *ast.File, _ *config.Rules) []lint.Finding {
	var findings []lint.Finding
	forEachCatch(file, func(fn *ast.Function, s *ast.Stmt) {
		for _, caught := range s.CatchTypes {
			base := baseTypeName(caught)
			if !overbroadTypes[base] {
				continue
			}
			findings = append(findings, lint.Finding{
				Message: fmt.Sprintf("catching %s is too broad; catch the specific exception types", base),
				Line:    s.StartLine,
				Symbol:  funcDisplay(fn),
			})
		}
	})
	return findings
}

// forEachCatch visits every catch statement in every function body.
func forEachCatch(file *ast.File, fn func(*ast.Function, *ast.Stmt)) {
	for _, f := range file.Funcs {
		if f.Body == nil {
			continue
		}
		ast.WalkStmts(f.Body, func(s *ast.Stmt) bool {
			if s.Kind == ast.StmtCatch {
				fn(f, s)
			}
			return true
		})
	}
}
