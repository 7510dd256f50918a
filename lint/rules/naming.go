package rules

import (
	"fmt"
	"strings"

	"github.com/c360studio/semlint/ast"
	"github.com/c360studio/semlint/config"
	"github.com/c360studio/semlint/lint"
)

// typeNameCase checks that type names follow the language convention:
// PascalCase in Java, MixedCaps (no underscores) in Go.
type typeNameCase struct{}

func (typeNameCase) ID() string                     { return "type-name-case" }
func (typeNameCase) Category() lint.Category        { return lint.CategoryNaming }
func (typeNameCase) DefaultSeverity() lint.Severity { return lint.SeverityWarning }
func (typeNameCase) Describe() string {
	return "type names must follow the language naming convention"
}

func (typeNameCase) Check(file *ast.File, _ *config.Rules) []lint.Finding {
	var findings []lint.Finding
	ast.WalkTypes(file.Types, func(t *ast.TypeDecl) {
		if ok, want := typeCaseOK(file.Language, t.Name); !ok {
			findings = append(findings, lint.Finding{
				Message: fmt.Sprintf("%s name %q should be %s", t.Kind, t.Name, want),
				Line:    t.StartLine,
				Symbol:  t.Name,
			})
		}
	})
	return findings
}

func typeCaseOK(language, name string) (bool, string) {
	switch language {
	case "go":
		// Export decides the first letter; only underscores violate.
		return !strings.Contains(name, "_"), "MixedCaps"
	default:
		return isPascalCase(name), "PascalCase"
	}
}

// methodNameCase checks that method and function names follow the
// language convention: camelCase in Java, MixedCaps in Go. Go test
// entry points (TestXxx and friends) conventionally use underscores
// and are exempt.
type methodNameCase struct{}

func (methodNameCase) ID() string                     { return "method-name-case" }
func (methodNameCase) Category() lint.Category        { return lint.CategoryNaming }
func (methodNameCase) DefaultSeverity() lint.Severity { return lint.SeverityWarning }
func (methodNameCase) Describe() string {
	return "method and function names must follow the language naming convention"
}

func (methodNameCase) Check(file *ast.File, _ *config.Rules) []lint.Finding {
	var findings []lint.Finding
	for _, fn := range file.Funcs {
		if fn.Kind == ast.FuncConstructor {
			continue // constructor names mirror the type name
		}
		if ok, want := methodCaseOK(file.Language, fn.Name); !ok {
			findings = append(findings, lint.Finding{
				Message: fmt.Sprintf("%s name %q should be %s", fn.Kind, fn.Name, want),
				Line:    fn.StartLine,
				Symbol:  funcDisplay(fn),
			})
		}
	}
	return findings
}

func methodCaseOK(language, name string) (bool, string) {
	switch language {
	case "go":
		if isGoTestEntry(name) {
			return true, ""
		}
		return !strings.Contains(name, "_"), "MixedCaps"
	default:
		return isCamelCase(name), "camelCase"
	}
}

func isGoTestEntry(name string) bool {
	for _, prefix := range []string{"Test", "Benchmark", "Example", "Fuzz"} {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// constantNameCase checks named constants: UPPER_SNAKE in Java,
// MixedCaps in Go.
type constantNameCase struct{}

func (constantNameCase) ID() string                     { return "constant-name-case" }
func (constantNameCase) Category() lint.Category        { return lint.CategoryNaming }
func (constantNameCase) DefaultSeverity() lint.Severity { return lint.SeverityWarning }
func (constantNameCase) Describe() string {
	return "constant names must follow the language naming convention"
}

func (constantNameCase) Check(file *ast.File, _ *config.Rules) []lint.Finding {
	var findings []lint.Finding
	check := func(name string, line int) {
		if name == "_" {
			return
		}
		if ok, want := constantCaseOK(file.Language, name); !ok {
			findings = append(findings, lint.Finding{
				Message: fmt.Sprintf("constant %q should be %s", name, want),
				Line:    line,
				Symbol:  name,
			})
		}
	}
	for _, c := range file.Consts {
		check(c.Name, c.Line)
	}
	allFields(file, func(_ *ast.TypeDecl, f ast.Field) {
		if f.Const {
			check(f.Name, f.Line)
		}
	})
	return findings
}

func constantCaseOK(language, name string) (bool, string) {
	switch language {
	case "go":
		return !strings.Contains(name, "_"), "MixedCaps"
	default:
		return isUpperSnake(name), "UPPER_SNAKE_CASE"
	}
}

// shortName flags single-character identifiers outside the configured
// allowlist. Conventional loop indices stay quiet.
type shortName struct{}

func (shortName) ID() string                     { return "short-name" }
func (shortName) Category() lint.Category        { return lint.CategoryNaming }
func (shortName) DefaultSeverity() lint.Severity { return lint.SeverityInfo }
func (shortName) Describe() string {
	return "single-character names hide intent; spell the name out"
}

func (shortName) Check(file *ast.File, cfg *config.Rules) []lint.Finding {
	var findings []lint.Finding
	flag := func(kind, name string, line int) {
		if len(name) != 1 || cfg.AllowsShortName(name) {
			return
		}
		findings = append(findings, lint.Finding{
			Message: fmt.Sprintf("%s name %q says nothing about its role; use an intention-revealing name", kind, name),
			Line:    line,
			Symbol:  name,
		})
	}

	ast.WalkTypes(file.Types, func(t *ast.TypeDecl) {
		flag(string(t.Kind), t.Name, t.StartLine)
	})
	for _, c := range file.Consts {
		flag("constant", c.Name, c.Line)
	}
	allFields(file, func(_ *ast.TypeDecl, f ast.Field) {
		flag("field", f.Name, f.Line)
	})
	for _, fn := range file.Funcs {
		flag(string(fn.Kind), fn.Name, fn.StartLine)
		for _, p := range fn.Params {
			flag("parameter", p.Name, fn.StartLine)
		}
	}
	return findings
}
