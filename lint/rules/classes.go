package rules

import (
	"fmt"

	"github.com/c360studio/semlint/ast"
	"github.com/c360studio/semlint/config"
	"github.com/c360studio/semlint/lint"
)

// classSize reports types with more methods or fields than the
// configured budgets. Each breached budget yields its own finding.
type classSize struct{}

func (classSize) ID() string                     { return "class-size" }
func (classSize) Category() lint.Category        { return lint.CategoryClasses }
func (classSize) DefaultSeverity() lint.Severity { return lint.SeverityWarning }
func (classSize) Describe() string {
	return "a type with too many members has too many responsibilities"
}

func (classSize) Check(file *ast.File, cfg *config.Rules) []lint.Finding {
	var findings []lint.Finding
	ast.WalkTypes(file.Types, func(t *ast.TypeDecl) {
		if len(t.Methods) > cfg.MaxClassMethods {
			findings = append(findings, lint.Finding{
				Message: fmt.Sprintf("%s %q has %d methods (limit %d); split responsibilities into collaborating types",
					t.Kind, t.Name, len(t.Methods), cfg.MaxClassMethods),
				Line:   t.StartLine,
				Symbol: t.Name,
			})
		}
		if len(t.Fields) > cfg.MaxClassFields {
			findings = append(findings, lint.Finding{
				Message: fmt.Sprintf("%s %q has %d fields (limit %d); group related fields into their own type",
					t.Kind, t.Name, len(t.Fields), cfg.MaxClassFields),
				Line:   t.StartLine,
				Symbol: t.Name,
			})
		}
	})
	return findings
}

// lowCohesion estimates how much of the type's state each method
// touches. When the mean fraction falls below the configured floor the
// type likely bundles unrelated concerns. Types with fewer than two
// fields or two concrete methods carry too little signal and are
// skipped, as are enums, whose constants dominate the field list.
type lowCohesion struct{}

func (lowCohesion) ID() string                     { return "low-cohesion" }
func (lowCohesion) Category() lint.Category        { return lint.CategoryClasses }
func (lowCohesion) DefaultSeverity() lint.Severity { return lint.SeverityInfo }
func (lowCohesion) Describe() string {
	return "methods that ignore most of a type's fields suggest the type should split"
}

func (lowCohesion) Check(file *ast.File, cfg *config.Rules) []lint.Finding {
	var findings []lint.Finding
	ast.WalkTypes(file.Types, func(t *ast.TypeDecl) {
		if t.Kind == ast.KindEnum || t.Kind == ast.KindInterface {
			return
		}
		cohesion, ok := typeCohesion(t)
		if !ok || cohesion >= cfg.MinCohesion {
			return
		}
		findings = append(findings, lint.Finding{
			Message: fmt.Sprintf("%s %q cohesion is %.2f (floor %.2f); its methods cluster around different fields",
				t.Kind, t.Name, cohesion, cfg.MinCohesion),
			Line:   t.StartLine,
			Symbol: t.Name,
		})
	})
	return findings
}

// typeCohesion returns the mean fraction of fields each concrete
// method touches. The second result is false when the type is too
// small to judge.
func typeCohesion(t *ast.TypeDecl) (float64, bool) {
	fieldSet := make(map[string]bool, len(t.Fields))
	for _, f := range t.Fields {
		if !f.Const {
			fieldSet[f.Name] = true
		}
	}
	if len(fieldSet) < 2 {
		return 0, false
	}

	var sum float64
	var measured int
	for _, m := range t.Methods {
		if m.Body == nil || m.Kind == ast.FuncConstructor {
			continue
		}
		touched := 0
		for _, name := range m.FieldsUsed {
			if fieldSet[name] {
				touched++
			}
		}
		sum += float64(touched) / float64(len(fieldSet))
		measured++
	}
	if measured < 2 {
		return 0, false
	}
	return sum / float64(measured), true
}
