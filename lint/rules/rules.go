// Package rules holds the rule catalog. Importing it registers every
// rule with lint.DefaultRegistry, mirroring how language front ends
// register their parsers.
package rules

import (
	"strings"
	"unicode"

	"github.com/c360studio/semlint/ast"
	"github.com/c360studio/semlint/lint"
)

func init() {
	for _, r := range []lint.Rule{
		typeNameCase{},
		methodNameCase{},
		constantNameCase{},
		shortName{},
		booleanLiteralComparison{},
		nestingDepth{},
		negatedElse{},
		methodLength{},
		parameterCount{},
		flagParameter{},
		magicNumber{},
		magicString{},
		classSize{},
		lowCohesion{},
		commentedOutCode{},
		todoComment{},
		emptyCatch{},
		overbroadCatch{},
	} {
		lint.DefaultRegistry.Register(r)
	}
}

// funcDisplay renders a function name qualified by its owning type.
func funcDisplay(fn *ast.Function) string {
	if fn.Owner != "" {
		return fn.Owner + "." + fn.Name
	}
	return fn.Name
}

// startsUpper reports whether the first rune is upper case.
func startsUpper(name string) bool {
	for _, r := range name {
		return unicode.IsUpper(r)
	}
	return false
}

// startsLower reports whether the first rune is lower case.
func startsLower(name string) bool {
	for _, r := range name {
		return unicode.IsLower(r)
	}
	return false
}

// isPascalCase: upper-case start, no underscores.
func isPascalCase(name string) bool {
	return startsUpper(name) && !strings.Contains(name, "_")
}

// isCamelCase: lower-case start, no underscores.
func isCamelCase(name string) bool {
	return startsLower(name) && !strings.Contains(name, "_")
}

// isUpperSnake: upper-case letters, digits, and underscores only, with
// at least one letter.
func isUpperSnake(name string) bool {
	hasLetter := false
	for _, r := range name {
		switch {
		case unicode.IsUpper(r):
			hasLetter = true
		case unicode.IsDigit(r), r == '_':
		default:
			return false
		}
	}
	return hasLetter
}

// baseTypeName strips any package or outer-class qualifier, so
// "java.lang.Exception" compares as "Exception".
func baseTypeName(name string) string {
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		return name[idx+1:]
	}
	return name
}

// allFields walks a type and its nested types, yielding every field.
func allFields(file *ast.File, fn func(t *ast.TypeDecl, f ast.Field)) {
	ast.WalkTypes(file.Types, func(t *ast.TypeDecl) {
		for _, f := range t.Fields {
			fn(t, f)
		}
	})
}
