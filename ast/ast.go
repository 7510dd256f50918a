// Package ast defines the language-neutral source model produced by the
// per-language front ends. Rules operate on this model only, never on the
// raw syntax trees, so a rule written once applies to every language with
// a registered parser.
package ast

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode"
)

// FileParser is implemented by each language front end.
// ParseFile reads and parses a file from disk; ParseSource parses
// in-memory content under a synthetic name (used for snippet checking).
type FileParser interface {
	ParseFile(ctx context.Context, filePath string) (*File, error)
	ParseSource(ctx context.Context, name string, content []byte) (*File, error)
}

// Visibility indicates whether a symbol is part of the public surface.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// TypeKind classifies a type declaration.
type TypeKind string

const (
	KindClass     TypeKind = "class"
	KindInterface TypeKind = "interface"
	KindEnum      TypeKind = "enum"
	KindRecord    TypeKind = "record"
	KindStruct    TypeKind = "struct"
)

// FuncKind classifies a function declaration.
type FuncKind string

const (
	FuncFunction    FuncKind = "function"
	FuncMethod      FuncKind = "method"
	FuncConstructor FuncKind = "constructor"
)

// StmtKind classifies a statement in the normalised body tree.
type StmtKind string

const (
	StmtBlock   StmtKind = "block"
	StmtIf      StmtKind = "if"
	StmtLoop    StmtKind = "loop"
	StmtSwitch  StmtKind = "switch"
	StmtCase    StmtKind = "case"
	StmtTry     StmtKind = "try"
	StmtCatch   StmtKind = "catch"
	StmtFinally StmtKind = "finally"
	StmtReturn  StmtKind = "return"
	StmtThrow   StmtKind = "throw"
	StmtExpr    StmtKind = "expr"
	StmtDecl    StmtKind = "decl"
	StmtOther   StmtKind = "other"
)

// CommentKind distinguishes line comments from block comments.
type CommentKind string

const (
	CommentLine  CommentKind = "line"
	CommentBlock CommentKind = "block"
)

// File is the parse result for a single source file.
type File struct {
	// Path is the file path relative to the repository root
	// (or the synthetic name for in-memory sources).
	Path string

	// Language is the registered parser name that produced this file.
	Language string

	// Package is the package or namespace declared in the file.
	Package string

	// Hash is the content hash for change detection.
	Hash string

	// Lines is the total line count.
	Lines int

	// Types are the top-level type declarations.
	Types []*TypeDecl

	// Funcs are all functions in the file, flattened, including
	// methods of nested types.
	Funcs []*Function

	// Consts are file-level named constants. Constants declared inside
	// a type body appear as fields of that type instead.
	Consts []Field

	// Comments are all comments in the file, markers stripped.
	Comments []Comment

	// Numbers are the numeric literals found in executable positions.
	Numbers []NumberLit

	// Strings are the string literals found in executable positions.
	Strings []StringLit

	// BoolCompares are comparisons against boolean literals.
	BoolCompares []BoolCompare

	// Suppressions are in-source ignore directives.
	Suppressions []Suppression
}

// TypeDecl describes a class, interface, enum, record, or struct.
type TypeDecl struct {
	Kind       TypeKind
	Name       string
	StartLine  int
	EndLine    int
	Visibility Visibility

	// Fields are the data members declared directly on this type.
	Fields []Field

	// Methods are the functions owned by this type. The same pointers
	// appear in File.Funcs.
	Methods []*Function

	// Nested are type declarations inside this type's body.
	Nested []*TypeDecl
}

// Field describes a data member or a named constant.
type Field struct {
	Name       string
	Type       string
	Line       int
	Visibility Visibility

	// Const marks compile-time constants (static final in Java,
	// const in Go). Naming rules hold these to the constant case.
	Const bool
}

// Param describes one formal parameter.
type Param struct {
	Name string
	Type string

	// Boolean marks parameters of the language's boolean type.
	Boolean bool
}

// Function describes a function, method, or constructor.
type Function struct {
	Kind       FuncKind
	Name       string
	Owner      string // enclosing type name, empty for free functions
	Visibility Visibility
	StartLine  int
	EndLine    int

	// BodyLines is the counted body length: lines from the first body
	// statement to the last, excluding blank lines and lines holding
	// only braces. Zero for bodyless declarations.
	BodyLines int

	Params []Param

	// Body is the normalised statement tree, nil for bodyless
	// declarations (interface methods, abstract methods).
	Body *Stmt

	// FieldsUsed are the owner's field names referenced in the body,
	// sorted and de-duplicated. Empty for free functions.
	FieldsUsed []string
}

// Stmt is a node in the normalised statement tree.
type Stmt struct {
	Kind      StmtKind
	StartLine int
	EndLine   int
	Children  []*Stmt

	// Else is the alternative branch of an if statement: a block, or
	// another if for else-if chains. Nil otherwise.
	Else *Stmt

	// CondNegated marks if statements whose condition leads with a
	// negation. Null and nil tests are not counted as negations.
	CondNegated bool

	// CatchTypes are the exception types of a catch clause.
	CatchTypes []string

	// HasComment marks catch clauses whose body carries a comment.
	HasComment bool
}

// Comment is a source comment with markers stripped.
type Comment struct {
	Text      string
	StartLine int
	EndLine   int
	Kind      CommentKind
}

// NumberLit is a numeric literal in an executable position.
type NumberLit struct {
	Value string
	Line  int
	Col   int

	// InConst marks literals that initialise a declared constant
	// (final in Java, const in Go).
	InConst bool
}

// StringLit is a string literal in an executable position.
type StringLit struct {
	Value string
	Line  int
	Col   int

	// InConst marks literals that initialise a declared constant.
	InConst bool
}

// BoolCompare is a comparison of an expression against true or false.
type BoolCompare struct {
	Operator string // "==" or "!="
	Literal  string // "true" or "false"
	Line     int
	Col      int
}

// Suppression is an in-source directive disabling findings for its line
// and the line below. An empty rule list suppresses every rule.
type Suppression struct {
	Line  int
	Rules []string
}

// SuppressionMarker is the directive keyword scanned for in comments.
const SuppressionMarker = "semlint:ignore"

// ParseSuppression extracts a suppression directive from raw comment
// text. baseLine is the line the comment starts on; multi-line comments
// resolve the directive to the line it actually appears on.
func ParseSuppression(text string, baseLine int) (Suppression, bool) {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		idx := strings.Index(line, SuppressionMarker)
		if idx < 0 {
			continue
		}
		rest := strings.TrimSpace(line[idx+len(SuppressionMarker):])
		// Directive arguments end at the first whitespace so trailing
		// prose after the rule list is allowed.
		if cut := strings.IndexAny(rest, " \t"); cut >= 0 {
			rest = rest[:cut]
		}
		rest = strings.TrimSuffix(rest, "*/")
		s := Suppression{Line: baseLine + i}
		for _, id := range strings.Split(rest, ",") {
			id = strings.TrimSpace(id)
			if id != "" {
				s.Rules = append(s.Rules, id)
			}
		}
		return s, true
	}
	return Suppression{}, false
}

// Matches reports whether the suppression applies to the given rule at
// the given line.
func (s Suppression) Matches(ruleID string, line int) bool {
	if line != s.Line && line != s.Line+1 {
		return false
	}
	if len(s.Rules) == 0 {
		return true
	}
	for _, id := range s.Rules {
		if id == ruleID {
			return true
		}
	}
	return false
}

// ComputeHash computes a SHA256 hash of the given content
func ComputeHash(content []byte) string {
	h := sha256.Sum256(content)
	return hex.EncodeToString(h[:8]) // First 8 bytes for brevity
}

// CountLines returns the number of lines in content.
func CountLines(content []byte) int {
	if len(content) == 0 {
		return 0
	}
	n := strings.Count(string(content), "\n") + 1
	if content[len(content)-1] == '\n' {
		n--
	}
	return n
}

// CountBodyLines counts the effective body length between two 1-based
// lines, inclusive: blank lines and lines holding only braces or
// delimiters are skipped.
func CountBodyLines(content []byte, startLine, endLine int) int {
	if startLine <= 0 || endLine < startLine {
		return 0
	}
	lines := strings.Split(string(content), "\n")
	if endLine > len(lines) {
		endLine = len(lines)
	}
	count := 0
	for i := startLine; i <= endLine; i++ {
		trimmed := strings.TrimSpace(lines[i-1])
		if trimmed == "" {
			continue
		}
		if strings.Trim(trimmed, "{}();") == "" {
			continue
		}
		count++
	}
	return count
}

// WalkStmts visits the statement tree in pre-order, including else
// branches. The visitor returns false to skip a node's subtree.
func WalkStmts(s *Stmt, fn func(*Stmt) bool) {
	if s == nil {
		return
	}
	if !fn(s) {
		return
	}
	for _, child := range s.Children {
		WalkStmts(child, fn)
	}
	WalkStmts(s.Else, fn)
}

// WalkTypes visits top-level and nested type declarations in pre-order.
func WalkTypes(types []*TypeDecl, fn func(*TypeDecl)) {
	for _, t := range types {
		fn(t)
		WalkTypes(t.Nested, fn)
	}
}

// DetermineVisibility checks if an identifier is exported in the Go
// sense: leading upper-case rune.
func DetermineVisibility(name string) Visibility {
	r := []rune(name)
	if len(r) > 0 && unicode.IsUpper(r[0]) {
		return VisibilityPublic
	}
	return VisibilityPrivate
}
