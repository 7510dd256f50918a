// Package golang provides the Go language front end built on the
// standard library parser.
package golang

import (
	"context"
	"fmt"
	goast "go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/c360studio/semlint/ast"
)

func init() {
	ast.DefaultRegistry.Register("go", []string{".go"},
		func(repoRoot string) ast.FileParser {
			return NewParser(repoRoot)
		})
}

// Parser extracts the normalised source model from Go files.
type Parser struct {
	// repoRoot is the root directory of the repository
	repoRoot string
}

// NewParser creates a new Go parser.
func NewParser(repoRoot string) *Parser {
	return &Parser{repoRoot: repoRoot}
}

// ParseFile parses a single Go file.
func (p *Parser) ParseFile(ctx context.Context, filePath string) (*ast.File, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	// Get relative path from repo root
	relPath, err := filepath.Rel(p.repoRoot, filePath)
	if err != nil {
		relPath = filePath
	}

	return p.ParseSource(ctx, relPath, content)
}

// ParseSource parses in-memory Go source under the given name.
func (p *Parser) ParseSource(_ context.Context, name string, content []byte) (*ast.File, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, name, content, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("parse file: %w", err)
	}

	out := &ast.File{
		Path:     name,
		Language: "go",
		Package:  file.Name.Name,
		Hash:     ast.ComputeHash(content),
		Lines:    ast.CountLines(content),
	}

	e := &extractor{fset: fset, content: content, out: out}

	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *goast.FuncDecl:
			e.extractFunc(d)

		case *goast.GenDecl:
			switch d.Tok {
			case token.TYPE:
				for _, spec := range d.Specs {
					if ts, ok := spec.(*goast.TypeSpec); ok {
						e.extractType(ts)
					}
				}
			case token.CONST:
				for _, spec := range d.Specs {
					if vs, ok := spec.(*goast.ValueSpec); ok {
						e.extractConsts(vs)
					}
				}
			}
		}
	}

	e.extractComments(file)
	e.attachMethods()

	return out, nil
}

// extractor carries the parse state for one file.
type extractor struct {
	fset    *token.FileSet
	content []byte
	out     *ast.File
}

func (e *extractor) line(pos token.Pos) int {
	return e.fset.Position(pos).Line
}

// extractType converts a type spec into a TypeDecl.
func (e *extractor) extractType(ts *goast.TypeSpec) {
	decl := &ast.TypeDecl{
		Name:       ts.Name.Name,
		StartLine:  e.line(ts.Pos()),
		EndLine:    e.line(ts.End()),
		Visibility: ast.DetermineVisibility(ts.Name.Name),
	}

	switch t := ts.Type.(type) {
	case *goast.StructType:
		decl.Kind = ast.KindStruct
		if t.Fields != nil {
			for _, field := range t.Fields.List {
				typeName := typeString(field.Type)
				if len(field.Names) == 0 {
					// Embedded field: the type name doubles as the field name
					decl.Fields = append(decl.Fields, ast.Field{
						Name:       typeName,
						Type:       typeName,
						Line:       e.line(field.Pos()),
						Visibility: ast.DetermineVisibility(typeName),
					})
					continue
				}
				for _, name := range field.Names {
					decl.Fields = append(decl.Fields, ast.Field{
						Name:       name.Name,
						Type:       typeName,
						Line:       e.line(name.Pos()),
						Visibility: ast.DetermineVisibility(name.Name),
					})
				}
			}
		}

	case *goast.InterfaceType:
		decl.Kind = ast.KindInterface
		if t.Methods != nil {
			for _, method := range t.Methods.List {
				ft, ok := method.Type.(*goast.FuncType)
				if ok && len(method.Names) > 0 {
					fn := &ast.Function{
						Kind:       ast.FuncMethod,
						Name:       method.Names[0].Name,
						Owner:      decl.Name,
						Visibility: ast.DetermineVisibility(method.Names[0].Name),
						StartLine:  e.line(method.Pos()),
						EndLine:    e.line(method.End()),
						Params:     e.extractParams(ft),
					}
					e.out.Funcs = append(e.out.Funcs, fn)
				}
			}
		}

	default:
		// Type alias or defined type over a non-composite underlying type
		decl.Kind = ast.KindStruct
	}

	e.out.Types = append(e.out.Types, decl)
}

// extractConsts records package-level constant names.
func (e *extractor) extractConsts(vs *goast.ValueSpec) {
	typeName := ""
	if vs.Type != nil {
		typeName = typeString(vs.Type)
	}
	for _, name := range vs.Names {
		if name.Name == "_" {
			continue
		}
		e.out.Consts = append(e.out.Consts, ast.Field{
			Name:       name.Name,
			Type:       typeName,
			Line:       e.line(name.Pos()),
			Visibility: ast.DetermineVisibility(name.Name),
			Const:      true,
		})
	}
}

// extractFunc converts a function declaration, walks its body, and
// collects the literals and comparisons rules need.
func (e *extractor) extractFunc(fd *goast.FuncDecl) {
	fn := &ast.Function{
		Kind:       ast.FuncFunction,
		Name:       fd.Name.Name,
		Visibility: ast.DetermineVisibility(fd.Name.Name),
		StartLine:  e.line(fd.Pos()),
		EndLine:    e.line(fd.End()),
		Params:     e.extractParams(fd.Type),
	}

	var recvName string
	if fd.Recv != nil && len(fd.Recv.List) > 0 {
		fn.Kind = ast.FuncMethod
		fn.Owner = typeString(fd.Recv.List[0].Type)
		if len(fd.Recv.List[0].Names) > 0 {
			recvName = fd.Recv.List[0].Names[0].Name
		}
	}

	if fd.Body != nil {
		fn.Body = e.buildBlock(fd.Body)
		if len(fd.Body.List) > 0 {
			first := e.line(fd.Body.List[0].Pos())
			last := e.line(fd.Body.List[len(fd.Body.List)-1].End())
			fn.BodyLines = ast.CountBodyLines(e.content, first, last)
		}
		if recvName != "" && recvName != "_" {
			fn.FieldsUsed = e.fieldsUsed(fd.Body, recvName)
		}
		e.collectFromBody(fd.Body)
	}

	e.out.Funcs = append(e.out.Funcs, fn)
}

// extractParams flattens a parameter list.
// Go groups parameters with a shared type, e.g. "a, b int" is one field
// with two names.
func (e *extractor) extractParams(ft *goast.FuncType) []ast.Param {
	if ft.Params == nil {
		return nil
	}
	var params []ast.Param
	for _, field := range ft.Params.List {
		typeName := typeString(field.Type)
		boolean := typeName == "bool"
		if len(field.Names) == 0 {
			params = append(params, ast.Param{Type: typeName, Boolean: boolean})
			continue
		}
		for _, name := range field.Names {
			params = append(params, ast.Param{Name: name.Name, Type: typeName, Boolean: boolean})
		}
	}
	return params
}

// buildBlock converts a block into a statement node.
func (e *extractor) buildBlock(b *goast.BlockStmt) *ast.Stmt {
	s := &ast.Stmt{
		Kind:      ast.StmtBlock,
		StartLine: e.line(b.Pos()),
		EndLine:   e.line(b.End()),
	}
	for _, stmt := range b.List {
		s.Children = append(s.Children, e.buildStmt(stmt))
	}
	return s
}

// buildStmt converts one statement into the normalised tree.
// Function literal bodies are not descended into: nesting is measured
// against the method's own control flow.
func (e *extractor) buildStmt(stmt goast.Stmt) *ast.Stmt {
	s := &ast.Stmt{
		StartLine: e.line(stmt.Pos()),
		EndLine:   e.line(stmt.End()),
	}

	switch st := stmt.(type) {
	case *goast.IfStmt:
		s.Kind = ast.StmtIf
		s.CondNegated = isNegatedCond(st.Cond)
		s.Children = e.buildBlock(st.Body).Children
		if st.Else != nil {
			s.Else = e.buildStmt(st.Else)
		}

	case *goast.ForStmt:
		s.Kind = ast.StmtLoop
		s.Children = e.buildBlock(st.Body).Children

	case *goast.RangeStmt:
		s.Kind = ast.StmtLoop
		s.Children = e.buildBlock(st.Body).Children

	case *goast.SwitchStmt:
		s.Kind = ast.StmtSwitch
		s.Children = e.buildCaseList(st.Body)

	case *goast.TypeSwitchStmt:
		s.Kind = ast.StmtSwitch
		s.Children = e.buildCaseList(st.Body)

	case *goast.SelectStmt:
		s.Kind = ast.StmtSwitch
		s.Children = e.buildCaseList(st.Body)

	case *goast.BlockStmt:
		s.Kind = ast.StmtBlock
		s.Children = e.buildBlock(st).Children

	case *goast.ReturnStmt:
		s.Kind = ast.StmtReturn

	case *goast.DeclStmt:
		s.Kind = ast.StmtDecl

	case *goast.ExprStmt, *goast.AssignStmt, *goast.IncDecStmt,
		*goast.SendStmt, *goast.DeferStmt, *goast.GoStmt:
		s.Kind = ast.StmtExpr

	case *goast.LabeledStmt:
		return e.buildStmt(st.Stmt)

	default:
		s.Kind = ast.StmtOther
	}

	return s
}

// buildCaseList converts switch and select clauses into case nodes.
func (e *extractor) buildCaseList(body *goast.BlockStmt) []*ast.Stmt {
	var cases []*ast.Stmt
	for _, clause := range body.List {
		c := &ast.Stmt{
			Kind:      ast.StmtCase,
			StartLine: e.line(clause.Pos()),
			EndLine:   e.line(clause.End()),
		}
		var stmts []goast.Stmt
		switch cl := clause.(type) {
		case *goast.CaseClause:
			stmts = cl.Body
		case *goast.CommClause:
			stmts = cl.Body
		}
		for _, st := range stmts {
			c.Children = append(c.Children, e.buildStmt(st))
		}
		cases = append(cases, c)
	}
	return cases
}

// isNegatedCond reports whether a condition leads with a negation.
// Nil comparisons are idiomatic tests, not negations.
func isNegatedCond(expr goast.Expr) bool {
	switch c := expr.(type) {
	case *goast.ParenExpr:
		return isNegatedCond(c.X)
	case *goast.UnaryExpr:
		return c.Op == token.NOT
	case *goast.BinaryExpr:
		if c.Op != token.NEQ {
			return false
		}
		return !isNilIdent(c.X) && !isNilIdent(c.Y)
	}
	return false
}

func isNilIdent(expr goast.Expr) bool {
	id, ok := expr.(*goast.Ident)
	return ok && id.Name == "nil"
}

// fieldsUsed collects the receiver's field and method selections.
func (e *extractor) fieldsUsed(body *goast.BlockStmt, recvName string) []string {
	seen := make(map[string]bool)
	goast.Inspect(body, func(n goast.Node) bool {
		sel, ok := n.(*goast.SelectorExpr)
		if !ok {
			return true
		}
		if id, ok := sel.X.(*goast.Ident); ok && id.Name == recvName {
			seen[sel.Sel.Name] = true
		}
		return true
	})
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// collectFromBody records numeric literals, string literals, and
// boolean comparisons from a function body.
func (e *extractor) collectFromBody(body *goast.BlockStmt) {
	// Const declaration spans exempt their literals
	type span struct{ start, end token.Pos }
	var constSpans []span
	goast.Inspect(body, func(n goast.Node) bool {
		if ds, ok := n.(*goast.DeclStmt); ok {
			if gd, ok := ds.Decl.(*goast.GenDecl); ok && gd.Tok == token.CONST {
				constSpans = append(constSpans, span{gd.Pos(), gd.End()})
			}
		}
		return true
	})
	inConst := func(pos token.Pos) bool {
		for _, s := range constSpans {
			if pos >= s.start && pos < s.end {
				return true
			}
		}
		return false
	}

	goast.Inspect(body, func(n goast.Node) bool {
		switch v := n.(type) {
		case *goast.BasicLit:
			pos := e.fset.Position(v.Pos())
			switch v.Kind {
			case token.INT, token.FLOAT:
				e.out.Numbers = append(e.out.Numbers, ast.NumberLit{
					Value:   v.Value,
					Line:    pos.Line,
					Col:     pos.Column,
					InConst: inConst(v.Pos()),
				})
			case token.STRING:
				val, err := strconv.Unquote(v.Value)
				if err != nil {
					val = strings.Trim(v.Value, "`\"")
				}
				e.out.Strings = append(e.out.Strings, ast.StringLit{
					Value:   val,
					Line:    pos.Line,
					Col:     pos.Column,
					InConst: inConst(v.Pos()),
				})
			}

		case *goast.BinaryExpr:
			if v.Op != token.EQL && v.Op != token.NEQ {
				return true
			}
			lit, ok := boolLiteral(v.X)
			if !ok {
				lit, ok = boolLiteral(v.Y)
			}
			if ok {
				pos := e.fset.Position(v.Pos())
				e.out.BoolCompares = append(e.out.BoolCompares, ast.BoolCompare{
					Operator: v.Op.String(),
					Literal:  lit,
					Line:     pos.Line,
					Col:      pos.Column,
				})
			}
		}
		return true
	})
}

func boolLiteral(expr goast.Expr) (string, bool) {
	id, ok := expr.(*goast.Ident)
	if ok && (id.Name == "true" || id.Name == "false") {
		return id.Name, true
	}
	return "", false
}

// extractComments records comment groups and suppression directives.
// Suppressions are scanned from the raw comment text because the group
// text processing drops directive-shaped lines.
func (e *extractor) extractComments(file *goast.File) {
	for _, cg := range file.Comments {
		for _, c := range cg.List {
			if strings.Contains(c.Text, ast.SuppressionMarker) {
				if s, ok := ast.ParseSuppression(c.Text, e.line(c.Pos())); ok {
					e.out.Suppressions = append(e.out.Suppressions, s)
				}
			}
		}

		text := strings.TrimRight(cg.Text(), "\n")
		if text == "" {
			continue
		}
		kind := ast.CommentLine
		if strings.HasPrefix(cg.List[0].Text, "/*") {
			kind = ast.CommentBlock
		}
		e.out.Comments = append(e.out.Comments, ast.Comment{
			Text:      text,
			StartLine: e.line(cg.Pos()),
			EndLine:   e.line(cg.End()),
			Kind:      kind,
		})
	}
}

// attachMethods links extracted methods to their owning type.
func (e *extractor) attachMethods() {
	byName := make(map[string]*ast.TypeDecl, len(e.out.Types))
	for _, t := range e.out.Types {
		byName[t.Name] = t
	}
	for _, fn := range e.out.Funcs {
		if fn.Owner == "" {
			continue
		}
		if t, ok := byName[fn.Owner]; ok {
			t.Methods = append(t.Methods, fn)
		}
	}
}

// typeString extracts a printable name from a type expression.
func typeString(expr goast.Expr) string {
	switch t := expr.(type) {
	case *goast.Ident:
		return t.Name
	case *goast.SelectorExpr:
		// Package-qualified type: pkg.Type
		if x, ok := t.X.(*goast.Ident); ok {
			return x.Name + "." + t.Sel.Name
		}
		return t.Sel.Name
	case *goast.StarExpr:
		return typeString(t.X)
	case *goast.ArrayType:
		return typeString(t.Elt)
	case *goast.Ellipsis:
		return typeString(t.Elt)
	case *goast.IndexExpr:
		// Generic instantiation: Type[T]
		return typeString(t.X)
	case *goast.MapType:
		return "map"
	case *goast.ChanType:
		return "chan"
	case *goast.FuncType:
		return "func"
	case *goast.InterfaceType:
		return "interface"
	case *goast.StructType:
		return "struct"
	}
	return ""
}
