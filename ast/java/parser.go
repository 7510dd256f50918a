// Package java provides the Java language front end using tree-sitter.
package java

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"

	"github.com/c360studio/semlint/ast"
)

func init() {
	ast.DefaultRegistry.Register("java", []string{".java"},
		func(repoRoot string) ast.FileParser {
			return NewParser(repoRoot)
		})
}

// Parser extracts the normalised source model from Java files using
// tree-sitter.
type Parser struct {
	repoRoot string
	parser   *sitter.Parser
}

// NewParser creates a new Java parser.
func NewParser(repoRoot string) *Parser {
	p := sitter.NewParser()
	p.SetLanguage(java.GetLanguage())
	return &Parser{
		repoRoot: repoRoot,
		parser:   p,
	}
}

// ParseFile parses a single Java file.
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

// ParseSource parses in-memory Java source under the given name.
func (p *Parser) ParseSource(ctx context.Context, name string, content []byte) (*ast.File, error) {
	tree, err := p.parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("parse file: %w", err)
	}
	defer tree.Close()

	rootNode := tree.RootNode()

	out := &ast.File{
		Path:     name,
		Language: "java",
		Package:  p.extractPackageName(rootNode, content),
		Hash:     ast.ComputeHash(content),
		Lines:    ast.CountLines(content),
	}

	for i := 0; i < int(rootNode.NamedChildCount()); i++ {
		child := rootNode.NamedChild(i)
		switch child.Type() {
		case "class_declaration", "record_declaration":
			if decl := p.extractClass(child, content, out); decl != nil {
				out.Types = append(out.Types, decl)
			}
		case "interface_declaration":
			if decl := p.extractInterface(child, content, out); decl != nil {
				out.Types = append(out.Types, decl)
			}
		case "enum_declaration":
			if decl := p.extractEnum(child, content, out); decl != nil {
				out.Types = append(out.Types, decl)
			}
		}
	}

	p.collectComments(rootNode, content, out)
	p.collectLiterals(rootNode, content, out, false)

	return out, nil
}

// extractPackageName extracts the package name from the Java file.
func (p *Parser) extractPackageName(node *sitter.Node, content []byte) string {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() == "package_declaration" {
			for j := 0; j < int(child.NamedChildCount()); j++ {
				pkgNode := child.NamedChild(j)
				if pkgNode.Type() == "scoped_identifier" || pkgNode.Type() == "identifier" {
					return nodeText(pkgNode, content)
				}
			}
		}
	}
	return ""
}

// extractClass extracts a class or record declaration with its members.
func (p *Parser) extractClass(node *sitter.Node, content []byte, out *ast.File) *ast.TypeDecl {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}

	decl := &ast.TypeDecl{
		Kind:       ast.KindClass,
		Name:       nodeText(nameNode, content),
		StartLine:  int(node.StartPoint().Row) + 1,
		EndLine:    int(node.EndPoint().Row) + 1,
		Visibility: p.extractVisibility(node, content),
	}
	if node.Type() == "record_declaration" {
		decl.Kind = ast.KindRecord
		// Record components double as fields
		if params := node.ChildByFieldName("parameters"); params != nil {
			for i := 0; i < int(params.NamedChildCount()); i++ {
				comp := params.NamedChild(i)
				if comp.Type() != "formal_parameter" {
					continue
				}
				compName := comp.ChildByFieldName("name")
				if compName == nil {
					continue
				}
				decl.Fields = append(decl.Fields, ast.Field{
					Name:       nodeText(compName, content),
					Type:       p.extractTypeReference(comp.ChildByFieldName("type"), content),
					Line:       int(comp.StartPoint().Row) + 1,
					Visibility: ast.VisibilityPrivate,
				})
			}
		}
	}

	if body := node.ChildByFieldName("body"); body != nil {
		p.extractTypeBody(body, content, decl, out)
	}

	return decl
}

// extractInterface extracts an interface declaration with its members.
func (p *Parser) extractInterface(node *sitter.Node, content []byte, out *ast.File) *ast.TypeDecl {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}

	decl := &ast.TypeDecl{
		Kind:       ast.KindInterface,
		Name:       nodeText(nameNode, content),
		StartLine:  int(node.StartPoint().Row) + 1,
		EndLine:    int(node.EndPoint().Row) + 1,
		Visibility: p.extractVisibility(node, content),
	}

	if body := node.ChildByFieldName("body"); body != nil {
		p.extractTypeBody(body, content, decl, out)
	}

	return decl
}

// extractEnum extracts an enum declaration. Enum constants are recorded
// as constant fields so naming rules can hold them to the constant case.
func (p *Parser) extractEnum(node *sitter.Node, content []byte, out *ast.File) *ast.TypeDecl {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}

	decl := &ast.TypeDecl{
		Kind:       ast.KindEnum,
		Name:       nodeText(nameNode, content),
		StartLine:  int(node.StartPoint().Row) + 1,
		EndLine:    int(node.EndPoint().Row) + 1,
		Visibility: p.extractVisibility(node, content),
	}

	body := node.ChildByFieldName("body")
	if body == nil {
		return decl
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		child := body.NamedChild(i)
		switch child.Type() {
		case "enum_constant":
			constName := child.ChildByFieldName("name")
			if constName == nil {
				continue
			}
			decl.Fields = append(decl.Fields, ast.Field{
				Name:       nodeText(constName, content),
				Line:       int(child.StartPoint().Row) + 1,
				Visibility: ast.VisibilityPublic,
				Const:      true,
			})
		case "enum_body_declarations":
			p.extractTypeBody(child, content, decl, out)
		}
	}

	return decl
}

// extractTypeBody extracts members from a class, interface, record, or
// enum body. Fields are extracted before methods so field usage can be
// resolved for cohesion analysis.
func (p *Parser) extractTypeBody(body *sitter.Node, content []byte, decl *ast.TypeDecl, out *ast.File) {
	for i := 0; i < int(body.NamedChildCount()); i++ {
		child := body.NamedChild(i)
		switch child.Type() {
		case "field_declaration", "constant_declaration":
			decl.Fields = append(decl.Fields, p.extractFields(child, content)...)
		}
	}

	fieldNames := make(map[string]bool, len(decl.Fields))
	for _, f := range decl.Fields {
		fieldNames[f.Name] = true
	}

	for i := 0; i < int(body.NamedChildCount()); i++ {
		child := body.NamedChild(i)
		switch child.Type() {
		case "method_declaration":
			if fn := p.extractMethod(child, content, decl.Name, ast.FuncMethod, fieldNames); fn != nil {
				decl.Methods = append(decl.Methods, fn)
				out.Funcs = append(out.Funcs, fn)
			}

		case "constructor_declaration":
			if fn := p.extractMethod(child, content, decl.Name, ast.FuncConstructor, fieldNames); fn != nil {
				decl.Methods = append(decl.Methods, fn)
				out.Funcs = append(out.Funcs, fn)
			}

		case "class_declaration", "record_declaration":
			if nested := p.extractClass(child, content, out); nested != nil {
				decl.Nested = append(decl.Nested, nested)
			}

		case "interface_declaration":
			if nested := p.extractInterface(child, content, out); nested != nil {
				decl.Nested = append(decl.Nested, nested)
			}

		case "enum_declaration":
			if nested := p.extractEnum(child, content, out); nested != nil {
				decl.Nested = append(decl.Nested, nested)
			}
		}
	}
}

// extractFields extracts field entries from a field or constant
// declaration. A single declaration can carry multiple declarators.
func (p *Parser) extractFields(node *sitter.Node, content []byte) []ast.Field {
	typeName := p.extractTypeReference(node.ChildByFieldName("type"), content)
	visibility := p.extractVisibility(node, content)
	mods := p.modifierText(node, content)
	isStatic := strings.Contains(mods, "static")
	isFinal := strings.Contains(mods, "final")
	// Interface constants are implicitly static final
	isConst := (isStatic && isFinal) || node.Type() == "constant_declaration"

	var fields []ast.Field
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() != "variable_declarator" {
			continue
		}
		nameNode := child.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		fields = append(fields, ast.Field{
			Name:       nodeText(nameNode, content),
			Type:       typeName,
			Line:       int(node.StartPoint().Row) + 1,
			Visibility: visibility,
			Const:      isConst,
		})
	}
	return fields
}

// extractMethod extracts a method or constructor declaration.
func (p *Parser) extractMethod(node *sitter.Node, content []byte, owner string, kind ast.FuncKind, fieldNames map[string]bool) *ast.Function {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}

	fn := &ast.Function{
		Kind:       kind,
		Name:       nodeText(nameNode, content),
		Owner:      owner,
		Visibility: p.extractVisibility(node, content),
		StartLine:  int(node.StartPoint().Row) + 1,
		EndLine:    int(node.EndPoint().Row) + 1,
	}

	if params := node.ChildByFieldName("parameters"); params != nil {
		fn.Params = p.extractParams(params, content)
	}

	body := node.ChildByFieldName("body")
	if body == nil {
		// Abstract or interface method
		return fn
	}

	fn.Body = p.buildBlock(body, content)
	if first, last, ok := stmtSpan(body); ok {
		fn.BodyLines = ast.CountBodyLines(content, first, last)
	}
	if len(fieldNames) > 0 {
		fn.FieldsUsed = p.fieldsUsed(body, content, fieldNames)
	}

	return fn
}

// extractParams extracts formal parameters.
func (p *Parser) extractParams(params *sitter.Node, content []byte) []ast.Param {
	var result []ast.Param
	for i := 0; i < int(params.NamedChildCount()); i++ {
		child := params.NamedChild(i)
		if child.Type() != "formal_parameter" && child.Type() != "spread_parameter" {
			continue
		}
		typeName := p.extractTypeReference(child.ChildByFieldName("type"), content)
		name := ""
		if nameNode := child.ChildByFieldName("name"); nameNode != nil {
			name = nodeText(nameNode, content)
		}
		result = append(result, ast.Param{
			Name:    name,
			Type:    typeName,
			Boolean: typeName == "boolean" || typeName == "Boolean",
		})
	}
	return result
}

// buildBlock converts a block node into a statement node.
func (p *Parser) buildBlock(block *sitter.Node, content []byte) *ast.Stmt {
	s := &ast.Stmt{
		Kind:      ast.StmtBlock,
		StartLine: int(block.StartPoint().Row) + 1,
		EndLine:   int(block.EndPoint().Row) + 1,
	}
	s.Children = p.blockChildren(block, content)
	return s
}

// blockChildren converts a block's statements, skipping comments.
func (p *Parser) blockChildren(block *sitter.Node, content []byte) []*ast.Stmt {
	var children []*ast.Stmt
	for i := 0; i < int(block.NamedChildCount()); i++ {
		child := block.NamedChild(i)
		if isComment(child) {
			continue
		}
		children = append(children, p.buildStmt(child, content))
	}
	return children
}

// buildStmt converts one statement node into the normalised tree.
// Lambda bodies are not descended into: nesting is measured against the
// method's own control flow.
func (p *Parser) buildStmt(node *sitter.Node, content []byte) *ast.Stmt {
	s := &ast.Stmt{
		StartLine: int(node.StartPoint().Row) + 1,
		EndLine:   int(node.EndPoint().Row) + 1,
	}

	switch node.Type() {
	case "if_statement":
		s.Kind = ast.StmtIf
		s.CondNegated = p.isNegatedCond(node.ChildByFieldName("condition"), content)
		if consequence := node.ChildByFieldName("consequence"); consequence != nil {
			s.Children = p.branchChildren(consequence, content)
		}
		if alternative := node.ChildByFieldName("alternative"); alternative != nil {
			s.Else = p.buildStmt(alternative, content)
		}

	case "for_statement", "enhanced_for_statement", "while_statement", "do_statement":
		s.Kind = ast.StmtLoop
		if body := node.ChildByFieldName("body"); body != nil {
			s.Children = p.branchChildren(body, content)
		}

	case "switch_expression", "switch_statement":
		s.Kind = ast.StmtSwitch
		if body := node.ChildByFieldName("body"); body != nil {
			s.Children = p.buildCaseList(body, content)
		}

	case "try_statement", "try_with_resources_statement":
		s.Kind = ast.StmtTry
		if body := node.ChildByFieldName("body"); body != nil {
			s.Children = p.blockChildren(body, content)
		}
		for i := 0; i < int(node.NamedChildCount()); i++ {
			child := node.NamedChild(i)
			switch child.Type() {
			case "catch_clause":
				s.Children = append(s.Children, p.buildCatch(child, content))
			case "finally_clause":
				s.Children = append(s.Children, p.buildFinally(child, content))
			}
		}

	case "return_statement":
		s.Kind = ast.StmtReturn

	case "throw_statement":
		s.Kind = ast.StmtThrow

	case "expression_statement":
		s.Kind = ast.StmtExpr

	case "local_variable_declaration":
		s.Kind = ast.StmtDecl

	case "block":
		s.Kind = ast.StmtBlock
		s.Children = p.blockChildren(node, content)

	case "synchronized_statement":
		s.Kind = ast.StmtBlock
		for i := 0; i < int(node.NamedChildCount()); i++ {
			child := node.NamedChild(i)
			if child.Type() == "block" {
				s.Children = p.blockChildren(child, content)
			}
		}

	case "labeled_statement":
		// Unwrap to the labelled statement itself
		for i := int(node.NamedChildCount()) - 1; i >= 0; i-- {
			child := node.NamedChild(i)
			if !isComment(child) && child.Type() != "identifier" {
				return p.buildStmt(child, content)
			}
		}
		s.Kind = ast.StmtOther

	default:
		s.Kind = ast.StmtOther
	}

	return s
}

// branchChildren normalises a branch body: blocks contribute their
// statements, a braceless single statement contributes itself.
func (p *Parser) branchChildren(node *sitter.Node, content []byte) []*ast.Stmt {
	if node.Type() == "block" {
		return p.blockChildren(node, content)
	}
	return []*ast.Stmt{p.buildStmt(node, content)}
}

// buildCaseList converts a switch block into case nodes. The grammar
// produces statement groups for classic switches and rules for arrow
// switches.
func (p *Parser) buildCaseList(body *sitter.Node, content []byte) []*ast.Stmt {
	var cases []*ast.Stmt
	for i := 0; i < int(body.NamedChildCount()); i++ {
		child := body.NamedChild(i)
		if isComment(child) {
			continue
		}
		c := &ast.Stmt{
			Kind:      ast.StmtCase,
			StartLine: int(child.StartPoint().Row) + 1,
			EndLine:   int(child.EndPoint().Row) + 1,
		}
		for j := 0; j < int(child.NamedChildCount()); j++ {
			stmt := child.NamedChild(j)
			if isComment(stmt) || stmt.Type() == "switch_label" {
				continue
			}
			if stmt.Type() == "block" {
				c.Children = append(c.Children, p.blockChildren(stmt, content)...)
				continue
			}
			c.Children = append(c.Children, p.buildStmt(stmt, content))
		}
		cases = append(cases, c)
	}
	return cases
}

// buildCatch converts a catch clause, capturing the exception types and
// whether the body is empty or commented.
func (p *Parser) buildCatch(node *sitter.Node, content []byte) *ast.Stmt {
	s := &ast.Stmt{
		Kind:      ast.StmtCatch,
		StartLine: int(node.StartPoint().Row) + 1,
		EndLine:   int(node.EndPoint().Row) + 1,
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() == "catch_formal_parameter" {
			s.CatchTypes = p.extractCatchTypes(child, content)
		}
	}

	if body := node.ChildByFieldName("body"); body != nil {
		s.Children = p.blockChildren(body, content)
		s.HasComment = containsComment(body)
	}

	return s
}

// buildFinally converts a finally clause.
func (p *Parser) buildFinally(node *sitter.Node, content []byte) *ast.Stmt {
	s := &ast.Stmt{
		Kind:      ast.StmtFinally,
		StartLine: int(node.StartPoint().Row) + 1,
		EndLine:   int(node.EndPoint().Row) + 1,
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() == "block" {
			s.Children = p.blockChildren(child, content)
		}
	}
	return s
}

// extractCatchTypes collects the caught exception type names,
// splitting multi-catch unions.
func (p *Parser) extractCatchTypes(param *sitter.Node, content []byte) []string {
	var types []string
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		switch n.Type() {
		case "type_identifier", "scoped_type_identifier":
			types = append(types, nodeText(n, content))
			return
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(param)

	// The declared variable name is an identifier, not a type; the walk
	// above only collects type identifiers so nothing to filter.
	return types
}

// isNegatedCond reports whether an if condition leads with a negation.
// Null tests are idiomatic guards, not negations.
func (p *Parser) isNegatedCond(cond *sitter.Node, content []byte) bool {
	if cond == nil {
		return false
	}
	inner := cond
	for inner.Type() == "parenthesized_expression" {
		next := firstExpr(inner)
		if next == nil {
			return false
		}
		inner = next
	}

	switch inner.Type() {
	case "unary_expression":
		op := inner.ChildByFieldName("operator")
		return op != nil && nodeText(op, content) == "!"
	case "binary_expression":
		op := inner.ChildByFieldName("operator")
		if op == nil || nodeText(op, content) != "!=" {
			return false
		}
		left := inner.ChildByFieldName("left")
		right := inner.ChildByFieldName("right")
		if (left != nil && left.Type() == "null_literal") ||
			(right != nil && right.Type() == "null_literal") {
			return false
		}
		return true
	}
	return false
}

// fieldsUsed collects identifiers in a method body that name the
// owner's fields, including this-qualified accesses.
func (p *Parser) fieldsUsed(body *sitter.Node, content []byte, fieldNames map[string]bool) []string {
	seen := make(map[string]bool)
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		switch n.Type() {
		case "identifier":
			name := nodeText(n, content)
			if fieldNames[name] {
				seen[name] = true
			}
			return
		case "field_access":
			obj := n.ChildByFieldName("object")
			fieldNode := n.ChildByFieldName("field")
			if obj != nil && obj.Type() == "this" && fieldNode != nil {
				name := nodeText(fieldNode, content)
				if fieldNames[name] {
					seen[name] = true
				}
			}
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(body)

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// collectLiterals walks the tree recording numeric literals, string
// literals, and boolean comparisons. Annotation arguments are skipped.
// inConst is set while inside a final declaration.
func (p *Parser) collectLiterals(node *sitter.Node, content []byte, out *ast.File, inConst bool) {
	switch node.Type() {
	case "annotation", "marker_annotation", "package_declaration", "import_declaration":
		return

	case "field_declaration", "local_variable_declaration", "constant_declaration":
		if strings.Contains(p.modifierText(node, content), "final") ||
			node.Type() == "constant_declaration" {
			inConst = true
		}

	case "decimal_integer_literal", "hex_integer_literal", "octal_integer_literal",
		"binary_integer_literal", "decimal_floating_point_literal", "hex_floating_point_literal":
		out.Numbers = append(out.Numbers, ast.NumberLit{
			Value:   strings.TrimRight(nodeText(node, content), "lLdDfF"),
			Line:    int(node.StartPoint().Row) + 1,
			Col:     int(node.StartPoint().Column) + 1,
			InConst: inConst,
		})
		return

	case "string_literal":
		out.Strings = append(out.Strings, ast.StringLit{
			Value:   strings.Trim(nodeText(node, content), `"`),
			Line:    int(node.StartPoint().Row) + 1,
			Col:     int(node.StartPoint().Column) + 1,
			InConst: inConst,
		})
		return

	case "binary_expression":
		p.collectBoolCompare(node, content, out)
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		p.collectLiterals(node.NamedChild(i), content, out, inConst)
	}
}

// collectBoolCompare records comparisons against boolean literals.
func (p *Parser) collectBoolCompare(node *sitter.Node, content []byte, out *ast.File) {
	op := node.ChildByFieldName("operator")
	if op == nil {
		return
	}
	opText := nodeText(op, content)
	if opText != "==" && opText != "!=" {
		return
	}

	lit := ""
	if left := node.ChildByFieldName("left"); left != nil && isBoolLiteral(left) {
		lit = left.Type()
	}
	if right := node.ChildByFieldName("right"); lit == "" && right != nil && isBoolLiteral(right) {
		lit = right.Type()
	}
	if lit == "" {
		return
	}

	out.BoolCompares = append(out.BoolCompares, ast.BoolCompare{
		Operator: opText,
		Literal:  lit,
		Line:     int(node.StartPoint().Row) + 1,
		Col:      int(node.StartPoint().Column) + 1,
	})
}

// collectComments walks every node collecting comments and suppression
// directives. Comments are extras, so the walk covers all children.
func (p *Parser) collectComments(node *sitter.Node, content []byte, out *ast.File) {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if isComment(child) {
			raw := nodeText(child, content)
			line := int(child.StartPoint().Row) + 1

			if strings.Contains(raw, ast.SuppressionMarker) {
				if s, ok := ast.ParseSuppression(raw, line); ok {
					out.Suppressions = append(out.Suppressions, s)
				}
			}

			kind := ast.CommentLine
			if strings.HasPrefix(raw, "/*") {
				kind = ast.CommentBlock
			}
			out.Comments = append(out.Comments, ast.Comment{
				Text:      stripCommentMarkers(raw),
				StartLine: line,
				EndLine:   int(child.EndPoint().Row) + 1,
				Kind:      kind,
			})
			continue
		}
		p.collectComments(child, content, out)
	}
}

// extractVisibility extracts visibility from modifiers.
func (p *Parser) extractVisibility(node *sitter.Node, content []byte) ast.Visibility {
	mods := p.modifierText(node, content)
	if strings.Contains(mods, "public") {
		return ast.VisibilityPublic
	}
	// Package-private and protected are treated as private
	return ast.VisibilityPrivate
}

// modifierText returns the raw text of a declaration's modifiers node.
func (p *Parser) modifierText(node *sitter.Node, content []byte) string {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == "modifiers" {
			return nodeText(child, content)
		}
	}
	return ""
}

// extractTypeReference extracts a type name from a type node, stripping generics.
func (p *Parser) extractTypeReference(typeNode *sitter.Node, content []byte) string {
	if typeNode == nil {
		return ""
	}

	switch typeNode.Type() {
	case "type_identifier", "scoped_type_identifier":
		return nodeText(typeNode, content)

	case "generic_type":
		if baseType := typeNode.ChildByFieldName("type"); baseType != nil {
			return p.extractTypeReference(baseType, content)
		}
		if typeNode.NamedChildCount() > 0 {
			return p.extractTypeReference(typeNode.NamedChild(0), content)
		}

	case "array_type":
		if elemType := typeNode.ChildByFieldName("element"); elemType != nil {
			return p.extractTypeReference(elemType, content)
		}

	case "void_type":
		return "void"

	default:
		// Primitive types and others use the raw text
		return nodeText(typeNode, content)
	}

	return ""
}

// stmtSpan returns the 1-based lines of a block's first and last
// statements, skipping comments.
func stmtSpan(block *sitter.Node) (first, last int, ok bool) {
	for i := 0; i < int(block.NamedChildCount()); i++ {
		child := block.NamedChild(i)
		if isComment(child) {
			continue
		}
		if !ok {
			first = int(child.StartPoint().Row) + 1
			ok = true
		}
		last = int(child.EndPoint().Row) + 1
	}
	return first, last, ok
}

// firstExpr returns a node's first named non-comment child.
func firstExpr(node *sitter.Node) *sitter.Node {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if !isComment(child) {
			return child
		}
	}
	return nil
}

// nodeText returns the text content of a node.
func nodeText(node *sitter.Node, content []byte) string {
	return node.Content(content)
}

func isComment(node *sitter.Node) bool {
	return node.Type() == "line_comment" || node.Type() == "block_comment"
}

// containsComment reports whether a block holds any comment node.
func containsComment(block *sitter.Node) bool {
	for i := 0; i < int(block.ChildCount()); i++ {
		if isComment(block.Child(i)) {
			return true
		}
	}
	return false
}

func isBoolLiteral(node *sitter.Node) bool {
	return node.Type() == "true" || node.Type() == "false"
}

// stripCommentMarkers removes // and /* */ markers from raw comment text.
func stripCommentMarkers(raw string) string {
	if strings.HasPrefix(raw, "//") {
		return strings.TrimSpace(strings.TrimPrefix(raw, "//"))
	}
	text := strings.TrimPrefix(raw, "/**")
	text = strings.TrimPrefix(text, "/*")
	text = strings.TrimSuffix(text, "*/")
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "*")
		lines = append(lines, strings.TrimSpace(line))
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
