package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/semlint/ast"
)

func TestBooleanLiteralComparison(t *testing.T) {
	file := &ast.File{
		Language: "java",
		BoolCompares: []ast.BoolCompare{
			{Operator: "==", Literal: "true", Line: 3, Col: 9},
			{Operator: "!=", Literal: "false", Line: 4, Col: 9},
			{Operator: "==", Literal: "false", Line: 5, Col: 9},
			{Operator: "!=", Literal: "true", Line: 6, Col: 9},
		},
	}

	findings := booleanLiteralComparison{}.Check(file, defaultRules())

	require.Len(t, findings, 4)
	assert.Contains(t, findings[0].Message, "use the expression directly")
	assert.Contains(t, findings[1].Message, "use the expression directly")
	assert.Contains(t, findings[2].Message, "negate the expression instead")
	assert.Contains(t, findings[3].Message, "negate the expression instead")
	assert.Equal(t, 3, findings[0].Line)
	assert.Equal(t, 9, findings[0].Column)
}

// nest builds a chain of control statements, outermost first.
func nest(kinds ...ast.StmtKind) *ast.Stmt {
	var root, tip *ast.Stmt
	for i, k := range kinds {
		s := &ast.Stmt{Kind: k, StartLine: 10 + i}
		if root == nil {
			root = s
		} else {
			tip.Children = []*ast.Stmt{s}
		}
		tip = s
	}
	return root
}

func TestNestingDepth(t *testing.T) {
	fourDeep := nest(ast.StmtIf, ast.StmtLoop, ast.StmtIf, ast.StmtIf)
	threeDeep := nest(ast.StmtIf, ast.StmtLoop, ast.StmtTry)

	file := &ast.File{
		Language: "java",
		Funcs: []*ast.Function{
			{Kind: ast.FuncMethod, Name: "tangled", Owner: "Flow", StartLine: 1,
				Body: &ast.Stmt{Kind: ast.StmtBlock, Children: []*ast.Stmt{fourDeep}}},
			{Kind: ast.FuncMethod, Name: "fine", StartLine: 30,
				Body: &ast.Stmt{Kind: ast.StmtBlock, Children: []*ast.Stmt{threeDeep}}},
			{Kind: ast.FuncMethod, Name: "abstract", StartLine: 50},
		},
	}

	findings := nestingDepth{}.Check(file, defaultRules())

	require.Len(t, findings, 1, "one finding per function, at or under the budget stays quiet")
	assert.Equal(t, "Flow.tangled", findings[0].Symbol)
	assert.Equal(t, 13, findings[0].Line, "reported at the deepest statement")
	assert.Contains(t, findings[0].Message, "4 levels deep")
}

func TestNestingDepth_ElseIfChainStaysFlat(t *testing.T) {
	// if / else if / else if: every branch sits at depth one.
	chain := &ast.Stmt{Kind: ast.StmtIf, StartLine: 2, Else: &ast.Stmt{
		Kind: ast.StmtIf, StartLine: 4, Else: &ast.Stmt{
			Kind: ast.StmtIf, StartLine: 6,
		},
	}}

	file := &ast.File{
		Language: "java",
		Funcs: []*ast.Function{
			{Kind: ast.FuncMethod, Name: "route", StartLine: 1,
				Body: &ast.Stmt{Kind: ast.StmtBlock, Children: []*ast.Stmt{chain}}},
		},
	}

	assert.Empty(t, nestingDepth{}.Check(file, defaultRules()))
}

func TestNestingDepth_ElseBranchNests(t *testing.T) {
	// A control structure inside a plain else branch is one level deeper
	// than the if itself.
	inner := nest(ast.StmtLoop, ast.StmtIf, ast.StmtIf)
	stmt := &ast.Stmt{Kind: ast.StmtIf, StartLine: 2, Else: &ast.Stmt{
		Kind:     ast.StmtBlock,
		Children: []*ast.Stmt{inner},
	}}

	file := &ast.File{
		Language: "java",
		Funcs: []*ast.Function{
			{Kind: ast.FuncMethod, Name: "branchy", StartLine: 1,
				Body: &ast.Stmt{Kind: ast.StmtBlock, Children: []*ast.Stmt{stmt}}},
		},
	}

	findings := nestingDepth{}.Check(file, defaultRules())

	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Message, "4 levels deep")
}

func TestNegatedElse(t *testing.T) {
	flagged := &ast.Stmt{Kind: ast.StmtIf, CondNegated: true, StartLine: 3, Else: &ast.Stmt{
		Kind:     ast.StmtBlock,
		Children: []*ast.Stmt{{Kind: ast.StmtReturn}},
	}}
	noElse := &ast.Stmt{Kind: ast.StmtIf, CondNegated: true, StartLine: 8}
	emptyElse := &ast.Stmt{Kind: ast.StmtIf, CondNegated: true, StartLine: 12, Else: &ast.Stmt{
		Kind: ast.StmtBlock,
	}}
	positive := &ast.Stmt{Kind: ast.StmtIf, StartLine: 16, Else: &ast.Stmt{
		Kind:     ast.StmtBlock,
		Children: []*ast.Stmt{{Kind: ast.StmtReturn}},
	}}

	file := &ast.File{
		Language: "java",
		Funcs: []*ast.Function{
			{Kind: ast.FuncMethod, Name: "decide", Owner: "Gate", StartLine: 1,
				Body: &ast.Stmt{Kind: ast.StmtBlock,
					Children: []*ast.Stmt{flagged, noElse, emptyElse, positive}}},
		},
	}

	findings := negatedElse{}.Check(file, defaultRules())

	require.Len(t, findings, 1)
	assert.Equal(t, 3, findings[0].Line)
	assert.Equal(t, "Gate.decide", findings[0].Symbol)
}

func TestNegatedElse_ElseIfCounts(t *testing.T) {
	stmt := &ast.Stmt{Kind: ast.StmtIf, CondNegated: true, StartLine: 2, Else: &ast.Stmt{
		Kind: ast.StmtIf, StartLine: 4,
	}}

	file := &ast.File{
		Language: "java",
		Funcs: []*ast.Function{
			{Kind: ast.FuncMethod, Name: "route", StartLine: 1,
				Body: &ast.Stmt{Kind: ast.StmtBlock, Children: []*ast.Stmt{stmt}}},
		},
	}

	findings := negatedElse{}.Check(file, defaultRules())

	require.Len(t, findings, 1)
	assert.Equal(t, 2, findings[0].Line)
}
