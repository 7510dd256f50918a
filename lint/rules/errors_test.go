package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/semlint/ast"
	"github.com/c360studio/semlint/lint"
)

// fileWithCatches wraps catch statements in a try inside one method.
func fileWithCatches(catches ...*ast.Stmt) *ast.File {
	try := &ast.Stmt{Kind: ast.StmtTry, StartLine: 2}
	try.Children = append(try.Children, &ast.Stmt{Kind: ast.StmtExpr, StartLine: 3})
	try.Children = append(try.Children, catches...)

	return &ast.File{
		Language: "java",
		Funcs: []*ast.Function{
			{Kind: ast.FuncMethod, Name: "load", Owner: "Loader", StartLine: 1,
				Body: &ast.Stmt{Kind: ast.StmtBlock, Children: []*ast.Stmt{try}}},
		},
	}
}

func TestEmptyCatch(t *testing.T) {
	file := fileWithCatches(&ast.Stmt{
		Kind: ast.StmtCatch, StartLine: 4, CatchTypes: []string{"IOException"},
	})

	findings := emptyCatch{}.Check(file, defaultRules())

	require.Len(t, findings, 1)
	assert.Equal(t, 4, findings[0].Line)
	assert.Equal(t, "Loader.load", findings[0].Symbol)
	assert.Contains(t, findings[0].Message, "swallows the exception")
}

func TestEmptyCatch_CommentKeepsItIntentional(t *testing.T) {
	file := fileWithCatches(&ast.Stmt{
		Kind: ast.StmtCatch, StartLine: 4, HasComment: true,
	})

	assert.Empty(t, emptyCatch{}.Check(file, defaultRules()))
}

func TestEmptyCatch_HandledCatch(t *testing.T) {
	file := fileWithCatches(&ast.Stmt{
		Kind: ast.StmtCatch, StartLine: 4,
		Children: []*ast.Stmt{{Kind: ast.StmtThrow, StartLine: 5}},
	})

	assert.Empty(t, emptyCatch{}.Check(file, defaultRules()))
}

func TestOverbroadCatch(t *testing.T) {
	file := fileWithCatches(
		&ast.Stmt{Kind: ast.StmtCatch, StartLine: 4, CatchTypes: []string{"Exception"},
			Children: []*ast.Stmt{{Kind: ast.StmtExpr}}},
		&ast.Stmt{Kind: ast.StmtCatch, StartLine: 7, CatchTypes: []string{"IOException"},
			Children: []*ast.Stmt{{Kind: ast.StmtExpr}}},
	)

	findings := overbroadCatch{}.Check(file, defaultRules())

	require.Len(t, findings, 1)
	assert.Equal(t, 4, findings[0].Line)
	assert.Contains(t, findings[0].Message, "catching Exception is too broad")
}

func TestOverbroadCatch_QualifiedName(t *testing.T) {
	file := fileWithCatches(&ast.Stmt{
		Kind: ast.StmtCatch, StartLine: 4,
		CatchTypes: []string{"java.lang.Throwable"},
		Children:   []*ast.Stmt{{Kind: ast.StmtExpr}},
	})

	findings := overbroadCatch{}.Check(file, defaultRules())

	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Message, "catching Throwable")
}

func TestOverbroadCatch_MultiCatch(t *testing.T) {
	// A multi-catch union reports only its overbroad alternatives.
	file := fileWithCatches(&ast.Stmt{
		Kind: ast.StmtCatch, StartLine: 4,
		CatchTypes: []string{"IOException", "RuntimeException"},
		Children:   []*ast.Stmt{{Kind: ast.StmtExpr}},
	})

	findings := overbroadCatch{}.Check(file, defaultRules())

	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Message, "catching RuntimeException")
}

func TestRuleCatalog(t *testing.T) {
	wantIDs := []string{
		"boolean-literal-comparison",
		"class-size",
		"commented-out-code",
		"constant-name-case",
		"empty-catch",
		"flag-parameter",
		"low-cohesion",
		"magic-number",
		"magic-string",
		"method-length",
		"method-name-case",
		"negated-else",
		"nesting-depth",
		"overbroad-catch",
		"parameter-count",
		"short-name",
		"todo-comment",
		"type-name-case",
	}

	for _, id := range wantIDs {
		rule, ok := lint.DefaultRegistry.Get(id)
		require.True(t, ok, "rule %s is not registered", id)
		assert.Equal(t, id, rule.ID())
		assert.NotEmpty(t, rule.Describe())
		assert.NotEmpty(t, rule.Category())
		assert.NotEmpty(t, rule.DefaultSeverity())
	}
}
