package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/semlint/ast"
	"github.com/c360studio/semlint/config"
)

func defaultRules() *config.Rules {
	return &config.DefaultConfig().Rules
}

func TestTypeNameCase_Java(t *testing.T) {
	file := &ast.File{
		Language: "java",
		Types: []*ast.TypeDecl{
			{Kind: ast.KindClass, Name: "OrderService", StartLine: 1},
			{Kind: ast.KindClass, Name: "order_service", StartLine: 10},
			{Kind: ast.KindInterface, Name: "repository", StartLine: 20},
		},
	}

	findings := typeNameCase{}.Check(file, defaultRules())

	require.Len(t, findings, 2)
	assert.Equal(t, "order_service", findings[0].Symbol)
	assert.Equal(t, 10, findings[0].Line)
	assert.Contains(t, findings[0].Message, "PascalCase")
	assert.Equal(t, "repository", findings[1].Symbol)
}

func TestTypeNameCase_Go(t *testing.T) {
	file := &ast.File{
		Language: "go",
		Types: []*ast.TypeDecl{
			{Kind: ast.KindStruct, Name: "tracker", StartLine: 1},
			{Kind: ast.KindStruct, Name: "http_client", StartLine: 5},
		},
	}

	findings := typeNameCase{}.Check(file, defaultRules())

	require.Len(t, findings, 1, "unexported names are fine; underscores are not")
	assert.Equal(t, "http_client", findings[0].Symbol)
	assert.Contains(t, findings[0].Message, "MixedCaps")
}

func TestTypeNameCase_NestedTypes(t *testing.T) {
	file := &ast.File{
		Language: "java",
		Types: []*ast.TypeDecl{
			{Kind: ast.KindClass, Name: "Outer", StartLine: 1, Nested: []*ast.TypeDecl{
				{Kind: ast.KindClass, Name: "inner_helper", StartLine: 4},
			}},
		},
	}

	findings := typeNameCase{}.Check(file, defaultRules())

	require.Len(t, findings, 1)
	assert.Equal(t, "inner_helper", findings[0].Symbol)
}

func TestMethodNameCase_Java(t *testing.T) {
	file := &ast.File{
		Language: "java",
		Funcs: []*ast.Function{
			{Kind: ast.FuncMethod, Name: "processOrder", StartLine: 3},
			{Kind: ast.FuncMethod, Name: "ProcessOrder", Owner: "Orders", StartLine: 8},
			{Kind: ast.FuncMethod, Name: "process_order", StartLine: 13},
			{Kind: ast.FuncConstructor, Name: "Orders", StartLine: 1},
		},
	}

	findings := methodNameCase{}.Check(file, defaultRules())

	require.Len(t, findings, 2, "constructors mirror the type name and are exempt")
	assert.Equal(t, "Orders.ProcessOrder", findings[0].Symbol)
	assert.Contains(t, findings[0].Message, "camelCase")
	assert.Equal(t, "process_order", findings[1].Symbol)
}

func TestMethodNameCase_GoTestEntriesExempt(t *testing.T) {
	file := &ast.File{
		Language: "go",
		Funcs: []*ast.Function{
			{Kind: ast.FuncFunction, Name: "TestRunner_Run", StartLine: 1},
			{Kind: ast.FuncFunction, Name: "BenchmarkParse_Large", StartLine: 5},
			{Kind: ast.FuncFunction, Name: "parse_file", StartLine: 9},
		},
	}

	findings := methodNameCase{}.Check(file, defaultRules())

	require.Len(t, findings, 1)
	assert.Equal(t, "parse_file", findings[0].Symbol)
}

func TestConstantNameCase_Java(t *testing.T) {
	file := &ast.File{
		Language: "java",
		Consts: []ast.Field{
			{Name: "MAX_RETRIES", Line: 2, Const: true},
			{Name: "maxBackoff", Line: 3, Const: true},
		},
		Types: []*ast.TypeDecl{
			{Kind: ast.KindClass, Name: "Limits", Fields: []ast.Field{
				{Name: "DEFAULT_LIMIT", Line: 6, Const: true},
				{Name: "current", Line: 7},
			}},
		},
	}

	findings := constantNameCase{}.Check(file, defaultRules())

	require.Len(t, findings, 1, "plain fields are not held to constant casing")
	assert.Equal(t, "maxBackoff", findings[0].Symbol)
	assert.Contains(t, findings[0].Message, "UPPER_SNAKE_CASE")
}

func TestConstantNameCase_Go(t *testing.T) {
	file := &ast.File{
		Language: "go",
		Consts: []ast.Field{
			{Name: "MaxRetries", Line: 2, Const: true},
			{Name: "max_backoff", Line: 3, Const: true},
		},
	}

	findings := constantNameCase{}.Check(file, defaultRules())

	require.Len(t, findings, 1)
	assert.Equal(t, "max_backoff", findings[0].Symbol)
	assert.Contains(t, findings[0].Message, "MixedCaps")
}

func TestShortName(t *testing.T) {
	file := &ast.File{
		Language: "java",
		Types: []*ast.TypeDecl{
			{Kind: ast.KindClass, Name: "P", StartLine: 1, Fields: []ast.Field{
				{Name: "q", Line: 2},
				{Name: "total", Line: 3},
			}},
		},
		Funcs: []*ast.Function{
			{Kind: ast.FuncMethod, Name: "m", StartLine: 5, Params: []ast.Param{
				{Name: "i", Type: "int"},
				{Name: "x", Type: "int"},
			}},
		},
	}

	findings := shortName{}.Check(file, defaultRules())

	require.Len(t, findings, 4)
	symbols := make([]string, 0, len(findings))
	for _, f := range findings {
		symbols = append(symbols, f.Symbol)
	}
	assert.Equal(t, []string{"P", "q", "m", "x"}, symbols, "i is allowlisted")
}

func TestShortName_CustomAllowlist(t *testing.T) {
	cfg := defaultRules()
	cfg.ShortNameAllow = []string{"x"}

	file := &ast.File{
		Language: "java",
		Funcs: []*ast.Function{
			{Kind: ast.FuncMethod, Name: "move", StartLine: 1, Params: []ast.Param{
				{Name: "x", Type: "int"},
				{Name: "i", Type: "int"},
			}},
		},
	}

	findings := shortName{}.Check(file, cfg)

	require.Len(t, findings, 1)
	assert.Equal(t, "i", findings[0].Symbol)
}
