package java

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/semlint/ast"
)

func parse(t *testing.T, src string) *ast.File {
	t.Helper()
	p := NewParser("/repo")
	file, err := p.ParseSource(context.Background(), "Test.java", []byte(src))
	require.NoError(t, err)
	return file
}

func TestParser_ParseSource_ClassShape(t *testing.T) {
	file := parse(t, `package com.example.billing;

public class Invoice {
    private static final int MAX_LINES = 100;
    private int total;

    public Invoice(int total) {
        this.total = total;
    }

    public int total() {
        return total;
    }

    void reset(boolean hard, Boolean soft) {
        total = 0;
    }
}`)

	assert.Equal(t, "java", file.Language)
	assert.Equal(t, "com.example.billing", file.Package)
	assert.Equal(t, "Test.java", file.Path)
	assert.NotEmpty(t, file.Hash)

	require.Len(t, file.Types, 1)
	decl := file.Types[0]
	assert.Equal(t, ast.KindClass, decl.Kind)
	assert.Equal(t, "Invoice", decl.Name)
	assert.Equal(t, ast.VisibilityPublic, decl.Visibility)
	assert.Equal(t, 3, decl.StartLine)

	require.Len(t, decl.Fields, 2)
	assert.Equal(t, "MAX_LINES", decl.Fields[0].Name)
	assert.True(t, decl.Fields[0].Const, "static final is a constant")
	assert.Equal(t, ast.VisibilityPrivate, decl.Fields[0].Visibility)
	assert.Equal(t, "total", decl.Fields[1].Name)
	assert.False(t, decl.Fields[1].Const)

	require.Len(t, decl.Methods, 3)
	assert.Len(t, file.Funcs, 3, "methods are flattened into the file")

	ctor := decl.Methods[0]
	assert.Equal(t, ast.FuncConstructor, ctor.Kind)
	assert.Equal(t, "Invoice", ctor.Name)
	assert.Equal(t, ast.VisibilityPublic, ctor.Visibility)

	getter := decl.Methods[1]
	assert.Equal(t, ast.FuncMethod, getter.Kind)
	assert.Equal(t, "total", getter.Name)
	assert.Equal(t, "Invoice", getter.Owner)
	assert.Equal(t, 1, getter.BodyLines)

	reset := decl.Methods[2]
	assert.Equal(t, ast.VisibilityPrivate, reset.Visibility, "package-private counts as private")
	require.Len(t, reset.Params, 2)
	assert.Equal(t, ast.Param{Name: "hard", Type: "boolean", Boolean: true}, reset.Params[0])
	assert.Equal(t, ast.Param{Name: "soft", Type: "Boolean", Boolean: true}, reset.Params[1])
}

func TestParser_ParseSource_RecordComponents(t *testing.T) {
	file := parse(t, `record Point(int x, int y) {
    double length() {
        return Math.sqrt(x * x + y * y);
    }
}`)

	require.Len(t, file.Types, 1)
	decl := file.Types[0]
	assert.Equal(t, ast.KindRecord, decl.Kind)
	assert.Equal(t, "Point", decl.Name)

	require.Len(t, decl.Fields, 2)
	assert.Equal(t, "x", decl.Fields[0].Name)
	assert.Equal(t, "int", decl.Fields[0].Type)
	assert.Equal(t, ast.VisibilityPrivate, decl.Fields[0].Visibility)
	assert.Equal(t, "y", decl.Fields[1].Name)

	// The compact constructor is implicit; only declared methods appear.
	require.Len(t, decl.Methods, 1)
	assert.Equal(t, "length", decl.Methods[0].Name)
	assert.Equal(t, []string{"x", "y"}, decl.Methods[0].FieldsUsed)
}

func TestParser_ParseSource_EnumConstants(t *testing.T) {
	file := parse(t, `public enum Status {
    ACTIVE,
    RETIRED;

    boolean live() {
        return this == ACTIVE;
    }
}`)

	require.Len(t, file.Types, 1)
	decl := file.Types[0]
	assert.Equal(t, ast.KindEnum, decl.Kind)

	require.Len(t, decl.Fields, 2)
	for _, f := range decl.Fields {
		assert.True(t, f.Const, "enum constants are constants")
		assert.Equal(t, ast.VisibilityPublic, f.Visibility)
	}
	assert.Equal(t, "ACTIVE", decl.Fields[0].Name)
	assert.Equal(t, "RETIRED", decl.Fields[1].Name)

	require.Len(t, decl.Methods, 1)
	assert.Equal(t, "live", decl.Methods[0].Name)

	assert.Empty(t, file.BoolCompares, "enum comparison is not a boolean literal comparison")
}

func TestParser_ParseSource_InterfaceMembers(t *testing.T) {
	file := parse(t, `interface Repository {
    int DEFAULT_BATCH = 25;

    void save(String record);
}`)

	require.Len(t, file.Types, 1)
	decl := file.Types[0]
	assert.Equal(t, ast.KindInterface, decl.Kind)

	require.Len(t, decl.Fields, 1)
	assert.True(t, decl.Fields[0].Const, "interface fields are implicitly constant")

	require.Len(t, decl.Methods, 1)
	save := decl.Methods[0]
	assert.Nil(t, save.Body, "interface methods have no body")
	assert.Zero(t, save.BodyLines)
	require.Len(t, save.Params, 1)
	assert.Equal(t, "String", save.Params[0].Type)

	require.Len(t, file.Numbers, 1)
	assert.True(t, file.Numbers[0].InConst)
}

func TestParser_ParseSource_StatementTree(t *testing.T) {
	file := parse(t, `class Flow {
    void run(java.util.List<String> items) {
        if (items.isEmpty()) {
            return;
        } else {
            handle(items);
        }
        for (String item : items) {
            handle(item);
        }
        try {
            risky();
        } catch (java.io.IOException e) {
            // recovery happens upstream
        } finally {
            cleanup();
        }
    }
}`)

	require.Len(t, file.Funcs, 1)
	body := file.Funcs[0].Body
	require.NotNil(t, body)
	assert.Equal(t, ast.StmtBlock, body.Kind)
	require.Len(t, body.Children, 3)

	ifStmt := body.Children[0]
	assert.Equal(t, ast.StmtIf, ifStmt.Kind)
	assert.False(t, ifStmt.CondNegated)
	require.Len(t, ifStmt.Children, 1)
	assert.Equal(t, ast.StmtReturn, ifStmt.Children[0].Kind)
	require.NotNil(t, ifStmt.Else)
	assert.Equal(t, ast.StmtBlock, ifStmt.Else.Kind)
	require.Len(t, ifStmt.Else.Children, 1)
	assert.Equal(t, ast.StmtExpr, ifStmt.Else.Children[0].Kind)

	loop := body.Children[1]
	assert.Equal(t, ast.StmtLoop, loop.Kind)
	require.Len(t, loop.Children, 1)

	try := body.Children[2]
	assert.Equal(t, ast.StmtTry, try.Kind)
	require.Len(t, try.Children, 3, "try body, catch, finally")
	assert.Equal(t, ast.StmtExpr, try.Children[0].Kind)

	catch := try.Children[1]
	assert.Equal(t, ast.StmtCatch, catch.Kind)
	assert.Equal(t, []string{"java.io.IOException"}, catch.CatchTypes)
	assert.Empty(t, catch.Children)
	assert.True(t, catch.HasComment, "the comment keeps an empty catch intentional")

	finally := try.Children[2]
	assert.Equal(t, ast.StmtFinally, finally.Kind)
	require.Len(t, finally.Children, 1)
}

func TestParser_ParseSource_NegatedConditions(t *testing.T) {
	file := parse(t, `class Guards {
    void check(String value, java.util.Set<String> seen) {
        if (!seen.contains(value)) {
            mark(value);
        }
        if (value != null) {
            use(value);
        }
        if (seen.size() != 3) {
            grow();
        }
        if (value == null) {
            return;
        }
    }
}`)

	require.Len(t, file.Funcs, 1)
	body := file.Funcs[0].Body
	require.Len(t, body.Children, 4)

	assert.True(t, body.Children[0].CondNegated, "leading ! is a negation")
	assert.False(t, body.Children[1].CondNegated, "!= null is an idiomatic guard")
	assert.True(t, body.Children[2].CondNegated, "!= against a value is a negation")
	assert.False(t, body.Children[3].CondNegated, "== null is not a negation")
}

func TestParser_ParseSource_Literals(t *testing.T) {
	file := parse(t, `class Limits {
    private static final int MAX = 500;
    private int current;

    boolean accept(long amount) {
        final int headroom = 250;
        String label = "over-limit";
        log("over-limit");
        return amount + current < 9000L;
    }
}`)

	require.Len(t, file.Numbers, 3)
	assert.Equal(t, "500", file.Numbers[0].Value)
	assert.True(t, file.Numbers[0].InConst, "field initialiser under final")
	assert.Equal(t, "250", file.Numbers[1].Value)
	assert.True(t, file.Numbers[1].InConst, "local initialiser under final")
	assert.Equal(t, "9000", file.Numbers[2].Value, "type suffix is stripped")
	assert.False(t, file.Numbers[2].InConst)

	require.Len(t, file.Strings, 2)
	for _, s := range file.Strings {
		assert.Equal(t, "over-limit", s.Value, "quotes are stripped")
		assert.False(t, s.InConst)
	}
}

func TestParser_ParseSource_BoolCompares(t *testing.T) {
	file := parse(t, `class Checks {
    boolean evaluate(boolean ready, boolean done) {
        if (ready == true) {
            return done != false;
        }
        return false;
    }
}`)

	require.Len(t, file.BoolCompares, 2)
	assert.Equal(t, "==", file.BoolCompares[0].Operator)
	assert.Equal(t, "true", file.BoolCompares[0].Literal)
	assert.Equal(t, "!=", file.BoolCompares[1].Operator)
	assert.Equal(t, "false", file.BoolCompares[1].Literal)
}

func TestParser_ParseSource_Comments(t *testing.T) {
	file := parse(t, `// first note
class Notes {
    /* block
     * detail
     */
    void noted() {
    }
}`)

	require.Len(t, file.Comments, 2)
	assert.Equal(t, "first note", file.Comments[0].Text)
	assert.Equal(t, ast.CommentLine, file.Comments[0].Kind)
	assert.Equal(t, 1, file.Comments[0].StartLine)

	assert.Equal(t, "block\ndetail", file.Comments[1].Text)
	assert.Equal(t, ast.CommentBlock, file.Comments[1].Kind)
	assert.Equal(t, 3, file.Comments[1].StartLine)
	assert.Equal(t, 5, file.Comments[1].EndLine)
}

func TestParser_ParseSource_Suppressions(t *testing.T) {
	file := parse(t, `class Tuned {
    // semlint:ignore magic-number
    private int offset = 37;

    void all() {
        // semlint:ignore
        risky(99);
    }
}`)

	require.Len(t, file.Suppressions, 2)
	assert.Equal(t, 2, file.Suppressions[0].Line)
	assert.Equal(t, []string{"magic-number"}, file.Suppressions[0].Rules)
	assert.Equal(t, 6, file.Suppressions[1].Line)
	assert.Empty(t, file.Suppressions[1].Rules, "a bare directive suppresses every rule")
}

func TestParser_ParseSource_FieldsUsed(t *testing.T) {
	file := parse(t, `class Tracker {
    private int count;
    private int limit;

    void bump() {
        count++;
    }

    boolean full() {
        return this.count >= this.limit;
    }
}`)

	require.Len(t, file.Funcs, 2)
	assert.Equal(t, []string{"count"}, file.Funcs[0].FieldsUsed)
	assert.Equal(t, []string{"count", "limit"}, file.Funcs[1].FieldsUsed, "this-qualified access resolves")
}

func TestParser_ParseSource_BodyLines(t *testing.T) {
	file := parse(t, `class Sums {
    int sum(int first, int second) {
        int total = first + second;

        return total;
    }
}`)

	require.Len(t, file.Funcs, 1)
	assert.Equal(t, 2, file.Funcs[0].BodyLines, "blank lines are not counted")
}

func TestParser_ParseSource_NestedClass(t *testing.T) {
	file := parse(t, `class Outer {
    private int shared;

    class Inner {
        void poke() {
        }
    }

    void touch() {
        shared = 1;
    }
}`)

	require.Len(t, file.Types, 1)
	outer := file.Types[0]
	require.Len(t, outer.Nested, 1)
	inner := outer.Nested[0]
	assert.Equal(t, "Inner", inner.Name)
	require.Len(t, inner.Methods, 1)
	assert.Equal(t, "Inner", inner.Methods[0].Owner)

	assert.Len(t, file.Funcs, 2, "nested methods are flattened too")
	require.Len(t, outer.Methods, 1)
	assert.Equal(t, []string{"shared"}, outer.Methods[0].FieldsUsed)
}

func TestParser_ParseFile(t *testing.T) {
	tmpDir := t.TempDir()
	srcDir := filepath.Join(tmpDir, "src")
	require.NoError(t, os.MkdirAll(srcDir, 0o755))
	path := filepath.Join(srcDir, "Main.java")
	require.NoError(t, os.WriteFile(path, []byte("class Main {\n}\n"), 0o644))

	p := NewParser(tmpDir)
	file, err := p.ParseFile(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("src", "Main.java"), file.Path)
	require.Len(t, file.Types, 1)
	assert.Equal(t, "Main", file.Types[0].Name)
}

func TestParser_ParseFile_Missing(t *testing.T) {
	p := NewParser(t.TempDir())
	_, err := p.ParseFile(context.Background(), filepath.Join(t.TempDir(), "Absent.java"))
	assert.Error(t, err)
}
