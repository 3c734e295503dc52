package driver

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"basalt/internal/ast"
	"basalt/internal/astcodec"
	"basalt/internal/project"
	"basalt/internal/source"
)

func writeBundle(t *testing.T, name string, sources []*ast.Source) string {
	t.Helper()
	var buf bytes.Buffer
	if err := astcodec.Encode(&buf, sources); err != nil {
		t.Fatalf("encode: %v", err)
	}
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func simpleSources(className string, exported bool) []*ast.Source {
	sp := source.Span{}
	flags := ast.ModifierNone
	if exported {
		flags = ast.ModifierExport
	}
	cls := ast.NewClassDeclaration(ast.NewIdentifier(className, sp), nil, nil, nil,
		[]ast.Statement{
			ast.NewFieldDeclaration(ast.NewIdentifier("x", sp), ast.NewNamedType("i32", sp), nil, ast.ModifierNone, nil, sp),
		}, flags, nil, sp)
	return []*ast.Source{{
		Path:       "main",
		Text:       "class " + className + " { x: i32 }",
		SourceKind: ast.SourceEntry,
		Statements: []ast.Statement{cls},
	}}
}

func TestCheckBundle(t *testing.T) {
	path := writeBundle(t, "ok.astb", simpleSources("Foo", true))
	result, err := Check(path, project.Default())
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if result.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", result.Bag.Items())
	}
	if _, ok := result.Program.LookupElement("main/Foo"); !ok {
		t.Fatalf("program graph missing main/Foo")
	}
	if _, ok := result.Program.ModuleLevelExports()["Foo"]; !ok {
		t.Fatalf("entry export missing from module exports")
	}
}

func TestCheckAllRunsEveryBundle(t *testing.T) {
	paths := []string{
		writeBundle(t, "a.astb", simpleSources("A", false)),
		writeBundle(t, "b.astb", simpleSources("B", false)),
		writeBundle(t, "c.astb", simpleSources("C", false)),
	}
	results, err := CheckAll(context.Background(), paths, project.Default(), 2)
	if err != nil {
		t.Fatalf("checkall: %v", err)
	}
	for i, result := range results {
		if result == nil {
			t.Fatalf("result %d missing", i)
		}
		if result.Path != paths[i] {
			t.Fatalf("result %d misaligned", i)
		}
	}
}

func TestCheckAllPropagatesIOErrors(t *testing.T) {
	_, err := CheckAll(context.Background(), []string{"/nonexistent.astb"}, project.Default(), 1)
	if err == nil {
		t.Fatalf("missing bundle must error")
	}
}
