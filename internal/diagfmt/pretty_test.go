package diagfmt

import (
	"strings"
	"testing"

	"basalt/internal/diag"
	"basalt/internal/source"
)

func TestPrettyPlain(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.ts", []byte("class Foo {}\nclass Foo {}\n"))

	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevError, diag.DeclDuplicateIdentifier,
		source.Span{File: id, Start: 19, End: 22}, "Foo"))
	bag.Sort()

	var sb strings.Builder
	Pretty(&sb, bag, fs, PrettyOpts{Context: true})
	out := sb.String()

	if !strings.Contains(out, "a:2:7: ERROR BA3001: Duplicate identifier 'Foo'.") {
		t.Fatalf("header line missing:\n%s", out)
	}
	if !strings.Contains(out, "class Foo {}") {
		t.Fatalf("context line missing:\n%s", out)
	}
	if !strings.Contains(out, "      ^~~") {
		t.Fatalf("underline missing or misplaced:\n%s", out)
	}
}

func TestPrettyWithoutContext(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.ts", []byte("let x = 1\n"))

	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevWarning, diag.DeclDecoratorNotValidHere,
		source.Span{File: id, Start: 0, End: 3}, "inline"))

	var sb strings.Builder
	Pretty(&sb, bag, fs, PrettyOpts{})
	out := sb.String()
	if strings.Count(out, "\n") != 1 {
		t.Fatalf("expected a single line, got:\n%s", out)
	}
	if !strings.Contains(out, "WARNING") {
		t.Fatalf("severity label missing:\n%s", out)
	}
}
