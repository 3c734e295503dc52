package sema

import (
	"testing"

	"basalt/internal/ast"
	"basalt/internal/diag"
	"basalt/internal/source"
)

// fixture wires a program with a bag-backed reporter and hands out source
// builders with distinct file IDs.
type fixture struct {
	t       *testing.T
	bag     *diag.Bag
	program *Program
	next    source.FileID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	bag := diag.NewBag(100)
	return &fixture{
		t:       t,
		bag:     bag,
		program: NewProgram(diag.BagReporter{Bag: bag}),
	}
}

func (f *fixture) initialize() {
	f.program.Initialize(Options{})
}

func (f *fixture) hasCode(code diag.Code) bool {
	for _, d := range f.bag.Items() {
		if d.Code == code {
			return true
		}
	}
	return false
}

func (f *fixture) expectCode(code diag.Code) {
	f.t.Helper()
	if !f.hasCode(code) {
		f.t.Fatalf("expected diagnostic %s, got %v", code, f.messages())
	}
}

func (f *fixture) expectClean() {
	f.t.Helper()
	if f.bag.HasErrors() {
		f.t.Fatalf("unexpected errors: %v", f.messages())
	}
}

func (f *fixture) messages() []string {
	var out []string
	for _, d := range f.bag.Items() {
		out = append(out, d.Code.String()+" "+d.Message)
	}
	return out
}

// src starts a builder for a new source file.
func (f *fixture) src(path string, kind ast.SourceKind) *srcBuilder {
	id := f.next
	f.next++
	s := &ast.Source{
		Path:       source.NormalizePath(path),
		File:       id,
		SourceKind: kind,
	}
	f.program.AddSource(s)
	return &srcBuilder{f: f, source: s, file: id}
}

type srcBuilder struct {
	f      *fixture
	source *ast.Source
	file   source.FileID
}

func (b *srcBuilder) sp() source.Span { return source.Span{File: b.file} }

func (b *srcBuilder) ident(name string) *ast.Identifier {
	return ast.NewIdentifier(name, b.sp())
}

func (b *srcBuilder) typ(name string, args ...*ast.TypeNode) *ast.TypeNode {
	return ast.NewTypeNode(b.ident(name), args, false, b.sp())
}

func (b *srcBuilder) add(stmts ...ast.Statement) *srcBuilder {
	b.source.Statements = append(b.source.Statements, stmts...)
	return b
}

// field declares an instance field with a named type.
func (b *srcBuilder) field(name, typeName string) *ast.FieldDeclaration {
	return ast.NewFieldDeclaration(b.ident(name), b.typ(typeName), nil, ast.ModifierNone, nil, b.sp())
}

// method declares an instance method with the given signature.
func (b *srcBuilder) method(name string, flags ast.ModifierFlags, decorators []*ast.DecoratorNode, params []*ast.ParameterNode, returnType ast.TypeExpr) *ast.MethodDeclaration {
	sig := ast.NewSignature(params, returnType, nil, b.sp())
	return ast.NewMethodDeclaration(b.ident(name), nil, sig, nil, flags, decorators, b.sp())
}

// fn declares a free function.
func (b *srcBuilder) fn(name string, flags ast.ModifierFlags, params []*ast.ParameterNode, returnType ast.TypeExpr) *ast.FunctionDeclaration {
	sig := ast.NewSignature(params, returnType, nil, b.sp())
	return ast.NewFunctionDeclaration(b.ident(name), nil, sig, nil, flags, nil, b.sp())
}

func (b *srcBuilder) param(name, typeName string) *ast.ParameterNode {
	return ast.NewParameter(b.ident(name), b.typ(typeName), nil, ast.ParameterDefault, b.sp())
}

// class declares a class with members.
func (b *srcBuilder) class(name string, flags ast.ModifierFlags, decorators []*ast.DecoratorNode, members ...ast.Statement) *ast.ClassDeclaration {
	return ast.NewClassDeclaration(b.ident(name), nil, nil, nil, members, flags, decorators, b.sp())
}

func (b *srcBuilder) decorator(name string, args ...ast.Expression) *ast.DecoratorNode {
	return ast.NewDecorator(b.ident(name), args, b.sp())
}

func (b *srcBuilder) operatorDecorator(symbol string) *ast.DecoratorNode {
	return b.decorator("operator", ast.NewStringLiteral(symbol, b.sp()))
}

// classProto fetches an initialized class prototype by internal name.
func (f *fixture) classProto(internalName string) *ClassPrototype {
	f.t.Helper()
	el, ok := f.program.LookupElement(internalName)
	if !ok {
		f.t.Fatalf("element %q not found", internalName)
	}
	proto, ok := el.(*ClassPrototype)
	if !ok {
		f.t.Fatalf("element %q is a %s, not a class prototype", internalName, el.Kind())
	}
	return proto
}
