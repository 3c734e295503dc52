package sema

import (
	"testing"

	"basalt/internal/ast"
	"basalt/internal/diag"
	"basalt/internal/types"
)

func TestResolveTypePrimitivesAndIdempotency(t *testing.T) {
	f := newFixture(t)
	a := f.src("a.ts", ast.SourceUser)
	a.add(a.class("Foo", ast.ModifierNone, nil))
	f.initialize()
	f.expectClean()

	r := f.program.Resolver()
	if r.ResolveType(a.typ("i32"), nil, true) != f.program.Types.I32 {
		t.Fatalf("i32 did not resolve to the shared primitive")
	}

	node := a.typ("Foo")
	first := r.ResolveType(node, nil, true)
	second := r.ResolveType(node, nil, true)
	if first == nil || first != second {
		t.Fatalf("class type resolution must be idempotent")
	}

	nullable := ast.NewTypeNode(a.ident("Foo"), nil, true, a.sp())
	nt := r.ResolveType(nullable, nil, true)
	if nt == first || !nt.Nullable || nt.NonNullable() != first {
		t.Fatalf("nullable variant wrong: %v", nt)
	}
}

func TestResolveTypeSignatureBecomesFunctionPointer(t *testing.T) {
	f := newFixture(t)
	a := f.src("a.ts", ast.SourceUser)
	f.initialize()

	sigNode := ast.NewSignature([]*ast.ParameterNode{a.param("x", "i32")}, a.typ("i64"), nil, a.sp())
	typ := f.program.Resolver().ResolveType(sigNode, nil, true)
	if typ == nil || typ.Kind != types.KindFunction {
		t.Fatalf("signature node must resolve to a function type, got %v", typ)
	}
	if typ.Size != f.program.Types.Usize.Size {
		t.Fatalf("function types are pointer-sized")
	}
	if typ.Signature.ReturnType != f.program.Types.I64 {
		t.Fatalf("signature return type wrong")
	}
	if typ.Signature.RequiredParameters != 1 {
		t.Fatalf("required parameters = %d", typ.Signature.RequiredParameters)
	}
}

func TestResolveTypeArgumentArity(t *testing.T) {
	f := newFixture(t)
	a := f.src("a.ts", ast.SourceUser)
	box := ast.NewClassDeclaration(a.ident("Box"),
		[]*ast.TypeParameterNode{ast.NewTypeParameter("T", a.sp())},
		nil, nil, nil, ast.ModifierNone, nil, a.sp())
	a.add(box)
	f.initialize()

	typ := f.program.Resolver().ResolveType(a.typ("Box", a.typ("i32"), a.typ("i64")), nil, true)
	if typ != nil {
		t.Fatalf("arity mismatch must fail")
	}
	f.expectCode(diag.TypeArgumentArity)
}

func TestResolveTypeUnknownReports(t *testing.T) {
	f := newFixture(t)
	a := f.src("a.ts", ast.SourceUser)
	f.initialize()

	if f.program.Resolver().ResolveType(a.typ("Nope"), nil, true) != nil {
		t.Fatalf("unknown type must resolve to nil")
	}
	f.expectCode(diag.ResolveCannotFindName)

	// silent probe
	g := newFixture(t)
	b := g.src("b.ts", ast.SourceUser)
	g.initialize()
	if g.program.Resolver().ResolveType(b.typ("Nope"), nil, false) != nil {
		t.Fatalf("unknown type must resolve to nil")
	}
	if g.bag.Len() != 0 {
		t.Fatalf("reportNotFound=false must stay silent")
	}
}

func TestResolveTypeContextualPlaceholder(t *testing.T) {
	f := newFixture(t)
	a := f.src("a.ts", ast.SourceUser)
	f.initialize()

	ctx := map[string]*types.Type{"T": f.program.Types.F32}
	if got := f.program.Resolver().ResolveType(a.typ("T"), ctx, true); got != f.program.Types.F32 {
		t.Fatalf("placeholder lookup failed: %v", got)
	}
}

func TestResolveIdentifierScopes(t *testing.T) {
	f := newFixture(t)
	a := f.src("a.ts", ast.SourceUser)
	helper := a.fn("helper", ast.ModifierNone, nil, nil)
	main := a.fn("main", ast.ModifierNone, []*ast.ParameterNode{a.param("arg", "i32")}, nil)
	a.add(
		ast.NewNamespaceDeclaration(a.ident("N"), []ast.Statement{helper, main}, ast.ModifierNone, nil, a.sp()),
		a.fn("top", ast.ModifierNone, nil, nil),
	)
	lib := f.src("~lib/builtins.ts", ast.SourceLibrary)
	lib.add(lib.fn("abort", ast.ModifierExport, nil, nil))
	f.initialize()
	f.expectClean()

	mainEl, _ := f.program.LookupElement("a/N.main")
	mainFn := mainEl.(*FunctionPrototype).Resolve(nil, nil)
	if mainFn == nil {
		t.Fatalf("main did not resolve")
	}
	r := f.program.Resolver()

	// parameter via function locals
	if el := r.ResolveIdentifier(a.ident("arg"), mainFn, nil); el != mainFn.Locals["arg"] {
		t.Fatalf("parameter lookup failed: %v", el)
	}
	// sibling through the namespace chain
	if el := r.ResolveIdentifier(a.ident("helper"), mainFn, nil); el == nil || el.InternalName() != "a/N.helper" {
		t.Fatalf("namespace chain lookup failed: %v", el)
	}
	// file scope
	if el := r.ResolveIdentifier(a.ident("top"), mainFn, nil); el == nil || el.InternalName() != "a/top" {
		t.Fatalf("file scope lookup failed: %v", el)
	}
	// global scope (library export)
	if el := r.ResolveIdentifier(a.ident("abort"), mainFn, nil); el == nil || el.SimpleName() != "abort" {
		t.Fatalf("global scope lookup failed: %v", el)
	}
	// miss
	if el := r.ResolveIdentifier(a.ident("missing"), mainFn, nil); el != nil {
		t.Fatalf("missing identifier must be nil")
	}
	f.expectCode(diag.ResolveCannotFindName)
}

func TestResolveIdentifierContextualEnum(t *testing.T) {
	f := newFixture(t)
	a := f.src("a.ts", ast.SourceUser)
	values := []*ast.EnumValueDeclaration{ast.NewEnumValueDeclaration(a.ident("Up"), nil, a.sp())}
	a.add(ast.NewEnumDeclaration(a.ident("Dir"), values, ast.ModifierNone, nil, a.sp()))
	f.initialize()

	el, _ := f.program.LookupElement("a/Dir")
	enum := el.(*Enum)
	got := f.program.Resolver().ResolveIdentifier(a.ident("Up"), nil, enum)
	if _, ok := got.(*EnumValue); !ok {
		t.Fatalf("contextual enum lookup failed: %v", got)
	}
}

// buildVecFixture declares a Vec class with a field, a method, a property,
// an indexed-get overload and a typed global `v`.
func buildVecFixture(t *testing.T) (*fixture, *srcBuilder, *Global) {
	f := newFixture(t)
	a := f.src("a.ts", ast.SourceUser)
	length := a.method("length", ast.ModifierGet, nil, nil, a.typ("i32"))
	self := a.method("self", ast.ModifierGet, nil, nil, a.typ("Vec"))
	norm := a.method("norm", ast.ModifierNone, nil, nil, a.typ("Vec"))
	get := a.method("get", ast.ModifierNone, []*ast.DecoratorNode{a.operatorDecorator("[]")},
		[]*ast.ParameterNode{a.param("index", "i32")}, a.typ("Vec"))
	a.add(
		a.class("Vec", ast.ModifierNone, nil, a.field("x", "i32"), length, self, norm, get),
		ast.NewVariable([]*ast.VariableDeclaration{
			ast.NewVariableDeclaration(a.ident("v"), a.typ("Vec"), nil, ast.ModifierConst, nil, a.sp()),
		}, a.sp()),
	)
	f.initialize()
	f.expectClean()

	el, _ := f.program.LookupElement("a/v")
	global := el.(*Global)
	f.program.Resolver().ResolveGlobal(global)
	return f, a, global
}

func TestResolvePropertyAccessOnGlobal(t *testing.T) {
	f, a, _ := buildVecFixture(t)
	r := f.program.Resolver()

	access := ast.NewPropertyAccess(a.ident("v"), a.ident("x"), a.sp())
	el := r.ResolveExpression(access, nil)
	field, ok := el.(*Field)
	if !ok {
		t.Fatalf("v.x should resolve to a field, got %v", el)
	}
	if field.SimpleName() != "x" {
		t.Fatalf("wrong field: %s", field.SimpleName())
	}
	if r.ResolvedThisExpression != access.Expression {
		t.Fatalf("receiver expression not recorded")
	}
	if r.ResolvedElementExpression != nil {
		t.Fatalf("element expression must be cleared")
	}
}

func TestResolvePropertyAccessThroughProperty(t *testing.T) {
	f, a, _ := buildVecFixture(t)
	r := f.program.Resolver()

	// v.norm resolves to the method prototype member
	norm := r.ResolveExpression(ast.NewPropertyAccess(a.ident("v"), a.ident("norm"), a.sp()), nil)
	if _, ok := norm.(*FunctionPrototype); !ok {
		t.Fatalf("v.norm should be a function prototype, got %v", norm)
	}

	// v.self.x normalizes the Property through its getter's return class
	chained := ast.NewPropertyAccess(
		ast.NewPropertyAccess(a.ident("v"), a.ident("self"), a.sp()),
		a.ident("x"), a.sp())
	if got := r.ResolveExpression(chained, nil); got == nil {
		t.Fatalf("v.self.x should resolve through the getter")
	} else if _, ok := got.(*Field); !ok {
		t.Fatalf("v.self.x should be a field, got %v", got)
	}

	// miss reports property-not-found
	if got := r.ResolveExpression(ast.NewPropertyAccess(a.ident("v"), a.ident("nope"), a.sp()), nil); got != nil {
		t.Fatalf("missing member must be nil")
	}
	f.expectCode(diag.ResolvePropertyNotFound)
}

func TestResolveElementAccess(t *testing.T) {
	f, a, _ := buildVecFixture(t)
	r := f.program.Resolver()

	access := ast.NewElementAccess(a.ident("v"), ast.NewIntegerLiteral(0, a.sp()), a.sp())
	el := r.ResolveExpression(access, nil)
	class, ok := el.(*Class)
	if !ok || class.SimpleName() != "Vec" {
		t.Fatalf("v[0] should resolve through the indexed-get receiver, got %v", el)
	}
	if r.ResolvedThisExpression != access.Expression || r.ResolvedElementExpression != access.Element {
		t.Fatalf("receiver/index expressions not recorded")
	}

	// chained: v[0].x applies the overload's return class
	chained := ast.NewPropertyAccess(access, a.ident("x"), a.sp())
	got := r.ResolveExpression(chained, nil)
	if _, ok := got.(*Field); !ok {
		t.Fatalf("v[0].x should resolve to a field, got %v", got)
	}
}

func TestElementAccessWithoutOverloadReports(t *testing.T) {
	f := newFixture(t)
	a := f.src("a.ts", ast.SourceUser)
	a.add(
		a.class("Plain", ast.ModifierNone, nil, a.field("x", "i32")),
		ast.NewVariable([]*ast.VariableDeclaration{
			ast.NewVariableDeclaration(a.ident("p"), a.typ("Plain"), nil, ast.ModifierConst, nil, a.sp()),
		}, a.sp()),
	)
	f.initialize()
	el, _ := f.program.LookupElement("a/p")
	f.program.Resolver().ResolveGlobal(el.(*Global))

	access := ast.NewElementAccess(a.ident("p"), ast.NewIntegerLiteral(0, a.sp()), a.sp())
	if got := f.program.Resolver().ResolveExpression(access, nil); got != nil {
		t.Fatalf("element access without overload must fail")
	}
	f.expectCode(diag.ResolveIndexSignature)
}

func TestResolveThisAndSuper(t *testing.T) {
	f := newFixture(t)
	a := f.src("a.ts", ast.SourceUser)
	baseM := a.method("m", ast.ModifierNone, nil, nil, nil)
	base := a.class("Base", ast.ModifierNone, nil, baseM)
	derivedM := a.method("n", ast.ModifierNone, nil, nil, nil)
	derived := ast.NewClassDeclaration(a.ident("Derived"), nil, a.typ("Base"), nil,
		[]ast.Statement{derivedM}, ast.ModifierNone, nil, a.sp())
	a.add(base, derived)
	f.initialize()
	f.expectClean()

	instance := f.classProto("a/Derived").Resolve(nil, nil)
	method := instance.Members()["n"].(*FunctionPrototype).Resolve(nil, instance.ContextualTypeArguments)
	r := f.program.Resolver()

	if got := r.ResolveExpression(ast.NewThis(a.sp()), method); got != instance {
		t.Fatalf("this should resolve to the owning class, got %v", got)
	}
	if got := r.ResolveExpression(ast.NewSuper(a.sp()), method); got != instance.Base {
		t.Fatalf("super should resolve to the base class, got %v", got)
	}

	// outside a class context both report
	if got := r.ResolveExpression(ast.NewThis(a.sp()), nil); got != nil {
		t.Fatalf("this outside a method must fail")
	}
	f.expectCode(diag.SemaThisContext)
	if got := r.ResolveExpression(ast.NewSuper(a.sp()), nil); got != nil {
		t.Fatalf("super outside a derived method must fail")
	}
	f.expectCode(diag.SemaSuperContext)
}

func TestResolveStringLiteral(t *testing.T) {
	f := newFixture(t)
	lib := f.src("~lib/string.ts", ast.SourceLibrary)
	lib.add(lib.class("String", ast.ModifierExport, nil))
	f.initialize()
	f.expectClean()

	r := f.program.Resolver()
	literal := ast.NewStringLiteral("hi", lib.sp())
	el := r.ResolveExpression(literal, nil)
	if el != f.program.StringInstance {
		t.Fatalf("string literal should resolve to the String instance")
	}
	if r.ResolvedThisExpression != literal {
		t.Fatalf("the literal itself is the receiver")
	}
}

func TestResolveCallExpressions(t *testing.T) {
	f := newFixture(t)
	a := f.src("a.ts", ast.SourceUser)
	fnSig := ast.NewSignature(nil, a.typ("i32"), nil, a.sp())
	makeFn := ast.NewFunctionDeclaration(a.ident("make"), nil,
		ast.NewSignature(nil, a.typ("Vec"), nil, a.sp()), nil, ast.ModifierNone, nil, a.sp())
	makeFactory := ast.NewFunctionDeclaration(a.ident("factory"), nil,
		ast.NewSignature(nil, fnSig, nil, a.sp()), nil, ast.ModifierNone, nil, a.sp())
	a.add(a.class("Vec", ast.ModifierNone, nil, a.field("x", "i32")), makeFn, makeFactory)
	f.initialize()
	f.expectClean()

	r := f.program.Resolver()

	// call returning a class type resolves to the class
	el := r.ResolveExpression(ast.NewCall(a.ident("make"), nil, nil, a.sp()), nil)
	class, ok := el.(*Class)
	if !ok || class.SimpleName() != "Vec" {
		t.Fatalf("make() should resolve to Vec, got %v", el)
	}

	// call returning a function type resolves to the signature's target
	el = r.ResolveExpression(ast.NewCall(a.ident("factory"), nil, nil, a.sp()), nil)
	target, ok := el.(*FunctionTarget)
	if !ok {
		t.Fatalf("factory() should resolve to a function target, got %v", el)
	}
	if again := r.ResolveExpression(ast.NewCall(a.ident("factory"), nil, nil, a.sp()), nil); again != target {
		t.Fatalf("function targets must be cached per signature")
	}

	// non-callable target reports
	if got := r.ResolveExpression(ast.NewCall(a.ident("Vec"), nil, nil, a.sp()), nil); got != nil {
		t.Fatalf("calling a class prototype must fail")
	}
	f.expectCode(diag.SemaNotCallable)
}

func TestResolveAssertion(t *testing.T) {
	f, a, _ := buildVecFixture(t)
	r := f.program.Resolver()

	assertion := ast.NewAssertion(a.ident("v"), a.typ("Vec"), a.sp())
	el := r.ResolveExpression(assertion, nil)
	if class, ok := el.(*Class); !ok || class.SimpleName() != "Vec" {
		t.Fatalf("assertion should carry the class reference, got %v", el)
	}
}

func TestResolveBinaryUnsupported(t *testing.T) {
	f, a, _ := buildVecFixture(t)
	r := f.program.Resolver()
	binary := ast.NewBinary("+", a.ident("v"), a.ident("v"), a.sp())
	if got := r.ResolveExpression(binary, nil); got != nil {
		t.Fatalf("binary expressions are unsupported")
	}
	f.expectCode(diag.TypeOperationUnsupported)
}

func TestParenthesizedStripping(t *testing.T) {
	f, a, _ := buildVecFixture(t)
	r := f.program.Resolver()
	wrapped := ast.NewParenthesized(ast.NewParenthesized(a.ident("v"), a.sp()), a.sp())
	el := r.ResolveExpression(wrapped, nil)
	if _, ok := el.(*Global); !ok {
		t.Fatalf("parenthesization must strip, got %v", el)
	}
}

func TestStaticMemberPropertyAccess(t *testing.T) {
	f := newFixture(t)
	a := f.src("a.ts", ast.SourceUser)
	m := a.method("create", ast.ModifierStatic, nil, nil, a.typ("i32"))
	a.add(a.class("Foo", ast.ModifierNone, nil, m))
	f.initialize()
	f.expectClean()

	r := f.program.Resolver()
	el := r.ResolveExpression(ast.NewPropertyAccess(a.ident("Foo"), a.ident("create"), a.sp()), nil)
	proto, ok := el.(*FunctionPrototype)
	if !ok || proto.InternalName() != "a/Foo.create" {
		t.Fatalf("static member access failed: %v", el)
	}
}
