package sema

import (
	"testing"

	"basalt/internal/ast"
	"basalt/internal/diag"
)

// Scenario: a file exports a class, another imports it and declares a typed
// constant against it.
func TestImportedClassTypesAGlobal(t *testing.T) {
	f := newFixture(t)

	a := f.src("a.ts", ast.SourceUser)
	a.add(a.class("Foo", ast.ModifierExport, nil))

	b := f.src("b.ts", ast.SourceUser)
	b.add(
		ast.NewImport(
			[]*ast.ImportDeclaration{ast.NewImportDeclaration(b.ident("Foo"), nil, b.sp())},
			nil, ast.NewStringLiteral("./a", b.sp()), "a", b.sp(),
		),
		ast.NewVariable([]*ast.VariableDeclaration{
			ast.NewVariableDeclaration(b.ident("x"), b.typ("Foo"), nil, ast.ModifierExport|ast.ModifierConst, nil, b.sp()),
		}, b.sp()),
	)

	f.initialize()
	f.expectClean()

	el, ok := f.program.LookupElement("b/x")
	if !ok {
		t.Fatalf("b/x not found")
	}
	global, ok := el.(*Global)
	if !ok {
		t.Fatalf("b/x is %s, want global", el.Kind())
	}
	typ := f.program.Resolver().ResolveGlobal(global)
	class, ok := typ.ClassReference().(*Class)
	if !ok {
		t.Fatalf("b/x type %q has no class reference", typ)
	}
	if class.InternalName() != "a/Foo" {
		t.Fatalf("class reference = %q, want a/Foo", class.InternalName())
	}
	// The import aliases the same prototype object.
	if aliased, _ := f.program.LookupElement("b/Foo"); aliased != class.Prototype {
		t.Fatalf("import alias does not reference the exported prototype")
	}
}

func TestImportResolvesIndexAlternative(t *testing.T) {
	f := newFixture(t)

	lib := f.src("util/index.ts", ast.SourceUser)
	lib.add(lib.class("Helper", ast.ModifierExport, nil))

	b := f.src("main.ts", ast.SourceEntry)
	b.add(ast.NewImport(
		[]*ast.ImportDeclaration{ast.NewImportDeclaration(b.ident("Helper"), nil, b.sp())},
		nil, ast.NewStringLiteral("./util", b.sp()), "util", b.sp(),
	))

	f.initialize()
	f.expectClean()

	el, ok := f.program.LookupElement("main/Helper")
	if !ok {
		t.Fatalf("import via /index alternative did not resolve")
	}
	if el.InternalName() != "util/index/Helper" {
		t.Fatalf("aliased element = %q", el.InternalName())
	}
}

func TestUnresolvedImportReports(t *testing.T) {
	f := newFixture(t)
	b := f.src("main.ts", ast.SourceUser)
	b.add(ast.NewImport(
		[]*ast.ImportDeclaration{ast.NewImportDeclaration(b.ident("Missing"), nil, b.sp())},
		nil, ast.NewStringLiteral("./a", b.sp()), "a", b.sp(),
	))
	f.initialize()
	f.expectCode(diag.ResolveNoExportedMember)
}

func TestNamespaceImportUnsupported(t *testing.T) {
	f := newFixture(t)
	b := f.src("main.ts", ast.SourceUser)
	b.add(ast.NewImport(nil, b.ident("N"), ast.NewStringLiteral("./a", b.sp()), "a", b.sp()))
	f.initialize()
	f.expectCode(diag.TypeOperationUnsupported)
}

func TestReExportChainResolves(t *testing.T) {
	f := newFixture(t)

	a := f.src("a.ts", ast.SourceUser)
	a.add(a.class("Foo", ast.ModifierExport, nil))

	mid := f.src("mid.ts", ast.SourceUser)
	mid.add(ast.NewExport(
		[]*ast.ExportMember{ast.NewExportMember(mid.ident("Foo"), nil, mid.sp())},
		ast.NewStringLiteral("./a", mid.sp()), "a", mid.sp(),
	))

	b := f.src("main.ts", ast.SourceEntry)
	b.add(ast.NewImport(
		[]*ast.ImportDeclaration{ast.NewImportDeclaration(b.ident("Foo"), nil, b.sp())},
		nil, ast.NewStringLiteral("./mid", b.sp()), "mid", b.sp(),
	))

	f.initialize()
	f.expectClean()

	el, ok := f.program.LookupElement("main/Foo")
	if !ok || el.InternalName() != "a/Foo" {
		t.Fatalf("re-export chain did not resolve to a/Foo")
	}
	if reexported, ok := f.program.FileLevelExports()["mid/Foo"]; !ok || reexported != el {
		t.Fatalf("re-export was not published on the middle file")
	}
}

// Entry-source exports land in the module-level table with the flag set.
func TestEntryExportsBecomeModuleExports(t *testing.T) {
	f := newFixture(t)
	b := f.src("main.ts", ast.SourceEntry)
	b.add(b.class("Api", ast.ModifierExport, nil))
	f.initialize()
	f.expectClean()

	el, ok := f.program.ModuleLevelExports()["Api"]
	if !ok {
		t.Fatalf("Api missing from module-level exports")
	}
	if !el.Is(FlagModuleExport) {
		t.Fatalf("module export flag not set")
	}
	if fileLevel, ok := f.program.FileLevelExports()["main/Api"]; !ok || fileLevel != el {
		t.Fatalf("file-level export missing or mismatched")
	}
}

func TestModuleExportConflictAcrossEntries(t *testing.T) {
	f := newFixture(t)
	a := f.src("a.ts", ast.SourceEntry)
	a.add(a.class("Api", ast.ModifierExport, nil))
	b := f.src("b.ts", ast.SourceEntry)
	b.add(b.class("Api", ast.ModifierExport, nil))
	f.initialize()
	f.expectCode(diag.DeclExportConflict)
}

// Library-source exports promote to the global scope under the simple name.
func TestLibraryExportsPromoteGlobally(t *testing.T) {
	f := newFixture(t)
	lib := f.src("~lib/array.ts", ast.SourceLibrary)
	lib.add(lib.class("Array", ast.ModifierExport, nil))
	f.initialize()
	f.expectClean()

	el, ok := f.program.LookupElement("Array")
	if !ok {
		t.Fatalf("Array not promoted to global scope")
	}
	if el.InternalName() != "~lib/array/Array" {
		t.Fatalf("promoted element internal name = %q", el.InternalName())
	}
	if f.program.ArrayPrototype == nil {
		t.Fatalf("well-known Array prototype not stashed")
	}
}

func TestGlobalDecoratorPromotes(t *testing.T) {
	f := newFixture(t)
	a := f.src("a.ts", ast.SourceUser)
	a.add(a.class("Heap", ast.ModifierNone, []*ast.DecoratorNode{a.decorator("global")}))
	f.initialize()
	f.expectClean()
	if _, ok := f.program.LookupElement("Heap"); !ok {
		t.Fatalf("@global class not promoted")
	}
}

func TestStringResolutionRegistersStringType(t *testing.T) {
	f := newFixture(t)
	lib := f.src("~lib/string.ts", ast.SourceLibrary)
	lib.add(lib.class("String", ast.ModifierExport, nil))
	f.initialize()
	f.expectClean()

	if f.program.StringInstance == nil {
		t.Fatalf("String instance not resolved")
	}
	typ, ok := f.program.Types.Lookup("string")
	if !ok || typ != f.program.StringInstance.Type {
		t.Fatalf("string type not registered from String instance")
	}
}

func TestDuplicateIdentifierFirstWins(t *testing.T) {
	f := newFixture(t)
	a := f.src("a.ts", ast.SourceUser)
	first := a.class("Foo", ast.ModifierNone, nil)
	a.add(first, a.class("Foo", ast.ModifierNone, nil))
	f.initialize()
	f.expectCode(diag.DeclDuplicateIdentifier)

	el, _ := f.program.LookupElement("a/Foo")
	proto := el.(*ClassPrototype)
	if proto.Declaration != first {
		t.Fatalf("first declaration must win")
	}
}

// Scenario: merged namespaces share one element; mixed export status errors.
func TestNamespaceMerging(t *testing.T) {
	f := newFixture(t)
	a := f.src("a.ts", ast.SourceUser)
	a.add(
		ast.NewNamespaceDeclaration(a.ident("N"), []ast.Statement{
			a.fn("f", ast.ModifierExport, nil, nil),
		}, ast.ModifierNone, nil, a.sp()),
		ast.NewNamespaceDeclaration(a.ident("N"), []ast.Statement{
			a.fn("g", ast.ModifierExport, nil, nil),
		}, ast.ModifierNone, nil, a.sp()),
	)
	f.initialize()
	f.expectClean()

	el, ok := f.program.LookupElement("a/N")
	if !ok {
		t.Fatalf("namespace a/N not found")
	}
	ns := el.(*Namespace)
	if _, ok := ns.Members()["f"]; !ok {
		t.Fatalf("merged namespace lost f")
	}
	if _, ok := ns.Members()["g"]; !ok {
		t.Fatalf("merged namespace lost g")
	}
	if _, ok := f.program.LookupElement("a/N.f"); !ok {
		t.Fatalf("namespace member internal name missing")
	}
}

func TestNamespaceMergeExportMismatch(t *testing.T) {
	f := newFixture(t)
	a := f.src("a.ts", ast.SourceUser)
	a.add(
		ast.NewNamespaceDeclaration(a.ident("N"), nil, ast.ModifierExport, nil, a.sp()),
		ast.NewNamespaceDeclaration(a.ident("N"), nil, ast.ModifierNone, nil, a.sp()),
	)
	f.initialize()
	f.expectCode(diag.DeclMergedDeclarationMixed)
}

// Scenario: extending a sealed class reports and leaves the base unset.
func TestSealedClassCannotBeExtended(t *testing.T) {
	f := newFixture(t)
	a := f.src("a.ts", ast.SourceUser)
	classA := a.class("A", ast.ModifierNone, nil)
	classB := ast.NewClassDeclaration(a.ident("B"), nil, a.typ("A"), nil, nil, ast.ModifierNone,
		[]*ast.DecoratorNode{a.decorator("sealed")}, a.sp())
	classC := ast.NewClassDeclaration(a.ident("C"), nil, a.typ("B"), nil, nil, ast.ModifierNone, nil, a.sp())
	a.add(classA, classB, classC)
	f.initialize()
	f.expectCode(diag.StructSealedExtended)

	if f.classProto("a/B").BasePrototype == nil {
		t.Fatalf("B must still extend A")
	}
	if f.classProto("a/C").BasePrototype != nil {
		t.Fatalf("C.base must stay unset")
	}
}

func TestExtendNonClassReports(t *testing.T) {
	f := newFixture(t)
	a := f.src("a.ts", ast.SourceUser)
	a.add(
		ast.NewEnumDeclaration(a.ident("E"), nil, ast.ModifierNone, nil, a.sp()),
		ast.NewClassDeclaration(a.ident("C"), nil, a.typ("E"), nil, nil, ast.ModifierNone, nil, a.sp()),
	)
	f.initialize()
	f.expectCode(diag.StructExtendNonClass)
}

func TestManagedUnmanagedMixReports(t *testing.T) {
	f := newFixture(t)
	a := f.src("a.ts", ast.SourceUser)
	a.add(
		a.class("Managed", ast.ModifierNone, nil),
		ast.NewClassDeclaration(a.ident("Raw"), nil, a.typ("Managed"), nil, nil, ast.ModifierNone,
			[]*ast.DecoratorNode{a.decorator("unmanaged")}, a.sp()),
	)
	f.initialize()
	f.expectCode(diag.StructManagedMix)
}

func TestUnmanagedImplementsReports(t *testing.T) {
	f := newFixture(t)
	a := f.src("a.ts", ast.SourceUser)
	iface := ast.NewInterfaceDeclaration(a.ident("I"), nil, nil, nil, ast.ModifierNone, nil, a.sp())
	cls := ast.NewClassDeclaration(a.ident("Raw"), nil, nil, []*ast.TypeNode{a.typ("I")}, nil, ast.ModifierNone,
		[]*ast.DecoratorNode{a.decorator("unmanaged")}, a.sp())
	a.add(iface, cls)
	f.initialize()
	f.expectCode(diag.StructUnmanagedImpl)
}

// Scenario: a second @operator("+") overload reports and keeps the first.
func TestDuplicateOperatorOverload(t *testing.T) {
	f := newFixture(t)
	a := f.src("a.ts", ast.SourceUser)
	add1 := a.method("add", ast.ModifierNone, []*ast.DecoratorNode{a.operatorDecorator("+")},
		[]*ast.ParameterNode{a.param("other", "i32")}, a.typ("i32"))
	add2 := a.method("plus", ast.ModifierNone, []*ast.DecoratorNode{a.operatorDecorator("+")},
		[]*ast.ParameterNode{a.param("other", "i32")}, a.typ("i32"))
	a.add(a.class("Vec", ast.ModifierNone, nil, add1, add2))
	f.initialize()
	f.expectCode(diag.DeclDuplicateFunctionImpl)

	proto := f.classProto("a/Vec")
	overload := proto.OverloadPrototypes[OperatorAdd]
	if overload == nil || overload.SimpleName() != "add" {
		t.Fatalf("first overload must win, got %v", overload)
	}
}

func TestUnknownOperatorSymbol(t *testing.T) {
	f := newFixture(t)
	a := f.src("a.ts", ast.SourceUser)
	m := a.method("weird", ast.ModifierNone, []*ast.DecoratorNode{a.operatorDecorator("<=>")}, nil, a.typ("i32"))
	a.add(a.class("Vec", ast.ModifierNone, nil, m))
	f.initialize()
	f.expectCode(diag.TypeOperationUnsupported)
}

func TestOperatorWantsStringLiteral(t *testing.T) {
	f := newFixture(t)
	a := f.src("a.ts", ast.SourceUser)
	m := a.method("bad", ast.ModifierNone,
		[]*ast.DecoratorNode{a.decorator("operator", ast.NewIntegerLiteral(1, a.sp()))}, nil, a.typ("i32"))
	a.add(a.class("Vec", ast.ModifierNone, nil, m))
	f.initialize()
	f.expectCode(diag.TypeStringLiteralWanted)
}

func TestMultipleConstructorsReport(t *testing.T) {
	f := newFixture(t)
	a := f.src("a.ts", ast.SourceUser)
	c1 := a.method("constructor", ast.ModifierConstructor, nil, nil, nil)
	c2 := a.method("constructor", ast.ModifierConstructor, nil, nil, nil)
	a.add(a.class("Foo", ast.ModifierNone, nil, c1, c2))
	f.initialize()
	f.expectCode(diag.DeclMultipleConstructors)
}

func TestAccessorsJoinIntoProperty(t *testing.T) {
	f := newFixture(t)
	a := f.src("a.ts", ast.SourceUser)
	getter := a.method("value", ast.ModifierGet, nil, nil, a.typ("i32"))
	setter := a.method("value", ast.ModifierSet, nil, []*ast.ParameterNode{a.param("v", "i32")}, nil)
	a.add(a.class("Box", ast.ModifierNone, nil, getter, setter))
	f.initialize()
	f.expectClean()

	member, ok := f.classProto("a/Box").InstanceMember("value")
	if !ok {
		t.Fatalf("property not created")
	}
	property := member.(*Property)
	if property.GetterPrototype == nil || property.SetterPrototype == nil {
		t.Fatalf("property sides not joined: %+v", property)
	}
	if property.GetterPrototype.SimpleName() != "get:value" {
		t.Fatalf("getter base name = %q", property.GetterPrototype.SimpleName())
	}
}

func TestSecondGetterReports(t *testing.T) {
	f := newFixture(t)
	a := f.src("a.ts", ast.SourceUser)
	g1 := a.method("value", ast.ModifierGet, nil, nil, a.typ("i32"))
	g2 := a.method("value", ast.ModifierGet, nil, nil, a.typ("i32"))
	a.add(a.class("Box", ast.ModifierNone, nil, g1, g2))
	f.initialize()
	f.expectCode(diag.DeclDuplicateIdentifier)
}

func TestDecoratorValidation(t *testing.T) {
	f := newFixture(t)
	a := f.src("a.ts", ast.SourceUser)
	// sealed twice -> duplicate decorator; inline on a class -> warning
	a.add(a.class("Foo", ast.ModifierNone, []*ast.DecoratorNode{
		a.decorator("sealed"), a.decorator("sealed"), a.decorator("inline"),
	}))
	f.initialize()
	f.expectCode(diag.DeclDuplicateDecorator)
	f.expectCode(diag.DeclDecoratorNotValidHere)
	if f.bag.HasErrors() != true {
		t.Fatalf("duplicate decorator must be an error")
	}
}

func TestGlobalAliasBinding(t *testing.T) {
	f := newFixture(t)
	a := f.src("a.ts", ast.SourceUser)
	a.add(a.fn("abort", ast.ModifierNone, nil, nil))
	f.program.Initialize(Options{GlobalAliases: map[string]string{"abort_alias": "a/abort"}})
	f.expectClean()

	el, ok := f.program.LookupElement("abort_alias")
	if !ok || el.InternalName() != "a/abort" {
		t.Fatalf("global alias not bound")
	}
}

func TestEnumValuesSequence(t *testing.T) {
	f := newFixture(t)
	a := f.src("a.ts", ast.SourceUser)
	values := []*ast.EnumValueDeclaration{
		ast.NewEnumValueDeclaration(a.ident("A"), nil, a.sp()),
		ast.NewEnumValueDeclaration(a.ident("B"), ast.NewIntegerLiteral(10, a.sp()), a.sp()),
		ast.NewEnumValueDeclaration(a.ident("C"), nil, a.sp()),
	}
	a.add(ast.NewEnumDeclaration(a.ident("E"), values, ast.ModifierNone, nil, a.sp()))
	f.initialize()
	f.expectClean()

	el, _ := f.program.LookupElement("a/E")
	enum := el.(*Enum)
	wants := map[string]int64{"A": 0, "B": 10, "C": 11}
	for name, want := range wants {
		value, ok := enum.ValueOf(name)
		if !ok || !value.HasConstantValue || value.ConstantValue != want {
			t.Fatalf("enum %s: got %+v, want %d", name, value, want)
		}
	}
	if _, ok := f.program.LookupElement("a/E.B"); !ok {
		t.Fatalf("enum value internal name missing")
	}
}

// Every non-aliased entry of elementsLookup keys its element's internal name.
func TestLookupKeysMatchInternalNames(t *testing.T) {
	f := newFixture(t)
	a := f.src("a.ts", ast.SourceUser)
	a.add(
		a.class("Foo", ast.ModifierNone, nil, a.field("x", "i32")),
		a.fn("bar", ast.ModifierNone, nil, nil),
		ast.NewEnumDeclaration(a.ident("E"), nil, ast.ModifierNone, nil, a.sp()),
	)
	f.initialize()
	f.expectClean()

	for key, el := range f.program.ElementsLookup() {
		if key != el.InternalName() {
			t.Fatalf("lookup key %q != internal name %q", key, el.InternalName())
		}
	}
}

func TestTypeAliasExpansion(t *testing.T) {
	f := newFixture(t)
	a := f.src("a.ts", ast.SourceUser)
	a.add(ast.NewTypeDeclaration(a.ident("int"), nil, a.typ("i32"), ast.ModifierNone, a.sp()))
	f.initialize()
	f.expectClean()

	typ := f.program.Resolver().ResolveType(a.typ("int"), nil, true)
	if typ != f.program.Types.I32 {
		t.Fatalf("alias did not expand to i32")
	}
}

func TestNamespacedTypeAliasUnsupported(t *testing.T) {
	f := newFixture(t)
	a := f.src("a.ts", ast.SourceUser)
	a.add(ast.NewNamespaceDeclaration(a.ident("N"), []ast.Statement{
		ast.NewTypeDeclaration(a.ident("int"), nil, a.typ("i32"), ast.ModifierNone, a.sp()),
	}, ast.ModifierNone, nil, a.sp()))
	f.initialize()
	f.expectCode(diag.TypeOperationUnsupported)
}
