package sema

import (
	"basalt/internal/ast"
	"basalt/internal/diag"
	"basalt/internal/source"
)

// mapModifiers lowers AST modifier flags into element flags.
func mapModifiers(flags ast.ModifierFlags) CommonFlags {
	var out CommonFlags
	if flags.Has(ast.ModifierExport) {
		out |= FlagExport
	}
	if flags.Has(ast.ModifierDeclare) {
		out |= FlagDeclare | FlagAmbient
	}
	if flags.Has(ast.ModifierConst) {
		out |= FlagConst
	}
	if flags.Has(ast.ModifierLet) {
		out |= FlagLet
	}
	if flags.Has(ast.ModifierStatic) {
		out |= FlagStatic
	}
	if flags.Has(ast.ModifierReadonly) {
		out |= FlagReadonly
	}
	if flags.Has(ast.ModifierAbstract) {
		out |= FlagAbstract
	}
	if flags.Has(ast.ModifierPublic) {
		out |= FlagPublic
	}
	if flags.Has(ast.ModifierPrivate) {
		out |= FlagPrivate
	}
	if flags.Has(ast.ModifierProtected) {
		out |= FlagProtected
	}
	if flags.Has(ast.ModifierGet) {
		out |= FlagGet
	}
	if flags.Has(ast.ModifierSet) {
		out |= FlagSet
	}
	if flags.Has(ast.ModifierConstructor) {
		out |= FlagConstructor
	}
	return out
}

// checkDecorators validates the decorators of a declaration against the
// per-kind allowed set. Unknown or misplaced decorators warn; duplicates
// error. @operator is validated separately by method initialization.
func (p *Program) checkDecorators(list []*ast.DecoratorNode, allowed DecoratorFlags, allowOperator bool) DecoratorFlags {
	var flags DecoratorFlags
	for _, d := range list {
		var flag DecoratorFlags
		switch d.DecoratorKind {
		case ast.DecoratorGlobal:
			flag = DecoratorFlagGlobal
		case ast.DecoratorUnmanaged:
			flag = DecoratorFlagUnmanaged
		case ast.DecoratorSealed:
			flag = DecoratorFlagSealed
		case ast.DecoratorInline:
			flag = DecoratorFlagInline
		case ast.DecoratorOperator:
			if !allowOperator {
				diag.Warning(p.reporter, diag.DeclDecoratorNotValidHere, d.Span(), d.Name.Text)
			}
			continue
		default:
			diag.Warning(p.reporter, diag.DeclDecoratorNotValidHere, d.Span(), d.Name.Text)
			continue
		}
		if allowed&flag == 0 {
			diag.Warning(p.reporter, diag.DeclDecoratorNotValidHere, d.Span(), d.Name.Text)
			continue
		}
		if flags&flag != 0 {
			diag.Error(p.reporter, diag.DeclDuplicateDecorator, d.Span(), d.Name.Text)
			continue
		}
		flags |= flag
	}
	return flags
}

// memberInternalName forms the internal name of a declaration: under a
// namespace-like parent the static delimiter applies, at file top the path
// delimiter.
func memberInternalName(src *ast.Source, parent Element, simple string) string {
	if parent != nil {
		return parent.InternalName() + source.StaticDelimiter + simple
	}
	return ast.FileLevelName(src, simple)
}

func (p *Program) initializeSource(src *ast.Source) {
	for _, stmt := range src.Statements {
		switch n := stmt.(type) {
		case *ast.ClassDeclaration:
			p.initializeClass(n, src, nil)
		case *ast.InterfaceDeclaration:
			p.initializeInterface(n, src, nil)
		case *ast.EnumDeclaration:
			p.initializeEnum(n, src, nil)
		case *ast.FunctionDeclaration:
			p.initializeFunction(n, src, nil)
		case *ast.NamespaceDeclaration:
			p.initializeNamespace(n, src, nil)
		case *ast.TypeDeclaration:
			p.initializeTypeAlias(n, src, nil)
		case *ast.Variable:
			p.initializeVariables(n, src, nil)
		case *ast.Import:
			p.initializeImports(n, src)
		case *ast.Export:
			p.initializeExports(n, src)
		default:
			// Other top-level statements feed the start function; the
			// emitter picks them up from the source directly.
		}
	}
}

// promote applies export, module-export and global promotion to a top-level
// declaration's element.
func (p *Program) promote(el Element, decl ast.DeclarationStatement, src *ast.Source, parent Element) {
	if parent != nil {
		return
	}
	exported := decl.Modifiers().Has(ast.ModifierExport)
	nameSpan := decl.DeclName().Span()
	if exported {
		p.addFileLevelExport(ast.FileLevelName(src, el.SimpleName()), el, nameSpan)
		if src.IsEntry() {
			p.addModuleLevelExport(el.SimpleName(), el, nameSpan)
		}
	}
	if el.Decorators().Has(DecoratorFlagGlobal) || (src.IsLibrary() && exported) {
		p.ensureGlobal(el, nameSpan)
	}
}

func (p *Program) initializeClass(decl *ast.ClassDeclaration, src *ast.Source, parent Element) *ClassPrototype {
	name := decl.Name.Text
	internalName := memberInternalName(src, parent, name)
	proto := newClassPrototype(p, ElementClassPrototype, name, internalName, decl)
	proto.flags |= mapModifiers(decl.Flags)
	proto.decoratorFlags = p.checkDecorators(decl.Decorators, DecoratorFlagGlobal|DecoratorFlagSealed|DecoratorFlagUnmanaged, false)
	if !p.insertElement(internalName, proto, decl.Name.Span()) {
		return nil
	}
	p.attachToParent(proto, parent, decl.Name.Span())

	for _, member := range decl.Members {
		switch m := member.(type) {
		case *ast.FieldDeclaration:
			p.initializeField(proto, m)
		case *ast.MethodDeclaration:
			p.initializeMethod(proto, m)
		}
	}

	if decl.ExtendsType != nil {
		p.queuedExtends = append(p.queuedExtends, proto)
	}
	if len(decl.ImplementsTypes) > 0 {
		p.queuedImplements = append(p.queuedImplements, proto)
	}
	p.promote(proto, decl, src, parent)
	return proto
}

func (p *Program) initializeInterface(decl *ast.InterfaceDeclaration, src *ast.Source, parent Element) *ClassPrototype {
	name := decl.Name.Text
	internalName := memberInternalName(src, parent, name)
	proto := newClassPrototype(p, ElementInterfacePrototype, name, internalName, &decl.ClassDeclaration)
	proto.flags |= mapModifiers(decl.Flags)
	proto.decoratorFlags = p.checkDecorators(decl.Decorators, DecoratorFlagGlobal, false)
	if !p.insertElement(internalName, proto, decl.Name.Span()) {
		return nil
	}
	p.attachToParent(proto, parent, decl.Name.Span())

	for _, member := range decl.Members {
		switch m := member.(type) {
		case *ast.FieldDeclaration:
			p.initializeField(proto, m)
		case *ast.MethodDeclaration:
			p.initializeMethod(proto, m)
		}
	}

	if decl.ExtendsType != nil {
		p.queuedExtends = append(p.queuedExtends, proto)
	}
	p.promote(proto, decl, src, parent)
	return proto
}

func (p *Program) initializeField(classProto *ClassPrototype, decl *ast.FieldDeclaration) {
	name := decl.Name.Text
	p.checkDecorators(decl.Decorators, DecoratorFlagNone, false)
	if decl.Flags.Has(ast.ModifierStatic) {
		internalName := classProto.internalName + source.StaticDelimiter + name
		global := newGlobal(p, name, internalName, nil)
		global.flags = mapModifiers(decl.Flags) | FlagStatic
		global.namespace = classProto
		if !p.insertElement(internalName, global, decl.Name.Span()) {
			return
		}
		if !classProto.addMember(name, global) {
			diag.Error(p.reporter, diag.DeclDuplicateIdentifier, decl.Name.Span(), name)
		}
		return
	}
	internalName := classProto.internalName + source.InstanceDelimiter + name
	field := newFieldPrototype(classProto, name, internalName, decl)
	field.flags = mapModifiers(decl.Flags) | FlagInstance
	if !classProto.addInstanceMember(name, field) {
		diag.Error(p.reporter, diag.DeclDuplicateIdentifier, decl.Name.Span(), name)
	}
}

func (p *Program) initializeMethod(classProto *ClassPrototype, decl *ast.MethodDeclaration) {
	if decl.Flags.Has(ast.ModifierGet) || decl.Flags.Has(ast.ModifierSet) {
		p.initializeAccessor(classProto, decl)
		return
	}
	name := decl.Name.Text
	isStatic := decl.Flags.Has(ast.ModifierStatic)

	var internalName string
	if isStatic {
		internalName = classProto.internalName + source.StaticDelimiter + name
	} else {
		internalName = classProto.internalName + source.InstanceDelimiter + name
	}
	proto := newFunctionPrototype(p, name, internalName, &decl.FunctionDeclaration, classProto)
	proto.flags |= mapModifiers(decl.Flags)
	proto.decoratorFlags = p.checkDecorators(decl.Decorators, DecoratorFlagInline, true)
	proto.namespace = classProto

	switch {
	case decl.Flags.Has(ast.ModifierConstructor):
		proto.Set(FlagConstructor | FlagInstance)
		if classProto.ConstructorPrototype != nil {
			diag.Error(p.reporter, diag.DeclMultipleConstructors, decl.Name.Span())
			return
		}
		classProto.ConstructorPrototype = proto
	case isStatic:
		// Static methods become program-level functions under Class.method.
		if !p.insertElement(internalName, proto, decl.Name.Span()) {
			return
		}
		if !classProto.addMember(name, proto) {
			diag.Error(p.reporter, diag.DeclDuplicateIdentifier, decl.Name.Span(), name)
			return
		}
	default:
		proto.Set(FlagInstance)
		if !classProto.addInstanceMember(name, proto) {
			diag.Error(p.reporter, diag.DeclDuplicateIdentifier, decl.Name.Span(), name)
			return
		}
	}

	p.initializeOperator(classProto, proto, decl)
}

// initializeOperator applies `@operator("<symbol>")` annotations to a method
// prototype and registers it on the class's overload map.
func (p *Program) initializeOperator(classProto *ClassPrototype, proto *FunctionPrototype, decl *ast.MethodDeclaration) {
	for _, d := range decl.Decorators {
		if d.DecoratorKind != ast.DecoratorOperator {
			continue
		}
		if len(d.Arguments) != 1 {
			diag.Error(p.reporter, diag.TypeCallArgumentArity, d.Span(), 1, len(d.Arguments))
			continue
		}
		literal, ok := d.Arguments[0].(*ast.StringLiteral)
		if !ok {
			diag.Error(p.reporter, diag.TypeStringLiteralWanted, d.Arguments[0].Span())
			continue
		}
		kind := OperatorKindFromSymbol(literal.Value)
		if kind == OperatorInvalid {
			diag.Error(p.reporter, diag.TypeOperationUnsupported, literal.Span())
			continue
		}
		if classProto.OverloadPrototypes == nil {
			classProto.OverloadPrototypes = make(map[OperatorKind]*FunctionPrototype)
		}
		if _, taken := classProto.OverloadPrototypes[kind]; taken {
			diag.Error(p.reporter, diag.DeclDuplicateFunctionImpl, decl.Name.Span(), proto.simpleName)
			continue
		}
		proto.OperatorKind = kind
		classProto.OverloadPrototypes[kind] = proto
	}
}

func (p *Program) initializeAccessor(classProto *ClassPrototype, decl *ast.MethodDeclaration) {
	name := decl.Name.Text
	isGetter := decl.Flags.Has(ast.ModifierGet)
	isStatic := decl.Flags.Has(ast.ModifierStatic)

	delimiter := source.InstanceDelimiter
	if isStatic {
		delimiter = source.StaticDelimiter
	}
	prefix := source.GetterPrefix
	if !isGetter {
		prefix = source.SetterPrefix
	}
	accessorName := prefix + name
	internalName := classProto.internalName + delimiter + accessorName

	proto := newFunctionPrototype(p, accessorName, internalName, &decl.FunctionDeclaration, classProto)
	proto.flags |= mapModifiers(decl.Flags)
	proto.decoratorFlags = p.checkDecorators(decl.Decorators, DecoratorFlagInline, false)
	proto.namespace = classProto
	if !isStatic {
		proto.Set(FlagInstance)
	}

	var property *Property
	if isStatic {
		if existing, ok := classProto.lookupMember(name); ok {
			property, ok = existing.(*Property)
			if !ok {
				diag.Error(p.reporter, diag.DeclDuplicateIdentifier, decl.Name.Span(), name)
				return
			}
		} else {
			property = newProperty(classProto, name, classProto.internalName+delimiter+name)
			classProto.addMember(name, property)
		}
	} else {
		if existing, ok := classProto.InstanceMember(name); ok {
			var isProperty bool
			property, isProperty = existing.(*Property)
			if !isProperty {
				diag.Error(p.reporter, diag.DeclDuplicateIdentifier, decl.Name.Span(), name)
				return
			}
		} else {
			property = newProperty(classProto, name, classProto.internalName+delimiter+name)
			property.Set(FlagInstance)
			classProto.addInstanceMember(name, property)
		}
	}

	if isGetter {
		if property.GetterPrototype != nil {
			diag.Error(p.reporter, diag.DeclDuplicateIdentifier, decl.Name.Span(), accessorName)
			return
		}
		property.GetterPrototype = proto
	} else {
		if property.SetterPrototype != nil {
			diag.Error(p.reporter, diag.DeclDuplicateIdentifier, decl.Name.Span(), accessorName)
			return
		}
		property.SetterPrototype = proto
	}
}

func (p *Program) initializeEnum(decl *ast.EnumDeclaration, src *ast.Source, parent Element) {
	name := decl.Name.Text
	internalName := memberInternalName(src, parent, name)
	enum := newEnum(p, name, internalName, decl)
	enum.flags |= mapModifiers(decl.Flags)
	enum.decoratorFlags = p.checkDecorators(decl.Decorators, DecoratorFlagGlobal, false)
	if !p.insertElement(internalName, enum, decl.Name.Span()) {
		return
	}
	p.attachToParent(enum, parent, decl.Name.Span())

	next := int64(0)
	for _, valueDecl := range decl.Values {
		valueName := valueDecl.Name.Text
		value := newEnumValue(enum, valueName, internalName+source.StaticDelimiter+valueName, valueDecl)
		switch init := valueDecl.Initializer.(type) {
		case nil:
			value.HasConstantValue = true
			value.ConstantValue = next
			next++
		case *ast.IntegerLiteral:
			value.HasConstantValue = true
			value.ConstantValue = init.Value
			next = init.Value + 1
		default:
			// Non-constant initializer; the emitter evaluates it.
		}
		if !p.insertElement(value.internalName, value, valueDecl.Name.Span()) {
			continue
		}
		if !enum.addMember(valueName, value) {
			diag.Error(p.reporter, diag.DeclDuplicateIdentifier, valueDecl.Name.Span(), valueName)
		}
	}
	p.promote(enum, decl, src, parent)
}

func (p *Program) initializeFunction(decl *ast.FunctionDeclaration, src *ast.Source, parent Element) {
	name := decl.Name.Text
	internalName := memberInternalName(src, parent, name)
	proto := newFunctionPrototype(p, name, internalName, decl, nil)
	proto.flags |= mapModifiers(decl.Flags)
	proto.decoratorFlags = p.checkDecorators(decl.Decorators, DecoratorFlagGlobal|DecoratorFlagInline, false)
	if !p.insertElement(internalName, proto, decl.Name.Span()) {
		return
	}
	p.attachToParent(proto, parent, decl.Name.Span())
	p.promote(proto, decl, src, parent)
}

func (p *Program) initializeVariables(stmt *ast.Variable, src *ast.Source, parent Element) {
	for _, decl := range stmt.Declarations {
		name := decl.Name.Text
		internalName := memberInternalName(src, parent, name)
		global := newGlobal(p, name, internalName, decl)
		global.flags = mapModifiers(decl.Flags)
		global.decoratorFlags = p.checkDecorators(decl.Decorators, DecoratorFlagGlobal, false)
		if !p.insertElement(internalName, global, decl.Name.Span()) {
			continue
		}
		p.attachToParent(global, parent, decl.Name.Span())
		p.promote(global, decl, src, parent)
	}
}

func (p *Program) initializeTypeAlias(decl *ast.TypeDeclaration, src *ast.Source, parent Element) {
	if parent != nil {
		// Namespaced type aliases are not supported.
		diag.Error(p.reporter, diag.TypeOperationUnsupported, decl.Span())
		return
	}
	name := decl.Name.Text
	if _, ok := p.typeAliases[name]; ok {
		diag.Error(p.reporter, diag.DeclDuplicateIdentifier, decl.Name.Span(), name)
		return
	}
	p.typeAliases[name] = &TypeAlias{
		TypeParameters: decl.TypeParameters,
		Type:           decl.Type,
	}
}

func (p *Program) initializeNamespace(decl *ast.NamespaceDeclaration, src *ast.Source, parent Element) {
	name := decl.Name.Text
	internalName := memberInternalName(src, parent, name)
	exported := decl.Flags.Has(ast.ModifierExport)

	var ns *Namespace
	if existing, ok := p.elementsLookup[internalName]; ok {
		merged, isNamespace := existing.(*Namespace)
		if !isNamespace {
			diag.Error(p.reporter, diag.DeclDuplicateIdentifier, decl.Name.Span(), name)
			return
		}
		// Declaration merging: export status must agree across occurrences.
		if merged.Is(FlagExport) != exported {
			diag.Error(p.reporter, diag.DeclMergedDeclarationMixed, decl.Name.Span(), name)
			return
		}
		ns = merged
	} else {
		ns = newNamespace(p, name, internalName, decl)
		ns.flags |= mapModifiers(decl.Flags)
		p.elementsLookup[internalName] = ns
		p.attachToParent(ns, parent, decl.Name.Span())
		p.promote(ns, decl, src, parent)
	}

	for _, member := range decl.Members {
		switch m := member.(type) {
		case *ast.ClassDeclaration:
			p.initializeClass(m, src, ns)
		case *ast.InterfaceDeclaration:
			p.initializeInterface(m, src, ns)
		case *ast.EnumDeclaration:
			p.initializeEnum(m, src, ns)
		case *ast.FunctionDeclaration:
			p.initializeFunction(m, src, ns)
		case *ast.NamespaceDeclaration:
			p.initializeNamespace(m, src, ns)
		case *ast.TypeDeclaration:
			p.initializeTypeAlias(m, src, ns)
		case *ast.Variable:
			p.initializeVariables(m, src, ns)
		}
	}
}

// attachToParent registers an element as a member of its enclosing
// namespace-like parent and records the back-reference.
func (p *Program) attachToParent(el Element, parent Element, reportSpan source.Span) {
	if parent == nil {
		return
	}
	el.base().namespace = parent
	if !parent.base().addMember(el.SimpleName(), el) {
		if existing, _ := parent.base().lookupMember(el.SimpleName()); existing != el {
			diag.Error(p.reporter, diag.DeclDuplicateIdentifier, reportSpan, el.SimpleName())
		}
	}
}

func (p *Program) initializeImports(stmt *ast.Import, src *ast.Source) {
	if stmt.NamespaceName != nil {
		// `import * as N` is not supported.
		diag.Error(p.reporter, diag.TypeOperationUnsupported, stmt.Span())
		return
	}
	for _, decl := range stmt.Declarations {
		internalName := ast.FileLevelName(src, decl.Name.Text)
		referencedName := stmt.InternalPath + source.PathDelimiter + decl.ExternalName.Text
		if el, ok := p.fileLevelExports[referencedName]; ok {
			if existing, taken := p.elementsLookup[internalName]; taken {
				if existing != el {
					diag.Error(p.reporter, diag.DeclDuplicateIdentifier, decl.Name.Span(), decl.Name.Text)
				}
				continue
			}
			p.elementsLookup[internalName] = el
			el.Set(FlagModuleImport)
			continue
		}
		p.queuedImports = append(p.queuedImports, &QueuedImport{
			InternalName:    internalName,
			ReferencedName:  referencedName,
			AlternativeName: source.AlternativePath(stmt.InternalPath) + source.PathDelimiter + decl.ExternalName.Text,
			Declaration:     decl,
			Path:            stmt.InternalPath,
		})
	}
}

func (p *Program) initializeExports(stmt *ast.Export, src *ast.Source) {
	for _, member := range stmt.Members {
		key := ast.FileLevelName(src, member.ExternalName.Text)
		if stmt.Path == nil {
			referencedName := ast.FileLevelName(src, member.Name.Text)
			if el, ok := p.elementsLookup[referencedName]; ok {
				el.Set(FlagExport)
				p.addFileLevelExport(key, el, member.ExternalName.Span())
				if src.IsEntry() {
					p.addModuleLevelExport(member.ExternalName.Text, el, member.ExternalName.Span())
				}
				continue
			}
			p.queueExport(key, &QueuedExport{
				ExternalName: referencedName,
				Member:       member,
			})
			continue
		}
		p.queueExport(key, &QueuedExport{
			IsReExport:   true,
			ExternalName: stmt.InternalPath + source.PathDelimiter + member.Name.Text,
			Member:       member,
			Path:         stmt.InternalPath,
		})
	}
}

func (p *Program) queueExport(key string, qe *QueuedExport) {
	if _, ok := p.queuedExports[key]; ok {
		diag.Error(p.reporter, diag.DeclExportConflict, qe.Member.ExternalName.Span(), qe.Member.ExternalName.Text)
		return
	}
	p.queuedExports[key] = qe
	p.queuedExportOrder = append(p.queuedExportOrder, key)
}
