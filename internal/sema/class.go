package sema

import (
	"fmt"

	"basalt/internal/ast"
	"basalt/internal/source"
	"basalt/internal/types"
)

// ClassPrototype is an unresolved, generic-aware class or interface
// (distinguished by kind). Static members live in the shared members map;
// instance member prototypes are kept separately in declaration order so
// field layout stays deterministic.
type ClassPrototype struct {
	elemBase
	kind        ElementKind
	Declaration *ast.ClassDeclaration

	instanceMembers    map[string]Element
	instanceMemberList []string // declaration order of instanceMembers keys

	ConstructorPrototype *FunctionPrototype
	OverloadPrototypes   map[OperatorKind]*FunctionPrototype

	// BasePrototype is set during extend-resolution; non-owning.
	BasePrototype *ClassPrototype

	instances map[string]*Class
}

func (p *ClassPrototype) Kind() ElementKind { return p.kind }

func newClassPrototype(program *Program, kind ElementKind, simpleName, internalName string, declaration *ast.ClassDeclaration) *ClassPrototype {
	p := &ClassPrototype{
		elemBase:        newElemBase(program, simpleName, internalName),
		kind:            kind,
		Declaration:     declaration,
		instanceMembers: make(map[string]Element),
		instances:       make(map[string]*Class),
	}
	if declaration != nil && len(declaration.TypeParameters) > 0 {
		p.Set(FlagGeneric)
	}
	return p
}

// IsInterface reports whether the prototype declares an interface.
func (p *ClassPrototype) IsInterface() bool { return p.kind == ElementInterfacePrototype }

// IsUnmanaged reports whether the class opted out of managed memory.
func (p *ClassPrototype) IsUnmanaged() bool { return p.decoratorFlags.Has(DecoratorFlagUnmanaged) }

// IsSealed reports whether the class forbids derivation.
func (p *ClassPrototype) IsSealed() bool { return p.decoratorFlags.Has(DecoratorFlagSealed) }

// Instances exposes the memoized instance cache.
func (p *ClassPrototype) Instances() map[string]*Class { return p.instances }

// InstanceMember returns the instance member prototype with the simple name.
func (p *ClassPrototype) InstanceMember(name string) (Element, bool) {
	m, ok := p.instanceMembers[name]
	return m, ok
}

// InstanceMembers returns the instance member prototypes map.
func (p *ClassPrototype) InstanceMembers() map[string]Element { return p.instanceMembers }

func (p *ClassPrototype) addInstanceMember(name string, member Element) bool {
	if _, ok := p.instanceMembers[name]; ok {
		return false
	}
	p.instanceMembers[name] = member
	p.instanceMemberList = append(p.instanceMemberList, name)
	return true
}

// Resolve monomorphizes the prototype for the given type arguments,
// memoizing per canonicalized key. The contextual map is layered inherited
// arguments first, then this class's own bindings.
func (p *ClassPrototype) Resolve(typeArguments []*types.Type, contextualTypeArguments map[string]*types.Type) *Class {
	instanceKey := typesKey(typeArguments)
	if instance, ok := p.instances[instanceKey]; ok {
		return instance
	}

	declaration := p.Declaration
	if declaration == nil {
		panic(fmt.Errorf("sema: resolve of declarationless class %s", p.internalName))
	}

	ctx := cloneTypeArgs(contextualTypeArguments)

	// Bind own type parameters before touching the base: the extends clause
	// may reference them.
	typeParameters := declaration.TypeParameters
	if len(typeParameters) != len(typeArguments) {
		panic(fmt.Errorf("sema: %s expects %d type arguments, got %d", p.internalName, len(typeParameters), len(typeArguments)))
	}
	for i := range typeParameters {
		ctx[typeParameters[i].Name.Text] = typeArguments[i]
	}

	var baseClass *Class
	if p.BasePrototype != nil {
		base := p.BasePrototype
		if base.IsSealed() || base.IsUnmanaged() != p.IsUnmanaged() {
			// Reported during extend-resolution; keep the element, skip the
			// relationship.
			base = nil
		}
		if base != nil {
			var baseTypeArgumentNodes []*ast.TypeNode
			if declaration.ExtendsType != nil {
				baseTypeArgumentNodes = declaration.ExtendsType.TypeArguments
			}
			var reportSpan source.Span
			if declaration.ExtendsType != nil {
				reportSpan = declaration.ExtendsType.Span()
			}
			baseClass = base.ResolveUsingTypeArguments(baseTypeArgumentNodes, ctx, reportSpan)
			if baseClass == nil {
				return nil
			}
		}
	}

	internalName := p.internalName
	if instanceKey != "" {
		internalName += "<" + instanceKey + ">"
	}
	instanceKind := ElementClass
	if p.IsInterface() {
		instanceKind = ElementInterface
	}
	instance := &Class{
		elemBase:                newElemBase(p.program, p.simpleName, internalName),
		kind:                    instanceKind,
		Prototype:               p,
		TypeArguments:           typeArguments,
		Base:                    baseClass,
		ContextualTypeArguments: ctx,
	}
	instance.flags = p.flags
	instance.decoratorFlags = p.decoratorFlags
	instance.namespace = p.namespace
	instance.Type = p.program.Types.ClassType(instance)
	// Memoize before member resolution: members may refer back to the class.
	p.instances[instanceKey] = instance

	if baseClass != nil {
		for name, member := range baseClass.members {
			instance.getMembers()[name] = member
		}
		instance.CurrentMemoryOffset = baseClass.CurrentMemoryOffset
	}

	if p.ConstructorPrototype != nil {
		partial := p.ConstructorPrototype.ResolvePartial(typeArguments)
		instance.ConstructorInstance = partial.Resolve(nil, ctx)
	}

	resolver := p.program.Resolver()
	for _, name := range p.instanceMemberList {
		member := p.instanceMembers[name]
		switch member := member.(type) {
		case *FieldPrototype:
			fieldDeclaration := member.Declaration
			if fieldDeclaration == nil || fieldDeclaration.Type == nil {
				continue
			}
			fieldType := resolver.ResolveType(fieldDeclaration.Type, ctx, true)
			if fieldType == nil {
				continue
			}
			byteSize := fieldType.ByteSize()
			if byteSize == 0 {
				continue
			}
			mask := byteSize - 1
			offset := (instance.CurrentMemoryOffset + mask) &^ mask
			field := newField(member, instance, fieldType, offset)
			instance.getMembers()[name] = field
			instance.CurrentMemoryOffset = offset + byteSize

		case *FunctionPrototype:
			partial := member.ResolvePartial(typeArguments)
			instance.getMembers()[name] = partial

		case *Property:
			property := &Property{
				elemBase:       newElemBase(p.program, member.simpleName, member.internalName),
				ClassPrototype: p,
			}
			property.flags = member.flags
			if member.GetterPrototype != nil {
				property.GetterPrototype = member.GetterPrototype.ResolvePartial(typeArguments)
			}
			if member.SetterPrototype != nil {
				property.SetterPrototype = member.SetterPrototype.ResolvePartial(typeArguments)
			}
			instance.getMembers()[name] = property
		}
	}

	if len(p.OverloadPrototypes) > 0 {
		instance.Overloads = make(map[OperatorKind]*Function, len(p.OverloadPrototypes))
		for kind, overloadPrototype := range p.OverloadPrototypes {
			var overload *Function
			if overloadPrototype.Is(FlagInstance) {
				overload = overloadPrototype.ResolvePartial(typeArguments).Resolve(nil, ctx)
			} else {
				overload = overloadPrototype.Resolve(nil, ctx)
			}
			if overload != nil {
				instance.Overloads[kind] = overload
			}
		}
	}

	return instance
}

// ResolveUsingTypeArguments resolves the type argument nodes in context,
// reporting arity mismatches at reportSpan, then monomorphizes.
func (p *ClassPrototype) ResolveUsingTypeArguments(typeArgumentNodes []*ast.TypeNode, contextualTypeArguments map[string]*types.Type, reportSpan source.Span) *Class {
	var typeParameters []*ast.TypeParameterNode
	if p.Declaration != nil {
		typeParameters = p.Declaration.TypeParameters
	}
	resolved, ok := p.program.Resolver().ResolveTypeArguments(typeParameters, typeArgumentNodes, contextualTypeArguments, reportSpan)
	if !ok {
		return nil
	}
	return p.Resolve(resolved, contextualTypeArguments)
}

// Class is a monomorphized class or interface instance.
type Class struct {
	elemBase
	kind      ElementKind
	Prototype *ClassPrototype // non-owning
	Type      *types.Type

	TypeArguments           []*types.Type
	ContextualTypeArguments map[string]*types.Type

	Base                *Class // non-owning
	ConstructorInstance *Function
	Overloads           map[OperatorKind]*Function

	// CurrentMemoryOffset is the packed size of the instance in bytes; it
	// grows as fields are laid out and ends up as offsetof<this>.
	CurrentMemoryOffset uint32
}

func (c *Class) Kind() ElementKind { return c.kind }

func (c *Class) getMembers() map[string]Element {
	if c.members == nil {
		c.members = make(map[string]Element, 8)
	}
	return c.members
}

// IsAssignableTo reports whether the class can stand in for target, walking
// the base chain.
func (c *Class) IsAssignableTo(target *Class) bool {
	for current := c; current != nil; current = current.Base {
		if current == target {
			return true
		}
	}
	return false
}

// LookupOverload returns the lowest-depth operator overload along the base
// chain, or nil.
func (c *Class) LookupOverload(kind OperatorKind) *Function {
	for current := c; current != nil; current = current.Base {
		if current.Overloads != nil {
			if overload, ok := current.Overloads[kind]; ok {
				return overload
			}
		}
	}
	return nil
}

// LookupInstanceMember walks the inheritance chain for a resolved instance
// member.
func (c *Class) LookupInstanceMember(name string) (Element, bool) {
	for current := c; current != nil; current = current.Base {
		if member, ok := current.lookupMember(name); ok {
			return member, true
		}
	}
	return nil, false
}

// FieldPrototype is a declared instance field before its type is known.
type FieldPrototype struct {
	elemBase
	Declaration    *ast.FieldDeclaration
	ClassPrototype *ClassPrototype // non-owning
}

func (p *FieldPrototype) Kind() ElementKind { return ElementFieldPrototype }

func newFieldPrototype(parent *ClassPrototype, simpleName, internalName string, declaration *ast.FieldDeclaration) *FieldPrototype {
	return &FieldPrototype{
		elemBase:       newElemBase(parent.program, simpleName, internalName),
		Declaration:    declaration,
		ClassPrototype: parent,
	}
}

// Field is a resolved instance field with a concrete type and memory offset.
type Field struct {
	elemBase
	Prototype    *FieldPrototype // non-owning
	Type         *types.Type
	MemoryOffset uint32
}

func (f *Field) Kind() ElementKind { return ElementField }

func newField(prototype *FieldPrototype, owner *Class, typ *types.Type, memoryOffset uint32) *Field {
	f := &Field{
		elemBase:     newElemBase(prototype.program, prototype.simpleName, owner.internalName+source.InstanceDelimiter+prototype.simpleName),
		Prototype:    prototype,
		Type:         typ,
		MemoryOffset: memoryOffset,
	}
	f.flags = prototype.flags | FlagInstance
	return f
}

// Property joins a getter and a setter under one member name. At most one
// prototype per side.
type Property struct {
	elemBase
	ClassPrototype  *ClassPrototype // non-owning
	GetterPrototype *FunctionPrototype
	SetterPrototype *FunctionPrototype
}

func (p *Property) Kind() ElementKind { return ElementProperty }

func newProperty(parent *ClassPrototype, simpleName, internalName string) *Property {
	return &Property{
		elemBase:       newElemBase(parent.program, simpleName, internalName),
		ClassPrototype: parent,
	}
}
