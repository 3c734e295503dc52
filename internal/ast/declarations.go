package ast

import "basalt/internal/source"

// DeclarationStatement is implemented by every named declaration.
type DeclarationStatement interface {
	Statement
	DeclName() *Identifier
	Modifiers() ModifierFlags
	DecoratorNodes() []*DecoratorNode
}

type declBase struct {
	baseNode
	Name       *Identifier
	Flags      ModifierFlags
	Decorators []*DecoratorNode
}

func (d *declBase) isStatement() {}
func (d *declBase) DeclName() *Identifier { return d.Name }
func (d *declBase) Modifiers() ModifierFlags { return d.Flags }
func (d *declBase) DecoratorNodes() []*DecoratorNode { return d.Decorators }

// ClassDeclaration declares a class with optional type parameters, base type
// and implemented interfaces.
type ClassDeclaration struct {
	declBase
	TypeParameters  []*TypeParameterNode
	ExtendsType     *TypeNode
	ImplementsTypes []*TypeNode
	Members         []Statement
}

func (n *ClassDeclaration) Kind() NodeKind { return KindClassDeclaration }

// NewClassDeclaration constructs a class declaration.
func NewClassDeclaration(
	name *Identifier,
	typeParameters []*TypeParameterNode,
	extendsType *TypeNode,
	implementsTypes []*TypeNode,
	members []Statement,
	flags ModifierFlags,
	decorators []*DecoratorNode,
	span source.Span,
) *ClassDeclaration {
	return &ClassDeclaration{
		declBase:        declBase{baseNode: baseNode{Range: span}, Name: name, Flags: flags, Decorators: decorators},
		TypeParameters:  typeParameters,
		ExtendsType:     extendsType,
		ImplementsTypes: implementsTypes,
		Members:         members,
	}
}

// InterfaceDeclaration has the class shape with a distinguishing kind.
type InterfaceDeclaration struct {
	ClassDeclaration
}

func (n *InterfaceDeclaration) Kind() NodeKind { return KindInterfaceDeclaration }

// NewInterfaceDeclaration constructs an interface declaration.
func NewInterfaceDeclaration(
	name *Identifier,
	typeParameters []*TypeParameterNode,
	extendsType *TypeNode,
	members []Statement,
	flags ModifierFlags,
	decorators []*DecoratorNode,
	span source.Span,
) *InterfaceDeclaration {
	return &InterfaceDeclaration{ClassDeclaration: *NewClassDeclaration(name, typeParameters, extendsType, nil, members, flags, decorators, span)}
}

// FieldDeclaration declares an instance or static field.
type FieldDeclaration struct {
	declBase
	Type        TypeExpr
	Initializer Expression
}

func (n *FieldDeclaration) Kind() NodeKind { return KindFieldDeclaration }

// NewFieldDeclaration constructs a field declaration.
func NewFieldDeclaration(name *Identifier, typ TypeExpr, initializer Expression, flags ModifierFlags, decorators []*DecoratorNode, span source.Span) *FieldDeclaration {
	return &FieldDeclaration{
		declBase:    declBase{baseNode: baseNode{Range: span}, Name: name, Flags: flags, Decorators: decorators},
		Type:        typ,
		Initializer: initializer,
	}
}

// FunctionDeclaration declares a free function.
type FunctionDeclaration struct {
	declBase
	TypeParameters []*TypeParameterNode
	Signature      *SignatureNode
	Body           Statement
}

func (n *FunctionDeclaration) Kind() NodeKind { return KindFunctionDeclaration }

// NewFunctionDeclaration constructs a function declaration.
func NewFunctionDeclaration(name *Identifier, typeParameters []*TypeParameterNode, signature *SignatureNode, body Statement, flags ModifierFlags, decorators []*DecoratorNode, span source.Span) *FunctionDeclaration {
	return &FunctionDeclaration{
		declBase:       declBase{baseNode: baseNode{Range: span}, Name: name, Flags: flags, Decorators: decorators},
		TypeParameters: typeParameters,
		Signature:      signature,
		Body:           body,
	}
}

// MethodDeclaration declares a method, accessor or constructor; the role is
// carried in the modifier flags (static, get, set, constructor).
type MethodDeclaration struct {
	FunctionDeclaration
}

func (n *MethodDeclaration) Kind() NodeKind { return KindMethodDeclaration }

// NewMethodDeclaration constructs a method declaration.
func NewMethodDeclaration(name *Identifier, typeParameters []*TypeParameterNode, signature *SignatureNode, body Statement, flags ModifierFlags, decorators []*DecoratorNode, span source.Span) *MethodDeclaration {
	return &MethodDeclaration{FunctionDeclaration: *NewFunctionDeclaration(name, typeParameters, signature, body, flags, decorators, span)}
}

// EnumDeclaration declares an enum with its values.
type EnumDeclaration struct {
	declBase
	Values []*EnumValueDeclaration
}

func (n *EnumDeclaration) Kind() NodeKind { return KindEnumDeclaration }

// NewEnumDeclaration constructs an enum declaration.
func NewEnumDeclaration(name *Identifier, values []*EnumValueDeclaration, flags ModifierFlags, decorators []*DecoratorNode, span source.Span) *EnumDeclaration {
	return &EnumDeclaration{
		declBase: declBase{baseNode: baseNode{Range: span}, Name: name, Flags: flags, Decorators: decorators},
		Values:   values,
	}
}

// EnumValueDeclaration declares one enum member with an optional constant
// initializer.
type EnumValueDeclaration struct {
	declBase
	Initializer Expression
}

func (n *EnumValueDeclaration) Kind() NodeKind { return KindEnumValueDeclaration }

// NewEnumValueDeclaration constructs an enum value declaration.
func NewEnumValueDeclaration(name *Identifier, initializer Expression, span source.Span) *EnumValueDeclaration {
	return &EnumValueDeclaration{
		declBase:    declBase{baseNode: baseNode{Range: span}, Name: name},
		Initializer: initializer,
	}
}

// NamespaceDeclaration declares a namespace; same-named namespaces merge.
type NamespaceDeclaration struct {
	declBase
	Members []Statement
}

func (n *NamespaceDeclaration) Kind() NodeKind { return KindNamespaceDeclaration }

// NewNamespaceDeclaration constructs a namespace declaration.
func NewNamespaceDeclaration(name *Identifier, members []Statement, flags ModifierFlags, decorators []*DecoratorNode, span source.Span) *NamespaceDeclaration {
	return &NamespaceDeclaration{
		declBase: declBase{baseNode: baseNode{Range: span}, Name: name, Flags: flags, Decorators: decorators},
		Members:  members,
	}
}

// TypeDeclaration declares a program-global type alias `type T<...> = ...`.
type TypeDeclaration struct {
	declBase
	TypeParameters []*TypeParameterNode
	Type           TypeExpr
}

func (n *TypeDeclaration) Kind() NodeKind { return KindTypeDeclaration }

// NewTypeDeclaration constructs a type alias declaration.
func NewTypeDeclaration(name *Identifier, typeParameters []*TypeParameterNode, typ TypeExpr, flags ModifierFlags, span source.Span) *TypeDeclaration {
	return &TypeDeclaration{
		declBase:       declBase{baseNode: baseNode{Range: span}, Name: name, Flags: flags},
		TypeParameters: typeParameters,
		Type:           typ,
	}
}

// VariableDeclaration declares one global (or local) binding.
type VariableDeclaration struct {
	declBase
	Type        TypeExpr
	Initializer Expression
}

func (n *VariableDeclaration) Kind() NodeKind { return KindVariableDeclaration }

// NewVariableDeclaration constructs a variable declaration.
func NewVariableDeclaration(name *Identifier, typ TypeExpr, initializer Expression, flags ModifierFlags, decorators []*DecoratorNode, span source.Span) *VariableDeclaration {
	return &VariableDeclaration{
		declBase:    declBase{baseNode: baseNode{Range: span}, Name: name, Flags: flags, Decorators: decorators},
		Type:        typ,
		Initializer: initializer,
	}
}
