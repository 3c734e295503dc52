package ast

import "basalt/internal/source"

// TypeNode names a type, optionally with type arguments: `Array<i32>`,
// `Foo | null` (nullability flag).
type TypeNode struct {
	baseNode
	Name          *Identifier
	TypeArguments []*TypeNode
	Nullable      bool
}

func (n *TypeNode) Kind() NodeKind { return KindType }
func (n *TypeNode) isTypeExpr()    {}

// NewTypeNode constructs a named type node.
func NewTypeNode(name *Identifier, typeArguments []*TypeNode, nullable bool, span source.Span) *TypeNode {
	return &TypeNode{baseNode: baseNode{Range: span}, Name: name, TypeArguments: typeArguments, Nullable: nullable}
}

// NewNamedType is a shorthand for a bare named type.
func NewNamedType(name string, span source.Span) *TypeNode {
	return NewTypeNode(NewIdentifier(name, span), nil, false, span)
}

// ParameterKind distinguishes plain, defaulted and rest parameters.
type ParameterKind uint8

const (
	ParameterDefault ParameterKind = iota
	ParameterOptional
	ParameterRest
)

// ParameterNode is a single signature parameter.
type ParameterNode struct {
	baseNode
	Name          *Identifier
	Type          TypeExpr
	Initializer   Expression
	ParameterKind ParameterKind
}

func (n *ParameterNode) Kind() NodeKind { return KindParameter }

// NewParameter constructs a parameter node.
func NewParameter(name *Identifier, typ TypeExpr, initializer Expression, kind ParameterKind, span source.Span) *ParameterNode {
	return &ParameterNode{baseNode: baseNode{Range: span}, Name: name, Type: typ, Initializer: initializer, ParameterKind: kind}
}

// SignatureNode is a function type: parameters, return type and an optional
// explicit `this` type.
type SignatureNode struct {
	baseNode
	Parameters       []*ParameterNode
	ReturnType       TypeExpr
	ExplicitThisType *TypeNode
}

func (n *SignatureNode) Kind() NodeKind { return KindSignature }
func (n *SignatureNode) isTypeExpr()    {}

// NewSignature constructs a signature node.
func NewSignature(parameters []*ParameterNode, returnType TypeExpr, explicitThis *TypeNode, span source.Span) *SignatureNode {
	return &SignatureNode{baseNode: baseNode{Range: span}, Parameters: parameters, ReturnType: returnType, ExplicitThisType: explicitThis}
}

// TypeParameterNode declares one type parameter on a generic declaration.
type TypeParameterNode struct {
	baseNode
	Name *Identifier
}

func (n *TypeParameterNode) Kind() NodeKind { return KindTypeParameter }

// NewTypeParameter constructs a type parameter node.
func NewTypeParameter(name string, span source.Span) *TypeParameterNode {
	return &TypeParameterNode{baseNode: baseNode{Range: span}, Name: NewIdentifier(name, span)}
}
