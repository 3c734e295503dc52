package sema

import (
	"basalt/internal/ast"
	"basalt/internal/types"
)

// Global is a program-level variable. Its type starts out unresolved (void)
// and is filled in by the resolver from the declared annotation.
type Global struct {
	elemBase
	Declaration *ast.VariableDeclaration // nil for ambient/builtin globals
	Type        *types.Type

	HasConstantValue     bool
	ConstantIntegerValue int64
	ConstantFloatValue   float64
}

func (g *Global) Kind() ElementKind { return ElementGlobal }

func newGlobal(program *Program, simpleName, internalName string, declaration *ast.VariableDeclaration) *Global {
	return &Global{
		elemBase:    newElemBase(program, simpleName, internalName),
		Declaration: declaration,
		Type:        program.Types.Void,
	}
}

// Local is a function-scoped variable or parameter occupying a slot index.
type Local struct {
	elemBase
	Index       int
	Type        *types.Type
	Declaration *ast.VariableDeclaration
}

func (l *Local) Kind() ElementKind { return ElementLocal }

func newLocal(program *Program, simpleName string, index int, typ *types.Type) *Local {
	return &Local{
		elemBase: newElemBase(program, simpleName, simpleName),
		Index:    index,
		Type:     typ,
	}
}

// Enum is a program-level enum; its members map holds the EnumValues.
type Enum struct {
	elemBase
	Declaration *ast.EnumDeclaration
}

func (e *Enum) Kind() ElementKind { return ElementEnum }

func newEnum(program *Program, simpleName, internalName string, declaration *ast.EnumDeclaration) *Enum {
	return &Enum{
		elemBase:    newElemBase(program, simpleName, internalName),
		Declaration: declaration,
	}
}

// ValueOf returns the enum member with the given simple name.
func (e *Enum) ValueOf(name string) (*EnumValue, bool) {
	m, ok := e.lookupMember(name)
	if !ok {
		return nil, false
	}
	ev, ok := m.(*EnumValue)
	return ev, ok
}

// EnumValue is one member of an enum. The parent reference is non-owning.
type EnumValue struct {
	elemBase
	Enum        *Enum
	Declaration *ast.EnumValueDeclaration

	HasConstantValue bool
	ConstantValue    int64
}

func (v *EnumValue) Kind() ElementKind { return ElementEnumValue }

func newEnumValue(parent *Enum, simpleName, internalName string, declaration *ast.EnumValueDeclaration) *EnumValue {
	return &EnumValue{
		elemBase:    newElemBase(parent.program, simpleName, internalName),
		Enum:        parent,
		Declaration: declaration,
	}
}

// Namespace groups declarations under one exported name; occurrences with the
// same internal name merge into a single element.
type Namespace struct {
	elemBase
	Declaration *ast.NamespaceDeclaration
}

func (n *Namespace) Kind() ElementKind { return ElementNamespace }

func newNamespace(program *Program, simpleName, internalName string, declaration *ast.NamespaceDeclaration) *Namespace {
	return &Namespace{
		elemBase:    newElemBase(program, simpleName, internalName),
		Declaration: declaration,
	}
}
