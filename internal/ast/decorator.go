package ast

import "basalt/internal/source"

// DecoratorKind identifies the built-in decorators the core understands.
type DecoratorKind uint8

const (
	DecoratorCustom DecoratorKind = iota
	DecoratorGlobal
	DecoratorOperator
	DecoratorUnmanaged
	DecoratorSealed
	DecoratorInline
)

func (k DecoratorKind) String() string {
	switch k {
	case DecoratorGlobal:
		return "global"
	case DecoratorOperator:
		return "operator"
	case DecoratorUnmanaged:
		return "unmanaged"
	case DecoratorSealed:
		return "sealed"
	case DecoratorInline:
		return "inline"
	default:
		return "custom"
	}
}

// DecoratorKindFromName maps a decorator's textual name to its kind.
func DecoratorKindFromName(name string) DecoratorKind {
	switch name {
	case "global":
		return DecoratorGlobal
	case "operator":
		return DecoratorOperator
	case "unmanaged":
		return DecoratorUnmanaged
	case "sealed":
		return DecoratorSealed
	case "inline":
		return DecoratorInline
	default:
		return DecoratorCustom
	}
}

// DecoratorNode is `@name(args...)` attached to a declaration.
type DecoratorNode struct {
	baseNode
	Name          *Identifier
	Arguments     []Expression
	DecoratorKind DecoratorKind
}

func (n *DecoratorNode) Kind() NodeKind { return KindDecorator }

// NewDecorator constructs a decorator node, deriving its kind from the name.
func NewDecorator(name *Identifier, arguments []Expression, span source.Span) *DecoratorNode {
	return &DecoratorNode{
		baseNode:      baseNode{Range: span},
		Name:          name,
		Arguments:     arguments,
		DecoratorKind: DecoratorKindFromName(name.Text),
	}
}
