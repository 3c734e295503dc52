// Package ast defines the node shapes the semantic core consumes. The parser
// producing them is an external collaborator; nodes are read-only from the
// core's perspective and their spans are retained for diagnostics.
package ast

import (
	"basalt/internal/source"
)

// NodeKind discriminates AST nodes.
type NodeKind uint8

const (
	KindInvalid NodeKind = iota

	// type expressions
	KindType
	KindSignature
	KindParameter
	KindTypeParameter

	// expressions
	KindIdentifier
	KindStringLiteral
	KindIntegerLiteral
	KindFloatLiteral
	KindThis
	KindSuper
	KindPropertyAccess
	KindElementAccess
	KindCall
	KindAssertion
	KindParenthesized
	KindBinary

	// statements
	KindBlock
	KindExpressionStatement
	KindReturn
	KindVariable
	KindImport
	KindExport

	// declarations
	KindClassDeclaration
	KindInterfaceDeclaration
	KindFieldDeclaration
	KindFunctionDeclaration
	KindMethodDeclaration
	KindEnumDeclaration
	KindEnumValueDeclaration
	KindNamespaceDeclaration
	KindTypeDeclaration
	KindVariableDeclaration

	// auxiliary
	KindDecorator
	KindImportDeclaration
	KindExportMember
)

// Node is implemented by every AST node.
type Node interface {
	Kind() NodeKind
	Span() source.Span
}

// Expression is implemented by expression nodes.
type Expression interface {
	Node
	isExpression()
}

// Statement is implemented by statement nodes (declarations included).
type Statement interface {
	Node
	isStatement()
}

// TypeExpr is implemented by nodes that denote a type: named types and
// function signatures.
type TypeExpr interface {
	Node
	isTypeExpr()
}

type baseNode struct {
	Range source.Span
}

func (n *baseNode) Span() source.Span { return n.Range }

// SourceKind classifies a parsed source.
type SourceKind uint8

const (
	// SourceUser is an ordinary user file.
	SourceUser SourceKind = iota
	// SourceEntry is a module entry point; its exports become module-level.
	SourceEntry
	// SourceLibrary is a standard-library file (path under "~lib/").
	SourceLibrary
)

// Source is one parsed file: a normalized extension-less path, the original
// text (kept for diagnostics) and the top-level statements.
type Source struct {
	Path       string
	Text       string
	File       source.FileID
	SourceKind SourceKind
	Statements []Statement
}

// IsEntry reports whether the source is a module entry point.
func (s *Source) IsEntry() bool { return s.SourceKind == SourceEntry }

// IsLibrary reports whether the source belongs to the standard library.
func (s *Source) IsLibrary() bool { return s.SourceKind == SourceLibrary }

// FileLevelName forms the file-level internal name of a top-level
// declaration: the source's internal path plus the simple name.
func FileLevelName(src *Source, simple string) string {
	return src.Path + source.PathDelimiter + simple
}
