package ast

import "basalt/internal/source"

// Block is `{ ... }`.
type Block struct {
	baseNode
	Statements []Statement
}

func (n *Block) Kind() NodeKind { return KindBlock }
func (n *Block) isStatement()   {}

// NewBlock constructs a block statement.
func NewBlock(statements []Statement, span source.Span) *Block {
	return &Block{baseNode: baseNode{Range: span}, Statements: statements}
}

// ExpressionStatement wraps an expression in statement position.
type ExpressionStatement struct {
	baseNode
	Expression Expression
}

func (n *ExpressionStatement) Kind() NodeKind { return KindExpressionStatement }
func (n *ExpressionStatement) isStatement()   {}

// NewExpressionStatement constructs an expression statement.
func NewExpressionStatement(expr Expression, span source.Span) *ExpressionStatement {
	return &ExpressionStatement{baseNode: baseNode{Range: span}, Expression: expr}
}

// Return is `return expr?`.
type Return struct {
	baseNode
	Value Expression
}

func (n *Return) Kind() NodeKind { return KindReturn }
func (n *Return) isStatement()   {}

// NewReturn constructs a return statement.
func NewReturn(value Expression, span source.Span) *Return {
	return &Return{baseNode: baseNode{Range: span}, Value: value}
}

// Variable is a top-level `const`/`let` statement carrying one or more
// declarations.
type Variable struct {
	baseNode
	Declarations []*VariableDeclaration
}

func (n *Variable) Kind() NodeKind { return KindVariable }
func (n *Variable) isStatement()   {}

// NewVariable constructs a variable statement.
func NewVariable(declarations []*VariableDeclaration, span source.Span) *Variable {
	return &Variable{baseNode: baseNode{Range: span}, Declarations: declarations}
}

// ImportDeclaration is one `name as alias` clause of an import statement.
type ImportDeclaration struct {
	baseNode
	ExternalName *Identifier // name as exported by the target module
	Name         *Identifier // local alias (equal to ExternalName when not renamed)
}

func (n *ImportDeclaration) Kind() NodeKind { return KindImportDeclaration }

// NewImportDeclaration constructs an import clause.
func NewImportDeclaration(externalName, name *Identifier, span source.Span) *ImportDeclaration {
	if name == nil {
		name = externalName
	}
	return &ImportDeclaration{baseNode: baseNode{Range: span}, ExternalName: externalName, Name: name}
}

// Import is `import { a, b as c } from "path"` or `import * as N from "path"`.
// InternalPath is the imported path resolved against the importing source.
type Import struct {
	baseNode
	Declarations  []*ImportDeclaration // nil for namespace or bare imports
	NamespaceName *Identifier          // `import * as N`
	Path          *StringLiteral
	InternalPath  string
}

func (n *Import) Kind() NodeKind { return KindImport }
func (n *Import) isStatement()   {}

// NewImport constructs an import statement; internalPath must already be
// resolved against the importing source's path.
func NewImport(declarations []*ImportDeclaration, namespaceName *Identifier, path *StringLiteral, internalPath string, span source.Span) *Import {
	return &Import{
		baseNode:      baseNode{Range: span},
		Declarations:  declarations,
		NamespaceName: namespaceName,
		Path:          path,
		InternalPath:  internalPath,
	}
}

// ExportMember is one `name as externalName` clause of an export statement.
type ExportMember struct {
	baseNode
	Name         *Identifier // local name
	ExternalName *Identifier // exported name (equal to Name when not renamed)
}

func (n *ExportMember) Kind() NodeKind { return KindExportMember }

// NewExportMember constructs an export clause.
func NewExportMember(name, externalName *Identifier, span source.Span) *ExportMember {
	if externalName == nil {
		externalName = name
	}
	return &ExportMember{baseNode: baseNode{Range: span}, Name: name, ExternalName: externalName}
}

// Export is `export { a, b as c }` optionally `from "path"` (re-export).
type Export struct {
	baseNode
	Members      []*ExportMember
	Path         *StringLiteral // non-nil for re-exports
	InternalPath string         // resolved path for re-exports, "" otherwise
}

func (n *Export) Kind() NodeKind { return KindExport }
func (n *Export) isStatement()   {}

// NewExport constructs an export statement.
func NewExport(members []*ExportMember, path *StringLiteral, internalPath string, span source.Span) *Export {
	return &Export{baseNode: baseNode{Range: span}, Members: members, Path: path, InternalPath: internalPath}
}
