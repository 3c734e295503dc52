// Package astcodec serializes parsed sources as msgpack bundles. The parser
// front-end writes bundles; the semantic core reads them back. Each node is
// written as a flat sequence of its kind tag, its span and then its fields in
// a fixed order (a missing node is a msgpack nil); the schema version gates
// decoding.
package astcodec

import (
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"basalt/internal/ast"
	"basalt/internal/source"
)

// SchemaVersion gates the bundle format; bump when the encoding changes.
const SchemaVersion uint16 = 1

// bundleMagic leads every bundle.
const bundleMagic = "bastb"

type encoder struct {
	enc *msgpack.Encoder
	err error
}

// Encode writes the sources as one bundle.
func Encode(w io.Writer, sources []*ast.Source) error {
	e := &encoder{enc: msgpack.NewEncoder(w)}
	e.str(bundleMagic)
	e.u16(SchemaVersion)
	e.arrayLen(len(sources))
	for _, src := range sources {
		e.source(src)
	}
	return e.err
}

func (e *encoder) fail(err error) {
	if e.err == nil {
		e.err = err
	}
}

func (e *encoder) str(s string) {
	if e.err == nil {
		e.fail(e.enc.EncodeString(s))
	}
}

func (e *encoder) u16(v uint16) {
	if e.err == nil {
		e.fail(e.enc.EncodeUint16(v))
	}
}

func (e *encoder) u8(v uint8) {
	if e.err == nil {
		e.fail(e.enc.EncodeUint8(v))
	}
}

func (e *encoder) u32(v uint32) {
	if e.err == nil {
		e.fail(e.enc.EncodeUint32(v))
	}
}

func (e *encoder) i64(v int64) {
	if e.err == nil {
		e.fail(e.enc.EncodeInt(v))
	}
}

func (e *encoder) f64(v float64) {
	if e.err == nil {
		e.fail(e.enc.EncodeFloat64(v))
	}
}

func (e *encoder) boolean(v bool) {
	if e.err == nil {
		e.fail(e.enc.EncodeBool(v))
	}
}

func (e *encoder) nilValue() {
	if e.err == nil {
		e.fail(e.enc.EncodeNil())
	}
}

func (e *encoder) arrayLen(n int) {
	if e.err == nil {
		e.fail(e.enc.EncodeArrayLen(n))
	}
}

func (e *encoder) span(sp source.Span) {
	e.u32(sp.Start)
	e.u32(sp.End)
}

func (e *encoder) source(src *ast.Source) {
	e.str(src.Path)
	e.u8(uint8(src.SourceKind))
	e.str(src.Text)
	e.arrayLen(len(src.Statements))
	for _, stmt := range src.Statements {
		e.node(stmt)
	}
}

func (e *encoder) node(n ast.Node) {
	if e.err != nil {
		return
	}
	if n == nil {
		e.nilValue()
		return
	}
	e.u8(uint8(n.Kind()))
	e.span(n.Span())

	switch n := n.(type) {
	case *ast.Identifier:
		e.str(n.Text)
	case *ast.StringLiteral:
		e.str(n.Value)
	case *ast.IntegerLiteral:
		e.i64(n.Value)
	case *ast.FloatLiteral:
		e.f64(n.Value)
	case *ast.ThisExpression, *ast.SuperExpression:
		// kind and span only
	case *ast.PropertyAccess:
		e.node(n.Expression)
		e.node(n.Property)
	case *ast.ElementAccess:
		e.node(n.Expression)
		e.node(n.Element)
	case *ast.Call:
		e.node(n.Expression)
		e.typeNodes(n.TypeArguments)
		e.expressions(n.Arguments)
	case *ast.Assertion:
		e.node(n.Expression)
		e.node(n.ToType)
	case *ast.Parenthesized:
		e.node(n.Expression)
	case *ast.Binary:
		e.str(n.Op)
		e.node(n.Left)
		e.node(n.Right)

	case *ast.TypeNode:
		e.node(n.Name)
		e.typeNodes(n.TypeArguments)
		e.boolean(n.Nullable)
	case *ast.SignatureNode:
		e.arrayLen(len(n.Parameters))
		for _, p := range n.Parameters {
			e.node(p)
		}
		e.node(n.ReturnType)
		e.optType(n.ExplicitThisType)
	case *ast.ParameterNode:
		e.node(n.Name)
		e.node(n.Type)
		e.node(n.Initializer)
		e.u8(uint8(n.ParameterKind))
	case *ast.TypeParameterNode:
		e.node(n.Name)
	case *ast.DecoratorNode:
		e.node(n.Name)
		e.expressions(n.Arguments)

	case *ast.Block:
		e.statements(n.Statements)
	case *ast.ExpressionStatement:
		e.node(n.Expression)
	case *ast.Return:
		e.node(n.Value)
	case *ast.Variable:
		e.arrayLen(len(n.Declarations))
		for _, d := range n.Declarations {
			e.node(d)
		}
	case *ast.Import:
		e.arrayLen(len(n.Declarations))
		for _, d := range n.Declarations {
			e.node(d)
		}
		e.optIdent(n.NamespaceName)
		e.optLiteral(n.Path)
		e.str(n.InternalPath)
	case *ast.ImportDeclaration:
		e.node(n.ExternalName)
		e.node(n.Name)
	case *ast.Export:
		e.arrayLen(len(n.Members))
		for _, m := range n.Members {
			e.node(m)
		}
		e.optLiteral(n.Path)
		e.str(n.InternalPath)
	case *ast.ExportMember:
		e.node(n.Name)
		e.node(n.ExternalName)

	case *ast.ClassDeclaration:
		e.classBody(n)
	case *ast.InterfaceDeclaration:
		e.classBody(&n.ClassDeclaration)
	case *ast.FieldDeclaration:
		e.declHead(n)
		e.node(n.Type)
		e.node(n.Initializer)
	case *ast.FunctionDeclaration:
		e.functionBody(n)
	case *ast.MethodDeclaration:
		e.functionBody(&n.FunctionDeclaration)
	case *ast.EnumDeclaration:
		e.declHead(n)
		e.arrayLen(len(n.Values))
		for _, v := range n.Values {
			e.node(v)
		}
	case *ast.EnumValueDeclaration:
		e.node(n.Name)
		e.node(n.Initializer)
	case *ast.NamespaceDeclaration:
		e.declHead(n)
		e.statements(n.Members)
	case *ast.TypeDeclaration:
		e.declHead(n)
		e.typeParameters(n.TypeParameters)
		e.node(n.Type)
	case *ast.VariableDeclaration:
		e.declHead(n)
		e.node(n.Type)
		e.node(n.Initializer)

	default:
		e.fail(fmt.Errorf("astcodec: cannot encode node kind %d", n.Kind()))
	}
}

func (e *encoder) declHead(d ast.DeclarationStatement) {
	e.node(d.DeclName())
	e.u16(uint16(d.Modifiers()))
	decorators := d.DecoratorNodes()
	e.arrayLen(len(decorators))
	for _, dec := range decorators {
		e.node(dec)
	}
}

func (e *encoder) classBody(n *ast.ClassDeclaration) {
	e.declHead(n)
	e.typeParameters(n.TypeParameters)
	e.optType(n.ExtendsType)
	e.typeNodes(n.ImplementsTypes)
	e.statements(n.Members)
}

func (e *encoder) functionBody(n *ast.FunctionDeclaration) {
	e.declHead(n)
	e.typeParameters(n.TypeParameters)
	e.node(n.Signature)
	e.node(n.Body)
}

func (e *encoder) optType(t *ast.TypeNode) {
	if t == nil {
		e.nilValue()
		return
	}
	e.node(t)
}

func (e *encoder) optIdent(id *ast.Identifier) {
	if id == nil {
		e.nilValue()
		return
	}
	e.node(id)
}

func (e *encoder) optLiteral(lit *ast.StringLiteral) {
	if lit == nil {
		e.nilValue()
		return
	}
	e.node(lit)
}

func (e *encoder) typeParameters(list []*ast.TypeParameterNode) {
	e.arrayLen(len(list))
	for _, tp := range list {
		e.node(tp)
	}
}

func (e *encoder) typeNodes(list []*ast.TypeNode) {
	e.arrayLen(len(list))
	for _, tn := range list {
		e.node(tn)
	}
}

func (e *encoder) expressions(list []ast.Expression) {
	e.arrayLen(len(list))
	for _, expr := range list {
		e.node(expr)
	}
}

func (e *encoder) statements(list []ast.Statement) {
	e.arrayLen(len(list))
	for _, stmt := range list {
		e.node(stmt)
	}
}
