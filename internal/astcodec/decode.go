package astcodec

import (
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"

	"basalt/internal/ast"
	"basalt/internal/source"
)

type decoder struct {
	dec  *msgpack.Decoder
	file source.FileID
	err  error
}

// Decode reads a bundle, registering each source in the file set so spans
// resolve for diagnostics.
func Decode(r io.Reader, fileSet *source.FileSet) ([]*ast.Source, error) {
	d := &decoder{dec: msgpack.NewDecoder(r)}
	if magic := d.str(); magic != bundleMagic {
		return nil, fmt.Errorf("astcodec: not an AST bundle (magic %q)", magic)
	}
	if version := d.u16(); version != SchemaVersion {
		return nil, fmt.Errorf("astcodec: unsupported bundle schema %d (want %d)", version, SchemaVersion)
	}
	count := d.arrayLen()
	sources := make([]*ast.Source, 0, count)
	for i := 0; i < count && d.err == nil; i++ {
		sources = append(sources, d.source(fileSet))
	}
	if d.err != nil {
		return nil, d.err
	}
	return sources, nil
}

func (d *decoder) fail(err error) {
	if d.err == nil && err != nil {
		d.err = err
	}
}

func (d *decoder) str() string {
	if d.err != nil {
		return ""
	}
	v, err := d.dec.DecodeString()
	d.fail(err)
	return v
}

func (d *decoder) u16() uint16 {
	if d.err != nil {
		return 0
	}
	v, err := d.dec.DecodeUint16()
	d.fail(err)
	return v
}

func (d *decoder) u8() uint8 {
	if d.err != nil {
		return 0
	}
	v, err := d.dec.DecodeUint8()
	d.fail(err)
	return v
}

func (d *decoder) u32() uint32 {
	if d.err != nil {
		return 0
	}
	v, err := d.dec.DecodeUint32()
	d.fail(err)
	return v
}

func (d *decoder) i64() int64 {
	if d.err != nil {
		return 0
	}
	v, err := d.dec.DecodeInt64()
	d.fail(err)
	return v
}

func (d *decoder) f64() float64 {
	if d.err != nil {
		return 0
	}
	v, err := d.dec.DecodeFloat64()
	d.fail(err)
	return v
}

func (d *decoder) boolean() bool {
	if d.err != nil {
		return false
	}
	v, err := d.dec.DecodeBool()
	d.fail(err)
	return v
}

func (d *decoder) arrayLen() int {
	if d.err != nil {
		return 0
	}
	n, err := d.dec.DecodeArrayLen()
	d.fail(err)
	if n < 0 {
		return 0
	}
	return n
}

// maybeNil consumes a nil marker if one is next.
func (d *decoder) maybeNil() bool {
	if d.err != nil {
		return true
	}
	code, err := d.dec.PeekCode()
	if err != nil {
		d.fail(err)
		return true
	}
	if code == msgpcode.Nil {
		d.fail(d.dec.DecodeNil())
		return true
	}
	return false
}

func (d *decoder) span() source.Span {
	start := d.u32()
	end := d.u32()
	return source.Span{File: d.file, Start: start, End: end}
}

func (d *decoder) source(fileSet *source.FileSet) *ast.Source {
	path := d.str()
	kind := ast.SourceKind(d.u8())
	text := d.str()
	if d.err != nil {
		return nil
	}
	id := fileSet.AddVirtual(path, []byte(text))
	d.file = id

	src := &ast.Source{
		Path:       source.NormalizePath(path),
		Text:       text,
		File:       id,
		SourceKind: kind,
	}
	count := d.arrayLen()
	for i := 0; i < count && d.err == nil; i++ {
		if stmt, ok := d.node().(ast.Statement); ok {
			src.Statements = append(src.Statements, stmt)
		}
	}
	return src
}

func (d *decoder) node() ast.Node {
	if d.err != nil || d.maybeNil() {
		return nil
	}
	kind := ast.NodeKind(d.u8())
	sp := d.span()
	if d.err != nil {
		return nil
	}

	switch kind {
	case ast.KindIdentifier:
		return ast.NewIdentifier(d.str(), sp)
	case ast.KindStringLiteral:
		return ast.NewStringLiteral(d.str(), sp)
	case ast.KindIntegerLiteral:
		return ast.NewIntegerLiteral(d.i64(), sp)
	case ast.KindFloatLiteral:
		return ast.NewFloatLiteral(d.f64(), sp)
	case ast.KindThis:
		return ast.NewThis(sp)
	case ast.KindSuper:
		return ast.NewSuper(sp)
	case ast.KindPropertyAccess:
		target := d.expression()
		property := d.identifier()
		return ast.NewPropertyAccess(target, property, sp)
	case ast.KindElementAccess:
		target := d.expression()
		element := d.expression()
		return ast.NewElementAccess(target, element, sp)
	case ast.KindCall:
		target := d.expression()
		typeArguments := d.typeNodes()
		arguments := d.expressions()
		return ast.NewCall(target, typeArguments, arguments, sp)
	case ast.KindAssertion:
		expr := d.expression()
		toType := d.typeExpr()
		return ast.NewAssertion(expr, toType, sp)
	case ast.KindParenthesized:
		return ast.NewParenthesized(d.expression(), sp)
	case ast.KindBinary:
		op := d.str()
		left := d.expression()
		right := d.expression()
		return ast.NewBinary(op, left, right, sp)

	case ast.KindType:
		name := d.identifier()
		typeArguments := d.typeNodes()
		nullable := d.boolean()
		return ast.NewTypeNode(name, typeArguments, nullable, sp)
	case ast.KindSignature:
		count := d.arrayLen()
		parameters := make([]*ast.ParameterNode, 0, count)
		for i := 0; i < count && d.err == nil; i++ {
			if p, ok := d.node().(*ast.ParameterNode); ok {
				parameters = append(parameters, p)
			}
		}
		returnType := d.typeExpr()
		explicitThis := d.typeNode()
		return ast.NewSignature(parameters, returnType, explicitThis, sp)
	case ast.KindParameter:
		name := d.identifier()
		typ := d.typeExpr()
		initializer := d.expression()
		parameterKind := ast.ParameterKind(d.u8())
		return ast.NewParameter(name, typ, initializer, parameterKind, sp)
	case ast.KindTypeParameter:
		name := d.identifier()
		if name == nil {
			return nil
		}
		return ast.NewTypeParameter(name.Text, sp)
	case ast.KindDecorator:
		name := d.identifier()
		arguments := d.expressions()
		return ast.NewDecorator(name, arguments, sp)

	case ast.KindBlock:
		return ast.NewBlock(d.statements(), sp)
	case ast.KindExpressionStatement:
		return ast.NewExpressionStatement(d.expression(), sp)
	case ast.KindReturn:
		return ast.NewReturn(d.expression(), sp)
	case ast.KindVariable:
		count := d.arrayLen()
		declarations := make([]*ast.VariableDeclaration, 0, count)
		for i := 0; i < count && d.err == nil; i++ {
			if v, ok := d.node().(*ast.VariableDeclaration); ok {
				declarations = append(declarations, v)
			}
		}
		return ast.NewVariable(declarations, sp)
	case ast.KindImport:
		count := d.arrayLen()
		declarations := make([]*ast.ImportDeclaration, 0, count)
		for i := 0; i < count && d.err == nil; i++ {
			if imp, ok := d.node().(*ast.ImportDeclaration); ok {
				declarations = append(declarations, imp)
			}
		}
		if len(declarations) == 0 {
			declarations = nil
		}
		namespaceName := d.identifier()
		path := d.stringLiteral()
		internalPath := d.str()
		return ast.NewImport(declarations, namespaceName, path, internalPath, sp)
	case ast.KindImportDeclaration:
		externalName := d.identifier()
		name := d.identifier()
		return ast.NewImportDeclaration(externalName, name, sp)
	case ast.KindExport:
		count := d.arrayLen()
		members := make([]*ast.ExportMember, 0, count)
		for i := 0; i < count && d.err == nil; i++ {
			if m, ok := d.node().(*ast.ExportMember); ok {
				members = append(members, m)
			}
		}
		path := d.stringLiteral()
		internalPath := d.str()
		return ast.NewExport(members, path, internalPath, sp)
	case ast.KindExportMember:
		name := d.identifier()
		externalName := d.identifier()
		return ast.NewExportMember(name, externalName, sp)

	case ast.KindClassDeclaration:
		name, flags, decorators := d.declHead()
		typeParameters := d.typeParameters()
		extendsType := d.typeNode()
		implementsTypes := d.typeNodes()
		members := d.statements()
		return ast.NewClassDeclaration(name, typeParameters, extendsType, implementsTypes, members, flags, decorators, sp)
	case ast.KindInterfaceDeclaration:
		name, flags, decorators := d.declHead()
		typeParameters := d.typeParameters()
		extendsType := d.typeNode()
		d.typeNodes() // interfaces carry no implements list
		members := d.statements()
		return ast.NewInterfaceDeclaration(name, typeParameters, extendsType, members, flags, decorators, sp)
	case ast.KindFieldDeclaration:
		name, flags, decorators := d.declHead()
		typ := d.typeExpr()
		initializer := d.expression()
		return ast.NewFieldDeclaration(name, typ, initializer, flags, decorators, sp)
	case ast.KindFunctionDeclaration:
		name, typeParameters, signature, body, flags, decorators := d.functionBody()
		return ast.NewFunctionDeclaration(name, typeParameters, signature, body, flags, decorators, sp)
	case ast.KindMethodDeclaration:
		name, typeParameters, signature, body, flags, decorators := d.functionBody()
		return ast.NewMethodDeclaration(name, typeParameters, signature, body, flags, decorators, sp)
	case ast.KindEnumDeclaration:
		name, flags, decorators := d.declHead()
		count := d.arrayLen()
		values := make([]*ast.EnumValueDeclaration, 0, count)
		for i := 0; i < count && d.err == nil; i++ {
			if v, ok := d.node().(*ast.EnumValueDeclaration); ok {
				values = append(values, v)
			}
		}
		return ast.NewEnumDeclaration(name, values, flags, decorators, sp)
	case ast.KindEnumValueDeclaration:
		name := d.identifier()
		initializer := d.expression()
		return ast.NewEnumValueDeclaration(name, initializer, sp)
	case ast.KindNamespaceDeclaration:
		name, flags, decorators := d.declHead()
		members := d.statements()
		return ast.NewNamespaceDeclaration(name, members, flags, decorators, sp)
	case ast.KindTypeDeclaration:
		name, flags, _ := d.declHead()
		typeParameters := d.typeParameters()
		typ := d.typeExpr()
		return ast.NewTypeDeclaration(name, typeParameters, typ, flags, sp)
	case ast.KindVariableDeclaration:
		name, flags, decorators := d.declHead()
		typ := d.typeExpr()
		initializer := d.expression()
		return ast.NewVariableDeclaration(name, typ, initializer, flags, decorators, sp)

	default:
		d.fail(fmt.Errorf("astcodec: cannot decode node kind %d", kind))
		return nil
	}
}

func (d *decoder) declHead() (*ast.Identifier, ast.ModifierFlags, []*ast.DecoratorNode) {
	name := d.identifier()
	flags := ast.ModifierFlags(d.u16())
	count := d.arrayLen()
	var decorators []*ast.DecoratorNode
	for i := 0; i < count && d.err == nil; i++ {
		if dec, ok := d.node().(*ast.DecoratorNode); ok {
			decorators = append(decorators, dec)
		}
	}
	return name, flags, decorators
}

func (d *decoder) functionBody() (*ast.Identifier, []*ast.TypeParameterNode, *ast.SignatureNode, ast.Statement, ast.ModifierFlags, []*ast.DecoratorNode) {
	name, flags, decorators := d.declHead()
	typeParameters := d.typeParameters()
	signature, _ := d.node().(*ast.SignatureNode)
	body, _ := d.node().(ast.Statement)
	return name, typeParameters, signature, body, flags, decorators
}

func (d *decoder) identifier() *ast.Identifier {
	id, _ := d.node().(*ast.Identifier)
	return id
}

func (d *decoder) stringLiteral() *ast.StringLiteral {
	lit, _ := d.node().(*ast.StringLiteral)
	return lit
}

func (d *decoder) typeNode() *ast.TypeNode {
	tn, _ := d.node().(*ast.TypeNode)
	return tn
}

func (d *decoder) typeExpr() ast.TypeExpr {
	te, _ := d.node().(ast.TypeExpr)
	return te
}

func (d *decoder) expression() ast.Expression {
	expr, _ := d.node().(ast.Expression)
	return expr
}

func (d *decoder) typeParameters() []*ast.TypeParameterNode {
	count := d.arrayLen()
	var out []*ast.TypeParameterNode
	for i := 0; i < count && d.err == nil; i++ {
		if tp, ok := d.node().(*ast.TypeParameterNode); ok {
			out = append(out, tp)
		}
	}
	return out
}

func (d *decoder) typeNodes() []*ast.TypeNode {
	count := d.arrayLen()
	var out []*ast.TypeNode
	for i := 0; i < count && d.err == nil; i++ {
		if tn, ok := d.node().(*ast.TypeNode); ok {
			out = append(out, tn)
		}
	}
	return out
}

func (d *decoder) expressions() []ast.Expression {
	count := d.arrayLen()
	var out []ast.Expression
	for i := 0; i < count && d.err == nil; i++ {
		out = append(out, d.expression())
	}
	return out
}

func (d *decoder) statements() []ast.Statement {
	count := d.arrayLen()
	var out []ast.Statement
	for i := 0; i < count && d.err == nil; i++ {
		if stmt, ok := d.node().(ast.Statement); ok {
			out = append(out, stmt)
		}
	}
	return out
}
