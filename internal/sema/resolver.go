package sema

import (
	"basalt/internal/ast"
	"basalt/internal/diag"
	"basalt/internal/source"
	"basalt/internal/types"
)

// Resolver turns AST type nodes into types and expression nodes into
// elements, on demand. ResolvedThisExpression and ResolvedElementExpression
// carry the receiver and index of a chained access between calls; both are
// cleared whenever a plain identifier resolves.
type Resolver struct {
	program *Program

	ResolvedThisExpression    ast.Expression
	ResolvedElementExpression ast.Expression
}

func newResolver(p *Program) *Resolver {
	return &Resolver{program: p}
}

// ResolveType resolves a type expression in the given contextual
// type-argument map. Returns nil on failure; the failure is reported unless
// reportNotFound is unset.
func (r *Resolver) ResolveType(node ast.TypeExpr, contextualTypeArguments map[string]*types.Type, reportNotFound bool) *types.Type {
	p := r.program

	// Function signatures become pointer-to-function types.
	if signatureNode, ok := node.(*ast.SignatureNode); ok {
		signature := r.ResolveSignature(signatureNode, contextualTypeArguments, reportNotFound)
		if signature == nil {
			return nil
		}
		return p.Types.FunctionType(signature)
	}

	typeNode := node.(*ast.TypeNode)
	simpleName := typeNode.Name.Text
	globalName := simpleName
	localName := globalName
	if src := p.SourceOf(typeNode.Span().File); src != nil {
		localName = ast.FileLevelName(src, simpleName)
	}

	// A class prototype under either name resolves through monomorphization.
	for _, name := range [2]string{localName, globalName} {
		if el, ok := p.elementsLookup[name]; ok {
			if proto, isClass := el.(*ClassPrototype); isClass {
				instance := proto.ResolveUsingTypeArguments(typeNode.TypeArguments, contextualTypeArguments, typeNode.Span())
				if instance == nil {
					return nil
				}
				if typeNode.Nullable {
					return instance.Type.AsNullable()
				}
				return instance.Type
			}
			break
		}
	}

	// Program-global type aliases expand on lookup.
	if alias, ok := p.typeAliases[simpleName]; ok {
		aliasCtx := contextualTypeArguments
		if len(alias.TypeParameters) > 0 {
			resolved, ok := r.ResolveTypeArguments(alias.TypeParameters, typeNode.TypeArguments, contextualTypeArguments, typeNode.Span())
			if !ok {
				return nil
			}
			aliasCtx = cloneTypeArgs(contextualTypeArguments)
			for i, param := range alias.TypeParameters {
				aliasCtx[param.Name.Text] = resolved[i]
			}
		}
		return r.ResolveType(alias.Type, aliasCtx, reportNotFound)
	}

	if len(typeNode.TypeArguments) > 0 {
		resolved := make([]*types.Type, len(typeNode.TypeArguments))
		for i, argumentNode := range typeNode.TypeArguments {
			argument := r.ResolveType(argumentNode, contextualTypeArguments, reportNotFound)
			if argument == nil {
				return nil
			}
			resolved[i] = argument
		}
		suffix := "<" + typesKey(resolved) + ">"
		localName += suffix
		globalName += suffix
	} else if contextualTypeArguments != nil {
		// A bare name may be a type parameter placeholder in scope.
		if placeholder, ok := contextualTypeArguments[simpleName]; ok {
			if typeNode.Nullable {
				return placeholder.AsNullable()
			}
			return placeholder
		}
	}

	if typ, ok := p.Types.Lookup(localName); ok {
		return typ
	}
	if typ, ok := p.Types.Lookup(globalName); ok {
		return typ
	}

	if reportNotFound {
		diag.Error(p.reporter, diag.ResolveCannotFindName, typeNode.Name.Span(), simpleName)
	}
	return nil
}

// ResolveTypeArguments resolves type argument nodes against the declared
// type parameters, requiring an exact arity match.
func (r *Resolver) ResolveTypeArguments(typeParameters []*ast.TypeParameterNode, typeArgumentNodes []*ast.TypeNode, contextualTypeArguments map[string]*types.Type, reportSpan source.Span) ([]*types.Type, bool) {
	if len(typeArgumentNodes) != len(typeParameters) {
		if len(typeArgumentNodes) > 0 {
			reportSpan = typeArgumentNodes[0].Span().Cover(typeArgumentNodes[len(typeArgumentNodes)-1].Span())
		}
		diag.Error(r.program.reporter, diag.TypeArgumentArity, reportSpan, len(typeParameters), len(typeArgumentNodes))
		return nil, false
	}
	if len(typeArgumentNodes) == 0 {
		return nil, true
	}
	resolved := make([]*types.Type, len(typeArgumentNodes))
	for i, node := range typeArgumentNodes {
		typ := r.ResolveType(node, contextualTypeArguments, true)
		if typ == nil {
			return nil, false
		}
		resolved[i] = typ
	}
	return resolved, true
}

// ResolveSignature resolves a signature node into a concrete signature.
// The required-parameter count is the index after the last non-defaulted
// parameter; a rest parameter must be terminal.
func (r *Resolver) ResolveSignature(node *ast.SignatureNode, contextualTypeArguments map[string]*types.Type, reportNotFound bool) *types.Signature {
	var thisType *types.Type
	if node.ExplicitThisType != nil {
		thisType = r.ResolveType(node.ExplicitThisType, contextualTypeArguments, reportNotFound)
		if thisType == nil {
			return nil
		}
	}

	parameterTypes := make([]*types.Type, len(node.Parameters))
	parameterNames := make([]string, len(node.Parameters))
	requiredParameters := 0
	hasRest := false
	for i, parameterNode := range node.Parameters {
		switch parameterNode.ParameterKind {
		case ast.ParameterDefault:
			requiredParameters = i + 1
		case ast.ParameterRest:
			if i != len(node.Parameters)-1 {
				panic("sema: rest parameter is not terminal")
			}
			hasRest = true
		}
		parameterType := r.ResolveType(parameterNode.Type, contextualTypeArguments, reportNotFound)
		if parameterType == nil {
			return nil
		}
		parameterTypes[i] = parameterType
		parameterNames[i] = parameterNode.Name.Text
	}

	returnType := r.program.Types.Void
	if node.ReturnType != nil {
		returnType = r.ResolveType(node.ReturnType, contextualTypeArguments, reportNotFound)
		if returnType == nil {
			return nil
		}
	}

	return &types.Signature{
		ParameterTypes:     parameterTypes,
		ParameterNames:     parameterNames,
		RequiredParameters: requiredParameters,
		ReturnType:         returnType,
		ThisType:           thisType,
		HasRest:            hasRest,
	}
}

// ResolveGlobal resolves a global's declared type annotation, fixing the
// element's type on first use. Globals without an annotation keep their
// current type; inference from initializers is the emitter's business.
func (r *Resolver) ResolveGlobal(g *Global) *types.Type {
	if g.Declaration == nil || g.Declaration.Type == nil {
		return g.Type
	}
	if typ := r.ResolveType(g.Declaration.Type, nil, true); typ != nil {
		g.Type = typ
	}
	return g.Type
}

// ResolveIdentifier resolves a name against, in order: the contextual enum's
// members, the contextual function's scoped locals and namespace chain, the
// file scope, and finally the global scope.
func (r *Resolver) ResolveIdentifier(identifier *ast.Identifier, contextualFunction *Function, contextualEnum *Enum) Element {
	p := r.program
	name := identifier.Text

	if contextualEnum != nil {
		if value, ok := contextualEnum.ValueOf(name); ok {
			return r.identifierHit(value)
		}
	}

	if contextualFunction != nil {
		if local := contextualFunction.Flow.GetScopedLocal(name); local != nil {
			return r.identifierHit(local)
		}
		for ns := contextualFunction.Prototype.Namespace(); ns != nil; ns = ns.base().Namespace() {
			if el, ok := p.elementsLookup[ns.InternalName()+source.StaticDelimiter+name]; ok {
				return r.identifierHit(el)
			}
		}
	}

	if src := p.SourceOf(identifier.Span().File); src != nil {
		if el, ok := p.elementsLookup[ast.FileLevelName(src, name)]; ok {
			return r.identifierHit(el)
		}
	}

	if el, ok := p.elementsLookup[name]; ok {
		return r.identifierHit(el)
	}

	diag.Error(p.reporter, diag.ResolveCannotFindName, identifier.Span(), name)
	return nil
}

// identifierHit clears the chained-access scratch slots on a plain
// identifier hit.
func (r *Resolver) identifierHit(el Element) Element {
	r.ResolvedThisExpression = nil
	r.ResolvedElementExpression = nil
	return el
}
