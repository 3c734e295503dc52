package sema

import (
	"basalt/internal/ast"
	"basalt/internal/diag"
	"basalt/internal/types"
)

func contextualArgsOf(fn *Function) map[string]*types.Type {
	if fn == nil || fn.Flow == nil {
		return nil
	}
	return fn.Flow.ContextualTypeArguments
}

// ResolveExpression resolves an expression to the element it names, in the
// context of the given function. Returns nil on any reported failure.
func (r *Resolver) ResolveExpression(expr ast.Expression, contextualFunction *Function) Element {
	p := r.program

	for {
		paren, ok := expr.(*ast.Parenthesized)
		if !ok {
			break
		}
		expr = paren.Expression
	}

	switch n := expr.(type) {
	case *ast.Identifier:
		return r.ResolveIdentifier(n, contextualFunction, nil)

	case *ast.Assertion:
		typ := r.ResolveType(n.ToType, contextualArgsOf(contextualFunction), true)
		if typ == nil {
			return nil
		}
		if class, ok := typ.ClassReference().(*Class); ok {
			return class
		}
		return nil

	case *ast.ThisExpression:
		if contextualFunction != nil {
			flow := contextualFunction.Flow
			if flow.Is(FlowInlineContext) {
				if scoped := flow.GetScopedLocal("this"); scoped != nil {
					return scoped
				}
			}
			if contextualFunction.ClassInstance != nil {
				return contextualFunction.ClassInstance
			}
		}
		diag.Error(p.reporter, diag.SemaThisContext, n.Span())
		return nil

	case *ast.SuperExpression:
		if contextualFunction != nil {
			flow := contextualFunction.Flow
			if flow.Is(FlowInlineContext) {
				if scoped := flow.GetScopedLocal("super"); scoped != nil {
					return scoped
				}
			}
			if class := contextualFunction.ClassInstance; class != nil && class.Base != nil {
				return class.Base
			}
		}
		diag.Error(p.reporter, diag.SemaSuperContext, n.Span())
		return nil

	case *ast.StringLiteral:
		if p.StringInstance == nil {
			diag.Error(p.reporter, diag.ResolveCannotFindName, n.Span(), "String")
			return nil
		}
		// The string itself is the receiver of whatever comes next.
		r.ResolvedThisExpression = expr
		r.ResolvedElementExpression = nil
		return p.StringInstance

	case *ast.PropertyAccess:
		return r.resolvePropertyAccess(n, contextualFunction)

	case *ast.ElementAccess:
		return r.resolveElementAccess(n, contextualFunction)

	case *ast.Call:
		return r.resolveCall(n, contextualFunction)

	default:
		diag.Error(p.reporter, diag.TypeOperationUnsupported, expr.Span())
		return nil
	}
}

// normalizeTarget replaces variable-like targets by the class their type
// references, so member lookup has something to walk. Reports the given
// property name on failure.
func (r *Resolver) normalizeTarget(target Element, propertyName string, access ast.Expression, contextualFunction *Function) Element {
	p := r.program

	var targetType *types.Type
	switch el := target.(type) {
	case *Global:
		targetType = el.Type
	case *Local:
		targetType = el.Type
	case *Field:
		targetType = el.Type
	case *Property:
		if el.GetterPrototype == nil {
			diag.Error(p.reporter, diag.ResolvePropertyNotFound, access.Span(), propertyName, el.InternalName())
			return nil
		}
		getter := el.GetterPrototype.Resolve(nil, contextualArgsOf(contextualFunction))
		if getter == nil {
			return nil
		}
		targetType = getter.Signature.ReturnType
	case *Class:
		if r.ResolvedElementExpression == nil {
			return target
		}
		// A pending element expression means the receiver is an indexed
		// access; apply the indexed-get overload first.
		overload := el.LookupOverload(OperatorIndexedGet)
		if overload == nil {
			diag.Error(p.reporter, diag.ResolveIndexSignature, access.Span(), el.InternalName())
			return nil
		}
		targetType = overload.Signature.ReturnType
	default:
		return target
	}

	class, _ := targetType.ClassReference().(*Class)
	if class == nil {
		diag.Error(p.reporter, diag.ResolvePropertyNotFound, access.Span(), propertyName, targetType.String())
		return nil
	}
	return class
}

func (r *Resolver) resolvePropertyAccess(access *ast.PropertyAccess, contextualFunction *Function) Element {
	p := r.program
	propertyName := access.Property.Text

	target := r.ResolveExpression(access.Expression, contextualFunction)
	if target == nil {
		return nil
	}
	target = r.normalizeTarget(target, propertyName, access, contextualFunction)
	if target == nil {
		return nil
	}

	var member Element
	var found bool
	switch el := target.(type) {
	case *ClassPrototype:
		for current := el; current != nil; current = current.BasePrototype {
			if member, found = current.lookupMember(propertyName); found {
				break
			}
		}
	case *Class:
		member, found = el.LookupInstanceMember(propertyName)
	default:
		member, found = target.base().lookupMember(propertyName)
	}

	if !found {
		diag.Error(p.reporter, diag.ResolvePropertyNotFound, access.Span(), propertyName, target.InternalName())
		return nil
	}
	r.ResolvedThisExpression = access.Expression
	r.ResolvedElementExpression = nil
	return member
}

func (r *Resolver) resolveElementAccess(access *ast.ElementAccess, contextualFunction *Function) Element {
	p := r.program

	target := r.ResolveExpression(access.Expression, contextualFunction)
	if target == nil {
		return nil
	}

	var class *Class
	switch el := target.(type) {
	case *Global:
		class, _ = el.Type.ClassReference().(*Class)
	case *Local:
		class, _ = el.Type.ClassReference().(*Class)
	case *Field:
		class, _ = el.Type.ClassReference().(*Class)
	case *Class:
		class = el
	case *ClassPrototype:
		if !el.Is(FlagGeneric) {
			class = el.Resolve(nil, contextualArgsOf(contextualFunction))
		}
	}
	if class == nil {
		diag.Error(p.reporter, diag.ResolveIndexSignature, access.Span(), target.InternalName())
		return nil
	}

	if class.LookupOverload(OperatorIndexedGet) == nil {
		diag.Error(p.reporter, diag.ResolveIndexSignature, access.Span(), class.InternalName())
		return nil
	}

	// Both slots feed a following property access or the emitter's indexed
	// call.
	r.ResolvedThisExpression = access.Expression
	r.ResolvedElementExpression = access.Element
	return class
}

func (r *Resolver) resolveCall(call *ast.Call, contextualFunction *Function) Element {
	p := r.program

	target := r.ResolveExpression(call.Expression, contextualFunction)
	if target == nil {
		return nil
	}

	proto, ok := target.(*FunctionPrototype)
	if !ok {
		diag.Error(p.reporter, diag.SemaNotCallable, call.Span())
		return nil
	}

	instance := proto.ResolveUsingTypeArguments(call.TypeArguments, contextualArgsOf(contextualFunction), call.Span())
	if instance == nil {
		return nil
	}
	returnType := instance.Signature.ReturnType
	if returnType.Kind == types.KindFunction {
		return p.FunctionTargetFor(returnType.Signature)
	}
	if class, ok := returnType.ClassReference().(*Class); ok {
		return class
	}
	return nil
}
