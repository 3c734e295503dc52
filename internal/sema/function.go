package sema

import (
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"

	"basalt/internal/ast"
	"basalt/internal/diag"
	"basalt/internal/source"
	"basalt/internal/types"
)

// typesKey canonicalizes a tuple of type arguments into an instance-cache
// key. The empty tuple keys the sole instance of a non-generic prototype.
func typesKey(typeArguments []*types.Type) string {
	if len(typeArguments) == 0 {
		return ""
	}
	parts := make([]string, len(typeArguments))
	for i, t := range typeArguments {
		parts[i] = t.String()
	}
	return strings.Join(parts, ",")
}

func cloneTypeArgs(ctx map[string]*types.Type) map[string]*types.Type {
	out := make(map[string]*types.Type, len(ctx)+4)
	for k, v := range ctx {
		out[k] = v
	}
	return out
}

// FunctionPrototype is an unresolved, generic-aware function. Monomorphic
// instances are memoized in the instances cache keyed by the canonicalized
// type-argument tuple.
type FunctionPrototype struct {
	elemBase
	Declaration    *ast.FunctionDeclaration
	ClassPrototype *ClassPrototype // owning class, nil for free functions
	OperatorKind   OperatorKind

	// classTypeArguments are set on partially-resolved prototypes: the class's
	// type arguments are fixed while the function's own remain free.
	classTypeArguments []*types.Type

	instances map[string]*Function
}

func (p *FunctionPrototype) Kind() ElementKind { return ElementFunctionPrototype }

func newFunctionPrototype(program *Program, simpleName, internalName string, declaration *ast.FunctionDeclaration, classPrototype *ClassPrototype) *FunctionPrototype {
	p := &FunctionPrototype{
		elemBase:       newElemBase(program, simpleName, internalName),
		Declaration:    declaration,
		ClassPrototype: classPrototype,
		instances:      make(map[string]*Function),
	}
	if declaration != nil && len(declaration.TypeParameters) > 0 {
		p.Set(FlagGeneric)
	}
	return p
}

// Instances exposes the memoized instance cache.
func (p *FunctionPrototype) Instances() map[string]*Function { return p.instances }

// ClassTypeArguments returns the captured class type arguments of a partial
// prototype, nil otherwise.
func (p *FunctionPrototype) ClassTypeArguments() []*types.Type { return p.classTypeArguments }

// ResolvePartial binds the owning class's type arguments while leaving the
// function's own type parameters free, yielding a new prototype with its own
// instance cache.
func (p *FunctionPrototype) ResolvePartial(classTypeArguments []*types.Type) *FunctionPrototype {
	if len(classTypeArguments) == 0 {
		return p
	}
	if p.ClassPrototype == nil {
		panic(fmt.Errorf("sema: partial resolve of free function %s", p.internalName))
	}
	partial := newFunctionPrototype(p.program, p.simpleName, p.internalName, p.Declaration, p.ClassPrototype)
	partial.flags = p.flags
	partial.decoratorFlags = p.decoratorFlags
	partial.OperatorKind = p.OperatorKind
	partial.namespace = p.namespace
	partial.classTypeArguments = classTypeArguments
	return partial
}

// Resolve monomorphizes the prototype for the given function type arguments.
// The contextual map is layered: inherited arguments, then the captured class
// type arguments (through the owning class), then the function's own.
// Arity mismatches here are internal errors; user-facing arity checking
// happens in ResolveUsingTypeArguments.
func (p *FunctionPrototype) Resolve(functionTypeArguments []*types.Type, contextualTypeArguments map[string]*types.Type) *Function {
	instanceKey := typesKey(functionTypeArguments)
	if instance, ok := p.instances[instanceKey]; ok {
		return instance
	}

	declaration := p.Declaration
	if declaration == nil {
		panic(fmt.Errorf("sema: resolve of declarationless function %s", p.internalName))
	}

	ctx := cloneTypeArgs(contextualTypeArguments)

	var classInstance *Class
	if p.ClassPrototype != nil && p.Is(FlagInstance) {
		classInstance = p.ClassPrototype.Resolve(p.classTypeArguments, ctx)
		if classInstance == nil {
			return nil
		}
		for k, v := range classInstance.ContextualTypeArguments {
			ctx[k] = v
		}
	}

	typeParameters := declaration.TypeParameters
	if len(typeParameters) != len(functionTypeArguments) {
		panic(fmt.Errorf("sema: %s expects %d type arguments, got %d", p.internalName, len(typeParameters), len(functionTypeArguments)))
	}
	for i := range typeParameters {
		ctx[typeParameters[i].Name.Text] = functionTypeArguments[i]
	}

	resolver := p.program.Resolver()
	signatureNode := declaration.Signature

	var thisType *types.Type
	if classInstance != nil {
		thisType = classInstance.Type
	} else if signatureNode.ExplicitThisType != nil {
		thisType = resolver.ResolveType(signatureNode.ExplicitThisType, ctx, true)
		if thisType == nil {
			return nil
		}
	}

	parameterNodes := signatureNode.Parameters
	parameterTypes := make([]*types.Type, len(parameterNodes))
	parameterNames := make([]string, len(parameterNodes))
	requiredParameters := 0
	hasRest := false
	for i, parameterNode := range parameterNodes {
		switch parameterNode.ParameterKind {
		case ast.ParameterDefault:
			requiredParameters = i + 1
		case ast.ParameterRest:
			// Rest must be terminal; monomorphization of rest parameters is
			// not implemented.
			if i != len(parameterNodes)-1 {
				panic(fmt.Errorf("sema: rest parameter of %s is not terminal", p.internalName))
			}
			hasRest = true
			diag.Error(p.program.Reporter(), diag.TypeOperationUnsupported, parameterNode.Span())
			return nil
		}
		parameterType := resolver.ResolveType(parameterNode.Type, ctx, true)
		if parameterType == nil {
			return nil
		}
		parameterTypes[i] = parameterType
		parameterNames[i] = parameterNode.Name.Text
	}

	var returnType *types.Type
	switch {
	case p.Is(FlagSet):
		returnType = p.program.Types.Void
	case p.Is(FlagConstructor):
		returnType = classInstance.Type
	case signatureNode.ReturnType == nil:
		returnType = p.program.Types.Void
	default:
		returnType = resolver.ResolveType(signatureNode.ReturnType, ctx, true)
		if returnType == nil {
			return nil
		}
	}

	signature := &types.Signature{
		ParameterTypes:     parameterTypes,
		ParameterNames:     parameterNames,
		RequiredParameters: requiredParameters,
		ReturnType:         returnType,
		ThisType:           thisType,
		HasRest:            hasRest,
	}

	internalName := p.internalName
	if instanceKey != "" {
		internalName += "<" + instanceKey + ">"
	}
	instance := newFunction(p, internalName, functionTypeArguments, signature, classInstance, ctx)
	p.instances[instanceKey] = instance
	return instance
}

// ResolveUsingTypeArguments resolves the type argument nodes in the given
// context, reporting arity mismatches at reportSpan, then monomorphizes.
func (p *FunctionPrototype) ResolveUsingTypeArguments(typeArgumentNodes []*ast.TypeNode, contextualTypeArguments map[string]*types.Type, reportSpan source.Span) *Function {
	var typeParameters []*ast.TypeParameterNode
	if p.Declaration != nil {
		typeParameters = p.Declaration.TypeParameters
	}
	resolved, ok := p.program.Resolver().ResolveTypeArguments(typeParameters, typeArgumentNodes, contextualTypeArguments, reportSpan)
	if !ok {
		return nil
	}
	return p.Resolve(resolved, contextualTypeArguments)
}

// Function is a monomorphized function instance with a concrete signature.
type Function struct {
	elemBase
	Prototype               *FunctionPrototype // non-owning
	Signature               *types.Signature
	TypeArguments           []*types.Type
	ClassInstance           *Class // owning class instance, nil for free functions
	ContextualTypeArguments map[string]*types.Type

	Locals        map[string]*Local
	LocalsByIndex []*Local
	Flow          *Flow

	// Ref is the emitted reference handle, appended by the emitter.
	Ref any

	breakStack  []uint32
	nextBreakID uint32

	tempI32s []*Local
	tempI64s []*Local
	tempF32s []*Local
	tempF64s []*Local
}

func (f *Function) Kind() ElementKind { return ElementFunction }

func newFunction(prototype *FunctionPrototype, internalName string, typeArguments []*types.Type, signature *types.Signature, classInstance *Class, contextualTypeArguments map[string]*types.Type) *Function {
	f := &Function{
		elemBase:                newElemBase(prototype.program, prototype.simpleName, internalName),
		Prototype:               prototype,
		Signature:               signature,
		TypeArguments:           typeArguments,
		ClassInstance:           classInstance,
		ContextualTypeArguments: contextualTypeArguments,
		Locals:                  make(map[string]*Local),
	}
	f.flags = prototype.flags
	f.decoratorFlags = prototype.decoratorFlags
	f.namespace = prototype.namespace

	index := 0
	if signature.ThisType != nil {
		thisLocal := newLocal(f.program, "this", index, signature.ThisType)
		f.Locals["this"] = thisLocal
		f.LocalsByIndex = append(f.LocalsByIndex, thisLocal)
		index++
	}
	for i, parameterType := range signature.ParameterTypes {
		name := signature.ParameterNames[i]
		local := newLocal(f.program, name, index, parameterType)
		f.Locals[name] = local
		f.LocalsByIndex = append(f.LocalsByIndex, local)
		index++
	}

	f.Flow = newFlow(f)
	return f
}

// AddLocal appends a local of the given type, optionally named.
func (f *Function) AddLocal(typ *types.Type, name string) *Local {
	index := len(f.LocalsByIndex)
	local := newLocal(f.program, name, index, typ)
	if name != "" {
		if _, ok := f.Locals[name]; ok {
			panic(fmt.Errorf("sema: duplicate local %q in %s", name, f.internalName))
		}
		f.Locals[name] = local
	}
	f.LocalsByIndex = append(f.LocalsByIndex, local)
	return local
}

func (f *Function) tempList(native types.NativeType) *[]*Local {
	switch native {
	case types.NativeI64:
		return &f.tempI64s
	case types.NativeF32:
		return &f.tempF32s
	case types.NativeF64:
		return &f.tempF64s
	default:
		return &f.tempI32s
	}
}

// GetTempLocal pops a free temp local of the matching native type or
// allocates a new one.
func (f *Function) GetTempLocal(typ *types.Type) *Local {
	list := f.tempList(typ.NativeType())
	if n := len(*list); n > 0 {
		local := (*list)[n-1]
		*list = (*list)[:n-1]
		local.Type = typ
		return local
	}
	return f.AddLocal(typ, "")
}

// FreeTempLocal returns a temp local to its free-list. Inlined locals are
// not recycled.
func (f *Function) FreeTempLocal(local *Local) {
	if local.Is(FlagInlined) {
		return
	}
	list := f.tempList(local.Type.NativeType())
	*list = append(*list, local)
}

// EnterBreakContext pushes a new break context and returns its label.
func (f *Function) EnterBreakContext() string {
	f.nextBreakID++
	f.breakStack = append(f.breakStack, f.nextBreakID)
	return strconv.FormatUint(uint64(f.nextBreakID), 10)
}

// LeaveBreakContext pops the innermost break context.
func (f *Function) LeaveBreakContext() {
	n := len(f.breakStack)
	if n == 0 {
		panic(fmt.Errorf("sema: unbalanced break context in %s", f.internalName))
	}
	f.breakStack = f.breakStack[:n-1]
}

// CurrentBreakLabel returns the label of the innermost break context, or "".
func (f *Function) CurrentBreakLabel() string {
	n := len(f.breakStack)
	if n == 0 {
		return ""
	}
	return strconv.FormatUint(uint64(f.breakStack[n-1]), 10)
}

// Finalize checks scope/context balance after the function's body has been
// processed and drops the temp free-lists.
func (f *Function) Finalize() {
	if len(f.breakStack) != 0 {
		panic(fmt.Errorf("sema: %d break contexts left open in %s", len(f.breakStack), f.internalName))
	}
	if _, err := safecast.Conv[uint32](len(f.LocalsByIndex)); err != nil {
		panic(fmt.Errorf("sema: local count overflow in %s: %w", f.internalName, err))
	}
	f.tempI32s = nil
	f.tempI64s = nil
	f.tempF32s = nil
	f.tempF64s = nil
}

// FunctionTarget is a signature-only function reference used for indirect
// calls; one target per signature, cached on the program.
type FunctionTarget struct {
	elemBase
	Signature *types.Signature
}

func (t *FunctionTarget) Kind() ElementKind { return ElementFunctionTarget }
