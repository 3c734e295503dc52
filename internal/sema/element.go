package sema

// ElementKind classifies the entities of the element graph.
type ElementKind uint8

const (
	ElementInvalid ElementKind = iota
	ElementGlobal
	ElementLocal
	ElementEnum
	ElementEnumValue
	ElementFunctionPrototype
	ElementFunction
	ElementFunctionTarget
	ElementClassPrototype
	ElementClass
	ElementInterfacePrototype
	ElementInterface
	ElementFieldPrototype
	ElementField
	ElementProperty
	ElementNamespace
)

func (k ElementKind) String() string {
	switch k {
	case ElementGlobal:
		return "global"
	case ElementLocal:
		return "local"
	case ElementEnum:
		return "enum"
	case ElementEnumValue:
		return "enumvalue"
	case ElementFunctionPrototype:
		return "function-prototype"
	case ElementFunction:
		return "function"
	case ElementFunctionTarget:
		return "function-target"
	case ElementClassPrototype:
		return "class-prototype"
	case ElementClass:
		return "class"
	case ElementInterfacePrototype:
		return "interface-prototype"
	case ElementInterface:
		return "interface"
	case ElementFieldPrototype:
		return "field-prototype"
	case ElementField:
		return "field"
	case ElementProperty:
		return "property"
	case ElementNamespace:
		return "namespace"
	default:
		return "invalid"
	}
}

// Element is the common surface of every node in the element graph.
// Dispatch is by Kind; there are no virtual behaviors beyond the header.
type Element interface {
	Kind() ElementKind
	SimpleName() string
	InternalName() string
	Is(flags CommonFlags) bool
	Set(flags CommonFlags)
	Decorators() DecoratorFlags
	Members() map[string]Element
	base() *elemBase
}

// elemBase is the shared element header. Concrete kinds embed it; the
// members map and the namespace back-reference are non-owning.
type elemBase struct {
	program        *Program
	simpleName     string
	internalName   string
	flags          CommonFlags
	decoratorFlags DecoratorFlags
	members        map[string]Element
	namespace      Element
}

func newElemBase(program *Program, simpleName, internalName string) elemBase {
	return elemBase{
		program:      program,
		simpleName:   simpleName,
		internalName: internalName,
	}
}

func (e *elemBase) SimpleName() string { return e.simpleName }
func (e *elemBase) InternalName() string { return e.internalName }
func (e *elemBase) Is(flags CommonFlags) bool { return e.flags&flags == flags }
func (e *elemBase) IsAny(flags CommonFlags) bool {
	return e.flags&flags != 0
}
func (e *elemBase) Set(flags CommonFlags) { e.flags |= flags }
func (e *elemBase) Decorators() DecoratorFlags { return e.decoratorFlags }
func (e *elemBase) Members() map[string]Element { return e.members }
func (e *elemBase) base() *elemBase { return e }

// Namespace returns the enclosing namespace-like element, if any.
func (e *elemBase) Namespace() Element { return e.namespace }

// addMember binds a member under its simple name; returns false when the
// name is taken.
func (e *elemBase) addMember(name string, member Element) bool {
	if e.members == nil {
		e.members = make(map[string]Element, 8)
	}
	if _, ok := e.members[name]; ok {
		return false
	}
	e.members[name] = member
	return true
}

// lookupMember returns the member under the simple name, if present.
func (e *elemBase) lookupMember(name string) (Element, bool) {
	if e.members == nil {
		return nil, false
	}
	m, ok := e.members[name]
	return m, ok
}
