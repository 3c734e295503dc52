package sema

// CommonFlags encode declared modifiers plus derived states on an element.
type CommonFlags uint32

const (
	FlagNone CommonFlags = 0

	// declared modifiers
	FlagImport CommonFlags = 1 << iota
	FlagExport
	FlagDeclare
	FlagConst
	FlagLet
	FlagStatic
	FlagReadonly
	FlagAbstract
	FlagPublic
	FlagPrivate
	FlagProtected
	FlagGet
	FlagSet

	// derived states
	FlagAmbient
	FlagGeneric
	FlagGenericContext
	FlagInstance
	FlagConstructor
	FlagArrow
	FlagModuleExport
	FlagModuleImport
	FlagBuiltin
	FlagCompiled
	FlagInlined
	FlagScoped
	FlagTrampoline
)

// DecoratorFlags record which built-in decorators were applied.
type DecoratorFlags uint8

const (
	DecoratorFlagNone      DecoratorFlags = 0
	DecoratorFlagGlobal    DecoratorFlags = 1 << iota
	DecoratorFlagUnmanaged
	DecoratorFlagSealed
	DecoratorFlagInline
)

// Has reports whether all given decorator flags are set.
func (f DecoratorFlags) Has(flags DecoratorFlags) bool { return f&flags == flags }
