package ast

// ModifierFlags carry the declared modifiers on a declaration as written in
// the source.
type ModifierFlags uint16

const (
	ModifierNone    ModifierFlags = 0
	ModifierExport  ModifierFlags = 1 << iota
	ModifierDeclare
	ModifierConst
	ModifierLet
	ModifierStatic
	ModifierReadonly
	ModifierAbstract
	ModifierPublic
	ModifierPrivate
	ModifierProtected
	ModifierGet
	ModifierSet
	ModifierConstructor
)

// Has reports whether all given flags are set.
func (f ModifierFlags) Has(flags ModifierFlags) bool { return f&flags == flags }
