package diag

import "fmt"

// Code identifies a diagnostic message template.
type Code uint16

const (
	UnknownCode Code = 0

	// Declaration errors: the first declaration wins, the new one is skipped.
	DeclDuplicateIdentifier     Code = 3001
	DeclExportConflict          Code = 3002
	DeclMergedDeclarationMixed  Code = 3003
	DeclMultipleConstructors    Code = 3004
	DeclDuplicateFunctionImpl   Code = 3005
	DeclDecoratorNotValidHere   Code = 3006
	DeclDuplicateDecorator      Code = 3007

	// Resolution errors: the resolver returns nil, callers propagate.
	ResolveCannotFindName     Code = 3101
	ResolveNoExportedMember   Code = 3102
	ResolvePropertyNotFound   Code = 3103
	ResolveIndexSignature     Code = 3104

	// Structural errors: the relationship is skipped, the element kept.
	StructExtendNonClass   Code = 3201
	StructSealedExtended   Code = 3202
	StructUnmanagedImpl    Code = 3203
	StructManagedMix       Code = 3204

	// Type errors: the decorator or instantiation is dropped.
	TypeArgumentArity        Code = 3301
	TypeCallArgumentArity    Code = 3302
	TypeStringLiteralWanted  Code = 3303
	TypeOperationUnsupported Code = 3304

	// Semantic errors.
	SemaThisContext    Code = 3401
	SemaSuperContext   Code = 3402
	SemaNotCallable    Code = 3403
)

var messages = map[Code]string{
	UnknownCode: "Unknown diagnostic.",

	DeclDuplicateIdentifier:    "Duplicate identifier '%v'.",
	DeclExportConflict:         "Export declaration conflicts with exported declaration of '%v'.",
	DeclMergedDeclarationMixed: "Individual declarations in merged declaration '%v' must be all exported or all local.",
	DeclMultipleConstructors:   "Multiple constructor implementations are not allowed.",
	DeclDuplicateFunctionImpl:  "Duplicate function implementation '%v'.",
	DeclDecoratorNotValidHere:  "Decorator '%v' is not valid here.",
	DeclDuplicateDecorator:     "Duplicate decorator '%v'.",

	ResolveCannotFindName:   "Cannot find name '%v'.",
	ResolveNoExportedMember: "Module '%v' has no exported member '%v'.",
	ResolvePropertyNotFound: "Property '%v' does not exist on type '%v'.",
	ResolveIndexSignature:   "Index signature is missing in type '%v'.",

	StructExtendNonClass: "A class may only extend another class.",
	StructSealedExtended: "Class '%v' is sealed and cannot be extended.",
	StructUnmanagedImpl:  "Unmanaged classes cannot implement interfaces.",
	StructManagedMix:     "Unmanaged classes cannot extend managed classes and vice-versa.",

	TypeArgumentArity:        "Expected %v type arguments, but got %v.",
	TypeCallArgumentArity:    "Expected %v arguments, but got %v.",
	TypeStringLiteralWanted:  "String literal expected.",
	TypeOperationUnsupported: "Operation not supported.",

	SemaThisContext:  "'this' cannot be referenced in current location.",
	SemaSuperContext: "'super' can only be referenced in a derived class.",
	SemaNotCallable:  "Cannot invoke an expression whose type lacks a call signature.",
}

func (c Code) String() string {
	return fmt.Sprintf("BA%04d", uint16(c))
}

// Template returns the printf template for the code.
func (c Code) Template() string {
	if msg, ok := messages[c]; ok {
		return msg
	}
	return messages[UnknownCode]
}

// Render formats the code's template with the given arguments.
func (c Code) Render(args ...any) string {
	if len(args) == 0 {
		return c.Template()
	}
	return fmt.Sprintf(c.Template(), args...)
}
