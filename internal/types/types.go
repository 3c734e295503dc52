// Package types holds the canonical type table: shared primitive types plus
// cached function-type and class-type handles. Types are immutable after
// construction; identity is pointer identity for anything cached.
package types

import "fmt"

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindI8
	KindI16
	KindI32
	KindI64
	KindU8
	KindU16
	KindU32
	KindU64
	KindBool
	KindF32
	KindF64
	KindVoid
	KindFunction
	KindClass
)

func (k Kind) String() string {
	switch k {
	case KindI8:
		return "i8"
	case KindI16:
		return "i16"
	case KindI32:
		return "i32"
	case KindI64:
		return "i64"
	case KindU8:
		return "u8"
	case KindU16:
		return "u16"
	case KindU32:
		return "u32"
	case KindU64:
		return "u64"
	case KindBool:
		return "bool"
	case KindF32:
		return "f32"
	case KindF64:
		return "f64"
	case KindVoid:
		return "void"
	case KindFunction:
		return "function"
	case KindClass:
		return "class"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// ClassTarget is the class instance a class type points at. The concrete
// implementation lives in the sema package; the interface breaks the
// dependency cycle between the type table and the element graph.
type ClassTarget interface {
	InternalName() string
}

// NativeType is the VM-level storage class of a value; temp locals are pooled
// per native type.
type NativeType uint8

const (
	NativeNone NativeType = iota
	NativeI32
	NativeI64
	NativeF32
	NativeF64
)

// Type is an immutable type descriptor identified by (kind, size,
// nullability, target).
type Type struct {
	Kind      Kind
	Size      uint32 // bits
	Nullable  bool
	Class     ClassTarget // KindClass only
	Signature *Signature  // KindFunction only

	nonNullable *Type
	nullable    *Type
}

// ByteSize returns the storage size in bytes.
func (t *Type) ByteSize() uint32 { return t.Size >> 3 }

// IsInteger reports whether the type is a (signed or unsigned) integer.
func (t *Type) IsInteger() bool {
	switch t.Kind {
	case KindI8, KindI16, KindI32, KindI64, KindU8, KindU16, KindU32, KindU64, KindBool:
		return true
	default:
		return false
	}
}

// IsSigned reports whether the type is a signed integer.
func (t *Type) IsSigned() bool {
	switch t.Kind {
	case KindI8, KindI16, KindI32, KindI64:
		return true
	default:
		return false
	}
}

// IsFloat reports whether the type is a floating-point type.
func (t *Type) IsFloat() bool {
	return t.Kind == KindF32 || t.Kind == KindF64
}

// IsReference reports whether values of the type are pointers into linear
// memory (class instances and function references).
func (t *Type) IsReference() bool {
	return t.Kind == KindClass || t.Kind == KindFunction
}

// NativeType returns the VM storage class of the type.
func (t *Type) NativeType() NativeType {
	switch {
	case t.Kind == KindVoid:
		return NativeNone
	case t.Kind == KindF32:
		return NativeF32
	case t.Kind == KindF64:
		return NativeF64
	case t.Size == 64:
		return NativeI64
	default:
		return NativeI32
	}
}

// NonNullable returns the non-nullable variant of the type.
func (t *Type) NonNullable() *Type {
	if !t.Nullable {
		return t
	}
	return t.nonNullable
}

// AsNullable returns the nullable variant of a reference type; non-reference
// types are returned unchanged.
func (t *Type) AsNullable() *Type {
	if t.Nullable || !t.IsReference() {
		return t
	}
	if t.nullable == nil {
		n := *t
		n.Nullable = true
		n.nonNullable = t
		n.nullable = nil
		t.nullable = &n
	}
	return t.nullable
}

// ClassReference returns the class the type points at, or nil.
func (t *Type) ClassReference() ClassTarget {
	if t == nil {
		return nil
	}
	return t.Class
}

// String renders the canonical type string used in generic instance keys.
func (t *Type) String() string {
	var base string
	switch t.Kind {
	case KindClass:
		if t.Class != nil {
			base = t.Class.InternalName()
		} else {
			base = "class"
		}
	case KindFunction:
		if t.Signature != nil {
			base = t.Signature.String()
		} else {
			base = "function"
		}
	default:
		base = t.Kind.String()
	}
	if t.Nullable {
		return base + " | null"
	}
	return base
}
