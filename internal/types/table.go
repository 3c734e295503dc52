package types

// Table maps type name strings (both path-qualified and bare) to concrete
// types. Primitives are constructed once per table and shared; function and
// class types are cached on their signature or class.
type Table struct {
	names map[string]*Type

	I8   *Type
	I16  *Type
	I32  *Type
	I64  *Type
	U8   *Type
	U16  *Type
	U32  *Type
	U64  *Type
	Bool *Type
	F32  *Type
	F64  *Type
	Void *Type

	// Isize and Usize alias I32/I64 and U32/U64 per target configuration.
	Isize *Type
	Usize *Type
}

func prim(kind Kind, size uint32) *Type {
	return &Type{Kind: kind, Size: size}
}

// NewTable constructs a table seeded with the base primitive set. is64
// selects the pointer width: isize/usize resolve to the 64-bit types when
// set.
func NewTable(is64 bool) *Table {
	t := &Table{
		names: make(map[string]*Type, 32),
		I8:    prim(KindI8, 8),
		I16:   prim(KindI16, 16),
		I32:   prim(KindI32, 32),
		I64:   prim(KindI64, 64),
		U8:    prim(KindU8, 8),
		U16:   prim(KindU16, 16),
		U32:   prim(KindU32, 32),
		U64:   prim(KindU64, 64),
		Bool:  prim(KindBool, 8),
		F32:   prim(KindF32, 32),
		F64:   prim(KindF64, 64),
		Void:  prim(KindVoid, 0),
	}
	if is64 {
		t.Isize, t.Usize = t.I64, t.U64
	} else {
		t.Isize, t.Usize = t.I32, t.U32
	}

	t.names["i8"] = t.I8
	t.names["i16"] = t.I16
	t.names["i32"] = t.I32
	t.names["i64"] = t.I64
	t.names["isize"] = t.Isize
	t.names["u8"] = t.U8
	t.names["u16"] = t.U16
	t.names["u32"] = t.U32
	t.names["u64"] = t.U64
	t.names["usize"] = t.Usize
	t.names["bool"] = t.Bool
	t.names["f32"] = t.F32
	t.names["f64"] = t.F64
	t.names["void"] = t.Void
	t.names["number"] = t.F64
	t.names["boolean"] = t.Bool
	return t
}

// Is64 reports the configured pointer width.
func (t *Table) Is64() bool { return t.Usize == t.U64 }

// Lookup returns the type registered under the given name.
func (t *Table) Lookup(name string) (*Type, bool) {
	typ, ok := t.names[name]
	return typ, ok
}

// Has reports whether a name is taken in the table.
func (t *Table) Has(name string) bool {
	_, ok := t.names[name]
	return ok
}

// Register binds a name to a type. Returns false when the name is taken.
func (t *Table) Register(name string, typ *Type) bool {
	if _, ok := t.names[name]; ok {
		return false
	}
	t.names[name] = typ
	return true
}

// FunctionType returns the usize-sized pointer-to-function type for the
// signature, creating and caching it on first use.
func (t *Table) FunctionType(sig *Signature) *Type {
	if sig.fnType == nil {
		sig.fnType = &Type{Kind: KindFunction, Size: t.Usize.Size, Signature: sig}
	}
	return sig.fnType
}

// ClassType builds the reference type for a class instance. The caller caches
// the result on the class; one type per instance.
func (t *Table) ClassType(target ClassTarget) *Type {
	return &Type{Kind: KindClass, Size: t.Usize.Size, Class: target}
}
