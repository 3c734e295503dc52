package types

import "strings"

// Signature describes a callable: parameter types and names, required
// parameter count, optional rest flag, return type and an optional explicit
// `this` type.
type Signature struct {
	ParameterTypes     []*Type
	ParameterNames     []string
	RequiredParameters int
	ReturnType         *Type
	ThisType           *Type
	HasRest            bool

	fnType *Type // cached function Type, set by Table.FunctionType
}

// ParameterCount returns the number of declared parameters.
func (s *Signature) ParameterCount() int { return len(s.ParameterTypes) }

// String renders the canonical signature string, e.g. "(i32,f64)=>void" or
// "(this:a/Foo,i32)=>i32".
func (s *Signature) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	first := true
	if s.ThisType != nil {
		sb.WriteString("this:")
		sb.WriteString(s.ThisType.String())
		first = false
	}
	for i, pt := range s.ParameterTypes {
		if !first {
			sb.WriteByte(',')
		}
		first = false
		sb.WriteString(pt.String())
		if s.HasRest && i == len(s.ParameterTypes)-1 {
			sb.WriteString("...")
		} else if i >= s.RequiredParameters {
			sb.WriteByte('?')
		}
	}
	sb.WriteString(")=>")
	if s.ReturnType != nil {
		sb.WriteString(s.ReturnType.String())
	} else {
		sb.WriteString("void")
	}
	return sb.String()
}
