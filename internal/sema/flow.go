package sema

import (
	"basalt/internal/diag"
	"basalt/internal/source"
	"basalt/internal/types"
)

// FlowFlags describe facts about a branch context.
type FlowFlags uint16

const (
	FlowNone FlowFlags = 0

	FlowReturns FlowFlags = 1 << iota
	FlowThrows
	FlowBreaks
	FlowContinues
	FlowAllocates

	FlowConditionallyReturns
	FlowConditionallyThrows
	FlowConditionallyBreaks
	FlowConditionallyContinues
	FlowConditionallyAllocates

	FlowInlineContext
)

// Flow is one node of a function's control-flow tree. Children are created
// per branch or scope; scoped locals die with their flow.
type Flow struct {
	Parent   *Flow // non-owning
	Function *Function

	flags FlowFlags

	ContinueLabel string
	BreakLabel    string
	ReturnLabel   string

	ReturnType              *types.Type
	ContextualTypeArguments map[string]*types.Type

	scopedLocals map[string]*Local
}

func newFlow(fn *Function) *Flow {
	return &Flow{
		Function:                fn,
		ReturnType:              fn.Signature.ReturnType,
		ContextualTypeArguments: fn.ContextualTypeArguments,
	}
}

// Is reports whether all given flags are set.
func (f *Flow) Is(flags FlowFlags) bool { return f.flags&flags == flags }

// Set sets the given flags.
func (f *Flow) Set(flags FlowFlags) { f.flags |= flags }

// Unset clears the given flags.
func (f *Flow) Unset(flags FlowFlags) { f.flags &^= flags }

// EnterBranchOrScope creates a child flow carrying the parent's facts.
// Modifications to the child do not affect the parent until it is left.
func (f *Flow) EnterBranchOrScope() *Flow {
	return &Flow{
		Parent:                  f,
		Function:                f.Function,
		flags:                   f.flags,
		ContinueLabel:           f.ContinueLabel,
		BreakLabel:              f.BreakLabel,
		ReturnLabel:             f.ReturnLabel,
		ReturnType:              f.ReturnType,
		ContextualTypeArguments: f.ContextualTypeArguments,
	}
}

// LeaveBranchOrScope frees every scoped local acquired since entry and folds
// the child's termination facts into the parent: an unconditional fact
// becomes conditional one frame up. Breaks and continues only fold when the
// child and the parent share the break (continue) label; a child with a label
// of its own ends the jump there and the parent is left unchanged.
func (f *Flow) LeaveBranchOrScope() *Flow {
	parent := f.Parent
	if parent == nil {
		panic("sema: LeaveBranchOrScope on root flow")
	}

	if f.scopedLocals != nil {
		for _, local := range f.scopedLocals {
			f.Function.FreeTempLocal(local)
		}
		f.scopedLocals = nil
	}

	if f.Is(FlowReturns) || f.Is(FlowConditionallyReturns) {
		parent.Set(FlowConditionallyReturns)
	}
	if f.Is(FlowThrows) || f.Is(FlowConditionallyThrows) {
		parent.Set(FlowConditionallyThrows)
	}
	if f.Is(FlowAllocates) || f.Is(FlowConditionallyAllocates) {
		parent.Set(FlowConditionallyAllocates)
	}
	if (f.Is(FlowBreaks) || f.Is(FlowConditionallyBreaks)) && f.BreakLabel == parent.BreakLabel {
		parent.Set(FlowConditionallyBreaks)
	}
	if (f.Is(FlowContinues) || f.Is(FlowConditionallyContinues)) && f.ContinueLabel == parent.ContinueLabel {
		parent.Set(FlowConditionallyContinues)
	}

	return parent
}

// AddScopedLocal binds a new scoped local in this flow, backed by a temp
// local of the matching native type.
func (f *Flow) AddScopedLocal(typ *types.Type, name string, reportSpan source.Span) *Local {
	if f.scopedLocals == nil {
		f.scopedLocals = make(map[string]*Local, 4)
	} else if _, ok := f.scopedLocals[name]; ok {
		diag.Error(f.Function.program.Reporter(), diag.DeclDuplicateIdentifier, reportSpan, name)
		return nil
	}
	local := f.Function.GetTempLocal(typ)
	local.simpleName = name
	local.internalName = name
	local.Set(FlagScoped)
	f.scopedLocals[name] = local
	return local
}

// GetScopedLocal resolves a name against this flow, its ancestors, and
// finally the function's own locals.
func (f *Flow) GetScopedLocal(name string) *Local {
	for current := f; current != nil; current = current.Parent {
		if current.scopedLocals != nil {
			if local, ok := current.scopedLocals[name]; ok {
				return local
			}
		}
	}
	if local, ok := f.Function.Locals[name]; ok {
		return local
	}
	return nil
}
