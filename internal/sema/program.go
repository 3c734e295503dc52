package sema

import (
	"basalt/internal/ast"
	"basalt/internal/diag"
	"basalt/internal/source"
	"basalt/internal/types"
)

// Options configure a program before initialization.
type Options struct {
	// Is64 selects the pointer width: isize/usize resolve to i64/u64 when
	// set, i32/u32 otherwise.
	Is64 bool
	// SourceMap is an emitter-facing hook; nothing in the core consumes it.
	SourceMap bool
	// GlobalAliases binds extra global names to existing elements after
	// initialization ("alias" -> "name").
	GlobalAliases map[string]string
}

// QueuedImport is an import that could not be resolved while walking the
// sources; the drain phase retries it until no progress is made.
type QueuedImport struct {
	// InternalName is the importing file's name for the element.
	InternalName string
	// ReferencedName is importedPath + "/" + externalName.
	ReferencedName string
	// AlternativeName swaps the "/index" spelling of the referenced path.
	AlternativeName string
	Declaration     *ast.ImportDeclaration
	Path            string // imported internal path, for diagnostics
}

// QueuedExport is an export whose target was not declared yet; re-exports
// chain through the queue.
type QueuedExport struct {
	IsReExport bool
	// ExternalName is the referenced name: the local internal name for plain
	// exports, the target module's file-level export name for re-exports.
	ExternalName string
	Member       *ast.ExportMember
	Path         string // re-exported module path, for diagnostics
}

// TypeAlias is one program-global `type T<...> = ...` declaration.
type TypeAlias struct {
	TypeParameters []*ast.TypeParameterNode
	Type           ast.TypeExpr
}

// Program is the long-lived aggregate owning the element graph and the type
// table. A single Program is single-threaded; separate Programs share
// nothing.
type Program struct {
	Sources []*ast.Source
	Types   *types.Table
	Options Options

	reporter      diag.Reporter
	sourcesByFile map[source.FileID]*ast.Source
	entryPaths    map[string]bool

	elementsLookup     map[string]Element
	fileLevelExports   map[string]Element
	moduleLevelExports map[string]Element
	typeAliases        map[string]*TypeAlias

	queuedImports     []*QueuedImport
	queuedExports     map[string]*QueuedExport
	queuedExportOrder []string
	queuedExtends     []*ClassPrototype
	queuedImplements  []*ClassPrototype

	// well-known prototypes, stashed at the end of initialization
	ArrayPrototype           *ClassPrototype
	ArrayBufferViewPrototype *ClassPrototype
	StringPrototype          *ClassPrototype
	StringInstance           *Class

	resolver        *Resolver
	functionTargets map[*types.Signature]*FunctionTarget

	initialized bool
}

// NewProgram constructs an empty program reporting into the given sink.
func NewProgram(reporter diag.Reporter) *Program {
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	p := &Program{
		reporter:           reporter,
		sourcesByFile:      make(map[source.FileID]*ast.Source),
		entryPaths:         make(map[string]bool),
		elementsLookup:     make(map[string]Element),
		fileLevelExports:   make(map[string]Element),
		moduleLevelExports: make(map[string]Element),
		typeAliases:        make(map[string]*TypeAlias),
		queuedExports:      make(map[string]*QueuedExport),
		functionTargets:    make(map[*types.Signature]*FunctionTarget),
	}
	p.resolver = newResolver(p)
	return p
}

// Reporter returns the diagnostic sink.
func (p *Program) Reporter() diag.Reporter { return p.reporter }

// Resolver returns the program's resolver.
func (p *Program) Resolver() *Resolver { return p.resolver }

// ResolveType resolves a type expression; emitter-facing convenience.
func (p *Program) ResolveType(node ast.TypeExpr, contextualTypeArguments map[string]*types.Type) *types.Type {
	return p.resolver.ResolveType(node, contextualTypeArguments, true)
}

// ResolveExpression resolves an expression to an element; the resolver's
// ResolvedThisExpression/ResolvedElementExpression are readable afterwards.
func (p *Program) ResolveExpression(expr ast.Expression, contextualFunction *Function) Element {
	return p.resolver.ResolveExpression(expr, contextualFunction)
}

// AddSource appends a parsed source. All sources must be added before
// Initialize runs.
func (p *Program) AddSource(src *ast.Source) {
	p.Sources = append(p.Sources, src)
	p.sourcesByFile[src.File] = src
	if src.IsEntry() {
		p.entryPaths[src.Path] = true
	}
}

// SourceOf recovers the source containing the given file.
func (p *Program) SourceOf(file source.FileID) *ast.Source {
	return p.sourcesByFile[file]
}

// LookupElement returns the element registered under the internal name.
func (p *Program) LookupElement(internalName string) (Element, bool) {
	el, ok := p.elementsLookup[internalName]
	return el, ok
}

// ElementsLookup exposes the internal-name lookup table.
func (p *Program) ElementsLookup() map[string]Element { return p.elementsLookup }

// FileLevelExports exposes the file-level export table.
func (p *Program) FileLevelExports() map[string]Element { return p.fileLevelExports }

// ModuleLevelExports exposes the module-level export table.
func (p *Program) ModuleLevelExports() map[string]Element { return p.moduleLevelExports }

// TypeAliasFor returns the program-global type alias with the simple name.
func (p *Program) TypeAliasFor(name string) (*TypeAlias, bool) {
	alias, ok := p.typeAliases[name]
	return alias, ok
}

// FunctionTargetFor returns the signature's cached function-target element,
// creating it on first use.
func (p *Program) FunctionTargetFor(sig *types.Signature) *FunctionTarget {
	if target, ok := p.functionTargets[sig]; ok {
		return target
	}
	target := &FunctionTarget{
		elemBase:  newElemBase(p, "", sig.String()),
		Signature: sig,
	}
	p.functionTargets[sig] = target
	return target
}

// insertElement registers an element under its internal name, reporting
// duplicate identifiers. The first declaration wins.
func (p *Program) insertElement(internalName string, el Element, reportSpan source.Span) bool {
	if _, ok := p.elementsLookup[internalName]; ok {
		diag.Error(p.reporter, diag.DeclDuplicateIdentifier, reportSpan, el.SimpleName())
		return false
	}
	p.elementsLookup[internalName] = el
	return true
}

// addFileLevelExport publishes an element under source.path + "/" + exported
// name, enforcing the conflict-free invariant.
func (p *Program) addFileLevelExport(name string, el Element, reportSpan source.Span) {
	if existing, ok := p.fileLevelExports[name]; ok {
		if existing != el {
			diag.Error(p.reporter, diag.DeclExportConflict, reportSpan, el.SimpleName())
		}
		return
	}
	p.fileLevelExports[name] = el
}

// addModuleLevelExport publishes an entry source's export under its exported
// simple name and marks the element.
func (p *Program) addModuleLevelExport(exportName string, el Element, reportSpan source.Span) {
	if existing, ok := p.moduleLevelExports[exportName]; ok {
		if existing != el {
			diag.Error(p.reporter, diag.DeclExportConflict, reportSpan, exportName)
		}
		return
	}
	el.Set(FlagModuleExport)
	p.moduleLevelExports[exportName] = el
}

// ensureGlobal additionally publishes an element under its simple name,
// rewriting builtin internal names.
func (p *Program) ensureGlobal(el Element, reportSpan source.Span) {
	simple := el.SimpleName()
	if existing, ok := p.elementsLookup[simple]; ok {
		if existing != el {
			diag.Error(p.reporter, diag.DeclDuplicateIdentifier, reportSpan, simple)
		}
	} else {
		p.elementsLookup[simple] = el
	}
	if el.Is(FlagBuiltin) {
		el.base().internalName = simple
	}
}

// Initialize runs the single initializer pass over all added sources and
// drains the deferred work-lists. It must run exactly once.
func (p *Program) Initialize(options Options) {
	if p.initialized {
		panic("sema: Program.Initialize called twice")
	}
	p.initialized = true
	p.Options = options
	p.Types = types.NewTable(options.Is64)

	for _, src := range p.Sources {
		p.initializeSource(src)
	}

	p.drainImports()
	p.drainExports()
	p.drainExtends()
	p.drainImplements()
	p.bindGlobalAliases()
	p.stashWellKnowns()
}

func (p *Program) drainImports() {
	pending := p.queuedImports
	for len(pending) > 0 {
		progressed := false
		remaining := pending[:0]
		for _, qi := range pending {
			el := p.tryResolveImport(qi.ReferencedName)
			if el == nil {
				el = p.tryResolveImport(qi.AlternativeName)
			}
			if el == nil {
				remaining = append(remaining, qi)
				continue
			}
			progressed = true
			if existing, ok := p.elementsLookup[qi.InternalName]; ok {
				if existing != el {
					diag.Error(p.reporter, diag.DeclDuplicateIdentifier, qi.Declaration.Name.Span(), qi.Declaration.Name.Text)
				}
				continue
			}
			el.Set(FlagModuleImport)
			p.elementsLookup[qi.InternalName] = el
		}
		pending = remaining
		if !progressed {
			break
		}
	}
	p.queuedImports = nil
	for _, qi := range pending {
		diag.Error(p.reporter, diag.ResolveNoExportedMember, qi.Declaration.ExternalName.Span(), qi.Path, qi.Declaration.ExternalName.Text)
	}
}

// tryResolveImport walks the file-level exports and the queued-export
// chains; cycles break with no progress.
func (p *Program) tryResolveImport(referencedName string) Element {
	seen := make(map[string]bool)
	for {
		if el, ok := p.fileLevelExports[referencedName]; ok {
			return el
		}
		qe, ok := p.queuedExports[referencedName]
		if !ok {
			return nil
		}
		if !qe.IsReExport {
			if el, ok := p.elementsLookup[qe.ExternalName]; ok {
				return el
			}
			return nil
		}
		if seen[referencedName] {
			return nil
		}
		seen[referencedName] = true
		referencedName = qe.ExternalName
	}
}

func (p *Program) drainExports() {
	for _, name := range p.queuedExportOrder {
		qe := p.queuedExports[name]
		el := p.resolveQueuedExport(qe)
		if el == nil {
			if qe.IsReExport {
				diag.Error(p.reporter, diag.ResolveNoExportedMember, qe.Member.ExternalName.Span(), qe.Path, qe.Member.Name.Text)
			} else {
				diag.Error(p.reporter, diag.ResolveCannotFindName, qe.Member.Name.Span(), qe.Member.Name.Text)
			}
			continue
		}
		el.Set(FlagExport)
		p.addFileLevelExport(name, el, qe.Member.ExternalName.Span())
		if dir := exportDir(name); p.entryPaths[dir] {
			p.addModuleLevelExport(qe.Member.ExternalName.Text, el, qe.Member.ExternalName.Span())
		}
	}
	p.queuedExports = nil
	p.queuedExportOrder = nil
}

// exportDir strips the trailing "/name" segment of a file-level export key,
// leaving the source path.
func exportDir(name string) string {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '/' {
			return name[:i]
		}
	}
	return name
}

func (p *Program) resolveQueuedExport(qe *QueuedExport) Element {
	seen := make(map[*QueuedExport]bool)
	for {
		if seen[qe] {
			return nil
		}
		seen[qe] = true
		if el, ok := p.fileLevelExports[qe.ExternalName]; ok {
			return el
		}
		if el, ok := p.elementsLookup[qe.ExternalName]; ok {
			return el
		}
		next, ok := p.queuedExports[qe.ExternalName]
		if !ok {
			alt := source.AlternativePath(qe.ExternalName)
			if el, ok := p.fileLevelExports[alt]; ok {
				return el
			}
			if next, ok = p.queuedExports[alt]; !ok {
				return nil
			}
		}
		qe = next
	}
}

func (p *Program) drainExtends() {
	for _, derived := range p.queuedExtends {
		extendsType := derived.Declaration.ExtendsType
		el := p.resolver.ResolveIdentifier(extendsType.Name, nil, nil)
		if el == nil {
			continue // already reported
		}
		base, ok := el.(*ClassPrototype)
		if !ok || base.IsInterface() {
			diag.Error(p.reporter, diag.StructExtendNonClass, extendsType.Span())
			continue
		}
		if base.IsSealed() {
			diag.Error(p.reporter, diag.StructSealedExtended, extendsType.Span(), base.SimpleName())
			continue
		}
		if base.IsUnmanaged() != derived.IsUnmanaged() {
			diag.Error(p.reporter, diag.StructManagedMix, extendsType.Span())
			continue
		}
		derived.BasePrototype = base
	}
	p.queuedExtends = nil
}

func (p *Program) drainImplements() {
	for _, proto := range p.queuedImplements {
		if proto.IsUnmanaged() {
			span := proto.Declaration.Span()
			if len(proto.Declaration.ImplementsTypes) > 0 {
				span = proto.Declaration.ImplementsTypes[0].Span()
			}
			diag.Error(p.reporter, diag.StructUnmanagedImpl, span)
		}
		// Interface conformance tables are built by the emitter; nothing else
		// to do at initialization time.
	}
	p.queuedImplements = nil
}

func (p *Program) bindGlobalAliases() {
	for alias, name := range p.Options.GlobalAliases {
		el, ok := p.elementsLookup[name]
		if !ok {
			continue
		}
		if existing, ok := p.elementsLookup[alias]; ok {
			if existing != el {
				diag.Error(p.reporter, diag.DeclDuplicateIdentifier, source.Span{}, alias)
			}
			continue
		}
		p.elementsLookup[alias] = el
	}
}

func (p *Program) stashWellKnowns() {
	if el, ok := p.elementsLookup["Array"]; ok {
		if proto, ok := el.(*ClassPrototype); ok {
			p.ArrayPrototype = proto
		}
	}
	if el, ok := p.elementsLookup["ArrayBufferView"]; ok {
		if proto, ok := el.(*ClassPrototype); ok {
			p.ArrayBufferViewPrototype = proto
		}
	}
	if el, ok := p.elementsLookup["String"]; ok {
		if proto, ok := el.(*ClassPrototype); ok {
			p.StringPrototype = proto
			if proto.Is(FlagGeneric) {
				return
			}
			if instance := proto.Resolve(nil, nil); instance != nil {
				if !p.Types.Register("string", instance.Type) {
					diag.Error(p.reporter, diag.DeclDuplicateIdentifier, proto.Declaration.Name.Span(), "string")
				}
				p.StringInstance = instance
			}
		}
	}
}
