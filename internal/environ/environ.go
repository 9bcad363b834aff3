// Package environ implements the declaration environment core: insertion
// and its per-kind collision rules (§4.1), the lookup/predicate surface
// (§4.3), and the introspection utilities (§4.7). It is the symbol table
// the rest of the toolchain queries once a Loader has populated it.
package environ

import (
	"sort"

	"github.com/google/uuid"

	"github.com/escalier-lang/envcore/internal/alias"
	"github.com/escalier-lang/envcore/internal/declast"
	"github.com/escalier-lang/envcore/internal/entry"
	"github.com/escalier-lang/envcore/internal/envtable"
	"github.com/escalier-lang/envcore/internal/name"
)

// Loader is the external collaborator that feeds declarations into a fresh
// Environment (§6 consumed interfaces).
type Loader interface {
	Load(env *Environment) error
}

// Environment is the in-memory symbol table. The zero value is not usable;
// construct with New or FromLoader.
type Environment struct {
	ID uuid.UUID

	// Declarations holds only the top-level declarations pushed via Push
	// (the "<<" operator of §6), in insertion order. Nested declarations
	// live inside their parent's Members and are reached only through the
	// kind tables below.
	Declarations []declast.Decl

	classModuleDecls envtable.Table[entry.Entry] // *entry.ClassEntry | *entry.ModuleEntry
	classAliasDecls  envtable.Table[entry.Entry] // *entry.ClassAliasEntry | *entry.ModuleAliasEntry
	interfaceDecls   envtable.Table[*entry.InterfaceEntry]
	typeAliasDecls   envtable.Table[*entry.TypeAliasEntry]
	constantDecls    envtable.Table[*entry.ConstantEntry]
	globalDecls      envtable.Table[*entry.GlobalEntry]

	// normalizer is built lazily on first use. Per §5, further mutation of
	// the environment after normalization has begun is not supported: the
	// memo is only ever valid for the declarations present when it was
	// first consulted.
	normalizer *alias.Normalizer
}

// New returns an empty environment.
func New() *Environment {
	return &Environment{ID: uuid.New()}
}

// FromLoader builds a new environment and hands it to loader to populate.
func FromLoader(loader Loader) (*Environment, error) {
	env := New()
	if err := loader.Load(env); err != nil {
		return nil, err
	}
	return env, nil
}

// Push is the "<<" operator of §6: it appends decl to the top-level
// declaration list and inserts it recursively at the root namespace.
func (e *Environment) Push(decl declast.Decl) error {
	if err := e.insert(decl, nil, name.Root()); err != nil {
		return err
	}
	e.Declarations = append(e.Declarations, decl)
	return nil
}

// Copy returns a shallow duplicate: the kind tables and declaration list
// are duplicated, but fragments and declarations themselves are shared
// (§4.7 copy semantics).
func (e *Environment) Copy() *Environment {
	return &Environment{
		ID:               uuid.New(),
		Declarations:     append([]declast.Decl(nil), e.Declarations...),
		classModuleDecls: e.classModuleDecls.Copy(),
		classAliasDecls:  e.classAliasDecls.Copy(),
		interfaceDecls:   e.interfaceDecls.Copy(),
		typeAliasDecls:   e.typeAliasDecls.Copy(),
		constantDecls:    e.constantDecls.Copy(),
		globalDecls:      e.globalDecls.Copy(),
	}
}

// ---- insertion (§4.1) ----

func (e *Environment) insert(decl declast.Decl, outer []name.TypeName, ns name.Namespace) error {
	switch d := decl.(type) {
	case *declast.ClassDecl:
		return e.insertClassOrModule(d, true, outer, ns)
	case *declast.ModuleDecl:
		return e.insertClassOrModule(d, false, outer, ns)
	case *declast.InterfaceDecl:
		return e.insertInterface(d, outer, ns)
	case *declast.TypeAliasDecl:
		return e.insertTypeAlias(d, outer, ns)
	case *declast.ConstantDecl:
		return e.insertConstant(d, outer, ns)
	case *declast.GlobalDecl:
		return e.insertGlobal(d, outer, ns)
	case *declast.ClassAliasDecl:
		return e.insertClassAlias(d, ns)
	case *declast.ModuleAliasDecl:
		return e.insertModuleAlias(d, ns)
	default:
		internalErrorf("unknown declaration kind %T", decl)
		return nil
	}
}

func (e *Environment) insertClassOrModule(decl declast.Container, isClass bool, outer []name.TypeName, ns name.Namespace) error {
	qname := decl.DeclName().WithPrefix(ns)
	key := qname.Key()

	if existing, ok := e.constantDecls.Get(key); ok {
		return &DuplicatedDeclaration{Name: qname, New: decl, Existing: entryDecls(existing)}
	}
	if existing, ok := e.classAliasDecls.Get(key); ok {
		return &DuplicatedDeclaration{Name: qname, New: decl, Existing: entryDecls(existing)}
	}

	ent, ok := e.classModuleDecls.Get(key)
	if !ok {
		if isClass {
			ce := entry.NewClassEntry(qname)
			ce.AppendFragment(decl.(*declast.ClassDecl), outer)
			e.classModuleDecls.Set(key, ce)
		} else {
			me := entry.NewModuleEntry(qname)
			me.AppendFragment(decl.(*declast.ModuleDecl), outer)
			e.classModuleDecls.Set(key, me)
		}
	} else {
		switch v := ent.(type) {
		case *entry.ClassEntry:
			if !isClass {
				return &DuplicatedDeclaration{Name: qname, New: decl, Existing: entryDecls(ent)}
			}
			v.AppendFragment(decl.(*declast.ClassDecl), outer)
		case *entry.ModuleEntry:
			if isClass {
				return &DuplicatedDeclaration{Name: qname, New: decl, Existing: entryDecls(ent)}
			}
			v.AppendFragment(decl.(*declast.ModuleDecl), outer)
		default:
			internalErrorf("class_decls table holds unexpected entry %T at %s", ent, key)
		}
	}

	innerNS := qname.ToNamespace()
	innerOuter := append(append([]name.TypeName{}, outer...), decl.DeclName())
	for _, m := range decl.Members() {
		nested, ok := m.(*declast.NestedMember)
		if !ok {
			continue
		}
		if err := e.insert(nested.Decl, innerOuter, innerNS); err != nil {
			return err
		}
	}
	return nil
}

func (e *Environment) insertInterface(decl *declast.InterfaceDecl, outer []name.TypeName, ns name.Namespace) error {
	qname := decl.Name_.WithPrefix(ns)
	key := qname.Key()
	if existing, ok := e.interfaceDecls.Get(key); ok {
		return &DuplicatedDeclaration{Name: qname, New: decl, Existing: entryDecls(existing)}
	}
	e.interfaceDecls.Set(key, &entry.InterfaceEntry{FQName: qname, Decl: decl, Outer: outer})
	return nil
}

func (e *Environment) insertTypeAlias(decl *declast.TypeAliasDecl, outer []name.TypeName, ns name.Namespace) error {
	qname := decl.Name_.WithPrefix(ns)
	key := qname.Key()
	if existing, ok := e.typeAliasDecls.Get(key); ok {
		return &DuplicatedDeclaration{Name: qname, New: decl, Existing: entryDecls(existing)}
	}
	e.typeAliasDecls.Set(key, &entry.TypeAliasEntry{FQName: qname, Decl: decl, Outer: outer})
	return nil
}

func (e *Environment) insertConstant(decl *declast.ConstantDecl, outer []name.TypeName, ns name.Namespace) error {
	qname := decl.Name_.WithPrefix(ns)
	key := qname.Key()
	if existing, ok := e.anyEntry(key); ok {
		return &DuplicatedDeclaration{Name: qname, New: decl, Existing: entryDecls(existing)}
	}
	e.constantDecls.Set(key, &entry.ConstantEntry{FQName: qname, Decl: decl, Outer: outer})
	return nil
}

func (e *Environment) insertGlobal(decl *declast.GlobalDecl, outer []name.TypeName, ns name.Namespace) error {
	// Globals live in their own namespace (§3 invariant 2): only checked
	// against other globals, never against class/module/interface/
	// type-alias/constant/alias entries.
	qname := decl.Name_.WithPrefix(ns)
	key := qname.Key()
	if existing, ok := e.globalDecls.Get(key); ok {
		return &DuplicatedDeclaration{Name: qname, New: decl, Existing: entryDecls(existing)}
	}
	e.globalDecls.Set(key, &entry.GlobalEntry{FQName: qname, Decl: decl, Outer: outer})
	return nil
}

func (e *Environment) insertClassAlias(decl *declast.ClassAliasDecl, ns name.Namespace) error {
	qname := decl.NewName.WithPrefix(ns)
	key := qname.Key()
	if existing, ok := e.anyEntry(key); ok {
		return &DuplicatedDeclaration{Name: qname, New: decl, Existing: entryDecls(existing)}
	}
	e.classAliasDecls.Set(key, &entry.ClassAliasEntry{FQName: qname, Decl: decl})
	return nil
}

func (e *Environment) insertModuleAlias(decl *declast.ModuleAliasDecl, ns name.Namespace) error {
	qname := decl.NewName.WithPrefix(ns)
	key := qname.Key()
	if existing, ok := e.anyEntry(key); ok {
		return &DuplicatedDeclaration{Name: qname, New: decl, Existing: entryDecls(existing)}
	}
	e.classAliasDecls.Set(key, &entry.ModuleAliasEntry{FQName: qname, Decl: decl})
	return nil
}

// anyEntry looks across every table except globalDecls (which is always
// its own namespace), used by Constant's and ClassAlias/ModuleAlias's
// "any entry exists" collision rule.
func (e *Environment) anyEntry(key string) (entry.Entry, bool) {
	if v, ok := e.classModuleDecls.Get(key); ok {
		return v, true
	}
	if v, ok := e.classAliasDecls.Get(key); ok {
		return v, true
	}
	if v, ok := e.interfaceDecls.Get(key); ok {
		return v, true
	}
	if v, ok := e.typeAliasDecls.Get(key); ok {
		return v, true
	}
	if v, ok := e.constantDecls.Get(key); ok {
		return v, true
	}
	return nil, false
}

// ---- lookup surface (§4.3) ----

func (e *Environment) InterfaceName(n name.TypeName) bool {
	_, ok := e.interfaceDecls.Get(n.Key())
	return ok
}

func (e *Environment) TypeAliasName(n name.TypeName) bool {
	_, ok := e.typeAliasDecls.Get(n.Key())
	return ok
}

// ModuleName reports whether n is a class/module entry or a class/module
// alias.
func (e *Environment) ModuleName(n name.TypeName) bool {
	if _, ok := e.classModuleDecls.Get(n.Key()); ok {
		return true
	}
	_, ok := e.classAliasDecls.Get(n.Key())
	return ok
}

// TypeName reports whether n is any of interface/type-alias/module.
func (e *Environment) TypeName(n name.TypeName) bool {
	return e.InterfaceName(n) || e.TypeAliasName(n) || e.ModuleName(n)
}

// ConstantName reports whether n is a constant entry, or a class/module
// (alias included).
func (e *Environment) ConstantName(n name.TypeName) bool {
	if _, ok := e.constantDecls.Get(n.Key()); ok {
		return true
	}
	return e.ModuleName(n)
}

// ClassDecl reports whether the entry at n is specifically a class entry
// (not an alias).
func (e *Environment) ClassDecl(n name.TypeName) bool {
	ent, ok := e.classModuleDecls.Get(n.Key())
	if !ok {
		return false
	}
	_, isClass := ent.(*entry.ClassEntry)
	return isClass
}

// ModuleDecl reports whether the entry at n is specifically a module entry
// (not an alias).
func (e *Environment) ModuleDecl(n name.TypeName) bool {
	ent, ok := e.classModuleDecls.Get(n.Key())
	if !ok {
		return false
	}
	_, isModule := ent.(*entry.ModuleEntry)
	return isModule
}

func (e *Environment) ClassAliasName(n name.TypeName) bool {
	ent, ok := e.classAliasDecls.Get(n.Key())
	if !ok {
		return false
	}
	_, ok = ent.(*entry.ClassAliasEntry)
	return ok
}

func (e *Environment) ModuleAliasName(n name.TypeName) bool {
	ent, ok := e.classAliasDecls.Get(n.Key())
	if !ok {
		return false
	}
	_, ok = ent.(*entry.ModuleAliasEntry)
	return ok
}

// ClassEntryLookup returns the class entry or class-alias entry at n, or
// nil.
func (e *Environment) ClassEntryLookup(n name.TypeName) entry.Entry {
	if ent, ok := e.classModuleDecls.Get(n.Key()); ok {
		if _, isClass := ent.(*entry.ClassEntry); isClass {
			return ent
		}
	}
	if ent, ok := e.classAliasDecls.Get(n.Key()); ok {
		if _, isAlias := ent.(*entry.ClassAliasEntry); isAlias {
			return ent
		}
	}
	return nil
}

// ModuleEntryLookup returns the module entry or module-alias entry at n,
// or nil.
func (e *Environment) ModuleEntryLookup(n name.TypeName) entry.Entry {
	if ent, ok := e.classModuleDecls.Get(n.Key()); ok {
		if _, isModule := ent.(*entry.ModuleEntry); isModule {
			return ent
		}
	}
	if ent, ok := e.classAliasDecls.Get(n.Key()); ok {
		if _, isAlias := ent.(*entry.ModuleAliasEntry); isAlias {
			return ent
		}
	}
	return nil
}

// ModuleClassEntry is ClassEntryLookup ∨ ModuleEntryLookup.
func (e *Environment) ModuleClassEntry(n name.TypeName) entry.Entry {
	if ent := e.ClassEntryLookup(n); ent != nil {
		return ent
	}
	return e.ModuleEntryLookup(n)
}

// ConstantEntry is ModuleClassEntry ∨ the constant table. This is also the
// method the alias normalizer calls through its EntryLookup interface for
// §4.4 step 5.
func (e *Environment) ConstantEntry(n name.TypeName) entry.Entry {
	if ent := e.ModuleClassEntry(n); ent != nil {
		return ent
	}
	if ent, ok := e.constantDecls.Get(n.Key()); ok {
		return ent
	}
	return nil
}

func (e *Environment) normalizerInstance() *alias.Normalizer {
	if e.normalizer == nil {
		e.normalizer = alias.New(e)
	}
	return e.normalizer
}

// NormalizeModuleName is the total wrapper of §4.4: it returns n unchanged
// if normalization finds nothing.
func (e *Environment) NormalizeModuleName(n name.TypeName) name.TypeName {
	return e.normalizerInstance().NormalizeModuleName(n)
}

// NormalizeModuleNameQ is the partial variant: nil result means "does not
// resolve to a class/module", a non-nil *alias.CyclicClassAliasDefinition
// error means a cycle was hit.
func (e *Environment) NormalizeModuleNameQ(n name.TypeName) (*name.TypeName, error) {
	return e.normalizerInstance().NormalizeModuleNameQ(n)
}

// NormalizedModuleClassEntry normalizes n first (when it is a class/module
// name) and then looks up the entry, failing loudly if an alias entry
// still surfaces after normalization (which would mean normalization is
// broken, not that the lookup failed).
func (e *Environment) NormalizedModuleClassEntry(n name.TypeName) (entry.Entry, error) {
	target := n
	if n.ClassOrModule() {
		canon, err := e.NormalizeModuleNameQ(n)
		if err != nil {
			return nil, err
		}
		if canon != nil {
			target = *canon
		}
	}
	ent := e.ModuleClassEntry(target)
	failIfAlias(n, ent)
	return ent, nil
}

// NormalizedConstantEntry is NormalizedModuleClassEntry ∨ the constant
// table, with the same loud-failure behavior on a residual alias entry.
func (e *Environment) NormalizedConstantEntry(n name.TypeName) (entry.Entry, error) {
	ent, err := e.NormalizedModuleClassEntry(n)
	if err != nil {
		return nil, err
	}
	if ent != nil {
		return ent, nil
	}
	if ce, ok := e.constantDecls.Get(n.Key()); ok {
		return ce, nil
	}
	return nil, nil
}

func failIfAlias(n name.TypeName, ent entry.Entry) {
	switch ent.(type) {
	case *entry.ClassAliasEntry, *entry.ModuleAliasEntry:
		internalErrorf("normalized lookup for %s still resolved to an alias entry", n)
	}
}

// ---- §4.2 / §4.7: whole-environment validation ----

// ValidateTypeParams forces every multi-fragment entry to compute its
// primary fragment, transitively validating type-parameter compatibility,
// and collects every GenericParameterMismatch found rather than stopping
// at the first (consistent with the resolution pass's own leniency, see
// SPEC_FULL.md's supplemented-features note).
func (e *Environment) ValidateTypeParams() []error {
	var errs []error
	e.classModuleDecls.Each(func(_ string, ent entry.Entry) {
		switch v := ent.(type) {
		case *entry.ClassEntry:
			if _, err := v.Primary(); err != nil {
				errs = append(errs, err)
			}
		case *entry.ModuleEntry:
			if _, err := v.Primary(); err != nil {
				errs = append(errs, err)
			}
		}
	})
	return errs
}

// ---- §4.7 introspection ----

// BuffersDecls groups top-level declarations by their source buffer,
// silently dropping declarations with no Location (matching the source
// system's own behavior, noted as deliberately preserved in the design
// notes).
func (e *Environment) BuffersDecls() map[string][]declast.Decl {
	out := make(map[string][]declast.Decl)
	for _, d := range e.Declarations {
		loc := d.Location()
		if loc == nil {
			continue
		}
		out[loc.Buffer] = append(out[loc.Buffer], d)
	}
	return out
}

// Buffers returns the deduplicated, sorted set of buffer names.
func (e *Environment) Buffers() []string {
	grouped := e.BuffersDecls()
	keys := make([]string, 0, len(grouped))
	for k := range grouped {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Reject returns a new environment containing exactly the top-level
// declarations for which pred is false, obtained by re-inserting them one
// at a time — so it fully re-validates collisions and nesting.
func (e *Environment) Reject(pred func(declast.Decl) bool) (*Environment, error) {
	result := New()
	for _, d := range e.Declarations {
		if pred(d) {
			continue
		}
		if err := result.Push(d); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// DebugInspector returns the per-table sizes (§6 "Debug inspector").
func (e *Environment) DebugInspector() map[string]int {
	return map[string]int{
		"declarations":      len(e.Declarations),
		"class_decls":       e.classModuleDecls.Len(),
		"class_alias_decls": e.classAliasDecls.Len(),
		"interface_decls":   e.interfaceDecls.Len(),
		"type_alias_decls":  e.typeAliasDecls.Len(),
		"constant_decls":    e.constantDecls.Len(),
		"global_decls":      e.globalDecls.Len(),
	}
}
