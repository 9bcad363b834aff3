// Package entry implements the tagged entry records the environment core
// stores one per fully-qualified name (§3 Entries): multi-fragment
// ClassEntry/ModuleEntry, and the six single-fragment entry kinds. The
// sum-type-with-exhaustive-tag-methods shape mirrors the teacher's own
// Error interface (internal/checker/error.go: isError() on every concrete
// error struct) applied here to storage entries instead of errors.
package entry

import (
	"fmt"

	"github.com/escalier-lang/envcore/internal/declast"
	"github.com/escalier-lang/envcore/internal/envtable"
	"github.com/escalier-lang/envcore/internal/name"
)

//sumtype:decl

// Entry is any of the eight stored entry kinds.
type Entry interface {
	isEntry()
	Name() name.TypeName
}

func (*ClassEntry) isEntry()       {}
func (*ModuleEntry) isEntry()      {}
func (*InterfaceEntry) isEntry()   {}
func (*TypeAliasEntry) isEntry()   {}
func (*ConstantEntry) isEntry()    {}
func (*GlobalEntry) isEntry()      {}
func (*ClassAliasEntry) isEntry()  {}
func (*ModuleAliasEntry) isEntry() {}

// AliasEntry is implemented by ClassAliasEntry and ModuleAliasEntry; the
// alias normalizer only needs OldName and doesn't care which kind it is.
type AliasEntry interface {
	Entry
	Old() name.TypeName
}

func (e *ClassAliasEntry) Old() name.TypeName  { return e.Decl.OldName }
func (e *ModuleAliasEntry) Old() name.TypeName { return e.Decl.OldName }

// Fragment is one declaration occurrence contributing to a multi-fragment
// ClassEntry or ModuleEntry: the original declaration plus the path of
// enclosing class/module declarations (as raw, possibly-relative names) at
// its original appearance site. Context is computed lazily and memoized
// per §4.5.
type Fragment struct {
	Decl  declast.Container
	Outer []name.TypeName

	ctx      *envtable.Context
	ctxKnown bool
}

// Context returns this fragment's lexical context, computing and caching it
// on first access.
func (f *Fragment) Context() *envtable.Context {
	if !f.ctxKnown {
		f.ctx = envtable.BuildContext(append(f.Outer, f.Decl.DeclName()))
		f.ctxKnown = true
	}
	return f.ctx
}

// ClassEntry is the multi-fragment entry for a class.
type ClassEntry struct {
	FQName    name.TypeName
	Fragments []*Fragment // each Fragment.Decl is a *declast.ClassDecl

	validated     bool
	validationErr error
	primary       *Fragment
}

func (e *ClassEntry) Name() name.TypeName { return e.FQName }

// NewClassEntry creates an empty multi-fragment class entry.
func NewClassEntry(fq name.TypeName) *ClassEntry {
	return &ClassEntry{FQName: fq}
}

// AppendFragment adds a new fragment. Callers (the environment core) are
// responsible for having already checked that decl's kind matches this
// entry's kind (§4.1).
func (e *ClassEntry) AppendFragment(decl *declast.ClassDecl, outer []name.TypeName) {
	e.Fragments = append(e.Fragments, &Fragment{Decl: decl, Outer: outer})
	e.validated = false
	e.primary = nil
}

// ValidateTypeParams implements §4.2: every fragment after the first must
// match the first fragment's type parameters in arity and, modulo renaming
// to the first fragment's parameter names, in bounds and variance. The
// result is memoized.
func (e *ClassEntry) ValidateTypeParams() error {
	if e.validated {
		return e.validationErr
	}
	e.validated = true
	if len(e.Fragments) == 0 {
		return nil
	}
	first := e.Fragments[0].Decl.(*declast.ClassDecl).TypeParams
	for _, f := range e.Fragments[1:] {
		other := f.Decl.(*declast.ClassDecl).TypeParams
		if err := validateTypeParams(e.FQName, f.Decl, first, other); err != nil {
			e.validationErr = err
			return err
		}
	}
	return nil
}

// Primary returns the primary fragment (§3 invariant 4): the first fragment
// that declares a super class, else the first fragment inserted. It first
// forces type-parameter validation; a mismatch there is returned instead.
func (e *ClassEntry) Primary() (*Fragment, error) {
	if e.primary != nil {
		return e.primary, nil
	}
	if err := e.ValidateTypeParams(); err != nil {
		return nil, err
	}
	if len(e.Fragments) == 0 {
		return nil, fmt.Errorf("entry: class entry %s has no fragments", e.FQName)
	}
	for _, f := range e.Fragments {
		if f.Decl.(*declast.ClassDecl).SuperClass != nil {
			e.primary = f
			return f, nil
		}
	}
	e.primary = e.Fragments[0]
	return e.primary, nil
}

// ModuleEntry is the multi-fragment entry for a module.
type ModuleEntry struct {
	FQName    name.TypeName
	Fragments []*Fragment // each Fragment.Decl is a *declast.ModuleDecl

	validated     bool
	validationErr error
}

func (e *ModuleEntry) Name() name.TypeName { return e.FQName }

func NewModuleEntry(fq name.TypeName) *ModuleEntry {
	return &ModuleEntry{FQName: fq}
}

func (e *ModuleEntry) AppendFragment(decl *declast.ModuleDecl, outer []name.TypeName) {
	e.Fragments = append(e.Fragments, &Fragment{Decl: decl, Outer: outer})
	e.validated = false
}

// ValidateTypeParams mirrors ClassEntry's; modules have no super class so
// there is no separate "primary" concept beyond the first fragment.
func (e *ModuleEntry) ValidateTypeParams() error {
	if e.validated {
		return e.validationErr
	}
	e.validated = true
	if len(e.Fragments) == 0 {
		return nil
	}
	first := e.Fragments[0].Decl.(*declast.ModuleDecl).TypeParams
	for _, f := range e.Fragments[1:] {
		other := f.Decl.(*declast.ModuleDecl).TypeParams
		if err := validateTypeParams(e.FQName, f.Decl, first, other); err != nil {
			e.validationErr = err
			return err
		}
	}
	return nil
}

// Primary returns the first fragment, after forcing validation.
func (e *ModuleEntry) Primary() (*Fragment, error) {
	if err := e.ValidateTypeParams(); err != nil {
		return nil, err
	}
	if len(e.Fragments) == 0 {
		return nil, fmt.Errorf("entry: module entry %s has no fragments", e.FQName)
	}
	return e.Fragments[0], nil
}

func validateTypeParams(fqName name.TypeName, offending declast.Decl, first, other []declast.TypeParam) error {
	if len(first) != len(other) {
		return &GenericParameterMismatch{Name: fqName, Offending: offending, Reason: "type parameter arity mismatch"}
	}
	rename := make(map[string]string, len(first))
	for i := range first {
		rename[other[i].Name] = first[i].Name
	}
	for i := range first {
		if first[i].Variance != other[i].Variance {
			return &GenericParameterMismatch{Name: fqName, Offending: offending, Reason: "variance mismatch on type parameter " + first[i].Name}
		}
		if first[i].Unchecked != other[i].Unchecked {
			return &GenericParameterMismatch{Name: fqName, Offending: offending, Reason: "unchecked annotation mismatch on type parameter " + first[i].Name}
		}
		renamedUpper := declast.RenameTypeParams(other[i].Upper, rename)
		if !declast.EqualTypeExpr(first[i].Upper, renamedUpper) {
			return &GenericParameterMismatch{Name: fqName, Offending: offending, Reason: "bound mismatch on type parameter " + first[i].Name}
		}
	}
	return nil
}

// GenericParameterMismatch is raised by ValidateTypeParams when a later
// fragment's type parameters disagree with the first fragment's (§4.2,
// §6).
type GenericParameterMismatch struct {
	Name      name.TypeName
	Offending declast.Decl
	Reason    string
}

func (e *GenericParameterMismatch) Error() string {
	return fmt.Sprintf("generic parameter mismatch for %s: %s", e.Name, e.Reason)
}

// InterfaceEntry, TypeAliasEntry, ConstantEntry, and GlobalEntry are
// single-fragment entries: name, declaration, and outer nesting.

type InterfaceEntry struct {
	FQName name.TypeName
	Decl   *declast.InterfaceDecl
	Outer  []name.TypeName
}

func (e *InterfaceEntry) Name() name.TypeName { return e.FQName }

type TypeAliasEntry struct {
	FQName name.TypeName
	Decl   *declast.TypeAliasDecl
	Outer  []name.TypeName
}

func (e *TypeAliasEntry) Name() name.TypeName { return e.FQName }

type ConstantEntry struct {
	FQName name.TypeName
	Decl   *declast.ConstantDecl
	Outer  []name.TypeName
}

func (e *ConstantEntry) Name() name.TypeName { return e.FQName }

type GlobalEntry struct {
	FQName name.TypeName
	Decl   *declast.GlobalDecl
	Outer  []name.TypeName
}

func (e *GlobalEntry) Name() name.TypeName { return e.FQName }

// ClassAliasEntry and ModuleAliasEntry are single-fragment entries for
// class/module aliases.

type ClassAliasEntry struct {
	FQName name.TypeName
	Decl   *declast.ClassAliasDecl
}

func (e *ClassAliasEntry) Name() name.TypeName { return e.FQName }

type ModuleAliasEntry struct {
	FQName name.TypeName
	Decl   *declast.ModuleAliasDecl
}

func (e *ModuleAliasEntry) Name() name.TypeName { return e.FQName }
