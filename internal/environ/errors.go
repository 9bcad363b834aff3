package environ

import (
	"fmt"
	"strings"

	"github.com/escalier-lang/envcore/internal/declast"
	"github.com/escalier-lang/envcore/internal/entry"
	"github.com/escalier-lang/envcore/internal/name"
)

// Error is the sum type of errors this package raises directly (as opposed
// to entry.GenericParameterMismatch and alias.CyclicClassAliasDefinition,
// which are raised by their own packages but satisfy the plain `error`
// interface the same way). The isEnvError tag follows the teacher's own
// Error-interface pattern (internal/checker/error.go).
type Error interface {
	error
	isEnvError()
}

func (*DuplicatedDeclaration) isEnvError() {}

// DuplicatedDeclaration is raised whenever a new declaration collides with
// one or more existing entries at the same fully-qualified name, per the
// five collision rules in §4.1. Per §9's first open question, this
// implementation raises uniformly on every insertion path rather than
// reproducing the source's latent silent-overwrite bug on the
// interface/type-alias/one-constant path.
type DuplicatedDeclaration struct {
	Name     name.TypeName
	New      declast.Decl
	Existing []declast.Decl
}

func (e *DuplicatedDeclaration) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "duplicated declaration: %s already declared", e.Name)
	if len(e.Existing) > 0 {
		fmt.Fprintf(&b, " (%d existing declaration(s))", len(e.Existing))
	}
	return b.String()
}

// internalError signals programmer misuse or a violated invariant; per the
// ambient-stack error-handling design these panic rather than return, since
// they indicate a bug in the caller or in this package, not a reportable
// condition in the input declarations.
func internalErrorf(format string, args ...any) {
	panic(fmt.Sprintf("environ: internal error: "+format, args...))
}

// entryDecls extracts the declarations backing an entry, for populating
// DuplicatedDeclaration.Existing.
func entryDecls(e entry.Entry) []declast.Decl {
	switch v := e.(type) {
	case *entry.ClassEntry:
		out := make([]declast.Decl, len(v.Fragments))
		for i, f := range v.Fragments {
			out[i] = f.Decl
		}
		return out
	case *entry.ModuleEntry:
		out := make([]declast.Decl, len(v.Fragments))
		for i, f := range v.Fragments {
			out[i] = f.Decl
		}
		return out
	case *entry.InterfaceEntry:
		return []declast.Decl{v.Decl}
	case *entry.TypeAliasEntry:
		return []declast.Decl{v.Decl}
	case *entry.ConstantEntry:
		return []declast.Decl{v.Decl}
	case *entry.GlobalEntry:
		return []declast.Decl{v.Decl}
	case *entry.ClassAliasEntry:
		return []declast.Decl{v.Decl}
	case *entry.ModuleAliasEntry:
		return []declast.Decl{v.Decl}
	default:
		return nil
	}
}
