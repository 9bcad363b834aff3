package main

import (
	"github.com/escalier-lang/envcore/internal/environ"
	"github.com/escalier-lang/envcore/internal/envtable"
	"github.com/escalier-lang/envcore/internal/name"
)

// scopeResolver is the trivial NameResolver DESIGN.md's cmd/envcore section
// describes: given a relative name and its lexical context, it tries the
// name prefixed by each enclosing namespace from innermost to outermost,
// then the root namespace, returning the first candidate the environment
// actually knows about. A real compiler front-end would instead consult
// import declarations and visibility rules; this is just enough for
// `envcore resolve-type-names` to demonstrate the resolution pass end to end.
type scopeResolver struct {
	env *environ.Environment
}

func (r *scopeResolver) Resolve(tn name.TypeName, ctx *envtable.Context) (name.TypeName, bool) {
	if tn.Absolute {
		if r.known(tn) {
			return tn, true
		}
		return tn, false
	}
	for _, prefix := range candidatePrefixes(ctx) {
		candidate := tn.WithPrefix(prefix)
		if r.known(candidate) {
			return candidate, true
		}
	}
	return tn, false
}

func (r *scopeResolver) known(tn name.TypeName) bool {
	if tn.Kind == name.KindConstant {
		return r.env.ConstantName(tn)
	}
	return r.env.TypeName(tn) || r.env.ConstantName(tn)
}

// candidatePrefixes returns the namespaces to try, innermost first, ending
// with the root namespace.
func candidatePrefixes(ctx *envtable.Context) []name.Namespace {
	names := ctx.Names()
	out := make([]name.Namespace, 0, len(names)+1)
	for i := len(names); i > 0; i-- {
		out = append(out, names[i-1].ToNamespace())
	}
	out = append(out, name.Root())
	return out
}
