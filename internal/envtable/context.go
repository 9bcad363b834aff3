// Package envtable provides the lexical Context chain used by class/module
// fragments and the resolution pass (§4.5), plus the kind-keyed
// ordered tables the environment core stores its entries in. Tables use
// github.com/tidwall/btree, the same B-tree the teacher's own dependency
// graph uses for its qualified-name-keyed maps
// (internal/dep_graph/dep_graph_v2.go), so iteration order is stable
// without a separate sort pass over plain Go maps.
package envtable

import "github.com/escalier-lang/envcore/internal/name"

// Context is a right-recursive cons list of enclosing absolute class/module
// names: (parent, innermost). A nil *Context is the root sentinel (no
// enclosing class/module). This mirrors the teacher's own Scope type
// (internal/checker/scope.go), a parent-pointer chain shared cheaply across
// sibling members.
type Context struct {
	Parent *Context
	Name   name.TypeName
}

// Append extends ctx with the next enclosing absolute name.
func Append(ctx *Context, absName name.TypeName) *Context {
	return &Context{Parent: ctx, Name: absName}
}

// Names returns the context's names from outermost to innermost.
func (c *Context) Names() []name.TypeName {
	if c == nil {
		return nil
	}
	return append(c.Parent.Names(), c.Name)
}

// BuildContext computes the lexical context for a sequence of enclosing
// class/module declarations, per §4.5: starting from the root sentinel,
// each step appends the next declaration's absolute name to the running
// context, accumulating the absolute prefix along the way.
//
// outerNames are the (possibly relative) names of the enclosing class/module
// decls, outermost first; the caller extracts them so this low-level package
// does not depend on declast's decl interfaces directly.
func BuildContext(outerNames []name.TypeName) *Context {
	var ctx *Context
	prefix := name.Root()
	for _, relName := range outerNames {
		abs := relName.WithPrefix(prefix)
		ctx = Append(ctx, abs)
		prefix = abs.ToNamespace()
	}
	return ctx
}
