// Package name implements TypeName and Namespace, the qualified-name value
// types shared by every other package in this module (see §3 of the design
// notes: "Name / Namespace").
package name

import "strings"

// Kind tags what a TypeName denotes. It gates which kind-table an insertion
// or lookup targets, and which operations are legal on a name (only
// KindClassOrModule names may be passed to alias normalization).
type Kind int

const (
	KindClassOrModule Kind = iota
	KindInterface
	KindTypeAlias
	KindConstant
	KindGlobal
	// KindUnknown tags a name that only occurs in a type expression (a
	// method return type, an attribute type, a type-alias RHS, ...) where
	// the referent could be a class, module, interface, or type alias and
	// nothing upstream has disambiguated it. The resolver is responsible
	// for finding the right entry regardless of this tag.
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindClassOrModule:
		return "class-or-module"
	case KindInterface:
		return "interface"
	case KindTypeAlias:
		return "type-alias"
	case KindConstant:
		return "constant"
	case KindGlobal:
		return "global"
	default:
		return "unknown"
	}
}

// Namespace is an ordered sequence of simple identifiers with a distinguished
// root (the empty sequence). Equality is structural.
type Namespace struct {
	Parts []string
}

// Root returns the top-level namespace.
func Root() Namespace {
	return Namespace{}
}

// Append returns a new namespace with id appended to the end.
func (n Namespace) Append(id string) Namespace {
	parts := make([]string, len(n.Parts)+1)
	copy(parts, n.Parts)
	parts[len(n.Parts)] = id
	return Namespace{Parts: parts}
}

// Concat returns a new namespace with other's parts appended after n's own.
func (n Namespace) Concat(other Namespace) Namespace {
	if len(other.Parts) == 0 {
		return n
	}
	parts := make([]string, 0, len(n.Parts)+len(other.Parts))
	parts = append(parts, n.Parts...)
	parts = append(parts, other.Parts...)
	return Namespace{Parts: parts}
}

// Empty reports whether n is the root namespace.
func (n Namespace) Empty() bool {
	return len(n.Parts) == 0
}

// Equal reports structural equality between two namespaces.
func (n Namespace) Equal(o Namespace) bool {
	if len(n.Parts) != len(o.Parts) {
		return false
	}
	for i := range n.Parts {
		if n.Parts[i] != o.Parts[i] {
			return false
		}
	}
	return true
}

// ToTypeName splits the namespace's last component off as a simple
// identifier, treating the remainder as that name's namespace. Used by
// alias normalization to find the "parent" qualifier of an old_name (§4.4).
// Panics on the root namespace, which has no qualifier to split off.
func (n Namespace) ToTypeName() TypeName {
	if len(n.Parts) == 0 {
		panic("name: Namespace.ToTypeName called on the root namespace")
	}
	return TypeName{
		NS:       Namespace{Parts: n.Parts[:len(n.Parts)-1]},
		Simple:   n.Parts[len(n.Parts)-1],
		Kind:     KindClassOrModule,
		Absolute: true,
	}
}

// String renders the namespace the way fully-qualified names are written,
// e.g. "::Foo::Bar".
func (n Namespace) String() string {
	if len(n.Parts) == 0 {
		return "::"
	}
	return "::" + strings.Join(n.Parts, "::")
}

// TypeName is a namespace-qualified identifier tagged with a Kind, either
// absolute (rooted at the top) or relative (as written at some lexical
// position, not yet anchored to the top namespace).
type TypeName struct {
	NS       Namespace
	Simple   string
	Kind     Kind
	Absolute bool
}

// New constructs a relative TypeName.
func New(ns Namespace, simple string, kind Kind) TypeName {
	return TypeName{NS: ns, Simple: simple, Kind: kind}
}

// NewAbsolute constructs an already-absolute TypeName.
func NewAbsolute(ns Namespace, simple string, kind Kind) TypeName {
	return TypeName{NS: ns, Simple: simple, Kind: kind, Absolute: true}
}

// ClassOrModule is the `name.class?` predicate from §3: it gates operations
// (alias normalization in particular) that only make sense for a name that
// denotes a class or module.
func (t TypeName) ClassOrModule() bool {
	return t.Kind == KindClassOrModule
}

// AbsoluteBang coerces a relative name to absolute in place (it does not
// consult any lexical scope; that is the external NameResolver's job). A
// name that is already absolute is returned unchanged.
func (t TypeName) AbsoluteBang() TypeName {
	t.Absolute = true
	return t
}

// WithPrefix prepends ns to t's own namespace and marks the result absolute.
// This is how a relatively-written declaration name becomes a fully
// qualified one once its enclosing namespace is known.
func (t TypeName) WithPrefix(ns Namespace) TypeName {
	return TypeName{
		NS:       ns.Concat(t.NS),
		Simple:   t.Simple,
		Kind:     t.Kind,
		Absolute: true,
	}
}

// ToNamespace converts a class/module name to the namespace it introduces
// for its members, i.e. its own namespace with its simple name appended.
func (t TypeName) ToNamespace() Namespace {
	return t.NS.Append(t.Simple)
}

// Equal reports structural equality, ignoring the Kind and Absolute tags:
// two names with the same namespace and simple identifier are equal
// regardless of why each was constructed.
// This matches the comparisons the alias algorithm performs in §4.4, which
// compare names purely on their qualified path.
func (t TypeName) Equal(o TypeName) bool {
	return t.NS.Equal(o.NS) && t.Simple == o.Simple
}

// Key renders a canonical string key for use in kind tables, independent of
// Kind and Absolute (both tables and lookups only ever operate on absolute
// names, so this is effectively the absolute path string).
func (t TypeName) Key() string {
	if len(t.NS.Parts) == 0 {
		return "::" + t.Simple
	}
	return t.NS.String() + "::" + t.Simple
}

// String renders the name for diagnostics.
func (t TypeName) String() string {
	return t.Key()
}
