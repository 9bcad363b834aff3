// Package declast is the declaration-fragment AST that the declaration
// environment ingests. The parser that produces these trees, and the AST
// node construction itself, are treated as external collaborators per the
// scope note in the design notes ("concrete AST node construction" is out
// of scope) — this package defines the shapes the environment needs to
// walk, in the style of the teacher's own internal/ast package
// (decl.go, class.go, type_ann.go): exported constructors with keyword-ish
// fields, an Accept-less plain sum type dispatched by type switch (the
// environment's own walks play the role the teacher gives to its Visitor).
package declast

import "github.com/escalier-lang/envcore/internal/name"

// Location identifies where a declaration was parsed from. buffers_decls
// groups by Buffer and silently drops declarations with no Location, per
// §4.7 / §9's note on that behavior.
type Location struct {
	Buffer string
	Line   int
	Column int
}

//sumtype:decl

// Decl is one declaration fragment: Class, Module, Interface, TypeAlias,
// Constant, Global, ClassAlias, or ModuleAlias.
type Decl interface {
	isDecl()
	// DeclName returns the name as written at the declaration site: it may
	// be relative, and for ClassAlias/ModuleAlias it is the *new* name
	// being introduced (old_name is reached through a type assertion).
	DeclName() name.TypeName
	Location() *Location
}

func (*ClassDecl) isDecl()        {}
func (*ModuleDecl) isDecl()       {}
func (*InterfaceDecl) isDecl()    {}
func (*TypeAliasDecl) isDecl()    {}
func (*ConstantDecl) isDecl()     {}
func (*GlobalDecl) isDecl()       {}
func (*ClassAliasDecl) isDecl()   {}
func (*ModuleAliasDecl) isDecl()  {}

// Container is implemented by the two multi-fragment, member-bearing decl
// kinds: ClassDecl and ModuleDecl.
type Container interface {
	Decl
	Members() []Member
	TypeParameters() []TypeParam
}

// Variance tags a type parameter's declared variance.
type Variance int

const (
	Invariant Variance = iota
	Covariant
	Contravariant
)

// TypeParam is a single generic type parameter, with an optional upper
// bound and declared variance, as carried by classes, modules, interfaces,
// type aliases, and individual method overloads.
type TypeParam struct {
	Name      string
	Upper     TypeExpr // optional bound
	Variance  Variance
	Unchecked bool
}

// TypeExpr is a type expression appearing inside a declaration: a method
// signature, an attribute's type, a super-class's type arguments, a type
// alias's right-hand side, and so on. Resolution (§4.6) rewrites every
// TypeNameRef reachable inside a TypeExpr to an absolute name.
type TypeExpr interface {
	isTypeExpr()
}

func (*TypeNameRef) isTypeExpr()      {}
func (*SelfType) isTypeExpr()         {}
func (*FunctionType) isTypeExpr()     {}
func (*UnionType) isTypeExpr()        {}
func (*IntersectionType) isTypeExpr() {}
func (*TupleType) isTypeExpr()        {}
func (*OptionalType) isTypeExpr()     {}
func (*LiteralType) isTypeExpr()      {}

// TypeNameRef is a reference to a named type, as written at some lexical
// position: possibly relative, possibly generic.
type TypeNameRef struct {
	NS       name.Namespace
	Simple   string
	Absolute bool
	TypeArgs []TypeExpr
}

// AsTypeName converts the reference to a name.TypeName, tagged KindUnknown
// since a bare type reference may denote a class, module, interface, or
// type alias; the resolver (not this AST) disambiguates.
func (r *TypeNameRef) AsTypeName() name.TypeName {
	tn := name.TypeName{NS: r.NS, Simple: r.Simple, Kind: name.KindUnknown, Absolute: r.Absolute}
	return tn
}

// TypeNameRefFrom builds a TypeNameRef from a resolved name.TypeName, keeping
// existing type arguments.
func TypeNameRefFrom(tn name.TypeName, typeArgs []TypeExpr) *TypeNameRef {
	return &TypeNameRef{NS: tn.NS, Simple: tn.Simple, Absolute: tn.Absolute, TypeArgs: typeArgs}
}

// SelfType is the `self` / `instance` self-type reference used inside
// module self-type declarations and method bodies.
type SelfType struct{}

// FunctionType is a method/proc signature appearing as a type expression
// (e.g. a block parameter's type).
type FunctionType struct {
	TypeParams []TypeParam
	Params     []Param
	Return     TypeExpr
}

type Param struct {
	Name     string
	Type     TypeExpr
	Optional bool
}

type UnionType struct{ Members []TypeExpr }
type IntersectionType struct{ Members []TypeExpr }
type TupleType struct{ Elems []TypeExpr }
type OptionalType struct{ Inner TypeExpr }
type LiteralType struct{ Literal string }

// SuperClassRef is a class's optional super-class reference: a name plus
// type arguments.
type SuperClassRef struct {
	Name     TypeNameRef
	TypeArgs []TypeExpr
}

// SelfTypeDecl is one of a module's declared self-types.
type SelfTypeDecl struct {
	Name     TypeNameRef
	TypeArgs []TypeExpr
}

// ClassDecl is one fragment of a (possibly multi-fragment) class.
type ClassDecl struct {
	Name_      name.TypeName // relative, as parsed; Kind == KindClassOrModule
	TypeParams []TypeParam
	SuperClass *SuperClassRef // optional
	Members_   []Member
	Loc        *Location
}

func (d *ClassDecl) DeclName() name.TypeName      { return d.Name_ }
func (d *ClassDecl) Location() *Location          { return d.Loc }
func (d *ClassDecl) Members() []Member            { return d.Members_ }
func (d *ClassDecl) TypeParameters() []TypeParam  { return d.TypeParams }

// ModuleDecl is one fragment of a (possibly multi-fragment) module.
type ModuleDecl struct {
	Name_      name.TypeName
	TypeParams []TypeParam
	SelfTypes  []SelfTypeDecl
	Members_   []Member
	Loc        *Location
}

func (d *ModuleDecl) DeclName() name.TypeName     { return d.Name_ }
func (d *ModuleDecl) Location() *Location         { return d.Loc }
func (d *ModuleDecl) Members() []Member           { return d.Members_ }
func (d *ModuleDecl) TypeParameters() []TypeParam { return d.TypeParams }

// InterfaceDecl is a single-fragment interface declaration.
type InterfaceDecl struct {
	Name_      name.TypeName
	TypeParams []TypeParam
	Extends    []TypeNameRef
	Methods    []MethodMember
	Loc        *Location
}

func (d *InterfaceDecl) DeclName() name.TypeName { return d.Name_ }
func (d *InterfaceDecl) Location() *Location     { return d.Loc }

// TypeAliasDecl is a single-fragment type alias.
type TypeAliasDecl struct {
	Name_      name.TypeName
	TypeParams []TypeParam
	RHS        TypeExpr
	Loc        *Location
}

func (d *TypeAliasDecl) DeclName() name.TypeName { return d.Name_ }
func (d *TypeAliasDecl) Location() *Location     { return d.Loc }

// ConstantDecl is a single-fragment constant declaration.
type ConstantDecl struct {
	Name_   name.TypeName
	TypeAnn TypeExpr
	Loc     *Location
}

func (d *ConstantDecl) DeclName() name.TypeName { return d.Name_ }
func (d *ConstantDecl) Location() *Location     { return d.Loc }

// GlobalDecl is a single-fragment global-variable declaration. Globals
// live in their own namespace (§3 invariant 2) so they never collide with
// class/module/interface/type-alias/constant entries.
type GlobalDecl struct {
	Name_   name.TypeName
	TypeAnn TypeExpr
	Loc     *Location
}

func (d *GlobalDecl) DeclName() name.TypeName { return d.Name_ }
func (d *GlobalDecl) Location() *Location     { return d.Loc }

// ClassAliasDecl declares new_name as an alias for old_name, which is
// recorded verbatim and may be relative.
type ClassAliasDecl struct {
	NewName name.TypeName
	OldName name.TypeName
	Loc     *Location
}

func (d *ClassAliasDecl) DeclName() name.TypeName { return d.NewName }
func (d *ClassAliasDecl) Location() *Location     { return d.Loc }

// ModuleAliasDecl declares new_name as an alias for old_name, which is
// recorded verbatim and may be relative.
type ModuleAliasDecl struct {
	NewName name.TypeName
	OldName name.TypeName
	Loc     *Location
}

func (d *ModuleAliasDecl) DeclName() name.TypeName { return d.NewName }
func (d *ModuleAliasDecl) Location() *Location     { return d.Loc }

//sumtype:decl

// Member is a declaration-environment-relevant member of a class or
// module: a method, attribute, variable, mixin (include/extend/prepend),
// or a nested declaration. Member kinds the environment doesn't recognize
// are passed through unchanged by the resolution pass.
type Member interface {
	isMember()
}

func (*MethodMember) isMember() {}
func (*AttrMember) isMember()   {}
func (*VarMember) isMember()    {}
func (*MixinMember) isMember()  {}
func (*NestedMember) isMember() {}

// MethodKind distinguishes instance, singleton (class), and combined
// (class-instance) methods.
type MethodKind int

const (
	InstanceMethod MethodKind = iota
	SingletonMethod
	ClassInstanceMethod
)

// MethodMember is a (possibly overloaded) method definition.
type MethodMember struct {
	Name      string
	Kind      MethodKind
	Overloads []MethodType
}

// MethodType is one overload of a method's signature.
type MethodType struct {
	TypeParams []TypeParam
	Params     []Param
	Block      *FunctionType // optional block/proc parameter
	Return     TypeExpr
}

// AttrKind distinguishes attr_reader / attr_writer / attr_accessor.
type AttrKind int

const (
	AttrReader AttrKind = iota
	AttrWriter
	AttrAccessor
)

// AttrMember is an attribute reader/writer/accessor.
type AttrMember struct {
	Kind AttrKind
	Name string
	Type TypeExpr
}

// VarKind distinguishes instance, class, and class-instance variables.
type VarKind int

const (
	InstanceVar VarKind = iota
	ClassVar
	ClassInstanceVar
)

// VarMember carries a single type to rewrite during resolution (§4.6).
type VarMember struct {
	Kind VarKind
	Name string
	Type TypeExpr
}

// MixinKind distinguishes include / extend / prepend.
type MixinKind int

const (
	Include MixinKind = iota
	Extend
	Prepend
)

// MixinMember names a module to mix in, with type arguments.
type MixinMember struct {
	Kind     MixinKind
	Name     TypeNameRef
	TypeArgs []TypeExpr
}

// NestedMember wraps a declaration nested inside a class or module body:
// a nested class, module, interface, type alias, constant, or
// class/module alias.
type NestedMember struct {
	Decl Decl
}
