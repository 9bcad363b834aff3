// Package jsonload is a small demo environ.Loader: it decodes a JSON
// manifest of declarations and pushes them into an Environment. The real
// parser that turns source text into declast.Decl trees is out of scope
// (an external collaborator per the design notes, the same way the
// teacher's own internal/parser sits upstream of internal/checker), so
// this package exists only to give cmd/envcore something concrete to load
// for manual smoke-testing, the way the teacher's cmd/escalier reads .esc
// files straight off disk with the standard library (cmd/escalier/build.go)
// rather than through a shared loader abstraction.
package jsonload

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/escalier-lang/envcore/internal/declast"
	"github.com/escalier-lang/envcore/internal/environ"
	"github.com/escalier-lang/envcore/internal/name"
)

// Manifest is the on-disk shape: a flat list of top-level declarations.
type Manifest struct {
	Declarations []Decl `json:"declarations"`
}

// Decl is one JSON-encoded declaration, tagged by Kind. Only the fields
// relevant to Kind are populated; the rest are ignored.
type Decl struct {
	Kind string `json:"kind"`

	Name string `json:"name"` // class, module, interface, type_alias, constant, global

	NewName string `json:"new_name"` // class_alias, module_alias
	OldName string `json:"old_name"`

	TypeParams []TypeParam `json:"type_params"`
	SuperClass *NameRef    `json:"super_class"`
	SelfTypes  []NameRef   `json:"self_types"`
	Extends    []NameRef   `json:"extends"`
	Methods    []Method    `json:"methods"` // interface methods
	Members    []Member    `json:"members"`
	RHS        *TypeExpr   `json:"rhs"`   // type_alias
	Type       *TypeExpr   `json:"type"`  // constant, global
}

type TypeParam struct {
	Name      string    `json:"name"`
	Upper     *TypeExpr `json:"upper"`
	Variance  string    `json:"variance"`
	Unchecked bool      `json:"unchecked"`
}

type NameRef struct {
	Name     string      `json:"name"`
	TypeArgs []TypeExpr  `json:"type_args"`
}

type Method struct {
	Name      string        `json:"name"`
	Kind      string        `json:"method_kind"`
	Overloads []MethodType  `json:"overloads"`
}

type MethodType struct {
	TypeParams []TypeParam `json:"type_params"`
	Params     []Param     `json:"params"`
	Block      *FuncType   `json:"block"`
	Return     *TypeExpr   `json:"return"`
}

type Param struct {
	Name     string    `json:"name"`
	Type     *TypeExpr `json:"type"`
	Optional bool      `json:"optional"`
}

type FuncType struct {
	TypeParams []TypeParam `json:"type_params"`
	Params     []Param     `json:"params"`
	Return     *TypeExpr   `json:"return"`
}

// Member is a class/module member: exactly one of Method, Attr, Var,
// Mixin, or Nested is populated, selected by Kind.
type Member struct {
	Kind string `json:"kind"` // method, attr, var, mixin, nested

	Method *Method  `json:"method"`
	Attr   *AttrDef `json:"attr"`
	Var    *VarDef  `json:"var"`
	Mixin  *MixinDef `json:"mixin"`
	Nested *Decl    `json:"nested"`
}

type AttrDef struct {
	AttrKind string    `json:"attr_kind"` // reader, writer, accessor
	Name     string    `json:"name"`
	Type     *TypeExpr `json:"type"`
}

type VarDef struct {
	VarKind string    `json:"var_kind"` // instance, class, class_instance
	Name    string    `json:"name"`
	Type    *TypeExpr `json:"type"`
}

type MixinDef struct {
	MixinKind string     `json:"mixin_kind"` // include, extend, prepend
	Name      string     `json:"name"`
	TypeArgs  []TypeExpr `json:"type_args"`
}

// TypeExpr is a tagged union over declast.TypeExpr's concrete shapes.
// Exactly one field should be set.
type TypeExpr struct {
	Name     string      `json:"name"`
	TypeArgs []TypeExpr  `json:"type_args"`
	Self     bool        `json:"self"`
	Function *FuncType   `json:"function"`
	Union    []TypeExpr  `json:"union"`
	Inter    []TypeExpr  `json:"intersection"`
	Tuple    []TypeExpr  `json:"tuple"`
	Optional *TypeExpr   `json:"optional"`
	Literal  string      `json:"literal"`
}

// Loader reads Path and pushes its declarations into the environment.
type Loader struct {
	Path string
}

func (l *Loader) Load(env *environ.Environment) error {
	data, err := os.ReadFile(l.Path)
	if err != nil {
		return fmt.Errorf("jsonload: reading %s: %w", l.Path, err)
	}
	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return fmt.Errorf("jsonload: decoding %s: %w", l.Path, err)
	}
	for _, d := range manifest.Declarations {
		decl, err := toDecl(d)
		if err != nil {
			return err
		}
		if err := env.Push(decl); err != nil {
			return err
		}
	}
	return nil
}

func parseName(s string, kind name.Kind) name.TypeName {
	absolute := strings.HasPrefix(s, "::")
	s = strings.TrimPrefix(s, "::")
	parts := strings.Split(s, "::")
	simple := parts[len(parts)-1]
	ns := name.Namespace{Parts: append([]string{}, parts[:len(parts)-1]...)}
	return name.TypeName{NS: ns, Simple: simple, Kind: kind, Absolute: absolute}
}

func toVariance(s string) declast.Variance {
	switch s {
	case "covariant":
		return declast.Covariant
	case "contravariant":
		return declast.Contravariant
	default:
		return declast.Invariant
	}
}

func toTypeParams(ps []TypeParam) []declast.TypeParam {
	if ps == nil {
		return nil
	}
	out := make([]declast.TypeParam, len(ps))
	for i, p := range ps {
		out[i] = declast.TypeParam{
			Name:      p.Name,
			Upper:     toTypeExprPtr(p.Upper),
			Variance:  toVariance(p.Variance),
			Unchecked: p.Unchecked,
		}
	}
	return out
}

func toTypeExprPtr(t *TypeExpr) declast.TypeExpr {
	if t == nil {
		return nil
	}
	return toTypeExpr(*t)
}

func toTypeExpr(t TypeExpr) declast.TypeExpr {
	switch {
	case t.Self:
		return &declast.SelfType{}
	case t.Function != nil:
		return toFuncType(t.Function)
	case t.Union != nil:
		return &declast.UnionType{Members: toTypeExprSlice(t.Union)}
	case t.Inter != nil:
		return &declast.IntersectionType{Members: toTypeExprSlice(t.Inter)}
	case t.Tuple != nil:
		return &declast.TupleType{Elems: toTypeExprSlice(t.Tuple)}
	case t.Optional != nil:
		return &declast.OptionalType{Inner: toTypeExprPtr(t.Optional)}
	case t.Literal != "":
		return &declast.LiteralType{Literal: t.Literal}
	default:
		tn := parseName(t.Name, name.KindUnknown)
		return declast.TypeNameRefFrom(tn, toTypeExprSlice(t.TypeArgs))
	}
}

func toTypeExprSlice(ts []TypeExpr) []declast.TypeExpr {
	if ts == nil {
		return nil
	}
	out := make([]declast.TypeExpr, len(ts))
	for i, t := range ts {
		out[i] = toTypeExpr(t)
	}
	return out
}

func toFuncType(f *FuncType) *declast.FunctionType {
	return &declast.FunctionType{
		TypeParams: toTypeParams(f.TypeParams),
		Params:     toParams(f.Params),
		Return:     toTypeExprPtr(f.Return),
	}
}

func toParams(ps []Param) []declast.Param {
	if ps == nil {
		return nil
	}
	out := make([]declast.Param, len(ps))
	for i, p := range ps {
		out[i] = declast.Param{Name: p.Name, Type: toTypeExprPtr(p.Type), Optional: p.Optional}
	}
	return out
}

func toNameRef(r *NameRef) declast.TypeNameRef {
	if r == nil {
		return declast.TypeNameRef{}
	}
	tn := parseName(r.Name, name.KindClassOrModule)
	return *declast.TypeNameRefFrom(tn, toTypeExprSlice(r.TypeArgs))
}

func toMethodKind(s string) declast.MethodKind {
	switch s {
	case "singleton":
		return declast.SingletonMethod
	case "class_instance":
		return declast.ClassInstanceMethod
	default:
		return declast.InstanceMethod
	}
}

func toMethodMember(m Method) declast.MethodMember {
	overloads := make([]declast.MethodType, len(m.Overloads))
	for i, ov := range m.Overloads {
		var block *declast.FunctionType
		if ov.Block != nil {
			block = toFuncType(ov.Block)
		}
		overloads[i] = declast.MethodType{
			TypeParams: toTypeParams(ov.TypeParams),
			Params:     toParams(ov.Params),
			Block:      block,
			Return:     toTypeExprPtr(ov.Return),
		}
	}
	return declast.MethodMember{Name: m.Name, Kind: toMethodKind(m.Kind), Overloads: overloads}
}

func toAttrKind(s string) declast.AttrKind {
	switch s {
	case "writer":
		return declast.AttrWriter
	case "accessor":
		return declast.AttrAccessor
	default:
		return declast.AttrReader
	}
}

func toVarKind(s string) declast.VarKind {
	switch s {
	case "class":
		return declast.ClassVar
	case "class_instance":
		return declast.ClassInstanceVar
	default:
		return declast.InstanceVar
	}
}

func toMixinKind(s string) declast.MixinKind {
	switch s {
	case "extend":
		return declast.Extend
	case "prepend":
		return declast.Prepend
	default:
		return declast.Include
	}
}

func toMember(m Member) (declast.Member, error) {
	switch m.Kind {
	case "method":
		mm := toMethodMember(*m.Method)
		return &mm, nil
	case "attr":
		return &declast.AttrMember{Kind: toAttrKind(m.Attr.AttrKind), Name: m.Attr.Name, Type: toTypeExprPtr(m.Attr.Type)}, nil
	case "var":
		return &declast.VarMember{Kind: toVarKind(m.Var.VarKind), Name: m.Var.Name, Type: toTypeExprPtr(m.Var.Type)}, nil
	case "mixin":
		tn := parseName(m.Mixin.Name, name.KindClassOrModule)
		return &declast.MixinMember{
			Kind:     toMixinKind(m.Mixin.MixinKind),
			Name:     *declast.TypeNameRefFrom(tn, toTypeExprSlice(m.Mixin.TypeArgs)),
			TypeArgs: toTypeExprSlice(m.Mixin.TypeArgs),
		}, nil
	case "nested":
		nested, err := toDecl(*m.Nested)
		if err != nil {
			return nil, err
		}
		return &declast.NestedMember{Decl: nested}, nil
	default:
		return nil, fmt.Errorf("jsonload: unknown member kind %q", m.Kind)
	}
}

func toMembers(ms []Member) ([]declast.Member, error) {
	out := make([]declast.Member, len(ms))
	for i, m := range ms {
		member, err := toMember(m)
		if err != nil {
			return nil, err
		}
		out[i] = member
	}
	return out, nil
}

func toDecl(d Decl) (declast.Decl, error) {
	switch d.Kind {
	case "class":
		members, err := toMembers(d.Members)
		if err != nil {
			return nil, err
		}
		var super *declast.SuperClassRef
		if d.SuperClass != nil {
			super = &declast.SuperClassRef{Name: toNameRef(d.SuperClass), TypeArgs: toTypeExprSlice(d.SuperClass.TypeArgs)}
		}
		return &declast.ClassDecl{
			Name_:      parseName(d.Name, name.KindClassOrModule),
			TypeParams: toTypeParams(d.TypeParams),
			SuperClass: super,
			Members_:   members,
		}, nil
	case "module":
		members, err := toMembers(d.Members)
		if err != nil {
			return nil, err
		}
		selfTypes := make([]declast.SelfTypeDecl, len(d.SelfTypes))
		for i, st := range d.SelfTypes {
			selfTypes[i] = declast.SelfTypeDecl{Name: toNameRef(&st), TypeArgs: toTypeExprSlice(st.TypeArgs)}
		}
		return &declast.ModuleDecl{
			Name_:      parseName(d.Name, name.KindClassOrModule),
			TypeParams: toTypeParams(d.TypeParams),
			SelfTypes:  selfTypes,
			Members_:   members,
		}, nil
	case "interface":
		extends := make([]declast.TypeNameRef, len(d.Extends))
		for i, e := range d.Extends {
			extends[i] = toNameRef(&e)
		}
		methods := make([]declast.MethodMember, len(d.Methods))
		for i, m := range d.Methods {
			methods[i] = toMethodMember(m)
		}
		return &declast.InterfaceDecl{
			Name_:      parseName(d.Name, name.KindInterface),
			TypeParams: toTypeParams(d.TypeParams),
			Extends:    extends,
			Methods:    methods,
		}, nil
	case "type_alias":
		return &declast.TypeAliasDecl{
			Name_:      parseName(d.Name, name.KindTypeAlias),
			TypeParams: toTypeParams(d.TypeParams),
			RHS:        toTypeExprPtr(d.RHS),
		}, nil
	case "constant":
		return &declast.ConstantDecl{Name_: parseName(d.Name, name.KindConstant), TypeAnn: toTypeExprPtr(d.Type)}, nil
	case "global":
		return &declast.GlobalDecl{Name_: parseName(d.Name, name.KindGlobal), TypeAnn: toTypeExprPtr(d.Type)}, nil
	case "class_alias":
		return &declast.ClassAliasDecl{
			NewName: parseName(d.NewName, name.KindClassOrModule),
			OldName: parseName(d.OldName, name.KindClassOrModule),
		}, nil
	case "module_alias":
		return &declast.ModuleAliasDecl{
			NewName: parseName(d.NewName, name.KindClassOrModule),
			OldName: parseName(d.OldName, name.KindClassOrModule),
		}, nil
	default:
		return nil, fmt.Errorf("jsonload: unknown declaration kind %q", d.Kind)
	}
}
