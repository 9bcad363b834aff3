// Package resolve implements the resolution pass of §4.6: a pure
// transformation producing a new environment whose declarations carry
// absolute type names, threading (outer, prefix, context) through a
// visitor-style fold over the declaration tree — the same "fold that
// threads accumulated state without mutating the source" shape the teacher
// uses for its own checker (internal/checker/infer_module.go's
// GetDeclContext/GetNamespaceCtx thread a Context/namespace while walking
// declarations) and for tree rewriting in internal/ast's Accept(Visitor)
// methods.
package resolve

import (
	"github.com/escalier-lang/envcore/internal/declast"
	"github.com/escalier-lang/envcore/internal/environ"
	"github.com/escalier-lang/envcore/internal/envtable"
	"github.com/escalier-lang/envcore/internal/name"
)

// NameResolver is the external collaborator of §6: given a type name and
// its lexical context, it returns the name's absolute form, or false if
// lookup fails. The environment calls this but never implements it.
type NameResolver interface {
	Resolve(tn name.TypeName, ctx *envtable.Context) (name.TypeName, bool)
}

// ResolveTypeNames produces a new environment whose declarations are
// structurally identical to env's except that every type-name occurrence
// has been rewritten to its absolute form via resolver. If only is
// non-nil, declarations not present in it are copied across unchanged. The
// pass never mutates env.
func ResolveTypeNames(env *environ.Environment, resolver NameResolver, only map[declast.Decl]bool) (*environ.Environment, error) {
	result := environ.New()
	for _, decl := range env.Declarations {
		var out declast.Decl
		if only != nil && !only[decl] {
			out = decl
		} else {
			out = resolveDeclaration(decl, nil, name.Root(), resolver)
		}
		if err := result.Push(out); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func resolveDeclaration(decl declast.Decl, outerNames []name.TypeName, prefix name.Namespace, resolver NameResolver) declast.Decl {
	switch d := decl.(type) {
	case *declast.GlobalDecl:
		return &declast.GlobalDecl{
			Name_:   d.Name_.WithPrefix(prefix),
			TypeAnn: absoluteType(d.TypeAnn, nil, resolver),
			Loc:     d.Loc,
		}
	case *declast.ClassDecl:
		return resolveClass(d, outerNames, prefix, resolver)
	case *declast.ModuleDecl:
		return resolveModule(d, outerNames, prefix, resolver)
	case *declast.InterfaceDecl:
		outerCtx := envtable.BuildContext(outerNames)
		extends := make([]declast.TypeNameRef, len(d.Extends))
		for i, ext := range d.Extends {
			extends[i] = *absoluteNameRef(&ext, outerCtx, resolver)
		}
		return &declast.InterfaceDecl{
			Name_:      d.Name_.WithPrefix(prefix),
			TypeParams: resolveTypeParams(d.TypeParams, outerCtx, resolver),
			Extends:    extends,
			Methods:    resolveMethodMembers(d.Methods, outerCtx, resolver),
			Loc:        d.Loc,
		}
	case *declast.TypeAliasDecl:
		outerCtx := envtable.BuildContext(outerNames)
		return &declast.TypeAliasDecl{
			Name_:      d.Name_.WithPrefix(prefix),
			TypeParams: resolveTypeParams(d.TypeParams, outerCtx, resolver),
			RHS:        absoluteType(d.RHS, outerCtx, resolver),
			Loc:        d.Loc,
		}
	case *declast.ConstantDecl:
		outerCtx := envtable.BuildContext(outerNames)
		return &declast.ConstantDecl{
			Name_:   d.Name_.WithPrefix(prefix),
			TypeAnn: absoluteType(d.TypeAnn, outerCtx, resolver),
			Loc:     d.Loc,
		}
	case *declast.ClassAliasDecl:
		outerCtx := envtable.BuildContext(outerNames)
		return &declast.ClassAliasDecl{
			NewName: d.NewName.WithPrefix(prefix),
			OldName: resolveAliasOldName(d.OldName, outerCtx, resolver),
			Loc:     d.Loc,
		}
	case *declast.ModuleAliasDecl:
		outerCtx := envtable.BuildContext(outerNames)
		return &declast.ModuleAliasDecl{
			NewName: d.NewName.WithPrefix(prefix),
			OldName: resolveAliasOldName(d.OldName, outerCtx, resolver),
			Loc:     d.Loc,
		}
	default:
		return decl
	}
}

func resolveAliasOldName(old name.TypeName, ctx *envtable.Context, resolver NameResolver) name.TypeName {
	if resolved, ok := resolver.Resolve(old, ctx); ok {
		return resolved
	}
	return old
}

func resolveClass(d *declast.ClassDecl, outerNames []name.TypeName, prefix name.Namespace, resolver NameResolver) declast.Decl {
	outerCtx := envtable.BuildContext(outerNames)
	absName := d.Name_.WithPrefix(prefix)
	innerCtx := envtable.Append(outerCtx, absName)
	outerNames2 := append(append([]name.TypeName{}, outerNames...), d.Name_)
	prefix2 := absName.ToNamespace()

	var superClass *declast.SuperClassRef
	if d.SuperClass != nil {
		// The super-class reference is resolved in the *outer* context: a
		// class cannot see itself while naming what it extends.
		superClass = &declast.SuperClassRef{
			Name:     *absoluteNameRef(&d.SuperClass.Name, outerCtx, resolver),
			TypeArgs: absoluteTypeSlice(d.SuperClass.TypeArgs, outerCtx, resolver),
		}
	}

	members := make([]declast.Member, len(d.Members_))
	for i, m := range d.Members_ {
		members[i] = resolveMember(m, outerNames2, prefix2, innerCtx, resolver)
	}

	return &declast.ClassDecl{
		Name_:      absName,
		TypeParams: resolveTypeParams(d.TypeParams, innerCtx, resolver),
		SuperClass: superClass,
		Members_:   members,
		Loc:        d.Loc,
	}
}

func resolveModule(d *declast.ModuleDecl, outerNames []name.TypeName, prefix name.Namespace, resolver NameResolver) declast.Decl {
	outerCtx := envtable.BuildContext(outerNames)
	absName := d.Name_.WithPrefix(prefix)
	innerCtx := envtable.Append(outerCtx, absName)
	outerNames2 := append(append([]name.TypeName{}, outerNames...), d.Name_)
	prefix2 := absName.ToNamespace()

	// A module's self-types and members are resolved in the *inner*
	// context: unlike a super class, a self-type can legitimately
	// reference the module itself.
	selfTypes := make([]declast.SelfTypeDecl, len(d.SelfTypes))
	for i, st := range d.SelfTypes {
		selfTypes[i] = declast.SelfTypeDecl{
			Name:     *absoluteNameRef(&st.Name, innerCtx, resolver),
			TypeArgs: absoluteTypeSlice(st.TypeArgs, innerCtx, resolver),
		}
	}

	members := make([]declast.Member, len(d.Members_))
	for i, m := range d.Members_ {
		members[i] = resolveMember(m, outerNames2, prefix2, innerCtx, resolver)
	}

	return &declast.ModuleDecl{
		Name_:      absName,
		TypeParams: resolveTypeParams(d.TypeParams, innerCtx, resolver),
		SelfTypes:  selfTypes,
		Members_:   members,
		Loc:        d.Loc,
	}
}

func resolveMember(m declast.Member, outerNames []name.TypeName, prefix name.Namespace, ctx *envtable.Context, resolver NameResolver) declast.Member {
	switch v := m.(type) {
	case *declast.MethodMember:
		return &declast.MethodMember{
			Name:      v.Name,
			Kind:      v.Kind,
			Overloads: resolveMethodTypes(v.Overloads, ctx, resolver),
		}
	case *declast.AttrMember:
		return &declast.AttrMember{
			Kind: v.Kind,
			Name: v.Name,
			Type: absoluteType(v.Type, ctx, resolver),
		}
	case *declast.VarMember:
		return &declast.VarMember{
			Kind: v.Kind,
			Name: v.Name,
			Type: absoluteType(v.Type, ctx, resolver),
		}
	case *declast.MixinMember:
		return &declast.MixinMember{
			Kind:     v.Kind,
			Name:     *absoluteNameRef(&v.Name, ctx, resolver),
			TypeArgs: absoluteTypeSlice(v.TypeArgs, ctx, resolver),
		}
	case *declast.NestedMember:
		return &declast.NestedMember{Decl: resolveDeclaration(v.Decl, outerNames, prefix, resolver)}
	default:
		// Unknown member kinds are passed through unchanged (§4.6).
		return m
	}
}

func resolveMethodMembers(methods []declast.MethodMember, ctx *envtable.Context, resolver NameResolver) []declast.MethodMember {
	if methods == nil {
		return nil
	}
	out := make([]declast.MethodMember, len(methods))
	for i, mm := range methods {
		out[i] = declast.MethodMember{
			Name:      mm.Name,
			Kind:      mm.Kind,
			Overloads: resolveMethodTypes(mm.Overloads, ctx, resolver),
		}
	}
	return out
}

func resolveMethodTypes(overloads []declast.MethodType, ctx *envtable.Context, resolver NameResolver) []declast.MethodType {
	if overloads == nil {
		return nil
	}
	out := make([]declast.MethodType, len(overloads))
	for i, ov := range overloads {
		var block *declast.FunctionType
		if ov.Block != nil {
			block = resolveFunctionType(ov.Block, ctx, resolver)
		}
		out[i] = declast.MethodType{
			TypeParams: resolveTypeParams(ov.TypeParams, ctx, resolver),
			Params:     resolveParams(ov.Params, ctx, resolver),
			Block:      block,
			Return:     absoluteType(ov.Return, ctx, resolver),
		}
	}
	return out
}

func resolveFunctionType(ft *declast.FunctionType, ctx *envtable.Context, resolver NameResolver) *declast.FunctionType {
	return &declast.FunctionType{
		TypeParams: resolveTypeParams(ft.TypeParams, ctx, resolver),
		Params:     resolveParams(ft.Params, ctx, resolver),
		Return:     absoluteType(ft.Return, ctx, resolver),
	}
}

func resolveParams(params []declast.Param, ctx *envtable.Context, resolver NameResolver) []declast.Param {
	if params == nil {
		return nil
	}
	out := make([]declast.Param, len(params))
	for i, p := range params {
		out[i] = declast.Param{Name: p.Name, Type: absoluteType(p.Type, ctx, resolver), Optional: p.Optional}
	}
	return out
}

// resolveTypeParams maps each type parameter's bound; this mirrors
// "each overload's method type is mapped, both in ordinary type positions
// and in type-parameter bound positions" from §4.6, applied to every
// declaration kind that carries type parameters.
func resolveTypeParams(params []declast.TypeParam, ctx *envtable.Context, resolver NameResolver) []declast.TypeParam {
	if params == nil {
		return nil
	}
	out := make([]declast.TypeParam, len(params))
	for i, p := range params {
		out[i] = declast.TypeParam{
			Name:      p.Name,
			Upper:     absoluteType(p.Upper, ctx, resolver),
			Variance:  p.Variance,
			Unchecked: p.Unchecked,
		}
	}
	return out
}

// absoluteNameRef rewrites a single TypeNameRef via the resolver, keeping
// the original name if resolution fails so that downstream diagnostics can
// pinpoint the failure (§4.6, §7).
func absoluteNameRef(ref *declast.TypeNameRef, ctx *envtable.Context, resolver NameResolver) *declast.TypeNameRef {
	typeArgs := absoluteTypeSlice(ref.TypeArgs, ctx, resolver)
	if resolved, ok := resolver.Resolve(ref.AsTypeName(), ctx); ok {
		return declast.TypeNameRefFrom(resolved, typeArgs)
	}
	return &declast.TypeNameRef{NS: ref.NS, Simple: ref.Simple, Absolute: ref.Absolute, TypeArgs: typeArgs}
}

// absoluteType walks a type expression, replacing any embedded type name
// with the resolver's result; unresolved names are left as-is.
func absoluteType(t declast.TypeExpr, ctx *envtable.Context, resolver NameResolver) declast.TypeExpr {
	if t == nil {
		return nil
	}
	switch e := t.(type) {
	case *declast.TypeNameRef:
		return absoluteNameRef(e, ctx, resolver)
	case *declast.SelfType:
		return e
	case *declast.FunctionType:
		return resolveFunctionType(e, ctx, resolver)
	case *declast.UnionType:
		return &declast.UnionType{Members: absoluteTypeSlice(e.Members, ctx, resolver)}
	case *declast.IntersectionType:
		return &declast.IntersectionType{Members: absoluteTypeSlice(e.Members, ctx, resolver)}
	case *declast.TupleType:
		return &declast.TupleType{Elems: absoluteTypeSlice(e.Elems, ctx, resolver)}
	case *declast.OptionalType:
		return &declast.OptionalType{Inner: absoluteType(e.Inner, ctx, resolver)}
	case *declast.LiteralType:
		return e
	default:
		return t
	}
}

func absoluteTypeSlice(ts []declast.TypeExpr, ctx *envtable.Context, resolver NameResolver) []declast.TypeExpr {
	if ts == nil {
		return nil
	}
	out := make([]declast.TypeExpr, len(ts))
	for i, t := range ts {
		out[i] = absoluteType(t, ctx, resolver)
	}
	return out
}
