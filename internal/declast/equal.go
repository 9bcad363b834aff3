package declast

// RenameTypeParams renames references to the identifiers in rename (old
// type-param name -> new type-param name) wherever they occur as bare type
// references inside t. Used by §4.2's type-parameter compatibility check,
// which renames a later fragment's parameter names to the first fragment's
// before comparing bounds structurally.
func RenameTypeParams(t TypeExpr, rename map[string]string) TypeExpr {
	if t == nil {
		return nil
	}
	switch e := t.(type) {
	case *TypeNameRef:
		if len(e.NS.Parts) == 0 {
			if to, ok := rename[e.Simple]; ok {
				return &TypeNameRef{NS: e.NS, Simple: to, Absolute: e.Absolute, TypeArgs: renameAll(e.TypeArgs, rename)}
			}
		}
		return &TypeNameRef{NS: e.NS, Simple: e.Simple, Absolute: e.Absolute, TypeArgs: renameAll(e.TypeArgs, rename)}
	case *SelfType:
		return e
	case *FunctionType:
		return &FunctionType{
			TypeParams: e.TypeParams,
			Params:     renameParams(e.Params, rename),
			Return:     RenameTypeParams(e.Return, rename),
		}
	case *UnionType:
		return &UnionType{Members: renameAll(e.Members, rename)}
	case *IntersectionType:
		return &IntersectionType{Members: renameAll(e.Members, rename)}
	case *TupleType:
		return &TupleType{Elems: renameAll(e.Elems, rename)}
	case *OptionalType:
		return &OptionalType{Inner: RenameTypeParams(e.Inner, rename)}
	case *LiteralType:
		return e
	default:
		return t
	}
}

func renameAll(ts []TypeExpr, rename map[string]string) []TypeExpr {
	if ts == nil {
		return nil
	}
	out := make([]TypeExpr, len(ts))
	for i, t := range ts {
		out[i] = RenameTypeParams(t, rename)
	}
	return out
}

func renameParams(params []Param, rename map[string]string) []Param {
	if params == nil {
		return nil
	}
	out := make([]Param, len(params))
	for i, p := range params {
		out[i] = Param{Name: p.Name, Type: RenameTypeParams(p.Type, rename), Optional: p.Optional}
	}
	return out
}

// EqualTypeExpr reports whether a and b are structurally equal, ignoring
// source location (TypeExpr carries none directly, but nested decl
// references are compared purely on name/shape).
func EqualTypeExpr(a, b TypeExpr) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case *TypeNameRef:
		y, ok := b.(*TypeNameRef)
		if !ok || x.Absolute != y.Absolute || x.Simple != y.Simple || !x.NS.Equal(y.NS) {
			return false
		}
		return equalTypeExprSlice(x.TypeArgs, y.TypeArgs)
	case *SelfType:
		_, ok := b.(*SelfType)
		return ok
	case *FunctionType:
		y, ok := b.(*FunctionType)
		if !ok || len(x.Params) != len(y.Params) {
			return false
		}
		for i := range x.Params {
			if x.Params[i].Name != y.Params[i].Name || x.Params[i].Optional != y.Params[i].Optional {
				return false
			}
			if !EqualTypeExpr(x.Params[i].Type, y.Params[i].Type) {
				return false
			}
		}
		return EqualTypeExpr(x.Return, y.Return)
	case *UnionType:
		y, ok := b.(*UnionType)
		return ok && equalTypeExprSlice(x.Members, y.Members)
	case *IntersectionType:
		y, ok := b.(*IntersectionType)
		return ok && equalTypeExprSlice(x.Members, y.Members)
	case *TupleType:
		y, ok := b.(*TupleType)
		return ok && equalTypeExprSlice(x.Elems, y.Elems)
	case *OptionalType:
		y, ok := b.(*OptionalType)
		return ok && EqualTypeExpr(x.Inner, y.Inner)
	case *LiteralType:
		y, ok := b.(*LiteralType)
		return ok && x.Literal == y.Literal
	default:
		return false
	}
}

func equalTypeExprSlice(a, b []TypeExpr) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !EqualTypeExpr(a[i], b[i]) {
			return false
		}
	}
	return true
}
