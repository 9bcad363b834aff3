package declast

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/escalier-lang/envcore/internal/name"
)

func ref(simple string) *TypeNameRef {
	return &TypeNameRef{NS: name.Root(), Simple: simple}
}

func TestEqualTypeExprNameRef(t *testing.T) {
	assert.True(t, EqualTypeExpr(ref("Foo"), ref("Foo")))
	assert.False(t, EqualTypeExpr(ref("Foo"), ref("Bar")))
}

func TestEqualTypeExprWithTypeArgs(t *testing.T) {
	a := &TypeNameRef{NS: name.Root(), Simple: "Array", TypeArgs: []TypeExpr{ref("T")}}
	b := &TypeNameRef{NS: name.Root(), Simple: "Array", TypeArgs: []TypeExpr{ref("T")}}
	c := &TypeNameRef{NS: name.Root(), Simple: "Array", TypeArgs: []TypeExpr{ref("U")}}
	assert.True(t, EqualTypeExpr(a, b))
	assert.False(t, EqualTypeExpr(a, c))
}

func TestEqualTypeExprCompoundShapes(t *testing.T) {
	u1 := &UnionType{Members: []TypeExpr{ref("A"), ref("B")}}
	u2 := &UnionType{Members: []TypeExpr{ref("A"), ref("B")}}
	u3 := &UnionType{Members: []TypeExpr{ref("A"), ref("C")}}
	assert.True(t, EqualTypeExpr(u1, u2))
	assert.False(t, EqualTypeExpr(u1, u3))

	assert.True(t, EqualTypeExpr(&SelfType{}, &SelfType{}))
	assert.True(t, EqualTypeExpr(&LiteralType{Literal: "1"}, &LiteralType{Literal: "1"}))
	assert.False(t, EqualTypeExpr(&LiteralType{Literal: "1"}, &LiteralType{Literal: "2"}))

	assert.False(t, EqualTypeExpr(ref("A"), &SelfType{}))
}

func TestRenameTypeParams(t *testing.T) {
	rename := map[string]string{"T": "U"}

	renamed := RenameTypeParams(ref("T"), rename)
	assert.True(t, EqualTypeExpr(renamed, ref("U")))

	// An identifier not present in the rename map passes through unchanged.
	untouched := RenameTypeParams(ref("Other"), rename)
	assert.True(t, EqualTypeExpr(untouched, ref("Other")))

	nested := &UnionType{Members: []TypeExpr{ref("T"), ref("Other")}}
	renamedNested := RenameTypeParams(nested, rename)
	assert.True(t, EqualTypeExpr(renamedNested, &UnionType{Members: []TypeExpr{ref("U"), ref("Other")}}))
}

func TestRenameTypeParamsPreservesTypeArgs(t *testing.T) {
	rename := map[string]string{"T": "U"}
	generic := &TypeNameRef{NS: name.Root(), Simple: "Array", TypeArgs: []TypeExpr{ref("T")}}
	renamed := RenameTypeParams(generic, rename)
	expected := &TypeNameRef{NS: name.Root(), Simple: "Array", TypeArgs: []TypeExpr{ref("U")}}
	assert.True(t, EqualTypeExpr(renamed, expected))
}
