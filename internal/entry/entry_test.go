package entry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escalier-lang/envcore/internal/declast"
	"github.com/escalier-lang/envcore/internal/name"
)

func classDecl(typeParams []declast.TypeParam, superClass *declast.SuperClassRef) *declast.ClassDecl {
	return &declast.ClassDecl{
		Name_:      name.New(name.Root(), "Foo", name.KindClassOrModule),
		TypeParams: typeParams,
		SuperClass: superClass,
	}
}

func TestClassEntryPrimaryPrefersFragmentWithSuperClass(t *testing.T) {
	fq := name.NewAbsolute(name.Root(), "Foo", name.KindClassOrModule)
	ce := NewClassEntry(fq)

	ce.AppendFragment(classDecl(nil, nil), nil)
	super := &declast.SuperClassRef{Name: declast.TypeNameRef{NS: name.Root(), Simple: "Base"}}
	ce.AppendFragment(classDecl(nil, super), nil)

	primary, err := ce.Primary()
	require.NoError(t, err)
	assert.Same(t, ce.Fragments[1], primary)
}

func TestClassEntryPrimaryFallsBackToFirstFragment(t *testing.T) {
	fq := name.NewAbsolute(name.Root(), "Foo", name.KindClassOrModule)
	ce := NewClassEntry(fq)
	ce.AppendFragment(classDecl(nil, nil), nil)
	ce.AppendFragment(classDecl(nil, nil), nil)

	primary, err := ce.Primary()
	require.NoError(t, err)
	assert.Same(t, ce.Fragments[0], primary)
}

func TestValidateTypeParamsArityMismatch(t *testing.T) {
	fq := name.NewAbsolute(name.Root(), "Foo", name.KindClassOrModule)
	ce := NewClassEntry(fq)
	ce.AppendFragment(classDecl([]declast.TypeParam{{Name: "T"}}, nil), nil)
	ce.AppendFragment(classDecl(nil, nil), nil)

	err := ce.ValidateTypeParams()
	require.Error(t, err)
	var mismatch *GenericParameterMismatch
	require.ErrorAs(t, err, &mismatch)
	assert.Contains(t, mismatch.Reason, "arity")
}

func TestValidateTypeParamsAllowsRenamedBounds(t *testing.T) {
	fq := name.NewAbsolute(name.Root(), "Foo", name.KindClassOrModule)
	ce := NewClassEntry(fq)
	upperT := &declast.TypeNameRef{NS: name.Root(), Simple: "T"}
	upperU := &declast.TypeNameRef{NS: name.Root(), Simple: "U"}
	ce.AppendFragment(classDecl([]declast.TypeParam{{Name: "T", Upper: upperT}}, nil), nil)
	ce.AppendFragment(classDecl([]declast.TypeParam{{Name: "U", Upper: upperU}}, nil), nil)

	assert.NoError(t, ce.ValidateTypeParams())
}

func TestValidateTypeParamsDetectsVarianceMismatch(t *testing.T) {
	fq := name.NewAbsolute(name.Root(), "Foo", name.KindClassOrModule)
	ce := NewClassEntry(fq)
	ce.AppendFragment(classDecl([]declast.TypeParam{{Name: "T", Variance: declast.Covariant}}, nil), nil)
	ce.AppendFragment(classDecl([]declast.TypeParam{{Name: "U", Variance: declast.Invariant}}, nil), nil)

	err := ce.ValidateTypeParams()
	require.Error(t, err)
	var mismatch *GenericParameterMismatch
	require.ErrorAs(t, err, &mismatch)
	assert.Contains(t, mismatch.Reason, "variance")
}

func TestValidateTypeParamsMemoized(t *testing.T) {
	fq := name.NewAbsolute(name.Root(), "Foo", name.KindClassOrModule)
	ce := NewClassEntry(fq)
	ce.AppendFragment(classDecl(nil, nil), nil)

	err1 := ce.ValidateTypeParams()
	err2 := ce.ValidateTypeParams()
	assert.NoError(t, err1)
	assert.NoError(t, err2)
}

func TestFragmentContextMemoized(t *testing.T) {
	f := &Fragment{
		Decl:  classDecl(nil, nil),
		Outer: []name.TypeName{name.New(name.Root(), "Outer", name.KindClassOrModule)},
	}
	ctx1 := f.Context()
	ctx2 := f.Context()
	assert.Same(t, ctx1, ctx2)
	names := ctx1.Names()
	if assert.Len(t, names, 2) {
		assert.Equal(t, "::Outer", names[0].Key())
		assert.Equal(t, "::Outer::Foo", names[1].Key())
	}
}

func TestAliasEntryOld(t *testing.T) {
	decl := &declast.ClassAliasDecl{
		NewName: name.New(name.Root(), "New", name.KindClassOrModule),
		OldName: name.New(name.Root(), "Old", name.KindClassOrModule),
	}
	ce := &ClassAliasEntry{FQName: name.NewAbsolute(name.Root(), "New", name.KindClassOrModule), Decl: decl}
	var ae AliasEntry = ce
	assert.Equal(t, "Old", ae.Old().Simple)
}
