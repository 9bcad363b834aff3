package environ

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escalier-lang/envcore/internal/declast"
	"github.com/escalier-lang/envcore/internal/entry"
	"github.com/escalier-lang/envcore/internal/name"
)

func classDecl(simple string, superClass *declast.SuperClassRef, members ...declast.Member) *declast.ClassDecl {
	return &declast.ClassDecl{
		Name_:      name.New(name.Root(), simple, name.KindClassOrModule),
		SuperClass: superClass,
		Members_:   members,
	}
}

func moduleDecl(simple string, members ...declast.Member) *declast.ModuleDecl {
	return &declast.ModuleDecl{
		Name_:    name.New(name.Root(), simple, name.KindClassOrModule),
		Members_: members,
	}
}

func TestPushSimpleClassWithMethod(t *testing.T) {
	env := New()
	method := &declast.MethodMember{Name: "bar", Overloads: []declast.MethodType{{}}}
	require.NoError(t, env.Push(classDecl("Foo", nil, method)))

	fq := name.NewAbsolute(name.Root(), "Foo", name.KindClassOrModule)
	assert.True(t, env.ModuleName(fq))
	assert.True(t, env.ClassDecl(fq))
	assert.False(t, env.ModuleDecl(fq))
}

func TestModuleReopeningMergesFragments(t *testing.T) {
	env := New()
	require.NoError(t, env.Push(moduleDecl("Foo")))
	require.NoError(t, env.Push(moduleDecl("Foo")))

	fq := name.NewAbsolute(name.Root(), "Foo", name.KindClassOrModule)
	ent := env.ModuleClassEntry(fq)
	require.NotNil(t, ent)
	me, ok := ent.(*entry.ModuleEntry)
	require.True(t, ok)
	assert.Len(t, me.Fragments, 2)
}

func TestModuleReopeningTypeParamMismatch(t *testing.T) {
	env := New()
	first := &declast.ModuleDecl{
		Name_:      name.New(name.Root(), "Foo", name.KindClassOrModule),
		TypeParams: []declast.TypeParam{{Name: "T"}},
	}
	second := &declast.ModuleDecl{
		Name_: name.New(name.Root(), "Foo", name.KindClassOrModule),
	}
	require.NoError(t, env.Push(first))
	require.NoError(t, env.Push(second))

	fq := name.NewAbsolute(name.Root(), "Foo", name.KindClassOrModule)
	ent := env.ModuleClassEntry(fq)
	me := ent.(*entry.ModuleEntry)
	_, err := me.Primary()
	var mismatch *entry.GenericParameterMismatch
	require.ErrorAs(t, err, &mismatch)
}

func TestClassAliasChainNormalizes(t *testing.T) {
	env := New()
	require.NoError(t, env.Push(classDecl("Base", nil)))
	require.NoError(t, env.Push(&declast.ClassAliasDecl{
		NewName: name.New(name.Root(), "Mid", name.KindClassOrModule),
		OldName: name.New(name.Root(), "Base", name.KindClassOrModule),
	}))
	require.NoError(t, env.Push(&declast.ClassAliasDecl{
		NewName: name.New(name.Root(), "Top", name.KindClassOrModule),
		OldName: name.New(name.Root(), "Mid", name.KindClassOrModule),
	}))

	top := name.New(name.Root(), "Top", name.KindClassOrModule)
	canon, err := env.NormalizeModuleNameQ(top)
	require.NoError(t, err)
	require.NotNil(t, canon)
	assert.Equal(t, "::Base", canon.Key())
}

func TestCyclicClassAliasIsDetected(t *testing.T) {
	env := New()
	require.NoError(t, env.Push(&declast.ClassAliasDecl{
		NewName: name.New(name.Root(), "A", name.KindClassOrModule),
		OldName: name.New(name.Root(), "B", name.KindClassOrModule),
	}))
	require.NoError(t, env.Push(&declast.ClassAliasDecl{
		NewName: name.New(name.Root(), "B", name.KindClassOrModule),
		OldName: name.New(name.Root(), "A", name.KindClassOrModule),
	}))

	a := name.New(name.Root(), "A", name.KindClassOrModule)
	_, err := env.NormalizeModuleNameQ(a)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cyclic")
}

func TestDuplicateKindCollision(t *testing.T) {
	env := New()
	require.NoError(t, env.Push(classDecl("Foo", nil)))

	err := env.Push(moduleDecl("Foo"))
	var dup *DuplicatedDeclaration
	require.ErrorAs(t, err, &dup)
}

func TestConstantCollidesWithClassAlias(t *testing.T) {
	env := New()
	require.NoError(t, env.Push(&declast.ClassAliasDecl{
		NewName: name.New(name.Root(), "Foo", name.KindClassOrModule),
		OldName: name.New(name.Root(), "Bar", name.KindClassOrModule),
	}))

	err := env.Push(&declast.ConstantDecl{Name_: name.New(name.Root(), "Foo", name.KindConstant)})
	var dup *DuplicatedDeclaration
	require.ErrorAs(t, err, &dup)
}

func TestGlobalsAreTheirOwnNamespace(t *testing.T) {
	env := New()
	require.NoError(t, env.Push(classDecl("Foo", nil)))
	// A global with the same simple name as an existing class never
	// collides: globals are checked only against other globals.
	require.NoError(t, env.Push(&declast.GlobalDecl{Name_: name.New(name.Root(), "Foo", name.KindGlobal)}))
}

func TestNestedClassKeepsSuperClassReference(t *testing.T) {
	env := New()
	nestedSuper := &declast.SuperClassRef{Name: declast.TypeNameRef{NS: name.Root(), Simple: "Base"}}
	inner := &declast.NestedMember{Decl: classDecl("Inner", nestedSuper)}
	require.NoError(t, env.Push(classDecl("Base", nil)))
	require.NoError(t, env.Push(classDecl("Outer", nil, inner)))

	fq := name.NewAbsolute(name.Namespace{Parts: []string{"Outer"}}, "Inner", name.KindClassOrModule)
	ent := env.ModuleClassEntry(fq)
	require.NotNil(t, ent)
	ce := ent.(*entry.ClassEntry)
	primary, err := ce.Primary()
	require.NoError(t, err)
	assert.Equal(t, "Base", primary.Decl.(*declast.ClassDecl).SuperClass.Name.Simple)
}

func TestCopyIsIndependent(t *testing.T) {
	env := New()
	require.NoError(t, env.Push(classDecl("Foo", nil)))
	dup := env.Copy()
	require.NoError(t, dup.Push(classDecl("Bar", nil)))

	fq := name.NewAbsolute(name.Root(), "Bar", name.KindClassOrModule)
	assert.False(t, env.ModuleName(fq))
	assert.True(t, dup.ModuleName(fq))
	assert.NotEqual(t, env.ID, dup.ID)
}

func TestBuffersDropsDeclsWithoutLocation(t *testing.T) {
	env := New()
	withLoc := classDecl("Foo", nil)
	withLoc.Loc = &declast.Location{Buffer: "a.rbs"}
	require.NoError(t, env.Push(withLoc))
	require.NoError(t, env.Push(classDecl("Bar", nil)))

	assert.Equal(t, []string{"a.rbs"}, env.Buffers())
}

func TestRejectRebuildsEnvironment(t *testing.T) {
	env := New()
	foo := classDecl("Foo", nil)
	require.NoError(t, env.Push(foo))
	require.NoError(t, env.Push(classDecl("Bar", nil)))

	rejected, err := env.Reject(func(d declast.Decl) bool {
		return d.DeclName().Simple == "Foo"
	})
	require.NoError(t, err)
	assert.False(t, rejected.ModuleName(name.NewAbsolute(name.Root(), "Foo", name.KindClassOrModule)))
	assert.True(t, rejected.ModuleName(name.NewAbsolute(name.Root(), "Bar", name.KindClassOrModule)))
}

func TestDebugInspectorCounts(t *testing.T) {
	env := New()
	require.NoError(t, env.Push(classDecl("Foo", nil)))
	require.NoError(t, env.Push(&declast.ConstantDecl{Name_: name.New(name.Root(), "C", name.KindConstant)}))

	counts := env.DebugInspector()
	assert.Equal(t, 2, counts["declarations"])
	assert.Equal(t, 1, counts["class_decls"])
	assert.Equal(t, 1, counts["constant_decls"])
}

func TestValidateTypeParamsCollectsAllErrors(t *testing.T) {
	env := New()
	require.NoError(t, env.Push(&declast.ModuleDecl{
		Name_:      name.New(name.Root(), "A", name.KindClassOrModule),
		TypeParams: []declast.TypeParam{{Name: "T"}},
	}))
	require.NoError(t, env.Push(&declast.ModuleDecl{Name_: name.New(name.Root(), "A", name.KindClassOrModule)}))
	require.NoError(t, env.Push(&declast.ModuleDecl{
		Name_:      name.New(name.Root(), "B", name.KindClassOrModule),
		TypeParams: []declast.TypeParam{{Name: "U"}},
	}))
	require.NoError(t, env.Push(&declast.ModuleDecl{Name_: name.New(name.Root(), "B", name.KindClassOrModule)}))

	errs := env.ValidateTypeParams()
	assert.Len(t, errs, 2)
}
