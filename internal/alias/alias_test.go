package alias

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escalier-lang/envcore/internal/declast"
	"github.com/escalier-lang/envcore/internal/entry"
	"github.com/escalier-lang/envcore/internal/name"
)

// fakeLookup is a minimal EntryLookup backed by a plain map, used so this
// package's tests don't depend on environ (which itself depends on alias).
type fakeLookup struct {
	entries map[string]entry.Entry
}

func newFakeLookup() *fakeLookup {
	return &fakeLookup{entries: make(map[string]entry.Entry)}
}

func (l *fakeLookup) ConstantEntry(n name.TypeName) entry.Entry {
	return l.entries[n.Key()]
}

func (l *fakeLookup) putClass(simple string) {
	fq := name.NewAbsolute(name.Root(), simple, name.KindClassOrModule)
	l.entries[fq.Key()] = entry.NewClassEntry(fq)
}

func (l *fakeLookup) putAlias(newSimple, oldSimple string) {
	fq := name.NewAbsolute(name.Root(), newSimple, name.KindClassOrModule)
	old := name.New(name.Root(), oldSimple, name.KindClassOrModule)
	l.entries[fq.Key()] = &entry.ClassAliasEntry{
		FQName: fq,
		Decl:   &declast.ClassAliasDecl{NewName: fq, OldName: old},
	}
}

func TestNormalizeModuleNameQResolvesDirectClass(t *testing.T) {
	l := newFakeLookup()
	l.putClass("Foo")
	n := New(l)

	resolved, err := n.NormalizeModuleNameQ(name.New(name.Root(), "Foo", name.KindClassOrModule))
	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Equal(t, "::Foo", resolved.Key())
}

func TestNormalizeModuleNameQChasesAliasChain(t *testing.T) {
	l := newFakeLookup()
	l.putClass("Base")
	l.putAlias("Mid", "Base")
	l.putAlias("Top", "Mid")
	n := New(l)

	resolved, err := n.NormalizeModuleNameQ(name.New(name.Root(), "Top", name.KindClassOrModule))
	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Equal(t, "::Base", resolved.Key())
}

func TestNormalizeModuleNameQMemoizesResult(t *testing.T) {
	l := newFakeLookup()
	l.putClass("Base")
	l.putAlias("Top", "Base")
	n := New(l)

	tn := name.New(name.Root(), "Top", name.KindClassOrModule)
	first, err := n.NormalizeModuleNameQ(tn)
	require.NoError(t, err)
	second, err := n.NormalizeModuleNameQ(tn)
	require.NoError(t, err)
	assert.Equal(t, first.Key(), second.Key())
}

func TestNormalizeModuleNameQUnresolvedReturnsNil(t *testing.T) {
	l := newFakeLookup()
	n := New(l)

	resolved, err := n.NormalizeModuleNameQ(name.New(name.Root(), "Nowhere", name.KindClassOrModule))
	require.NoError(t, err)
	assert.Nil(t, resolved)
}

func TestNormalizeModuleNameQDetectsCycle(t *testing.T) {
	l := newFakeLookup()
	l.putAlias("A", "B")
	l.putAlias("B", "A")
	n := New(l)

	_, err := n.NormalizeModuleNameQ(name.New(name.Root(), "A", name.KindClassOrModule))
	require.Error(t, err)
	var cyc *CyclicClassAliasDefinition
	require.ErrorAs(t, err, &cyc)
}

func TestNormalizeModuleNamePanicsOnNonClassOrModule(t *testing.T) {
	l := newFakeLookup()
	n := New(l)
	assert.Panics(t, func() {
		n.NormalizeModuleNameQ(name.New(name.Root(), "Foo", name.KindInterface))
	})
}

func TestNormalizeModuleNameTotalWrapperPassesThroughUnresolved(t *testing.T) {
	l := newFakeLookup()
	n := New(l)
	tn := name.New(name.Root(), "Nowhere", name.KindClassOrModule)
	assert.Equal(t, tn, n.NormalizeModuleName(tn))
}

func TestAliasQualifierReanchoredThroughNormalizedParent(t *testing.T) {
	l := newFakeLookup()
	l.putClass("Base")
	l.putAlias("AliasOfBase", "Base")

	nestedFQ := name.NewAbsolute(name.Namespace{Parts: []string{"Base"}}, "Foo", name.KindClassOrModule)
	l.entries[nestedFQ.Key()] = entry.NewClassEntry(nestedFQ)

	// Y is an alias whose old_name is qualified by the *unnormalized*
	// parent "AliasOfBase"; per §4.4 the parent qualifier must itself be
	// normalized (to "Base") before the qualified name is looked up.
	qualifiedOld := name.New(name.Namespace{Parts: []string{"AliasOfBase"}}, "Foo", name.KindClassOrModule)
	yFQ := name.NewAbsolute(name.Root(), "Y", name.KindClassOrModule)
	l.entries[yFQ.Key()] = &entry.ClassAliasEntry{
		FQName: yFQ,
		Decl:   &declast.ClassAliasDecl{NewName: yFQ, OldName: qualifiedOld},
	}

	n := New(l)
	resolved, err := n.NormalizeModuleNameQ(name.New(name.Root(), "Y", name.KindClassOrModule))
	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Equal(t, "::Base::Foo", resolved.Key())
}
