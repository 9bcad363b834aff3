package envtable

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/escalier-lang/envcore/internal/name"
)

func TestBuildContextEmpty(t *testing.T) {
	ctx := BuildContext(nil)
	assert.Nil(t, ctx)
	assert.Nil(t, ctx.Names())
}

func TestBuildContextNestedPrefixes(t *testing.T) {
	outer := []name.TypeName{
		name.New(name.Root(), "Foo", name.KindClassOrModule),
		name.New(name.Root(), "Bar", name.KindClassOrModule),
	}
	ctx := BuildContext(outer)
	names := ctx.Names()
	if assert.Len(t, names, 2) {
		assert.Equal(t, "::Foo", names[0].Key())
		assert.Equal(t, "::Foo::Bar", names[1].Key())
	}
}

func TestAppend(t *testing.T) {
	base := BuildContext([]name.TypeName{name.New(name.Root(), "Foo", name.KindClassOrModule)})
	extended := Append(base, name.NewAbsolute(name.Namespace{Parts: []string{"Foo"}}, "Bar", name.KindClassOrModule))
	names := extended.Names()
	assert.Equal(t, []string{"::Foo", "::Foo::Bar"}, []string{names[0].Key(), names[1].Key()})
}
