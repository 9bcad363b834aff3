package jsonload

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escalier-lang/envcore/internal/environ"
	"github.com/escalier-lang/envcore/internal/name"
)

const manifest = `{
  "declarations": [
    {
      "kind": "class",
      "name": "Base",
      "members": [
        {"kind": "method", "method": {"name": "greet", "overloads": [{"return": {"name": "String"}}]}}
      ]
    },
    {
      "kind": "class",
      "name": "Foo",
      "super_class": {"name": "Base"},
      "members": [
        {"kind": "attr", "attr": {"attr_kind": "reader", "name": "bar", "type": {"name": "Integer"}}}
      ]
    },
    {"kind": "class_alias", "new_name": "FooAlias", "old_name": "Foo"},
    {"kind": "constant", "name": "VERSION", "type": {"literal": "1"}}
  ]
}`

func TestLoaderPushesDeclarations(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.json")
	require.NoError(t, os.WriteFile(path, []byte(manifest), 0o644))

	env, err := environ.FromLoader(&Loader{Path: path})
	require.NoError(t, err)

	assert.True(t, env.ClassDecl(name.NewAbsolute(name.Root(), "Base", name.KindClassOrModule)))
	assert.True(t, env.ClassDecl(name.NewAbsolute(name.Root(), "Foo", name.KindClassOrModule)))
	assert.True(t, env.ClassAliasName(name.NewAbsolute(name.Root(), "FooAlias", name.KindClassOrModule)))
	assert.True(t, env.ConstantName(name.NewAbsolute(name.Root(), "VERSION", name.KindConstant)))
}

func TestLoaderRejectsUnknownManifest(t *testing.T) {
	_, err := environ.FromLoader(&Loader{Path: "/nonexistent/manifest.json"})
	assert.Error(t, err)
}
