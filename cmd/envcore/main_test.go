package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureManifest = `{
  "declarations": [
    {"kind": "class", "name": "Foo"},
    {"kind": "constant", "name": "VERSION", "type": {"literal": "1"}}
  ]
}`

func writeFixture(t *testing.T) string {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.json")
	require.NoError(t, os.WriteFile(path, []byte(fixtureManifest), 0o644))
	return path
}

func TestInspectReportsTableCounts(t *testing.T) {
	path := writeFixture(t)
	var stdout, stderr bytes.Buffer

	inspect(&stdout, &stderr, []string{path})

	assert.Contains(t, stdout.String(), "class_decls")
	assert.Contains(t, stdout.String(), "constant_decls")
	assert.Empty(t, stderr.String())
}

func TestResolveTypeNamesReportsDeclarationCount(t *testing.T) {
	path := writeFixture(t)
	var stdout, stderr bytes.Buffer

	resolveTypeNames(&stdout, &stderr, []string{path})

	assert.Contains(t, stdout.String(), "resolved 2 top-level declarations")
}
