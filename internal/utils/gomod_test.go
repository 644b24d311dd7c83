package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoModParser_ResolveModuleName(t *testing.T) {
	root := t.TempDir()
	goMod := "module github.com/acme/bank\n\ngo 1.25\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"), []byte(goMod), 0o644))

	nested := filepath.Join(root, "internal", "svc")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	parser := NewGoModParser()
	name, err := parser.ResolveModuleName(nested)
	require.NoError(t, err)
	assert.Equal(t, "github.com/acme/bank", name)
}

func TestGoModParser_NotAGoModFile(t *testing.T) {
	parser := NewGoModParser()
	_, err := parser.ParseModuleName("/tmp/whatever.txt")
	assert.Error(t, err)
}

func TestGoModParser_NoModule(t *testing.T) {
	root := t.TempDir()
	parser := NewGoModParser()
	_, err := parser.FindGoModFile(root)
	assert.Error(t, err)
}

func TestGoModParser_MissingModuleDeclaration(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "go.mod")
	require.NoError(t, os.WriteFile(path, []byte("go 1.25\n"), 0o644))

	parser := NewGoModParser()
	_, err := parser.ParseModuleName(path)
	assert.ErrorContains(t, err, "no module declaration")
}
