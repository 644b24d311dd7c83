package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func TestExpandPatterns_Recursive(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"svc/accounts.go":       "package svc\n",
		"svc/inner/deep.go":     "package inner\n",
		"docs/readme.md":        "nope\n",
		"vendor/dep/dep.go":     "package dep\n",
		"testdata/fixture.go":   "package fixture\n",
		".hidden/secret.go":     "package secret\n",
		"onlytests/x_test.go":   "package onlytests\n",
		"onlygen/x.chassis.go":  "package onlygen\n",
		"_skipped/skipped.go":   "package skipped\n",
		"plain/justfile.go":     "package plain\n",
	})

	dirs, err := ExpandPatterns([]string{root + "/..."})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		filepath.Join(root, "svc"),
		filepath.Join(root, "svc", "inner"),
		filepath.Join(root, "plain"),
	}, dirs)
}

func TestExpandPatterns_SingleDirectory(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"svc/accounts.go":   "package svc\n",
		"svc/inner/deep.go": "package inner\n",
	})

	dirs, err := ExpandPatterns([]string{filepath.Join(root, "svc")})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "svc")}, dirs, "no recursion without /...")
}

func TestExpandPatterns_Deduplicates(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"svc/a.go": "package svc\n"})

	svc := filepath.Join(root, "svc")
	dirs, err := ExpandPatterns([]string{svc, root + "/...", svc})
	require.NoError(t, err)
	assert.Equal(t, []string{svc}, dirs)
}

func TestWriteFile_CreatesParents(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "deep", "nested", "out.chassis.go")

	require.NoError(t, WriteFile(path, "package deep\n"))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "package deep\n", string(content))
}
