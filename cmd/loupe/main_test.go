package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/loupe"
)

func TestFindRepoRoot_DirectGitDir(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}

	got := findRepoRoot(root)
	assert.Equal(t, root, got)
}

func TestFindRepoRoot_NestedSubdirectory(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}
	deep := filepath.Join(root, "sub", "deep")
	if err := os.MkdirAll(deep, 0o755); err != nil {
		t.Fatal(err)
	}

	got := findRepoRoot(deep)
	assert.Equal(t, root, got)
}

func TestFindRepoRoot_NoGitAncestor(t *testing.T) {
	t.Parallel()
	// TempDir has no .git directory anywhere in its ancestry
	// (unless /tmp itself is a repo, which would be unusual).
	dir := t.TempDir()

	got := findRepoRoot(dir)
	assert.Equal(t, dir, got)
}

func TestValidateFormat(t *testing.T) {
	t.Parallel()
	require.NoError(t, validateFormat("json"))
	require.NoError(t, validateFormat("text"))
	assert.Error(t, validateFormat("yaml"))
}

func TestToCLISymbols(t *testing.T) {
	t.Parallel()
	symbols := []*loupe.Symbol{
		{
			ID: 7, Name: "greet", Kind: loupe.KindMethod, QualifiedName: "Greeter.greet",
			Visibility: loupe.VisibilityPublic, Exported: true, URI: "src/greeter.js",
			Range: loupe.RangeFrom(1, 2, 3, 3),
		},
	}
	out := toCLISymbols(symbols)
	require.Len(t, out, 1)
	assert.Equal(t, "Greeter.greet", out[0].QualifiedName)
	assert.Equal(t, "method", out[0].Kind)
	assert.Equal(t, 1, out[0].StartLine)
	assert.True(t, out[0].Exported)
}
