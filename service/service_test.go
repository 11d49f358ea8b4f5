package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/loupe"
	"github.com/jward/loupe/refactor"
)

const greeterJS = `class Greeter {
  greet() {
    return "hi";
  }
}
function main() {
  return 0;
}`

func newService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	svc, err := New(opts...)
	require.NoError(t, err)
	return svc
}

// ====== Document lifecycle ======

func TestOpenDocumentIndexesSymbols(t *testing.T) {
	svc := newService(t)
	svc.OpenDocument("file:///greeter.js", "javascript", greeterJS)

	tree := svc.DocumentSymbols("file:///greeter.js")
	require.Len(t, tree, 2)

	assert.Equal(t, "Greeter", tree[0].Name)
	assert.Equal(t, loupe.KindClass, tree[0].Kind)
	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, "greet", tree[0].Children[0].Name)

	assert.Equal(t, "main", tree[1].Name)
	assert.Equal(t, loupe.KindFunction, tree[1].Kind)
}

func TestUpdateDocumentReplacesState(t *testing.T) {
	svc := newService(t)
	svc.OpenDocument("file:///a.js", "javascript", "function one() {}")

	require.NoError(t, svc.UpdateDocument("file:///a.js", "function two() {}"))

	tree := svc.DocumentSymbols("file:///a.js")
	require.Len(t, tree, 1)
	assert.Equal(t, "two", tree[0].Name)
	assert.Empty(t, svc.SearchSymbols("one"))
}

func TestUpdateUnknownDocument(t *testing.T) {
	svc := newService(t)
	err := svc.UpdateDocument("file:///nope.js", "x")
	require.ErrorIs(t, err, ErrUnknownDocument)
}

func TestCloseDocumentForgetsEverything(t *testing.T) {
	svc := newService(t)
	svc.OpenDocument("file:///a.js", "javascript", "// TODO: later\nfunction f() {}")
	svc.CloseDocument("file:///a.js")

	assert.Empty(t, svc.Documents())
	assert.Empty(t, svc.DocumentSymbols("file:///a.js"))
	assert.Empty(t, svc.Todos("file:///a.js"))
}

func TestReopenReplacesDocument(t *testing.T) {
	svc := newService(t)
	svc.OpenDocument("file:///a.js", "javascript", "function old() {}")
	svc.OpenDocument("file:///a.js", "javascript", "function fresh() {}")

	assert.Empty(t, svc.SearchSymbols("old"))
	assert.Len(t, svc.SearchSymbols("fresh"), 1)
}

func TestUnknownLanguageYieldsNoSymbols(t *testing.T) {
	svc := newService(t)
	svc.OpenDocument("file:///notes.txt", "plaintext", "TODO: still scanned\nhello")

	assert.Empty(t, svc.DocumentSymbols("file:///notes.txt"))
	// The comment scanner is language-agnostic and still runs.
	assert.Len(t, svc.Todos("file:///notes.txt"), 1)
}

// ====== Position queries ======

func TestHover(t *testing.T) {
	svc := newService(t)
	svc.OpenDocument("file:///greeter.js", "javascript", greeterJS)

	h := svc.Hover("file:///greeter.js", loupe.NewPosition(0, 8))
	require.NotNil(t, h)
	assert.Equal(t, "**Greeter** (class)", h.Contents)

	// Inside the method body the innermost enclosing symbol wins.
	inner := svc.Hover("file:///greeter.js", loupe.NewPosition(2, 8))
	require.NotNil(t, inner)
	assert.Equal(t, "**greet** (method)", inner.Contents)

	assert.Nil(t, svc.Hover("file:///missing.js", loupe.NewPosition(0, 0)))
}

func TestDefinitionAndReferences(t *testing.T) {
	svc := newService(t)
	svc.OpenDocument("file:///greeter.js", "javascript", greeterJS)

	loc := svc.Definition("file:///greeter.js", loupe.NewPosition(1, 3))
	require.NotNil(t, loc)
	assert.Equal(t, "file:///greeter.js", loc.URI)
	assert.Equal(t, 1, loc.Range.Start.Line)

	refs := svc.References("file:///greeter.js", loupe.NewPosition(1, 3))
	require.Len(t, refs, 1)
	assert.Equal(t, 1, refs[0].Range.Start.Line)
}

// ====== Rename ======

func TestPrepareRename(t *testing.T) {
	svc := newService(t)
	svc.OpenDocument("file:///greeter.js", "javascript", greeterJS)

	prep := svc.PrepareRename("file:///greeter.js", loupe.NewPosition(1, 3))
	require.NotNil(t, prep)
	assert.Equal(t, "greet", prep.Placeholder)
	assert.Equal(t, 1, prep.Range.Start.Line)

	assert.Nil(t, svc.PrepareRename("file:///greeter.js", loupe.NewPosition(3, 0)))
}

func TestRenameAcrossDocuments(t *testing.T) {
	svc := newService(t)
	svc.OpenDocument("file:///a.js", "javascript", "function shared() {}")
	svc.OpenDocument("file:///b.js", "javascript", "function shared() {}\nfunction other() {}")

	we := svc.Rename("file:///a.js", loupe.NewPosition(0, 10), "renamed")
	require.NotNil(t, we)
	require.Len(t, we.Changes, 2)
	require.Len(t, we.Changes["file:///a.js"], 1)
	require.Len(t, we.Changes["file:///b.js"], 1)
	assert.Equal(t, "renamed", we.Changes["file:///a.js"][0].NewText)

	applied := refactor.ApplyEdits("function shared() {}", we.Changes["file:///a.js"])
	assert.Equal(t, "function renamed() {}", applied)
}

func TestRenameOutsideNameIsRejected(t *testing.T) {
	svc := newService(t)
	svc.OpenDocument("file:///greeter.js", "javascript", greeterJS)

	// Positions inside the body enclose a symbol but not its name.
	assert.Nil(t, svc.Rename("file:///greeter.js", loupe.NewPosition(2, 4), "renamed"))
	assert.Nil(t, svc.PrepareRename("file:///greeter.js", loupe.NewPosition(2, 4)))
}

// ====== Search ======

func TestSearchSymbols(t *testing.T) {
	svc := newService(t)
	svc.OpenDocument("file:///greeter.js", "javascript", greeterJS)

	exact := svc.SearchSymbols("greet")
	require.Len(t, exact, 1)
	assert.Equal(t, loupe.KindMethod, exact[0].Kind)

	fuzzy := svc.SearchSymbolsFuzzy("grt")
	require.NotEmpty(t, fuzzy)
	assert.Equal(t, "greet", fuzzy[0].Name)
}

// ====== TODO scanning ======

func TestTodosAndStats(t *testing.T) {
	svc := newService(t)
	svc.OpenDocument("file:///a.js", "javascript",
		"// TODO: polish\n// FIXME(ann): broken\nfunction f() {}")
	svc.OpenDocument("file:///b.py", "python", "# BUG: crashes on empty input\n")

	items := svc.Todos("file:///a.js")
	require.Len(t, items, 2)
	assert.Equal(t, loupe.TodoTodo, items[0].Kind)
	assert.Equal(t, "ann", items[1].Author)

	all := svc.AllTodos()
	require.Len(t, all, 3)
	// BUG outranks FIXME outranks TODO.
	assert.Equal(t, loupe.TodoBug, all[0].Item.Kind)
	assert.Equal(t, loupe.TodoFixme, all[1].Item.Kind)

	stats := svc.TodoStats()
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.ByKind["bug"])
	assert.Equal(t, 1, stats.ByKind["todo"])
}

func TestCustomTodoMarkers(t *testing.T) {
	svc := newService(t, WithTodoMarkers("REVIEW"))
	svc.OpenDocument("file:///a.js", "javascript", "// REVIEW: check bounds\n")

	items := svc.Todos("file:///a.js")
	require.Len(t, items, 1)
	assert.Equal(t, loupe.TodoCustom, items[0].Kind)
}

// ====== Unused symbols ======

func TestUnusedSymbols(t *testing.T) {
	svc := newService(t)
	svc.OpenDocument("file:///a.js", "javascript",
		"function used() {}\nfunction orphan() {}\nused();")

	items, err := svc.UnusedSymbols("file:///a.js")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "orphan", items[0].Name)

	_, err = svc.UnusedSymbols("file:///missing.js")
	require.ErrorIs(t, err, ErrUnknownDocument)
}

// ====== Refactorings ======

func TestRefactorThroughService(t *testing.T) {
	svc := newService(t)
	svc.OpenDocument("file:///a.js", "javascript", "console.log(a + b);")

	sel := loupe.RangeFrom(0, 12, 0, 17)

	actions, err := svc.RefactorActions("file:///a.js", sel)
	require.NoError(t, err)
	require.Len(t, actions, 2)
	assert.True(t, actions[0].Available)

	res, err := svc.ExtractVariable("file:///a.js", sel, "sum")
	require.NoError(t, err)
	applied := refactor.ApplyEdits("console.log(a + b);", res.Edits)
	assert.Equal(t, "const sum = a + b;\nconsole.log(sum);", applied)
}

func TestSafeDeleteThroughService(t *testing.T) {
	svc := newService(t)
	src := "let foo = 1;\nconsole.log(foo);"
	svc.OpenDocument("file:///a.js", "javascript", src)

	analysis, err := svc.CanSafeDelete("file:///a.js", loupe.RangeFrom(0, 0, 0, 12))
	require.NoError(t, err)
	assert.False(t, analysis.CanDelete)
	require.Len(t, analysis.Usages, 1)

	_, err = svc.SafeDelete("file:///a.js", loupe.RangeFrom(0, 0, 0, 12))
	var inUse *refactor.SymbolInUseError
	require.ErrorAs(t, err, &inUse)
}

func TestRefactorUnknownDocument(t *testing.T) {
	svc := newService(t)
	_, err := svc.ExtractVariable("file:///nope.js", loupe.RangeFrom(0, 0, 0, 1), "x")
	require.ErrorIs(t, err, ErrUnknownDocument)
}
