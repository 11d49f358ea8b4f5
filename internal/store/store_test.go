package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/loupe"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "loupe.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate())
	return s
}

func sampleAnalysis() *loupe.Analysis {
	return &loupe.Analysis{
		Symbols: []*loupe.Symbol{
			{
				ID: 1, Name: "Greeter", Kind: loupe.KindClass, QualifiedName: "Greeter",
				Visibility: loupe.VisibilityPublic, Exported: true,
				Range:          loupe.RangeFrom(0, 0, 4, 1),
				SelectionRange: loupe.RangeFrom(0, 6, 0, 13),
			},
			{
				ID: 2, Name: "greet", Kind: loupe.KindMethod, QualifiedName: "Greeter.greet",
				Visibility: loupe.VisibilityPublic, Exported: true,
				Range:          loupe.RangeFrom(1, 2, 3, 3),
				SelectionRange: loupe.RangeFrom(1, 2, 1, 7),
				ParentID:       1,
			},
		},
		Imports: []loupe.ImportInfo{
			{
				ModulePath: "./util",
				Items:      []loupe.ImportItem{{Name: "helper", Alias: "h"}},
				Range:      loupe.RangeFrom(0, 0, 0, 30),
			},
		},
		Calls: []loupe.CallInfo{
			{Callee: "console.log", Qualified: "console.log", Range: loupe.RangeFrom(2, 4, 2, 20)},
			{Callee: "Greeter", Constructor: true, Range: loupe.RangeFrom(5, 10, 5, 23)},
		},
	}
}

// ====== Schema ======

func TestMigrateIsIdempotent(t *testing.T) {
	s := openStore(t)
	require.NoError(t, s.Migrate())
	require.NoError(t, s.Migrate())
}

// ====== Save and load ======

func TestSaveDocumentRoundTrip(t *testing.T) {
	s := openStore(t)

	f := &File{Path: "src/greeter.js", Language: "javascript", Hash: ContentHash([]byte("x"))}
	todos := []loupe.TodoItem{
		{Kind: loupe.TodoFixme, Text: "broken", Author: "ann", Priority: 4, Line: 3,
			Range: loupe.RangeFrom(2, 0, 2, 16)},
	}
	require.NoError(t, s.SaveDocument(f, sampleAnalysis(), todos))
	assert.NotZero(t, f.ID)
	assert.False(t, f.LastIndexed.IsZero())

	symbols, err := s.LoadSymbols("src/greeter.js")
	require.NoError(t, err)
	require.Len(t, symbols, 2)
	assert.Equal(t, "Greeter", symbols[0].Name)
	assert.Equal(t, loupe.KindClass, symbols[0].Kind)
	assert.Equal(t, "src/greeter.js", symbols[0].URI)
	assert.Zero(t, symbols[0].ParentID)
	// Parent links are rebased onto database ids.
	assert.Equal(t, symbols[0].ID, symbols[1].ParentID)
	assert.Equal(t, "Greeter.greet", symbols[1].QualifiedName)
	assert.Equal(t, loupe.RangeFrom(1, 2, 1, 7), symbols[1].SelectionRange)

	imports, err := s.LoadImports("src/greeter.js")
	require.NoError(t, err)
	require.Len(t, imports, 1)
	assert.Equal(t, "./util", imports[0].ModulePath)
	require.Len(t, imports[0].Items, 1)
	assert.Equal(t, "h", imports[0].Items[0].Alias)

	calls, err := s.LoadCalls("src/greeter.js")
	require.NoError(t, err)
	require.Len(t, calls, 2)
	assert.Equal(t, "console.log", calls[0].Qualified)
	assert.True(t, calls[1].Constructor)

	loaded, err := s.LoadTodos("src/greeter.js")
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, loupe.TodoFixme, loaded[0].Kind)
	assert.Equal(t, "ann", loaded[0].Author)
}

func TestResaveReplacesRows(t *testing.T) {
	s := openStore(t)

	f := &File{Path: "a.go", Language: "go", Hash: "h1"}
	require.NoError(t, s.SaveDocument(f, sampleAnalysis(), nil))
	firstID := f.ID

	smaller := &loupe.Analysis{Symbols: []*loupe.Symbol{
		{ID: 1, Name: "lone", Kind: loupe.KindFunction, QualifiedName: "lone",
			Range: loupe.RangeFrom(0, 0, 1, 1), SelectionRange: loupe.RangeFrom(0, 5, 0, 9)},
	}}
	f2 := &File{Path: "a.go", Language: "go", Hash: "h2"}
	require.NoError(t, s.SaveDocument(f2, smaller, nil))
	assert.Equal(t, firstID, f2.ID)

	symbols, err := s.LoadSymbols("a.go")
	require.NoError(t, err)
	require.Len(t, symbols, 1)
	assert.Equal(t, "lone", symbols[0].Name)

	stored, err := s.FileByPath("a.go")
	require.NoError(t, err)
	assert.Equal(t, "h2", stored.Hash)
}

func TestFileByPathMissing(t *testing.T) {
	s := openStore(t)
	f, err := s.FileByPath("nope.go")
	require.NoError(t, err)
	assert.Nil(t, f)

	symbols, err := s.LoadSymbols("nope.go")
	require.NoError(t, err)
	assert.Nil(t, symbols)
}

// ====== Queries ======

func TestSymbolsByNameAcrossFiles(t *testing.T) {
	s := openStore(t)
	for _, path := range []string{"b.js", "a.js"} {
		f := &File{Path: path, Language: "javascript", Hash: "h"}
		require.NoError(t, s.SaveDocument(f, sampleAnalysis(), nil))
	}

	matches, err := s.SymbolsByName("greet")
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "a.js", matches[0].URI)
	assert.Equal(t, "b.js", matches[1].URI)
}

func TestLoadIndexRebuildsSymbolIndex(t *testing.T) {
	s := openStore(t)
	f := &File{Path: "greeter.js", Language: "javascript", Hash: "h"}
	require.NoError(t, s.SaveDocument(f, sampleAnalysis(), nil))

	index, err := s.LoadIndex()
	require.NoError(t, err)
	assert.Equal(t, 2, index.SymbolCount())

	tree := index.DocumentSymbols("greeter.js")
	require.Len(t, tree, 1)
	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, "greet", tree[0].Children[0].Name)
}

func TestAllTodosOrderedByPriority(t *testing.T) {
	s := openStore(t)
	f := &File{Path: "a.js", Language: "javascript", Hash: "h"}
	todos := []loupe.TodoItem{
		{Kind: loupe.TodoTodo, Text: "later", Priority: 2, Line: 1},
		{Kind: loupe.TodoBug, Text: "now", Priority: 5, Line: 9},
	}
	require.NoError(t, s.SaveDocument(f, &loupe.Analysis{}, todos))

	all, err := s.AllTodos()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, loupe.TodoBug, all[0].Item.Kind)
	assert.Equal(t, loupe.TodoTodo, all[1].Item.Kind)
}

// ====== Deletion ======

func TestDeleteFileData(t *testing.T) {
	s := openStore(t)
	f := &File{Path: "gone.js", Language: "javascript", Hash: "h"}
	require.NoError(t, s.SaveDocument(f, sampleAnalysis(), []loupe.TodoItem{
		{Kind: loupe.TodoTodo, Text: "x", Priority: 2, Line: 1},
	}))

	require.NoError(t, s.DeleteFileData(f.ID))

	stored, err := s.FileByPath("gone.js")
	require.NoError(t, err)
	assert.Nil(t, stored)

	symbols, err := s.LoadSymbols("gone.js")
	require.NoError(t, err)
	assert.Empty(t, symbols)
}
