package loupe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nestedSymbols models a class containing a method containing a local,
// using adapter-local ids that IndexDocument must remap.
func nestedSymbols() []*Symbol {
	return []*Symbol{
		{
			ID: 1, Name: "Config", Kind: KindClass, QualifiedName: "Config",
			Range:          RangeFrom(0, 0, 10, 1),
			SelectionRange: RangeFrom(0, 6, 0, 12),
		},
		{
			ID: 2, Name: "load", Kind: KindMethod, QualifiedName: "Config.load",
			Range:          RangeFrom(2, 2, 8, 3),
			SelectionRange: RangeFrom(2, 2, 2, 6),
			ParentID:       1,
		},
		{
			ID: 3, Name: "path", Kind: KindField, QualifiedName: "Config.load.path",
			Range:          RangeFrom(4, 4, 4, 20),
			SelectionRange: RangeFrom(4, 4, 4, 8),
			ParentID:       2,
		},
	}
}

func TestIndexDocumentRemapsIDs(t *testing.T) {
	idx := NewSymbolIndex()
	idx.IndexDocument("a.py", nestedSymbols())

	syms := idx.AllSymbols("a.py")
	require.Len(t, syms, 3)
	assert.Equal(t, "a.py", syms[0].URI)
	// Parent links follow the fresh index-wide ids.
	assert.Equal(t, syms[0].ID, syms[1].ParentID)
	assert.Equal(t, syms[1].ID, syms[2].ParentID)
	assert.Zero(t, syms[0].ParentID)
}

func TestIndexDocumentReplaces(t *testing.T) {
	idx := NewSymbolIndex()
	idx.IndexDocument("a.py", nestedSymbols())
	idx.IndexDocument("a.py", nestedSymbols()[:1])

	assert.Equal(t, 1, idx.SymbolCount())
	require.Len(t, idx.AllSymbols("a.py"), 1)
}

func TestRemoveDocument(t *testing.T) {
	idx := NewSymbolIndex()
	idx.IndexDocument("a.py", nestedSymbols())
	idx.IndexDocument("b.py", nestedSymbols()[:1])

	idx.RemoveDocument("a.py")
	assert.Equal(t, []string{"b.py"}, idx.Documents())
	assert.Nil(t, idx.AllSymbols("a.py"))
}

func TestDocumentsSorted(t *testing.T) {
	idx := NewSymbolIndex()
	idx.IndexDocument("zeta.py", nil)
	idx.IndexDocument("alpha.py", nil)

	assert.Equal(t, []string{"alpha.py", "zeta.py"}, idx.Documents())
}

func TestFindAtPositionInnermost(t *testing.T) {
	idx := NewSymbolIndex()
	idx.IndexDocument("a.py", nestedSymbols())

	// Inside the field: the narrowest of three nested ranges wins.
	got := idx.FindAtPosition("a.py", NewPosition(4, 10))
	require.NotNil(t, got)
	assert.Equal(t, "path", got.Name)

	// Inside the method but outside the field.
	got = idx.FindAtPosition("a.py", NewPosition(6, 0))
	require.NotNil(t, got)
	assert.Equal(t, "load", got.Name)

	// Inside the class but outside the method.
	got = idx.FindAtPosition("a.py", NewPosition(1, 0))
	require.NotNil(t, got)
	assert.Equal(t, "Config", got.Name)

	assert.Nil(t, idx.FindAtPosition("a.py", NewPosition(20, 0)))
	assert.Nil(t, idx.FindAtPosition("missing.py", NewPosition(0, 0)))
}

func TestFindAtPositionSelectionTiebreak(t *testing.T) {
	idx := NewSymbolIndex()
	idx.IndexDocument("a.go", []*Symbol{
		{ID: 1, Name: "a", Kind: KindVariable,
			Range:          RangeFrom(0, 0, 0, 30),
			SelectionRange: RangeFrom(0, 0, 0, 1)},
		{ID: 2, Name: "b", Kind: KindVariable,
			Range:          RangeFrom(0, 0, 0, 30),
			SelectionRange: RangeFrom(0, 10, 0, 11)},
	})

	got := idx.FindAtPosition("a.go", NewPosition(0, 10))
	require.NotNil(t, got)
	assert.Equal(t, "b", got.Name)
}

func TestSearchExact(t *testing.T) {
	idx := NewSymbolIndex()
	idx.IndexDocument("b.py", []*Symbol{
		{ID: 1, Name: "load", Kind: KindFunction, Range: RangeFrom(0, 0, 2, 0)},
	})
	idx.IndexDocument("a.py", nestedSymbols())

	got := idx.Search("load")
	require.Len(t, got, 2)
	// Ordered by (uri, start) regardless of indexing order.
	assert.Equal(t, "a.py", got[0].URI)
	assert.Equal(t, "b.py", got[1].URI)

	assert.Empty(t, idx.Search("Load")) // exact search is case sensitive
}

func TestSearchFuzzy(t *testing.T) {
	idx := NewSymbolIndex()
	idx.IndexDocument("a.py", nestedSymbols())

	got := idx.SearchFuzzy("cfg")
	require.NotEmpty(t, got)
	assert.Equal(t, "Config", got[0].Name)

	assert.Empty(t, idx.SearchFuzzy("zzz"))
}

func TestDocumentSymbolsTree(t *testing.T) {
	idx := NewSymbolIndex()
	idx.IndexDocument("a.py", nestedSymbols())

	roots := idx.DocumentSymbols("a.py")
	require.Len(t, roots, 1)
	assert.Equal(t, "Config", roots[0].Name)
	require.Len(t, roots[0].Children, 1)
	assert.Equal(t, "load", roots[0].Children[0].Name)
	require.Len(t, roots[0].Children[0].Children, 1)
	assert.Equal(t, "path", roots[0].Children[0].Children[0].Name)

	// The flat store stays flat.
	for _, sym := range idx.AllSymbols("a.py") {
		assert.Nil(t, sym.Children)
	}
}
