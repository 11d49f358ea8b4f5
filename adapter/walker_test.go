package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/loupe"
)

// ====== Helpers ======

func analyze(t *testing.T, build func() (LanguageAdapter, error), uri, src string) *loupe.Analysis {
	t.Helper()
	a, err := build()
	require.NoError(t, err)
	res := a.Analyze(uri, []byte(src))
	require.NotNil(t, res)
	return res
}

func symbolByName(res *loupe.Analysis, name string) *loupe.Symbol {
	for _, s := range res.Symbols {
		if s.Name == name {
			return s
		}
	}
	return nil
}

func requireSymbol(t *testing.T, res *loupe.Analysis, name string, kind loupe.SymbolKind) *loupe.Symbol {
	t.Helper()
	sym := symbolByName(res, name)
	require.NotNil(t, sym, "symbol %q not found", name)
	assert.Equal(t, kind, sym.Kind, "symbol %q kind", name)
	return sym
}

// ====== Name Fallback ======

func TestFallbackNameAfterKeyword(t *testing.T) {
	assert.Equal(t, "Widget", fallbackName("class Widget ;", "class"))
	assert.Equal(t, "point", fallbackName("struct point { int x; };", "struct"))
	assert.Equal(t, "demo", fallbackName("namespace demo {", "namespace"))
}

func TestFallbackNameSkipsDeclKeywords(t *testing.T) {
	// No declaring keyword match: the first identifier that is not itself
	// a keyword wins.
	assert.Equal(t, "Widget", fallbackName("public class Widget", "interface"))
	assert.Equal(t, "", fallbackName("class struct public", "enum"))
}

func TestFallbackNameStripsPunctuation(t *testing.T) {
	assert.Equal(t, "Node", fallbackName("class Node;", "class"))
	assert.Equal(t, "Node", fallbackName("class Node:public Base", "class"))
}

// ====== Visibility Sections ======

func TestParseVisibilitySection(t *testing.T) {
	assert.Equal(t, loupe.VisibilityPublic, parseVisibilitySection("public:"))
	assert.Equal(t, loupe.VisibilityProtected, parseVisibilitySection(" protected: "))
	assert.Equal(t, loupe.VisibilityPrivate, parseVisibilitySection("private:"))
	assert.Equal(t, loupe.VisibilityPrivate, parseVisibilitySection("signals:"))
}

// ====== Registry ======

func TestDefaultRegistryCoversAllLanguages(t *testing.T) {
	reg, err := DefaultRegistry()
	require.NoError(t, err)

	langs := reg.Languages()
	assert.Len(t, langs, 8)
	for _, lang := range []loupe.LanguageID{
		loupe.LangC, loupe.LangCpp, loupe.LangGo, loupe.LangJava,
		loupe.LangJavaScript, loupe.LangTypeScript,
		loupe.LangPython, loupe.LangRust,
	} {
		assert.NotNil(t, reg.ByLanguage(lang), "no adapter for %s", lang)
	}
}

func TestRegistryForFile(t *testing.T) {
	reg, err := DefaultRegistry()
	require.NoError(t, err)

	a, ok := reg.ForFile("src/lib/util.ts")
	require.True(t, ok)
	assert.Equal(t, loupe.LangTypeScript, a.LanguageID())

	_, ok = reg.ForFile("README.md")
	assert.False(t, ok)
}

func TestAnalyzeGarbageYieldsEmptyResult(t *testing.T) {
	res := analyze(t, NewCpp, "broken.cpp", "%%%% ???")
	assert.Empty(t, res.Symbols)
	assert.Empty(t, res.Imports)
	assert.Empty(t, res.Calls)
}
