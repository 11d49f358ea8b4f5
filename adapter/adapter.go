// Package adapter normalizes tree-sitter concrete syntax trees from
// different grammars into the loupe symbol/import/call model. One adapter
// exists per grammar; all share a grammar-generic traversal driven by a
// per-language profile.
package adapter

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jward/loupe"
)

// LanguageAdapter is the per-grammar analysis capability. Analyze is pure
// per (uri, source); the only internal state is a reusable parser handle
// which the adapter guards for exclusive access across calls.
type LanguageAdapter interface {
	// LanguageID returns the canonical language identifier.
	LanguageID() loupe.LanguageID

	// FileExtensions returns the extensions (without dot) this adapter
	// handles.
	FileExtensions() []string

	// Analyze produces the document's full symbol/import/call model
	// atomically. Unparsable input yields an empty, valid result: a
	// broken file must not break the whole index.
	Analyze(uri string, source []byte) *loupe.Analysis

	// ResolveImport resolves one import directive's text against the
	// importing file's directory. Only quoted/relative forms resolve, and
	// only when the target exists on disk; everything else returns
	// ("", false).
	ResolveImport(fromFile, importText string) (string, bool)
}

// Registry holds the configured adapters, keyed by language id and by file
// extension.
type Registry struct {
	byLanguage  map[loupe.LanguageID]LanguageAdapter
	byExtension map[string]LanguageAdapter
}

// NewRegistry builds a registry from adapters. Later adapters win on
// extension collisions.
func NewRegistry(adapters ...LanguageAdapter) *Registry {
	r := &Registry{
		byLanguage:  make(map[loupe.LanguageID]LanguageAdapter),
		byExtension: make(map[string]LanguageAdapter),
	}
	for _, a := range adapters {
		r.byLanguage[a.LanguageID()] = a
		for _, ext := range a.FileExtensions() {
			r.byExtension[strings.ToLower(ext)] = a
		}
	}
	return r
}

// DefaultRegistry constructs adapters for every supported grammar.
// Construction fails if any grammar cannot load.
func DefaultRegistry() (*Registry, error) {
	var adapters []LanguageAdapter
	for _, build := range []func() (LanguageAdapter, error){
		NewCpp, NewC, NewGo, NewJava, NewJavaScript, NewTypeScript, NewPython,
		NewRust,
	} {
		a, err := build()
		if err != nil {
			return nil, fmt.Errorf("adapter: %w", err)
		}
		adapters = append(adapters, a)
	}
	return NewRegistry(adapters...), nil
}

// ByLanguage returns the adapter for a language id, or nil.
func (r *Registry) ByLanguage(lang loupe.LanguageID) LanguageAdapter {
	return r.byLanguage[lang]
}

// ForFile returns the adapter for a file path based on its extension.
func (r *Registry) ForFile(path string) (LanguageAdapter, bool) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	a, ok := r.byExtension[ext]
	return a, ok
}

// Languages returns the registered language ids.
func (r *Registry) Languages() []loupe.LanguageID {
	langs := make([]loupe.LanguageID, 0, len(r.byLanguage))
	for lang := range r.byLanguage {
		langs = append(langs, lang)
	}
	return langs
}
