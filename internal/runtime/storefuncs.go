package runtime

import (
	"context"
	"os"

	"github.com/risor-io/risor/object"

	"github.com/jward/loupe"
	"github.com/jward/loupe/adapter"
	"github.com/jward/loupe/internal/store"
)

// makeIndexFileFn creates "index_file": analyze a file on disk and
// persist the result, returning the symbol count.
//
// index_file(path) → int
func makeIndexFileFn(reg *adapter.Registry, s *store.Store) *object.Builtin {
	scanner := loupe.NewCommentScanner(loupe.ScannerConfig{})
	return object.NewBuiltin("index_file", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("index_file", 1, len(args))
		}
		pathStr, ok := args[0].(*object.String)
		if !ok {
			return object.Errorf("index_file: path must be a string, got %s", args[0].Type())
		}
		path := pathStr.Value()

		a, found := reg.ForFile(path)
		if !found {
			return object.Errorf("index_file: no adapter for %q", path)
		}
		src, err := os.ReadFile(path)
		if err != nil {
			return object.Errorf("index_file: reading %s: %v", path, err)
		}

		res := a.Analyze(path, src)
		f := &store.File{
			Path:     path,
			Language: string(a.LanguageID()),
			Hash:     store.ContentHash(src),
		}
		if err := s.SaveDocument(f, res, scanner.ScanFile(string(src))); err != nil {
			return object.Errorf("index_file: %v", err)
		}
		return object.NewInt(int64(len(res.Symbols)))
	})
}

// makeSymbolsByNameFn creates "symbols_by_name".
//
// symbols_by_name(name) → [{name, kind, qualified_name, uri, range}]
func makeSymbolsByNameFn(s *store.Store) *object.Builtin {
	return object.NewBuiltin("symbols_by_name", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("symbols_by_name", 1, len(args))
		}
		nameStr, ok := args[0].(*object.String)
		if !ok {
			return object.Errorf("symbols_by_name: name must be a string, got %s", args[0].Type())
		}

		symbols, err := s.SymbolsByName(nameStr.Value())
		if err != nil {
			return object.Errorf("symbols_by_name: %v", err)
		}
		out := make([]object.Object, 0, len(symbols))
		for _, sym := range symbols {
			out = append(out, object.NewMap(map[string]object.Object{
				"name":           object.NewString(sym.Name),
				"kind":           object.NewString(string(sym.Kind)),
				"qualified_name": object.NewString(sym.QualifiedName),
				"uri":            object.NewString(sym.URI),
				"range":          rangeToMap(sym.Range),
			}))
		}
		return object.NewList(out)
	})
}

// makeIndexedFilesFn creates "indexed_files".
//
// indexed_files() → [{path, language, hash}]
func makeIndexedFilesFn(s *store.Store) *object.Builtin {
	return object.NewBuiltin("indexed_files", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 0 {
			return object.NewArgsError("indexed_files", 0, len(args))
		}
		files, err := s.Files()
		if err != nil {
			return object.Errorf("indexed_files: %v", err)
		}
		out := make([]object.Object, 0, len(files))
		for _, f := range files {
			out = append(out, object.NewMap(map[string]object.Object{
				"path":     object.NewString(f.Path),
				"language": object.NewString(f.Language),
				"hash":     object.NewString(f.Hash),
			}))
		}
		return object.NewList(out)
	})
}

// makeStoredTodosFn creates "stored_todos": every persisted TODO item,
// most urgent first.
//
// stored_todos() → [{path, kind, text, author, priority, line}]
func makeStoredTodosFn(s *store.Store) *object.Builtin {
	return object.NewBuiltin("stored_todos", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 0 {
			return object.NewArgsError("stored_todos", 0, len(args))
		}
		all, err := s.AllTodos()
		if err != nil {
			return object.Errorf("stored_todos: %v", err)
		}
		out := make([]object.Object, 0, len(all))
		for _, dt := range all {
			out = append(out, object.NewMap(map[string]object.Object{
				"path":     object.NewString(dt.URI),
				"kind":     object.NewString(string(dt.Item.Kind)),
				"text":     object.NewString(dt.Item.Text),
				"author":   object.NewString(dt.Item.Author),
				"priority": object.NewInt(int64(dt.Item.Priority)),
				"line":     object.NewInt(int64(dt.Item.Line)),
			}))
		}
		return object.NewList(out)
	})
}
