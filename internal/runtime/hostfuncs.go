package runtime

import (
	"context"
	"os"

	"github.com/risor-io/risor/object"
	"github.com/rs/zerolog"

	"github.com/jward/loupe"
	"github.com/jward/loupe/adapter"
	"github.com/jward/loupe/refactor"
)

// makeAnalyzeFn creates the "analyze" host function.
//
// analyze(path) → {language, symbols, imports, calls}
func makeAnalyzeFn(reg *adapter.Registry) *object.Builtin {
	return object.NewBuiltin("analyze", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("analyze", 1, len(args))
		}
		pathStr, ok := args[0].(*object.String)
		if !ok {
			return object.Errorf("analyze: path must be a string, got %s", args[0].Type())
		}
		path := pathStr.Value()

		a, found := reg.ForFile(path)
		if !found {
			return object.Errorf("analyze: no adapter for %q", path)
		}
		src, err := os.ReadFile(path)
		if err != nil {
			return object.Errorf("analyze: reading %s: %v", path, err)
		}
		return analysisToMap(string(a.LanguageID()), a.Analyze(path, src))
	})
}

// makeAnalyzeSrcFn creates "analyze_src", which accepts source directly.
//
// analyze_src(source, language) → {language, symbols, imports, calls}
func makeAnalyzeSrcFn(reg *adapter.Registry) *object.Builtin {
	return object.NewBuiltin("analyze_src", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 2 {
			return object.NewArgsError("analyze_src", 2, len(args))
		}
		srcStr, ok := args[0].(*object.String)
		if !ok {
			return object.Errorf("analyze_src: source must be a string, got %s", args[0].Type())
		}
		langStr, ok := args[1].(*object.String)
		if !ok {
			return object.Errorf("analyze_src: language must be a string, got %s", args[1].Type())
		}

		lang, ok := loupe.ParseLanguage(langStr.Value())
		if !ok {
			return object.Errorf("analyze_src: unsupported language %q", langStr.Value())
		}
		a := reg.ByLanguage(lang)
		if a == nil {
			return object.Errorf("analyze_src: no adapter for language %q", lang)
		}
		return analysisToMap(string(lang), a.Analyze("<inline>", []byte(srcStr.Value())))
	})
}

// makeScanTodosFn creates "scan_todos".
//
// scan_todos(source) → [{kind, text, author, priority, line}]
func makeScanTodosFn() *object.Builtin {
	scanner := loupe.NewCommentScanner(loupe.ScannerConfig{})
	return object.NewBuiltin("scan_todos", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("scan_todos", 1, len(args))
		}
		srcStr, ok := args[0].(*object.String)
		if !ok {
			return object.Errorf("scan_todos: source must be a string, got %s", args[0].Type())
		}
		return todosToList(scanner.ScanFile(srcStr.Value()))
	})
}

// makeExtractVariableFn creates "extract_variable".
//
// extract_variable(source, language, start_line, start_col, end_line,
// end_col, name) → {source, description, edits}
//
// The rewritten source is computed Go-side so scripts never have to
// apply edit lists themselves.
func makeExtractVariableFn() *object.Builtin {
	return object.NewBuiltin("extract_variable", func(ctx context.Context, args ...object.Object) object.Object {
		rctx, name, errObj := refactorArgs("extract_variable", args, true)
		if errObj != nil {
			return errObj
		}
		res, err := refactor.ExtractVariable(rctx, name)
		if err != nil {
			return object.Errorf("extract_variable: %v", err)
		}
		return resultToMap(rctx.Source, res)
	})
}

// makeExtractMethodFn creates "extract_method" with the same shape as
// extract_variable.
func makeExtractMethodFn() *object.Builtin {
	return object.NewBuiltin("extract_method", func(ctx context.Context, args ...object.Object) object.Object {
		rctx, name, errObj := refactorArgs("extract_method", args, true)
		if errObj != nil {
			return errObj
		}
		res, err := refactor.ExtractMethod(rctx, name)
		if err != nil {
			return object.Errorf("extract_method: %v", err)
		}
		return resultToMap(rctx.Source, res)
	})
}

// makeSafeDeleteCheckFn creates "safe_delete_check".
//
// safe_delete_check(source, language, start_line, start_col, end_line,
// end_col) → {can_delete, symbol, usages}
func makeSafeDeleteCheckFn() *object.Builtin {
	return object.NewBuiltin("safe_delete_check", func(ctx context.Context, args ...object.Object) object.Object {
		rctx, _, errObj := refactorArgs("safe_delete_check", args, false)
		if errObj != nil {
			return errObj
		}
		analysis, err := refactor.AnalyzeDelete(rctx)
		if err != nil {
			return object.Errorf("safe_delete_check: %v", err)
		}

		usages := make([]object.Object, 0, len(analysis.Usages))
		for _, u := range analysis.Usages {
			usages = append(usages, object.NewMap(map[string]object.Object{
				"uri":   object.NewString(u.URI),
				"range": rangeToMap(u.Range),
			}))
		}
		return object.NewMap(map[string]object.Object{
			"can_delete": object.NewBool(analysis.CanDelete),
			"symbol":     object.NewString(analysis.SymbolName),
			"usages":     object.NewList(usages),
		})
	})
}

// refactorArgs parses the shared (source, language, 4 range ints[, name])
// argument prefix of the refactoring host functions.
func refactorArgs(fn string, args []object.Object, withName bool) (*refactor.Context, string, object.Object) {
	want := 6
	if withName {
		want = 7
	}
	if len(args) != want {
		return nil, "", object.NewArgsError(fn, want, len(args))
	}

	srcStr, ok := args[0].(*object.String)
	if !ok {
		return nil, "", object.Errorf("%s: source must be a string, got %s", fn, args[0].Type())
	}
	langStr, ok := args[1].(*object.String)
	if !ok {
		return nil, "", object.Errorf("%s: language must be a string, got %s", fn, args[1].Type())
	}
	lang, ok := loupe.ParseLanguage(langStr.Value())
	if !ok {
		return nil, "", object.Errorf("%s: unsupported language %q", fn, langStr.Value())
	}

	coords := make([]int, 4)
	for i := range 4 {
		n, ok := args[2+i].(*object.Int)
		if !ok {
			return nil, "", object.Errorf("%s: range coordinates must be ints, got %s", fn, args[2+i].Type())
		}
		coords[i] = int(n.Value())
	}

	name := ""
	if withName {
		nameStr, ok := args[6].(*object.String)
		if !ok {
			return nil, "", object.Errorf("%s: name must be a string, got %s", fn, args[6].Type())
		}
		name = nameStr.Value()
	}

	sel := loupe.RangeFrom(coords[0], coords[1], coords[2], coords[3])
	return refactor.NewContext(srcStr.Value(), "<inline>", sel, lang), name, nil
}

// --- Result conversion ---

func resultToMap(source string, res *refactor.Result) object.Object {
	edits := make([]object.Object, 0, len(res.Edits))
	for _, e := range res.Edits {
		edits = append(edits, object.NewMap(map[string]object.Object{
			"range":    rangeToMap(e.Range),
			"new_text": object.NewString(e.NewText),
		}))
	}
	return object.NewMap(map[string]object.Object{
		"source":      object.NewString(refactor.ApplyEdits(source, res.Edits)),
		"description": object.NewString(res.Description),
		"edits":       object.NewList(edits),
	})
}

func analysisToMap(language string, a *loupe.Analysis) object.Object {
	symbols := make([]object.Object, 0, len(a.Symbols))
	for _, sym := range a.Symbols {
		symbols = append(symbols, object.NewMap(map[string]object.Object{
			"name":            object.NewString(sym.Name),
			"kind":            object.NewString(string(sym.Kind)),
			"qualified_name":  object.NewString(sym.QualifiedName),
			"visibility":      object.NewString(string(sym.Visibility)),
			"exported":        object.NewBool(sym.Exported),
			"range":           rangeToMap(sym.Range),
			"selection_range": rangeToMap(sym.SelectionRange),
		}))
	}

	imports := make([]object.Object, 0, len(a.Imports))
	for _, imp := range a.Imports {
		items := make([]object.Object, 0, len(imp.Items))
		for _, item := range imp.Items {
			items = append(items, object.NewMap(map[string]object.Object{
				"name":  object.NewString(item.Name),
				"alias": object.NewString(item.Alias),
			}))
		}
		imports = append(imports, object.NewMap(map[string]object.Object{
			"module_path": object.NewString(imp.ModulePath),
			"type_only":   object.NewBool(imp.TypeOnly),
			"items":       object.NewList(items),
		}))
	}

	calls := make([]object.Object, 0, len(a.Calls))
	for _, call := range a.Calls {
		calls = append(calls, object.NewMap(map[string]object.Object{
			"callee":      object.NewString(call.Callee),
			"qualified":   object.NewString(call.Qualified),
			"constructor": object.NewBool(call.Constructor),
			"range":       rangeToMap(call.Range),
		}))
	}

	return object.NewMap(map[string]object.Object{
		"language": object.NewString(language),
		"symbols":  object.NewList(symbols),
		"imports":  object.NewList(imports),
		"calls":    object.NewList(calls),
	})
}

func todosToList(todos []loupe.TodoItem) object.Object {
	out := make([]object.Object, 0, len(todos))
	for _, todo := range todos {
		out = append(out, object.NewMap(map[string]object.Object{
			"kind":     object.NewString(string(todo.Kind)),
			"text":     object.NewString(todo.Text),
			"author":   object.NewString(todo.Author),
			"priority": object.NewInt(int64(todo.Priority)),
			"line":     object.NewInt(int64(todo.Line)),
		}))
	}
	return object.NewList(out)
}

func rangeToMap(r loupe.Range) object.Object {
	return object.NewMap(map[string]object.Object{
		"start_line": object.NewInt(int64(r.Start.Line)),
		"start_col":  object.NewInt(int64(r.Start.Column)),
		"end_line":   object.NewInt(int64(r.End.Line)),
		"end_col":    object.NewInt(int64(r.End.Column)),
	})
}

// logObject provides log.info/warn/error methods for Risor scripts.
type logObject struct {
	log zerolog.Logger
}

func (l *logObject) Info(msg string) {
	l.log.Info().Msg(msg)
}

func (l *logObject) Warn(msg string) {
	l.log.Warn().Msg(msg)
}

func (l *logObject) Error(msg string) {
	l.log.Error().Msg(msg)
}
