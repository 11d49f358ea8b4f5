package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.lsp.dev/uri"

	"github.com/jward/loupe"
	"github.com/jward/loupe/internal/store"
)

var (
	flagFuzzy    bool
	flagTodoKind string
)

var symbolsCmd = &cobra.Command{
	Use:   "symbols <file>",
	Short: "List the symbols of an indexed file",
	Args:  cobra.ExactArgs(1),
	RunE:  runSymbols,
}

var searchCmd = &cobra.Command{
	Use:   "search <name>",
	Short: "Find symbols by name across the index",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

var todosCmd = &cobra.Command{
	Use:   "todos [file]",
	Short: "List TODO/FIXME comments",
	Long:  "Lists stored TODO items, most urgent first. With a file argument, only that file's items in document order.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTodos,
}

var unusedCmd = &cobra.Command{
	Use:   "unused <file>",
	Short: "Report likely-unused symbols in a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runUnused,
}

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "List indexed files",
	Args:  cobra.NoArgs,
	RunE:  runFiles,
}

func init() {
	searchCmd.Flags().BoolVar(&flagFuzzy, "fuzzy", false, "rank by fuzzy match instead of exact name")
	todosCmd.Flags().StringVar(&flagTodoKind, "kind", "", "filter by marker kind (todo|fixme|hack|xxx|note|bug|optimize)")
}

// openStore opens the Store from the --db flag path (or default).
func openStore() (*store.Store, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting cwd: %w", err)
	}
	dbPath := resolveDBPath(findRepoRoot(cwd))

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("database not found: %s (run 'loupe index' first)", dbPath)
	}
	return store.NewStore(dbPath)
}

// resolveFilePath converts a file argument to an absolute path.
func resolveFilePath(file string) (string, error) {
	if filepath.IsAbs(file) {
		return file, nil
	}
	abs, err := filepath.Abs(file)
	if err != nil {
		return "", fmt.Errorf("resolving file path %q: %w", file, err)
	}
	return abs, nil
}

func runSymbols(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	path, err := resolveFilePath(args[0])
	if err != nil {
		return err
	}
	symbols, err := s.LoadSymbols(path)
	if err != nil {
		return err
	}
	return outputResult(CLIResult{Command: "symbols", Results: toCLISymbols(symbols)})
}

func runSearch(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	var symbols []*loupe.Symbol
	if flagFuzzy {
		index, err := s.LoadIndex()
		if err != nil {
			return err
		}
		symbols = index.SearchFuzzy(args[0])
	} else {
		symbols, err = s.SymbolsByName(args[0])
		if err != nil {
			return err
		}
	}

	out := toCLISymbols(symbols)
	total := len(out)
	return outputResult(CLIResult{Command: "search", Results: out, TotalCount: &total})
}

func runTodos(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	var todos []CLITodo
	if len(args) == 1 {
		path, err := resolveFilePath(args[0])
		if err != nil {
			return err
		}
		items, err := s.LoadTodos(path)
		if err != nil {
			return err
		}
		for _, item := range items {
			todos = append(todos, toCLITodo(path, item))
		}
	} else {
		all, err := s.AllTodos()
		if err != nil {
			return err
		}
		for _, dt := range all {
			todos = append(todos, toCLITodo(dt.URI, dt.Item))
		}
	}

	if flagTodoKind != "" {
		filtered := todos[:0]
		for _, todo := range todos {
			if todo.Kind == flagTodoKind {
				filtered = append(filtered, todo)
			}
		}
		todos = filtered
	}
	return outputResult(CLIResult{Command: "todos", Results: todos})
}

func runUnused(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	path, err := resolveFilePath(args[0])
	if err != nil {
		return err
	}
	symbols, err := s.LoadSymbols(path)
	if err != nil {
		return err
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	// Rebuild the document tree so nested symbols are visible to the
	// detector.
	index := loupe.NewSymbolIndex()
	index.IndexDocument(string(uri.File(path)), symbols)

	detector := loupe.NewUnusedDetector()
	for _, prefix := range cfg.Index.IgnorePrefixes {
		detector.IgnorePrefix(prefix)
	}
	items := detector.Analyze(index.DocumentSymbols(string(uri.File(path))), string(src))

	out := make([]CLIUnused, 0, len(items))
	for _, item := range items {
		out = append(out, CLIUnused{
			Name:      item.Name,
			Kind:      string(item.Kind),
			Line:      item.Range.Start.Line,
			CanRemove: item.CanRemove,
			FixAction: item.FixAction,
		})
	}
	return outputResult(CLIResult{Command: "unused", Results: out})
}

func runFiles(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	files, err := s.Files()
	if err != nil {
		return err
	}
	out := make([]CLIFile, 0, len(files))
	for _, f := range files {
		out = append(out, CLIFile{ID: f.ID, Path: f.Path, Language: f.Language, Hash: f.Hash})
	}
	return outputResult(CLIResult{Command: "files", Results: out})
}

// --- Conversions ---

func toCLISymbols(symbols []*loupe.Symbol) []CLISymbol {
	out := make([]CLISymbol, 0, len(symbols))
	for _, sym := range symbols {
		out = append(out, CLISymbol{
			ID:            sym.ID,
			Name:          sym.Name,
			Kind:          string(sym.Kind),
			QualifiedName: sym.QualifiedName,
			Visibility:    string(sym.Visibility),
			Exported:      sym.Exported,
			File:          sym.URI,
			StartLine:     sym.Range.Start.Line,
			StartCol:      sym.Range.Start.Column,
			EndLine:       sym.Range.End.Line,
			EndCol:        sym.Range.End.Column,
		})
	}
	return out
}

func toCLITodo(path string, item loupe.TodoItem) CLITodo {
	return CLITodo{
		File:     path,
		Kind:     string(item.Kind),
		Text:     item.Text,
		Author:   item.Author,
		Priority: item.Priority,
		Line:     item.Line,
	}
}

// outputResult marshals a CLIResult to stdout in the selected format.
func outputResult(result CLIResult) error {
	if flagFormat == "text" {
		return outputResultText(result)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
