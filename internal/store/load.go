package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jward/loupe"
)

// FileByPath returns the file row for path, or nil when unindexed.
func (s *Store) FileByPath(path string) (*File, error) {
	f := &File{}
	err := s.db.QueryRow(
		"SELECT id, path, language, hash, last_indexed FROM files WHERE path = ?", path,
	).Scan(&f.ID, &f.Path, &f.Language, &f.Hash, &f.LastIndexed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("file by path: %w", err)
	}
	return f, nil
}

// Files returns every indexed file, ordered by path.
func (s *Store) Files() ([]*File, error) {
	rows, err := s.db.Query(
		"SELECT id, path, language, hash, last_indexed FROM files ORDER BY path",
	)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer rows.Close()
	var files []*File
	for rows.Next() {
		f := &File{}
		if err := rows.Scan(&f.ID, &f.Path, &f.Language, &f.Hash, &f.LastIndexed); err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

const symbolCols = `id, file_id, name, kind, qualified_name, visibility, exported,
	start_line, start_col, end_line, end_col,
	sel_start_line, sel_start_col, sel_end_line, sel_end_col, parent_symbol_id`

func scanSymbol(scanner interface{ Scan(...any) error }, uri string) (*loupe.Symbol, error) {
	sym := &loupe.Symbol{URI: uri}
	var fileID int64
	var kind, visibility string
	var sl, sc, el, ec, ssl, ssc, sel, sec int
	var parent sql.NullInt64
	err := scanner.Scan(
		&sym.ID, &fileID, &sym.Name, &kind, &sym.QualifiedName, &visibility, &sym.Exported,
		&sl, &sc, &el, &ec, &ssl, &ssc, &sel, &sec, &parent,
	)
	if err != nil {
		return nil, err
	}
	sym.Kind = loupe.SymbolKind(kind)
	sym.Visibility = loupe.Visibility(visibility)
	sym.Range = loupe.RangeFrom(sl, sc, el, ec)
	sym.SelectionRange = loupe.RangeFrom(ssl, ssc, sel, sec)
	if parent.Valid {
		sym.ParentID = parent.Int64
	}
	return sym, nil
}

func (s *Store) querySymbols(uri, query string, args ...any) ([]*loupe.Symbol, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var symbols []*loupe.Symbol
	for rows.Next() {
		sym, err := scanSymbol(rows, uri)
		if err != nil {
			return nil, fmt.Errorf("scan symbol: %w", err)
		}
		symbols = append(symbols, sym)
	}
	return symbols, rows.Err()
}

// LoadSymbols returns one file's symbols flat, in document order, with
// lexical parent links preserved as stored ids.
func (s *Store) LoadSymbols(path string) ([]*loupe.Symbol, error) {
	f, err := s.FileByPath(path)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, nil
	}
	return s.querySymbols(path,
		"SELECT "+symbolCols+" FROM symbols WHERE file_id = ? ORDER BY id", f.ID)
}

// SymbolsByName returns every stored symbol with an exact name match,
// across files.
func (s *Store) SymbolsByName(name string) ([]*loupe.Symbol, error) {
	rows, err := s.db.Query(
		`SELECT f.path, sym.id, sym.file_id, sym.name, sym.kind, sym.qualified_name,
			sym.visibility, sym.exported,
			sym.start_line, sym.start_col, sym.end_line, sym.end_col,
			sym.sel_start_line, sym.sel_start_col, sym.sel_end_line, sym.sel_end_col,
			sym.parent_symbol_id
		 FROM symbols sym JOIN files f ON f.id = sym.file_id
		 WHERE sym.name = ? ORDER BY f.path, sym.id`, name)
	if err != nil {
		return nil, fmt.Errorf("symbols by name: %w", err)
	}
	defer rows.Close()
	var symbols []*loupe.Symbol
	for rows.Next() {
		sym, err := scanPathSymbol(rows)
		if err != nil {
			return nil, fmt.Errorf("scan symbol: %w", err)
		}
		symbols = append(symbols, sym)
	}
	return symbols, rows.Err()
}

func scanPathSymbol(rows *sql.Rows) (*loupe.Symbol, error) {
	sym := &loupe.Symbol{}
	var fileID int64
	var kind, visibility string
	var sl, sc, el, ec, ssl, ssc, sel, sec int
	var parent sql.NullInt64
	err := rows.Scan(
		&sym.URI, &sym.ID, &fileID, &sym.Name, &kind, &sym.QualifiedName, &visibility, &sym.Exported,
		&sl, &sc, &el, &ec, &ssl, &ssc, &sel, &sec, &parent,
	)
	if err != nil {
		return nil, err
	}
	sym.Kind = loupe.SymbolKind(kind)
	sym.Visibility = loupe.Visibility(visibility)
	sym.Range = loupe.RangeFrom(sl, sc, el, ec)
	sym.SelectionRange = loupe.RangeFrom(ssl, ssc, sel, sec)
	if parent.Valid {
		sym.ParentID = parent.Int64
	}
	return sym, nil
}

// LoadIndex rebuilds an in-memory symbol index over every stored file.
func (s *Store) LoadIndex() (*loupe.SymbolIndex, error) {
	files, err := s.Files()
	if err != nil {
		return nil, err
	}
	index := loupe.NewSymbolIndex()
	for _, f := range files {
		symbols, err := s.LoadSymbols(f.Path)
		if err != nil {
			return nil, fmt.Errorf("load symbols for %s: %w", f.Path, err)
		}
		index.IndexDocument(f.Path, symbols)
	}
	return index, nil
}

// LoadImports returns one file's import directives in document order.
func (s *Store) LoadImports(path string) ([]loupe.ImportInfo, error) {
	f, err := s.FileByPath(path)
	if err != nil || f == nil {
		return nil, err
	}
	rows, err := s.db.Query(
		`SELECT module_path, type_only, items, start_line, start_col, end_line, end_col
		 FROM imports WHERE file_id = ? ORDER BY id`, f.ID)
	if err != nil {
		return nil, fmt.Errorf("load imports: %w", err)
	}
	defer rows.Close()
	var imports []loupe.ImportInfo
	for rows.Next() {
		var imp loupe.ImportInfo
		var items string
		var sl, sc, el, ec int
		if err := rows.Scan(&imp.ModulePath, &imp.TypeOnly, &items, &sl, &sc, &el, &ec); err != nil {
			return nil, fmt.Errorf("scan import: %w", err)
		}
		imp.Items = unmarshalItems(items)
		imp.Range = loupe.RangeFrom(sl, sc, el, ec)
		imports = append(imports, imp)
	}
	return imports, rows.Err()
}

// LoadCalls returns one file's call sites in document order.
func (s *Store) LoadCalls(path string) ([]loupe.CallInfo, error) {
	f, err := s.FileByPath(path)
	if err != nil || f == nil {
		return nil, err
	}
	rows, err := s.db.Query(
		`SELECT callee, qualified, is_constructor, start_line, start_col, end_line, end_col
		 FROM calls WHERE file_id = ? ORDER BY id`, f.ID)
	if err != nil {
		return nil, fmt.Errorf("load calls: %w", err)
	}
	defer rows.Close()
	var calls []loupe.CallInfo
	for rows.Next() {
		var call loupe.CallInfo
		var sl, sc, el, ec int
		if err := rows.Scan(&call.Callee, &call.Qualified, &call.Constructor, &sl, &sc, &el, &ec); err != nil {
			return nil, fmt.Errorf("scan call: %w", err)
		}
		call.Range = loupe.RangeFrom(sl, sc, el, ec)
		calls = append(calls, call)
	}
	return calls, rows.Err()
}

// LoadTodos returns one file's TODO items in document order.
func (s *Store) LoadTodos(path string) ([]loupe.TodoItem, error) {
	f, err := s.FileByPath(path)
	if err != nil || f == nil {
		return nil, err
	}
	rows, err := s.db.Query(
		`SELECT kind, text, author, priority, line, start_line, start_col, end_line, end_col
		 FROM todos WHERE file_id = ? ORDER BY id`, f.ID)
	if err != nil {
		return nil, fmt.Errorf("load todos: %w", err)
	}
	defer rows.Close()
	return scanTodos(rows)
}

// AllTodos returns every stored TODO item paired with its file, most
// urgent first.
func (s *Store) AllTodos() ([]loupe.DocumentTodo, error) {
	rows, err := s.db.Query(
		`SELECT f.path, t.kind, t.text, t.author, t.priority, t.line,
			t.start_line, t.start_col, t.end_line, t.end_col
		 FROM todos t JOIN files f ON f.id = t.file_id
		 ORDER BY t.priority DESC, f.path, t.line`)
	if err != nil {
		return nil, fmt.Errorf("all todos: %w", err)
	}
	defer rows.Close()
	var all []loupe.DocumentTodo
	for rows.Next() {
		var dt loupe.DocumentTodo
		var kind string
		var sl, sc, el, ec int
		if err := rows.Scan(&dt.URI, &kind, &dt.Item.Text, &dt.Item.Author, &dt.Item.Priority,
			&dt.Item.Line, &sl, &sc, &el, &ec); err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		dt.Item.Kind = loupe.TodoKind(kind)
		dt.Item.Range = loupe.RangeFrom(sl, sc, el, ec)
		all = append(all, dt)
	}
	return all, rows.Err()
}

func scanTodos(rows *sql.Rows) ([]loupe.TodoItem, error) {
	var todos []loupe.TodoItem
	for rows.Next() {
		var todo loupe.TodoItem
		var kind string
		var sl, sc, el, ec int
		if err := rows.Scan(&kind, &todo.Text, &todo.Author, &todo.Priority, &todo.Line,
			&sl, &sc, &el, &ec); err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		todo.Kind = loupe.TodoKind(kind)
		todo.Range = loupe.RangeFrom(sl, sc, el, ec)
		todos = append(todos, todo)
	}
	return todos, rows.Err()
}
