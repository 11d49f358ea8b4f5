package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jward/loupe"
)

// SaveDocument stores one file's analysis and TODO items, replacing any
// previous rows for the same path. The whole save is one transaction, so
// readers never observe a half-indexed file. On success f.ID and
// f.LastIndexed are set.
func (s *Store) SaveDocument(f *File, a *loupe.Analysis, todos []loupe.TodoItem) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()

	var fileID int64
	err = tx.QueryRow("SELECT id FROM files WHERE path = ?", f.Path).Scan(&fileID)
	switch {
	case err == nil:
		if err := deleteFileChildren(tx, fileID); err != nil {
			return err
		}
		if _, err := tx.Exec(
			"UPDATE files SET language = ?, hash = ?, last_indexed = ? WHERE id = ?",
			f.Language, f.Hash, now, fileID,
		); err != nil {
			return fmt.Errorf("update file: %w", err)
		}
	case errors.Is(err, sql.ErrNoRows):
		res, err := tx.Exec(
			"INSERT INTO files (path, language, hash, last_indexed) VALUES (?, ?, ?, ?)",
			f.Path, f.Language, f.Hash, now,
		)
		if err != nil {
			return fmt.Errorf("insert file: %w", err)
		}
		if fileID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("last insert id: %w", err)
		}
	default:
		return fmt.Errorf("query file: %w", err)
	}

	// Symbols arrive parents-first, so one pass with an id remap table is
	// enough to rewrite lexical parent links onto database ids.
	remap := make(map[int64]int64, len(a.Symbols))
	for _, sym := range a.Symbols {
		var parentID any
		if sym.ParentID != 0 {
			if mapped, ok := remap[sym.ParentID]; ok {
				parentID = mapped
			}
		}
		res, err := tx.Exec(
			`INSERT INTO symbols (file_id, name, kind, qualified_name, visibility, exported,
				start_line, start_col, end_line, end_col,
				sel_start_line, sel_start_col, sel_end_line, sel_end_col, parent_symbol_id)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			fileID, sym.Name, string(sym.Kind), sym.QualifiedName, string(sym.Visibility), sym.Exported,
			sym.Range.Start.Line, sym.Range.Start.Column, sym.Range.End.Line, sym.Range.End.Column,
			sym.SelectionRange.Start.Line, sym.SelectionRange.Start.Column,
			sym.SelectionRange.End.Line, sym.SelectionRange.End.Column, parentID,
		)
		if err != nil {
			return fmt.Errorf("insert symbol %q: %w", sym.Name, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("last insert id: %w", err)
		}
		remap[sym.ID] = id
	}

	for _, imp := range a.Imports {
		if _, err := tx.Exec(
			`INSERT INTO imports (file_id, module_path, type_only, items,
				start_line, start_col, end_line, end_col)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			fileID, imp.ModulePath, imp.TypeOnly, marshalItems(imp.Items),
			imp.Range.Start.Line, imp.Range.Start.Column, imp.Range.End.Line, imp.Range.End.Column,
		); err != nil {
			return fmt.Errorf("insert import %q: %w", imp.ModulePath, err)
		}
	}

	for _, call := range a.Calls {
		if _, err := tx.Exec(
			`INSERT INTO calls (file_id, callee, qualified, is_constructor,
				start_line, start_col, end_line, end_col)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			fileID, call.Callee, call.Qualified, call.Constructor,
			call.Range.Start.Line, call.Range.Start.Column, call.Range.End.Line, call.Range.End.Column,
		); err != nil {
			return fmt.Errorf("insert call %q: %w", call.Callee, err)
		}
	}

	for _, todo := range todos {
		if _, err := tx.Exec(
			`INSERT INTO todos (file_id, kind, text, author, priority, line,
				start_line, start_col, end_line, end_col)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			fileID, string(todo.Kind), todo.Text, todo.Author, todo.Priority, todo.Line,
			todo.Range.Start.Line, todo.Range.Start.Column, todo.Range.End.Line, todo.Range.End.Column,
		); err != nil {
			return fmt.Errorf("insert todo: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	f.ID = fileID
	f.LastIndexed = now
	return nil
}
