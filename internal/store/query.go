package store

import (
	"fmt"

	"github.com/jward/loupe"
)

// CallSite is one recorded call expression paired with the file it occurs in.
type CallSite struct {
	Path        string      `json:"path"`
	Callee      string      `json:"callee"`
	Qualified   string      `json:"qualified,omitempty"`
	Constructor bool        `json:"constructor,omitempty"`
	Range       loupe.Range `json:"range"`
}

// CallSites returns every stored call whose callee or qualified form matches
// name, ordered by (path, position). Matching is textual: calls are recorded
// per file without cross-file resolution, so distinct symbols sharing a name
// are conflated.
func (s *Store) CallSites(name string) ([]CallSite, error) {
	rows, err := s.db.Query(
		`SELECT f.path, c.callee, c.qualified, c.is_constructor,
			c.start_line, c.start_col, c.end_line, c.end_col
		 FROM calls c JOIN files f ON f.id = c.file_id
		 WHERE c.callee = ? OR c.qualified = ?
		 ORDER BY f.path, c.start_line, c.start_col`, name, name)
	if err != nil {
		return nil, fmt.Errorf("query call sites: %w", err)
	}
	defer rows.Close()

	var sites []CallSite
	for rows.Next() {
		var site CallSite
		var sl, sc, el, ec int
		if err := rows.Scan(&site.Path, &site.Callee, &site.Qualified, &site.Constructor,
			&sl, &sc, &el, &ec); err != nil {
			return nil, fmt.Errorf("scan call site: %w", err)
		}
		site.Range = loupe.RangeFrom(sl, sc, el, ec)
		sites = append(sites, site)
	}
	return sites, rows.Err()
}

// Importers returns the paths of files importing the given module, matching
// either the exact module path or any path ending in "/<module>".
func (s *Store) Importers(module string) ([]string, error) {
	rows, err := s.db.Query(
		`SELECT DISTINCT f.path
		 FROM imports i JOIN files f ON f.id = i.file_id
		 WHERE i.module_path = ? OR i.module_path LIKE ?
		 ORDER BY f.path`, module, "%/"+module)
	if err != nil {
		return nil, fmt.Errorf("query importers: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("scan importer: %w", err)
		}
		paths = append(paths, path)
	}
	return paths, rows.Err()
}
