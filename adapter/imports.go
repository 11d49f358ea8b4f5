package adapter

import (
	"os"
	"path/filepath"
	"strings"
)

// stripQuotes removes one layer of surrounding string-literal quotes.
func stripQuotes(text string) string {
	text = strings.TrimSpace(text)
	if len(text) >= 2 {
		switch text[0] {
		case '"', '\'', '`':
			if text[len(text)-1] == text[0] {
				return text[1 : len(text)-1]
			}
		}
	}
	return text
}

// resolveQuoted resolves a double-quoted include path against the
// including file's directory. Angle-bracket and bare forms stay
// unresolved.
func resolveQuoted(fromFile, text string) (string, bool) {
	text = strings.TrimSpace(text)
	if len(text) < 2 || text[0] != '"' || text[len(text)-1] != '"' {
		return "", false
	}
	path := filepath.Join(filepath.Dir(fromFile), text[1:len(text)-1])
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return path, true
	}
	return "", false
}

// resolveRelative resolves a ./ or ../ module specifier against the
// importing file's directory, trying the bare path, each candidate
// extension, and an index file per extension. Non-relative specifiers
// stay unresolved.
func resolveRelative(fromFile, text string, exts []string) (string, bool) {
	spec := stripQuotes(text)
	if !strings.HasPrefix(spec, "./") && !strings.HasPrefix(spec, "../") {
		return "", false
	}
	base := filepath.Join(filepath.Dir(fromFile), spec)

	candidates := make([]string, 0, 1+2*len(exts))
	candidates = append(candidates, base)
	for _, ext := range exts {
		candidates = append(candidates, base+"."+ext)
	}
	for _, ext := range exts {
		candidates = append(candidates, filepath.Join(base, "index."+ext))
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c, true
		}
	}
	return "", false
}
