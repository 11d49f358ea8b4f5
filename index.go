package loupe

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// SymbolIndex owns per-document symbol sets. The latest IndexDocument call
// for a URI wins; removal drops the whole set. The index assumes a single
// caller context; concurrent access requires external synchronization.
type SymbolIndex struct {
	byDocument map[string][]*Symbol
	nextID     int64
}

// NewSymbolIndex creates an empty index.
func NewSymbolIndex() *SymbolIndex {
	return &SymbolIndex{byDocument: make(map[string][]*Symbol)}
}

// IndexDocument replaces the symbol set for a document. Symbols are stored
// flat in document order; parent links are remapped onto fresh index-wide
// ids, so ids are unique per index instance and never stable across
// updates.
func (x *SymbolIndex) IndexDocument(uri string, symbols []*Symbol) {
	remap := make(map[int64]int64, len(symbols))
	stored := make([]*Symbol, 0, len(symbols))
	for _, sym := range symbols {
		x.nextID++
		cp := *sym
		cp.URI = uri
		cp.Children = nil
		remap[sym.ID] = x.nextID
		cp.ID = x.nextID
		stored = append(stored, &cp)
	}
	for _, sym := range stored {
		if sym.ParentID != 0 {
			sym.ParentID = remap[sym.ParentID]
		}
	}
	x.byDocument[uri] = stored
}

// RemoveDocument drops a document's symbols.
func (x *SymbolIndex) RemoveDocument(uri string) {
	delete(x.byDocument, uri)
}

// Documents returns the indexed document URIs, sorted.
func (x *SymbolIndex) Documents() []string {
	uris := make([]string, 0, len(x.byDocument))
	for uri := range x.byDocument {
		uris = append(uris, uri)
	}
	sort.Strings(uris)
	return uris
}

// SymbolCount returns the total number of indexed symbols.
func (x *SymbolIndex) SymbolCount() int {
	n := 0
	for _, syms := range x.byDocument {
		n += len(syms)
	}
	return n
}

// FindAtPosition returns the innermost symbol whose declaration range
// contains the position: the smallest containing range wins, and among
// equal ranges the one whose selection range also contains the position is
// preferred. Returns nil when nothing matches.
func (x *SymbolIndex) FindAtPosition(uri string, pos Position) *Symbol {
	var best *Symbol
	for _, sym := range x.byDocument[uri] {
		if !sym.Range.Contains(pos) {
			continue
		}
		switch {
		case best == nil:
			best = sym
		case best.Range.ContainsRange(sym.Range) && best.Range != sym.Range:
			// Strictly narrower declaration range.
			best = sym
		case best.Range == sym.Range &&
			sym.SelectionRange.Contains(pos) && !best.SelectionRange.Contains(pos):
			best = sym
		}
	}
	return best
}

// Search returns every symbol in any document whose name matches exactly,
// ordered by (uri, declaration start) for determinism.
//
// This is the name-based workspace lookup used for rename and references:
// it deliberately conflates unrelated same-named symbols in different
// scopes. Callers relying on scope-accurate results must filter further.
func (x *SymbolIndex) Search(name string) []*Symbol {
	var out []*Symbol
	for _, syms := range x.byDocument {
		for _, sym := range syms {
			if sym.Name == name {
				out = append(out, sym)
			}
		}
	}
	sortSymbols(out)
	return out
}

// SearchFuzzy returns symbols whose names fuzzy-match the query, best rank
// first. Exact Search remains the authoritative lookup; this exists for
// interactive symbol pickers.
func (x *SymbolIndex) SearchFuzzy(query string) []*Symbol {
	var all []*Symbol
	var names []string
	for _, syms := range x.byDocument {
		for _, sym := range syms {
			all = append(all, sym)
			names = append(names, sym.Name)
		}
	}
	ranks := fuzzy.RankFindNormalizedFold(query, names)
	sort.Sort(ranks)

	// A name may appear on several symbols; emit each matching symbol once,
	// in rank order.
	seen := make(map[int64]bool)
	var out []*Symbol
	for _, r := range ranks {
		for i, sym := range all {
			if names[i] != r.Target || seen[sym.ID] {
				continue
			}
			seen[sym.ID] = true
			out = append(out, sym)
		}
	}
	return out
}

// DocumentSymbols returns the top-level symbol tree for one document, with
// Children populated from lexical parent links.
func (x *SymbolIndex) DocumentSymbols(uri string) []*Symbol {
	flat := x.byDocument[uri]
	if len(flat) == 0 {
		return nil
	}
	byID := make(map[int64]*Symbol, len(flat))
	nodes := make([]*Symbol, 0, len(flat))
	for _, sym := range flat {
		cp := *sym
		cp.Children = nil
		byID[cp.ID] = &cp
		nodes = append(nodes, &cp)
	}
	var roots []*Symbol
	for _, node := range nodes {
		if parent := byID[node.ParentID]; node.ParentID != 0 && parent != nil {
			parent.Children = append(parent.Children, node)
		} else {
			roots = append(roots, node)
		}
	}
	return roots
}

// AllSymbols returns the flat symbol list for one document.
func (x *SymbolIndex) AllSymbols(uri string) []*Symbol {
	return x.byDocument[uri]
}

func sortSymbols(syms []*Symbol) {
	sort.Slice(syms, func(i, j int) bool {
		if syms[i].URI != syms[j].URI {
			return syms[i].URI < syms[j].URI
		}
		return syms[i].Range.Start.Before(syms[j].Range.Start)
	})
}
