package loupe

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// TodoKind classifies a TODO comment marker.
type TodoKind string

const (
	TodoTodo     TodoKind = "todo"
	TodoFixme    TodoKind = "fixme"
	TodoHack     TodoKind = "hack"
	TodoXxx      TodoKind = "xxx"
	TodoNote     TodoKind = "note"
	TodoBug      TodoKind = "bug"
	TodoOptimize TodoKind = "optimize"
	TodoCustom   TodoKind = "custom"
)

// Priority returns the urgency level for the marker kind; higher is more
// urgent.
func (k TodoKind) Priority() int {
	switch k {
	case TodoBug:
		return 5
	case TodoFixme:
		return 4
	case TodoXxx:
		return 3
	case TodoTodo, TodoOptimize:
		return 2
	case TodoHack, TodoCustom:
		return 1
	default:
		return 0
	}
}

// TodoItem is one TODO/FIXME style comment found in a document. Items are
// flat, document-scoped findings, not linked into the symbol tree.
type TodoItem struct {
	Kind     TodoKind `json:"kind"`
	Text     string   `json:"text"`
	Range    Range    `json:"range"`
	Author   string   `json:"author,omitempty"`
	Priority int      `json:"priority"`
	Line     int      `json:"line"` // 1-indexed
}

// ScannerConfig configures the comment scanner.
type ScannerConfig struct {
	// CustomMarkers are additional uppercase marker words reported as
	// TodoCustom.
	CustomMarkers []string
}

// CommentScanner finds TODO markers in source text with a flat regex
// classification pass, with no comment-grammar awareness.
type CommentScanner struct {
	pattern *regexp.Regexp
	kinds   map[string]TodoKind
}

// NewCommentScanner compiles the marker pattern for the builtin markers
// plus any custom ones.
func NewCommentScanner(cfg ScannerConfig) *CommentScanner {
	kinds := map[string]TodoKind{
		"TODO":     TodoTodo,
		"FIXME":    TodoFixme,
		"HACK":     TodoHack,
		"XXX":      TodoXxx,
		"NOTE":     TodoNote,
		"BUG":      TodoBug,
		"OPTIMIZE": TodoOptimize,
	}
	for _, marker := range cfg.CustomMarkers {
		kinds[strings.ToUpper(marker)] = TodoCustom
	}

	keywords := make([]string, 0, len(kinds))
	for kw := range kinds {
		keywords = append(keywords, kw)
	}
	sort.Strings(keywords)

	// Optional comment prefix, the marker, optional "!" urgency, optional
	// "(author)" group, then the remaining text.
	pattern := regexp.MustCompile(fmt.Sprintf(
		`(?://|/\*|#|--|;)?\s*\b(%s)\b(!)?(?:\(([^)]+)\))?[:\s]+(.*)$`,
		strings.Join(keywords, "|"),
	))
	return &CommentScanner{pattern: pattern, kinds: kinds}
}

// ScanFile scans one document line by line and returns every marker found.
func (c *CommentScanner) ScanFile(source string) []TodoItem {
	var todos []TodoItem
	for lineIdx, line := range strings.Split(source, "\n") {
		m := c.pattern.FindStringSubmatchIndex(line)
		if m == nil {
			continue
		}
		keyword := strings.ToUpper(line[m[2]:m[3]])
		kind, ok := c.kinds[keyword]
		if !ok {
			continue
		}

		urgent := m[4] >= 0
		author := ""
		if m[6] >= 0 {
			author = line[m[6]:m[7]]
		}
		text := ""
		matchEnd := m[3]
		if m[8] >= 0 {
			text = strings.TrimSpace(line[m[8]:m[9]])
			matchEnd = m[9]
		}

		priority := kind.Priority()
		if urgent && priority < 5 {
			priority++
		}

		todos = append(todos, TodoItem{
			Kind:     kind,
			Text:     text,
			Range:    RangeFrom(lineIdx, m[2], lineIdx, matchEnd),
			Author:   author,
			Priority: priority,
			Line:     lineIdx + 1,
		})
	}
	return todos
}

// TodoIndex stores TODO items per document URI.
type TodoIndex struct {
	byDocument map[string][]TodoItem
	scanner    *CommentScanner
}

// NewTodoIndex creates an index with the default scanner.
func NewTodoIndex() *TodoIndex {
	return NewTodoIndexWithConfig(ScannerConfig{})
}

// NewTodoIndexWithConfig creates an index with a configured scanner.
func NewTodoIndexWithConfig(cfg ScannerConfig) *TodoIndex {
	return &TodoIndex{
		byDocument: make(map[string][]TodoItem),
		scanner:    NewCommentScanner(cfg),
	}
}

// IndexDocument rescans a document, replacing its items.
func (x *TodoIndex) IndexDocument(uri, source string) {
	todos := x.scanner.ScanFile(source)
	if len(todos) == 0 {
		delete(x.byDocument, uri)
		return
	}
	x.byDocument[uri] = todos
}

// RemoveDocument drops a document's items.
func (x *TodoIndex) RemoveDocument(uri string) {
	delete(x.byDocument, uri)
}

// DocumentTodos returns the items for one document.
func (x *TodoIndex) DocumentTodos(uri string) []TodoItem {
	return x.byDocument[uri]
}

// DocumentTodo pairs an item with its document.
type DocumentTodo struct {
	URI  string   `json:"uri"`
	Item TodoItem `json:"item"`
}

// AllTodos returns every item across documents, ordered by priority
// descending, then by (uri, line).
func (x *TodoIndex) AllTodos() []DocumentTodo {
	var all []DocumentTodo
	for uri, items := range x.byDocument {
		for _, item := range items {
			all = append(all, DocumentTodo{URI: uri, Item: item})
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Item.Priority != all[j].Item.Priority {
			return all[i].Item.Priority > all[j].Item.Priority
		}
		if all[i].URI != all[j].URI {
			return all[i].URI < all[j].URI
		}
		return all[i].Item.Line < all[j].Item.Line
	})
	return all
}

// TodosByKind filters AllTodos to one kind.
func (x *TodoIndex) TodosByKind(kind TodoKind) []DocumentTodo {
	var out []DocumentTodo
	for _, dt := range x.AllTodos() {
		if dt.Item.Kind == kind {
			out = append(out, dt)
		}
	}
	return out
}

// Count returns the total number of items.
func (x *TodoIndex) Count() int {
	n := 0
	for _, items := range x.byDocument {
		n += len(items)
	}
	return n
}

// CountByKind returns per-kind totals.
func (x *TodoIndex) CountByKind() map[TodoKind]int {
	counts := make(map[TodoKind]int)
	for _, items := range x.byDocument {
		for _, item := range items {
			counts[item.Kind]++
		}
	}
	return counts
}
