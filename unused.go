package loupe

import (
	"fmt"
	"sort"
	"strings"
)

// UnusedKind classifies an unused-symbol finding.
type UnusedKind string

const (
	UnusedVariable  UnusedKind = "variable"
	UnusedFunction  UnusedKind = "function"
	UnusedImport    UnusedKind = "import"
	UnusedParameter UnusedKind = "parameter"
	UnusedClass     UnusedKind = "class"
	UnusedConstant  UnusedKind = "constant"
	UnusedTypeAlias UnusedKind = "type alias"
)

// UnusedItem is one symbol that appears to have no references beyond its
// own declaration. A flat, document-scoped finding.
type UnusedItem struct {
	Kind      UnusedKind `json:"kind"`
	Name      string     `json:"name"`
	Range     Range      `json:"range"`
	CanRemove bool       `json:"canRemove"`
	FixAction string     `json:"fixAction,omitempty"`
}

type definition struct {
	rng  Range
	kind UnusedKind
	used bool
}

// UnusedDetector finds likely-unused symbols with a shallow word-frequency
// heuristic over the symbol model: a name occurring more than once in the
// source counts as used. It never parses.
type UnusedDetector struct {
	defined        map[string]*definition
	ignorePrefixes []string
}

// NewUnusedDetector creates a detector ignoring names starting with "_".
func NewUnusedDetector() *UnusedDetector {
	return &UnusedDetector{ignorePrefixes: []string{"_"}}
}

// IgnorePrefix adds a name prefix to skip.
func (d *UnusedDetector) IgnorePrefix(prefix string) {
	d.ignorePrefixes = append(d.ignorePrefixes, prefix)
}

func (d *UnusedDetector) shouldIgnore(name string) bool {
	for _, prefix := range d.ignorePrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	switch name {
	case "self", "cls", "this", "super", "main", "init", "__init__", "new":
		return true
	}
	return false
}

func unusedKindFor(kind SymbolKind) (UnusedKind, bool) {
	switch kind {
	case KindVariable:
		return UnusedVariable, true
	case KindFunction, KindMethod:
		return UnusedFunction, true
	case KindClass, KindStruct:
		return UnusedClass, true
	case KindConstant:
		return UnusedConstant, true
	case KindTypeParameter:
		return UnusedTypeAlias, true
	case KindModule:
		return UnusedImport, true
	default:
		return "", false
	}
}

// Analyze inspects a document's symbols against its source text and
// reports items that appear unused, sorted by position.
func (d *UnusedDetector) Analyze(symbols []*Symbol, source string) []UnusedItem {
	d.defined = make(map[string]*definition)
	d.collect(symbols)

	for _, word := range strings.FieldsFunc(source, func(r rune) bool {
		return !isWordRune(r)
	}) {
		def, ok := d.defined[word]
		if !ok || d.shouldIgnore(word) {
			continue
		}
		// More than one whole-text occurrence means at least one use
		// beyond the declaration.
		if strings.Count(source, word) > 1 {
			def.used = true
		}
	}

	var unused []UnusedItem
	for name, def := range d.defined {
		if def.used {
			continue
		}
		unused = append(unused, UnusedItem{
			Kind:      def.kind,
			Name:      name,
			Range:     def.rng,
			CanRemove: def.kind == UnusedVariable || def.kind == UnusedImport || def.kind == UnusedConstant,
			FixAction: fixActionFor(def.kind, name),
		})
	}
	sort.Slice(unused, func(i, j int) bool {
		return unused[i].Range.Start.Before(unused[j].Range.Start)
	})
	return unused
}

func (d *UnusedDetector) collect(symbols []*Symbol) {
	for _, sym := range symbols {
		if !d.shouldIgnore(sym.Name) {
			if kind, ok := unusedKindFor(sym.Kind); ok {
				d.defined[sym.Name] = &definition{rng: sym.SelectionRange, kind: kind}
			}
		}
		d.collect(sym.Children)
	}
}

func fixActionFor(kind UnusedKind, name string) string {
	switch kind {
	case UnusedVariable, UnusedParameter:
		return fmt.Sprintf("Prefix with underscore: _%s", name)
	case UnusedImport:
		return "Remove unused import"
	case UnusedFunction, UnusedClass:
		return "Remove or export if intended as public API"
	default:
		return ""
	}
}

func isWordRune(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
