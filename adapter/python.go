package adapter

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	tspy "github.com/smacker/go-tree-sitter/python"

	"github.com/jward/loupe"
)

// NewPython builds the Python adapter. A leading underscore marks a
// symbol private; everything else is public. Import paths are module
// paths, not file paths, so resolution always reports unresolved.
func NewPython() (LanguageAdapter, error) {
	return newTreeAdapter(tspy.GetLanguage(), profile{
		language:   loupe.LangPython,
		extensions: []string{"py", "pyi"},

		importKinds: map[string]bool{
			"import_statement":      true,
			"import_from_statement": true,
		},
		functionKinds: map[string]loupe.SymbolKind{
			"function_definition": loupe.KindFunction,
		},
		typeKinds: map[string]loupe.SymbolKind{
			"class_definition": loupe.KindClass,
		},
		callKinds:    map[string]bool{"call": true},
		wrapperKinds: map[string]bool{"decorated_definition": true},

		identifierKinds: []string{"identifier"},
		declKeywords: map[string]string{
			"function_definition": "def",
			"class_definition":    "class",
		},

		defaultMemberVisibility: func(string) loupe.Visibility {
			return loupe.VisibilityPublic
		},
		declVisibility: func(_ *sitter.Node, name string) loupe.Visibility {
			return pyNameVisibility(name)
		},
		memberVisibility: func(n *sitter.Node, src []byte, current loupe.Visibility) loupe.Visibility {
			if name := n.ChildByFieldName("name"); name != nil {
				return pyNameVisibility(name.Content(src))
			}
			return current
		},

		parseImport: parsePythonImport,
	})
}

func pyNameVisibility(name string) loupe.Visibility {
	// Dunder names are part of the protocol surface, not private.
	if strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__") {
		return loupe.VisibilityPublic
	}
	if strings.HasPrefix(name, "_") {
		return loupe.VisibilityPrivate
	}
	return loupe.VisibilityPublic
}

// parsePythonImport handles both statement forms: "import a.b as c" yields
// one directive per dotted name, "from a.b import x as y, z" yields a
// single directive with items.
func parsePythonImport(w *walk, n *sitter.Node) {
	if n.Type() == "import_from_statement" {
		info := loupe.ImportInfo{Range: nodeRange(n)}
		if module := n.ChildByFieldName("module_name"); module != nil {
			info.ModulePath = module.Content(w.src)
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			ch := n.NamedChild(i)
			if module := n.ChildByFieldName("module_name"); module != nil && ch.Equal(module) {
				continue
			}
			if item, ok := pyImportItem(w, ch); ok {
				info.Items = append(info.Items, item)
			}
		}
		w.res.Imports = append(w.res.Imports, info)
		return
	}

	for i := 0; i < int(n.NamedChildCount()); i++ {
		ch := n.NamedChild(i)
		item, ok := pyImportItem(w, ch)
		if !ok {
			continue
		}
		info := loupe.ImportInfo{ModulePath: item.Name, Range: nodeRange(ch)}
		if item.Alias != "" {
			info.Items = []loupe.ImportItem{item}
		}
		w.res.Imports = append(w.res.Imports, info)
	}
}

func pyImportItem(w *walk, n *sitter.Node) (loupe.ImportItem, bool) {
	switch n.Type() {
	case "dotted_name", "identifier", "relative_import", "wildcard_import":
		return loupe.ImportItem{Name: n.Content(w.src)}, true
	case "aliased_import":
		item := loupe.ImportItem{}
		if name := n.ChildByFieldName("name"); name != nil {
			item.Name = name.Content(w.src)
		}
		if alias := n.ChildByFieldName("alias"); alias != nil {
			item.Alias = alias.Content(w.src)
		}
		return item, item.Name != ""
	}
	return loupe.ImportItem{}, false
}
