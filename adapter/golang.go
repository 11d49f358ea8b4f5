package adapter

import (
	"unicode"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	tsgo "github.com/smacker/go-tree-sitter/golang"

	"github.com/jward/loupe"
)

// NewGo builds the Go adapter. Visibility follows the case of the first
// rune of the name rather than any keyword or section.
func NewGo() (LanguageAdapter, error) {
	return newTreeAdapter(tsgo.GetLanguage(), profile{
		language:   loupe.LangGo,
		extensions: []string{"go"},

		importKinds: map[string]bool{"import_declaration": true},
		functionKinds: map[string]loupe.SymbolKind{
			"function_declaration": loupe.KindFunction,
			"method_declaration":   loupe.KindMethod,
			"method_elem":          loupe.KindMethod,
			"method_spec":          loupe.KindMethod,
		},
		typeKinds: map[string]loupe.SymbolKind{
			"type_spec": loupe.KindStruct,
		},
		namespaceKinds: map[string]loupe.SymbolKind{
			"package_clause": loupe.KindModule,
		},
		callKinds:    map[string]bool{"call_expression": true},
		wrapperKinds: map[string]bool{"type_declaration": true},

		identifierKinds:    []string{"identifier", "field_identifier"},
		functionNameKinds:  []string{"identifier", "field_identifier"},
		typeNameKinds:      []string{"type_identifier"},
		namespaceNameKinds: []string{"package_identifier", "identifier"},
		declKeywords: map[string]string{
			"function_declaration": "func",
			"type_spec":            "type",
		},

		memberListKind:  "field_declaration_list",
		fieldKinds:      map[string]bool{"field_declaration": true},
		memberNameKinds: []string{"field_identifier"},
		defaultMemberVisibility: func(string) loupe.Visibility {
			return loupe.VisibilityPublic
		},

		typeKindOf: goTypeKind,
		typeBodyOf: func(n *sitter.Node) *sitter.Node {
			return n.ChildByFieldName("type")
		},
		declVisibility: func(_ *sitter.Node, name string) loupe.Visibility {
			return goNameVisibility(name)
		},
		memberVisibility: func(n *sitter.Node, src []byte, current loupe.Visibility) loupe.Visibility {
			if nameNode := findNamed(n, []string{"field_identifier", "identifier"}); nameNode != nil {
				return goNameVisibility(nameNode.Content(src))
			}
			return current
		},

		parseImport: parseGoImports,
		resolveImport: func(fromFile, text string) (string, bool) {
			return resolveRelative(fromFile, text, []string{"go"})
		},
	})
}

// goTypeKind classifies a type_spec by the shape of its right-hand side.
// Anything that is neither a struct nor an interface is treated as a type
// alias.
func goTypeKind(n *sitter.Node) loupe.SymbolKind {
	t := n.ChildByFieldName("type")
	if t == nil {
		return loupe.KindStruct
	}
	switch t.Type() {
	case "struct_type":
		return loupe.KindStruct
	case "interface_type":
		return loupe.KindInterface
	default:
		return loupe.KindTypeParameter
	}
}

func goNameVisibility(name string) loupe.Visibility {
	r, _ := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError || !unicode.IsUpper(r) {
		return loupe.VisibilityPrivate
	}
	return loupe.VisibilityPublic
}

// parseGoImports records each import_spec under an import_declaration,
// grouped or single, keeping the unquoted package path and any alias.
func parseGoImports(w *walk, n *sitter.Node) {
	var specs []*sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		ch := n.NamedChild(i)
		switch ch.Type() {
		case "import_spec":
			specs = append(specs, ch)
		case "import_spec_list":
			for j := 0; j < int(ch.NamedChildCount()); j++ {
				if sub := ch.NamedChild(j); sub.Type() == "import_spec" {
					specs = append(specs, sub)
				}
			}
		}
	}
	for _, spec := range specs {
		pathNode := spec.ChildByFieldName("path")
		if pathNode == nil {
			continue
		}
		info := loupe.ImportInfo{
			ModulePath: stripQuotes(pathNode.Content(w.src)),
			Range:      nodeRange(spec),
		}
		if alias := spec.ChildByFieldName("name"); alias != nil {
			info.Items = []loupe.ImportItem{{
				Name:  info.ModulePath,
				Alias: alias.Content(w.src),
			}}
		}
		w.res.Imports = append(w.res.Imports, info)
	}
}
