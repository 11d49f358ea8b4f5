package adapter

import (
	sitter "github.com/smacker/go-tree-sitter"
	tsjs "github.com/smacker/go-tree-sitter/javascript"

	"github.com/jward/loupe"
)

// NewJavaScript builds the JavaScript adapter. Relative module specifiers
// (./ and ../) resolve against the importing file, trying the bare path,
// the usual extensions, and index files; bare specifiers stay unresolved.
func NewJavaScript() (LanguageAdapter, error) {
	return newTreeAdapter(tsjs.GetLanguage(), jsProfile(loupe.LangJavaScript,
		[]string{"js", "jsx", "mjs", "cjs"}))
}

// jsProfile is the shared JavaScript shape; the TypeScript profile extends
// it.
func jsProfile(lang loupe.LanguageID, exts []string) profile {
	return profile{
		language:   lang,
		extensions: exts,

		importKinds: map[string]bool{"import_statement": true},
		functionKinds: map[string]loupe.SymbolKind{
			"function_declaration":           loupe.KindFunction,
			"generator_function_declaration": loupe.KindFunction,
			"method_definition":              loupe.KindMethod,
		},
		typeKinds: map[string]loupe.SymbolKind{
			"class_declaration": loupe.KindClass,
		},
		callKinds:        map[string]bool{"call_expression": true},
		constructorKinds: map[string]bool{"new_expression": true},

		identifierKinds:    []string{"identifier", "property_identifier"},
		functionNameKinds:  []string{"identifier", "property_identifier", "private_property_identifier"},
		typeNameKinds:      []string{"identifier", "type_identifier"},
		namespaceNameKinds: []string{"identifier", "nested_identifier"},
		declKeywords: map[string]string{
			"function_declaration": "function",
			"class_declaration":    "class",
		},

		memberListKind: "class_body",
		fieldKinds: map[string]bool{
			"field_definition":        true,
			"public_field_definition": true,
		},
		memberNameKinds: []string{"property_identifier", "private_property_identifier", "identifier"},
		defaultMemberVisibility: func(string) loupe.Visibility {
			return loupe.VisibilityPublic
		},

		parseImport: parseJSImport,
		resolveImport: func(fromFile, text string) (string, bool) {
			return resolveRelative(fromFile, text, exts)
		},
	}
}

// parseJSImport records one ES import statement: default imports, named
// imports with aliases, and namespace imports. Type-only imports keep
// their flag so downstream consumers can skip them at runtime.
func parseJSImport(w *walk, n *sitter.Node) {
	source := n.ChildByFieldName("source")
	if source == nil {
		return
	}
	info := loupe.ImportInfo{
		ModulePath: stripQuotes(source.Content(w.src)),
		TypeOnly:   hasKeywordChild(n, "type"),
		Range:      nodeRange(n),
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		ch := n.NamedChild(i)
		if ch.Type() != "import_clause" {
			continue
		}
		collectImportClause(w, ch, &info)
	}
	w.res.Imports = append(w.res.Imports, info)
}

func collectImportClause(w *walk, clause *sitter.Node, info *loupe.ImportInfo) {
	for i := 0; i < int(clause.NamedChildCount()); i++ {
		ch := clause.NamedChild(i)
		switch ch.Type() {
		case "identifier":
			info.Items = append(info.Items, loupe.ImportItem{Name: "default", Alias: ch.Content(w.src)})
		case "namespace_import":
			if name := findNamed(ch, []string{"identifier"}); name != nil {
				info.Items = append(info.Items, loupe.ImportItem{Name: "*", Alias: name.Content(w.src)})
			}
		case "named_imports":
			for j := 0; j < int(ch.NamedChildCount()); j++ {
				spec := ch.NamedChild(j)
				if spec.Type() != "import_specifier" {
					continue
				}
				item := loupe.ImportItem{TypeOnly: hasKeywordChild(spec, "type")}
				if name := spec.ChildByFieldName("name"); name != nil {
					item.Name = name.Content(w.src)
				}
				if alias := spec.ChildByFieldName("alias"); alias != nil {
					item.Alias = alias.Content(w.src)
				}
				if item.Name != "" {
					info.Items = append(info.Items, item)
				}
			}
		}
	}
}

// hasKeywordChild reports whether any direct child token matches the
// given keyword, named or not.
func hasKeywordChild(n *sitter.Node, keyword string) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		if n.Child(i).Type() == keyword {
			return true
		}
	}
	return false
}
