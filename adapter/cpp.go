package adapter

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	tsc "github.com/smacker/go-tree-sitter/c"
	tscpp "github.com/smacker/go-tree-sitter/cpp"

	"github.com/jward/loupe"
)

// NewCpp builds the C++ adapter. Class bodies honor access-specifier
// sections with the C++ defaults: class members start private, struct
// members public. Quoted #include paths resolve relative to the including
// file; angle-bracket includes stay unresolved.
func NewCpp() (LanguageAdapter, error) {
	return newTreeAdapter(tscpp.GetLanguage(), profile{
		language:   loupe.LangCpp,
		extensions: []string{"cpp", "cc", "cxx", "hpp", "hh", "hxx", "h"},

		importKinds: map[string]bool{"preproc_include": true},
		functionKinds: map[string]loupe.SymbolKind{
			"function_definition": loupe.KindFunction,
		},
		typeKinds: map[string]loupe.SymbolKind{
			"class_specifier":  loupe.KindClass,
			"struct_specifier": loupe.KindStruct,
			"enum_specifier":   loupe.KindEnum,
		},
		namespaceKinds: map[string]loupe.SymbolKind{
			"namespace_definition": loupe.KindNamespace,
		},
		callKinds:    map[string]bool{"call_expression": true},
		wrapperKinds: map[string]bool{"type_definition": true, "declaration": true},

		identifierKinds:    []string{"identifier", "field_identifier"},
		functionNameKinds:  []string{"field_identifier", "identifier"},
		typeNameKinds:      []string{"type_identifier", "identifier"},
		namespaceNameKinds: []string{"namespace_identifier", "identifier"},
		declKeywords: map[string]string{
			"class_specifier":      "class",
			"struct_specifier":     "struct",
			"enum_specifier":       "enum",
			"namespace_definition": "namespace",
		},

		memberListKind:  "field_declaration_list",
		sectionKind:     "access_specifier",
		fieldKinds:      map[string]bool{"field_declaration": true},
		memberNameKinds: []string{"field_identifier", "identifier"},
		defaultMemberVisibility: func(typeNodeKind string) loupe.Visibility {
			if typeNodeKind == "class_specifier" {
				return loupe.VisibilityPrivate
			}
			return loupe.VisibilityPublic
		},

		parseImport:   parseIncludeDirective,
		resolveImport: resolveQuoted,
	})
}

// NewC builds the C adapter: the C++ profile minus classes, namespaces,
// and access sections.
func NewC() (LanguageAdapter, error) {
	return newTreeAdapter(tsc.GetLanguage(), profile{
		language:   loupe.LangC,
		extensions: []string{"c"},

		importKinds: map[string]bool{"preproc_include": true},
		functionKinds: map[string]loupe.SymbolKind{
			"function_definition": loupe.KindFunction,
		},
		typeKinds: map[string]loupe.SymbolKind{
			"struct_specifier": loupe.KindStruct,
			"enum_specifier":   loupe.KindEnum,
		},
		callKinds:    map[string]bool{"call_expression": true},
		wrapperKinds: map[string]bool{"type_definition": true, "declaration": true},

		identifierKinds:   []string{"identifier", "field_identifier"},
		functionNameKinds: []string{"identifier", "field_identifier"},
		typeNameKinds:     []string{"type_identifier", "identifier"},
		declKeywords: map[string]string{
			"struct_specifier": "struct",
			"enum_specifier":   "enum",
		},

		memberListKind:  "field_declaration_list",
		fieldKinds:      map[string]bool{"field_declaration": true},
		memberNameKinds: []string{"field_identifier", "identifier"},

		parseImport:   parseIncludeDirective,
		resolveImport: resolveQuoted,
	})
}

// parseIncludeDirective records one #include, keeping the quoted or
// angle-bracket form verbatim so resolution can tell them apart.
func parseIncludeDirective(w *walk, n *sitter.Node) {
	path := n.ChildByFieldName("path")
	if path == nil {
		return
	}
	text := strings.TrimSpace(path.Content(w.src))
	if text == "" {
		return
	}
	w.res.Imports = append(w.res.Imports, loupe.ImportInfo{
		ModulePath: text,
		Range:      nodeRange(n),
	})
}
