package adapter

import (
	sitter "github.com/smacker/go-tree-sitter"
	tsrust "github.com/smacker/go-tree-sitter/rust"

	"github.com/jward/loupe"
)

// NewRust builds the Rust adapter. Items are private unless they carry a
// pub modifier. Use declarations record the path verbatim; crate paths do
// not map to files here, so resolution always reports unresolved.
func NewRust() (LanguageAdapter, error) {
	return newTreeAdapter(tsrust.GetLanguage(), profile{
		language:   loupe.LangRust,
		extensions: []string{"rs"},

		importKinds: map[string]bool{"use_declaration": true},
		functionKinds: map[string]loupe.SymbolKind{
			"function_item":           loupe.KindFunction,
			"function_signature_item": loupe.KindFunction,
		},
		typeKinds: map[string]loupe.SymbolKind{
			"struct_item": loupe.KindStruct,
			"enum_item":   loupe.KindEnum,
			"union_item":  loupe.KindStruct,
			"trait_item":  loupe.KindInterface,
			"type_item":   loupe.KindTypeParameter,
		},
		namespaceKinds: map[string]loupe.SymbolKind{
			"mod_item": loupe.KindModule,
		},
		callKinds:      map[string]bool{"call_expression": true},
		wrapperKinds:   map[string]bool{"impl_item": true},
		wrapperScopeOf: rustImplType,

		identifierKinds:   []string{"identifier", "field_identifier"},
		functionNameKinds: []string{"identifier"},
		typeNameKinds:     []string{"type_identifier"},
		declKeywords: map[string]string{
			"function_item": "fn",
			"struct_item":   "struct",
			"enum_item":     "enum",
			"trait_item":    "trait",
			"mod_item":      "mod",
		},

		memberListKind:  "field_declaration_list",
		fieldKinds:      map[string]bool{"field_declaration": true},
		memberNameKinds: []string{"field_identifier"},
		defaultMemberVisibility: func(string) loupe.Visibility {
			return loupe.VisibilityPrivate
		},

		declVisibility:   rustItemVisibility,
		memberVisibility: rustMemberVisibility,

		parseImport: parseUseDeclaration,
	})
}

// rustImplType names the type an impl block targets. For trait impls the
// "type" field is the implementing type, not the trait; generic arguments
// are stripped down to the bare type identifier.
func rustImplType(n *sitter.Node, src []byte) string {
	typ := n.ChildByFieldName("type")
	if typ == nil {
		return ""
	}
	if typ.Type() == "type_identifier" {
		return typ.Content(src)
	}
	if ident := findNamed(typ, []string{"type_identifier"}); ident != nil {
		return ident.Content(src)
	}
	return ""
}

func rustItemVisibility(n *sitter.Node, _ string) loupe.Visibility {
	if hasVisibilityModifier(n) {
		return loupe.VisibilityPublic
	}
	return loupe.VisibilityPrivate
}

func rustMemberVisibility(n *sitter.Node, _ []byte, current loupe.Visibility) loupe.Visibility {
	if hasVisibilityModifier(n) {
		return loupe.VisibilityPublic
	}
	return current
}

func hasVisibilityModifier(n *sitter.Node) bool {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if n.NamedChild(i).Type() == "visibility_modifier" {
			return true
		}
	}
	return false
}

func parseUseDeclaration(w *walk, n *sitter.Node) {
	arg := n.ChildByFieldName("argument")
	if arg == nil {
		return
	}
	w.res.Imports = append(w.res.Imports, loupe.ImportInfo{
		ModulePath: arg.Content(w.src),
		Range:      nodeRange(n),
	})
}
