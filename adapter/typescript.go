package adapter

import (
	sitter "github.com/smacker/go-tree-sitter"
	tsts "github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/jward/loupe"
)

// NewTypeScript builds the TypeScript adapter: the JavaScript profile
// plus interfaces, enums, type aliases, namespaces, and per-member
// accessibility modifiers.
func NewTypeScript() (LanguageAdapter, error) {
	prof := jsProfile(loupe.LangTypeScript, []string{"ts", "tsx", "js", "jsx"})

	prof.typeKinds["abstract_class_declaration"] = loupe.KindClass
	prof.typeKinds["interface_declaration"] = loupe.KindInterface
	prof.typeKinds["enum_declaration"] = loupe.KindEnum
	prof.typeKinds["type_alias_declaration"] = loupe.KindTypeParameter

	prof.namespaceKinds = map[string]loupe.SymbolKind{
		"internal_module": loupe.KindNamespace,
		"module":          loupe.KindModule,
	}

	prof.functionKinds["function_signature"] = loupe.KindFunction
	prof.functionKinds["method_signature"] = loupe.KindMethod
	prof.functionKinds["abstract_method_signature"] = loupe.KindMethod

	prof.fieldKinds["property_signature"] = true
	prof.fieldKinds["enum_assignment"] = true

	prof.memberVisibility = tsAccessibility

	return newTreeAdapter(tsts.GetLanguage(), prof)
}

// tsAccessibility reads an explicit public/private/protected modifier off
// a class member; members without one keep the surrounding default.
func tsAccessibility(n *sitter.Node, src []byte, current loupe.Visibility) loupe.Visibility {
	for i := 0; i < int(n.ChildCount()); i++ {
		ch := n.Child(i)
		if ch.Type() != "accessibility_modifier" {
			continue
		}
		switch ch.Content(src) {
		case "public":
			return loupe.VisibilityPublic
		case "protected":
			return loupe.VisibilityProtected
		case "private":
			return loupe.VisibilityPrivate
		}
	}
	return current
}
