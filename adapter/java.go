package adapter

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	tsjava "github.com/smacker/go-tree-sitter/java"

	"github.com/jward/loupe"
)

// NewJava builds the Java adapter. Imports are classpath-based and never
// resolve to files on disk; an absent access modifier maps to private, the
// closest fit for package-private.
func NewJava() (LanguageAdapter, error) {
	return newTreeAdapter(tsjava.GetLanguage(), profile{
		language:   loupe.LangJava,
		extensions: []string{"java"},

		importKinds: map[string]bool{"import_declaration": true},
		functionKinds: map[string]loupe.SymbolKind{
			"method_declaration":      loupe.KindMethod,
			"constructor_declaration": loupe.KindMethod,
		},
		typeKinds: map[string]loupe.SymbolKind{
			"class_declaration":     loupe.KindClass,
			"record_declaration":    loupe.KindClass,
			"interface_declaration": loupe.KindInterface,
			"enum_declaration":      loupe.KindEnum,
		},
		namespaceKinds: map[string]loupe.SymbolKind{
			"package_declaration": loupe.KindNamespace,
		},
		callKinds:        map[string]bool{"method_invocation": true},
		constructorKinds: map[string]bool{"object_creation_expression": true},

		identifierKinds:    []string{"identifier"},
		functionNameKinds:  []string{"identifier"},
		typeNameKinds:      []string{"identifier"},
		namespaceNameKinds: []string{"scoped_identifier", "identifier"},
		declKeywords: map[string]string{
			"class_declaration":     "class",
			"interface_declaration": "interface",
			"enum_declaration":      "enum",
		},

		memberListKind: "class_body",
		fieldKinds: map[string]bool{
			"field_declaration":    true,
			"constant_declaration": true,
			"enum_constant":        true,
		},
		memberNameKinds: []string{"identifier"},
		defaultMemberVisibility: func(typeNodeKind string) loupe.Visibility {
			// Interface and enum members are implicitly public.
			switch typeNodeKind {
			case "interface_declaration", "enum_declaration":
				return loupe.VisibilityPublic
			}
			return loupe.VisibilityPrivate
		},

		declVisibility: func(n *sitter.Node, _ string) loupe.Visibility {
			if vis, ok := javaModifierVisibility(n); ok {
				return vis
			}
			return loupe.VisibilityPrivate
		},
		memberVisibility: func(n *sitter.Node, _ []byte, current loupe.Visibility) loupe.Visibility {
			if vis, ok := javaModifierVisibility(n); ok {
				return vis
			}
			return current
		},

		callCalleeOf: javaCallee,
		parseImport:  parseJavaImport,
	})
}

// javaModifierVisibility reads a declaration's modifiers node, reporting
// whether an explicit access modifier was present.
func javaModifierVisibility(n *sitter.Node) (loupe.Visibility, bool) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		ch := n.NamedChild(i)
		if ch.Type() != "modifiers" {
			continue
		}
		for j := 0; j < int(ch.ChildCount()); j++ {
			switch ch.Child(j).Type() {
			case "public":
				return loupe.VisibilityPublic, true
			case "protected":
				return loupe.VisibilityProtected, true
			case "private":
				return loupe.VisibilityPrivate, true
			}
		}
	}
	return "", false
}

// javaCallee rebuilds the callee text from a call node's fields:
// method_invocation carries (object, name), object creation carries (type).
func javaCallee(n *sitter.Node, src []byte) string {
	if t := n.ChildByFieldName("type"); t != nil {
		return t.Content(src)
	}
	name := n.ChildByFieldName("name")
	if name == nil {
		return ""
	}
	if object := n.ChildByFieldName("object"); object != nil {
		return object.Content(src) + "." + name.Content(src)
	}
	return name.Content(src)
}

// parseJavaImport records one import declaration. Wildcard imports report a
// single "*" item; single-type imports report the trailing segment.
func parseJavaImport(w *walk, n *sitter.Node) {
	path := findNamed(n, []string{"scoped_identifier", "identifier"})
	if path == nil {
		return
	}
	info := loupe.ImportInfo{
		ModulePath: path.Content(w.src),
		Range:      nodeRange(n),
	}
	if hasKeywordChild(n, "asterisk") {
		info.Items = []loupe.ImportItem{{Name: "*"}}
	} else if idx := strings.LastIndex(info.ModulePath, "."); idx >= 0 {
		info.Items = []loupe.ImportItem{{Name: info.ModulePath[idx+1:]}}
	}
	w.res.Imports = append(w.res.Imports, info)
}
