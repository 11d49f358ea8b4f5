package refactor

import (
	"regexp"
	"strings"

	"github.com/jward/loupe"
)

var (
	incompletePatterns = []*regexp.Regexp{
		regexp.MustCompile(`^(if|else|for|while|switch|case|try|catch|finally)\s*$`),
		regexp.MustCompile(`^\w+\s*:\s*$`),
		regexp.MustCompile(`^(let|const|var|function|class|interface|type)\s+\w*$`),
	}

	methodCallPattern   = regexp.MustCompile(`\.(\w+)\s*\(`)
	functionCallPattern = regexp.MustCompile(`^(\w+)\s*\(`)
	propertyPattern     = regexp.MustCompile(`\.(\w+)$`)
	arithmeticPattern   = regexp.MustCompile(`[+\-*/]`)
	comparisonPattern   = regexp.MustCompile(`[<>=!]=?`)

	identPattern   = regexp.MustCompile(`\b[a-zA-Z_][a-zA-Z0-9_]*\b`)
	identPatternJS = regexp.MustCompile(`[a-zA-Z_$][a-zA-Z0-9_$]*`)
)

// IsValidExpression reports whether a selection is a self-contained
// expression: non-empty, balanced delimiters, not an incomplete or
// statement-shaped fragment for the language.
func IsValidExpression(text string, lang loupe.LanguageID) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	if !hasBalancedDelimiters(trimmed) {
		return false
	}
	for _, re := range incompletePatterns {
		if re.MatchString(trimmed) {
			return false
		}
	}

	switch lang {
	case loupe.LangPython:
		return isValidPythonExpression(trimmed)
	case loupe.LangJavaScript, loupe.LangTypeScript:
		return isValidJSExpression(trimmed)
	case loupe.LangRust:
		return isValidRustExpression(trimmed)
	case loupe.LangGo:
		return isValidGoExpression(trimmed)
	default:
		return !strings.HasSuffix(trimmed, "{") && !strings.HasPrefix(trimmed, "}")
	}
}

func isValidPythonExpression(text string) bool {
	for _, start := range []string{"def ", "class ", "if ", "for ", "while ", "try:", "except:", "with "} {
		if strings.HasPrefix(text, start) {
			return false
		}
	}
	return !strings.HasSuffix(text, ":")
}

func isValidJSExpression(text string) bool {
	starts := []string{
		"function ", "class ", "if ", "for ", "while ", "switch ", "try ",
		"const ", "let ", "var ",
	}
	for _, start := range starts {
		// Arrow functions are expressions even when they start like a
		// declaration keyword.
		if strings.HasPrefix(text, start) && !strings.Contains(text, "=>") {
			return false
		}
	}
	return true
}

func isValidRustExpression(text string) bool {
	for _, start := range []string{"fn ", "struct ", "enum ", "impl ", "trait ", "mod ", "use ", "pub "} {
		if strings.HasPrefix(text, start) {
			return false
		}
	}
	return !strings.HasSuffix(text, "{")
}

func isValidGoExpression(text string) bool {
	for _, start := range []string{"func ", "type ", "var ", "const ", "package ", "import "} {
		if strings.HasPrefix(text, start) {
			return false
		}
	}
	return !strings.HasSuffix(text, "{")
}

// hasBalancedDelimiters checks bracket pairing outside string literals,
// honoring backslash escapes.
func hasBalancedDelimiters(text string) bool {
	var stack []rune
	inString := false
	stringChar := '"'
	prev := ' '

	for _, ch := range text {
		if inString {
			if ch == stringChar && prev != '\\' {
				inString = false
			}
			prev = ch
			continue
		}
		switch ch {
		case '"', '\'', '`':
			inString = true
			stringChar = ch
		case '(', '[', '{':
			stack = append(stack, ch)
		case ')', ']', '}':
			want := map[rune]rune{')': '(', ']': '[', '}': '{'}[ch]
			if len(stack) == 0 || stack[len(stack)-1] != want {
				return false
			}
			stack = stack[:len(stack)-1]
		}
		prev = ch
	}
	return len(stack) == 0 && !inString
}

// findVariableReferences collects identifier names in a snippet,
// excluding language keywords and builtins, in order of first appearance.
func findVariableReferences(text string, lang loupe.LanguageID) []string {
	pattern := identPattern
	switch lang {
	case loupe.LangJavaScript, loupe.LangTypeScript:
		pattern = identPatternJS
	}

	keywords := languageKeywords(lang)
	seen := make(map[string]bool)
	var names []string
	for _, name := range pattern.FindAllString(text, -1) {
		if seen[name] || keywords[name] || isBuiltin(name, lang) {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

func languageKeywords(lang loupe.LanguageID) map[string]bool {
	var words []string
	switch lang {
	case loupe.LangPython:
		words = []string{
			"False", "None", "True", "and", "as", "assert", "async", "await",
			"break", "class", "continue", "def", "del", "elif", "else",
			"except", "finally", "for", "from", "global", "if", "import",
			"in", "is", "lambda", "nonlocal", "not", "or", "pass", "raise",
			"return", "try", "while", "with", "yield",
		}
	case loupe.LangJavaScript, loupe.LangTypeScript:
		words = []string{
			"break", "case", "catch", "class", "const", "continue",
			"debugger", "default", "delete", "do", "else", "enum", "export",
			"extends", "false", "finally", "for", "function", "if", "import",
			"in", "instanceof", "new", "null", "return", "super", "switch",
			"this", "throw", "true", "try", "typeof", "undefined", "var",
			"void", "while", "with", "yield", "let", "static", "async",
			"await",
		}
	case loupe.LangRust:
		words = []string{
			"as", "async", "await", "break", "const", "continue", "crate",
			"dyn", "else", "enum", "extern", "false", "fn", "for", "if",
			"impl", "in", "let", "loop", "match", "mod", "move", "mut",
			"pub", "ref", "return", "self", "Self", "static", "struct",
			"super", "trait", "true", "type", "unsafe", "use", "where",
			"while",
		}
	case loupe.LangGo:
		words = []string{
			"break", "case", "chan", "const", "continue", "default", "defer",
			"else", "fallthrough", "for", "func", "go", "goto", "if",
			"import", "interface", "map", "package", "range", "return",
			"select", "struct", "switch", "type", "var",
		}
	}
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

func isBuiltin(name string, lang loupe.LanguageID) bool {
	var builtins []string
	switch lang {
	case loupe.LangPython:
		builtins = []string{
			"print", "len", "range", "str", "int", "float", "list", "dict",
			"set", "tuple", "bool", "type", "isinstance", "hasattr",
			"getattr", "setattr", "open", "input", "map", "filter", "zip",
			"enumerate", "sorted", "reversed", "sum", "min", "max", "abs",
			"round",
		}
	case loupe.LangJavaScript, loupe.LangTypeScript:
		builtins = []string{
			"console", "Math", "JSON", "Array", "Object", "String", "Number",
			"Boolean", "Date", "RegExp", "Error", "Map", "Set", "Promise",
			"parseInt", "parseFloat", "isNaN", "isFinite", "encodeURI",
			"decodeURI", "setTimeout", "setInterval", "clearTimeout",
			"clearInterval", "fetch", "document", "window",
		}
	case loupe.LangRust:
		builtins = []string{
			"println", "print", "format", "vec", "String", "Vec", "Box",
			"Rc", "Arc", "Option", "Result", "Some", "None", "Ok", "Err",
		}
	case loupe.LangGo:
		builtins = []string{
			"fmt", "make", "new", "len", "cap", "append", "copy", "delete",
			"close", "panic", "recover", "print", "println", "error",
			"string", "int", "float64", "bool", "byte", "rune",
		}
	}
	for _, b := range builtins {
		if name == b {
			return true
		}
	}
	return false
}

// SuggestVariableName derives a name for an extracted expression from its
// shape: trailing method call, leading function call, property access,
// arithmetic, or comparison.
func SuggestVariableName(text string, lang loupe.LanguageID) string {
	trimmed := strings.TrimSpace(text)

	if m := methodCallPattern.FindStringSubmatch(trimmed); m != nil {
		return toVariableCase(m[1], lang)
	}
	if m := functionCallPattern.FindStringSubmatch(trimmed); m != nil {
		return toVariableCase(m[1], lang) + "Result"
	}
	if m := propertyPattern.FindStringSubmatch(trimmed); m != nil {
		return m[1]
	}
	if arithmeticPattern.MatchString(trimmed) {
		return "extracted"
	}
	if comparisonPattern.MatchString(trimmed) {
		return "condition"
	}
	return "extracted"
}

// toVariableCase converts a name to the language's variable convention:
// snake_case for Python and Rust, camelCase otherwise.
func toVariableCase(name string, lang loupe.LanguageID) string {
	switch lang {
	case loupe.LangPython, loupe.LangRust:
		var b strings.Builder
		for i, ch := range name {
			if ch >= 'A' && ch <= 'Z' {
				if i > 0 {
					b.WriteByte('_')
				}
				b.WriteRune(ch - 'A' + 'a')
				continue
			}
			b.WriteRune(ch)
		}
		return b.String()
	default:
		var b strings.Builder
		capitalizeNext := false
		for i, ch := range name {
			switch {
			case ch == '_':
				capitalizeNext = true
			case capitalizeNext:
				b.WriteRune(upperRune(ch))
				capitalizeNext = false
			case i == 0:
				b.WriteRune(lowerRune(ch))
			default:
				b.WriteRune(ch)
			}
		}
		return b.String()
	}
}

func upperRune(ch rune) rune {
	if ch >= 'a' && ch <= 'z' {
		return ch - 'a' + 'A'
	}
	return ch
}

func lowerRune(ch rune) rune {
	if ch >= 'A' && ch <= 'Z' {
		return ch - 'A' + 'a'
	}
	return ch
}

// findInsertionPoint locates where a declaration for the expression at
// exprRange should be inserted: the start of the statement containing it,
// found by scanning upward for a statement boundary, at that line's
// indentation depth.
func findInsertionPoint(source string, exprRange loupe.Range, lang loupe.LanguageID) loupe.Position {
	lines := strings.Split(source, "\n")
	exprLine := exprRange.Start.Line
	if exprLine >= len(lines) {
		return loupe.Position{}
	}

	targetLine := exprLine
	for i := exprLine; i >= 0; i-- {
		if isStatementStart(lines, i, lang) {
			targetLine = i
			break
		}
	}

	line := lines[targetLine]
	indent := len(line) - len(strings.TrimLeft(line, " \t"))
	return loupe.Position{Line: targetLine, Column: indent}
}

func isStatementStart(lines []string, i int, lang loupe.LanguageID) bool {
	line := strings.TrimSpace(lines[i])
	if i == 0 {
		return true
	}
	prev := strings.TrimSpace(lines[i-1])

	switch lang {
	case loupe.LangPython:
		for _, start := range []string{"if ", "for ", "while ", "def ", "class ", "return ", "with "} {
			if strings.HasPrefix(line, start) {
				return true
			}
		}
		return prev == ""
	case loupe.LangRust:
		for _, start := range []string{"let ", "if ", "for ", "while ", "match ", "return ", "fn "} {
			if strings.HasPrefix(line, start) {
				return true
			}
		}
		return strings.HasSuffix(prev, ";") || strings.HasSuffix(prev, "}")
	default:
		for _, start := range []string{"const ", "let ", "var ", "if ", "for ", "while ", "return ", "function "} {
			if strings.HasPrefix(line, start) {
				return true
			}
		}
		return strings.HasSuffix(prev, ";") || strings.HasSuffix(prev, "}")
	}
}
