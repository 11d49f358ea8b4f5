package loupe

// LanguageID is the canonical identifier for a supported language.
type LanguageID string

const (
	LangC          LanguageID = "c"
	LangCpp        LanguageID = "cpp"
	LangGo         LanguageID = "go"
	LangJava       LanguageID = "java"
	LangJavaScript LanguageID = "javascript"
	LangPython     LanguageID = "python"
	LangRust       LanguageID = "rust"
	LangTypeScript LanguageID = "typescript"
)

// ParseLanguage maps a raw language id string (as sent by an editor host)
// to a LanguageID. Returns ("", false) for unknown ids.
func ParseLanguage(id string) (LanguageID, bool) {
	switch LanguageID(id) {
	case LangC, LangCpp, LangGo, LangJava, LangJavaScript, LangPython,
		LangRust, LangTypeScript:
		return LanguageID(id), true
	case "typescriptreact":
		return LangTypeScript, true
	case "javascriptreact":
		return LangJavaScript, true
	default:
		return "", false
	}
}

// ScopeSeparator returns the token joining scope names in qualified names
// for the language.
func (l LanguageID) ScopeSeparator() string {
	switch l {
	case LangC, LangCpp, LangRust:
		return "::"
	default:
		return "."
	}
}
