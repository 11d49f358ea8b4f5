package loupe

// SymbolKind classifies a named program entity.
type SymbolKind string

const (
	KindFunction      SymbolKind = "function"
	KindMethod        SymbolKind = "method"
	KindClass         SymbolKind = "class"
	KindStruct        SymbolKind = "struct"
	KindField         SymbolKind = "field"
	KindVariable      SymbolKind = "variable"
	KindConstant      SymbolKind = "constant"
	KindNamespace     SymbolKind = "namespace"
	KindModule        SymbolKind = "module"
	KindInterface     SymbolKind = "interface"
	KindEnum          SymbolKind = "enum"
	KindProperty      SymbolKind = "property"
	KindTypeParameter SymbolKind = "typeParameter"
)

// Visibility is a symbol's declared access level.
type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityProtected Visibility = "protected"
	VisibilityPrivate   Visibility = "private"
)

// Symbol is one indexed named program entity. IDs are unique within a
// SymbolIndex instance and never reused while the symbol's document stays
// indexed, but they are not stable across document updates.
type Symbol struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	Kind          SymbolKind `json:"kind"`
	QualifiedName string     `json:"qualifiedName"`
	URI           string     `json:"uri"`

	// Range covers the whole construct; SelectionRange covers only the
	// name token and is always contained in Range.
	Range          Range      `json:"range"`
	SelectionRange Range      `json:"selectionRange"`
	Visibility     Visibility `json:"visibility"`
	Exported       bool       `json:"exported"`

	// ParentID links lexical nesting only, never type hierarchy.
	// Zero means top level.
	ParentID int64    `json:"parentId,omitempty"`
	Children []*Symbol `json:"children,omitempty"`
}

// ImportItem is one name brought in by an import directive.
type ImportItem struct {
	Name     string `json:"name"`
	Alias    string `json:"alias,omitempty"`
	TypeOnly bool   `json:"typeOnly,omitempty"`
}

// ImportInfo describes one import directive.
type ImportInfo struct {
	ModulePath string       `json:"modulePath"`
	Items      []ImportItem `json:"items,omitempty"`
	TypeOnly   bool         `json:"typeOnly,omitempty"`
	Range      Range        `json:"range"`
}

// CallInfo describes one call site. Callee is the raw callee text;
// Qualified is set only when that text contains a scope or member access
// separator. No resolution to a Symbol happens at scan time.
type CallInfo struct {
	Callee      string `json:"callee"`
	Qualified   string `json:"qualified,omitempty"`
	Constructor bool   `json:"constructor,omitempty"`
	Range       Range  `json:"range"`
}

// Analysis is the full result of analyzing one document: produced
// atomically by a single adapter call, replacing any prior result.
type Analysis struct {
	Symbols []*Symbol    `json:"symbols"`
	Imports []ImportInfo `json:"imports"`
	Calls   []CallInfo   `json:"calls"`
}

// Document is one open source file, keyed by URI. Text is replaced
// wholesale on update, never diffed.
type Document struct {
	URI        string
	LanguageID LanguageID
	Text       string
}

// NewDocument creates a Document.
func NewDocument(uri string, lang LanguageID, text string) *Document {
	return &Document{URI: uri, LanguageID: lang, Text: text}
}

// SetText replaces the document content.
func (d *Document) SetText(text string) {
	d.Text = text
}
