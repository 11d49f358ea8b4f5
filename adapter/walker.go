package adapter

import (
	"context"
	"fmt"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/jward/loupe"
)

// profile describes how one grammar's node kinds map onto the shared
// traversal. Every adapter is a treeAdapter plus a profile.
type profile struct {
	language   loupe.LanguageID
	extensions []string

	// Node-kind dispatch sets.
	importKinds      map[string]bool
	functionKinds    map[string]loupe.SymbolKind
	typeKinds        map[string]loupe.SymbolKind
	namespaceKinds   map[string]loupe.SymbolKind
	callKinds        map[string]bool
	constructorKinds map[string]bool

	// wrapperKinds are declaration wrappers (e.g. C++ type_definition)
	// whose children are dispatched individually. wrapperScopeOf names
	// the scope a wrapper reopens (the impl'd type of a Rust impl
	// block); an empty name means the wrapper adds no scope.
	wrapperKinds   map[string]bool
	wrapperScopeOf func(n *sitter.Node, src []byte) string

	// Name resolution: identifier-like node kinds searched depth-first,
	// and per-node-kind declaring keywords for the raw-token fallback.
	// The per-construct lists keep the search away from look-alike
	// tokens (a C++ return type's std must not win over the declarator);
	// identifierKinds is the fallback when a list is empty.
	identifierKinds    []string
	functionNameKinds  []string
	typeNameKinds      []string
	namespaceNameKinds []string
	declKeywords       map[string]string

	// Type-body member scanning.
	memberListKind          string
	sectionKind             string
	fieldKinds              map[string]bool
	memberNameKinds         []string
	defaultMemberVisibility func(typeNodeKind string) loupe.Visibility

	// typeKindOf overrides the static typeKinds mapping for grammars where
	// the symbol kind depends on the node's shape (e.g. Go type_spec).
	typeKindOf func(n *sitter.Node) loupe.SymbolKind

	// typeBodyOf locates a type declaration's member container. Defaults
	// to the "body" field.
	typeBodyOf func(n *sitter.Node) *sitter.Node

	// declVisibility decides a non-member symbol's visibility. Defaults to
	// public.
	declVisibility func(n *sitter.Node, name string) loupe.Visibility

	// memberVisibility adjusts a member's visibility for grammars with
	// per-member modifiers rather than sections.
	memberVisibility func(n *sitter.Node, src []byte, current loupe.Visibility) loupe.Visibility

	// callCalleeOf overrides callee extraction for grammars whose call
	// nodes carry no "function" field.
	callCalleeOf func(n *sitter.Node, src []byte) string

	// parseImport extracts one import directive.
	parseImport func(w *walk, n *sitter.Node)

	// resolveImport resolves an import directive's text against the
	// importing file's directory.
	resolveImport func(fromFile, text string) (string, bool)
}

// treeAdapter implements LanguageAdapter generically over a profile.
//
// The parser handle is reused across Analyze calls and guarded by a mutex:
// tree-sitter parsers are not safe for concurrent use, and this is the
// adapter's only internal state, preserving Analyze's purity per
// (uri, source).
type treeAdapter struct {
	prof   profile
	mu     sync.Mutex
	parser *sitter.Parser
}

func newTreeAdapter(grammar *sitter.Language, prof profile) (*treeAdapter, error) {
	if grammar == nil {
		return nil, fmt.Errorf("%s: grammar failed to load", prof.language)
	}
	parser := sitter.NewParser()
	parser.SetLanguage(grammar)
	return &treeAdapter{prof: prof, parser: parser}, nil
}

func (a *treeAdapter) LanguageID() loupe.LanguageID { return a.prof.language }

func (a *treeAdapter) FileExtensions() []string { return a.prof.extensions }

// Analyze parses the source and walks the tree into an Analysis. Parse
// trouble yields an empty valid result rather than an error: a broken file
// must not break the whole index.
func (a *treeAdapter) Analyze(uri string, source []byte) *loupe.Analysis {
	res := &loupe.Analysis{}
	tree := a.parse(source)
	if tree == nil {
		return res
	}
	defer tree.Close()

	w := &walk{prof: &a.prof, uri: uri, src: source, res: res}
	w.node(tree.RootNode())
	return res
}

func (a *treeAdapter) parse(source []byte) *sitter.Tree {
	a.mu.Lock()
	defer a.mu.Unlock()
	tree, err := a.parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil
	}
	return tree
}

func (a *treeAdapter) ResolveImport(fromFile, text string) (string, bool) {
	if a.prof.resolveImport == nil {
		return "", false
	}
	return a.prof.resolveImport(fromFile, text)
}

// scopeFrame is one entry of the lexical scope stack threaded through
// traversal.
type scopeFrame struct {
	id        int64
	name      string
	typeScope bool
}

// walk is the traversal state for one Analyze call.
type walk struct {
	prof   *profile
	uri    string
	src    []byte
	res    *loupe.Analysis
	scopes []scopeFrame
	nextID int64
}

// node dispatches one tree node into the import / function / type /
// namespace / call handlers; unmatched kinds recurse into named children
// unchanged.
func (w *walk) node(n *sitter.Node) {
	kind := n.Type()
	p := w.prof

	switch {
	case p.importKinds[kind]:
		if p.parseImport != nil {
			p.parseImport(w, n)
		}
	case p.wrapperKinds[kind]:
		w.wrapper(n)
	case p.callKinds[kind] || p.constructorKinds[kind]:
		w.call(n)
	default:
		if symKind, ok := p.functionKinds[kind]; ok {
			w.function(n, symKind, nil)
			return
		}
		if symKind, ok := p.typeKinds[kind]; ok {
			w.typeDecl(n, symKind)
			return
		}
		if symKind, ok := p.namespaceKinds[kind]; ok {
			w.namespace(n, symKind)
			return
		}
		w.recurse(n)
	}
}

func (w *walk) recurse(n *sitter.Node) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		w.node(n.NamedChild(i))
	}
}

// wrapper dispatches a declaration wrapper's children individually so
// type declarations nested in typedef/declaration nodes are still found.
// Wrappers that reopen a type scope (Rust impl blocks) push a frame named
// after the type, so items declared inside keep the qualified-name prefix
// and a parent link back to the declaring symbol.
func (w *walk) wrapper(n *sitter.Node) {
	if w.prof.wrapperScopeOf != nil {
		if name := w.prof.wrapperScopeOf(n, w.src); name != "" {
			w.scopes = append(w.scopes, scopeFrame{id: w.scopeOwnerID(name), name: name})
			defer w.pop()
		}
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		ch := n.NamedChild(i)
		if symKind, ok := w.prof.typeKinds[ch.Type()]; ok {
			w.typeDecl(ch, symKind)
			continue
		}
		w.node(ch)
	}
}

// scopeOwnerID links a reopened scope back to the type symbol already
// emitted for this file, or zero when the type is declared elsewhere.
func (w *walk) scopeOwnerID(name string) int64 {
	for i := len(w.res.Symbols) - 1; i >= 0; i-- {
		s := w.res.Symbols[i]
		if s.Name != name {
			continue
		}
		switch s.Kind {
		case loupe.KindClass, loupe.KindStruct, loupe.KindEnum, loupe.KindInterface, loupe.KindTypeParameter:
			return s.ID
		}
	}
	return 0
}

// function handles function-like declarations. Functions declared inside a
// type scope become methods. A nil memberVis means the declaration is not a
// scanned member and visibility comes from the profile's declVisibility.
func (w *walk) function(n *sitter.Node, kind loupe.SymbolKind, memberVis *loupe.Visibility) {
	name, nameNode := w.resolveName(n, w.prof.functionNameKinds)
	if name == "" {
		return
	}
	if kind == loupe.KindFunction && w.inTypeScope() {
		kind = loupe.KindMethod
	}
	vis := w.declVisibility(n, name)
	if memberVis != nil {
		vis = *memberVis
	}
	sym := w.emit(name, kind, n, nameNode, vis)

	if body := n.ChildByFieldName("body"); body != nil {
		w.push(sym, false)
		w.recurse(body)
		w.pop()
	}
}

// typeDecl handles class/struct-like declarations, including body-less
// forward declarations (emitted without members).
func (w *walk) typeDecl(n *sitter.Node, kind loupe.SymbolKind) {
	if w.prof.typeKindOf != nil {
		if k := w.prof.typeKindOf(n); k != "" {
			kind = k
		}
	}
	name, nameNode := w.resolveName(n, w.prof.typeNameKinds)
	if name == "" {
		return
	}
	sym := w.emit(name, kind, n, nameNode, w.declVisibility(n, name))

	body := w.typeBody(n)
	if body == nil {
		return
	}
	w.push(sym, true)
	defaultVis := loupe.VisibilityPublic
	if w.prof.defaultMemberVisibility != nil {
		defaultVis = w.prof.defaultMemberVisibility(n.Type())
	}
	w.typeBodyScan(body, defaultVis)
	w.pop()
}

func (w *walk) typeBody(n *sitter.Node) *sitter.Node {
	if w.prof.typeBodyOf != nil {
		return w.prof.typeBodyOf(n)
	}
	return n.ChildByFieldName("body")
}

// typeBodyScan walks a type body looking for the member list; members not
// behind a dedicated list node are dispatched directly.
func (w *walk) typeBodyScan(body *sitter.Node, vis loupe.Visibility) {
	if body.Type() == w.prof.memberListKind {
		w.scanMembers(body, vis)
		return
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		ch := body.NamedChild(i)
		switch {
		case ch.Type() == w.prof.memberListKind:
			w.scanMembers(ch, vis)
		case w.prof.fieldKinds[ch.Type()]:
			w.field(ch, w.adjustMemberVis(ch, vis))
		default:
			if kind, ok := w.prof.functionKinds[ch.Type()]; ok {
				memberVis := w.adjustMemberVis(ch, vis)
				w.function(ch, asMethod(kind), &memberVis)
			} else {
				w.node(ch)
			}
		}
	}
}

// scanMembers walks a member list in document order, tracking the current
// visibility: an explicit visibility section changes it for subsequent
// members until the next section.
func (w *walk) scanMembers(list *sitter.Node, defaultVis loupe.Visibility) {
	current := defaultVis
	for i := 0; i < int(list.NamedChildCount()); i++ {
		ch := list.NamedChild(i)
		switch {
		case w.prof.sectionKind != "" && ch.Type() == w.prof.sectionKind:
			current = parseVisibilitySection(ch.Content(w.src))
		case w.prof.fieldKinds[ch.Type()]:
			w.field(ch, w.adjustMemberVis(ch, current))
		default:
			if kind, ok := w.prof.functionKinds[ch.Type()]; ok {
				memberVis := w.adjustMemberVis(ch, current)
				w.function(ch, asMethod(kind), &memberVis)
			} else {
				w.node(ch)
			}
		}
	}
}

func (w *walk) adjustMemberVis(n *sitter.Node, current loupe.Visibility) loupe.Visibility {
	if w.prof.memberVisibility != nil {
		return w.prof.memberVisibility(n, w.src, current)
	}
	return current
}

func (w *walk) field(n *sitter.Node, vis loupe.Visibility) {
	kinds := w.prof.memberNameKinds
	if len(kinds) == 0 {
		kinds = w.prof.identifierKinds
	}
	nameNode := findNamed(n, kinds)
	if nameNode == nil {
		return
	}
	w.emit(nameNode.Content(w.src), loupe.KindField, n, nameNode, vis)
}

// namespace handles namespace/module declarations.
func (w *walk) namespace(n *sitter.Node, kind loupe.SymbolKind) {
	name, nameNode := w.resolveName(n, w.prof.namespaceNameKinds)
	if name == "" {
		return
	}
	sym := w.emit(name, kind, n, nameNode, w.declVisibility(n, name))
	if body := n.ChildByFieldName("body"); body != nil {
		w.push(sym, false)
		w.recurse(body)
		w.pop()
	}
}

// call records one call site verbatim. Qualified is set only when the raw
// callee text contains a scope or member-access token. Calls are not
// resolved to symbols at scan time.
func (w *walk) call(n *sitter.Node) {
	var text string
	if w.prof.callCalleeOf != nil {
		text = w.prof.callCalleeOf(n, w.src)
	} else {
		fn := n.ChildByFieldName("function")
		if fn == nil {
			fn = n.ChildByFieldName("constructor")
		}
		if fn == nil && n.NamedChildCount() > 0 {
			fn = n.NamedChild(0)
		}
		if fn == nil {
			return
		}
		text = fn.Content(w.src)
	}
	if text == "" {
		return
	}
	info := loupe.CallInfo{
		Callee:      text,
		Constructor: w.prof.constructorKinds[n.Type()],
		Range:       nodeRange(n),
	}
	if strings.Contains(text, "::") || strings.Contains(text, ".") {
		info.Qualified = text
	}
	w.res.Calls = append(w.res.Calls, info)
}

// resolveName finds a declaration's name: the grammar-declared "name"
// field first, then a depth-first search for identifier-like descendants,
// then the raw-token fallback.
func (w *walk) resolveName(n *sitter.Node, kinds []string) (string, *sitter.Node) {
	if nameNode := n.ChildByFieldName("name"); nameNode != nil {
		return nameNode.Content(w.src), nameNode
	}
	if len(kinds) == 0 {
		kinds = w.prof.identifierKinds
	}
	if nameNode := findNamed(n, kinds); nameNode != nil {
		return nameNode.Content(w.src), nameNode
	}
	if kw, ok := w.prof.declKeywords[n.Type()]; ok {
		if name := fallbackName(n.Content(w.src), kw); name != "" {
			return name, nil
		}
	}
	return "", nil
}

func (w *walk) declVisibility(n *sitter.Node, name string) loupe.Visibility {
	if w.prof.declVisibility != nil {
		return w.prof.declVisibility(n, name)
	}
	return loupe.VisibilityPublic
}

// emit appends a symbol: declaration range covers the whole node,
// selection range the name node (or the whole node when no name node was
// found), qualified name joins the current scope stack.
func (w *walk) emit(name string, kind loupe.SymbolKind, n, nameNode *sitter.Node, vis loupe.Visibility) *loupe.Symbol {
	w.nextID++
	sel := nodeRange(n)
	if nameNode != nil {
		sel = nodeRange(nameNode)
	}
	sym := &loupe.Symbol{
		ID:             w.nextID,
		Name:           name,
		Kind:           kind,
		QualifiedName:  w.qualified(name),
		URI:            w.uri,
		Range:          nodeRange(n),
		SelectionRange: sel,
		Visibility:     vis,
		Exported:       vis == loupe.VisibilityPublic,
	}
	if len(w.scopes) > 0 {
		sym.ParentID = w.scopes[len(w.scopes)-1].id
	}
	w.res.Symbols = append(w.res.Symbols, sym)
	return sym
}

func (w *walk) qualified(name string) string {
	if len(w.scopes) == 0 {
		return name
	}
	sep := w.prof.language.ScopeSeparator()
	parts := make([]string, 0, len(w.scopes)+1)
	for _, frame := range w.scopes {
		parts = append(parts, frame.name)
	}
	parts = append(parts, name)
	return strings.Join(parts, sep)
}

func (w *walk) push(sym *loupe.Symbol, typeScope bool) {
	w.scopes = append(w.scopes, scopeFrame{id: sym.ID, name: sym.Name, typeScope: typeScope})
}

func (w *walk) pop() {
	w.scopes = w.scopes[:len(w.scopes)-1]
}

func (w *walk) inTypeScope() bool {
	return len(w.scopes) > 0 && w.scopes[len(w.scopes)-1].typeScope
}

func asMethod(kind loupe.SymbolKind) loupe.SymbolKind {
	if kind == loupe.KindFunction {
		return loupe.KindMethod
	}
	return kind
}

// findNamed looks for the first named descendant of one of the given
// kinds: direct children first, then depth-first.
func findNamed(n *sitter.Node, kinds []string) *sitter.Node {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		ch := n.NamedChild(i)
		for _, k := range kinds {
			if ch.Type() == k {
				return ch
			}
		}
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if found := findNamed(n.NamedChild(i), kinds); found != nil {
			return found
		}
	}
	return nil
}

// fallbackName scans whitespace-split tokens for the declaring keyword and
// returns the next identifier-shaped token; when the keyword is absent it
// returns the first identifier-shaped token that is not itself a
// declaration keyword.
func fallbackName(text, keyword string) string {
	fields := strings.Fields(text)
	for i, tok := range fields {
		if tok == keyword && i+1 < len(fields) {
			if name := leadingIdent(fields[i+1]); name != "" {
				return name
			}
		}
	}
	for _, tok := range fields {
		name := leadingIdent(tok)
		if name == "" {
			continue
		}
		switch name {
		case "class", "struct", "public", "private", "protected", "namespace":
			continue
		default:
			return name
		}
	}
	return ""
}

// leadingIdent returns the leading run of identifier characters.
func leadingIdent(tok string) string {
	end := 0
	for _, r := range tok {
		if r != '_' && !(r >= 'a' && r <= 'z') && !(r >= 'A' && r <= 'Z') && !(r >= '0' && r <= '9') {
			break
		}
		end += len(string(r))
	}
	return tok[:end]
}

func parseVisibilitySection(text string) loupe.Visibility {
	switch strings.TrimSpace(strings.TrimSuffix(strings.ToLower(strings.TrimSpace(text)), ":")) {
	case "public":
		return loupe.VisibilityPublic
	case "protected":
		return loupe.VisibilityProtected
	default:
		return loupe.VisibilityPrivate
	}
}

func nodeRange(n *sitter.Node) loupe.Range {
	start, end := n.StartPoint(), n.EndPoint()
	return loupe.RangeFrom(int(start.Row), int(start.Column), int(end.Row), int(end.Column))
}
