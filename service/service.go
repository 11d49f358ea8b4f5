// Package service exposes the code-intelligence engine behind a single
// document-oriented facade: clients open and update documents by URI and
// query symbols, TODO items, unused findings, and refactorings against the
// live in-memory model. All responses are plain JSON-taggable structs;
// transport framing is left to the caller.
package service

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jward/loupe"
	"github.com/jward/loupe/adapter"
	"github.com/jward/loupe/refactor"
)

// ErrUnknownDocument is returned for operations against a URI that was
// never opened or has been closed.
var ErrUnknownDocument = errors.New("service: unknown document")

// Option configures a Service.
type Option func(*Service)

// WithRegistry replaces the default adapter registry.
func WithRegistry(reg *adapter.Registry) Option {
	return func(s *Service) { s.registry = reg }
}

// WithLogger sets the structured logger. The default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Service) { s.log = log }
}

// WithTodoMarkers adds custom TODO marker words to the comment scanner.
func WithTodoMarkers(markers ...string) Option {
	return func(s *Service) {
		s.todos = loupe.NewTodoIndexWithConfig(loupe.ScannerConfig{CustomMarkers: markers})
	}
}

// WithUnusedIgnorePrefixes adds name prefixes the unused-symbol heuristic
// skips, on top of the underscore default.
func WithUnusedIgnorePrefixes(prefixes ...string) Option {
	return func(s *Service) { s.ignorePrefixes = append(s.ignorePrefixes, prefixes...) }
}

// Service is the language service: per-URI documents plus the symbol and
// TODO indexes derived from them. Safe for concurrent use.
type Service struct {
	mu             sync.RWMutex
	registry       *adapter.Registry
	docs           map[string]*loupe.Document
	index          *loupe.SymbolIndex
	todos          *loupe.TodoIndex
	ignorePrefixes []string
	log            zerolog.Logger
}

// New creates a Service with the default adapter registry.
func New(opts ...Option) (*Service, error) {
	s := &Service{
		docs:  make(map[string]*loupe.Document),
		index: loupe.NewSymbolIndex(),
		todos: loupe.NewTodoIndex(),
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		reg, err := adapter.DefaultRegistry()
		if err != nil {
			return nil, fmt.Errorf("service: build registry: %w", err)
		}
		s.registry = reg
	}
	return s, nil
}

// OpenDocument registers a document and indexes it. Reopening a URI
// replaces its content and derived state wholesale.
func (s *Service) OpenDocument(uri, languageID, content string) {
	lang, _ := loupe.ParseLanguage(languageID)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.docs[uri] = loupe.NewDocument(uri, lang, content)
	s.reindexLocked(uri, lang, content)
	s.log.Debug().Str("uri", uri).Str("language", string(lang)).
		Msg("service: document opened")
}

// UpdateDocument replaces a document's text and re-derives its state.
func (s *Service) UpdateDocument(uri, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[uri]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownDocument, uri)
	}
	doc.SetText(content)
	s.reindexLocked(uri, doc.LanguageID, content)
	s.log.Debug().Str("uri", uri).Int("bytes", len(content)).
		Msg("service: document updated")
	return nil
}

// CloseDocument forgets a document and every derived result.
func (s *Service) CloseDocument(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.docs, uri)
	s.index.RemoveDocument(uri)
	s.todos.RemoveDocument(uri)
	s.log.Debug().Str("uri", uri).Msg("service: document closed")
}

// Documents returns the open document URIs, sorted.
func (s *Service) Documents() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Documents()
}

func (s *Service) reindexLocked(uri string, lang loupe.LanguageID, content string) {
	s.todos.IndexDocument(uri, content)

	a := s.registry.ByLanguage(lang)
	if a == nil {
		s.index.IndexDocument(uri, nil)
		return
	}
	res := a.Analyze(uri, []byte(content))
	s.index.IndexDocument(uri, res.Symbols)
}

// DocumentSymbols returns the symbol tree for one document.
func (s *Service) DocumentSymbols(uri string) []*loupe.Symbol {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.DocumentSymbols(uri)
}

// Hover describes the innermost symbol at a position.
type Hover struct {
	Contents string      `json:"contents"`
	Range    loupe.Range `json:"range"`
}

// Hover returns markdown-ish contents for the symbol at pos, or nil when
// no declaration covers the position.
func (s *Service) Hover(uri string, pos loupe.Position) *Hover {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sym := s.index.FindAtPosition(uri, pos)
	if sym == nil {
		return nil
	}
	return &Hover{
		Contents: fmt.Sprintf("**%s** (%s)", sym.Name, sym.Kind),
		Range:    sym.SelectionRange,
	}
}

// Definition returns the declaration location of the symbol at pos, or
// nil.
func (s *Service) Definition(uri string, pos loupe.Position) *loupe.Location {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sym := s.index.FindAtPosition(uri, pos)
	if sym == nil {
		return nil
	}
	loc := loupe.NewLocation(sym.URI, sym.Range)
	return &loc
}

// References lists the selection ranges of every indexed symbol sharing
// the name of the symbol at pos. Matching is by name across the whole
// index, not by resolved identity.
func (s *Service) References(uri string, pos loupe.Position) []loupe.Location {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sym := s.index.FindAtPosition(uri, pos)
	if sym == nil {
		return nil
	}
	var refs []loupe.Location
	for _, m := range s.index.Search(sym.Name) {
		refs = append(refs, loupe.NewLocation(m.URI, m.SelectionRange))
	}
	return refs
}

// RenamePrepare is the pre-rename answer: the exact range that would be
// replaced and the current name as placeholder.
type RenamePrepare struct {
	Range       loupe.Range `json:"range"`
	Placeholder string      `json:"placeholder"`
}

// PrepareRename checks whether the position sits on a renameable symbol.
// Only the declared name itself is renameable; a position elsewhere in the
// symbol's body answers nil.
func (s *Service) PrepareRename(uri string, pos loupe.Position) *RenamePrepare {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sym := s.index.FindAtPosition(uri, pos)
	if sym == nil || !sym.SelectionRange.Contains(pos) {
		return nil
	}
	return &RenamePrepare{Range: sym.SelectionRange, Placeholder: sym.Name}
}

// WorkspaceEdit groups text edits per document URI.
type WorkspaceEdit struct {
	Changes map[string][]refactor.TextEdit `json:"changes"`
}

// Rename produces edits replacing the selection range of every indexed
// symbol sharing the target's name. Like References, this conflates
// same-named declarations across scopes.
func (s *Service) Rename(uri string, pos loupe.Position, newName string) *WorkspaceEdit {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sym := s.index.FindAtPosition(uri, pos)
	if sym == nil || !sym.SelectionRange.Contains(pos) {
		return nil
	}

	changes := make(map[string][]refactor.TextEdit)
	for _, m := range s.index.Search(sym.Name) {
		changes[m.URI] = append(changes[m.URI], refactor.Replace(m.SelectionRange, newName))
	}
	s.log.Debug().Str("uri", uri).Str("from", sym.Name).Str("to", newName).
		Int("documents", len(changes)).Msg("service: rename computed")
	return &WorkspaceEdit{Changes: changes}
}

// SearchSymbols finds symbols by exact name across every open document.
func (s *Service) SearchSymbols(query string) []*loupe.Symbol {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Search(query)
}

// SearchSymbolsFuzzy ranks symbols by fuzzy match against the query.
func (s *Service) SearchSymbolsFuzzy(query string) []*loupe.Symbol {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.SearchFuzzy(query)
}

// Todos returns the TODO items of one document, in document order.
func (s *Service) Todos(uri string) []loupe.TodoItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.todos.DocumentTodos(uri)
}

// AllTodos returns every TODO item across open documents, most urgent
// first.
func (s *Service) AllTodos() []loupe.DocumentTodo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.todos.AllTodos()
}

// TodoStats summarizes the TODO index.
type TodoStats struct {
	Total  int            `json:"total"`
	ByKind map[string]int `json:"byKind"`
}

// TodoStats counts TODO items overall and per kind.
func (s *Service) TodoStats() TodoStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byKind := make(map[string]int)
	for kind, n := range s.todos.CountByKind() {
		byKind[string(kind)] = n
	}
	return TodoStats{Total: s.todos.Count(), ByKind: byKind}
}

// UnusedSymbols runs the unused-symbol heuristic over one document.
func (s *Service) UnusedSymbols(uri string) ([]loupe.UnusedItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[uri]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDocument, uri)
	}

	detector := loupe.NewUnusedDetector()
	for _, prefix := range s.ignorePrefixes {
		detector.IgnorePrefix(prefix)
	}
	return detector.Analyze(s.index.DocumentSymbols(uri), doc.Text), nil
}

// RefactorActions lists the refactorings for a selection, available or
// not.
func (s *Service) RefactorActions(uri string, sel loupe.Range) ([]refactor.Action, error) {
	ctx, err := s.refactorContext(uri, sel)
	if err != nil {
		return nil, err
	}
	return refactor.Actions(ctx), nil
}

// ExtractVariable extracts the selection into a named variable.
func (s *Service) ExtractVariable(uri string, sel loupe.Range, name string) (*refactor.Result, error) {
	ctx, err := s.refactorContext(uri, sel)
	if err != nil {
		return nil, err
	}
	return refactor.ExtractVariable(ctx, name)
}

// ExtractMethod extracts the selected statements into a new callable.
func (s *Service) ExtractMethod(uri string, sel loupe.Range, name string) (*refactor.Result, error) {
	ctx, err := s.refactorContext(uri, sel)
	if err != nil {
		return nil, err
	}
	return refactor.ExtractMethod(ctx, name)
}

// CanSafeDelete reports whether the selected symbol can be removed, with
// the blocking usages when it cannot.
func (s *Service) CanSafeDelete(uri string, sel loupe.Range) (*refactor.DeleteAnalysis, error) {
	ctx, err := s.refactorContext(uri, sel)
	if err != nil {
		return nil, err
	}
	return refactor.AnalyzeDelete(ctx)
}

// SafeDelete removes the selected symbol's declaration if nothing else
// references it.
func (s *Service) SafeDelete(uri string, sel loupe.Range) (*refactor.Result, error) {
	ctx, err := s.refactorContext(uri, sel)
	if err != nil {
		return nil, err
	}
	return refactor.SafeDelete(ctx)
}

func (s *Service) refactorContext(uri string, sel loupe.Range) (*refactor.Context, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[uri]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDocument, uri)
	}
	return refactor.NewContext(doc.Text, uri, sel, doc.LanguageID), nil
}
