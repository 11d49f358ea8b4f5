// Package workspace indexes directory trees into the persistent symbol
// database. It handles file discovery, content-hash change detection, and
// parallel analysis with a single SQLite writer.
package workspace

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jward/loupe"
	"github.com/jward/loupe/adapter"
	"github.com/jward/loupe/internal/store"
)

// Engine orchestrates the indexing pipeline: file discovery, change
// detection, analysis via language adapters, and persistence.
type Engine struct {
	store    *store.Store
	registry *adapter.Registry
	scanner  *loupe.CommentScanner

	languages   map[string]bool // nil means all languages
	useParallel bool
	log         zerolog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLanguages restricts which languages the Engine will process.
func WithLanguages(languages ...string) Option {
	return func(e *Engine) {
		e.languages = make(map[string]bool, len(languages))
		for _, lang := range languages {
			e.languages[lang] = true
		}
	}
}

// WithParallel controls parallel analysis. When true (default), IndexFiles
// uses a worker pool for parsing, with a single goroutine committing results
// to SQLite. Set to false for serial mode.
func WithParallel(parallel bool) Option {
	return func(e *Engine) {
		e.useParallel = parallel
	}
}

// WithTodoMarkers adds project-specific comment markers (for example REVIEW)
// to the TODO scanner used during indexing.
func WithTodoMarkers(markers ...string) Option {
	return func(e *Engine) {
		e.scanner = loupe.NewCommentScanner(loupe.ScannerConfig{CustomMarkers: markers})
	}
}

// WithLogger sets the Engine's logger. The default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(e *Engine) {
		e.log = log
	}
}

// New creates an Engine backed by a SQLite database at dbPath, running
// migrations and loading the default language adapters.
func New(dbPath string, opts ...Option) (*Engine, error) {
	s, err := store.NewStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("workspace: create store: %w", err)
	}
	if err := s.Migrate(); err != nil {
		s.Close()
		return nil, fmt.Errorf("workspace: migrate: %w", err)
	}
	registry, err := adapter.DefaultRegistry()
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("workspace: load adapters: %w", err)
	}

	e := &Engine{
		store:       s,
		registry:    registry,
		scanner:     loupe.NewCommentScanner(loupe.ScannerConfig{}),
		useParallel: true,
		log:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Close releases the Engine's database resources.
func (e *Engine) Close() error {
	return e.store.Close()
}

// Store returns the underlying Store for direct query access.
func (e *Engine) Store() *store.Store {
	return e.store
}

// Registry returns the Engine's adapter registry.
func (e *Engine) Registry() *adapter.Registry {
	return e.registry
}

// Stats summarizes one indexing run.
type Stats struct {
	Indexed int // files analyzed and written
	Skipped int // files whose content hash was unchanged
	Failed  int // files that errored (read, analysis, or commit)
}

// workItem holds everything an analysis worker needs for one file.
type workItem struct {
	path   string
	file   *store.File // unsaved record: Path, Language, Hash
	source []byte
}

// workResult is one analyzed file awaiting commit.
type workResult struct {
	item     *workItem
	analysis *loupe.Analysis
	todos    []loupe.TodoItem
	err      error
}

// IndexDirectory walks root and indexes all files with supported extensions.
// If root is inside a git repository, uses git ls-files to respect
// .gitignore. Falls back to a filesystem walk (skipping hidden dirs,
// node_modules, vendor, target, __pycache__) if git is unavailable.
func (e *Engine) IndexDirectory(ctx context.Context, root string) (*Stats, error) {
	paths, err := e.gitListFiles(root)
	if err != nil {
		// Not a git repo or git not available. Fall back to a walk.
		paths, err = e.walkListFiles(root)
		if err != nil {
			return nil, err
		}
	}
	return e.IndexFiles(ctx, paths)
}

// IndexFiles indexes the given file paths. When WithParallel is enabled,
// uses a worker pool for concurrent analysis with a serial commit phase.
// Otherwise falls back to the serial path.
//
// For each file:
//  1. Detect language from extension
//  2. Skip unsupported or filtered-out languages
//  3. Skip unchanged files (same content hash)
//  4. Parse, walk, and scan for TODO markers
//  5. Replace the file's rows in one transaction
//
// Errors on individual files are collected and reported together; processing
// continues past them.
func (e *Engine) IndexFiles(ctx context.Context, paths []string) (*Stats, error) {
	if e.useParallel {
		return e.indexFilesParallel(ctx, paths)
	}
	return e.indexFilesSerial(ctx, paths)
}

func (e *Engine) indexFilesSerial(ctx context.Context, paths []string) (*Stats, error) {
	stats := &Stats{}
	var errs []error
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		item, err := e.prepareFile(path, stats)
		if err != nil {
			errs = append(errs, fmt.Errorf("prepare %s: %w", path, err))
			continue
		}
		if item == nil {
			continue
		}
		res := e.analyzeItem(e.registry, item)
		if err := e.commit(res); err != nil {
			errs = append(errs, fmt.Errorf("commit %s: %w", path, err))
			continue
		}
		stats.Indexed++
	}
	return finishStats(stats, errs)
}

// indexFilesParallel indexes files using a three-phase pipeline:
//
//	Phase A (serial):   Hash check, prepare file records.
//	Phase B (parallel): Parse and analyze via worker pool.
//	Phase C (serial):   Commit results to SQLite.
func (e *Engine) indexFilesParallel(ctx context.Context, paths []string) (*Stats, error) {
	stats := &Stats{}
	var errs []error

	// ---- Phase A: serial file preparation ----
	var items []*workItem
	for _, path := range paths {
		item, err := e.prepareFile(path, stats)
		if err != nil {
			errs = append(errs, fmt.Errorf("prepare %s: %w", path, err))
			continue
		}
		if item != nil {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return finishStats(stats, errs)
	}

	// ---- Phase B: parallel analysis ----
	numWorkers := min(runtime.NumCPU(), len(items))
	if numWorkers < 1 {
		numWorkers = 1
	}

	workCh := make(chan *workItem, len(items))
	for _, item := range items {
		workCh <- item
	}
	close(workCh)

	resultCh := make(chan workResult, len(items))
	var wg sync.WaitGroup
	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Each worker builds its own registry: adapters serialize
			// parsing internally, so sharing one would bottleneck the pool
			// on the parser mutex.
			reg, err := adapter.DefaultRegistry()
			for item := range workCh {
				if err != nil {
					resultCh <- workResult{item: item, err: err}
					continue
				}
				resultCh <- e.analyzeItem(reg, item)
			}
		}()
	}
	go func() {
		wg.Wait()
		close(resultCh)
	}()

	// ---- Phase C: serial commit ----
	for res := range resultCh {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if res.err != nil {
			errs = append(errs, fmt.Errorf("analyze %s: %w", res.item.path, res.err))
			continue
		}
		if err := e.commit(res); err != nil {
			errs = append(errs, fmt.Errorf("commit %s: %w", res.item.path, err))
			continue
		}
		stats.Indexed++
	}

	return finishStats(stats, errs)
}

// prepareFile decides whether path needs indexing. A nil item with nil error
// means the file is unsupported, filtered out, or unchanged; unchanged files
// are counted in stats.Skipped.
func (e *Engine) prepareFile(path string, stats *Stats) (*workItem, error) {
	a, ok := e.registry.ForFile(path)
	if !ok {
		return nil, nil
	}
	lang := string(a.LanguageID())
	if e.languages != nil && !e.languages[lang] {
		return nil, nil
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	hash := store.ContentHash(source)

	existing, err := e.store.FileByPath(path)
	if err != nil {
		return nil, fmt.Errorf("lookup file: %w", err)
	}
	if existing != nil && existing.Hash == hash {
		stats.Skipped++
		return nil, nil
	}

	return &workItem{
		path:   path,
		file:   &store.File{Path: path, Language: lang, Hash: hash},
		source: source,
	}, nil
}

// analyzeItem runs the language adapter and TODO scanner over one file.
func (e *Engine) analyzeItem(reg *adapter.Registry, item *workItem) workResult {
	a, ok := reg.ForFile(item.path)
	if !ok {
		return workResult{item: item, err: fmt.Errorf("no adapter for %s", item.path)}
	}
	return workResult{
		item:     item,
		analysis: a.Analyze(item.path, item.source),
		todos:    e.scanner.ScanFile(string(item.source)),
	}
}

// commit writes one analyzed file to the store.
func (e *Engine) commit(res workResult) error {
	if err := e.store.SaveDocument(res.item.file, res.analysis, res.todos); err != nil {
		return err
	}
	e.log.Debug().
		Str("path", res.item.path).
		Int("symbols", len(res.analysis.Symbols)).
		Msg("indexed")
	return nil
}

func finishStats(stats *Stats, errs []error) (*Stats, error) {
	stats.Failed = len(errs)
	if len(errs) > 0 {
		return stats, fmt.Errorf("indexing had %d error(s): %w", len(errs), errs[0])
	}
	return stats, nil
}

// skipDirs are directory names never descended into while indexing.
var skipDirs = map[string]bool{
	"node_modules": true,
	"vendor":       true,
	"target":       true,
	"__pycache__":  true,
}

// gitListFiles uses git ls-files to discover tracked and untracked (but not
// ignored) files under root, filtered to supported extensions.
func (e *Engine) gitListFiles(root string) ([]string, error) {
	// --cached: tracked files, --others: untracked files,
	// --exclude-standard: respect .gitignore and global excludes.
	cmd := exec.Command("git", "ls-files", "--cached", "--others", "--exclude-standard")
	cmd.Dir = root
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("git ls-files: %w", err)
	}

	var paths []string
	for _, line := range strings.Split(stdout.String(), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		absPath := filepath.Join(root, line)
		if _, ok := e.registry.ForFile(absPath); ok {
			paths = append(paths, absPath)
		}
	}
	return paths, nil
}

// walkListFiles discovers files by walking the filesystem, used as a
// fallback when git is not available.
func (e *Engine) walkListFiles(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (strings.HasPrefix(name, ".") || skipDirs[name]) {
				return filepath.SkipDir
			}
			return nil
		}
		if _, ok := e.registry.ForFile(path); ok {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}
	return paths, nil
}
