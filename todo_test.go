package loupe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanFileKinds(t *testing.T) {
	scanner := NewCommentScanner(ScannerConfig{})
	src := "// TODO: support yaml\n" +
		"x = 1\n" +
		"# FIXME: off by one\n" +
		"-- NOTE: legacy schema\n"

	todos := scanner.ScanFile(src)
	require.Len(t, todos, 3)

	assert.Equal(t, TodoTodo, todos[0].Kind)
	assert.Equal(t, "support yaml", todos[0].Text)
	assert.Equal(t, 1, todos[0].Line)
	assert.Equal(t, 2, todos[0].Priority)

	assert.Equal(t, TodoFixme, todos[1].Kind)
	assert.Equal(t, 3, todos[1].Line)

	assert.Equal(t, TodoNote, todos[2].Kind)
	assert.Equal(t, "legacy schema", todos[2].Text)
}

func TestScanFileAuthorAndUrgency(t *testing.T) {
	scanner := NewCommentScanner(ScannerConfig{})

	todos := scanner.ScanFile("// TODO(ann): rotate keys\n")
	require.Len(t, todos, 1)
	assert.Equal(t, "ann", todos[0].Author)
	assert.Equal(t, "rotate keys", todos[0].Text)

	// "!" bumps priority by one.
	todos = scanner.ScanFile("// FIXME!: races under load\n")
	require.Len(t, todos, 1)
	assert.Equal(t, 5, todos[0].Priority)

	// Already at the ceiling.
	todos = scanner.ScanFile("// BUG!: corrupts the index\n")
	require.Len(t, todos, 1)
	assert.Equal(t, 5, todos[0].Priority)
}

func TestScanFileCustomMarkers(t *testing.T) {
	scanner := NewCommentScanner(ScannerConfig{CustomMarkers: []string{"review"}})

	todos := scanner.ScanFile("// REVIEW: double-check bounds\n")
	require.Len(t, todos, 1)
	assert.Equal(t, TodoCustom, todos[0].Kind)
	assert.Equal(t, 1, todos[0].Priority)
}

func TestScanFileNoMarkers(t *testing.T) {
	scanner := NewCommentScanner(ScannerConfig{})
	assert.Empty(t, scanner.ScanFile("func main() {}\n"))
}

func TestTodoIndexReplaceAndRemove(t *testing.T) {
	idx := NewTodoIndex()
	idx.IndexDocument("a.js", "// TODO: one\n// FIXME: two\n")
	assert.Equal(t, 2, idx.Count())

	// Rescanning with no markers drops the document entirely.
	idx.IndexDocument("a.js", "const x = 1;\n")
	assert.Equal(t, 0, idx.Count())
	assert.Empty(t, idx.DocumentTodos("a.js"))

	idx.IndexDocument("b.js", "// HACK: vendored copy\n")
	idx.RemoveDocument("b.js")
	assert.Equal(t, 0, idx.Count())
}

func TestAllTodosOrder(t *testing.T) {
	idx := NewTodoIndex()
	idx.IndexDocument("b.js", "// TODO: later\n// BUG: crash on empty input\n")
	idx.IndexDocument("a.js", "// FIXME: leaks handles\n")

	all := idx.AllTodos()
	require.Len(t, all, 3)
	assert.Equal(t, TodoBug, all[0].Item.Kind)
	assert.Equal(t, TodoFixme, all[1].Item.Kind)
	assert.Equal(t, "a.js", all[1].URI)
	assert.Equal(t, TodoTodo, all[2].Item.Kind)
}

func TestTodosByKindAndCounts(t *testing.T) {
	idx := NewTodoIndex()
	idx.IndexDocument("a.js", "// TODO: one\n// TODO: two\n// XXX: spooky\n")

	assert.Len(t, idx.TodosByKind(TodoTodo), 2)
	assert.Empty(t, idx.TodosByKind(TodoBug))

	counts := idx.CountByKind()
	assert.Equal(t, 2, counts[TodoTodo])
	assert.Equal(t, 1, counts[TodoXxx])
}
