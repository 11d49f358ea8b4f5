package refactor

import (
	"sort"
	"strings"

	"github.com/jward/loupe"
)

// TextEdit replaces one range of a document with new text. An insertion is
// an edit with an empty range; a deletion is an edit with empty text.
type TextEdit struct {
	Range   loupe.Range `json:"range"`
	NewText string      `json:"newText"`
}

// Insert creates an insertion edit at a position.
func Insert(pos loupe.Position, text string) TextEdit {
	return TextEdit{Range: loupe.PointRange(pos.Line, pos.Column), NewText: text}
}

// Delete creates a deletion edit for a range.
func Delete(r loupe.Range) TextEdit {
	return TextEdit{Range: r}
}

// Replace creates a replacement edit.
func Replace(r loupe.Range, text string) TextEdit {
	return TextEdit{Range: r, NewText: text}
}

// SortEdits orders edits by descending start position so they can be
// applied sequentially without invalidating the positions of edits that
// have not been applied yet.
func SortEdits(edits []TextEdit) {
	sort.SliceStable(edits, func(i, j int) bool {
		return edits[j].Range.Start.Before(edits[i].Range.Start)
	})
}

// ApplyEdits applies a set of edits to the source and returns the new
// text. The input slice is not modified; edits are applied bottom-up.
func ApplyEdits(source string, edits []TextEdit) string {
	ordered := make([]TextEdit, len(edits))
	copy(ordered, edits)
	SortEdits(ordered)

	out := source
	for _, e := range ordered {
		start := offsetOf(out, e.Range.Start)
		end := offsetOf(out, e.Range.End)
		if start > len(out) {
			start = len(out)
		}
		if end > len(out) {
			end = len(out)
		}
		if end < start {
			end = start
		}
		out = out[:start] + e.NewText + out[end:]
	}
	return out
}

// offsetOf converts a line/column position to a byte offset, clamping to
// the end of the line and the end of the text.
func offsetOf(source string, pos loupe.Position) int {
	offset := 0
	line := 0
	for line < pos.Line {
		nl := strings.IndexByte(source[offset:], '\n')
		if nl < 0 {
			return len(source)
		}
		offset += nl + 1
		line++
	}
	lineEnd := len(source)
	if nl := strings.IndexByte(source[offset:], '\n'); nl >= 0 {
		lineEnd = offset + nl
	}
	offset += pos.Column
	if offset > lineEnd {
		offset = lineEnd
	}
	return offset
}

// Result is the outcome of a successful refactoring: the edits to apply,
// an optional block of generated code, and a description of what was done.
type Result struct {
	Edits         []TextEdit `json:"edits"`
	GeneratedCode string     `json:"generatedCode,omitempty"`
	Description   string     `json:"description"`
}

// Kind classifies a refactoring operation.
type Kind string

const (
	KindExtractVariable Kind = "extractVariable"
	KindExtractMethod   Kind = "extractMethod"
	KindSafeDelete      Kind = "safeDelete"
)

// Action is one refactoring offered for a selection. Unavailable actions
// stay listed with the reason so a client can explain why.
type Action struct {
	ID                string `json:"id"`
	Title             string `json:"title"`
	Kind              Kind   `json:"kind"`
	Available         bool   `json:"isAvailable"`
	UnavailableReason string `json:"unavailableReason,omitempty"`
}
