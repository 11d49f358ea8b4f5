package refactor

import (
	"strings"

	"github.com/jward/loupe"
)

// Context carries everything one refactoring operation needs: the full
// document text, its URI, the selection, and the language for dialect
// decisions.
type Context struct {
	Source    string
	URI       string
	Selection loupe.Range
	Language  loupe.LanguageID
}

// NewContext creates a refactoring context.
func NewContext(source, uri string, selection loupe.Range, lang loupe.LanguageID) *Context {
	return &Context{Source: source, URI: uri, Selection: selection, Language: lang}
}

// SelectedText returns the text covered by the selection.
func (c *Context) SelectedText() string {
	return c.TextInRange(c.Selection)
}

// TextInRange returns the text covered by a range. Columns beyond a
// line's end clamp to the line.
func (c *Context) TextInRange(r loupe.Range) string {
	lines := strings.Split(c.Source, "\n")
	if r.Start.Line >= len(lines) {
		return ""
	}

	if r.Start.Line == r.End.Line {
		line := lines[r.Start.Line]
		start := min(r.Start.Column, len(line))
		end := min(r.End.Column, len(line))
		if end < start {
			return ""
		}
		return line[start:end]
	}

	var b strings.Builder
	for i := r.Start.Line; i <= r.End.Line && i < len(lines); i++ {
		line := lines[i]
		switch i {
		case r.Start.Line:
			b.WriteString(line[min(r.Start.Column, len(line)):])
		case r.End.Line:
			b.WriteString(line[:min(r.End.Column, len(line))])
		default:
			b.WriteString(line)
		}
		if i < r.End.Line {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// LineAt returns the text of one line, without its newline.
func (c *Context) LineAt(line int) (string, bool) {
	lines := strings.Split(c.Source, "\n")
	if line < 0 || line >= len(lines) {
		return "", false
	}
	return lines[line], true
}

// IndentationAt returns the leading whitespace of one line.
func (c *Context) IndentationAt(line int) string {
	text, ok := c.LineAt(line)
	if !ok {
		return ""
	}
	return text[:len(text)-len(strings.TrimLeft(text, " \t"))]
}
