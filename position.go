package loupe

import "fmt"

// Position is a zero-based line/column location in a document.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// NewPosition creates a Position at the given line and column.
func NewPosition(line, column int) Position {
	return Position{Line: line, Column: column}
}

// Before reports whether p is lexically before other.
func (p Position) Before(other Position) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Column < other.Column
}

// Compare returns -1, 0, or 1 as p is before, equal to, or after other.
func (p Position) Compare(other Position) int {
	switch {
	case p.Before(other):
		return -1
	case other.Before(p):
		return 1
	default:
		return 0
	}
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Range is a half-open lexical interval between two positions.
// Start must not be after End; a Range with Start == End denotes an
// insertion point.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// NewRange creates a Range from two positions.
func NewRange(start, end Position) Range {
	return Range{Start: start, End: end}
}

// RangeFrom creates a Range from raw line/column coordinates.
func RangeFrom(startLine, startCol, endLine, endCol int) Range {
	return Range{
		Start: Position{Line: startLine, Column: startCol},
		End:   Position{Line: endLine, Column: endCol},
	}
}

// PointRange creates an empty Range (an insertion point) at a position.
func PointRange(line, column int) Range {
	p := Position{Line: line, Column: column}
	return Range{Start: p, End: p}
}

// IsEmpty reports whether the range covers no text.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// Contains reports whether the position falls inside the range,
// inclusive of both endpoints.
func (r Range) Contains(p Position) bool {
	return !p.Before(r.Start) && !r.End.Before(p)
}

// ContainsRange reports whether other lies entirely within r.
func (r Range) ContainsRange(other Range) bool {
	return r.Contains(other.Start) && r.Contains(other.End)
}

// Overlaps reports whether the two ranges share at least one position.
func (r Range) Overlaps(other Range) bool {
	return !r.End.Before(other.Start) && !other.End.Before(r.Start)
}

func (r Range) String() string {
	return fmt.Sprintf("%s-%s", r.Start, r.End)
}

// Location is a range within a named document.
type Location struct {
	URI   string `json:"uri"`
	Range Range  `json:"range"`
}

// NewLocation creates a Location.
func NewLocation(uri string, r Range) Location {
	return Location{URI: uri, Range: r}
}
