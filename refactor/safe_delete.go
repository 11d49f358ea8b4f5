package refactor

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jward/loupe"
)

// DeleteAnalysis is the outcome of checking whether a symbol can be
// removed: either it is safe, or the blocking usages are listed.
type DeleteAnalysis struct {
	CanDelete   bool             `json:"canDelete"`
	SymbolName  string           `json:"symbolName"`
	SymbolRange loupe.Range      `json:"symbolRange"`
	Usages      []loupe.Location `json:"usages,omitempty"`
	Warnings    []string         `json:"warnings,omitempty"`
}

var symbolNamePattern = regexp.MustCompile(
	`^(?:(?:let|const|var|function|class|def|fn|func|type)\s+)?([a-zA-Z_][a-zA-Z0-9_]*)`)

// AnalyzeDelete inspects the selected symbol and scans the document for
// whole-word occurrences of its name. The declaration itself never counts
// as a blocking usage.
func AnalyzeDelete(ctx *Context) (*DeleteAnalysis, error) {
	selected := strings.TrimSpace(ctx.SelectedText())
	if selected == "" {
		return nil, &InvalidSelectionError{Reason: "no symbol selected"}
	}

	name := extractSymbolName(selected)
	if name == "" {
		return nil, &InvalidSelectionError{Reason: "could not identify symbol name"}
	}

	usages := findUsages(ctx, name)
	if len(usages) <= 1 {
		return &DeleteAnalysis{CanDelete: true, SymbolName: name, SymbolRange: ctx.Selection}, nil
	}

	var blocking []loupe.Location
	for _, u := range usages {
		if !u.Range.Overlaps(ctx.Selection) {
			blocking = append(blocking, u)
		}
	}
	if len(blocking) == 0 {
		return &DeleteAnalysis{CanDelete: true, SymbolName: name, SymbolRange: ctx.Selection}, nil
	}
	return &DeleteAnalysis{
		SymbolName:  name,
		SymbolRange: ctx.Selection,
		Usages:      blocking,
	}, nil
}

// CanSafeDelete reports whether the selected symbol has no usages outside
// its declaration.
func CanSafeDelete(ctx *Context) (bool, error) {
	analysis, err := AnalyzeDelete(ctx)
	if err != nil {
		return false, err
	}
	return analysis.CanDelete, nil
}

// SafeDelete removes the selected symbol's declaration. When the
// declaration owns its whole line the entire line goes, trailing newline
// included; otherwise only the selected range is removed.
func SafeDelete(ctx *Context) (*Result, error) {
	analysis, err := AnalyzeDelete(ctx)
	if err != nil {
		return nil, err
	}
	if !analysis.CanDelete {
		return nil, &SymbolInUseError{Usages: analysis.Usages}
	}

	edits := []TextEdit{Delete(deletionRange(ctx, analysis))}
	return &Result{
		Edits:       edits,
		Description: fmt.Sprintf("Delete unused symbol '%s'", analysis.SymbolName),
	}, nil
}

// ConfirmationMessage phrases the delete decision for a client prompt.
func ConfirmationMessage(ctx *Context) (string, error) {
	analysis, err := AnalyzeDelete(ctx)
	if err != nil {
		return "", err
	}
	if analysis.CanDelete {
		return fmt.Sprintf("Are you sure you want to delete '%s'?", analysis.SymbolName), nil
	}
	return fmt.Sprintf("Symbol '%s' is still used in %d location(s). Delete anyway?",
		analysis.SymbolName, len(analysis.Usages)), nil
}

// extractSymbolName pulls the symbol name out of the selected text: the
// first identifier, skipping a leading declaration keyword.
func extractSymbolName(text string) string {
	if m := symbolNamePattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	for _, part := range strings.FieldsFunc(text, func(r rune) bool {
		return !isWordChar(r)
	}) {
		return part
	}
	return ""
}

func isWordChar(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// findUsages scans every line for whole-word occurrences of the name.
func findUsages(ctx *Context, name string) []loupe.Location {
	re, err := regexp.Compile(`\b` + regexp.QuoteMeta(name) + `\b`)
	if err != nil {
		return nil
	}

	var usages []loupe.Location
	for lineNum, line := range strings.Split(ctx.Source, "\n") {
		for _, m := range re.FindAllStringIndex(line, -1) {
			usages = append(usages, loupe.Location{
				URI:   ctx.URI,
				Range: loupe.RangeFrom(lineNum, m[0], lineNum, m[1]),
			})
		}
	}
	return usages
}

// deletionRange widens the symbol range to the whole line when the line
// holds nothing but the declaration (modulo a trailing semicolon).
func deletionRange(ctx *Context, analysis *DeleteAnalysis) loupe.Range {
	lines := strings.Split(ctx.Source, "\n")
	startLine := analysis.SymbolRange.Start.Line
	if startLine >= len(lines) {
		return analysis.SymbolRange
	}
	line := lines[startLine]

	if analysis.SymbolRange.Start.Line == analysis.SymbolRange.End.Line {
		trimmed := strings.TrimSpace(line)
		symbolText := ctx.TextInRange(analysis.SymbolRange)
		ownsLine := trimmed == symbolText ||
			(strings.HasSuffix(trimmed, ";") &&
				strings.TrimSpace(trimmed[:len(trimmed)-1]) == symbolText)
		if !ownsLine {
			return analysis.SymbolRange
		}
		if startLine+1 < len(lines) {
			return loupe.RangeFrom(startLine, 0, startLine+1, 0)
		}
		return loupe.RangeFrom(startLine, 0, startLine, len(line))
	}

	endLine := analysis.SymbolRange.End.Line
	if endLine+1 < len(lines) {
		return loupe.RangeFrom(startLine, 0, endLine+1, 0)
	}
	return analysis.SymbolRange
}
