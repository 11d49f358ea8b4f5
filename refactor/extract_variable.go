package refactor

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jward/loupe"
)

// CanExtractVariable checks the extract-variable preconditions: the
// selection must be a non-empty, self-contained expression.
func CanExtractVariable(ctx *Context) error {
	selected := strings.TrimSpace(ctx.SelectedText())
	if selected == "" {
		return ErrNoExpression
	}
	if !IsValidExpression(selected, ctx.Language) {
		return &CannotExtractError{Reason: "selection is not a valid expression"}
	}
	return nil
}

// ExtractVariable replaces the selected expression with a reference to a
// new variable and inserts its declaration before the statement containing
// the selection. Exactly two edits result: the replacement and the
// insertion, ordered bottom-up.
func ExtractVariable(ctx *Context, name string) (*Result, error) {
	if err := CanExtractVariable(ctx); err != nil {
		return nil, err
	}

	value := strings.TrimSpace(ctx.SelectedText())
	insertAt := findInsertionPoint(ctx.Source, ctx.Selection, ctx.Language)
	indent := ctx.IndentationAt(insertAt.Line)
	declaration := variableDeclaration(name, value, ctx.Language, indent)

	edits := []TextEdit{
		Replace(ctx.Selection, name),
		Insert(loupe.Position{Line: insertAt.Line}, declaration),
	}
	SortEdits(edits)

	result := &Result{
		Edits:         edits,
		GeneratedCode: declaration,
		Description:   fmt.Sprintf("Extract '%s' to variable '%s'", value, name),
	}
	return result, nil
}

// ExtractVariableSuggested runs ExtractVariable with a name derived from
// the expression's shape, returning the chosen name.
func ExtractVariableSuggested(ctx *Context) (string, *Result, error) {
	name := SuggestVariableName(ctx.SelectedText(), ctx.Language)
	result, err := ExtractVariable(ctx, name)
	if err != nil {
		return "", nil, err
	}
	return name, result, nil
}

// FindOccurrences locates every occurrence of the selected expression's
// text in the document. The selection itself is always included.
func FindOccurrences(ctx *Context) []loupe.Range {
	trimmed := strings.TrimSpace(ctx.SelectedText())
	if trimmed == "" {
		return []loupe.Range{ctx.Selection}
	}

	re, err := regexp.Compile(regexp.QuoteMeta(trimmed))
	if err != nil {
		return []loupe.Range{ctx.Selection}
	}

	var occurrences []loupe.Range
	for lineNum, line := range strings.Split(ctx.Source, "\n") {
		for _, m := range re.FindAllStringIndex(line, -1) {
			occurrences = append(occurrences,
				loupe.RangeFrom(lineNum, m[0], lineNum, m[1]))
		}
	}
	if len(occurrences) == 0 {
		occurrences = append(occurrences, ctx.Selection)
	}
	return occurrences
}

// variableDeclaration renders a declaration statement in the language's
// local idiom, ending with a newline so insertion at a line start pushes
// the following statement down.
func variableDeclaration(name, value string, lang loupe.LanguageID, indent string) string {
	switch lang {
	case loupe.LangPython:
		return fmt.Sprintf("%s%s = %s\n", indent, name, value)
	case loupe.LangJavaScript, loupe.LangTypeScript:
		return fmt.Sprintf("%sconst %s = %s;\n", indent, name, value)
	case loupe.LangRust:
		return fmt.Sprintf("%slet %s = %s;\n", indent, name, value)
	case loupe.LangGo:
		return fmt.Sprintf("%s%s := %s\n", indent, name, value)
	case loupe.LangJava:
		return fmt.Sprintf("%svar %s = %s;\n", indent, name, value)
	default:
		return fmt.Sprintf("%sauto %s = %s;\n", indent, name, value)
	}
}
