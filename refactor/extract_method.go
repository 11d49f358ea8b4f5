package refactor

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jward/loupe"
)

// CanExtractMethod checks the extract-method preconditions: a non-empty
// selection with balanced delimiters that covers whole statements rather
// than a dangling fragment.
func CanExtractMethod(ctx *Context) error {
	selected := strings.TrimSpace(ctx.SelectedText())
	if selected == "" {
		return ErrNoExpression
	}
	if !hasBalancedDelimiters(selected) {
		return &CannotExtractError{Reason: "selection has unbalanced delimiters"}
	}
	for _, re := range incompletePatterns {
		if re.MatchString(selected) {
			return &CannotExtractError{Reason: "selection is an incomplete statement"}
		}
	}
	return nil
}

// ExtractMethod replaces the selected statements with a call to a new
// function and inserts that function's definition before the statement
// containing the selection, at the same indentation. Parameters are the
// selection's free variables: names referenced in the block that are
// neither declared inside it nor language keywords or builtins, and that
// appear in the source before the selection.
func ExtractMethod(ctx *Context, name string) (*Result, error) {
	if err := CanExtractMethod(ctx); err != nil {
		return nil, err
	}

	body := ctx.SelectedText()
	params := inferParameters(ctx, body)

	insertAt := findInsertionPoint(ctx.Source, ctx.Selection, ctx.Language)
	indent := ctx.IndentationAt(insertAt.Line)

	call := methodCall(name, params, ctx.Language)
	definition := methodDefinition(name, params, body, ctx.Language, indent)

	edits := []TextEdit{
		Replace(ctx.Selection, call),
		Insert(loupe.Position{Line: insertAt.Line}, definition),
	}
	SortEdits(edits)

	result := &Result{
		Edits:         edits,
		GeneratedCode: definition,
		Description:   fmt.Sprintf("Extract selection to %s '%s'", callableNoun(ctx.Language), name),
	}
	return result, nil
}

func callableNoun(lang loupe.LanguageID) string {
	switch lang {
	case loupe.LangJavaScript, loupe.LangTypeScript, loupe.LangPython,
		loupe.LangRust, loupe.LangGo:
		return "function"
	default:
		return "method"
	}
}

// inferParameters decides the extracted function's parameter list. A name
// qualifies when the block reads it, the block does not declare it, and it
// occurs in the source above the selection. Order follows first use in the
// block.
func inferParameters(ctx *Context, body string) []string {
	declared := declaredNames(body)
	before := sourceBeforeSelection(ctx)

	var params []string
	for _, name := range findVariableReferences(body, ctx.Language) {
		if declared[name] {
			continue
		}
		if !wordInText(before, name) {
			continue
		}
		params = append(params, name)
	}
	return params
}

var declPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?m)\b(?:let|const|var)\s+([a-zA-Z_$][a-zA-Z0-9_$]*)`),
	regexp.MustCompile(`(?m)^\s*([a-zA-Z_][a-zA-Z0-9_]*)\s*:?=`),
	regexp.MustCompile(`(?m)\b(?:def|fn|func)\s+([a-zA-Z_][a-zA-Z0-9_]*)`),
	regexp.MustCompile(`(?m)\bfor\s+([a-zA-Z_][a-zA-Z0-9_]*)\s+in\b`),
}

// declaredNames finds names the block itself declares or assigns first.
func declaredNames(body string) map[string]bool {
	out := make(map[string]bool)
	for _, re := range declPatterns {
		for _, m := range re.FindAllStringSubmatch(body, -1) {
			out[m[1]] = true
		}
	}
	return out
}

func sourceBeforeSelection(ctx *Context) string {
	lines := strings.Split(ctx.Source, "\n")
	end := ctx.Selection.Start.Line
	if end > len(lines) {
		end = len(lines)
	}
	var b strings.Builder
	for i := 0; i < end; i++ {
		b.WriteString(lines[i])
		b.WriteByte('\n')
	}
	if end < len(lines) {
		line := lines[end]
		b.WriteString(line[:min(ctx.Selection.Start.Column, len(line))])
	}
	return b.String()
}

func wordInText(text, name string) bool {
	re, err := regexp.Compile(`\b` + regexp.QuoteMeta(name) + `\b`)
	if err != nil {
		return false
	}
	return re.MatchString(text)
}

func methodCall(name string, params []string, lang loupe.LanguageID) string {
	args := strings.Join(params, ", ")
	switch lang {
	case loupe.LangPython, loupe.LangGo:
		return fmt.Sprintf("%s(%s)", name, args)
	default:
		return fmt.Sprintf("%s(%s);", name, args)
	}
}

// methodDefinition renders the new callable in the language's local form.
// Go uses a function literal bound with := so the definition stays valid
// inside an enclosing function.
func methodDefinition(name string, params []string, body string, lang loupe.LanguageID, indent string) string {
	args := strings.Join(params, ", ")
	inner := indentBlock(body, indent+indentUnit(lang))

	switch lang {
	case loupe.LangPython:
		return fmt.Sprintf("%sdef %s(%s):\n%s\n", indent, name, args, inner)
	case loupe.LangRust:
		return fmt.Sprintf("%sfn %s(%s) {\n%s\n%s}\n", indent, name, args, inner, indent)
	case loupe.LangGo:
		return fmt.Sprintf("%s%s := func(%s) {\n%s\n%s}\n", indent, name, args, inner, indent)
	default:
		return fmt.Sprintf("%sfunction %s(%s) {\n%s\n%s}\n", indent, name, args, inner, indent)
	}
}

func indentUnit(lang loupe.LanguageID) string {
	switch lang {
	case loupe.LangGo:
		return "\t"
	default:
		return "    "
	}
}

func indentBlock(body, indent string) string {
	lines := strings.Split(strings.TrimRight(body, "\n"), "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			lines[i] = ""
			continue
		}
		lines[i] = indent + strings.TrimSpace(line)
	}
	return strings.Join(lines, "\n")
}
