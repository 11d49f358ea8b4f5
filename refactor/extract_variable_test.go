package refactor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/loupe"
)

func jsCtx(source string, sel loupe.Range) *Context {
	return NewContext(source, "test.js", sel, loupe.LangJavaScript)
}

func TestCanExtractSimpleExpression(t *testing.T) {
	ctx := jsCtx("let x = a + b;", loupe.RangeFrom(0, 8, 0, 13))
	assert.NoError(t, CanExtractVariable(ctx))
}

func TestCannotExtractEmptySelection(t *testing.T) {
	ctx := jsCtx("let x = a + b;", loupe.RangeFrom(0, 8, 0, 8))
	assert.ErrorIs(t, CanExtractVariable(ctx), ErrNoExpression)
}

func TestCannotExtractInvalidFragment(t *testing.T) {
	ctx := jsCtx("(a + b", loupe.RangeFrom(0, 0, 0, 6))
	err := CanExtractVariable(ctx)
	var cannotExtract *CannotExtractError
	assert.ErrorAs(t, err, &cannotExtract)
}

func TestExtractVariableJavaScript(t *testing.T) {
	ctx := jsCtx("console.log(a + b);", loupe.RangeFrom(0, 12, 0, 17))

	result, err := ExtractVariable(ctx, "sum")
	require.NoError(t, err)
	require.Len(t, result.Edits, 2)

	// Bottom-up order: the replacement comes before the insertion.
	assert.Equal(t, "sum", result.Edits[0].NewText)
	assert.Equal(t, "const sum = a + b;\n", result.Edits[1].NewText)
	assert.Equal(t, "const sum = a + b;\n", result.GeneratedCode)

	assert.Equal(t, "const sum = a + b;\nconsole.log(sum);",
		ApplyEdits(ctx.Source, result.Edits))
}

func TestExtractVariableIndented(t *testing.T) {
	source := "function f() {\n  const x = 1;\n  console.log(a + b);\n}"
	ctx := jsCtx(source, loupe.RangeFrom(2, 14, 2, 19))

	result, err := ExtractVariable(ctx, "sum")
	require.NoError(t, err)

	assert.Equal(t,
		"function f() {\n  const x = 1;\n  const sum = a + b;\n  console.log(sum);\n}",
		ApplyEdits(source, result.Edits))
}

func TestExtractVariablePython(t *testing.T) {
	ctx := NewContext("print(x * 2)", "test.py", loupe.RangeFrom(0, 6, 0, 11), loupe.LangPython)

	result, err := ExtractVariable(ctx, "doubled")
	require.NoError(t, err)
	assert.Contains(t, result.GeneratedCode, "doubled = x * 2")
	assert.Equal(t, "doubled = x * 2\nprint(doubled)", ApplyEdits(ctx.Source, result.Edits))
}

func TestDeclarationTemplates(t *testing.T) {
	assert.Equal(t, "sum = a + b\n", variableDeclaration("sum", "a + b", loupe.LangPython, ""))
	assert.Equal(t, "const sum = a + b;\n", variableDeclaration("sum", "a + b", loupe.LangJavaScript, ""))
	assert.Equal(t, "const sum = a + b;\n", variableDeclaration("sum", "a + b", loupe.LangTypeScript, ""))
	assert.Equal(t, "let sum = a + b;\n", variableDeclaration("sum", "a + b", loupe.LangRust, ""))
	assert.Equal(t, "sum := a + b\n", variableDeclaration("sum", "a + b", loupe.LangGo, ""))
	assert.Equal(t, "var sum = a + b;\n", variableDeclaration("sum", "a + b", loupe.LangJava, ""))
	assert.Equal(t, "auto sum = a + b;\n", variableDeclaration("sum", "a + b", loupe.LangC, ""))
	assert.Equal(t, "auto sum = a + b;\n", variableDeclaration("sum", "a + b", loupe.LangCpp, ""))
	assert.Equal(t, "\tsum := a + b\n", variableDeclaration("sum", "a + b", loupe.LangGo, "\t"))
}

func TestExtractVariableSuggested(t *testing.T) {
	ctx := jsCtx("let y = obj.getName();", loupe.RangeFrom(0, 8, 0, 21))

	name, result, err := ExtractVariableSuggested(ctx)
	require.NoError(t, err)
	assert.Equal(t, "getName", name)
	require.Len(t, result.Edits, 2)
}

func TestFindOccurrences(t *testing.T) {
	source := "let x = a + b;\nlet y = a + b;\nlet z = c;"
	ctx := jsCtx(source, loupe.RangeFrom(0, 8, 0, 13))

	occ := FindOccurrences(ctx)
	require.Len(t, occ, 2)
	assert.Equal(t, 0, occ[0].Start.Line)
	assert.Equal(t, 1, occ[1].Start.Line)
}
