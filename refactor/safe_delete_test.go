package refactor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/loupe"
)

func TestFindUsages(t *testing.T) {
	source := "let foo = 1;\nconsole.log(foo);\nlet bar = foo + 1;"
	ctx := jsCtx(source, loupe.RangeFrom(0, 4, 0, 7))

	usages := findUsages(ctx, "foo")
	assert.Len(t, usages, 3)
}

func TestFindUsagesWholeWordOnly(t *testing.T) {
	source := "let foo = 1;\nlet foobar = 2;"
	ctx := jsCtx(source, loupe.RangeFrom(0, 4, 0, 7))

	usages := findUsages(ctx, "foo")
	assert.Len(t, usages, 1)
}

func TestAnalyzeDeleteBlockedByUsage(t *testing.T) {
	source := "let foo = 1;\nconsole.log(foo);"
	ctx := jsCtx(source, loupe.RangeFrom(0, 4, 0, 7))

	analysis, err := AnalyzeDelete(ctx)
	require.NoError(t, err)
	assert.False(t, analysis.CanDelete)
	require.Len(t, analysis.Usages, 1)
	assert.Equal(t, 1, analysis.Usages[0].Range.Start.Line)
	assert.Equal(t, "foo", analysis.SymbolName)
}

func TestSafeDeleteBlockedReturnsUsages(t *testing.T) {
	source := "let foo = 1;\nconsole.log(foo);"
	ctx := jsCtx(source, loupe.RangeFrom(0, 4, 0, 7))

	_, err := SafeDelete(ctx)
	var inUse *SymbolInUseError
	require.ErrorAs(t, err, &inUse)
	assert.Len(t, inUse.Usages, 1)
}

func TestSafeDeleteUnusedWholeLine(t *testing.T) {
	source := "let foo = 1;\nlet bar = 2;\nconsole.log(bar);"
	ctx := jsCtx(source, loupe.RangeFrom(0, 0, 0, 12))

	result, err := SafeDelete(ctx)
	require.NoError(t, err)
	require.Len(t, result.Edits, 1)
	assert.Equal(t, "let bar = 2;\nconsole.log(bar);", ApplyEdits(source, result.Edits))
}

func TestSafeDeleteSymbolPortionOnly(t *testing.T) {
	// Selection covers just the name inside a larger line, so only the
	// name is removed.
	source := "let foo = 1;"
	ctx := jsCtx(source, loupe.RangeFrom(0, 4, 0, 7))

	result, err := SafeDelete(ctx)
	require.NoError(t, err)
	assert.Equal(t, "let  = 1;", ApplyEdits(source, result.Edits))
}

func TestExtractSymbolName(t *testing.T) {
	assert.Equal(t, "foo", extractSymbolName("let foo = 1;"))
	assert.Equal(t, "handler", extractSymbolName("function handler() {}"))
	assert.Equal(t, "Account", extractSymbolName("class Account:"))
	assert.Equal(t, "run", extractSymbolName("fn run()"))
	assert.Equal(t, "x", extractSymbolName("x"))
	assert.Equal(t, "", extractSymbolName("+++"))
}

func TestAnalyzeDeleteEmptySelection(t *testing.T) {
	ctx := jsCtx("let foo = 1;", loupe.RangeFrom(0, 4, 0, 4))
	_, err := AnalyzeDelete(ctx)
	var invalid *InvalidSelectionError
	assert.ErrorAs(t, err, &invalid)
}

func TestConfirmationMessage(t *testing.T) {
	source := "let foo = 1;\nconsole.log(foo);"
	ctx := jsCtx(source, loupe.RangeFrom(0, 4, 0, 7))

	msg, err := ConfirmationMessage(ctx)
	require.NoError(t, err)
	assert.Contains(t, msg, "still used in 1 location(s)")
}
