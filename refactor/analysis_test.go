package refactor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jward/loupe"
)

// ====== Expression Validity ======

func TestIsValidExpression(t *testing.T) {
	assert.True(t, IsValidExpression("a + b", loupe.LangJavaScript))
	assert.True(t, IsValidExpression("foo()", loupe.LangJavaScript))
	assert.True(t, IsValidExpression("x.y.z", loupe.LangJavaScript))

	assert.False(t, IsValidExpression("if ", loupe.LangJavaScript))
	assert.False(t, IsValidExpression("function foo", loupe.LangJavaScript))
	assert.False(t, IsValidExpression("(a + b", loupe.LangJavaScript))
	assert.False(t, IsValidExpression("", loupe.LangJavaScript))
}

func TestInvalidFragmentsRejectedForEveryLanguage(t *testing.T) {
	langs := []loupe.LanguageID{
		loupe.LangC, loupe.LangCpp, loupe.LangGo, loupe.LangJava,
		loupe.LangJavaScript, loupe.LangPython, loupe.LangRust,
		loupe.LangTypeScript,
	}
	for _, lang := range langs {
		assert.False(t, IsValidExpression("if ", lang), "%s: 'if '", lang)
		assert.False(t, IsValidExpression("function foo", lang), "%s: 'function foo'", lang)
		assert.False(t, IsValidExpression("(a + b", lang), "%s: '(a + b'", lang)
	}
}

func TestLanguageSpecificValidity(t *testing.T) {
	assert.False(t, IsValidExpression("def foo(x)", loupe.LangPython))
	assert.False(t, IsValidExpression("x:", loupe.LangPython))
	assert.True(t, IsValidExpression("x * 2", loupe.LangPython))

	assert.False(t, IsValidExpression("fn main()", loupe.LangRust))
	assert.True(t, IsValidExpression("a.len()", loupe.LangRust))

	assert.False(t, IsValidExpression("func main()", loupe.LangGo))
	assert.True(t, IsValidExpression("len(xs)", loupe.LangGo))

	// Arrow functions stay expressions despite the const prefix check.
	assert.True(t, IsValidExpression("() => x + 1", loupe.LangJavaScript))
}

func TestBalancedDelimiters(t *testing.T) {
	assert.True(t, hasBalancedDelimiters("(a + b)"))
	assert.True(t, hasBalancedDelimiters("foo(bar[0])"))
	assert.True(t, hasBalancedDelimiters("{a: 1, b: 2}"))
	assert.True(t, hasBalancedDelimiters(`"(unclosed in string"`))
	assert.True(t, hasBalancedDelimiters(`"esc \" quote"`))

	assert.False(t, hasBalancedDelimiters("(a + b"))
	assert.False(t, hasBalancedDelimiters("foo(bar[0)"))
	assert.False(t, hasBalancedDelimiters(`"open string`))
}

// ====== Name Suggestion ======

func TestSuggestVariableName(t *testing.T) {
	assert.Equal(t, "getName", SuggestVariableName("obj.getName()", loupe.LangJavaScript))
	assert.Equal(t, "calculateResult", SuggestVariableName("calculate()", loupe.LangJavaScript))
	assert.Equal(t, "name", SuggestVariableName("user.name", loupe.LangJavaScript))
	assert.Equal(t, "extracted", SuggestVariableName("a + b", loupe.LangJavaScript))
	assert.Equal(t, "condition", SuggestVariableName("a == b", loupe.LangJavaScript))
}

func TestSuggestVariableNameCaseConvention(t *testing.T) {
	assert.Equal(t, "get_name", SuggestVariableName("obj.getName()", loupe.LangPython))
	assert.Equal(t, "get_name", SuggestVariableName("obj.getName()", loupe.LangRust))
	assert.Equal(t, "getName", SuggestVariableName("obj.get_name()", loupe.LangJavaScript))
}

// ====== Variable References ======

func TestFindVariableReferences(t *testing.T) {
	names := findVariableReferences("total + count * len(items)", loupe.LangPython)
	assert.Equal(t, []string{"total", "count", "items"}, names)

	names = findVariableReferences("console.log(a + b)", loupe.LangJavaScript)
	assert.Equal(t, []string{"log", "a", "b"}, names)
}

// ====== Insertion Point ======

func TestFindInsertionPointSameStatement(t *testing.T) {
	pos := findInsertionPoint("console.log(a + b);", loupe.RangeFrom(0, 12, 0, 17), loupe.LangJavaScript)
	assert.Equal(t, loupe.Position{Line: 0, Column: 0}, pos)
}

func TestFindInsertionPointIndented(t *testing.T) {
	source := "function f() {\n  const x = 1;\n  console.log(a + b);\n}"
	pos := findInsertionPoint(source, loupe.RangeFrom(2, 14, 2, 19), loupe.LangJavaScript)
	assert.Equal(t, loupe.Position{Line: 2, Column: 2}, pos)
}

func TestFindInsertionPointPython(t *testing.T) {
	source := "def f():\n    y = 1\n\n    print(x * 2)\n"
	pos := findInsertionPoint(source, loupe.RangeFrom(3, 10, 3, 15), loupe.LangPython)
	assert.Equal(t, loupe.Position{Line: 3, Column: 4}, pos)
}
