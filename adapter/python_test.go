package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/loupe"
)

const pySample = `import os
from typing import List as L, Dict

class Account:
    def __init__(self, owner):
        self.owner = owner

    def _slug(self):
        return self.owner.lower()

def top(accounts):
    return len(accounts)
`

func TestPythonSymbols(t *testing.T) {
	res := analyze(t, NewPython, "accounts.py", pySample)

	account := requireSymbol(t, res, "Account", loupe.KindClass)
	assert.Equal(t, loupe.VisibilityPublic, account.Visibility)

	init := requireSymbol(t, res, "__init__", loupe.KindMethod)
	assert.Equal(t, account.ID, init.ParentID)
	assert.Equal(t, loupe.VisibilityPublic, init.Visibility)
	assert.Equal(t, "Account.__init__", init.QualifiedName)

	slug := requireSymbol(t, res, "_slug", loupe.KindMethod)
	assert.Equal(t, loupe.VisibilityPrivate, slug.Visibility)
	assert.False(t, slug.Exported)

	top := requireSymbol(t, res, "top", loupe.KindFunction)
	assert.Zero(t, top.ParentID)
}

func TestPythonDecoratedDefinition(t *testing.T) {
	res := analyze(t, NewPython, "dec.py", `@staticmethod
def build():
    return 1
`)
	requireSymbol(t, res, "build", loupe.KindFunction)
}

func TestPythonImports(t *testing.T) {
	res := analyze(t, NewPython, "accounts.py", pySample)
	require.Len(t, res.Imports, 2)

	assert.Equal(t, "os", res.Imports[0].ModulePath)

	from := res.Imports[1]
	assert.Equal(t, "typing", from.ModulePath)
	require.Len(t, from.Items, 2)
	assert.Equal(t, "List", from.Items[0].Name)
	assert.Equal(t, "L", from.Items[0].Alias)
	assert.Equal(t, "Dict", from.Items[1].Name)
}

func TestPythonCalls(t *testing.T) {
	res := analyze(t, NewPython, "accounts.py", pySample)
	require.Len(t, res.Calls, 2)

	assert.Equal(t, "self.owner.lower", res.Calls[0].Callee)
	assert.Equal(t, "self.owner.lower", res.Calls[0].Qualified)

	assert.Equal(t, "len", res.Calls[1].Callee)
	assert.Empty(t, res.Calls[1].Qualified)
}
