package pyparser

import (
	"math/big"
	"testing"

	"github.com/corepeg/pyparser/ast"
	"github.com/corepeg/pyparser/perrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The end-to-end scenarios below are spec.md §8's literal input/expected
// output table.

func TestParseString_SimpleBinOp(t *testing.T) {
	mod, err := ParseString("1+2\n")
	require.NoError(t, err)
	require.Len(t, mod.Body, 1)

	stmt, ok := mod.Body[0].(*ast.ExprStmt)
	require.True(t, ok)
	bin, ok := stmt.Value.(*ast.BinOp)
	require.True(t, ok)
	assert.Equal(t, ast.Add, bin.Op)

	left, ok := bin.Left.(*ast.Constant)
	require.True(t, ok)
	assert.Equal(t, int64(1), left.Value.(*big.Int).Int64())

	right, ok := bin.Right.(*ast.Constant)
	require.True(t, ok)
	assert.Equal(t, int64(2), right.Value.(*big.Int).Int64())
}

func TestParseString_FunctionDefArguments(t *testing.T) {
	mod, err := ParseString("def f(a, b=1, *, c, **kw): pass\n")
	require.NoError(t, err)
	require.Len(t, mod.Body, 1)

	fn, ok := mod.Body[0].(*ast.FunctionDef)
	require.True(t, ok)
	assert.Equal(t, "f", fn.Name)

	require.Len(t, fn.Args.Args, 2)
	assert.Equal(t, "a", fn.Args.Args[0].Name)
	assert.Equal(t, "b", fn.Args.Args[1].Name)

	require.Len(t, fn.Args.Defaults, 1)
	def, ok := fn.Args.Defaults[0].(*ast.Constant)
	require.True(t, ok)
	assert.Equal(t, int64(1), def.Value.(*big.Int).Int64())

	require.Len(t, fn.Args.KwOnlyArgs, 1)
	assert.Equal(t, "c", fn.Args.KwOnlyArgs[0].Name)
	require.Len(t, fn.Args.KwDefaults, 1)
	assert.Nil(t, fn.Args.KwDefaults[0])

	require.NotNil(t, fn.Args.KwArg)
	assert.Equal(t, "kw", fn.Args.KwArg.Name)
}

func TestParseString_LegacyPrintRaisesSyntaxError(t *testing.T) {
	_, err := ParseString("print 'hi'\n")
	require.Error(t, err)
	serr, ok := err.(*perrors.SyntaxError)
	require.True(t, ok)
	assert.Contains(t, serr.Message, "print")
}

func TestParseExpr_FStringDebugExpression(t *testing.T) {
	expr, err := ParseExpr(`f"{x=}"`)
	require.NoError(t, err)
	js, ok := expr.(*ast.JoinedStr)
	require.True(t, ok)
	require.Len(t, js.Values, 2)

	lit, ok := js.Values[0].(*ast.Constant)
	require.True(t, ok)
	assert.Equal(t, "x=", lit.Value)

	fv, ok := js.Values[1].(*ast.FormattedValue)
	require.True(t, ok)
	assert.True(t, fv.Debug)
	assert.Equal(t, 'r', fv.Conversion)
	name, ok := fv.Value.(*ast.Name)
	require.True(t, ok)
	assert.Equal(t, "x", name.Id)
}

func TestParseString_BarryAsFLUFL(t *testing.T) {
	mod, err := ParseString("from __future__ import barry_as_FLUFL\nx <> y\n")
	require.NoError(t, err)
	require.Len(t, mod.Body, 2)

	stmt, ok := mod.Body[1].(*ast.ExprStmt)
	require.True(t, ok)
	cmp, ok := stmt.Value.(*ast.Compare)
	require.True(t, ok)
	require.Len(t, cmp.Ops, 1)
	assert.Equal(t, ast.NotEq, cmp.Ops[0])
}

func TestParseString_BarryAsFLUFLRejectsNotEqual(t *testing.T) {
	_, err := ParseString("from __future__ import barry_as_FLUFL\nx != y\n")
	require.Error(t, err)
}

func TestParseExpr_IncompleteInputVsUnclosed(t *testing.T) {
	_, err := ParseString("(", WithAllowIncompleteInput())
	require.Error(t, err)
	serr, ok := err.(*perrors.SyntaxError)
	require.True(t, ok)
	assert.Equal(t, perrors.ECodeIncompleteInput, serr.Code)

	_, err = ParseString("(")
	require.Error(t, err)
	serr, ok = err.(*perrors.SyntaxError)
	require.True(t, ok)
	assert.Contains(t, serr.Message, "never closed")
}

func TestParseString_AssignTargetValidation(t *testing.T) {
	_, err := ParseString("a[b] = 1\n")
	require.NoError(t, err)

	_, err = ParseString("a() = 1\n")
	require.Error(t, err)
	serr, ok := err.(*perrors.SyntaxError)
	require.True(t, ok)
	assert.Contains(t, serr.Message, "cannot assign to")
}

func TestParseString_StringConcatenationFoldsToConstant(t *testing.T) {
	mod, err := ParseString(`"a" "b"` + "\n")
	require.NoError(t, err)
	stmt := mod.Body[0].(*ast.ExprStmt)
	c, ok := stmt.Value.(*ast.Constant)
	require.True(t, ok)
	assert.Equal(t, "ab", c.Value)
}

func TestParseString_MixedFStringConcatenationProducesJoinedStr(t *testing.T) {
	mod, err := ParseString(`"a" f"{b}"` + "\n")
	require.NoError(t, err)
	stmt := mod.Body[0].(*ast.ExprStmt)
	_, ok := stmt.Value.(*ast.JoinedStr)
	assert.True(t, ok)
}
