package ast

import (
	"math/big"
	"testing"

	"github.com/corepeg/pyparser/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var zeroPos = token.Position{}

const testFeatureVersion = 12

func TestParseNumber(t *testing.T) {
	tests := []struct {
		raw  string
		kind string // "int", "float", "complex"
	}{
		{"1_000", "int"},
		{"0x1F", "int"},
		{"0o17", "int"},
		{"0b101", "int"},
		{"3.14", "float"},
		{"1e10", "float"},
		{"2j", "complex"},
		{"3.5J", "complex"},
	}
	for _, tt := range tests {
		v, err := ParseNumber(tt.raw, testFeatureVersion)
		require.NoErrorf(t, err, "ParseNumber(%q)", tt.raw)
		switch tt.kind {
		case "int":
			_, ok := v.(*big.Int)
			assert.Truef(t, ok, "ParseNumber(%q) = %T, want *big.Int", tt.raw, v)
		case "float":
			_, ok := v.(float64)
			assert.Truef(t, ok, "ParseNumber(%q) = %T, want float64", tt.raw, v)
		case "complex":
			_, ok := v.(complex128)
			assert.Truef(t, ok, "ParseNumber(%q) = %T, want complex128", tt.raw, v)
		}
	}
}

func TestParseNumber_HexValue(t *testing.T) {
	v, err := ParseNumber("0x1F", testFeatureVersion)
	require.NoError(t, err)
	n := v.(*big.Int)
	assert.Equal(t, int64(31), n.Int64())
}

func TestParseNumber_UnderscoreRejectedBelowFeatureVersion6(t *testing.T) {
	_, err := ParseNumber("1_000", 5)
	require.Error(t, err)
}

func TestParseNumber_UnderscoreAllowedAtFeatureVersion6(t *testing.T) {
	v, err := ParseNumber("1_000", 6)
	require.NoError(t, err)
	n := v.(*big.Int)
	assert.Equal(t, int64(1000), n.Int64())
}

func TestParseString_CookedEscape(t *testing.T) {
	v, kind, warnings, err := ParseString(`"a\nb"`, zeroPos, zeroPos, testFeatureVersion)
	require.Nil(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, "a\nb", v)
	assert.Equal(t, "", kind)
}

func TestParseString_RawPassesThroughBackslash(t *testing.T) {
	v, _, _, err := ParseString(`r"a\nb"`, zeroPos, zeroPos, testFeatureVersion)
	require.Nil(t, err)
	assert.Equal(t, `a\nb`, v)
}

func TestParseString_BytesLiteral(t *testing.T) {
	v, _, _, err := ParseString(`b"abc"`, zeroPos, zeroPos, testFeatureVersion)
	require.Nil(t, err)
	_, ok := v.([]byte)
	assert.True(t, ok)
}

func TestParseString_InvalidEscapeWarns(t *testing.T) {
	_, _, warnings, err := ParseString(`"a\qb"`, zeroPos, zeroPos, testFeatureVersion)
	require.Nil(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, byte('q'), warnings[0].Char)
}

func TestParseString_UnicodePrefixSetsKind(t *testing.T) {
	v, kind, _, err := ParseString(`u"abc"`, zeroPos, zeroPos, testFeatureVersion)
	require.Nil(t, err)
	assert.Equal(t, "abc", v)
	assert.Equal(t, "u", kind)
}

func TestParseString_TemplatePrefixStillFindsQuotes(t *testing.T) {
	v, _, _, err := ParseString(`t"abc"`, zeroPos, zeroPos, testFeatureVersion)
	require.Nil(t, err)
	assert.Equal(t, "abc", v)
}

func TestParseString_BytesRejectsNonASCII(t *testing.T) {
	_, _, _, err := ParseString("b\"caf\xc3\xa9\"", zeroPos, zeroPos, testFeatureVersion)
	require.NotNil(t, err)
}

func TestParseString_RejectsCombinedFAndBPrefix(t *testing.T) {
	_, _, _, err := ParseString(`fb"abc"`, zeroPos, zeroPos, testFeatureVersion)
	require.NotNil(t, err)
}

func TestParseString_FStringRejectedBelowFeatureVersion6(t *testing.T) {
	_, _, _, err := ParseString(`f"abc"`, zeroPos, zeroPos, 5)
	require.NotNil(t, err)
}

func TestParseString_FStringAllowedAtFeatureVersion6(t *testing.T) {
	_, _, _, err := ParseString(`f"abc"`, zeroPos, zeroPos, 6)
	require.Nil(t, err)
}

func TestConcatStrings_SinglePartPassesThrough(t *testing.T) {
	c := NewConstant("a", "", zeroPos, zeroPos)
	got, err := ConcatStrings(zeroPos, zeroPos, []Expr{c})
	require.Nil(t, err)
	assert.Same(t, c, got)
}

func TestConcatStrings_AllConstantsFold(t *testing.T) {
	a := NewConstant("a", "", zeroPos, zeroPos)
	b := NewConstant("b", "", zeroPos, zeroPos)
	got, err := ConcatStrings(zeroPos, zeroPos, []Expr{a, b})
	require.Nil(t, err)
	c, ok := got.(*Constant)
	require.True(t, ok)
	assert.Equal(t, "ab", c.Value)
}

func TestConcatStrings_MixedWithFStringProducesJoinedStr(t *testing.T) {
	a := NewConstant("a", "", zeroPos, zeroPos)
	name := NewName("b", Load, zeroPos, zeroPos)
	fv := &FormattedValue{span: newSpan(zeroPos, zeroPos), Value: name}
	js := &JoinedStr{span: newSpan(zeroPos, zeroPos), Values: []Expr{fv}}

	got, err := ConcatStrings(zeroPos, zeroPos, []Expr{a, js})
	require.Nil(t, err)
	out, ok := got.(*JoinedStr)
	require.True(t, ok)
	require.Len(t, out.Values, 2)
	_, ok = out.Values[0].(*Constant)
	assert.True(t, ok)
	_, ok = out.Values[1].(*FormattedValue)
	assert.True(t, ok)
}

func TestConcatStrings_PureBytesRunCollapsesToSingleConstant(t *testing.T) {
	a := NewConstant([]byte("abc"), "", zeroPos, zeroPos)
	b := NewConstant([]byte("def"), "", zeroPos, zeroPos)
	got, err := ConcatStrings(zeroPos, zeroPos, []Expr{a, b})
	require.Nil(t, err)
	c, ok := got.(*Constant)
	require.True(t, ok)
	assert.Equal(t, []byte("abcdef"), c.Value)
}

func TestConcatStrings_BytesKeepsKindOfFirstElement(t *testing.T) {
	a := NewConstant([]byte("abc"), "u", zeroPos, zeroPos)
	b := NewConstant([]byte("def"), "", zeroPos, zeroPos)
	got, err := ConcatStrings(zeroPos, zeroPos, []Expr{a, b})
	require.Nil(t, err)
	c, ok := got.(*Constant)
	require.True(t, ok)
	assert.Equal(t, "u", c.Kind)
}

func TestConcatStrings_MixingBytesAndTextIsSyntaxError(t *testing.T) {
	a := NewConstant([]byte("abc"), "", zeroPos, zeroPos)
	b := NewConstant("def", "", zeroPos, zeroPos)
	got, err := ConcatStrings(zeroPos, zeroPos, []Expr{a, b})
	require.NotNil(t, err)
	assert.Nil(t, got)
}

func TestGetExprName(t *testing.T) {
	assert.Equal(t, "function call", GetExprName(NewCall(NewName("f", Load, zeroPos, zeroPos), nil, nil, zeroPos, zeroPos)))
	assert.Equal(t, "literal", GetExprName(NewConstant(1, "", zeroPos, zeroPos)))
	assert.Equal(t, "tuple", GetExprName(NewTuple(nil, Load, zeroPos, zeroPos)))
}

func TestApplyFutureImport_SetsBarryAsFLUFL(t *testing.T) {
	flags := &FutureFlags{}
	stmt := NewImportFrom("__future__", []Alias{{Name: "barry_as_FLUFL"}}, 0, zeroPos, zeroPos)
	ApplyFutureImport(flags, stmt)
	assert.True(t, flags.BarryAsFLUFL)
}

func TestApplyFutureImport_IgnoresOtherModules(t *testing.T) {
	flags := &FutureFlags{}
	stmt := NewImportFrom("os", []Alias{{Name: "barry_as_FLUFL"}}, 0, zeroPos, zeroPos)
	ApplyFutureImport(flags, stmt)
	assert.False(t, flags.BarryAsFLUFL)
}
