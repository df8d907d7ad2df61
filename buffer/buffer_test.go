package buffer

import (
	"testing"

	"github.com/corepeg/pyparser/lexer"
	"github.com/corepeg/pyparser/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	kwIf token.Kind = iota + 200
	kwElse
)

func testKeywords() *KeywordTable {
	return NewKeywordTable(map[string]token.Kind{"if": kwIf, "else": kwElse})
}

func TestExpect_MismatchReturnsFalseNotError(t *testing.T) {
	b := New(lexer.New("x = 1\n", "<test>"), 0, testKeywords(), nil)
	tok, ok, err := b.Expect(token.NEWLINE)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, token.Token{}, tok)

	// Mark must not advance on a failed Expect.
	tok, ok, err = b.Expect(token.NAME)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "x", tok.Text())
}

func TestExpect_PromotesKeywordKind(t *testing.T) {
	b := New(lexer.New("if x:\n    pass\n", "<test>"), 0, testKeywords(), nil)
	tok, ok, err := b.Expect(kwIf)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "if", tok.Text())
}

func TestExpectSoftKeyword_DoesNotReserveIdentifier(t *testing.T) {
	b := New(lexer.New("match = 1\n", "<test>"), 0, testKeywords(), []string{"match"})
	tok, ok, err := b.ExpectSoftKeyword("match")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, token.NAME, tok.Kind)

	tok, ok, err = b.Expect(token.OP)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "=", tok.Text())
}

func TestLookahead_RestoresMarkRegardlessOfOutcome(t *testing.T) {
	b := New(lexer.New("x y\n", "<test>"), 0, testKeywords(), nil)
	before := b.Mark

	positive := Lookahead(b, true, func() (token.Token, bool) {
		tok, ok, _ := b.Expect(token.NAME)
		return tok, ok
	})
	assert.True(t, positive)
	assert.Equal(t, before, b.Mark)

	negative := Lookahead(b, false, func() (token.Token, bool) {
		tok, ok, _ := b.Expect(token.NEWLINE)
		return tok, ok
	})
	assert.True(t, negative)
	assert.Equal(t, before, b.Mark)
}

func TestResetMemo_ClearsMemoChainsAndRewindsMark(t *testing.T) {
	b := New(lexer.New("x y z\n", "<test>"), 0, testKeywords(), nil)
	_, _, err := b.Expect(token.NAME)
	require.NoError(t, err)
	_, _, err = b.Expect(token.NAME)
	require.NoError(t, err)
	require.Equal(t, 2, b.Mark)

	e, err := b.entryAt(0)
	require.NoError(t, err)
	e.SetMemoHead(nil) // memoHead is exercised via package memo in practice

	b.ResetMemo()
	assert.Equal(t, 0, b.Mark)
}

func TestFillNext_SingleStatementModeRewritesEndmarkerToNewline(t *testing.T) {
	b := New(lexer.New("pass", "<test>"), 0, testKeywords(), nil)
	b.SingleStatementMode = true
	b.ParsingStarted = true

	_, _, err := b.Expect(token.NAME) // "pass"
	require.NoError(t, err)

	// The lexer closes the logical line with its own NEWLINE; the token
	// after it is the ENDMARKER that single-statement mode rewrites.
	_, ok, err := b.Expect(token.NEWLINE)
	require.NoError(t, err)
	require.True(t, ok)

	tok, ok, err := b.Expect(token.NEWLINE)
	require.NoError(t, err)
	assert.True(t, ok, "ENDMARKER should have been rewritten to NEWLINE")
	_ = tok
}
