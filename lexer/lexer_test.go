package lexer

import (
	"testing"

	"github.com/corepeg/pyparser/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNext_SimpleAssignment(t *testing.T) {
	input := "x = 1 + 2\n"
	tests := []struct {
		kind    token.Kind
		literal string
	}{
		{token.NAME, "x"},
		{token.OP, "="},
		{token.NUMBER, "1"},
		{token.OP, "+"},
		{token.NUMBER, "2"},
		{token.NEWLINE, "\n"},
		{token.ENDMARKER, ""},
	}
	l := New(input, "<test>")
	for i, tt := range tests {
		tok, err := l.Next()
		require.NoError(t, err)
		assert.Equalf(t, tt.kind, tok.Kind, "tests[%d] kind", i)
		if tt.kind != token.NEWLINE {
			assert.Equalf(t, tt.literal, tok.Text(), "tests[%d] literal", i)
		}
	}
}

func TestNext_IndentationProducesIndentAndDedent(t *testing.T) {
	input := "if x:\n    y\n    z\nw\n"
	var kinds []token.Kind
	l := New(input, "<test>")
	for {
		tok, err := l.Next()
		require.NoError(t, err)
		kinds = append(kinds, tok.Kind)
		if tok.Kind == token.ENDMARKER {
			break
		}
	}
	assert.Contains(t, kinds, token.INDENT)
	assert.Contains(t, kinds, token.DEDENT)

	// Exactly one INDENT and one DEDENT: the block is flat, not nested.
	var indents, dedents int
	for _, k := range kinds {
		switch k {
		case token.INDENT:
			indents++
		case token.DEDENT:
			dedents++
		}
	}
	assert.Equal(t, 1, indents)
	assert.Equal(t, 1, dedents)
}

func TestNext_OpenBracketSuppressesNewlineAndIndent(t *testing.T) {
	input := "x = (\n    1,\n    2,\n)\n"
	var sawNewlineInsideParens, sawIndent bool
	l := New(input, "<test>")
	for {
		tok, err := l.Next()
		require.NoError(t, err)
		if tok.Kind == token.NEWLINE && l.Level() > 0 {
			sawNewlineInsideParens = true
		}
		if tok.Kind == token.INDENT {
			sawIndent = true
		}
		if tok.Kind == token.ENDMARKER {
			break
		}
	}
	assert.False(t, sawNewlineInsideParens, "newlines inside an open paren must not surface as NEWLINE tokens")
	assert.False(t, sawIndent, "indented lines inside an open paren must not produce INDENT tokens")
}

func TestNext_UnclosedBracketStillReachesENDMARKER(t *testing.T) {
	// finalizeEOF always emits a clean ENDMARKER; unclosed-bracket
	// detection is the engine's job, not the lexer's (it inspects
	// ParenStack after the fact).
	l := New("(1, 2\n", "<test>")
	var last token.Token
	for {
		tok, err := l.Next()
		require.NoError(t, err)
		last = tok
		if tok.Kind == token.ENDMARKER {
			break
		}
	}
	assert.Equal(t, token.ENDMARKER, last.Kind)
	require.Len(t, l.ParenStack(), 1)
	assert.Equal(t, "(", l.ParenStack()[0].Text())
}

func TestNext_NumberAndStringLiterals(t *testing.T) {
	input := `x = 0x1F + 3.14j - "hi"` + "\n"
	var texts []string
	l := New(input, "<test>")
	for {
		tok, err := l.Next()
		require.NoError(t, err)
		if tok.Kind == token.ENDMARKER {
			break
		}
		texts = append(texts, tok.Text())
	}
	assert.Contains(t, texts, "0x1F")
	assert.Contains(t, texts, "3.14j")
	assert.Contains(t, texts, `"hi"`)
}

func TestEncodingName(t *testing.T) {
	assert.Equal(t, "utf-8", New("", "<test>").EncodingName())
}
