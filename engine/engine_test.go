package engine

import (
	"testing"

	"github.com/corepeg/pyparser/arena"
	"github.com/corepeg/pyparser/buffer"
	"github.com/corepeg/pyparser/lexer"
	"github.com/corepeg/pyparser/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestParser(t *testing.T, src string, opts ...Option) *Parser {
	t.Helper()
	l := lexer.New(src, "<test>")
	kw := buffer.NewKeywordTable(nil)
	buf := buffer.New(l, 0, kw, nil)
	return New(buf, arena.New(), l, StartFile, opts...)
}

const idNumber = 1000

// number matches a single NUMBER token, counting invocations so tests
// can assert the memo table prevents redundant re-scans.
func numberRule(calls *int) RuleFunc[string] {
	return func(p *Parser) (string, bool) {
		*calls++
		tok, ok, err := p.Buffer.Expect(token.NUMBER)
		if err != nil || !ok {
			return "", false
		}
		return tok.Text(), true
	}
}

func TestRule_MemoizesSecondCallAtSameMark(t *testing.T) {
	p := newTestParser(t, "42\n")
	var calls int
	body := numberRule(&calls)

	v1, ok1 := Rule(p, idNumber, body)
	require.True(t, ok1)
	assert.Equal(t, "42", v1)
	assert.Equal(t, 1, calls)

	// Rewind to the same mark and call again: the memo should short-circuit
	// the body, so calls stays at 1.
	p.Buffer.Mark = 0
	v2, ok2 := Rule(p, idNumber, body)
	require.True(t, ok2)
	assert.Equal(t, "42", v2)
	assert.Equal(t, 1, calls, "second Rule call at the same mark must hit the memo, not re-invoke body")
}

func TestRule_MemoizesFailureToo(t *testing.T) {
	p := newTestParser(t, "x\n")
	var calls int
	body := numberRule(&calls)

	_, ok1 := Rule(p, idNumber, body)
	assert.False(t, ok1)
	assert.Equal(t, 1, calls)

	p.Buffer.Mark = 0
	_, ok2 := Rule(p, idNumber, body)
	assert.False(t, ok2)
	assert.Equal(t, 1, calls, "a memoized failure must not re-invoke body")
}

// leftRecursiveSum implements `E := E '+' NUMBER | NUMBER`, the classic
// left-recursive arithmetic grammar, via the seeded growing-memo
// algorithm.
func leftRecursiveSum(p *Parser) (int, bool) {
	return LeftRecursiveRule(p, idSum, func(p *Parser) (int, bool) {
		saved := p.Buffer.Mark
		if left, ok := leftRecursiveSumBody(p); ok {
			if _, ok, _ := p.Buffer.Expect(token.OP); ok {
				if right, ok := numberLiteral(p); ok {
					return left + right, true
				}
			}
		}
		p.Buffer.Mark = saved
		return numberLiteral(p)
	})
}

const idSum = 2000

func leftRecursiveSumBody(p *Parser) (int, bool) { return leftRecursiveSum(p) }

func numberLiteral(p *Parser) (int, bool) {
	tok, ok, err := p.Buffer.Expect(token.NUMBER)
	if err != nil || !ok {
		return 0, false
	}
	n := 0
	for _, c := range tok.Text() {
		n = n*10 + int(c-'0')
	}
	return n, true
}

func TestLeftRecursiveRule_FixpointLeftAssociates(t *testing.T) {
	p := newTestParser(t, "1+2+3\n")
	v, ok := leftRecursiveSum(p)
	require.True(t, ok)
	assert.Equal(t, 6, v)
}

func TestAlt_TriesAlternativesInOrderAndRestoresMark(t *testing.T) {
	p := newTestParser(t, "abc\n")
	result, ok := Alt(p,
		func(c *Cutter) (string, bool) {
			_, ok, _ := p.Buffer.Expect(token.NUMBER)
			return "number", ok
		},
		func(c *Cutter) (string, bool) {
			_, ok, _ := p.Buffer.Expect(token.NAME)
			return "name", ok
		},
	)
	require.True(t, ok)
	assert.Equal(t, "name", result)
	assert.Equal(t, 1, p.Buffer.Mark, "the winning alternative's consumption must stick")
}

func TestAlt_CutPreventsFallthroughToLaterAlternative(t *testing.T) {
	p := newTestParser(t, "abc\n")
	_, ok := Alt(p,
		func(c *Cutter) (string, bool) {
			if _, ok, _ := p.Buffer.Expect(token.NAME); ok {
				c.Cut()
				// Fail after the cut: Alt must not try the next alternative.
				return "", false
			}
			return "", false
		},
		func(c *Cutter) (string, bool) {
			return "fallback", true
		},
	)
	assert.False(t, ok, "a failure after Cut must abort the whole Alt, not fall through")
}

func TestRepeat_StopsOnFirstFailureAndRestoresMark(t *testing.T) {
	p := newTestParser(t, "1 2 x\n")
	got := Repeat(p, func() (string, bool) {
		tok, ok, _ := p.Buffer.Expect(token.NUMBER)
		return tok.Text(), ok
	})
	assert.Equal(t, []string{"1", "2"}, got)

	// Mark should sit right before the non-matching NAME token.
	tok, ok, _ := p.Buffer.Expect(token.NAME)
	require.True(t, ok)
	assert.Equal(t, "x", tok.Text())
}

func TestRepeat1_FailsOnZeroMatches(t *testing.T) {
	p := newTestParser(t, "x\n")
	_, ok := Repeat1(p, func() (string, bool) {
		tok, ok, _ := p.Buffer.Expect(token.NUMBER)
		return tok.Text(), ok
	})
	assert.False(t, ok)
}

func TestRunParser_SecondPassRaisesSyntaxErrorOnUnclosedBracket(t *testing.T) {
	p := newTestParser(t, "(1, 2\n")
	_, err := RunParser(p, func(p *Parser) (bool, bool) {
		// A rule that can never succeed on this input, forcing RunParser
		// into its two-pass diagnostic path.
		_, ok, _ := p.Buffer.Expect(token.ENDMARKER)
		return false, ok
	})
	require.Error(t, err)
}
