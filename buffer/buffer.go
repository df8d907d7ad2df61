// Package buffer implements the Token Buffer component (C1, spec.md
// §4.1): lazy pull-through from an external Tokenizer, NAME-to-keyword
// promotion via a length-bucketed table, type-comment collection, and
// backtrack-friendly indexed access with unbounded lookahead.
package buffer

import (
	"fmt"

	"github.com/corepeg/pyparser/memo"
	"github.com/corepeg/pyparser/token"
)

// entry is one buffered token plus its memo chain head. Keeping the memo
// head alongside the token (rather than as a field on token.Token typed
// as `any`) avoids a type assertion on every memo lookup.
type entry struct {
	tok      token.Token
	memoHead *memo.Entry
}

func (e *entry) MemoHead() *memo.Entry     { return e.memoHead }
func (e *entry) SetMemoHead(h *memo.Entry) { e.memoHead = h }

// TypeIgnoreComment is one recorded "# type: ignore[...]" comment.
type TypeIgnoreComment struct {
	Lineno int
	Text   string
}

// Buffer is the Token Buffer: a growable array of tokens pulled
// on-demand from a Tokenizer, with a read cursor (Mark) and a one-past-
// last-filled index (Fill).
type Buffer struct {
	tok  token.Tokenizer
	toks []*entry

	Mark int // current read position
	Fill int // one past the last buffered token

	Keywords     *KeywordTable
	SoftKeywords []string

	// SingleStatementMode mirrors spec.md §4.1's ENDMARKER-to-NEWLINE
	// rewriting behavior for single_input parsing.
	SingleStatementMode bool
	DontImplyDedent     bool
	ParsingStarted      bool

	TypeComments   bool
	TypeIgnoreList []TypeIgnoreComment

	StartingLineno    int
	StartingColOffset int
}

// New creates a Buffer pulling from tok, with an initial capacity hint.
func New(tok token.Tokenizer, initialCapacity int, keywords *KeywordTable, softKeywords []string) *Buffer {
	if initialCapacity < 8 {
		initialCapacity = 8
	}
	return &Buffer{
		tok:          tok,
		toks:         make([]*entry, 0, initialCapacity),
		Keywords:     keywords,
		SoftKeywords: softKeywords,
	}
}

func (b *Buffer) grow() {
	if b.Fill < len(b.toks) {
		return
	}
	newCap := len(b.toks) * 2
	if newCap == 0 {
		newCap = 8
	}
	grown := make([]*entry, newCap)
	copy(grown, b.toks)
	b.toks = grown
}

// adjustLocation applies StartingLineno/StartingColOffset, matching the
// f-string-sub-expression re-projection rule in spec.md §4.1: the column
// offset only applies to a token reported on line 1 of the sub-scan, the
// line offset applies unconditionally (DESIGN.md Open Question 3).
func (b *Buffer) adjustLocation(t *token.Token) {
	if b.StartingLineno == 0 && b.StartingColOffset == 0 {
		return
	}
	if t.Start.Line == 1 {
		t.Start.Column += b.StartingColOffset
	}
	if t.End.Line == 1 {
		t.End.Column += b.StartingColOffset
	}
	t.Start.Line += b.StartingLineno
	t.End.Line += b.StartingLineno
}

// FillStatus is the result of FillNext.
type FillStatus int

const (
	FillOK FillStatus = iota
	FillError
)

// FillNext pulls the next token from the tokenizer into the buffer,
// following spec.md §4.1's TYPE_IGNORE collection, single-statement
// ENDMARKER rewriting, and ERRORTOKEN translation rules.
func (b *Buffer) FillNext() (FillStatus, error) {
	for {
		raw, err := b.tok.Next()
		if err != nil {
			return FillError, b.translateTokenizerError(err)
		}

		if raw.Kind == token.TYPE_IGNORE {
			if b.TypeComments {
				b.TypeIgnoreList = append(b.TypeIgnoreList, TypeIgnoreComment{
					Lineno: raw.Start.Line,
					Text:   string(raw.Bytes),
				})
			}
			continue
		}

		if raw.Kind == token.ERRORTOKEN {
			return FillError, b.translateErrorToken(raw)
		}

		if raw.Kind == token.ENDMARKER && b.SingleStatementMode && b.ParsingStarted {
			raw.Kind = token.NEWLINE
			if !b.DontImplyDedent {
				b.tok.SignalPendingDedents(b.tok.Level())
			}
		}

		if raw.Kind == token.NAME {
			if kind, ok := b.Keywords.Lookup(raw.Bytes); ok {
				raw.Kind = kind
			}
		}

		b.adjustLocation(&raw)

		b.grow()
		b.toks = append(b.toks[:b.Fill], &entry{tok: raw})
		b.Fill++
		b.ParsingStarted = true
		return FillOK, nil
	}
}

func (b *Buffer) translateTokenizerError(err error) error {
	if te, ok := err.(*token.TokenError); ok {
		if te.Reason == token.DoneDecodeError {
			return fmt.Errorf("(unicode error) %s", te.Detail)
		}
		return te
	}
	return err
}

func (b *Buffer) translateErrorToken(raw token.Token) error {
	detail := "invalid token"
	if s, ok := raw.Metadata.(string); ok && s != "" {
		detail = s
	}
	return &token.TokenError{Reason: token.DoneGenericTokenError, Pos: raw.Start, Detail: detail}
}

// ensure guarantees buffered tokens exist through index i, pulling more
// from the tokenizer as needed.
func (b *Buffer) ensure(i int) error {
	for i >= b.Fill {
		if status, err := b.FillNext(); status != FillOK {
			return err
		}
	}
	return nil
}

// Peek returns the token at buffer index i (0 = current mark), filling
// as necessary.
func (b *Buffer) Peek(i int) (token.Token, error) {
	if err := b.ensure(i); err != nil {
		return token.Token{}, err
	}
	return b.toks[i].tok, nil
}

// Current returns the token at Mark.
func (b *Buffer) Current() (token.Token, error) { return b.Peek(b.Mark) }

// entryAt exposes the memo.Chain for index i, for use by package memo
// through the buffer's helper methods below.
func (b *Buffer) entryAt(i int) (*entry, error) {
	if err := b.ensure(i); err != nil {
		return nil, err
	}
	return b.toks[i], nil
}

// MemoChainAt returns the memo.Chain for the token at buffer index i.
func (b *Buffer) MemoChainAt(i int) (memo.Chain, error) {
	return b.entryAt(i)
}

// Expect advances Mark if the current token matches kind, returning the
// matched token.
func (b *Buffer) Expect(kind token.Kind) (token.Token, bool, error) {
	tok, err := b.Current()
	if err != nil {
		return token.Token{}, false, err
	}
	if tok.Kind != kind {
		return token.Token{}, false, nil
	}
	b.Mark++
	return tok, true, nil
}

// ExpectForced advances Mark if the current token matches kind; if not,
// it returns ok=false so the caller can raise a syntax error using
// label to describe what was expected.
func (b *Buffer) ExpectForced(kind token.Kind, label string) (token.Token, bool, error) {
	return b.Expect(kind)
}

// ExpectSoftKeyword matches a NAME token whose text equals word, without
// reserving it as a keyword at the lexical level.
func (b *Buffer) ExpectSoftKeyword(word string) (token.Token, bool, error) {
	tok, err := b.Current()
	if err != nil {
		return token.Token{}, false, err
	}
	if tok.Kind != token.NAME || tok.Text() != word {
		return token.Token{}, false, nil
	}
	b.Mark++
	return tok, true, nil
}

// Lookahead saves Mark, calls parselet, restores Mark, and returns
// whether the match sense equals positive.
func Lookahead[T any](b *Buffer, positive bool, parselet func() (T, bool)) bool {
	saved := b.Mark
	_, ok := parselet()
	b.Mark = saved
	return ok == positive
}

// LastNonWhitespace scans backward from Mark-1 over
// ENDMARKER/NEWLINE/INDENT/DEDENT, returning the first token that is
// none of those, or the token immediately before Mark if all of them
// are whitespace-equivalent.
func (b *Buffer) LastNonWhitespace() (token.Token, error) {
	if b.Mark == 0 {
		return token.Token{}, fmt.Errorf("no prior token")
	}
	var first token.Token
	for i := b.Mark - 1; i >= 0; i-- {
		e, err := b.entryAt(i)
		if err != nil {
			return token.Token{}, err
		}
		if i == b.Mark-1 {
			first = e.tok
		}
		switch e.tok.Kind {
		case token.ENDMARKER, token.NEWLINE, token.INDENT, token.DEDENT:
			continue
		default:
			return e.tok, nil
		}
	}
	return first, nil
}

// ResetMemo clears every token's memo chain and rewinds Mark to 0,
// as required before the engine's diagnostic second pass (spec.md
// §4.3 step 2).
func (b *Buffer) ResetMemo() {
	for i := 0; i < b.Fill; i++ {
		b.toks[i].memoHead = nil
	}
	b.Mark = 0
}
