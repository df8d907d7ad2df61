// Package lexer provides one concrete, Python-shaped token.Tokenizer
// implementation: indentation/DEDENT tracking, bracket-depth tracking,
// NEWLINE injection, and PEP-701-style f-string START/MIDDLE/END token
// emission. Package token explicitly treats tokenization as an external
// collaborator (spec.md §1/§6); this package is the reference fixture
// this repository's own tests drive the engine with, grounded on
// original_source/Parser/tokenizer.c's state machine and the public
// `New(input) *Lexer` / `Next() (Token, error)` shape the teacher's
// parser package calls on its own internal/lexer.Lexer (parser/parser.go).
package lexer

import (
	"github.com/corepeg/pyparser/token"
)

// fstringFrame tracks one open f-string's nesting state: braceBase is
// the length of the shared bracket stack at the point the current
// replacement field's `{` was recognized, so the matching `}` can be
// told apart from a nested dict/call/subscript bracket at the same
// textual depth.
type fstringFrame struct {
	quote       byte
	triple      bool
	raw         bool
	inExpr      bool
	inFormatSpec bool
	braceBase   int
	sawConversion bool
}

// Lexer scans Python-shaped source text into token.Token values.
type Lexer struct {
	src      []byte
	filename string

	pos  int
	line int
	col  int

	atBOL      bool
	parenLevel int
	parens     []token.Token

	indents []int

	pending []token.Token

	fstrings []fstringFrame

	doneErr *token.TokenError

	interactiveUnderflow bool
	forcedDedents        int

	// lastTokenWasContent is true once a non-NEWLINE/COMMENT token has
	// been emitted on the current logical line, so the next '\n' (or
	// end-of-source) knows whether a NEWLINE token is actually due.
	lastTokenWasContent bool
}

// New creates a Lexer over the given source text. filename is used only
// for diagnostics; pass "" when none is available.
func New(src string, filename string) *Lexer {
	return &Lexer{
		src:      []byte(src),
		filename: filename,
		line:     1,
		col:      0,
		atBOL:    true,
		indents:  []int{0},
	}
}

// Level reports the current bracket-nesting depth.
func (l *Lexer) Level() int { return l.parenLevel }

// ParenStack reports the still-open bracket tokens, oldest first.
func (l *Lexer) ParenStack() []token.Token {
	out := make([]token.Token, len(l.parens))
	copy(out, l.parens)
	return out
}

// CurrentLine returns the full text of source line lineno (1-based).
func (l *Lexer) CurrentLine(lineno int) string {
	line := 1
	start := 0
	for i := 0; i < len(l.src); i++ {
		if line == lineno {
			start = i
			for i < len(l.src) && l.src[i] != '\n' {
				i++
			}
			return string(l.src[start:i])
		}
		if l.src[i] == '\n' {
			line++
		}
	}
	if line == lineno {
		return string(l.src[start:])
	}
	return ""
}

// EncodingName reports the detected source encoding. This lexer only
// ever scans already-decoded UTF-8 text, so it always reports "utf-8"
// (encoding-cookie detection belongs to whatever reads the file).
func (l *Lexer) EncodingName() string { return "utf-8" }

// SetInteractiveUnderflow records the flag. This lexer scans a fixed
// in-memory source and never requests more input, so the flag does not
// change how it scans.
func (l *Lexer) SetInteractiveUnderflow(stop bool) { l.interactiveUnderflow = stop }

// SignalPendingDedents instructs Next to emit count DEDENT tokens before
// resuming normal scanning, used by single-statement-mode ENDMARKER-to-
// NEWLINE rewriting (spec.md §4.1).
func (l *Lexer) SignalPendingDedents(count int) { l.forcedDedents += count }

// Next returns the next token, or a *token.TokenError when scanning
// cannot continue normally. Once an error is returned, every subsequent
// call returns the same error (sticky, matching spec.md §3's Tokenizer
// contract).
func (l *Lexer) Next() (token.Token, error) {
	if l.doneErr != nil {
		return token.Token{}, l.doneErr
	}
	if len(l.pending) > 0 {
		tok := l.pending[0]
		l.pending = l.pending[1:]
		return tok, nil
	}

	tok, err := l.scanOne()
	if err != nil {
		var tokErr *token.TokenError
		if e, ok := err.(*token.TokenError); ok {
			tokErr = e
		} else {
			tokErr = &token.TokenError{Reason: token.DoneGenericTokenError, Pos: l.pos0(), Detail: err.Error()}
		}
		l.doneErr = tokErr
		return token.Token{}, tokErr
	}
	return tok, nil
}

// queue appends extra tokens that scanOne has already produced beyond
// the one it returns directly, so the next several Next() calls drain
// them in order before scanning resumes.
func (l *Lexer) queue(toks ...token.Token) {
	l.pending = append(l.pending, toks...)
}

func (l *Lexer) pos0() token.Position { return token.Position{Line: l.line, Column: l.col} }

func (l *Lexer) emit(kind token.Kind, start, end token.Position, text []byte) token.Token {
	return token.Token{Kind: kind, Bytes: text, Level: l.parenLevel, Start: start, End: end}
}

func (l *Lexer) inFString() bool { return len(l.fstrings) > 0 }

func (l *Lexer) topFString() *fstringFrame {
	if len(l.fstrings) == 0 {
		return nil
	}
	return &l.fstrings[len(l.fstrings)-1]
}
