// Package token defines the lexical token representation shared by the
// tokenizer, the token buffer, and the PEG engine.
package token

import "fmt"

// Kind identifies the lexical category of a Token. The enumeration is
// closed: every Kind the tokenizer may emit is listed here.
type Kind int

const (
	ILLEGAL Kind = iota
	ENDMARKER
	NAME
	NUMBER
	STRING
	FSTRING_START
	FSTRING_MIDDLE
	FSTRING_END
	NEWLINE
	INDENT
	DEDENT
	OP
	COMMENT
	ERRORTOKEN
	TYPE_IGNORE
	TYPE_COMMENT
)

func (k Kind) String() string {
	switch k {
	case ILLEGAL:
		return "ILLEGAL"
	case ENDMARKER:
		return "ENDMARKER"
	case NAME:
		return "NAME"
	case NUMBER:
		return "NUMBER"
	case STRING:
		return "STRING"
	case FSTRING_START:
		return "FSTRING_START"
	case FSTRING_MIDDLE:
		return "FSTRING_MIDDLE"
	case FSTRING_END:
		return "FSTRING_END"
	case NEWLINE:
		return "NEWLINE"
	case INDENT:
		return "INDENT"
	case DEDENT:
		return "DEDENT"
	case OP:
		return "OP"
	case COMMENT:
		return "COMMENT"
	case ERRORTOKEN:
		return "ERRORTOKEN"
	case TYPE_IGNORE:
		return "TYPE_IGNORE"
	case TYPE_COMMENT:
		return "TYPE_COMMENT"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// DoneReason enumerates the tokenizer's end-of-scan / error status, as
// published by the Tokenizer contract (spec.md §6).
type DoneReason int

const (
	DoneOK DoneReason = iota
	DoneEOF
	DoneEOFInTripleQuotedString // EOFS
	DoneEOLInSingleQuotedString // EOLS
	DoneDedentMismatch
	DoneGenericTokenError
	DoneInterrupt
	DoneNoMemory
	DoneTabSpaceMixed
	DoneTooDeep
	DoneLineContinuation
	DoneDecodeError
	DoneColumnOverflow
	DoneBadSingleStatement
)

// Position is a location within source text. Lines are 1-based, columns
// are 0-based, matching spec.md §3.
type Position struct {
	Line   int
	Column int
}

// Less reports whether p sorts strictly before q.
func (p Position) Less(q Position) bool {
	if p.Line != q.Line {
		return p.Line < q.Line
	}
	return p.Column < q.Column
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is an immutable record produced by the tokenizer and cloned into
// the Buffer. See spec.md §3 for the field-by-field contract.
type Token struct {
	Kind Kind

	// Bytes is the raw source slice backing this token. It is owned by
	// the arena the token was built in.
	Bytes []byte

	// Level is the bracket-nesting depth at emission time.
	Level int

	Start Position
	End   Position

	// Metadata carries opaque per-token side data, e.g. the decoded
	// Unicode text of an f-string segment.
	Metadata any

	// Memo is an opaque per-token slot typed `any` to avoid an import
	// cycle between token and memo. Package buffer does not use it: it
	// keeps each token's memo chain head in its own buffer entry.
	Memo any
}

// Text returns the token's raw text as a string.
func (t Token) Text() string { return string(t.Bytes) }

// Tokenizer is the external collaborator the Token Buffer (C1) pulls
// from. Its implementation (encoding detection, indentation tracking,
// bracket balancing, line-continuation handling) is explicitly out of
// scope for the parser core; package lexer provides one concrete,
// Python-shaped implementation used by this repository's tests.
type Tokenizer interface {
	// Next returns the next token, or a DoneReason-carrying error when
	// scanning cannot continue normally.
	Next() (Token, error)

	// Level reports the current bracket-nesting depth.
	Level() int

	// ParenStack reports the still-open bracket tokens, oldest first, for
	// unclosed-bracket diagnostics (spec.md §6).
	ParenStack() []Token

	// CurrentLine returns the full text of source line lineno (1-based),
	// for error message source-snippets.
	CurrentLine(lineno int) string

	// EncodingName reports the detected source encoding, e.g. "utf-8".
	EncodingName() string

	// SetInteractiveUnderflow, when stop is true, instructs the
	// tokenizer not to request more interactive input; used during the
	// engine's diagnostic (second) pass.
	SetInteractiveUnderflow(stop bool)

	// SignalPendingDedents tells the tokenizer to emit count DEDENT
	// tokens before the next real token, used by single-statement-mode
	// ENDMARKER-to-NEWLINE rewriting (spec.md §4.1).
	SignalPendingDedents(count int)
}

// TokenError is returned by a Tokenizer when scanning cannot produce a
// normal token.
type TokenError struct {
	Reason DoneReason
	Pos    Position
	Detail string
}

func (e *TokenError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("tokenizer error at %s", e.Pos)
}
