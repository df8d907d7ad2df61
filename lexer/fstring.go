package lexer

import "github.com/corepeg/pyparser/token"

// scanStringLiteral scans a STRING token (or, for an f-prefixed
// literal, an FSTRING_START token that opens a new fstringFrame) given
// that the cursor sits on the opening quote and prefixText holds
// whatever prefix letters scanNameOrPrefixedString already consumed.
func (l *Lexer) scanStringLiteral(start token.Position, prefixText string) (token.Token, error) {
	begin := l.pos
	quote := l.peek()
	raw, isF := false, false
	for i := 0; i < len(prefixText); i++ {
		switch prefixText[i] | 0x20 {
		case 'r':
			raw = true
		case 'f':
			isF = true
		}
	}

	triple := l.peekAt(1) == quote && l.peekAt(2) == quote
	if triple {
		l.advanceByte()
		l.advanceByte()
		l.advanceByte()
	} else {
		l.advanceByte()
	}

	if isF {
		l.fstrings = append(l.fstrings, fstringFrame{quote: quote, triple: triple, raw: raw})
		l.lastTokenWasContent = true
		return l.emit(token.FSTRING_START, start, l.pos0(), l.src[begin:l.pos]), nil
	}

	for {
		if l.pos >= len(l.src) {
			reason := token.DoneEOLInSingleQuotedString
			if triple {
				reason = token.DoneEOFInTripleQuotedString
			}
			return token.Token{}, &token.TokenError{Reason: reason, Pos: l.pos0(), Detail: "unterminated string literal"}
		}
		c := l.peek()
		if c == '\\' && l.pos+1 < len(l.src) {
			l.advanceByte()
			l.advanceByte()
			continue
		}
		if c == '\n' && !triple {
			return token.Token{}, &token.TokenError{Reason: token.DoneEOLInSingleQuotedString, Pos: l.pos0(), Detail: "EOL while scanning string literal"}
		}
		if l.quoteCloses(quote, triple) {
			if triple {
				l.advanceByte()
				l.advanceByte()
				l.advanceByte()
			} else {
				l.advanceByte()
			}
			break
		}
		l.advanceByte()
	}

	l.lastTokenWasContent = true
	return l.emit(token.STRING, start, l.pos0(), l.src[begin:l.pos]), nil
}

func (l *Lexer) quoteCloses(quote byte, triple bool) bool {
	if l.peek() != quote {
		return false
	}
	if !triple {
		return true
	}
	return l.peekAt(1) == quote && l.peekAt(2) == quote
}

// scanFStringExprToken scans one ordinary token (NAME, NUMBER, STRING,
// OP, a nested f-string's own tokens, ...) while positioned inside an
// open replacement field's expression. Whitespace and line breaks are
// skipped silently — f-string expressions never need NEWLINE tokens,
// and a '#' comment is invalid inside one (original_source's
// string_parser.c: fstring expressions are re-tokenized from a
// synthetic one-line buffer with comments disallowed).
func (l *Lexer) scanFStringExprToken() (token.Token, error) {
	for {
		if l.pos >= len(l.src) {
			return token.Token{}, &token.TokenError{Reason: token.DoneGenericTokenError, Pos: l.pos0(), Detail: "f-string: expecting '}'"}
		}
		switch l.src[l.pos] {
		case ' ', '\t', '\f', '\r', '\n':
			l.advanceByte()
			continue
		case '#':
			return token.Token{}, &token.TokenError{Reason: token.DoneGenericTokenError, Pos: l.pos0(), Detail: "f-string expression part cannot include '#'"}
		}
		break
	}
	return l.scanToken()
}

// scanFStringLiteral scans either the literal text between replacement
// fields (FSTRING_MIDDLE) or, once a field's `:` has been seen, its
// format-spec text, and recognizes the literal's closing quote
// (FSTRING_END). Doubled `{{`/`}}` are left in the token's raw bytes for
// the caller (grammar's fstringLiteral) to collapse, matching
// how this package leaves all other escape decoding to ast.ParseString.
// Nested interpolation inside a format spec (`f"{x:{width}}"`) is not
// supported by this reference fixture — scope documented in DESIGN.md.
func (l *Lexer) scanFStringLiteral() (token.Token, error) {
	frame := l.topFString()
	start := l.pos0()
	begin := l.pos

	if frame.inFormatSpec {
		for l.pos < len(l.src) && l.src[l.pos] != '}' {
			l.advanceByte()
		}
		if l.pos >= len(l.src) {
			return token.Token{}, &token.TokenError{Reason: token.DoneGenericTokenError, Pos: l.pos0(), Detail: "f-string: expecting '}'"}
		}
		text := l.src[begin:l.pos]
		l.advanceByte() // consume the closing '}'
		frame.inFormatSpec = false
		return l.emit(token.FSTRING_MIDDLE, start, l.pos0(), text), nil
	}

	for {
		if l.pos >= len(l.src) {
			reason := token.DoneEOLInSingleQuotedString
			if frame.triple {
				reason = token.DoneEOFInTripleQuotedString
			}
			return token.Token{}, &token.TokenError{Reason: reason, Pos: l.pos0(), Detail: "unterminated f-string literal"}
		}
		c := l.src[l.pos]
		if c == '{' && l.peekAt(1) == '{' {
			l.advanceByte()
			l.advanceByte()
			continue
		}
		if c == '}' && l.peekAt(1) == '}' {
			l.advanceByte()
			l.advanceByte()
			continue
		}
		if c == '{' {
			text := l.src[begin:l.pos]
			l.advanceByte()
			frame.inExpr = true
			frame.braceBase = l.parenLevel
			frame.sawConversion = false
			return l.emit(token.FSTRING_MIDDLE, start, l.pos0(), text), nil
		}
		if c == '}' {
			return token.Token{}, &token.TokenError{Reason: token.DoneGenericTokenError, Pos: l.pos0(), Detail: "f-string: single '}' is not allowed"}
		}
		if l.quoteCloses(frame.quote, frame.triple) {
			text := l.src[begin:l.pos]
			middleEnd := l.pos0()
			quoteStart := l.pos
			if frame.triple {
				l.advanceByte()
				l.advanceByte()
				l.advanceByte()
			} else {
				l.advanceByte()
			}
			endTok := l.emit(token.FSTRING_END, middleEnd, l.pos0(), l.src[quoteStart:l.pos])
			l.fstrings = l.fstrings[:len(l.fstrings)-1]
			l.lastTokenWasContent = true
			l.queue(endTok)
			return l.emit(token.FSTRING_MIDDLE, start, middleEnd, text), nil
		}
		l.advanceByte()
	}
}
