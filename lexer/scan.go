package lexer

import (
	"unicode"
	"unicode/utf8"

	"github.com/corepeg/pyparser/token"
)

func (l *Lexer) peek() byte {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) peekAt(n int) byte {
	if l.pos+n >= len(l.src) {
		return 0
	}
	return l.src[l.pos+n]
}

func (l *Lexer) advanceByte() byte {
	c := l.src[l.pos]
	l.pos++
	if c == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
	return c
}

// scanOne dispatches to the indentation handler, f-string sub-scanners,
// or the general code scanner, depending on lexer state.
func (l *Lexer) scanOne() (token.Token, error) {
	if l.forcedDedents > 0 {
		l.forcedDedents--
		p := l.pos0()
		return l.emit(token.DEDENT, p, p, nil), nil
	}

	if l.inFString() {
		frame := l.topFString()
		if frame.inExpr {
			return l.scanFStringExprToken()
		}
		return l.scanFStringLiteral()
	}

	if l.atBOL && l.parenLevel == 0 {
		tok, ok, err := l.handleIndentation()
		if err != nil {
			return token.Token{}, err
		}
		if ok {
			return tok, nil
		}
	}

	return l.scanCode()
}

// handleIndentation consumes blank and comment-only lines, then compares
// the next content line's indentation width against the indent stack,
// queuing INDENT/DEDENT tokens as needed (original_source/Parser/tokenizer.c's
// indentation algorithm: spaces count 1, tabs round up to the next
// multiple of 8, form-feed resets the running width to 0).
func (l *Lexer) handleIndentation() (token.Token, bool, error) {
	for {
		if l.pos >= len(l.src) {
			tok, err := l.finalizeEOF()
			return tok, true, err
		}
		width := 0
		for l.pos < len(l.src) {
			switch l.src[l.pos] {
			case ' ':
				width++
				l.advanceByte()
				continue
			case '\t':
				width += 8 - (width % 8)
				l.advanceByte()
				continue
			case '\f':
				width = 0
				l.advanceByte()
				continue
			}
			break
		}
		if l.pos >= len(l.src) {
			tok, err := l.finalizeEOF()
			return tok, true, err
		}
		c := l.src[l.pos]
		if c == '\n' {
			l.advanceByte()
			continue
		}
		if c == '#' {
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.advanceByte()
			}
			continue
		}

		level := l.indents[len(l.indents)-1]
		switch {
		case width > level:
			l.indents = append(l.indents, width)
			p := l.pos0()
			l.atBOL = false
			return l.emit(token.INDENT, p, p, nil), true, nil
		case width == level:
			l.atBOL = false
			return token.Token{}, false, nil
		default:
			var deds []token.Token
			for len(l.indents) > 1 && l.indents[len(l.indents)-1] > width {
				l.indents = l.indents[:len(l.indents)-1]
				p := l.pos0()
				deds = append(deds, l.emit(token.DEDENT, p, p, nil))
			}
			if l.indents[len(l.indents)-1] != width {
				return token.Token{}, true, &token.TokenError{
					Reason: token.DoneDedentMismatch, Pos: l.pos0(),
					Detail: "unindent does not match any outer indentation level",
				}
			}
			l.atBOL = false
			first := deds[0]
			l.queue(deds[1:]...)
			return first, true, nil
		}
	}
}

func (l *Lexer) finalizeEOF() (token.Token, error) {
	var toks []token.Token
	if l.lastTokenWasContent {
		p := l.pos0()
		toks = append(toks, l.emit(token.NEWLINE, p, p, []byte("\n")))
		l.lastTokenWasContent = false
	}
	for len(l.indents) > 1 {
		l.indents = l.indents[:len(l.indents)-1]
		p := l.pos0()
		toks = append(toks, l.emit(token.DEDENT, p, p, nil))
	}
	p := l.pos0()
	toks = append(toks, l.emit(token.ENDMARKER, p, p, nil))
	if len(toks) == 1 {
		return toks[0], nil
	}
	first := toks[0]
	l.queue(toks[1:]...)
	return first, nil
}

func (l *Lexer) scanCode() (token.Token, error) {
	for {
		if l.pos >= len(l.src) {
			return l.finalizeEOF()
		}
		c := l.src[l.pos]

		switch {
		case c == ' ' || c == '\t' || c == '\f':
			l.advanceByte()
			continue
		case c == '\\' && l.peekAt(1) == '\n':
			l.advanceByte()
			l.advanceByte()
			continue
		case c == '\r':
			l.advanceByte()
			continue
		case c == '\n':
			start := l.pos0()
			l.advanceByte()
			if l.parenLevel > 0 {
				continue
			}
			end := l.pos0()
			l.atBOL = true
			wasContent := l.lastTokenWasContent
			l.lastTokenWasContent = false
			if !wasContent {
				continue
			}
			return l.emit(token.NEWLINE, start, end, []byte("\n")), nil
		case c == '#':
			start := l.pos0()
			begin := l.pos
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.advanceByte()
			}
			return l.emit(token.COMMENT, start, l.pos0(), l.src[begin:l.pos]), nil
		}

		break
	}
	return l.scanToken()
}

func (l *Lexer) scanToken() (token.Token, error) {
	start := l.pos0()
	c := l.src[l.pos]

	switch {
	case isIdentStart(c):
		return l.scanNameOrPrefixedString(start)
	case c >= '0' && c <= '9', c == '.' && l.peekAt(1) >= '0' && l.peekAt(1) <= '9':
		return l.scanNumber(start)
	case c == '\'' || c == '"':
		return l.scanStringLiteral(start, "")
	default:
		return l.scanOperator(start)
	}
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isIdentCont(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

// scanNameOrPrefixedString scans a NAME, or a STRING/FSTRING_START when
// the name is actually a string-literal prefix (r, b, u, f and their
// combinations) immediately followed by a quote.
func (l *Lexer) scanNameOrPrefixedString(start token.Position) (token.Token, error) {
	begin := l.pos
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c < 0x80 {
			if !isIdentCont(c) {
				break
			}
			l.advanceByte()
			continue
		}
		r, size := utf8.DecodeRune(l.src[l.pos:])
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			break
		}
		for i := 0; i < size; i++ {
			l.advanceByte()
		}
	}
	text := string(l.src[begin:l.pos])

	if len(text) <= 2 && isStringPrefix(text) && (l.peek() == '\'' || l.peek() == '"') {
		return l.scanStringLiteral(start, text)
	}

	l.lastTokenWasContent = true
	end := l.pos0()
	return l.emit(token.NAME, start, end, l.src[begin:l.pos]), nil
}

func isStringPrefix(s string) bool {
	if s == "" {
		return false
	}
	seen := map[byte]bool{}
	for i := 0; i < len(s); i++ {
		c := s[i] | 0x20 // lowercase
		if seen[c] {
			return false
		}
		seen[c] = true
		switch c {
		case 'r', 'b', 'u', 'f':
		default:
			return false
		}
	}
	if seen['u'] && (seen['r'] || seen['b'] || seen['f']) {
		return false
	}
	if seen['b'] && seen['f'] {
		return false
	}
	return true
}

// scanNumber scans a NUMBER token's raw text; it only needs to recognize
// where the literal ends, not to classify it — ast.ParseNumber does
// that from the token text alone.
func (l *Lexer) scanNumber(start token.Position) (token.Token, error) {
	begin := l.pos
	if l.peek() == '0' && (l.peekAt(1) == 'x' || l.peekAt(1) == 'X' || l.peekAt(1) == 'o' || l.peekAt(1) == 'O' || l.peekAt(1) == 'b' || l.peekAt(1) == 'B') {
		l.advanceByte()
		l.advanceByte()
		for isHexDigit(l.peek()) || l.peek() == '_' {
			l.advanceByte()
		}
	} else {
		for isDigit(l.peek()) || l.peek() == '_' {
			l.advanceByte()
		}
		if l.peek() == '.' {
			l.advanceByte()
			for isDigit(l.peek()) || l.peek() == '_' {
				l.advanceByte()
			}
		}
		if l.peek() == 'e' || l.peek() == 'E' {
			savePos, saveLine, saveCol := l.pos, l.line, l.col
			l.advanceByte()
			if l.peek() == '+' || l.peek() == '-' {
				l.advanceByte()
			}
			if isDigit(l.peek()) {
				for isDigit(l.peek()) || l.peek() == '_' {
					l.advanceByte()
				}
			} else {
				l.pos, l.line, l.col = savePos, saveLine, saveCol
			}
		}
		if l.peek() == 'j' || l.peek() == 'J' {
			l.advanceByte()
		}
	}
	l.lastTokenWasContent = true
	end := l.pos0()
	return l.emit(token.NUMBER, start, end, l.src[begin:l.pos]), nil
}

func isDigit(c byte) bool    { return c >= '0' && c <= '9' }
func isHexDigit(c byte) bool { return isDigit(c) || (c|0x20 >= 'a' && c|0x20 <= 'f') }

var multiCharOps = []string{
	"**=", "//=", ">>=", "<<=", "...", "!=",
	"**", "//", ">>", "<<", "<=", ">=", "==", "->", ":=",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "@=", "<>",
}

// atFStringFieldTop reports whether the scanner is sitting directly at
// the top level of an open f-string replacement field — not inside any
// nested bracket the field's expression opened — where `!conv`, `:`,
// and the field-closing `}` all take their special f-string meaning
// instead of their ordinary operator meaning.
func (l *Lexer) atFStringFieldTop() (*fstringFrame, bool) {
	if !l.inFString() {
		return nil, false
	}
	frame := l.topFString()
	return frame, frame.inExpr && l.parenLevel == frame.braceBase
}

func (l *Lexer) scanOperator(start token.Position) (token.Token, error) {
	if frame, ok := l.atFStringFieldTop(); ok {
		if l.peek() == '}' {
			l.advanceByte()
			frame.inExpr = false
			l.lastTokenWasContent = true
			return l.scanOne()
		}
		if l.peek() == ':' {
			l.advanceByte()
			frame.inExpr = false
			frame.inFormatSpec = true
			l.lastTokenWasContent = true
			return l.emit(token.OP, start, l.pos0(), []byte{':'}), nil
		}
		if l.peek() == '!' {
			if conv := l.peekAt(1); conv == 's' || conv == 'r' || conv == 'a' {
				l.advanceByte()
				l.advanceByte()
				frame.sawConversion = true
				l.lastTokenWasContent = true
				return l.emit(token.OP, start, l.pos0(), []byte{'!', conv}), nil
			}
		}
	}

	remaining := l.src[l.pos:]
	for _, op := range multiCharOps {
		if len(remaining) >= len(op) && string(remaining[:len(op)]) == op {
			for range op {
				l.advanceByte()
			}
			l.lastTokenWasContent = true
			return l.emit(token.OP, start, l.pos0(), []byte(op)), nil
		}
	}

	c := l.advanceByte()
	switch c {
	case '(', '[', '{':
		l.parens = append(l.parens, l.emit(token.OP, start, l.pos0(), []byte{c}))
		l.parenLevel++
	case ')', ']', '}':
		if l.parenLevel > 0 {
			l.parenLevel--
			l.parens = l.parens[:len(l.parens)-1]
		}
	}
	l.lastTokenWasContent = true
	return l.emit(token.OP, start, l.pos0(), []byte{c}), nil
}
