package ast

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/corepeg/pyparser/perrors"
	"github.com/corepeg/pyparser/token"
)

// StringPrefix is the set of letters (b, B, u, U, r, R, f, F, t, T —
// case-insensitively, any legal combination) preceding a STRING token's
// quotes (spec.md §4.4).
type StringPrefix struct {
	Raw      bool
	Bytes    bool
	FStr     bool
	Unicode  bool // explicit legacy u"..." marker
	Template bool // t"..." marker (PEP 750); recognized for correct quote
	// detection but not given template-object semantics — this module has
	// no Template AST node, so a t-string parses as a plain text Constant.
}

// EscapeWarning records one invalid-escape-sequence site inside a
// non-raw string literal, for the caller to route through
// engine.Parser.Warn (spec.md §7: "Warning — invalid escape sequence").
type EscapeWarning struct {
	Offset int // byte offset within the literal's decoded body
	Char   byte
}

// ParseString decodes one STRING token's raw source text (quotes and
// prefix letters included) into either a Go string (text literal) or a
// []byte (bytes literal), the literal's Constant.Kind annotation ("u"
// for an explicit u"..." literal, else ""), and any invalid-escape
// warning sites. featureVersion gates `f`-prefixed literals (spec.md
// §4.4: "`f`-strings require feature_version ≥ 6") for tokenizers that
// hand an f-string to ParseString as a single STRING token rather than
// this repository's own FSTRING_START/MIDDLE/END split (fstringLiteral
// in grammar/expressions.go enforces the same gate on that path). Grounded on
// original_source's string_parser.c, adapted to Go's explicit-error-
// return idiom instead of the original's PyObject*-or-NULL convention.
func ParseString(raw string, start, end token.Position, featureVersion int) (value any, kind string, invalid []EscapeWarning, err *perrors.SyntaxError) {
	prefix, body, quote := splitStringLiteral(raw)

	if prefix.FStr && prefix.Bytes {
		return nil, "", nil, perrors.NewSyntaxError(perrors.ECodeInvalidSyntax, "",
			perrors.Span{Start: start, End: end}, "", "string prefix cannot combine 'f' and 'b'")
	}
	if prefix.FStr && featureVersion < 6 {
		return nil, "", nil, perrors.NewSyntaxError(perrors.ECodeInvalidSyntax, "",
			perrors.Span{Start: start, End: end}, "", "f-strings require feature version 6 or higher")
	}
	if prefix.Unicode {
		kind = "u"
	}

	unquoted, ok := stripQuotes(body, quote)
	if !ok {
		return nil, "", nil, perrors.NewSyntaxError(perrors.ECodeInvalidSyntax, "",
			perrors.Span{Start: start, End: end}, "", "unterminated string literal")
	}

	if prefix.Bytes {
		for i := 0; i < len(unquoted); i++ {
			if unquoted[i] >= 0x80 {
				return nil, "", nil, perrors.NewSyntaxError(perrors.ECodeInvalidSyntax, "",
					perrors.Span{Start: start, End: end}, "", "bytes can only contain ASCII literal characters")
			}
		}
	}

	if prefix.Raw {
		if prefix.Bytes {
			return []byte(unquoted), kind, nil, nil
		}
		return unquoted, kind, nil, nil
	}

	decoded, warnings, decodeErr := decodeEscapes(unquoted, prefix.Bytes)
	if decodeErr != "" {
		return nil, "", nil, perrors.NewSyntaxError(perrors.ECodeInvalidSyntax, "",
			perrors.Span{Start: start, End: end}, "", "%s", decodeErr)
	}
	if prefix.Bytes {
		return []byte(decoded), kind, warnings, nil
	}
	return decoded, kind, warnings, nil
}

func splitStringLiteral(raw string) (StringPrefix, string, byte) {
	i := 0
	var p StringPrefix
	for i < len(raw) {
		c := raw[i]
		switch c {
		case 'r', 'R':
			p.Raw = true
		case 'b', 'B':
			p.Bytes = true
		case 'f', 'F':
			p.FStr = true
		case 'u', 'U':
			p.Unicode = true
		case 't', 'T':
			p.Template = true
		default:
			goto done
		}
		i++
	}
done:
	body := raw[i:]
	quote := byte('"')
	if len(body) > 0 {
		quote = body[0]
	}
	return p, body, quote
}

// stripQuotes removes a matching pair of triple or single quotes.
func stripQuotes(body string, quote byte) (string, bool) {
	triple := string(quote) + string(quote) + string(quote)
	if strings.HasPrefix(body, triple) && strings.HasSuffix(body, triple) && len(body) >= 6 {
		return body[3 : len(body)-3], true
	}
	single := string(quote)
	if strings.HasPrefix(body, single) && strings.HasSuffix(body, single) && len(body) >= 2 {
		return body[1 : len(body)-1], true
	}
	return "", false
}

// decodeEscapes processes backslash escapes in a non-raw string/bytes
// body: the standard C-style single-character escapes, \ooo octal,
// \xHH hex, and (text literals only) \uXXXX / \UXXXXXXXX. An
// unrecognized escape is passed through as a literal backslash plus the
// following character and reported as an EscapeWarning, matching
// CPython's DeprecationWarning-then-pass-through behavior rather than a
// hard error (spec.md §7 / original_source's string_parser.c).
func decodeEscapes(s string, bytesLiteral bool) (string, []EscapeWarning, string) {
	var out strings.Builder
	var warnings []EscapeWarning
	i := 0
	for i < len(s) {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			out.WriteByte(c)
			i++
			continue
		}
		next := s[i+1]
		switch next {
		case '\n':
			i += 2
			continue
		case '\\':
			out.WriteByte('\\')
			i += 2
		case '\'':
			out.WriteByte('\'')
			i += 2
		case '"':
			out.WriteByte('"')
			i += 2
		case 'a':
			out.WriteByte('\a')
			i += 2
		case 'b':
			out.WriteByte('\b')
			i += 2
		case 'f':
			out.WriteByte('\f')
			i += 2
		case 'n':
			out.WriteByte('\n')
			i += 2
		case 'r':
			out.WriteByte('\r')
			i += 2
		case 't':
			out.WriteByte('\t')
			i += 2
		case 'v':
			out.WriteByte('\v')
			i += 2
		case 'x':
			if i+3 < len(s) {
				if v, err := strconv.ParseUint(s[i+2:i+4], 16, 8); err == nil {
					out.WriteByte(byte(v))
					i += 4
					continue
				}
			}
			return "", nil, "invalid \\x escape"
		case 'u', 'U':
			if bytesLiteral {
				// \u and \U are not special in bytes literals.
				out.WriteByte('\\')
				out.WriteByte(next)
				i += 2
				continue
			}
			width := 4
			if next == 'U' {
				width = 8
			}
			if i+2+width > len(s) {
				return "", nil, "invalid unicode escape"
			}
			v, err := strconv.ParseUint(s[i+2:i+2+width], 16, 32)
			if err != nil || !utf8.ValidRune(rune(v)) {
				return "", nil, "invalid unicode escape"
			}
			out.WriteRune(rune(v))
			i += 2 + width
		case 'N':
			// Named Unicode escapes (\N{NAME}) require a Unicode name
			// database lookup this module does not carry; pass the
			// escape through unresolved, same as an unrecognized escape.
			warnings = append(warnings, EscapeWarning{Offset: out.Len(), Char: next})
			out.WriteByte('\\')
			out.WriteByte(next)
			i += 2
		case '0', '1', '2', '3', '4', '5', '6', '7':
			j := i + 1
			n := 0
			val := 0
			for j < len(s) && n < 3 && s[j] >= '0' && s[j] <= '7' {
				val = val*8 + int(s[j]-'0')
				j++
				n++
			}
			out.WriteByte(byte(val))
			i = j
		default:
			warnings = append(warnings, EscapeWarning{Offset: out.Len(), Char: next})
			out.WriteByte('\\')
			out.WriteByte(next)
			i += 2
		}
	}
	return out.String(), warnings, ""
}

// ConcatStrings folds a run of adjacent string-literal tokens (as
// CPython's tokenizer presents them, before the parser ever runs) per
// spec.md §4.4 "String concatenation": mixing bytes and non-bytes
// literals is a syntax error; a pure-bytes run collapses to a single
// Constant holding the concatenated bytes and the Kind of the first
// element; otherwise the run is flattened (any JoinedStr's Values are
// spliced in place), empty Constants are dropped, maximal runs of
// string-typed Constants are folded using the Kind of the first folded
// element, and the result is returned directly if exactly one element
// remains and no f-string was involved, else wrapped in a JoinedStr.
// Grounded on CPython's concatenate_strings (original_source's ast.c
// via _PyPegen_concatenate_strings).
func ConcatStrings(start, end token.Position, parts []Expr) (Expr, *perrors.SyntaxError) {
	if len(parts) == 1 {
		return parts[0], nil
	}

	var anyFString, anyBytes, anyText bool
	for _, p := range parts {
		switch x := p.(type) {
		case *JoinedStr:
			anyFString = true
			anyText = true
		case *Constant:
			if _, ok := x.Value.([]byte); ok {
				anyBytes = true
			} else {
				anyText = true
			}
		}
	}
	if anyBytes && anyText {
		return nil, perrors.NewSyntaxError(perrors.ECodeInvalidSyntax, "",
			perrors.Span{Start: start, End: end}, "", "cannot mix bytes and nonbytes literals")
	}

	if anyBytes {
		var buf []byte
		kind := parts[0].(*Constant).Kind
		for _, p := range parts {
			buf = append(buf, p.(*Constant).Value.([]byte)...)
		}
		return &Constant{span: newSpan(start, end), Value: buf, Kind: kind}, nil
	}

	var flattened []Expr
	for _, p := range parts {
		switch x := p.(type) {
		case *JoinedStr:
			flattened = append(flattened, x.Values...)
		case *Constant:
			flattened = append(flattened, x)
		}
	}

	var folded []Expr
	for i := 0; i < len(flattened); {
		c, ok := flattened[i].(*Constant)
		if !ok {
			folded = append(folded, flattened[i])
			i++
			continue
		}
		kind := c.Kind
		var b strings.Builder
		j := i
		for j < len(flattened) {
			cc, ok := flattened[j].(*Constant)
			if !ok {
				break
			}
			s, ok := cc.Value.(string)
			if !ok {
				break
			}
			b.WriteString(s)
			j++
		}
		if b.Len() > 0 {
			folded = append(folded, &Constant{span: newSpan(start, end), Value: b.String(), Kind: kind})
		}
		i = j
	}

	if len(folded) == 1 && !anyFString {
		return folded[0], nil
	}
	return &JoinedStr{span: newSpan(start, end), Values: folded}, nil
}
