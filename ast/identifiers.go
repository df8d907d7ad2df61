package ast

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NewIdentifier normalizes a raw NAME token's text to NFKC, matching
// CPython's tokenizer (original_source/Parser/tokenizer.c calls
// PyUnicode_Normalize(NFKC, ...) whenever the raw bytes are not already
// in normal form, rather than doing this in the AST layer; spec.md §4.4
// keeps the normalization at identifier-construction time instead,
// since this module's tokenizer hands the buffer raw bytes). Returns the
// normalized name unchanged when raw is already NFKC-normal, which is
// the overwhelmingly common case and avoids an allocation.
func NewIdentifier(raw string) string {
	if norm.NFKC.IsNormalString(raw) {
		return raw
	}
	return norm.NFKC.String(raw)
}

// JoinNamesWithDot joins two dotted module-name fragments with a single
// `.`, used when assembling a relative `from . import`'s dotted_name
// production (grounded on _PyPegen_join_names_with_dot).
func JoinNamesWithDot(left, right string) string {
	if left == "" {
		return right
	}
	if right == "" {
		return left
	}
	var b strings.Builder
	b.Grow(len(left) + len(right) + 1)
	b.WriteString(left)
	b.WriteByte('.')
	b.WriteString(right)
	return b.String()
}
