package ast

import (
	"strings"

	"github.com/corepeg/pyparser/token"
)

// FStringPart is one piece the tokenizer's FSTRING_MIDDLE / replacement-
// field scanning hands to AssembleFString: either literal text or a
// parsed replacement-field expression with its surrounding metadata.
type FStringPart struct {
	Literal    string // non-empty only when Expr == nil
	Expr       Expr
	Conversion rune
	FormatSpec []FStringPart // nested, since a format spec can itself interpolate
	Debug      bool
	DebugText  string
}

// AssembleFString builds a JoinedStr from the ordered parts an
// f-string's FSTRING_START/MIDDLE/END token run and nested
// replacement-field parses produced. Adjacent literal parts are folded
// into a single Constant, matching CPython's compiler-level string
// folding for f-strings (original_source's action_helpers.c /
// compile.c's fstring handling, as exposed through the PEG grammar's
// fstring_middle rules). A debug expression (`{x=}`) is exposed as two
// children — the textual Constant carrying DebugText, then the
// FormattedValue — per spec.md §4.4; if it carries no explicit
// conversion and no format spec, the implicit conversion is `r`.
func AssembleFString(start, end token.Position, parts []FStringPart) *JoinedStr {
	values := make([]Expr, 0, len(parts))
	var pending strings.Builder
	flush := func() {
		if pending.Len() > 0 {
			values = append(values, &Constant{span: newSpan(start, end), Value: pending.String()})
			pending.Reset()
		}
	}
	for _, part := range parts {
		if part.Expr == nil {
			pending.WriteString(part.Literal)
			continue
		}
		flush()
		if part.Debug {
			values = append(values, &Constant{span: newSpan(start, end), Value: part.DebugText})
		}
		conversion := part.Conversion
		if part.Debug && conversion == 0 && len(part.FormatSpec) == 0 {
			conversion = 'r'
		}
		fv := &FormattedValue{
			span:       newSpan(part.Expr.Pos(), part.Expr.End()),
			Value:      part.Expr,
			Conversion: conversion,
			Debug:      part.Debug,
			DebugText:  part.DebugText,
		}
		if len(part.FormatSpec) > 0 {
			fv.FormatSpec = AssembleFString(start, end, part.FormatSpec)
		}
		values = append(values, fv)
	}
	flush()
	return &JoinedStr{span: newSpan(start, end), Values: values}
}

// DebugExprText renders the `{x=}` self-documenting form's literal
// prefix ("x=") that precedes the value's str()/repr(), using the raw
// source text from the expression's first token up to the `=`. Grounded
// on CPython's f-string debug-specifier handling (original_source's
// Parser/string_parser.c / compile.c fstring codegen comments).
func DebugExprText(raw string) string {
	return raw + "="
}
