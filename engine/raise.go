package engine

import (
	"fmt"

	"github.com/corepeg/pyparser/perrors"
	"github.com/corepeg/pyparser/token"
)

// Located is satisfied by any AST node: the minimal surface RaiseAtNode
// and RaiseAtRange need.
type Located interface {
	Pos() token.Position
	End() token.Position
}

// RaiseAtToken raises a SyntaxError located at tok (spec.md §4.5: "raise
// at a given token").
func RaiseAtToken(p *Parser, tok token.Token, format string, args ...any) {
	p.SetError(perrors.NewSyntaxError(perrors.ECodeInvalidSyntax, p.Filename,
		perrors.Span{Start: tok.Start, End: tok.End}, p.sourceLine(tok.Start.Line), format, args...))
}

// RaiseAtNextToken raises a SyntaxError at the next unread token
// (spec.md §4.5: "raise ... at the next unread token").
func RaiseAtNextToken(p *Parser, format string, args ...any) {
	tok := p.currentTokenSafe()
	RaiseAtToken(p, tok, format, args...)
}

// RaiseAtNode raises a SyntaxError spanning node (spec.md §4.5: "from a
// node forward to CURRENT_POS" collapses to this when node's own End is
// used as the range's end).
func RaiseAtNode(p *Parser, node Located, format string, args ...any) {
	p.SetError(perrors.NewSyntaxError(perrors.ECodeInvalidSyntax, p.Filename,
		perrors.Span{Start: node.Pos(), End: node.End()}, p.sourceLine(node.Pos().Line), format, args...))
}

// RaiseAtRange raises a SyntaxError spanning from one node's start to
// another node's end (spec.md §4.5: "a range between two AST nodes").
func RaiseAtRange(p *Parser, from, to Located, format string, args ...any) {
	p.SetError(perrors.NewSyntaxError(perrors.ECodeInvalidSyntax, p.Filename,
		perrors.Span{Start: from.Pos(), End: to.End()}, p.sourceLine(from.Pos().Line), format, args...))
}

// RaiseAtNodeToCurrent raises a SyntaxError from node's start to the
// parser's current position (spec.md §4.5: "from a node forward to
// CURRENT_POS").
func RaiseAtNodeToCurrent(p *Parser, node Located, format string, args ...any) {
	p.SetError(perrors.NewSyntaxError(perrors.ECodeInvalidSyntax, p.Filename,
		perrors.Span{Start: node.Pos(), End: p.currentPos()}, p.sourceLine(node.Pos().Line), format, args...))
}

// RaiseAtSpan raises a SyntaxError at a fully-specified
// (line,col,endLine,endCol) tuple (spec.md §4.5: the fully-specified
// raise form).
func RaiseAtSpan(p *Parser, start, end token.Position, format string, args ...any) {
	p.SetError(perrors.NewSyntaxError(perrors.ECodeInvalidSyntax, p.Filename,
		perrors.Span{Start: start, End: end}, p.sourceLine(start.Line), format, args...))
}

// RaiseWithCode is like RaiseAtNode but lets the caller pick a specific
// ErrorCode instead of the generic ECodeInvalidSyntax.
func RaiseWithCode(p *Parser, code perrors.ErrorCode, node Located, format string, args ...any) {
	p.SetError(perrors.NewSyntaxError(code, p.Filename,
		perrors.Span{Start: node.Pos(), End: node.End()}, p.sourceLine(node.Pos().Line), format, args...))
}

// Warn emits a non-fatal diagnostic through the configured WarningSink
// (spec.md §7's "Warning — invalid escape" row; Design Note's pluggable
// warning sink). Per spec.md §4.3's two-pass design, warnings raised
// during the diagnostic (second) pass are suppressed to avoid
// duplicates.
func (p *Parser) Warn(category perrors.WarningCategory, pos token.Position, format string, args ...any) {
	if p.CallInvalidRules {
		return
	}
	p.Warnings.Warn(perrors.Warning{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
		Filename: p.Filename,
		Pos:      pos,
	})
}
