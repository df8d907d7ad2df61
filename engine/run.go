package engine

import (
	"strings"

	"github.com/corepeg/pyparser/perrors"
	"github.com/corepeg/pyparser/token"
)

// StartFunc is the grammar's entry production for the Parser's
// configured StartRule.
type StartFunc[T any] func(p *Parser) (T, bool)

// RunParser implements spec.md §4.3's two-pass diagnostic driver.
//
//  1. First pass with CallInvalidRules disabled.
//  2. On failure, check incomplete-input; otherwise reset memo, rerun
//     with CallInvalidRules enabled so "invalid_*" alternatives can
//     attach precise messages.
//  3. If the second pass still leaves no error set, synthesize a
//     generic SyntaxError from the last token pass one reached.
//  4. Attach last-statement metadata to whatever SyntaxError surfaces.
func RunParser[T any](p *Parser, start StartFunc[T]) (T, error) {
	var zero T

	result, ok := start(p)
	if ok && !p.ErrorIndicatorSet() {
		if err := p.checkSingleInputTrailingGarbage(); err != nil {
			return zero, p.finish(err)
		}
		return result, nil
	}

	if p.Flags.Has(FlagAllowIncompleteInput) && p.atEndOfSource() {
		return zero, p.finish(p.incompleteInputError())
	}

	lastToken := p.currentTokenSafe()

	p.Buffer.ResetMemo()
	p.ClearError()
	p.CallInvalidRules = true
	p.Tok.SetInteractiveUnderflow(true)
	p.LastStmtSet = false

	result, ok = start(p)
	if ok && !p.ErrorIndicatorSet() {
		// Per spec.md §4.3 property 3: "If the first pass fails, the
		// second pass raises a syntax error (never succeeds)." Treat an
		// unexpected second-pass success as a generic syntax error
		// rather than silently returning a result the first pass
		// rejected.
		return zero, p.finish(p.genericSyntaxError(lastToken))
	}

	if p.FirstError == nil {
		p.SetError(p.genericSyntaxError(lastToken))
	}

	return zero, p.finish(p.FirstError)
}

func (p *Parser) atEndOfSource() bool {
	tok, err := p.Buffer.Current()
	if err != nil {
		return true
	}
	return tok.Kind == token.ENDMARKER
}

func (p *Parser) currentTokenSafe() token.Token {
	tok, err := p.Buffer.Current()
	if err != nil {
		return token.Token{}
	}
	return tok
}

func (p *Parser) incompleteInputError() *perrors.SyntaxError {
	tok := p.currentTokenSafe()
	return perrors.NewSyntaxError(perrors.ECodeIncompleteInput, p.Filename,
		perrors.Span{Start: tok.Start, End: tok.End}, "",
		"incomplete input")
}

// genericSyntaxError synthesizes the fallback diagnostic described in
// spec.md §4.3 step 3: indent/dedent mismatch, unexpected EOF, unclosed
// bracket, or "invalid syntax" as a last resort.
func (p *Parser) genericSyntaxError(lastToken token.Token) *perrors.SyntaxError {
	if stack := p.Tok.ParenStack(); len(stack) > 0 {
		open := stack[0]
		return perrors.NewSyntaxError(perrors.ECodeUnclosedDelimiter, p.Filename,
			perrors.Span{Start: open.Start, End: open.End}, p.sourceLine(open.Start.Line),
			"'%s' was never closed", open.Text())
	}
	if lastToken.Kind == token.INDENT {
		return perrors.NewIndentationError(p.Filename,
			perrors.Span{Start: lastToken.Start, End: lastToken.End}, p.sourceLine(lastToken.Start.Line),
			"unexpected indent")
	}
	if lastToken.Kind == token.DEDENT {
		return perrors.NewIndentationError(p.Filename,
			perrors.Span{Start: lastToken.Start, End: lastToken.End}, p.sourceLine(lastToken.Start.Line),
			"unexpected unindent")
	}
	if lastToken.Kind == token.ENDMARKER {
		return perrors.NewSyntaxError(perrors.ECodeInvalidSyntax, p.Filename,
			perrors.Span{Start: lastToken.Start, End: lastToken.End}, p.sourceLine(lastToken.Start.Line),
			"unexpected EOF while parsing")
	}
	return perrors.NewSyntaxError(perrors.ECodeInvalidSyntax, p.Filename,
		perrors.Span{Start: lastToken.Start, End: lastToken.End}, p.sourceLine(lastToken.Start.Line),
		"invalid syntax")
}

func (p *Parser) sourceLine(lineno int) string {
	return p.Tok.CurrentLine(lineno)
}

// finish attaches the (last_stmt_lineno, last_stmt_col, source) metadata
// triple to a SyntaxError before it is surfaced, per spec.md §4.3 step 4.
func (p *Parser) finish(err *perrors.SyntaxError) error {
	if err == nil {
		return nil
	}
	if err.Class == "SyntaxError" {
		line, col := err.Span.Start.Line, err.Span.Start.Column
		if p.LastStmtSet {
			line, col = p.LastStmtLocation.Line, p.LastStmtLocation.Column
		}
		err.WithMetadata(line, col, p.sourceLine(line))
	}
	return err
}

// checkSingleInputTrailingGarbage implements spec.md §4.3's
// single-input validation: after a successful single-statement parse,
// any remaining unconsumed source must be only whitespace and
// `#`-comments. DESIGN.md Open Question 1: trailing whitespace
// (including newlines) is accepted, matching the original tokenizer's
// BADSINGLE behavior.
func (p *Parser) checkSingleInputTrailingGarbage() *perrors.SyntaxError {
	if p.StartRule != StartSingle {
		return nil
	}
	tok, err := p.Buffer.Current()
	if err != nil {
		return nil
	}
	if tok.Kind == token.ENDMARKER {
		return nil
	}
	rest := strings.TrimSpace(tok.Text())
	if rest == "" || strings.HasPrefix(rest, "#") {
		return nil
	}
	return perrors.NewSyntaxError(perrors.ECodeMultipleStatements, p.Filename,
		perrors.Span{Start: tok.Start, End: tok.End}, p.sourceLine(tok.Start.Line),
		"multiple statements found while compiling a single statement")
}
