package grammar

import (
	"github.com/corepeg/pyparser/ast"
	"github.com/corepeg/pyparser/engine"
	"github.com/corepeg/pyparser/perrors"
	"github.com/corepeg/pyparser/token"
)

// mark and reset implement backtracking ordered choice: every
// alternative in this grammar saves Mark before attempting a branch and
// resets it on failure, the same save/restore shape buffer.Lookahead
// uses for &/! lookahead (spec.md §4.2's PEG semantics).
func mark(p *engine.Parser) int        { return p.Buffer.Mark }
func reset(p *engine.Parser, m int)    { p.Buffer.Mark = m }

// expectOp matches an OP token whose text equals text, without
// advancing on failure.
func expectOp(p *engine.Parser, text string) (token.Token, bool) {
	m := mark(p)
	tok, ok, err := p.Buffer.Expect(token.OP)
	if err != nil || !ok || tok.Text() != text {
		reset(p, m)
		return token.Token{}, false
	}
	return tok, true
}

// expectName matches a bare NAME token, NFKC-normalizing its text.
func expectName(p *engine.Parser) (token.Token, string, bool) {
	tok, ok, err := p.Buffer.Expect(token.NAME)
	if err != nil || !ok {
		return token.Token{}, "", false
	}
	return tok, ast.NewIdentifier(tok.Text()), true
}

func expectKeyword(p *engine.Parser, kind token.Kind) (token.Token, bool) {
	tok, ok, err := p.Buffer.Expect(kind)
	if err != nil || !ok {
		return token.Token{}, false
	}
	return tok, true
}

func currentPos(p *engine.Parser) token.Position {
	tok, err := p.Buffer.Current()
	if err != nil {
		return token.Position{}
	}
	return tok.Start
}

func lastEndPos(p *engine.Parser) token.Position {
	if p.Buffer.Mark == 0 {
		return currentPos(p)
	}
	tok, err := p.Buffer.Peek(p.Buffer.Mark - 1)
	if err != nil {
		return currentPos(p)
	}
	return tok.End
}

// raiseAt records a generic-location SyntaxError at pos, respecting the
// first-raise-wins policy (spec.md §7).
func raiseAt(p *engine.Parser, code perrors.ErrorCode, pos token.Position, format string, args ...any) {
	sourceLine := ""
	if p.Tok != nil {
		sourceLine = p.Tok.CurrentLine(pos.Line)
	}
	p.SetError(perrors.NewSyntaxError(code, p.Filename, perrors.Span{Start: pos, End: pos}, sourceLine, format, args...))
}

func raiseInvalidTarget(p *engine.Parser, e ast.Expr) {
	raiseAt(p, perrors.ECodeInvalidTarget, e.Pos(), "cannot assign to %s", ast.GetExprName(e))
}

// many, gather, positive and negative are grammar-package spellings of
// package engine's Repeat/Gather/Lookahead combinators: engine's
// versions take closures that already capture p (so one engine.Parser
// can drive several independent rule tables), while every rule in this
// package already carries p as its own first argument, so these
// thin wrappers just rebind it.

// many repeatedly applies rule until it fails, returning the collected
// results (possibly empty); engine.Repeat is the `*` zero-or-more
// primitive spec.md §4.2 describes.
func many[T any](p *engine.Parser, rule func(p *engine.Parser) (T, bool)) []T {
	return engine.Repeat(p, func() (T, bool) { return rule(p) })
}

// many1 is many's one-or-more counterpart (engine.Repeat1).
func many1[T any](p *engine.Parser, rule func(p *engine.Parser) (T, bool)) ([]T, bool) {
	return engine.Repeat1(p, func() (T, bool) { return rule(p) })
}

// gather parses one item, then zero or more (sep item) pairs, the shape
// spec.md §4.2 calls a gathered/delimited repetition (a.b.c(',' item)*);
// delegates to engine.Gather.
func gather[T any](p *engine.Parser, item func(p *engine.Parser) (T, bool), sep string) ([]T, bool) {
	return engine.Gather(p, func() (T, bool) { return item(p) }, func() bool {
		_, ok := expectOp(p, sep)
		return ok
	})
}

// futureFlags returns the live ast.FutureFlags accumulated so far for
// this parse, lazily initializing engine.Parser's generic Extra slot.
// statements.go's importFromStmt mutates this as `from __future__
// import ...` statements are recognized; compareOpBitOrPair reads it
// back to decide whether `<>`/`!=` are legal at this point in the same
// parse (spec.md's supplemented __future__/barry_as_FLUFL feature).
func futureFlags(p *engine.Parser) *ast.FutureFlags {
	if p.Extra == nil {
		p.Extra = &ast.FutureFlags{}
	}
	return p.Extra.(*ast.FutureFlags)
}

// barryActive reports whether `<>` should be accepted in place of `!=`:
// either the host requested it up front via engine.FlagBarryAsBDFL, or
// the module being parsed has already executed `from __future__ import
// barry_as_FLUFL` earlier in the same parse.
func barryActive(p *engine.Parser) bool {
	return p.Flags.Has(engine.FlagBarryAsBDFL) || futureFlags(p).BarryAsFLUFL
}

// positive performs &rule bounded lookahead without consuming input
// (engine.Lookahead with positive=true).
func positive[T any](p *engine.Parser, rule func(p *engine.Parser) (T, bool)) bool {
	return engine.Lookahead(p, true, func() (T, bool) { return rule(p) })
}

// negative performs !rule bounded lookahead without consuming input
// (engine.Lookahead with positive=false).
func negative[T any](p *engine.Parser, rule func(p *engine.Parser) (T, bool)) bool {
	return engine.Lookahead(p, false, func() (T, bool) { return rule(p) })
}
