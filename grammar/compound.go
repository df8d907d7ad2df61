package grammar

import (
	"github.com/corepeg/pyparser/ast"
	"github.com/corepeg/pyparser/engine"
	"github.com/corepeg/pyparser/perrors"
	"github.com/corepeg/pyparser/token"
)

func compoundStmt(p *engine.Parser) (ast.Stmt, bool) {
	alternatives := []func(*engine.Parser) (ast.Stmt, bool){
		ifStmt, whileStmt, forStmt, tryStmt, withStmt,
		decoratedOrFuncOrClass, asyncStmt,
	}
	for _, alt := range alternatives {
		m := mark(p)
		s, ok := alt(p)
		if ok {
			return s, true
		}
		if p.ErrorIndicatorSet() {
			return nil, false
		}
		reset(p, m)
	}
	return nil, false
}

// block parses `':' simple_stmts` (a suite on the same line) or
// `':' NEWLINE INDENT statements DEDENT` (an indented suite).
func block(p *engine.Parser) ([]ast.Stmt, bool) {
	if _, ok := expectOp(p, ":"); !ok {
		raiseAt(p, perrors.ECodeInvalidSyntax, currentPos(p), "expected ':'")
		return nil, false
	}
	m := mark(p)
	if _, ok, _ := p.Buffer.Expect(token.NEWLINE); ok {
		if _, ok, _ := p.Buffer.Expect(token.INDENT); ok {
			body, ok := engine.Rule[[]ast.Stmt](p, idStatements, statements)
			if !ok {
				raiseAt(p, perrors.ECodeIndentation, currentPos(p), "expected an indented block")
				return nil, false
			}
			if _, ok, _ := p.Buffer.Expect(token.DEDENT); !ok {
				raiseAt(p, perrors.ECodeIndentation, currentPos(p), "expected dedent")
				return nil, false
			}
			return body, true
		}
		reset(p, m)
	}
	return engine.Rule[[]ast.Stmt](p, idSimpleStmts, simpleStmts)
}

func ifStmt(p *engine.Parser) (ast.Stmt, bool) {
	tok, ok := expectKeyword(p, kwIf)
	if !ok {
		return nil, false
	}
	test, ok := engine.Rule[ast.Expr](p, idNamedExpression, namedExpression)
	if !ok {
		raiseAt(p, perrors.ECodeMissingExpression, currentPos(p), "expected condition after 'if'")
		return nil, false
	}
	body, ok := block(p)
	if !ok {
		return nil, false
	}
	orElse, end := elifOrElseChain(p)
	if end.Line == 0 {
		end = lastEndPos(p)
	}
	return ast.NewIf(test, body, orElse, tok.Start, end), true
}

// elifOrElseChain parses a trailing `elif ...` (recursively nested as a
// single-element OrElse holding another If, matching CPython's AST
// shape) or a trailing `else:` block.
func elifOrElseChain(p *engine.Parser) ([]ast.Stmt, token.Position) {
	m := mark(p)
	if tok, ok := expectKeyword(p, kwElif); ok {
		test, ok := engine.Rule[ast.Expr](p, idNamedExpression, namedExpression)
		if !ok {
			raiseAt(p, perrors.ECodeMissingExpression, currentPos(p), "expected condition after 'elif'")
			return nil, token.Position{}
		}
		body, ok := block(p)
		if !ok {
			return nil, token.Position{}
		}
		nested, end := elifOrElseChain(p)
		if end.Line == 0 {
			end = lastEndPos(p)
		}
		inner := ast.NewIf(test, body, nested, tok.Start, end)
		return []ast.Stmt{inner}, end
	}
	reset(p, m)
	if _, ok := expectKeyword(p, kwElse); ok {
		body, ok := block(p)
		if !ok {
			return nil, token.Position{}
		}
		return body, lastEndPos(p)
	}
	reset(p, m)
	return nil, token.Position{}
}

func whileStmt(p *engine.Parser) (ast.Stmt, bool) {
	tok, ok := expectKeyword(p, kwWhile)
	if !ok {
		return nil, false
	}
	test, ok := engine.Rule[ast.Expr](p, idNamedExpression, namedExpression)
	if !ok {
		raiseAt(p, perrors.ECodeMissingExpression, currentPos(p), "expected condition after 'while'")
		return nil, false
	}
	body, ok := block(p)
	if !ok {
		return nil, false
	}
	var orElse []ast.Stmt
	m := mark(p)
	if _, ok := expectKeyword(p, kwElse); ok {
		o, ok := block(p)
		if !ok {
			return nil, false
		}
		orElse = o
	} else {
		reset(p, m)
	}
	return ast.NewWhile(test, body, orElse, tok.Start, lastEndPos(p)), true
}

func forStmt(p *engine.Parser) (ast.Stmt, bool) {
	return forStmtAsync(p, false)
}

func forStmtAsync(p *engine.Parser, isAsync bool) (ast.Stmt, bool) {
	tok, ok := expectKeyword(p, kwFor)
	if !ok {
		return nil, false
	}
	target, ok := starTargetsList(p)
	if !ok {
		if !p.ErrorIndicatorSet() {
			raiseAt(p, perrors.ECodeInvalidSyntax, currentPos(p), "expected for-loop target")
		}
		return nil, false
	}
	if _, ok := expectKeyword(p, kwIn); !ok {
		raiseAt(p, perrors.ECodeInvalidSyntax, currentPos(p), "expected 'in'")
		return nil, false
	}
	iter, ok := starOrNamedList(p)
	if !ok {
		raiseAt(p, perrors.ECodeMissingExpression, currentPos(p), "expected iterable expression")
		return nil, false
	}
	var iterExpr ast.Expr
	if len(iter) == 1 {
		iterExpr = iter[0]
	} else {
		iterExpr = ast.NewTuple(iter, ast.Load, iter[0].Pos(), iter[len(iter)-1].End())
	}
	body, ok := block(p)
	if !ok {
		return nil, false
	}
	var orElse []ast.Stmt
	m := mark(p)
	if _, ok := expectKeyword(p, kwElse); ok {
		o, ok := block(p)
		if !ok {
			return nil, false
		}
		orElse = o
	} else {
		reset(p, m)
	}
	return ast.NewFor(target, iterExpr, body, orElse, isAsync, tok.Start, lastEndPos(p)), true
}

func withItem(p *engine.Parser) (ast.WithItem, bool) {
	expr, ok := engine.Rule[ast.Expr](p, idExpression, expression)
	if !ok {
		return ast.WithItem{}, false
	}
	item := ast.WithItem{ContextExpr: expr}
	if _, ok := expectKeyword(p, kwAs); ok {
		target, ok := engine.Rule[ast.Expr](p, idExpression, expression)
		if !ok {
			return ast.WithItem{}, false
		}
		item.OptionalVars = ast.SetExprContext(target, ast.Store)
	}
	return item, true
}

func withStmt(p *engine.Parser) (ast.Stmt, bool) {
	return withStmtAsync(p, false)
}

func withStmtAsync(p *engine.Parser, isAsync bool) (ast.Stmt, bool) {
	tok, ok := expectKeyword(p, kwWith)
	if !ok {
		return nil, false
	}
	parenthesized := false
	if _, ok := expectOp(p, "("); ok {
		parenthesized = true
	}
	items, ok := gather(p, withItem, ",")
	if !ok {
		raiseAt(p, perrors.ECodeMissingExpression, currentPos(p), "expected context manager expression after 'with'")
		return nil, false
	}
	if parenthesized {
		expectOp(p, ",")
		if _, ok := expectOp(p, ")"); !ok {
			raiseAt(p, perrors.ECodeUnclosedDelimiter, currentPos(p), "expected ')'")
			return nil, false
		}
	}
	body, ok := block(p)
	if !ok {
		return nil, false
	}
	return ast.NewWith(items, body, isAsync, tok.Start, lastEndPos(p)), true
}

func tryStmt(p *engine.Parser) (ast.Stmt, bool) {
	tok, ok := expectKeyword(p, kwTry)
	if !ok {
		return nil, false
	}
	body, ok := block(p)
	if !ok {
		return nil, false
	}
	var handlers []ast.ExceptHandler
	star := false
	for {
		m := mark(p)
		h, isStar, ok := exceptBlock(p)
		if !ok {
			reset(p, m)
			break
		}
		star = star || isStar
		handlers = append(handlers, h)
	}
	var orElse []ast.Stmt
	m := mark(p)
	if _, ok := expectKeyword(p, kwElse); ok {
		o, ok := block(p)
		if !ok {
			return nil, false
		}
		orElse = o
	} else {
		reset(p, m)
	}
	var finalBody []ast.Stmt
	m2 := mark(p)
	if _, ok := expectKeyword(p, kwFinally); ok {
		f, ok := block(p)
		if !ok {
			return nil, false
		}
		finalBody = f
	} else {
		reset(p, m2)
	}
	if len(handlers) == 0 && finalBody == nil {
		raiseAt(p, perrors.ECodeInvalidSyntax, currentPos(p), "expected 'except' or 'finally' block")
		return nil, false
	}
	return ast.NewTry(body, handlers, orElse, finalBody, star, tok.Start, lastEndPos(p)), true
}

func exceptBlock(p *engine.Parser) (ast.ExceptHandler, bool, bool) {
	tok, ok := expectKeyword(p, kwExcept)
	if !ok {
		return ast.ExceptHandler{}, false, false
	}
	star := false
	if _, ok := expectOp(p, "*"); ok {
		star = true
	}
	var typ ast.Expr
	name := ""
	m := mark(p)
	if t, ok := engine.Rule[ast.Expr](p, idExpression, expression); ok {
		typ = t
		if _, ok := expectKeyword(p, kwAs); ok {
			_, n, ok := expectName(p)
			if ok {
				name = n
			}
		}
	} else {
		reset(p, m)
	}
	body, ok := block(p)
	if !ok {
		return ast.ExceptHandler{}, false, false
	}
	return *ast.NewExceptHandler(typ, name, body, star, tok.Start, lastEndPos(p)), star, true
}

// decorators parses zero or more `@ expr NEWLINE` decorator lines ahead
// of a function or class definition.
func decorators(p *engine.Parser) []ast.Expr {
	var out []ast.Expr
	for {
		m := mark(p)
		if _, ok := expectOp(p, "@"); !ok {
			reset(p, m)
			break
		}
		expr, ok := engine.Rule[ast.Expr](p, idNamedExpression, namedExpression)
		if !ok {
			reset(p, m)
			break
		}
		p.Buffer.Expect(token.NEWLINE)
		out = append(out, expr)
	}
	return out
}

func decoratedOrFuncOrClass(p *engine.Parser) (ast.Stmt, bool) {
	decos := decorators(p)
	if s, ok := funcDef(p, false); ok {
		setDecorators(s, decos)
		return s, true
	}
	if s, ok := classDef(p); ok {
		setDecorators(s, decos)
		return s, true
	}
	return nil, false
}

func setDecorators(s ast.Stmt, decos []ast.Expr) {
	switch x := s.(type) {
	case *ast.FunctionDef:
		x.Decorators = decos
	case *ast.ClassDef:
		x.Decorators = decos
	}
}

func funcDef(p *engine.Parser, isAsync bool) (ast.Stmt, bool) {
	tok, ok := expectKeyword(p, kwDef)
	if !ok {
		return nil, false
	}
	_, name, ok := expectName(p)
	if !ok {
		raiseAt(p, perrors.ECodeExpectedIdentifier, currentPos(p), "expected function name")
		return nil, false
	}
	args, ok := parenthesizedParams(p)
	if !ok {
		raiseAt(p, perrors.ECodeInvalidSyntax, currentPos(p), "expected parameter list")
		return nil, false
	}
	var returns ast.Expr
	if _, ok := expectOp(p, "->"); ok {
		r, ok := engine.Rule[ast.Expr](p, idExpression, expression)
		if !ok {
			raiseAt(p, perrors.ECodeMissingExpression, currentPos(p), "expected return annotation")
			return nil, false
		}
		returns = r
	}
	body, ok := block(p)
	if !ok {
		return nil, false
	}
	return ast.NewFunctionDef(name, args, body, nil, returns, isAsync, tok.Start, lastEndPos(p)), true
}

func classDef(p *engine.Parser) (ast.Stmt, bool) {
	tok, ok := expectKeyword(p, kwClass)
	if !ok {
		return nil, false
	}
	_, name, ok := expectName(p)
	if !ok {
		raiseAt(p, perrors.ECodeExpectedIdentifier, currentPos(p), "expected class name")
		return nil, false
	}
	var bases []ast.Expr
	var keywords []ast.Keyword
	if _, ok := expectOp(p, "("); ok {
		args, kws, ok := callArgs(p)
		if ok {
			bases, keywords = args, kws
		}
		if _, ok := expectOp(p, ")"); !ok {
			raiseAt(p, perrors.ECodeUnclosedDelimiter, currentPos(p), "expected ')'")
			return nil, false
		}
	}
	body, ok := block(p)
	if !ok {
		return nil, false
	}
	return ast.NewClassDef(name, bases, keywords, body, nil, tok.Start, lastEndPos(p)), true
}

// asyncStmt handles the three `async def` / `async for` / `async with`
// forms; plain `async` followed by anything else is invalid syntax.
func asyncStmt(p *engine.Parser) (ast.Stmt, bool) {
	m := mark(p)
	if _, ok := expectKeyword(p, kwAsync); !ok {
		return nil, false
	}
	if s, ok := funcDef(p, true); ok {
		return s, true
	}
	if s, ok := forStmtAsync(p, true); ok {
		return s, true
	}
	if s, ok := withStmtAsync(p, true); ok {
		return s, true
	}
	reset(p, m)
	return nil, false
}
