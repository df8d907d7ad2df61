package grammar

import (
	"github.com/corepeg/pyparser/ast"
	"github.com/corepeg/pyparser/engine"
	"github.com/corepeg/pyparser/perrors"
	"github.com/corepeg/pyparser/token"
)

func statements(p *engine.Parser) ([]ast.Stmt, bool) {
	groups := many(p, func(p *engine.Parser) ([]ast.Stmt, bool) {
		return engine.Rule[[]ast.Stmt](p, idStatement, statement)
	})
	if len(groups) == 0 {
		return nil, false
	}
	return ast.Flatten(p.Arena, groups), true
}

func statement(p *engine.Parser) ([]ast.Stmt, bool) {
	if s, ok := engine.Rule[ast.Stmt](p, idCompoundStmt, compoundStmt); ok {
		return []ast.Stmt{s}, true
	}
	return engine.Rule[[]ast.Stmt](p, idSimpleStmts, simpleStmts)
}

func simpleStmts(p *engine.Parser) ([]ast.Stmt, bool) {
	first, ok := engine.Rule[ast.Stmt](p, idSimpleStmt, simpleStmt)
	if !ok {
		return nil, false
	}
	out := []ast.Stmt{first}
	for {
		m := mark(p)
		if _, ok := expectOp(p, ";"); !ok {
			reset(p, m)
			break
		}
		m2 := mark(p)
		next, ok := engine.Rule[ast.Stmt](p, idSimpleStmt, simpleStmt)
		if !ok {
			reset(p, m2)
			break
		}
		out = append(out, next)
	}
	if _, ok, err := p.Buffer.Expect(token.NEWLINE); err != nil || !ok {
		if _, ok2, _ := p.Buffer.Expect(token.ENDMARKER); !ok2 {
			raiseAt(p, perrors.ECodeInvalidSyntax, currentPos(p), "invalid syntax")
			return nil, false
		}
		p.Buffer.Mark--
	}
	return out, true
}

func simpleStmt(p *engine.Parser) (ast.Stmt, bool) {
	if s, ok := legacyPrintStmt(p); ok {
		return s, true
	}
	if p.ErrorIndicatorSet() {
		return nil, false
	}
	alternatives := []func(*engine.Parser) (ast.Stmt, bool){
		returnStmt, passStmt, breakStmt, continueStmt,
		globalStmt, nonlocalStmt, delStmt, raiseStmt, assertStmt,
		importStmt, importFromStmt, assignmentOrExprStmt,
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

// legacyPrintStmt recognizes the Python-2-shaped `print expr` statement
// and raises the "Missing parentheses" diagnostic CPython emits instead
// of quietly trying (and failing) to parse it as two adjacent
// expressions (spec.md's supplemented legacy-print detection, grounded
// on CPython's specialized error message for this exact case).
func legacyPrintStmt(p *engine.Parser) (ast.Stmt, bool) {
	m := mark(p)
	tok, name, ok := expectName(p)
	if !ok || name != "print" {
		reset(p, m)
		return nil, false
	}
	cur, err := p.Buffer.Current()
	if err != nil {
		reset(p, m)
		return nil, false
	}
	switch cur.Kind {
	case token.STRING, token.NUMBER, token.NAME, token.FSTRING_START:
		raiseAt(p, perrors.ECodeInvalidSyntax, tok.Start,
			"Missing parentheses in call to 'print'. Did you mean print(...)?")
		return nil, false
	}
	reset(p, m)
	return nil, false
}

func returnStmt(p *engine.Parser) (ast.Stmt, bool) {
	tok, ok := expectKeyword(p, kwReturn)
	if !ok {
		return nil, false
	}
	end := tok.End
	var value ast.Expr
	m := mark(p)
	if v, ok := engine.Rule[ast.Expr](p, idExpression, expression); ok {
		value, end = v, v.End()
	} else {
		reset(p, m)
	}
	return ast.NewReturn(value, tok.Start, end), true
}

func passStmt(p *engine.Parser) (ast.Stmt, bool) {
	tok, ok := expectKeyword(p, kwPass)
	if !ok {
		return nil, false
	}
	return ast.NewPass(tok.Start, tok.End), true
}

func breakStmt(p *engine.Parser) (ast.Stmt, bool) {
	tok, ok := expectKeyword(p, kwBreak)
	if !ok {
		return nil, false
	}
	return ast.NewBreak(tok.Start, tok.End), true
}

func continueStmt(p *engine.Parser) (ast.Stmt, bool) {
	tok, ok := expectKeyword(p, kwContinue)
	if !ok {
		return nil, false
	}
	return ast.NewContinue(tok.Start, tok.End), true
}

func nameList(p *engine.Parser) ([]string, bool) {
	return gather(p, func(p *engine.Parser) (string, bool) {
		_, name, ok := expectName(p)
		return name, ok
	}, ",")
}

func globalStmt(p *engine.Parser) (ast.Stmt, bool) {
	tok, ok := expectKeyword(p, kwGlobal)
	if !ok {
		return nil, false
	}
	names, ok := nameList(p)
	if !ok {
		raiseAt(p, perrors.ECodeExpectedIdentifier, currentPos(p), "expected name after 'global'")
		return nil, false
	}
	return ast.NewGlobal(names, tok.Start, lastEndPos(p)), true
}

func nonlocalStmt(p *engine.Parser) (ast.Stmt, bool) {
	tok, ok := expectKeyword(p, kwNonlocal)
	if !ok {
		return nil, false
	}
	names, ok := nameList(p)
	if !ok {
		raiseAt(p, perrors.ECodeExpectedIdentifier, currentPos(p), "expected name after 'nonlocal'")
		return nil, false
	}
	return ast.NewNonlocal(names, tok.Start, lastEndPos(p)), true
}

func delStmt(p *engine.Parser) (ast.Stmt, bool) {
	tok, ok := expectKeyword(p, kwDel)
	if !ok {
		return nil, false
	}
	targets, ok := delTargetsList(p)
	if !ok {
		if p.ErrorIndicatorSet() {
			return nil, false
		}
		raiseAt(p, perrors.ECodeMissingExpression, currentPos(p), "expected expression after 'del'")
		return nil, false
	}
	return ast.NewDelete(targets, tok.Start, lastEndPos(p)), true
}

func raiseStmt(p *engine.Parser) (ast.Stmt, bool) {
	tok, ok := expectKeyword(p, kwRaise)
	if !ok {
		return nil, false
	}
	end := tok.End
	var exc, cause ast.Expr
	m := mark(p)
	if e, ok := engine.Rule[ast.Expr](p, idExpression, expression); ok {
		exc, end = e, e.End()
		if _, ok := expectKeyword(p, kwFrom); ok {
			c, ok := engine.Rule[ast.Expr](p, idExpression, expression)
			if !ok {
				raiseAt(p, perrors.ECodeMissingExpression, currentPos(p), "expected expression after 'from'")
				return nil, false
			}
			cause, end = c, c.End()
		}
	} else {
		reset(p, m)
	}
	return ast.NewRaise(exc, cause, tok.Start, end), true
}

func assertStmt(p *engine.Parser) (ast.Stmt, bool) {
	tok, ok := expectKeyword(p, kwAssert)
	if !ok {
		return nil, false
	}
	test, ok := engine.Rule[ast.Expr](p, idExpression, expression)
	if !ok {
		raiseAt(p, perrors.ECodeMissingExpression, currentPos(p), "expected expression after 'assert'")
		return nil, false
	}
	end := test.End()
	var msg ast.Expr
	if _, ok := expectOp(p, ","); ok {
		m, ok := engine.Rule[ast.Expr](p, idExpression, expression)
		if !ok {
			raiseAt(p, perrors.ECodeMissingExpression, currentPos(p), "expected assertion message expression")
			return nil, false
		}
		msg, end = m, m.End()
	}
	return ast.NewAssert(test, msg, tok.Start, end), true
}

func dottedName(p *engine.Parser) (string, bool) {
	_, name, ok := expectName(p)
	if !ok {
		return "", false
	}
	for {
		m := mark(p)
		if _, ok := expectOp(p, "."); !ok {
			reset(p, m)
			break
		}
		_, next, ok := expectName(p)
		if !ok {
			reset(p, m)
			break
		}
		name = ast.JoinNamesWithDot(name, next)
	}
	return name, true
}

func importAlias(p *engine.Parser) (ast.Alias, bool) {
	name, ok := dottedName(p)
	if !ok {
		return ast.Alias{}, false
	}
	alias := ast.Alias{Name: name}
	if _, ok := expectKeyword(p, kwAs); ok {
		_, asName, ok := expectName(p)
		if !ok {
			return ast.Alias{}, false
		}
		alias.AsName = asName
	}
	return alias, true
}

func importStmt(p *engine.Parser) (ast.Stmt, bool) {
	tok, ok := expectKeyword(p, kwImport)
	if !ok {
		return nil, false
	}
	names, ok := gather(p, importAlias, ",")
	if !ok {
		raiseAt(p, perrors.ECodeExpectedIdentifier, currentPos(p), "expected module name after 'import'")
		return nil, false
	}
	return ast.NewImport(names, tok.Start, lastEndPos(p)), true
}

func importFromStmt(p *engine.Parser) (ast.Stmt, bool) {
	tok, ok := expectKeyword(p, kwFrom)
	if !ok {
		return nil, false
	}
	level := 0
	for {
		if _, ok := expectOp(p, "..."); ok {
			level += 3
			continue
		}
		if _, ok := expectOp(p, "."); ok {
			level++
			continue
		}
		break
	}
	module := ""
	if name, ok := dottedName(p); ok {
		module = name
	} else if level == 0 {
		raiseAt(p, perrors.ECodeInvalidSyntax, currentPos(p), "expected module name after 'from'")
		return nil, false
	}
	if _, ok := expectKeyword(p, kwImport); !ok {
		raiseAt(p, perrors.ECodeInvalidSyntax, currentPos(p), "expected 'import'")
		return nil, false
	}
	var names []ast.Alias
	if _, ok := expectOp(p, "*"); ok {
		names = []ast.Alias{{Name: "*"}}
	} else if _, ok := expectOp(p, "("); ok {
		items, ok := gather(p, importAlias, ",")
		if !ok {
			raiseAt(p, perrors.ECodeExpectedIdentifier, currentPos(p), "expected imported name")
			return nil, false
		}
		names = items
		if _, ok := expectOp(p, ","); ok {
			// tolerate one trailing comma before ')'
		}
		if _, ok := expectOp(p, ")"); !ok {
			raiseAt(p, perrors.ECodeUnclosedDelimiter, currentPos(p), "expected ')'")
			return nil, false
		}
	} else {
		items, ok := gather(p, importAlias, ",")
		if !ok {
			raiseAt(p, perrors.ECodeExpectedIdentifier, currentPos(p), "expected imported name")
			return nil, false
		}
		names = items
	}
	stmt := ast.NewImportFrom(module, names, level, tok.Start, lastEndPos(p))
	ast.ApplyFutureImport(futureFlags(p), stmt)
	return stmt, true
}

// assignmentOrExprStmt covers augmented assignment, annotated
// assignment, (possibly chained) plain assignment, and the fallback
// bare-expression statement, all sharing one initial expression parse
// (spec.md §4.2's ordered-choice-with-shared-prefix idiom).
func assignmentOrExprStmt(p *engine.Parser) (ast.Stmt, bool) {
	start := currentPos(p)
	first, ok := engine.Rule[ast.Expr](p, idDisjunction, disjunction)
	if !ok {
		return nil, false
	}

	for text, op := range augAssignOps {
		if _, ok := expectOp(p, text); ok {
			rhs, ok := engine.Rule[ast.Expr](p, idExpression, expression)
			if !ok {
				raiseAt(p, perrors.ECodeMissingExpression, currentPos(p), "expected expression after '%s'", text)
				return nil, false
			}
			target := ast.SetExprContext(first, ast.Store)
			if ast.InvalidTarget(ast.AssignTargets, target) {
				raiseInvalidTarget(p, target)
				return nil, false
			}
			return ast.NewAugAssign(target, op, rhs, start, rhs.End()), true
		}
	}

	if _, ok := expectOp(p, ":"); ok {
		annotation, ok := engine.Rule[ast.Expr](p, idExpression, expression)
		if !ok {
			raiseAt(p, perrors.ECodeMissingExpression, currentPos(p), "expected annotation")
			return nil, false
		}
		target := ast.SetExprContext(first, ast.Store)
		if ast.InvalidTarget(ast.AssignTargets, target) {
			raiseInvalidTarget(p, target)
			return nil, false
		}
		end := annotation.End()
		var value ast.Expr
		if _, ok := expectOp(p, "="); ok {
			v, ok := engine.Rule[ast.Expr](p, idExpression, expression)
			if !ok {
				raiseAt(p, perrors.ECodeMissingExpression, currentPos(p), "expected expression after '='")
				return nil, false
			}
			value, end = v, v.End()
		}
		_, isName := target.(*ast.Name)
		simple := isName && target.Pos() == start
		return ast.NewAnnAssign(target, annotation, value, simple, start, end), true
	}

	if targets, value, ok := assignTargets(p, first); ok {
		return ast.NewAssign(targets, value, start, value.End()), true
	}
	if p.ErrorIndicatorSet() {
		return nil, false
	}

	return ast.NewExprStmt(first, start, first.End()), true
}
