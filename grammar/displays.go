package grammar

import (
	"github.com/corepeg/pyparser/ast"
	"github.com/corepeg/pyparser/engine"
	"github.com/corepeg/pyparser/perrors"
	"github.com/corepeg/pyparser/token"
)

// comprehensionClauses parses one or more `for target in iter [if cond]*`
// clauses, the chain shared by list/set/dict/generator comprehensions.
func comprehensionClauses(p *engine.Parser) ([]ast.Comprehension, bool) {
	first, ok := comprehensionClause(p)
	if !ok {
		return nil, false
	}
	clauses := []ast.Comprehension{first}
	for {
		m := mark(p)
		next, ok := comprehensionClause(p)
		if !ok {
			reset(p, m)
			break
		}
		clauses = append(clauses, next)
	}
	return clauses, true
}

func comprehensionClause(p *engine.Parser) (ast.Comprehension, bool) {
	m := mark(p)
	isAsync := false
	if _, ok := expectKeyword(p, kwAsync); ok {
		isAsync = true
	}
	if _, ok := expectKeyword(p, kwFor); !ok {
		reset(p, m)
		return ast.Comprehension{}, false
	}
	target, ok := starTargetsList(p)
	if !ok {
		raiseAt(p, perrors.ECodeInvalidSyntax, currentPos(p), "expected comprehension target")
		return ast.Comprehension{}, false
	}
	if _, ok := expectKeyword(p, kwIn); !ok {
		raiseAt(p, perrors.ECodeInvalidSyntax, currentPos(p), "expected 'in'")
		return ast.Comprehension{}, false
	}
	iter, ok := engine.Rule[ast.Expr](p, idDisjunction, disjunction)
	if !ok {
		raiseAt(p, perrors.ECodeMissingExpression, currentPos(p), "expected iterable expression")
		return ast.Comprehension{}, false
	}
	var ifs []ast.Expr
	for {
		m2 := mark(p)
		if _, ok := expectKeyword(p, kwIf); !ok {
			reset(p, m2)
			break
		}
		cond, ok := engine.Rule[ast.Expr](p, idDisjunction, disjunction)
		if !ok {
			reset(p, m2)
			break
		}
		ifs = append(ifs, cond)
	}
	return ast.Comprehension{Target: target, Iter: iter, Ifs: ifs, IsAsync: isAsync}, true
}

// groupOrTupleOrGenexp handles `(` ... `)`: a parenthesized group, a
// tuple display, or a generator expression, distinguished by what
// follows the first element.
func groupOrTupleOrGenexp(p *engine.Parser) (ast.Expr, bool) {
	m := mark(p)
	openTok, ok := expectOp(p, "(")
	if !ok {
		return nil, false
	}
	if closeTok, ok := expectOp(p, ")"); ok {
		return ast.NewTuple(nil, ast.Load, openTok.Start, closeTok.End), true
	}

	m2 := mark(p)
	if first, ok := engine.Rule[ast.Expr](p, idNamedExpression, namedExpression); ok {
		if gens, ok := comprehensionClauses(p); ok {
			closeTok, ok := expectOp(p, ")")
			if !ok {
				raiseAt(p, perrors.ECodeUnclosedDelimiter, currentPos(p), "expected ')'")
				return nil, false
			}
			return ast.NewGeneratorExp(first, gens, openTok.Start, closeTok.End), true
		}
		reset(p, m2)
	}

	items, trailing, ok := starOrNamedListTrailing(p)
	if !ok {
		reset(p, m)
		return nil, false
	}
	closeTok, ok := expectOp(p, ")")
	if !ok {
		raiseAt(p, perrors.ECodeUnclosedDelimiter, currentPos(p), "expected ')'")
		return nil, false
	}
	if len(items) == 1 && !trailing {
		return items[0], true
	}
	return ast.NewTuple(items, ast.Load, openTok.Start, closeTok.End), true
}

func starOrNamedList(p *engine.Parser) ([]ast.Expr, bool) {
	items, _, ok := starOrNamedListTrailing(p)
	return items, ok
}

// starOrNamedListTrailing is starOrNamedList plus whether the list ended
// in a bare `,` before the closing delimiter — the distinction between
// `(x)` (a grouped expression) and `(x,)` (a one-element tuple) that a
// plain gather result discards.
func starOrNamedListTrailing(p *engine.Parser) ([]ast.Expr, bool, bool) {
	first, ok := starOrNamedExpr(p)
	if !ok {
		return nil, false, false
	}
	items := []ast.Expr{first}
	trailing := false
	for {
		m := mark(p)
		if _, ok := expectOp(p, ","); !ok {
			reset(p, m)
			trailing = false
			break
		}
		next, ok := starOrNamedExpr(p)
		if !ok {
			reset(p, m)
			expectOp(p, ",")
			trailing = true
			break
		}
		items = append(items, next)
		trailing = false
	}
	return items, trailing, true
}

func starOrNamedExpr(p *engine.Parser) (ast.Expr, bool) {
	if tok, ok := expectOp(p, "*"); ok {
		v, ok := engine.Rule[ast.Expr](p, idBitOr, bitOr)
		if !ok {
			raiseAt(p, perrors.ECodeMissingExpression, currentPos(p), "expected expression after '*'")
			return nil, false
		}
		return ast.NewStarred(v, ast.Load, tok.Start, v.End()), true
	}
	return engine.Rule[ast.Expr](p, idNamedExpression, namedExpression)
}

func listOrListcomp(p *engine.Parser) (ast.Expr, bool) {
	m := mark(p)
	openTok, ok := expectOp(p, "[")
	if !ok {
		return nil, false
	}
	if closeTok, ok := expectOp(p, "]"); ok {
		return ast.NewList(nil, ast.Load, openTok.Start, closeTok.End), true
	}
	m2 := mark(p)
	if first, ok := engine.Rule[ast.Expr](p, idNamedExpression, namedExpression); ok {
		if gens, ok := comprehensionClauses(p); ok {
			closeTok, ok := expectOp(p, "]")
			if !ok {
				raiseAt(p, perrors.ECodeUnclosedDelimiter, currentPos(p), "expected ']'")
				return nil, false
			}
			return ast.NewListComp(first, gens, openTok.Start, closeTok.End), true
		}
		reset(p, m2)
	}
	items, ok := starOrNamedList(p)
	if !ok {
		reset(p, m)
		return nil, false
	}
	closeTok, ok := expectOp(p, "]")
	if !ok {
		raiseAt(p, perrors.ECodeUnclosedDelimiter, currentPos(p), "expected ']'")
		return nil, false
	}
	return ast.NewList(items, ast.Load, openTok.Start, closeTok.End), true
}

// setOrDictOrComp handles `{` ... `}`: a set/dict display, or a
// set/dict comprehension.
func setOrDictOrComp(p *engine.Parser) (ast.Expr, bool) {
	m := mark(p)
	openTok, ok := expectOp(p, "{")
	if !ok {
		return nil, false
	}
	if closeTok, ok := expectOp(p, "}"); ok {
		return ast.NewDict(nil, openTok.Start, closeTok.End), true
	}

	if tok, ok := expectOp(p, "**"); ok {
		v, ok := engine.Rule[ast.Expr](p, idBitOr, bitOr)
		if !ok {
			raiseAt(p, perrors.ECodeMissingExpression, currentPos(p), "expected expression after '**'")
			return nil, false
		}
		entries := []ast.DictEntry{{Key: nil, Value: v}}
		_ = tok
		return dictRest(p, openTok, entries)
	}

	m2 := mark(p)
	key, ok := engine.Rule[ast.Expr](p, idExpression, expression)
	if ok {
		if _, ok := expectOp(p, ":"); ok {
			value, ok := engine.Rule[ast.Expr](p, idExpression, expression)
			if !ok {
				raiseAt(p, perrors.ECodeMissingExpression, currentPos(p), "expected dict value expression")
				return nil, false
			}
			m3 := mark(p)
			if gens, ok := comprehensionClauses(p); ok {
				closeTok, ok := expectOp(p, "}")
				if !ok {
					raiseAt(p, perrors.ECodeUnclosedDelimiter, currentPos(p), "expected '}'")
					return nil, false
				}
				return ast.NewDictComp(key, value, gens, openTok.Start, closeTok.End), true
			}
			reset(p, m3)
			return dictRest(p, openTok, []ast.DictEntry{{Key: key, Value: value}})
		}
		m4 := mark(p)
		if gens, ok := comprehensionClauses(p); ok {
			closeTok, ok := expectOp(p, "}")
			if !ok {
				raiseAt(p, perrors.ECodeUnclosedDelimiter, currentPos(p), "expected '}'")
				return nil, false
			}
			return ast.NewSetComp(key, gens, openTok.Start, closeTok.End), true
		}
		reset(p, m4)
	}
	reset(p, m2)

	items, ok := starOrNamedList(p)
	if !ok {
		reset(p, m)
		return nil, false
	}
	closeTok, ok := expectOp(p, "}")
	if !ok {
		raiseAt(p, perrors.ECodeUnclosedDelimiter, currentPos(p), "expected '}'")
		return nil, false
	}
	return ast.NewSet(items, openTok.Start, closeTok.End), true
}

// dictRest continues parsing a dict display after its first `key: value`
// or `**expr` entry, collecting `, key: value | **expr` pairs until the
// closing `}`.
func dictRest(p *engine.Parser, openTok token.Token, entries []ast.DictEntry) (ast.Expr, bool) {
	for {
		m := mark(p)
		if _, ok := expectOp(p, ","); !ok {
			reset(p, m)
			break
		}
		if closeAhead := negative(p, dictEntry); closeAhead {
			break
		}
		entry, ok := dictEntry(p)
		if !ok {
			reset(p, m)
			break
		}
		entries = append(entries, entry)
	}
	closeTok, ok := expectOp(p, "}")
	if !ok {
		raiseAt(p, perrors.ECodeUnclosedDelimiter, currentPos(p), "expected '}'")
		return nil, false
	}
	return ast.NewDict(entries, openTok.Start, closeTok.End), true
}

func dictEntry(p *engine.Parser) (ast.DictEntry, bool) {
	if _, ok := expectOp(p, "**"); ok {
		v, ok := engine.Rule[ast.Expr](p, idBitOr, bitOr)
		if !ok {
			return ast.DictEntry{}, false
		}
		return ast.DictEntry{Key: nil, Value: v}, true
	}
	key, ok := engine.Rule[ast.Expr](p, idExpression, expression)
	if !ok {
		return ast.DictEntry{}, false
	}
	if _, ok := expectOp(p, ":"); !ok {
		return ast.DictEntry{}, false
	}
	value, ok := engine.Rule[ast.Expr](p, idExpression, expression)
	if !ok {
		return ast.DictEntry{}, false
	}
	return ast.DictEntry{Key: key, Value: value}, true
}
