package grammar

import (
	"github.com/corepeg/pyparser/ast"
	"github.com/corepeg/pyparser/engine"
	"github.com/corepeg/pyparser/perrors"
)

// param parses one `name [':' annotation]` parameter declaration.
func param(p *engine.Parser) (*ast.Arg, bool) {
	tok, name, ok := expectName(p)
	if !ok {
		return nil, false
	}
	end := tok.End
	var ann ast.Expr
	if _, ok := expectOp(p, ":"); ok {
		e, ok := engine.Rule[ast.Expr](p, idExpression, expression)
		if !ok {
			raiseAt(p, perrors.ECodeInvalidSyntax, currentPos(p), "expected annotation")
			return nil, false
		}
		ann = e
		end = e.End()
	}
	return ast.NewArg(name, ann, tok.Start, end), true
}

func paramMaybeDefault(p *engine.Parser) (ast.ArgWithDefault, bool) {
	a, ok := param(p)
	if !ok {
		return ast.ArgWithDefault{}, false
	}
	out := ast.ArgWithDefault{Arg: a}
	if _, ok := expectOp(p, "="); ok {
		v, ok := engine.Rule[ast.Expr](p, idExpression, expression)
		if !ok {
			raiseAt(p, perrors.ECodeMissingExpression, currentPos(p), "expected default value expression")
			return ast.ArgWithDefault{}, false
		}
		out.Default = v
	}
	return out, true
}

// paramList parses a 5-piece function parameter list, grounded on
// CPython's parameters rule: an optional run of positional-only params
// terminated by a bare `/`, then regular params, then `*`/`*args`
// introducing keyword-only params, then an optional `**kwargs`. It
// consumes up to (but not including) the closing `)`.
func paramList(p *engine.Parser) (*ast.Arguments, bool) {
	var posOnly, regular, kwOnly []ast.ArgWithDefault
	var star *ast.Arg
	var kwArg *ast.Arg
	sawStar := false

	first := true
	for {
		m := mark(p)
		if !first {
			if _, ok := expectOp(p, ","); !ok {
				reset(p, m)
				break
			}
		}
		first = false

		if _, ok := expectOp(p, "/"); ok {
			posOnly = append(posOnly, regular...)
			regular = nil
			continue
		}
		if _, ok := expectOp(p, "**"); ok {
			tok, name, ok := expectName(p)
			if !ok {
				raiseAt(p, perrors.ECodeExpectedIdentifier, currentPos(p), "expected parameter name after '**'")
				return nil, false
			}
			var ann ast.Expr
			end := tok.End
			if _, ok := expectOp(p, ":"); ok {
				if e, ok := engine.Rule[ast.Expr](p, idExpression, expression); ok {
					ann, end = e, e.End()
				}
			}
			kwArg = ast.NewArg(name, ann, tok.Start, end)
			continue
		}
		if _, ok := expectOp(p, "*"); ok {
			sawStar = true
			if tok, name, ok := expectName(p); ok {
				var ann ast.Expr
				end := tok.End
				if _, ok := expectOp(p, ":"); ok {
					if e, ok := engine.Rule[ast.Expr](p, idExpression, expression); ok {
						ann, end = e, e.End()
					}
				}
				star = ast.NewArg(name, ann, tok.Start, end)
			}
			continue
		}

		m2 := mark(p)
		pd, ok := paramMaybeDefault(p)
		if !ok {
			reset(p, m2)
			reset(p, m)
			break
		}
		if sawStar {
			kwOnly = append(kwOnly, pd)
		} else {
			regular = append(regular, pd)
		}
	}

	return ast.MakeArguments(posOnly, regular, star, kwOnly, kwArg), true
}

func parenthesizedParams(p *engine.Parser) (*ast.Arguments, bool) {
	if _, ok := expectOp(p, "("); !ok {
		return nil, false
	}
	args, ok := paramList(p)
	if !ok {
		return nil, false
	}
	if _, ok := expectOp(p, ")"); !ok {
		raiseAt(p, perrors.ECodeUnclosedDelimiter, currentPos(p), "expected ')'")
		return nil, false
	}
	return args, true
}

// funcTypeParamList parses a `(type, type, ...)` function-type-comment
// parameter list: bare annotations with synthesized blank names, used
// only by ParseFuncType.
func funcTypeParamList(p *engine.Parser) (*ast.Arguments, bool) {
	var regular []ast.ArgWithDefault
	if _, ok := expectOp(p, ")"); ok {
		return ast.MakeArguments(nil, nil, nil, nil, nil), true
	}
	types, ok := gather(p, func(p *engine.Parser) (ast.Expr, bool) {
		return engine.Rule[ast.Expr](p, idExpression, expression)
	}, ",")
	if !ok {
		return nil, false
	}
	for _, t := range types {
		regular = append(regular, ast.ArgWithDefault{Arg: ast.NewArg("", t, t.Pos(), t.End())})
	}
	if _, ok := expectOp(p, ")"); !ok {
		raiseAt(p, perrors.ECodeUnclosedDelimiter, currentPos(p), "expected ')'")
		return nil, false
	}
	if _, ok := expectOp(p, "->"); !ok {
		raiseAt(p, perrors.ECodeInvalidSyntax, currentPos(p), "expected '->'")
		return nil, false
	}
	if _, ok := engine.Rule[ast.Expr](p, idExpression, expression); !ok {
		return nil, false
	}
	return ast.MakeArguments(nil, regular, nil, nil, nil), true
}
