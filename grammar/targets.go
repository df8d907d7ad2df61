package grammar

import (
	"github.com/corepeg/pyparser/ast"
	"github.com/corepeg/pyparser/engine"
	"github.com/corepeg/pyparser/perrors"
)

// starTargetsList parses a `for`-loop or comprehension target: either a
// single target expression, or a bare (unparenthesized) comma-separated
// list folded into a Tuple, rewritten to Store context and checked
// against ast.InvalidTarget.
func starTargetsList(p *engine.Parser) (ast.Expr, bool) {
	items, ok := gather(p, starOrNamedExpr, ",")
	if !ok {
		return nil, false
	}
	var target ast.Expr
	if len(items) == 1 {
		target = items[0]
	} else {
		target = ast.NewTuple(items, ast.Load, items[0].Pos(), items[len(items)-1].End())
	}
	target = ast.SetExprContext(target, ast.Store)
	if ast.InvalidTarget(ast.ForTargets, target) {
		raiseInvalidTarget(p, target)
		return nil, false
	}
	return target, true
}

// assignTargets parses the `=`-separated left-hand sides of a (possibly
// chained) assignment statement, given the first target has already been
// parsed as a plain expression by the caller's lookahead.
func assignTargets(p *engine.Parser, first ast.Expr) ([]ast.Expr, ast.Expr, bool) {
	targets := []ast.Expr{first}
	for {
		m := mark(p)
		if _, ok := expectOp(p, "="); !ok {
			reset(p, m)
			break
		}
		next, ok := engine.Rule[ast.Expr](p, idExpression, expression)
		if !ok {
			raiseAt(p, perrors.ECodeMissingExpression, currentPos(p), "expected expression after '='")
			return nil, nil, false
		}
		targets = append(targets, next)
	}
	value := targets[len(targets)-1]
	lhs := targets[:len(targets)-1]
	if len(lhs) == 0 {
		return nil, nil, false
	}
	out := make([]ast.Expr, len(lhs))
	for i, t := range lhs {
		rewritten := ast.SetExprContext(t, ast.Store)
		if ast.InvalidTarget(ast.AssignTargets, rewritten) {
			raiseInvalidTarget(p, rewritten)
			return nil, nil, false
		}
		out[i] = rewritten
	}
	return out, value, true
}

// delTargetsList parses `del`'s comma-separated target list, checked
// against DelTargets' stricter rule (no Starred entries).
func delTargetsList(p *engine.Parser) ([]ast.Expr, bool) {
	items, ok := gather(p, func(p *engine.Parser) (ast.Expr, bool) {
		return engine.Rule[ast.Expr](p, idExpression, expression)
	}, ",")
	if !ok {
		return nil, false
	}
	out := make([]ast.Expr, len(items))
	for i, t := range items {
		rewritten := ast.SetExprContext(t, ast.Del)
		if ast.InvalidTarget(ast.DelTargets, rewritten) {
			raiseInvalidTarget(p, rewritten)
			return nil, false
		}
		out[i] = rewritten
	}
	return out, true
}
