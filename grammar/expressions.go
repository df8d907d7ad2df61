package grammar

import (
	"strings"

	"github.com/corepeg/pyparser/ast"
	"github.com/corepeg/pyparser/engine"
	"github.com/corepeg/pyparser/perrors"
	"github.com/corepeg/pyparser/token"
)

// expression is the grammar's top expression production: a conditional
// expression, a lambda, or a plain disjunction, grounded on CPython's
// Grammar/python.gram `expression` rule.
func expression(p *engine.Parser) (ast.Expr, bool) {
	if e, ok := lambdef(p); ok {
		return e, true
	}

	m := mark(p)
	body, ok := engine.Rule[ast.Expr](p, idDisjunction, disjunction)
	if !ok {
		reset(p, m)
		return nil, false
	}
	m2 := mark(p)
	if _, ok := expectKeyword(p, kwIf); ok {
		test, ok := engine.Rule[ast.Expr](p, idDisjunction, disjunction)
		if !ok {
			raiseAt(p, perrors.ECodeMissingExpression, currentPos(p), "expected conditional expression after 'if'")
			return nil, false
		}
		if _, ok := expectKeyword(p, kwElse); !ok {
			raiseAt(p, perrors.ECodeInvalidSyntax, currentPos(p), "expected 'else'")
			return nil, false
		}
		orElse, ok := engine.Rule[ast.Expr](p, idExpression, expression)
		if !ok {
			raiseAt(p, perrors.ECodeMissingExpression, currentPos(p), "expected expression after 'else'")
			return nil, false
		}
		return ast.NewIfExp(test, body, orElse, body.Pos(), orElse.End()), true
	}
	reset(p, m2)
	return body, true
}

// namedExpression additionally accepts the walrus form `NAME := expr`
// (spec.md's supplemented assignment-expression feature).
func namedExpression(p *engine.Parser) (ast.Expr, bool) {
	m := mark(p)
	if tok, name, ok := expectName(p); ok {
		if _, ok := expectOp(p, ":="); ok {
			value, ok := engine.Rule[ast.Expr](p, idExpression, expression)
			if !ok {
				raiseAt(p, perrors.ECodeMissingExpression, currentPos(p), "expected expression after ':='")
				return nil, false
			}
			target := ast.NewName(name, ast.Store, tok.Start, tok.End)
			return ast.NewNamedExpr(target, value, tok.Start, value.End()), true
		}
	}
	reset(p, m)
	return engine.Rule[ast.Expr](p, idExpression, expression)
}

func lambdef(p *engine.Parser) (ast.Expr, bool) {
	m := mark(p)
	tok, ok := expectKeyword(p, kwLambda)
	if !ok {
		reset(p, m)
		return nil, false
	}
	args, ok := paramList(p)
	if !ok {
		args = ast.MakeArguments(nil, nil, nil, nil, nil)
	}
	if _, ok := expectOp(p, ":"); !ok {
		reset(p, m)
		return nil, false
	}
	body, ok := engine.Rule[ast.Expr](p, idExpression, expression)
	if !ok {
		raiseAt(p, perrors.ECodeMissingExpression, currentPos(p), "expected lambda body")
		return nil, false
	}
	return ast.NewLambda(args, body, tok.Start, body.End()), true
}

func disjunction(p *engine.Parser) (ast.Expr, bool) {
	first, ok := engine.Rule[ast.Expr](p, idConjunction, conjunction)
	if !ok {
		return nil, false
	}
	values := []ast.Expr{first}
	for {
		m := mark(p)
		if _, ok := expectKeyword(p, kwOr); !ok {
			reset(p, m)
			break
		}
		next, ok := engine.Rule[ast.Expr](p, idConjunction, conjunction)
		if !ok {
			reset(p, m)
			break
		}
		values = append(values, next)
	}
	if len(values) == 1 {
		return values[0], true
	}
	return ast.NewBoolOp(ast.Or, values, values[0].Pos(), values[len(values)-1].End()), true
}

func conjunction(p *engine.Parser) (ast.Expr, bool) {
	first, ok := engine.Rule[ast.Expr](p, idInversion, inversion)
	if !ok {
		return nil, false
	}
	values := []ast.Expr{first}
	for {
		m := mark(p)
		if _, ok := expectKeyword(p, kwAnd); !ok {
			reset(p, m)
			break
		}
		next, ok := engine.Rule[ast.Expr](p, idInversion, inversion)
		if !ok {
			reset(p, m)
			break
		}
		values = append(values, next)
	}
	if len(values) == 1 {
		return values[0], true
	}
	return ast.NewBoolOp(ast.And, values, values[0].Pos(), values[len(values)-1].End()), true
}

func inversion(p *engine.Parser) (ast.Expr, bool) {
	m := mark(p)
	if tok, ok := expectKeyword(p, kwNot); ok {
		operand, ok := engine.Rule[ast.Expr](p, idInversion, inversion)
		if !ok {
			raiseAt(p, perrors.ECodeMissingExpression, currentPos(p), "expected expression after 'not'")
			return nil, false
		}
		return ast.NewUnaryOp(ast.Not, operand, tok.Start, operand.End()), true
	}
	reset(p, m)
	return engine.Rule[ast.Expr](p, idComparison, comparison)
}

func comparison(p *engine.Parser) (ast.Expr, bool) {
	left, ok := engine.Rule[ast.Expr](p, idBitOr, bitOr)
	if !ok {
		return nil, false
	}
	var ops []ast.CmpOp
	var comparators []ast.Expr
	for {
		m := mark(p)
		op, ok := compareOpBitOrPair(p)
		if !ok {
			reset(p, m)
			break
		}
		ops = append(ops, op.op)
		comparators = append(comparators, op.right)
	}
	if len(ops) == 0 {
		return left, true
	}
	end := comparators[len(comparators)-1].End()
	return ast.NewCompare(left, ops, comparators, left.Pos(), end), true
}

type cmpPair struct {
	op    ast.CmpOp
	right ast.Expr
}

// compareOpBitOrPair matches one comparison operator (including the
// two-word `is not` / `not in` forms, and barry_as_FLUFL's `<>` once
// that __future__ import has been seen) followed by its right operand.
func compareOpBitOrPair(p *engine.Parser) (cmpPair, bool) {
	if tok, ok := expectKeyword(p, kwIs); ok {
		op := ast.Is
		m := mark(p)
		if _, ok := expectKeyword(p, kwNot); ok {
			op = ast.IsNot
		} else {
			reset(p, m)
		}
		right, ok := engine.Rule[ast.Expr](p, idBitOr, bitOr)
		if !ok {
			raiseAt(p, perrors.ECodeMissingExpression, currentPos(p), "expected expression after '%s'", tok.Text())
			return cmpPair{}, false
		}
		return cmpPair{op, right}, true
	}
	m0 := mark(p)
	if _, ok := expectKeyword(p, kwNot); ok {
		if _, ok := expectKeyword(p, kwIn); ok {
			right, ok := engine.Rule[ast.Expr](p, idBitOr, bitOr)
			if !ok {
				raiseAt(p, perrors.ECodeMissingExpression, currentPos(p), "expected expression after 'not in'")
				return cmpPair{}, false
			}
			return cmpPair{ast.NotIn, right}, true
		}
		reset(p, m0)
	}
	if tok, ok := expectKeyword(p, kwIn); ok {
		right, ok := engine.Rule[ast.Expr](p, idBitOr, bitOr)
		if !ok {
			raiseAt(p, perrors.ECodeMissingExpression, currentPos(p), "expected expression after '%s'", tok.Text())
			return cmpPair{}, false
		}
		return cmpPair{ast.In, right}, true
	}
	active := barryActive(p)
	if active {
		if tok, ok := expectOp(p, "!="); ok {
			raiseAt(p, perrors.ECodeInvalidSyntax, tok.Start,
				"with barry_as_FLUFL, use '<>' instead of '!='")
			return cmpPair{}, false
		}
	}
	for text, op := range cmpOps {
		if text == "<>" && !active {
			continue
		}
		if text == "!=" && active {
			continue
		}
		if _, ok := expectOp(p, text); ok {
			right, ok := engine.Rule[ast.Expr](p, idBitOr, bitOr)
			if !ok {
				raiseAt(p, perrors.ECodeMissingExpression, currentPos(p), "expected expression after '%s'", text)
				return cmpPair{}, false
			}
			return cmpPair{op, right}, true
		}
	}
	return cmpPair{}, false
}

func leftAssocBinary(p *engine.Parser, nextID int, next func(*engine.Parser) (ast.Expr, bool), ops ...string) (ast.Expr, bool) {
	left, ok := engine.Rule[ast.Expr](p, nextID, next)
	if !ok {
		return nil, false
	}
	for {
		m := mark(p)
		matched := ""
		for _, op := range ops {
			if _, ok := expectOp(p, op); ok {
				matched = op
				break
			}
		}
		if matched == "" {
			reset(p, m)
			break
		}
		right, ok := engine.Rule[ast.Expr](p, nextID, next)
		if !ok {
			reset(p, m)
			break
		}
		left = ast.NewBinOp(left, binOps[matched], right, left.Pos(), right.End())
	}
	return left, true
}

func bitOr(p *engine.Parser) (ast.Expr, bool) {
	return leftAssocBinary(p, idBitXor, bitXor, "|")
}
func bitXor(p *engine.Parser) (ast.Expr, bool) {
	return leftAssocBinary(p, idBitAnd, bitAnd, "^")
}
func bitAnd(p *engine.Parser) (ast.Expr, bool) {
	return leftAssocBinary(p, idShiftExpr, shiftExpr, "&")
}
func shiftExpr(p *engine.Parser) (ast.Expr, bool) {
	return leftAssocBinary(p, idArith, arith, "<<", ">>")
}
func arith(p *engine.Parser) (ast.Expr, bool) {
	return leftAssocBinary(p, idTerm, term, "+", "-")
}
func term(p *engine.Parser) (ast.Expr, bool) {
	return leftAssocBinary(p, idFactor, factor, "*", "/", "//", "%", "@")
}

func factor(p *engine.Parser) (ast.Expr, bool) {
	m := mark(p)
	for text, op := range map[string]ast.UnaryOperator{"+": ast.UAdd, "-": ast.USub, "~": ast.Invert} {
		if tok, ok := expectOp(p, text); ok {
			operand, ok := engine.Rule[ast.Expr](p, idFactor, factor)
			if !ok {
				raiseAt(p, perrors.ECodeMissingExpression, currentPos(p), "expected expression after '%s'", text)
				return nil, false
			}
			return ast.NewUnaryOp(op, operand, tok.Start, operand.End()), true
		}
	}
	reset(p, m)
	return engine.Rule[ast.Expr](p, idPower, power)
}

// power is right-associative: `2 ** -3 ** 4` parses as `2 ** (-(3**4))`.
func power(p *engine.Parser) (ast.Expr, bool) {
	left, ok := engine.Rule[ast.Expr](p, idAwaitPrimary, awaitPrimary)
	if !ok {
		return nil, false
	}
	m := mark(p)
	if _, ok := expectOp(p, "**"); ok {
		right, ok := engine.Rule[ast.Expr](p, idFactor, factor)
		if !ok {
			reset(p, m)
			return left, true
		}
		return ast.NewBinOp(left, ast.Pow, right, left.Pos(), right.End()), true
	}
	reset(p, m)
	return left, true
}

func awaitPrimary(p *engine.Parser) (ast.Expr, bool) {
	m := mark(p)
	if tok, ok := expectKeyword(p, kwAwait); ok {
		value, ok := engine.Rule[ast.Expr](p, idPrimary, primary)
		if !ok {
			raiseAt(p, perrors.ECodeMissingExpression, currentPos(p), "expected expression after 'await'")
			return nil, false
		}
		return ast.NewAwait(value, tok.Start, value.End()), true
	}
	reset(p, m)
	return engine.Rule[ast.Expr](p, idPrimary, primary)
}

// primary parses an atom followed by zero or more trailers: attribute
// access, subscripting, and calls.
func primary(p *engine.Parser) (ast.Expr, bool) {
	left, ok := engine.Rule[ast.Expr](p, idAtom, atom)
	if !ok {
		return nil, false
	}
	for {
		m := mark(p)
		if _, ok := expectOp(p, "."); ok {
			tok, name, ok := expectName(p)
			if !ok {
				raiseAt(p, perrors.ECodeExpectedIdentifier, currentPos(p), "expected attribute name after '.'")
				return nil, false
			}
			left = ast.NewAttribute(left, name, ast.Load, left.Pos(), tok.End)
			continue
		}
		if _, ok := expectOp(p, "("); ok {
			args, keywords, ok := callArgs(p)
			if !ok {
				reset(p, m)
				break
			}
			endTok, ok := expectOp(p, ")")
			if !ok {
				raiseAt(p, perrors.ECodeUnclosedDelimiter, currentPos(p), "expected ')'")
				return nil, false
			}
			left = ast.NewCall(left, args, keywords, left.Pos(), endTok.End)
			continue
		}
		if _, ok := expectOp(p, "["); ok {
			sl, ok := slices(p)
			if !ok {
				raiseAt(p, perrors.ECodeMissingExpression, currentPos(p), "expected subscript expression")
				return nil, false
			}
			endTok, ok := expectOp(p, "]")
			if !ok {
				raiseAt(p, perrors.ECodeUnclosedDelimiter, currentPos(p), "expected ']'")
				return nil, false
			}
			left = ast.NewSubscript(left, sl, ast.Load, left.Pos(), endTok.End)
			continue
		}
		reset(p, m)
		break
	}
	return left, true
}

func slices(p *engine.Parser) (ast.Expr, bool) {
	items, ok := gather(p, oneSlice, ",")
	if !ok {
		return nil, false
	}
	if len(items) == 1 {
		return items[0], true
	}
	return ast.NewTuple(items, ast.Load, items[0].Pos(), items[len(items)-1].End()), true
}

func oneSlice(p *engine.Parser) (ast.Expr, bool) {
	start := currentPos(p)
	m := mark(p)
	var lower, upper, step ast.Expr
	lower, _ = engine.Rule[ast.Expr](p, idNamedExpression, namedExpression)
	if _, ok := expectOp(p, ":"); !ok {
		if lower != nil {
			return lower, true
		}
		reset(p, m)
		return nil, false
	}
	upper, _ = engine.Rule[ast.Expr](p, idExpression, expression)
	if _, ok := expectOp(p, ":"); ok {
		step, _ = engine.Rule[ast.Expr](p, idExpression, expression)
	}
	end := lastEndPos(p)
	return ast.NewSlice(lower, upper, step, start, end), true
}

func callArgs(p *engine.Parser) ([]ast.Expr, []ast.Keyword, bool) {
	m := mark(p)
	items, ok := gather(p, callArg, ",")
	if !ok {
		reset(p, m)
		return nil, nil, true
	}
	args, keywords := ast.CollectCallArgs(items)
	return args, keywords, true
}

func callArg(p *engine.Parser) (ast.CallArg, bool) {
	if tok, ok := expectOp(p, "**"); ok {
		v, ok := engine.Rule[ast.Expr](p, idExpression, expression)
		if !ok {
			raiseAt(p, perrors.ECodeMissingExpression, currentPos(p), "expected expression after '**'")
			return ast.CallArg{}, false
		}
		return ast.CallArg{Keyword: &ast.Keyword{Arg: "", Value: v, KeyPos: tok.Start}}, true
	}
	if tok, ok := expectOp(p, "*"); ok {
		v, ok := engine.Rule[ast.Expr](p, idExpression, expression)
		if !ok {
			raiseAt(p, perrors.ECodeMissingExpression, currentPos(p), "expected expression after '*'")
			return ast.CallArg{}, false
		}
		return ast.CallArg{Positional: ast.NewStarred(v, ast.Load, tok.Start, v.End())}, true
	}
	m := mark(p)
	if tok, name, ok := expectName(p); ok {
		if _, ok := expectOp(p, "="); ok {
			v, ok := engine.Rule[ast.Expr](p, idExpression, expression)
			if !ok {
				raiseAt(p, perrors.ECodeMissingExpression, currentPos(p), "expected expression after '='")
				return ast.CallArg{}, false
			}
			return ast.CallArg{Keyword: &ast.Keyword{Arg: name, Value: v, KeyPos: tok.Start}}, true
		}
		reset(p, m)
	}
	v, ok := engine.Rule[ast.Expr](p, idNamedExpression, namedExpression)
	if !ok {
		return ast.CallArg{}, false
	}
	return ast.CallArg{Positional: v}, true
}

func atom(p *engine.Parser) (ast.Expr, bool) {
	tok, err := p.Buffer.Current()
	if err != nil {
		return nil, false
	}

	switch tok.Kind {
	case token.NAME:
		p.Buffer.Mark++
		return ast.NewName(ast.NewIdentifier(tok.Text()), ast.Load, tok.Start, tok.End), true
	case token.NUMBER:
		p.Buffer.Mark++
		v, err := ast.ParseNumber(tok.Text(), p.FeatureVersion)
		if err != nil {
			raiseAt(p, perrors.ECodeInvalidNumber, tok.Start, "invalid numeric literal: %s", tok.Text())
			return nil, false
		}
		return ast.NewConstant(v, "", tok.Start, tok.End), true
	case token.STRING, token.FSTRING_START:
		return stringAtom(p)
	}

	if kwTok, ok := expectKeyword(p, kwTrue); ok {
		return ast.NewConstant(true, "", kwTok.Start, kwTok.End), true
	}
	if kwTok, ok := expectKeyword(p, kwFalse); ok {
		return ast.NewConstant(false, "", kwTok.Start, kwTok.End), true
	}
	if kwTok, ok := expectKeyword(p, kwNone); ok {
		return ast.NewConstant(nil, "", kwTok.Start, kwTok.End), true
	}
	if opTok, ok := expectOp(p, "..."); ok {
		return ast.NewConstant(ast.Ellipsis{}, "", opTok.Start, opTok.End), true
	}

	if e, ok := groupOrTupleOrGenexp(p); ok {
		return e, true
	}
	if e, ok := listOrListcomp(p); ok {
		return e, true
	}
	if e, ok := setOrDictOrComp(p); ok {
		return e, true
	}
	return nil, false
}

// stringAtom consumes a run of adjacent STRING/f-string literals and
// folds them via ast.ConcatStrings, matching CPython's tokenizer-level
// adjacency concatenation (spec.md §4.4).
func stringAtom(p *engine.Parser) (ast.Expr, bool) {
	var parts []ast.Expr
	start := currentPos(p)
	for {
		tok, err := p.Buffer.Current()
		if err != nil {
			break
		}
		if tok.Kind == token.STRING {
			p.Buffer.Mark++
			v, kind, warnings, serr := ast.ParseString(tok.Text(), tok.Start, tok.End, p.FeatureVersion)
			for _, w := range warnings {
				p.Warn(perrors.WarningInvalidEscape, tok.Start, "invalid escape sequence '\\%c'", w.Char)
			}
			if serr != nil {
				p.SetError(serr)
				return nil, false
			}
			parts = append(parts, ast.NewConstant(v, kind, tok.Start, tok.End))
			continue
		}
		if tok.Kind == token.FSTRING_START {
			js, ok := fstringLiteral(p)
			if !ok {
				return nil, false
			}
			parts = append(parts, js)
			continue
		}
		break
	}
	if len(parts) == 0 {
		return nil, false
	}
	end := lastEndPos(p)
	result, cerr := ast.ConcatStrings(start, end, parts)
	if cerr != nil {
		p.SetError(cerr)
		return nil, false
	}
	return result, true
}

// fstringLiteral assembles one f-string's FSTRING_START/MIDDLE/END token
// run, reading embedded replacement-field expressions as ordinary
// grammar expressions (spec.md §4.1's PEP-701-style emission). Gated on
// feature_version ≥ 6 (spec.md §4.4; ast.ParseString enforces the same
// gate for tokenizers that hand an f-string to it as a single STRING
// token instead of this split token run).
func fstringLiteral(p *engine.Parser) (*ast.JoinedStr, bool) {
	startTok, ok, err := p.Buffer.Expect(token.FSTRING_START)
	if err != nil || !ok {
		return nil, false
	}
	if p.FeatureVersion < 6 {
		raiseAt(p, perrors.ECodeInvalidSyntax, startTok.Start, "f-strings require feature version 6 or higher")
		return nil, false
	}
	var parts []ast.FStringPart
	for {
		tok, err := p.Buffer.Current()
		if err != nil {
			return nil, false
		}
		switch tok.Kind {
		case token.FSTRING_END:
			p.Buffer.Mark++
			return ast.AssembleFString(startTok.Start, tok.End, parts), true
		case token.FSTRING_MIDDLE:
			p.Buffer.Mark++
			literal := strings.ReplaceAll(strings.ReplaceAll(tok.Text(), "{{", "{"), "}}", "}")
			parts = append(parts, ast.FStringPart{Literal: literal})
		default:
			part, ok := fstringReplacementField(p)
			if !ok {
				raiseAt(p, perrors.ECodeInvalidSyntax, currentPos(p), "f-string: expecting '}'")
				return nil, false
			}
			parts = append(parts, part)
		}
	}
}

func fstringReplacementField(p *engine.Parser) (ast.FStringPart, bool) {
	exprStart := currentPos(p)
	value, ok := engine.Rule[ast.Expr](p, idNamedExpression, namedExpression)
	if !ok {
		return ast.FStringPart{}, false
	}
	part := ast.FStringPart{Expr: value}

	if eqTok, ok := expectOp(p, "="); ok {
		if p.FeatureVersion < 8 {
			raiseAt(p, perrors.ECodeInvalidSyntax, currentPos(p), "self-documenting expressions in f-strings require feature version 8 or higher")
			return ast.FStringPart{}, false
		}
		part.Debug = true
		part.DebugText = ast.DebugExprText(rawTextBetween(p, exprStart, eqTok.Start))
	}

	for _, conv := range []string{"!s", "!r", "!a"} {
		if _, ok := expectOp(p, conv); ok {
			part.Conversion = rune(conv[1])
			break
		}
	}

	if _, ok := expectOp(p, ":"); ok {
		specTok, ok, err := p.Buffer.Expect(token.FSTRING_MIDDLE)
		if err != nil || !ok {
			return ast.FStringPart{}, false
		}
		part.FormatSpec = []ast.FStringPart{{Literal: specTok.Text()}}
	}
	return part, true
}

// rawTextBetween approximates the `{x=}` debug form's captured source
// text from the tokenizer's line text: the expression's source from its
// first token up to the `=`. Whitespace after the `=` is not captured.
// The result, with the `=` appended, becomes FormattedValue.DebugText and
// the literal Constant that precedes the field in the JoinedStr.
func rawTextBetween(p *engine.Parser, start, end token.Position) string {
	if p.Tok == nil || start.Line != end.Line {
		return ""
	}
	line := p.Tok.CurrentLine(start.Line)
	if start.Column < 0 || end.Column > len(line) || start.Column > end.Column {
		return ""
	}
	return line[start.Column:end.Column]
}
