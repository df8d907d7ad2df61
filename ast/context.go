package ast

// SetExprContext rewrites e's ExprContext to ctx, recursing into List,
// Tuple, and Starred so every leaf target inside a bracketed or starred
// assignment target gets the same context. Grounded on CPython's
// set_context in original_source's ast.c (reached via
// _PyPegen_set_expr_context), adapted here as a pure rebuild rather than
// an in-place mutation since nodes are otherwise treated as immutable
// once built (spec.md §6).
func SetExprContext(e Expr, ctx ExprContext) Expr {
	switch x := e.(type) {
	case *Name:
		return &Name{span: x.span, Id: x.Id, Ctx: ctx}
	case *Attribute:
		return &Attribute{span: x.span, Value: x.Value, Attr: x.Attr, Ctx: ctx}
	case *Subscript:
		return &Subscript{span: x.span, Value: x.Value, Slice: x.Slice, Ctx: ctx}
	case *Starred:
		return &Starred{span: x.span, Value: SetExprContext(x.Value, ctx), Ctx: ctx}
	case *List:
		elts := make([]Expr, len(x.Elts))
		for i, el := range x.Elts {
			elts[i] = SetExprContext(el, ctx)
		}
		return &List{span: x.span, Elts: elts, Ctx: ctx}
	case *Tuple:
		elts := make([]Expr, len(x.Elts))
		for i, el := range x.Elts {
			elts[i] = SetExprContext(el, ctx)
		}
		return &Tuple{span: x.span, Elts: elts, Ctx: ctx}
	default:
		return e
	}
}
