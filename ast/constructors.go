package ast

import "github.com/corepeg/pyparser/token"

// Ellipsis is the Constant.Value held by a bare `...` literal.
type Ellipsis struct{}

// Constructors below mirror the call shape CPython's pegen-generated
// parser uses for every grammar action: a _PyAST_X(..., lineno,
// col_offset, end_lineno, end_col_offset, arena) constructor call per
// node, rather than an action building a struct literal inline
// (original_source's Parser/pegen.c and the generated parser.c). Package
// grammar calls these instead of struct-literal-constructing ast nodes
// directly, since a node's span is immutable and unexported once built.

func NewArg(name string, annotation Expr, start, end token.Position) *Arg {
	return &Arg{span: newSpan(start, end), Name: name, Annotation: annotation}
}

func NewName(id string, ctx ExprContext, start, end token.Position) *Name {
	return &Name{span: newSpan(start, end), Id: id, Ctx: ctx}
}

func NewConstant(value any, kind string, start, end token.Position) *Constant {
	return &Constant{span: newSpan(start, end), Value: value, Kind: kind}
}

func NewBoolOp(op BoolOperator, values []Expr, start, end token.Position) *BoolOp {
	return &BoolOp{span: newSpan(start, end), Op: op, Values: values}
}

func NewBinOp(left Expr, op Operator, right Expr, start, end token.Position) *BinOp {
	return &BinOp{span: newSpan(start, end), Left: left, Op: op, Right: right}
}

func NewUnaryOp(op UnaryOperator, operand Expr, start, end token.Position) *UnaryOp {
	return &UnaryOp{span: newSpan(start, end), Op: op, Operand: operand}
}

func NewLambda(args *Arguments, body Expr, start, end token.Position) *Lambda {
	return &Lambda{span: newSpan(start, end), Args: args, Body: body}
}

func NewIfExp(test, body, orElse Expr, start, end token.Position) *IfExp {
	return &IfExp{span: newSpan(start, end), Test: test, Body: body, OrElse: orElse}
}

func NewDict(entries []DictEntry, start, end token.Position) *Dict {
	return &Dict{span: newSpan(start, end), Entries: entries}
}

func NewSet(elts []Expr, start, end token.Position) *Set {
	return &Set{span: newSpan(start, end), Elts: elts}
}

func NewListComp(elt Expr, gens []Comprehension, start, end token.Position) *ListComp {
	return &ListComp{span: newSpan(start, end), Elt: elt, Generators: gens}
}

func NewSetComp(elt Expr, gens []Comprehension, start, end token.Position) *SetComp {
	return &SetComp{span: newSpan(start, end), Elt: elt, Generators: gens}
}

func NewDictComp(key, value Expr, gens []Comprehension, start, end token.Position) *DictComp {
	return &DictComp{span: newSpan(start, end), Key: key, Value: value, Generators: gens}
}

func NewGeneratorExp(elt Expr, gens []Comprehension, start, end token.Position) *GeneratorExp {
	return &GeneratorExp{span: newSpan(start, end), Elt: elt, Generators: gens}
}

func NewAwait(value Expr, start, end token.Position) *Await {
	return &Await{span: newSpan(start, end), Value: value}
}

func NewYield(value Expr, start, end token.Position) *Yield {
	return &Yield{span: newSpan(start, end), Value: value}
}

func NewYieldFrom(value Expr, start, end token.Position) *YieldFrom {
	return &YieldFrom{span: newSpan(start, end), Value: value}
}

func NewCompare(left Expr, ops []CmpOp, comparators []Expr, start, end token.Position) *Compare {
	return &Compare{span: newSpan(start, end), Left: left, Ops: ops, Comparators: comparators}
}

func NewCall(fn Expr, args []Expr, keywords []Keyword, start, end token.Position) *Call {
	return &Call{span: newSpan(start, end), Func: fn, Args: args, Keywords: keywords}
}

func NewAttribute(value Expr, attr string, ctx ExprContext, start, end token.Position) *Attribute {
	return &Attribute{span: newSpan(start, end), Value: value, Attr: attr, Ctx: ctx}
}

func NewSubscript(value, slice Expr, ctx ExprContext, start, end token.Position) *Subscript {
	return &Subscript{span: newSpan(start, end), Value: value, Slice: slice, Ctx: ctx}
}

func NewSlice(lower, upper, step Expr, start, end token.Position) *Slice {
	return &Slice{span: newSpan(start, end), Lower: lower, Upper: upper, Step: step}
}

func NewStarred(value Expr, ctx ExprContext, start, end token.Position) *Starred {
	return &Starred{span: newSpan(start, end), Value: value, Ctx: ctx}
}

func NewList(elts []Expr, ctx ExprContext, start, end token.Position) *List {
	return &List{span: newSpan(start, end), Elts: elts, Ctx: ctx}
}

func NewTuple(elts []Expr, ctx ExprContext, start, end token.Position) *Tuple {
	return &Tuple{span: newSpan(start, end), Elts: elts, Ctx: ctx}
}

func NewNamedExpr(target *Name, value Expr, start, end token.Position) *NamedExpr {
	return &NamedExpr{span: newSpan(start, end), Target: target, Value: value}
}

func NewFunctionDef(name string, args *Arguments, body []Stmt, decorators []Expr, returns Expr, isAsync bool, start, end token.Position) *FunctionDef {
	return &FunctionDef{span: newSpan(start, end), Name: name, Args: args, Body: body, Decorators: decorators, Returns: returns, IsAsync: isAsync}
}

func NewClassDef(name string, bases []Expr, keywords []Keyword, body []Stmt, decorators []Expr, start, end token.Position) *ClassDef {
	return &ClassDef{span: newSpan(start, end), Name: name, Bases: bases, Keywords: keywords, Body: body, Decorators: decorators}
}

func NewReturn(value Expr, start, end token.Position) *Return {
	return &Return{span: newSpan(start, end), Value: value}
}

func NewDelete(targets []Expr, start, end token.Position) *Delete {
	return &Delete{span: newSpan(start, end), Targets: targets}
}

func NewAssign(targets []Expr, value Expr, start, end token.Position) *Assign {
	return &Assign{span: newSpan(start, end), Targets: targets, Value: value}
}

func NewAugAssign(target Expr, op Operator, value Expr, start, end token.Position) *AugAssign {
	return &AugAssign{span: newSpan(start, end), Target: target, Op: op, Value: value}
}

func NewAnnAssign(target, annotation, value Expr, simple bool, start, end token.Position) *AnnAssign {
	return &AnnAssign{span: newSpan(start, end), Target: target, Annotation: annotation, Value: value, Simple: simple}
}

func NewFor(target, iter Expr, body, orElse []Stmt, isAsync bool, start, end token.Position) *For {
	return &For{span: newSpan(start, end), Target: target, Iter: iter, Body: body, OrElse: orElse, IsAsync: isAsync}
}

func NewWhile(test Expr, body, orElse []Stmt, start, end token.Position) *While {
	return &While{span: newSpan(start, end), Test: test, Body: body, OrElse: orElse}
}

func NewIf(test Expr, body, orElse []Stmt, start, end token.Position) *If {
	return &If{span: newSpan(start, end), Test: test, Body: body, OrElse: orElse}
}

func NewWith(items []WithItem, body []Stmt, isAsync bool, start, end token.Position) *With {
	return &With{span: newSpan(start, end), Items: items, Body: body, IsAsync: isAsync}
}

func NewRaise(exc, cause Expr, start, end token.Position) *Raise {
	return &Raise{span: newSpan(start, end), Exc: exc, Cause: cause}
}

func NewExceptHandler(typ Expr, name string, body []Stmt, star bool, start, end token.Position) *ExceptHandler {
	return &ExceptHandler{span: newSpan(start, end), Type: typ, Name: name, Body: body, Star: star}
}

func NewTry(body []Stmt, handlers []ExceptHandler, orElse, finalBody []Stmt, star bool, start, end token.Position) *Try {
	return &Try{span: newSpan(start, end), Body: body, Handlers: handlers, OrElse: orElse, FinalBody: finalBody, Star: star}
}

func NewAssert(test, msg Expr, start, end token.Position) *Assert {
	return &Assert{span: newSpan(start, end), Test: test, Msg: msg}
}

func NewImport(names []Alias, start, end token.Position) *Import {
	return &Import{span: newSpan(start, end), Names: names}
}

func NewImportFrom(module string, names []Alias, level int, start, end token.Position) *ImportFrom {
	return &ImportFrom{span: newSpan(start, end), Module: module, Names: names, Level: level}
}

func NewGlobal(names []string, start, end token.Position) *Global {
	return &Global{span: newSpan(start, end), Names: names}
}

func NewNonlocal(names []string, start, end token.Position) *Nonlocal {
	return &Nonlocal{span: newSpan(start, end), Names: names}
}

func NewExprStmt(value Expr, start, end token.Position) *ExprStmt {
	return &ExprStmt{span: newSpan(start, end), Value: value}
}

func NewPass(start, end token.Position) *Pass         { return &Pass{newSpan(start, end)} }
func NewBreak(start, end token.Position) *Break       { return &Break{newSpan(start, end)} }
func NewContinue(start, end token.Position) *Continue { return &Continue{newSpan(start, end)} }
