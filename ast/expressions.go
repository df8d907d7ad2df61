package ast

import "github.com/corepeg/pyparser/token"

// Name is an identifier reference; Ctx records whether it is read,
// assigned, or deleted (rewritten post-hoc by SetExprContext).
type Name struct {
	span
	Id  string
	Ctx ExprContext
}

func (x *Name) exprNode() {}

// Constant holds a literal value produced by ParseNumber, ParseString, or
// a keyword literal (True/False/None/Ellipsis).
type Constant struct {
	span
	Value any
	Kind  string // string-literal prefix annotation, e.g. "u" for a u"..." literal; usually ""
}

func (x *Constant) exprNode() {}

// BoolOp is a short-circuiting `and`/`or` chain; Values holds 2+ operands
// collected in one pass so repeated `a and b and c` builds one flat node
// instead of a binary tree, matching CPython's _PyAST_BoolOp.
type BoolOp struct {
	span
	Op     BoolOperator
	Values []Expr
}

func (x *BoolOp) exprNode() {}

type BoolOperator int

const (
	And BoolOperator = iota
	Or
)

// BinOp is a binary arithmetic/bitwise operator expression.
type BinOp struct {
	span
	Left  Expr
	Op    Operator
	Right Expr
}

func (x *BinOp) exprNode() {}

type Operator int

const (
	Add Operator = iota
	Sub
	Mult
	MatMult
	Div
	Mod
	Pow
	LShift
	RShift
	BitOr
	BitXor
	BitAnd
	FloorDiv
)

// UnaryOp is `-x`, `+x`, `~x`, or `not x`.
type UnaryOp struct {
	span
	Op      UnaryOperator
	Operand Expr
}

func (x *UnaryOp) exprNode() {}

type UnaryOperator int

const (
	Invert UnaryOperator = iota
	UAdd
	USub
	Not
)

// Lambda is a parameterless-or-parameterized anonymous function literal.
type Lambda struct {
	span
	Args *Arguments
	Body Expr
}

func (x *Lambda) exprNode() {}

// IfExp is the conditional expression `body if test else orelse`.
type IfExp struct {
	span
	Test   Expr
	Body   Expr
	OrElse Expr
}

func (x *IfExp) exprNode() {}

// DictEntry is one `key: value` pair in a Dict literal; Key is nil for a
// `**expr` dict-unpacking entry.
type DictEntry struct {
	Key   Expr
	Value Expr
}

// Dict is a dict display; unpacking entries (`**expr`) have a nil Key.
type Dict struct {
	span
	Entries []DictEntry
}

func (x *Dict) exprNode() {}

// Set is a set display `{a, b, c}`.
type Set struct {
	span
	Elts []Expr
}

func (x *Set) exprNode() {}

// Comprehension is one `for target in iter [if cond]*` clause shared by
// list/set/dict/generator comprehensions.
type Comprehension struct {
	Target   Expr
	Iter     Expr
	Ifs      []Expr
	IsAsync  bool
}

// ListComp, SetComp, DictComp, and GeneratorExp share the same shape:
// one result expression (or key/value pair) plus a chain of
// Comprehension clauses.
type ListComp struct {
	span
	Elt        Expr
	Generators []Comprehension
}

func (x *ListComp) exprNode() {}

type SetComp struct {
	span
	Elt        Expr
	Generators []Comprehension
}

func (x *SetComp) exprNode() {}

type DictComp struct {
	span
	Key        Expr
	Value      Expr
	Generators []Comprehension
}

func (x *DictComp) exprNode() {}

type GeneratorExp struct {
	span
	Elt        Expr
	Generators []Comprehension
}

func (x *GeneratorExp) exprNode() {}

// Await is `await expr`, only legal inside an async function.
type Await struct {
	span
	Value Expr
}

func (x *Await) exprNode() {}

// Yield is `yield [expr]`; Value is nil for a bare `yield`.
type Yield struct {
	span
	Value Expr
}

func (x *Yield) exprNode() {}

// YieldFrom is `yield from expr`.
type YieldFrom struct {
	span
	Value Expr
}

func (x *YieldFrom) exprNode() {}

// CmpOp enumerates the comparison operators chainable in a Compare node.
type CmpOp int

const (
	Eq CmpOp = iota
	NotEq
	Lt
	LtE
	Gt
	GtE
	Is
	IsNot
	In
	NotIn
)

// Compare is a chained comparison `a < b <= c`; Ops[i] relates
// Left-then-Comparators[0] (i==0) or Comparators[i-1]-then-Comparators[i].
type Compare struct {
	span
	Left        Expr
	Ops         []CmpOp
	Comparators []Expr
}

func (x *Compare) exprNode() {}

// Keyword is one `name=value` or `**value` (Arg=="") call argument.
type Keyword struct {
	Arg     string
	Value   Expr
	KeyPos  token.Position
}

// Call is a function/constructor invocation; Args holds positional
// arguments (Starred entries mixed in positionally) and Keywords holds
// `name=value`/`**value` arguments, per _PyPegen_collect_call_seqs.
type Call struct {
	span
	Func     Expr
	Args     []Expr
	Keywords []Keyword
}

func (x *Call) exprNode() {}

// FormattedValue is one `{expr[=][!conv][:spec]}` replacement field
// inside a JoinedStr.
type FormattedValue struct {
	span
	Value      Expr
	Conversion rune // 's', 'r', 'a', or 0 for none
	FormatSpec *JoinedStr
	Debug      bool   // true for the `{x=}` self-documenting form
	DebugText  string // Value's raw source text followed by "=", set when Debug is set
}

func (x *FormattedValue) exprNode() {}

// JoinedStr is an f-string's assembled value: a sequence of Constant
// (literal text) and FormattedValue (replacement field) expressions.
type JoinedStr struct {
	span
	Values []Expr
}

func (x *JoinedStr) exprNode() {}

// Attribute is `value.attr`.
type Attribute struct {
	span
	Value Expr
	Attr  string
	Ctx   ExprContext
}

func (x *Attribute) exprNode() {}

// Subscript is `value[slice]`.
type Subscript struct {
	span
	Value Expr
	Slice Expr
	Ctx   ExprContext
}

func (x *Subscript) exprNode() {}

// Slice is `lower:upper:step` inside a Subscript; any part may be nil.
type Slice struct {
	span
	Lower Expr
	Upper Expr
	Step  Expr
}

func (x *Slice) exprNode() {}

// Starred is `*value` used as an assignment target or call/display
// unpacking element.
type Starred struct {
	span
	Value Expr
	Ctx   ExprContext
}

func (x *Starred) exprNode() {}

// List is a list display `[a, b, c]`, also reused as an assignment
// target's bracketed form.
type List struct {
	span
	Elts []Expr
	Ctx  ExprContext
}

func (x *List) exprNode() {}

// Tuple is a tuple display, with or without parentheses.
type Tuple struct {
	span
	Elts []Expr
	Ctx  ExprContext
}

func (x *Tuple) exprNode() {}

// NamedExpr is the walrus assignment expression `target := value`.
type NamedExpr struct {
	span
	Target *Name
	Value  Expr
}

func (x *NamedExpr) exprNode() {}
