package grammar

import "github.com/corepeg/pyparser/ast"

var binOps = map[string]ast.Operator{
	"+": ast.Add, "-": ast.Sub, "*": ast.Mult, "@": ast.MatMult,
	"/": ast.Div, "%": ast.Mod, "**": ast.Pow,
	"<<": ast.LShift, ">>": ast.RShift,
	"|": ast.BitOr, "^": ast.BitXor, "&": ast.BitAnd, "//": ast.FloorDiv,
}

var augAssignOps = map[string]ast.Operator{
	"+=": ast.Add, "-=": ast.Sub, "*=": ast.Mult, "@=": ast.MatMult,
	"/=": ast.Div, "%=": ast.Mod, "**=": ast.Pow,
	"<<=": ast.LShift, ">>=": ast.RShift,
	"|=": ast.BitOr, "^=": ast.BitXor, "&=": ast.BitAnd, "//=": ast.FloorDiv,
}

var cmpOps = map[string]ast.CmpOp{
	"==": ast.Eq, "!=": ast.NotEq, "<>": ast.NotEq,
	"<": ast.Lt, "<=": ast.LtE, ">": ast.Gt, ">=": ast.GtE,
}
