package ast

// GetExprName returns the human-readable label CPython's error messages
// use for an expression kind (e.g. "cannot assign to function call"),
// grounded on _PyPegen_get_expr_name (original_source's pegen.c).
func GetExprName(e Expr) string {
	switch x := e.(type) {
	case *BoolOp, *BinOp:
		return "operator"
	case *UnaryOp:
		return "unary operator"
	case *Lambda:
		return "lambda"
	case *IfExp:
		return "conditional expression"
	case *Dict, *DictComp:
		return "dict display"
	case *Set, *SetComp:
		return "set display"
	case *ListComp:
		return "list comprehension"
	case *GeneratorExp:
		return "generator expression"
	case *Await:
		return "await expression"
	case *Yield, *YieldFrom:
		return "yield expression"
	case *Compare:
		return "comparison"
	case *Call:
		return "function call"
	case *Constant:
		switch v := x.Value.(type) {
		case nil:
			return "None"
		case bool:
			if v {
				return "True"
			}
			return "False"
		case Ellipsis:
			return "ellipsis"
		}
		return "literal"
	case *JoinedStr, *FormattedValue:
		return "f-string expression"
	case *List:
		return "list"
	case *Tuple:
		return "tuple"
	case *Starred:
		return "starred assignment target"
	case *Slice:
		return "slice"
	case *NamedExpr:
		return "named expression"
	case *Attribute:
		return "attribute"
	case *Subscript:
		return "subscript"
	case *Name:
		return "name"
	default:
		return "expression"
	}
}

// InvalidTarget reports whether e cannot legally appear as an assignment
// target (kind AssignTargets/ForTargets), or a del target (DelTargets),
// recursing into List/Tuple elements and Starred's wrapped value.
// Grounded on _PyPegen_get_invalid_target (original_source's pegen.c):
// only Name, Attribute, Subscript, List, Tuple, and Starred are ever
// assignable; DelTargets additionally forbids Starred, which is only
// meaningful as an unpacking target, never a deletion target.
func InvalidTarget(kind TargetKind, e Expr) bool {
	if e == nil {
		return false
	}
	switch x := e.(type) {
	case *Name, *Attribute, *Subscript:
		return false
	case *Starred:
		if kind == DelTargets {
			return true
		}
		return InvalidTarget(kind, x.Value)
	case *List:
		for _, el := range x.Elts {
			if InvalidTarget(kind, el) {
				return true
			}
		}
		return false
	case *Tuple:
		for _, el := range x.Elts {
			if InvalidTarget(kind, el) {
				return true
			}
		}
		return false
	default:
		return true
	}
}
