// Package ast implements the AST construction helpers (C4, spec.md
// §4.4): arena-allocated node variants, sequence manipulation,
// expression-context rewriting, f-string assembly, string concatenation,
// and argument-list assembly.
package ast

import "github.com/corepeg/pyparser/token"

// Node is implemented by every statement, expression, and pattern node.
// Locations are immutable after construction (spec.md §6).
type Node interface {
	Pos() token.Position
	End() token.Position
}

// Stmt is implemented by statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is implemented by expression nodes.
type Expr interface {
	Node
	exprNode()
}

// ExprContext tells later phases whether a value is being read (Load),
// assigned (Store), or deleted (Del). Spec.md §4.4.
type ExprContext int

const (
	Load ExprContext = iota
	Store
	Del
)

func (c ExprContext) String() string {
	switch c {
	case Store:
		return "Store"
	case Del:
		return "Del"
	default:
		return "Load"
	}
}

// TargetKind selects which validity rules InvalidTarget applies
// (spec.md §4.4).
type TargetKind int

const (
	AssignTargets TargetKind = iota
	ForTargets
	DelTargets
)

// span is an embeddable helper giving a node its Pos()/End() pair.
type span struct {
	start token.Position
	end   token.Position
}

func (s span) Pos() token.Position { return s.start }
func (s span) End() token.Position { return s.end }

func newSpan(start, end token.Position) span { return span{start: start, end: end} }
