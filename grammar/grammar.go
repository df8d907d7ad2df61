// Package grammar is a hand-written rule table built on package engine,
// sized to exercise every scenario and invariant spec.md §8 names. A
// real deployment of this repository would generate this table offline
// from a `.gram` grammar file (the way CPython's own pegen generator
// does) rather than hand-writing it; spec.md §1 scopes that generator
// out ("this spec covers the runtime contracts those tables must
// satisfy"), so this package exists only to prove the engine/buffer/ast
// contracts are satisfiable, at a scale proportional to the spec's own
// example scenarios rather than Python's full grammar.
package grammar

import (
	"github.com/corepeg/pyparser/ast"
	"github.com/corepeg/pyparser/buffer"
	"github.com/corepeg/pyparser/engine"
	"github.com/corepeg/pyparser/token"
)

// Reserved-word Kind values live above token.TYPE_COMMENT so they never
// collide with the base token.Kind enumeration (buffer/keywords.go).
const (
	kwFalse token.Kind = iota + 100
	kwNone
	kwTrue
	kwAnd
	kwAs
	kwAssert
	kwAsync
	kwAwait
	kwBreak
	kwClass
	kwContinue
	kwDef
	kwDel
	kwElif
	kwElse
	kwExcept
	kwFinally
	kwFor
	kwFrom
	kwGlobal
	kwIf
	kwImport
	kwIn
	kwIs
	kwLambda
	kwNonlocal
	kwNot
	kwOr
	kwPass
	kwRaise
	kwReturn
	kwTry
	kwWhile
	kwWith
	kwYield
)

var reservedWords = map[string]token.Kind{
	"False": kwFalse, "None": kwNone, "True": kwTrue,
	"and": kwAnd, "as": kwAs, "assert": kwAssert, "async": kwAsync,
	"await": kwAwait, "break": kwBreak, "class": kwClass,
	"continue": kwContinue, "def": kwDef, "del": kwDel, "elif": kwElif,
	"else": kwElse, "except": kwExcept, "finally": kwFinally, "for": kwFor,
	"from": kwFrom, "global": kwGlobal, "if": kwIf, "import": kwImport,
	"in": kwIn, "is": kwIs, "lambda": kwLambda, "nonlocal": kwNonlocal,
	"not": kwNot, "or": kwOr, "pass": kwPass, "raise": kwRaise,
	"return": kwReturn, "try": kwTry, "while": kwWhile, "with": kwWith,
	"yield": kwYield,
}

// softKeywords are handed to the buffer but never promoted at the lexical
// level, matching spec.md §4.1's soft-keyword design. No rule in this
// grammar calls buffer.ExpectSoftKeyword, so they parse as ordinary
// identifiers everywhere.
var softKeywords = []string{"match", "case", "_", "type"}

// NewKeywordTable builds the buffer.KeywordTable this grammar's rules
// rely on for NAME-to-reserved-word promotion.
func NewKeywordTable() *buffer.KeywordTable { return buffer.NewKeywordTable(reservedWords) }

// SoftKeywords returns the grammar's soft-keyword list, for
// buffer.New's softKeywords parameter.
func SoftKeywords() []string { return softKeywords }

// rule ids, one per memoized production (engine.Rule/LeftRecursiveRule's
// id parameter). Grouped loosely by grammar layer.
const (
	idFile = iota
	idInteractive
	idEval
	idStatements
	idStatement
	idSimpleStmts
	idSimpleStmt
	idCompoundStmt
	idAssignment
	idReturnStmt
	idDelStmt
	idPassStmt
	idBreakStmt
	idContinueStmt
	idGlobalStmt
	idNonlocalStmt
	idRaiseStmt
	idImportStmt
	idImportName
	idImportFrom
	idAssertStmt
	idPrintStmt
	idIfStmt
	idElifStmt
	idElseBlock
	idWhileStmt
	idForStmt
	idWithStmt
	idWithItem
	idTryStmt
	idExceptBlock
	idFuncDef
	idClassDef
	idDecorators
	idBlock
	idParams
	idParamNoDefault
	idParamWithDefault
	idStarEtc
	idKwds
	idNamedExpression
	idExpression
	idDisjunction
	idConjunction
	idInversion
	idComparison
	idBitOr
	idBitXor
	idBitAnd
	idShiftExpr
	idArith
	idTerm
	idFactor
	idPower
	idAwaitPrimary
	idPrimary
	idSlices
	idSlice
	idAtom
	idStrings
	idFString
	idList
	idTuple
	idGroup
	idSet
	idDict
	idDoubleStarredKvpairs
	idKvpair
	idComprehension
	idArgs
	idKwargOrStarred
	idKwargOrDoubleStarred
	idTargetExpr
	idStarTargets
	idStarTarget
	idDelTargets
	idDelTarget
	idLambdef
	idLambdaParams
	idFuncType
)

// ParseFile is the engine.StartFunc for StartFile: a whole module.
func ParseFile(p *engine.Parser) (*ast.Module, bool) {
	body, ok := engine.Rule[[]ast.Stmt](p, idStatements, statements)
	if !ok {
		body = nil
	}
	if _, ok, err := p.Buffer.Expect(token.ENDMARKER); err != nil || !ok {
		return nil, false
	}
	typeIgnores := make([]ast.TypeIgnore, 0, len(p.Buffer.TypeIgnoreList))
	for _, c := range p.Buffer.TypeIgnoreList {
		typeIgnores = append(typeIgnores, ast.TypeIgnore{Lineno: c.Lineno, Tag: c.Text})
	}
	return ast.MakeModule(body, typeIgnores), true
}

// ParseSingle is the engine.StartFunc for StartSingle: one interactive
// statement (spec.md §4.3's single_input start rule).
func ParseSingle(p *engine.Parser) (ast.Stmt, bool) {
	stmts, ok := engine.Rule[[]ast.Stmt](p, idSimpleStmts, simpleStmts)
	if !ok || len(stmts) == 0 {
		return nil, false
	}
	return stmts[0], true
}

// ParseEval is the engine.StartFunc for StartEval: a bare expression
// followed by ENDMARKER (spec.md's eval_input).
func ParseEval(p *engine.Parser) (ast.Expr, bool) {
	expr, ok := engine.Rule[ast.Expr](p, idExpression, expression)
	if !ok {
		return nil, false
	}
	skipNewlines(p)
	if _, ok, err := p.Buffer.Expect(token.ENDMARKER); err != nil || !ok {
		return nil, false
	}
	return expr, true
}

// ParseFString is the engine.StartFunc for StartFString: a single
// replacement-field expression, used when the host re-parses an
// f-string's expression text in isolation (spec.md §4.1's f-string
// sub-expression re-projection).
func ParseFString(p *engine.Parser) (ast.Expr, bool) {
	return engine.Rule[ast.Expr](p, idNamedExpression, namedExpression)
}

// ParseFuncType is the engine.StartFunc for StartFuncType: a `(int,
// str) -> bool`-shaped function type comment.
func ParseFuncType(p *engine.Parser) (*ast.Arguments, bool) {
	if _, ok, _ := p.Buffer.Expect(token.OP); !ok {
		return nil, false
	}
	args, ok := engine.Rule[*ast.Arguments](p, idParams, funcTypeParamList)
	if !ok {
		return nil, false
	}
	return args, true
}

func skipNewlines(p *engine.Parser) {
	for {
		if _, ok, _ := p.Buffer.Expect(token.NEWLINE); !ok {
			return
		}
	}
}
