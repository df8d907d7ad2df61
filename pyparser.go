// Package pyparser is the root facade over the PEG packrat parser core:
// it wires the lexer, token buffer, and engine/grammar rule table
// together behind the same functional-options entry-point shape the
// teacher's risor.go exposes (Run/Eval over Option), here specialized
// to the five start rules spec.md §6 names.
package pyparser

import (
	"os"

	"github.com/corepeg/pyparser/arena"
	"github.com/corepeg/pyparser/ast"
	"github.com/corepeg/pyparser/buffer"
	"github.com/corepeg/pyparser/engine"
	"github.com/corepeg/pyparser/grammar"
	"github.com/corepeg/pyparser/lexer"
)

// defaultBufferCapacity sizes the Buffer's initial token slice; small
// files never reallocate, large files grow geometrically like the
// teacher's bytecode.Instructions builder.
const defaultBufferCapacity = 256

func newParser(src, filename string, start engine.StartRule, opts []Option) *engine.Parser {
	s := defaultSettings()
	s.filename = filename
	for _, opt := range opts {
		opt(s)
	}

	lx := lexer.New(src, s.filename)
	buf := buffer.New(lx, defaultBufferCapacity, grammar.NewKeywordTable(), grammar.SoftKeywords())
	a := arena.New()

	engOpts := []engine.Option{
		engine.WithFeatureVersion(s.featureVersion),
		engine.WithFlags(s.flags),
		engine.WithFilename(s.filename),
		engine.WithMaxRecursionDepth(s.maxDepth),
		engine.WithWarningSink(s.warnings),
		engine.WithDebug(s.debug),
	}
	if s.normalize != nil {
		engOpts = append(engOpts, engine.WithNormalize(s.normalize))
	}
	return engine.New(buf, a, lx, start, engOpts...)
}

// ParseString parses src as a whole module (spec.md's file_input /
// StartFile), returning its Module AST or the first syntax error
// encountered.
func ParseString(src string, opts ...Option) (*ast.Module, error) {
	p := newParser(src, "<string>", engine.StartFile, opts)
	return engine.RunParser(p, grammar.ParseFile)
}

// ParseFile reads path and parses it as a whole module.
func ParseFile(path string, opts ...Option) (*ast.Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	opts = append([]Option{WithFilename(path)}, opts...)
	return ParseString(string(data), opts...)
}

// ParseExpr parses src as a single expression followed by optional
// trailing newlines and end-of-input (spec.md's eval_input / StartEval),
// the form a host uses to implement `eval()`-like entry points.
func ParseExpr(src string, opts ...Option) (ast.Expr, error) {
	p := newParser(src, "<string>", engine.StartEval, opts)
	return engine.RunParser(p, grammar.ParseEval)
}

// ParseInteractive parses src as a single interactive statement
// (spec.md's single_input / StartSingle), the form a REPL uses to parse
// one line at a time.
func ParseInteractive(src string, opts ...Option) (ast.Stmt, error) {
	p := newParser(src, "<stdin>", engine.StartSingle, opts)
	return engine.RunParser(p, grammar.ParseSingle)
}

// ParseFStringExpr parses src as a single f-string replacement-field
// expression in isolation (spec.md §4.1's f-string sub-expression
// re-projection, used when a host re-tokenizes an f-string's embedded
// expression text on its own).
func ParseFStringExpr(src string, opts ...Option) (ast.Expr, error) {
	p := newParser(src, "<fstring>", engine.StartFString, opts)
	return engine.RunParser(p, grammar.ParseFString)
}

// ParseFuncTypeComment parses src as a `(int, str) -> bool`-shaped
// function type comment (spec.md's func_type_input / StartFuncType).
func ParseFuncTypeComment(src string, opts ...Option) (*ast.Arguments, error) {
	p := newParser(src, "<type-comment>", engine.StartFuncType, opts)
	return engine.RunParser(p, grammar.ParseFuncType)
}
