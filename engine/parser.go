// Package engine implements the PEG evaluator (C3, spec.md §4.3):
// ordered-choice evaluation, cut, lookahead, repetition, rule invocation,
// memoized left recursion, action dispatch, and the two-pass
// diagnostic-error driver.
package engine

import (
	"os"

	"github.com/corepeg/pyparser/arena"
	"github.com/corepeg/pyparser/buffer"
	"github.com/corepeg/pyparser/memo"
	"github.com/corepeg/pyparser/perrors"
	"github.com/corepeg/pyparser/token"
	"github.com/rs/zerolog"
)

// StartRule selects the grammar's entry production, matching spec.md §6.
type StartRule int

const (
	StartFile StartRule = iota
	StartSingle
	StartEval
	StartFString
	StartFuncType
)

// Flags is the bitset of parser behavior toggles from spec.md §6.
type Flags uint32

const (
	FlagDontImplyDedent Flags = 1 << iota
	FlagIgnoreCookie
	FlagBarryAsBDFL
	FlagTypeComments
	FlagAllowIncompleteInput
)

func (f Flags) Has(bit Flags) bool { return f&bit != 0 }

// DefaultMaxRecursionDepth bounds the engine's rule-nesting counter
// before it reports a stack-overflow MemoryError (spec.md §4.3).
const DefaultMaxRecursionDepth = 2000

// Parser is the single-value parser state described in spec.md §3.
type Parser struct {
	Buffer *buffer.Buffer
	Arena  *arena.Arena
	Tok    token.Tokenizer

	StartRule StartRule
	Flags     Flags

	FeatureVersion int

	errorIndicator bool
	FirstError     *perrors.SyntaxError

	CallInvalidRules bool

	KnownErrToken    *token.Token
	LastStmtLocation token.Position
	LastStmtSet      bool

	Level    int
	MaxLevel int

	Filename string

	Normalize func(string) string

	Warnings perrors.WarningSink

	Debug     bool
	MemoStats *memo.Stats
	logger    zerolog.Logger

	// DummyName is the lazily-initialized placeholder Name handle used
	// by action callbacks that need an opaque target expression (Design
	// Note: "Global/process-wide dummy Name singleton ... model as a
	// lazily-initialized handle owned by the parser state").
	DummyName any

	// Extra is an opaque side-channel slot for state a specific grammar
	// needs to thread through parsing but that engine itself has no
	// business knowing about (e.g. the Python-family grammar's
	// in-progress __future__ import flags, mutated as each
	// `from __future__ import ...` statement is recognized and read back
	// by later rules in the same parse).
	Extra any
}

// Option configures a Parser at construction, following the teacher's
// functional-options pattern (parser.Option in parser/parser.go).
type Option func(*Parser)

// WithFeatureVersion sets the minimum Python-family feature version
// gating syntax acceptance (spec.md §3).
func WithFeatureVersion(v int) Option { return func(p *Parser) { p.FeatureVersion = v } }

// WithFlags sets the parser flags bitset.
func WithFlags(f Flags) Option { return func(p *Parser) { p.Flags = f } }

// WithFilename sets the filename used in diagnostics.
func WithFilename(name string) Option { return func(p *Parser) { p.Filename = name } }

// WithMaxRecursionDepth overrides DefaultMaxRecursionDepth.
func WithMaxRecursionDepth(n int) Option { return func(p *Parser) { p.MaxLevel = n } }

// WithNormalize installs the Unicode-identifier-normalization adapter
// (spec.md §3's "normalize" field).
func WithNormalize(fn func(string) string) Option { return func(p *Parser) { p.Normalize = fn } }

// WithWarningSink installs a perrors.WarningSink; defaults to
// perrors.DiscardWarnings{}.
func WithWarningSink(sink perrors.WarningSink) Option { return func(p *Parser) { p.Warnings = sink } }

// WithDebug enables memo-statistics logging via zerolog.
func WithDebug(enabled bool) Option { return func(p *Parser) { p.Debug = enabled } }

// New constructs a Parser state over buf/a/tok for the given start rule.
func New(buf *buffer.Buffer, a *arena.Arena, tok token.Tokenizer, start StartRule, opts ...Option) *Parser {
	p := &Parser{
		Buffer:         buf,
		Arena:          a,
		Tok:            tok,
		StartRule:      start,
		FeatureVersion: 12,
		MaxLevel:       DefaultMaxRecursionDepth,
		Warnings:       perrors.DiscardWarnings{},
		Normalize:      func(s string) string { return s },
		MemoStats:      memo.NewStats(),
		logger:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.Debug {
		p.logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}
	buf.SingleStatementMode = start == StartSingle
	buf.DontImplyDedent = p.Flags.Has(FlagDontImplyDedent)
	buf.TypeComments = p.Flags.Has(FlagTypeComments)
	return p
}

// ErrorIndicatorSet reports whether a sticky error has been recorded.
func (p *Parser) ErrorIndicatorSet() bool { return p.errorIndicator }

// SetError records err as the sticky error if none has been recorded
// yet; the first raise always wins (spec.md §7's propagation policy).
func (p *Parser) SetError(err *perrors.SyntaxError) {
	p.errorIndicator = true
	if p.FirstError == nil {
		p.FirstError = err
	}
}

// OverwriteError lets the diagnostic pass replace a generic error with a
// more precise one, per spec.md §7: "may overwrite a generic error ...
// if and only if it finds a more precise token to blame."
func (p *Parser) OverwriteError(err *perrors.SyntaxError) {
	p.errorIndicator = true
	p.FirstError = err
}

// ClearError resets the sticky error state, used between the first and
// second parse pass.
func (p *Parser) ClearError() {
	p.errorIndicator = false
	p.FirstError = nil
}

// EnterRule increments the recursion counter, failing with a MemoryError
// once MaxLevel is exceeded (spec.md §4.3's recursion limit).
func (p *Parser) EnterRule() bool {
	p.Level++
	if p.Level > p.MaxLevel {
		p.SetError(&perrors.SyntaxError{
			Class:   "MemoryError",
			Message: "stack overflow during parsing",
			Span:    perrors.Span{Start: p.currentPos(), End: p.currentPos()},
			Kind:    perrors.KindStackOverflow,
		})
		return false
	}
	return true
}

// LeaveRule decrements the recursion counter; always pair with a
// successful EnterRule.
func (p *Parser) LeaveRule() { p.Level-- }

func (p *Parser) currentPos() token.Position {
	tok, err := p.Buffer.Current()
	if err != nil {
		return token.Position{}
	}
	return tok.Start
}

// RecordLastStmt remembers the most recently started statement's
// location, for SyntaxError metadata enrichment (spec.md §3).
func (p *Parser) RecordLastStmt(pos token.Position) {
	p.LastStmtLocation = pos
	p.LastStmtSet = true
}

// noteMemo logs a hit/miss when debug mode is enabled.
func (p *Parser) noteMemo(ruleID int, hit bool) {
	if !p.Debug {
		return
	}
	if hit {
		p.MemoStats.RecordHit(ruleID)
		p.logger.Debug().Int("rule", ruleID).Msg("memo hit")
	} else {
		p.MemoStats.RecordMiss(ruleID)
		p.logger.Debug().Int("rule", ruleID).Msg("memo miss")
	}
}
