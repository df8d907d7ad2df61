package pyparser

import (
	"github.com/corepeg/pyparser/engine"
	"github.com/corepeg/pyparser/perrors"
)

// Option configures a parse call, following the teacher's
// functional-options pattern (risor.Option in risor.go).
type Option func(*settings)

type settings struct {
	filename       string
	featureVersion int
	flags          engine.Flags
	maxDepth       int
	normalize      func(string) string
	warnings       perrors.WarningSink
	debug          bool
}

func defaultSettings() *settings {
	return &settings{
		filename:       "<string>",
		featureVersion: 12,
		maxDepth:       engine.DefaultMaxRecursionDepth,
		warnings:       perrors.DiscardWarnings{},
	}
}

// WithFilename sets the filename reported in diagnostics.
func WithFilename(name string) Option {
	return func(s *settings) { s.filename = name }
}

// WithFeatureVersion sets the minimum Python-family minor version
// gating syntax acceptance (e.g. 8 for self-documenting `{x=}` f-string
// fields).
func WithFeatureVersion(v int) Option {
	return func(s *settings) { s.featureVersion = v }
}

// WithFlags sets the parser flags bitset directly.
func WithFlags(f engine.Flags) Option {
	return func(s *settings) { s.flags = f }
}

// WithBarryAsFLUFL enables the `<>` not-equal operator in place of
// `!=`, per the April Fools' __future__ import of the same name.
func WithBarryAsFLUFL() Option {
	return func(s *settings) { s.flags |= engine.FlagBarryAsBDFL }
}

// WithTypeComments enables `# type:` comment collection.
func WithTypeComments() Option {
	return func(s *settings) { s.flags |= engine.FlagTypeComments }
}

// WithAllowIncompleteInput enables the "statement may still be
// completed by more input" distinction an interactive REPL needs.
func WithAllowIncompleteInput() Option {
	return func(s *settings) { s.flags |= engine.FlagAllowIncompleteInput }
}

// WithMaxRecursionDepth overrides engine.DefaultMaxRecursionDepth.
func WithMaxRecursionDepth(n int) Option {
	return func(s *settings) { s.maxDepth = n }
}

// WithNormalize stores a Unicode identifier normalization function on the
// engine Parser. The grammar does not call it: identifiers are always
// NFKC-normalized by ast.NewIdentifier at the token layer.
func WithNormalize(fn func(string) string) Option {
	return func(s *settings) { s.normalize = fn }
}

// WithWarningSink installs a perrors.WarningSink to receive non-fatal
// diagnostics (invalid escape sequences, deprecated syntax).
func WithWarningSink(sink perrors.WarningSink) Option {
	return func(s *settings) { s.warnings = sink }
}

// WithDebug enables memo-statistics logging via zerolog.
func WithDebug(enabled bool) Option {
	return func(s *settings) { s.debug = enabled }
}
