package perrors

import "github.com/corepeg/pyparser/token"

// WarningCategory classifies a non-fatal diagnostic emitted during
// parsing (spec.md §7's "Warning — invalid escape" row).
type WarningCategory int

const (
	WarningInvalidEscape WarningCategory = iota
	WarningDeprecatedSyntax
)

// Warning is a single non-fatal diagnostic.
type Warning struct {
	Category WarningCategory
	Message  string
	Filename string
	Pos      token.Position
}

// WarningSink is the pluggable capability Design Note §9 calls for:
// "expose a pluggable warning sink ... so the rewrite is not bound to a
// particular runtime." The engine takes a WarningSink at construction
// (engine.WithWarningSink) instead of reaching for a global warning
// channel; package ast returns escape warnings to its caller instead.
type WarningSink interface {
	Warn(Warning)
}

// DiscardWarnings is a WarningSink that drops every warning; useful as a
// zero-value-safe default and in tests that don't care about warnings.
type DiscardWarnings struct{}

// Warn implements WarningSink.
func (DiscardWarnings) Warn(Warning) {}

// CollectingWarnings is a WarningSink that appends every warning to a
// slice, for tests and for hosts that want to batch-report warnings
// after a parse completes.
type CollectingWarnings struct {
	Warnings []Warning
}

// Warn implements WarningSink.
func (c *CollectingWarnings) Warn(w Warning) {
	c.Warnings = append(c.Warnings, w)
}
