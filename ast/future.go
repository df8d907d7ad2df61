package ast

// FutureFlags accumulates the effects `from __future__ import ...`
// statements have on how the remainder of the module parses. CPython
// plumbs these through the compiler's symbol table pass; this module
// has no separate compiler stage, so the grammar's statement rule
// applies them to the live Parser as each future-import is recognized
// (spec.md's supplemented `__future__`/barry_as_FLUFL feature, grounded
// on original_source's Python/future.c).
type FutureFlags struct {
	// BarryAsFLUFL enables `<>` as a synonym for `!=` once
	// `from __future__ import barry_as_FLUFL` has been seen (PEP 401).
	BarryAsFLUFL bool
}

// ApplyFutureImport inspects an ImportFrom statement and updates flags
// in place when it imports from the `__future__` pseudo-module.
func ApplyFutureImport(flags *FutureFlags, stmt *ImportFrom) {
	if stmt == nil || stmt.Module != "__future__" {
		return
	}
	for _, alias := range stmt.Names {
		if alias.Name == "barry_as_FLUFL" {
			flags.BarryAsFLUFL = true
		}
	}
}
