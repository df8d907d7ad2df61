package ast

import "github.com/corepeg/pyparser/token"

// Arg is one parameter name, with its optional annotation and the raw
// `# type:` comment text that may trail it (spec.md §4.4's argument
// assembly algorithm).
type Arg struct {
	span
	Name        string
	Annotation  Expr
	TypeComment string
}

// Arguments is a function signature's full parameter list, assembled by
// MakeArguments from the five raw piece-slices the grammar collects
// (positional-only, regular, vararg, keyword-only, kwarg), grounded on
// _PyPegen_make_arguments's five-piece algorithm (original_source's
// action_helpers.c).
type Arguments struct {
	PosOnlyArgs []*Arg
	Args        []*Arg
	VarArg      *Arg  // nil when there is no `*args`
	KwOnlyArgs  []*Arg
	KwArg       *Arg  // nil when there is no `**kwargs`

	// Defaults holds the default-value expressions for the trailing
	// entries of PosOnlyArgs+Args that have one; len(Defaults) is always
	// <= len(PosOnlyArgs)+len(Args), right-aligned against those lists.
	Defaults []Expr

	// KwDefaults holds one entry per KwOnlyArgs entry; a nil element
	// means that keyword-only parameter is required (no default).
	KwDefaults []Expr
}

// MakeArguments assembles the five raw slices a grammar's parameter-list
// rule collects (positional-only-with-defaults, slash-separated regular
// params, a `*`/`*args` marker, keyword-only params, and `**kwargs`)
// into one Arguments node. It is grounded on CPython's
// _PyPegen_make_arguments, which performs the same five-piece merge
// rather than building the struct incrementally alternative-by-
// alternative (original_source's action_helpers.c).
func MakeArguments(
	posOnly []ArgWithDefault,
	slashArgs []ArgWithDefault,
	star *Arg,
	kwOnly []ArgWithDefault,
	kwArg *Arg,
) *Arguments {
	out := &Arguments{VarArg: star, KwArg: kwArg}

	for _, a := range posOnly {
		out.PosOnlyArgs = append(out.PosOnlyArgs, a.Arg)
		if a.Default != nil {
			out.Defaults = append(out.Defaults, a.Default)
		}
	}
	for _, a := range slashArgs {
		out.Args = append(out.Args, a.Arg)
		if a.Default != nil {
			out.Defaults = append(out.Defaults, a.Default)
		}
	}
	for _, a := range kwOnly {
		out.KwOnlyArgs = append(out.KwOnlyArgs, a.Arg)
		out.KwDefaults = append(out.KwDefaults, a.Default)
	}
	return out
}

// ArgWithDefault pairs a parameter with its optional `= default`
// expression, the shape the grammar's param_maybe_default rules produce
// before MakeArguments merges the five pieces together.
type ArgWithDefault struct {
	Arg     *Arg
	Default Expr
}

// Pos reports the first position among the pieces that assembled args,
// falling back to fallback (usually the opening paren) when args is
// entirely empty, matching _PyPegen_make_arguments's "empty arglist
// still needs a location" behavior.
func (args *Arguments) Pos(fallback token.Position) token.Position {
	if len(args.PosOnlyArgs) > 0 {
		return args.PosOnlyArgs[0].Pos()
	}
	if len(args.Args) > 0 {
		return args.Args[0].Pos()
	}
	if args.VarArg != nil {
		return args.VarArg.Pos()
	}
	if len(args.KwOnlyArgs) > 0 {
		return args.KwOnlyArgs[0].Pos()
	}
	if args.KwArg != nil {
		return args.KwArg.Pos()
	}
	return fallback
}
