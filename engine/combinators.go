package engine

import "github.com/corepeg/pyparser/buffer"

// Alt evaluates a sequence of alternatives in order, returning the
// first one that succeeds (spec.md §4.3: "Each alternative saves mark,
// attempts its sequence, and on failure restores mark and tries the
// next"). Each alternative receives its own Cutter; if an alternative
// calls Cut on it and then fails, Alt fails at once and the remaining
// alternatives are not tried.
func Alt[T any](p *Parser, alts ...func(*Cutter) (T, bool)) (T, bool) {
	var zero T
	for _, alt := range alts {
		if p.ErrorIndicatorSet() {
			return zero, false
		}
		saved := p.Buffer.Mark
		c := &Cutter{}
		result, ok := alt(c)
		if ok {
			return result, true
		}
		if c.fired {
			return zero, false
		}
		p.Buffer.Mark = saved
	}
	return zero, false
}

// Cutter tracks whether the cut operator has fired within the current
// alternative.
type Cutter struct{ fired bool }

// Cut commits to the current alternative: if anything later in this
// alternative fails, Alt will not try subsequent alternatives.
func (c *Cutter) Cut() { c.fired = true }

// Seq evaluates steps in order, short-circuiting on the first failure.
// It is a convenience for alternatives whose body is a flat sequence of
// sub-parses with no intermediate branching.
func Seq(p *Parser, steps ...func() bool) bool {
	for _, step := range steps {
		if p.ErrorIndicatorSet() || !step() {
			return false
		}
	}
	return true
}

// Repeat implements `*` (zero-or-more): greedily collect matches into a
// slice, never backtracking into a previously accepted item (spec.md
// §4.3).
func Repeat[T any](p *Parser, item func() (T, bool)) []T {
	var out []T
	for {
		saved := p.Buffer.Mark
		v, ok := item()
		if !ok {
			p.Buffer.Mark = saved
			return out
		}
		out = append(out, v)
	}
}

// Repeat1 implements `+` (one-or-more): fails (returns ok=false) if zero
// matches were collected.
func Repeat1[T any](p *Parser, item func() (T, bool)) ([]T, bool) {
	out := Repeat(p, item)
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}

// Gather implements delimited repetition `item.delim+`: alternates an
// item rule and a delimiter token-matcher, requiring at least one item.
func Gather[T any](p *Parser, item func() (T, bool), delim func() bool) ([]T, bool) {
	first, ok := item()
	if !ok {
		return nil, false
	}
	out := []T{first}
	for {
		saved := p.Buffer.Mark
		if !delim() {
			p.Buffer.Mark = saved
			break
		}
		v, ok := item()
		if !ok {
			p.Buffer.Mark = saved
			break
		}
		out = append(out, v)
	}
	return out, true
}

// Lookahead evaluates parselet with Mark saved and unconditionally
// restored; the match sense (parselet succeeded) is compared against
// positive to determine local success. `&r` is Lookahead(p, true, r);
// `!r` is Lookahead(p, false, r). It delegates to buffer.Lookahead, the
// C1-level primitive spec.md §4.1 describes; this wrapper exists so
// grammar code spells both the `&`/`!` engine operators and the
// buffer-level primitive the same way.
func Lookahead[T any](p *Parser, positive bool, parselet func() (T, bool)) bool {
	return buffer.Lookahead(p.Buffer, positive, parselet)
}
