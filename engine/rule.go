package engine

import "github.com/corepeg/pyparser/memo"

// RuleFunc is a generated rule: given the parser, attempt the rule's
// alternatives in order, returning an arena-allocated result on success
// or nil on failure (spec.md §4.3).
type RuleFunc[T any] func(p *Parser) (T, bool)

// ruleKind selects between the plain memoize-once path (Rule) and the
// seeded growing-memo algorithm for left-recursive rules
// (LeftRecursiveRule).
type ruleKind int

const (
	plainRule ruleKind = iota
	leftRecursiveRule
)

// Rule wraps body with memoization (spec.md §4.3: "Every rule begins by
// checking the memo table at the current mark ... then memoizes its
// outcome"). id must be a value unique to this grammar rule.
func Rule[T any](p *Parser, id int, body RuleFunc[T]) (T, bool) {
	return ruleImpl(p, id, body, plainRule)
}

// LeftRecursiveRule wraps body with the seeded growing-memo algorithm
// (spec.md §4.3): the first attempt memoizes failure, the body runs, and
// if it consumed more tokens than last time the memo updates and the
// body re-runs, to a fixpoint.
func LeftRecursiveRule[T any](p *Parser, id int, body RuleFunc[T]) (T, bool) {
	return ruleImpl(p, id, body, leftRecursiveRule)
}

func ruleImpl[T any](p *Parser, id int, body RuleFunc[T], kind ruleKind) (T, bool) {
	var zero T
	if p.ErrorIndicatorSet() {
		return zero, false
	}
	chain, err := p.Buffer.MemoChainAt(p.Buffer.Mark)
	if err != nil {
		return zero, false
	}
	startMark := p.Buffer.Mark

	if result, endMark, ok := memo.IsMemoized(chain, id); ok {
		p.noteMemo(id, true)
		p.Buffer.Mark = endMark
		if result == nil {
			return zero, false
		}
		return result.(T), true
	}
	p.noteMemo(id, false)

	if !p.EnterRule() {
		return zero, false
	}
	defer p.LeaveRule()

	if kind == plainRule {
		memo.InsertMemo(chain, id, nil, startMark)
		p.Buffer.Mark = startMark
		result, ok := body(p)
		if !ok {
			memo.UpdateMemo(chain, id, nil, startMark)
			return zero, false
		}
		memo.UpdateMemo(chain, id, result, p.Buffer.Mark)
		return result, true
	}

	// Left-recursive: seed with a memoized failure, then iterate to a
	// fixpoint, keeping whichever attempt consumed the most tokens.
	memo.InsertMemo(chain, id, nil, startMark)
	var lastResult any
	lastEnd := startMark
	for {
		p.Buffer.Mark = startMark
		result, ok := body(p)
		if !ok || p.Buffer.Mark <= lastEnd {
			break
		}
		lastResult = result
		lastEnd = p.Buffer.Mark
		memo.UpdateMemo(chain, id, lastResult, lastEnd)
	}
	p.Buffer.Mark = lastEnd
	if lastResult == nil {
		memo.UpdateMemo(chain, id, nil, startMark)
		return zero, false
	}
	return lastResult.(T), true
}
