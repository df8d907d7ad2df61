package buffer

import (
	"bytes"

	"github.com/corepeg/pyparser/token"
)

// keywordEntry pairs a reserved word's bytes with the Kind it promotes a
// NAME token to.
type keywordEntry struct {
	bytes []byte
	kind  token.Kind
}

// KeywordTable buckets reserved words by byte length, matching spec.md
// §4.1: "a length-bucketed keyword table (one bucket per identifier
// length up to the max reserved word length)". Index 0 is unused;
// buckets[n] holds every reserved word of exactly n bytes.
type KeywordTable struct {
	buckets [][]keywordEntry
}

// NewKeywordTable builds a KeywordTable from a name->Kind map. Every
// distinct Kind value used for a keyword must be >= the largest Kind
// constant in package token's own enumeration's caller-defined OP/NAME
// space; callers (package grammar) define their own keyword Kind values
// as token.Kind-compatible ints above token.TYPE_COMMENT.
func NewKeywordTable(keywords map[string]token.Kind) *KeywordTable {
	maxLen := 0
	for word := range keywords {
		if len(word) > maxLen {
			maxLen = len(word)
		}
	}
	t := &KeywordTable{buckets: make([][]keywordEntry, maxLen+1)}
	for word, kind := range keywords {
		n := len(word)
		t.buckets[n] = append(t.buckets[n], keywordEntry{bytes: []byte(word), kind: kind})
	}
	return t
}

// Lookup reports whether name exactly matches a reserved word, and if so
// which Kind it promotes to.
func (t *KeywordTable) Lookup(name []byte) (token.Kind, bool) {
	n := len(name)
	if n >= len(t.buckets) {
		return 0, false
	}
	for _, e := range t.buckets[n] {
		if bytes.Equal(e.bytes, name) {
			return e.kind, true
		}
	}
	return 0, false
}
