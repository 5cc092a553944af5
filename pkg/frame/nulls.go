package frame

import "strings"

// defaultNullTokens mirrors the markers spreadsheet exports commonly use for
// an absent value. The empty string is always null.
var defaultNullTokens = []string{"NA", "N/A", "n/a", "NULL", "null", "NaN", "nan", "None", "#N/A", "<NA>"}

// NullSet decides which raw cell texts count as null.
type NullSet struct {
	tokens map[string]struct{}
}

// DefaultNulls returns the built-in null tokens.
func DefaultNulls() NullSet { return NewNullSet(defaultNullTokens...) }

// NewNullSet returns a set holding only the given tokens (plus blank cells).
func NewNullSet(tokens ...string) NullSet {
	ns := NullSet{tokens: make(map[string]struct{}, len(tokens))}
	for _, t := range tokens {
		ns.tokens[t] = struct{}{}
	}
	return ns
}

// With returns a copy of the set extended with extra tokens.
func (ns NullSet) With(extra ...string) NullSet {
	out := NullSet{tokens: make(map[string]struct{}, len(ns.tokens)+len(extra))}
	for t := range ns.tokens {
		out.tokens[t] = struct{}{}
	}
	for _, t := range extra {
		out.tokens[t] = struct{}{}
	}
	return out
}

func (ns NullSet) IsNull(v string) bool {
	v = strings.TrimSpace(v)
	if v == "" {
		return true
	}
	_, ok := ns.tokens[v]
	return ok
}
