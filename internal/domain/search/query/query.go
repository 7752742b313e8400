// Package query turns free-text course queries into normalized keywords.
package query

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Keywords is an ordered, deduplicated, stopword-free token list.
// An empty list means "no keyword filter".
type Keywords []string

// String returns the comma-joined transmission form.
func (k Keywords) String() string {
	return strings.Join(k, ",")
}

// Stopwords reports whether a lowercase token is noise.
type Stopwords interface {
	IsStopword(token string) bool
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithSingularizer replaces the default TrailingS strategy.
func WithSingularizer(s Singularizer) Option {
	return func(n *Normalizer) {
		if s != nil {
			n.singular = s
		}
	}
}

// WithUnicodeFold applies NFKC compatibility folding before lowercasing.
func WithUnicodeFold(enabled bool) Option {
	return func(n *Normalizer) { n.fold = enabled }
}

// Normalizer is safe for concurrent use; it holds only immutable configuration.
type Normalizer struct {
	stopwords Stopwords
	singular  Singularizer
	fold      bool
}

// NewNormalizer creates a Normalizer. A nil stopword set drops nothing.
func NewNormalizer(stopwords Stopwords, opts ...Option) *Normalizer {
	n := &Normalizer{stopwords: stopwords, singular: TrailingS{}}
	for _, o := range opts {
		o(n)
	}
	return n
}

// Normalize lowercases raw, splits it on whitespace and commas, drops
// stopwords and keeps the first token of every concept. It never fails.
func (n *Normalizer) Normalize(raw string) Keywords {
	if n.fold {
		raw = norm.NFKC.String(raw)
	}
	tokens := Split(strings.ToLower(raw))

	out := make(Keywords, 0, len(tokens))
	seen := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		if n.stopwords != nil && n.stopwords.IsStopword(tok) {
			continue
		}
		key := n.singular.Key(tok)
		if _, dup := seen[key]; dup {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[key] = struct{}{}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}

// Split breaks s on runs of whitespace and commas. It never yields empty tokens.
func Split(s string) []string {
	return strings.FieldsFunc(s, isSeparator)
}

func isSeparator(r rune) bool {
	return r == ',' || unicode.IsSpace(r)
}
