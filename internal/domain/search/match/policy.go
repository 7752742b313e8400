package match

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/coursesearch/internal/domain/search/query"
)

// KeywordMatch selects how a keyword is compared to a description.
type KeywordMatch string

// Keyword comparison strategies.
const (
	// Token requires the keyword to equal a whole description word.
	Token KeywordMatch = "token"
	// Substring accepts the keyword anywhere inside the description.
	Substring KeywordMatch = "substring"
)

// DefaultThresholdPercent is the share of keywords a honed search must hit.
const DefaultThresholdPercent = 70

// Policy holds the tunable parts of matching. The zero value is usable:
// token matching, 70% honed threshold, no plural folding.
type Policy struct {
	ThresholdPercent int
	KeywordMatch     KeywordMatch
	// FoldPlurals, when set, also matches keywords whose concept key equals
	// the key of a description word ("law" matches "laws").
	FoldPlurals query.Singularizer
	// FoldUnicode applies NFKC folding to descriptions before tokenizing.
	FoldUnicode bool
}

func (p Policy) withDefaults() Policy {
	if p.ThresholdPercent <= 0 || p.ThresholdPercent > 100 {
		p.ThresholdPercent = DefaultThresholdPercent
	}
	if p.KeywordMatch == "" {
		p.KeywordMatch = Token
	}
	return p
}

// ParseKeywordMatch resolves a configured strategy name. Empty selects Token.
func ParseKeywordMatch(s string) (KeywordMatch, error) {
	switch KeywordMatch(strings.ToLower(strings.TrimSpace(s))) {
	case "", Token:
		return Token, nil
	case Substring:
		return Substring, nil
	default:
		return "", fmt.Errorf("unknown keyword match %q (want %q or %q)", s, Token, Substring)
	}
}

// RequiredCount is the number of keywords a honed search must hit out of n:
// ceil(percent*n/100) in integer arithmetic. Zero keywords require zero.
func RequiredCount(n, percent int) int {
	if n <= 0 {
		return 0
	}
	if percent <= 0 || percent > 100 {
		percent = DefaultThresholdPercent
	}
	return (percent*n + 99) / 100
}
