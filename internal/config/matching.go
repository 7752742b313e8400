package config

import (
	"github.com/kailas-cloud/coursesearch/internal/domain/search/match"
	"github.com/kailas-cloud/coursesearch/internal/domain/search/query"
)

// Policy builds the matcher policy described by the config.
func (m MatchingConfig) Policy() (match.Policy, error) {
	km, err := match.ParseKeywordMatch(m.KeywordMatch)
	if err != nil {
		return match.Policy{}, err
	}
	p := match.Policy{
		ThresholdPercent: m.HonedThresholdPercent,
		KeywordMatch:     km,
		FoldUnicode:      m.FoldUnicode,
	}
	if m.FoldPlurals {
		s, err := query.ParseSingularizer(m.Singularizer)
		if err != nil {
			return match.Policy{}, err
		}
		p.FoldPlurals = s
	}
	return p, nil
}

// NormalizerOptions builds the query normalizer options described by the config.
func (m MatchingConfig) NormalizerOptions() ([]query.Option, error) {
	s, err := query.ParseSingularizer(m.Singularizer)
	if err != nil {
		return nil, err
	}
	return []query.Option{query.WithSingularizer(s), query.WithUnicodeFold(m.FoldUnicode)}, nil
}
