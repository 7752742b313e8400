// Package match selects the catalog entries that satisfy a course search.
//
// Three gates run in order and all active gates must pass:
//
//  1. codes: the entry code must be one of the selected codes.
//  2. keywords: broad needs one keyword in the description, honed needs
//     RequiredCount of them.
//  3. hub units: with keywords, any selected hub unit suffices. Without
//     keywords, honed needs every selected hub unit and broad needs one.
//
// An empty filter is inactive. Results keep catalog order.
package match

import (
	"github.com/kailas-cloud/coursesearch/internal/domain/course"
	"github.com/kailas-cloud/coursesearch/internal/domain/search/mode"
	"github.com/kailas-cloud/coursesearch/internal/domain/search/query"
)

// Criteria is one search against an Index.
type Criteria struct {
	Keywords query.Keywords
	Codes    []string
	HubUnits []string
	Mode     mode.Mode
}

// Match returns the entries passing every active gate, in catalog order.
// The result is never nil. An unknown mode is treated as broad.
func (idx *Index) Match(c Criteria) []course.Entry {
	out := make([]course.Entry, 0)
	if len(idx.entries) == 0 {
		return out
	}

	codes := toSet(c.Codes)
	hubs := toSet(c.HubUnits)
	keywords := c.Keywords
	honed := c.Mode == mode.Honed

	required := 0
	if len(keywords) > 0 {
		required = 1
		if honed {
			required = RequiredCount(len(keywords), idx.policy.ThresholdPercent)
		}
	}

	for i := range idx.entries {
		e := &idx.entries[i]
		d := &idx.docs[i]

		if len(codes) > 0 && !codes.has(e.Code()) {
			continue
		}
		if required > 0 && !idx.hits(d, keywords, required) {
			continue
		}
		if len(hubs) > 0 {
			requireAll := len(keywords) == 0 && honed
			if !hubGate(d.hubs, hubs, requireAll) {
				continue
			}
		}
		out = append(out, *e)
	}
	return out
}

// hits reports whether at least required keywords occur in d.
func (idx *Index) hits(d *document, keywords query.Keywords, required int) bool {
	n := 0
	for i, kw := range keywords {
		if idx.contains(d, kw) {
			n++
			if n >= required {
				return true
			}
		}
		// not enough keywords left to reach the threshold
		if n+len(keywords)-i-1 < required {
			return false
		}
	}
	return false
}

func hubGate(have, selected set, requireAll bool) bool {
	if requireAll {
		for h := range selected {
			if !have.has(h) {
				return false
			}
		}
		return true
	}
	for h := range selected {
		if have.has(h) {
			return true
		}
	}
	return false
}

func toSet(values []string) set {
	if len(values) == 0 {
		return nil
	}
	s := make(set, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

// Matcher applies a Policy to catalogs that are not indexed ahead of time.
type Matcher struct {
	policy Policy
}

// New creates a Matcher.
func New(policy Policy) Matcher {
	return Matcher{policy: policy.withDefaults()}
}

// Index precomputes catalog for repeated searches.
func (m Matcher) Index(catalog []course.Entry) *Index {
	return NewIndex(catalog, m.policy)
}

// Match filters catalog in one pass. It never fails; an empty catalog
// yields an empty result.
func (m Matcher) Match(catalog []course.Entry, c Criteria) []course.Entry {
	return m.Index(catalog).Match(c)
}
