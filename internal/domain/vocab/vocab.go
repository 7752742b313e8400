// Package vocab holds the controlled vocabularies a catalog and its queries are drawn from.
package vocab

import (
	"sort"
	"strings"
)

// Vocabulary is immutable process-wide configuration: the stopword set and the
// valid hub-unit and code lists. Build it once and share it by value.
type Vocabulary struct {
	stopwords map[string]struct{}
	hubUnits  []string
	hubSet    map[string]struct{}
	codes     []string
	codeSet   map[string]struct{}
}

// New creates a Vocabulary. Stopwords are lowercased; list order of hub units
// and codes is kept for display, duplicates are dropped.
func New(stopwords, hubUnits, codes []string) Vocabulary {
	v := Vocabulary{
		stopwords: make(map[string]struct{}, len(stopwords)),
		hubSet:    make(map[string]struct{}, len(hubUnits)),
		codeSet:   make(map[string]struct{}, len(codes)),
	}
	for _, w := range stopwords {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			v.stopwords[w] = struct{}{}
		}
	}
	v.hubUnits = collect(hubUnits, v.hubSet)
	v.codes = collect(codes, v.codeSet)
	return v
}

func collect(in []string, set map[string]struct{}) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := set[s]; ok {
			continue
		}
		set[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// IsStopword reports whether the lowercase token is a stopword.
func (v Vocabulary) IsStopword(token string) bool {
	_, ok := v.stopwords[token]
	return ok
}

// HasHubUnit reports whether the tag is a known hub unit.
func (v Vocabulary) HasHubUnit(unit string) bool {
	_, ok := v.hubSet[unit]
	return ok
}

// HasCode reports whether the code is a known department/program code.
func (v Vocabulary) HasCode(code string) bool {
	_, ok := v.codeSet[code]
	return ok
}

// HubUnits returns a copy of the hub-unit list in configured order.
func (v Vocabulary) HubUnits() []string { return append([]string(nil), v.hubUnits...) }

// Codes returns a copy of the code list in configured order.
func (v Vocabulary) Codes() []string { return append([]string(nil), v.codes...) }

// StopwordCount returns the number of distinct stopwords.
func (v Vocabulary) StopwordCount() int { return len(v.stopwords) }

// Stopwords returns the stopwords in sorted order.
func (v Vocabulary) Stopwords() []string {
	out := make([]string, 0, len(v.stopwords))
	for w := range v.stopwords {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}
