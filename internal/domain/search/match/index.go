package match

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/kailas-cloud/coursesearch/internal/domain/course"
)

type set map[string]struct{}

func (s set) has(v string) bool {
	_, ok := s[v]
	return ok
}

// document is the precomputed searchable form of one entry.
type document struct {
	text  string
	words set
	keys  set
	hubs  set
}

// Index is an immutable, precomputed view of a catalog under one Policy.
// It is safe for concurrent use.
type Index struct {
	policy  Policy
	entries []course.Entry
	docs    []document
}

// NewIndex tokenizes every description once. The entries slice is copied.
func NewIndex(entries []course.Entry, policy Policy) *Index {
	policy = policy.withDefaults()
	idx := &Index{
		policy:  policy,
		entries: append([]course.Entry(nil), entries...),
		docs:    make([]document, len(entries)),
	}
	for i, e := range entries {
		idx.docs[i] = newDocument(e, policy)
	}
	return idx
}

func newDocument(e course.Entry, p Policy) document {
	text := e.Description()
	if p.FoldUnicode {
		text = norm.NFKC.String(text)
	}
	text = strings.ToLower(text)

	d := document{text: text, hubs: make(set, len(e.HubUnits()))}
	for _, h := range e.HubUnits() {
		d.hubs[h] = struct{}{}
	}
	if p.KeywordMatch == Substring {
		return d
	}

	d.words = make(set)
	for _, w := range descriptionWords(text) {
		d.words[w] = struct{}{}
	}
	if p.FoldPlurals != nil {
		d.keys = make(set, len(d.words))
		for w := range d.words {
			d.keys[p.FoldPlurals.Key(w)] = struct{}{}
		}
	}
	return d
}

// descriptionWords splits lowercase text into whole words. Each
// whitespace/comma token contributes itself with surrounding sentence
// punctuation removed, plus its alphanumeric runs when it has several, so
// "full-stack," yields "full-stack", "full" and "stack" while "c++." yields
// only "c++".
func descriptionWords(text string) []string {
	var out []string
	for _, tok := range strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	}) {
		w := trimSentence(tok)
		if w == "" {
			continue
		}
		out = append(out, w)
		parts := strings.FieldsFunc(w, notAlnum)
		if len(parts) > 1 {
			out = append(out, parts...)
		}
	}
	return out
}

const (
	openingPunct  = "(\"'[“‘"
	trailingPunct = ".,;:!?)\"']”’"
)

// trimSentence strips quotes and brackets around a token and sentence
// punctuation after it. A token made only of punctuation is kept as is.
func trimSentence(s string) string {
	t := strings.TrimRight(strings.TrimLeft(s, openingPunct), trailingPunct)
	if t == "" {
		return s
	}
	return t
}

func notAlnum(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

// Len returns the number of indexed entries.
func (idx *Index) Len() int { return len(idx.entries) }

// Entries returns the indexed entries in catalog order.
func (idx *Index) Entries() []course.Entry {
	return append([]course.Entry(nil), idx.entries...)
}

// Policy returns the effective matching policy.
func (idx *Index) Policy() Policy { return idx.policy }

// contains reports whether doc matches one normalized keyword.
func (idx *Index) contains(d *document, keyword string) bool {
	if idx.policy.KeywordMatch == Substring {
		return keyword != "" && strings.Contains(d.text, keyword)
	}
	if keyword == "" {
		return false
	}
	if d.words.has(keyword) {
		return true
	}
	kw := trimSentence(keyword)
	if kw != keyword && d.words.has(kw) {
		return true
	}
	if idx.policy.FoldPlurals != nil {
		return d.keys.has(idx.policy.FoldPlurals.Key(kw))
	}
	return false
}
