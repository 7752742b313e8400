package request

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/coursesearch/internal/domain"
	"github.com/kailas-cloud/coursesearch/internal/domain/search/mode"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed raw query length in bytes.
	MaxQueryLength = 4096
	// MaxFilterValues caps how many codes or hub units a request may select.
	MaxFilterValues = 256
)

// Request is a validated course search.
// An empty query or empty filter set means "no filter" for that dimension.
type Request struct {
	rawQuery string
	codes    []string
	hubUnits []string
	mode     mode.Mode
}

// New validates search parameters. Codes and hub units are trimmed and
// deduplicated keeping first occurrence; an empty mode defaults to broad.
func New(rawQuery string, codes, hubUnits []string, m mode.Mode) (Request, error) {
	if len(rawQuery) > MaxQueryLength {
		return Request{}, domain.NewFieldError("query", fmt.Sprintf("too long (max %d bytes)", MaxQueryLength))
	}
	if m == "" {
		m = mode.Default
	}
	if !m.IsValid() {
		return Request{}, domain.NewFieldError("search_mode", fmt.Sprintf("must be %q or %q", mode.Broad, mode.Honed))
	}
	c := uniq(codes)
	if len(c) > MaxFilterValues {
		return Request{}, domain.NewFieldError("codes", fmt.Sprintf("too many values (max %d)", MaxFilterValues))
	}
	h := uniq(hubUnits)
	if len(h) > MaxFilterValues {
		return Request{}, domain.NewFieldError("hub_units", fmt.Sprintf("too many values (max %d)", MaxFilterValues))
	}
	return Request{rawQuery: rawQuery, codes: c, hubUnits: h, mode: m}, nil
}

// FromWire builds a Request from the comma-joined transmission form used by
// the browser client: query, hub_units, codes and search_mode as plain strings.
func FromWire(query, hubUnits, codes, searchMode string) (Request, error) {
	m, err := mode.Parse(searchMode)
	if err != nil {
		return Request{}, domain.NewFieldError("search_mode", err.Error())
	}
	return New(query, SplitList(codes), SplitList(hubUnits), m)
}

// SplitList splits a comma-joined list, dropping blanks.
func SplitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func uniq(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Query returns the raw query text as received.
func (r *Request) Query() string { return r.rawQuery }

// Codes returns the selected course codes.
func (r *Request) Codes() []string { return append([]string(nil), r.codes...) }

// HubUnits returns the selected hub units.
func (r *Request) HubUnits() []string { return append([]string(nil), r.hubUnits...) }

// Mode returns the search strictness.
func (r *Request) Mode() mode.Mode { return r.mode }
