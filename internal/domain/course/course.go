package course

import (
	"fmt"
	"math"
	"strings"

	"github.com/kailas-cloud/coursesearch/internal/domain"
)

// MaxDescriptionSize is the maximum description size in bytes.
const MaxDescriptionSize = 65536

// Entry is a catalog record (immutable value object).
type Entry struct {
	title         string
	description   string
	hubUnits      []string
	code          string
	prerequisites string
	credits       *float64
}

// New validates and creates an Entry.
// Title and code are required; credits, when present, must be a non-negative number.
// Duplicate hub units are collapsed, first occurrence wins.
func New(
	title, description, code string, hubUnits []string,
	prerequisites string, credits *float64,
) (Entry, error) {
	title = strings.TrimSpace(title)
	code = strings.TrimSpace(code)
	if title == "" {
		return Entry{}, fmt.Errorf("%w: title is required", domain.ErrInvalidEntry)
	}
	if code == "" {
		return Entry{}, fmt.Errorf("%w: code is required for %q", domain.ErrInvalidEntry, title)
	}
	if len(description) > MaxDescriptionSize {
		return Entry{}, fmt.Errorf("%w: description too large for %q (max %d bytes)",
			domain.ErrInvalidEntry, title, MaxDescriptionSize)
	}
	if credits != nil && (*credits < 0 || math.IsNaN(*credits) || math.IsInf(*credits, 0)) {
		return Entry{}, fmt.Errorf("%w: credits must be a non-negative number for %q", domain.ErrInvalidEntry, title)
	}

	var c *float64
	if credits != nil {
		v := *credits
		c = &v
	}

	return Entry{
		title:         title,
		description:   description,
		hubUnits:      dedupe(hubUnits),
		code:          code,
		prerequisites: strings.TrimSpace(prerequisites),
		credits:       c,
	}, nil
}

// Title returns the course title.
func (e *Entry) Title() string { return e.title }

// Description returns the free-text description used as the matching corpus.
func (e *Entry) Description() string { return e.description }

// HubUnits returns the hub-unit tags the course satisfies. Callers must not mutate it.
func (e *Entry) HubUnits() []string { return e.hubUnits }

// Code returns the department/program code.
func (e *Entry) Code() string { return e.code }

// Prerequisites returns the prerequisites text, empty when absent.
func (e *Entry) Prerequisites() string { return e.prerequisites }

// Credits returns a copy of the credit count, nil when absent.
func (e *Entry) Credits() *float64 {
	if e.credits == nil {
		return nil
	}
	v := *e.credits
	return &v
}

// HasHubUnit reports whether the course carries the given hub unit.
func (e *Entry) HasHubUnit(unit string) bool {
	for _, u := range e.hubUnits {
		if u == unit {
			return true
		}
	}
	return false
}

// WithHubUnits returns a copy carrying only the given hub units.
func (e *Entry) WithHubUnits(units []string) Entry {
	cp := *e
	cp.hubUnits = units
	return cp
}

func dedupe(in []string) []string {
	if len(in) == 0 {
		return []string{}
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
