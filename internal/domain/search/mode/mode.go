package mode

import (
	"fmt"
	"strings"
)

// Mode is the relevance strictness of a search.
type Mode string

// Search mode constants.
const (
	// Broad accepts partial overlap: any keyword, any selected hub unit.
	Broad Mode = "broad"
	// Honed requires the keyword threshold and, without keywords, every selected hub unit.
	Honed Mode = "honed"
)

// Default is used when a request omits the mode.
const Default = Broad

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == Broad || m == Honed
}

// Parse converts wire text into a Mode. Empty input yields Default.
// Matching is case-insensitive and ignores surrounding whitespace.
func Parse(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Default, nil
	}
	m := Mode(s)
	if !m.IsValid() {
		return "", fmt.Errorf("unknown search mode %q (want %q or %q)", s, Broad, Honed)
	}
	return m, nil
}
