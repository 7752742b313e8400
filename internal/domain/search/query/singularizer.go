package query

import (
	"fmt"
	"strings"

	"github.com/kljensen/snowball"
)

// Singularizer maps a token to its concept key. Two tokens with the same key
// are treated as the same concept during deduplication.
type Singularizer interface {
	Key(token string) string
}

// Singularizer names accepted by ParseSingularizer.
const (
	SingularizerTrailingS = "trailing_s"
	SingularizerSnowball  = "snowball"
)

// TrailingS strips one trailing "s". It merges "laws" with "law" but also
// "bus" with "bu", and never merges irregular plurals.
type TrailingS struct{}

// Key implements Singularizer.
func (TrailingS) Key(token string) string {
	return strings.TrimSuffix(token, "s")
}

// Snowball keys tokens by their English Snowball stem.
type Snowball struct{}

// Key implements Singularizer. Tokens the stemmer rejects key to themselves.
func (Snowball) Key(token string) string {
	stem, err := snowball.Stem(token, "english", false)
	if err != nil || stem == "" {
		return token
	}
	return stem
}

// ParseSingularizer resolves a configured strategy name. Empty selects TrailingS.
func ParseSingularizer(name string) (Singularizer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", SingularizerTrailingS:
		return TrailingS{}, nil
	case SingularizerSnowball:
		return Snowball{}, nil
	default:
		return nil, fmt.Errorf("unknown singularizer %q", name)
	}
}
