// Package generator turns generator data from a lattice or net search into
// point sets. [Definition] describes one construction; [Builder] selects
// the matching matrix builder by [Kind].
package generator

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedConstruction indicates an unknown construction kind.
var ErrUnsupportedConstruction = errors.New("generator: unsupported construction")

// Kind names a construction.
type Kind string

const (
	Ordinary   Kind = "ordinary"
	Polynomial Kind = "polynomial"
	Sobol      Kind = "sobol"
	Explicit   Kind = "explicit"
)

// Kinds lists every supported construction.
var Kinds = []Kind{Ordinary, Polynomial, Sobol, Explicit}

// ParseKind accepts the kind names case-insensitively.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case Ordinary, Polynomial, Sobol, Explicit:
		return k, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnsupportedConstruction)
}

// DigitalNet reports whether the kind is evaluated through GF(2) matrices.
func (k Kind) DigitalNet() bool { return k != Ordinary }

func (k Kind) String() string { return string(k) }

// UnmarshalText lets YAML and flags decode kinds with validation.
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
