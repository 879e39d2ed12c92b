package pointset

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

// Size is a point count written as Base^Power. Plain sizes use Power 1.
type Size struct {
	Base  uint64 `json:"base" yaml:"base"`
	Power uint   `json:"power" yaml:"power"`
}

// Plain returns the size of an n-point set with no embedding.
func Plain(n uint64) Size { return Size{Base: n, Power: 1} }

// Binary returns the size 2^m.
func Binary(m uint) Size { return Size{Base: 2, Power: m} }

// Points returns Base^level, failing on overflow.
func (s Size) Points(level uint) (uint64, error) {
	n := uint64(1)
	for i := uint(0); i < level; i++ {
		hi, lo := bits.Mul64(n, s.Base)
		if hi != 0 {
			return 0, fmt.Errorf("%d^%d overflows: %w", s.Base, level, ErrInvalidSize)
		}
		n = lo
	}
	return n, nil
}

// N returns the full point count Base^Power.
func (s Size) N() (uint64, error) { return s.Points(s.Power) }

// Embedded reports whether the size supports truncation to coarser levels.
func (s Size) Embedded() bool { return s.Power > 1 }

func (s Size) Validate() error {
	if s.Base < 2 && !(s.Base == 1 && s.Power == 1) {
		return fmt.Errorf("base %d: %w", s.Base, ErrInvalidSize)
	}
	_, err := s.N()
	return err
}

func (s Size) String() string {
	if s.Power == 1 {
		return strconv.FormatUint(s.Base, 10)
	}
	return fmt.Sprintf("%d^%d", s.Base, s.Power)
}

// ParseSize reads "1024" or "2^10".
func ParseSize(str string) (Size, error) {
	str = strings.TrimSpace(str)
	base, power, found := strings.Cut(str, "^")
	b, err := strconv.ParseUint(strings.TrimSpace(base), 10, 64)
	if err != nil {
		return Size{}, fmt.Errorf("size %q: %w", str, ErrInvalidSize)
	}
	s := Plain(b)
	if found {
		p, err := strconv.ParseUint(strings.TrimSpace(power), 10, 32)
		if err != nil {
			return Size{}, fmt.Errorf("size %q: %w", str, ErrInvalidSize)
		}
		s = Size{Base: b, Power: uint(p)}
	}
	if err := s.Validate(); err != nil {
		return Size{}, err
	}
	return s, nil
}
