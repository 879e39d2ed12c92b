package pointset

import (
	"fmt"
	"iter"
	"math"
	"math/bits"
)

// Lattice is an ordinary rank-1 lattice rule: point i has coordinates
// (a_j·i mod n)/n.
type Lattice struct {
	size   Size
	level  uint
	n      uint64
	vector []uint64
}

// NewLattice builds the full-resolution lattice of the given size.
func NewLattice(size Size, vector []uint64) (*Lattice, error) {
	if err := size.Validate(); err != nil {
		return nil, err
	}
	if len(vector) == 0 {
		return nil, fmt.Errorf("empty generating vector: %w", ErrInvalidSize)
	}
	return newLattice(size, size.Power, vector)
}

func newLattice(size Size, level uint, vector []uint64) (*Lattice, error) {
	n, err := size.Points(level)
	if err != nil {
		return nil, err
	}
	v := make([]uint64, len(vector))
	copy(v, vector)
	return &Lattice{size: size, level: level, n: n, vector: v}, nil
}

func (l *Lattice) Len() uint64      { return l.n }
func (l *Lattice) Dimension() int   { return len(l.vector) }
func (l *Lattice) Size() Size       { return l.size }
func (l *Lattice) Level() uint      { return l.level }
func (l *Lattice) Vector() []uint64 { return append([]uint64(nil), l.vector...) }

func (l *Lattice) value(j int, i uint64) float64 {
	hi, lo := bits.Mul64(l.vector[j], i)
	v := float64(bits.Rem64(hi, lo, l.n)) / float64(l.n)
	if v >= 1 {
		// n beyond 2^53 can round the last points up
		return math.Nextafter(1, 0)
	}
	return v
}

func (l *Lattice) Point(i uint64, dst []float64) []float64 {
	dst = grow(dst, len(l.vector))
	for j := range l.vector {
		dst[j] = l.value(j, i)
	}
	return dst
}

func (l *Lattice) Coordinate(j int) iter.Seq[float64] {
	return func(yield func(float64) bool) {
		for i := uint64(0); i < l.n; i++ {
			if !yield(l.value(j, i)) {
				return
			}
		}
	}
}

// Truncate returns the lattice with base^level points and the same
// generating vector.
func (l *Lattice) Truncate(level uint) (PointSet, error) {
	if level > l.size.Power {
		return nil, fmt.Errorf("level %d above %v: %w", level, l.size, ErrInvalidLevel)
	}
	return newLattice(l.size, level, l.vector)
}
