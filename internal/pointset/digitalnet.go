package pointset

import (
	"fmt"
	"iter"
	"math"
	"math/bits"

	"github.com/san-kum/latnet/internal/construct"
	"github.com/san-kum/latnet/internal/gf2"
)

// DigitalNet is a digital net in base 2. Each coordinate owns d base
// generating matrices whose output digits are interleaved: digit position
// i of the coordinate comes from base matrix i mod d, row i div d.
type DigitalNet struct {
	groups      [][]*gf2.Matrix
	interlacing int
	m           uint

	// packed[j][k][c] is column c of base matrix k of coordinate j, bit r
	// being row r. Nil when m > 64.
	packed [][][]uint64
}

// NewDigitalNet groups dim·interlacing base matrices of equal size into
// dim coordinates.
func NewDigitalNet(matrices []*gf2.Matrix, interlacing int) (*DigitalNet, error) {
	if len(matrices) == 0 {
		return nil, fmt.Errorf("no generating matrices: %w", gf2.ErrDimensionMismatch)
	}
	if err := construct.CheckUniform(matrices); err != nil {
		return nil, err
	}
	groups, err := construct.Interlace(matrices, interlacing)
	if err != nil {
		return nil, err
	}

	net := &DigitalNet{groups: groups, interlacing: interlacing, m: matrices[0].Size()}
	if net.m <= 64 {
		net.packed = make([][][]uint64, len(groups))
		for j, g := range groups {
			net.packed[j] = make([][]uint64, len(g))
			for k, mat := range g {
				net.packed[j][k], _ = mat.PackedColumns()
			}
		}
	}
	return net, nil
}

// Len is 2^m, saturating at math.MaxUint64 for m >= 64.
func (n *DigitalNet) Len() uint64 {
	if n.m >= 64 {
		return math.MaxUint64
	}
	return 1 << n.m
}

func (n *DigitalNet) Dimension() int   { return len(n.groups) }
func (n *DigitalNet) Interlacing() int { return n.interlacing }
func (n *DigitalNet) Resolution() uint { return n.m }

// Matrices returns the base matrices in coordinate order.
func (n *DigitalNet) Matrices() []*gf2.Matrix {
	out := make([]*gf2.Matrix, 0, len(n.groups)*n.interlacing)
	for _, g := range n.groups {
		out = append(out, g...)
	}
	return out
}

func (n *DigitalNet) value(j int, x uint64) float64 {
	if n.packed != nil {
		return n.packedValue(j, x)
	}
	return n.bitsetValue(j, x)
}

// mantissaDigits is the number of leading binary digits a float64 in [0,1)
// holds exactly; later digits are dropped so values never round up to 1.
const mantissaDigits = 53

func (n *DigitalNet) packedValue(j int, x uint64) float64 {
	cols := n.packed[j]
	var inline [8]uint64
	digits := inline[:0]
	for _, c := range cols {
		var prod uint64
		for y := x; y != 0; y &= y - 1 {
			b := bits.TrailingZeros64(y)
			if b >= len(c) {
				break
			}
			prod ^= c[b]
		}
		digits = append(digits, prod)
	}

	if n.interlacing == 1 {
		// row 0 is the most significant digit
		return math.Ldexp(float64(bits.Reverse64(digits[0])>>(64-mantissaDigits)), -mantissaDigits)
	}
	return interleave(n.interlacing, n.m, func(k int, r uint) bool {
		return digits[k]>>r&1 == 1
	})
}

func (n *DigitalNet) bitsetValue(j int, x uint64) float64 {
	b := gf2.VectorFromIndex(x, n.m)
	digits := make([]gf2.Vector, n.interlacing)
	for k, mat := range n.groups[j] {
		// sizes are checked at construction
		digits[k], _ = mat.Multiply(b)
	}
	return interleave(n.interlacing, n.m, func(k int, r uint) bool {
		return digits[k].Bit(r) == 1
	})
}

// interleave sums 2^-(i+1) over the set digit positions i < d·m, where
// position i is row i div d of base product i mod d.
func interleave(d int, m uint, set func(k int, r uint) bool) float64 {
	positions := min(uint(d)*m, mantissaDigits)
	var v float64
	for i := uint(0); i < positions; i++ {
		if set(int(i%uint(d)), i/uint(d)) {
			v += math.Ldexp(1, -int(i)-1)
		}
	}
	return v
}

func (n *DigitalNet) Point(i uint64, dst []float64) []float64 {
	dst = grow(dst, len(n.groups))
	for j := range n.groups {
		dst[j] = n.value(j, i)
	}
	return dst
}

func (n *DigitalNet) Coordinate(j int) iter.Seq[float64] {
	return func(yield func(float64) bool) {
		total := n.Len()
		for i := uint64(0); i < total; i++ {
			if !yield(n.value(j, i)) {
				return
			}
		}
	}
}

// Truncate keeps the top-left level×level minor of every base matrix,
// giving 2^level points with d·level digits each.
func (n *DigitalNet) Truncate(level uint) (PointSet, error) {
	if level > n.m {
		return nil, fmt.Errorf("level %d above resolution %d: %w", level, n.m, ErrInvalidLevel)
	}
	if level == n.m {
		return n, nil
	}
	base := n.Matrices()
	sub := make([]*gf2.Matrix, len(base))
	for i, mat := range base {
		s, err := mat.Submatrix(level)
		if err != nil {
			return nil, err
		}
		sub[i] = s
	}
	return NewDigitalNet(sub, n.interlacing)
}
