package gf2

import (
	"fmt"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// Vector is a fixed-length vector over GF(2).
type Vector struct {
	n    uint
	bits *bitset.BitSet
}

func NewVector(n uint) Vector {
	return Vector{n: n, bits: bitset.New(n)}
}

// VectorFromIndex returns the binary digit vector of a point index:
// bit i of the vector is bit i of x. Digits beyond n are dropped.
func VectorFromIndex(x uint64, n uint) Vector {
	v := NewVector(n)
	for i := uint(0); i < n && i < 64; i++ {
		if (x>>i)&1 == 1 {
			v.bits.Set(i)
		}
	}
	return v
}

func VectorFromBits(b []uint8) (Vector, error) {
	v := NewVector(uint(len(b)))
	for i, x := range b {
		switch x {
		case 0:
		case 1:
			v.bits.Set(uint(i))
		default:
			return Vector{}, fmt.Errorf("index %d value %d: %w", i, x, ErrNotBinary)
		}
	}
	return v, nil
}

func (v Vector) Len() uint { return v.n }

// Bit returns entry i, or 0 when i is out of range.
func (v Vector) Bit(i uint) uint8 {
	if v.bits == nil || i >= v.n || !v.bits.Test(i) {
		return 0
	}
	return 1
}

func (v Vector) Bits() []uint8 {
	out := make([]uint8, v.n)
	for i := uint(0); i < v.n; i++ {
		out[i] = v.Bit(i)
	}
	return out
}

// Uint64 packs the first 64 entries, entry i at bit i.
func (v Vector) Uint64() uint64 {
	var w uint64
	if v.bits == nil {
		return 0
	}
	for i, ok := v.bits.NextSet(0); ok && i < v.n && i < 64; i, ok = v.bits.NextSet(i + 1) {
		w |= 1 << i
	}
	return w
}

func (v Vector) Equal(o Vector) bool {
	if v.n != o.n {
		return false
	}
	for i := uint(0); i < v.n; i++ {
		if v.Bit(i) != o.Bit(i) {
			return false
		}
	}
	return true
}

func (v Vector) String() string {
	var sb strings.Builder
	for i := uint(0); i < v.n; i++ {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteByte('0' + v.Bit(i))
	}
	return sb.String()
}
