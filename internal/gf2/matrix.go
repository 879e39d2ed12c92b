package gf2

import (
	"fmt"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// Matrix is an immutable square matrix over GF(2).
// cols[j] holds column j; bit i of a column is row i.
type Matrix struct {
	size uint
	cols []*bitset.BitSet
}

func newMatrix(m uint) *Matrix {
	cols := make([]*bitset.BitSet, m)
	for j := range cols {
		cols[j] = bitset.New(m)
	}
	return &Matrix{size: m, cols: cols}
}

// Identity returns the m×m identity matrix.
func Identity(m uint) *Matrix {
	mat := newMatrix(m)
	for k := uint(0); k < m; k++ {
		mat.cols[k].Set(k)
	}
	return mat
}

// FromColumns copies m columns of height m into a new matrix.
func FromColumns(m uint, cols []*bitset.BitSet) (*Matrix, error) {
	if uint(len(cols)) != m {
		return nil, fmt.Errorf("%d columns for size %d: %w", len(cols), m, ErrDimensionMismatch)
	}
	mat := newMatrix(m)
	for j, c := range cols {
		if c == nil {
			continue
		}
		for i, ok := c.NextSet(0); ok; i, ok = c.NextSet(i + 1) {
			if i >= m {
				return nil, fmt.Errorf("column %d has row %d beyond size %d: %w", j, i, m, ErrDimensionMismatch)
			}
			mat.cols[j].Set(i)
		}
	}
	return mat, nil
}

// FromRows builds a matrix from row-major 0/1 entries.
func FromRows(rows [][]uint8) (*Matrix, error) {
	m := uint(len(rows))
	mat := newMatrix(m)
	for i, row := range rows {
		if uint(len(row)) != m {
			return nil, fmt.Errorf("row %d has %d entries, want %d: %w", i, len(row), m, ErrDimensionMismatch)
		}
		for j, x := range row {
			switch x {
			case 0:
			case 1:
				mat.cols[j].Set(uint(i))
			default:
				return nil, fmt.Errorf("entry (%d,%d) = %d: %w", i, j, x, ErrNotBinary)
			}
		}
	}
	return mat, nil
}

// FromColumnInts builds an m×m matrix (m <= 64) from column integers where
// row 0 is the most significant of the m bits.
func FromColumnInts(m uint, cols []uint64) (*Matrix, error) {
	if m > 64 {
		return nil, fmt.Errorf("size %d exceeds 64 for integer columns: %w", m, ErrDimensionMismatch)
	}
	if uint(len(cols)) != m {
		return nil, fmt.Errorf("%d columns for size %d: %w", len(cols), m, ErrDimensionMismatch)
	}
	mat := newMatrix(m)
	for j, c := range cols {
		if m < 64 && c>>m != 0 {
			return nil, fmt.Errorf("column %d value %d does not fit in %d bits: %w", j, c, m, ErrDimensionMismatch)
		}
		for i := uint(0); i < m; i++ {
			if (c>>(m-1-i))&1 == 1 {
				mat.cols[j].Set(i)
			}
		}
	}
	return mat, nil
}

func (m *Matrix) Size() uint { return m.size }

// At returns entry (i, j). It panics if j is out of range.
func (m *Matrix) At(i, j uint) uint8 {
	if i < m.size && m.cols[j].Test(i) {
		return 1
	}
	return 0
}

// Column returns a copy of column j.
func (m *Matrix) Column(j uint) *bitset.BitSet {
	return m.cols[j].Clone()
}

func (m *Matrix) Rows() [][]uint8 {
	rows := make([][]uint8, m.size)
	for i := range rows {
		rows[i] = make([]uint8, m.size)
		for j := uint(0); j < m.size; j++ {
			rows[i][j] = m.At(uint(i), j)
		}
	}
	return rows
}

// ColumnInts is the inverse of FromColumnInts.
func (m *Matrix) ColumnInts() ([]uint64, error) {
	if m.size > 64 {
		return nil, fmt.Errorf("size %d exceeds 64 for integer columns: %w", m.size, ErrDimensionMismatch)
	}
	out := make([]uint64, m.size)
	for j, c := range m.cols {
		for i, ok := c.NextSet(0); ok; i, ok = c.NextSet(i + 1) {
			out[j] |= 1 << (m.size - 1 - i)
		}
	}
	return out, nil
}

// PackedColumns returns one word per column with row i at bit i.
// ok is false when the matrix is larger than 64.
func (m *Matrix) PackedColumns() (words []uint64, ok bool) {
	if m.size > 64 {
		return nil, false
	}
	words = make([]uint64, m.size)
	for j, c := range m.cols {
		for i, set := c.NextSet(0); set; i, set = c.NextSet(i + 1) {
			words[j] |= 1 << i
		}
	}
	return words, true
}

// Multiply returns the product m·v over GF(2).
func (m *Matrix) Multiply(v Vector) (Vector, error) {
	if v.Len() != m.size {
		return Vector{}, fmt.Errorf("vector length %d for matrix size %d: %w", v.Len(), m.size, ErrDimensionMismatch)
	}
	out := NewVector(m.size)
	if v.bits == nil {
		return out, nil
	}
	for j, ok := v.bits.NextSet(0); ok && j < m.size; j, ok = v.bits.NextSet(j + 1) {
		out.bits.InPlaceSymmetricDifference(m.cols[j])
	}
	return out, nil
}

// Submatrix returns a copy of the top-left width×width minor.
func (m *Matrix) Submatrix(width uint) (*Matrix, error) {
	if width > m.size {
		return nil, fmt.Errorf("submatrix width %d of size %d: %w", width, m.size, ErrDimensionMismatch)
	}
	sub := newMatrix(width)
	for j := uint(0); j < width; j++ {
		for i, ok := m.cols[j].NextSet(0); ok && i < width; i, ok = m.cols[j].NextSet(i + 1) {
			sub.cols[j].Set(i)
		}
	}
	return sub, nil
}

func (m *Matrix) Equal(o *Matrix) bool {
	if o == nil || m.size != o.size {
		return false
	}
	for j := range m.cols {
		if !m.cols[j].Equal(o.cols[j]) {
			return false
		}
	}
	return true
}

// Rank returns the rank over GF(2).
func (m *Matrix) Rank() uint {
	pivots := make(map[uint]*bitset.BitSet)
	var rank uint
	for _, c := range m.cols {
		v := c.Clone()
		for {
			p, ok := v.NextSet(0)
			if !ok {
				break
			}
			b, seen := pivots[p]
			if !seen {
				pivots[p] = v
				rank++
				break
			}
			v.InPlaceSymmetricDifference(b)
		}
	}
	return rank
}

// String renders the rows as space-separated digits, one row per line.
func (m *Matrix) String() string {
	var sb strings.Builder
	for i := uint(0); i < m.size; i++ {
		for j := uint(0); j < m.size; j++ {
			if j > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteByte('0' + m.At(i, j))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
