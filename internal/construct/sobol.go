package construct

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
	"github.com/san-kum/latnet/internal/gf2"
	"github.com/san-kum/latnet/internal/primpoly"
)

// DirectionNumbers holds one list of direction numbers per base coordinate.
// The first coordinate uses the identity matrix; its list is ignored.
type DirectionNumbers [][]uint64

// Validate checks every coordinate against the table at resolution m.
func (d DirectionNumbers) Validate(table *primpoly.Table, m uint) error {
	for c := 2; c <= len(d); c++ {
		p, err := table.ForCoordinate(c)
		if err != nil {
			return fmt.Errorf("coordinate %d: %w", c, err)
		}
		if err := checkDirectionNumbers(d[c-1], p.Degree, m); err != nil {
			return fmt.Errorf("coordinate %d: %w", c, err)
		}
	}
	return nil
}

func checkDirectionNumbers(dirnums []uint64, degree, m uint) error {
	if uint(len(dirnums)) != degree {
		return fmt.Errorf("%d direction numbers for degree %d: %w", len(dirnums), degree, ErrInvalidDirectionNumber)
	}
	for k := uint(0); k < min(degree, m); k++ {
		v := dirnums[k]
		if v%2 == 0 {
			return fmt.Errorf("direction number %d = %d is even: %w", k+1, v, ErrInvalidDirectionNumber)
		}
		if k < 63 && v >= 1<<(k+1) {
			return fmt.Errorf("direction number %d = %d must be below %d: %w", k+1, v, uint64(1)<<(k+1), ErrInvalidDirectionNumber)
		}
	}
	return nil
}

// SobolMatrix builds the m×m generating matrix of 1-based coordinate c.
//
// Column k holds direction number v_k written on k+1 rows, most significant
// bit on row 0. Columns past the polynomial degree s follow
//
//	v_k = a_1 2 v_{k-1} ^ ... ^ a_{s-1} 2^{s-1} v_{k-s+1} ^ 2^s v_{k-s} ^ v_{k-s}
//
// which, written on columns, leaves every shifted term on its own rows and
// moves the unshifted v_{k-s} down s rows.
func SobolMatrix(table *primpoly.Table, c int, dirnums []uint64, m uint) (*gf2.Matrix, error) {
	if c < 1 {
		return nil, fmt.Errorf("coordinate %d: %w", c, ErrDimensionMismatch)
	}
	if c == 1 {
		return gf2.Identity(m), nil
	}

	poly, err := table.ForCoordinate(c)
	if err != nil {
		return nil, fmt.Errorf("coordinate %d: %w", c, err)
	}
	degree := poly.Degree
	if err := checkDirectionNumbers(dirnums, degree, m); err != nil {
		return nil, fmt.Errorf("coordinate %d: %w", c, err)
	}

	cols := make([]*bitset.BitSet, m)
	for k := uint(0); k < min(degree, m); k++ {
		col := bitset.New(m)
		v := dirnums[k]
		for i := uint(0); i <= k; i++ {
			if (v>>(k-i))&1 == 1 {
				col.Set(i)
			}
		}
		cols[k] = col
	}

	for k := degree; k < m; k++ {
		col := bitset.New(m)
		oldest := cols[k-degree]
		for i, ok := oldest.NextSet(0); ok; i, ok = oldest.NextSet(i + 1) {
			col.Flip(i)
			if i+degree < m {
				col.Flip(i + degree)
			}
		}
		for j := uint(1); j < degree; j++ {
			if poly.Coefficient(j) == 1 {
				col.InPlaceSymmetricDifference(cols[k-degree+j])
			}
		}
		cols[k] = col
	}

	return gf2.FromColumns(m, cols)
}

// SobolMatrices builds the matrices of the first len(dirnums) coordinates.
func SobolMatrices(table *primpoly.Table, dirnums DirectionNumbers, m uint) ([]*gf2.Matrix, error) {
	out := make([]*gf2.Matrix, len(dirnums))
	for j := range dirnums {
		mat, err := SobolMatrix(table, j+1, dirnums[j], m)
		if err != nil {
			return nil, err
		}
		out[j] = mat
	}
	return out, nil
}

// joeKuo holds the first Joe-Kuo direction numbers, aligned with the
// built-in primitive polynomial table.
var joeKuo = DirectionNumbers{
	{0},
	{1},
	{1, 3},
	{1, 3, 1},
	{1, 1, 1},
	{1, 1, 3, 3},
	{1, 3, 5, 13},
	{1, 1, 5, 5, 17},
	{1, 1, 5, 5, 5},
	{1, 1, 7, 11, 19},
	{1, 1, 5, 1, 1},
	{1, 1, 1, 3, 11},
	{1, 3, 5, 5, 31},
}

// JoeKuoDirectionNumbers returns built-in direction numbers for n coordinates.
func JoeKuoDirectionNumbers(n int) (DirectionNumbers, error) {
	if n < 0 || n > len(joeKuo) {
		return nil, fmt.Errorf("no built-in direction numbers for %d coordinates (max %d): %w", n, len(joeKuo), ErrInvalidDirectionNumber)
	}
	out := make(DirectionNumbers, n)
	for i := range out {
		out[i] = append([]uint64(nil), joeKuo[i]...)
	}
	return out, nil
}
