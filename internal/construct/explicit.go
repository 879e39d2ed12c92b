package construct

import (
	"fmt"

	"github.com/san-kum/latnet/internal/gf2"
)

// ExplicitMatrices builds one matrix per coordinate from rows of 0/1
// entries. All matrices must share the same size.
func ExplicitMatrices(rows [][][]uint8) ([]*gf2.Matrix, error) {
	out := make([]*gf2.Matrix, len(rows))
	for j, r := range rows {
		mat, err := gf2.FromRows(r)
		if err != nil {
			return nil, fmt.Errorf("coordinate %d: %w", j+1, err)
		}
		out[j] = mat
	}
	if err := CheckUniform(out); err != nil {
		return nil, err
	}
	return out, nil
}

// ExplicitColumnMatrices builds m×m matrices from column integers, row 0
// being the most significant of the m bits.
func ExplicitColumnMatrices(m uint, cols [][]uint64) ([]*gf2.Matrix, error) {
	out := make([]*gf2.Matrix, len(cols))
	for j, c := range cols {
		mat, err := gf2.FromColumnInts(m, c)
		if err != nil {
			return nil, fmt.Errorf("coordinate %d: %w", j+1, err)
		}
		out[j] = mat
	}
	return out, nil
}

// CheckUniform reports ErrDimensionMismatch unless every matrix has the
// size of the first.
func CheckUniform(matrices []*gf2.Matrix) error {
	if len(matrices) == 0 {
		return nil
	}
	m := matrices[0].Size()
	for j, mat := range matrices[1:] {
		if mat.Size() != m {
			return fmt.Errorf("coordinate %d has size %d, coordinate 1 has %d: %w", j+2, mat.Size(), m, ErrDimensionMismatch)
		}
	}
	return nil
}
