package construct

import (
	"fmt"

	"github.com/san-kum/latnet/internal/gf2"
)

// ExpandSeries returns the first limit coefficients e_1, e_2, ... of the
// formal Laurent series h(z)/P(z) = sum_l e_l z^-l over GF(2), computed with
// the LFSR recurrence of the modulus. Index l-1 of the result holds e_l.
func ExpandSeries(modulus, gen Polynomial, limit int) []uint8 {
	m := modulus.Degree()
	expansion := make([]uint8, 0, limit)
	for l := 1; l <= limit; l++ {
		res := gen.Coefficient(m - l)
		for p := max(1, l-m); p < l; p++ {
			res ^= expansion[p-1] & modulus.Coefficient(m-l+p)
		}
		expansion = append(expansion, res)
	}
	return expansion
}

// PolynomialLatticeMatrix returns the m×m Hankel matrix M[i][j] = e_{i+j+1}
// of the polynomial lattice rule with modulus P (degree m) and generator h.
func PolynomialLatticeMatrix(modulus, gen Polynomial) (*gf2.Matrix, error) {
	m := modulus.Degree()
	if m < 1 {
		return nil, fmt.Errorf("modulus %v has degree %d: %w", modulus, m, ErrInvalidGenerator)
	}
	if gen.Degree() >= m {
		return nil, fmt.Errorf("generator %v has degree %d, modulus degree %d: %w", gen, gen.Degree(), m, ErrInvalidGenerator)
	}

	expansion := ExpandSeries(modulus, gen, 2*m-1)
	rows := make([][]uint8, m)
	for i := range rows {
		rows[i] = make([]uint8, m)
		for j := range rows[i] {
			rows[i][j] = expansion[i+j]
		}
	}
	return gf2.FromRows(rows)
}

// PolynomialLatticeMatrices builds one matrix per generator.
func PolynomialLatticeMatrices(modulus Polynomial, gens []Polynomial) ([]*gf2.Matrix, error) {
	out := make([]*gf2.Matrix, len(gens))
	for j, g := range gens {
		mat, err := PolynomialLatticeMatrix(modulus, g)
		if err != nil {
			return nil, fmt.Errorf("coordinate %d: %w", j+1, err)
		}
		out[j] = mat
	}
	return out, nil
}
