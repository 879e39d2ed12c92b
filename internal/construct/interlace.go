package construct

import (
	"fmt"

	"github.com/san-kum/latnet/internal/gf2"
)

// Interlace groups dim·d base matrices into dim coordinates of d matrices
// each, in order: coordinate j owns matrices j·d .. j·d+d-1.
func Interlace(matrices []*gf2.Matrix, d int) ([][]*gf2.Matrix, error) {
	if d < 1 {
		return nil, fmt.Errorf("interlacing %d: %w", d, ErrDimensionMismatch)
	}
	if len(matrices)%d != 0 {
		return nil, fmt.Errorf("%d matrices not divisible by interlacing %d: %w", len(matrices), d, ErrDimensionMismatch)
	}
	groups := make([][]*gf2.Matrix, len(matrices)/d)
	for j := range groups {
		groups[j] = matrices[j*d : (j+1)*d : (j+1)*d]
	}
	return groups, nil
}
