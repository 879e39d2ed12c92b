package construct

import (
	"errors"

	"github.com/san-kum/latnet/internal/gf2"
)

var (
	// ErrDimensionMismatch indicates inconsistent matrix shapes or counts.
	ErrDimensionMismatch = gf2.ErrDimensionMismatch

	// ErrInvalidDirectionNumber indicates a direction number that is even,
	// too large for its position, or a list of the wrong length.
	ErrInvalidDirectionNumber = errors.New("construct: invalid direction number")

	// ErrInvalidGenerator indicates a generator or modulus polynomial out of range.
	ErrInvalidGenerator = errors.New("construct: invalid generator")
)
