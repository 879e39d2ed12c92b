package pointset

import (
	"errors"
	"fmt"

	"github.com/san-kum/latnet/internal/gf2"
)

var (
	// ErrInvalidLevel indicates a truncation level above the resolution.
	ErrInvalidLevel = fmt.Errorf("pointset: invalid level: %w", gf2.ErrDimensionMismatch)

	// ErrInvalidSize indicates an empty or overflowing point count.
	ErrInvalidSize = errors.New("pointset: invalid size")

	// ErrTooManyPoints is returned when a request would materialize more
	// points than the caller allowed.
	ErrTooManyPoints = errors.New("pointset: too many points")

	// ErrIndexOutOfRange indicates a point index >= Len.
	ErrIndexOutOfRange = errors.New("pointset: index out of range")
)
