package gf2

import "errors"

var (
	// ErrDimensionMismatch indicates a shape mismatch between matrices and vectors.
	ErrDimensionMismatch = errors.New("gf2: dimension mismatch")

	// ErrNotBinary indicates an entry outside {0, 1}.
	ErrNotBinary = errors.New("gf2: entry is not a binary digit")
)
