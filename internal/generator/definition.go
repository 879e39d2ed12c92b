package generator

import (
	"fmt"

	"github.com/san-kum/latnet/internal/construct"
	"github.com/san-kum/latnet/internal/pointset"
)

// Definition is the generator data of one lattice or net, as produced by
// the search tool. Only the fields of its Kind are used:
//
//	ordinary:   Size, Vector
//	polynomial: Modulus (raised to ModulusPower), Generators
//	sobol:      Size (2^m), DirectionNumbers
//	explicit:   Size (2^m), Columns
//
// Net payloads hold one entry per base coordinate, Dimension·Interlacing
// in total.
type Definition struct {
	Kind        Kind          `json:"kind" yaml:"kind"`
	Dimension   int           `json:"dimension" yaml:"dimension"`
	Interlacing int           `json:"interlacing,omitempty" yaml:"interlacing,omitempty"`
	Size        pointset.Size `json:"size" yaml:"size"`

	Vector []uint64 `json:"vector,omitempty" yaml:"vector,omitempty"`

	Modulus      construct.Polynomial   `json:"modulus,omitempty" yaml:"modulus,omitempty"`
	ModulusPower uint                   `json:"modulus_power,omitempty" yaml:"modulus_power,omitempty"`
	Generators   []construct.Polynomial `json:"generators,omitempty" yaml:"generators,omitempty"`

	DirectionNumbers construct.DirectionNumbers `json:"direction_numbers,omitempty" yaml:"direction_numbers,omitempty"`

	// Columns holds explicit matrices as column integers, row 0 being the
	// most significant of the m bits.
	Columns [][]uint64 `json:"columns,omitempty" yaml:"columns,omitempty"`
}

// InterlacingFactor returns Interlacing, treating 0 as 1.
func (d *Definition) InterlacingFactor() int {
	if d.Interlacing == 0 {
		return 1
	}
	return d.Interlacing
}

// BaseDimension is the number of generating matrices of a net.
func (d *Definition) BaseDimension() int {
	return d.Dimension * d.InterlacingFactor()
}

// EffectiveModulus returns Modulus^ModulusPower.
func (d *Definition) EffectiveModulus() construct.Polynomial {
	if d.ModulusPower <= 1 {
		return d.Modulus.Normalize()
	}
	return d.Modulus.Pow(d.ModulusPower).Normalize()
}

// Resolution returns m for digital nets (2^m points) and the power of the
// size for ordinary lattices.
func (d *Definition) Resolution() uint {
	if d.Kind == Polynomial {
		if deg := d.EffectiveModulus().Degree(); deg > 0 {
			return uint(deg)
		}
		return 0
	}
	return d.Size.Power
}

// PointSize is the size of the resulting point set.
func (d *Definition) PointSize() pointset.Size {
	if d.Kind.DigitalNet() {
		return pointset.Binary(d.Resolution())
	}
	return d.Size
}

// Validate checks the payload of the definition's kind. It does not build
// matrices; builder errors surface from Build.
func (d *Definition) Validate() error {
	if _, err := ParseKind(string(d.Kind)); err != nil {
		return err
	}
	if d.Dimension < 1 {
		return fmt.Errorf("dimension %d: %w", d.Dimension, construct.ErrDimensionMismatch)
	}
	if d.Interlacing < 0 {
		return fmt.Errorf("interlacing %d: %w", d.Interlacing, construct.ErrDimensionMismatch)
	}

	base := d.BaseDimension()
	switch d.Kind {
	case Ordinary:
		if d.InterlacingFactor() != 1 {
			return fmt.Errorf("ordinary lattices have no interlacing: %w", construct.ErrDimensionMismatch)
		}
		if len(d.Vector) != d.Dimension {
			return countError("generating vector", len(d.Vector), d.Dimension)
		}
		return d.Size.Validate()

	case Polynomial:
		if d.Modulus.Degree() < 1 {
			return fmt.Errorf("modulus %v: %w", d.Modulus, construct.ErrInvalidGenerator)
		}
		if len(d.Generators) != base {
			return countError("generators", len(d.Generators), base)
		}
		if d.Size != (pointset.Size{}) && d.Size != d.PointSize() {
			return fmt.Errorf("size %v does not match modulus degree %d: %w", d.Size, d.Resolution(), pointset.ErrInvalidSize)
		}

	case Sobol:
		if err := d.checkBinarySize(); err != nil {
			return err
		}
		if len(d.DirectionNumbers) != base {
			return countError("direction number lists", len(d.DirectionNumbers), base)
		}

	case Explicit:
		if err := d.checkBinarySize(); err != nil {
			return err
		}
		if d.Size.Power > 64 {
			return fmt.Errorf("explicit matrices above 64 columns: %w", pointset.ErrInvalidSize)
		}
		if len(d.Columns) != base {
			return countError("matrices", len(d.Columns), base)
		}
	}
	return nil
}

func (d *Definition) checkBinarySize() error {
	if d.Size.Base != 2 {
		return fmt.Errorf("%s nets need size 2^m, got %v: %w", d.Kind, d.Size, pointset.ErrInvalidSize)
	}
	return nil
}

func countError(what string, got, want int) error {
	return fmt.Errorf("%d %s, want %d: %w", got, what, want, construct.ErrDimensionMismatch)
}
