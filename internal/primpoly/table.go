// Package primpoly holds tables of primitive polynomials over GF(2), used to
// drive the Sobol direction-number recurrence.
//
// A [Table] is an explicit value: load it once with [Default] or [Load] and
// pass it to the builders that need it.
package primpoly

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

//go:embed primitive_polynomials.csv
var defaultCSV []byte

var (
	ErrOutOfRange   = errors.New("primpoly: coordinate outside table")
	ErrInvalidEntry = errors.New("primpoly: invalid table entry")
	ErrNoPolynomial = errors.New("primpoly: first coordinate has no polynomial")
)

// Polynomial is a primitive polynomial of the given degree. Representation
// packs the inner coefficients a_1..a_{degree-1}, a_1 being the most
// significant bit; the leading and constant coefficients are implicit ones.
type Polynomial struct {
	Degree         uint
	Representation uint64
}

// Coefficient returns the coefficient of z^k.
func (p Polynomial) Coefficient(k uint) uint8 {
	switch {
	case k == 0 || k == p.Degree:
		return 1
	case k > p.Degree:
		return 0
	}
	return uint8((p.Representation >> (k - 1)) & 1)
}

// Bits returns the full polynomial as an integer, bit k being the
// coefficient of z^k. Only valid for degree < 64.
func (p Polynomial) Bits() uint64 {
	return 1<<p.Degree | p.Representation<<1 | 1
}

func (p Polynomial) String() string {
	var terms []string
	for k := int(p.Degree); k >= 0; k-- {
		if p.Coefficient(uint(k)) == 0 {
			continue
		}
		switch k {
		case 0:
			terms = append(terms, "1")
		case 1:
			terms = append(terms, "z")
		default:
			terms = append(terms, fmt.Sprintf("z^%d", k))
		}
	}
	return strings.Join(terms, " + ")
}

func (p Polynomial) validate() error {
	if p.Degree == 0 || p.Degree > 64 {
		return fmt.Errorf("degree %d: %w", p.Degree, ErrInvalidEntry)
	}
	if p.Representation>>(p.Degree-1) != 0 {
		return fmt.Errorf("representation %d too wide for degree %d: %w", p.Representation, p.Degree, ErrInvalidEntry)
	}
	return nil
}

// Table is an ordered list of primitive polynomials. Entry 0 serves the
// second coordinate of a Sobol net.
type Table struct {
	polys []Polynomial
}

func NewTable(polys []Polynomial) (*Table, error) {
	for i, p := range polys {
		if err := p.validate(); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
	}
	cp := make([]Polynomial, len(polys))
	copy(cp, polys)
	return &Table{polys: cp}, nil
}

// Default parses the built-in table (all primitive polynomials up to
// degree 8, enough for 53 coordinates).
func Default() *Table {
	t, err := Load(bytes.NewReader(defaultCSV))
	if err != nil {
		panic(fmt.Sprintf("primpoly: built-in table: %v", err))
	}
	return t
}

// Load reads "degree,representation" records.
func Load(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}

	polys := make([]Polynomial, 0, len(records))
	for i, rec := range records {
		if len(rec) < 2 {
			return nil, fmt.Errorf("line %d: expected degree,representation: %w", i+1, ErrInvalidEntry)
		}
		deg, err := strconv.ParseUint(strings.TrimSpace(rec[0]), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("line %d: degree: %w", i+1, err)
		}
		rep, err := strconv.ParseUint(strings.TrimSpace(rec[1]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: representation: %w", i+1, err)
		}
		polys = append(polys, Polynomial{Degree: uint(deg), Representation: rep})
	}
	return NewTable(polys)
}

func (t *Table) Len() int { return len(t.polys) }

func (t *Table) At(i int) (Polynomial, error) {
	if i < 0 || i >= len(t.polys) {
		return Polynomial{}, fmt.Errorf("index %d of %d: %w", i, len(t.polys), ErrOutOfRange)
	}
	return t.polys[i], nil
}

// ForCoordinate returns the polynomial of a 1-based Sobol coordinate c >= 2.
func (t *Table) ForCoordinate(c int) (Polynomial, error) {
	if c == 1 {
		return Polynomial{}, ErrNoPolynomial
	}
	return t.At(c - 2)
}

// MaxCoordinates is the number of Sobol coordinates the table can serve.
func (t *Table) MaxCoordinates() int { return len(t.polys) + 1 }
