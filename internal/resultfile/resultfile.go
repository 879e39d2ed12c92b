// Package resultfile reads the text output of the lattice and net search
// tool and turns it into generator definitions.
//
// The format is line oriented; anything after "//" on a line is a comment.
// Ordinary lattices:
//
//	Ordinary
//	<points>
//	<dimension>
//	<base>          0 for a plain lattice
//	<max level>
//	<a_1> ... one line per coordinate
//	<merit>
//	<cpu seconds>
//
// Digital nets:
//
//	<columns>
//	<rows>
//	<points>
//	<base dimension>
//	<interlacing>
//	Polynomial | Sobol | Explicit
//	<modulus> then one generator per base coordinate     (Polynomial)
//	<direction numbers> one line per base coordinate     (Sobol)
//	per base coordinate: a header line, then one line per matrix row
//	<merit>
//	<cpu seconds>
package resultfile

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/san-kum/latnet/internal/construct"
	"github.com/san-kum/latnet/internal/generator"
	"github.com/san-kum/latnet/internal/gf2"
	"github.com/san-kum/latnet/internal/pointset"
)

var (
	ErrMalformed      = errors.New("resultfile: malformed output")
	ErrMatrixMismatch = errors.New("resultfile: printed matrix differs from its generator")
)

// Result is one parsed search result.
type Result struct {
	Definition generator.Definition
	// Matrices holds the printed generating matrices of a net, one per
	// base coordinate. Nil for ordinary lattices.
	Matrices []*gf2.Matrix
	Merit    float64
	Seconds  float64
}

// PointSet evaluates the result. Nets use the printed matrices.
func (r *Result) PointSet() (pointset.PointSet, error) {
	if r.Definition.Kind == generator.Ordinary {
		return pointset.NewLattice(r.Definition.Size, r.Definition.Vector)
	}
	return pointset.NewDigitalNet(r.Matrices, r.Definition.InterlacingFactor())
}

type options struct {
	builder *generator.Builder
}

// Option configures Parse.
type Option func(*options)

// VerifyMatrices rebuilds the matrices of Sobol and polynomial nets with b
// and fails with ErrMatrixMismatch when they differ from the printed ones.
func VerifyMatrices(b *generator.Builder) Option {
	return func(o *options) { o.builder = b }
}

// ParseFile parses the result stored at path.
func ParseFile(ctx context.Context, path string, opts ...Option) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(ctx, f, opts...)
}

// Parse reads one result.
func Parse(ctx context.Context, r io.Reader, opts ...Option) (*Result, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	lr, err := newLineReader(r)
	if err != nil {
		return nil, err
	}
	first, err := lr.peek()
	if err != nil {
		return nil, err
	}

	var res *Result
	if strings.EqualFold(first, "ordinary") {
		res, err = parseOrdinary(lr)
	} else {
		res, err = parseNet(lr)
	}
	if err != nil {
		return nil, err
	}

	if o.builder != nil && (res.Definition.Kind == generator.Sobol || res.Definition.Kind == generator.Polynomial) {
		if err := verify(ctx, o.builder, res); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func parseOrdinary(lr *lineReader) (*Result, error) {
	lr.skip()
	n, err := lr.readUint()
	if err != nil {
		return nil, err
	}
	dim, err := lr.readInt()
	if err != nil {
		return nil, err
	}
	if dim < 1 {
		return nil, fmt.Errorf("dimension %d: %w", dim, ErrMalformed)
	}
	base, err := lr.readUint()
	if err != nil {
		return nil, err
	}
	maxLevel, err := lr.readUint()
	if err != nil {
		return nil, err
	}

	size := pointset.Plain(n)
	if base > 0 {
		size = pointset.Size{Base: base, Power: uint(maxLevel)}
		if got, err := size.N(); err != nil || got != n {
			return nil, fmt.Errorf("%d points is not %v: %w", n, size, ErrMalformed)
		}
	}

	vector := make([]uint64, dim)
	for j := range vector {
		if vector[j], err = lr.readUint(); err != nil {
			return nil, err
		}
	}

	res := &Result{Definition: generator.Definition{
		Kind:      generator.Ordinary,
		Dimension: dim,
		Size:      size,
		Vector:    vector,
	}}
	if err := readTrailer(lr, res); err != nil {
		return nil, err
	}
	if err := res.Definition.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return res, nil
}

func parseNet(lr *lineReader) (*Result, error) {
	var header [5]int
	for i := range header {
		v, err := lr.readInt()
		if err != nil {
			return nil, err
		}
		header[i] = v
	}
	cols, rows, points, baseDim, interlacing := header[0], header[1], header[2], header[3], header[4]

	switch {
	case cols < 0 || cols > 63 || points != 1<<cols:
		return nil, fmt.Errorf("%d points for %d columns: %w", points, cols, ErrMalformed)
	case rows != cols:
		return nil, fmt.Errorf("%d rows for %d columns, only square matrices are supported: %w", rows, cols, ErrMalformed)
	case interlacing < 1 || baseDim < 1 || baseDim%interlacing != 0:
		return nil, fmt.Errorf("base dimension %d with interlacing %d: %w", baseDim, interlacing, ErrMalformed)
	}

	kindLine, n, err := lr.next()
	if err != nil {
		return nil, err
	}
	kind, err := generator.ParseKind(kindLine)
	if err != nil || kind == generator.Ordinary {
		return nil, fmt.Errorf("line %d: construction %q: %w", n, kindLine, ErrMalformed)
	}

	def := generator.Definition{
		Kind:        kind,
		Dimension:   baseDim / interlacing,
		Interlacing: interlacing,
		Size:        pointset.Binary(uint(cols)),
	}

	switch kind {
	case generator.Polynomial:
		if def.Modulus, err = lr.readPolynomial(); err != nil {
			return nil, err
		}
		def.Generators = make([]construct.Polynomial, baseDim)
		for c := range def.Generators {
			if def.Generators[c], err = lr.readPolynomial(); err != nil {
				return nil, err
			}
		}
	case generator.Sobol:
		def.DirectionNumbers = make(construct.DirectionNumbers, baseDim)
		for c := range def.DirectionNumbers {
			if def.DirectionNumbers[c], err = lr.readUints(); err != nil {
				return nil, err
			}
		}
	}

	matrices := make([]*gf2.Matrix, baseDim)
	for c := range matrices {
		lr.skip()
		bitRows := make([][]uint8, rows)
		for i := range bitRows {
			if bitRows[i], err = lr.readBits(); err != nil {
				return nil, err
			}
		}
		if matrices[c], err = gf2.FromRows(bitRows); err != nil {
			return nil, fmt.Errorf("matrix %d: %w: %w", c+1, ErrMalformed, err)
		}
	}

	if kind == generator.Explicit {
		def.Columns = make([][]uint64, baseDim)
		for c, mat := range matrices {
			if def.Columns[c], err = mat.ColumnInts(); err != nil {
				return nil, err
			}
		}
	}

	res := &Result{Definition: def, Matrices: matrices}
	if err := readTrailer(lr, res); err != nil {
		return nil, err
	}
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return res, nil
}

func readTrailer(lr *lineReader, res *Result) error {
	var err error
	if res.Merit, err = lr.readFloat(); err != nil {
		return err
	}
	if res.Seconds, err = lr.readFloat(); err != nil {
		return err
	}
	return nil
}

func verify(ctx context.Context, b *generator.Builder, res *Result) error {
	want, err := b.Matrices(ctx, &res.Definition)
	if err != nil {
		return err
	}
	for c := range want {
		if !want[c].Equal(res.Matrices[c]) {
			return fmt.Errorf("coordinate %d: %w", c+1, ErrMatrixMismatch)
		}
	}
	return nil
}

type lineReader struct {
	lines []string
	pos   int
}

func newLineReader(r io.Reader) (*lineReader, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		lines = append(lines, strings.TrimRight(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return &lineReader{lines: lines}, nil
}

// next returns the value part of the next line and its 1-based number.
func (l *lineReader) next() (string, int, error) {
	if l.pos >= len(l.lines) {
		return "", l.pos + 1, fmt.Errorf("line %d: unexpected end of output: %w", l.pos+1, ErrMalformed)
	}
	line := l.lines[l.pos]
	l.pos++
	value, _, _ := strings.Cut(line, "//")
	return strings.TrimSpace(value), l.pos, nil
}

func (l *lineReader) peek() (string, error) {
	v, _, err := l.next()
	if err != nil {
		return "", err
	}
	l.pos--
	return v, nil
}

func (l *lineReader) skip() {
	if l.pos < len(l.lines) {
		l.pos++
	}
}

func (l *lineReader) readInt() (int, error) {
	s, n, err := l.next()
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("line %d: %q is not an integer: %w", n, s, ErrMalformed)
	}
	return v, nil
}

func (l *lineReader) readUint() (uint64, error) {
	s, n, err := l.next()
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("line %d: %q is not a non-negative integer: %w", n, s, ErrMalformed)
	}
	return v, nil
}

func (l *lineReader) readFloat() (float64, error) {
	s, n, err := l.next()
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("line %d: %q is not a number: %w", n, s, ErrMalformed)
	}
	return v, nil
}

func (l *lineReader) readUints() ([]uint64, error) {
	s, n, err := l.next()
	if err != nil {
		return nil, err
	}
	fields := strings.Fields(s)
	out := make([]uint64, len(fields))
	for i, f := range fields {
		if out[i], err = strconv.ParseUint(f, 10, 64); err != nil {
			return nil, fmt.Errorf("line %d: %q is not a non-negative integer: %w", n, f, ErrMalformed)
		}
	}
	return out, nil
}

func (l *lineReader) readBits() ([]uint8, error) {
	s, n, err := l.next()
	if err != nil {
		return nil, err
	}
	fields := strings.Fields(s)
	out := make([]uint8, len(fields))
	for i, f := range fields {
		switch f {
		case "0":
		case "1":
			out[i] = 1
		default:
			return nil, fmt.Errorf("line %d: %q is not a bit: %w", n, f, ErrMalformed)
		}
	}
	return out, nil
}

func (l *lineReader) readPolynomial() (construct.Polynomial, error) {
	s, n, err := l.next()
	if err != nil {
		return nil, err
	}
	p, err := construct.ParsePolynomial(s)
	if err != nil {
		return nil, fmt.Errorf("line %d: %w: %w", n, ErrMalformed, err)
	}
	return p, nil
}
