package resultfile

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/latnet/internal/construct"
	"github.com/san-kum/latnet/internal/generator"
	"github.com/san-kum/latnet/internal/pointset"
)

func TestParseSobol(t *testing.T) {
	res, err := ParseFile(context.Background(), filepath.Join("testdata", "sobol.txt"), VerifyMatrices(generator.NewBuilder(nil, nil)))
	require.NoError(t, err)

	def := res.Definition
	assert.Equal(t, generator.Sobol, def.Kind)
	assert.Equal(t, 2, def.Dimension)
	assert.Equal(t, pointset.Binary(3), def.Size)
	assert.Equal(t, construct.DirectionNumbers{{0}, {1}}, def.DirectionNumbers)
	assert.InDelta(t, 0.4375, res.Merit, 1e-12)
	assert.InDelta(t, 0.002, res.Seconds, 1e-12)
	require.Len(t, res.Matrices, 2)

	ps, err := res.PointSet()
	require.NoError(t, err)
	assert.Equal(t, []float64{0, .5, .75, .25, .625, .125, .375, .875}, slices.Collect(ps.Coordinate(1)))
}

func TestParsePolynomial(t *testing.T) {
	res, err := ParseFile(context.Background(), filepath.Join("testdata", "polynomial.txt"), VerifyMatrices(generator.NewBuilder(nil, nil)))
	require.NoError(t, err)

	def := res.Definition
	assert.Equal(t, generator.Polynomial, def.Kind)
	assert.Equal(t, "1 1 1", def.Modulus.String())
	require.Len(t, def.Generators, 2)
	assert.Equal(t, 1, def.Generators[1].Degree())

	built, err := generator.Build(context.Background(), &def, nil)
	require.NoError(t, err)
	printed, err := res.PointSet()
	require.NoError(t, err)
	for i := uint64(0); i < printed.Len(); i++ {
		assert.Equal(t, built.Point(i, nil), printed.Point(i, nil), "point %d", i)
	}
}

func TestParseOrdinary(t *testing.T) {
	res, err := ParseFile(context.Background(), filepath.Join("testdata", "ordinary.txt"))
	require.NoError(t, err)

	def := res.Definition
	assert.Equal(t, generator.Ordinary, def.Kind)
	assert.Equal(t, pointset.Size{Base: 2, Power: 4}, def.Size)
	assert.Equal(t, []uint64{1, 5}, def.Vector)
	assert.Nil(t, res.Matrices)

	ps, err := res.PointSet()
	require.NoError(t, err)
	assert.Equal(t, uint64(16), ps.Len())
	assert.Equal(t, []float64{.0625, .3125}, ps.Point(1, nil))
}

func TestParsePlainOrdinary(t *testing.T) {
	src := "Ordinary\n7\n1\n0\n0\n3\n1.0\n0.1\n"
	res, err := Parse(context.Background(), strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, pointset.Plain(7), res.Definition.Size)
}

func TestParseExplicitInterlaced(t *testing.T) {
	res, err := ParseFile(context.Background(), filepath.Join("testdata", "explicit_interlaced.txt"))
	require.NoError(t, err)

	def := res.Definition
	assert.Equal(t, generator.Explicit, def.Kind)
	assert.Equal(t, 1, def.Dimension)
	assert.Equal(t, 2, def.Interlacing)
	assert.Equal(t, [][]uint64{{2, 1}, {2, 3}}, def.Columns)

	ps, err := res.PointSet()
	require.NoError(t, err)
	assert.Equal(t, 1, ps.Dimension())
	// x = 1: both base products are e_0, filling digit positions 0 and 1
	assert.Equal(t, []float64{.75}, ps.Point(1, nil))
}

func TestVerifyMatricesDetectsMismatch(t *testing.T) {
	src, err := os.ReadFile(filepath.Join("testdata", "sobol.txt"))
	require.NoError(t, err)
	tampered := strings.Replace(string(src), "1 1 1\n", "1 0 1\n", 1)

	_, err = Parse(context.Background(), strings.NewReader(tampered))
	require.NoError(t, err, "unverified parse accepts any matrix")

	_, err = Parse(context.Background(), strings.NewReader(tampered), VerifyMatrices(generator.NewBuilder(nil, nil)))
	assert.ErrorIs(t, err, ErrMatrixMismatch)
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"empty", ""},
		{"truncated header", "3\n3\n"},
		{"point count", "3\n3\n9\n1\n1\nSobol\n0\n//dim\n1 0 0\n0 1 0\n0 0 1\n0\n0\n"},
		{"non-square", "2\n3\n4\n1\n1\nExplicit\n"},
		{"bad interlacing", "2\n2\n4\n3\n2\nExplicit\n"},
		{"unknown construction", "2\n2\n4\n1\n1\nHalton\n"},
		{"non-binary row", "2\n2\n4\n1\n1\nExplicit\n//dim\n1 2\n0 1\n0\n0\n"},
		{"short row", "2\n2\n4\n1\n1\nExplicit\n//dim\n1\n0 1\n0\n0\n"},
		{"missing trailer", "2\n2\n4\n1\n1\nExplicit\n//dim\n1 0\n0 1\n"},
		{"ordinary size", "Ordinary\n10\n1\n2\n3\n1\n0\n0\n"},
		{"ordinary vector", "Ordinary\n8\n2\n0\n0\n1\nx\n0\n0\n"},
		{"polynomial size", "3\n3\n8\n1\n1\nPolynomial\n1 1 1\n1\n//dim\n1 0 0\n0 1 0\n0 0 1\n0\n0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(context.Background(), strings.NewReader(tt.src))
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}
