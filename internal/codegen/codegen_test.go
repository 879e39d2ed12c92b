package codegen

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/latnet/internal/construct"
	"github.com/san-kum/latnet/internal/pointset"
	"github.com/san-kum/latnet/internal/primpoly"
)

func lattice(t *testing.T) *pointset.Lattice {
	t.Helper()
	l, err := pointset.NewLattice(pointset.Plain(13), []uint64{1, 8})
	require.NoError(t, err)
	return l
}

func sobol(t *testing.T, m uint, interlacing int) *pointset.DigitalNet {
	t.Helper()
	dirnums, err := construct.JoeKuoDirectionNumbers(2 * interlacing)
	require.NoError(t, err)
	mats, err := construct.SobolMatrices(primpoly.Default(), dirnums, m)
	require.NoError(t, err)
	net, err := pointset.NewDigitalNet(mats, interlacing)
	require.NoError(t, err)
	return net
}

func TestRenderLattice(t *testing.T) {
	l := lattice(t)

	tests := []struct {
		lang Language
		want []string
	}{
		{C, []string{"#define N 13ULL", "z[DIM] = {1ULL, 8ULL}", "/* fib: rank-1 lattice"}},
		{Python, []string{"N = 13", "Z = [1, 8]", "# fib:"}},
		{Matlab, []string{"n = 13;", "z = [1 8];", "mod((0:n-1)' * z, n) / n"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.lang), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Render(&buf, tt.lang, l, "fib"))
			for _, s := range tt.want {
				assert.Contains(t, buf.String(), s)
			}
		})
	}
}

func TestRenderNet(t *testing.T) {
	net := sobol(t, 3, 1)

	var c bytes.Buffer
	require.NoError(t, Render(&c, C, net, ""))
	assert.Contains(t, c.String(), "#define M 3")
	assert.Contains(t, c.String(), "{4ULL, 2ULL, 1ULL}")
	assert.Contains(t, c.String(), "{4ULL, 6ULL, 5ULL}")

	var py bytes.Buffer
	require.NoError(t, Render(&py, Python, net, ""))
	assert.Contains(t, py.String(), "[4, 2, 1],")
	assert.Contains(t, py.String(), "[4, 6, 5],")
	assert.Contains(t, py.String(), "INTERLACING = 1")
}

// netCoordinate mirrors the arithmetic of the generated net programs.
func netCoordinate(cols [][]uint64, m uint, d, j int, i uint64) float64 {
	digits := make([]uint64, d)
	for k := range d {
		for b := uint(0); b < m; b++ {
			if i>>b&1 == 1 {
				digits[k] ^= cols[j*d+k][b]
			}
		}
	}
	var v float64
	for p := 0; p < d*int(m) && p < 53; p++ {
		k, r := p%d, p/d
		if digits[k]>>(int(m)-1-r)&1 == 1 {
			v += math.Ldexp(1, -p-1)
		}
	}
	return v
}

func TestGeneratedArithmeticMatchesNet(t *testing.T) {
	for _, d := range []int{1, 2} {
		net := sobol(t, 4, d)
		mats := net.Matrices()
		cols := make([][]uint64, len(mats))
		for k, mat := range mats {
			c, err := mat.ColumnInts()
			require.NoError(t, err)
			cols[k] = c
		}

		buf := make([]float64, net.Dimension())
		for i := uint64(0); i < net.Len(); i++ {
			p := net.Point(i, buf)
			for j := range p {
				assert.Equal(t, p[j], netCoordinate(cols, 4, d, j, i), "interlacing %d point %d coordinate %d", d, i, j)
			}
		}
	}
}

func TestRenderUnsupported(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, Matlab, sobol(t, 3, 1), "")
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = ParseLanguage("fortran")
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestLanguages(t *testing.T) {
	assert.Equal(t, []Language{C, Matlab, Python}, Languages(lattice(t)))
	assert.Equal(t, []Language{C, Python}, Languages(sobol(t, 3, 1)))
}

func TestParseLanguage(t *testing.T) {
	for in, want := range map[string]Language{"C": C, "py": Python, "octave": Matlab, "matlab": Matlab} {
		got, err := ParseLanguage(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}
