package construct

import (
	"errors"
	"testing"

	"github.com/san-kum/latnet/internal/gf2"
	"github.com/san-kum/latnet/internal/primpoly"
)

func mustRows(t *testing.T, rows [][]uint8) *gf2.Matrix {
	t.Helper()
	m, err := gf2.FromRows(rows)
	if err != nil {
		t.Fatalf("FromRows: %v", err)
	}
	return m
}

func TestSobolFirstCoordinateIsIdentity(t *testing.T) {
	tbl := primpoly.Default()
	for _, m := range []uint{1, 5, 32, 70} {
		got, err := SobolMatrix(tbl, 1, []uint64{0}, m)
		if err != nil {
			t.Fatalf("m=%d: %v", m, err)
		}
		if !got.Equal(gf2.Identity(m)) {
			t.Errorf("m=%d: coordinate 1 is not the identity", m)
		}
	}
}

func TestSobolSecondCoordinateIsPascal(t *testing.T) {
	tbl := primpoly.Default()
	got, err := SobolMatrix(tbl, 2, []uint64{1}, 4)
	if err != nil {
		t.Fatal(err)
	}
	want := mustRows(t, [][]uint8{
		{1, 1, 1, 1},
		{0, 1, 0, 1},
		{0, 0, 1, 1},
		{0, 0, 0, 1},
	})
	if !got.Equal(want) {
		t.Errorf("got\n%v\nwant\n%v", got, want)
	}

	// binomial coefficients mod 2 at a larger resolution
	const m = 40
	big, err := SobolMatrix(tbl, 2, []uint64{1}, m)
	if err != nil {
		t.Fatal(err)
	}
	for i := uint(0); i < m; i++ {
		for j := uint(0); j < m; j++ {
			var want uint8
			if j >= i && j&i == i {
				want = 1
			}
			if big.At(i, j) != want {
				t.Fatalf("entry (%d,%d) = %d, want C(%d,%d) mod 2 = %d", i, j, big.At(i, j), j, i, want)
			}
		}
	}
}

func TestSobolThirdCoordinate(t *testing.T) {
	// z^2 + z + 1 with m_1 = 1, m_2 = 3 gives m_3 = 3, m_4 = 9
	got, err := SobolMatrix(primpoly.Default(), 3, []uint64{1, 3}, 4)
	if err != nil {
		t.Fatal(err)
	}
	want, err := gf2.FromColumnInts(4, []uint64{1 << 3, 3 << 2, 3 << 1, 9})
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(want) {
		t.Errorf("got\n%v\nwant\n%v", got, want)
	}
}

func TestSobolMatricesAreUpperTriangularAndInvertible(t *testing.T) {
	tbl := primpoly.Default()
	dirnums, err := JoeKuoDirectionNumbers(13)
	if err != nil {
		t.Fatal(err)
	}
	const m = 20
	mats, err := SobolMatrices(tbl, dirnums, m)
	if err != nil {
		t.Fatal(err)
	}
	for c, mat := range mats {
		for i := uint(0); i < m; i++ {
			if mat.At(i, i) != 1 {
				t.Errorf("coordinate %d: diagonal entry %d is zero", c+1, i)
			}
			for j := uint(0); j < i; j++ {
				if mat.At(i, j) != 0 {
					t.Errorf("coordinate %d: entry (%d,%d) below diagonal", c+1, i, j)
				}
			}
		}
		if mat.Rank() != m {
			t.Errorf("coordinate %d: rank %d", c+1, mat.Rank())
		}
	}
}

func TestSobolFirstColumn(t *testing.T) {
	tbl := primpoly.Default()
	dirnums, _ := JoeKuoDirectionNumbers(10)
	e0 := gf2.Identity(8).Column(0)
	for c := 2; c <= len(dirnums); c++ {
		mat, err := SobolMatrix(tbl, c, dirnums[c-1], 8)
		if err != nil {
			t.Fatal(err)
		}
		if dirnums[c-1][0] == 1 && !mat.Column(0).Equal(e0) {
			t.Errorf("coordinate %d: first column differs from identity", c)
		}
	}
}

func TestSobolDeterministic(t *testing.T) {
	tbl := primpoly.Default()
	a, err := SobolMatrix(tbl, 7, []uint64{1, 3, 5, 13}, 30)
	if err != nil {
		t.Fatal(err)
	}
	b, err := SobolMatrix(tbl, 7, []uint64{1, 3, 5, 13}, 30)
	if err != nil {
		t.Fatal(err)
	}
	if !a.Equal(b) {
		t.Error("same inputs produced different matrices")
	}
}

func TestSobolInvalidDirectionNumbers(t *testing.T) {
	tbl := primpoly.Default()
	tests := []struct {
		name    string
		c       int
		dirnums []uint64
		m       uint
	}{
		{"even", 3, []uint64{1, 2}, 8},
		{"too large", 3, []uint64{1, 5}, 8},
		{"first not one", 2, []uint64{3}, 8},
		{"too short", 4, []uint64{1, 3}, 8},
		{"too long", 2, []uint64{1, 1}, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SobolMatrix(tbl, tt.c, tt.dirnums, tt.m)
			if !errors.Is(err, ErrInvalidDirectionNumber) {
				t.Errorf("expected ErrInvalidDirectionNumber, got %v", err)
			}
		})
	}
}

func TestSobolCoordinateOutsideTable(t *testing.T) {
	tbl, err := primpoly.NewTable([]primpoly.Polynomial{{Degree: 1}})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := SobolMatrix(tbl, 3, []uint64{1, 1}, 4); !errors.Is(err, primpoly.ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}
}

func TestSobolLowResolutionIgnoresTrailingNumbers(t *testing.T) {
	// degree 5 polynomial at m = 2: only the first two numbers are checked
	got, err := SobolMatrix(primpoly.Default(), 8, []uint64{1, 1, 64, 64, 64}, 2)
	if err != nil {
		t.Fatal(err)
	}
	want := mustRows(t, [][]uint8{{1, 0}, {0, 1}})
	if !got.Equal(want) {
		t.Errorf("got\n%v", got)
	}
}

func TestJoeKuoDirectionNumbers(t *testing.T) {
	tbl := primpoly.Default()
	d, err := JoeKuoDirectionNumbers(13)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Validate(tbl, 32); err != nil {
		t.Errorf("built-in numbers invalid: %v", err)
	}

	d[1][0] = 99
	again, _ := JoeKuoDirectionNumbers(2)
	if again[1][0] != 1 {
		t.Error("returned slices alias the built-in table")
	}

	if _, err := JoeKuoDirectionNumbers(14); !errors.Is(err, ErrInvalidDirectionNumber) {
		t.Errorf("expected error beyond table, got %v", err)
	}
}
