package primpoly

import (
	"errors"
	"strings"
	"testing"
)

// order of z modulo p, or 0 if it exceeds 2^degree
func multiplicativeOrder(p Polynomial) uint64 {
	mod := p.Bits()
	cur := uint64(1)
	for k := uint64(1); k <= 1<<p.Degree; k++ {
		cur <<= 1
		if cur>>p.Degree&1 == 1 {
			cur ^= mod
		}
		if cur == 1 {
			return k
		}
	}
	return 0
}

func TestDefaultTableIsPrimitive(t *testing.T) {
	tbl := Default()
	if tbl.Len() != 52 {
		t.Fatalf("expected 52 polynomials, got %d", tbl.Len())
	}

	prevDeg := uint(0)
	for i := 0; i < tbl.Len(); i++ {
		p, err := tbl.At(i)
		if err != nil {
			t.Fatal(err)
		}
		if p.Degree < prevDeg {
			t.Errorf("entry %d: degrees not sorted", i)
		}
		prevDeg = p.Degree

		want := uint64(1)<<p.Degree - 1
		if got := multiplicativeOrder(p); got != want {
			t.Errorf("entry %d (%v): order %d, want %d", i, p, got, want)
		}
	}
}

func TestForCoordinate(t *testing.T) {
	tbl := Default()

	if _, err := tbl.ForCoordinate(1); !errors.Is(err, ErrNoPolynomial) {
		t.Errorf("coordinate 1: got %v", err)
	}

	p, err := tbl.ForCoordinate(2)
	if err != nil {
		t.Fatal(err)
	}
	if p.Degree != 1 || p.Representation != 0 {
		t.Errorf("coordinate 2: got %+v, want z + 1", p)
	}

	p, err = tbl.ForCoordinate(4)
	if err != nil {
		t.Fatal(err)
	}
	if p.String() != "z^3 + z + 1" {
		t.Errorf("coordinate 4: got %q", p.String())
	}

	if _, err := tbl.ForCoordinate(tbl.MaxCoordinates() + 1); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("beyond table: got %v", err)
	}
}

func TestCoefficient(t *testing.T) {
	// z^4 + z^3 + 1: a_1 = 1, a_2 = a_3 = 0
	p := Polynomial{Degree: 4, Representation: 4}
	want := []uint8{1, 0, 0, 1, 1, 0}
	for k, w := range want {
		if got := p.Coefficient(uint(k)); got != w {
			t.Errorf("coefficient z^%d = %d, want %d", k, got, w)
		}
	}
	if p.Bits() != 0b11001 {
		t.Errorf("Bits() = %b", p.Bits())
	}
}

func TestLoad(t *testing.T) {
	src := "# degree,representation\n1,0\n2, 1\n3,2\n"
	tbl, err := Load(strings.NewReader(src))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tbl.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", tbl.Len())
	}
	p, _ := tbl.At(2)
	if p.Degree != 3 || p.Representation != 2 {
		t.Errorf("entry 2 = %+v", p)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"short record", "3\n"},
		{"zero degree", "0,0\n"},
		{"wide representation", "3,4\n"},
		{"degree one with representation", "1,1\n"},
		{"not a number", "x,1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(strings.NewReader(tt.src)); err == nil {
				t.Error("expected error")
			}
		})
	}
}
