package metrics

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/latnet/internal/construct"
	"github.com/san-kum/latnet/internal/pointset"
	"github.com/san-kum/latnet/internal/primpoly"
)

func sobolSet(t *testing.T, dim int, m uint) pointset.PointSet {
	t.Helper()
	dirnums, err := construct.JoeKuoDirectionNumbers(dim)
	if err != nil {
		t.Fatal(err)
	}
	mats, err := construct.SobolMatrices(primpoly.Default(), dirnums, m)
	if err != nil {
		t.Fatal(err)
	}
	net, err := pointset.NewDigitalNet(mats, 1)
	if err != nil {
		t.Fatal(err)
	}
	return net
}

func TestMeanDeviation(t *testing.T) {
	m := NewMeanDeviation(1)
	m.Observe(0, []float64{0.2})
	m.Observe(1, []float64{0.4})
	if math.Abs(m.Value()-0.2) > 1e-12 {
		t.Errorf("expected 0.2, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestCoverage(t *testing.T) {
	ps := sobolSet(t, 6, 8)
	res, err := Evaluate(context.Background(), ps, NewCoverage(6, ps.Len()))
	if err != nil {
		t.Fatal(err)
	}
	if res[0].Value != 1 {
		t.Errorf("Sobol coverage = %f, want 1", res[0].Value)
	}

	lat, err := pointset.NewLattice(pointset.Plain(16), []uint64{1, 4})
	if err != nil {
		t.Fatal(err)
	}
	res, err = Evaluate(context.Background(), lat, NewCoverage(2, 16))
	if err != nil {
		t.Fatal(err)
	}
	if res[0].Value != 0.25 {
		t.Errorf("degenerate lattice coverage = %f, want 0.25", res[0].Value)
	}
}

func TestL2StarSinglePoint(t *testing.T) {
	l := NewL2Star(1)
	l.Observe(0, []float64{0.5})
	if math.Abs(l.Value()-1.0/12) > 1e-12 {
		t.Errorf("expected 1/12, got %f", l.Value())
	}
	l.Reset()
	if l.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestL2StarPrefersNets(t *testing.T) {
	ctx := context.Background()
	net := sobolSet(t, 2, 6)
	bad, err := pointset.NewLattice(pointset.Plain(64), []uint64{1, 1})
	if err != nil {
		t.Fatal(err)
	}

	good, err := Evaluate(ctx, net, NewL2Star(2))
	if err != nil {
		t.Fatal(err)
	}
	diag, err := Evaluate(ctx, bad, NewL2Star(2))
	if err != nil {
		t.Fatal(err)
	}
	if good[0].Value <= 0 || good[0].Value >= diag[0].Value {
		t.Errorf("Sobol %g, diagonal %g", good[0].Value, diag[0].Value)
	}
}

func TestEvaluateDefault(t *testing.T) {
	ps := sobolSet(t, 3, 5)
	res, err := Evaluate(context.Background(), ps, Default(ps.Len(), ps.Dimension())...)
	if err != nil {
		t.Fatal(err)
	}
	names := []string{"mean_deviation", "coverage", "l2_star"}
	if len(res) != len(names) {
		t.Fatalf("got %d results", len(res))
	}
	for i, r := range res {
		if r.Name != names[i] {
			t.Errorf("result %d is %s, want %s", i, r.Name, names[i])
		}
	}
	if want := math.Ldexp(1, -6); res[0].Value != want {
		t.Errorf("mean deviation %g, want %g", res[0].Value, want)
	}

	if ms := Default(MaxL2StarPoints+1, 2); len(ms) != 2 {
		t.Errorf("large sets should skip L2Star, got %d metrics", len(ms))
	}
}

func TestEvaluateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Evaluate(ctx, sobolSet(t, 1, 4), NewMeanDeviation(1)); err == nil {
		t.Error("expected context error")
	}
}
