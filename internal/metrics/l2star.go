package metrics

import "math"

// MaxL2StarPoints bounds the sets Default measures with L2Star.
const MaxL2StarPoints = 1 << 12

// L2Star is the squared L2-star discrepancy, computed with Warnock's
// formula once all points are observed. Cost is quadratic in the number
// of points.
type L2Star struct {
	name   string
	dim    int
	points [][]float64
}

func NewL2Star(dim int) *L2Star {
	return &L2Star{name: "l2_star", dim: dim}
}

func (l *L2Star) Name() string { return l.name }

func (l *L2Star) Observe(_ uint64, p []float64) {
	l.points = append(l.points, append([]float64(nil), p[:l.dim]...))
}

func (l *L2Star) Value() float64 {
	n := float64(len(l.points))
	if n == 0 {
		return 0
	}
	d := float64(l.dim)

	var single float64
	for _, p := range l.points {
		prod := 1.0
		for _, x := range p {
			prod *= 1 - x*x
		}
		single += prod
	}

	var pairs float64
	for a, p := range l.points {
		for b, q := range l.points {
			if b < a {
				continue
			}
			prod := 1.0
			for j := range p {
				prod *= 1 - math.Max(p[j], q[j])
			}
			if b == a {
				pairs += prod
			} else {
				pairs += 2 * prod
			}
		}
	}

	return math.Pow(3, -d) - math.Pow(2, 1-d)/n*single + pairs/(n*n)
}

func (l *L2Star) Reset() { l.points = l.points[:0] }
